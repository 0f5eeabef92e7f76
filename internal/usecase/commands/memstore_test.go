//go:build unit

package commands_test

import (
	"context"
	"maps"
	"sync"
	"testing"
	"time"

	"travel-booking/internal/domain/booking"
	"travel-booking/internal/domain/payment"
	"travel-booking/internal/domain/resource"
	"travel-booking/internal/domain/user"
	reqdto "travel-booking/internal/handler/dto/request"
	"travel-booking/internal/infra"
	"travel-booking/internal/infra/query"
	"travel-booking/internal/usecase/queries"
	"travel-booking/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

type notificationJob struct {
	Kind    string
	Topic   string
	Payload []byte
	RunAt   time.Time
}

type memState struct {
	resources map[uuid.UUID]*shared.ResourceSnapshot
	bookings  map[uuid.UUID]booking.Booking
	payments  map[uuid.UUID]payment.Payment
	users     map[uuid.UUID]shared.UserSnapshot
	earnings  map[uuid.UUID]int64
	logins    map[uuid.UUID]int
	ledger    []payment.LedgerEntry
	jobs      []notificationJob
}

func (s memState) clone() memState {
	return memState{
		resources: maps.Clone(s.resources),
		bookings:  maps.Clone(s.bookings),
		payments:  maps.Clone(s.payments),
		users:     maps.Clone(s.users),
		earnings:  maps.Clone(s.earnings),
		logins:    maps.Clone(s.logins),
		ledger:    append([]payment.LedgerEntry(nil), s.ledger...),
		jobs:      append([]notificationJob(nil), s.jobs...),
	}
}

// memStore is an in-memory unit of work. Writes made inside Within are
// discarded when the callback fails, and the booking table enforces the same
// reference and overlap constraints as the schema.
type memStore struct {
	mu       sync.Mutex
	state    memState
	failures map[string][]error
	calls    map[string]int

	// beforeCreate runs once inside the next Bookings.Create.
	beforeCreate func()
	// raced holds bookings committed by a competing transaction; they
	// survive our rollback.
	raced []booking.Booking
}

func newMemStore() *memStore {
	return &memStore{
		state: memState{
			resources: map[uuid.UUID]*shared.ResourceSnapshot{},
			bookings:  map[uuid.UUID]booking.Booking{},
			payments:  map[uuid.UUID]payment.Payment{},
			users:     map[uuid.UUID]shared.UserSnapshot{},
			earnings:  map[uuid.UUID]int64{},
			logins:    map[uuid.UUID]int{},
		},
		failures: map[string][]error{},
		calls:    map[string]int{},
	}
}

// failNext makes the next call of op return err.
func (m *memStore) failNext(op string, err error) {
	m.failures[op] = append(m.failures[op], err)
}

func (m *memStore) hit(op string) error {
	m.calls[op]++
	queue := m.failures[op]
	if len(queue) == 0 {
		return nil
	}
	m.failures[op] = queue[1:]
	return queue[0]
}

func (m *memStore) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	saved := m.state.clone()
	if err := fn(ctx, memTx{m}); err != nil {
		m.state = saved
		for _, b := range m.raced {
			m.state.bookings[b.ID()] = b
		}
		return err
	}
	return nil
}

func (m *memStore) CommandReads() shared.CommandReads {
	return memReads{m}
}

func (m *memStore) addResource(r *shared.ResourceSnapshot) {
	m.state.resources[r.ID] = r
}

func (m *memStore) addUser(u shared.UserSnapshot) {
	m.state.users[u.ID] = u
}

func (m *memStore) putBooking(b *booking.Booking) {
	m.state.bookings[b.ID()] = *b
}

func (m *memStore) putPayment(p *payment.Payment) {
	m.state.payments[p.ID()] = *p
}

// commitOutside stores b as if another transaction had committed it.
func (m *memStore) commitOutside(b *booking.Booking) {
	m.raced = append(m.raced, *b)
	m.putBooking(b)
}

func (m *memStore) booking(id uuid.UUID) *booking.Booking {
	b, ok := m.state.bookings[id]
	if !ok {
		return nil
	}
	return &b
}

func (m *memStore) payment(id uuid.UUID) *payment.Payment {
	p, ok := m.state.payments[id]
	if !ok {
		return nil
	}
	return &p
}

func mustRange(t *testing.T, checkIn, checkOut string) booking.DateRange {
	t.Helper()
	stay, err := reqdto.ParseStay(checkIn, checkOut)
	if err != nil {
		t.Fatalf("parse stay: %v", err)
	}
	return stay
}

func newPendingPayment(t *testing.T, b *booking.Booking, orderID string) *payment.Payment {
	t.Helper()
	p, err := payment.NewPayment(b.ID(), b.UserID(), b.OwnerID(), b.Total(), orderID, b.CreatedAt())
	if err != nil {
		t.Fatalf("new payment: %v", err)
	}
	return p
}

func notFound(msg string) error {
	return infra.WrapRepoErr(msg, nil, infra.KindNotFound)
}

func pgErr(code, constraint string) error {
	return infra.WrapRepoErr("write failed", &pgconn.PgError{Code: code, ConstraintName: constraint})
}

func (m *memStore) stays(resourceID uuid.UUID, stay booking.DateRange) []booking.Stay {
	var out []booking.Stay
	for _, b := range m.state.bookings {
		if b.ResourceID() == resourceID && b.Stay().Overlaps(stay) {
			out = append(out, b.AsStay())
		}
	}
	return out
}

type memReads struct{ m *memStore }

func (r memReads) ResourceByID(_ context.Context, id uuid.UUID) (*shared.ResourceSnapshot, error) {
	res, ok := r.m.state.resources[id]
	if !ok {
		return nil, notFound("resource not found")
	}
	return res, nil
}

func (r memReads) BookingByID(_ context.Context, id uuid.UUID) (*booking.Booking, error) {
	if b := r.m.booking(id); b != nil {
		return b, nil
	}
	return nil, notFound("booking not found")
}

func (r memReads) BookingStays(_ context.Context, resourceID uuid.UUID, stay booking.DateRange) ([]booking.Stay, error) {
	return r.m.stays(resourceID, stay), nil
}

func (r memReads) PaymentByOrderID(_ context.Context, orderID string) (*payment.Payment, error) {
	for _, p := range r.m.state.payments {
		if p.ProviderOrderID() == orderID {
			return &p, nil
		}
	}
	return nil, notFound("payment not found")
}

func (r memReads) UserByEmail(_ context.Context, email string) (*shared.UserSnapshot, error) {
	for _, u := range r.m.state.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, notFound("user not found")
}

func (r memReads) UserByID(_ context.Context, id uuid.UUID) (*shared.UserSnapshot, error) {
	u, ok := r.m.state.users[id]
	if !ok {
		return nil, notFound("user not found")
	}
	return &u, nil
}

type memTx struct{ m *memStore }

func (t memTx) Bookings() shared.BookingRepository           { return memBookings(t) }
func (t memTx) Payments() shared.PaymentRepository           { return memPayments(t) }
func (t memTx) Ledger() shared.LedgerRepository              { return memLedger(t) }
func (t memTx) Users() shared.UserRepository                 { return memUsers(t) }
func (t memTx) Resources() shared.ResourceRepository         { return memResources(t) }
func (t memTx) Notifications() shared.NotificationRepository { return memNotifications(t) }
func (t memTx) Reads() shared.CommandReads                   { return memReads(t) }
func (t memTx) DB() query.DBTX                               { return nil }

type memBookings struct{ m *memStore }

func (r memBookings) Create(_ context.Context, b *booking.Booking) error {
	if err := r.m.hit("Bookings.Create"); err != nil {
		return err
	}
	if hook := r.m.beforeCreate; hook != nil {
		r.m.beforeCreate = nil
		hook()
	}
	for _, existing := range r.m.state.bookings {
		if existing.Reference() == b.Reference() {
			return pgErr("23505", infra.ConstraintBookingReference)
		}
	}
	if len(booking.FindOverlaps(b.Stay(), r.m.stays(b.ResourceID(), b.Stay()))) > 0 {
		return pgErr("23P01", infra.ConstraintBookingNoOverlap)
	}
	r.m.putBooking(b)
	return nil
}

func (r memBookings) FindForUpdate(_ context.Context, id uuid.UUID) (*booking.Booking, error) {
	if b := r.m.booking(id); b != nil {
		return b, nil
	}
	return nil, notFound("booking not found")
}

func (r memBookings) StaysInRange(_ context.Context, resourceID uuid.UUID, stay booking.DateRange) ([]booking.Stay, error) {
	if err := r.m.hit("Bookings.StaysInRange"); err != nil {
		return nil, err
	}
	return r.m.stays(resourceID, stay), nil
}

func (r memBookings) UpdateStatus(_ context.Context, b *booking.Booking) error {
	if err := r.m.hit("Bookings.UpdateStatus"); err != nil {
		return err
	}
	r.m.putBooking(b)
	return nil
}

func (r memBookings) Delete(_ context.Context, id uuid.UUID) error {
	if err := r.m.hit("Bookings.Delete"); err != nil {
		return err
	}
	delete(r.m.state.bookings, id)
	return nil
}

type memPayments struct{ m *memStore }

func (r memPayments) Create(_ context.Context, p *payment.Payment) error {
	if err := r.m.hit("Payments.Create"); err != nil {
		return err
	}
	for _, existing := range r.m.state.payments {
		if existing.ProviderOrderID() == p.ProviderOrderID() {
			return pgErr("23505", infra.ConstraintPaymentOrderID)
		}
	}
	for _, existing := range r.m.state.payments {
		if existing.BookingID() == p.BookingID() && isOpen(&existing) && isOpen(p) {
			return pgErr("23505", infra.ConstraintPaymentOpenPerBooking)
		}
	}
	r.m.putPayment(p)
	return nil
}

func isOpen(p *payment.Payment) bool {
	return p.Status() == payment.StatusPending || p.Status() == payment.StatusCompleted
}

func (r memPayments) OpenForBooking(_ context.Context, bookingID uuid.UUID) ([]*payment.Payment, error) {
	if err := r.m.hit("Payments.OpenForBooking"); err != nil {
		return nil, err
	}
	var out []*payment.Payment
	for _, p := range r.m.state.payments {
		if p.BookingID() == bookingID && isOpen(&p) {
			out = append(out, &p)
		}
	}
	return out, nil
}

func (r memPayments) FindByOrderIDForUpdate(ctx context.Context, orderID string) (*payment.Payment, error) {
	return memReads(r).PaymentByOrderID(ctx, orderID)
}

func (r memPayments) Settle(_ context.Context, p *payment.Payment) error {
	if err := r.m.hit("Payments.Settle"); err != nil {
		return err
	}
	r.m.putPayment(p)
	return nil
}

func (r memPayments) CountByBooking(_ context.Context, bookingID uuid.UUID) (int64, error) {
	var n int64
	for _, p := range r.m.state.payments {
		if p.BookingID() == bookingID {
			n++
		}
	}
	return n, nil
}

type memLedger struct{ m *memStore }

func (r memLedger) Append(_ context.Context, e payment.LedgerEntry) error {
	if err := r.m.hit("Ledger.Append"); err != nil {
		return err
	}
	r.m.state.ledger = append(r.m.state.ledger, e)
	return nil
}

type memUsers struct{ m *memStore }

func (r memUsers) Create(_ context.Context, u *user.User) (uuid.UUID, error) {
	if err := r.m.hit("Users.Create"); err != nil {
		return uuid.Nil, err
	}
	for _, existing := range r.m.state.users {
		if existing.Email == u.Email().Value() {
			return uuid.Nil, pgErr("23505", infra.ConstraintUserEmail)
		}
	}
	id := uuid.New()
	r.m.state.users[id] = shared.UserSnapshot{
		ID:           id,
		Email:        u.Email().Value(),
		Name:         u.Name(),
		Role:         u.Role().String(),
		IsActive:     true,
		PasswordHash: u.PasswordHash(),
	}
	return id, nil
}

func (r memUsers) UpdateLastLogin(_ context.Context, userID uuid.UUID) error {
	if err := r.m.hit("Users.UpdateLastLogin"); err != nil {
		return err
	}
	r.m.state.logins[userID]++
	return nil
}

func (r memUsers) AddEarnings(_ context.Context, userID uuid.UUID, cents int64) error {
	if err := r.m.hit("Users.AddEarnings"); err != nil {
		return err
	}
	r.m.state.earnings[userID] += cents
	return nil
}

type memResources struct{ m *memStore }

func (r memResources) Create(_ context.Context, res *resource.Resource) error {
	if err := r.m.hit("Resources.Create"); err != nil {
		return err
	}
	r.m.state.resources[res.ID()] = &shared.ResourceSnapshot{
		ID:        res.ID(),
		OwnerID:   res.OwnerID(),
		Kind:      string(res.Kind()),
		Title:     res.Title(),
		UnitPrice: res.UnitPrice(),
		MaxGuests: res.MaxGuests(),
		Status:    string(res.Status()),
	}
	return nil
}

type memNotifications struct{ m *memStore }

func (r memNotifications) CreateJob(_ context.Context, kind, topic string, payload []byte, runAt time.Time) error {
	if err := r.m.hit("Notifications.CreateJob"); err != nil {
		return err
	}
	r.m.state.jobs = append(r.m.state.jobs, notificationJob{Kind: kind, Topic: topic, Payload: payload, RunAt: runAt})
	return nil
}

// memBookingReads serves the read side from the same state.
type memBookingReads struct{ m *memStore }

func (r memBookingReads) FindByID(_ context.Context, id uuid.UUID) (*queries.BookingView, error) {
	b := r.m.booking(id)
	if b == nil {
		return nil, notFound("booking not found")
	}
	return bookingView(b, r.m.state.resources[b.ResourceID()]), nil
}

func (r memBookingReads) FindByReference(_ context.Context, reference string) (*queries.BookingView, error) {
	for _, b := range r.m.state.bookings {
		if b.Reference().String() == reference {
			return bookingView(&b, r.m.state.resources[b.ResourceID()]), nil
		}
	}
	return nil, notFound("booking not found")
}

func (r memBookingReads) StaysInRange(_ context.Context, resourceID uuid.UUID, stay booking.DateRange) ([]booking.Stay, error) {
	return r.m.stays(resourceID, stay), nil
}

func (r memBookingReads) List(_ context.Context, _ queries.BookingListParams) ([]*queries.BookingView, int64, error) {
	var out []*queries.BookingView
	for _, b := range r.m.state.bookings {
		out = append(out, bookingView(&b, r.m.state.resources[b.ResourceID()]))
	}
	return out, int64(len(out)), nil
}

func bookingView(b *booking.Booking, res *shared.ResourceSnapshot) *queries.BookingView {
	v := &queries.BookingView{
		ID:              b.ID(),
		Reference:       b.Reference().String(),
		ResourceID:      b.ResourceID(),
		OwnerID:         b.OwnerID(),
		UserID:          b.UserID(),
		CheckIn:         b.Stay().Start(),
		CheckOut:        b.Stay().End(),
		Units:           b.Stay().Units(),
		Adults:          b.Occupancy().Adults(),
		Children:        b.Occupancy().Children(),
		Quantity:        b.Occupancy().Quantity(),
		GuestName:       b.Guest().Name(),
		GuestEmail:      b.Guest().Email(),
		GuestPhone:      b.Guest().Phone(),
		SpecialRequests: b.SpecialRequests(),
		UnitPriceCents:  b.UnitPrice().Cents(),
		TotalCents:      b.Total().Cents(),
		Currency:        b.Total().Currency(),
		Status:          b.Status().String(),
		AdminNotes:      b.AdminNotes(),
		CreatedAt:       b.CreatedAt(),
		UpdatedAt:       b.UpdatedAt(),
	}
	if res != nil {
		v.ResourceTitle = res.Title
		v.ResourceKind = res.Kind
	}
	return v
}

type memPaymentReads struct{ m *memStore }

func (r memPaymentReads) FindByID(_ context.Context, id uuid.UUID) (*queries.PaymentView, error) {
	p := r.m.payment(id)
	if p == nil {
		return nil, notFound("payment not found")
	}
	return &queries.PaymentView{
		ID:                p.ID(),
		BookingID:         p.BookingID(),
		PayerID:           p.PayerID(),
		PayeeID:           p.PayeeID(),
		AmountCents:       p.Amount().Cents(),
		PlatformFeeCents:  p.PlatformFee().Cents(),
		OwnerPayoutCents:  p.OwnerPayout().Cents(),
		Currency:          p.Amount().Currency(),
		Status:            p.Status().String(),
		ProviderOrderID:   p.ProviderOrderID(),
		ProviderCaptureID: p.ProviderCaptureID(),
		ProviderPayerID:   p.ProviderPayerID(),
		PayerEmail:        p.PayerEmail(),
		SettledAt:         p.SettledAt(),
		CreatedAt:         p.CreatedAt(),
		UpdatedAt:         p.UpdatedAt(),
	}, nil
}

func (r memPaymentReads) ListByPayer(context.Context, uuid.UUID, int, int) ([]*queries.PaymentView, int64, error) {
	return nil, 0, nil
}

func (r memPaymentReads) ListByPayee(context.Context, uuid.UUID, int, int) ([]*queries.PaymentView, int64, error) {
	return nil, 0, nil
}
