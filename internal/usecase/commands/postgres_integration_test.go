//go:build integration

package commands_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"travel-booking/internal/domain/booking"
	"travel-booking/internal/domain/policy"
	"travel-booking/internal/domain/user"
	reqdto "travel-booking/internal/handler/dto/request"
	"travel-booking/internal/infra/query"
	"travel-booking/internal/infra/readstore"
	"travel-booking/internal/infra/uow"
	commandsmock "travel-booking/internal/mock/commands"
	"travel-booking/internal/pkg/clock"
	"travel-booking/internal/pkg/errs"
	"travel-booking/internal/testutil/builder"
	"travel-booking/internal/testutil/dbtest"
	"travel-booking/internal/usecase/commands"
	"travel-booking/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type PostgresFlowTestSuite struct {
	suite.Suite
	pool       *pgxpool.Pool
	ctrl       *gomock.Controller
	provider   *commandsmock.MockPaymentProvider
	bookings   commands.BookingCommands
	payments   commands.PaymentCommands
	reads      *readstore.BookingReadStore
	ownerID    uuid.UUID
	guestID    uuid.UUID
	resourceID uuid.UUID
}

func TestPostgresFlowSuite(t *testing.T) {
	suite.Run(t, new(PostgresFlowTestSuite))
}

func (s *PostgresFlowTestSuite) SetupSuite() {
	s.pool, _ = dbtest.NewDatabase(s.T())
}

func (s *PostgresFlowTestSuite) SetupTest() {
	dbtest.ResetDB(s.T(), s.pool)

	s.ctrl = gomock.NewController(s.T())
	s.provider = commandsmock.NewMockPaymentProvider(s.ctrl)

	q := query.New()
	unitOfWork := uow.NewPostgresUoW(s.pool, q)
	s.reads = readstore.NewBookingReadStore(q, s.pool)
	clk := clock.NewMockClock(time.Date(2025, time.September, 15, 10, 0, 0, 0, time.UTC))
	services := &booking.Services{
		Clock:           clk,
		Location:        time.UTC,
		PriceCalculator: booking.NewUnitPriceCalculator(),
		References:      booking.NewRandomReferenceGenerator(),
	}
	s.bookings = commands.NewBookingCommands(unitOfWork, s.reads, services)
	s.payments = commands.NewPaymentCommands(unitOfWork, s.provider, readstore.NewPaymentReadStore(q, s.pool), s.reads, clk, commands.Settings{
		Currency: "USD",
		Checkout: commands.CheckoutURLs{
			ReturnURL: "http://localhost:3000/payment/success",
			CancelURL: "http://localhost:3000/payment/cancel",
		},
	})

	s.ownerID = dbtest.CreateUser(s.T(), s.pool, "owner@example.com", "owner")
	s.guestID = dbtest.CreateUser(s.T(), s.pool, "guest@example.com", "guest")
	s.resourceID = dbtest.CreateResource(s.T(), s.pool, s.ownerID, "property", 10000)
}

func (s *PostgresFlowTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *PostgresFlowTestSuite) request(checkIn, checkOut string) reqdto.CreateBookingRequest {
	req := builder.NewBookingBuilder().With(func(b *builder.BookingBuilder) {
		b.ResourceID = s.resourceID
	}).BuildCreateRequestDTO()
	req.CheckIn = checkIn
	req.CheckOut = checkOut
	return req
}

func (s *PostgresFlowTestSuite) TestConcurrentBookingsForSameDates() {
	const callers = 8
	ctx := context.Background()

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		created   int
		conflicts int
	)
	for range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.bookings.CreateBooking(ctx, s.request("2025-10-01", "2025-10-04"), policy.Anonymous())
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				created++
			case errs.Is(err, errs.ErrConflict):
				conflicts++
			default:
				s.Failf("unexpected error", "%+v", err)
			}
		}()
	}
	wg.Wait()

	s.Equal(1, created)
	s.Equal(callers-1, conflicts)
	s.Equal(1, dbtest.CountRows(s.T(), s.pool, "bookings"))
}

func (s *PostgresFlowTestSuite) TestOverlapIsReportedWithTheBlockingBooking() {
	ctx := context.Background()
	first, err := s.bookings.CreateBooking(ctx, s.request("2025-10-01", "2025-10-04"), policy.Anonymous())
	s.Require().NoError(err)

	_, err = s.bookings.CreateBooking(ctx, s.request("2025-10-03", "2025-10-06"), policy.Anonymous())
	s.Require().Error(err)
	var conflict *shared.ConflictError
	s.Require().ErrorAs(err, &conflict)
	s.Require().Len(conflict.Conflicts, 1)
	s.Equal(first.Reference, conflict.Conflicts[0].Reference.String())

	_, err = s.bookings.CreateBooking(ctx, s.request("2025-10-04", "2025-10-06"), policy.Anonymous())
	s.NoError(err, "check-out day is free for the next check-in")
}

func (s *PostgresFlowTestSuite) TestCancellationFreesDates() {
	ctx := context.Background()
	view, err := s.bookings.CreateBooking(ctx, s.request("2025-10-01", "2025-10-04"), policy.Anonymous())
	s.Require().NoError(err)

	_, err = s.bookings.UpdateStatus(ctx, view.ID, reqdto.UpdateBookingStatusRequest{Status: "cancelled"}, policy.NewActor(s.ownerID, user.RoleOwner))
	s.Require().NoError(err)

	_, err = s.bookings.CreateBooking(ctx, s.request("2025-10-01", "2025-10-04"), policy.Anonymous())
	s.NoError(err)
}

func (s *PostgresFlowTestSuite) TestCheckoutSettlesEverythingOnce() {
	ctx := context.Background()
	guest := policy.NewActor(s.guestID, user.RoleGuest)
	view, err := s.bookings.CreateBooking(ctx, s.request("2025-10-01", "2025-10-03"), guest)
	s.Require().NoError(err)

	s.provider.EXPECT().CreateOrder(gomock.Any(), gomock.Any()).
		Return(&commands.ProviderOrder{ID: "ORDER-PG-1", Status: "CREATED", ApprovalURL: "https://paypal.test/approve"}, nil)
	s.provider.EXPECT().CaptureOrder(gomock.Any(), "ORDER-PG-1").
		Return(&commands.ProviderCapture{OrderID: "ORDER-PG-1", Status: commands.ProviderStatusCompleted, CaptureID: "CAP-1"}, nil).
		Times(1)

	order, err := s.payments.CreateOrder(ctx, reqdto.CreateOrderRequest{BookingID: view.ID, Amount: "200.00"}, guest)
	s.Require().NoError(err)

	result, err := s.payments.CaptureOrder(ctx, order.OrderID, guest)
	s.Require().NoError(err)
	s.Equal("completed", result.Payment.Status)
	s.Equal("confirmed", result.Booking.Status)
	s.Len(result.Payment.Ledger, 2)

	s.Equal(int64(17000), dbtest.UserEarnings(s.T(), s.pool, s.ownerID))
	s.Equal(2, dbtest.CountRows(s.T(), s.pool, "payment_ledger_entries"))
	s.Equal(1, dbtest.CountRows(s.T(), s.pool, "notification_jobs"))

	_, err = s.payments.CaptureOrder(ctx, order.OrderID, guest)
	s.ErrorIs(err, commands.ErrPaymentAlreadySettled)
	s.Equal(int64(17000), dbtest.UserEarnings(s.T(), s.pool, s.ownerID))
}

func (s *PostgresFlowTestSuite) TestNewOrderSupersedesPendingOne() {
	ctx := context.Background()
	guest := policy.NewActor(s.guestID, user.RoleGuest)
	view, err := s.bookings.CreateBooking(ctx, s.request("2025-10-01", "2025-10-03"), guest)
	s.Require().NoError(err)

	gomock.InOrder(
		s.provider.EXPECT().CreateOrder(gomock.Any(), gomock.Any()).
			Return(&commands.ProviderOrder{ID: "ORDER-PG-A", Status: "CREATED"}, nil),
		s.provider.EXPECT().CreateOrder(gomock.Any(), gomock.Any()).
			Return(&commands.ProviderOrder{ID: "ORDER-PG-B", Status: "CREATED"}, nil),
	)
	req := reqdto.CreateOrderRequest{BookingID: view.ID, Amount: "200.00"}
	_, err = s.payments.CreateOrder(ctx, req, guest)
	s.Require().NoError(err)
	_, err = s.payments.CreateOrder(ctx, req, guest)
	s.Require().NoError(err)

	s.Equal(2, dbtest.CountRows(s.T(), s.pool, "payments"))
	_, err = s.payments.CaptureOrder(ctx, "ORDER-PG-A", guest)
	s.ErrorIs(err, commands.ErrPaymentAlreadySettled)
	s.Zero(dbtest.UserEarnings(s.T(), s.pool, s.ownerID))
}
