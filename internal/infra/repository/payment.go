package repository

import (
	"context"

	"travel-booking/internal/domain/money"
	"travel-booking/internal/domain/payment"
	"travel-booking/internal/infra"
	"travel-booking/internal/infra/query"
	"travel-booking/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type PaymentWriteQueries interface {
	CreatePayment(ctx context.Context, db query.DBTX, arg query.CreatePaymentParams) error
	FindPaymentByOrderID(ctx context.Context, db query.DBTX, orderID string) (query.Payment, error)
	FindPaymentByOrderIDForUpdate(ctx context.Context, db query.DBTX, orderID string) (query.Payment, error)
	SettlePayment(ctx context.Context, db query.DBTX, arg query.SettlePaymentParams) (int64, error)
	CountPaymentsByBooking(ctx context.Context, db query.DBTX, bookingID uuid.UUID) (int64, error)
	ListOpenPaymentsByBookingForUpdate(ctx context.Context, db query.DBTX, bookingID uuid.UUID) ([]query.Payment, error)
}

type PaymentRepository struct {
	queries PaymentWriteQueries
	db      query.DBTX
}

func NewPaymentRepository(queries PaymentWriteQueries, db query.DBTX) *PaymentRepository {
	return &PaymentRepository{
		queries: queries,
		db:      db,
	}
}

func (r *PaymentRepository) Create(ctx context.Context, p *payment.Payment) error {
	params := query.CreatePaymentParams{
		ID:               p.ID(),
		BookingID:        p.BookingID(),
		PayerID:          pgconv.UUIDPtrToPgtype(p.PayerID()),
		PayeeID:          p.PayeeID(),
		AmountCents:      p.Amount().Cents(),
		PlatformFeeCents: p.PlatformFee().Cents(),
		OwnerPayoutCents: p.OwnerPayout().Cents(),
		Currency:         p.Amount().Currency(),
		Status:           p.Status().String(),
		ProviderOrderID:  p.ProviderOrderID(),
		CreatedAt:        pgconv.TimeToPgtype(p.CreatedAt()),
	}
	if err := r.queries.CreatePayment(ctx, r.db, params); err != nil {
		return infra.WrapRepoErr("failed to create payment", err)
	}
	return nil
}

func (r *PaymentRepository) FindByOrderID(ctx context.Context, orderID string) (*payment.Payment, error) {
	row, err := r.queries.FindPaymentByOrderID(ctx, r.db, orderID)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("payment not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find payment", err)
	}
	return PaymentFromRow(row)
}

// FindByOrderIDForUpdate locks the payment so a concurrent capture waits
// and then sees the settled status.
func (r *PaymentRepository) FindByOrderIDForUpdate(ctx context.Context, orderID string) (*payment.Payment, error) {
	row, err := r.queries.FindPaymentByOrderIDForUpdate(ctx, r.db, orderID)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("payment not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to lock payment", err)
	}
	return PaymentFromRow(row)
}

// Settle persists a completed or failed payment. It only touches rows that
// are still pending.
func (r *PaymentRepository) Settle(ctx context.Context, p *payment.Payment) error {
	params := query.SettlePaymentParams{
		ID:                p.ID(),
		Status:            p.Status().String(),
		ProviderCaptureID: pgconv.StringPtrToPgtype(p.ProviderCaptureID()),
		ProviderPayerID:   pgconv.StringPtrToPgtype(p.ProviderPayerID()),
		PayerEmail:        pgconv.StringPtrToPgtype(p.PayerEmail()),
		RawResponse:       p.RawResponse(),
	}
	if at := p.SettledAt(); at != nil {
		params.SettledAt = pgconv.TimeToPgtype(*at)
	} else {
		params.SettledAt = pgtype.Timestamptz{Valid: false}
	}

	n, err := r.queries.SettlePayment(ctx, r.db, params)
	if err != nil {
		return infra.WrapRepoErr("failed to settle payment", err)
	}
	if n == 0 {
		return infra.WrapRepoErr("pending payment not found", nil, infra.KindNotFound)
	}
	return nil
}

func (r *PaymentRepository) CountByBooking(ctx context.Context, bookingID uuid.UUID) (int64, error) {
	n, err := r.queries.CountPaymentsByBooking(ctx, r.db, bookingID)
	if err != nil {
		return 0, infra.WrapRepoErr("failed to count payments", err)
	}
	return n, nil
}

// OpenForBooking locks the pending and completed payments of a booking.
func (r *PaymentRepository) OpenForBooking(ctx context.Context, bookingID uuid.UUID) ([]*payment.Payment, error) {
	rows, err := r.queries.ListOpenPaymentsByBookingForUpdate(ctx, r.db, bookingID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to lock open payments", err)
	}
	result := make([]*payment.Payment, 0, len(rows))
	for _, row := range rows {
		p, err := PaymentFromRow(row)
		if err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	return result, nil
}

func PaymentFromRow(row query.Payment) (*payment.Payment, error) {
	amount, err := money.New(row.AmountCents, row.Currency)
	if err != nil {
		return nil, infra.WrapRepoErr("stored payment has invalid amount", err, infra.KindDBFailure)
	}
	fee, err := money.New(row.PlatformFeeCents, row.Currency)
	if err != nil {
		return nil, infra.WrapRepoErr("stored payment has invalid fee", err, infra.KindDBFailure)
	}
	payout, err := money.New(row.OwnerPayoutCents, row.Currency)
	if err != nil {
		return nil, infra.WrapRepoErr("stored payment has invalid payout", err, infra.KindDBFailure)
	}
	status, err := payment.ParseStatus(row.Status)
	if err != nil {
		return nil, infra.WrapRepoErr("stored payment has invalid status", err, infra.KindDBFailure)
	}

	return payment.ReconstructPayment(payment.Record{
		ID:                row.ID,
		BookingID:         row.BookingID,
		PayerID:           pgconv.UUIDPtrFromPgtype(row.PayerID),
		PayeeID:           row.PayeeID,
		Amount:            amount,
		PlatformFee:       fee,
		OwnerPayout:       payout,
		Status:            status,
		ProviderOrderID:   row.ProviderOrderID,
		ProviderCaptureID: pgconv.StringPtrFromPgtype(row.ProviderCaptureID),
		ProviderPayerID:   pgconv.StringPtrFromPgtype(row.ProviderPayerID),
		PayerEmail:        pgconv.StringPtrFromPgtype(row.PayerEmail),
		RawResponse:       row.RawResponse,
		SettledAt:         pgconv.TimePtrFromPgtype(row.SettledAt),
		CreatedAt:         row.CreatedAt.Time,
		UpdatedAt:         row.UpdatedAt.Time,
	}), nil
}
