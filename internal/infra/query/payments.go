package query

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const paymentColumns = `
id, booking_id, payer_id, payee_id, amount_cents, platform_fee_cents, owner_payout_cents,
currency, status, provider_order_id, provider_capture_id, provider_payer_id, payer_email,
raw_response, settled_at, created_at, updated_at`

func scanPayment(row scanner) (Payment, error) {
	var p Payment
	err := row.Scan(
		&p.ID,
		&p.BookingID,
		&p.PayerID,
		&p.PayeeID,
		&p.AmountCents,
		&p.PlatformFeeCents,
		&p.OwnerPayoutCents,
		&p.Currency,
		&p.Status,
		&p.ProviderOrderID,
		&p.ProviderCaptureID,
		&p.ProviderPayerID,
		&p.PayerEmail,
		&p.RawResponse,
		&p.SettledAt,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	return p, err
}

type CreatePaymentParams struct {
	ID               uuid.UUID
	BookingID        uuid.UUID
	PayerID          pgtype.UUID
	PayeeID          uuid.UUID
	AmountCents      int64
	PlatformFeeCents int64
	OwnerPayoutCents int64
	Currency         string
	Status           string
	ProviderOrderID  string
	CreatedAt        pgtype.Timestamptz
}

const createPayment = `
INSERT INTO payments (
    id, booking_id, payer_id, payee_id, amount_cents, platform_fee_cents, owner_payout_cents,
    currency, status, provider_order_id, created_at, updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $11)`

func (q *Queries) CreatePayment(ctx context.Context, db DBTX, arg CreatePaymentParams) error {
	_, err := db.Exec(ctx, createPayment,
		arg.ID, arg.BookingID, arg.PayerID, arg.PayeeID, arg.AmountCents, arg.PlatformFeeCents,
		arg.OwnerPayoutCents, arg.Currency, arg.Status, arg.ProviderOrderID, arg.CreatedAt)
	return err
}

const findPaymentByID = `SELECT ` + paymentColumns + ` FROM payments WHERE id = $1`

func (q *Queries) FindPaymentByID(ctx context.Context, db DBTX, id uuid.UUID) (Payment, error) {
	return scanPayment(db.QueryRow(ctx, findPaymentByID, id))
}

const findPaymentByOrderID = `SELECT ` + paymentColumns + ` FROM payments WHERE provider_order_id = $1`

func (q *Queries) FindPaymentByOrderID(ctx context.Context, db DBTX, orderID string) (Payment, error) {
	return scanPayment(db.QueryRow(ctx, findPaymentByOrderID, orderID))
}

const findPaymentByOrderIDForUpdate = findPaymentByOrderID + ` FOR UPDATE`

func (q *Queries) FindPaymentByOrderIDForUpdate(ctx context.Context, db DBTX, orderID string) (Payment, error) {
	return scanPayment(db.QueryRow(ctx, findPaymentByOrderIDForUpdate, orderID))
}

type SettlePaymentParams struct {
	ID                uuid.UUID
	Status            string
	ProviderCaptureID pgtype.Text
	ProviderPayerID   pgtype.Text
	PayerEmail        pgtype.Text
	RawResponse       []byte
	SettledAt         pgtype.Timestamptz
}

// Only a pending payment can be settled; zero rows affected means someone
// else got there first.
const settlePayment = `
UPDATE payments
SET status = $2, provider_capture_id = $3, provider_payer_id = $4, payer_email = $5,
    raw_response = $6, settled_at = $7, updated_at = $7
WHERE id = $1 AND status = 'pending'`

func (q *Queries) SettlePayment(ctx context.Context, db DBTX, arg SettlePaymentParams) (int64, error) {
	tag, err := db.Exec(ctx, settlePayment,
		arg.ID, arg.Status, arg.ProviderCaptureID, arg.ProviderPayerID, arg.PayerEmail, arg.RawResponse, arg.SettledAt)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

const listOpenPaymentsByBookingForUpdate = `SELECT ` + paymentColumns + ` FROM payments
WHERE booking_id = $1 AND status IN ('pending', 'completed')
ORDER BY created_at
FOR UPDATE`

func (q *Queries) ListOpenPaymentsByBookingForUpdate(ctx context.Context, db DBTX, bookingID uuid.UUID) ([]Payment, error) {
	rows, err := db.Query(ctx, listOpenPaymentsByBookingForUpdate, bookingID)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanPayment)
}

const countPaymentsByBooking = `SELECT count(*) FROM payments WHERE booking_id = $1`

func (q *Queries) CountPaymentsByBooking(ctx context.Context, db DBTX, bookingID uuid.UUID) (int64, error) {
	var n int64
	err := db.QueryRow(ctx, countPaymentsByBooking, bookingID).Scan(&n)
	return n, err
}

type ListPaymentsParams struct {
	PayerID pgtype.UUID
	PayeeID pgtype.UUID
	Limit   int32
	Offset  int32
}

const paymentFilter = `
WHERE ($1::uuid IS NULL OR payer_id = $1)
  AND ($2::uuid IS NULL OR payee_id = $2)`

const listPayments = `SELECT ` + paymentColumns + ` FROM payments` + paymentFilter + `
ORDER BY created_at DESC, id DESC
LIMIT $3 OFFSET $4`

func (q *Queries) ListPayments(ctx context.Context, db DBTX, arg ListPaymentsParams) ([]Payment, error) {
	rows, err := db.Query(ctx, listPayments, arg.PayerID, arg.PayeeID, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanPayment)
}

const countPayments = `SELECT count(*) FROM payments` + paymentFilter

func (q *Queries) CountPayments(ctx context.Context, db DBTX, arg ListPaymentsParams) (int64, error) {
	var n int64
	err := db.QueryRow(ctx, countPayments, arg.PayerID, arg.PayeeID).Scan(&n)
	return n, err
}
