package query

import (
	"context"

	"github.com/google/uuid"
)

type CreateLedgerEntryParams struct {
	UserID      uuid.UUID
	PaymentID   uuid.UUID
	BookingID   uuid.UUID
	Direction   string
	AmountCents int64
	Currency    string
}

const createLedgerEntry = `
INSERT INTO payment_ledger_entries (user_id, payment_id, booking_id, direction, amount_cents, currency)
VALUES ($1, $2, $3, $4, $5, $6)`

func (q *Queries) CreateLedgerEntry(ctx context.Context, db DBTX, arg CreateLedgerEntryParams) error {
	_, err := db.Exec(ctx, createLedgerEntry,
		arg.UserID, arg.PaymentID, arg.BookingID, arg.Direction, arg.AmountCents, arg.Currency)
	return err
}

const listLedgerEntriesByPayment = `
SELECT id, user_id, payment_id, booking_id, direction, amount_cents, currency, created_at
FROM payment_ledger_entries
WHERE payment_id = $1
ORDER BY direction`

func (q *Queries) ListLedgerEntriesByPayment(ctx context.Context, db DBTX, paymentID uuid.UUID) ([]LedgerEntry, error) {
	rows, err := db.Query(ctx, listLedgerEntriesByPayment, paymentID)
	if err != nil {
		return nil, err
	}
	return collect(rows, func(row scanner) (LedgerEntry, error) {
		var e LedgerEntry
		err := row.Scan(&e.ID, &e.UserID, &e.PaymentID, &e.BookingID, &e.Direction, &e.AmountCents, &e.Currency, &e.CreatedAt)
		return e, err
	})
}
