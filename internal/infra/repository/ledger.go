package repository

import (
	"context"

	"travel-booking/internal/domain/payment"
	"travel-booking/internal/infra"
	"travel-booking/internal/infra/query"
)

type LedgerWriteQueries interface {
	CreateLedgerEntry(ctx context.Context, db query.DBTX, arg query.CreateLedgerEntryParams) error
}

type LedgerRepository struct {
	queries LedgerWriteQueries
	db      query.DBTX
}

func NewLedgerRepository(queries LedgerWriteQueries, db query.DBTX) *LedgerRepository {
	return &LedgerRepository{
		queries: queries,
		db:      db,
	}
}

// Append records one history line. A second line for the same payment and
// direction violates a unique constraint and surfaces as KindDuplicateKey.
func (r *LedgerRepository) Append(ctx context.Context, e payment.LedgerEntry) error {
	err := r.queries.CreateLedgerEntry(ctx, r.db, query.CreateLedgerEntryParams{
		UserID:      e.UserID,
		PaymentID:   e.PaymentID,
		BookingID:   e.BookingID,
		Direction:   string(e.Direction),
		AmountCents: e.Amount.Cents(),
		Currency:    e.Amount.Currency(),
	})
	if err != nil {
		return infra.WrapRepoErr("failed to append ledger entry", err)
	}
	return nil
}
