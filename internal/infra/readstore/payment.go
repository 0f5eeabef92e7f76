package readstore

import (
	"context"

	"travel-booking/internal/infra"
	"travel-booking/internal/infra/query"
	"travel-booking/internal/pkg/pgconv"
	"travel-booking/internal/usecase/queries"

	"github.com/google/uuid"
)

type PaymentViewQueries interface {
	FindPaymentByID(ctx context.Context, db query.DBTX, id uuid.UUID) (query.Payment, error)
	ListPayments(ctx context.Context, db query.DBTX, arg query.ListPaymentsParams) ([]query.Payment, error)
	CountPayments(ctx context.Context, db query.DBTX, arg query.ListPaymentsParams) (int64, error)
	ListLedgerEntriesByPayment(ctx context.Context, db query.DBTX, paymentID uuid.UUID) ([]query.LedgerEntry, error)
}

type PaymentReadStore struct {
	queries PaymentViewQueries
	db      query.DBTX
}

func NewPaymentReadStore(queries PaymentViewQueries, db query.DBTX) *PaymentReadStore {
	return &PaymentReadStore{
		queries: queries,
		db:      db,
	}
}

func (r *PaymentReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.PaymentView, error) {
	row, err := r.queries.FindPaymentByID(ctx, r.db, id)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("payment not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find payment by ID", err)
	}

	entries, err := r.queries.ListLedgerEntriesByPayment(ctx, r.db, id)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list ledger entries", err)
	}

	view := toPaymentView(row)
	view.Ledger = make([]queries.LedgerEntryView, len(entries))
	for i, e := range entries {
		view.Ledger[i] = queries.LedgerEntryView{
			UserID:      e.UserID,
			Direction:   e.Direction,
			AmountCents: e.AmountCents,
			Currency:    e.Currency,
			CreatedAt:   e.CreatedAt.Time,
		}
	}
	return view, nil
}

func (r *PaymentReadStore) ListByPayer(ctx context.Context, payerID uuid.UUID, limit, offset int) ([]*queries.PaymentView, int64, error) {
	return r.list(ctx, query.ListPaymentsParams{
		PayerID: pgconv.UUIDToPgtype(payerID),
		Limit:   int32(limit),  // #nosec G115 -- bounded by queries.MaxListLimit
		Offset:  int32(offset), // #nosec G115 -- bounded by queries.NormalizePage
	})
}

func (r *PaymentReadStore) ListByPayee(ctx context.Context, payeeID uuid.UUID, limit, offset int) ([]*queries.PaymentView, int64, error) {
	return r.list(ctx, query.ListPaymentsParams{
		PayeeID: pgconv.UUIDToPgtype(payeeID),
		Limit:   int32(limit),  // #nosec G115 -- bounded by queries.MaxListLimit
		Offset:  int32(offset), // #nosec G115 -- bounded by queries.NormalizePage
	})
}

func (r *PaymentReadStore) list(ctx context.Context, params query.ListPaymentsParams) ([]*queries.PaymentView, int64, error) {
	total, err := r.queries.CountPayments(ctx, r.db, params)
	if err != nil {
		return nil, 0, infra.WrapRepoErr("failed to count payments", err)
	}
	if total == 0 {
		return []*queries.PaymentView{}, 0, nil
	}

	rows, err := r.queries.ListPayments(ctx, r.db, params)
	if err != nil {
		return nil, 0, infra.WrapRepoErr("failed to list payments", err)
	}

	result := make([]*queries.PaymentView, len(rows))
	for i, row := range rows {
		result[i] = toPaymentView(row)
	}
	return result, total, nil
}

func toPaymentView(row query.Payment) *queries.PaymentView {
	return &queries.PaymentView{
		ID:                row.ID,
		BookingID:         row.BookingID,
		PayerID:           pgconv.UUIDPtrFromPgtype(row.PayerID),
		PayeeID:           row.PayeeID,
		AmountCents:       row.AmountCents,
		PlatformFeeCents:  row.PlatformFeeCents,
		OwnerPayoutCents:  row.OwnerPayoutCents,
		Currency:          row.Currency,
		Status:            row.Status,
		ProviderOrderID:   row.ProviderOrderID,
		ProviderCaptureID: pgconv.StringPtrFromPgtype(row.ProviderCaptureID),
		ProviderPayerID:   pgconv.StringPtrFromPgtype(row.ProviderPayerID),
		PayerEmail:        pgconv.StringPtrFromPgtype(row.PayerEmail),
		SettledAt:         pgconv.TimePtrFromPgtype(row.SettledAt),
		CreatedAt:         row.CreatedAt.Time,
		UpdatedAt:         row.UpdatedAt.Time,
	}
}
