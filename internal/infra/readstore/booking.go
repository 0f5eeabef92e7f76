package readstore

import (
	"context"
	"strings"

	"travel-booking/internal/domain/booking"
	"travel-booking/internal/infra"
	"travel-booking/internal/infra/query"
	"travel-booking/internal/infra/repository"
	"travel-booking/internal/pkg/pgconv"
	"travel-booking/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type BookingViewQueries interface {
	FindBookingByID(ctx context.Context, db query.DBTX, id uuid.UUID) (query.BookingRow, error)
	FindBookingByReference(ctx context.Context, db query.DBTX, reference string) (query.BookingRow, error)
	ListBookingsInRange(ctx context.Context, db query.DBTX, resourceID uuid.UUID, from, to pgtype.Date) ([]query.BookingRow, error)
	ListBookings(ctx context.Context, db query.DBTX, arg query.ListBookingsParams) ([]query.BookingRow, error)
	CountBookings(ctx context.Context, db query.DBTX, arg query.ListBookingsParams) (int64, error)
}

type BookingReadStore struct {
	queries BookingViewQueries
	db      query.DBTX
}

func NewBookingReadStore(queries BookingViewQueries, db query.DBTX) *BookingReadStore {
	return &BookingReadStore{
		queries: queries,
		db:      db,
	}
}

func (r *BookingReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.BookingView, error) {
	row, err := r.queries.FindBookingByID(ctx, r.db, id)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("booking not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find booking by ID", err)
	}
	return toBookingView(row), nil
}

func (r *BookingReadStore) FindByReference(ctx context.Context, reference string) (*queries.BookingView, error) {
	row, err := r.queries.FindBookingByReference(ctx, r.db, reference)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("booking not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find booking by reference", err)
	}
	return toBookingView(row), nil
}

func (r *BookingReadStore) StaysInRange(ctx context.Context, resourceID uuid.UUID, stay booking.DateRange) ([]booking.Stay, error) {
	rows, err := r.queries.ListBookingsInRange(ctx, r.db, resourceID,
		pgconv.DateToPgtype(stay.Start()), pgconv.DateToPgtype(stay.End()))
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list bookings in range", err)
	}
	return repository.StaysFromRows(rows)
}

func (r *BookingReadStore) List(ctx context.Context, p queries.BookingListParams) ([]*queries.BookingView, int64, error) {
	params := query.ListBookingsParams{
		Status:     pgconv.StringPtrToPgtype(p.Filters.Status),
		ResourceID: pgconv.UUIDPtrToPgtype(p.Filters.ResourceID),
		OwnerID:    pgconv.UUIDPtrToPgtype(p.OwnerID),
		UserID:     pgconv.UUIDPtrToPgtype(p.UserID),
		Limit:      int32(p.Limit),  // #nosec G115 -- bounded by queries.MaxListLimit
		Offset:     int32(p.Offset), // #nosec G115 -- bounded by queries.NormalizePage
	}
	if p.Filters.Email != nil {
		params.Email = pgtype.Text{String: escapeLike(*p.Filters.Email), Valid: true}
	}

	total, err := r.queries.CountBookings(ctx, r.db, params)
	if err != nil {
		return nil, 0, infra.WrapRepoErr("failed to count bookings", err)
	}
	if total == 0 {
		return []*queries.BookingView{}, 0, nil
	}

	rows, err := r.queries.ListBookings(ctx, r.db, params)
	if err != nil {
		return nil, 0, infra.WrapRepoErr("failed to list bookings", err)
	}

	result := make([]*queries.BookingView, len(rows))
	for i, row := range rows {
		result[i] = toBookingView(row)
	}
	return result, total, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes user input match literally inside an ILIKE pattern.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func toBookingView(row query.BookingRow) *queries.BookingView {
	checkIn := pgconv.DateFromPgtype(row.CheckIn)
	checkOut := pgconv.DateFromPgtype(row.CheckOut)
	return &queries.BookingView{
		ID:              row.ID,
		Reference:       row.Reference,
		ResourceID:      row.ResourceID,
		ResourceTitle:   row.ResourceTitle,
		ResourceKind:    row.ResourceKind,
		OwnerID:         row.OwnerID,
		UserID:          pgconv.UUIDPtrFromPgtype(row.UserID),
		CheckIn:         checkIn,
		CheckOut:        checkOut,
		Units:           int(checkOut.Sub(checkIn).Hours() / 24),
		Adults:          int(row.Adults),
		Children:        int(row.Children),
		Quantity:        int(row.Quantity),
		GuestName:       row.GuestName,
		GuestEmail:      row.GuestEmail,
		GuestPhone:      row.GuestPhone,
		SpecialRequests: row.SpecialRequests,
		UnitPriceCents:  row.UnitPriceCents,
		TotalCents:      row.TotalCents,
		Currency:        row.Currency,
		Status:          row.Status,
		AdminNotes:      pgconv.StringPtrFromPgtype(row.AdminNotes),
		CreatedAt:       row.CreatedAt.Time,
		UpdatedAt:       row.UpdatedAt.Time,
	}
}
