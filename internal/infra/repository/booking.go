package repository

import (
	"context"

	"travel-booking/internal/domain/booking"
	"travel-booking/internal/domain/money"
	"travel-booking/internal/infra"
	"travel-booking/internal/infra/query"
	"travel-booking/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type BookingWriteQueries interface {
	CreateBooking(ctx context.Context, db query.DBTX, arg query.CreateBookingParams) error
	FindBookingByID(ctx context.Context, db query.DBTX, id uuid.UUID) (query.BookingRow, error)
	FindBookingByIDForUpdate(ctx context.Context, db query.DBTX, id uuid.UUID) (query.BookingRow, error)
	ListBookingsInRange(ctx context.Context, db query.DBTX, resourceID uuid.UUID, from, to pgtype.Date) ([]query.BookingRow, error)
	UpdateBookingStatus(ctx context.Context, db query.DBTX, arg query.UpdateBookingStatusParams) (int64, error)
	DeleteBooking(ctx context.Context, db query.DBTX, id uuid.UUID) (int64, error)
}

type BookingRepository struct {
	queries BookingWriteQueries
	db      query.DBTX
}

func NewBookingRepository(queries BookingWriteQueries, db query.DBTX) *BookingRepository {
	return &BookingRepository{
		queries: queries,
		db:      db,
	}
}

// Create inserts a pending booking. Overlaps rejected by the exclusion
// constraint come back as KindExclusionViolated on infra.ConstraintBookingNoOverlap.
func (r *BookingRepository) Create(ctx context.Context, b *booking.Booking) error {
	params := query.CreateBookingParams{
		ID:              b.ID(),
		Reference:       b.Reference().String(),
		ResourceID:      b.ResourceID(),
		UserID:          pgconv.UUIDPtrToPgtype(b.UserID()),
		CheckIn:         pgconv.DateToPgtype(b.Stay().Start()),
		CheckOut:        pgconv.DateToPgtype(b.Stay().End()),
		Adults:          int32(b.Occupancy().Adults()),   // #nosec G115 -- validated small
		Children:        int32(b.Occupancy().Children()), // #nosec G115
		Quantity:        int32(b.Occupancy().Quantity()), // #nosec G115
		GuestName:       b.Guest().Name(),
		GuestEmail:      b.Guest().Email(),
		GuestPhone:      b.Guest().Phone(),
		SpecialRequests: b.SpecialRequests(),
		UnitPriceCents:  b.UnitPrice().Cents(),
		TotalCents:      b.Total().Cents(),
		Currency:        b.Total().Currency(),
		Status:          b.Status().String(),
		CreatedAt:       pgconv.TimeToPgtype(b.CreatedAt()),
	}

	if err := r.queries.CreateBooking(ctx, r.db, params); err != nil {
		return infra.WrapRepoErr("failed to create booking", err)
	}
	return nil
}

func (r *BookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*booking.Booking, error) {
	row, err := r.queries.FindBookingByID(ctx, r.db, id)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("booking not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find booking", err)
	}
	return BookingFromRow(row)
}

// FindForUpdate locks the booking row until the transaction ends.
func (r *BookingRepository) FindForUpdate(ctx context.Context, id uuid.UUID) (*booking.Booking, error) {
	row, err := r.queries.FindBookingByIDForUpdate(ctx, r.db, id)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("booking not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to lock booking", err)
	}
	return BookingFromRow(row)
}

// StaysInRange returns every booking of the resource touching the range,
// whatever its status. Filtering by status is the caller's decision.
func (r *BookingRepository) StaysInRange(ctx context.Context, resourceID uuid.UUID, stay booking.DateRange) ([]booking.Stay, error) {
	rows, err := r.queries.ListBookingsInRange(ctx, r.db, resourceID,
		pgconv.DateToPgtype(stay.Start()), pgconv.DateToPgtype(stay.End()))
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list bookings in range", err)
	}
	return StaysFromRows(rows)
}

func (r *BookingRepository) UpdateStatus(ctx context.Context, b *booking.Booking) error {
	n, err := r.queries.UpdateBookingStatus(ctx, r.db, query.UpdateBookingStatusParams{
		ID:         b.ID(),
		Status:     b.Status().String(),
		AdminNotes: pgconv.StringPtrToPgtype(b.AdminNotes()),
		UpdatedAt:  pgconv.TimeToPgtype(b.UpdatedAt()),
	})
	if err != nil {
		return infra.WrapRepoErr("failed to update booking status", err)
	}
	if n == 0 {
		return infra.WrapRepoErr("booking not found", nil, infra.KindNotFound)
	}
	return nil
}

func (r *BookingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	n, err := r.queries.DeleteBooking(ctx, r.db, id)
	if err != nil {
		return infra.WrapRepoErr("failed to delete booking", err)
	}
	if n == 0 {
		return infra.WrapRepoErr("booking not found", nil, infra.KindNotFound)
	}
	return nil
}

func BookingFromRow(row query.BookingRow) (*booking.Booking, error) {
	stay, err := booking.NewDateRange(pgconv.DateFromPgtype(row.CheckIn), pgconv.DateFromPgtype(row.CheckOut))
	if err != nil {
		return nil, infra.WrapRepoErr("stored booking has invalid dates", err, infra.KindDBFailure)
	}
	occ, err := booking.NewOccupancy(int(row.Adults), int(row.Children), int(row.Quantity))
	if err != nil {
		return nil, infra.WrapRepoErr("stored booking has invalid occupancy", err, infra.KindDBFailure)
	}
	guest, err := booking.NewGuestInfo(row.GuestName, row.GuestEmail, row.GuestPhone)
	if err != nil {
		return nil, infra.WrapRepoErr("stored booking has invalid guest", err, infra.KindDBFailure)
	}
	unitPrice, err := money.New(row.UnitPriceCents, row.Currency)
	if err != nil {
		return nil, infra.WrapRepoErr("stored booking has invalid price", err, infra.KindDBFailure)
	}
	total, err := money.New(row.TotalCents, row.Currency)
	if err != nil {
		return nil, infra.WrapRepoErr("stored booking has invalid total", err, infra.KindDBFailure)
	}
	status, err := booking.ParseStatus(row.Status)
	if err != nil {
		return nil, infra.WrapRepoErr("stored booking has invalid status", err, infra.KindDBFailure)
	}

	return booking.ReconstructBooking(booking.Record{
		ID:              row.ID,
		Reference:       booking.Reference(row.Reference),
		ResourceID:      row.ResourceID,
		OwnerID:         row.OwnerID,
		UserID:          pgconv.UUIDPtrFromPgtype(row.UserID),
		Stay:            stay,
		Occupancy:       occ,
		Guest:           guest,
		SpecialRequests: row.SpecialRequests,
		UnitPrice:       unitPrice,
		Total:           total,
		Status:          status,
		AdminNotes:      pgconv.StringPtrFromPgtype(row.AdminNotes),
		CreatedAt:       row.CreatedAt.Time,
		UpdatedAt:       row.UpdatedAt.Time,
	}), nil
}

func StaysFromRows(rows []query.BookingRow) ([]booking.Stay, error) {
	stays := make([]booking.Stay, 0, len(rows))
	for _, row := range rows {
		rng, err := booking.NewDateRange(pgconv.DateFromPgtype(row.CheckIn), pgconv.DateFromPgtype(row.CheckOut))
		if err != nil {
			return nil, infra.WrapRepoErr("stored booking has invalid dates", err, infra.KindDBFailure)
		}
		stays = append(stays, booking.Stay{
			BookingID: row.ID,
			Reference: booking.Reference(row.Reference),
			Range:     rng,
			Status:    booking.Status(row.Status),
		})
	}
	return stays, nil
}
