package query

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const bookingSelect = `
SELECT b.id, b.reference, b.resource_id, b.user_id, b.check_in, b.check_out,
       b.adults, b.children, b.quantity, b.guest_name, b.guest_email, b.guest_phone,
       b.special_requests, b.unit_price_cents, b.total_cents, b.currency, b.status,
       b.admin_notes, b.created_at, b.updated_at, r.owner_id, r.title, r.kind
FROM bookings b
JOIN resources r ON r.id = b.resource_id`

func scanBookingRow(row scanner) (BookingRow, error) {
	var b BookingRow
	err := row.Scan(
		&b.ID,
		&b.Reference,
		&b.ResourceID,
		&b.UserID,
		&b.CheckIn,
		&b.CheckOut,
		&b.Adults,
		&b.Children,
		&b.Quantity,
		&b.GuestName,
		&b.GuestEmail,
		&b.GuestPhone,
		&b.SpecialRequests,
		&b.UnitPriceCents,
		&b.TotalCents,
		&b.Currency,
		&b.Status,
		&b.AdminNotes,
		&b.CreatedAt,
		&b.UpdatedAt,
		&b.OwnerID,
		&b.ResourceTitle,
		&b.ResourceKind,
	)
	return b, err
}

type CreateBookingParams struct {
	ID              uuid.UUID
	Reference       string
	ResourceID      uuid.UUID
	UserID          pgtype.UUID
	CheckIn         pgtype.Date
	CheckOut        pgtype.Date
	Adults          int32
	Children        int32
	Quantity        int32
	GuestName       string
	GuestEmail      string
	GuestPhone      string
	SpecialRequests string
	UnitPriceCents  int64
	TotalCents      int64
	Currency        string
	Status          string
	CreatedAt       pgtype.Timestamptz
}

const createBooking = `
INSERT INTO bookings (
    id, reference, resource_id, user_id, check_in, check_out, adults, children, quantity,
    guest_name, guest_email, guest_phone, special_requests, unit_price_cents, total_cents,
    currency, status, created_at, updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $18)`

func (q *Queries) CreateBooking(ctx context.Context, db DBTX, arg CreateBookingParams) error {
	_, err := db.Exec(ctx, createBooking,
		arg.ID, arg.Reference, arg.ResourceID, arg.UserID, arg.CheckIn, arg.CheckOut,
		arg.Adults, arg.Children, arg.Quantity, arg.GuestName, arg.GuestEmail, arg.GuestPhone,
		arg.SpecialRequests, arg.UnitPriceCents, arg.TotalCents, arg.Currency, arg.Status, arg.CreatedAt)
	return err
}

const findBookingByID = bookingSelect + ` WHERE b.id = $1`

func (q *Queries) FindBookingByID(ctx context.Context, db DBTX, id uuid.UUID) (BookingRow, error) {
	return scanBookingRow(db.QueryRow(ctx, findBookingByID, id))
}

const findBookingByIDForUpdate = bookingSelect + ` WHERE b.id = $1 FOR UPDATE OF b`

func (q *Queries) FindBookingByIDForUpdate(ctx context.Context, db DBTX, id uuid.UUID) (BookingRow, error) {
	return scanBookingRow(db.QueryRow(ctx, findBookingByIDForUpdate, id))
}

const findBookingByReference = bookingSelect + ` WHERE b.reference = $1`

func (q *Queries) FindBookingByReference(ctx context.Context, db DBTX, reference string) (BookingRow, error) {
	return scanBookingRow(db.QueryRow(ctx, findBookingByReference, reference))
}

// Half-open test on raw dates; status filtering is left to the caller.
const listBookingsInRange = bookingSelect + `
WHERE b.resource_id = $1
  AND b.check_in < $3
  AND b.check_out > $2
ORDER BY b.check_in`

func (q *Queries) ListBookingsInRange(ctx context.Context, db DBTX, resourceID uuid.UUID, from, to pgtype.Date) ([]BookingRow, error) {
	rows, err := db.Query(ctx, listBookingsInRange, resourceID, from, to)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanBookingRow)
}

type UpdateBookingStatusParams struct {
	ID         uuid.UUID
	Status     string
	AdminNotes pgtype.Text
	UpdatedAt  pgtype.Timestamptz
}

const updateBookingStatus = `
UPDATE bookings
SET status = $2, admin_notes = COALESCE($3, admin_notes), updated_at = $4
WHERE id = $1`

func (q *Queries) UpdateBookingStatus(ctx context.Context, db DBTX, arg UpdateBookingStatusParams) (int64, error) {
	tag, err := db.Exec(ctx, updateBookingStatus, arg.ID, arg.Status, arg.AdminNotes, arg.UpdatedAt)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

const deleteBooking = `DELETE FROM bookings WHERE id = $1`

func (q *Queries) DeleteBooking(ctx context.Context, db DBTX, id uuid.UUID) (int64, error) {
	tag, err := db.Exec(ctx, deleteBooking, id)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

type ListBookingsParams struct {
	Status     pgtype.Text
	ResourceID pgtype.UUID
	OwnerID    pgtype.UUID
	UserID     pgtype.UUID
	Email      pgtype.Text
	Limit      int32
	Offset     int32
}

const bookingFilter = `
WHERE ($1::text IS NULL OR b.status = $1)
  AND ($2::uuid IS NULL OR b.resource_id = $2)
  AND ($3::uuid IS NULL OR r.owner_id = $3)
  AND ($4::uuid IS NULL OR b.user_id = $4)
  AND ($5::text IS NULL OR b.guest_email ILIKE '%' || $5 || '%')`

const listBookings = bookingSelect + bookingFilter + `
ORDER BY b.created_at DESC, b.id DESC
LIMIT $6 OFFSET $7`

func (q *Queries) ListBookings(ctx context.Context, db DBTX, arg ListBookingsParams) ([]BookingRow, error) {
	rows, err := db.Query(ctx, listBookings,
		arg.Status, arg.ResourceID, arg.OwnerID, arg.UserID, arg.Email, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanBookingRow)
}

const countBookings = `SELECT count(*) FROM bookings b JOIN resources r ON r.id = b.resource_id` + bookingFilter

func (q *Queries) CountBookings(ctx context.Context, db DBTX, arg ListBookingsParams) (int64, error) {
	var n int64
	err := db.QueryRow(ctx, countBookings, arg.Status, arg.ResourceID, arg.OwnerID, arg.UserID, arg.Email).Scan(&n)
	return n, err
}
