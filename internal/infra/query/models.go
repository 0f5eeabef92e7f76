package query

import (
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type User struct {
	ID                 uuid.UUID
	Email              string
	Name               string
	PasswordHash       string
	Role               string
	IsActive           bool
	TotalEarningsCents int64
	LastLogin          pgtype.Timestamptz
	CreatedAt          pgtype.Timestamptz
	UpdatedAt          pgtype.Timestamptz
}

type Resource struct {
	ID             uuid.UUID
	OwnerID        uuid.UUID
	Kind           string
	Title          string
	UnitPriceCents int64
	Currency       string
	MaxGuests      int32
	Status         string
	CreatedAt      pgtype.Timestamptz
	UpdatedAt      pgtype.Timestamptz
}

// BookingRow is a booking joined with the owner and title of its resource.
type BookingRow struct {
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
	AdminNotes      pgtype.Text
	CreatedAt       pgtype.Timestamptz
	UpdatedAt       pgtype.Timestamptz
	OwnerID         uuid.UUID
	ResourceTitle   string
	ResourceKind    string
}

type Payment struct {
	ID                uuid.UUID
	BookingID         uuid.UUID
	PayerID           pgtype.UUID
	PayeeID           uuid.UUID
	AmountCents       int64
	PlatformFeeCents  int64
	OwnerPayoutCents  int64
	Currency          string
	Status            string
	ProviderOrderID   string
	ProviderCaptureID pgtype.Text
	ProviderPayerID   pgtype.Text
	PayerEmail        pgtype.Text
	RawResponse       []byte
	SettledAt         pgtype.Timestamptz
	CreatedAt         pgtype.Timestamptz
	UpdatedAt         pgtype.Timestamptz
}

type LedgerEntry struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	PaymentID   uuid.UUID
	BookingID   uuid.UUID
	Direction   string
	AmountCents int64
	Currency    string
	CreatedAt   pgtype.Timestamptz
}
