package queries

import (
	"time"

	"travel-booking/internal/domain/money"

	"github.com/google/uuid"
)

// BookingView is a booking joined with the resource it reserves.
type BookingView struct {
	ID              uuid.UUID  `json:"id"`
	Reference       string     `json:"reference"`
	ResourceID      uuid.UUID  `json:"resource_id"`
	ResourceTitle   string     `json:"resource_title"`
	ResourceKind    string     `json:"resource_kind"`
	OwnerID         uuid.UUID  `json:"owner_id"`
	UserID          *uuid.UUID `json:"user_id,omitempty"`
	CheckIn         time.Time  `json:"check_in"`
	CheckOut        time.Time  `json:"check_out"`
	Units           int        `json:"units"`
	Adults          int        `json:"adults"`
	Children        int        `json:"children"`
	Quantity        int        `json:"quantity"`
	GuestName       string     `json:"guest_name"`
	GuestEmail      string     `json:"guest_email"`
	GuestPhone      string     `json:"guest_phone"`
	SpecialRequests string     `json:"special_requests"`
	UnitPriceCents  int64      `json:"unit_price_cents"`
	TotalCents      int64      `json:"total_cents"`
	Currency        string     `json:"currency"`
	Status          string     `json:"status"`
	AdminNotes      *string    `json:"admin_notes,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

type PaymentView struct {
	ID                uuid.UUID  `json:"id"`
	BookingID         uuid.UUID  `json:"booking_id"`
	PayerID           *uuid.UUID `json:"payer_id,omitempty"`
	PayeeID           uuid.UUID  `json:"payee_id"`
	AmountCents       int64      `json:"amount_cents"`
	PlatformFeeCents  int64      `json:"platform_fee_cents"`
	OwnerPayoutCents  int64      `json:"owner_payout_cents"`
	Currency          string     `json:"currency"`
	Status            string     `json:"status"`
	ProviderOrderID   string     `json:"provider_order_id"`
	ProviderCaptureID *string    `json:"provider_capture_id,omitempty"`
	ProviderPayerID   *string    `json:"provider_payer_id,omitempty"`
	PayerEmail        *string    `json:"payer_email,omitempty"`
	SettledAt         *time.Time `json:"settled_at,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`

	// Ledger is only loaded for single-payment reads.
	Ledger []LedgerEntryView `json:"ledger,omitempty"`
}

type LedgerEntryView struct {
	UserID      uuid.UUID `json:"user_id"`
	Direction   string    `json:"direction"`
	AmountCents int64     `json:"amount_cents"`
	Currency    string    `json:"currency"`
	CreatedAt   time.Time `json:"created_at"`
}

type ResourceView struct {
	ID             uuid.UUID `json:"id"`
	OwnerID        uuid.UUID `json:"owner_id"`
	Kind           string    `json:"kind"`
	BillingUnit    string    `json:"billing_unit"`
	Title          string    `json:"title"`
	UnitPriceCents int64     `json:"unit_price_cents"`
	Currency       string    `json:"currency"`
	MaxGuests      int       `json:"max_guests"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (v *ResourceView) UnitPrice() (money.Money, error) {
	return money.New(v.UnitPriceCents, v.Currency)
}

// AuthorizedUserView represents read-optimized user data with authorization info
type AuthorizedUserView struct {
	ID                 uuid.UUID `json:"id"`
	Email              string    `json:"email"`
	Name               string    `json:"name"`
	Role               string    `json:"role"`
	IsActive           bool      `json:"is_active"`
	TotalEarningsCents int64     `json:"total_earnings_cents"`
}

// AvailabilityView answers a free-range check with the price it would cost
// for a single unit.
type AvailabilityView struct {
	ResourceID          uuid.UUID `json:"resource_id"`
	CheckIn             time.Time `json:"check_in"`
	CheckOut            time.Time `json:"check_out"`
	Units               int       `json:"units"`
	BillingUnit         string    `json:"billing_unit"`
	Available           bool      `json:"available"`
	EstimatedTotalCents int64     `json:"estimated_total_cents"`
	Currency            string    `json:"currency"`
}

type BookingFilters struct {
	Status     *string
	ResourceID *uuid.UUID
	Email      *string
}

// BookingListParams is what a read store needs for one page of bookings.
// OwnerID and UserID narrow the listing to what the caller may see.
type BookingListParams struct {
	Filters BookingFilters
	OwnerID *uuid.UUID
	UserID  *uuid.UUID
	Limit   int
	Offset  int
}
