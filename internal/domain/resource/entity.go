package resource

import (
	"errors"
	"strings"
	"time"

	"travel-booking/internal/domain/money"

	"github.com/google/uuid"
)

var (
	ErrEmptyTitle        = errors.New("resource title cannot be empty")
	ErrTitleTooLong      = errors.New("resource title is too long (max 255 characters)")
	ErrInvalidKind       = errors.New("invalid resource kind")
	ErrInvalidStatus     = errors.New("invalid resource status")
	ErrNegativeMaxGuests = errors.New("max guests cannot be negative")
	ErrZeroPrice         = errors.New("unit price must be positive")
)

const (
	MaxTitleLength = 255
)

type Kind string

const (
	// KindProperty is priced per night.
	KindProperty Kind = "property"
	// KindVehicle is priced per rental day.
	KindVehicle Kind = "vehicle"
)

func NewKind(s string) (Kind, error) {
	k := Kind(s)
	switch k {
	case KindProperty, KindVehicle:
		return k, nil
	default:
		return "", ErrInvalidKind
	}
}

// BillingUnit names what one unit of the price pays for.
func (k Kind) BillingUnit() string {
	if k == KindVehicle {
		return "day"
	}
	return "night"
}

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

func NewStatus(s string) (Status, error) {
	st := Status(s)
	switch st {
	case StatusPending, StatusApproved, StatusRejected:
		return st, nil
	default:
		return "", ErrInvalidStatus
	}
}

type Resource struct {
	id        uuid.UUID
	ownerID   uuid.UUID
	kind      Kind
	title     string
	unitPrice money.Money
	maxGuests int
	status    Status
	createdAt time.Time
	updatedAt time.Time
}

// NewResource starts approved listings only for admins; everyone else waits for review.
func NewResource(ownerID uuid.UUID, kind Kind, title string, unitPrice money.Money, maxGuests int, approved bool) (*Resource, error) {
	title = strings.TrimSpace(title)
	if err := validateTitle(title); err != nil {
		return nil, err
	}
	if unitPrice.IsZero() {
		return nil, ErrZeroPrice
	}
	if maxGuests < 0 {
		return nil, ErrNegativeMaxGuests
	}

	status := StatusPending
	if approved {
		status = StatusApproved
	}

	return &Resource{
		id:        uuid.New(),
		ownerID:   ownerID,
		kind:      kind,
		title:     title,
		unitPrice: unitPrice,
		maxGuests: maxGuests,
		status:    status,
	}, nil
}

func ReconstructResource(
	id, ownerID uuid.UUID,
	kind Kind,
	title string,
	unitPrice money.Money,
	maxGuests int,
	status Status,
	createdAt, updatedAt time.Time,
) *Resource {
	return &Resource{
		id:        id,
		ownerID:   ownerID,
		kind:      kind,
		title:     title,
		unitPrice: unitPrice,
		maxGuests: maxGuests,
		status:    status,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

func (r *Resource) IsBookable() bool {
	return r.status == StatusApproved
}

// Accommodates reports whether the party fits; zero max means unlimited.
func (r *Resource) Accommodates(guests int) bool {
	return r.maxGuests == 0 || guests <= r.maxGuests
}

func validateTitle(title string) error {
	if title == "" {
		return ErrEmptyTitle
	}
	if len(title) > MaxTitleLength {
		return ErrTitleTooLong
	}
	return nil
}

func (r *Resource) ID() uuid.UUID          { return r.id }
func (r *Resource) OwnerID() uuid.UUID     { return r.ownerID }
func (r *Resource) Kind() Kind             { return r.kind }
func (r *Resource) Title() string          { return r.title }
func (r *Resource) UnitPrice() money.Money { return r.unitPrice }
func (r *Resource) MaxGuests() int         { return r.maxGuests }
func (r *Resource) Status() Status         { return r.status }
func (r *Resource) CreatedAt() time.Time   { return r.createdAt }
func (r *Resource) UpdatedAt() time.Time   { return r.updatedAt }
