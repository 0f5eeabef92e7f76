package booking

import (
	"errors"
	"time"

	"travel-booking/internal/domain/money"
	"travel-booking/internal/pkg/clock"

	"github.com/google/uuid"
)

var (
	ErrCheckInInPast       = errors.New("check-in date cannot be in the past")
	ErrResourceUnavailable = errors.New("resource is not open for booking")
	ErrTooManyGuests       = errors.New("party exceeds resource capacity")
)

// ResourceTerms is what a booking needs to know about the booked resource.
type ResourceTerms struct {
	ID        uuid.UUID
	OwnerID   uuid.UUID
	Title     string
	UnitPrice money.Money
	MaxGuests int
	Bookable  bool
}

type Services struct {
	Clock           clock.Clock
	Location        *time.Location
	PriceCalculator PriceCalculator
	References      ReferenceGenerator
}

type Booking struct {
	id              uuid.UUID
	reference       Reference
	resourceID      uuid.UUID
	ownerID         uuid.UUID
	userID          *uuid.UUID
	stay            DateRange
	occupancy       Occupancy
	guest           GuestInfo
	specialRequests string
	unitPrice       money.Money
	total           money.Money
	status          Status
	adminNotes      *string
	createdAt       time.Time
	updatedAt       time.Time
}

// NewBooking validates a request against the resource and prices it once.
// The caller still has to confirm availability against stored bookings.
func NewBooking(
	services *Services,
	res ResourceTerms,
	userID *uuid.UUID,
	stay DateRange,
	occ Occupancy,
	guest GuestInfo,
	specialRequests string,
) (*Booking, error) {
	if !res.Bookable {
		return nil, ErrResourceUnavailable
	}
	if res.MaxGuests > 0 && occ.Guests() > res.MaxGuests {
		return nil, ErrTooManyGuests
	}

	current := services.Clock.Now().In(services.Location)
	if stay.Start().Before(clock.Today(services.Clock, services.Location)) {
		return nil, ErrCheckInInPast
	}

	total, err := services.PriceCalculator.CalculateTotal(res.UnitPrice, occ, stay)
	if err != nil {
		return nil, err
	}

	ref, err := services.References.Generate(current)
	if err != nil {
		return nil, err
	}

	return &Booking{
		id:              uuid.New(),
		reference:       ref,
		resourceID:      res.ID,
		ownerID:         res.OwnerID,
		userID:          userID,
		stay:            stay,
		occupancy:       occ,
		guest:           guest,
		specialRequests: specialRequests,
		unitPrice:       res.UnitPrice,
		total:           total,
		status:          StatusPending,
		createdAt:       current,
		updatedAt:       current,
	}, nil
}

// Record carries a stored booking back into the domain.
type Record struct {
	ID              uuid.UUID
	Reference       Reference
	ResourceID      uuid.UUID
	OwnerID         uuid.UUID
	UserID          *uuid.UUID
	Stay            DateRange
	Occupancy       Occupancy
	Guest           GuestInfo
	SpecialRequests string
	UnitPrice       money.Money
	Total           money.Money
	Status          Status
	AdminNotes      *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func ReconstructBooking(r Record) *Booking {
	return &Booking{
		id:              r.ID,
		reference:       r.Reference,
		resourceID:      r.ResourceID,
		ownerID:         r.OwnerID,
		userID:          r.UserID,
		stay:            r.Stay,
		occupancy:       r.Occupancy,
		guest:           r.Guest,
		specialRequests: r.SpecialRequests,
		unitPrice:       r.UnitPrice,
		total:           r.Total,
		status:          r.Status,
		adminNotes:      r.AdminNotes,
		createdAt:       r.CreatedAt,
		updatedAt:       r.UpdatedAt,
	}
}

// RegenerateReference draws a new reference after a storage collision.
func (b *Booking) RegenerateReference(services *Services) error {
	ref, err := services.References.Generate(services.Clock.Now().In(services.Location))
	if err != nil {
		return err
	}
	b.reference = ref
	return nil
}

// TransitionTo moves the booking along the status table. Notes replace the
// previous ones only when given.
func (b *Booking) TransitionTo(next Status, adminNotes *string, at time.Time) error {
	if err := b.status.CanTransitionTo(next); err != nil {
		return err
	}
	b.status = next
	if adminNotes != nil {
		b.adminNotes = adminNotes
	}
	b.updatedAt = at
	return nil
}

func (b *Booking) AsStay() Stay {
	return Stay{BookingID: b.id, Reference: b.reference, Range: b.stay, Status: b.status}
}

func (b *Booking) ID() uuid.UUID            { return b.id }
func (b *Booking) Reference() Reference     { return b.reference }
func (b *Booking) ResourceID() uuid.UUID    { return b.resourceID }
func (b *Booking) OwnerID() uuid.UUID       { return b.ownerID }
func (b *Booking) UserID() *uuid.UUID       { return b.userID }
func (b *Booking) Stay() DateRange          { return b.stay }
func (b *Booking) Occupancy() Occupancy     { return b.occupancy }
func (b *Booking) Guest() GuestInfo         { return b.guest }
func (b *Booking) SpecialRequests() string  { return b.specialRequests }
func (b *Booking) UnitPrice() money.Money   { return b.unitPrice }
func (b *Booking) Total() money.Money       { return b.total }
func (b *Booking) Status() Status           { return b.status }
func (b *Booking) AdminNotes() *string      { return b.adminNotes }
func (b *Booking) CreatedAt() time.Time     { return b.createdAt }
func (b *Booking) UpdatedAt() time.Time     { return b.updatedAt }
