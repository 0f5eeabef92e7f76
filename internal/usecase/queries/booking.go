package queries

import (
	"context"

	"travel-booking/internal/domain/booking"
	"travel-booking/internal/domain/policy"
	"travel-booking/internal/domain/user"
	"travel-booking/internal/infra"
	"travel-booking/internal/pkg/errs"
	"travel-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

//go:generate mockgen -source=$GOFILE -destination=../../mock/queries/$GOFILE -package=queriesmock

var (
	ErrBookingNotFound  = errs.Category("booking not found", errs.ErrNotFound)
	ErrResourceNotFound = errs.Category("resource not found", errs.ErrNotFound)
	ErrInvalidStatus    = errs.Category("unknown booking status", errs.ErrValidation)
)

type BookingQueries interface {
	GetByID(ctx context.Context, id uuid.UUID, actor policy.Actor) (*BookingView, error)
	GetByReference(ctx context.Context, reference string, actor policy.Actor) (*BookingView, error)
	List(ctx context.Context, filters BookingFilters, page, limit int, actor policy.Actor) (*Page[*BookingView], error)
	CheckAvailability(ctx context.Context, resourceID uuid.UUID, stay booking.DateRange) (*AvailabilityView, error)
}

type BookingReadStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*BookingView, error)
	FindByReference(ctx context.Context, reference string) (*BookingView, error)
	StaysInRange(ctx context.Context, resourceID uuid.UUID, stay booking.DateRange) ([]booking.Stay, error)
	List(ctx context.Context, p BookingListParams) ([]*BookingView, int64, error)
}

type bookingQueriesImpl struct {
	bookings   BookingReadStore
	resources  ResourceReadStore
	calculator booking.PriceCalculator
}

func NewBookingQueries(bookings BookingReadStore, resources ResourceReadStore, calculator booking.PriceCalculator) BookingQueries {
	return &bookingQueriesImpl{
		bookings:   bookings,
		resources:  resources,
		calculator: calculator,
	}
}

func (q *bookingQueriesImpl) GetByID(ctx context.Context, id uuid.UUID, actor policy.Actor) (*BookingView, error) {
	view, err := q.bookings.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}

	if err := policy.Authorize(actor, policy.BookingRead, policy.Target{OwnerID: &view.OwnerID, SubjectID: view.UserID}); err != nil {
		return nil, err
	}
	return view, nil
}

// GetByReference is open to anyone holding the reference, which is how guests
// without an account look up their booking. Callers who could not read the
// booking by id get it without the guest's contact details.
func (q *bookingQueriesImpl) GetByReference(ctx context.Context, reference string, actor policy.Actor) (*BookingView, error) {
	ref, err := booking.ParseReference(reference)
	if err != nil {
		return nil, ErrBookingNotFound
	}

	view, err := q.bookings.FindByReference(ctx, ref.String())
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}

	if policy.Authorize(actor, policy.BookingRead, policy.Target{OwnerID: &view.OwnerID, SubjectID: view.UserID}) != nil {
		trimmed := *view
		trimmed.GuestEmail = ""
		trimmed.GuestPhone = ""
		return &trimmed, nil
	}
	return view, nil
}

func (q *bookingQueriesImpl) List(ctx context.Context, filters BookingFilters, page, limit int, actor policy.Actor) (*Page[*BookingView], error) {
	if err := policy.Authorize(actor, policy.BookingList, policy.Target{}); err != nil {
		return nil, err
	}
	if filters.Status != nil {
		if _, err := booking.ParseStatus(*filters.Status); err != nil {
			return nil, ErrInvalidStatus
		}
	}

	page, limit, offset := NormalizePage(page, limit)
	params := BookingListParams{
		Filters: filters,
		Limit:   limit,
		Offset:  offset,
	}
	if !actor.IsAdmin() && actor.Role == user.RoleOwner {
		params.OwnerID = actor.UserID
	}

	items, total, err := q.bookings.List(ctx, params)
	if err != nil {
		return nil, err
	}
	return NewPage(items, total, page, limit), nil
}

// CheckAvailability answers with a Conflict listing the blocking bookings, or
// with the estimated price of one unit for the range.
func (q *bookingQueriesImpl) CheckAvailability(ctx context.Context, resourceID uuid.UUID, stay booking.DateRange) (*AvailabilityView, error) {
	res, err := q.resources.FindByID(ctx, resourceID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrResourceNotFound
		}
		return nil, err
	}

	stays, err := q.bookings.StaysInRange(ctx, resourceID, stay)
	if err != nil {
		return nil, err
	}
	if conflicts := booking.FindOverlaps(stay, stays); len(conflicts) > 0 {
		return nil, shared.NewConflictError(conflicts)
	}

	unitPrice, err := res.UnitPrice()
	if err != nil {
		return nil, err
	}
	occ, err := booking.NewOccupancy(1, 0, 1)
	if err != nil {
		return nil, err
	}
	estimate, err := q.calculator.CalculateTotal(unitPrice, occ, stay)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrValidation)
	}

	return &AvailabilityView{
		ResourceID:          resourceID,
		CheckIn:             stay.Start(),
		CheckOut:            stay.End(),
		Units:               stay.Units(),
		BillingUnit:         res.BillingUnit,
		Available:           true,
		EstimatedTotalCents: estimate.Cents(),
		Currency:            estimate.Currency(),
	}, nil
}
