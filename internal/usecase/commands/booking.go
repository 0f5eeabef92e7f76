package commands

import (
	"context"
	"log/slog"

	"travel-booking/internal/domain/booking"
	"travel-booking/internal/domain/policy"
	reqdto "travel-booking/internal/handler/dto/request"
	"travel-booking/internal/infra"
	"travel-booking/internal/pkg/errs"
	"travel-booking/internal/pkg/patch"
	"travel-booking/internal/usecase/queries"
	"travel-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

const maxReferenceAttempts = 5

//go:generate mockgen -source=$GOFILE -destination=../../mock/commands/$GOFILE -package=commandsmock

var (
	ErrResourceNotFound   = errs.Category("resource not found", errs.ErrNotFound)
	ErrBookingNotFound    = errs.Category("booking not found", errs.ErrNotFound)
	ErrBookingHasPayments = errs.Category("booking has payments and cannot be deleted", errs.ErrConflict)
	ErrReferenceExhausted = errs.New("could not allocate a unique booking reference")
)

type BookingCommands interface {
	CreateBooking(ctx context.Context, req reqdto.CreateBookingRequest, actor policy.Actor) (*queries.BookingView, error)
	UpdateStatus(ctx context.Context, bookingID uuid.UUID, req reqdto.UpdateBookingStatusRequest, actor policy.Actor) (*queries.BookingView, error)
	DeleteBooking(ctx context.Context, bookingID uuid.UUID, actor policy.Actor) error
}

type bookingCommandsImpl struct {
	uow      shared.UnitOfWork
	reads    queries.BookingReadStore
	services *booking.Services
}

func NewBookingCommands(uow shared.UnitOfWork, reads queries.BookingReadStore, services *booking.Services) BookingCommands {
	return &bookingCommandsImpl{
		uow:      uow,
		reads:    reads,
		services: services,
	}
}

func (c *bookingCommandsImpl) CreateBooking(ctx context.Context, req reqdto.CreateBookingRequest, actor policy.Actor) (*queries.BookingView, error) {
	if err := policy.Authorize(actor, policy.BookingCreate, policy.Target{}); err != nil {
		return nil, err
	}

	data, err := req.ToDomain()
	if err != nil {
		return nil, errs.Mark(err, errs.ErrValidation)
	}

	res, err := c.uow.CommandReads().ResourceByID(ctx, req.ResourceID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrResourceNotFound
		}
		return nil, errs.Wrap(err, "load resource")
	}

	b, err := booking.NewBooking(c.services, res.Terms(), actor.UserID, data.Stay, data.Occupancy, data.Guest, data.SpecialRequests)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrValidation)
	}

	if err := c.persist(ctx, b); err != nil {
		return nil, err
	}

	slog.Info("booking created",
		"booking_id", b.ID(),
		"reference", b.Reference().String(),
		"resource_id", b.ResourceID(),
		"stay", b.Stay().String())

	return c.reads.FindByID(ctx, b.ID())
}

// persist checks availability and inserts inside one transaction. The
// exclusion constraint catches a competing insert that slipped between the
// check and the write; a reference collision is retried with a fresh one.
func (c *bookingCommandsImpl) persist(ctx context.Context, b *booking.Booking) error {
	for attempt := 0; attempt < maxReferenceAttempts; attempt++ {
		err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
			stays, err := tx.Bookings().StaysInRange(ctx, b.ResourceID(), b.Stay())
			if err != nil {
				return err
			}
			if conflicts := booking.FindOverlaps(b.Stay(), stays); len(conflicts) > 0 {
				return shared.NewConflictError(conflicts)
			}
			return tx.Bookings().Create(ctx, b)
		})

		switch {
		case err == nil:
			return nil
		case infra.IsConstraint(err, infra.ConstraintBookingNoOverlap):
			return c.conflictAfterRace(ctx, b)
		case infra.IsConstraint(err, infra.ConstraintBookingReference):
			slog.Warn("booking reference collision, regenerating", "reference", b.Reference().String(), "attempt", attempt+1)
			if regenErr := b.RegenerateReference(c.services); regenErr != nil {
				return errs.Wrap(regenErr, "regenerate booking reference")
			}
		case errs.Is(err, errs.ErrConflict):
			return err
		default:
			return errs.Wrap(err, "persist booking")
		}
	}
	return ErrReferenceExhausted
}

func (c *bookingCommandsImpl) conflictAfterRace(ctx context.Context, b *booking.Booking) error {
	stays, err := c.uow.CommandReads().BookingStays(ctx, b.ResourceID(), b.Stay())
	if err != nil {
		slog.Warn("failed to reload conflicting bookings", "resource_id", b.ResourceID(), "error", err.Error())
		return shared.NewConflictError(nil)
	}
	return shared.NewConflictError(booking.FindOverlaps(b.Stay(), stays))
}

func (c *bookingCommandsImpl) UpdateStatus(ctx context.Context, bookingID uuid.UUID, req reqdto.UpdateBookingStatusRequest, actor policy.Actor) (*queries.BookingView, error) {
	next, err := booking.ParseStatus(req.Status)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrValidation)
	}

	err = c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		b, err := tx.Bookings().FindForUpdate(ctx, bookingID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrBookingNotFound
			}
			return err
		}

		ownerID := b.OwnerID()
		if err := policy.Authorize(actor, policy.BookingUpdateStatus, policy.Target{OwnerID: &ownerID, SubjectID: b.UserID()}); err != nil {
			return err
		}

		if err := b.TransitionTo(next, patch.TrimmedOrNil(req.AdminNotes), c.services.Clock.Now()); err != nil {
			return errs.Mark(err, errs.ErrValidation)
		}
		return tx.Bookings().UpdateStatus(ctx, b)
	})
	if err != nil {
		return nil, err
	}

	slog.Info("booking status updated", "booking_id", bookingID, "status", next.String())
	return c.reads.FindByID(ctx, bookingID)
}

func (c *bookingCommandsImpl) DeleteBooking(ctx context.Context, bookingID uuid.UUID, actor policy.Actor) error {
	if err := policy.Authorize(actor, policy.BookingDelete, policy.Target{}); err != nil {
		return err
	}

	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if _, err := tx.Bookings().FindForUpdate(ctx, bookingID); err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrBookingNotFound
			}
			return err
		}

		n, err := tx.Payments().CountByBooking(ctx, bookingID)
		if err != nil {
			return err
		}
		if n > 0 {
			return ErrBookingHasPayments
		}
		return tx.Bookings().Delete(ctx, bookingID)
	})
	if infra.IsKind(err, infra.KindForeignKeyViolated) {
		return ErrBookingHasPayments
	}
	if err != nil {
		return err
	}

	slog.Info("booking deleted", "booking_id", bookingID)
	return nil
}
