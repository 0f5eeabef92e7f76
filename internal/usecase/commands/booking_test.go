//go:build unit

package commands_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"travel-booking/internal/domain/booking"
	"travel-booking/internal/domain/money"
	"travel-booking/internal/domain/policy"
	"travel-booking/internal/domain/user"
	reqdto "travel-booking/internal/handler/dto/request"
	"travel-booking/internal/pkg/clock"
	"travel-booking/internal/pkg/errs"
	"travel-booking/internal/usecase/commands"
	"travel-booking/internal/usecase/shared"
	"travel-booking/internal/testutil/builder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

// sequenceReferences hands out the given suffixes in order and keeps
// repeating the last one.
type sequenceReferences struct {
	suffixes []string
	next     int
}

func (s *sequenceReferences) Generate(at time.Time) (booking.Reference, error) {
	if len(s.suffixes) == 0 {
		return "", errors.New("no references configured")
	}
	suffix := s.suffixes[min(s.next, len(s.suffixes)-1)]
	s.next++
	return booking.Reference(fmt.Sprintf("BK-%s-%s", at.Format("20060102"), suffix)), nil
}

type BookingCommandsTestSuite struct {
	suite.Suite
	store    *memStore
	refs     *sequenceReferences
	commands commands.BookingCommands
	clock    *clock.MockClock
	ownerID  uuid.UUID
	adminID  uuid.UUID
	guestID  uuid.UUID
	resource *shared.ResourceSnapshot
}

func TestBookingCommandsSuite(t *testing.T) {
	suite.Run(t, new(BookingCommandsTestSuite))
}

func (s *BookingCommandsTestSuite) SetupTest() {
	s.store = newMemStore()
	s.clock = clock.NewMockClock(time.Date(2025, time.September, 15, 10, 0, 0, 0, time.UTC))
	s.refs = &sequenceReferences{suffixes: []string{"AAAAA1", "AAAAA2", "AAAAA3", "AAAAA4", "AAAAA5", "AAAAA6"}}
	services := &booking.Services{
		Clock:           s.clock,
		Location:        time.UTC,
		PriceCalculator: booking.NewUnitPriceCalculator(),
		References:      s.refs,
	}
	s.commands = commands.NewBookingCommands(s.store, memBookingReads{s.store}, services)

	s.ownerID = uuid.New()
	s.adminID = uuid.New()
	s.guestID = uuid.New()
	price, err := money.New(10000, "USD")
	s.Require().NoError(err)
	s.resource = &shared.ResourceSnapshot{
		ID:        uuid.New(),
		OwnerID:   s.ownerID,
		Kind:      "property",
		Title:     "Seaside Cottage",
		UnitPrice: price,
		MaxGuests: 4,
		Status:    "approved",
	}
	s.store.addResource(s.resource)
}

func (s *BookingCommandsTestSuite) request(checkIn, checkOut string) reqdto.CreateBookingRequest {
	req := builder.NewBookingBuilder().With(func(b *builder.BookingBuilder) {
		b.ResourceID = s.resource.ID
	}).BuildCreateRequestDTO()
	req.CheckIn = checkIn
	req.CheckOut = checkOut
	return req
}

func (s *BookingCommandsTestSuite) create(checkIn, checkOut string) (uuid.UUID, string) {
	view, err := s.commands.CreateBooking(context.Background(), s.request(checkIn, checkOut), policy.Anonymous())
	s.Require().NoError(err)
	return view.ID, view.Reference
}

func (s *BookingCommandsTestSuite) owner() policy.Actor {
	return policy.NewActor(s.ownerID, user.RoleOwner)
}

func (s *BookingCommandsTestSuite) TestCreateBooking() {
	s.Run("success: prices the stay and starts pending", func() {
		view, err := s.commands.CreateBooking(context.Background(), s.request("2025-10-01", "2025-10-03"), policy.Anonymous())
		s.Require().NoError(err)

		s.Equal(int64(20000), view.TotalCents)
		s.Equal(int64(10000), view.UnitPriceCents)
		s.Equal("USD", view.Currency)
		s.Equal(2, view.Units)
		s.Equal(booking.StatusPending.String(), view.Status)
		s.Equal("BK-20250915-AAAAA1", view.Reference)
		s.Equal(s.ownerID, view.OwnerID)
		s.Nil(view.UserID)
	})

	s.Run("success: signed-in guest is recorded on the booking", func() {
		actor := policy.NewActor(s.guestID, user.RoleGuest)
		view, err := s.commands.CreateBooking(context.Background(), s.request("2025-11-01", "2025-11-02"), actor)
		s.Require().NoError(err)
		s.Require().NotNil(view.UserID)
		s.Equal(s.guestID, *view.UserID)
	})
}

func (s *BookingCommandsTestSuite) TestCreateBooking_Overlap() {
	_, firstRef := s.create("2025-10-01", "2025-10-03")

	s.Run("error: overlapping range is a conflict listing the blocking booking", func() {
		_, err := s.commands.CreateBooking(context.Background(), s.request("2025-10-02", "2025-10-04"), policy.Anonymous())
		s.Require().Error(err)
		s.True(errs.Is(err, errs.ErrConflict))

		var conflict *shared.ConflictError
		s.Require().True(errors.As(err, &conflict))
		s.Require().Len(conflict.Conflicts, 1)
		s.Equal(firstRef, conflict.Conflicts[0].Reference.String())
	})

	s.Run("success: check-out day is free for the next check-in", func() {
		_, err := s.commands.CreateBooking(context.Background(), s.request("2025-10-03", "2025-10-05"), policy.Anonymous())
		s.NoError(err)
	})
}

func (s *BookingCommandsTestSuite) TestCreateBooking_Validation() {
	testCases := []struct {
		name     string
		checkIn  string
		checkOut string
		mutate   func(*reqdto.CreateBookingRequest)
		target   error
	}{
		{name: "check-in in the past", checkIn: "2025-09-14", checkOut: "2025-09-16", target: booking.ErrCheckInInPast},
		{name: "check-out before check-in", checkIn: "2025-10-03", checkOut: "2025-10-01", target: booking.ErrInvalidDateRange},
		{name: "same day", checkIn: "2025-10-03", checkOut: "2025-10-03", target: booking.ErrInvalidDateRange},
		{name: "malformed date", checkIn: "10/01/2025", checkOut: "2025-10-03", target: reqdto.ErrInvalidDate},
		{
			name: "too many guests", checkIn: "2025-10-01", checkOut: "2025-10-03",
			mutate: func(r *reqdto.CreateBookingRequest) { r.Guests.Adults = 5 },
			target: booking.ErrTooManyGuests,
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			req := s.request(tc.checkIn, tc.checkOut)
			if tc.mutate != nil {
				tc.mutate(&req)
			}
			_, err := s.commands.CreateBooking(context.Background(), req, policy.Anonymous())
			s.Require().Error(err)
			s.True(errs.Is(err, errs.ErrValidation))
			s.True(errs.Is(err, tc.target))
		})
	}

	s.Run("today is still bookable", func() {
		_, err := s.commands.CreateBooking(context.Background(), s.request("2025-09-15", "2025-09-16"), policy.Anonymous())
		s.NoError(err)
	})
}

func (s *BookingCommandsTestSuite) TestCreateBooking_ResourceChecks() {
	s.Run("error: unknown resource", func() {
		req := s.request("2025-10-01", "2025-10-03")
		req.ResourceID = uuid.New()
		_, err := s.commands.CreateBooking(context.Background(), req, policy.Anonymous())
		s.ErrorIs(err, commands.ErrResourceNotFound)
	})

	s.Run("error: resource awaiting approval", func() {
		pending := *s.resource
		pending.ID = uuid.New()
		pending.Status = "pending"
		s.store.addResource(&pending)

		req := s.request("2025-10-01", "2025-10-03")
		req.ResourceID = pending.ID
		_, err := s.commands.CreateBooking(context.Background(), req, policy.Anonymous())
		s.True(errs.Is(err, booking.ErrResourceUnavailable))
	})
}

func (s *BookingCommandsTestSuite) TestCreateBooking_ReferenceCollision() {
	// the first draw collides with an existing booking on another resource
	other := *s.resource
	other.ID = uuid.New()
	s.store.addResource(&other)
	req := s.request("2025-10-01", "2025-10-03")
	req.ResourceID = other.ID
	_, err := s.commands.CreateBooking(context.Background(), req, policy.Anonymous())
	s.Require().NoError(err)
	s.refs.next = 0

	view, err := s.commands.CreateBooking(context.Background(), s.request("2025-10-01", "2025-10-03"), policy.Anonymous())
	s.Require().NoError(err)
	s.Equal("BK-20250915-AAAAA2", view.Reference)
}

func (s *BookingCommandsTestSuite) TestCreateBooking_ReferenceExhausted() {
	s.refs.suffixes = []string{"AAAAA1"}
	s.create("2025-10-01", "2025-10-03")

	_, err := s.commands.CreateBooking(context.Background(), s.request("2025-11-01", "2025-11-03"), policy.Anonymous())
	s.ErrorIs(err, commands.ErrReferenceExhausted)
}

func (s *BookingCommandsTestSuite) TestCreateBooking_OtherUniqueViolationIsNotRetried() {
	s.store.failNext("Bookings.Create", pgErr("23505", "bookings_pkey"))

	_, err := s.commands.CreateBooking(context.Background(), s.request("2025-10-01", "2025-10-03"), policy.Anonymous())
	s.Require().Error(err)
	s.NotErrorIs(err, commands.ErrReferenceExhausted)
	s.False(errs.Is(err, errs.ErrConflict))
	s.Equal(1, s.store.calls["Bookings.Create"])
}

func (s *BookingCommandsTestSuite) TestCreateBooking_LostRace() {
	winner := booking.ReconstructBooking(booking.Record{
		ID:         uuid.New(),
		Reference:  "BK-20250915-FFFFFF",
		ResourceID: s.resource.ID,
		OwnerID:    s.ownerID,
		Stay:       mustRange(s.T(), "2025-10-02", "2025-10-04"),
		Status:     booking.StatusPending,
		Total:      s.resource.UnitPrice,
		UnitPrice:  s.resource.UnitPrice,
	})
	// the competing insert commits between our availability check and our insert
	s.store.beforeCreate = func() { s.store.commitOutside(winner) }

	_, err := s.commands.CreateBooking(context.Background(), s.request("2025-10-01", "2025-10-03"), policy.Anonymous())
	s.Require().Error(err)
	s.True(errs.Is(err, errs.ErrConflict))

	var conflict *shared.ConflictError
	s.Require().True(errors.As(err, &conflict))
	s.Require().Len(conflict.Conflicts, 1)
	s.Equal("BK-20250915-FFFFFF", conflict.Conflicts[0].Reference.String())
}

func (s *BookingCommandsTestSuite) TestUpdateStatus() {
	id, _ := s.create("2025-10-01", "2025-10-03")

	s.Run("error: anonymous caller", func() {
		_, err := s.commands.UpdateStatus(context.Background(), id, reqdto.UpdateBookingStatusRequest{Status: "confirmed"}, policy.Anonymous())
		s.True(errs.Is(err, errs.ErrUnauthorized))
	})

	s.Run("error: guest cannot change status", func() {
		_, err := s.commands.UpdateStatus(context.Background(), id, reqdto.UpdateBookingStatusRequest{Status: "confirmed"}, policy.NewActor(s.guestID, user.RoleGuest))
		s.True(errs.Is(err, errs.ErrForbidden))
	})

	s.Run("error: other owner cannot change status", func() {
		_, err := s.commands.UpdateStatus(context.Background(), id, reqdto.UpdateBookingStatusRequest{Status: "confirmed"}, policy.NewActor(uuid.New(), user.RoleOwner))
		s.True(errs.Is(err, errs.ErrForbidden))
	})

	s.Run("error: unknown status", func() {
		_, err := s.commands.UpdateStatus(context.Background(), id, reqdto.UpdateBookingStatusRequest{Status: "archived"}, s.owner())
		s.True(errs.Is(err, errs.ErrValidation))
	})

	s.Run("error: unknown booking", func() {
		_, err := s.commands.UpdateStatus(context.Background(), uuid.New(), reqdto.UpdateBookingStatusRequest{Status: "confirmed"}, s.owner())
		s.ErrorIs(err, commands.ErrBookingNotFound)
	})

	s.Run("success: owner confirms with notes", func() {
		notes := "late arrival"
		view, err := s.commands.UpdateStatus(context.Background(), id, reqdto.UpdateBookingStatusRequest{Status: "confirmed", AdminNotes: &notes}, s.owner())
		s.Require().NoError(err)
		s.Equal("confirmed", view.Status)
		s.Require().NotNil(view.AdminNotes)
		s.Equal(notes, *view.AdminNotes)
	})

	s.Run("error: same status again", func() {
		_, err := s.commands.UpdateStatus(context.Background(), id, reqdto.UpdateBookingStatusRequest{Status: "confirmed"}, s.owner())
		s.True(errs.Is(err, errs.ErrValidation))
	})
}

func (s *BookingCommandsTestSuite) TestCancelledBookingFreesDates() {
	id, _ := s.create("2025-10-01", "2025-10-03")

	_, err := s.commands.CreateBooking(context.Background(), s.request("2025-10-01", "2025-10-03"), policy.Anonymous())
	s.Require().True(errs.Is(err, errs.ErrConflict))

	admin := policy.NewActor(s.adminID, user.RoleAdmin)
	_, err = s.commands.UpdateStatus(context.Background(), id, reqdto.UpdateBookingStatusRequest{Status: "cancelled"}, admin)
	s.Require().NoError(err)

	_, err = s.commands.CreateBooking(context.Background(), s.request("2025-10-01", "2025-10-03"), policy.Anonymous())
	s.NoError(err)

	s.Run("error: cancelled is terminal", func() {
		_, err := s.commands.UpdateStatus(context.Background(), id, reqdto.UpdateBookingStatusRequest{Status: "confirmed"}, admin)
		s.True(errs.Is(err, errs.ErrValidation))
	})
}

func (s *BookingCommandsTestSuite) TestDeleteBooking() {
	admin := policy.NewActor(s.adminID, user.RoleAdmin)

	s.Run("error: only admins delete", func() {
		id, _ := s.create("2025-10-01", "2025-10-03")
		err := s.commands.DeleteBooking(context.Background(), id, s.owner())
		s.True(errs.Is(err, errs.ErrForbidden))
		s.NotNil(s.store.booking(id))
	})

	s.Run("error: unknown booking", func() {
		err := s.commands.DeleteBooking(context.Background(), uuid.New(), admin)
		s.ErrorIs(err, commands.ErrBookingNotFound)
	})

	s.Run("error: booking with payments", func() {
		id, _ := s.create("2025-11-01", "2025-11-03")
		s.store.putPayment(newPendingPayment(s.T(), s.store.booking(id), "ORDER-DEL"))

		err := s.commands.DeleteBooking(context.Background(), id, admin)
		s.ErrorIs(err, commands.ErrBookingHasPayments)
		s.NotNil(s.store.booking(id))
	})

	s.Run("success: removes the booking", func() {
		id, _ := s.create("2025-12-01", "2025-12-03")
		s.Require().NoError(s.commands.DeleteBooking(context.Background(), id, admin))
		s.Nil(s.store.booking(id))
	})
}
