package policy

import (
	"travel-booking/internal/domain/user"
	"travel-booking/internal/pkg/errs"

	"github.com/google/uuid"
)

var (
	ErrForbidden       = errs.Category("action not permitted", errs.ErrForbidden)
	ErrUnauthenticated = errs.Category("authentication required", errs.ErrUnauthorized)
)

type Action string

const (
	BookingCreate       Action = "booking:create"
	BookingRead         Action = "booking:read"
	BookingList         Action = "booking:list"
	BookingUpdateStatus Action = "booking:update_status"
	BookingDelete       Action = "booking:delete"
	PaymentCreateOrder  Action = "payment:create_order"
	PaymentCapture      Action = "payment:capture"
	PaymentRead         Action = "payment:read"
	PaymentListUser     Action = "payment:list_user"
	PaymentListOwner    Action = "payment:list_owner"
	ResourceCreate      Action = "resource:create"
)

// Actor is the caller. A zero Actor is an anonymous visitor.
type Actor struct {
	UserID *uuid.UUID
	Role   user.Role
}

func Anonymous() Actor {
	return Actor{}
}

func NewActor(id uuid.UUID, role user.Role) Actor {
	return Actor{UserID: &id, Role: role}
}

func (a Actor) IsAuthenticated() bool { return a.UserID != nil }
func (a Actor) IsAdmin() bool         { return a.IsAuthenticated() && a.Role == user.RoleAdmin }

func (a Actor) is(id *uuid.UUID) bool {
	return a.UserID != nil && id != nil && *a.UserID == *id
}

// Target describes whose data an action touches. OwnerID is the resource
// owner (the payee for payments); SubjectID is the booking user or payer, or
// the user whose list is requested.
type Target struct {
	OwnerID   *uuid.UUID
	SubjectID *uuid.UUID
}

// Authorize is the single place where roles and ownership are compared.
func Authorize(actor Actor, action Action, target Target) error {
	switch action {
	case BookingCreate, PaymentCreateOrder, PaymentCapture:
		return nil
	}

	if !actor.IsAuthenticated() {
		return ErrUnauthenticated
	}
	if actor.IsAdmin() {
		return nil
	}

	switch action {
	case BookingRead, PaymentRead:
		if actor.is(target.OwnerID) || actor.is(target.SubjectID) {
			return nil
		}
	case BookingList:
		// owners only ever see their own resources; the query scopes them
		if actor.Role == user.RoleOwner {
			return nil
		}
	case BookingUpdateStatus:
		if actor.is(target.OwnerID) {
			return nil
		}
	case PaymentListUser:
		if actor.is(target.SubjectID) {
			return nil
		}
	case PaymentListOwner:
		if actor.is(target.OwnerID) {
			return nil
		}
	case ResourceCreate:
		if actor.Role == user.RoleOwner {
			return nil
		}
	}
	return ErrForbidden
}
