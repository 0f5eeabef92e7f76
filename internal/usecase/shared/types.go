package shared

import (
	"travel-booking/internal/domain/booking"
	"travel-booking/internal/domain/money"
	"travel-booking/internal/domain/resource"

	"github.com/google/uuid"
)

// Write-side snapshots prevent dependency on Read-side query types (CQRS separation)
type ResourceSnapshot struct {
	ID        uuid.UUID
	OwnerID   uuid.UUID
	Kind      string
	Title     string
	UnitPrice money.Money
	MaxGuests int
	Status    string
}

// Terms adapts the snapshot to what booking creation needs.
func (r *ResourceSnapshot) Terms() booking.ResourceTerms {
	return booking.ResourceTerms{
		ID:        r.ID,
		OwnerID:   r.OwnerID,
		Title:     r.Title,
		UnitPrice: r.UnitPrice,
		MaxGuests: r.MaxGuests,
		Bookable:  r.Status == string(resource.StatusApproved),
	}
}

type UserSnapshot struct {
	ID           uuid.UUID
	Email        string
	Name         string
	Role         string
	IsActive     bool
	PasswordHash string
}
