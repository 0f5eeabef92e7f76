//go:build unit || integration

package builder

import (
	"encoding/json"
	"time"

	reqdto "travel-booking/internal/handler/dto/request"
	"travel-booking/internal/usecase/queries"

	"github.com/google/uuid"
)

type ResourceBuilder struct {
	ID             uuid.UUID
	OwnerID        uuid.UUID
	Kind           string
	Title          string
	UnitPriceCents int64
	Currency       string
	MaxGuests      int
	Status         string
}

func NewResourceBuilder() *ResourceBuilder {
	return &ResourceBuilder{
		ID:             uuid.New(),
		OwnerID:        uuid.New(),
		Kind:           "property",
		Title:          "Seaside Cottage",
		UnitPriceCents: 10000,
		Currency:       "USD",
		MaxGuests:      4,
		Status:         "approved",
	}
}

func (r *ResourceBuilder) With(mutate func(*ResourceBuilder)) *ResourceBuilder {
	mutate(r)
	return r
}

func (r *ResourceBuilder) BuildCreateRequestDTO() reqdto.CreateResourceRequest {
	return reqdto.CreateResourceRequest{
		Kind:      r.Kind,
		Title:     r.Title,
		UnitPrice: json.Number("100.00"),
		Currency:  r.Currency,
		MaxGuests: r.MaxGuests,
	}
}

func (r *ResourceBuilder) BuildView() *queries.ResourceView {
	now := time.Date(2025, time.September, 1, 9, 0, 0, 0, time.UTC)
	unit := "night"
	if r.Kind == "vehicle" {
		unit = "day"
	}
	return &queries.ResourceView{
		ID:             r.ID,
		OwnerID:        r.OwnerID,
		Kind:           r.Kind,
		BillingUnit:    unit,
		Title:          r.Title,
		UnitPriceCents: r.UnitPriceCents,
		Currency:       r.Currency,
		MaxGuests:      r.MaxGuests,
		Status:         r.Status,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}
