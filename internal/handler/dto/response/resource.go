package response

import (
	"time"

	"travel-booking/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type ResourceResponse struct {
	ID             uuid.UUID `json:"id"`
	OwnerID        uuid.UUID `json:"ownerId"`
	Kind           string    `json:"kind"`
	BillingUnit    string    `json:"billingUnit"`
	Title          string    `json:"title"`
	UnitPriceCents int64     `json:"unitPriceCents"`
	Price          string    `json:"price"`
	Currency       string    `json:"currency"`
	MaxGuests      int       `json:"maxGuests"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

type ResourceListResponse struct {
	Items []*ResourceResponse `json:"items"`
	Total int64               `json:"total"`
	Page  int                 `json:"page"`
	Limit int                 `json:"limit"`
	Pages int                 `json:"pages"`
}

func FromResourceView(v *queries.ResourceView) *ResourceResponse {
	var res ResourceResponse
	_ = copier.Copy(&res, v)
	res.Price = formatCents(v.UnitPriceCents)
	return &res
}

func FromResourcePage(p *queries.Page[*queries.ResourceView]) *ResourceListResponse {
	items := make([]*ResourceResponse, len(p.Items))
	for i, v := range p.Items {
		items[i] = FromResourceView(v)
	}
	return &ResourceListResponse{
		Items: items,
		Total: p.Total,
		Page:  p.Page,
		Limit: p.Limit,
		Pages: p.Pages,
	}
}
