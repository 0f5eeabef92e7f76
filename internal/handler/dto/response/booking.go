package response

import (
	"time"

	"travel-booking/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type GuestsResponse struct {
	Adults   int `json:"adults"`
	Children int `json:"children"`
}

type GuestInfoResponse struct {
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

type BookingResponse struct {
	ID              uuid.UUID         `json:"id"`
	Reference       string            `json:"reference"`
	ResourceID      uuid.UUID         `json:"resourceId"`
	ResourceTitle   string            `json:"resourceTitle"`
	ResourceKind    string            `json:"resourceKind"`
	OwnerID         uuid.UUID         `json:"ownerId"`
	UserID          *uuid.UUID        `json:"userId,omitempty"`
	CheckIn         string            `json:"checkIn"`
	CheckOut        string            `json:"checkOut"`
	Units           int               `json:"units"`
	Guests          GuestsResponse    `json:"guests"`
	Quantity        int               `json:"quantity"`
	GuestInfo       GuestInfoResponse `json:"guestInfo"`
	SpecialRequests string            `json:"specialRequests,omitempty"`
	UnitPrice       string            `json:"unitPrice"`
	TotalPrice      string            `json:"totalPrice"`
	TotalCents      int64             `json:"totalCents"`
	Currency        string            `json:"currency"`
	Status          string            `json:"status"`
	AdminNotes      *string           `json:"adminNotes,omitempty"`
	CreatedAt       time.Time         `json:"createdAt"`
	UpdatedAt       time.Time         `json:"updatedAt"`
}

type BookingListResponse struct {
	Items []*BookingResponse `json:"items"`
	Total int64              `json:"total"`
	Page  int                `json:"page"`
	Limit int                `json:"limit"`
	Pages int                `json:"pages"`
}

type AvailabilityResponse struct {
	ResourceID     uuid.UUID `json:"resourceId"`
	CheckIn        string    `json:"checkIn"`
	CheckOut       string    `json:"checkOut"`
	Units          int       `json:"units"`
	BillingUnit    string    `json:"billingUnit"`
	Available      bool      `json:"available"`
	EstimatedTotal string    `json:"estimatedTotal"`
	Currency       string    `json:"currency"`
}

const dateLayout = "2006-01-02"

func FromBookingView(v *queries.BookingView) *BookingResponse {
	var res BookingResponse
	_ = copier.Copy(&res, v)
	res.CheckIn = v.CheckIn.Format(dateLayout)
	res.CheckOut = v.CheckOut.Format(dateLayout)
	res.Guests = GuestsResponse{Adults: v.Adults, Children: v.Children}
	res.GuestInfo = GuestInfoResponse{Name: v.GuestName, Email: v.GuestEmail, Phone: v.GuestPhone}
	res.UnitPrice = formatCents(v.UnitPriceCents)
	res.TotalPrice = formatCents(v.TotalCents)
	return &res
}

func FromBookingPage(p *queries.Page[*queries.BookingView]) *BookingListResponse {
	items := make([]*BookingResponse, len(p.Items))
	for i, v := range p.Items {
		items[i] = FromBookingView(v)
	}
	return &BookingListResponse{
		Items: items,
		Total: p.Total,
		Page:  p.Page,
		Limit: p.Limit,
		Pages: p.Pages,
	}
}

func FromAvailabilityView(v *queries.AvailabilityView) *AvailabilityResponse {
	var res AvailabilityResponse
	_ = copier.Copy(&res, v)
	res.CheckIn = v.CheckIn.Format(dateLayout)
	res.CheckOut = v.CheckOut.Format(dateLayout)
	res.EstimatedTotal = formatCents(v.EstimatedTotalCents)
	return &res
}

type DeleteBookingResponse struct {
	ID      uuid.UUID `json:"id"`
	Deleted bool      `json:"deleted"`
}
