//go:build unit || integration

package builder

import (
	"time"

	reqdto "travel-booking/internal/handler/dto/request"
	"travel-booking/internal/usecase/queries"

	"github.com/google/uuid"
)

type BookingBuilder struct {
	ID              uuid.UUID
	Reference       string
	ResourceID      uuid.UUID
	ResourceTitle   string
	OwnerID         uuid.UUID
	UserID          *uuid.UUID
	CheckIn         time.Time
	CheckOut        time.Time
	Adults          int
	Children        int
	Quantity        int
	GuestName       string
	GuestEmail      string
	GuestPhone      string
	SpecialRequests string
	UnitPriceCents  int64
	Currency        string
	Status          string
}

func NewBookingBuilder() *BookingBuilder {
	return &BookingBuilder{
		ID:             uuid.New(),
		Reference:      "BK-20250915-A1B2C3",
		ResourceID:     uuid.New(),
		ResourceTitle:  "Seaside Cottage",
		OwnerID:        uuid.New(),
		CheckIn:        time.Date(2025, time.October, 1, 0, 0, 0, 0, time.UTC),
		CheckOut:       time.Date(2025, time.October, 3, 0, 0, 0, 0, time.UTC),
		Adults:         2,
		Quantity:       1,
		GuestName:      "Jane Traveler",
		GuestEmail:     "jane@example.com",
		GuestPhone:     "+1-555-0100",
		UnitPriceCents: 10000,
		Currency:       "USD",
		Status:         "pending",
	}
}

func (b *BookingBuilder) With(mutate func(*BookingBuilder)) *BookingBuilder {
	mutate(b)
	return b
}

func (b *BookingBuilder) WithStay(checkIn, checkOut time.Time) *BookingBuilder {
	b.CheckIn = checkIn
	b.CheckOut = checkOut
	return b
}

func (b *BookingBuilder) WithStatus(status string) *BookingBuilder {
	b.Status = status
	return b
}

func (b *BookingBuilder) WithUser(id uuid.UUID) *BookingBuilder {
	b.UserID = &id
	return b
}

func (b *BookingBuilder) nights() int {
	return int(b.CheckOut.Sub(b.CheckIn).Hours() / 24)
}

func (b *BookingBuilder) BuildCreateRequestDTO() reqdto.CreateBookingRequest {
	return reqdto.CreateBookingRequest{
		ResourceID: b.ResourceID,
		CheckIn:    b.CheckIn.Format("2006-01-02"),
		CheckOut:   b.CheckOut.Format("2006-01-02"),
		Guests: reqdto.GuestsRequest{
			Adults:   b.Adults,
			Children: b.Children,
		},
		Quantity: b.Quantity,
		GuestInfo: reqdto.GuestInfoRequest{
			Name:  b.GuestName,
			Email: b.GuestEmail,
			Phone: b.GuestPhone,
		},
		SpecialRequests: b.SpecialRequests,
	}
}

func (b *BookingBuilder) BuildView() *queries.BookingView {
	now := time.Date(2025, time.September, 15, 9, 0, 0, 0, time.UTC)
	return &queries.BookingView{
		ID:              b.ID,
		Reference:       b.Reference,
		ResourceID:      b.ResourceID,
		ResourceTitle:   b.ResourceTitle,
		ResourceKind:    "property",
		OwnerID:         b.OwnerID,
		UserID:          b.UserID,
		CheckIn:         b.CheckIn,
		CheckOut:        b.CheckOut,
		Units:           b.nights(),
		Adults:          b.Adults,
		Children:        b.Children,
		Quantity:        b.Quantity,
		GuestName:       b.GuestName,
		GuestEmail:      b.GuestEmail,
		GuestPhone:      b.GuestPhone,
		SpecialRequests: b.SpecialRequests,
		UnitPriceCents:  b.UnitPriceCents,
		TotalCents:      b.UnitPriceCents * int64(b.nights()) * int64(b.Quantity),
		Currency:        b.Currency,
		Status:          b.Status,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}
