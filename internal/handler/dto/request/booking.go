package request

import (
	"errors"
	"strings"
	"time"

	"travel-booking/internal/domain/booking"
	"travel-booking/internal/usecase/queries"

	"github.com/google/uuid"
)

const dateLayout = "2006-01-02"

var ErrInvalidDate = errors.New("dates must be formatted as YYYY-MM-DD")

type GuestsRequest struct {
	Adults   int `json:"adults" binding:"required,min=1"`
	Children int `json:"children" binding:"min=0"`
}

type GuestInfoRequest struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required,email"`
	Phone string `json:"phone"`
}

type CreateBookingRequest struct {
	ResourceID      uuid.UUID        `json:"resourceId" binding:"required"`
	CheckIn         string           `json:"checkIn" binding:"required"`
	CheckOut        string           `json:"checkOut" binding:"required"`
	Guests          GuestsRequest    `json:"guests"`
	Quantity        int              `json:"quantity" binding:"min=0"`
	GuestInfo       GuestInfoRequest `json:"guestInfo"`
	SpecialRequests string           `json:"specialRequests"`
}

type CreateBookingData struct {
	Stay            booking.DateRange
	Occupancy       booking.Occupancy
	Guest           booking.GuestInfo
	SpecialRequests string
}

func (r CreateBookingRequest) ToDomain() (*CreateBookingData, error) {
	stay, err := ParseStay(r.CheckIn, r.CheckOut)
	if err != nil {
		return nil, err
	}

	quantity := r.Quantity
	if quantity == 0 {
		quantity = 1
	}
	occ, err := booking.NewOccupancy(r.Guests.Adults, r.Guests.Children, quantity)
	if err != nil {
		return nil, err
	}

	guest, err := booking.NewGuestInfo(r.GuestInfo.Name, r.GuestInfo.Email, r.GuestInfo.Phone)
	if err != nil {
		return nil, err
	}

	return &CreateBookingData{
		Stay:            stay,
		Occupancy:       occ,
		Guest:           guest,
		SpecialRequests: strings.TrimSpace(r.SpecialRequests),
	}, nil
}

// ParseStay reads calendar dates. Full timestamps are accepted and reduced to
// their UTC date.
func ParseStay(checkIn, checkOut string) (booking.DateRange, error) {
	start, err := parseDate(checkIn)
	if err != nil {
		return booking.DateRange{}, err
	}
	end, err := parseDate(checkOut)
	if err != nil {
		return booking.DateRange{}, err
	}
	return booking.NewDateRange(start, end)
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(dateLayout, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	return time.Time{}, ErrInvalidDate
}

type UpdateBookingStatusRequest struct {
	Status     string  `json:"status" binding:"required"`
	AdminNotes *string `json:"adminNotes"`
}

type ListBookingsQuery struct {
	Status     string `form:"status"`
	PropertyID string `form:"propertyId"`
	ResourceID string `form:"resourceId"`
	Email      string `form:"email"`
	Page       int    `form:"page"`
	Limit      int    `form:"limit"`
}

var ErrInvalidResourceFilter = errors.New("propertyId must be a UUID")

func (q ListBookingsQuery) ToFilters() (queries.BookingFilters, error) {
	var f queries.BookingFilters
	if s := strings.TrimSpace(q.Status); s != "" {
		f.Status = &s
	}
	id := q.ResourceID
	if id == "" {
		id = q.PropertyID
	}
	if id != "" {
		parsed, err := uuid.Parse(id)
		if err != nil {
			return f, ErrInvalidResourceFilter
		}
		f.ResourceID = &parsed
	}
	if e := strings.TrimSpace(q.Email); e != "" {
		f.Email = &e
	}
	return f, nil
}

type AvailabilityQuery struct {
	CheckIn  string `form:"checkIn" binding:"required"`
	CheckOut string `form:"checkOut" binding:"required"`
}

type PageQuery struct {
	Page  int `form:"page"`
	Limit int `form:"limit"`
}
