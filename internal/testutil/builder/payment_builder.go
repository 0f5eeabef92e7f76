//go:build unit || integration

package builder

import (
	"encoding/json"
	"time"

	reqdto "travel-booking/internal/handler/dto/request"
	"travel-booking/internal/usecase/queries"

	"github.com/google/uuid"
)

type PaymentBuilder struct {
	ID          uuid.UUID
	BookingID   uuid.UUID
	PayerID     *uuid.UUID
	PayeeID     uuid.UUID
	AmountCents int64
	Currency    string
	Status      string
	OrderID     string
}

func NewPaymentBuilder() *PaymentBuilder {
	return &PaymentBuilder{
		ID:          uuid.New(),
		BookingID:   uuid.New(),
		PayeeID:     uuid.New(),
		AmountCents: 20000,
		Currency:    "USD",
		Status:      "pending",
		OrderID:     "ORDER-1",
	}
}

func (p *PaymentBuilder) With(mutate func(*PaymentBuilder)) *PaymentBuilder {
	mutate(p)
	return p
}

func (p *PaymentBuilder) BuildCreateOrderDTO() reqdto.CreateOrderRequest {
	return reqdto.CreateOrderRequest{
		BookingID: p.BookingID,
		Amount:    json.Number("200.00"),
	}
}

func (p *PaymentBuilder) BuildView() *queries.PaymentView {
	now := time.Date(2025, time.September, 15, 9, 0, 0, 0, time.UTC)
	fee := p.AmountCents * 15 / 100
	return &queries.PaymentView{
		ID:               p.ID,
		BookingID:        p.BookingID,
		PayerID:          p.PayerID,
		PayeeID:          p.PayeeID,
		AmountCents:      p.AmountCents,
		PlatformFeeCents: fee,
		OwnerPayoutCents: p.AmountCents - fee,
		Currency:         p.Currency,
		Status:           p.Status,
		ProviderOrderID:  p.OrderID,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}
