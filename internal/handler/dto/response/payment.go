package response

import (
	"time"

	"travel-booking/internal/usecase/commands"
	"travel-booking/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type PaymentResponse struct {
	ID                uuid.UUID  `json:"id"`
	BookingID         uuid.UUID  `json:"bookingId"`
	PayerID           *uuid.UUID `json:"payerId,omitempty"`
	PayeeID           uuid.UUID  `json:"payeeId"`
	Amount            string     `json:"amount"`
	PlatformFee       string     `json:"platformFee"`
	OwnerPayout       string     `json:"ownerPayout"`
	AmountCents       int64      `json:"amountCents"`
	PlatformFeeCents  int64      `json:"platformFeeCents"`
	OwnerPayoutCents  int64      `json:"ownerPayoutCents"`
	Currency          string     `json:"currency"`
	Status            string     `json:"status"`
	ProviderOrderID   string     `json:"providerOrderId"`
	ProviderCaptureID *string    `json:"providerCaptureId,omitempty"`
	ProviderPayerID   *string    `json:"providerPayerId,omitempty"`
	PayerEmail        *string    `json:"payerEmail,omitempty"`
	SettledAt         *time.Time `json:"settledAt,omitempty"`
	CreatedAt         time.Time  `json:"createdAt"`
	UpdatedAt         time.Time  `json:"updatedAt"`

	Ledger []LedgerEntryResponse `json:"ledger,omitempty"`
}

type LedgerEntryResponse struct {
	UserID      uuid.UUID `json:"userId"`
	Direction   string    `json:"direction"`
	Amount      string    `json:"amount"`
	AmountCents int64     `json:"amountCents"`
	Currency    string    `json:"currency"`
	CreatedAt   time.Time `json:"createdAt"`
}

type PaymentListResponse struct {
	Items []*PaymentResponse `json:"items"`
	Total int64              `json:"total"`
	Page  int                `json:"page"`
	Limit int                `json:"limit"`
	Pages int                `json:"pages"`
}

type CreateOrderResponse struct {
	OrderID     string    `json:"orderId"`
	PaymentID   uuid.UUID `json:"paymentId"`
	ApprovalURL string    `json:"approvalUrl"`
	Status      string    `json:"status"`
}

type CaptureInfoResponse struct {
	OrderID   string `json:"orderId"`
	Status    string `json:"status"`
	CaptureID string `json:"captureId,omitempty"`
}

type CaptureResponse struct {
	Payment *PaymentResponse    `json:"payment"`
	Booking *BookingResponse    `json:"booking"`
	Capture CaptureInfoResponse `json:"capture"`
}

func FromPaymentView(v *queries.PaymentView) *PaymentResponse {
	var res PaymentResponse
	_ = copier.Copy(&res, v)
	res.Amount = formatCents(v.AmountCents)
	res.PlatformFee = formatCents(v.PlatformFeeCents)
	res.OwnerPayout = formatCents(v.OwnerPayoutCents)
	res.Ledger = nil
	for _, e := range v.Ledger {
		res.Ledger = append(res.Ledger, LedgerEntryResponse{
			UserID:      e.UserID,
			Direction:   e.Direction,
			Amount:      formatCents(e.AmountCents),
			AmountCents: e.AmountCents,
			Currency:    e.Currency,
			CreatedAt:   e.CreatedAt,
		})
	}
	return &res
}

func FromPaymentPage(p *queries.Page[*queries.PaymentView]) *PaymentListResponse {
	items := make([]*PaymentResponse, len(p.Items))
	for i, v := range p.Items {
		items[i] = FromPaymentView(v)
	}
	return &PaymentListResponse{
		Items: items,
		Total: p.Total,
		Page:  p.Page,
		Limit: p.Limit,
		Pages: p.Pages,
	}
}

func FromCreateOrderResult(r *commands.CreateOrderResult) *CreateOrderResponse {
	var res CreateOrderResponse
	_ = copier.Copy(&res, r)
	return &res
}

func FromCaptureResult(r *commands.CaptureResult) *CaptureResponse {
	var capture CaptureInfoResponse
	_ = copier.Copy(&capture, &r.Capture)
	return &CaptureResponse{
		Payment: FromPaymentView(r.Payment),
		Booking: FromBookingView(r.Booking),
		Capture: capture,
	}
}
