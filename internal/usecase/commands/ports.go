package commands

import (
	"context"
	"encoding/json"
	"fmt"

	"travel-booking/internal/domain/money"
)

// ProviderStatusCompleted is the only capture outcome that settles a payment.
const ProviderStatusCompleted = "COMPLETED"

//go:generate mockgen -source=$GOFILE -destination=../../mock/commands/$GOFILE -package=commandsmock

// PaymentProvider is the external checkout service. Implementations mark
// failures with errs.ErrProvider or errs.ErrProviderTimeout.
type PaymentProvider interface {
	CreateOrder(ctx context.Context, req OrderRequest) (*ProviderOrder, error)
	CaptureOrder(ctx context.Context, orderID string) (*ProviderCapture, error)
}

type OrderRequest struct {
	ReferenceID string
	Description string
	Amount      money.Money
	ReturnURL   string
	CancelURL   string
}

type ProviderOrder struct {
	ID          string
	Status      string
	ApprovalURL string
	Raw         json.RawMessage
}

type ProviderCapture struct {
	OrderID    string
	Status     string
	CaptureID  string
	PayerID    string
	PayerEmail string
	Raw        json.RawMessage
}

// ProviderError keeps the provider's answer for diagnostics.
type ProviderError struct {
	Operation  string
	StatusCode int
	Payload    json.RawMessage
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("payment provider rejected %s with status %d", e.Operation, e.StatusCode)
}

// CheckoutURLs are where the provider sends the payer after approval.
type CheckoutURLs struct {
	ReturnURL string
	CancelURL string
}

// Settings carries the deployment values commands need.
type Settings struct {
	Currency string
	Checkout CheckoutURLs
}
