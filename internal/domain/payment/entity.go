package payment

import (
	"errors"
	"strings"
	"time"

	"travel-booking/internal/domain/money"

	"github.com/google/uuid"
)

var (
	ErrNonPositiveAmount = errors.New("payment amount must be positive")
	ErrMissingOrderID    = errors.New("provider order id is required")
	ErrAlreadySettled    = errors.New("payment already settled")
)

type Payment struct {
	id                uuid.UUID
	bookingID         uuid.UUID
	payerID           *uuid.UUID
	payeeID           uuid.UUID
	amount            money.Money
	platformFee       money.Money
	ownerPayout       money.Money
	status            Status
	providerOrderID   string
	providerCaptureID *string
	providerPayerID   *string
	payerEmail        *string
	rawResponse       []byte
	settledAt         *time.Time
	createdAt         time.Time
	updatedAt         time.Time
}

// NewPayment fixes the amount and the fee split for the lifetime of the payment.
func NewPayment(bookingID uuid.UUID, payerID *uuid.UUID, payeeID uuid.UUID, amount money.Money, providerOrderID string, at time.Time) (*Payment, error) {
	if amount.Cents() <= 0 {
		return nil, ErrNonPositiveAmount
	}
	providerOrderID = strings.TrimSpace(providerOrderID)
	if providerOrderID == "" {
		return nil, ErrMissingOrderID
	}
	fee, payout := Split(amount)
	return &Payment{
		id:              uuid.New(),
		bookingID:       bookingID,
		payerID:         payerID,
		payeeID:         payeeID,
		amount:          amount,
		platformFee:     fee,
		ownerPayout:     payout,
		status:          StatusPending,
		providerOrderID: providerOrderID,
		createdAt:       at,
		updatedAt:       at,
	}, nil
}

type Record struct {
	ID                uuid.UUID
	BookingID         uuid.UUID
	PayerID           *uuid.UUID
	PayeeID           uuid.UUID
	Amount            money.Money
	PlatformFee       money.Money
	OwnerPayout       money.Money
	Status            Status
	ProviderOrderID   string
	ProviderCaptureID *string
	ProviderPayerID   *string
	PayerEmail        *string
	RawResponse       []byte
	SettledAt         *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func ReconstructPayment(r Record) *Payment {
	return &Payment{
		id:                r.ID,
		bookingID:         r.BookingID,
		payerID:           r.PayerID,
		payeeID:           r.PayeeID,
		amount:            r.Amount,
		platformFee:       r.PlatformFee,
		ownerPayout:       r.OwnerPayout,
		status:            r.Status,
		providerOrderID:   r.ProviderOrderID,
		providerCaptureID: r.ProviderCaptureID,
		providerPayerID:   r.ProviderPayerID,
		payerEmail:        r.PayerEmail,
		rawResponse:       r.RawResponse,
		settledAt:         r.SettledAt,
		createdAt:         r.CreatedAt,
		updatedAt:         r.UpdatedAt,
	}
}

// Capture is the provider's record of a completed capture.
type Capture struct {
	CaptureID       string
	ProviderPayerID string
	PayerEmail      string
	Raw             []byte
}

func (p *Payment) Complete(c Capture, at time.Time) error {
	if p.status.IsSettled() {
		return ErrAlreadySettled
	}
	p.status = StatusCompleted
	p.providerCaptureID = nonEmpty(c.CaptureID)
	p.providerPayerID = nonEmpty(c.ProviderPayerID)
	p.payerEmail = nonEmpty(c.PayerEmail)
	p.rawResponse = c.Raw
	p.settledAt = &at
	p.updatedAt = at
	return nil
}

func (p *Payment) Fail(raw []byte, at time.Time) error {
	if p.status.IsSettled() {
		return ErrAlreadySettled
	}
	p.status = StatusFailed
	p.rawResponse = raw
	p.settledAt = &at
	p.updatedAt = at
	return nil
}

// LedgerEntries returns the history rows a completed capture produces. Guest
// checkouts have no payer account, so only the payee row is returned.
func (p *Payment) LedgerEntries() []LedgerEntry {
	entries := make([]LedgerEntry, 0, 2)
	if p.payerID != nil {
		entries = append(entries, LedgerEntry{
			UserID:    *p.payerID,
			PaymentID: p.id,
			BookingID: p.bookingID,
			Direction: DirectionPaid,
			Amount:    p.amount,
		})
	}
	entries = append(entries, LedgerEntry{
		UserID:    p.payeeID,
		PaymentID: p.id,
		BookingID: p.bookingID,
		Direction: DirectionReceived,
		Amount:    p.ownerPayout,
	})
	return entries
}

func (p *Payment) ID() uuid.UUID              { return p.id }
func (p *Payment) BookingID() uuid.UUID       { return p.bookingID }
func (p *Payment) PayerID() *uuid.UUID        { return p.payerID }
func (p *Payment) PayeeID() uuid.UUID         { return p.payeeID }
func (p *Payment) Amount() money.Money        { return p.amount }
func (p *Payment) PlatformFee() money.Money   { return p.platformFee }
func (p *Payment) OwnerPayout() money.Money   { return p.ownerPayout }
func (p *Payment) Status() Status             { return p.status }
func (p *Payment) ProviderOrderID() string    { return p.providerOrderID }
func (p *Payment) ProviderCaptureID() *string { return p.providerCaptureID }
func (p *Payment) ProviderPayerID() *string   { return p.providerPayerID }
func (p *Payment) PayerEmail() *string        { return p.payerEmail }
func (p *Payment) RawResponse() []byte        { return p.rawResponse }
func (p *Payment) SettledAt() *time.Time      { return p.settledAt }
func (p *Payment) CreatedAt() time.Time       { return p.createdAt }
func (p *Payment) UpdatedAt() time.Time       { return p.updatedAt }

func nonEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
