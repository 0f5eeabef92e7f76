package payment

import (
	"travel-booking/internal/domain/money"

	"github.com/google/uuid"
)

type Direction string

const (
	DirectionPaid     Direction = "paid"
	DirectionReceived Direction = "received"
)

// LedgerEntry is one line of a user's payment history.
type LedgerEntry struct {
	UserID    uuid.UUID
	PaymentID uuid.UUID
	BookingID uuid.UUID
	Direction Direction
	Amount    money.Money
}
