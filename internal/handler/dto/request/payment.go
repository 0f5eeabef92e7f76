package request

import (
	"encoding/json"

	"github.com/google/uuid"
)

type CreateOrderRequest struct {
	BookingID uuid.UUID   `json:"bookingId" binding:"required"`
	Amount    json.Number `json:"amount" binding:"required"`
}
