package request

import (
	"encoding/json"

	"github.com/google/uuid"
)

type CreateResourceRequest struct {
	Kind      string      `json:"kind" binding:"required,oneof=property vehicle"`
	Title     string      `json:"title" binding:"required,max=255"`
	UnitPrice json.Number `json:"unitPrice" binding:"required"`
	Currency  string      `json:"currency"`
	MaxGuests int         `json:"maxGuests" binding:"min=0"`
	// OwnerID lets an admin list a resource on behalf of an owner.
	OwnerID *uuid.UUID `json:"ownerId"`
}

type ListResourcesQuery struct {
	Kind  string `form:"kind"`
	Page  int    `form:"page"`
	Limit int    `form:"limit"`
}
