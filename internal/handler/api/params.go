package api

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"travel-booking/internal/handler/httperr"
)

// pathUUID parses a path parameter and aborts with 400 when it is not a UUID.
func pathUUID(c *gin.Context, name, msg string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		httperr.BadRequest(c, err, msg)
		return uuid.Nil, false
	}
	return id, true
}
