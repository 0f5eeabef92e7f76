package httperr

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"travel-booking/internal/pkg/errs"
	"travel-booking/internal/usecase/commands"
	"travel-booking/internal/usecase/shared"

	"github.com/gin-gonic/gin"
)

type Response struct {
	Status int `json:"-"`
	Error  struct {
		Message string `json:"message"`
	} `json:"error"`
	Detail any `json:"detail,omitempty"`
}

// preserves original error for future monitoring
func AbortWithError(c *gin.Context, status int, err error, msg string, detail any) {
	if err == nil {
		err = errs.New(msg)
	}

	resp := Response{Status: status}
	resp.Error.Message = msg
	resp.Detail = detail

	_ = c.Error(gin.Error{
		Err:  err,
		Type: gin.ErrorTypePublic,
		Meta: resp,
	})
	c.AbortWithStatusJSON(status, resp)
}

// BadRequest reports malformed input that never reached a use case.
func BadRequest(c *gin.Context, err error, msg string) {
	AbortWithError(c, http.StatusBadRequest, err, msg, nil)
}

var categories = []struct {
	category error
	status   int
}{
	{errs.ErrValidation, http.StatusBadRequest},
	{errs.ErrUnauthorized, http.StatusUnauthorized},
	{errs.ErrForbidden, http.StatusForbidden},
	{errs.ErrNotFound, http.StatusNotFound},
	{errs.ErrConflict, http.StatusConflict},
	{errs.ErrProviderTimeout, http.StatusGatewayTimeout},
	{errs.ErrProvider, http.StatusBadGateway},
}

// StatusOf maps an error category to its HTTP status.
func StatusOf(err error) int {
	for _, c := range categories {
		if errs.Is(err, c.category) {
			return c.status
		}
	}
	return http.StatusInternalServerError
}

// Abort renders a use case error. Client errors carry the root message;
// everything else is reduced to a generic one and logged.
func Abort(c *gin.Context, err error) {
	status := StatusOf(err)

	switch status {
	case http.StatusInternalServerError:
		slog.Error("request failed", "path", c.FullPath(), "error", err.Error())
		AbortWithError(c, status, err, "Internal server error", nil)
	case http.StatusBadGateway:
		slog.Error("payment provider error", "path", c.FullPath(), "error", err.Error())
		AbortWithError(c, status, err, "Payment provider error", providerDetail(err))
	case http.StatusGatewayTimeout:
		slog.Error("payment provider timeout", "path", c.FullPath(), "error", err.Error())
		AbortWithError(c, status, err, "Payment provider timed out", nil)
	default:
		AbortWithError(c, status, err, errs.Cause(err).Error(), conflictDetail(err))
	}
}

type conflictingBooking struct {
	BookingID string    `json:"booking_id"`
	Reference string    `json:"reference"`
	CheckIn   time.Time `json:"check_in"`
	CheckOut  time.Time `json:"check_out"`
	Status    string    `json:"status"`
}

func conflictDetail(err error) any {
	var conflict *shared.ConflictError
	if !errors.As(err, &conflict) {
		return nil
	}
	list := make([]conflictingBooking, len(conflict.Conflicts))
	for i, s := range conflict.Conflicts {
		list[i] = conflictingBooking{
			BookingID: s.BookingID.String(),
			Reference: s.Reference.String(),
			CheckIn:   s.Range.Start(),
			CheckOut:  s.Range.End(),
			Status:    s.Status.String(),
		}
	}
	return gin.H{"conflicts": list}
}

func providerDetail(err error) any {
	var perr *commands.ProviderError
	if !errors.As(err, &perr) {
		return nil
	}
	return gin.H{
		"operation":       perr.Operation,
		"provider_status": perr.StatusCode,
		"provider":        perr.Payload,
	}
}
