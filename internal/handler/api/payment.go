package api

import (
	"net/http"

	reqdto "travel-booking/internal/handler/dto/request"
	resdto "travel-booking/internal/handler/dto/response"
	"travel-booking/internal/handler/httperr"
	"travel-booking/internal/handler/middleware"
	"travel-booking/internal/usecase/commands"
	"travel-booking/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type PaymentHandler struct {
	commands commands.PaymentCommands
	queries  queries.PaymentQueries
}

func NewPaymentHandler(commands commands.PaymentCommands, queries queries.PaymentQueries) *PaymentHandler {
	return &PaymentHandler{
		commands: commands,
		queries:  queries,
	}
}

// @Summary Create payment order
// @Description Open a provider order for a pending booking. The amount must equal the booking total.
// @Tags payments
// @Accept json
// @Produce json
// @Param request body reqdto.CreateOrderRequest true "Order"
// @Success 200 {object} resdto.CreateOrderResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Failure 502 {object} httperr.Response
// @Failure 504 {object} httperr.Response
// @Router /payments/create-order [post]
func (h *PaymentHandler) CreateOrder(c *gin.Context) {
	var req reqdto.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, err, "Invalid request format")
		return
	}

	result, err := h.commands.CreateOrder(c.Request.Context(), req, middleware.Actor(c))
	if err != nil {
		httperr.Abort(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromCreateOrderResult(result))
}

// @Summary Capture payment order
// @Description Capture an approved order and settle the payment
// @Tags payments
// @Produce json
// @Param orderId path string true "Provider order ID"
// @Success 200 {object} resdto.CaptureResponse
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Failure 502 {object} httperr.Response
// @Failure 504 {object} httperr.Response
// @Router /payments/capture/{orderId} [post]
func (h *PaymentHandler) CaptureOrder(c *gin.Context) {
	orderID := c.Param("orderId")
	if orderID == "" {
		httperr.BadRequest(c, nil, "Order ID is required")
		return
	}

	result, err := h.commands.CaptureOrder(c.Request.Context(), orderID, middleware.Actor(c))
	if err != nil {
		httperr.Abort(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromCaptureResult(result))
}

// @Summary Get payment
// @Tags payments
// @Produce json
// @Security BearerAuth
// @Param paymentId path string true "Payment ID"
// @Success 200 {object} resdto.PaymentResponse
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /payments/{paymentId} [get]
func (h *PaymentHandler) GetPayment(c *gin.Context) {
	id, ok := pathUUID(c, "paymentId", "Invalid payment ID format")
	if !ok {
		return
	}

	view, err := h.queries.GetByID(c.Request.Context(), id, middleware.Actor(c))
	if err != nil {
		httperr.Abort(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromPaymentView(view))
}

// @Summary List payments made by a user
// @Tags payments
// @Produce json
// @Security BearerAuth
// @Param userId path string true "User ID"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} resdto.PaymentListResponse
// @Failure 403 {object} httperr.Response
// @Router /payments/user/{userId} [get]
func (h *PaymentHandler) ListByUser(c *gin.Context) {
	userID, ok := pathUUID(c, "userId", "Invalid user ID format")
	if !ok {
		return
	}
	var q reqdto.PageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		httperr.BadRequest(c, err, "Invalid query parameters")
		return
	}

	page, err := h.queries.ListByUser(c.Request.Context(), userID, q.Page, q.Limit, middleware.Actor(c))
	if err != nil {
		httperr.Abort(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromPaymentPage(page))
}

// @Summary List payments received by an owner
// @Tags payments
// @Produce json
// @Security BearerAuth
// @Param ownerId path string true "Owner ID"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} resdto.PaymentListResponse
// @Failure 403 {object} httperr.Response
// @Router /payments/owner/{ownerId} [get]
func (h *PaymentHandler) ListByOwner(c *gin.Context) {
	ownerID, ok := pathUUID(c, "ownerId", "Invalid owner ID format")
	if !ok {
		return
	}
	var q reqdto.PageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		httperr.BadRequest(c, err, "Invalid query parameters")
		return
	}

	page, err := h.queries.ListByOwner(c.Request.Context(), ownerID, q.Page, q.Limit, middleware.Actor(c))
	if err != nil {
		httperr.Abort(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromPaymentPage(page))
}
