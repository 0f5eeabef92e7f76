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

type ResourceHandler struct {
	commands commands.ResourceCommands
	queries  queries.ResourceQueries
	bookings queries.BookingQueries
}

func NewResourceHandler(commands commands.ResourceCommands, queries queries.ResourceQueries, bookings queries.BookingQueries) *ResourceHandler {
	return &ResourceHandler{
		commands: commands,
		queries:  queries,
		bookings: bookings,
	}
}

// @Summary Create resource
// @Description List a property or vehicle. Admin-created resources are approved immediately.
// @Tags resources
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.CreateResourceRequest true "Resource"
// @Success 201 {object} resdto.ResourceResponse
// @Failure 400 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Router /resources [post]
func (h *ResourceHandler) CreateResource(c *gin.Context) {
	var req reqdto.CreateResourceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, err, "Invalid request format")
		return
	}

	view, err := h.commands.CreateResource(c.Request.Context(), req, middleware.Actor(c))
	if err != nil {
		httperr.Abort(c, err)
		return
	}

	c.JSON(http.StatusCreated, resdto.FromResourceView(view))
}

// @Summary List resources
// @Tags resources
// @Produce json
// @Param kind query string false "property or vehicle"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} resdto.ResourceListResponse
// @Failure 400 {object} httperr.Response
// @Router /resources [get]
func (h *ResourceHandler) ListResources(c *gin.Context) {
	var q reqdto.ListResourcesQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		httperr.BadRequest(c, err, "Invalid query parameters")
		return
	}

	page, err := h.queries.List(c.Request.Context(), q.Kind, q.Page, q.Limit)
	if err != nil {
		httperr.Abort(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromResourcePage(page))
}

// @Summary Get resource
// @Tags resources
// @Produce json
// @Param id path string true "Resource ID"
// @Success 200 {object} resdto.ResourceResponse
// @Failure 404 {object} httperr.Response
// @Router /resources/{id} [get]
func (h *ResourceHandler) GetResource(c *gin.Context) {
	id, ok := pathUUID(c, "id", "Invalid resource ID format")
	if !ok {
		return
	}

	view, err := h.queries.GetByID(c.Request.Context(), id)
	if err != nil {
		httperr.Abort(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromResourceView(view))
}

// @Summary Check availability
// @Description 200 with a one-unit estimate when free, 409 listing the blocking bookings otherwise
// @Tags resources
// @Produce json
// @Param id path string true "Resource ID"
// @Param checkIn query string true "YYYY-MM-DD"
// @Param checkOut query string true "YYYY-MM-DD"
// @Success 200 {object} resdto.AvailabilityResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /resources/{id}/availability [get]
func (h *ResourceHandler) CheckAvailability(c *gin.Context) {
	id, ok := pathUUID(c, "id", "Invalid resource ID format")
	if !ok {
		return
	}

	var q reqdto.AvailabilityQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		httperr.BadRequest(c, err, "checkIn and checkOut are required")
		return
	}
	stay, err := reqdto.ParseStay(q.CheckIn, q.CheckOut)
	if err != nil {
		httperr.BadRequest(c, err, err.Error())
		return
	}

	view, err := h.bookings.CheckAvailability(c.Request.Context(), id, stay)
	if err != nil {
		httperr.Abort(c, err)
		return
	}

	c.JSON(http.StatusOK, resdto.FromAvailabilityView(view))
}
