//go:build unit

package api_test

import (
	"net/http"
	"testing"

	"travel-booking/internal/domain/booking"
	"travel-booking/internal/domain/policy"
	"travel-booking/internal/domain/user"
	"travel-booking/internal/handler/api"
	reqdto "travel-booking/internal/handler/dto/request"
	resdto "travel-booking/internal/handler/dto/response"
	"travel-booking/internal/handler/middleware"
	commandsmock "travel-booking/internal/mock/commands"
	queriesmock "travel-booking/internal/mock/queries"
	"travel-booking/internal/pkg/config"
	"travel-booking/internal/testutil"
	"travel-booking/internal/testutil/authtest"
	"travel-booking/internal/testutil/builder"
	"travel-booking/internal/testutil/httptest"
	"travel-booking/internal/usecase"
	"travel-booking/internal/usecase/queries"
	"travel-booking/internal/usecase/shared"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type ResourceHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockCommands *commandsmock.MockResourceCommands
	mockQueries  *queriesmock.MockResourceQueries
	mockBookings *queriesmock.MockBookingQueries
	jwt          *authtest.JWTHelper
}

func TestResourceHandlerSuite(t *testing.T) {
	suite.Run(t, new(ResourceHandlerTestSuite))
}

func (s *ResourceHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.jwt = authtest.NewJWTHelper(config.NewTestConfig().JWT)
	auth := middleware.NewAuthMiddleware(usecase.NewTokenValidator(s.jwt.Service(s.T())))

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCommands = commandsmock.NewMockResourceCommands(s.mockCtrl)
	s.mockQueries = queriesmock.NewMockResourceQueries(s.mockCtrl)
	s.mockBookings = queriesmock.NewMockBookingQueries(s.mockCtrl)
	h := api.NewResourceHandler(s.mockCommands, s.mockQueries, s.mockBookings)

	g := s.router.Group("/api/resources")
	g.GET("", h.ListResources)
	g.GET("/:id", h.GetResource)
	g.GET("/:id/availability", h.CheckAvailability)
	g.POST("", auth.RequireAuth(), h.CreateResource)
}

func (s *ResourceHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func (s *ResourceHandlerTestSuite) TestCreateResource() {
	url := "/api/resources"
	ownerID := uuid.New()
	token := s.jwt.GenerateToken(s.T(), ownerID, user.RoleOwner)
	r := builder.NewResourceBuilder().With(func(b *builder.ResourceBuilder) {
		b.OwnerID = ownerID
		b.Status = "pending"
	})
	reqBody := r.BuildCreateRequestDTO()

	s.Run("success: 201", func() {
		s.mockCommands.EXPECT().CreateResource(gomock.Any(), reqBody, policy.NewActor(ownerID, user.RoleOwner)).Return(r.BuildView(), nil)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, token)
		var response resdto.ResourceResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, &response)
		s.Equal("100.00", response.Price)
		s.Equal("night", response.BillingUnit)
		s.Equal("pending", response.Status)
	})

	s.Run("error: 400 on unknown kind", func() {
		body := testutil.DtoMap(s.T(), reqBody, testutil.Field("kind", "boat"))
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, body, token)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid request format")
	})

	s.Run("error: 403 for guests", func() {
		guest := s.jwt.GenerateToken(s.T(), uuid.New(), user.RoleGuest)
		s.mockCommands.EXPECT().CreateResource(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, policy.ErrForbidden)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, guest)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusForbidden, "action not permitted")
	})

	s.Run("error: 401 without token", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnauthorized, "Access token required")
	})
}

func (s *ResourceHandlerTestSuite) TestListAndGet() {
	view := builder.NewResourceBuilder().BuildView()

	s.Run("list with kind filter", func() {
		page := queries.NewPage([]*queries.ResourceView{view}, 1, 1, 20)
		s.mockQueries.EXPECT().List(gomock.Any(), "property", 1, 20).Return(page, nil)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/api/resources?kind=property&page=1&limit=20", nil, "")
		var response resdto.ResourceListResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Len(response.Items, 1)
	})

	s.Run("list with unknown kind", func() {
		s.mockQueries.EXPECT().List(gomock.Any(), "boat", 0, 0).Return(nil, queries.ErrInvalidKind)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/api/resources?kind=boat", nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "kind must be property or vehicle")
	})

	s.Run("get", func() {
		s.mockQueries.EXPECT().GetByID(gomock.Any(), view.ID).Return(view, nil)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/api/resources/"+view.ID.String(), nil, "")
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, nil)
	})

	s.Run("get unknown", func() {
		s.mockQueries.EXPECT().GetByID(gomock.Any(), gomock.Any()).Return(nil, queries.ErrResourceNotFound)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/api/resources/"+uuid.NewString(), nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "resource not found")
	})
}

func (s *ResourceHandlerTestSuite) TestCheckAvailability() {
	id := uuid.New()
	stay, err := reqdto.ParseStay("2025-10-01", "2025-10-03")
	s.Require().NoError(err)
	url := "/api/resources/" + id.String() + "/availability?checkIn=2025-10-01&checkOut=2025-10-03"

	s.Run("available", func() {
		s.mockBookings.EXPECT().CheckAvailability(gomock.Any(), id, stay).Return(&queries.AvailabilityView{
			ResourceID:          id,
			CheckIn:             stay.Start(),
			CheckOut:            stay.End(),
			Units:               2,
			BillingUnit:         "night",
			Available:           true,
			EstimatedTotalCents: 20000,
			Currency:            "USD",
		}, nil)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "")
		var response resdto.AvailabilityResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.True(response.Available)
		s.Equal("200.00", response.EstimatedTotal)
		s.Equal("2025-10-01", response.CheckIn)
	})

	s.Run("conflict", func() {
		blocking := booking.Stay{BookingID: uuid.New(), Reference: "BK-20250901-AAAAAA", Range: stay, Status: booking.StatusPending}
		s.mockBookings.EXPECT().CheckAvailability(gomock.Any(), id, stay).Return(nil, shared.NewConflictError([]booking.Stay{blocking}))

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "")
		body := httptest.AssertErrorResponse(s.T(), rec, http.StatusConflict, "")
		s.Len(body.Detail["conflicts"], 1)
	})

	s.Run("missing dates", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/api/resources/"+id.String()+"/availability", nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "checkIn and checkOut are required")
	})

	s.Run("reversed dates", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/api/resources/"+id.String()+"/availability?checkIn=2025-10-03&checkOut=2025-10-01", nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "check-out must be after check-in")
	})
}
