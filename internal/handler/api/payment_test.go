//go:build unit

package api_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"travel-booking/internal/domain/policy"
	"travel-booking/internal/domain/user"
	"travel-booking/internal/handler/api"
	resdto "travel-booking/internal/handler/dto/response"
	"travel-booking/internal/handler/middleware"
	commandsmock "travel-booking/internal/mock/commands"
	queriesmock "travel-booking/internal/mock/queries"
	"travel-booking/internal/pkg/config"
	"travel-booking/internal/pkg/errs"
	"travel-booking/internal/testutil"
	"travel-booking/internal/testutil/authtest"
	"travel-booking/internal/testutil/builder"
	"travel-booking/internal/testutil/httptest"
	"travel-booking/internal/usecase"
	"travel-booking/internal/usecase/commands"
	"travel-booking/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type PaymentHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockCommands *commandsmock.MockPaymentCommands
	mockQueries  *queriesmock.MockPaymentQueries
	jwt          *authtest.JWTHelper
}

func TestPaymentHandlerSuite(t *testing.T) {
	suite.Run(t, new(PaymentHandlerTestSuite))
}

func (s *PaymentHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.jwt = authtest.NewJWTHelper(config.NewTestConfig().JWT)
	auth := middleware.NewAuthMiddleware(usecase.NewTokenValidator(s.jwt.Service(s.T())))

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCommands = commandsmock.NewMockPaymentCommands(s.mockCtrl)
	s.mockQueries = queriesmock.NewMockPaymentQueries(s.mockCtrl)
	h := api.NewPaymentHandler(s.mockCommands, s.mockQueries)

	g := s.router.Group("/api/payments")
	g.POST("/create-order", auth.OptionalAuth(), h.CreateOrder)
	g.POST("/capture/:orderId", auth.OptionalAuth(), h.CaptureOrder)
	g.GET("/user/:userId", auth.RequireAuth(), h.ListByUser)
	g.GET("/owner/:ownerId", auth.RequireAuth(), h.ListByOwner)
	g.GET("/:paymentId", auth.RequireAuth(), h.GetPayment)
}

func (s *PaymentHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func (s *PaymentHandlerTestSuite) TestCreateOrder() {
	url := "/api/payments/create-order"
	reqBody := builder.NewPaymentBuilder().BuildCreateOrderDTO()

	s.Run("success: 200 with the approval link", func() {
		result := &commands.CreateOrderResult{
			OrderID:     "ORDER-1",
			PaymentID:   uuid.New(),
			ApprovalURL: "https://www.sandbox.paypal.com/checkoutnow?token=ORDER-1",
			Status:      "pending",
		}
		s.mockCommands.EXPECT().CreateOrder(gomock.Any(), reqBody, policy.Anonymous()).Return(result, nil)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")
		var response resdto.CreateOrderResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Equal("ORDER-1", response.OrderID)
		s.Equal(result.ApprovalURL, response.ApprovalURL)
		s.Equal(result.PaymentID, response.PaymentID)
	})

	s.Run("success: amount sent as a JSON number", func() {
		s.mockCommands.EXPECT().CreateOrder(gomock.Any(), gomock.Any(), gomock.Any()).Return(&commands.CreateOrderResult{OrderID: "ORDER-2"}, nil)
		body := testutil.DtoMap(s.T(), reqBody, testutil.Field("amount", json.Number("200")))
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, body, "")
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, nil)
	})

	s.Run("error: 400 without bookingId", func() {
		body := testutil.DtoMap(s.T(), reqBody, testutil.Field("bookingId", nil))
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, body, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid request format")
	})

	s.Run("error: maps usecase errors to proper statuses", func() {
		providerErr := errs.Mark(&commands.ProviderError{
			Operation:  "create_order",
			StatusCode: http.StatusUnprocessableEntity,
			Payload:    json.RawMessage(`{"name":"UNPROCESSABLE_ENTITY"}`),
		}, errs.ErrProvider)

		testCases := []struct {
			name           string
			err            error
			expectedStatus int
			expectedMsg    string
		}{
			{name: "amount mismatch", err: commands.ErrAmountMismatch, expectedStatus: http.StatusBadRequest, expectedMsg: "amount does not match"},
			{name: "booking not payable", err: commands.ErrBookingNotPayable, expectedStatus: http.StatusBadRequest, expectedMsg: "only pending bookings"},
			{name: "booking missing", err: commands.ErrBookingNotFound, expectedStatus: http.StatusNotFound, expectedMsg: "booking not found"},
			{name: "duplicate order", err: commands.ErrDuplicateOrder, expectedStatus: http.StatusConflict, expectedMsg: "already recorded"},
			{name: "provider rejected", err: providerErr, expectedStatus: http.StatusBadGateway, expectedMsg: "Payment provider error"},
			{name: "provider timed out", err: errs.Mark(errors.New("deadline exceeded"), errs.ErrProviderTimeout), expectedStatus: http.StatusGatewayTimeout, expectedMsg: "Payment provider timed out"},
		}
		for _, tc := range testCases {
			s.Run(tc.name, func() {
				s.mockCommands.EXPECT().CreateOrder(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, tc.err)
				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")
				httptest.AssertErrorResponse(s.T(), rec, tc.expectedStatus, tc.expectedMsg)
			})
		}
	})

	s.Run("error: provider detail is exposed on 502", func() {
		s.mockCommands.EXPECT().CreateOrder(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, errs.Mark(&commands.ProviderError{
			Operation:  "create_order",
			StatusCode: http.StatusUnprocessableEntity,
			Payload:    json.RawMessage(`{"name":"UNPROCESSABLE_ENTITY"}`),
		}, errs.ErrProvider))

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")
		body := httptest.AssertErrorResponse(s.T(), rec, http.StatusBadGateway, "")
		s.Equal("create_order", body.Detail["operation"])
		s.EqualValues(http.StatusUnprocessableEntity, body.Detail["provider_status"])
		s.Equal(map[string]any{"name": "UNPROCESSABLE_ENTITY"}, body.Detail["provider"])
	})
}

func (s *PaymentHandlerTestSuite) TestCaptureOrder() {
	url := "/api/payments/capture/ORDER-1"
	payerID := uuid.New()

	s.Run("success: returns payment, booking and capture", func() {
		paymentView := builder.NewPaymentBuilder().With(func(p *builder.PaymentBuilder) { p.Status = "completed" }).BuildView()
		bookingView := builder.NewBookingBuilder().WithStatus("confirmed").BuildView()
		result := &commands.CaptureResult{
			Payment: paymentView,
			Booking: bookingView,
			Capture: commands.CaptureSummary{OrderID: "ORDER-1", Status: "COMPLETED", CaptureID: "CAPTURE-7"},
		}
		token := s.jwt.GenerateToken(s.T(), payerID, user.RoleGuest)
		s.mockCommands.EXPECT().CaptureOrder(gomock.Any(), "ORDER-1", policy.NewActor(payerID, user.RoleGuest)).Return(result, nil)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, token)
		var response resdto.CaptureResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Equal("completed", response.Payment.Status)
		s.Equal("200.00", response.Payment.Amount)
		s.Equal("30.00", response.Payment.PlatformFee)
		s.Equal("170.00", response.Payment.OwnerPayout)
		s.Equal("confirmed", response.Booking.Status)
		s.Equal("CAPTURE-7", response.Capture.CaptureID)
	})

	s.Run("error: 409 when already settled", func() {
		s.mockCommands.EXPECT().CaptureOrder(gomock.Any(), "ORDER-1", gomock.Any()).Return(nil, commands.ErrPaymentAlreadySettled)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusConflict, "payment already settled")
	})

	s.Run("error: 404 for an unknown order", func() {
		s.mockCommands.EXPECT().CaptureOrder(gomock.Any(), "ORDER-1", gomock.Any()).Return(nil, commands.ErrPaymentNotFound)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "payment not found")
	})
}

func (s *PaymentHandlerTestSuite) TestGetPayment() {
	view := builder.NewPaymentBuilder().BuildView()
	view.Ledger = []queries.LedgerEntryView{
		{UserID: view.PayeeID, Direction: "received", AmountCents: view.OwnerPayoutCents, Currency: view.Currency, CreatedAt: view.CreatedAt},
	}
	token := s.jwt.GenerateToken(s.T(), view.PayeeID, user.RoleOwner)

	s.Run("success", func() {
		s.mockQueries.EXPECT().GetByID(gomock.Any(), view.ID, policy.NewActor(view.PayeeID, user.RoleOwner)).Return(view, nil)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/api/payments/"+view.ID.String(), nil, token)

		var response resdto.PaymentResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Equal("ORDER-1", response.ProviderOrderID)
		s.Require().Len(response.Ledger, 1)
		s.Equal("received", response.Ledger[0].Direction)
		s.Equal(view.OwnerPayoutCents, response.Ledger[0].AmountCents)
	})

	s.Run("error: 404", func() {
		s.mockQueries.EXPECT().GetByID(gomock.Any(), view.ID, gomock.Any()).Return(nil, queries.ErrPaymentNotFound)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/api/payments/"+view.ID.String(), nil, token)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "payment not found")
	})

	s.Run("error: 400 on malformed id", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/api/payments/xyz", nil, token)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid payment ID format")
	})
}

func (s *PaymentHandlerTestSuite) TestLists() {
	userID := uuid.New()
	token := s.jwt.GenerateToken(s.T(), userID, user.RoleOwner)
	actor := policy.NewActor(userID, user.RoleOwner)
	page := queries.NewPage([]*queries.PaymentView{builder.NewPaymentBuilder().BuildView()}, 1, 1, 20)

	s.Run("payments made by a user", func() {
		s.mockQueries.EXPECT().ListByUser(gomock.Any(), userID, 1, 20, actor).Return(page, nil)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/api/payments/user/"+userID.String()+"?page=1&limit=20", nil, token)

		var response resdto.PaymentListResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Len(response.Items, 1)
	})

	s.Run("payouts received by an owner", func() {
		s.mockQueries.EXPECT().ListByOwner(gomock.Any(), userID, 0, 0, actor).Return(page, nil)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/api/payments/owner/"+userID.String(), nil, token)
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, nil)
	})

	s.Run("someone else's history", func() {
		other := uuid.New()
		s.mockQueries.EXPECT().ListByUser(gomock.Any(), other, gomock.Any(), gomock.Any(), actor).Return(nil, policy.ErrForbidden)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/api/payments/user/"+other.String(), nil, token)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusForbidden, "")
	})
}
