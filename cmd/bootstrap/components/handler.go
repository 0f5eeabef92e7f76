package components

import (
	"travel-booking/internal/handler"
	"travel-booking/internal/handler/api"
	"travel-booking/internal/handler/middleware"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewAuthHandler,
		api.NewBookingHandler,
		api.NewPaymentHandler,
		api.NewResourceHandler,
		middleware.NewAuthMiddleware,
		NewHandlers,
	),
	fx.Invoke(handler.NewRouter),
)

func NewHandlers(auth *api.AuthHandler, bookings *api.BookingHandler, payments *api.PaymentHandler, resources *api.ResourceHandler) handler.Handlers {
	return handler.Handlers{
		Auth:     auth,
		Booking:  bookings,
		Payment:  payments,
		Resource: resources,
	}
}
