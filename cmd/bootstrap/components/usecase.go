package components

import (
	"strings"

	"travel-booking/internal/domain/booking"
	"travel-booking/internal/infra/paypal"
	"travel-booking/internal/pkg/clock"
	"travel-booking/internal/pkg/config"
	"travel-booking/internal/usecase"
	"travel-booking/internal/usecase/commands"
	"travel-booking/internal/usecase/queries"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseQueriesModule,
	usecaseValidatorsModule,
	usecaseCommandsModule,
)

var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
	fx.Annotate(
		booking.NewUnitPriceCalculator,
		fx.As(new(booking.PriceCalculator)),
	),
	fx.Annotate(
		booking.NewRandomReferenceGenerator,
		fx.As(new(booking.ReferenceGenerator)),
	),
	NewBookingServices,
	NewSettings,
	fx.Annotate(
		NewPaymentProvider,
		fx.As(new(commands.PaymentProvider)),
	),
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		commands.NewAuthCommands,
		commands.NewUserCommands,
		commands.NewResourceCommands,
		commands.NewBookingCommands,
		commands.NewPaymentCommands,
	),
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewUserQueries,
		queries.NewResourceQueries,
		queries.NewBookingQueries,
		queries.NewPaymentQueries,
	),
)

var usecaseValidatorsModule = fx.Module("usecase/validators",
	fx.Provide(
		usecase.NewTokenValidator,
	),
)

func NewBookingServices(clk clock.Clock, cfg config.Config, calc booking.PriceCalculator, refs booking.ReferenceGenerator) (*booking.Services, error) {
	loc, err := cfg.App.Location()
	if err != nil {
		return nil, err
	}
	return &booking.Services{
		Clock:           clk,
		Location:        loc,
		PriceCalculator: calc,
		References:      refs,
	}, nil
}

func NewSettings(cfg config.Config) commands.Settings {
	base := strings.TrimRight(cfg.App.FrontendBaseURL, "/")
	return commands.Settings{
		Currency: cfg.App.Currency,
		Checkout: commands.CheckoutURLs{
			ReturnURL: base + "/payment/success",
			CancelURL: base + "/payment/cancel",
		},
	}
}

func NewPaymentProvider(cfg config.Config) *paypal.Client {
	return paypal.NewClient(cfg.PayPal, cfg.App.Name)
}
