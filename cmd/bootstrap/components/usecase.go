package components

import (
	"velobook/internal/domain/availability"
	"velobook/internal/domain/fleet"
	"velobook/internal/pkg/clock"
	"velobook/internal/pkg/config"
	"velobook/internal/usecase/commands"
	"velobook/internal/usecase/queries"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseCommandsModule,
	usecaseQueriesModule,
)

var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
	NewAssigner,
	NewSubmitGuard,
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		commands.NewBookingCommands,
	),
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewAvailabilityQueries,
		queries.NewBookingQueries,
	),
)

func NewAssigner(cfg config.BookingConfig) availability.Assigner {
	return availability.NewAssigner(fleet.DefaultSizeChart(), cfg.SizeTolerance)
}

func NewSubmitGuard(clk clock.Clock, cfg config.BookingConfig) *commands.SubmitGuard {
	return commands.NewSubmitGuard(clk, cfg.SubmitCooldown)
}
