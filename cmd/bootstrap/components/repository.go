package components

import (
	"velobook/internal/infra/db"
	"velobook/internal/infra/ratelimit"
	"velobook/internal/infra/readstore"
	"velobook/internal/infra/writestore"
	"velobook/internal/pkg/config"
	"velobook/internal/usecase/commands"
	"velobook/internal/usecase/queries"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

var RepositoryModule = fx.Module("repository",
	fx.Provide(
		NewQuerier,
		NewBookingConfig,
		fx.Annotate(
			readstore.NewUsageReadStore,
			fx.As(new(commands.UsageReader)),
			fx.As(new(queries.UsageReader)),
		),
		fx.Annotate(
			readstore.NewFleetReadStore,
			fx.As(new(commands.FleetReader)),
			fx.As(new(queries.FleetReader)),
			fx.As(new(commands.AssignmentReader)),
		),
		fx.Annotate(
			readstore.NewCouponReadStore,
			fx.As(new(commands.CouponReader)),
		),
		fx.Annotate(
			readstore.NewBookingReadStore,
			fx.As(new(queries.BookingReadStore)),
		),
		fx.Annotate(
			writestore.NewBookingWriteStore,
			fx.As(new(commands.BookingWriter)),
		),
		fx.Annotate(
			writestore.NewCouponWriteStore,
			fx.As(new(commands.CouponRedeemer)),
		),
		fx.Annotate(
			writestore.NewFleetWriteStore,
			fx.As(new(commands.BikeStatusWriter)),
		),
		fx.Annotate(
			ratelimit.NewRedisLimiter,
			fx.As(new(commands.RateLimiter)),
		),
	),
)

func NewQuerier(pool *pgxpool.Pool) db.Querier {
	return pool
}

func NewBookingConfig(cfg config.Config) config.BookingConfig {
	return cfg.Booking
}
