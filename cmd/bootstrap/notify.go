package bootstrap

import (
	"context"
	"log/slog"

	"velobook/internal/infra/notify"
	"velobook/internal/usecase/queries"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

// NotifyModule wires the store's change feed to the availability
// cache: any booking or fleet change drops the cached figures so the
// next read recomputes.
var NotifyModule = fx.Module("notify",
	fx.Invoke(StartChangeFeed),
)

func StartChangeFeed(
	lc fx.Lifecycle,
	pool *pgxpool.Pool,
	availabilityQueries queries.AvailabilityQueries,
	logger *slog.Logger,
) {
	listener := notify.NewListener(pool, availabilityQueries.Invalidate, logger)
	feedCtx, cancel := context.WithCancel(context.Background())

	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			go listener.Run(feedCtx)
			return nil
		},
		OnStop: func(_ context.Context) error {
			cancel()
			return nil
		},
	})
}
