// Package notify subscribes to the store's change notifications and
// turns them into cache invalidations.
package notify

import (
	"context"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Channels the store's triggers notify on. Payloads carry no
// guarantees beyond "something changed, re-read".
const (
	ChannelBookings = "booking_changes"
	ChannelFleet    = "fleet_changes"
)

// Listener holds one dedicated connection on LISTEN and invokes the
// invalidation callback for every notification. The connection is
// re-acquired with backoff after a drop.
type Listener struct {
	pool       *pgxpool.Pool
	channels   []string
	invalidate func()
	logger     *slog.Logger
}

func NewListener(pool *pgxpool.Pool, invalidate func(), logger *slog.Logger) *Listener {
	return &Listener{
		pool:       pool,
		channels:   []string{ChannelBookings, ChannelFleet},
		invalidate: invalidate,
		logger:     logger,
	}
}

// Run blocks until ctx is cancelled.
func (l *Listener) Run(ctx context.Context) {
	for ctx.Err() == nil {
		if err := l.listen(ctx); err != nil && ctx.Err() == nil {
			l.logger.Warn("change feed disconnected, reconnecting", "error", err)
			select {
			case <-time.After(time.Second):
			case <-ctx.Done():
				return
			}
		}
	}
}

func (l *Listener) listen(ctx context.Context) error {
	conn, err := l.pool.Acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	for _, channel := range l.channels {
		if _, err := conn.Exec(ctx, "LISTEN "+channel); err != nil {
			return err
		}
	}
	l.logger.Info("change feed connected", "channels", l.channels)

	for {
		notification, err := conn.Conn().WaitForNotification(ctx)
		if err != nil {
			return err
		}
		l.logger.Debug("change notification received", "channel", notification.Channel)
		l.invalidate()
	}
}
