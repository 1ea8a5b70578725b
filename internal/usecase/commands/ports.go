package commands

import (
	"context"
	"time"

	"velobook/internal/domain/availability"
	"velobook/internal/domain/booking"
	"velobook/internal/domain/coupon"
	"velobook/internal/domain/fleet"

	"github.com/google/uuid"
)

// Gateways to the external store. The store owns the fleet registry
// and the booking ledger; this layer only reads snapshots and issues
// whole-booking writes.

type RateLimitDecision struct {
	Allowed    bool
	RetryAfter time.Duration
}

type RateLimiter interface {
	Check(ctx context.Context, clientID string) (RateLimitDecision, error)
}

type UsageReader interface {
	AggregateUsage(ctx context.Context, from, to booking.Date) ([]availability.AggregateUsage, error)
	SizeUsage(ctx context.Context, from, to booking.Date) ([]availability.SizeUsage, error)
}

type FleetReader interface {
	Snapshot(ctx context.Context) (fleet.Fleet, error)
}

// AssignmentReader reports which bikes are already committed to riders
// in the given slots.
type AssignmentReader interface {
	AssignedBikeIDs(ctx context.Context, slots []booking.Slot) ([]uuid.UUID, error)
}

type CouponReader interface {
	FindByCode(ctx context.Context, code string) (*coupon.Coupon, error)
}

// BookingWriter persists a booking with all rider assignments as one
// logical write.
type BookingWriter interface {
	Create(ctx context.Context, b *booking.Booking) error
}

type CouponRedeemer interface {
	MarkUsed(ctx context.Context, code string, bookingID uuid.UUID) error
}

type BikeStatusWriter interface {
	MarkRented(ctx context.Context, bikeIDs []uuid.UUID) error
}
