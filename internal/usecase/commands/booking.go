package commands

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"velobook/internal/domain/availability"
	"velobook/internal/domain/booking"
	"velobook/internal/domain/fleet"
	"velobook/internal/infra"
	"velobook/internal/pkg/clock"
	"velobook/internal/pkg/errs"

	"github.com/google/uuid"
)

var (
	ErrValidation           = errs.New("validation error")
	ErrRateLimitExceeded    = errs.New("rate limit exceeded")
	ErrAvailabilityExceeded = errs.New("availability exceeded")
	ErrRaceCondition        = errs.New("inventory changed during submission")
	ErrCouponInvalid        = errs.New("invalid coupon")
	ErrPersistenceFailed    = errs.New("booking persistence failed")
)

// RateLimitError carries the wait hint alongside ErrRateLimitExceeded.
type RateLimitError struct {
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limit exceeded, retry after %s", e.RetryAfter)
}

// AvailabilityError carries the remaining per-size capacity alongside
// ErrAvailabilityExceeded.
type AvailabilityError struct {
	Remaining map[fleet.SizeClass]int
}

func (e *AvailabilityError) Error() string {
	return fmt.Sprintf("requested riders exceed remaining capacity %v", e.Remaining)
}

type RiderAssignment struct {
	RiderName  string
	HeightCm   int
	BikeID     uuid.UUID
	BikeNumber string
	Size       fleet.SizeClass
}

type SubmitResult struct {
	BookingID         uuid.UUID
	Assignments       []RiderAssignment
	FailedSideEffects []string
}

type BookingCommands interface {
	Submit(ctx context.Context, draft booking.Draft, clientID string) (*SubmitResult, error)
}

type bookingCommandsImpl struct {
	guard          *SubmitGuard
	limiter        RateLimiter
	usageReader    UsageReader
	fleetReader    FleetReader
	assignedReader AssignmentReader
	couponReader   CouponReader
	bookingWriter  BookingWriter
	couponRedeemer CouponRedeemer
	bikeWriter     BikeStatusWriter
	assigner       availability.Assigner
	clock          clock.Clock
	logger         *slog.Logger
}

func NewBookingCommands(
	guard *SubmitGuard,
	limiter RateLimiter,
	usageReader UsageReader,
	fleetReader FleetReader,
	assignedReader AssignmentReader,
	couponReader CouponReader,
	bookingWriter BookingWriter,
	couponRedeemer CouponRedeemer,
	bikeWriter BikeStatusWriter,
	assigner availability.Assigner,
	clk clock.Clock,
	logger *slog.Logger,
) BookingCommands {
	return &bookingCommandsImpl{
		guard:          guard,
		limiter:        limiter,
		usageReader:    usageReader,
		fleetReader:    fleetReader,
		assignedReader: assignedReader,
		couponReader:   couponReader,
		bookingWriter:  bookingWriter,
		couponRedeemer: couponRedeemer,
		bikeWriter:     bikeWriter,
		assigner:       assigner,
		clock:          clk,
		logger:         logger,
	}
}

// Submit runs one booking attempt: rate limiting, a final availability
// re-check, sequential rider assignment, the booking write, then the
// best-effort side effects. Any abort before the write leaves no
// partial booking behind. Two clients racing for the last bike are
// resolved by the store's own constraints; the loser surfaces a race
// or availability error rather than silently succeeding.
func (c *bookingCommandsImpl) Submit(ctx context.Context, draft booking.Draft, clientID string) (*SubmitResult, error) {
	if err := c.guard.Acquire(clientID); err != nil {
		return nil, err
	}
	defer c.guard.Release(clientID)

	if err := draft.Validate(); err != nil {
		return nil, errs.Mark(err, ErrValidation)
	}
	slot, err := draft.Slot()
	if err != nil {
		return nil, errs.Mark(err, ErrValidation)
	}

	if err := c.checkRateLimit(ctx, clientID); err != nil {
		return nil, err
	}

	couponCode, err := c.validateCoupon(ctx, draft.NormalizedCouponCode())
	if err != nil {
		return nil, err
	}

	snapshot, err := c.revalidate(ctx, slot, draft.Riders)
	if err != nil {
		return nil, err
	}

	riders, assignments, err := c.assignRiders(ctx, slot, draft.Riders, snapshot)
	if err != nil {
		return nil, err
	}

	entity, err := booking.NewBooking(slot, riders, couponCode, c.clock.Now())
	if err != nil {
		return nil, errs.Mark(err, ErrValidation)
	}

	if err := c.bookingWriter.Create(ctx, entity); err != nil {
		if infra.IsKind(err, infra.KindConflict) {
			// the store's constraint caught a concurrent claim
			return nil, errs.Mark(err, ErrRaceCondition)
		}
		return nil, errs.Mark(err, ErrPersistenceFailed)
	}

	failed := RunPostCommit(ctx, c.logger, c.postCommitActions(entity, couponCode))

	c.logger.Info("booking submitted",
		"booking_id", entity.ID(),
		"slot", slot.String(),
		"riders", len(riders),
	)

	return &SubmitResult{
		BookingID:         entity.ID(),
		Assignments:       assignments,
		FailedSideEffects: failed,
	}, nil
}

func (c *bookingCommandsImpl) checkRateLimit(ctx context.Context, clientID string) error {
	decision, err := c.limiter.Check(ctx, clientID)
	if err != nil {
		// The counter lives in an external store; if it cannot answer,
		// fail closed.
		return errs.Mark(err, ErrRateLimitExceeded)
	}
	if !decision.Allowed {
		return errs.Mark(&RateLimitError{RetryAfter: decision.RetryAfter}, ErrRateLimitExceeded)
	}
	return nil
}

func (c *bookingCommandsImpl) validateCoupon(ctx context.Context, code *string) (*string, error) {
	if code == nil {
		return nil, nil
	}
	entity, err := c.couponReader.FindByCode(ctx, *code)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, ErrCouponInvalid)
		}
		return nil, errs.Mark(err, ErrPersistenceFailed)
	}
	if err := entity.ValidateUsage(); err != nil {
		return nil, errs.Mark(err, ErrCouponInvalid)
	}
	return code, nil
}

// revalidate recomputes availability against fresh reads: time has
// passed since the client's view was rendered.
func (c *bookingCommandsImpl) revalidate(ctx context.Context, slot booking.Slot, riders []booking.DraftRider) (fleet.Fleet, error) {
	from := slot.Date().AddDays(-1)
	to := slot.Date()

	aggregates, err := c.usageReader.AggregateUsage(ctx, from, to)
	if err != nil {
		return nil, errs.Mark(err, ErrPersistenceFailed)
	}
	sizeUsages, err := c.usageReader.SizeUsage(ctx, from, to)
	if err != nil {
		return nil, errs.Mark(err, ErrPersistenceFailed)
	}
	snapshot, err := c.fleetReader.Snapshot(ctx)
	if err != nil {
		return nil, errs.Mark(err, ErrPersistenceFailed)
	}

	heights := make([]int, len(riders))
	for i, r := range riders {
		heights[i] = r.HeightCm
	}

	// feasibility must mirror the assignment search so a party whose
	// ideal size is exhausted can still pass on an adjacent size
	avail := availability.Reconcile(slot, snapshot.CountBySize(), aggregates, sizeUsages)
	ok, err := c.assigner.CanPlace(heights, avail.Remaining)
	if err != nil {
		return nil, errs.Mark(err, ErrValidation)
	}
	if !ok {
		return nil, errs.Mark(&AvailabilityError{Remaining: avail.Remaining}, ErrAvailabilityExceeded)
	}
	return snapshot, nil
}

// assignRiders picks a bike per rider in input order. Each assignment
// extends the claim set so riders in one booking never collide.
func (c *bookingCommandsImpl) assignRiders(
	ctx context.Context,
	slot booking.Slot,
	draftRiders []booking.DraftRider,
	snapshot fleet.Fleet,
) ([]booking.Rider, []RiderAssignment, error) {
	committed, err := c.assignedReader.AssignedBikeIDs(ctx, slot.Contending())
	if err != nil {
		return nil, nil, errs.Mark(err, ErrPersistenceFailed)
	}
	claimed := availability.NewClaimSet(committed...)

	riders := make([]booking.Rider, 0, len(draftRiders))
	assignments := make([]RiderAssignment, 0, len(draftRiders))
	for _, dr := range draftRiders {
		bike, found, err := c.assigner.FindBestBike(dr.HeightCm, snapshot, claimed)
		if err != nil {
			return nil, nil, errs.Mark(err, ErrValidation)
		}
		if !found {
			// inventory moved between revalidation and assignment
			return nil, nil, errs.Mark(
				errs.New("no bike left for rider "+dr.Name), ErrRaceCondition)
		}
		claimed.Add(bike.ID())

		rider, err := booking.NewRider(dr.Name, dr.HeightCm, bike.ID(), bike.Size())
		if err != nil {
			return nil, nil, errs.Mark(err, ErrValidation)
		}
		riders = append(riders, rider)
		assignments = append(assignments, RiderAssignment{
			RiderName:  dr.Name,
			HeightCm:   dr.HeightCm,
			BikeID:     bike.ID(),
			BikeNumber: bike.Number(),
			Size:       bike.Size(),
		})
	}
	return riders, assignments, nil
}

func (c *bookingCommandsImpl) postCommitActions(entity *booking.Booking, couponCode *string) []PostCommitAction {
	var actions []PostCommitAction
	if couponCode != nil {
		code := *couponCode
		actions = append(actions, PostCommitAction{
			Name: "coupon_mark_used",
			Run: func(ctx context.Context) error {
				return c.couponRedeemer.MarkUsed(ctx, code, entity.ID())
			},
		})
	}
	if entity.Slot().Date() == booking.DateOf(c.clock.Now()) {
		ids := entity.BikeIDs()
		actions = append(actions, PostCommitAction{
			Name: "bike_status_rented",
			Run: func(ctx context.Context) error {
				return c.bikeWriter.MarkRented(ctx, ids)
			},
		})
	}
	return actions
}
