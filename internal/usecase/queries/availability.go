package queries

import (
	"context"
	"sync"

	"velobook/internal/domain/availability"
	"velobook/internal/domain/booking"
	"velobook/internal/domain/fleet"
	"velobook/internal/pkg/errs"
)

var ErrAvailabilityReadFailed = errs.New("availability read failed")

type UsageReader interface {
	AggregateUsage(ctx context.Context, from, to booking.Date) ([]availability.AggregateUsage, error)
	SizeUsage(ctx context.Context, from, to booking.Date) ([]availability.SizeUsage, error)
}

type FleetReader interface {
	Snapshot(ctx context.Context) (fleet.Fleet, error)
}

// SlotAvailabilityView is the live capacity figure shown to clients
// before revalidation makes it authoritative.
type SlotAvailabilityView struct {
	Date        string
	Session     string
	Remaining   map[fleet.SizeClass]int
	TotalBooked int
}

type AvailabilityQueries interface {
	SlotAvailability(ctx context.Context, slot booking.Slot) (*SlotAvailabilityView, error)
	RangeAvailability(ctx context.Context, from, to booking.Date) ([]SlotAvailabilityView, error)
	// Invalidate drops all cached figures. Wired to the store's change
	// notifications; the next read recomputes lazily.
	Invalidate()
}

type availabilityQueriesImpl struct {
	usageReader UsageReader
	fleetReader FleetReader

	mu    sync.RWMutex
	cache map[booking.Slot]availability.Availability
}

func NewAvailabilityQueries(usageReader UsageReader, fleetReader FleetReader) AvailabilityQueries {
	return &availabilityQueriesImpl{
		usageReader: usageReader,
		fleetReader: fleetReader,
		cache:       make(map[booking.Slot]availability.Availability),
	}
}

func (q *availabilityQueriesImpl) Invalidate() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.cache = make(map[booking.Slot]availability.Availability)
}

func (q *availabilityQueriesImpl) SlotAvailability(ctx context.Context, slot booking.Slot) (*SlotAvailabilityView, error) {
	q.mu.RLock()
	cached, ok := q.cache[slot]
	q.mu.RUnlock()
	if ok {
		return toView(cached), nil
	}

	computed, err := q.compute(ctx, slot)
	if err != nil {
		return nil, err
	}

	q.mu.Lock()
	q.cache[slot] = computed
	q.mu.Unlock()

	return toView(computed), nil
}

func (q *availabilityQueriesImpl) RangeAvailability(ctx context.Context, from, to booking.Date) ([]SlotAvailabilityView, error) {
	if to.Before(from) {
		from, to = to, from
	}

	// one usage fetch covers the whole range plus the previous-day
	// daily spillover
	aggregates, err := q.usageReader.AggregateUsage(ctx, from.AddDays(-1), to)
	if err != nil {
		return nil, errs.Mark(err, ErrAvailabilityReadFailed)
	}
	sizeUsages, err := q.usageReader.SizeUsage(ctx, from.AddDays(-1), to)
	if err != nil {
		return nil, errs.Mark(err, ErrAvailabilityReadFailed)
	}
	snapshot, err := q.fleetReader.Snapshot(ctx)
	if err != nil {
		return nil, errs.Mark(err, ErrAvailabilityReadFailed)
	}
	fleetCounts := snapshot.CountBySize()

	var views []SlotAvailabilityView
	q.mu.Lock()
	defer q.mu.Unlock()
	for d := from; !to.Before(d); d = d.AddDays(1) {
		for _, session := range []booking.SessionType{booking.SessionMorning, booking.SessionDaily} {
			slot, err := booking.NewSlot(d, session)
			if err != nil {
				return nil, errs.Mark(err, ErrAvailabilityReadFailed)
			}
			computed := availability.Reconcile(slot, fleetCounts, aggregates, sizeUsages)
			q.cache[slot] = computed
			views = append(views, *toView(computed))
		}
	}
	return views, nil
}

func (q *availabilityQueriesImpl) compute(ctx context.Context, slot booking.Slot) (availability.Availability, error) {
	from := slot.Date().AddDays(-1)
	to := slot.Date()

	aggregates, err := q.usageReader.AggregateUsage(ctx, from, to)
	if err != nil {
		return availability.Availability{}, errs.Mark(err, ErrAvailabilityReadFailed)
	}
	sizeUsages, err := q.usageReader.SizeUsage(ctx, from, to)
	if err != nil {
		return availability.Availability{}, errs.Mark(err, ErrAvailabilityReadFailed)
	}
	snapshot, err := q.fleetReader.Snapshot(ctx)
	if err != nil {
		return availability.Availability{}, errs.Mark(err, ErrAvailabilityReadFailed)
	}

	return availability.Reconcile(slot, snapshot.CountBySize(), aggregates, sizeUsages), nil
}

func toView(a availability.Availability) *SlotAvailabilityView {
	remaining := make(map[fleet.SizeClass]int, len(a.Remaining))
	for size, n := range a.Remaining {
		remaining[size] = n
	}
	return &SlotAvailabilityView{
		Date:        a.Slot.Date().String(),
		Session:     string(a.Slot.Session()),
		Remaining:   remaining,
		TotalBooked: a.TotalBooked,
	}
}
