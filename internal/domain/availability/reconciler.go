package availability

import (
	"velobook/internal/domain/booking"
	"velobook/internal/domain/fleet"
)

// AggregateUsage is the trusted, size-blind booked count for one slot,
// reported by the external store.
type AggregateUsage struct {
	Slot   booking.Slot
	Booked int
}

// SizeUsage is the per-size booked count for one slot. The source may
// under-report: records whose size the reader cannot see are missing
// here but still counted in AggregateUsage.
type SizeUsage struct {
	Slot   booking.Slot
	Size   fleet.SizeClass
	Booked int
}

// Availability is the reconciled per-size remaining capacity for one
// slot. Ghost is the unattributed-booking count already subtracted
// from every size class.
type Availability struct {
	Slot        booking.Slot
	Remaining   map[fleet.SizeClass]int
	Ghost       int
	TotalBooked int
}

func (a Availability) RemainingFor(size fleet.SizeClass) int {
	return a.Remaining[size]
}

// Reconcile combines the trusted aggregate counts with the possibly
// partial per-size counts into a per-size remaining figure for slot.
//
// Usage is summed over the slot's contending set. The gap between the
// aggregate total and the per-size total is attributed pessimistically
// to every size class at once: a booking of unknown size could be
// holding a bike of any size, so no single class may claim the
// capacity it might occupy.
func Reconcile(
	slot booking.Slot,
	fleetCounts map[fleet.SizeClass]int,
	aggregates []AggregateUsage,
	sizeUsages []SizeUsage,
) Availability {
	contending := make(map[booking.Slot]bool, 3)
	for _, s := range slot.Contending() {
		contending[s] = true
	}

	totalUsage := 0
	for _, u := range aggregates {
		if contending[u.Slot] {
			totalUsage += u.Booked
		}
	}

	detailed := make(map[fleet.SizeClass]int, len(fleetCounts))
	detailedAll := 0
	for _, u := range sizeUsages {
		if contending[u.Slot] {
			detailed[u.Size] += u.Booked
			detailedAll += u.Booked
		}
	}

	ghost := totalUsage - detailedAll
	if ghost < 0 {
		ghost = 0
	}

	remaining := make(map[fleet.SizeClass]int, len(fleetCounts))
	for size, count := range fleetCounts {
		avail := count - detailed[size] - ghost
		if avail < 0 {
			avail = 0
		}
		remaining[size] = avail
	}

	return Availability{
		Slot:        slot,
		Remaining:   remaining,
		Ghost:       ghost,
		TotalBooked: totalUsage,
	}
}
