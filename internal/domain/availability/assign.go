package availability

import (
	"sort"

	"velobook/internal/domain/fleet"

	"github.com/google/uuid"
)

// ClaimSet tracks bike IDs that are off limits for further assignment:
// bikes committed in contending slots plus bikes claimed earlier in the
// same submission.
type ClaimSet map[uuid.UUID]struct{}

func NewClaimSet(ids ...uuid.UUID) ClaimSet {
	s := make(ClaimSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

func (s ClaimSet) Add(id uuid.UUID) {
	s[id] = struct{}{}
}

func (s ClaimSet) Has(id uuid.UUID) bool {
	_, ok := s[id]
	return ok
}

// Assigner picks a concrete bike for a rider. It has no side effects;
// the caller records the returned bike in the claim set before asking
// for the next rider so two riders never share a bike.
type Assigner struct {
	chart     fleet.SizeChart
	tolerance int
}

// NewAssigner builds an assigner. tolerance is the maximum ordinal
// distance from the ideal size the fallback search may reach; 0 means
// exact size only.
func NewAssigner(chart fleet.SizeChart, tolerance int) Assigner {
	if tolerance < 0 {
		tolerance = 0
	}
	return Assigner{chart: chart, tolerance: tolerance}
}

// FindBestBike returns the first eligible bike for the rider's height,
// preferring the ideal size class and falling back to the nearest
// classes by ordinal distance, smaller size first on a tie. The second
// return is false when no size within tolerance has a free bike; the
// error is non-nil only for a height the chart cannot resolve.
func (a Assigner) FindBestBike(heightCm int, bikes fleet.Fleet, claimed ClaimSet) (fleet.Bike, bool, error) {
	ideal, err := a.chart.ClassForHeight(heightCm)
	if err != nil {
		return fleet.Bike{}, false, err
	}

	for _, size := range a.searchOrder(ideal) {
		for _, b := range bikes {
			if b.Size() != size || !b.Assignable() || claimed.Has(b.ID()) {
				continue
			}
			return b, true, nil
		}
	}
	return fleet.Bike{}, false, nil
}

// CanPlace reports whether every rider height can be given a size
// within tolerance of its ideal without exceeding the remaining
// per-size counts. Riders consume capacity in input order with the
// same search order FindBestBike uses, so a rider whose ideal size is
// exhausted still places when an adjacent size has room. The error is
// non-nil only for a height the chart cannot resolve.
func (a Assigner) CanPlace(heights []int, remaining map[fleet.SizeClass]int) (bool, error) {
	left := make(map[fleet.SizeClass]int, len(remaining))
	for size, n := range remaining {
		left[size] = n
	}
	for _, h := range heights {
		ideal, err := a.chart.ClassForHeight(h)
		if err != nil {
			return false, err
		}
		placed := false
		for _, size := range a.searchOrder(ideal) {
			if left[size] > 0 {
				left[size]--
				placed = true
				break
			}
		}
		if !placed {
			return false, nil
		}
	}
	return true, nil
}

// searchOrder lists the size classes to try, closest ordinal distance
// first.
func (a Assigner) searchOrder(ideal fleet.SizeClass) []fleet.SizeClass {
	all := fleet.AllSizeClasses()
	order := make([]fleet.SizeClass, 0, len(all))
	for _, size := range all {
		if size.DistanceTo(ideal) <= a.tolerance {
			order = append(order, size)
		}
	}
	sort.SliceStable(order, func(i, j int) bool {
		di, dj := order[i].DistanceTo(ideal), order[j].DistanceTo(ideal)
		if di != dj {
			return di < dj
		}
		return order[i].Ordinal() < order[j].Ordinal()
	})
	return order
}
