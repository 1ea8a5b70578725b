package fleet

import (
	"errors"
	"sort"
)

// Height bounds of the rider domain, in centimeters.
const (
	MinHeightCm = 120
	MaxHeightCm = 210
)

var (
	ErrHeightOutOfRange = errors.New("height out of range")
	ErrInvalidSizeChart = errors.New("size chart must partition the height domain")
)

// SizeRange maps a contiguous height interval to one size class.
// Intervals are half-open [MinCm, MaxCm); the topmost range also
// includes its upper bound so MaxHeightCm resolves deterministically.
type SizeRange struct {
	Size  SizeClass
	MinCm int
	MaxCm int
}

// SizeChart is a validated partition of [MinHeightCm, MaxHeightCm].
// A chart that fails validation is a configuration error; the
// assignment engine relies on every in-range height resolving to
// exactly one size class.
type SizeChart struct {
	ranges []SizeRange
}

func NewSizeChart(ranges []SizeRange) (SizeChart, error) {
	if len(ranges) == 0 {
		return SizeChart{}, ErrInvalidSizeChart
	}

	sorted := make([]SizeRange, len(ranges))
	copy(sorted, ranges)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].MinCm < sorted[j].MinCm })

	if sorted[0].MinCm != MinHeightCm || sorted[len(sorted)-1].MaxCm != MaxHeightCm {
		return SizeChart{}, ErrInvalidSizeChart
	}

	seen := make(map[SizeClass]bool, len(sorted))
	for i, r := range sorted {
		if r.Size.Ordinal() < 0 {
			return SizeChart{}, ErrUnknownSizeClass
		}
		if r.MinCm >= r.MaxCm {
			return SizeChart{}, ErrInvalidSizeChart
		}
		if seen[r.Size] {
			return SizeChart{}, ErrInvalidSizeChart
		}
		seen[r.Size] = true
		if i > 0 && sorted[i-1].MaxCm != r.MinCm {
			// gap or overlap between adjacent ranges
			return SizeChart{}, ErrInvalidSizeChart
		}
	}

	return SizeChart{ranges: sorted}, nil
}

// DefaultSizeChart is the stock five-class chart used when no custom
// chart is configured.
func DefaultSizeChart() SizeChart {
	chart, err := NewSizeChart([]SizeRange{
		{Size: SizeXS, MinCm: 120, MaxCm: 148},
		{Size: SizeS, MinCm: 148, MaxCm: 162},
		{Size: SizeM, MinCm: 162, MaxCm: 176},
		{Size: SizeL, MinCm: 176, MaxCm: 190},
		{Size: SizeXL, MinCm: 190, MaxCm: 210},
	})
	if err != nil {
		panic(err)
	}
	return chart
}

// ClassForHeight resolves a rider height to its ideal size class.
func (c SizeChart) ClassForHeight(heightCm int) (SizeClass, error) {
	if heightCm < MinHeightCm || heightCm > MaxHeightCm {
		return "", ErrHeightOutOfRange
	}
	for i, r := range c.ranges {
		last := i == len(c.ranges)-1
		if heightCm >= r.MinCm && (heightCm < r.MaxCm || (last && heightCm == r.MaxCm)) {
			return r.Size, nil
		}
	}
	return "", ErrHeightOutOfRange
}

func (c SizeChart) Ranges() []SizeRange {
	out := make([]SizeRange, len(c.ranges))
	copy(out, c.ranges)
	return out
}
