//go:build unit || e2e

package builder

import (
	"fmt"

	"velobook/internal/domain/fleet"

	"github.com/google/uuid"
)

// FleetBuilder assembles a fleet snapshot from per-size counts. Bike
// numbers are sequential so registry order is deterministic in tests.
type FleetBuilder struct {
	bikes []fleet.Bike
	next  int
}

func NewFleetBuilder() *FleetBuilder {
	return &FleetBuilder{next: 1}
}

func (b *FleetBuilder) WithBikes(size fleet.SizeClass, status fleet.Status, count int) *FleetBuilder {
	for i := 0; i < count; i++ {
		bike, err := fleet.NewBike(uuid.New(), fmt.Sprintf("B-%03d", b.next), size, status)
		if err != nil {
			panic(err)
		}
		b.bikes = append(b.bikes, bike)
		b.next++
	}
	return b
}

func (b *FleetBuilder) WithAvailable(size fleet.SizeClass, count int) *FleetBuilder {
	return b.WithBikes(size, fleet.StatusAvailable, count)
}

func (b *FleetBuilder) Build() fleet.Fleet {
	out := make(fleet.Fleet, len(b.bikes))
	copy(out, b.bikes)
	return out
}
