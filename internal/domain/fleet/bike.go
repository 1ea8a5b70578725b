package fleet

import (
	"errors"

	"github.com/google/uuid"
)

var (
	ErrUnknownSizeClass = errors.New("unknown size class")
	ErrUnknownStatus    = errors.New("unknown bike status")
)

// SizeClass is a bike frame size. The declaration order defines the
// ordinal used by the assignment fallback.
type SizeClass string

const (
	SizeXS SizeClass = "XS"
	SizeS  SizeClass = "S"
	SizeM  SizeClass = "M"
	SizeL  SizeClass = "L"
	SizeXL SizeClass = "XL"
)

var sizeOrder = []SizeClass{SizeXS, SizeS, SizeM, SizeL, SizeXL}

func AllSizeClasses() []SizeClass {
	out := make([]SizeClass, len(sizeOrder))
	copy(out, sizeOrder)
	return out
}

func ParseSizeClass(s string) (SizeClass, error) {
	for _, sc := range sizeOrder {
		if string(sc) == s {
			return sc, nil
		}
	}
	return "", ErrUnknownSizeClass
}

func (s SizeClass) Ordinal() int {
	for i, sc := range sizeOrder {
		if sc == s {
			return i
		}
	}
	return -1
}

func (s SizeClass) DistanceTo(other SizeClass) int {
	d := s.Ordinal() - other.Ordinal()
	if d < 0 {
		return -d
	}
	return d
}

type Status string

const (
	StatusAvailable   Status = "available"
	StatusMaintenance Status = "maintenance"
	StatusRented      Status = "rented"
	StatusUnavailable Status = "unavailable"
)

func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusAvailable, StatusMaintenance, StatusRented, StatusUnavailable:
		return Status(s), nil
	}
	return "", ErrUnknownStatus
}

// Bike is one physical bicycle in the fleet registry. Status changes
// happen in the ops console, outside this core; here bikes are a read
// snapshot except for the best-effort rented flip after a same-day
// booking.
type Bike struct {
	id     uuid.UUID
	number string
	size   SizeClass
	status Status
}

func NewBike(id uuid.UUID, number string, size SizeClass, status Status) (Bike, error) {
	if size.Ordinal() < 0 {
		return Bike{}, ErrUnknownSizeClass
	}
	if _, err := ParseStatus(string(status)); err != nil {
		return Bike{}, err
	}
	return Bike{id: id, number: number, size: size, status: status}, nil
}

func (b Bike) ID() uuid.UUID   { return b.id }
func (b Bike) Number() string  { return b.number }
func (b Bike) Size() SizeClass { return b.size }
func (b Bike) Status() Status  { return b.status }

// Assignable reports whether the bike can be handed out right now.
func (b Bike) Assignable() bool {
	return b.status == StatusAvailable
}

// CountsTowardCapacity reports whether the bike is part of the bookable
// fleet. A rented bike still counts: the booking that holds it is
// already reflected in the usage figures.
func (b Bike) CountsTowardCapacity() bool {
	return b.status != StatusMaintenance && b.status != StatusUnavailable
}

// Fleet is a point-in-time snapshot of the registry.
type Fleet []Bike

// CountBySize returns the bookable capacity per size class. Every size
// class is present in the result, zero when the fleet has none.
func (f Fleet) CountBySize() map[SizeClass]int {
	counts := make(map[SizeClass]int, len(sizeOrder))
	for _, sc := range sizeOrder {
		counts[sc] = 0
	}
	for _, b := range f {
		if b.CountsTowardCapacity() {
			counts[b.size]++
		}
	}
	return counts
}

func (f Fleet) FindByID(id uuid.UUID) (Bike, bool) {
	for _, b := range f {
		if b.id == id {
			return b, true
		}
	}
	return Bike{}, false
}
