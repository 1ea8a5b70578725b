package booking

import (
	"errors"
	"time"

	"velobook/internal/domain/fleet"

	"github.com/google/uuid"
)

var (
	ErrNoRiders             = errors.New("booking requires at least one rider")
	ErrDuplicateBike        = errors.New("same bike assigned to multiple riders")
	ErrRiderNotAssigned     = errors.New("rider has no bike assignment")
	ErrInvalidStatus        = errors.New("invalid booking status")
	ErrInvalidTransition    = errors.New("invalid booking status transition")
	ErrBookingNotCancelable = errors.New("booking can no longer be cancelled")
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCheckedIn Status = "checked_in"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusPending, StatusConfirmed, StatusCheckedIn, StatusCompleted, StatusCancelled:
		return Status(s), nil
	}
	return "", ErrInvalidStatus
}

// statusRank orders the forward-only lifecycle. Cancellation sits
// outside the rank and is gated separately.
var statusRank = map[Status]int{
	StatusPending:   0,
	StatusConfirmed: 1,
	StatusCheckedIn: 2,
	StatusCompleted: 3,
}

// Rider is one participant of a booking. The bike assignment is made
// exactly once, at submission, and never changes afterward.
type Rider struct {
	id       uuid.UUID
	name     string
	heightCm int
	bikeID   uuid.UUID
	size     fleet.SizeClass
}

func NewRider(name string, heightCm int, bikeID uuid.UUID, size fleet.SizeClass) (Rider, error) {
	if bikeID == uuid.Nil {
		return Rider{}, ErrRiderNotAssigned
	}
	return Rider{
		id:       uuid.New(),
		name:     name,
		heightCm: heightCm,
		bikeID:   bikeID,
		size:     size,
	}, nil
}

func ReconstructRider(id uuid.UUID, name string, heightCm int, bikeID uuid.UUID, size fleet.SizeClass) Rider {
	return Rider{id: id, name: name, heightCm: heightCm, bikeID: bikeID, size: size}
}

func (r Rider) ID() uuid.UUID         { return r.id }
func (r Rider) Name() string          { return r.name }
func (r Rider) HeightCm() int         { return r.heightCm }
func (r Rider) BikeID() uuid.UUID     { return r.bikeID }
func (r Rider) Size() fleet.SizeClass { return r.size }

type Booking struct {
	id         uuid.UUID
	slot       Slot
	riders     []Rider
	status     Status
	couponCode *string
	createdAt  time.Time
}

func NewBooking(slot Slot, riders []Rider, couponCode *string, now time.Time) (*Booking, error) {
	if len(riders) == 0 {
		return nil, ErrNoRiders
	}
	seen := make(map[uuid.UUID]bool, len(riders))
	for _, r := range riders {
		if r.bikeID == uuid.Nil {
			return nil, ErrRiderNotAssigned
		}
		if seen[r.bikeID] {
			return nil, ErrDuplicateBike
		}
		seen[r.bikeID] = true
	}
	return &Booking{
		id:         uuid.New(),
		slot:       slot,
		riders:     riders,
		status:     StatusPending,
		couponCode: couponCode,
		createdAt:  now,
	}, nil
}

func ReconstructBooking(
	id uuid.UUID,
	slot Slot,
	riders []Rider,
	status Status,
	couponCode *string,
	createdAt time.Time,
) *Booking {
	return &Booking{
		id:         id,
		slot:       slot,
		riders:     riders,
		status:     status,
		couponCode: couponCode,
		createdAt:  createdAt,
	}
}

func (b *Booking) ID() uuid.UUID       { return b.id }
func (b *Booking) Slot() Slot          { return b.slot }
func (b *Booking) Status() Status      { return b.status }
func (b *Booking) CouponCode() *string { return b.couponCode }
func (b *Booking) CreatedAt() time.Time {
	return b.createdAt
}

func (b *Booking) Riders() []Rider {
	out := make([]Rider, len(b.riders))
	copy(out, b.riders)
	return out
}

func (b *Booking) BikeIDs() []uuid.UUID {
	ids := make([]uuid.UUID, len(b.riders))
	for i, r := range b.riders {
		ids[i] = r.bikeID
	}
	return ids
}

func (b *Booking) IsActive() bool {
	return b.status != StatusCancelled && b.status != StatusCompleted
}

// TransitionTo advances the booking lifecycle. Statuses only move
// forward; cancellation is reachable from pending and confirmed only.
func (b *Booking) TransitionTo(next Status) error {
	if _, err := ParseStatus(string(next)); err != nil {
		return err
	}
	if next == StatusCancelled {
		if b.status != StatusPending && b.status != StatusConfirmed {
			return ErrBookingNotCancelable
		}
		b.status = next
		return nil
	}
	cur, ok := statusRank[b.status]
	if !ok {
		return ErrInvalidTransition
	}
	nxt, ok := statusRank[next]
	if !ok || nxt <= cur {
		return ErrInvalidTransition
	}
	b.status = next
	return nil
}
