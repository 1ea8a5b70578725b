package booking

import (
	"errors"
	"strings"
)

var (
	ErrEmptyRiderName = errors.New("rider name is required")
)

// DraftRider is one requested rider before assignment.
type DraftRider struct {
	Name     string
	HeightCm int
}

// Draft is the serializable booking request a client submits: the
// selected slot, the rider list, and an optional coupon code. It is the
// single value passed through the submission flow rather than ambient
// UI state.
type Draft struct {
	Date       Date
	Session    SessionType
	Riders     []DraftRider
	CouponCode *string
}

func (d Draft) Slot() (Slot, error) {
	return NewSlot(d.Date, d.Session)
}

// NormalizedCouponCode returns the trimmed coupon code, or nil when no
// usable code was supplied.
func (d Draft) NormalizedCouponCode() *string {
	if d.CouponCode == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*d.CouponCode)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// Validate checks the draft's shape. Height-to-size resolution is left
// to the size chart so its range errors surface with the rider index.
func (d Draft) Validate() error {
	if _, err := d.Slot(); err != nil {
		return err
	}
	if len(d.Riders) == 0 {
		return ErrNoRiders
	}
	for _, r := range d.Riders {
		if strings.TrimSpace(r.Name) == "" {
			return ErrEmptyRiderName
		}
	}
	return nil
}
