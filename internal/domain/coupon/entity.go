package coupon

import (
	"errors"
	"time"
)

var (
	ErrEmptyCode           = errors.New("coupon code is required")
	ErrUnknownDiscountType = errors.New("unknown discount type")
	ErrInvalidDiscount     = errors.New("invalid discount value")
	ErrAlreadyUsed         = errors.New("coupon has already been used")
)

type DiscountType string

const (
	DiscountPercent DiscountType = "percent"
	DiscountFixed   DiscountType = "fixed"
)

// Coupon is a single-use discount code. Once usedAt is set every later
// redemption attempt fails.
type Coupon struct {
	code          string
	discountType  DiscountType
	discountValue int
	usedAt        *time.Time
}

func NewCoupon(code string, discountType DiscountType, discountValue int, usedAt *time.Time) (*Coupon, error) {
	if code == "" {
		return nil, ErrEmptyCode
	}
	switch discountType {
	case DiscountPercent:
		if discountValue <= 0 || discountValue > 100 {
			return nil, ErrInvalidDiscount
		}
	case DiscountFixed:
		if discountValue <= 0 {
			return nil, ErrInvalidDiscount
		}
	default:
		return nil, ErrUnknownDiscountType
	}
	return &Coupon{
		code:          code,
		discountType:  discountType,
		discountValue: discountValue,
		usedAt:        usedAt,
	}, nil
}

func (c *Coupon) Code() string               { return c.code }
func (c *Coupon) DiscountType() DiscountType { return c.discountType }
func (c *Coupon) DiscountValue() int         { return c.discountValue }
func (c *Coupon) UsedAt() *time.Time         { return c.usedAt }

func (c *Coupon) IsUsed() bool {
	return c.usedAt != nil
}

func (c *Coupon) ValidateUsage() error {
	if c.IsUsed() {
		return ErrAlreadyUsed
	}
	return nil
}

// MarkUsed consumes the coupon. The persistent mark is written by the
// store; this mirrors the rule locally so a second apply in the same
// flow fails fast.
func (c *Coupon) MarkUsed(now time.Time) error {
	if c.IsUsed() {
		return ErrAlreadyUsed
	}
	c.usedAt = &now
	return nil
}

// Apply returns the price in cents after the discount.
func (c *Coupon) Apply(basePriceCents int64) int64 {
	var result int64
	switch c.discountType {
	case DiscountPercent:
		result = basePriceCents * int64(100-c.discountValue) / 100
	case DiscountFixed:
		result = basePriceCents - int64(c.discountValue)
	default:
		result = basePriceCents
	}
	if result < 0 {
		return 0
	}
	return result
}
