//go:build unit

package coupon_test

import (
	"testing"
	"time"

	"velobook/internal/domain/coupon"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCoupon(t *testing.T) {
	type testCase struct {
		name         string
		code         string
		discountType coupon.DiscountType
		value        int
		errIs        error
	}

	cases := []testCase{
		{name: "valid percent", code: "SUMMER10", discountType: coupon.DiscountPercent, value: 10},
		{name: "percent at 100", code: "FREE", discountType: coupon.DiscountPercent, value: 100},
		{name: "valid fixed", code: "MINUS500", discountType: coupon.DiscountFixed, value: 500},
		{name: "empty code", code: "", discountType: coupon.DiscountPercent, value: 10, errIs: coupon.ErrEmptyCode},
		{name: "percent zero", code: "X", discountType: coupon.DiscountPercent, value: 0, errIs: coupon.ErrInvalidDiscount},
		{name: "percent above 100", code: "X", discountType: coupon.DiscountPercent, value: 101, errIs: coupon.ErrInvalidDiscount},
		{name: "fixed negative", code: "X", discountType: coupon.DiscountFixed, value: -1, errIs: coupon.ErrInvalidDiscount},
		{name: "unknown type", code: "X", discountType: coupon.DiscountType("bogo"), value: 10, errIs: coupon.ErrUnknownDiscountType},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := coupon.NewCoupon(c.code, c.discountType, c.value, nil)
			if c.errIs == nil {
				require.NoError(t, err)
				assert.Equal(t, c.code, got.Code())
				assert.False(t, got.IsUsed())
			} else {
				assert.ErrorIs(t, err, c.errIs)
			}
		})
	}
}

func TestCouponSingleUse(t *testing.T) {
	now := time.Date(2026, time.July, 1, 12, 0, 0, 0, time.UTC)

	t.Run("fresh coupon validates and marks once", func(t *testing.T) {
		c, err := coupon.NewCoupon("SUMMER10", coupon.DiscountPercent, 10, nil)
		require.NoError(t, err)

		require.NoError(t, c.ValidateUsage())
		require.NoError(t, c.MarkUsed(now))
		assert.True(t, c.IsUsed())
		require.NotNil(t, c.UsedAt())
		assert.Equal(t, now, *c.UsedAt())
	})

	t.Run("second use fails", func(t *testing.T) {
		c, err := coupon.NewCoupon("SUMMER10", coupon.DiscountPercent, 10, nil)
		require.NoError(t, err)
		require.NoError(t, c.MarkUsed(now))

		assert.ErrorIs(t, c.ValidateUsage(), coupon.ErrAlreadyUsed)
		assert.ErrorIs(t, c.MarkUsed(now.Add(time.Hour)), coupon.ErrAlreadyUsed)
	})

	t.Run("reconstructed as used stays used", func(t *testing.T) {
		usedAt := now.Add(-24 * time.Hour)
		c, err := coupon.NewCoupon("SUMMER10", coupon.DiscountPercent, 10, &usedAt)
		require.NoError(t, err)
		assert.ErrorIs(t, c.ValidateUsage(), coupon.ErrAlreadyUsed)
	})
}

func TestCouponApply(t *testing.T) {
	t.Run("percent discount", func(t *testing.T) {
		c, err := coupon.NewCoupon("TEN", coupon.DiscountPercent, 10, nil)
		require.NoError(t, err)
		assert.Equal(t, int64(900), c.Apply(1000))
	})

	t.Run("fixed discount", func(t *testing.T) {
		c, err := coupon.NewCoupon("MINUS500", coupon.DiscountFixed, 500, nil)
		require.NoError(t, err)
		assert.Equal(t, int64(1500), c.Apply(2000))
	})

	t.Run("fixed discount never goes below zero", func(t *testing.T) {
		c, err := coupon.NewCoupon("MINUS500", coupon.DiscountFixed, 500, nil)
		require.NoError(t, err)
		assert.Equal(t, int64(0), c.Apply(300))
	})
}
