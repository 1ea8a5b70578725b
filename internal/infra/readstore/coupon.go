package readstore

import (
	"context"

	"velobook/internal/domain/coupon"
	"velobook/internal/infra"
	"velobook/internal/infra/db"
	"velobook/internal/pkg/pgconv"

	"github.com/jackc/pgx/v5/pgtype"
)

type CouponReadStore struct {
	db db.Querier
}

func NewCouponReadStore(q db.Querier) *CouponReadStore {
	return &CouponReadStore{db: q}
}

const couponByCodeSQL = `
SELECT code, discount_type, discount_value, used_at
FROM coupons
WHERE code = $1`

func (s *CouponReadStore) FindByCode(ctx context.Context, code string) (*coupon.Coupon, error) {
	var (
		couponCode    string
		discountType  string
		discountValue int
		usedAt        pgtype.Timestamptz
	)
	err := s.db.QueryRow(ctx, couponByCodeSQL, code).
		Scan(&couponCode, &discountType, &discountValue, &usedAt)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("coupon not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find coupon by code", err)
	}

	entity, err := coupon.NewCoupon(
		couponCode,
		coupon.DiscountType(discountType),
		discountValue,
		pgconv.TimePtrFromPgtype(usedAt),
	)
	if err != nil {
		return nil, infra.WrapRepoErr("invalid coupon row", err)
	}
	return entity, nil
}
