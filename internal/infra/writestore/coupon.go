package writestore

import (
	"context"

	"velobook/internal/infra"
	"velobook/internal/infra/db"
	"velobook/internal/pkg/errs"
	"velobook/internal/pkg/pgconv"

	"github.com/google/uuid"
)

type CouponWriteStore struct {
	db db.Querier
}

func NewCouponWriteStore(q db.Querier) *CouponWriteStore {
	return &CouponWriteStore{db: q}
}

const markCouponUsedSQL = `
UPDATE coupons
SET used_at = now(), used_by_booking_id = $2
WHERE code = $1 AND used_at IS NULL`

// MarkUsed consumes a coupon exactly once. The used_at IS NULL guard
// makes a second redemption a no-op that surfaces as KindConflict.
func (s *CouponWriteStore) MarkUsed(ctx context.Context, code string, bookingID uuid.UUID) error {
	tag, err := s.db.Exec(ctx, markCouponUsedSQL, code, pgconv.UUIDToPgtype(bookingID))
	if err != nil {
		return infra.WrapRepoErr("failed to mark coupon used", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("coupon already used or unknown", errs.New("no coupon row updated"), infra.KindConflict)
	}
	return nil
}
