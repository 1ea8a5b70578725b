// Package writestore implements the write-side gateways to the
// external booking store over pgx.
package writestore

import (
	"context"
	"errors"
	"log/slog"

	"velobook/internal/domain/booking"
	"velobook/internal/infra"
	"velobook/internal/pkg/pgconv"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	pgUniqueViolation    = "23505"
	pgExclusionViolation = "23P01"
)

func isConstraintViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation || pgErr.Code == pgExclusionViolation
	}
	return false
}

type BookingWriteStore struct {
	pool *pgxpool.Pool
}

func NewBookingWriteStore(pool *pgxpool.Pool) *BookingWriteStore {
	return &BookingWriteStore{pool: pool}
}

const insertBookingSQL = `
INSERT INTO bookings (id, ride_date, session, status, coupon_code, created_at)
VALUES ($1, $2, $3, $4, $5, $6)`

const insertRiderSQL = `
INSERT INTO riders (id, booking_id, position, name, height_cm, assigned_bike_id, assigned_size)
VALUES ($1, $2, $3, $4, $5, $6, $7)`

// Create persists the booking and all rider assignments in one
// transaction. A constraint violation on a bike already claimed in an
// overlapping slot surfaces as KindConflict; the store's constraints
// are the final oversell defense this core cannot provide itself.
func (s *BookingWriteStore) Create(ctx context.Context, b *booking.Booking) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return infra.WrapRepoErr("failed to begin booking transaction", err)
	}
	defer func() {
		if rollbackErr := tx.Rollback(ctx); rollbackErr != nil && !errors.Is(rollbackErr, context.Canceled) {
			slog.Debug("booking transaction rollback", "error", rollbackErr)
		}
	}()

	_, err = tx.Exec(ctx, insertBookingSQL,
		pgconv.UUIDToPgtype(b.ID()),
		pgconv.DateToPgtype(b.Slot().Date().Time()),
		string(b.Slot().Session()),
		string(b.Status()),
		pgconv.StringPtrToPgtype(b.CouponCode()),
		pgconv.TimeToPgtype(b.CreatedAt()),
	)
	if err != nil {
		if isConstraintViolation(err) {
			return infra.WrapRepoErr("booking conflicts with existing record", err, infra.KindConflict)
		}
		return infra.WrapRepoErr("failed to insert booking", err)
	}

	for i, r := range b.Riders() {
		_, err = tx.Exec(ctx, insertRiderSQL,
			pgconv.UUIDToPgtype(r.ID()),
			pgconv.UUIDToPgtype(b.ID()),
			i,
			r.Name(),
			r.HeightCm(),
			pgconv.UUIDToPgtype(r.BikeID()),
			string(r.Size()),
		)
		if err != nil {
			if isConstraintViolation(err) {
				return infra.WrapRepoErr("rider assignment conflicts with existing record", err, infra.KindConflict)
			}
			return infra.WrapRepoErr("failed to insert rider", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		if isConstraintViolation(err) {
			return infra.WrapRepoErr("booking commit hit a constraint", err, infra.KindConflict)
		}
		return infra.WrapRepoErr("failed to commit booking transaction", err)
	}
	return nil
}
