//go:build unit || e2e

package dbtest

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"velobook/internal/domain/fleet"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

func CreateTestBike(t *testing.T, db DBLike, number string, size fleet.SizeClass, status fleet.Status) uuid.UUID {
	t.Helper()

	bikeID := uuid.New()
	ctx := context.Background()

	_, err := db.Exec(ctx,
		"INSERT INTO bikes (id, bike_number, size_class, status) VALUES ($1, $2, $3, $4)",
		bikeID, number, string(size), string(status))
	require.NoError(t, err)

	return bikeID
}

// SeedFleet inserts count available bikes per listed size class and
// returns the IDs in insertion order.
func SeedFleet(t *testing.T, db DBLike, countPerSize int, sizes ...fleet.SizeClass) []uuid.UUID {
	t.Helper()

	var ids []uuid.UUID
	n := 1
	for _, size := range sizes {
		for i := 0; i < countPerSize; i++ {
			ids = append(ids, CreateTestBike(t, db, fmt.Sprintf("B-%03d", n), size, fleet.StatusAvailable))
			n++
		}
	}
	return ids
}

func CreateTestCoupon(t *testing.T, db DBLike, code string, discountType string, value int) {
	t.Helper()

	ctx := context.Background()
	_, err := db.Exec(ctx,
		"INSERT INTO coupons (code, discount_type, discount_value) VALUES ($1, $2, $3) ON CONFLICT (code) DO NOTHING",
		code, discountType, value)
	require.NoError(t, err)
}

// CreateTestBooking inserts a booking with one rider row per bike ID.
// Pass uuid.Nil in bikeIDs to create a rider with no assignment, the
// shape legacy rows take.
func CreateTestBooking(t *testing.T, db DBLike, rideDate, session, status string, bikeIDs ...uuid.UUID) uuid.UUID {
	t.Helper()

	ctx := context.Background()
	bookingID := uuid.New()

	_, err := db.Exec(ctx,
		"INSERT INTO bookings (id, ride_date, session, status) VALUES ($1, $2, $3, $4)",
		bookingID, rideDate, session, status)
	require.NoError(t, err)

	for i, bikeID := range bikeIDs {
		var assignedBike *uuid.UUID
		var assignedSize *string
		if bikeID != uuid.Nil {
			assignedBike = &bikeID
			var size string
			err := db.QueryRow(ctx, "SELECT size_class FROM bikes WHERE id = $1", bikeID).Scan(&size)
			require.NoError(t, err)
			assignedSize = &size
		}
		_, err := db.Exec(ctx,
			"INSERT INTO riders (id, booking_id, position, name, height_cm, assigned_bike_id, assigned_size) VALUES ($1, $2, $3, $4, $5, $6, $7)",
			uuid.New(), bookingID, i, fmt.Sprintf("Rider %d", i+1), 170, assignedBike, assignedSize)
		require.NoError(t, err)
	}

	return bookingID
}

var (
	buildTruncateOnce sync.Once
	truncateSQL       atomic.Value // string
)

// truncates all tables between subtests
func ResetDB(pool *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	buildTruncateOnce.Do(func() {
		rows, err := pool.Query(ctx, `
		  SELECT 'public.' || quote_ident(tablename)
		  FROM pg_tables
		  WHERE schemaname = 'public'
		    AND tablename NOT IN ('schema_migrations')`)
		if err != nil {
			truncateSQL.Store("")
			return
		}
		defer rows.Close()
		var tables []string
		for rows.Next() {
			var t string
			if err := rows.Scan(&t); err != nil {
				truncateSQL.Store("")
				return
			}
			tables = append(tables, t)
		}
		if rows.Err() != nil {
			truncateSQL.Store("")
			return
		}
		if len(tables) == 0 {
			truncateSQL.Store("SELECT 1")
			return
		}
		truncateSQL.Store("TRUNCATE " + strings.Join(tables, ", ") + " RESTART IDENTITY CASCADE;")
	})
	sqlAny := truncateSQL.Load()
	if sqlAny == nil || sqlAny.(string) == "" {
		return fmt.Errorf("failed to build TRUNCATE SQL")
	}
	if _, err := pool.Exec(ctx, sqlAny.(string)); err != nil {
		return err
	}
	return nil
}
