package readstore

import (
	"context"

	"velobook/internal/infra"
	"velobook/internal/infra/db"
	"velobook/internal/pkg/pgconv"
	"velobook/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type BookingReadStore struct {
	db db.Querier
}

func NewBookingReadStore(q db.Querier) *BookingReadStore {
	return &BookingReadStore{db: q}
}

const bookingByIDSQL = `
SELECT id, ride_date, session, status, coupon_code, created_at
FROM bookings
WHERE id = $1`

const ridersByBookingSQL = `
SELECT r.id, r.name, r.height_cm, r.assigned_bike_id, COALESCE(k.bike_number, ''), COALESCE(r.assigned_size, '')
FROM riders r
LEFT JOIN bikes k ON k.id = r.assigned_bike_id
WHERE r.booking_id = $1
ORDER BY r.position`

func (s *BookingReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.BookingView, error) {
	var (
		bookingID  pgtype.UUID
		rideDate   pgtype.Date
		session    string
		status     string
		couponCode pgtype.Text
		createdAt  pgtype.Timestamptz
	)
	err := s.db.QueryRow(ctx, bookingByIDSQL, pgconv.UUIDToPgtype(id)).
		Scan(&bookingID, &rideDate, &session, &status, &couponCode, &createdAt)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("booking not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find booking by ID", err)
	}

	riders, err := s.ridersOf(ctx, id)
	if err != nil {
		return nil, err
	}

	return &queries.BookingView{
		ID:         pgconv.UUIDFromPgtype(bookingID),
		Date:       rideDate.Time.Format("2006-01-02"),
		Session:    session,
		Status:     status,
		CouponCode: pgconv.StringPtrFromPgtype(couponCode),
		Riders:     riders,
		CreatedAt:  pgconv.TimeFromPgtype(createdAt),
	}, nil
}

func (s *BookingReadStore) ridersOf(ctx context.Context, bookingID uuid.UUID) ([]queries.RiderView, error) {
	rows, err := s.db.Query(ctx, ridersByBookingSQL, pgconv.UUIDToPgtype(bookingID))
	if err != nil {
		return nil, infra.WrapRepoErr("failed to read booking riders", err)
	}
	defer rows.Close()

	var riders []queries.RiderView
	for rows.Next() {
		var (
			id         pgtype.UUID
			name       string
			heightCm   int
			bikeID     pgtype.UUID
			bikeNumber string
			size       string
		)
		if err := rows.Scan(&id, &name, &heightCm, &bikeID, &bikeNumber, &size); err != nil {
			return nil, infra.WrapRepoErr("failed to scan rider row", err)
		}
		riders = append(riders, queries.RiderView{
			ID:         pgconv.UUIDFromPgtype(id),
			Name:       name,
			HeightCm:   heightCm,
			BikeID:     pgconv.UUIDFromPgtype(bikeID),
			BikeNumber: bikeNumber,
			Size:       size,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate rider rows", err)
	}
	return riders, nil
}
