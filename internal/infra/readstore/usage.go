package readstore

import (
	"context"

	"velobook/internal/domain/availability"
	"velobook/internal/domain/booking"
	"velobook/internal/domain/fleet"
	"velobook/internal/infra"
	"velobook/internal/infra/db"
	"velobook/internal/pkg/pgconv"
)

// activeStatuses are the booking states that hold inventory.
const activeStatuses = "('pending', 'confirmed', 'checked_in')"

// UsageReadStore reads the booked-count facts from the store. The
// aggregate query counts every rider; the per-size query only sees
// riders whose size attribution is visible, so its totals may fall
// short of the aggregate.
type UsageReadStore struct {
	db db.Querier
}

func NewUsageReadStore(q db.Querier) *UsageReadStore {
	return &UsageReadStore{db: q}
}

const aggregateUsageSQL = `
SELECT b.ride_date, b.session, COUNT(r.id)::int AS booked
FROM bookings b
JOIN riders r ON r.booking_id = b.id
WHERE b.ride_date BETWEEN $1 AND $2
  AND b.status IN ` + activeStatuses + `
GROUP BY b.ride_date, b.session`

func (s *UsageReadStore) AggregateUsage(ctx context.Context, from, to booking.Date) ([]availability.AggregateUsage, error) {
	rows, err := s.db.Query(ctx, aggregateUsageSQL,
		pgconv.DateToPgtype(from.Time()), pgconv.DateToPgtype(to.Time()))
	if err != nil {
		return nil, infra.WrapRepoErr("failed to read aggregate usage", err)
	}
	defer rows.Close()

	var usages []availability.AggregateUsage
	for rows.Next() {
		var (
			date    pgtypeDate
			session string
			booked  int
		)
		if err := rows.Scan(&date, &session, &booked); err != nil {
			return nil, infra.WrapRepoErr("failed to scan aggregate usage row", err)
		}
		slot, err := slotFromRow(date, session)
		if err != nil {
			return nil, infra.WrapRepoErr("invalid slot in aggregate usage row", err)
		}
		usages = append(usages, availability.AggregateUsage{Slot: slot, Booked: booked})
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate aggregate usage rows", err)
	}
	return usages, nil
}

const sizeUsageSQL = `
SELECT b.ride_date, b.session, r.assigned_size, COUNT(r.id)::int AS booked
FROM bookings b
JOIN riders r ON r.booking_id = b.id
WHERE b.ride_date BETWEEN $1 AND $2
  AND b.status IN ` + activeStatuses + `
  AND r.assigned_size IS NOT NULL
GROUP BY b.ride_date, b.session, r.assigned_size`

func (s *UsageReadStore) SizeUsage(ctx context.Context, from, to booking.Date) ([]availability.SizeUsage, error) {
	rows, err := s.db.Query(ctx, sizeUsageSQL,
		pgconv.DateToPgtype(from.Time()), pgconv.DateToPgtype(to.Time()))
	if err != nil {
		return nil, infra.WrapRepoErr("failed to read size usage", err)
	}
	defer rows.Close()

	var usages []availability.SizeUsage
	for rows.Next() {
		var (
			date    pgtypeDate
			session string
			size    string
			booked  int
		)
		if err := rows.Scan(&date, &session, &size, &booked); err != nil {
			return nil, infra.WrapRepoErr("failed to scan size usage row", err)
		}
		slot, err := slotFromRow(date, session)
		if err != nil {
			return nil, infra.WrapRepoErr("invalid slot in size usage row", err)
		}
		sizeClass, err := fleet.ParseSizeClass(size)
		if err != nil {
			return nil, infra.WrapRepoErr("invalid size class in size usage row", err)
		}
		usages = append(usages, availability.SizeUsage{Slot: slot, Size: sizeClass, Booked: booked})
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate size usage rows", err)
	}
	return usages, nil
}
