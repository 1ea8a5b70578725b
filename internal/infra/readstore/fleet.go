package readstore

import (
	"context"

	"velobook/internal/domain/booking"
	"velobook/internal/domain/fleet"
	"velobook/internal/infra"
	"velobook/internal/infra/db"
	"velobook/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type FleetReadStore struct {
	db db.Querier
}

func NewFleetReadStore(q db.Querier) *FleetReadStore {
	return &FleetReadStore{db: q}
}

const fleetSnapshotSQL = `
SELECT id, bike_number, size_class, status
FROM bikes
ORDER BY bike_number`

func (s *FleetReadStore) Snapshot(ctx context.Context) (fleet.Fleet, error) {
	rows, err := s.db.Query(ctx, fleetSnapshotSQL)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to read fleet snapshot", err)
	}
	defer rows.Close()

	var bikes fleet.Fleet
	for rows.Next() {
		var (
			id     pgtype.UUID
			number string
			size   string
			status string
		)
		if err := rows.Scan(&id, &number, &size, &status); err != nil {
			return nil, infra.WrapRepoErr("failed to scan bike row", err)
		}
		sizeClass, err := fleet.ParseSizeClass(size)
		if err != nil {
			return nil, infra.WrapRepoErr("invalid size class in bike row", err)
		}
		bikeStatus, err := fleet.ParseStatus(status)
		if err != nil {
			return nil, infra.WrapRepoErr("invalid status in bike row", err)
		}
		bike, err := fleet.NewBike(pgconv.UUIDFromPgtype(id), number, sizeClass, bikeStatus)
		if err != nil {
			return nil, infra.WrapRepoErr("invalid bike row", err)
		}
		bikes = append(bikes, bike)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate bike rows", err)
	}
	return bikes, nil
}

const assignedBikesSQL = `
SELECT DISTINCT r.assigned_bike_id
FROM bookings b
JOIN riders r ON r.booking_id = b.id
WHERE (b.ride_date, b.session) IN (
        SELECT d, s FROM unnest($1::date[], $2::text[]) AS u(d, s)
      )
  AND b.status IN ` + activeStatuses + `
  AND r.assigned_bike_id IS NOT NULL`

// AssignedBikeIDs returns the bikes already committed to riders in any
// of the given slots.
func (s *FleetReadStore) AssignedBikeIDs(ctx context.Context, slots []booking.Slot) ([]uuid.UUID, error) {
	dates := make([]pgtype.Date, len(slots))
	sessions := make([]string, len(slots))
	for i, slot := range slots {
		dates[i] = pgconv.DateToPgtype(slot.Date().Time())
		sessions[i] = string(slot.Session())
	}

	rows, err := s.db.Query(ctx, assignedBikesSQL, dates, sessions)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to read assigned bikes", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id pgtype.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, infra.WrapRepoErr("failed to scan assigned bike row", err)
		}
		ids = append(ids, pgconv.UUIDFromPgtype(id))
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate assigned bike rows", err)
	}
	return ids, nil
}
