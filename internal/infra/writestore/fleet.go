package writestore

import (
	"context"

	"velobook/internal/infra"
	"velobook/internal/infra/db"
	"velobook/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type FleetWriteStore struct {
	db db.Querier
}

func NewFleetWriteStore(q db.Querier) *FleetWriteStore {
	return &FleetWriteStore{db: q}
}

const markRentedSQL = `
UPDATE bikes
SET status = 'rented'
WHERE id = ANY($1) AND status = 'available'`

// MarkRented flips same-day assigned bikes to rented. Best effort: a
// bike whose status moved in the meantime is skipped, not an error.
func (s *FleetWriteStore) MarkRented(ctx context.Context, bikeIDs []uuid.UUID) error {
	if len(bikeIDs) == 0 {
		return nil
	}
	ids := make([]pgtype.UUID, len(bikeIDs))
	for i, id := range bikeIDs {
		ids[i] = pgconv.UUIDToPgtype(id)
	}
	if _, err := s.db.Exec(ctx, markRentedSQL, ids); err != nil {
		return infra.WrapRepoErr("failed to mark bikes rented", err)
	}
	return nil
}
