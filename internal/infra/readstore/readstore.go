// Package readstore implements the read-side gateways to the external
// booking store over pgx.
package readstore

import (
	"velobook/internal/domain/booking"

	"github.com/jackc/pgx/v5/pgtype"
)

type pgtypeDate = pgtype.Date

func slotFromRow(date pgtypeDate, session string) (booking.Slot, error) {
	sessionType, err := booking.ParseSessionType(session)
	if err != nil {
		return booking.Slot{}, err
	}
	return booking.NewSlot(booking.DateOf(date.Time), sessionType)
}
