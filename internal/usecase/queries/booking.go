package queries

import (
	"context"
	"time"

	"velobook/internal/infra"
	"velobook/internal/pkg/errs"

	"github.com/google/uuid"
)

var ErrBookingNotFound = errs.New("booking not found")

type RiderView struct {
	ID         uuid.UUID
	Name       string
	HeightCm   int
	BikeID     uuid.UUID
	BikeNumber string
	Size       string
}

type BookingView struct {
	ID         uuid.UUID
	Date       string
	Session    string
	Status     string
	CouponCode *string
	Riders     []RiderView
	CreatedAt  time.Time
}

type BookingReadStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*BookingView, error)
}

type BookingQueries interface {
	GetByID(ctx context.Context, id uuid.UUID) (*BookingView, error)
}

type bookingQueriesImpl struct {
	readStore BookingReadStore
}

func NewBookingQueries(readStore BookingReadStore) BookingQueries {
	return &bookingQueriesImpl{readStore: readStore}
}

func (q *bookingQueriesImpl) GetByID(ctx context.Context, id uuid.UUID) (*BookingView, error) {
	view, err := q.readStore.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, ErrBookingNotFound)
		}
		return nil, errs.Wrap(err, "failed to find booking")
	}
	return view, nil
}
