//go:build unit || e2e

package builder

import (
	"time"

	dombooking "velobook/internal/domain/booking"
	"velobook/internal/domain/fleet"
	reqdto "velobook/internal/handler/dto/request"
	"velobook/internal/usecase/queries"

	"github.com/google/uuid"
)

type DraftBuilder struct {
	Date       string
	Session    string
	Riders     []dombooking.DraftRider
	CouponCode *string
}

func NewDraftBuilder() *DraftBuilder {
	return &DraftBuilder{
		Date:    "2026-07-10",
		Session: "morning",
		Riders: []dombooking.DraftRider{
			{Name: "Alice", HeightCm: 168},
			{Name: "Bob", HeightCm: 182},
		},
	}
}

func (b *DraftBuilder) With(mutate func(*DraftBuilder)) *DraftBuilder {
	mutate(b)
	return b
}

func (b *DraftBuilder) WithDate(date string) *DraftBuilder {
	b.Date = date
	return b
}

func (b *DraftBuilder) WithSession(session string) *DraftBuilder {
	b.Session = session
	return b
}

func (b *DraftBuilder) WithRiders(riders ...dombooking.DraftRider) *DraftBuilder {
	b.Riders = riders
	return b
}

func (b *DraftBuilder) WithCoupon(code string) *DraftBuilder {
	b.CouponCode = &code
	return b
}

func (b *DraftBuilder) BuildDomain() dombooking.Draft {
	date, err := dombooking.ParseDate(b.Date)
	if err != nil {
		date = dombooking.Date{}
	}
	return dombooking.Draft{
		Date:       date,
		Session:    dombooking.SessionType(b.Session),
		Riders:     b.Riders,
		CouponCode: b.CouponCode,
	}
}

func (b *DraftBuilder) BuildRequestDTO() reqdto.SubmitBookingRequest {
	riders := make([]reqdto.RiderRequest, len(b.Riders))
	for i, r := range b.Riders {
		riders[i] = reqdto.RiderRequest{Name: r.Name, HeightCm: r.HeightCm}
	}
	return reqdto.SubmitBookingRequest{
		Date:       b.Date,
		Session:    b.Session,
		Riders:     riders,
		CouponCode: b.CouponCode,
	}
}

func (b *DraftBuilder) BuildView() *queries.BookingView {
	riders := make([]queries.RiderView, len(b.Riders))
	for i, r := range b.Riders {
		riders[i] = queries.RiderView{
			ID:         uuid.New(),
			Name:       r.Name,
			HeightCm:   r.HeightCm,
			BikeID:     uuid.New(),
			BikeNumber: "B-00" + string(rune('1'+i)),
			Size:       string(fleet.SizeM),
		}
	}
	return &queries.BookingView{
		ID:         uuid.New(),
		Date:       b.Date,
		Session:    b.Session,
		Status:     string(dombooking.StatusPending),
		CouponCode: b.CouponCode,
		Riders:     riders,
		CreatedAt:  time.Now(),
	}
}
