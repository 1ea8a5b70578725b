package request

import (
	"velobook/internal/domain/booking"
)

type RiderRequest struct {
	Name     string `json:"name" binding:"required"`
	HeightCm int    `json:"heightCm" binding:"required,min=100,max=230"`
}

type SubmitBookingRequest struct {
	Date       string         `json:"date" binding:"required"`
	Session    string         `json:"session" binding:"required,oneof=morning daily"`
	Riders     []RiderRequest `json:"riders" binding:"required,min=1,max=10,dive"`
	CouponCode *string        `json:"couponCode,omitempty"`
}

func (r SubmitBookingRequest) ToDraft() (booking.Draft, error) {
	date, err := booking.ParseDate(r.Date)
	if err != nil {
		return booking.Draft{}, err
	}
	session, err := booking.ParseSessionType(r.Session)
	if err != nil {
		return booking.Draft{}, err
	}

	riders := make([]booking.DraftRider, len(r.Riders))
	for i, rider := range r.Riders {
		riders[i] = booking.DraftRider{Name: rider.Name, HeightCm: rider.HeightCm}
	}

	return booking.Draft{
		Date:       date,
		Session:    session,
		Riders:     riders,
		CouponCode: r.CouponCode,
	}, nil
}
