package response

import (
	"time"

	"velobook/internal/usecase/commands"
	"velobook/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type RiderAssignmentResponse struct {
	RiderName  string    `json:"riderName"`
	HeightCm   int       `json:"heightCm"`
	BikeID     uuid.UUID `json:"bikeId"`
	BikeNumber string    `json:"bikeNumber"`
	Size       string    `json:"size"`
}

type SubmitBookingResponse struct {
	BookingID         uuid.UUID                 `json:"bookingId"`
	Assignments       []RiderAssignmentResponse `json:"assignments"`
	FailedSideEffects []string                  `json:"failedSideEffects,omitempty"`
}

func FromSubmitResult(result *commands.SubmitResult) *SubmitBookingResponse {
	resp := &SubmitBookingResponse{}
	_ = copier.Copy(resp, result)
	return resp
}

type RiderResponse struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	HeightCm   int       `json:"heightCm"`
	BikeID     uuid.UUID `json:"bikeId"`
	BikeNumber string    `json:"bikeNumber"`
	Size       string    `json:"size"`
}

type BookingResponse struct {
	ID         uuid.UUID       `json:"id"`
	Date       string          `json:"date"`
	Session    string          `json:"session"`
	Status     string          `json:"status"`
	CouponCode *string         `json:"couponCode,omitempty"`
	Riders     []RiderResponse `json:"riders"`
	CreatedAt  time.Time       `json:"createdAt"`
}

func FromBookingView(view *queries.BookingView) *BookingResponse {
	resp := &BookingResponse{}
	_ = copier.Copy(resp, view)
	return resp
}
