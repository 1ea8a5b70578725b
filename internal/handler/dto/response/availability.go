package response

import (
	"velobook/internal/usecase/queries"
)

type SlotAvailabilityResponse struct {
	Date        string         `json:"date"`
	Session     string         `json:"session"`
	Remaining   map[string]int `json:"remaining"`
	TotalBooked int            `json:"totalBooked"`
}

func FromSlotAvailabilityView(view *queries.SlotAvailabilityView) *SlotAvailabilityResponse {
	remaining := make(map[string]int, len(view.Remaining))
	for size, n := range view.Remaining {
		remaining[string(size)] = n
	}
	return &SlotAvailabilityResponse{
		Date:        view.Date,
		Session:     view.Session,
		Remaining:   remaining,
		TotalBooked: view.TotalBooked,
	}
}
