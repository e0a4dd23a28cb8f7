package http

import (
	"github.com/nekogravitycat/barbershop-booking-backend/internal/availability"
)

// AvailabilityResponse is the public shape of an availability lookup.
// Empty days carry only availableTimes and message.
type AvailabilityResponse struct {
	Date            string   `json:"date"`
	AvailableTimes  []string `json:"availableTimes"`
	ServiceDuration *int     `json:"serviceDuration,omitempty"`
	BufferMinutes   *int     `json:"bufferMinutes,omitempty"`
	Message         string   `json:"message,omitempty"`
}

func NewAvailabilityResponse(r *availability.Result) AvailabilityResponse {
	resp := AvailabilityResponse{
		Date:           r.Date.Format(availability.DateLayout),
		AvailableTimes: r.AvailableTimes,
		Message:        r.Message,
	}
	if resp.AvailableTimes == nil {
		resp.AvailableTimes = []string{}
	}
	if r.Reason == availability.ReasonOpen {
		duration, buffer := r.ServiceDuration, r.BufferMinutes
		resp.ServiceDuration = &duration
		resp.BufferMinutes = &buffer
	}
	return resp
}
