package http

import (
	"time"

	"github.com/nekogravitycat/barbershop-booking-backend/internal/availability"
	"github.com/nekogravitycat/barbershop-booking-backend/internal/booking"
	"github.com/nekogravitycat/barbershop-booking-backend/internal/pkg/request"
)

type CreateBookingRequest struct {
	BarberID  string `json:"barber_id" binding:"required,uuid"`
	ServiceID string `json:"service_id" binding:"required,uuid"`
	Date      string `json:"date" binding:"required"`
	StartTime string `json:"start_time" binding:"required"`
	Notes     string `json:"notes" binding:"max=500"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type ListBookingsRequest struct {
	request.ListParams
	BarberID string `form:"barber_id" binding:"omitempty,uuid"`
	Status   string `form:"status"`
	From     string `form:"from"`
	To       string `form:"to"`
}

type BookingResponse struct {
	ID              string    `json:"id"`
	BarberID        string    `json:"barber_id"`
	BarberName      string    `json:"barber_name"`
	UserID          string    `json:"user_id"`
	ServiceID       string    `json:"service_id"`
	ServiceName     string    `json:"service_name"`
	DurationMinutes int       `json:"duration_minutes"`
	Date            string    `json:"date"`
	StartTime       string    `json:"start_time"`
	Status          string    `json:"status"`
	Notes           string    `json:"notes"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func NewBookingResponse(b *booking.Booking) BookingResponse {
	return BookingResponse{
		ID:              b.ID,
		BarberID:        b.BarberID,
		BarberName:      b.BarberName,
		UserID:          b.UserID,
		ServiceID:       b.OfferingID,
		ServiceName:     b.OfferingName,
		DurationMinutes: b.DurationMinutes,
		Date:            b.Date.Format(availability.DateLayout),
		StartTime:       b.StartTime,
		Status:          string(b.Status),
		Notes:           b.Notes,
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}
}
