package http

import (
	"time"

	"github.com/nekogravitycat/barbershop-booking-backend/internal/availability"
	"github.com/nekogravitycat/barbershop-booking-backend/internal/schedule"
)

type WeekdayURI struct {
	ID      string `uri:"id" binding:"required,uuid"`
	Weekday int    `uri:"weekday" binding:"min=0,max=6"`
}

type DateURI struct {
	ID   string `uri:"id" binding:"required,uuid"`
	Date string `uri:"date" binding:"required"`
}

type SetDayRequest struct {
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Available *bool  `json:"available" binding:"required"`
}

type WeeklyScheduleResponse struct {
	DayOfWeek int       `json:"day_of_week"`
	DayName   string    `json:"day_name"`
	StartTime string    `json:"start_time"`
	EndTime   string    `json:"end_time"`
	Available bool      `json:"available"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewWeeklyScheduleResponse(ws *schedule.WeeklySchedule) WeeklyScheduleResponse {
	return WeeklyScheduleResponse{
		DayOfWeek: int(ws.DayOfWeek),
		DayName:   ws.DayOfWeek.String(),
		StartTime: ws.StartTime,
		EndTime:   ws.EndTime,
		Available: ws.Available,
		UpdatedAt: ws.UpdatedAt,
	}
}

type WeekResponse struct {
	BarberID string                   `json:"barber_id"`
	Days     []WeeklyScheduleResponse `json:"days"`
}

type ListDaysOffRequest struct {
	From string `form:"from"`
	To   string `form:"to"`
}

type CreateDayOffRequest struct {
	Date   string `json:"date" binding:"required"`
	Reason string `json:"reason"`
}

type DayOffResponse struct {
	ID        string    `json:"id"`
	Date      string    `json:"date"`
	Reason    string    `json:"reason"`
	CreatedAt time.Time `json:"created_at"`
}

func NewDayOffResponse(d *schedule.DayOff) DayOffResponse {
	return DayOffResponse{
		ID:        d.ID,
		Date:      d.Date.Format(availability.DateLayout),
		Reason:    d.Reason,
		CreatedAt: d.CreatedAt,
	}
}
