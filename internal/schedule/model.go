package schedule

import (
	"net/http"
	"time"

	"github.com/nekogravitycat/barbershop-booking-backend/internal/pkg/apperror"
)

var (
	ErrNotFound         = apperror.New(http.StatusNotFound, "schedule entry not found")
	ErrDayOffNotFound   = apperror.New(http.StatusNotFound, "day off not found")
	ErrDayOffExists     = apperror.New(http.StatusConflict, "day off already recorded for this date")
	ErrInvalidWeekday   = apperror.New(http.StatusBadRequest, "weekday must be between 0 (Sunday) and 6 (Saturday)")
	ErrInvalidTime      = apperror.New(http.StatusBadRequest, "times must be in HH:mm format")
	ErrInvalidRange     = apperror.New(http.StatusBadRequest, "start_time must be before end_time")
	ErrInvalidDate      = apperror.New(http.StatusBadRequest, "date must be in yyyy-MM-dd format")
	ErrInvalidPeriod    = apperror.New(http.StatusBadRequest, "from must not be after to")
	ErrUnknownBarber    = apperror.New(http.StatusNotFound, "barber not found")
	ErrPermissionDenied = apperror.New(http.StatusForbidden, "permission denied")
)

// WeeklySchedule is a barber's recurring window for one weekday.
// Times are stored as "HH:mm".
type WeeklySchedule struct {
	BarberID  string
	DayOfWeek time.Weekday
	StartTime string
	EndTime   string
	Available bool
	UpdatedAt time.Time
}

// DayOff closes a barber's calendar for a whole date.
type DayOff struct {
	ID        string
	BarberID  string
	Date      time.Time
	Reason    string
	CreatedAt time.Time
}

// SetDayRequest is the upsert payload for one weekday.
type SetDayRequest struct {
	StartTime string
	EndTime   string
	Available bool
}

// DayOffFilter bounds a day-off listing. Zero dates are open ends.
type DayOffFilter struct {
	From time.Time
	To   time.Time
}
