package booking

import (
	"net/http"
	"time"

	"github.com/nekogravitycat/barbershop-booking-backend/internal/pkg/apperror"
)

var (
	ErrNotFound          = apperror.New(http.StatusNotFound, "booking not found")
	ErrTimeConflict      = apperror.New(http.StatusConflict, "time slot already booked")
	ErrSlotUnavailable   = apperror.New(http.StatusConflict, "requested time is not available")
	ErrInvalidStatus     = apperror.New(http.StatusBadRequest, "invalid booking status")
	ErrInvalidTransition = apperror.New(http.StatusConflict, "booking cannot move to the requested status")
	ErrPermissionDenied  = apperror.New(http.StatusForbidden, "permission denied")
	ErrDateInPast        = apperror.New(http.StatusBadRequest, "cannot create booking in the past")
	ErrInvalidDate       = apperror.New(http.StatusBadRequest, "date must be in yyyy-MM-dd format")
	ErrInvalidStartTime  = apperror.New(http.StatusBadRequest, "start_time must look like 9:30 AM or 09:30")
	ErrInvalidPeriod     = apperror.New(http.StatusBadRequest, "from must not be after to")
	ErrBarberUnavailable = apperror.New(http.StatusBadRequest, "barber is not accepting bookings")
	ErrOfferingMismatch  = apperror.New(http.StatusBadRequest, "service is not offered by this barber's shop")
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
	StatusNoShow    Status = "no_show"
)

// ParseStatus validates a status coming from the outside.
func ParseStatus(s string) (Status, error) {
	switch st := Status(s); st {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted, StatusNoShow:
		return st, nil
	}
	return "", ErrInvalidStatus
}

// Active reports whether the booking still holds its slot.
func (s Status) Active() bool {
	return s == StatusPending || s == StatusConfirmed
}

// managerTransitions lists the moves a shop manager or the barber may make.
var managerTransitions = map[Status][]Status{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCompleted, StatusNoShow, StatusCancelled},
}

// CanTransition reports whether from -> to is allowed. Clients may only cancel.
func CanTransition(from, to Status, asManager bool) bool {
	if !asManager {
		return from.Active() && to == StatusCancelled
	}
	for _, next := range managerTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Booking is an appointment of a client with a barber for one offering.
// StartTime is the 12-hour wall-clock form ("9:30 AM"); rows written by
// older clients may hold "09:30".
type Booking struct {
	ID              string
	BarberID        string
	BarberName      string
	UserID          string
	OfferingID      string
	OfferingName    string
	DurationMinutes int
	Date            time.Time
	StartTime       string
	Status          Status
	Notes           string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type Filter struct {
	UserID   string
	BarberID string
	Status   Status
	From     time.Time
	To       time.Time

	Page      int
	PageSize  int
	SortOrder string
}

type CreateRequest struct {
	UserID     string
	BarberID   string
	OfferingID string
	Date       string // yyyy-MM-dd
	StartTime  string
	Notes      string
}
