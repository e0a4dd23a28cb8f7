package availability

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/nekogravitycat/barbershop-booking-backend/internal/pkg/apperror"
)

// ErrInvalidInput is the common cause of every request validation failure.
var ErrInvalidInput = errors.New("invalid availability input")

var (
	ErrBarberRequired      = apperror.Wrap(ErrInvalidInput, http.StatusBadRequest, "barber_id is required")
	ErrInvalidID           = apperror.Wrap(ErrInvalidInput, http.StatusBadRequest, "barber_id and service_id must be valid ids")
	ErrInvalidDate         = apperror.Wrap(ErrInvalidInput, http.StatusBadRequest, "date must be in yyyy-MM-dd format")
	ErrInvalidDuration     = apperror.Wrap(ErrInvalidInput, http.StatusBadRequest, "service duration must be between 1 and 1440 minutes")
	ErrUpstreamUnavailable = apperror.New(http.StatusServiceUnavailable, "scheduling data is temporarily unavailable")
	ErrBookingDataCorrupt  = apperror.New(http.StatusInternalServerError, "booking data could not be interpreted")
	ErrScheduleDataCorrupt = apperror.New(http.StatusInternalServerError, "working hours could not be interpreted")
)

// Messages attached to successful but empty results.
const (
	MessageNonWorkingDay = "provider does not work this day"
	MessageDayOff        = "Day off"
)

// Reason explains why a result looks the way it does.
type Reason string

const (
	ReasonOpen          Reason = "open"
	ReasonNonWorkingDay Reason = "non_working_day"
	ReasonDayOff        Reason = "day_off"
)

// WorkingHours is a barber's window for one weekday, in "HH:mm".
type WorkingHours struct {
	StartTime string
	EndTime   string
}

// Window parses the working hours into minutes of day.
func (h WorkingHours) Window() (Window, error) {
	start, err := ParseWorkingTime(h.StartTime)
	if err != nil {
		return Window{}, err
	}
	end, err := ParseWorkingTime(h.EndTime)
	if err != nil {
		return Window{}, err
	}
	return Window{Start: start, End: end}, nil
}

// Settings are per-tenant overrides of the default Config. Nil fields keep the default.
type Settings struct {
	// ShopID is the shop the barber works for; offerings must belong to it.
	ShopID          string
	BufferMinutes   *int
	SlotStepMinutes *int
}

// ScheduleLookup reads a barber's weekly hours and day-off exceptions.
type ScheduleLookup interface {
	// WorkingHours returns nil when the barber has no available entry for the weekday.
	WorkingHours(ctx context.Context, barberID string, day time.Weekday) (*WorkingHours, error)
	IsDayOff(ctx context.Context, barberID string, date time.Time) (bool, error)
}

// BookingLookup lists bookings that still hold capacity (pending or confirmed).
type BookingLookup interface {
	ActiveBookings(ctx context.Context, barberID string, date time.Time) ([]Occupancy, error)
}

// SettingsLookup resolves the tenant overrides that apply to a barber.
type SettingsLookup interface {
	SchedulingSettings(ctx context.Context, barberID string) (*Settings, error)
}

// OfferingLookup resolves the duration of a catalog offering.
type OfferingLookup interface {
	// OfferingDuration fails when the offering is inactive or, if shopID is
	// not empty, sold by another shop.
	OfferingDuration(ctx context.Context, offeringID, shopID string) (int, error)
}

// Query is one availability request.
type Query struct {
	BarberID        string
	Date            string // yyyy-MM-dd
	DurationMinutes int
	// OfferingID supplies the duration when DurationMinutes is zero.
	OfferingID string
}

// Result is the outcome of an availability request.
type Result struct {
	BarberID        string
	Date            time.Time
	AvailableTimes  []string
	ServiceDuration int
	BufferMinutes   int
	SlotStepMinutes int
	Reason          Reason
	Message         string
}

// Contains reports whether the 12-hour start time is among the available times.
func (r *Result) Contains(startTime string) bool {
	for _, t := range r.AvailableTimes {
		if t == startTime {
			return true
		}
	}
	return false
}
