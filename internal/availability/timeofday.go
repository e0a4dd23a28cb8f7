package availability

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// DateLayout is the wire format of calendar dates (yyyy-MM-dd).
const DateLayout = "2006-01-02"

const minutesPerDay = 24 * 60

// MaxDurationMinutes bounds service durations, buffers and slot steps to one day.
const MaxDurationMinutes = minutesPerDay

// ErrUnrecognizedTime is returned when a clock string matches none of the accepted layouts.
var ErrUnrecognizedTime = errors.New("unrecognized time of day")

// MinuteOfDay is a wall-clock time expressed as minutes since midnight.
type MinuteOfDay int

// timeLayout is one accepted textual form of a clock time.
type timeLayout struct {
	layout    string
	normalize func(string) string
}

var (
	twelveHour = []timeLayout{
		{layout: "3:04 PM", normalize: strings.ToUpper},
		{layout: "3:04PM", normalize: strings.ToUpper},
	}
	twentyFourHour = []timeLayout{
		{layout: "15:04"},
		{layout: "15:04:05"},
	}

	// bookingLayouts is tried in order: bookings written today use the 12-hour
	// form, older rows still carry 24-hour strings.
	bookingLayouts = append(append([]timeLayout{}, twelveHour...), twentyFourHour...)
)

func parseWith(value string, layouts []timeLayout) (MinuteOfDay, error) {
	value = strings.TrimSpace(value)
	for _, l := range layouts {
		candidate := value
		if l.normalize != nil {
			candidate = l.normalize(candidate)
		}
		t, err := time.Parse(l.layout, candidate)
		if err != nil {
			continue
		}
		return MinuteOfDay(t.Hour()*60 + t.Minute()), nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnrecognizedTime, value)
}

// ParseWorkingTime parses a working-hours boundary ("HH:mm", or "HH:mm:ss" as stored by Postgres TIME).
func ParseWorkingTime(value string) (MinuteOfDay, error) {
	return parseWith(value, twentyFourHour)
}

// ParseBookingTime parses a booking start time in either the 12-hour ("h:mm AM")
// or the legacy 24-hour ("HH:mm") form.
func ParseBookingTime(value string) (MinuteOfDay, error) {
	return parseWith(value, bookingLayouts)
}

// NormalizeStartTime rewrites any accepted start time into the canonical 12-hour form.
func NormalizeStartTime(value string) (string, error) {
	m, err := ParseBookingTime(value)
	if err != nil {
		return "", err
	}
	return m.Format12h(), nil
}

// ParseDate parses a yyyy-MM-dd calendar date. The result is midnight UTC;
// only its calendar fields are meaningful.
func ParseDate(value string) (time.Time, error) {
	return time.Parse(DateLayout, strings.TrimSpace(value))
}

// Format12h renders the time as "h:mm AM" / "h:mm PM".
func (m MinuteOfDay) Format12h() string {
	minutes := int(m) % minutesPerDay
	if minutes < 0 {
		minutes += minutesPerDay
	}
	hour, minute := minutes/60, minutes%60

	suffix := "AM"
	if hour >= 12 {
		suffix = "PM"
	}
	hour12 := hour % 12
	if hour12 == 0 {
		hour12 = 12
	}
	return fmt.Sprintf("%d:%02d %s", hour12, minute, suffix)
}

// String renders the time in 24-hour "HH:mm" form.
func (m MinuteOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", int(m)/60, int(m)%60)
}
