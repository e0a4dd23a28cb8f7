package availability

import (
	"fmt"
)

// Config holds the scheduling parameters applied to one computation.
type Config struct {
	// BufferMinutes is the idle time enforced after every appointment.
	BufferMinutes int
	// SlotStepMinutes is the distance between consecutive candidate start times.
	SlotStepMinutes int
	// FailClosed rejects the whole day when a booking start time cannot be parsed,
	// instead of pinning that booking to the start of working hours.
	FailClosed bool
}

// DefaultConfig returns the stock parameters: 5 minute buffer, 15 minute slots, fail-open.
func DefaultConfig() Config {
	return Config{
		BufferMinutes:   5,
		SlotStepMinutes: 15,
	}
}

// Validate checks that the parameters can drive slot generation.
func (c Config) Validate() error {
	if c.BufferMinutes < 0 || c.BufferMinutes > MaxDurationMinutes {
		return fmt.Errorf("buffer minutes must be between 0 and %d, got %d", MaxDurationMinutes, c.BufferMinutes)
	}
	if c.SlotStepMinutes <= 0 || c.SlotStepMinutes > MaxDurationMinutes {
		return fmt.Errorf("slot step minutes must be between 1 and %d, got %d", MaxDurationMinutes, c.SlotStepMinutes)
	}
	return nil
}

// Window is the working-hours range of a day, [Start, End).
type Window struct {
	Start MinuteOfDay
	End   MinuteOfDay
}

// Occupancy is an existing active booking as seen by the engine.
type Occupancy struct {
	BookingID       string
	StartTime       string
	DurationMinutes int
}

// Fallback records a booking whose start time matched no known layout.
type Fallback struct {
	BookingID    string
	RawStartTime string
	AssumedStart MinuteOfDay
}

// Computation is the outcome of ComputeSlots.
type Computation struct {
	Slots     []MinuteOfDay
	Fallbacks []Fallback
}

// interval is an occupied time range. Both edges take part in conflict checks.
type interval struct {
	start MinuteOfDay
	end   MinuteOfDay
}

// conflicts reports overlap with inclusive edges; touching intervals conflict.
func (a interval) conflicts(b interval) bool {
	return a.start <= b.end && b.start <= a.end
}

func occupied(start MinuteOfDay, durationMinutes, bufferMinutes int) interval {
	return interval{
		start: start,
		end:   start + MinuteOfDay(durationMinutes+bufferMinutes),
	}
}

// ComputeSlots returns every candidate start time in window at which a service of
// durationMinutes, plus the buffer, fits before the window closes without
// conflicting with any booking. Slots come back in ascending order.
func ComputeSlots(window Window, bookings []Occupancy, durationMinutes int, cfg Config) (*Computation, error) {
	if durationMinutes <= 0 || durationMinutes > MaxDurationMinutes {
		return nil, ErrInvalidDuration
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	comp := &Computation{Slots: []MinuteOfDay{}}

	busy := make([]interval, 0, len(bookings))
	for _, b := range bookings {
		start, err := ParseBookingTime(b.StartTime)
		if err != nil {
			if cfg.FailClosed {
				return nil, fmt.Errorf("booking %s: %w", b.BookingID, ErrBookingDataCorrupt)
			}
			start = window.Start
			comp.Fallbacks = append(comp.Fallbacks, Fallback{
				BookingID:    b.BookingID,
				RawStartTime: b.StartTime,
				AssumedStart: start,
			})
		}
		duration := min(max(b.DurationMinutes, 0), MaxDurationMinutes)
		busy = append(busy, occupied(start, duration, cfg.BufferMinutes))
	}

	step := MinuteOfDay(cfg.SlotStepMinutes)
	for slot := window.Start; slot < window.End; slot += step {
		candidate := occupied(slot, durationMinutes, cfg.BufferMinutes)
		if candidate.end > window.End {
			continue
		}
		if conflictsAny(candidate, busy) {
			continue
		}
		comp.Slots = append(comp.Slots, slot)
	}

	return comp, nil
}

func conflictsAny(candidate interval, busy []interval) bool {
	for _, b := range busy {
		if candidate.conflicts(b) {
			return true
		}
	}
	return false
}

// Conflicts reports whether an appointment of durationMinutes starting at start,
// plus the buffer, overlaps any of bookings. Bookings whose start time cannot be
// parsed are skipped; ComputeSlots already accounted for them.
func Conflicts(start MinuteOfDay, durationMinutes, bufferMinutes int, bookings []Occupancy) bool {
	buffer := min(max(bufferMinutes, 0), MaxDurationMinutes)
	candidate := occupied(start, min(max(durationMinutes, 0), MaxDurationMinutes), buffer)

	busy := make([]interval, 0, len(bookings))
	for _, b := range bookings {
		bs, err := ParseBookingTime(b.StartTime)
		if err != nil {
			continue
		}
		busy = append(busy, occupied(bs, min(max(b.DurationMinutes, 0), MaxDurationMinutes), buffer))
	}
	return conflictsAny(candidate, busy)
}

// FormatSlots renders slots in the 12-hour form returned to clients.
func FormatSlots(slots []MinuteOfDay) []string {
	out := make([]string, len(slots))
	for i, s := range slots {
		out[i] = s.Format12h()
	}
	return out
}
