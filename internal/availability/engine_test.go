package availability

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(h, m int) MinuteOfDay {
	return MinuteOfDay(h*60 + m)
}

func TestComputeSlots(t *testing.T) {
	defaults := DefaultConfig()

	tests := []struct {
		name     string
		window   Window
		bookings []Occupancy
		duration int
		cfg      Config
		want     []string
	}{
		{
			name:     "one hour window, no bookings",
			window:   Window{Start: at(9, 0), End: at(10, 0)},
			duration: 30,
			cfg:      defaults,
			// 9:30 + 30 + 5 ends at 10:05, past closing.
			want: []string{"9:00 AM", "9:15 AM"},
		},
		{
			name:     "booking at opening blocks the short window",
			window:   Window{Start: at(9, 0), End: at(10, 0)},
			bookings: []Occupancy{{BookingID: "b1", StartTime: "9:00 AM", DurationMinutes: 30}},
			duration: 30,
			cfg:      defaults,
			want:     []string{},
		},
		{
			name:     "booking in the middle of the morning",
			window:   Window{Start: at(9, 0), End: at(12, 0)},
			bookings: []Occupancy{{BookingID: "b1", StartTime: "10:00 AM", DurationMinutes: 30}},
			duration: 30,
			cfg:      defaults,
			// 9:30 runs to 10:05 and overlaps the booking; 10:45 starts after 10:35.
			want: []string{"9:00 AM", "9:15 AM", "10:45 AM", "11:00 AM", "11:15 AM"},
		},
		{
			name:     "legacy 24h booking string",
			window:   Window{Start: at(13, 0), End: at(15, 0)},
			bookings: []Occupancy{{BookingID: "b1", StartTime: "13:00", DurationMinutes: 45}},
			duration: 20,
			cfg:      defaults,
			// booking occupies 13:00-13:50
			want: []string{"2:00 PM", "2:15 PM", "2:30 PM"},
		},
		{
			name:     "duration longer than the window",
			window:   Window{Start: at(9, 0), End: at(10, 0)},
			duration: 90,
			cfg:      defaults,
			want:     []string{},
		},
		{
			name:     "zero width window",
			window:   Window{Start: at(9, 0), End: at(9, 0)},
			duration: 15,
			cfg:      defaults,
			want:     []string{},
		},
		{
			name:     "inverted window",
			window:   Window{Start: at(18, 0), End: at(9, 0)},
			duration: 15,
			cfg:      defaults,
			want:     []string{},
		},
		{
			name:     "no buffer, exact fit at closing",
			window:   Window{Start: at(9, 0), End: at(10, 0)},
			duration: 30,
			cfg:      Config{BufferMinutes: 0, SlotStepMinutes: 30},
			want:     []string{"9:00 AM", "9:30 AM"},
		},
		{
			name:   "unsorted bookings",
			window: Window{Start: at(9, 0), End: at(11, 0)},
			bookings: []Occupancy{
				{BookingID: "late", StartTime: "10:30 AM", DurationMinutes: 15},
				{BookingID: "early", StartTime: "9:00 AM", DurationMinutes: 15},
			},
			duration: 15,
			cfg:      defaults,
			// early occupies 9:00-9:20, late 10:30-10:50
			want: []string{"9:30 AM", "9:45 AM", "10:00 AM"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			comp, err := ComputeSlots(tt.window, tt.bookings, tt.duration, tt.cfg)
			require.NoError(t, err)
			assert.Equal(t, tt.want, FormatSlots(comp.Slots))
			assert.Empty(t, comp.Fallbacks)
		})
	}
}

func TestComputeSlotsTouchingIntervalsConflict(t *testing.T) {
	window := Window{Start: at(9, 0), End: at(12, 0)}
	bookings := []Occupancy{{BookingID: "b1", StartTime: "10:00 AM", DurationMinutes: 30}}
	cfg := Config{BufferMinutes: 5, SlotStepMinutes: 5}

	comp, err := ComputeSlots(window, bookings, 30, cfg)
	require.NoError(t, err)

	// 9:25 + 35 ends exactly at the booking start; the booking plus buffer ends at 10:35.
	assert.NotContains(t, comp.Slots, at(9, 25))
	assert.Contains(t, comp.Slots, at(9, 20))
	assert.NotContains(t, comp.Slots, at(10, 35))
	assert.Contains(t, comp.Slots, at(10, 40))
}

func TestComputeSlotsFailOpenOnGarbage(t *testing.T) {
	window := Window{Start: at(9, 0), End: at(11, 0)}
	bookings := []Occupancy{{BookingID: "bad", StartTime: "garbage", DurationMinutes: 30}}

	comp, err := ComputeSlots(window, bookings, 30, DefaultConfig())
	require.NoError(t, err)

	// The unparseable booking is pinned to 9:00 and occupies 9:00-9:35.
	assert.Equal(t, []string{"9:45 AM", "10:00 AM", "10:15 AM"}, FormatSlots(comp.Slots))
	require.Len(t, comp.Fallbacks, 1)
	assert.Equal(t, Fallback{BookingID: "bad", RawStartTime: "garbage", AssumedStart: at(9, 0)}, comp.Fallbacks[0])
}

func TestComputeSlotsFailClosedOnGarbage(t *testing.T) {
	window := Window{Start: at(9, 0), End: at(11, 0)}
	bookings := []Occupancy{{BookingID: "bad", StartTime: "garbage", DurationMinutes: 30}}
	cfg := DefaultConfig()
	cfg.FailClosed = true

	comp, err := ComputeSlots(window, bookings, 30, cfg)
	assert.Nil(t, comp)
	assert.True(t, errors.Is(err, ErrBookingDataCorrupt))
}

func TestComputeSlotsRejectsInvalidArguments(t *testing.T) {
	window := Window{Start: at(9, 0), End: at(10, 0)}

	_, err := ComputeSlots(window, nil, 0, DefaultConfig())
	assert.True(t, errors.Is(err, ErrInvalidInput))

	_, err = ComputeSlots(window, nil, -15, DefaultConfig())
	assert.True(t, errors.Is(err, ErrInvalidInput))

	_, err = ComputeSlots(window, nil, 30, Config{BufferMinutes: 5, SlotStepMinutes: 0})
	assert.Error(t, err)

	_, err = ComputeSlots(window, nil, 30, Config{BufferMinutes: -1, SlotStepMinutes: 15})
	assert.Error(t, err)

	_, err = ComputeSlots(window, nil, 30, Config{BufferMinutes: math.MaxInt, SlotStepMinutes: 15})
	assert.Error(t, err)
}

func TestComputeSlotsRejectsDurationLongerThanADay(t *testing.T) {
	window := Window{Start: at(9, 0), End: at(10, 0)}

	for _, d := range []int{MaxDurationMinutes + 1, math.MaxInt - 2, math.MaxInt} {
		comp, err := ComputeSlots(window, nil, d, DefaultConfig())
		assert.True(t, errors.Is(err, ErrInvalidInput), d)
		assert.Nil(t, comp, d)
	}

	// a full-day service never fits a one hour window
	comp, err := ComputeSlots(window, nil, MaxDurationMinutes, DefaultConfig())
	require.NoError(t, err)
	assert.Empty(t, comp.Slots)
}

func TestConflicts(t *testing.T) {
	bookings := []Occupancy{
		{BookingID: "b1", StartTime: "9:00 AM", DurationMinutes: 30},
		{BookingID: "b2", StartTime: "garbage", DurationMinutes: 30},
	}

	// 9:00-9:35 is held, a 9:15 start overlaps it
	assert.True(t, Conflicts(at(9, 15), 30, 5, bookings))
	// 9:35 touches the end of the buffer
	assert.True(t, Conflicts(at(9, 35), 30, 5, bookings))
	assert.False(t, Conflicts(at(9, 45), 30, 5, bookings))
	// 8:25 plus 35 minutes ends on 9:00
	assert.True(t, Conflicts(at(8, 25), 30, 5, bookings))
	assert.False(t, Conflicts(at(8, 0), 30, 5, bookings))
	assert.False(t, Conflicts(at(9, 15), 30, 5, nil))
}

func TestComputeSlotsHugeBookingDurationBlocksRestOfDay(t *testing.T) {
	window := Window{Start: at(9, 0), End: at(12, 0)}
	bookings := []Occupancy{{BookingID: "b1", StartTime: "10:00 AM", DurationMinutes: math.MaxInt}}

	comp, err := ComputeSlots(window, bookings, 30, DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, []string{"9:00 AM", "9:15 AM"}, FormatSlots(comp.Slots))
}

// TestComputeSlotsProperties checks ordering, fit and no-overlap over generated days.
func TestComputeSlotsProperties(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	durations := []int{15, 20, 30, 45, 60, 90}

	for i := 0; i < 300; i++ {
		open := at(6+rng.Intn(5), 15*rng.Intn(4))
		window := Window{Start: open, End: open + MinuteOfDay(60*(1+rng.Intn(10)))}
		cfg := Config{
			BufferMinutes:   rng.Intn(16),
			SlotStepMinutes: []int{5, 10, 15, 30}[rng.Intn(4)],
		}
		duration := durations[rng.Intn(len(durations))]

		var bookings []Occupancy
		for n := rng.Intn(5); n > 0; n-- {
			start := window.Start + MinuteOfDay(5*rng.Intn(int(window.End-window.Start)/5))
			text := start.Format12h()
			if rng.Intn(2) == 0 {
				text = start.String()
			}
			bookings = append(bookings, Occupancy{StartTime: text, DurationMinutes: durations[rng.Intn(len(durations))]})
		}

		first, err := ComputeSlots(window, bookings, duration, cfg)
		require.NoError(t, err)

		for j, slot := range first.Slots {
			if j > 0 {
				require.Greater(t, slot, first.Slots[j-1], "slots must be strictly ascending")
			}

			end := slot + MinuteOfDay(duration+cfg.BufferMinutes)
			require.LessOrEqual(t, end, window.End, "slot must fit before closing")

			for _, b := range bookings {
				bStart, err := ParseBookingTime(b.StartTime)
				require.NoError(t, err)
				bEnd := bStart + MinuteOfDay(b.DurationMinutes+cfg.BufferMinutes)
				require.False(t, slot < bEnd && bStart < end, "slot %s overlaps booking %s", slot, b.StartTime)
			}
		}

		again, err := ComputeSlots(window, bookings, duration, cfg)
		require.NoError(t, err)
		require.Equal(t, first, again)
	}
}
