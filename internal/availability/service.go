package availability

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/nekogravitycat/barbershop-booking-backend/internal/metrics"
	"github.com/nekogravitycat/barbershop-booking-backend/internal/pkg/apperror"
)

// Service computes bookable start times for a barber on a date.
type Service interface {
	Available(ctx context.Context, q Query) (*Result, error)
}

// Options configures the availability service.
type Options struct {
	Defaults Config
	// Timeout bounds the upstream reads of one computation. Zero disables it.
	Timeout time.Duration
	Logger  *zap.Logger
}

type service struct {
	schedules ScheduleLookup
	bookings  BookingLookup
	settings  SettingsLookup
	offerings OfferingLookup

	defaults Config
	timeout  time.Duration
	logger   *zap.Logger
}

// NewService wires the engine to its collaborators. settings and offerings may be nil.
func NewService(schedules ScheduleLookup, bookings BookingLookup, settings SettingsLookup, offerings OfferingLookup, opts Options) Service {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &service{
		schedules: schedules,
		bookings:  bookings,
		settings:  settings,
		offerings: offerings,
		defaults:  opts.Defaults,
		timeout:   opts.Timeout,
		logger:    logger,
	}
}

func (s *service) Available(ctx context.Context, q Query) (*Result, error) {
	// 1. Validate input before touching any store
	barberID := strings.TrimSpace(q.BarberID)
	if barberID == "" {
		return nil, ErrBarberRequired
	}
	date, err := ParseDate(q.Date)
	if err != nil {
		return nil, ErrInvalidDate
	}
	if q.DurationMinutes < 0 || q.DurationMinutes > MaxDurationMinutes {
		return nil, ErrInvalidDuration
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	// 2. Resolve per-tenant parameters
	cfg, shopID, err := s.resolveConfig(ctx, barberID)
	if err != nil {
		return nil, err
	}

	duration := q.DurationMinutes
	if duration == 0 && q.OfferingID != "" && s.offerings != nil {
		duration, err = s.offerings.OfferingDuration(ctx, q.OfferingID, shopID)
		if err != nil {
			return nil, s.upstream("offering duration", barberID, err)
		}
	}
	if duration <= 0 || duration > MaxDurationMinutes {
		return nil, ErrInvalidDuration
	}

	result := &Result{
		BarberID:        barberID,
		Date:            date,
		AvailableTimes:  []string{},
		ServiceDuration: duration,
		BufferMinutes:   cfg.BufferMinutes,
		SlotStepMinutes: cfg.SlotStepMinutes,
	}

	// 3. Weekly schedule for the weekday
	hours, err := s.schedules.WorkingHours(ctx, barberID, date.Weekday())
	if err != nil {
		return nil, s.upstream("working hours", barberID, err)
	}
	if hours == nil {
		result.Reason = ReasonNonWorkingDay
		result.Message = MessageNonWorkingDay
		metrics.AvailabilityRequests.WithLabelValues(string(ReasonNonWorkingDay)).Inc()
		return result, nil
	}

	// 4. Day-off override
	dayOff, err := s.schedules.IsDayOff(ctx, barberID, date)
	if err != nil {
		return nil, s.upstream("day off", barberID, err)
	}
	if dayOff {
		result.Reason = ReasonDayOff
		result.Message = MessageDayOff
		metrics.AvailabilityRequests.WithLabelValues(string(ReasonDayOff)).Inc()
		return result, nil
	}

	window, err := hours.Window()
	if err != nil {
		return nil, apperror.Wrap(err, ErrScheduleDataCorrupt.Code, ErrScheduleDataCorrupt.Message)
	}

	// 5. Bookings that still hold capacity
	bookings, err := s.bookings.ActiveBookings(ctx, barberID, date)
	if err != nil {
		return nil, s.upstream("active bookings", barberID, err)
	}

	// 6. Generate and filter
	comp, err := ComputeSlots(window, bookings, duration, cfg)
	if err != nil {
		if errors.Is(err, ErrBookingDataCorrupt) {
			s.logger.Error("availability rejected: unparseable booking start time",
				zap.String("barber_id", barberID),
				zap.String("date", q.Date),
				zap.Error(err),
			)
			metrics.AvailabilityRequests.WithLabelValues("corrupt").Inc()
		}
		return nil, err
	}

	for _, fb := range comp.Fallbacks {
		s.logger.Warn("booking start time unparseable, assuming working-hours start",
			zap.String("barber_id", barberID),
			zap.String("booking_id", fb.BookingID),
			zap.String("raw_start_time", fb.RawStartTime),
			zap.String("assumed_start", fb.AssumedStart.String()),
		)
		metrics.BookingTimeFallbacks.Inc()
	}

	result.AvailableTimes = FormatSlots(comp.Slots)
	result.Reason = ReasonOpen
	metrics.AvailabilityRequests.WithLabelValues(string(ReasonOpen)).Inc()
	return result, nil
}

// resolveConfig applies the barber's shop overrides to the defaults and reports that shop.
func (s *service) resolveConfig(ctx context.Context, barberID string) (Config, string, error) {
	cfg := s.defaults
	if s.settings == nil {
		return cfg, "", nil
	}

	settings, err := s.settings.SchedulingSettings(ctx, barberID)
	if err != nil {
		return Config{}, "", s.upstream("scheduling settings", barberID, err)
	}
	if settings == nil {
		return cfg, "", nil
	}
	if settings.BufferMinutes != nil {
		cfg.BufferMinutes = *settings.BufferMinutes
	}
	if settings.SlotStepMinutes != nil {
		cfg.SlotStepMinutes = *settings.SlotStepMinutes
	}
	return cfg, settings.ShopID, nil
}

// upstream converts a collaborator failure into a retryable error.
// Client errors raised by the collaborator (e.g. unknown barber) pass through unchanged.
func (s *service) upstream(what, barberID string, err error) error {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) && appErr.Code < http.StatusInternalServerError {
		return err
	}

	s.logger.Error("availability upstream read failed",
		zap.String("lookup", what),
		zap.String("barber_id", barberID),
		zap.Error(err),
	)
	metrics.AvailabilityRequests.WithLabelValues("upstream_error").Inc()
	return apperror.Wrap(err, ErrUpstreamUnavailable.Code, ErrUpstreamUnavailable.Message)
}
