package schedule

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/nekogravitycat/barbershop-booking-backend/internal/availability"
)

type Service interface {
	GetWeek(ctx context.Context, barberID string) ([]*WeeklySchedule, error)
	SetDay(ctx context.Context, barberID string, day int, req SetDayRequest) (*WeeklySchedule, error)

	ListDaysOff(ctx context.Context, barberID, from, to string) ([]*DayOff, error)
	AddDayOff(ctx context.Context, barberID, date, reason string) (*DayOff, error)
	RemoveDayOff(ctx context.Context, barberID, date string) error

	availability.ScheduleLookup
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) GetWeek(ctx context.Context, barberID string) ([]*WeeklySchedule, error) {
	return s.repo.ListWeek(ctx, barberID)
}

// SetDay creates or replaces the entry for one weekday. Times of an
// unavailable day are optional and default to midnight.
func (s *service) SetDay(ctx context.Context, barberID string, day int, req SetDayRequest) (*WeeklySchedule, error) {
	if day < int(time.Sunday) || day > int(time.Saturday) {
		return nil, ErrInvalidWeekday
	}

	start, end, err := parseRange(req.StartTime, req.EndTime, req.Available)
	if err != nil {
		return nil, err
	}

	ws := &WeeklySchedule{
		BarberID:  barberID,
		DayOfWeek: time.Weekday(day),
		StartTime: start.String(),
		EndTime:   end.String(),
		Available: req.Available,
	}
	if err := s.repo.UpsertDay(ctx, ws); err != nil {
		return nil, err
	}
	return ws, nil
}

func parseRange(startRaw, endRaw string, available bool) (availability.MinuteOfDay, availability.MinuteOfDay, error) {
	if !available && strings.TrimSpace(startRaw) == "" && strings.TrimSpace(endRaw) == "" {
		return 0, 0, nil
	}

	start, err := availability.ParseWorkingTime(startRaw)
	if err != nil {
		return 0, 0, ErrInvalidTime
	}
	end, err := availability.ParseWorkingTime(endRaw)
	if err != nil {
		return 0, 0, ErrInvalidTime
	}
	if available && start >= end {
		return 0, 0, ErrInvalidRange
	}
	return start, end, nil
}

func (s *service) ListDaysOff(ctx context.Context, barberID, from, to string) ([]*DayOff, error) {
	var filter DayOffFilter
	var err error
	if from != "" {
		if filter.From, err = availability.ParseDate(from); err != nil {
			return nil, ErrInvalidDate
		}
	}
	if to != "" {
		if filter.To, err = availability.ParseDate(to); err != nil {
			return nil, ErrInvalidDate
		}
	}
	if !filter.From.IsZero() && !filter.To.IsZero() && filter.From.After(filter.To) {
		return nil, ErrInvalidPeriod
	}
	return s.repo.ListDaysOff(ctx, barberID, filter)
}

func (s *service) AddDayOff(ctx context.Context, barberID, date, reason string) (*DayOff, error) {
	day, err := availability.ParseDate(date)
	if err != nil {
		return nil, ErrInvalidDate
	}

	d := &DayOff{
		BarberID: barberID,
		Date:     day,
		Reason:   strings.TrimSpace(reason),
	}
	if err := s.repo.CreateDayOff(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *service) RemoveDayOff(ctx context.Context, barberID, date string) error {
	day, err := availability.ParseDate(date)
	if err != nil {
		return ErrInvalidDate
	}
	return s.repo.DeleteDayOff(ctx, barberID, day)
}

// WorkingHours returns nil when the weekday has no entry or is marked unavailable.
func (s *service) WorkingHours(ctx context.Context, barberID string, day time.Weekday) (*availability.WorkingHours, error) {
	ws, err := s.repo.GetDay(ctx, barberID, day)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if !ws.Available {
		return nil, nil
	}
	return &availability.WorkingHours{StartTime: ws.StartTime, EndTime: ws.EndTime}, nil
}

func (s *service) IsDayOff(ctx context.Context, barberID string, date time.Time) (bool, error) {
	return s.repo.HasDayOff(ctx, barberID, date)
}
