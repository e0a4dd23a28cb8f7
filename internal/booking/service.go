package booking

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/nekogravitycat/barbershop-booking-backend/internal/availability"
	"github.com/nekogravitycat/barbershop-booking-backend/internal/barber"
	"github.com/nekogravitycat/barbershop-booking-backend/internal/catalog"
	"github.com/nekogravitycat/barbershop-booking-backend/internal/metrics"
)

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Booking, error)
	// GetByID returns the booking if viewerID is its client or manages its barber.
	GetByID(ctx context.Context, id, viewerID string) (*Booking, error)
	// List restricts the result to viewerID's own bookings unless a barber
	// the viewer manages is given in the filter.
	List(ctx context.Context, filter Filter, viewerID string) ([]*Booking, int, error)
	UpdateStatus(ctx context.Context, id string, status Status, actorID string) (*Booking, error)
}

// BarberReader resolves barbers and who manages their calendar.
type BarberReader interface {
	GetByID(ctx context.Context, id string) (*barber.Barber, error)
	CanManage(ctx context.Context, barberID, userID string) (bool, error)
}

type OfferingReader interface {
	GetByID(ctx context.Context, id string) (*catalog.Offering, error)
}

type service struct {
	repo         Repository
	barbers      BarberReader
	offerings    OfferingReader
	availability availability.Service

	now func() time.Time
}

func NewService(repo Repository, barbers BarberReader, offerings OfferingReader, avail availability.Service) Service {
	return &service{
		repo:         repo,
		barbers:      barbers,
		offerings:    offerings,
		availability: avail,
		now:          time.Now,
	}
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Booking, error) {
	// 1. Date and start time
	date, err := availability.ParseDate(req.Date)
	if err != nil {
		return nil, ErrInvalidDate
	}
	start, err := availability.ParseBookingTime(req.StartTime)
	if err != nil {
		return nil, ErrInvalidStartTime
	}

	now := s.now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if date.Before(today) {
		return nil, ErrDateInPast
	}
	if date.Equal(today) && int(start) < now.Hour()*60+now.Minute() {
		return nil, ErrDateInPast
	}

	// 2. Barber and offering must belong together
	b, err := s.barbers.GetByID(ctx, req.BarberID)
	if err != nil {
		return nil, err
	}
	if !b.IsActive {
		return nil, ErrBarberUnavailable
	}

	o, err := s.offerings.GetByID(ctx, req.OfferingID)
	if err != nil {
		return nil, err
	}
	if !o.IsActive {
		return nil, catalog.ErrInactive
	}
	if o.ShopID != b.ShopID {
		return nil, ErrOfferingMismatch
	}

	// 3. The slot must still be offered by the engine
	result, err := s.availability.Available(ctx, availability.Query{
		BarberID:        b.ID,
		Date:            date.Format(availability.DateLayout),
		DurationMinutes: o.DurationMinutes,
	})
	if err != nil {
		return nil, err
	}
	startTime := start.Format12h()
	if !result.Contains(startTime) {
		metrics.BookingAttempts.WithLabelValues("unavailable").Inc()
		return nil, ErrSlotUnavailable
	}

	// 4. Persist under the day lock, re-checking the bookings committed meanwhile
	booking := &Booking{
		BarberID:        b.ID,
		BarberName:      b.DisplayName,
		UserID:          req.UserID,
		OfferingID:      o.ID,
		OfferingName:    o.Name,
		DurationMinutes: o.DurationMinutes,
		Date:            date,
		StartTime:       startTime,
		Status:          StatusPending,
		Notes:           strings.TrimSpace(req.Notes),
	}
	verify := func(active []availability.Occupancy) error {
		if availability.Conflicts(start, o.DurationMinutes, result.BufferMinutes, active) {
			return ErrTimeConflict
		}
		return nil
	}
	if err := s.repo.Create(ctx, booking, verify); err != nil {
		if errors.Is(err, ErrTimeConflict) {
			metrics.BookingAttempts.WithLabelValues("conflict").Inc()
		}
		return nil, err
	}

	metrics.BookingAttempts.WithLabelValues("created").Inc()
	return booking, nil
}

func (s *service) GetByID(ctx context.Context, id, viewerID string) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.UserID == viewerID {
		return b, nil
	}

	ok, err := s.barbers.CanManage(ctx, b.BarberID, viewerID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrPermissionDenied
	}
	return b, nil
}

func (s *service) List(ctx context.Context, filter Filter, viewerID string) ([]*Booking, int, error) {
	if !filter.From.IsZero() && !filter.To.IsZero() && filter.From.After(filter.To) {
		return nil, 0, ErrInvalidPeriod
	}

	if filter.BarberID == "" {
		filter.UserID = viewerID
	} else {
		ok, err := s.barbers.CanManage(ctx, filter.BarberID, viewerID)
		if err != nil {
			return nil, 0, err
		}
		if !ok {
			return nil, 0, ErrPermissionDenied
		}
	}

	return s.repo.List(ctx, filter)
}

func (s *service) UpdateStatus(ctx context.Context, id string, status Status, actorID string) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// A barber booking their own chair acts as manager.
	manager, err := s.barbers.CanManage(ctx, b.BarberID, actorID)
	if err != nil {
		return nil, err
	}
	if !manager && b.UserID != actorID {
		return nil, ErrPermissionDenied
	}

	if !CanTransition(b.Status, status, manager) {
		return nil, ErrInvalidTransition
	}

	b.Status = status
	if err := s.repo.UpdateStatus(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}
