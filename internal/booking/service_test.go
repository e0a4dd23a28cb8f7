package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/nekogravitycat/barbershop-booking-backend/internal/availability"
	"github.com/nekogravitycat/barbershop-booking-backend/internal/barber"
	"github.com/nekogravitycat/barbershop-booking-backend/internal/catalog"
)

type mockRepo struct {
	mock.Mock
}

// Create runs verify against the active bookings given as the optional second return value.
func (m *mockRepo) Create(ctx context.Context, b *Booking, verify VerifyFunc) error {
	args := m.Called(ctx, b)
	if len(args) > 1 && verify != nil {
		if active, ok := args.Get(1).([]availability.Occupancy); ok {
			if err := verify(active); err != nil {
				return err
			}
		}
	}
	return args.Error(0)
}

func (m *mockRepo) GetByID(ctx context.Context, id string) (*Booking, error) {
	args := m.Called(ctx, id)
	if b := args.Get(0); b != nil {
		return b.(*Booking), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockRepo) List(ctx context.Context, filter Filter) ([]*Booking, int, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]*Booking), args.Int(1), args.Error(2)
}

func (m *mockRepo) UpdateStatus(ctx context.Context, b *Booking) error {
	return m.Called(ctx, b).Error(0)
}

func (m *mockRepo) ActiveBookings(ctx context.Context, barberID string, date time.Time) ([]availability.Occupancy, error) {
	args := m.Called(ctx, barberID, date)
	return args.Get(0).([]availability.Occupancy), args.Error(1)
}

type mockBarbers struct {
	mock.Mock
}

func (m *mockBarbers) GetByID(ctx context.Context, id string) (*barber.Barber, error) {
	args := m.Called(ctx, id)
	if b := args.Get(0); b != nil {
		return b.(*barber.Barber), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockBarbers) CanManage(ctx context.Context, barberID, userID string) (bool, error) {
	args := m.Called(ctx, barberID, userID)
	return args.Bool(0), args.Error(1)
}

type mockOfferings struct {
	mock.Mock
}

func (m *mockOfferings) GetByID(ctx context.Context, id string) (*catalog.Offering, error) {
	args := m.Called(ctx, id)
	if o := args.Get(0); o != nil {
		return o.(*catalog.Offering), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockAvailability struct {
	mock.Mock
}

func (m *mockAvailability) Available(ctx context.Context, q availability.Query) (*availability.Result, error) {
	args := m.Called(ctx, q)
	if r := args.Get(0); r != nil {
		return r.(*availability.Result), args.Error(1)
	}
	return nil, args.Error(1)
}

type fixture struct {
	repo      *mockRepo
	barbers   *mockBarbers
	offerings *mockOfferings
	avail     *mockAvailability
	svc       *service
}

// Monday 2026-03-02 10:00 UTC.
var fixedNow = time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

func newFixture() *fixture {
	f := &fixture{
		repo:      &mockRepo{},
		barbers:   &mockBarbers{},
		offerings: &mockOfferings{},
		avail:     &mockAvailability{},
	}
	svc := NewService(f.repo, f.barbers, f.offerings, f.avail).(*service)
	svc.now = func() time.Time { return fixedNow }
	f.svc = svc
	return f
}

func activeBarber() *barber.Barber {
	return &barber.Barber{ID: "b1", ShopID: "s1", DisplayName: "Sam", IsActive: true}
}

func activeOffering() *catalog.Offering {
	return &catalog.Offering{ID: "o1", ShopID: "s1", Name: "Fade", DurationMinutes: 30, IsActive: true}
}

func TestCreate(t *testing.T) {
	ctx := context.Background()
	req := CreateRequest{UserID: "u1", BarberID: "b1", OfferingID: "o1", Date: "2026-03-03", StartTime: "09:15"}

	t.Run("books an offered slot in 12-hour form", func(t *testing.T) {
		f := newFixture()
		f.barbers.On("GetByID", ctx, "b1").Return(activeBarber(), nil)
		f.offerings.On("GetByID", ctx, "o1").Return(activeOffering(), nil)
		f.avail.On("Available", ctx, availability.Query{BarberID: "b1", Date: "2026-03-03", DurationMinutes: 30}).
			Return(&availability.Result{AvailableTimes: []string{"9:00 AM", "9:15 AM"}}, nil)
		f.repo.On("Create", ctx, mock.MatchedBy(func(b *Booking) bool {
			return b.StartTime == "9:15 AM" && b.Status == StatusPending && b.UserID == "u1"
		})).Return(nil)

		b, err := f.svc.Create(ctx, req)
		require.NoError(t, err)
		assert.Equal(t, "Fade", b.OfferingName)
		assert.Equal(t, 30, b.DurationMinutes)
		assert.Equal(t, time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC), b.Date)
		f.repo.AssertExpectations(t)
	})

	t.Run("slot no longer offered", func(t *testing.T) {
		f := newFixture()
		f.barbers.On("GetByID", ctx, "b1").Return(activeBarber(), nil)
		f.offerings.On("GetByID", ctx, "o1").Return(activeOffering(), nil)
		f.avail.On("Available", ctx, mock.Anything).
			Return(&availability.Result{AvailableTimes: []string{"9:00 AM"}}, nil)

		_, err := f.svc.Create(ctx, req)
		assert.ErrorIs(t, err, ErrSlotUnavailable)
		f.repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("concurrent winner", func(t *testing.T) {
		f := newFixture()
		f.barbers.On("GetByID", ctx, "b1").Return(activeBarber(), nil)
		f.offerings.On("GetByID", ctx, "o1").Return(activeOffering(), nil)
		f.avail.On("Available", ctx, mock.Anything).
			Return(&availability.Result{AvailableTimes: []string{"9:15 AM"}}, nil)
		f.repo.On("Create", ctx, mock.Anything).Return(ErrTimeConflict)

		_, err := f.svc.Create(ctx, req)
		assert.ErrorIs(t, err, ErrTimeConflict)
	})

	t.Run("overlapping booking committed meanwhile", func(t *testing.T) {
		f := newFixture()
		f.barbers.On("GetByID", ctx, "b1").Return(activeBarber(), nil)
		f.offerings.On("GetByID", ctx, "o1").Return(activeOffering(), nil)
		f.avail.On("Available", ctx, mock.Anything).
			Return(&availability.Result{AvailableTimes: []string{"9:00 AM", "9:15 AM"}, BufferMinutes: 5}, nil)
		f.repo.On("Create", ctx, mock.Anything).
			Return(nil, []availability.Occupancy{{BookingID: "bk0", StartTime: "9:00 AM", DurationMinutes: 30}})

		b, err := f.svc.Create(ctx, req)
		assert.Nil(t, b)
		assert.ErrorIs(t, err, ErrTimeConflict)
	})

	t.Run("later booking committed meanwhile leaves room", func(t *testing.T) {
		f := newFixture()
		f.barbers.On("GetByID", ctx, "b1").Return(activeBarber(), nil)
		f.offerings.On("GetByID", ctx, "o1").Return(activeOffering(), nil)
		f.avail.On("Available", ctx, mock.Anything).
			Return(&availability.Result{AvailableTimes: []string{"9:15 AM"}, BufferMinutes: 5}, nil)
		f.repo.On("Create", ctx, mock.Anything).
			Return(nil, []availability.Occupancy{{BookingID: "bk0", StartTime: "10:00 AM", DurationMinutes: 30}})

		b, err := f.svc.Create(ctx, req)
		require.NoError(t, err)
		assert.Equal(t, "9:15 AM", b.StartTime)
	})

	t.Run("engine failure propagates", func(t *testing.T) {
		f := newFixture()
		f.barbers.On("GetByID", ctx, "b1").Return(activeBarber(), nil)
		f.offerings.On("GetByID", ctx, "o1").Return(activeOffering(), nil)
		f.avail.On("Available", ctx, mock.Anything).Return(nil, availability.ErrUpstreamUnavailable)

		_, err := f.svc.Create(ctx, req)
		assert.ErrorIs(t, err, availability.ErrUpstreamUnavailable)
	})

	t.Run("offering from another shop", func(t *testing.T) {
		f := newFixture()
		f.barbers.On("GetByID", ctx, "b1").Return(activeBarber(), nil)
		o := activeOffering()
		o.ShopID = "s2"
		f.offerings.On("GetByID", ctx, "o1").Return(o, nil)

		_, err := f.svc.Create(ctx, req)
		assert.ErrorIs(t, err, ErrOfferingMismatch)
	})

	t.Run("inactive barber", func(t *testing.T) {
		f := newFixture()
		b := activeBarber()
		b.IsActive = false
		f.barbers.On("GetByID", ctx, "b1").Return(b, nil)

		_, err := f.svc.Create(ctx, req)
		assert.ErrorIs(t, err, ErrBarberUnavailable)
	})

	t.Run("inactive offering", func(t *testing.T) {
		f := newFixture()
		f.barbers.On("GetByID", ctx, "b1").Return(activeBarber(), nil)
		o := activeOffering()
		o.IsActive = false
		f.offerings.On("GetByID", ctx, "o1").Return(o, nil)

		_, err := f.svc.Create(ctx, req)
		assert.ErrorIs(t, err, catalog.ErrInactive)
	})

	t.Run("unknown barber", func(t *testing.T) {
		f := newFixture()
		f.barbers.On("GetByID", ctx, "b1").Return(nil, barber.ErrNotFound)

		_, err := f.svc.Create(ctx, req)
		assert.ErrorIs(t, err, barber.ErrNotFound)
	})

	tests := []struct {
		name      string
		date      string
		startTime string
		wantErr   error
	}{
		{"malformed date", "03/03/2026", "9:00 AM", ErrInvalidDate},
		{"malformed time", "2026-03-03", "nine", ErrInvalidStartTime},
		{"yesterday", "2026-03-01", "9:00 AM", ErrDateInPast},
		{"earlier today", "2026-03-02", "9:45 AM", ErrDateInPast},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			_, err := f.svc.Create(ctx, CreateRequest{UserID: "u1", BarberID: "b1", OfferingID: "o1", Date: tt.date, StartTime: tt.startTime})
			assert.ErrorIs(t, err, tt.wantErr)
			f.barbers.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
		})
	}
}

func TestGetByID(t *testing.T) {
	ctx := context.Background()
	b := &Booking{ID: "bk1", BarberID: "b1", UserID: "u1", Status: StatusPending}

	t.Run("client sees own booking", func(t *testing.T) {
		f := newFixture()
		f.repo.On("GetByID", ctx, "bk1").Return(b, nil)

		got, err := f.svc.GetByID(ctx, "bk1", "u1")
		require.NoError(t, err)
		assert.Equal(t, "bk1", got.ID)
		f.barbers.AssertNotCalled(t, "CanManage", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("stranger denied", func(t *testing.T) {
		f := newFixture()
		f.repo.On("GetByID", ctx, "bk1").Return(b, nil)
		f.barbers.On("CanManage", ctx, "b1", "u2").Return(false, nil)

		_, err := f.svc.GetByID(ctx, "bk1", "u2")
		assert.ErrorIs(t, err, ErrPermissionDenied)
	})

	t.Run("manager allowed", func(t *testing.T) {
		f := newFixture()
		f.repo.On("GetByID", ctx, "bk1").Return(b, nil)
		f.barbers.On("CanManage", ctx, "b1", "owner").Return(true, nil)

		_, err := f.svc.GetByID(ctx, "bk1", "owner")
		assert.NoError(t, err)
	})
}

func TestList(t *testing.T) {
	ctx := context.Background()

	t.Run("defaults to own bookings", func(t *testing.T) {
		f := newFixture()
		f.repo.On("List", ctx, Filter{UserID: "u1", Page: 1, PageSize: 20}).Return([]*Booking{{ID: "bk1"}}, 1, nil)

		items, total, err := f.svc.List(ctx, Filter{UserID: "someone-else", Page: 1, PageSize: 20}, "u1")
		require.NoError(t, err)
		assert.Len(t, items, 1)
		assert.Equal(t, 1, total)
	})

	t.Run("barber calendar requires manager", func(t *testing.T) {
		f := newFixture()
		f.barbers.On("CanManage", ctx, "b1", "u1").Return(false, nil)

		_, _, err := f.svc.List(ctx, Filter{BarberID: "b1"}, "u1")
		assert.ErrorIs(t, err, ErrPermissionDenied)
	})

	t.Run("inverted period", func(t *testing.T) {
		f := newFixture()
		_, _, err := f.svc.List(ctx, Filter{From: fixedNow, To: fixedNow.AddDate(0, 0, -1)}, "u1")
		assert.ErrorIs(t, err, ErrInvalidPeriod)
	})
}

func TestUpdateStatus(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		current Status
		next    Status
		actor   string
		manager bool
		wantErr error
	}{
		{"client cancels pending", StatusPending, StatusCancelled, "u1", false, nil},
		{"client cancels confirmed", StatusConfirmed, StatusCancelled, "u1", false, nil},
		{"client cannot confirm", StatusPending, StatusConfirmed, "u1", false, ErrInvalidTransition},
		{"client cannot cancel twice", StatusCancelled, StatusCancelled, "u1", false, ErrInvalidTransition},
		{"manager confirms", StatusPending, StatusConfirmed, "owner", true, nil},
		{"manager completes", StatusConfirmed, StatusCompleted, "owner", true, nil},
		{"manager marks no show", StatusConfirmed, StatusNoShow, "owner", true, nil},
		{"manager cannot complete pending", StatusPending, StatusCompleted, "owner", true, ErrInvalidTransition},
		{"manager cannot reopen", StatusCancelled, StatusPending, "owner", true, ErrInvalidTransition},
		{"stranger", StatusPending, StatusCancelled, "u2", false, ErrPermissionDenied},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			f.repo.On("GetByID", ctx, "bk1").Return(&Booking{ID: "bk1", BarberID: "b1", UserID: "u1", Status: tt.current}, nil)
			f.barbers.On("CanManage", ctx, "b1", tt.actor).Return(tt.manager, nil)
			f.repo.On("UpdateStatus", ctx, mock.Anything).Return(nil)

			b, err := f.svc.UpdateStatus(ctx, "bk1", tt.next, tt.actor)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				f.repo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.next, b.Status)
		})
	}

	t.Run("lookup failure", func(t *testing.T) {
		f := newFixture()
		f.repo.On("GetByID", ctx, "bk1").Return(&Booking{ID: "bk1", BarberID: "b1", UserID: "u1", Status: StatusPending}, nil)
		f.barbers.On("CanManage", ctx, "b1", "u1").Return(false, errors.New("db down"))

		_, err := f.svc.UpdateStatus(ctx, "bk1", StatusCancelled, "u1")
		assert.Error(t, err)
	})
}

func TestParseStatus(t *testing.T) {
	s, err := ParseStatus("no_show")
	require.NoError(t, err)
	assert.Equal(t, StatusNoShow, s)

	_, err = ParseStatus("done")
	assert.ErrorIs(t, err, ErrInvalidStatus)
}
