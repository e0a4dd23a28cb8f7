package http

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/nekogravitycat/barbershop-booking-backend/internal/auth"
	"github.com/nekogravitycat/barbershop-booking-backend/internal/availability"
	"github.com/nekogravitycat/barbershop-booking-backend/internal/barber"
	"github.com/nekogravitycat/barbershop-booking-backend/internal/schedule"
)

type mockService struct {
	mock.Mock
}

func (m *mockService) GetWeek(ctx context.Context, barberID string) ([]*schedule.WeeklySchedule, error) {
	args := m.Called(ctx, barberID)
	return args.Get(0).([]*schedule.WeeklySchedule), args.Error(1)
}

func (m *mockService) SetDay(ctx context.Context, barberID string, day int, req schedule.SetDayRequest) (*schedule.WeeklySchedule, error) {
	args := m.Called(ctx, barberID, day, req)
	if ws := args.Get(0); ws != nil {
		return ws.(*schedule.WeeklySchedule), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockService) ListDaysOff(ctx context.Context, barberID, from, to string) ([]*schedule.DayOff, error) {
	args := m.Called(ctx, barberID, from, to)
	return args.Get(0).([]*schedule.DayOff), args.Error(1)
}

func (m *mockService) AddDayOff(ctx context.Context, barberID, date, reason string) (*schedule.DayOff, error) {
	args := m.Called(ctx, barberID, date, reason)
	if d := args.Get(0); d != nil {
		return d.(*schedule.DayOff), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockService) RemoveDayOff(ctx context.Context, barberID, date string) error {
	return m.Called(ctx, barberID, date).Error(0)
}

func (m *mockService) WorkingHours(ctx context.Context, barberID string, day time.Weekday) (*availability.WorkingHours, error) {
	args := m.Called(ctx, barberID, day)
	if wh := args.Get(0); wh != nil {
		return wh.(*availability.WorkingHours), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockService) IsDayOff(ctx context.Context, barberID string, date time.Time) (bool, error) {
	args := m.Called(ctx, barberID, date)
	return args.Bool(0), args.Error(1)
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

const barberID = "0b7e4f3a-1c2d-4e5f-8a9b-7c6d5e4f3a2b"

func newRouter(svc schedule.Service, barbers BarberAuthorizer, userID string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	RegisterRoutes(r.Group("/v1"), NewHandler(svc, barbers), func(c *gin.Context) { auth.SetIdentity(c, userID, "") })
	return r
}

func TestSetDayHandler(t *testing.T) {
	svc, barbers := &mockService{}, &mockBarbers{}
	barbers.On("CanManage", mock.Anything, barberID, "self").Return(true, nil)
	svc.On("SetDay", mock.Anything, barberID, 1, schedule.SetDayRequest{StartTime: "09:00", EndTime: "17:00", Available: true}).
		Return(&schedule.WeeklySchedule{BarberID: barberID, DayOfWeek: time.Monday, StartTime: "09:00", EndTime: "17:00", Available: true}, nil)

	req := httptest.NewRequest(http.MethodPut, "/v1/barbers/"+barberID+"/schedule/1",
		bytes.NewBufferString(`{"start_time":"09:00","end_time":"17:00","available":true}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	newRouter(svc, barbers, "self").ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"day_name":"Monday"`)
}

func TestSetDayRejectsBadWeekday(t *testing.T) {
	svc, barbers := &mockService{}, &mockBarbers{}

	req := httptest.NewRequest(http.MethodPut, "/v1/barbers/"+barberID+"/schedule/9",
		bytes.NewBufferString(`{"available":false}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	newRouter(svc, barbers, "self").ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	barbers.AssertNotCalled(t, "CanManage", mock.Anything, mock.Anything, mock.Anything)
}

func TestAddDayOffForbidden(t *testing.T) {
	svc, barbers := &mockService{}, &mockBarbers{}
	barbers.On("CanManage", mock.Anything, barberID, "client").Return(false, nil)

	req := httptest.NewRequest(http.MethodPost, "/v1/barbers/"+barberID+"/days-off",
		bytes.NewBufferString(`{"date":"2026-02-09"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	newRouter(svc, barbers, "client").ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	svc.AssertNotCalled(t, "AddDayOff", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestGetWeekUnknownBarber(t *testing.T) {
	svc, barbers := &mockService{}, &mockBarbers{}
	barbers.On("GetByID", mock.Anything, barberID).Return(nil, barber.ErrNotFound)

	w := httptest.NewRecorder()
	newRouter(svc, barbers, "").ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/barbers/"+barberID+"/schedule", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListDaysOff(t *testing.T) {
	svc, barbers := &mockService{}, &mockBarbers{}
	barbers.On("GetByID", mock.Anything, barberID).Return(&barber.Barber{ID: barberID}, nil)
	svc.On("ListDaysOff", mock.Anything, barberID, "2026-02-01", "").
		Return([]*schedule.DayOff{{ID: "d1", Date: time.Date(2026, 2, 9, 0, 0, 0, 0, time.UTC), Reason: "vacation"}}, nil)

	w := httptest.NewRecorder()
	newRouter(svc, barbers, "").ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/barbers/"+barberID+"/days-off?from=2026-02-01", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"date":"2026-02-09"`)
}
