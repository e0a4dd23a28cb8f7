package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nekogravitycat/barbershop-booking-backend/internal/auth"
	"github.com/nekogravitycat/barbershop-booking-backend/internal/barber"
	"github.com/nekogravitycat/barbershop-booking-backend/internal/pkg/request"
	"github.com/nekogravitycat/barbershop-booking-backend/internal/pkg/response"
	"github.com/nekogravitycat/barbershop-booking-backend/internal/schedule"
)

// BarberAuthorizer resolves barbers and who may edit their calendar.
type BarberAuthorizer interface {
	GetByID(ctx context.Context, id string) (*barber.Barber, error)
	CanManage(ctx context.Context, barberID, userID string) (bool, error)
}

type Handler struct {
	service schedule.Service
	barbers BarberAuthorizer
}

func NewHandler(service schedule.Service, barbers BarberAuthorizer) *Handler {
	return &Handler{service: service, barbers: barbers}
}

// GetWeek handles GET /barbers/:id/schedule.
func (h *Handler) GetWeek(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}
	if _, err := h.barbers.GetByID(c.Request.Context(), uri.ID); err != nil {
		response.Error(c, err)
		return
	}

	week, err := h.service.GetWeek(c.Request.Context(), uri.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, WeekResponse{
		BarberID: uri.ID,
		Days:     response.MapItems(week, NewWeeklyScheduleResponse),
	})
}

// SetDay handles PUT /barbers/:id/schedule/:weekday.
func (h *Handler) SetDay(c *gin.Context) {
	var uri WeekdayURI
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, schedule.ErrInvalidWeekday.Message, err)
		return
	}
	if !h.authorize(c, uri.ID) {
		return
	}

	var body SetDayRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "invalid request body", err)
		return
	}

	ws, err := h.service.SetDay(c.Request.Context(), uri.ID, uri.Weekday, schedule.SetDayRequest{
		StartTime: body.StartTime,
		EndTime:   body.EndTime,
		Available: *body.Available,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, NewWeeklyScheduleResponse(ws))
}

// ListDaysOff handles GET /barbers/:id/days-off?from=&to=.
func (h *Handler) ListDaysOff(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}
	var q ListDaysOffRequest
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, "invalid query parameters", err)
		return
	}
	if _, err := h.barbers.GetByID(c.Request.Context(), uri.ID); err != nil {
		response.Error(c, err)
		return
	}

	days, err := h.service.ListDaysOff(c.Request.Context(), uri.ID, q.From, q.To)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": response.MapItems(days, NewDayOffResponse)})
}

func (h *Handler) AddDayOff(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}
	if !h.authorize(c, uri.ID) {
		return
	}

	var body CreateDayOffRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "invalid request body", err)
		return
	}

	d, err := h.service.AddDayOff(c.Request.Context(), uri.ID, body.Date, body.Reason)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, NewDayOffResponse(d))
}

func (h *Handler) RemoveDayOff(c *gin.Context) {
	var uri DateURI
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}
	if !h.authorize(c, uri.ID) {
		return
	}

	if err := h.service.RemoveDayOff(c.Request.Context(), uri.ID, uri.Date); err != nil {
		response.Error(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) authorize(c *gin.Context, barberID string) bool {
	ok, err := h.barbers.CanManage(c.Request.Context(), barberID, auth.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return false
	}
	if !ok {
		response.Error(c, schedule.ErrPermissionDenied)
		return false
	}
	return true
}
