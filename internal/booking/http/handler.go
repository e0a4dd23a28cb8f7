package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nekogravitycat/barbershop-booking-backend/internal/auth"
	"github.com/nekogravitycat/barbershop-booking-backend/internal/availability"
	"github.com/nekogravitycat/barbershop-booking-backend/internal/booking"
	"github.com/nekogravitycat/barbershop-booking-backend/internal/pkg/request"
	"github.com/nekogravitycat/barbershop-booking-backend/internal/pkg/response"
)

type Handler struct {
	service booking.Service
}

func NewHandler(service booking.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Create(c *gin.Context) {
	var body CreateBookingRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "invalid request body", err)
		return
	}

	b, err := h.service.Create(c.Request.Context(), booking.CreateRequest{
		UserID:     auth.GetUserID(c),
		BarberID:   body.BarberID,
		OfferingID: body.ServiceID,
		Date:       body.Date,
		StartTime:  body.StartTime,
		Notes:      body.Notes,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, NewBookingResponse(b))
}

// List handles GET /bookings. Without barber_id it lists the caller's own bookings.
func (h *Handler) List(c *gin.Context) {
	var q ListBookingsRequest
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, "invalid query parameters", err)
		return
	}

	filter := booking.Filter{
		BarberID:  q.BarberID,
		Page:      q.Page,
		PageSize:  q.PageSize,
		SortOrder: q.NormalizedSortOrder("DESC"),
	}
	if q.Status != "" {
		status, err := booking.ParseStatus(q.Status)
		if err != nil {
			response.Error(c, err)
			return
		}
		filter.Status = status
	}
	var err error
	if filter.From, err = parseOptionalDate(q.From); err != nil {
		response.Error(c, err)
		return
	}
	if filter.To, err = parseOptionalDate(q.To); err != nil {
		response.Error(c, err)
		return
	}

	bookings, total, err := h.service.List(c.Request.Context(), filter, auth.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	items := response.MapItems(bookings, NewBookingResponse)
	c.JSON(http.StatusOK, response.NewPageResponse(items, q.Page, q.PageSize, total))
}

func (h *Handler) Get(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}

	b, err := h.service.GetByID(c.Request.Context(), uri.ID, auth.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, NewBookingResponse(b))
}

// UpdateStatus handles PATCH /bookings/:id/status.
func (h *Handler) UpdateStatus(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}
	var body UpdateStatusRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "invalid request body", err)
		return
	}
	status, err := booking.ParseStatus(body.Status)
	if err != nil {
		response.Error(c, err)
		return
	}

	b, err := h.service.UpdateStatus(c.Request.Context(), uri.ID, status, auth.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, NewBookingResponse(b))
}

func parseOptionalDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	t, err := availability.ParseDate(value)
	if err != nil {
		return time.Time{}, booking.ErrInvalidDate
	}
	return t, nil
}
