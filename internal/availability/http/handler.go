package http

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/nekogravitycat/barbershop-booking-backend/internal/availability"
	"github.com/nekogravitycat/barbershop-booking-backend/internal/pkg/response"
)

type Handler struct {
	service availability.Service
}

func NewHandler(service availability.Service) *Handler {
	return &Handler{service: service}
}

// Get handles GET /availability.
// Query: barber_id, date (yyyy-MM-dd), service_duration_minutes or service_id.
func (h *Handler) Get(c *gin.Context) {
	q := availability.Query{
		BarberID: c.Query("barber_id"),
		Date:     c.Query("date"),
	}

	if !validID(q.BarberID) {
		response.Error(c, availability.ErrInvalidID)
		return
	}

	if raw, ok := c.GetQuery("service_duration_minutes"); ok && strings.TrimSpace(raw) != "" {
		duration, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil || duration <= 0 || duration > availability.MaxDurationMinutes {
			response.Error(c, availability.ErrInvalidDuration)
			return
		}
		q.DurationMinutes = duration
	} else {
		q.OfferingID = c.Query("service_id")
		if !validID(q.OfferingID) {
			response.Error(c, availability.ErrInvalidID)
			return
		}
	}

	result, err := h.service.Available(c.Request.Context(), q)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewAvailabilityResponse(result))
}

// validID accepts an empty value; presence is checked by the service.
func validID(id string) bool {
	if id == "" {
		return true
	}
	_, err := uuid.Parse(id)
	return err == nil
}
