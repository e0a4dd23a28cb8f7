package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nekogravitycat/barbershop-booking-backend/internal/auth"
	"github.com/nekogravitycat/barbershop-booking-backend/internal/barber"
	"github.com/nekogravitycat/barbershop-booking-backend/internal/pkg/request"
	"github.com/nekogravitycat/barbershop-booking-backend/internal/pkg/response"
)

type Handler struct {
	service barber.Service
}

func NewHandler(service barber.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) List(c *gin.Context) {
	var req ListBarbersRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "invalid query parameters", err)
		return
	}

	barbers, total, err := h.service.List(c.Request.Context(), barber.Filter{
		ShopID:    req.ShopID,
		IsActive:  req.IsActive,
		Page:      req.Page,
		PageSize:  req.PageSize,
		SortOrder: req.NormalizedSortOrder("ASC"),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	items := response.MapItems(barbers, NewBarberResponse)
	c.JSON(http.StatusOK, response.NewPageResponse(items, req.Page, req.PageSize, total))
}

func (h *Handler) Get(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}

	b, err := h.service.GetByID(c.Request.Context(), uri.ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, NewBarberResponse(b))
}

// Create requires the caller to manage the target shop.
func (h *Handler) Create(c *gin.Context) {
	var body CreateBarberRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "invalid request body", err)
		return
	}

	ok, err := h.service.CanManageShop(c.Request.Context(), body.ShopID, auth.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	if !ok {
		response.Error(c, barber.ErrPermissionDenied)
		return
	}

	b, err := h.service.Create(c.Request.Context(), barber.CreateRequest{
		ShopID:      body.ShopID,
		UserID:      body.UserID,
		DisplayName: body.DisplayName,
		Bio:         body.Bio,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, NewBarberResponse(b))
}

func (h *Handler) Update(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}
	if !h.authorize(c, uri.ID) {
		return
	}

	var body UpdateBarberRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "invalid request body", err)
		return
	}

	b, err := h.service.Update(c.Request.Context(), uri.ID, barber.UpdateRequest{
		DisplayName: body.DisplayName,
		Bio:         body.Bio,
		UserID:      body.UserID,
		IsActive:    body.IsActive,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, NewBarberResponse(b))
}

func (h *Handler) Delete(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}
	if !h.authorize(c, uri.ID) {
		return
	}

	if err := h.service.Delete(c.Request.Context(), uri.ID); err != nil {
		response.Error(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) authorize(c *gin.Context, barberID string) bool {
	ok, err := h.service.CanManage(c.Request.Context(), barberID, auth.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return false
	}
	if !ok {
		response.Error(c, barber.ErrPermissionDenied)
		return false
	}
	return true
}
