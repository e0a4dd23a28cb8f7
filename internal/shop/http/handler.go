package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nekogravitycat/barbershop-booking-backend/internal/auth"
	"github.com/nekogravitycat/barbershop-booking-backend/internal/pkg/request"
	"github.com/nekogravitycat/barbershop-booking-backend/internal/pkg/response"
	"github.com/nekogravitycat/barbershop-booking-backend/internal/shop"
)

type Handler struct {
	service shop.Service
}

func NewHandler(service shop.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) List(c *gin.Context) {
	var req ListShopsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "invalid query parameters", err)
		return
	}

	shops, total, err := h.service.List(c.Request.Context(), shop.Filter{
		Name:      req.Name,
		OwnerID:   req.OwnerID,
		IsActive:  req.IsActive,
		Page:      req.Page,
		PageSize:  req.PageSize,
		SortBy:    req.SortBy,
		SortOrder: req.NormalizedSortOrder("DESC"),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	items := response.MapItems(shops, NewShopResponse)
	c.JSON(http.StatusOK, response.NewPageResponse(items, req.Page, req.PageSize, total))
}

func (h *Handler) Get(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}

	s, err := h.service.GetByID(c.Request.Context(), uri.ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, NewShopResponse(s))
}

// Create is restricted to system admins by the route group.
func (h *Handler) Create(c *gin.Context) {
	var body CreateShopRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "invalid request body", err)
		return
	}

	s, err := h.service.Create(c.Request.Context(), shop.CreateRequest{
		Name:            body.Name,
		OwnerID:         body.OwnerID,
		BufferMinutes:   body.BufferMinutes,
		SlotStepMinutes: body.SlotStepMinutes,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, NewShopResponse(s))
}

// Update is allowed for the shop owner and system admins.
func (h *Handler) Update(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}

	if !h.authorize(c, uri.ID) {
		return
	}

	var body UpdateShopRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "invalid request body", err)
		return
	}

	s, err := h.service.Update(c.Request.Context(), uri.ID, shop.UpdateRequest{
		Name:            body.Name,
		OwnerID:         body.OwnerID,
		BufferMinutes:   body.BufferMinutes,
		SlotStepMinutes: body.SlotStepMinutes,
		ResetOverrides:  body.ResetOverrides,
		IsActive:        body.IsActive,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, NewShopResponse(s))
}

// Delete deactivates the shop. System admins only.
func (h *Handler) Delete(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}

	if err := h.service.Delete(c.Request.Context(), uri.ID); err != nil {
		response.Error(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) authorize(c *gin.Context, shopID string) bool {
	ok, err := h.service.CanManage(c.Request.Context(), shopID, auth.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return false
	}
	if !ok {
		response.Error(c, shop.ErrPermissionDenied)
		return false
	}
	return true
}
