package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nekogravitycat/barbershop-booking-backend/internal/auth"
	"github.com/nekogravitycat/barbershop-booking-backend/internal/catalog"
	"github.com/nekogravitycat/barbershop-booking-backend/internal/pkg/request"
	"github.com/nekogravitycat/barbershop-booking-backend/internal/pkg/response"
)

// ShopAuthorizer answers whether a user manages a shop.
type ShopAuthorizer interface {
	CanManage(ctx context.Context, shopID, userID string) (bool, error)
}

type Handler struct {
	service catalog.Service
	shops   ShopAuthorizer
}

func NewHandler(service catalog.Service, shops ShopAuthorizer) *Handler {
	return &Handler{service: service, shops: shops}
}

func (h *Handler) List(c *gin.Context) {
	var req ListOfferingsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "invalid query parameters", err)
		return
	}

	offerings, total, err := h.service.List(c.Request.Context(), catalog.Filter{
		ShopID:    req.ShopID,
		Name:      req.Name,
		IsActive:  req.IsActive,
		Page:      req.Page,
		PageSize:  req.PageSize,
		SortBy:    req.SortBy,
		SortOrder: req.NormalizedSortOrder("ASC"),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	items := response.MapItems(offerings, NewOfferingResponse)
	c.JSON(http.StatusOK, response.NewPageResponse(items, req.Page, req.PageSize, total))
}

func (h *Handler) Get(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}

	o, err := h.service.GetByID(c.Request.Context(), uri.ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, NewOfferingResponse(o))
}

func (h *Handler) Create(c *gin.Context) {
	var body CreateOfferingRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "invalid request body", err)
		return
	}
	if !h.authorize(c, body.ShopID) {
		return
	}

	o, err := h.service.Create(c.Request.Context(), catalog.CreateRequest{
		ShopID:          body.ShopID,
		Name:            body.Name,
		Description:     body.Description,
		DurationMinutes: body.DurationMinutes,
		PriceCents:      body.PriceCents,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusCreated, NewOfferingResponse(o))
}

func (h *Handler) Update(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}

	existing, err := h.service.GetByID(c.Request.Context(), uri.ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	if !h.authorize(c, existing.ShopID) {
		return
	}

	var body UpdateOfferingRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, "invalid request body", err)
		return
	}

	o, err := h.service.Update(c.Request.Context(), uri.ID, catalog.UpdateRequest{
		Name:            body.Name,
		Description:     body.Description,
		DurationMinutes: body.DurationMinutes,
		PriceCents:      body.PriceCents,
		IsActive:        body.IsActive,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	c.JSON(http.StatusOK, NewOfferingResponse(o))
}

func (h *Handler) Delete(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}

	existing, err := h.service.GetByID(c.Request.Context(), uri.ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	if !h.authorize(c, existing.ShopID) {
		return
	}

	if err := h.service.Delete(c.Request.Context(), uri.ID); err != nil {
		response.Error(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) authorize(c *gin.Context, shopID string) bool {
	ok, err := h.shops.CanManage(c.Request.Context(), shopID, auth.GetUserID(c))
	if err != nil {
		response.Error(c, err)
		return false
	}
	if !ok {
		response.Error(c, catalog.ErrPermissionDenied)
		return false
	}
	return true
}
