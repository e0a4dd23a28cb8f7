package http

import (
	"time"

	"github.com/nekogravitycat/barbershop-booking-backend/internal/catalog"
	"github.com/nekogravitycat/barbershop-booking-backend/internal/pkg/request"
)

type OfferingResponse struct {
	ID              string    `json:"id"`
	ShopID          string    `json:"shop_id"`
	Name            string    `json:"name"`
	Description     string    `json:"description"`
	DurationMinutes int       `json:"duration_minutes"`
	PriceCents      int64     `json:"price_cents"`
	IsActive        bool      `json:"is_active"`
	CreatedAt       time.Time `json:"created_at"`
}

func NewOfferingResponse(o *catalog.Offering) OfferingResponse {
	return OfferingResponse{
		ID:              o.ID,
		ShopID:          o.ShopID,
		Name:            o.Name,
		Description:     o.Description,
		DurationMinutes: o.DurationMinutes,
		PriceCents:      o.PriceCents,
		IsActive:        o.IsActive,
		CreatedAt:       o.CreatedAt,
	}
}

type ListOfferingsRequest struct {
	request.ListParams
	ShopID   string `form:"shop_id" binding:"omitempty,uuid"`
	Name     string `form:"name"`
	IsActive *bool  `form:"is_active"`
	SortBy   string `form:"sort_by" binding:"omitempty,oneof=name duration_minutes price_cents created_at"`
}

type CreateOfferingRequest struct {
	ShopID          string `json:"shop_id" binding:"required,uuid"`
	Name            string `json:"name" binding:"required"`
	Description     string `json:"description"`
	DurationMinutes int    `json:"duration_minutes" binding:"required,min=1,max=480"`
	PriceCents      int64  `json:"price_cents" binding:"min=0"`
}

type UpdateOfferingRequest struct {
	Name            *string `json:"name"`
	Description     *string `json:"description"`
	DurationMinutes *int    `json:"duration_minutes" binding:"omitempty,min=1,max=480"`
	PriceCents      *int64  `json:"price_cents" binding:"omitempty,min=0"`
	IsActive        *bool   `json:"is_active"`
}
