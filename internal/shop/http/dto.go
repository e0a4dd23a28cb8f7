package http

import (
	"time"

	"github.com/nekogravitycat/barbershop-booking-backend/internal/pkg/request"
	"github.com/nekogravitycat/barbershop-booking-backend/internal/shop"
)

type ShopResponse struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	OwnerID         string    `json:"owner_id"`
	BufferMinutes   *int      `json:"buffer_minutes"`
	SlotStepMinutes *int      `json:"slot_step_minutes"`
	IsActive        bool      `json:"is_active"`
	CreatedAt       time.Time `json:"created_at"`
}

func NewShopResponse(s *shop.Shop) ShopResponse {
	return ShopResponse{
		ID:              s.ID,
		Name:            s.Name,
		OwnerID:         s.OwnerID,
		BufferMinutes:   s.BufferMinutes,
		SlotStepMinutes: s.SlotStepMinutes,
		IsActive:        s.IsActive,
		CreatedAt:       s.CreatedAt,
	}
}

type ListShopsRequest struct {
	request.ListParams
	Name     string `form:"name"`
	OwnerID  string `form:"owner_id" binding:"omitempty,uuid"`
	IsActive *bool  `form:"is_active"`
	SortBy   string `form:"sort_by" binding:"omitempty,oneof=name created_at"`
}

type CreateShopRequest struct {
	Name            string `json:"name" binding:"required"`
	OwnerID         string `json:"owner_id" binding:"required,uuid"`
	BufferMinutes   *int   `json:"buffer_minutes"`
	SlotStepMinutes *int   `json:"slot_step_minutes"`
}

type UpdateShopRequest struct {
	Name            *string `json:"name"`
	OwnerID         *string `json:"owner_id" binding:"omitempty,uuid"`
	BufferMinutes   *int    `json:"buffer_minutes"`
	SlotStepMinutes *int    `json:"slot_step_minutes"`
	ResetOverrides  bool    `json:"reset_overrides"`
	IsActive        *bool   `json:"is_active"`
}
