package http

import (
	"time"

	"github.com/nekogravitycat/barbershop-booking-backend/internal/barber"
	"github.com/nekogravitycat/barbershop-booking-backend/internal/pkg/request"
)

type BarberResponse struct {
	ID          string    `json:"id"`
	ShopID      string    `json:"shop_id"`
	UserID      *string   `json:"user_id"`
	DisplayName string    `json:"display_name"`
	Bio         string    `json:"bio"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

func NewBarberResponse(b *barber.Barber) BarberResponse {
	return BarberResponse{
		ID:          b.ID,
		ShopID:      b.ShopID,
		UserID:      b.UserID,
		DisplayName: b.DisplayName,
		Bio:         b.Bio,
		IsActive:    b.IsActive,
		CreatedAt:   b.CreatedAt,
	}
}

type ListBarbersRequest struct {
	request.ListParams
	ShopID   string `form:"shop_id" binding:"omitempty,uuid"`
	IsActive *bool  `form:"is_active"`
}

type CreateBarberRequest struct {
	ShopID      string  `json:"shop_id" binding:"required,uuid"`
	UserID      *string `json:"user_id" binding:"omitempty,uuid"`
	DisplayName string  `json:"display_name" binding:"required"`
	Bio         string  `json:"bio"`
}

// UpdateBarberRequest: an empty user_id unlinks the account.
type UpdateBarberRequest struct {
	DisplayName *string `json:"display_name"`
	Bio         *string `json:"bio"`
	UserID      *string `json:"user_id" binding:"omitempty,uuid|len=0"`
	IsActive    *bool   `json:"is_active"`
}
