package barber

import (
	"net/http"
	"time"

	"github.com/nekogravitycat/barbershop-booking-backend/internal/pkg/apperror"
)

var (
	ErrNotFound          = apperror.New(http.StatusNotFound, "barber not found")
	ErrEmptyName         = apperror.New(http.StatusBadRequest, "display_name cannot be empty")
	ErrInvalidShop       = apperror.New(http.StatusBadRequest, "invalid shop_id")
	ErrInvalidUser       = apperror.New(http.StatusBadRequest, "invalid user_id")
	ErrUserAlreadyLinked = apperror.New(http.StatusConflict, "user is already linked to a barber in this shop")
	ErrPermissionDenied  = apperror.New(http.StatusForbidden, "permission denied")
)

// Barber is a provider whose calendar can be booked.
type Barber struct {
	ID          string
	ShopID      string
	UserID      *string // linked login account, if any
	DisplayName string
	Bio         string
	IsActive    bool
	CreatedAt   time.Time
}

// Filter defines parameters for listing barbers.
type Filter struct {
	ShopID   string
	IsActive *bool

	Page      int
	PageSize  int
	SortOrder string
}

type CreateRequest struct {
	ShopID      string
	UserID      *string
	DisplayName string
	Bio         string
}

type UpdateRequest struct {
	DisplayName *string
	Bio         *string
	UserID      *string
	IsActive    *bool
}
