package catalog

import (
	"net/http"
	"time"

	"github.com/nekogravitycat/barbershop-booking-backend/internal/pkg/apperror"
)

var (
	ErrNotFound         = apperror.New(http.StatusNotFound, "service not found")
	ErrInactive         = apperror.New(http.StatusBadRequest, "service is not offered anymore")
	ErrWrongShop        = apperror.New(http.StatusBadRequest, "service is not offered by this barber's shop")
	ErrEmptyName        = apperror.New(http.StatusBadRequest, "name cannot be empty")
	ErrNameTaken        = apperror.New(http.StatusConflict, "a service with this name already exists in the shop")
	ErrInvalidDuration  = apperror.New(http.StatusBadRequest, "duration_minutes must be between 1 and 480")
	ErrInvalidPrice     = apperror.New(http.StatusBadRequest, "price_cents cannot be negative")
	ErrInvalidShop      = apperror.New(http.StatusBadRequest, "invalid shop_id")
	ErrPermissionDenied = apperror.New(http.StatusForbidden, "permission denied")
)

// MaxDurationMinutes caps a single appointment at eight hours.
const MaxDurationMinutes = 480

// Offering is a bookable service of a shop, e.g. "Skin fade".
type Offering struct {
	ID              string
	ShopID          string
	Name            string
	Description     string
	DurationMinutes int
	PriceCents      int64
	IsActive        bool
	CreatedAt       time.Time
}

type Filter struct {
	ShopID   string
	Name     string
	IsActive *bool

	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}

type CreateRequest struct {
	ShopID          string
	Name            string
	Description     string
	DurationMinutes int
	PriceCents      int64
}

type UpdateRequest struct {
	Name            *string
	Description     *string
	DurationMinutes *int
	PriceCents      *int64
	IsActive        *bool
}

func validateDuration(minutes int) error {
	if minutes < 1 || minutes > MaxDurationMinutes {
		return ErrInvalidDuration
	}
	return nil
}
