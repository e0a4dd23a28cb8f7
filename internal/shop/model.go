package shop

import (
	"net/http"
	"time"

	"github.com/nekogravitycat/barbershop-booking-backend/internal/pkg/apperror"
)

var (
	ErrNotFound         = apperror.New(http.StatusNotFound, "shop not found")
	ErrNameRequired     = apperror.New(http.StatusBadRequest, "shop name is required")
	ErrNameTaken        = apperror.New(http.StatusConflict, "shop name already used")
	ErrOwnerRequired    = apperror.New(http.StatusBadRequest, "owner_id is required")
	ErrInvalidBuffer    = apperror.New(http.StatusBadRequest, "buffer_minutes must be between 0 and 120")
	ErrInvalidSlotStep  = apperror.New(http.StatusBadRequest, "slot_step_minutes must be between 5 and 120")
	ErrPermissionDenied = apperror.New(http.StatusForbidden, "permission denied")
)

// Bounds of the per-shop scheduling overrides.
const (
	MaxBufferMinutes   = 120
	MinSlotStepMinutes = 5
	MaxSlotStepMinutes = 120
)

// Shop is a tenant. Nil overrides fall back to the service-wide defaults.
type Shop struct {
	ID              string
	Name            string
	OwnerID         string
	BufferMinutes   *int
	SlotStepMinutes *int
	IsActive        bool
	CreatedAt       time.Time
}

// Filter defines parameters for listing shops.
type Filter struct {
	Name     string
	OwnerID  string
	IsActive *bool

	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}

type CreateRequest struct {
	Name            string
	OwnerID         string
	BufferMinutes   *int
	SlotStepMinutes *int
}

// UpdateRequest leaves nil fields unchanged. ResetOverrides clears both
// scheduling overrides before the provided ones are applied.
type UpdateRequest struct {
	Name            *string
	OwnerID         *string
	BufferMinutes   *int
	SlotStepMinutes *int
	ResetOverrides  bool
	IsActive        *bool
}

func validateOverrides(buffer, step *int) error {
	if buffer != nil && (*buffer < 0 || *buffer > MaxBufferMinutes) {
		return ErrInvalidBuffer
	}
	if step != nil && (*step < MinSlotStepMinutes || *step > MaxSlotStepMinutes) {
		return ErrInvalidSlotStep
	}
	return nil
}
