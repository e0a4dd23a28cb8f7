package user

import (
	"net/http"
	"time"

	"github.com/nekogravitycat/barbershop-booking-backend/internal/pkg/apperror"
)

var (
	ErrNotFound           = apperror.New(http.StatusNotFound, "user not found")
	ErrEmailAlreadyUsed   = apperror.New(http.StatusConflict, "email already used")
	ErrInvalidCredentials = apperror.New(http.StatusUnauthorized, "invalid email or password")
	ErrEmailRequired      = apperror.New(http.StatusBadRequest, "email is required")
	ErrPasswordTooShort   = apperror.New(http.StatusBadRequest, "password must be at least 8 characters")
)

const minPasswordLength = 8

// User is an account that can book appointments, own a shop or be linked to a barber.
type User struct {
	ID            string
	Email         string
	PasswordHash  string
	DisplayName   *string
	CreatedAt     time.Time
	LastLoginAt   *time.Time
	IsActive      bool
	IsSystemAdmin bool
}

// UserFilter defines filter options for listing users.
type UserFilter struct {
	Email       string
	DisplayName string
	IsActive    *bool

	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}

// UpdateUserRequest carries the admin-editable fields. Nil fields are left unchanged.
type UpdateUserRequest struct {
	DisplayName   *string
	IsActive      *bool
	IsSystemAdmin *bool
}
