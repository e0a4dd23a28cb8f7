package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/nekogravitycat/barbershop-booking-backend/internal/pkg/apperror"
	"github.com/nekogravitycat/barbershop-booking-backend/internal/pkg/response"
)

var (
	ErrMissingHeader = apperror.New(http.StatusUnauthorized, "missing Authorization header")
	ErrBadHeader     = apperror.New(http.StatusUnauthorized, "invalid Authorization header format")
)

// AuthRequired validates the bearer token and stores the caller identity.
func AuthRequired(jwtManager *JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.Error(c, ErrMissingHeader)
			c.Abort()
			return
		}

		scheme, tokenStr, ok := strings.Cut(header, " ")
		if !ok || !strings.EqualFold(scheme, "bearer") || strings.TrimSpace(tokenStr) == "" {
			response.Error(c, ErrBadHeader)
			c.Abort()
			return
		}

		claims, err := jwtManager.ParseAndValidate(strings.TrimSpace(tokenStr))
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}

		SetIdentity(c, claims.Subject, claims.Email)
		c.Next()
	}
}
