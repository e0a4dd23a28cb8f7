package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/nekogravitycat/barbershop-booking-backend/internal/pkg/apperror"
)

// ErrorResponse defines the JSON structure for error responses.
type ErrorResponse struct {
	Error string `json:"error"`
}

// retryAfterSeconds is advertised on retryable failures.
const retryAfterSeconds = "1"

// Error sends a JSON error response.
// It checks if the error is an AppError to determine the status code.
// If it's not an AppError, it logs the cause and responds with 500 Internal Server Error.
func Error(c *gin.Context, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		if appErr.Code >= http.StatusInternalServerError {
			zap.L().Error("request failed",
				zap.String("path", c.FullPath()),
				zap.Int("status", appErr.Code),
				zap.Error(err),
			)
		}
		if apperror.IsRetryable(appErr) {
			c.Header("Retry-After", retryAfterSeconds)
		}
		c.JSON(appErr.Code, ErrorResponse{Error: appErr.Message})
		return
	}

	zap.L().Error("unhandled error", zap.String("path", c.FullPath()), zap.Error(err))
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
}

// BadRequest sends a 400 with an optional details field, used for binding failures.
func BadRequest(c *gin.Context, message string, err error) {
	body := gin.H{"error": message}
	if err != nil {
		body["details"] = err.Error()
	}
	c.JSON(http.StatusBadRequest, body)
}
