package auth

import "github.com/gin-gonic/gin"

const (
	ctxKeyUserID    = "userID"
	ctxKeyUserEmail = "userEmail"
)

// SetIdentity stores the caller identity on the request context.
func SetIdentity(c *gin.Context, userID, email string) {
	c.Set(ctxKeyUserID, userID)
	c.Set(ctxKeyUserEmail, email)
}

// GetUserID returns the authenticated user's ID or empty string.
func GetUserID(c *gin.Context) string {
	return c.GetString(ctxKeyUserID)
}

// GetUserEmail returns the authenticated user's email or empty string.
func GetUserEmail(c *gin.Context) string {
	return c.GetString(ctxKeyUserEmail)
}
