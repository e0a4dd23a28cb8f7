package api

import (
	"context"
	"errors"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/nekogravitycat/barbershop-booking-backend/internal/auth"
	"github.com/nekogravitycat/barbershop-booking-backend/internal/pkg/apperror"
	"github.com/nekogravitycat/barbershop-booking-backend/internal/pkg/response"
	"github.com/nekogravitycat/barbershop-booking-backend/internal/user"
)

var (
	ErrUnauthorized  = apperror.New(http.StatusUnauthorized, "unauthorized")
	ErrAdminRequired = apperror.New(http.StatusForbidden, "forbidden: system admin access required")
	ErrRateLimited   = apperror.New(http.StatusTooManyRequests, "too many requests")
)

// UserReader loads the caller's account.
type UserReader interface {
	GetByID(ctx context.Context, id string) (*user.User, error)
}

// RequireSystemAdmin ensures the authenticated user is a system admin.
// It MUST be used after auth.AuthRequired middleware.
func RequireSystemAdmin(users UserReader) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := auth.GetUserID(c)
		if userID == "" {
			response.Error(c, ErrUnauthorized)
			c.Abort()
			return
		}

		u, err := users.GetByID(c.Request.Context(), userID)
		if err != nil {
			if errors.Is(err, user.ErrNotFound) {
				err = ErrUnauthorized
			}
			response.Error(c, err)
			c.Abort()
			return
		}

		if !u.IsSystemAdmin {
			response.Error(c, ErrAdminRequired)
			c.Abort()
			return
		}

		c.Next()
	}
}

// idleLimiterTTL is how long a client's bucket survives without requests.
const idleLimiterTTL = 10 * time.Minute

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// IPRateLimiter keeps one token bucket per client IP.
type IPRateLimiter struct {
	mu        sync.Mutex
	clients   map[string]*clientLimiter
	interval  time.Duration
	burst     int
	lastSweep time.Time
	now       func() time.Time
}

// NewIPRateLimiter allows perMinute requests per client, refilled evenly over the minute.
func NewIPRateLimiter(perMinute int) *IPRateLimiter {
	return &IPRateLimiter{
		clients:  make(map[string]*clientLimiter),
		interval: time.Minute / time.Duration(perMinute),
		burst:    perMinute,
		now:      time.Now,
	}
}

// Allow consumes one token for ip.
func (l *IPRateLimiter) Allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastSweep) > idleLimiterTTL {
		for key, cl := range l.clients {
			if now.Sub(cl.lastSeen) > idleLimiterTTL {
				delete(l.clients, key)
			}
		}
		l.lastSweep = now
	}

	cl, ok := l.clients[ip]
	if !ok {
		cl = &clientLimiter{limiter: rate.NewLimiter(rate.Every(l.interval), l.burst)}
		l.clients[ip] = cl
	}
	cl.lastSeen = now
	return cl.limiter.AllowN(now, 1)
}

// RateLimitByIP rejects requests over the client's budget with 429.
func RateLimitByIP(l *IPRateLimiter) gin.HandlerFunc {
	retryAfter := strconv.Itoa(int(math.Ceil(l.interval.Seconds())))
	return func(c *gin.Context) {
		if !l.Allow(c.ClientIP()) {
			c.Header("Retry-After", retryAfter)
			response.Error(c, ErrRateLimited)
			c.Abort()
			return
		}
		c.Next()
	}
}
