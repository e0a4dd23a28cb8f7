package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/nekogravitycat/barbershop-booking-backend/internal/auth"
	"github.com/nekogravitycat/barbershop-booking-backend/internal/availability"
	availabilityHttp "github.com/nekogravitycat/barbershop-booking-backend/internal/availability/http"
	"github.com/nekogravitycat/barbershop-booking-backend/internal/barber"
	barberHttp "github.com/nekogravitycat/barbershop-booking-backend/internal/barber/http"
	"github.com/nekogravitycat/barbershop-booking-backend/internal/booking"
	bookingHttp "github.com/nekogravitycat/barbershop-booking-backend/internal/booking/http"
	"github.com/nekogravitycat/barbershop-booking-backend/internal/catalog"
	catalogHttp "github.com/nekogravitycat/barbershop-booking-backend/internal/catalog/http"
	"github.com/nekogravitycat/barbershop-booking-backend/internal/logging"
	"github.com/nekogravitycat/barbershop-booking-backend/internal/metrics"
	"github.com/nekogravitycat/barbershop-booking-backend/internal/schedule"
	scheduleHttp "github.com/nekogravitycat/barbershop-booking-backend/internal/schedule/http"
	"github.com/nekogravitycat/barbershop-booking-backend/internal/shop"
	shopHttp "github.com/nekogravitycat/barbershop-booking-backend/internal/shop/http"
	"github.com/nekogravitycat/barbershop-booking-backend/internal/user"
	userHttp "github.com/nekogravitycat/barbershop-booking-backend/internal/user/http"
)

// Config carries the services and settings the router is assembled from.
type Config struct {
	IsProduction bool
	ProdOrigins  string
	Logger       *zap.Logger

	// RateLimitPerMinute caps public availability reads per client IP. Zero disables it.
	RateLimitPerMinute int
	// Ready reports whether the backing stores are reachable.
	Ready func(ctx context.Context) error

	UserService         user.Service
	ShopService         shop.Service
	BarberService       barber.Service
	CatalogService      catalog.Service
	ScheduleService     schedule.Service
	AvailabilityService availability.Service
	BookingService      booking.Service
	JWTManager          *auth.JWTManager
}

// NewRouter initializes the HTTP router engine.
// It is responsible for assembling middleware (CORS, Logger, Metrics, Auth) and registering routes for various modules.
func NewRouter(cfg Config) *gin.Engine {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	r := gin.New()

	// Global Middleware:
	// - Recovery: Captures panics to prevent server crashes and returns a 500 error.
	// - Logger: Structured request log, also exposed to handlers.
	// - Metrics: Request count and latency per route.
	r.Use(gin.Recovery(), logging.Middleware(logger), metrics.Middleware())
	r.Use(cors.New(corsConfig(cfg.IsProduction, cfg.ProdOrigins)))

	r.GET("/healthz", healthHandler(cfg.Ready))
	r.GET("/metrics", metrics.Handler())

	// authMiddleware: Validates if the request contains a valid JWT.
	authMiddleware := auth.AuthRequired(cfg.JWTManager)
	// sysAdminMiddleware: Further checks if the authenticated user has System Admin privileges.
	sysAdminMiddleware := RequireSystemAdmin(cfg.UserService)

	var availabilityMiddleware []gin.HandlerFunc
	if cfg.RateLimitPerMinute > 0 {
		availabilityMiddleware = append(availabilityMiddleware, RateLimitByIP(NewIPRateLimiter(cfg.RateLimitPerMinute)))
	}

	// Initialize HTTP Handlers for each module (injecting Service dependencies).
	userHandler := userHttp.NewHandler(cfg.UserService, cfg.JWTManager)
	shopHandler := shopHttp.NewHandler(cfg.ShopService)
	barberHandler := barberHttp.NewHandler(cfg.BarberService)
	catalogHandler := catalogHttp.NewHandler(cfg.CatalogService, cfg.ShopService)
	scheduleHandler := scheduleHttp.NewHandler(cfg.ScheduleService, cfg.BarberService)
	availabilityHandler := availabilityHttp.NewHandler(cfg.AvailabilityService)
	bookingHandler := bookingHttp.NewHandler(cfg.BookingService)

	// Register API routes under /v1
	v1 := r.Group("/v1")
	{
		userHttp.RegisterRoutes(v1, userHandler, authMiddleware, sysAdminMiddleware)
		shopHttp.RegisterRoutes(v1, shopHandler, authMiddleware, sysAdminMiddleware)
		barberHttp.RegisterRoutes(v1, barberHandler, authMiddleware)
		catalogHttp.RegisterRoutes(v1, catalogHandler, authMiddleware)
		scheduleHttp.RegisterRoutes(v1, scheduleHandler, authMiddleware)
		availabilityHttp.RegisterRoutes(v1, availabilityHandler, availabilityMiddleware...)
		bookingHttp.RegisterRoutes(v1, bookingHandler, authMiddleware)
	}

	return r
}

func corsConfig(isProduction bool, prodOrigins string) cors.Config {
	config := cors.DefaultConfig()
	if isProduction {
		config.AllowOrigins = splitOrigins(prodOrigins)
	} else {
		config.AllowOrigins = []string{
			"http://localhost:3000",
			"http://localhost:8081", // Swagger
		}
	}
	config.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}
	config.ExposeHeaders = []string{"Retry-After"}
	return config
}

func splitOrigins(raw string) []string {
	var origins []string
	for _, o := range strings.Split(raw, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

func healthHandler(ready func(ctx context.Context) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		if ready != nil {
			if err := ready(c.Request.Context()); err != nil {
				logging.FromContext(c).Warn("readiness check failed", zap.Error(err))
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
