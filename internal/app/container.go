package app

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/nekogravitycat/barbershop-booking-backend/internal/api"
	"github.com/nekogravitycat/barbershop-booking-backend/internal/auth"
	"github.com/nekogravitycat/barbershop-booking-backend/internal/availability"
	"github.com/nekogravitycat/barbershop-booking-backend/internal/barber"
	"github.com/nekogravitycat/barbershop-booking-backend/internal/booking"
	"github.com/nekogravitycat/barbershop-booking-backend/internal/catalog"
	"github.com/nekogravitycat/barbershop-booking-backend/internal/db"
	"github.com/nekogravitycat/barbershop-booking-backend/internal/schedule"
	"github.com/nekogravitycat/barbershop-booking-backend/internal/shop"
	"github.com/nekogravitycat/barbershop-booking-backend/internal/user"
)

// Config holds the dependencies and settings required to start the application.
type Config struct {
	IsProduction bool
	ProdOrigins  string
	DBPool       *pgxpool.Pool
	Logger       *zap.Logger
	JWTSecret    string
	JWTTTL       time.Duration
	BcryptCost   int

	Availability        availability.Config
	AvailabilityTimeout time.Duration
	RateLimitPerMinute  int
}

// Container holds the initialized components that are needed externally.
type Container struct {
	Router     *gin.Engine
	JWTManager *auth.JWTManager
}

// NewContainer initializes all modules and returns the container.
func NewContainer(cfg Config) *Container {
	// Init Components
	passwordHasher := auth.NewBcryptPasswordHasherWithCost(cfg.BcryptCost)
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL)

	// User Module
	userRepo := user.NewPgxRepository(cfg.DBPool)
	userService := user.NewService(userRepo, passwordHasher)

	// Shop Module
	shopRepo := shop.NewPgxRepository(cfg.DBPool)
	shopService := shop.NewService(shopRepo, userService)

	// Barber Module
	barberRepo := barber.NewPgxRepository(cfg.DBPool)
	barberService := barber.NewService(barberRepo, shopService)

	// Catalog Module
	catalogRepo := catalog.NewPgxRepository(cfg.DBPool)
	catalogService := catalog.NewService(catalogRepo)

	// Schedule Module
	scheduleRepo := schedule.NewPgxRepository(cfg.DBPool)
	scheduleService := schedule.NewService(scheduleRepo)

	// Availability reads from schedule, bookings, barber settings and the catalog
	bookingRepo := booking.NewPgxRepository(cfg.DBPool)
	availabilityService := availability.NewService(scheduleService, bookingRepo, barberService, catalogService, availability.Options{
		Defaults: cfg.Availability,
		Timeout:  cfg.AvailabilityTimeout,
		Logger:   cfg.Logger,
	})

	// Booking Module
	bookingService := booking.NewService(bookingRepo, barberService, catalogService, availabilityService)

	// API Router Config
	routerParams := api.Config{
		IsProduction:        cfg.IsProduction,
		ProdOrigins:         cfg.ProdOrigins,
		Logger:              cfg.Logger,
		RateLimitPerMinute:  cfg.RateLimitPerMinute,
		Ready:               db.ReadyCheck(cfg.DBPool),
		UserService:         userService,
		ShopService:         shopService,
		BarberService:       barberService,
		CatalogService:      catalogService,
		ScheduleService:     scheduleService,
		AvailabilityService: availabilityService,
		BookingService:      bookingService,
		JWTManager:          jwtManager,
	}

	// Router
	router := api.NewRouter(routerParams)

	return &Container{
		Router:     router,
		JWTManager: jwtManager,
	}
}
