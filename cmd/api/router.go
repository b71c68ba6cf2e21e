package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"appointments/internal/config"
	"appointments/internal/domain"
	"appointments/internal/middleware"
	"appointments/internal/modules/auth"
	"appointments/internal/modules/availability"
	"appointments/internal/modules/booking"
	"appointments/internal/modules/catalog"
	"appointments/internal/modules/hold"
	"appointments/internal/modules/reaper"
	"appointments/internal/pkg/clock"
	jwtsvc "appointments/internal/pkg/jwt"
	applog "appointments/internal/pkg/logger"
	"appointments/internal/repository"
)

func newRouter(cfg *config.Config, db *gorm.DB, gate reaper.Gate, logger *zap.Logger) *gin.Engine {
	clk := clock.System{}
	grid := domain.SlotGrid{Step: cfg.SlotGranularity, Location: cfg.Location}

	userRepo := repository.NewUserRepository(db)
	providerRepo := repository.NewProviderRepository(db)
	serviceRepo := repository.NewServiceRepository(db)
	hoursRepo := repository.NewWorkingHoursRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	holdRepo := repository.NewSlotHoldRepository(db)
	uow := repository.NewUnitOfWork(db)

	j := jwtsvc.New(cfg.JWTSecret, cfg.JWTTTL)
	expiry := reaper.New(holdRepo, gate, logger.Named("reaper"))

	generator := availability.NewGenerator(
		hoursRepo,
		availability.NewBusyAggregator(bookingRepo, holdRepo),
		clk,
		availability.WithStep(cfg.SlotGranularity),
		availability.WithLocation(cfg.Location),
		availability.WithReaper(expiry),
		availability.WithLogger(logger.Named("slots")),
	)
	slotsHandler := availability.NewHandler(availability.NewService(providerRepo, serviceRepo, generator, clk))

	holdHandler := hold.NewHandler(hold.NewManager(uow, holdRepo, providerRepo, serviceRepo, clk,
		hold.WithHoldTTL(cfg.HoldTTL),
		hold.WithGrid(grid),
		hold.WithReaper(expiry),
		hold.WithLogger(logger.Named("hold")),
	))

	bookingHandler := booking.NewHandler(booking.NewManager(uow, bookingRepo, providerRepo, clk,
		booking.WithGrid(grid),
		booking.WithLogger(logger.Named("booking")),
	))

	catalogHandler := catalog.NewHandler(catalog.NewService(providerRepo, serviceRepo, catalog.WithGrid(grid)))
	authHandler := auth.NewHandler(auth.NewService(userRepo, j, logger.Named("auth")))

	if applog.IsProduction(cfg.AppEnv) {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.CORS(cfg.CORSAllowedOrigins))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := r.Group("/api/v1")
	{
		public := v1.Group("")
		public.Use(middleware.OptionalJWTAuth(j))
		authHandler.RegisterPublicRoutes(public)
		catalogHandler.RegisterPublicRoutes(public)
		slotsHandler.RegisterRoutes(public)

		protected := v1.Group("")
		protected.Use(middleware.JWTAuth(j))
		authHandler.RegisterProtectedRoutes(protected)
		catalogHandler.RegisterProtectedRoutes(protected)
		catalogHandler.RegisterAdminRoutes(protected)
		holdHandler.RegisterRoutes(protected)
		bookingHandler.RegisterRoutes(protected)
	}
	return r
}
