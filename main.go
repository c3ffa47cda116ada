package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"parkly/config"
	"parkly/cron"
	"parkly/database"
	bookingRepoPkg "parkly/database/repository/booking"
	facilityRepoPkg "parkly/database/repository/facility"
	spaceRepoPkg "parkly/database/repository/space"
	tariffRepoPkg "parkly/database/repository/tariff"
	"parkly/handlers"
	"parkly/middleware"
	"parkly/routes"
	"parkly/services/booking"
	"parkly/services/catalog"
	"parkly/utils"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v76"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitCache()
	stripe.Key = config.AppConfig.StripeKey

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	// repositories.
	facilityRepo := facilityRepoPkg.NewMongoFacilityRepo()
	spaceRepo := spaceRepoPkg.NewMongoSpaceRepo()
	tariffRepo := tariffRepoPkg.NewMongoTariffRepo()
	bookingRepo := bookingRepoPkg.NewMongoBookingRepo()

	// services.
	tariffResolver := &booking.TariffResolver{Repo: tariffRepo}
	availability := &booking.AvailabilityChecker{Repo: bookingRepo}
	lifecycle := cron.NewLifecycleScheduler()

	coordinator := &booking.DefaultCoordinator{
		FacilityRepo: facilityRepo,
		SpaceRepo:    spaceRepo,
		BookingRepo:  bookingRepo,
		Tariffs:      tariffResolver,
		Availability: availability,
		Lifecycle:    lifecycle,
		Logger:       logger,
	}

	quoteService := &booking.QuoteService{
		FacilityRepo: facilityRepo,
		Tariffs:      tariffResolver,
		Coordinator:  coordinator,
		Cache:        utils.GetCacheClient(),
	}

	catalogService := &catalog.DefaultService{
		FacilityRepo: facilityRepo,
		SpaceRepo:    spaceRepo,
		TariffRepo:   tariffRepo,
		Logger:       logger,
	}

	handlerBundle := &handlers.HandlerBundle{
		Booking: handlers.NewBookingHandler(coordinator, quoteService, logger),
		Catalog: handlers.NewCatalogHandler(catalogService, logger),
		Payment: handlers.NewPaymentHandler(coordinator, logger),
	}

	routes.RegisterRoutes(router, handlerBundle)

	// Background worker for deferred booking transitions.
	go cron.InitLifecycleWorker(coordinator)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
