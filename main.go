package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"deskhive/config"
	"deskhive/cron"
	"deskhive/database"
	catalogRepo "deskhive/database/repository/catalog"
	inventoryRepo "deskhive/database/repository/inventory"
	"deskhive/handlers"
	"deskhive/middleware"
	"deskhive/routes"
	"deskhive/services/availability"
	"deskhive/services/intelligence"
	"deskhive/services/realtime"
	"deskhive/services/reservation"
	"deskhive/utils"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitCache()
	utils.InitAuthCache()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	// repositories.
	invRepo := inventoryRepo.NewMongoInventoryRepo()
	catRepo := catalogRepo.NewMongoCatalogRepo()

	if idx, ok := invRepo.(interface{ EnsureIndexes(context.Context) error }); ok {
		if err := idx.EnsureIndexes(context.Background()); err != nil {
			logger.Sugar().Fatalf("main: failed to ensure inventory indexes: %v", err)
		}
	}

	// services.
	queryEngine := availability.NewQueryEngine(catRepo, invRepo)
	hub := realtime.NewHub(queryEngine)

	invoiceQueue := cron.NewInvoiceQueue()
	defer invoiceQueue.Close()

	holdService := reservation.NewHoldService(invRepo, catRepo, hub, config.HoldTTL())
	bookingService := reservation.NewBookingService(invRepo, catRepo, hub, invoiceQueue)

	sweeper := reservation.NewSweeper(invRepo, hub, config.SweepInterval())
	sweepCtx, stopSweep := context.WithCancel(context.Background())
	defer stopSweep()
	go sweeper.Run(sweepCtx)

	cron.InitInvoiceWorker(invRepo)

	var planner intelligence.PlannerService
	if key := config.AppConfig.GeminiAPIKey; key != "" {
		gemini, err := intelligence.NewGeminiClient(context.Background(), key)
		if err != nil {
			logger.Sugar().Fatalf("main: failed to initialize Gemini client: %v", err)
		}
		planner = intelligence.NewPlannerService(gemini)
	} else {
		logger.Warn("GEMINI_API_KEY not set, day plan assistant disabled")
	}

	// handler wiring.
	handlers.HoldService = holdService
	handlers.BookingService = bookingService
	handlers.AvailabilityEngine = queryEngine
	handlers.CatalogRepo = catRepo
	handlers.PlannerService = planner
	handlers.Hub = hub

	routes.RegisterRoutes(router)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Info("starting server", zap.String("addr", srv.Addr))
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("server is shutting down...")

	stopSweep()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Info("server stopped gracefully")
}
