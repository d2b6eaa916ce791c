package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pharmaretail/dss-go/internal/api"
	"github.com/pharmaretail/dss-go/internal/cache"
	"github.com/pharmaretail/dss-go/internal/config"
	"github.com/pharmaretail/dss-go/internal/report"
	"github.com/pharmaretail/dss-go/internal/repository"
	"github.com/pharmaretail/dss-go/internal/repository/postgres"
	"github.com/pharmaretail/dss-go/internal/service"
	"github.com/pharmaretail/dss-go/internal/storage"
	"github.com/pharmaretail/dss-go/pkg/logger"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	logger.SetLevel(cfg.Server.Mode)
	if cfg.Server.Mode == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize database
	db, err := postgres.NewDB(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	sales := repository.NewSalesRepository(db.DB)
	snapshots := repository.NewSnapshotRepository(db.DB)

	results, err := cache.NewResultCache(cfg.Cache)
	if err != nil {
		logger.Log.Warn().Err(err).Msg("result cache unavailable, continuing without it")
		results = cache.NewNoopResultCache()
	}

	var archive storage.ObjectStorage
	if cfg.Archive.Enabled {
		client, err := storage.NewMinioClient(cfg.Archive)
		if err != nil {
			logger.Log.Warn().Err(err).Msg("report archive unavailable, continuing without it")
		} else {
			archive = client
		}
	}

	since := cfg.DSS.AnalysisStartDate
	services := &api.Services{
		Metrics:         service.NewMetricsService(sales, snapshots, db, since),
		Restocks:        service.NewRestockService(sales, snapshots, db, since, nil),
		Seasonal:        service.NewSeasonalService(sales, snapshots, db),
		Recommendations: service.NewRecommendationService(sales, snapshots, db),
		Customers:       service.NewCustomerService(sales, snapshots, db),
		Expiry:          service.NewExpiryService(sales),
		Reports:         report.NewService(sales, snapshots, archive, cfg.DSS.ReportsDir),
		Results:         results,
	}

	router := api.NewRouter(services, cfg.Server.AllowedOrigins)
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Log.Info().Str("port", cfg.Server.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.Log.Info().Msg("Server exiting")
}
