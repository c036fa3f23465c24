package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	api "gearhouse-backend/internal/api/http"
	"gearhouse-backend/internal/config"
	"gearhouse-backend/internal/jobs"
	"gearhouse-backend/internal/logger"
	"gearhouse-backend/internal/repository/postgres"
	"gearhouse-backend/internal/scheduler"
	"gearhouse-backend/internal/service"
)

func main() {
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting Gearhouse Backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress())
	logger.Info("Database configuration", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database, "user", cfg.Database.User)

	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		logger.Error("Failed to ping database", "error", err)
		log.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	store := postgres.NewStore(db)
	policies := cfg.Policies()

	waiverSvc := service.NewWaiverService(store.WaiverRepository, policies)
	rentalSvc := service.NewRentalService(
		store.RentalRepository,
		store.InventoryRepository,
		store.CustomerRepository,
		waiverSvc,
		policies,
	)
	returnSvc := service.NewReturnService(
		store.RentalRepository,
		store.InventoryRepository,
		store.MaintenanceRepository,
		store.TransactionRepository,
		policies,
	)
	reconcileSvc := service.NewReconciliationService(
		store.RentalRepository,
		store.InventoryRepository,
	)

	jobRunner := jobs.NewJobRunner(db, store, &jobs.Services{
		Reconciliation: reconcileSvc,
		Rental:         rentalSvc,
	}, cfg)
	sched := scheduler.NewScheduler(jobRunner)
	sched.Start()
	defer sched.Stop()

	router := api.NewRouter(rentalSvc, returnSvc, reconcileSvc, waiverSvc)
	server := &http.Server{
		Addr:         cfg.GetServerAddress(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		logger.Info("HTTP server listening", "address", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown failed", "error", err)
	}
	logger.Info("Server stopped")
}
