package main

import (
	"database/sql"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/lib/pq"

	"gearhouse-backend/internal/config"
	"gearhouse-backend/internal/jobs"
	"gearhouse-backend/internal/logger"
	"gearhouse-backend/internal/repository/postgres"
	"gearhouse-backend/internal/scheduler"
	"gearhouse-backend/internal/service"
)

func main() {
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	runOnce := flag.String("run-once", "", "Run a specific job once and exit (e.g., 'reconcile-inventory', 'report-overdue', 'all-nightly')")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting Gearhouse Cronjob Runner...", "log_level", cfg.Log.Level)

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
	reconcileSvc := service.NewReconciliationService(
		store.RentalRepository,
		store.InventoryRepository,
	)

	jobRunner := jobs.NewJobRunner(db, store, &jobs.Services{
		Reconciliation: reconcileSvc,
		Rental:         rentalSvc,
	}, cfg)

	if *runOnce != "" {
		switch *runOnce {
		case "reconcile-inventory":
			jobRunner.ReconcileInventory()
		case "report-overdue":
			jobRunner.ReportOverdueRentals()
		case "all-nightly":
			jobRunner.RunAllNightlyJobs()
		default:
			log.Fatalf("Unknown job: %s", *runOnce)
		}
		return
	}

	sched := scheduler.NewScheduler(jobRunner)
	sched.Start()
	defer sched.Stop()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down cronjob runner...")
}
