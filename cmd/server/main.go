package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	revenueapp "github.com/revrec/backend/internal/application/revenue"
	"github.com/revrec/backend/internal/infrastructure/config"
	"github.com/revrec/backend/internal/infrastructure/logger"
	"github.com/revrec/backend/internal/infrastructure/persistence"
	"github.com/revrec/backend/internal/infrastructure/telemetry"
	"github.com/revrec/backend/internal/interfaces/http/handler"
	"github.com/revrec/backend/internal/interfaces/http/router"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting revenue recognition service",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	ctx := context.Background()

	if cfg.Telemetry.Enabled {
		tp, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
			Enabled:           cfg.Telemetry.Enabled,
			CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
			SamplingRatio:     cfg.Telemetry.SamplingRatio,
			ServiceName:       cfg.App.Name,
			Insecure:          cfg.Telemetry.Insecure,
		}, log)
		if err != nil {
			log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := tp.Shutdown(shutdownCtx); err != nil {
				log.Error("Error shutting down tracer provider", zap.Error(err))
			}
		}()
	}

	db, err := persistence.NewDatabase(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()

	// Repositories
	contractRepo := persistence.NewGormContractRepository(db.DB)
	scheduleRepo := persistence.NewGormBillingScheduleRepository(db.DB)
	ledgerRepo := persistence.NewGormLedgerEntryRepository(db.DB)
	balanceRepo := persistence.NewGormConsolidatedBalanceRepository(db.DB)
	uow := persistence.NewGormUnitOfWork(db.DB)

	// Application services
	contractSvc := revenueapp.NewContractService(contractRepo, uow)
	scheduleSvc := revenueapp.NewScheduleService(scheduleRepo, contractRepo)
	obligationSvc := revenueapp.NewObligationService(contractRepo, scheduleSvc, uow)
	ledgerSvc := revenueapp.NewLedgerService(ledgerRepo)
	balanceSvc := revenueapp.NewBalanceService(contractRepo, scheduleRepo, ledgerRepo, balanceRepo)
	reportSvc := revenueapp.NewReportService(scheduleRepo, ledgerRepo)

	// HTTP layer
	r := router.New(log)
	r.Register(
		handler.NewContractHandler(contractSvc),
		handler.NewObligationHandler(obligationSvc),
		handler.NewScheduleHandler(scheduleSvc),
		handler.NewLedgerHandler(ledgerSvc),
		handler.NewBalanceHandler(balanceSvc),
		handler.NewReportHandler(reportSvc),
	)

	srv := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      r.Setup(),
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSeconds) * time.Second,
		IdleTimeout:  time.Duration(cfg.HTTP.IdleTimeoutSeconds) * time.Second,
	}

	go func() {
		log.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Forced shutdown", zap.Error(err))
	}
	log.Info("Server stopped")
}
