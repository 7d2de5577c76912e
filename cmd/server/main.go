package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/demal-app/payments-service/internal/application/services"
	"github.com/demal-app/payments-service/internal/config"
	"github.com/demal-app/payments-service/internal/infrastructure/finik"
	"github.com/demal-app/payments-service/internal/infrastructure/persistence/postgres"
	"github.com/demal-app/payments-service/internal/interfaces/rest/handlers"
	"github.com/demal-app/payments-service/internal/worker"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := cfg.Logger.NewLogger()
	slog.SetDefault(logger)

	logger.Info("starting payments service",
		"port", cfg.Server.Port,
		"finik_env", cfg.Finik.Env,
		"log_level", cfg.Logger.Level,
	)

	ctx := context.Background()
	db, err := postgres.Connect(ctx, &cfg.Database, logger)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	bookingRepo := postgres.NewBookingRepository(db)
	paymentRepo := postgres.NewPaymentRepository(db)
	txCoordinator := postgres.NewTransactionCoordinator(db)

	finikClient, err := finik.NewClient(cfg.Finik, logger)
	if err != nil {
		logger.Error("failed to build finik client", "error", err)
		os.Exit(1)
	}

	verifier, err := finik.NewVerifier(cfg.Finik)
	if err != nil {
		logger.Error("failed to build webhook verifier", "error", err)
		os.Exit(1)
	}

	paymentsService := services.NewPaymentsService(
		bookingRepo,
		paymentRepo,
		txCoordinator,
		finikClient,
		cfg.Payment.Rate(),
		logger,
	)

	h := handlers.NewHandlers(paymentsService, verifier, logger)
	router := handlers.NewRouter(h, cfg, logger)

	server := &http.Server{
		Addr:         "0.0.0.0:" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	staleWorker := worker.NewStalePaymentWorker(
		paymentRepo,
		cfg.Worker.Interval,
		cfg.Worker.StaleAfter,
		cfg.Worker.BatchSize,
		logger,
	)

	workerCtx, cancelWorkers := context.WithCancel(context.Background())
	defer cancelWorkers()

	go staleWorker.Start(workerCtx)

	go func() {
		logger.Info("server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	cancelWorkers()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}

	logger.Info("server exited")
}
