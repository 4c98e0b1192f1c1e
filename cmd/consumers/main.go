package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"elitestay/cmd/consumers/jobs"
	"elitestay/internal/config"
	"elitestay/internal/consumers"
	"elitestay/internal/logger"
)

func main() {
	// Load configuration
	cfg := config.Load()
	logger.Init(cfg.LogLevel, cfg.LogFormat)
	logger.Get().Info("Starting consumers service...")

	// Override NATS client ID for consumers
	cfg.NATS.ClientID = "elitestay-consumers"

	// Create and start consumers
	consumerService, err := consumers.NewConsumerService(cfg)
	if err != nil {
		logger.Fatal("Failed to create consumer service", "error", err)
	}

	// Start consuming messages
	if err := consumerService.Start(); err != nil {
		logger.Fatal("Failed to start consumers", "error", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reconcileJob := jobs.NewBookingReconciliationJob(consumerService.Bookings(), cfg.ReconcileInterval, cfg.ReconcileOperatorID)
	reconcileJob.Start(ctx)

	logger.Get().Info("Consumers service started successfully")

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Get().Info("Shutting down consumers service...")
	reconcileJob.Stop()
	cancel()

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := consumerService.Shutdown(shutdownCtx); err != nil {
		logger.Get().Error("Error during shutdown", "error", err)
	}

	logger.Get().Info("Consumers service stopped")
}
