package consumers

import (
	"context"
	"fmt"
	"log/slog"

	"elitestay/internal/config"
	"elitestay/internal/database"
	"elitestay/internal/mail"
	"elitestay/internal/messaging"
	"elitestay/internal/models"
	"elitestay/internal/repository"
	"elitestay/internal/service"

	"github.com/nats-io/stan.go"
)

const queueGroup = "consumers"

type ConsumerService struct {
	db       *database.DB
	nats     *messaging.NATSClient
	services *service.Services
	handlers *Handlers
	subs     []stan.Subscription
}

func NewConsumerService(cfg *config.Config) (*ConsumerService, error) {
	// Connect to database
	db, err := database.Connect(cfg.Database)
	if err != nil {
		return nil, err
	}

	// Connect to NATS
	natsClient, err := messaging.NewNATSClient(cfg.NATS)
	if err != nil {
		db.Close()
		return nil, err
	}

	// Create repositories and services; the sweep job runs through the same
	// booking service as the API
	repos := repository.NewRepositories(db)
	services := service.NewServices(repos, natsClient, nil, nil, service.Options{
		NotifyTimeout:       cfg.NotifyTimeout,
		PurgeExpired:        cfg.ReconcilePurge,
		ReconcileWorkers:    cfg.ReconcileWorkers,
		RecommendationLimit: cfg.RecommendationLimit,
	})

	return &ConsumerService{
		db:       db,
		nats:     natsClient,
		services: services,
		handlers: NewHandlers(mail.NewSender(cfg.SMTP)),
	}, nil
}

// Bookings exposes the booking service for the reconciliation job.
func (cs *ConsumerService) Bookings() *service.BookingService {
	return cs.services.Bookings
}

func (cs *ConsumerService) Start() error {
	slog.Info("Starting NATS consumers...")

	if !cs.nats.Connected() {
		slog.Warn("NATS Streaming disabled, event consumers not started")
		return nil
	}

	routes := []struct {
		subject string
		fn      func(context.Context, []byte) error
	}{
		{models.EventBookingCreated, cs.handlers.BookingCreated},
		{models.EventBookingUpdated, cs.handlers.BookingUpdated},
		{models.EventBookingDeleted, cs.handlers.BookingDeleted},
		{models.EventRoomReleased, cs.handlers.RoomReleased},
		{models.EventNotificationCreated, cs.handlers.NotificationCreated},
	}

	for _, r := range routes {
		sub, err := cs.nats.SubscribeQueue(r.subject, queueGroup, ack(r.subject, r.fn))
		if err != nil {
			return fmt.Errorf("subscribe %s: %w", r.subject, err)
		}
		cs.subs = append(cs.subs, sub)
	}

	slog.Info("All consumers started successfully", "subscriptions", len(cs.subs))
	return nil
}

func (cs *ConsumerService) Shutdown(ctx context.Context) error {
	slog.Info("Shutting down consumer service...")

	for _, sub := range cs.subs {
		if err := sub.Close(); err != nil {
			slog.Error("Error closing subscription", "error", err)
		}
	}

	if cs.nats != nil {
		if err := cs.nats.Close(); err != nil {
			slog.Error("Error closing NATS connection", "error", err)
		}
	}

	if cs.db != nil {
		if err := cs.db.Close(); err != nil {
			slog.Error("Error closing database connection", "error", err)
			return err
		}
	}

	return ctx.Err()
}
