package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"elitestay/internal/cache"
	"elitestay/internal/config"
	"elitestay/internal/database"
	"elitestay/internal/handlers"
	"elitestay/internal/logger"
	"elitestay/internal/messaging"
	"elitestay/internal/middleware"
	"elitestay/internal/models"
	"elitestay/internal/repository"
	"elitestay/internal/search"
	"elitestay/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server представляет HTTP сервер API
type Server struct {
	router   *gin.Engine
	config   *config.Config
	db       *database.DB
	nats     *messaging.NATSClient
	valkey   *cache.ValkeyClient
	es       *search.ElasticsearchClient
	services *service.Services
	repos    *repository.Repositories

	stopRefresh context.CancelFunc
	refreshDone chan struct{}
}

// NewServer создает новый экземпляр сервера
func NewServer(cfg *config.Config) (*Server, error) {
	// Устанавливаем режим Gin
	gin.SetMode(cfg.GinMode)

	// Подключаемся к базе данных
	db, err := database.Connect(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Запускаем миграции
	if err := db.RunMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	// Подключаемся к NATS
	natsClient, err := messaging.NewNATSClient(cfg.NATS)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	server := &Server{
		config: cfg,
		db:     db,
		nats:   natsClient,
		repos:  repository.NewRepositories(db),
	}

	// Кеш и поиск опциональны: без них сервис работает напрямую с БД
	var recCache service.RecommendationCache
	if cfg.Valkey.Enabled {
		valkey, err := cache.NewValkeyClient(cfg.Valkey, cfg.RecommendationTTL)
		if err != nil {
			logger.Get().Warn("Valkey unavailable, recommendations will not be cached", "error", err)
		} else {
			server.valkey = valkey
			recCache = valkey
		}
	}

	var indexer service.RoomTypeIndexer
	if cfg.Elasticsearch.Enabled {
		es, err := search.NewElasticsearchClient(cfg.Elasticsearch)
		if err != nil {
			logger.Get().Warn("Elasticsearch unavailable, room type search falls back to database", "error", err)
		} else {
			server.es = es
			indexer = es
		}
	}

	// Создаем сервисы
	server.services = service.NewServices(server.repos, natsClient, recCache, indexer, service.Options{
		NotifyTimeout:       cfg.NotifyTimeout,
		PurgeExpired:        cfg.ReconcilePurge,
		ReconcileWorkers:    cfg.ReconcileWorkers,
		RecommendationLimit: cfg.RecommendationLimit,
	})

	if err := server.services.Recommendations.Refresh(context.Background()); err != nil {
		logger.Get().Error("Initial recommendation index build failed", "error", err)
	}

	// Создаем роутер
	router := gin.New()

	// Применяем middleware
	router.Use(middleware.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.CORS())
	router.Use(middleware.Logger())
	router.Use(middleware.Metrics())
	router.Use(middleware.Timeout(cfg.RequestTimeout))

	server.router = router
	server.setupRoutes()

	return server, nil
}

// setupRoutes настраивает все API роуты
func (s *Server) setupRoutes() {
	h := handlers.NewHandlers(s.services)
	staff := middleware.RequireRole(models.RoleAdmin, models.RoleAdminHotel)

	// API routes
	api := s.router.Group("/api")
	// Обязательная JWT аутентификация для всех API роутов
	api.Use(middleware.Auth(s.config.JWTSecret))
	{
		// Bookings endpoints
		bookings := api.Group("/bookings")
		{
			bookings.POST("", h.CreateBooking)
			bookings.GET("", h.ListBookings)
			bookings.GET("/total-price", h.TotalPrice)
			bookings.PUT("/check", staff, h.CheckBookings)
			bookings.PUT("/:id", h.UpdateBooking)
			bookings.DELETE("/:id", h.DeleteBooking)
		}

		// Rooms endpoints
		rooms := api.Group("/rooms")
		{
			rooms.GET("/recommendation", h.RecommendRooms)
			rooms.GET("/recommendation/like", h.RecommendByLikes)
			rooms.GET("/recommendation/save", h.RecommendBySaves)
			rooms.GET("/:id/status", h.RoomStatus)
			rooms.POST("/:id/like", h.LikeRoom)
			rooms.DELETE("/:id/like", h.UnlikeRoom)
			rooms.POST("/:id/save", h.SaveRoom)
			rooms.DELETE("/:id/save", h.UnsaveRoom)
		}

		// Room types endpoints
		roomTypes := api.Group("/room-types")
		{
			roomTypes.GET("/search", h.SearchRoomTypes)
			roomTypes.GET("/:id", h.GetRoomType)
			roomTypes.POST("", staff, h.CreateRoomType)
			roomTypes.PUT("/:id", staff, h.UpdateRoomType)
			roomTypes.DELETE("/:id", staff, h.DeleteRoomType)
		}

		// Hotels endpoints
		hotels := api.Group("/hotels")
		{
			hotels.GET("/recommendation", h.RecommendHotels)
			hotels.GET("/trending", h.TrendingHotels)
			hotels.GET("/:id/ratings", h.HotelRatings)
		}
		api.POST("/ratings", h.AddRating)

		api.PUT("/payments/:id", staff, h.UpdatePayment)

		// Notifications endpoints
		notifications := api.Group("/notifications")
		{
			notifications.GET("", h.ListNotifications)
			notifications.PUT("/:id/read", h.MarkNotificationRead)
		}
	}

	// Health check endpoint
	s.router.GET("/health", s.healthCheck)
	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

// healthCheck обрабатывает health check запросы
func (s *Server) healthCheck(c *gin.Context) {
	ctx := c.Request.Context()
	dbHealth := s.db.HealthCheck(ctx)

	status := http.StatusOK
	overall := "ok"
	if dbHealth.Status != "healthy" {
		status = http.StatusServiceUnavailable
		overall = "degraded"
	}

	deps := gin.H{
		"database": dbHealth,
		"nats":     s.nats.Connected(),
	}
	if s.valkey != nil {
		deps["valkey"] = s.valkey.Ping(ctx) == nil
	}
	if s.es != nil {
		deps["elasticsearch"] = s.es.HealthCheck(ctx) == nil
	}

	c.JSON(status, gin.H{
		"status":       overall,
		"service":      "elitestay-api",
		"version":      "1.0.0",
		"dependencies": deps,
	})
}

// StartIndexRefresh периодически перестраивает индексы рекомендаций
func (s *Server) StartIndexRefresh() {
	if s.config.RecommendationRefresh <= 0 {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	s.stopRefresh = cancel
	s.refreshDone = make(chan struct{})

	go func() {
		defer close(s.refreshDone)
		ticker := time.NewTicker(s.config.RecommendationRefresh)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if err := s.services.Recommendations.Refresh(ctx); err != nil {
					logger.Get().Error("Failed to refresh recommendation index", "error", err)
				}
			case <-ctx.Done():
				return
			}
		}
	}()
	logger.Get().Info("Recommendation index refresh started", "interval", s.config.RecommendationRefresh)
}

// GetRouter возвращает роутер для тестирования
func (s *Server) GetRouter() *gin.Engine {
	return s.router
}

// Cleanup закрывает соединения
func (s *Server) Cleanup() error {
	if s.stopRefresh != nil {
		s.stopRefresh()
		<-s.refreshDone
	}

	if s.valkey != nil {
		if err := s.valkey.Close(); err != nil {
			logger.Get().Error("Error closing Valkey connection", "error", err)
		}
	}

	if s.nats != nil {
		if err := s.nats.Close(); err != nil {
			logger.Get().Error("Error closing NATS connection", "error", err)
		}
	}

	if s.db != nil {
		if err := s.db.Close(); err != nil {
			logger.Get().Error("Error closing database connection", "error", err)
			return err
		}
	}

	return nil
}
