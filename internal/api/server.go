package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ArleDjinn/AjedrezRecreativo/internal/cache"
	"github.com/ArleDjinn/AjedrezRecreativo/internal/config"
	"github.com/ArleDjinn/AjedrezRecreativo/internal/database"
	"github.com/ArleDjinn/AjedrezRecreativo/internal/external"
	"github.com/ArleDjinn/AjedrezRecreativo/internal/handlers"
	"github.com/ArleDjinn/AjedrezRecreativo/internal/logger"
	"github.com/ArleDjinn/AjedrezRecreativo/internal/messaging"
	"github.com/ArleDjinn/AjedrezRecreativo/internal/metrics"
	"github.com/ArleDjinn/AjedrezRecreativo/internal/middleware"
	"github.com/ArleDjinn/AjedrezRecreativo/internal/repository"
	"github.com/ArleDjinn/AjedrezRecreativo/internal/service"
)

type Server struct {
	router   *gin.Engine
	config   *config.Config
	db       *database.DB
	redis    *cache.RedisClient
	nats     *messaging.NATSClient
	services *service.Services
}

// NewServer wires the full application: storage, broker, cache, gateway
// client, services, middleware and routes. The database is mandatory, the
// cache and the broker are optional and degrade to pass-through.
func NewServer(cfg *config.Config) *Server {
	gin.SetMode(cfg.GinMode)

	db, err := database.Connect(cfg.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}

	if err := db.RunMigrations(); err != nil {
		logger.Fatal("Failed to run migrations", "error", err)
	}

	redisClient, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		logger.Get().Warn("Redis unavailable, serving without listing cache", "error", err)
		redisClient = nil
	}

	natsClient, err := messaging.NewNATSClient(cfg.NATS)
	if err != nil {
		logger.Get().Warn("NATS unavailable, lifecycle events will not be published", "error", err)
		natsClient = nil
	}

	webpayClient := external.NewWebpayClient(cfg.Webpay)

	repos := repository.NewRepositories(db)
	returnURL := cfg.PublicBaseURL + "/api/payments/return"
	services := service.NewServices(repos, webpayClient, natsClient, returnURL, cfg.JWTSecret, cfg.SessionTTL)

	router := gin.New()
	router.Use(middleware.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.CORS())
	router.Use(middleware.Metrics())
	router.Use(middleware.Logger())

	server := &Server{
		router:   router,
		config:   cfg,
		db:       db,
		redis:    redisClient,
		nats:     natsClient,
		services: services,
	}

	server.setupRoutes()

	return server
}

func (s *Server) setupRoutes() {
	h := handlers.New(s.services, s.redis)

	s.router.GET("/health", s.healthCheck)
	s.router.GET("/metrics", gin.WrapH(metrics.Handler()))

	api := s.router.Group("/api")
	{
		// Public browsing and checkout
		api.GET("/events", h.ListEvents)
		api.GET("/events/:id", h.GetEvent)
		api.GET("/events/:id/checkout", h.CheckoutView)
		api.POST("/events/:id/checkout", h.Checkout)

		// Purchases and payments
		api.GET("/purchases/:id", h.PurchaseStatus)
		api.POST("/purchases/:id/pay", h.StartPayment)
		api.GET("/payments/return", h.WebpayReturn)
		api.POST("/payments/return", h.WebpayReturn)

		// Admin back office
		admin := api.Group("/admin")
		admin.POST("/login", h.Login)
		authorized := admin.Group("")
		authorized.Use(middleware.AdminAuth(s.services.Auth))
		{
			authorized.GET("/events", h.ListAllEvents)
			authorized.POST("/events", h.CreateEvent)
			authorized.PUT("/events/:id", h.UpdateEvent)
			authorized.GET("/events/:id/stats", h.EventStats)
			authorized.GET("/events/:id/occurrences", h.ListOccurrences)
			authorized.POST("/events/:id/occurrences", h.CreateOccurrence)
			authorized.DELETE("/events/:id/occurrences/:occurrence_id", h.CancelOccurrence)
		}
	}
}

func (s *Server) healthCheck(c *gin.Context) {
	stats := s.db.Stats()
	c.JSON(http.StatusOK, gin.H{
		"status":          "ok",
		"db_open_conns":   stats.OpenConnections,
		"db_in_use_conns": stats.InUse,
		"db_wait_count":   stats.WaitCount,
	})
}

// Run starts the HTTP server.
func (s *Server) Run() error {
	return s.router.Run(fmt.Sprintf(":%s", s.config.Port))
}

// GetRouter exposes the router for the HTTP server and for tests.
func (s *Server) GetRouter() *gin.Engine {
	return s.router
}

// Cleanup closes the external connections.
func (s *Server) Cleanup() error {
	if s.nats != nil {
		if err := s.nats.Close(); err != nil {
			logger.Get().Error("Error closing NATS connection", "error", err)
		}
	}

	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			logger.Get().Error("Error closing Redis connection", "error", err)
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
