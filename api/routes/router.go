// api/routes/router.go
package routes

import (
	"net/http"
	"time"

	"gatherly/internal/bookings"
	"gatherly/internal/discovery"
	"gatherly/internal/events"
	"gatherly/internal/notifications"
	"gatherly/internal/shared/config"
	"gatherly/internal/shared/database"
	"gatherly/internal/tickets"
	"gatherly/pkg/cache"
	"gatherly/pkg/logger"
	"gatherly/pkg/ratelimit"

	"github.com/gin-gonic/gin"
)

// Router holds all route dependencies
type Router struct {
	config      *config.Config
	db          *database.DB
	rateLimiter *ratelimit.RateLimiter

	// Wired during SetupRoutes; the server needs these for the background
	// sweep and shutdown.
	bookingService bookings.Service
	producer       notifications.Producer
}

// NewRouter creates a new router instance
func NewRouter(cfg *config.Config, db *database.DB, rateLimiter *ratelimit.RateLimiter) *Router {
	return &Router{
		config:      cfg,
		db:          db,
		rateLimiter: rateLimiter,
	}
}

// BookingService exposes the wired booking service
func (r *Router) BookingService() bookings.Service {
	return r.bookingService
}

// NotificationProducer exposes the wired Kafka producer, nil when Kafka is
// disabled
func (r *Router) NotificationProducer() notifications.Producer {
	return r.producer
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes(engine *gin.Engine) {
	// Health check and basic info endpoints
	r.setupHealthRoutes(engine)

	// Shared infrastructure
	cacheService := r.cacheService()
	publisher := r.notificationPublisher()

	// Repositories
	eventRepo := events.NewRepository(r.db.GetPostgreSQL())
	bookingRepo := bookings.NewRepository(r.db.GetPostgreSQL())
	ticketRepo := tickets.NewRepository(r.db.GetPostgreSQL())

	// Services
	eventService := events.NewService(eventRepo)
	ticketService := tickets.NewService(ticketRepo)
	bookingService := bookings.NewService(bookingRepo, eventRepo, tickets.NewIssuer(ticketService), publisher, bookings.Config{
		HoldWindow:      r.config.Booking.HoldWindow,
		PlatformFeeRate: r.config.Booking.PlatformFeeRate,
	})
	r.bookingService = bookingService

	resolver := discovery.NewResolver(r.config.Discovery.ProviderTimeout,
		discovery.CoordinatesProvider{},
		discovery.NewIPProvider(r.config.Discovery.IPLookupURL, r.config.Discovery.ProviderTimeout),
		discovery.CityProvider{},
	)
	discoveryService := discovery.NewService(eventRepo, resolver, cacheService, discovery.Config{
		DefaultRadiusKm:  r.config.Discovery.DefaultRadiusKm,
		MaxRadiusKm:      r.config.Discovery.MaxRadiusKm,
		MovedThresholdKm: r.config.Discovery.MovedThresholdKm,
		CacheTTL:         r.config.Redis.NearbyCacheTTL,
	})

	// API routes
	api := engine.Group(r.config.GetAPIBasePath())
	{
		events.SetupEventRoutes(api, events.NewController(eventService))
		bookings.SetupBookingRoutes(api, bookings.NewController(bookingService), nil)
		tickets.SetupTicketRoutes(api, tickets.NewController(ticketService))
		discovery.SetupDiscoveryRoutes(api, discovery.NewController(discoveryService))
	}
}

// cacheService wraps the Redis connection for cache-aside reads. Nil when
// Redis is unavailable; callers degrade to the database.
func (r *Router) cacheService() cache.Service {
	client := r.db.GetRedisClient()
	if client == nil {
		return nil
	}
	return cache.NewService(client)
}

// notificationPublisher wires the Kafka producer when enabled.
func (r *Router) notificationPublisher() bookings.NotificationPublisher {
	if !r.config.Kafka.Enabled {
		return nil
	}

	producerConfig := notifications.DefaultProducerConfig()
	producerConfig.Brokers = r.config.Kafka.Brokers
	producerConfig.Topic = r.config.Kafka.BookingTopic

	producer, err := notifications.NewKafkaProducer(producerConfig)
	if err != nil {
		logger.GetDefault().Error("failed to create notification producer", "error", err)
		return nil
	}
	r.producer = producer

	return notifications.NewBookingPublisher(producer)
}

// setupHealthRoutes sets up health check and system status routes
func (r *Router) setupHealthRoutes(engine *gin.Engine) {
	engine.GET("/health", func(c *gin.Context) {
		if err := r.db.HealthCheck(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":    "unhealthy",
				"error":     err.Error(),
				"timestamp": time.Now(),
				"service":   "gatherly-backend",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now(),
			"service":   "gatherly-backend",
		})
	})

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
			"version": r.config.APIVersion,
		})
	})

	engine.GET("/status", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":      "operational",
			"api_version": r.config.APIVersion,
			"timestamp":   time.Now(),
		})
	})
}
