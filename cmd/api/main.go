package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/logistics-platform/shipment-engine/internal/api/handlers"
	"github.com/logistics-platform/shipment-engine/internal/application"
	"github.com/logistics-platform/shipment-engine/internal/domain"
	"github.com/logistics-platform/shipment-engine/internal/events"
	"github.com/logistics-platform/shipment-engine/internal/infrastructure/carriers"
	"github.com/logistics-platform/shipment-engine/internal/infrastructure/courier"
	"github.com/logistics-platform/shipment-engine/internal/infrastructure/mongodb"
	"github.com/logistics-platform/shipment-engine/internal/infrastructure/pricing"
	"github.com/logistics-platform/shipment-engine/pkg/logging"
	"github.com/logistics-platform/shipment-engine/pkg/metrics"
	"github.com/logistics-platform/shipment-engine/pkg/middleware"
)

const serviceName = "shipment-engine"

func main() {
	// Setup enhanced logger
	logConfig := logging.DefaultConfig(serviceName)
	logConfig.Level = logging.LogLevel(getEnv("LOG_LEVEL", "info"))
	logger := logging.New(logConfig)
	logger.SetDefault()

	logger.Info("Starting shipment-engine API")

	// Load configuration
	config := loadConfig()
	ctx := context.Background()

	// Initialize Prometheus metrics
	metricsConfig := metrics.DefaultConfig(serviceName)
	m := metrics.New(metricsConfig)
	logger.Info("Metrics initialized")

	// Initialize MongoDB
	mongoClient, err := mongodb.NewClient(ctx, config.MongoDB)
	if err != nil {
		logger.WithError(err).Error("Failed to connect to MongoDB")
		os.Exit(1)
	}
	defer mongoClient.Close(ctx)
	logger.Info("Connected to MongoDB", "database", config.MongoDB.Database)

	// Initialize event publisher
	var publisher domain.EventPublisher = events.NoopPublisher{}
	if config.KafkaEnabled {
		kafkaPublisher := events.NewKafkaPublisher(config.Kafka, "/"+serviceName, logger, m)
		defer kafkaPublisher.Close()
		publisher = kafkaPublisher
		logger.Info("Kafka publisher initialized", "brokers", config.Kafka.Brokers, "topic", config.Kafka.Topic)
	} else {
		logger.Warn("Kafka disabled, events will be discarded")
	}

	// Initialize carrier adapter. Without credentials the gateway serves
	// synthetic AWBs only.
	var adapter domain.CarrierAdapter
	if config.DelhiveryAPIKey != "" {
		adapter = carriers.NewDelhiveryAdapter(
			config.DelhiveryAPIKey,
			config.DelhiveryClientName,
			config.DelhiveryBaseURL,
			config.DelhiveryPickupName,
		)
		logger.Info("Delhivery adapter initialized", "base_url", config.DelhiveryBaseURL)
	} else {
		logger.Warn("No carrier credentials configured, running in fallback mode")
	}

	gateway := courier.NewGateway(adapter, courier.Config{FallbackMode: config.CourierFallbackMode}, logger, m)

	// Initialize repositories
	db := mongoClient.Database()
	overrideRepo := mongodb.NewPricingOverrideRepository(db)
	globalConfigRepo := mongodb.NewGlobalConfigRepository(db)
	shipmentRepo := mongodb.NewShipmentRepository(db)
	partyRepo := mongodb.NewPartyRepository(db)

	resolver := pricing.NewResolver(overrideRepo, globalConfigRepo, logger, m)

	// Initialize application service
	shipmentService := application.NewShipmentService(
		partyRepo,
		resolver,
		gateway,
		shipmentRepo,
		application.NewFixedWeightEstimator(),
		application.NewPincodePrefixRemoteChecker(),
		publisher,
		logger,
		m,
	)

	// Setup Gin router with middleware
	router := gin.New()

	// Apply standard middleware (includes recovery, request ID, correlation, logging, error handling)
	middlewareConfig := middleware.DefaultConfig(serviceName, logger.Logger)
	middleware.Setup(router, middlewareConfig)

	// Add metrics middleware
	router.Use(middleware.MetricsMiddleware(m))

	// Handle 404 and 405 errors
	router.NoRoute(middleware.NoRoute())
	router.NoMethod(middleware.NoMethod())

	// Health check endpoints
	router.GET("/health", middleware.HealthCheck(serviceName))
	router.GET("/ready", middleware.ReadinessCheck(serviceName, func() error {
		return mongoClient.HealthCheck(ctx)
	}))

	// Metrics endpoint
	router.GET("/metrics", middleware.MetricsEndpoint(m))

	// API v1 routes
	handler := handlers.NewShipmentHandler(shipmentService, logger)
	handler.RegisterRoutes(router)

	// Start server
	srv := &http.Server{
		Addr:         config.ServerAddr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	// Graceful shutdown
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Server error", "error", err)
		}
	}()
	logger.Info("Server started", "addr", config.ServerAddr)

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	logger.Info("Server stopped")
}

// Config holds application configuration
type Config struct {
	ServerAddr string
	MongoDB    *mongodb.Config
	Kafka      *events.Config

	KafkaEnabled bool

	DelhiveryAPIKey     string
	DelhiveryClientName string
	DelhiveryBaseURL    string
	DelhiveryPickupName string

	CourierFallbackMode bool
}

func loadConfig() *Config {
	return &Config{
		ServerAddr: getEnv("SERVER_ADDR", ":8080"),
		MongoDB: &mongodb.Config{
			URI:            getEnv("MONGODB_URI", "mongodb://localhost:27017"),
			Database:       getEnv("MONGODB_DATABASE", "shipment_engine"),
			ConnectTimeout: 10 * time.Second,
			MaxPoolSize:    100,
			MinPoolSize:    10,
		},
		Kafka: &events.Config{
			Brokers:      strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092"), ","),
			Topic:        getEnv("KAFKA_TOPIC", "logistics.shipments"),
			BatchSize:    100,
			BatchTimeout: 10 * time.Millisecond,
		},
		KafkaEnabled: getEnv("KAFKA_ENABLED", "true") == "true",

		DelhiveryAPIKey:     getEnv("DELHIVERY_API_KEY", ""),
		DelhiveryClientName: getEnv("DELHIVERY_CLIENT_NAME", "LOGISTICS-B2B"),
		DelhiveryBaseURL:    getEnv("DELHIVERY_BASE_URL", "https://track.delhivery.com"),
		DelhiveryPickupName: getEnv("DELHIVERY_PICKUP_NAME", "Central Warehouse"),

		CourierFallbackMode: getEnv("COURIER_FALLBACK_MODE", "false") == "true",
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
