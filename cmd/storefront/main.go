package main

import (
	"context"
	"database/sql"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	_ "github.com/shopnow/storefront/docs"
	"github.com/shopnow/storefront/internal/cart"
	cartHTTP "github.com/shopnow/storefront/internal/cart/delivery/http"
	cartDomain "github.com/shopnow/storefront/internal/cart/domain"
	cartRepo "github.com/shopnow/storefront/internal/cart/repository"
	"github.com/shopnow/storefront/internal/catalog/client"
	catalogHTTP "github.com/shopnow/storefront/internal/catalog/delivery/http"
	catalogDomain "github.com/shopnow/storefront/internal/catalog/domain"
	catalogRepo "github.com/shopnow/storefront/internal/catalog/repository"
	"github.com/shopnow/storefront/internal/events"
	"github.com/shopnow/storefront/pkg/auth"
	"github.com/shopnow/storefront/pkg/database"
	"github.com/shopnow/storefront/pkg/logger"
	"github.com/shopnow/storefront/pkg/tracing"
)

const (
	snapshotTTL  = 30 * 24 * time.Hour
	enrichTTL    = 30 * time.Minute
	sessionTTL   = 30 * 24 * time.Hour
	shutdownWait = 10 * time.Second
)

func main() {
	// Initialize logger
	serviceName := getEnv("OTEL_SERVICE_NAME", "storefront-service")
	isDevelopment := getEnv("ENVIRONMENT", "development") == "development"
	logger.Init(serviceName, isDevelopment)

	logLevel := getEnv("LOG_LEVEL", "info")
	logger.SetLevel(logLevel)

	logger.Logger.Info().
		Str("service", serviceName).
		Str("environment", getEnv("ENVIRONMENT", "development")).
		Str("log_level", logLevel).
		Msg("Starting storefront service")

	// Initialize tracing
	tp, err := tracing.InitTracer(serviceName)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to initialize tracer")
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownWait)
		defer cancel()
		if err := tracing.Shutdown(ctx, tp); err != nil {
			logger.Logger.Error().Err(err).Msg("Failed to shutdown tracer")
		}
	}()

	// Redis is optional; without it carts live in process memory and
	// enrichment is regenerated per process
	redisClient := newRedisClient()

	cartRepository, healthDB := newCartRepository(redisClient)
	ruleRepository := newRuleRepository()

	// Kafka is optional; without it checkout skips event publishing
	var publisher *events.Publisher
	if brokers := getEnv("KAFKA_BROKERS", ""); brokers != "" {
		publisher, err = events.NewPublisher(strings.Split(brokers, ","))
		if err != nil {
			logger.Logger.Fatal().Err(err).Str("brokers", brokers).Msg("Failed to connect to Kafka")
		}
		defer publisher.Close()
		logger.Logger.Info().Str("brokers", brokers).Msg("Kafka producer initialized")
	}

	tokens := auth.NewTokenManager(getEnv("SESSION_SECRET", ""), sessionTTL)

	manager := cart.NewManager(cartRepository, ruleRepository)
	cartHandler := cartHTTP.NewCartHandler(manager, tokens, publisher)

	// Catalog wiring
	gateway := client.NewFakeStoreClient(getEnv("FAKESTORE_BASE_URL", client.DefaultBaseURL))

	var enrichCache catalogDomain.EnrichmentCache
	if redisClient != nil {
		enrichCache = catalogRepo.NewRedisEnrichmentCache(redisClient, enrichTTL)
	}
	rng := newRand()
	enricher := catalogDomain.NewEnricher(rng, enrichCache)
	catalogHandler := catalogHTTP.NewCatalogHandler(gateway, enricher)

	// Start HTTP server
	httpPort := getEnv("HTTP_PORT", "8080")
	go startHTTPServer(cartHandler, catalogHandler, healthDB, httpPort)

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Logger.Info().Msg("Shutting down server...")
}

func newRedisClient() *redis.Client {
	addr := getEnv("REDIS_ADDR", "")
	if addr == "" {
		logger.Logger.Info().Msg("Redis not configured, using in-memory storage")
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Logger.Fatal().Err(err).Str("addr", addr).Msg("Failed to connect to Redis")
	}

	logger.Logger.Info().Str("addr", addr).Msg("Redis connected")
	return client
}

// newCartRepository picks the snapshot store: postgres when CART_BACKEND
// is set to it, then redis, then process memory. The returned *sql.DB is
// non-nil only for postgres and feeds the health check.
func newCartRepository(redisClient *redis.Client) (cartDomain.CartRepository, *sql.DB) {
	if getEnv("CART_BACKEND", "") == "postgres" {
		db, err := database.NewPostgresConnection(postgresConfig())
		if err != nil {
			logger.Logger.Fatal().Err(err).Msg("Failed to connect to database")
		}

		repo := cartRepo.NewPostgresCartRepository(db)
		if err := repo.EnsureSchema(context.Background()); err != nil {
			logger.Logger.Fatal().Err(err).Msg("Failed to create cart schema")
		}

		logger.Logger.Info().Msg("Cart snapshots stored in PostgreSQL")
		return repo, db
	}

	if redisClient != nil {
		logger.Logger.Info().Msg("Cart snapshots stored in Redis")
		return cartRepo.NewRedisCartRepository(redisClient, snapshotTTL), nil
	}

	return cartRepo.NewMemoryCartRepository(), nil
}

// newRuleRepository serves discount rules from postgres when configured,
// falling back to the built-in rule set
func newRuleRepository() cartDomain.RuleRepository {
	if getEnv("RULES_BACKEND", "") != "postgres" {
		return cartRepo.NewStaticRuleRepository(cartDomain.DefaultDiscountRules())
	}

	db, err := database.NewGormConnection(postgresConfig())
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to connect to database")
	}

	repo, err := cartRepo.NewGormRuleRepository(db)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to initialize discount rules")
	}

	logger.Logger.Info().Msg("Discount rules served from PostgreSQL")
	return repo
}

func postgresConfig() database.Config {
	return database.Config{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     getEnv("DB_PORT", "5432"),
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", "postgres"),
		DBName:   getEnv("DB_NAME", "storefrontdb"),
		SSLMode:  getEnv("DB_SSLMODE", "disable"),
	}
}

// newRand builds the enrichment source, seedable for reproducible runs
func newRand() *rand.Rand {
	seed := time.Now().UnixNano()
	if v := getEnv("ENRICHMENT_SEED", ""); v != "" {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			seed = parsed
		}
	}
	return rand.New(rand.NewSource(seed))
}

func startHTTPServer(cartHandler *cartHTTP.CartHandler, catalogHandler *catalogHTTP.CatalogHandler, db *sql.DB, port string) {
	// Setup router
	router := mux.NewRouter()

	// Register routes
	cartHandler.RegisterRoutes(router)
	catalogHandler.RegisterRoutes(router)

	// Health check endpoint
	cartHandler.RegisterHealthCheck(router, db)

	// Swagger documentation
	catalogHTTP.RegisterSwaggerDocs(router, httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	// Prometheus metrics endpoint
	router.Handle("/metrics", promhttp.Handler())

	// CORS middleware
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})

	logger.Logger.Info().
		Str("port", port).
		Str("metrics_endpoint", "/metrics").
		Str("swagger_endpoint", "/swagger/index.html").
		Msg("HTTP server started")

	if err := http.ListenAndServe(":"+port, c.Handler(router)); err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to start HTTP server")
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
