package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pr-poehali-dev/leopard-bag-project/config"
	"github.com/pr-poehali-dev/leopard-bag-project/internal/api"
	"github.com/pr-poehali-dev/leopard-bag-project/internal/broker"
	"github.com/pr-poehali-dev/leopard-bag-project/internal/catalog"
	"github.com/pr-poehali-dev/leopard-bag-project/internal/models"
	"github.com/pr-poehali-dev/leopard-bag-project/internal/notify"
	"github.com/pr-poehali-dev/leopard-bag-project/internal/redisclient"
	"github.com/pr-poehali-dev/leopard-bag-project/internal/service"
	"github.com/pr-poehali-dev/leopard-bag-project/internal/session"
	"github.com/pr-poehali-dev/leopard-bag-project/internal/store"
	"github.com/pr-poehali-dev/leopard-bag-project/internal/util"
	"github.com/pr-poehali-dev/leopard-bag-project/internal/worker"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {

	cfg := config.Load()

	if err := util.InitLogger(cfg.Server.Env, cfg.Server.LogLevel); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer util.SyncLogger()

	logger := util.GetLogger()
	logger.Info("Starting page service")

	tp, err := util.InitTracer(util.ServiceName, cfg.Observ.JaegerEndpoint)
	if err != nil {
		logger.Fatal("Failed to initialize tracer", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(ctx); err != nil {
			logger.Warn("Error shutting down tracer", zap.Error(err))
		}
	}()

	ctx := context.Background()
	readiness := make(map[string]api.ReadinessCheck)

	var db *store.Store
	if cfg.Database.URL != "" {
		db, err = store.NewStore(cfg.Database.URL)
		if err != nil {
			logger.Fatal("Failed to connect to database", zap.Error(err))
		}
		defer db.Close()

		if err := db.Migrate(ctx); err != nil {
			logger.Fatal("Failed to migrate database", zap.Error(err))
		}
		readiness["postgres"] = func() error { return db.GetDB().Ping() }
		logger.Info("Database connected")
	}

	products, projects, err := loadCatalogs(ctx, cfg, db, logger)
	if err != nil {
		logger.Fatal("Failed to build catalogs", zap.Error(err))
	}

	var idempotency service.IdempotencyStore
	if cfg.Redis.Addr != "" {
		redisClient, err := redisclient.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			logger.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer redisClient.Close()

		idempotency = redisClient
		readiness["redis"] = func() error {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return redisClient.Ping(ctx)
		}
		logger.Info("Redis connected")
	}

	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()

	var (
		submissions     service.EventPublisher
		notifications   service.NotificationPublisher
		submissionsWork *worker.SubmissionWorker
	)
	if len(cfg.Kafka.Brokers) > 0 {
		producer := broker.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.TopicEvents)
		defer producer.Close()

		eventPublisher := broker.NewEventPublisher(producer)
		submissions = eventPublisher
		notifications = eventPublisher
		logger.Info("Kafka producer initialized", zap.Strings("brokers", cfg.Kafka.Brokers))

		if db != nil {
			consumer := broker.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.TopicEvents, cfg.Kafka.ConsumerGroup)
			submissionsWork = worker.NewSubmissionWorker(consumer, service.NewInboxService(db))
			go func() {
				if err := submissionsWork.Start(workerCtx); err != nil && workerCtx.Err() == nil {
					logger.Error("Submission worker error", zap.Error(err))
				}
			}()
		}
	}

	hub := notify.NewHub()
	registry := session.NewRegistry(products, projects, catalog.Skills,
		session.WithSinks(service.NotificationSinks(hub, notifications)),
		session.WithIdleTTL(cfg.Session.IdleTTL),
		session.OnExpire(hub.CloseSession),
	)
	go func() {
		_ = registry.Run(workerCtx, cfg.Session.SweepInterval)
	}()

	pageService := service.NewPageService(registry, submissions, idempotency, cfg.Redis.IdempotencyTTL)

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Logger())
	handler := api.NewHandler(pageService, hub, cfg.CORS.AllowOrigins)
	if db != nil {
		handler.SetSubmissionLister(db)
	}
	for name, check := range readiness {
		handler.AddReadinessCheck(name, check)
	}
	handler.SetupRoutes(router)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		logger.Info("Starting HTTP server", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("Server forced to shutdown", zap.Error(err))
	}

	workerCancel()
	if submissionsWork != nil {
		if err := submissionsWork.Stop(); err != nil {
			logger.Warn("Error stopping submission worker", zap.Error(err))
		}
	}

	logger.Info("Server exited")
}

// loadCatalogs builds the storefront and portfolio catalogs. Pages flagged
// for the database are seeded with the built-in records and then read back;
// an empty table falls back to the built-in records.
func loadCatalogs(
	ctx context.Context,
	cfg *config.Config,
	db *store.Store,
	logger *zap.Logger,
) (*catalog.Catalog[models.Product], *catalog.Catalog[models.Project], error) {
	productRecords := catalog.Products
	projectRecords := catalog.Projects

	if db != nil && cfg.Database.SeedCatalog {
		if err := db.SeedProducts(ctx, catalog.Products); err != nil {
			return nil, nil, fmt.Errorf("failed to seed products: %w", err)
		}
		loaded, err := db.GetProducts(ctx)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to load products: %w", err)
		}
		if len(loaded) > 0 {
			productRecords = loaded
		}
		logger.Info("Product catalog loaded from database", zap.Int("count", len(productRecords)))
	}

	if db != nil && cfg.Database.SeedPortfolio {
		if err := db.SeedProjects(ctx, catalog.Projects); err != nil {
			return nil, nil, fmt.Errorf("failed to seed projects: %w", err)
		}
		loaded, err := db.GetProjects(ctx)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to load projects: %w", err)
		}
		if len(loaded) > 0 {
			projectRecords = loaded
		}
		logger.Info("Portfolio loaded from database", zap.Int("count", len(projectRecords)))
	}

	products, err := catalog.New(catalog.StoreSentinel, productRecords)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid product catalog: %w", err)
	}
	projects, err := catalog.New(catalog.PortfolioSentinel, projectRecords)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid portfolio: %w", err)
	}
	return products, projects, nil
}
