package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	cartapp "github.com/multimart/backend/internal/application/cart"
	catalogapp "github.com/multimart/backend/internal/application/catalog"
	eventapp "github.com/multimart/backend/internal/application/event"
	orderapp "github.com/multimart/backend/internal/application/order"
	"github.com/multimart/backend/internal/domain/pricing"
	"github.com/multimart/backend/internal/domain/shared"
	"github.com/multimart/backend/internal/domain/shared/valueobject"
	"github.com/multimart/backend/internal/infrastructure/auth"
	"github.com/multimart/backend/internal/infrastructure/cache"
	"github.com/multimart/backend/internal/infrastructure/config"
	"github.com/multimart/backend/internal/infrastructure/event"
	"github.com/multimart/backend/internal/infrastructure/logger"
	"github.com/multimart/backend/internal/infrastructure/persistence"
	"github.com/multimart/backend/internal/infrastructure/telemetry"
	"github.com/multimart/backend/internal/interfaces/http/handler"
	"github.com/multimart/backend/internal/interfaces/http/middleware"
	"github.com/multimart/backend/internal/interfaces/http/router"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

//	@title			MultiMart Storefront API
//	@version		1.0
//	@description	Cart, checkout and fulfillment core of the MultiMart marketplace
//	@BasePath		/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	baseLog, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
		Service:    cfg.App.Name,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}

	ctx := context.Background()

	// Telemetry comes first so the bridged logger is used everywhere after
	tracerProvider, err := telemetry.NewTracerProvider(ctx, cfg.Telemetry, baseLog)
	if err != nil {
		baseLog.Fatal("Failed to initialize tracing", zap.Error(err))
	}
	meterProvider, err := telemetry.NewMeterProvider(ctx, cfg.Telemetry, baseLog)
	if err != nil {
		baseLog.Fatal("Failed to initialize metrics", zap.Error(err))
	}
	loggerProvider, err := telemetry.NewLoggerProvider(ctx, cfg.Telemetry, baseLog)
	if err != nil {
		baseLog.Fatal("Failed to initialize log export", zap.Error(err))
	}
	log := loggerProvider.Bridge(baseLog, cfg.Telemetry.ServiceName, zapcore.InfoLevel)
	defer func() {
		_ = logger.Sync(log)
	}()

	profiler, err := telemetry.NewProfiler(cfg.Telemetry, log)
	if err != nil {
		log.Warn("Continuous profiling unavailable", zap.Error(err))
	} else if profiler.IsEnabled() {
		tracerProvider.EnableSpanProfiles()
	}

	log.Info("Starting MultiMart backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level),
		logger.WithFullSQL(cfg.Telemetry.DBLogFullSQL),
		logger.WithSlowThreshold(cfg.Telemetry.DBSlowQueryThresh),
	)
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	log.Info("Database connected successfully")

	if cfg.Telemetry.DBTraceEnabled {
		dbTracer := telemetry.NewDBTracer(telemetry.DBTracingConfig{
			DBName:             cfg.Database.DBName,
			IncludeVariables:   cfg.Telemetry.DBLogFullSQL,
			SlowQueryThreshold: cfg.Telemetry.DBSlowQueryThresh,
			TracerProvider:     otel.GetTracerProvider(),
		}, log)
		if err := dbTracer.Register(db.DB); err != nil {
			log.Warn("Failed to register database tracing", zap.Error(err))
		}
	}

	stores := cache.NewStores(ctx, cfg.Redis, log)

	// Event plumbing: events are written to the outbox inside the business
	// transaction and relayed to the broker and the in-process bus afterwards
	eventSerializer := event.NewEventSerializer()
	event.RegisterAllEvents(eventSerializer)
	outboxPublisher := event.NewOutboxPublisher(eventSerializer)
	outboxRepo := event.NewGormOutboxRepository(db.DB)
	eventBus := event.NewInMemoryEventBus(log)

	userRepo := persistence.NewGormUserRepository(db.DB)
	addressRepo := persistence.NewGormAddressRepository(db.DB)
	vendorRepo := persistence.NewGormVendorRepository(db.DB)
	categoryRepo := persistence.NewGormCategoryRepository(db.DB)
	productRepo := persistence.NewGormProductRepository(db.DB)
	cartRepo := persistence.NewGormCartRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	txScope := persistence.NewGormTransactionScope(db.DB, outboxPublisher)

	calculator := pricing.NewCalculator(pricingPolicy(cfg.Pricing), pricing.StaticCouponResolver(cfg.Pricing.Coupons))

	businessMetrics, err := telemetry.NewBusinessMetrics(meterProvider.Meter("multimart/business"), log)
	if err != nil {
		log.Fatal("Failed to create business metrics", zap.Error(err))
	}
	if err := telemetry.RegisterOutboxGauge(meterProvider.Meter("multimart/outbox"), outboxRepo, log); err != nil {
		log.Warn("Failed to register outbox gauge", zap.Error(err))
	}

	cartService := cartapp.NewService(cartRepo, productRepo, vendorRepo, userRepo, txScope, calculator)
	cartService.SetMetrics(businessMetrics)
	cartService.SetLogger(log.Named("cart"))

	checkoutService := orderapp.NewCheckoutService(userRepo, addressRepo, productRepo, vendorRepo, cartRepo, txScope, calculator)
	checkoutService.SetMetrics(businessMetrics)
	checkoutService.SetLogger(log.Named("checkout"))

	fulfillmentService := orderapp.NewFulfillmentService(orderRepo, userRepo, vendorRepo, txScope)
	fulfillmentService.SetMetrics(businessMetrics)
	fulfillmentService.SetLogger(log.Named("fulfillment"))

	productService := catalogapp.NewProductService(vendorRepo, categoryRepo, productRepo, txScope)
	productService.SetLogger(log.Named("catalog"))

	outboxService := eventapp.NewOutboxService(outboxRepo, log)

	if stores.CartCache != nil {
		cartService.SetCache(stores.CartCache)
		checkoutService.SetCartCache(cartService)

		// Relayed events evict carts touched by another replica or a vendor product change
		evictions := event.NewIdempotentHandler(
			cartapp.NewCacheEvictionHandler(stores.CartCache),
			stores.Idempotency,
			shared.IdempotencyConfig{TTL: cfg.Event.IdempotencyTTL, Enabled: true},
			log,
		)
		eventBus.Subscribe(evictions)
		log.Info("Event handlers registered", zap.Strings("cart_cache_eviction_events", evictions.EventTypes()))
	}

	if err := eventBus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}

	var broker event.Broker
	var kafkaPublisher *event.KafkaPublisher
	if cfg.Event.Kafka.Enabled {
		kafkaPublisher = event.NewKafkaPublisher(event.NewKafkaWriter(cfg.Event.Kafka), cfg.Event.Kafka, log)
		broker = kafkaPublisher
		log.Info("Kafka relay enabled",
			zap.Strings("brokers", cfg.Event.Kafka.Brokers),
			zap.String("topic", cfg.Event.Kafka.Topic),
		)
	}

	var outboxProcessor *event.OutboxProcessor
	if cfg.Event.ProcessorEnabled {
		processorConfig := event.OutboxProcessorConfigFrom(cfg.Event)
		outboxProcessor = event.NewOutboxProcessor(outboxRepo, eventBus, broker, eventSerializer, processorConfig, log)
		if err := outboxProcessor.Start(ctx); err != nil {
			log.Fatal("Failed to start outbox processor", zap.Error(err))
		}
		log.Info("Outbox processor started",
			zap.Int("batch_size", processorConfig.BatchSize),
			zap.Duration("poll_interval", processorConfig.PollInterval),
		)
	}

	authConfig := middleware.AuthConfig{
		JWT:               auth.NewJWTService(cfg.JWT),
		AllowUserIDHeader: cfg.HTTP.AllowUserIDHeader && cfg.App.Env != "production",
		Logger:            log,
	}
	var rateLimiter middleware.Limiter
	if stores.Client != nil {
		authConfig.Revocations = auth.NewRedisRevocationList(stores.Client)
		rateLimiter = middleware.NewRedisRateLimiter(stores.Client, cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
	}
	if authConfig.AllowUserIDHeader {
		log.Warn("X-User-ID header authentication is enabled")
	}

	middleware.SetupValidator()

	mode := gin.DebugMode
	if cfg.App.Env == "production" {
		mode = gin.ReleaseMode
	}
	engine, err := router.NewEngine(router.EngineConfig{
		Mode:           mode,
		ServiceName:    cfg.Telemetry.ServiceName,
		HTTP:           cfg.HTTP,
		Logger:         log,
		TracerProvider: otel.GetTracerProvider(),
		Meter:          meterProvider.Meter("multimart/http"),
		RateLimiter:    rateLimiter,
	})
	if err != nil {
		log.Fatal("Failed to build HTTP engine", zap.Error(err))
	}

	checks := map[string]handler.HealthCheck{"database": db.Ping}
	if stores.Client != nil {
		checks["redis"] = func(ctx context.Context) error {
			return stores.Client.Ping(ctx).Err()
		}
	}

	r := router.NewRouter(engine, router.WithAuth(middleware.Authenticate(authConfig)))
	r.RegisterPublic(handler.NewHealthHandler(checks)).
		Register(handler.NewCartHandler(cartService)).
		Register(handler.NewOrderHandler(checkoutService, fulfillmentService)).
		Register(handler.NewVendorHandler(fulfillmentService, productService)).
		Register(handler.NewOutboxHandler(outboxService))
	r.Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Stop accepting requests before draining the relay so no new outbox rows
	// are written behind the processor's back
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if outboxProcessor != nil {
		if err := outboxProcessor.Stop(shutdownCtx); err != nil {
			log.Error("Error stopping outbox processor", zap.Error(err))
		}
	}
	if kafkaPublisher != nil {
		if err := kafkaPublisher.Close(); err != nil {
			log.Error("Error closing Kafka publisher", zap.Error(err))
		}
	}
	if err := eventBus.Stop(shutdownCtx); err != nil {
		log.Error("Error stopping event bus", zap.Error(err))
	}
	if err := stores.Close(); err != nil {
		log.Error("Error closing redis", zap.Error(err))
	}
	if err := db.Close(); err != nil {
		log.Error("Error closing database", zap.Error(err))
	}
	if profiler != nil {
		if err := profiler.Stop(); err != nil {
			log.Error("Error stopping profiler", zap.Error(err))
		}
	}
	if err := meterProvider.Shutdown(shutdownCtx); err != nil {
		log.Error("Error shutting down meter provider", zap.Error(err))
	}
	if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
		log.Error("Error shutting down tracer provider", zap.Error(err))
	}
	if err := loggerProvider.Shutdown(shutdownCtx); err != nil {
		baseLog.Error("Error shutting down logger provider", zap.Error(err))
	}

	baseLog.Info("Server exited gracefully")
}

// pricingPolicy maps the pricing section onto the calculator policy, keeping
// defaults for anything left unset
func pricingPolicy(cfg config.PricingConfig) pricing.Policy {
	policy := pricing.DefaultPolicy()
	if !cfg.TaxRate.IsZero() {
		policy.TaxRate = cfg.TaxRate
	}
	if !cfg.FreeShippingThreshold.IsZero() {
		policy.FreeShippingThreshold = cfg.FreeShippingThreshold
	}
	if !cfg.FlatShippingFee.IsZero() {
		policy.FlatShippingFee = cfg.FlatShippingFee
	}
	if cfg.Currency != "" {
		policy.Currency = valueobject.Currency(strings.ToUpper(cfg.Currency))
	}
	return policy
}
