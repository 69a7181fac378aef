package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/m04kA/SMC-RitualBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-RitualBookingService/internal/app"
	"github.com/m04kA/SMC-RitualBookingService/internal/config"
	"github.com/m04kA/SMC-RitualBookingService/internal/infra/storage/memory"
	"github.com/m04kA/SMC-RitualBookingService/internal/integrations/addressservice"
	"github.com/m04kA/SMC-RitualBookingService/internal/integrations/events"
	"github.com/m04kA/SMC-RitualBookingService/internal/integrations/notifier"
	"github.com/m04kA/SMC-RitualBookingService/internal/integrations/paymentgateway"
	"github.com/m04kA/SMC-RitualBookingService/internal/service/conflicts"
	"github.com/m04kA/SMC-RitualBookingService/internal/service/dispatch"
	"github.com/m04kA/SMC-RitualBookingService/migrations"
	"github.com/m04kA/SMC-RitualBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-RitualBookingService/pkg/logger"
	"github.com/m04kA/SMC-RitualBookingService/pkg/metrics"
	"github.com/m04kA/SMC-RitualBookingService/pkg/migrator"
	"github.com/m04kA/SMC-RitualBookingService/pkg/txmanager"
)

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load("config.toml")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level, cfg.Logs.Development)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting SMC-RitualBookingService...")

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName, prometheus.DefaultRegisterer)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Хранилище
	var storage app.Storage

	switch cfg.Storage.Driver {
	case config.StoragePostgres:
		db := openDatabase(cfg, log)
		defer db.Close()

		if cfg.Storage.MigrateOnBoot {
			runMigrations(db, log)
		}

		if cfg.Metrics.Enabled {
			wrappedDB := dbmetrics.WrapWithDefault(db, metricsCollector, stopMetricsCh)
			storage = app.NewPostgresStorage(wrappedDB, txmanager.NewTransactionManager(wrappedDB))
			log.Info("Database metrics collection started")
		} else {
			storage = app.NewPostgresStorage(db, txmanager.NewTransactionManager(txmanager.Plain(db)))
		}
	default:
		storage = app.NewMemoryStorage(memory.NewStore())
		log.Warn("Using in-memory storage: data is lost on restart")
	}

	// Инициализируем интеграционных клиентов
	var addresses conflicts.AddressResolver = addressservice.Unconfigured{}
	if cfg.AddressService.URL != "" {
		addresses = addressservice.NewClient(
			cfg.AddressService.URL,
			time.Duration(cfg.AddressService.Timeout)*time.Second,
			log,
		)
		log.Info("Address service client initialized (url=%s, timeout=%ds)", cfg.AddressService.URL, cfg.AddressService.Timeout)
	} else {
		log.Warn("Address service is not configured: offline bookings are rejected")
	}

	var notify dispatch.Notifier = notifier.NewLogNotifier(log)
	if cfg.Notifications.Enabled {
		queueClient := asynq.NewClient(asynq.RedisClientOpt{
			Addr: cfg.Notifications.RedisAddr,
			DB:   cfg.Notifications.RedisDB,
		})
		defer queueClient.Close()

		notify = notifier.NewQueueNotifier(queueClient, cfg.Notifications.Queue, cfg.Notifications.MaxRetry, log)
		log.Info("Notification queue initialized (redis=%s, queue=%s)", cfg.Notifications.RedisAddr, cfg.Notifications.Queue)
	}

	var publisher dispatch.EventPublisher = events.NewLogPublisher(log)
	if cfg.Events.Enabled {
		p, err := events.NewPublisher(cfg.Events.URL, cfg.Events.Exchange)
		if err != nil {
			log.Fatal("Failed to connect to RabbitMQ: %v", err)
		}
		defer p.Close()

		publisher = p
		log.Info("Event publisher initialized (exchange=%s)", cfg.Events.Exchange)
	}

	var gateway dispatch.PaymentGateway = paymentgateway.NewLocalGateway(log)
	if cfg.Payments.Provider == config.PaymentsStripe {
		gateway = paymentgateway.NewStripeGateway(cfg.Payments.StripeSecretKey, log)
		log.Info("Stripe payment gateway initialized")
	}

	var limiter *middleware.RateLimiter
	if cfg.RateLimit.Enabled {
		limiter = middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst, time.Duration(cfg.RateLimit.TTL)*time.Second)
		log.Info("Rate limiting enabled (rps=%.1f, burst=%d)", cfg.RateLimit.RPS, cfg.RateLimit.Burst)
	}

	metricsPath := ""
	if cfg.Metrics.Enabled {
		metricsPath = cfg.Metrics.Path
	}

	// Настраиваем роутер
	r := app.NewRouter(app.Deps{
		Storage:         storage,
		Addresses:       addresses,
		Notifier:        notify,
		Publisher:       publisher,
		Gateway:         gateway,
		Metrics:         metricsCollector,
		Logger:          log,
		MetricsPath:     metricsPath,
		Currency:        cfg.Payments.Currency,
		MeetingBaseURL:  cfg.Booking.MeetingBaseURL,
		DispatchTimeout: time.Duration(cfg.Booking.DispatchTimeout) * time.Second,
		RateLimiter:     limiter,
	})

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeoutDuration(),
		WriteTimeout: cfg.Server.WriteTimeoutDuration(),
		IdleTimeout:  cfg.Server.IdleTimeoutDuration(),
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Останавливаем сбор метрик connection pool
	close(stopMetricsCh)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeoutDuration())
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}

func openDatabase(cfg *config.Config, log *logger.Logger) *sql.DB {
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	return db
}

func runMigrations(db *sql.DB, log *logger.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	m, err := migrator.New(db, migrations.FS)
	if err != nil {
		log.Fatal("Failed to initialize migrator: %v", err)
	}
	if err := m.Up(ctx); err != nil {
		log.Fatal("Failed to apply migrations: %v", err)
	}

	version, err := m.Version(ctx)
	if err != nil {
		log.Warn("Failed to read schema version: %v", err)
		return
	}
	log.Info("Database schema is at version %d", version)
}
