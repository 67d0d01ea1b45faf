package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"loan-calculator/config"
	"loan-calculator/events"
	httpLayer "loan-calculator/http"
	"loan-calculator/logging"
	"loan-calculator/repository"
	"loan-calculator/service"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logging.New(logging.DefaultConfig()).Error("Failed to load configuration", logging.FieldError, err)
		os.Exit(1)
	}

	logger := logging.New(logging.Config{
		Level:     logging.ParseLevel(cfg.LogLevel),
		Format:    cfg.LogFormat,
		Component: logging.ComponentApp,
		Output:    os.Stdout,
	})
	logging.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", logging.FieldError, err)
		os.Exit(1)
	}

	loanRepo, closeRepo, err := newLoanRepository(cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize calculation history", logging.FieldError, err, logging.FieldBackend, cfg.HistoryBackend)
		os.Exit(1)
	}
	defer closeRepo()

	cache, closeCache := newCache(cfg, logger)
	defer closeCache()

	publisher, closePublisher := newPublisher(cfg, logger)
	defer closePublisher()

	loanService := service.NewLoanService(loanRepo, publisher, logger)
	termRecommendationService := service.NewTermRecommendationService(logger)
	exportService := service.NewExportService(cache, cfg.CacheTTL, cfg.Form.CurrencySymbol, logger)

	formHandler, err := httpLayer.NewFormHandler(loanService, cfg.Form)
	if err != nil {
		logger.Error("Failed to load templates", logging.FieldError, err)
		os.Exit(1)
	}

	rateLimiter := httpLayer.NewRateLimiter(cfg.RateLimitRequests, cfg.RateLimitWindow)
	defer rateLimiter.Stop()

	mux := httpLayer.NewMux(httpLayer.Handlers{
		Form:               formHandler,
		Loan:               httpLayer.NewLoanHandler(loanService),
		TermRecommendation: httpLayer.NewTermRecommendationHandler(termRecommendationService),
		Chart:              httpLayer.NewChartHandler(cfg.Form),
		Export:             httpLayer.NewExportHandler(exportService, cfg.Form),
	}, rateLimiter)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      logging.Middleware(logger)(mux),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("Loan calculator listening",
			logging.FieldOperation, logging.OpStartup,
			"addr", "http://localhost:"+cfg.Port,
			"history_backend", cfg.HistoryBackend,
			"cache_backend", cfg.CacheBackend,
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		logger.Error("Error starting server", logging.FieldError, err)
		return
	case <-quit:
		logger.Info("Shutting down server...", logging.FieldOperation, logging.OpShutdown)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Error during server shutdown", logging.FieldError, err)
	}

	logger.Info("Server exited")
}

func newLoanRepository(cfg *config.Config, logger *logging.Logger) (repository.LoanRepository, func(), error) {
	storageLogger := logger.WithComponent(logging.ComponentStorage)

	switch cfg.HistoryBackend {
	case "sqlite":
		repo, err := repository.NewSQLiteRepository(cfg.SQLiteDBPath)
		if err != nil {
			return nil, nil, err
		}
		storageLogger.Info("SQLite calculation history ready", "path", cfg.SQLiteDBPath)
		return repo, func() {
			if err := repo.Close(); err != nil {
				storageLogger.Warn("Failed to close SQLite database", logging.FieldError, err)
			}
		}, nil
	case "none":
		return repository.NopLoanRepository{}, func() {}, nil
	default:
		return repository.NewLoanRepositoryMemory(), func() {}, nil
	}
}

// newCache falls back to the in-process cache when Redis is unreachable.
func newCache(cfg *config.Config, logger *logging.Logger) (repository.CacheRepository, func()) {
	cacheLogger := logger.WithComponent(logging.ComponentCache)
	if cfg.CacheBackend != "redis" {
		return repository.NewMemoryCache(), func() {}
	}

	redisCache := repository.NewRedisCache(cfg.RedisAddr)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := redisCache.Ping(ctx); err != nil {
		cacheLogger.Warn("Redis unavailable, using in-memory export cache",
			logging.FieldError, err,
			"addr", cfg.RedisAddr,
		)
		_ = redisCache.Close()
		return repository.NewMemoryCache(), func() {}
	}

	cacheLogger.Info("Redis export cache ready", "addr", cfg.RedisAddr)
	return redisCache, func() {
		if err := redisCache.Close(); err != nil {
			cacheLogger.Warn("Failed to close Redis client", logging.FieldError, err)
		}
	}
}

// newPublisher connects to the broker when AMQP_URL is set. A broker that
// cannot be reached disables publishing instead of stopping the server.
func newPublisher(cfg *config.Config, logger *logging.Logger) (events.Publisher, func()) {
	amqpLogger := logger.WithComponent(logging.ComponentAMQP)
	if cfg.AMQPURL == "" {
		amqpLogger.Info("AMQP disabled - no AMQP_URL provided")
		return events.NopPublisher{}, func() {}
	}

	publisher, err := events.NewAMQPPublisher(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, amqpLogger)
	if err != nil {
		amqpLogger.Warn("Failed to connect to AMQP broker, events disabled", logging.FieldError, err)
		return events.NopPublisher{}, func() {}
	}

	return publisher, func() {
		if err := publisher.Close(); err != nil {
			amqpLogger.Warn("Failed to close AMQP publisher", logging.FieldError, err)
		}
	}
}
