package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taskmaster/auth-service/internal/auth"
	"github.com/taskmaster/auth-service/internal/config"
	"github.com/taskmaster/auth-service/internal/event"
	handler "github.com/taskmaster/auth-service/internal/handler/http"
	"github.com/taskmaster/auth-service/internal/lockout"
	"github.com/taskmaster/auth-service/internal/mailer"
	"github.com/taskmaster/auth-service/internal/password"
	"github.com/taskmaster/auth-service/internal/repository/postgres"
	"github.com/taskmaster/auth-service/internal/service"
	"github.com/taskmaster/auth-service/migrations"
	"github.com/taskmaster/auth-service/pkg/database"
	"github.com/taskmaster/auth-service/pkg/health"
	pkgkafka "github.com/taskmaster/auth-service/pkg/kafka"
)

// App wires together all dependencies and runs the auth service.
type App struct {
	cfg        *config.Config
	logger     *slog.Logger
	pool       *pgxpool.Pool
	producer   *pkgkafka.Producer
	httpServer *http.Server
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// PostgreSQL connection pool.
	pgCfg := database.PostgresConfig{
		Host:     cfg.PostgresHost,
		Port:     cfg.PostgresPort,
		User:     cfg.PostgresUser,
		Password: cfg.PostgresPass,
		DBName:   cfg.PostgresDB,
		SSLMode:  cfg.PostgresSSL,
	}

	pool, err := database.NewPostgresPool(ctx, &pgCfg, logger)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	logger.Info("connected to PostgreSQL",
		slog.String("host", cfg.PostgresHost),
		slog.Int("port", cfg.PostgresPort),
		slog.String("database", cfg.PostgresDB),
	)

	if err := database.RunMigrations(ctx, pool, migrations.FS, logger); err != nil {
		pool.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	logger.Info("database migrations completed")

	// Kafka producer, shared by the mailer and the event stream.
	producer := pkgkafka.NewProducer(pkgkafka.DefaultProducerConfig(cfg.KafkaBrokers), logger)
	logger.Info("kafka producer initialized", slog.Any("brokers", cfg.KafkaBrokers))

	// Build the dependency graph.
	jwtManager := auth.NewJWTManager(cfg.JWTAccessSecret, cfg.JWTRefreshSecret, cfg.JWTAccessExpiry, cfg.JWTRefreshExpiry)
	accountRepo := postgres.NewAccountRepository(pool)
	eventProducer := event.NewProducer(producer, cfg.AuthEventsTopic, logger)
	kafkaMailer := mailer.NewKafkaMailer(producer, cfg.EmailTopic, logger)

	accountService := service.NewAccountService(service.Params{
		Repo:                 accountRepo,
		Hasher:               password.NewHasher(),
		JWT:                  jwtManager,
		Lockout:              lockout.NewPolicy(cfg.LockoutThreshold, cfg.LockoutDuration),
		Mailer:               kafkaMailer,
		Producer:             eventProducer,
		Logger:               logger,
		ClientURL:            cfg.ClientURL,
		LockoutDuration:      cfg.LockoutDuration,
		ResetTokenTTL:        cfg.ResetTokenTTL,
		VerificationTokenTTL: cfg.VerificationTokenTTL,
	})

	// Health checks.
	healthHandler := health.NewHandler()
	healthHandler.Register("postgres", func(ctx context.Context) error {
		return pool.Ping(ctx)
	})
	healthHandler.Register("kafka", func(ctx context.Context) error {
		return producer.Ping(ctx)
	})

	secureCookies := cfg.Environment != "development"
	authHandler := handler.NewAuthHandler(accountService, cfg.JWTRefreshExpiry, secureCookies, logger)

	// Federated login stays off unless a Google client ID is configured.
	var oauthHandler *handler.OAuthHandler
	if cfg.GoogleClientID != "" {
		verifier, err := auth.NewGoogleVerifier(ctx, cfg.GoogleClientID)
		if err != nil {
			pool.Close()
			return nil, fmt.Errorf("init google verifier: %w", err)
		}
		oauthHandler = handler.NewOAuthHandler(accountService, verifier, authHandler, logger)
		logger.Info("google federated login enabled")
	}

	router := handler.NewRouter(handler.RouterConfig{
		Auth:   authHandler,
		OAuth:  oauthHandler,
		JWT:    jwtManager,
		Health: healthHandler,
		Logger: logger,
		CORS: handler.CORSConfig{
			AllowedOrigins: cfg.CORSAllowedOrigins,
			Environment:    cfg.Environment,
		},
	})

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return &App{
		cfg:        cfg,
		logger:     logger,
		pool:       pool,
		producer:   producer,
		httpServer: httpServer,
	}, nil
}

// Run starts the HTTP server and blocks until the context is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("starting HTTP server", slog.String("addr", a.httpServer.Addr))
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		return err
	}

	return a.Shutdown()
}

// Shutdown gracefully stops all components in the correct order:
// 1. HTTP server (drain in-flight requests)
// 2. Kafka producer (flush pending messages)
// 3. PostgreSQL pool
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	var errs []error

	httpCtx, httpCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer httpCancel()
	if err := a.httpServer.Shutdown(httpCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
		errs = append(errs, err)
	}

	if err := a.producer.Close(); err != nil {
		a.logger.Error("kafka producer close error", slog.String("error", err.Error()))
		errs = append(errs, err)
	}

	a.pool.Close()

	a.logger.Info("application shutdown complete")
	return errors.Join(errs...)
}
