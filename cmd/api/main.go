package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dafibh/spendwise/spendwise-backend/internal/auth"
	"github.com/dafibh/spendwise/spendwise-backend/internal/broker"
	"github.com/dafibh/spendwise/spendwise-backend/internal/config"
	"github.com/dafibh/spendwise/spendwise-backend/internal/email"
	"github.com/dafibh/spendwise/spendwise-backend/internal/handler"
	"github.com/dafibh/spendwise/spendwise-backend/internal/middleware"
	"github.com/dafibh/spendwise/spendwise-backend/internal/repository/postgres"
	"github.com/dafibh/spendwise/spendwise-backend/internal/repository/storage"
	"github.com/dafibh/spendwise/spendwise-backend/internal/service"
	"github.com/dafibh/spendwise/spendwise-backend/internal/websocket"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	echoSwagger "github.com/swaggo/echo-swagger"

	// User timezones resolve even on hosts without a zoneinfo database
	_ "time/tzdata"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if os.Getenv("ENV") != "production" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	if err := postgres.RunMigrations(cfg.DatabaseURL); err != nil {
		log.Fatal().Err(err).Msg("Failed to run migrations")
	}

	pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer pool.Close()

	if err := pool.Ping(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to ping database")
	}
	log.Info().Msg("Connected to database")

	// Repositories
	userRepo := postgres.NewUserRepository(pool)
	categoryRepo := postgres.NewCategoryRepository(pool)
	transactionRepo := postgres.NewTransactionRepository(pool)
	resetRepo := postgres.NewPasswordResetRepository(pool)

	// Realtime events go to connected sockets and, when configured, to the broker
	hub := websocket.NewHub()
	publishers := websocket.MultiPublisher{hub}
	if cfg.AMQP.Enabled() {
		amqpPublisher, err := broker.NewPublisher(cfg.AMQP.URL, cfg.AMQP.Exchange)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to message broker")
		}
		defer amqpPublisher.Close()
		publishers = append(publishers, amqpPublisher)
		log.Info().Str("exchange", cfg.AMQP.Exchange).Msg("Forwarding events to AMQP")
	}

	var mailer service.Mailer = email.LogMailer{}
	if cfg.SMTP.Enabled() {
		mailer = email.NewSMTPMailer(cfg.SMTP)
	} else {
		log.Warn().Msg("SMTP not configured, emails will only be logged")
	}

	var receiptStore storage.ReceiptStore
	if cfg.S3.Enabled() {
		store, err := storage.NewS3ReceiptStore(context.Background(), cfg.S3)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize receipt storage")
		}
		receiptStore = store
		log.Info().Str("bucket", cfg.S3.Bucket).Msg("Receipt storage enabled")
	} else {
		log.Warn().Msg("S3 not configured, receipt uploads are disabled")
	}

	// Auth
	tokenValidator, err := auth.NewValidator(cfg.JWT)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create token validator")
	}
	tokenIssuer := auth.NewTokenIssuer(cfg.JWT)
	authMiddleware := middleware.NewAuthMiddleware(tokenValidator)
	authLimiter := middleware.NewRateLimiter(cfg.RateLimit.PerMinute, cfg.RateLimit.Burst)
	defer authLimiter.Stop()

	// Services
	authService := service.NewAuthService(userRepo, resetRepo, tokenIssuer, mailer, cfg.AppURL)
	profileService := service.NewProfileService(userRepo)
	profileService.SetEventPublisher(publishers)
	categoryService := service.NewCategoryService(categoryRepo)
	transactionService := service.NewTransactionService(transactionRepo, categoryRepo, userRepo)
	transactionService.SetEventPublisher(publishers)
	receiptService := service.NewReceiptService(transactionRepo, receiptStore)
	receiptService.SetEventPublisher(publishers)
	dashboardService := service.NewDashboardService(userRepo, transactionRepo, categoryRepo)

	cleanupWorker, err := service.NewCleanupWorker(authService, log.Logger, service.DefaultCleanupSchedule)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create cleanup worker")
	}
	if err := cleanupWorker.Start(); err != nil {
		log.Fatal().Err(err).Msg("Failed to start cleanup worker")
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		AllowCredentials: true,
		MaxAge:           86400,
	}))
	e.Use(echomiddleware.SecureWithConfig(echomiddleware.SecureConfig{
		XSSProtection:      "1; mode=block",
		ContentTypeNosniff: "nosniff",
		XFrameOptions:      "DENY",
		HSTSMaxAge:         31536000,
		ReferrerPolicy:     "strict-origin-when-cross-origin",
	}))
	e.Use(requestLogger())
	e.Use(echomiddleware.Recover())

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	e.GET("/swagger/*", echoSwagger.WrapHandler)
	e.GET("/openapi.json", handler.ServeOpenAPI([]handler.OpenAPIServer{
		{URL: cfg.APIURL + "/api/v1", Description: cfg.Env},
	}))

	handler.RegisterRoutes(e, authMiddleware, authLimiter, handler.Handlers{
		Auth:        handler.NewAuthHandler(authService),
		Profile:     handler.NewProfileHandler(profileService),
		Transaction: handler.NewTransactionHandler(transactionService),
		Category:    handler.NewCategoryHandler(categoryService),
		Receipt:     handler.NewReceiptHandler(receiptService),
		Dashboard:   handler.NewDashboardHandler(dashboardService),
		WebSocket:   handler.NewWebSocketHandler(hub, websocket.NewJWTValidator(tokenValidator), cfg.CORSOrigins),
	})

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("Starting server")
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")
	cleanupWorker.Stop()
	hub.Shutdown()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

// requestLogger logs one line per request with zerolog
func requestLogger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			if err := next(c); err != nil {
				c.Error(err)
			}

			req := c.Request()
			res := c.Response()

			event := log.Info()
			if res.Status >= http.StatusInternalServerError {
				event = log.Error()
			}
			event.
				Str("method", req.Method).
				Str("path", req.URL.Path).
				Int("status", res.Status).
				Dur("latency", time.Since(start)).
				Str("request_id", res.Header().Get(echo.HeaderXRequestID)).
				Msg("request")

			return nil
		}
	}
}
