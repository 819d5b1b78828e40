package server

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"

	"example.com/eduwork-tracker/internal/ai"
	"example.com/eduwork-tracker/internal/bank"
	"example.com/eduwork-tracker/internal/clock"
	"example.com/eduwork-tracker/internal/config"
	"example.com/eduwork-tracker/internal/earnings"
	"example.com/eduwork-tracker/internal/handlers"
	"example.com/eduwork-tracker/internal/notifications"
	"example.com/eduwork-tracker/internal/stats"
	"example.com/eduwork-tracker/internal/store"
	"example.com/eduwork-tracker/internal/tasks"
	"example.com/eduwork-tracker/internal/uploads"
)

// New собирает HTTP-сервер Echo с роутами и зависимостями.
func New(cfg config.Config, logger *slog.Logger, db *pgxpool.Pool) *echo.Echo {
	if logger == nil {
		logger = slog.Default()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = NewValidator()

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(requestLogger(logger))

	kv := store.NewPostgres(db)
	systemClock := clock.System{}

	var aiClient ai.Client
	switch strings.ToLower(cfg.AI.Provider) {
	case "groq":
		aiClient = ai.NewGroqClient(cfg.AI.BaseURL, cfg.AI.Model, cfg.AI.Timeout, cfg.AI.MaxOutputTokens)
	default:
		aiClient = ai.NewGeminiClient(cfg.AI.BaseURL, cfg.AI.Model, cfg.AI.Timeout, cfg.AI.MaxOutputTokens)
	}
	aiService := ai.NewService(aiClient, cfg.Tasks)

	ledger := earnings.NewService(kv, systemClock, cfg.Earnings)
	taskService := tasks.NewService(kv, aiService, systemClock, ledger, cfg.AI.APIKey)
	statsService := stats.NewService(kv, systemClock, ledger)
	bankService := bank.NewService(kv)
	simulator := uploads.NewSimulator()
	notificationHub := notifications.NewHub()

	taskHandler := handlers.NewTaskHandler(taskService, ledger, notificationHub)
	uploadHandler := handlers.NewUploadHandler(taskService, simulator, notificationHub)
	earningsHandler := handlers.NewEarningsHandler(ledger, taskService)
	statsHandler := handlers.NewStatsHandler(statsService, taskService)
	setupHandler := handlers.NewSetupHandler(taskService)
	bankHandler := handlers.NewBankHandler(bankService)
	adminHandler := handlers.NewAdminHandler(kv, taskService, ledger, statsService, notificationHub)
	notificationHandler := handlers.NewNotificationHandler(notificationHub)

	registerRoutes(
		e,
		taskHandler,
		uploadHandler,
		earningsHandler,
		statsHandler,
		setupHandler,
		bankHandler,
		adminHandler,
		notificationHandler,
		handlers.AdminMiddleware(kv),
		aiRateLimiter(cfg.AI),
	)

	return e
}

// NewHTTPServer создает net/http сервер с заданными таймаутами.
func NewHTTPServer(cfg config.ServerConfig, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      handler,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}
}

func requestLogger(logger *slog.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:      true,
		LogStatus:   true,
		LogMethod:   true,
		LogLatency:  true,
		LogRemoteIP: true,
		LogError:    true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []slog.Attr{
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.String("remote_ip", v.RemoteIP),
				slog.Duration("latency", v.Latency),
			}

			if v.Error != nil {
				attrs = append(attrs, slog.String("error", v.Error.Error()))
			}

			msg := "request completed"
			if v.Status >= http.StatusInternalServerError {
				logger.LogAttrs(c.Request().Context(), slog.LevelError, msg, attrs...)
				return nil
			}

			logger.LogAttrs(c.Request().Context(), slog.LevelInfo, msg, attrs...)
			return nil
		},
	})
}

func aiRateLimiter(cfg config.AIConfig) echo.MiddlewareFunc {
	limit := rate.Limit(float64(cfg.RateLimitPerMinute) / 60.0)
	store := middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
		Rate:      limit,
		Burst:     cfg.RateLimitBurst,
		ExpiresIn: time.Minute,
	})

	return middleware.RateLimiter(store)
}
