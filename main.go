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
	"golang.org/x/sync/errgroup"

	"github.com/vladimiradmaev/diabetes-tracker/internal/bot"
	"github.com/vladimiradmaev/diabetes-tracker/internal/bot/handlers"
	"github.com/vladimiradmaev/diabetes-tracker/internal/bot/state"
	"github.com/vladimiradmaev/diabetes-tracker/internal/config"
	"github.com/vladimiradmaev/diabetes-tracker/internal/database"
	"github.com/vladimiradmaev/diabetes-tracker/internal/interfaces"
	"github.com/vladimiradmaev/diabetes-tracker/internal/logger"
	"github.com/vladimiradmaev/diabetes-tracker/internal/observability"
	"github.com/vladimiradmaev/diabetes-tracker/internal/repository"
	"github.com/vladimiradmaev/diabetes-tracker/internal/server"
	"github.com/vladimiradmaev/diabetes-tracker/internal/services"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := godotenv.Load(); err != nil {
		logger.Warn(".env file not found")
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load config", "error", err)
	}

	if err := logger.InitWithConfig(logger.Config{
		Level:      cfg.Logger.Level,
		OutputPath: cfg.Logger.OutputPath,
		Format:     cfg.Logger.Format,
	}); err != nil {
		logger.Fatal("Failed to initialize logger", "error", err)
	}
	logger.Info("Starting Diabetes Tracker...")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := observability.InitTracing(ctx, cfg.Tracing.Endpoint)
	if err != nil {
		logger.Fatal("Failed to initialize tracing", "error", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdownTracing(sctx); err != nil {
			logger.Error("Failed to flush traces", "error", err)
		}
	}()

	db, err := database.NewPostgresDB(cfg.DB)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}

	userService := services.NewUserService(repository.NewUserRepository(db), cfg.Calculator)
	svc := interfaces.Services{
		Users:        userService,
		Calculations: services.NewCalculationService(repository.NewCalculationRepository(db), userService, cfg.Calculator),
		BloodSugar:   services.NewBloodSugarService(repository.NewBloodSugarRepository(db)),
		Presets:      services.NewMealPresetService(repository.NewMealPresetRepository(db)),
	}
	logger.Info("Services initialized successfully")

	limiter := observability.NewRateLimiter(cfg.HTTP.RateLimitRPS, cfg.HTTP.RateLimitBurst)
	limiter.StartCleanup(ctx, time.Minute, 10*time.Minute)

	srv := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           server.NewRouter(svc, limiter),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("HTTP server listening", "addr", cfg.HTTP.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		logger.Info("Shutting down HTTP server")
		return srv.Shutdown(sctx)
	})

	if cfg.TelegramToken != "" {
		stateManager, closeState := newStateManager(cfg.Redis)
		defer closeState()

		telegramBot, err := bot.NewBot(cfg.TelegramToken, handlers.Dependencies{
			UserService:    svc.Users,
			CalculationSvc: svc.Calculations,
			BloodSugarSvc:  svc.BloodSugar,
			PresetSvc:      svc.Presets,
		}, stateManager)
		if err != nil {
			logger.Fatal("Failed to create bot", "error", err)
		}

		g.Go(func() error {
			return telegramBot.Start(gctx)
		})
	} else {
		logger.Warn("TELEGRAM_BOT_TOKEN is not set, running without the bot")
	}

	if err := g.Wait(); err != nil {
		logger.Error("Service stopped with error", "error", err)
		os.Exit(1)
	}
	logger.Info("Service stopped")
}

// newStateManager uses Redis when it is configured and falls back to memory
func newStateManager(cfg config.RedisConfig) (state.StateManager, func()) {
	if cfg.Host == "" {
		return state.NewManager(), func() {}
	}

	m, err := state.NewRedisManager(cfg.Host, cfg.Port)
	if err != nil {
		logger.Warn("Redis unavailable, using in-memory bot state", "error", err)
		return state.NewManager(), func() {}
	}
	return m, func() {
		if err := m.Close(); err != nil {
			logger.Error("Failed to close Redis", "error", err)
		}
	}
}
