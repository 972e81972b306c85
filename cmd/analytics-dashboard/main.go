package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"github.com/i474232898/global-analytics-dashboard/internal/analytics"
	httpapi "github.com/i474232898/global-analytics-dashboard/internal/api/http"
	"github.com/i474232898/global-analytics-dashboard/internal/choropleth"
	"github.com/i474232898/global-analytics-dashboard/internal/config"
	"github.com/i474232898/global-analytics-dashboard/internal/dashboard"
	"github.com/i474232898/global-analytics-dashboard/internal/geocode"
	"github.com/i474232898/global-analytics-dashboard/internal/scheduler"
	"github.com/i474232898/global-analytics-dashboard/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	zcfg := zap.NewProductionConfig()
	zcfg.Level = zap.NewAtomicLevelAt(cfg.LogLevel)
	zlog, err := zcfg.Build()
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer zlog.Sync() //nolint:errcheck

	// Shared HTTP client for outbound geocoding calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	memStore := store.NewMemoryStore(cfg.StoreMaxHistory, cfg.StoreMaxAge)

	// Nominatim needs no key; Google is only tried when a key is configured.
	provs := []geocode.Provider{geocode.NewNominatimProvider(httpClient, cfg.NominatimURL)}
	if cfg.GeocoderAPIKey != "" {
		provs = append(provs, geocode.NewGoogleProvider(cfg.GeocoderAPIKey))
	}
	geocoder := geocode.NewChain(zlog.Named("geocode"), provs...)

	service := analytics.NewService(memStore, geocoder, zlog.Named("analytics"))

	builder, err := choropleth.NewBuilder(cfg.ColorLow, cfg.ColorHigh)
	if err != nil {
		zlog.Fatal("invalid map colors", zap.Error(err))
	}
	controller := dashboard.NewController(builder, cfg.DefaultFill)

	refresher := scheduler.NewRefresher(service, controller, cfg.RefreshInterval, zlog.Named("refresher"))
	if err := refresher.Start(); err != nil {
		zlog.Fatal("failed to start refresher", zap.Error(err))
	}
	defer refresher.Stop()

	player := scheduler.NewPlayer(controller, cfg.PlayInterval, zlog.Named("player"))
	defer player.Close()

	app := fiber.New(fiber.Config{
		AppName:               "analytics-dashboard",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			if code >= fiber.StatusInternalServerError {
				zlog.Error("request failed", zap.String("path", c.Path()), zap.Error(err))
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
	})

	app.Use(logger.New())
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "analytics-dashboard",
		})
	})

	httpapi.RegisterRoutes(app, httpapi.Deps{
		Service:    service,
		Controller: controller,
		Player:     player,
		Refresher:  refresher,
	})

	go func() {
		zlog.Info("listening", zap.String("port", cfg.Port))
		if err := app.Listen(":" + cfg.Port); err != nil {
			zlog.Warn("fiber server stopped", zap.Error(err))
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		zlog.Error("error during shutdown", zap.Error(err))
	}
}
