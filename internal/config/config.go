package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap/zapcore"

	"github.com/i474232898/global-analytics-dashboard/internal/choropleth"
	"github.com/i474232898/global-analytics-dashboard/internal/geocode"
)

type AppConfig struct {
	Port        string
	HTTPTimeout time.Duration

	// RefreshInterval controls how often snapshots are rebuilt from reports.
	RefreshInterval time.Duration
	// PlayInterval is the auto-advance step of the map slider.
	PlayInterval time.Duration

	// In-memory store retention.
	StoreMaxHistory int           // max number of reports per installation (0 = unlimited)
	StoreMaxAge     time.Duration // max age of reports (0 = unlimited)

	// Choropleth palette.
	ColorLow    string
	ColorHigh   string
	DefaultFill string

	NominatimURL   string
	GeocoderAPIKey string

	LogLevel zapcore.Level
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}
	cfg := &AppConfig{}

	var err error
	cfg.Port = getenvDefault("PORT", "8080")

	if cfg.HTTPTimeout, err = getenvDuration("HTTP_TIMEOUT", "10s"); err != nil {
		return nil, err
	}
	if cfg.RefreshInterval, err = getenvDuration("REFRESH_INTERVAL", "15m"); err != nil {
		return nil, err
	}
	if cfg.PlayInterval, err = getenvDuration("PLAY_INTERVAL", "1s"); err != nil {
		return nil, err
	}

	// Store retention.
	cfg.StoreMaxHistory = getenvInt("STORE_MAX_HISTORY", 400) // a little over a year of daily reports
	if cfg.StoreMaxAge, err = getenvDuration("STORE_MAX_AGE", "0s"); err != nil {
		return nil, err
	}

	cfg.ColorLow = getenvDefault("COLOR_LOW", choropleth.DefaultLow)
	cfg.ColorHigh = getenvDefault("COLOR_HIGH", choropleth.DefaultHigh)
	cfg.DefaultFill = getenvDefault("DEFAULT_FILL", choropleth.DefaultFill)
	for _, c := range []string{cfg.ColorLow, cfg.ColorHigh, cfg.DefaultFill} {
		if _, err := choropleth.ParseColor(c); err != nil {
			return nil, err
		}
	}

	cfg.NominatimURL = getenvDefault("NOMINATIM_URL", geocode.DefaultNominatimURL)
	cfg.GeocoderAPIKey = os.Getenv("GEOCODER_API_KEY")

	if err := cfg.LogLevel.UnmarshalText([]byte(getenvDefault("LOG_LEVEL", "info"))); err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}

	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func getenvDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(getenvDefault(key, def))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
