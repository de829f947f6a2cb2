package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/i474232898/weather-now/internal/store"
	"github.com/i474232898/weather-now/internal/weather"
)

type AppConfig struct {
	OpenWeatherAPIKey  string
	OpenWeatherBaseURL string
	Language           string
	DefaultUnits       weather.UnitSystem
	HTTPTimeout        time.Duration

	Cache store.Options

	// Device position: either fixed coordinates or a geocoded city.
	LocationEnabled bool
	LocationLat     *float64
	LocationLon     *float64
	LocationCity    string
	LocationCountry string
	GeocoderAPIKey  string

	ConnectivityProbeAddr string
	ConnectivityInterval  time.Duration

	// RefreshCity, when set, is fetched every RefreshInterval to keep the cache warm.
	RefreshCity     string
	RefreshInterval time.Duration

	OTLPEndpoint string
	Port         string
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}
	cfg := &AppConfig{}

	cfg.OpenWeatherAPIKey = os.Getenv("OPENWEATHER_API_KEY")
	if cfg.OpenWeatherAPIKey == "" {
		return nil, fmt.Errorf("OPENWEATHER_API_KEY is required")
	}
	cfg.OpenWeatherBaseURL = getenvDefault("OPENWEATHER_BASE_URL", weather.DefaultBaseURL)
	cfg.Language = getenvDefault("WEATHER_LANG", weather.DefaultLanguage)

	units, err := weather.ParseUnitSystem(os.Getenv("WEATHER_UNITS"))
	if err != nil {
		return nil, fmt.Errorf("invalid WEATHER_UNITS: %w", err)
	}
	cfg.DefaultUnits = units

	if cfg.HTTPTimeout, err = getenvDuration("HTTP_TIMEOUT", "10s"); err != nil {
		return nil, err
	}

	cfg.Cache = store.Options{
		Kind:          getenvDefault("CACHE_BACKEND", "sqlite"),
		SQLitePath:    getenvDefault("CACHE_SQLITE_PATH", "weather-cache.db"),
		RedisAddr:     getenvDefault("REDIS_ADDR", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       getenvInt("REDIS_DB", 0),
		PostgresDSN:   os.Getenv("POSTGRES_DSN"),
	}

	cfg.LocationEnabled = getenvBool("LOCATION_ENABLED", true)
	if cfg.LocationLat, err = getenvFloat("LOCATION_LAT"); err != nil {
		return nil, err
	}
	if cfg.LocationLon, err = getenvFloat("LOCATION_LON"); err != nil {
		return nil, err
	}
	if (cfg.LocationLat == nil) != (cfg.LocationLon == nil) {
		return nil, fmt.Errorf("LOCATION_LAT and LOCATION_LON must be set together")
	}
	cfg.LocationCity = os.Getenv("LOCATION_CITY")
	cfg.LocationCountry = os.Getenv("LOCATION_COUNTRY")
	cfg.GeocoderAPIKey = os.Getenv("GEOCODER_API_KEY")

	cfg.ConnectivityProbeAddr = getenvDefault("CONNECTIVITY_PROBE_ADDR", "api.openweathermap.org:443")
	if cfg.ConnectivityInterval, err = getenvDuration("CONNECTIVITY_INTERVAL", "30s"); err != nil {
		return nil, err
	}

	cfg.RefreshCity = os.Getenv("REFRESH_CITY")
	if cfg.RefreshInterval, err = getenvDuration("REFRESH_INTERVAL", "15m"); err != nil {
		return nil, err
	}

	cfg.OTLPEndpoint = os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	cfg.Port = getenvDefault("PORT", "8080")

	return cfg, nil
}

// HasStaticLocation reports whether fixed device coordinates are configured.
func (c *AppConfig) HasStaticLocation() bool {
	return c.LocationLat != nil && c.LocationLon != nil
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

func getenvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
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

func getenvFloat(key string) (*float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", key, err)
	}
	return &f, nil
}
