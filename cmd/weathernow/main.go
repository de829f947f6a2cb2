package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	httpapi "github.com/i474232898/weather-now/internal/api/http"
	"github.com/i474232898/weather-now/internal/app"
	"github.com/i474232898/weather-now/internal/config"
	"github.com/i474232898/weather-now/internal/connectivity"
	"github.com/i474232898/weather-now/internal/location"
	"github.com/i474232898/weather-now/internal/scheduler"
	"github.com/i474232898/weather-now/internal/store"
	"github.com/i474232898/weather-now/internal/weather"
	"github.com/i474232898/weather-now/internal/weather/providers"
)

func main() {
	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	if cfg.OTLPEndpoint != "" {
		shutdown, err := initTracing("weathernow", cfg.OTLPEndpoint)
		if err != nil {
			log.Fatalf("failed to initialize tracing: %v", err)
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdown(ctx); err != nil {
				log.Printf("error shutting down tracing: %v", err)
			}
		}()
	}

	// Persistent single-slot cache.
	backend, err := store.Open(context.Background(), cfg.Cache)
	if err != nil {
		log.Fatalf("failed to open %s cache backend: %v", cfg.Cache.Kind, err)
	}
	defer backend.Close()
	cache := store.NewObservationCache(backend)

	// Shared HTTP client for outbound API calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}
	transport := providers.NewOpenWeatherTransport(httpClient, providers.DefaultBreakerConfig)

	client := weather.NewClient(transport, cache, weather.QueryBuilder{
		BaseURL:  cfg.OpenWeatherBaseURL,
		APIKey:   cfg.OpenWeatherAPIKey,
		Language: cfg.Language,
	})

	monitor := connectivity.NewMonitor(cfg.ConnectivityProbeAddr, 3*time.Second)
	service := app.NewService(client, monitor, newResolver(cfg), cfg.Language)

	if rep, ok := service.Cached(context.Background(), cfg.DefaultUnits); ok {
		log.Printf("INFO: last known weather: %s", rep.Summary)
	}

	// Periodic connectivity probe and cache warm-up.
	sched := scheduler.New(service, monitor, scheduler.Options{
		ProbeInterval:   cfg.ConnectivityInterval,
		RefreshCity:     cfg.RefreshCity,
		RefreshUnits:    cfg.DefaultUnits,
		RefreshInterval: cfg.RefreshInterval,
	})
	if err := sched.Start(); err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	// Basic app configuration
	fapp := fiber.New(fiber.Config{
		AppName:               "weathernow",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          30 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Centralized error response
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
	})

	// Global middleware
	fapp.Use(logger.New())
	fapp.Use(recover.New())

	fapp.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":    "ok",
			"service":   "weathernow",
			"connected": monitor.IsConnected(),
			"breaker":   transport.State(),
		})
	})

	// API routes.
	httpapi.RegisterRoutes(fapp, service, cfg.DefaultUnits)

	go func() {
		if err := fapp.Listen(":" + cfg.Port); err != nil {
			log.Printf("fiber server stopped: %v", err)
		}
	}()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := fapp.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("error during shutdown: %v", err)
	}
}

// newResolver picks the device position source: fixed coordinates win over a
// geocoded city.
func newResolver(cfg *config.AppConfig) location.Resolver {
	if cfg.HasStaticLocation() {
		return location.Coalesce(location.Static{
			Coords:  location.Coordinates{Latitude: *cfg.LocationLat, Longitude: *cfg.LocationLon},
			Enabled: cfg.LocationEnabled,
		})
	}
	return location.Coalesce(location.NewGeocoded(cfg.GeocoderAPIKey, cfg.LocationCity, cfg.LocationCountry, cfg.LocationEnabled))
}

func initTracing(serviceName, collectorURL string) (func(context.Context) error, error) {
	ctx := context.Background()

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	conn, err := grpc.NewClient(collectorURL, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("failed to create gRPC connection: %w", err)
	}

	traceExporter, err := otlptracegrpc.New(ctx, otlptracegrpc.WithGRPCConn(conn))
	if err != nil {
		return nil, fmt.Errorf("failed to create trace exporter: %w", err)
	}

	bsp := sdktrace.NewBatchSpanProcessor(traceExporter)
	traceProvider := sdktrace.NewTracerProvider(
		sdktrace.WithSpanProcessor(bsp),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)
	otel.SetTracerProvider(traceProvider)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	return traceProvider.Shutdown, nil
}
