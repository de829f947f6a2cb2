package weather

import (
	"context"
	"fmt"
	"log"
	"net/url"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Client orchestrates query building, the network call, decoding and the
// write-through to the observation cache.
type Client struct {
	transport Transport
	cache     Cache
	builder   QueryBuilder
	tracer    trace.Tracer
}

// NewClient creates a new Client.
func NewClient(transport Transport, cache Cache, builder QueryBuilder) *Client {
	return &Client{
		transport: transport,
		cache:     cache,
		builder:   builder,
		tracer:    otel.Tracer("weather-client"),
	}
}

// FetchByCity fetches current weather for a city name. An empty name fails with
// ErrInvalidInput before any request is made.
func (c *Client) FetchByCity(ctx context.Context, city string, units UnitSystem) (Observation, error) {
	if city == "" {
		return Observation{}, ErrInvalidInput
	}
	return c.fetch(ctx, CityQuery(city, units))
}

// FetchByCoordinates fetches current weather for a position. Coordinates are
// forwarded as given.
func (c *Client) FetchByCoordinates(ctx context.Context, lat, lon float64, units UnitSystem) (Observation, error) {
	return c.fetch(ctx, CoordinatesQuery(lat, lon, units))
}

// Fetch dispatches query to FetchByCity or FetchByCoordinates.
func (c *Client) Fetch(ctx context.Context, query QuerySpec) (Observation, error) {
	if query.ByCoords {
		return c.FetchByCoordinates(ctx, query.Latitude, query.Longitude, query.Units)
	}
	return c.FetchByCity(ctx, query.City, query.Units)
}

// Go runs Fetch in its own goroutine. The returned channel receives exactly one
// Result and is then closed.
func (c *Client) Go(ctx context.Context, query QuerySpec) <-chan Result {
	out := make(chan Result, 1)
	go func() {
		defer close(out)
		obs, err := c.Fetch(ctx, query)
		out <- Result{Observation: obs, Err: err}
	}()
	return out
}

// LoadCachedObservation returns the last successfully fetched observation, if any.
// It never touches the network.
func (c *Client) LoadCachedObservation(ctx context.Context) (Observation, bool) {
	return c.cache.Load(ctx)
}

func (c *Client) fetch(ctx context.Context, query QuerySpec) (Observation, error) {
	reqID := uuid.NewString()

	ctx, span := c.tracer.Start(ctx, "weather.fetch")
	defer span.End()
	span.SetAttributes(
		attribute.String("request.id", reqID),
		attribute.String("weather.units", query.Units.Param()),
		attribute.Bool("weather.by_coordinates", query.ByCoords),
	)

	rawURL := c.builder.Build(query)
	if _, err := url.Parse(rawURL); err != nil {
		log.Printf("ERROR: [%s] cannot build weather request url: %v", reqID, err)
		return Observation{}, fail(span, fmt.Errorf("%w: %v", ErrBadRequest, err))
	}

	log.Printf("DEBUG: [%s] fetching weather (%s)", reqID, describe(query))

	body, err := c.transport.Get(ctx, rawURL)
	if err != nil {
		log.Printf("ERROR: [%s] weather request failed: %v", reqID, err)
		return Observation{}, fail(span, &TransportError{Err: err})
	}

	obs, err := Decode(body)
	if err != nil {
		// Nothing is cached on failure; the previous record stays authoritative.
		log.Printf("ERROR: [%s] weather response rejected: %v", reqID, err)
		return Observation{}, fail(span, err)
	}

	c.cache.Save(ctx, obs)
	log.Printf("INFO: [%s] weather for %s: %.1f%s, %s", reqID, obs.LocationName, obs.Temperature, query.Units.TemperatureSuffix(), obs.Description)
	return obs, nil
}

func fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}

func describe(query QuerySpec) string {
	if query.ByCoords {
		return "coordinates " + CoordinatesLabel(query.Latitude, query.Longitude)
	}
	return "city " + query.City
}
