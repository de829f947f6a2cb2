package providers

import (
	"context"
	"log"
	"net/http"

	"github.com/sony/gobreaker"
)

// OpenWeatherTransport implements weather.Transport for the OpenWeatherMap
// current-weather endpoint.
type OpenWeatherTransport struct {
	name    string
	client  *http.Client
	circuit *gobreaker.CircuitBreaker
}

func NewOpenWeatherTransport(client *http.Client, cfg BreakerConfig) *OpenWeatherTransport {
	return &OpenWeatherTransport{
		name:    "openweathermap",
		client:  client,
		circuit: newBreaker("openweather", cfg),
	}
}

func (t *OpenWeatherTransport) Name() string {
	return t.name
}

// Get performs a single request. Non-2xx bodies are returned as-is because the
// API reports logical failures (unknown city, bad key) in the body.
func (t *OpenWeatherTransport) Get(ctx context.Context, rawURL string) ([]byte, error) {
	body, status, err := doRequest(ctx, t.client, t.circuit, rawURL)
	if err != nil {
		return nil, err
	}
	if status < 200 || status >= 300 {
		log.Printf("DEBUG: %s returned status %d (%d bytes)", t.name, status, len(body))
	}
	return body, nil
}

// State reports the circuit breaker state, mostly for health output.
func (t *OpenWeatherTransport) State() string {
	return t.circuit.State().String()
}
