package providers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sony/gobreaker"
)

// BreakerConfig controls when the circuit breaker opens.
type BreakerConfig struct {
	// ConsecutiveFailures opens the breaker after this many transport failures in a row.
	ConsecutiveFailures uint32
	// OpenTimeout is how long the breaker stays open before a probe request.
	OpenTimeout time.Duration
}

// DefaultBreakerConfig opens after five consecutive transport failures for two minutes.
var DefaultBreakerConfig = BreakerConfig{
	ConsecutiveFailures: 5,
	OpenTimeout:         2 * time.Minute,
}

var (
	errCircuitOpen  = errors.New("circuit breaker open")
	errNoHTTPClient = errors.New("http client not configured")
)

func newBreaker(name string, cfg BreakerConfig) *gobreaker.CircuitBreaker {
	threshold := cfg.ConsecutiveFailures
	if threshold == 0 {
		threshold = DefaultBreakerConfig.ConsecutiveFailures
	}
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    1 * time.Minute,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
	})
}

// doRequest executes exactly one GET through the circuit breaker and returns the
// body for any HTTP status. Only failures to obtain a response count against
// the breaker; status codes are left to the payload decoder.
func doRequest(
	ctx context.Context,
	client *http.Client,
	cb *gobreaker.CircuitBreaker,
	rawURL string,
) ([]byte, int, error) {
	if client == nil {
		return nil, 0, errNoHTTPClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Accept", "application/json")

	type response struct {
		body   []byte
		status int
	}

	result, err := cb.Execute(func() (interface{}, error) {
		resp, execErr := client.Do(req)
		if execErr != nil {
			return nil, execErr
		}
		defer resp.Body.Close()

		body, readErr := io.ReadAll(resp.Body)
		if readErr != nil {
			return nil, fmt.Errorf("read response body: %w", readErr)
		}
		return response{body: body, status: resp.StatusCode}, nil
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, 0, fmt.Errorf("%w: %v", errCircuitOpen, err)
		}
		return nil, 0, err
	}

	resp, ok := result.(response)
	if !ok {
		return nil, 0, fmt.Errorf("unexpected result type from circuit breaker")
	}
	return resp.body, resp.status, nil
}
