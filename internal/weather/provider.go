package weather

import "context"

// Transport performs one GET and returns the response body, whatever the HTTP
// status. An error means no usable response was received.
type Transport interface {
	Get(ctx context.Context, rawURL string) ([]byte, error)
}

// Cache is the contract for the single-slot last-known-good observation.
// Save never fails from the caller's point of view; Load reports a miss with false.
type Cache interface {
	Save(ctx context.Context, obs Observation)
	Load(ctx context.Context) (Observation, bool)
}
