package store

import (
	"context"
	"errors"
	"log"

	"github.com/i474232898/weather-now/internal/weather"
)

// ObservationKey is the only key the cache reads or writes.
const ObservationKey = "weather:last_observation"

// ObservationCache keeps the single most recent successful observation.
// It implements weather.Cache.
type ObservationCache struct {
	backend Backend
}

func NewObservationCache(backend Backend) *ObservationCache {
	return &ObservationCache{backend: backend}
}

// Save overwrites the cached observation. Failures are logged, never returned.
func (c *ObservationCache) Save(ctx context.Context, obs weather.Observation) {
	data, err := weather.Encode(obs)
	if err != nil {
		log.Printf("ERROR: cache: cannot encode observation for %s: %v", obs.LocationName, err)
		return
	}
	if err := c.backend.Put(ctx, ObservationKey, data); err != nil {
		log.Printf("ERROR: cache: write failed: %v", err)
		return
	}
	log.Printf("DEBUG: cache: stored observation for %s", obs.LocationName)
}

// Load returns the cached observation. A missing, empty or unreadable record
// is a miss.
func (c *ObservationCache) Load(ctx context.Context) (weather.Observation, bool) {
	data, err := c.backend.Get(ctx, ObservationKey)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			log.Printf("ERROR: cache: read failed: %v", err)
		}
		return weather.Observation{}, false
	}
	if len(data) == 0 {
		return weather.Observation{}, false
	}

	obs, err := weather.Decode(data)
	if err != nil {
		log.Printf("INFO: cache: discarding unreadable record: %v", err)
		return weather.Observation{}, false
	}
	return obs, true
}
