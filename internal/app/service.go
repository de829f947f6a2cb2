// Package app composes the weather client with the connectivity and location
// capabilities, and owns the fallback-to-cache decision.
package app

import (
	"context"
	"errors"
	"fmt"
	"log"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/i474232898/weather-now/internal/connectivity"
	"github.com/i474232898/weather-now/internal/location"
	"github.com/i474232898/weather-now/internal/weather"
)

// ErrOffline is returned when the connectivity gate reports no network.
// No request is attempted.
var ErrOffline = errors.New("no network connection")

// Fetcher is the part of weather.Client the service needs.
type Fetcher interface {
	FetchByCity(ctx context.Context, city string, units weather.UnitSystem) (weather.Observation, error)
	FetchByCoordinates(ctx context.Context, lat, lon float64, units weather.UnitSystem) (weather.Observation, error)
	LoadCachedObservation(ctx context.Context) (weather.Observation, bool)
}

// Report is an observation ready for display.
type Report struct {
	Observation weather.Observation `json:"observation"`
	Units       string              `json:"units"`
	// Stale is set when the observation comes from the cache rather than a live fetch.
	Stale   bool   `json:"stale"`
	Summary string `json:"summary"`
}

// Service is the caller of the weather client: it checks connectivity, resolves
// the position and falls back to the cached observation on failure.
type Service struct {
	client   Fetcher
	gate     connectivity.Gate
	resolver location.Resolver
	lang     language.Tag
}

// NewService creates a Service. lang controls how descriptions are capitalised.
func NewService(client Fetcher, gate connectivity.Gate, resolver location.Resolver, lang string) *Service {
	tag, err := language.Parse(lang)
	if err != nil {
		tag = language.Und
	}
	return &Service{
		client:   client,
		gate:     gate,
		resolver: resolver,
		lang:     tag,
	}
}

// ByCity fetches weather for a city.
//
// The bool reports whether the Report holds an observation. On failure the error
// is returned together with a stale Report built from the cache, when one exists.
func (s *Service) ByCity(ctx context.Context, city string, units weather.UnitSystem) (Report, bool, error) {
	if err := s.checkOnline(); err != nil {
		return s.fallback(ctx, units, err)
	}
	obs, err := s.client.FetchByCity(ctx, city, units)
	if err != nil {
		if errors.Is(err, weather.ErrInvalidInput) {
			return Report{}, false, err
		}
		return s.fallback(ctx, units, err)
	}
	return s.report(obs, units, false), true, nil
}

// ByCoordinates fetches weather for an explicit position.
func (s *Service) ByCoordinates(ctx context.Context, lat, lon float64, units weather.UnitSystem) (Report, bool, error) {
	if err := s.checkOnline(); err != nil {
		return s.fallback(ctx, units, err)
	}
	obs, err := s.client.FetchByCoordinates(ctx, lat, lon, units)
	if err != nil {
		return s.fallback(ctx, units, err)
	}
	return s.report(obs, units, false), true, nil
}

// ByLocation resolves the device position and fetches weather for it.
// Permission denial is returned as location.ErrPermissionDenied.
func (s *Service) ByLocation(ctx context.Context, units weather.UnitSystem) (Report, bool, error) {
	if err := s.checkOnline(); err != nil {
		return s.fallback(ctx, units, err)
	}
	if s.resolver == nil {
		return s.fallback(ctx, units, location.ErrUnavailable)
	}

	coords, err := s.resolver.RequestLocation(ctx)
	if err != nil {
		log.Printf("INFO: location request failed: %v", err)
		return s.fallback(ctx, units, err)
	}
	return s.ByCoordinates(ctx, coords.Latitude, coords.Longitude, units)
}

// Cached returns the last known observation without any network activity.
func (s *Service) Cached(ctx context.Context, units weather.UnitSystem) (Report, bool) {
	obs, ok := s.client.LoadCachedObservation(ctx)
	if !ok {
		return Report{}, false
	}
	return s.report(obs, units, true), true
}

func (s *Service) checkOnline() error {
	if s.gate != nil && !s.gate.IsConnected() {
		return ErrOffline
	}
	return nil
}

func (s *Service) fallback(ctx context.Context, units weather.UnitSystem, cause error) (Report, bool, error) {
	rep, ok := s.Cached(ctx, units)
	return rep, ok, cause
}

func (s *Service) report(obs weather.Observation, units weather.UnitSystem, stale bool) Report {
	return Report{
		Observation: obs,
		Units:       units.Param(),
		Stale:       stale,
		Summary:     s.summary(obs, units, stale),
	}
}

// summary renders "<name>: <temp><suffix>, <Description>".
func (s *Service) summary(obs weather.Observation, units weather.UnitSystem, stale bool) string {
	desc := cases.Title(s.lang, cases.NoLower).String(obs.Description)
	text := fmt.Sprintf("%s: %g%s, %s", obs.LocationName, obs.Temperature, units.TemperatureSuffix(), desc)
	if stale {
		text = "cached " + text
	}
	return text
}
