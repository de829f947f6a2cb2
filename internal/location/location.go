// Package location supplies the device position used for coordinate queries.
package location

import (
	"context"
	"errors"
	"fmt"

	"github.com/kelvins/geocoder"
	"golang.org/x/sync/singleflight"
)

var (
	// ErrPermissionDenied means the user has not allowed location access.
	ErrPermissionDenied = errors.New("location permission denied")
	// ErrUnavailable means no position source is configured or it cannot answer.
	ErrUnavailable = errors.New("location unavailable")
)

// Coordinates is a latitude/longitude pair in decimal degrees.
type Coordinates struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lon"`
}

// Resolver yields the current position, or an error. Denial is reported as
// ErrPermissionDenied so callers can show a targeted message.
type Resolver interface {
	RequestLocation(ctx context.Context) (Coordinates, error)
}

// Static always answers with a fixed position unless access is disabled.
type Static struct {
	Coords  Coordinates
	Enabled bool
}

func (s Static) RequestLocation(ctx context.Context) (Coordinates, error) {
	if !s.Enabled {
		return Coordinates{}, ErrPermissionDenied
	}
	if err := ctx.Err(); err != nil {
		return Coordinates{}, err
	}
	return s.Coords, nil
}

// GeocodeFunc resolves an address to a position.
type GeocodeFunc func(geocoder.Address) (geocoder.Location, error)

// Geocoded resolves a configured city through the Google geocoding API.
type Geocoded struct {
	Address geocoder.Address
	Enabled bool

	geocode GeocodeFunc
}

// NewGeocoded sets the geocoder API key and returns a resolver for city/country.
// With an empty key every request fails with ErrUnavailable.
func NewGeocoded(apiKey, city, country string, enabled bool) *Geocoded {
	g := &Geocoded{
		Address: geocoder.Address{City: city, Country: country},
		Enabled: enabled,
	}
	if apiKey != "" {
		geocoder.ApiKey = apiKey
		g.geocode = geocoder.Geocoding
	}
	return g
}

func (g *Geocoded) RequestLocation(ctx context.Context) (Coordinates, error) {
	if !g.Enabled {
		return Coordinates{}, ErrPermissionDenied
	}
	if g.geocode == nil || g.Address.City == "" {
		return Coordinates{}, ErrUnavailable
	}
	if err := ctx.Err(); err != nil {
		return Coordinates{}, err
	}

	loc, err := g.geocode(g.Address)
	if err != nil {
		return Coordinates{}, fmt.Errorf("%w: geocode %s: %v", ErrUnavailable, g.Address.City, err)
	}
	return Coordinates{Latitude: loc.Latitude, Longitude: loc.Longitude}, nil
}

// coalesced shares one outstanding request between concurrent callers.
type coalesced struct {
	next  Resolver
	group singleflight.Group
}

// Coalesce wraps r so that at most one position request is in flight; callers
// arriving while it runs receive its result.
func Coalesce(r Resolver) Resolver {
	return &coalesced{next: r}
}

func (c *coalesced) RequestLocation(ctx context.Context) (Coordinates, error) {
	// The shared request must outlive any single caller; each caller still
	// stops waiting when its own context ends.
	ch := c.group.DoChan("location", func() (interface{}, error) {
		return c.next.RequestLocation(context.WithoutCancel(ctx))
	})
	select {
	case <-ctx.Done():
		return Coordinates{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return Coordinates{}, res.Err
		}
		return res.Val.(Coordinates), nil
	}
}
