package weather

import (
	"fmt"
	"strings"
)

// UnitSystem selects the measurement convention for queries and display.
// The zero value is Metric.
type UnitSystem int

const (
	Metric UnitSystem = iota
	Imperial
)

// ParseUnitSystem maps "metric"/"imperial" (case-insensitive) to a UnitSystem.
// An empty string yields Metric.
func ParseUnitSystem(s string) (UnitSystem, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "metric":
		return Metric, nil
	case "imperial":
		return Imperial, nil
	default:
		return Metric, fmt.Errorf("unknown unit system %q", s)
	}
}

// Param returns the value of the API "units" query parameter.
func (u UnitSystem) Param() string {
	if u == Imperial {
		return "imperial"
	}
	return "metric"
}

// TemperatureSuffix returns the display suffix for temperatures.
func (u UnitSystem) TemperatureSuffix() string {
	if u == Imperial {
		return "°F"
	}
	return "°C"
}

// WindSuffix returns the display suffix for wind speed.
func (u UnitSystem) WindSuffix() string {
	if u == Imperial {
		return "mph"
	}
	return "m/s"
}

func (u UnitSystem) String() string {
	return u.Param()
}

// Observation is one decoded weather snapshot for a place.
// Values are only produced by Decode, so names are non-empty and numbers finite.
type Observation struct {
	LocationName string  `json:"locationName"`
	Temperature  float64 `json:"temperature"`
	FeelsLike    float64 `json:"feelsLike"`
	Description  string  `json:"description"`
	WindSpeed    float64 `json:"windSpeed"`
}

// QuerySpec describes a single current-weather query: either a city name or a
// latitude/longitude pair.
type QuerySpec struct {
	City      string
	Latitude  float64
	Longitude float64
	ByCoords  bool
	Units     UnitSystem
}

// CityQuery builds a QuerySpec for a city name.
func CityQuery(city string, units UnitSystem) QuerySpec {
	return QuerySpec{City: city, Units: units}
}

// CoordinatesQuery builds a QuerySpec for a geographic position.
func CoordinatesQuery(lat, lon float64, units UnitSystem) QuerySpec {
	return QuerySpec{Latitude: lat, Longitude: lon, ByCoords: true, Units: units}
}

// Result is the single completion value of an asynchronous fetch.
type Result struct {
	Observation Observation
	Err         error
}
