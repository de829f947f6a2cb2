package weather

import (
	"fmt"
	"net/url"
	"strconv"
)

const (
	DefaultBaseURL  = "https://api.openweathermap.org/data/2.5/weather"
	DefaultLanguage = "ru"
)

// QueryBuilder turns a QuerySpec into a request URL for the current-weather endpoint.
type QueryBuilder struct {
	BaseURL  string
	APIKey   string
	Language string
}

// Build returns the request URL for query. Coordinates are passed through without
// range checks. The result is not validated; callers parse it.
func (b QueryBuilder) Build(query QuerySpec) string {
	values := url.Values{}
	if query.ByCoords {
		values.Set("lat", strconv.FormatFloat(query.Latitude, 'f', -1, 64))
		values.Set("lon", strconv.FormatFloat(query.Longitude, 'f', -1, 64))
	} else {
		values.Set("q", query.City)
	}
	values.Set("appid", b.APIKey)
	values.Set("units", query.Units.Param())

	lang := b.Language
	if lang == "" {
		lang = DefaultLanguage
	}
	values.Set("lang", lang)

	base := b.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	return fmt.Sprintf("%s?%s", base, values.Encode())
}

// CoordinatesLabel formats a position the way it is sent to the API.
func CoordinatesLabel(lat, lon float64) string {
	return strconv.FormatFloat(lat, 'f', -1, 64) + "," + strconv.FormatFloat(lon, 'f', -1, 64)
}
