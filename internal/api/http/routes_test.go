package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/weather-now/internal/app"
	"github.com/i474232898/weather-now/internal/connectivity"
	"github.com/i474232898/weather-now/internal/location"
	"github.com/i474232898/weather-now/internal/store"
	"github.com/i474232898/weather-now/internal/weather"
)

const moscowPayload = `{"name":"Москва","main":{"temp":21.5,"feels_like":20.0},"weather":[{"description":"ясно"}],"wind":{"speed":4.5}}`

type cannedTransport struct {
	body string
	err  error
}

func (t *cannedTransport) Get(context.Context, string) ([]byte, error) {
	if t.err != nil {
		return nil, t.err
	}
	return []byte(t.body), nil
}

func newTestApp(tr *cannedTransport, gate connectivity.Gate, resolver location.Resolver) *fiber.App {
	cache := store.NewObservationCache(store.NewMemoryBackend())
	client := weather.NewClient(tr, cache, weather.QueryBuilder{BaseURL: "http://weather.test", APIKey: "k"})
	svc := app.NewService(client, gate, resolver, "ru")

	fapp := fiber.New()
	RegisterRoutes(fapp, svc, weather.Metric)
	return fapp
}

func get(t *testing.T, fapp *fiber.App, target string) (int, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	resp, err := fapp.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	body := map[string]any{}
	if len(raw) > 0 && raw[0] == '{' {
		if err := json.Unmarshal(raw, &body); err != nil {
			t.Fatalf("decode body %q: %v", raw, err)
		}
	}
	return resp.StatusCode, body
}

func TestWeatherByCity(t *testing.T) {
	fapp := newTestApp(&cannedTransport{body: moscowPayload}, connectivity.Static(true), nil)

	status, body := get(t, fapp, "/api/v1/weather/city?city="+url.QueryEscape("Москва"))
	if status != http.StatusOK {
		t.Fatalf("expected status %d, got %d (%v)", http.StatusOK, status, body)
	}
	if body["summary"] != "Москва: 21.5°C, Ясно" {
		t.Fatalf("unexpected summary %v", body["summary"])
	}
	if body["stale"] != false {
		t.Fatalf("live result must not be stale")
	}

	status, body = get(t, fapp, "/api/v1/weather/cached?units=imperial")
	if status != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, status)
	}
	if body["stale"] != true || body["units"] != "imperial" {
		t.Fatalf("unexpected cached body %v", body)
	}
}

func TestWeatherQueryValidation(t *testing.T) {
	fapp := newTestApp(&cannedTransport{body: moscowPayload}, connectivity.Static(true), nil)

	for _, target := range []string{
		"/api/v1/weather/city",
		"/api/v1/weather/city?city=Paris&units=kelvin",
		"/api/v1/weather/coordinates?lat=abc&lon=2",
		"/api/v1/weather/coordinates?lat=48.85",
		"/api/v1/weather/location?units=si",
	} {
		status, _ := get(t, fapp, target)
		if status != http.StatusBadRequest {
			t.Fatalf("%s: expected status %d, got %d", target, http.StatusBadRequest, status)
		}
	}
}

func TestWeatherByCoordinatesOutOfRangeIsForwarded(t *testing.T) {
	fapp := newTestApp(&cannedTransport{body: `{"cod":"400","message":"wrong latitude"}`}, connectivity.Static(true), nil)

	status, body := get(t, fapp, "/api/v1/weather/coordinates?lat=123.5&lon=-200")
	if status != http.StatusBadGateway {
		t.Fatalf("expected status %d, got %d", http.StatusBadGateway, status)
	}
	if body["message"] != "weather api error 400: wrong latitude" {
		t.Fatalf("unexpected message %v", body["message"])
	}
}

func TestWeatherCityNotFoundIncludesCachedFallback(t *testing.T) {
	tr := &cannedTransport{body: moscowPayload}
	fapp := newTestApp(tr, connectivity.Static(true), nil)
	if status, _ := get(t, fapp, "/api/v1/weather/city?city=Moscow"); status != http.StatusOK {
		t.Fatalf("warm-up failed with %d", status)
	}

	tr.body = `{"cod":"404","message":"city not found"}`
	status, body := get(t, fapp, "/api/v1/weather/city?city=Atlantis")
	if status != http.StatusNotFound {
		t.Fatalf("expected status %d, got %d", http.StatusNotFound, status)
	}
	cached, ok := body["cached"].(map[string]any)
	if !ok || cached["stale"] != true {
		t.Fatalf("expected stale cached fallback, got %v", body)
	}
}

func TestWeatherErrorStatuses(t *testing.T) {
	tests := []struct {
		name     string
		tr       *cannedTransport
		gate     connectivity.Gate
		resolver location.Resolver
		target   string
		want     int
	}{
		{"offline", &cannedTransport{body: moscowPayload}, connectivity.Static(false), nil, "/api/v1/weather/city?city=Oslo", http.StatusServiceUnavailable},
		{"transport", &cannedTransport{err: errors.New("dial tcp: timeout")}, connectivity.Static(true), nil, "/api/v1/weather/city?city=Oslo", http.StatusBadGateway},
		{"decode", &cannedTransport{body: "<html>"}, connectivity.Static(true), nil, "/api/v1/weather/city?city=Oslo", http.StatusBadGateway},
		{"denied", &cannedTransport{body: moscowPayload}, connectivity.Static(true), location.Static{}, "/api/v1/weather/location", http.StatusForbidden},
		{"no resolver", &cannedTransport{body: moscowPayload}, connectivity.Static(true), nil, "/api/v1/weather/location", http.StatusServiceUnavailable},
		{"no cache", &cannedTransport{body: moscowPayload}, connectivity.Static(true), nil, "/api/v1/weather/cached", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fapp := newTestApp(tt.tr, tt.gate, tt.resolver)
			status, _ := get(t, fapp, tt.target)
			if status != tt.want {
				t.Fatalf("expected status %d, got %d", tt.want, status)
			}
		})
	}
}

func TestWeatherByLocation(t *testing.T) {
	resolver := location.Static{Coords: location.Coordinates{Latitude: 55.75, Longitude: 37.62}, Enabled: true}
	fapp := newTestApp(&cannedTransport{body: moscowPayload}, connectivity.Static(true), resolver)

	status, body := get(t, fapp, "/api/v1/weather/location?units=imperial")
	if status != http.StatusOK {
		t.Fatalf("expected status %d, got %d (%v)", http.StatusOK, status, body)
	}
	if body["summary"] != "Москва: 21.5°F, Ясно" {
		t.Fatalf("unexpected summary %v", body["summary"])
	}
}
