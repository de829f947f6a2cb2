package httpapi

import (
	"errors"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/weather-now/internal/app"
	"github.com/i474232898/weather-now/internal/location"
	"github.com/i474232898/weather-now/internal/weather"
)

var validate = validator.New()

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(fapp *fiber.App, service *app.Service, defaultUnits weather.UnitSystem) {
	v1 := fapp.Group("/api/v1")

	v1.Get("/weather/city", func(c *fiber.Ctx) error {
		req := cityQuery{City: c.Query("city"), Units: c.Query("units")}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		units := unitsOrDefault(req.Units, defaultUnits)

		rep, ok, err := service.ByCity(c.UserContext(), req.City, units)
		return respond(c, rep, ok, err)
	})

	v1.Get("/weather/coordinates", func(c *fiber.Ctx) error {
		req := coordinatesQuery{Lat: c.Query("lat"), Lon: c.Query("lon"), Units: c.Query("units")}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		lat, lon, err := req.parse()
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		units := unitsOrDefault(req.Units, defaultUnits)

		rep, ok, err := service.ByCoordinates(c.UserContext(), lat, lon, units)
		return respond(c, rep, ok, err)
	})

	v1.Get("/weather/location", func(c *fiber.Ctx) error {
		req := unitsQuery{Units: c.Query("units")}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		rep, ok, err := service.ByLocation(c.UserContext(), unitsOrDefault(req.Units, defaultUnits))
		return respond(c, rep, ok, err)
	})

	v1.Get("/weather/cached", func(c *fiber.Ctx) error {
		req := unitsQuery{Units: c.Query("units")}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		rep, ok := service.Cached(c.UserContext(), unitsOrDefault(req.Units, defaultUnits))
		if !ok {
			return fiber.NewError(fiber.StatusNotFound, "no cached weather observation")
		}
		return c.JSON(rep)
	})
}

// cityQuery holds query parameters for the city endpoint. An empty city is
// rejected by the weather client itself.
type cityQuery struct {
	City  string
	Units string `validate:"omitempty,oneof=metric imperial"`
}

// coordinatesQuery holds query parameters for the coordinates endpoint.
// Values are not range checked.
type coordinatesQuery struct {
	Lat   string `validate:"required,numeric"`
	Lon   string `validate:"required,numeric"`
	Units string `validate:"omitempty,oneof=metric imperial"`
}

func (q coordinatesQuery) parse() (float64, float64, error) {
	lat, err := strconv.ParseFloat(q.Lat, 64)
	if err != nil {
		return 0, 0, errors.New("invalid lat")
	}
	lon, err := strconv.ParseFloat(q.Lon, 64)
	if err != nil {
		return 0, 0, errors.New("invalid lon")
	}
	return lat, lon, nil
}

type unitsQuery struct {
	Units string `validate:"omitempty,oneof=metric imperial"`
}

func unitsOrDefault(s string, def weather.UnitSystem) weather.UnitSystem {
	if s == "" {
		return def
	}
	u, err := weather.ParseUnitSystem(s)
	if err != nil {
		return def
	}
	return u
}

// respond writes the live report, or the error with the cached fallback when present.
func respond(c *fiber.Ctx, rep app.Report, ok bool, err error) error {
	if err == nil {
		return c.JSON(rep)
	}

	body := fiber.Map{
		"error":   true,
		"message": err.Error(),
	}
	if ok {
		body["cached"] = rep
	}
	return c.Status(statusFor(err)).JSON(body)
}

func statusFor(err error) int {
	var apiErr *weather.APIError
	var trErr *weather.TransportError
	var decErr *weather.DecodeError

	switch {
	case errors.Is(err, weather.ErrInvalidInput):
		return fiber.StatusBadRequest
	case errors.Is(err, location.ErrPermissionDenied):
		return fiber.StatusForbidden
	case errors.Is(err, app.ErrOffline), errors.Is(err, location.ErrUnavailable):
		return fiber.StatusServiceUnavailable
	case errors.As(err, &apiErr):
		if apiErr.Code == fiber.StatusNotFound {
			return fiber.StatusNotFound
		}
		return fiber.StatusBadGateway
	case errors.As(err, &trErr), errors.As(err, &decErr):
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}
