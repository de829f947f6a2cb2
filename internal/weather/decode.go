package weather

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

const (
	successCode           = 200
	defaultAPIErrorReason = "Unknown error"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report json field names in diagnostics.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// wirePayload is the subset of the current-weather response we rely on.
// Pointers distinguish a missing number from zero.
type wirePayload struct {
	Name    string          `json:"name" validate:"required"`
	Main    *wireMain       `json:"main" validate:"required"`
	Weather []wireCondition `json:"weather" validate:"required,min=1,dive"`
	Wind    *wireWind       `json:"wind" validate:"required"`
}

type wireMain struct {
	Temp      *float64 `json:"temp" validate:"required"`
	FeelsLike *float64 `json:"feels_like" validate:"required"`
}

type wireCondition struct {
	Description string `json:"description" validate:"required"`
}

type wireWind struct {
	Speed *float64 `json:"speed" validate:"required"`
}

// Decode parses a current-weather response body.
//
// A body carrying a "cod" other than 200 fails with *APIError. Anything else must
// match the observation schema completely or Decode fails with *DecodeError.
func Decode(data []byte) (Observation, error) {
	if apiErr := probeAPIError(data); apiErr != nil {
		return Observation{}, apiErr
	}

	var payload wirePayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return Observation{}, &DecodeError{Reason: "malformed weather payload", Err: err}
	}

	if err := validate.Struct(&payload); err != nil {
		return Observation{}, &DecodeError{Reason: describeValidation(err)}
	}

	obs := Observation{
		LocationName: payload.Name,
		Temperature:  *payload.Main.Temp,
		FeelsLike:    *payload.Main.FeelsLike,
		Description:  payload.Weather[0].Description,
		WindSpeed:    *payload.Wind.Speed,
	}
	for _, f := range []float64{obs.Temperature, obs.FeelsLike, obs.WindSpeed} {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return Observation{}, &DecodeError{Reason: "non-finite numeric field"}
		}
	}
	return obs, nil
}

// Encode writes obs in the response wire shape, so the result decodes back
// to an equal Observation.
func Encode(obs Observation) ([]byte, error) {
	payload := wirePayload{
		Name:    obs.LocationName,
		Main:    &wireMain{Temp: &obs.Temperature, FeelsLike: &obs.FeelsLike},
		Weather: []wireCondition{{Description: obs.Description}},
		Wind:    &wireWind{Speed: &obs.WindSpeed},
	}
	return json.Marshal(payload)
}

// probeAPIError looks for an error discriminant without committing to a schema.
// Bodies that are not JSON objects, or carry no usable "cod", return nil.
func probeAPIError(data []byte) *APIError {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil
	}
	raw, ok := doc["cod"]
	if !ok {
		return nil
	}
	code, ok := parseCode(raw)
	if !ok || code == successCode {
		return nil
	}

	message := defaultAPIErrorReason
	if rawMsg, ok := doc["message"]; ok {
		var m string
		if err := json.Unmarshal(rawMsg, &m); err == nil && string(rawMsg) != "null" {
			message = m
		}
	}
	return &APIError{Code: code, Message: message}
}

// parseCode accepts an integral JSON number or a numeric string; the API sends
// "cod" as a string on 4xx bodies. null and values outside the int32 range are
// not codes.
func parseCode(raw json.RawMessage) (int, bool) {
	var n *float64
	if err := json.Unmarshal(raw, &n); err == nil {
		if n == nil || *n != math.Trunc(*n) || *n < math.MinInt32 || *n > math.MaxInt32 {
			return 0, false
		}
		return int(*n), true
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		code, err := strconv.ParseInt(strings.TrimSpace(s), 10, 32)
		if err != nil {
			return 0, false
		}
		return int(code), true
	}
	return 0, false
}

func describeValidation(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := strings.TrimPrefix(fe.Namespace(), "wirePayload.")
		switch fe.Tag() {
		case "required":
			parts = append(parts, fmt.Sprintf("%s is missing", field))
		case "min":
			parts = append(parts, fmt.Sprintf("%s is empty", field))
		default:
			parts = append(parts, fmt.Sprintf("%s failed %q", field, fe.Tag()))
		}
	}
	return strings.Join(parts, "; ")
}
