package weather

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueryBuilder_City(t *testing.T) {
	b := QueryBuilder{APIKey: "test-key"}

	raw := b.Build(CityQuery("Москва", Metric))

	assert.Equal(t,
		"https://api.openweathermap.org/data/2.5/weather?appid=test-key&lang=ru&q=%D0%9C%D0%BE%D1%81%D0%BA%D0%B2%D0%B0&units=metric",
		raw)

	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "Москва", u.Query().Get("q"))
}

func TestQueryBuilder_CityWithReservedCharacters(t *testing.T) {
	b := QueryBuilder{APIKey: "k", Language: "en"}

	raw := b.Build(CityQuery("New York,US&x=1", Imperial))

	u, err := url.Parse(raw)
	require.NoError(t, err)
	q := u.Query()
	assert.Equal(t, "New York,US&x=1", q.Get("q"))
	assert.Empty(t, q.Get("x"))
	assert.Equal(t, "imperial", q.Get("units"))
	assert.Equal(t, "en", q.Get("lang"))
}

func TestQueryBuilder_Coordinates(t *testing.T) {
	b := QueryBuilder{BaseURL: "http://localhost:9999/weather", APIKey: "k"}

	raw := b.Build(CoordinatesQuery(55.7558, 37.6173, Metric))

	assert.Equal(t, "http://localhost:9999/weather?appid=k&lang=ru&lat=55.7558&lon=37.6173&units=metric", raw)
}

func TestQueryBuilder_CoordinatesOutOfRangePassThrough(t *testing.T) {
	b := QueryBuilder{APIKey: "k"}

	u, err := url.Parse(b.Build(CoordinatesQuery(123.5, -200, Imperial)))

	require.NoError(t, err)
	assert.Equal(t, "123.5", u.Query().Get("lat"))
	assert.Equal(t, "-200", u.Query().Get("lon"))
	assert.Empty(t, u.Query().Get("q"))
}

func TestParseUnitSystem(t *testing.T) {
	u, err := ParseUnitSystem("")
	require.NoError(t, err)
	assert.Equal(t, Metric, u)

	u, err = ParseUnitSystem("Imperial")
	require.NoError(t, err)
	assert.Equal(t, Imperial, u)
	assert.Equal(t, "°F", u.TemperatureSuffix())
	assert.Equal(t, "mph", u.WindSuffix())

	_, err = ParseUnitSystem("kelvin")
	assert.Error(t, err)

	var zero UnitSystem
	assert.Equal(t, "metric", zero.Param())
	assert.Equal(t, "°C", zero.TemperatureSuffix())
}
