// Package demotools holds the tools the toolloop command offers to the model.
package demotools

//go:generate go run github.com/casualjim/toolloop/cmd/toolloop-gen -path tools.go

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/casualjim/toolloop/registry"
	"github.com/casualjim/toolloop/tool"
)

type Unit string

const (
	Celsius    Unit = "celsius"
	Fahrenheit Unit = "fahrenheit"
)

func (Unit) EnumValues() []any { return []any{Celsius, Fahrenheit} }

type Weather struct {
	Location    string  `json:"location"`
	Temperature float64 `json:"temperature"`
	Unit        Unit    `json:"unit"`
	Conditions  string  `json:"conditions"`
}

var knownWeather = map[string]Weather{
	"boston":        {Temperature: 22, Conditions: "sunny"},
	"san francisco": {Temperature: 16, Conditions: "foggy"},
	"tokyo":         {Temperature: 27, Conditions: "humid"},
	"paris":         {Temperature: 19, Conditions: "cloudy"},
}

// getWeather returns the current weather in a given location.
//
// Parameters:
//   - location: The city and state, e.g. San Francisco, CA
//   - unit: The temperature unit to report in (default: Celsius)
//
// toolloop:tool
func getWeather(location string, unit Unit) (Weather, error) {
	city, _, _ := strings.Cut(location, ",")
	w, ok := knownWeather[strings.ToLower(strings.TrimSpace(city))]
	if !ok {
		w = Weather{Temperature: 20, Conditions: "clear"}
	}
	w.Location = location
	w.Unit = unit
	if unit == Fahrenheit {
		w.Temperature = math.Round(w.Temperature*9/5 + 32)
	}
	return w, nil
}

// currentTime returns the current time in an IANA time zone.
//
// Parameters:
//   - timezone: The IANA time zone name, e.g. America/New_York
//
// toolloop:tool
func currentTime(ctx context.Context, timezone string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return "", fmt.Errorf("unknown time zone %q: %w", timezone, err)
	}
	return time.Now().In(loc).Format(time.RFC3339), nil
}

// add returns the sum of two numbers.
//
// Parameters:
//   - x: The first number
//   - y: The second number
//
// toolloop:tool
func add(x, y float64) float64 {
	return x + y
}

// All returns every demo tool.
func All() []tool.Entry {
	return []tool.Entry{getWeatherTool, currentTimeTool, addTool}
}

// Registry returns a registry holding every demo tool.
func Registry() *registry.Registry {
	return registry.Build(All()...)
}
