// Package geocode resolves a platform's city name to coordinates when an
// installation reports a city but no latitude/longitude.
package geocode

import (
	"context"
	"errors"
)

// ErrNoResult is returned when a provider knows nothing about the city.
var ErrNoResult = errors.New("geocode: no result for city")

// Coordinates is a WGS84 point.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Provider abstracts a geocoding backend.
type Provider interface {
	Name() string
	Locate(ctx context.Context, city string) (Coordinates, error)
}
