package geocode

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/kelvins/geocoder"
)

// geocoder keeps its API key in a package variable.
var googleKeyMu sync.Mutex

// GoogleProvider uses the Google Geocoding API.
type GoogleProvider struct {
	apiKey string
}

func NewGoogleProvider(apiKey string) *GoogleProvider {
	return &GoogleProvider{apiKey: apiKey}
}

func (p *GoogleProvider) Name() string {
	return "google"
}

func (p *GoogleProvider) Locate(ctx context.Context, city string) (Coordinates, error) {
	if p.apiKey == "" {
		return Coordinates{}, errors.New("google geocoder api key is not configured")
	}
	if err := ctx.Err(); err != nil {
		return Coordinates{}, err
	}

	googleKeyMu.Lock()
	geocoder.ApiKey = p.apiKey
	loc, err := geocoder.Geocoding(geocoder.Address{City: city})
	googleKeyMu.Unlock()
	if err != nil {
		return Coordinates{}, fmt.Errorf("google geocoding: %w", err)
	}
	return Coordinates{Lat: loc.Latitude, Lon: loc.Longitude}, nil
}
