package analytics

import (
	"context"
	"errors"
	"time"

	"github.com/i474232898/global-analytics-dashboard/internal/geocode"
)

var (
	// ErrNotFound is returned by stores when a record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrUnauthorized is returned for unknown access tokens.
	ErrUnauthorized = errors.New("installation is not authorized")
	// ErrInvalidReport wraps validation and decoding failures of a report.
	ErrInvalidReport = errors.New("invalid installation statistics")
)

// Store is the contract the in-memory store satisfies.
type Store interface {
	SaveInstallation(inst Installation)
	InstallationByToken(token string) (Installation, error)
	InstallationByUID(uid string) (Installation, error)

	SaveReport(r Report)
	GetReport(token string, day time.Time) (Report, error)
	Reports() []Report
}

// Geocoder resolves a city name to coordinates.
type Geocoder interface {
	Locate(ctx context.Context, city string) (geocode.Coordinates, error)
}
