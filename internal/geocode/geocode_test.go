package geocode

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNominatimLocate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Kharkiv", r.URL.Query().Get("city"))
		assert.Equal(t, "json", r.URL.Query().Get("format"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"lat":"49.99142545","lon":"36.2722660718121","type":"city"}]`))
	}))
	defer srv.Close()

	p := NewNominatimProvider(srv.Client(), srv.URL)
	coords, err := p.Locate(context.Background(), "Kharkiv")
	require.NoError(t, err)
	assert.InDelta(t, 49.9914, coords.Lat, 1e-3)
	assert.InDelta(t, 36.2722, coords.Lon, 1e-3)
}

func TestNominatimEmptyResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	p := NewNominatimProvider(srv.Client(), srv.URL)
	_, err := p.Locate(context.Background(), "Nowhere")
	assert.ErrorIs(t, err, ErrNoResult)
}

func TestNominatimRetriesServerErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`[{"lat":"1.5","lon":"2.5"}]`))
	}))
	defer srv.Close()

	p := NewNominatimProvider(srv.Client(), srv.URL)
	p.httpCfg.Backoff.InitialInterval = 1
	coords, err := p.Locate(context.Background(), "Somewhere")
	require.NoError(t, err)
	assert.Equal(t, Coordinates{Lat: 1.5, Lon: 2.5}, coords)
	assert.EqualValues(t, 2, atomic.LoadInt32(&calls))
}

type stubProvider struct {
	coords Coordinates
	err    error
}

func (s stubProvider) Name() string { return "stub" }

func (s stubProvider) Locate(context.Context, string) (Coordinates, error) {
	return s.coords, s.err
}

func TestChainFallsThrough(t *testing.T) {
	c := NewChain(zap.NewNop(),
		stubProvider{err: errors.New("down")},
		stubProvider{coords: Coordinates{Lat: 10, Lon: 20}},
	)
	coords, err := c.Locate(context.Background(), "Kyiv")
	require.NoError(t, err)
	assert.Equal(t, Coordinates{Lat: 10, Lon: 20}, coords)
}

func TestChainAllFail(t *testing.T) {
	boom := errors.New("boom")
	c := NewChain(zap.NewNop(), stubProvider{err: boom})
	_, err := c.Locate(context.Background(), "Kyiv")
	assert.ErrorIs(t, err, boom)

	_, err = NewChain(zap.NewNop()).Locate(context.Background(), "")
	assert.ErrorIs(t, err, ErrNoResult)
}

func TestGoogleProviderRequiresKey(t *testing.T) {
	_, err := NewGoogleProvider("").Locate(context.Background(), "Kyiv")
	assert.Error(t, err)
}
