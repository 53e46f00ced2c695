package discovery

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gatherly/pkg/geo"
)

func floatPtr(v float64) *float64 { return &v }

func TestCoordinatesProvider(t *testing.T) {
	provider := CoordinatesProvider{}

	loc, err := provider.Resolve(context.Background(), LocationRequest{
		Latitude:  floatPtr(19.0760),
		Longitude: floatPtr(72.8777),
	})
	require.NoError(t, err)
	assert.Equal(t, "request", loc.Source)
	assert.Equal(t, 19.0760, loc.Point.Lat)

	_, err = provider.Resolve(context.Background(), LocationRequest{})
	assert.ErrorIs(t, err, ErrLocationUnavailable)

	// One coordinate alone is not a location
	_, err = provider.Resolve(context.Background(), LocationRequest{Latitude: floatPtr(19)})
	assert.ErrorIs(t, err, ErrLocationUnavailable)
}

func TestCityProvider(t *testing.T) {
	provider := CityProvider{}

	loc, err := provider.Resolve(context.Background(), LocationRequest{City: "bengaluru"})
	require.NoError(t, err)
	assert.Equal(t, "city", loc.Source)
	assert.InDelta(t, 12.9716, loc.Point.Lat, 1e-6)

	_, err = provider.Resolve(context.Background(), LocationRequest{City: "Atlantis"})
	assert.ErrorIs(t, err, ErrLocationUnavailable)

	_, err = provider.Resolve(context.Background(), LocationRequest{})
	assert.ErrorIs(t, err, ErrLocationUnavailable)
}

func TestIPProvider(t *testing.T) {
	t.Run("successful lookup", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"status":"success","lat":28.6139,"lon":77.2090}`))
		}))
		defer server.Close()

		provider := NewIPProvider(server.URL+"/json/%s", time.Second)
		loc, err := provider.Resolve(context.Background(), LocationRequest{ClientIP: "49.36.10.20"})
		require.NoError(t, err)
		assert.Equal(t, "ip", loc.Source)
		assert.InDelta(t, 28.6139, loc.Point.Lat, 1e-6)
	})

	t.Run("lookup failure is unavailable", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"status":"fail"}`))
		}))
		defer server.Close()

		provider := NewIPProvider(server.URL+"/json/%s", time.Second)
		_, err := provider.Resolve(context.Background(), LocationRequest{ClientIP: "49.36.10.20"})
		assert.ErrorIs(t, err, ErrLocationUnavailable)
	})

	t.Run("loopback skipped", func(t *testing.T) {
		provider := NewIPProvider("http://unused/%s", time.Second)
		_, err := provider.Resolve(context.Background(), LocationRequest{ClientIP: "127.0.0.1"})
		assert.ErrorIs(t, err, ErrLocationUnavailable)
	})
}

type stubProvider struct {
	source string
	loc    *ResolvedLocation
	err    error
}

func (s stubProvider) Source() string { return s.source }
func (s stubProvider) Resolve(context.Context, LocationRequest) (*ResolvedLocation, error) {
	return s.loc, s.err
}

func TestResolverFallsThroughChain(t *testing.T) {
	want := &ResolvedLocation{Point: geo.Point{Lat: 1, Lng: 2}, Source: "city"}
	resolver := NewResolver(time.Second,
		stubProvider{source: "request", err: ErrLocationUnavailable},
		stubProvider{source: "ip", err: errors.New("upstream down")},
		stubProvider{source: "city", loc: want},
	)

	loc, err := resolver.Resolve(context.Background(), LocationRequest{})
	require.NoError(t, err)
	assert.Equal(t, want, loc)
}

func TestResolverExhausted(t *testing.T) {
	resolver := NewResolver(time.Second,
		stubProvider{source: "request", err: ErrLocationUnavailable},
		stubProvider{source: "city", err: ErrLocationUnavailable},
	)

	_, err := resolver.Resolve(context.Background(), LocationRequest{})
	assert.ErrorIs(t, err, ErrLocationUnavailable)
}

func TestResolverStopsAtFirstHit(t *testing.T) {
	first := &ResolvedLocation{Point: geo.Point{Lat: 19, Lng: 72}, Source: "request"}
	resolver := NewResolver(time.Second,
		stubProvider{source: "request", loc: first},
		stubProvider{source: "city", loc: &ResolvedLocation{Source: "city"}},
	)

	loc, err := resolver.Resolve(context.Background(), LocationRequest{})
	require.NoError(t, err)
	assert.Equal(t, "request", loc.Source)
}

func TestMoved(t *testing.T) {
	mumbai := geo.Point{Lat: 19.0760, Lng: 72.8777}
	delhi := geo.Point{Lat: 28.6139, Lng: 77.2090}

	// ~100m of jitter stays put
	jitter := geo.Point{Lat: 19.0769, Lng: 72.8777}
	assert.False(t, Moved(mumbai, jitter, 1))

	assert.True(t, Moved(mumbai, delhi, 1))
	assert.False(t, Moved(mumbai, mumbai, 1))

	// Non-positive threshold falls back to the 1km default
	assert.False(t, Moved(mumbai, jitter, 0))
}
