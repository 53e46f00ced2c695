package discovery

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gatherly/internal/events"
)

type fakeEventSource struct {
	events []events.Event
}

func (f *fakeEventSource) ListDiscoverable(ctx context.Context, now time.Time) ([]events.Event, error) {
	return f.events, nil
}

func geotaggedEvent(title string, lat, lng float64, startsIn time.Duration) events.Event {
	start := time.Now().Add(startsIn)
	return events.Event{
		ID:             uuid.New(),
		Slug:           events.GenerateSlug(title),
		Title:          title,
		VenueName:      title + " Venue",
		Latitude:       &lat,
		Longitude:      &lng,
		StartDate:      start,
		EndDate:        start.Add(2 * time.Hour),
		TotalCapacity:  100,
		AvailableSeats: 100,
		BasePrice:      500,
		Currency:       "INR",
		IsPublished:    true,
		Status:         events.StatusPublished,
	}
}

func untaggedEvent(title string) events.Event {
	e := geotaggedEvent(title, 0, 0, 24*time.Hour)
	e.Latitude = nil
	e.Longitude = nil
	return e
}

func newTestDiscovery(source EventSource) Service {
	resolver := NewResolver(time.Second, CoordinatesProvider{}, CityProvider{})
	return NewService(source, resolver, nil, Config{
		DefaultRadiusKm: 50,
		MaxRadiusKm:     5000,
	})
}

func TestFindNearbyFiltersAndSorts(t *testing.T) {
	source := &fakeEventSource{events: []events.Event{
		geotaggedEvent("Delhi Meetup", 28.6139, 77.2090, 24*time.Hour),
		geotaggedEvent("Mumbai Concert", 19.0760, 72.8777, 24*time.Hour),
		geotaggedEvent("Pune Workshop", 18.5204, 73.8567, 24*time.Hour),
		untaggedEvent("Online Webinar"),
	}}
	svc := newTestDiscovery(source)

	// Search from Mumbai with a tight radius: only the Mumbai event fits
	resp, err := svc.FindNearby(context.Background(), NearbyEventsQuery{
		Latitude:  floatPtr(19.0760),
		Longitude: floatPtr(72.8777),
		RadiusKm:  floatPtr(10.0),
	}, "")
	require.NoError(t, err)

	assert.Equal(t, "request", resp.LocationSource)
	require.Len(t, resp.Events, 1)
	assert.Equal(t, "Mumbai Concert", resp.Events[0].Title)
	assert.Less(t, resp.Events[0].DistanceKm, 1.0)

	// A country-sized radius picks up all geotagged events, closest first
	resp, err = svc.FindNearby(context.Background(), NearbyEventsQuery{
		Latitude:  floatPtr(19.0760),
		Longitude: floatPtr(72.8777),
		RadiusKm:  floatPtr(2000.0),
	}, "")
	require.NoError(t, err)

	require.Len(t, resp.Events, 3)
	assert.Equal(t, "Mumbai Concert", resp.Events[0].Title)
	assert.Equal(t, "Pune Workshop", resp.Events[1].Title)
	assert.Equal(t, "Delhi Meetup", resp.Events[2].Title)
	for i := 1; i < len(resp.Events); i++ {
		assert.GreaterOrEqual(t, resp.Events[i].DistanceKm, resp.Events[i-1].DistanceKm)
	}
}

func TestFindNearbyZeroRadius(t *testing.T) {
	source := &fakeEventSource{events: []events.Event{
		geotaggedEvent("At The Center", 19.0760, 72.8777, 24*time.Hour),
		geotaggedEvent("Across Town", 19.1760, 72.9777, 24*time.Hour),
	}}
	svc := newTestDiscovery(source)

	resp, err := svc.FindNearby(context.Background(), NearbyEventsQuery{
		Latitude:  floatPtr(19.0760),
		Longitude: floatPtr(72.8777),
		RadiusKm:  floatPtr(0.0),
	}, "")
	require.NoError(t, err)

	// Explicit zero keeps only co-located events, it is not the default
	require.Len(t, resp.Events, 1)
	assert.Equal(t, "At The Center", resp.Events[0].Title)
	assert.Equal(t, 0.0, resp.RadiusKm)

	// The zero radius is echoed in the payload, not dropped
	raw, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"radius_km":0`)
}

func TestFindNearbyKeepsCenterWithinMovedThreshold(t *testing.T) {
	source := &fakeEventSource{events: []events.Event{
		geotaggedEvent("Mumbai Expo", 19.0760, 72.8777, 24*time.Hour),
	}}
	svc := newTestDiscovery(source)

	t.Run("jitter keeps the previous center", func(t *testing.T) {
		// ~100 m north of the previous center, well under the 1 km threshold
		resp, err := svc.FindNearby(context.Background(), NearbyEventsQuery{
			Latitude:      floatPtr(19.0770),
			Longitude:     floatPtr(72.8777),
			PrevLatitude:  floatPtr(19.0760),
			PrevLongitude: floatPtr(72.8777),
		}, "")
		require.NoError(t, err)
		require.NotNil(t, resp.Location)
		assert.Equal(t, 19.0760, resp.Location.Lat)
		assert.Equal(t, 72.8777, resp.Location.Lng)
	})

	t.Run("real movement adopts the new center", func(t *testing.T) {
		// Previous center was Delhi, the client has clearly moved
		resp, err := svc.FindNearby(context.Background(), NearbyEventsQuery{
			Latitude:      floatPtr(19.0770),
			Longitude:     floatPtr(72.8777),
			PrevLatitude:  floatPtr(28.6139),
			PrevLongitude: floatPtr(77.2090),
		}, "")
		require.NoError(t, err)
		require.NotNil(t, resp.Location)
		assert.Equal(t, 19.0770, resp.Location.Lat)
	})
}

func TestFindNearbyDefaultAndCappedRadius(t *testing.T) {
	source := &fakeEventSource{events: []events.Event{
		geotaggedEvent("Nearby", 19.1, 72.9, 24*time.Hour),
	}}
	svc := newTestDiscovery(source)

	resp, err := svc.FindNearby(context.Background(), NearbyEventsQuery{
		Latitude:  floatPtr(19.0760),
		Longitude: floatPtr(72.8777),
	}, "")
	require.NoError(t, err)
	assert.Equal(t, 50.0, resp.RadiusKm)

	resp, err = svc.FindNearby(context.Background(), NearbyEventsQuery{
		Latitude:  floatPtr(19.0760),
		Longitude: floatPtr(72.8777),
		RadiusKm:  floatPtr(99999.0),
	}, "")
	require.NoError(t, err)
	assert.Equal(t, 5000.0, resp.RadiusKm)
}

func TestFindNearbyCityFallback(t *testing.T) {
	source := &fakeEventSource{events: []events.Event{
		geotaggedEvent("Kolkata Fair", 22.5726, 88.3639, 24*time.Hour),
		geotaggedEvent("Chennai Expo", 13.0827, 80.2707, 24*time.Hour),
	}}
	svc := newTestDiscovery(source)

	resp, err := svc.FindNearby(context.Background(), NearbyEventsQuery{City: "Kolkata"}, "")
	require.NoError(t, err)

	assert.Equal(t, "city", resp.LocationSource)
	require.Len(t, resp.Events, 1)
	assert.Equal(t, "Kolkata Fair", resp.Events[0].Title)
}

func TestFindNearbyLocationUnknown(t *testing.T) {
	source := &fakeEventSource{events: []events.Event{
		geotaggedEvent("Hyderabad Summit", 17.3850, 78.4867, 24*time.Hour),
		untaggedEvent("Online Webinar"),
	}}
	svc := newTestDiscovery(source)

	// No coordinates, no recognized city, no usable IP
	resp, err := svc.FindNearby(context.Background(), NearbyEventsQuery{City: "Gotham"}, "")
	require.NoError(t, err)

	assert.Equal(t, "unknown", resp.LocationSource)
	assert.Nil(t, resp.Location)
	assert.Len(t, resp.Events, 2)
	assert.NotEmpty(t, resp.Cities)
}

func TestListCities(t *testing.T) {
	svc := newTestDiscovery(&fakeEventSource{})
	cities := svc.ListCities()
	require.NotEmpty(t, cities)
	assert.Equal(t, Cities, cities)
}
