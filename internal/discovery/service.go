package discovery

import (
	"context"
	"fmt"
	"sort"
	"time"

	"gatherly/internal/events"
	"gatherly/internal/shared/constants"
	"gatherly/pkg/cache"
	"gatherly/pkg/geo"
	"gatherly/pkg/logger"
)

// EventSource is the slice of the events repository discovery reads from.
type EventSource interface {
	ListDiscoverable(ctx context.Context, now time.Time) ([]events.Event, error)
}

// Config carries the discovery policy knobs.
type Config struct {
	DefaultRadiusKm  float64
	MaxRadiusKm      float64
	MovedThresholdKm float64
	CacheTTL         time.Duration
}

// Service interface defines the contract for proximity search
type Service interface {
	FindNearby(ctx context.Context, query NearbyEventsQuery, clientIP string) (*NearbyEventsResponse, error)
	ListCities() []City
}

type service struct {
	source   EventSource
	resolver *Resolver
	cache    cache.Service
	cfg      Config
	logger   *logger.Logger
	now      func() time.Time
}

// NewService creates a new discovery service instance. The cache may be nil;
// searches then always hit the database.
func NewService(source EventSource, resolver *Resolver, cacheService cache.Service, cfg Config) Service {
	if cfg.DefaultRadiusKm <= 0 {
		cfg.DefaultRadiusKm = 50
	}
	if cfg.MaxRadiusKm <= 0 {
		cfg.MaxRadiusKm = 5000
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = constants.TTL_NEARBY
	}

	return &service{
		source:   source,
		resolver: resolver,
		cache:    cacheService,
		cfg:      cfg,
		logger:   logger.GetDefault(),
		now:      time.Now,
	}
}

// FindNearby resolves a search center through the provider chain and
// returns discoverable events within the radius, closest first. When no
// location can be resolved it degrades to an unfiltered listing plus the
// manual city choices.
func (s *service) FindNearby(ctx context.Context, query NearbyEventsQuery, clientIP string) (*NearbyEventsResponse, error) {
	radius := s.cfg.DefaultRadiusKm
	if query.RadiusKm != nil {
		radius = *query.RadiusKm
	}
	if radius > s.cfg.MaxRadiusKm {
		radius = s.cfg.MaxRadiusKm
	}

	loc, err := s.resolver.Resolve(ctx, LocationRequest{
		Latitude:  query.Latitude,
		Longitude: query.Longitude,
		City:      query.City,
		ClientIP:  clientIP,
	})
	if err != nil {
		// Location unknown: unfiltered results plus the manual choices,
		// never a fabricated center.
		return s.unfilteredResults(ctx)
	}

	center := loc.Point
	if query.PrevLatitude != nil && query.PrevLongitude != nil {
		prev := geo.Point{Lat: *query.PrevLatitude, Lng: *query.PrevLongitude}
		if !Moved(prev, center, s.cfg.MovedThresholdKm) {
			// Displacement is within jitter range: keep the previous
			// center so repeat polls share one cache entry.
			center = prev
		}
	}

	if cached := s.fromCache(ctx, center, radius); cached != nil {
		cached.LocationSource = loc.Source
		return cached, nil
	}

	all, err := s.source.ListDiscoverable(ctx, s.now())
	if err != nil {
		return nil, fmt.Errorf("failed to load events: %w", err)
	}

	nearby := rankByDistance(all, center, radius)

	resp := &NearbyEventsResponse{
		Location:       &center,
		LocationSource: loc.Source,
		RadiusKm:       radius,
		TotalCount:     len(nearby),
		Events:         nearby,
	}

	s.toCache(ctx, center, radius, resp)
	s.logger.LogNearbySearch(ctx, center.Lat, center.Lng, radius, len(nearby), loc.Source)

	return resp, nil
}

func (s *service) ListCities() []City {
	return Cities
}

// rankByDistance keeps geotagged events within the radius and sorts them by
// distance, ties broken by start date. A zero radius keeps only events at
// the center itself.
func rankByDistance(all []events.Event, center geo.Point, radiusKm float64) []NearbyEvent {
	nearby := make([]NearbyEvent, 0, len(all))

	for i := range all {
		event := &all[i]
		if !event.IsGeotagged() {
			continue
		}

		distance := geo.DistanceKm(center.Lat, center.Lng, *event.Latitude, *event.Longitude)
		if distance > radiusKm {
			continue
		}

		nearby = append(nearby, NearbyEvent{
			EventResponse:   event.ToResponse(),
			DistanceKm:      distance,
			DistanceDisplay: geo.FormatDistance(distance),
		})
	}

	sort.SliceStable(nearby, func(i, j int) bool {
		if nearby[i].DistanceKm != nearby[j].DistanceKm {
			return nearby[i].DistanceKm < nearby[j].DistanceKm
		}
		return nearby[i].StartDate.Before(nearby[j].StartDate)
	})

	return nearby
}

// unfilteredResults is the degraded response when the provider chain is
// exhausted.
func (s *service) unfilteredResults(ctx context.Context) (*NearbyEventsResponse, error) {
	all, err := s.source.ListDiscoverable(ctx, s.now())
	if err != nil {
		return nil, fmt.Errorf("failed to load events: %w", err)
	}

	results := make([]NearbyEvent, 0, len(all))
	for i := range all {
		results = append(results, NearbyEvent{EventResponse: all[i].ToResponse()})
	}

	return &NearbyEventsResponse{
		LocationSource: "unknown",
		TotalCount:     len(results),
		Events:         results,
		Cities:         Cities,
	}, nil
}

func cacheKey(center geo.Point, radiusKm float64) string {
	return constants.NearbyKey(center.Lat, center.Lng, radiusKm)
}

func (s *service) fromCache(ctx context.Context, center geo.Point, radiusKm float64) *NearbyEventsResponse {
	if s.cache == nil {
		return nil
	}

	var resp NearbyEventsResponse
	if err := s.cache.Get(ctx, cacheKey(center, radiusKm), &resp); err != nil {
		return nil
	}
	return &resp
}

func (s *service) toCache(ctx context.Context, center geo.Point, radiusKm float64, resp *NearbyEventsResponse) {
	if s.cache == nil {
		return
	}

	if err := s.cache.Set(ctx, cacheKey(center, radiusKm), resp, s.cfg.CacheTTL); err != nil {
		s.logger.InfoWithContext(ctx, "failed to cache nearby results", map[string]interface{}{
			"error": err.Error(),
		})
	}
}
