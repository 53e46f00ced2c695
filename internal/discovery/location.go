package discovery

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"gatherly/pkg/geo"
	"gatherly/pkg/logger"
)

// ErrLocationUnavailable is returned when every provider in the chain came
// up empty. Callers surface an explicit location-unknown state instead of
// guessing.
var ErrLocationUnavailable = errors.New("location could not be determined")

// LocationRequest is the raw location material extracted from an incoming
// search request.
type LocationRequest struct {
	Latitude  *float64
	Longitude *float64
	City      string
	ClientIP  string
}

// ResolvedLocation is a location with its provenance.
type ResolvedLocation struct {
	Point  geo.Point
	Source string
}

// LocationProvider is one tier of the acquisition chain. A provider returns
// ErrLocationUnavailable when it has nothing to offer; any error is
// non-fatal and the resolver moves on to the next tier.
type LocationProvider interface {
	Source() string
	Resolve(ctx context.Context, req LocationRequest) (*ResolvedLocation, error)
}

// Resolver walks an ordered provider chain, bounding each tier by a
// timeout.
type Resolver struct {
	providers []LocationProvider
	timeout   time.Duration
	logger    *logger.Logger
}

// NewResolver creates a resolver over the given providers
func NewResolver(timeout time.Duration, providers ...LocationProvider) *Resolver {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}

	return &Resolver{
		providers: providers,
		timeout:   timeout,
		logger:    logger.GetDefault(),
	}
}

// Resolve returns the first location the chain produces, or
// ErrLocationUnavailable when every tier is exhausted.
func (r *Resolver) Resolve(ctx context.Context, req LocationRequest) (*ResolvedLocation, error) {
	for _, provider := range r.providers {
		tierCtx, cancel := context.WithTimeout(ctx, r.timeout)
		loc, err := provider.Resolve(tierCtx, req)
		cancel()

		if err != nil {
			if !errors.Is(err, ErrLocationUnavailable) {
				r.logger.InfoWithContext(ctx, "location provider failed", map[string]interface{}{
					"provider": provider.Source(),
					"error":    err.Error(),
				})
			}
			continue
		}
		return loc, nil
	}

	return nil, ErrLocationUnavailable
}

// CoordinatesProvider uses coordinates supplied on the request itself.
type CoordinatesProvider struct{}

func (CoordinatesProvider) Source() string { return "request" }

func (CoordinatesProvider) Resolve(_ context.Context, req LocationRequest) (*ResolvedLocation, error) {
	if req.Latitude == nil || req.Longitude == nil {
		return nil, ErrLocationUnavailable
	}

	return &ResolvedLocation{
		Point:  geo.Point{Lat: *req.Latitude, Lng: *req.Longitude},
		Source: "request",
	}, nil
}

// IPProvider asks an external geolocation API for a coarse position based
// on the client IP.
type IPProvider struct {
	lookupURL string
	client    *http.Client
}

// NewIPProvider creates an IP geolocation provider. The lookup URL must
// contain a single %s placeholder for the IP.
func NewIPProvider(lookupURL string, timeout time.Duration) *IPProvider {
	return &IPProvider{
		lookupURL: lookupURL,
		client:    &http.Client{Timeout: timeout},
	}
}

func (p *IPProvider) Source() string { return "ip" }

func (p *IPProvider) Resolve(ctx context.Context, req LocationRequest) (*ResolvedLocation, error) {
	ip := req.ClientIP
	if ip == "" || ip == "127.0.0.1" || ip == "::1" {
		return nil, ErrLocationUnavailable
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf(p.lookupURL, ip), nil)
	if err != nil {
		return nil, err
	}

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ip lookup returned status %d", resp.StatusCode)
	}

	var body struct {
		Status string  `json:"status"`
		Lat    float64 `json:"lat"`
		Lon    float64 `json:"lon"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, err
	}
	if body.Status != "success" {
		return nil, ErrLocationUnavailable
	}

	return &ResolvedLocation{
		Point:  geo.Point{Lat: body.Lat, Lng: body.Lon},
		Source: "ip",
	}, nil
}

// Cities is the fixed manual-selection list.
var Cities = []City{
	{Name: "Mumbai", Latitude: 19.0760, Longitude: 72.8777},
	{Name: "Delhi", Latitude: 28.6139, Longitude: 77.2090},
	{Name: "Bengaluru", Latitude: 12.9716, Longitude: 77.5946},
	{Name: "Hyderabad", Latitude: 17.3850, Longitude: 78.4867},
	{Name: "Chennai", Latitude: 13.0827, Longitude: 80.2707},
	{Name: "Kolkata", Latitude: 22.5726, Longitude: 88.3639},
	{Name: "Pune", Latitude: 18.5204, Longitude: 73.8567},
	{Name: "Ahmedabad", Latitude: 23.0225, Longitude: 72.5714},
}

// CityProvider matches a named city against the fixed list.
type CityProvider struct{}

func (CityProvider) Source() string { return "city" }

func (CityProvider) Resolve(_ context.Context, req LocationRequest) (*ResolvedLocation, error) {
	if req.City == "" {
		return nil, ErrLocationUnavailable
	}

	for _, city := range Cities {
		if strings.EqualFold(city.Name, req.City) {
			return &ResolvedLocation{
				Point:  geo.Point{Lat: city.Latitude, Lng: city.Longitude},
				Source: "city",
			}, nil
		}
	}

	return nil, ErrLocationUnavailable
}

// Moved reports whether a location change is big enough to warrant a new
// search. Small GPS jitter below the threshold does not count as movement.
func Moved(prev, next geo.Point, thresholdKm float64) bool {
	if thresholdKm <= 0 {
		thresholdKm = 1
	}
	return geo.DistanceBetween(prev, next) > thresholdKm
}
