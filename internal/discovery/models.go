package discovery

import (
	"gatherly/internal/events"
	"gatherly/pkg/geo"
)

// NearbyEventsQuery carries the search parameters. Coordinates and city are
// optional; the provider chain falls back when they are absent.
type NearbyEventsQuery struct {
	Latitude  *float64 `form:"lat" binding:"omitempty,latitude"`
	Longitude *float64 `form:"lng" binding:"omitempty,longitude"`
	City      string   `form:"city"`

	// RadiusKm distinguishes an omitted radius (nil, use the default) from
	// an explicit zero, which keeps only events at the center itself.
	RadiusKm *float64 `form:"radius_km" binding:"omitempty,min=0"`

	// PrevLatitude/PrevLongitude is the center of the client's previous
	// search. Displacement below the movement threshold keeps the old
	// center, absorbing GPS jitter between polls.
	PrevLatitude  *float64 `form:"prev_lat" binding:"omitempty,latitude"`
	PrevLongitude *float64 `form:"prev_lng" binding:"omitempty,longitude"`
}

// NearbyEvent is an event annotated with its distance from the search
// center.
type NearbyEvent struct {
	events.EventResponse
	DistanceKm      float64 `json:"distance_km"`
	DistanceDisplay string  `json:"distance_display"`
}

// NearbyEventsResponse is the search result. When no location could be
// resolved, Location is nil, Events holds unfiltered results and Cities
// offers the manual choices.
type NearbyEventsResponse struct {
	Location       *geo.Point    `json:"location,omitempty"`
	LocationSource string        `json:"location_source"`
	RadiusKm       float64       `json:"radius_km"`
	TotalCount     int           `json:"total_count"`
	Events         []NearbyEvent `json:"events"`
	Cities         []City        `json:"cities,omitempty"`
}

// City is a manual location choice.
type City struct {
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}
