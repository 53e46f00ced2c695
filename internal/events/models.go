package events

import (
	"time"

	"github.com/google/uuid"
)

type Event struct {
	ID               uuid.UUID `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	Slug             string    `json:"slug" gorm:"uniqueIndex;not null;size:255"`
	Title            string    `json:"title" gorm:"not null;size:255"`
	ShortDescription string    `json:"short_description" gorm:"size:500"`
	Description      string    `json:"description" gorm:"type:text"`

	VenueName    string   `json:"venue_name" gorm:"not null;size:255"`
	VenueAddress string   `json:"venue_address" gorm:"size:500"`
	Latitude     *float64 `json:"latitude" gorm:"type:decimal(9,6)"`
	Longitude    *float64 `json:"longitude" gorm:"type:decimal(9,6)"`

	StartDate time.Time `json:"start_date" gorm:"not null;index"`
	EndDate   time.Time `json:"end_date" gorm:"not null"`

	// Booking window. Nil means the window opens immediately and closes at
	// the event start.
	BookingStartsAt *time.Time `json:"booking_starts_at"`
	BookingEndsAt   *time.Time `json:"booking_ends_at"`

	TotalCapacity  int `json:"total_capacity" gorm:"not null;check:total_capacity > 0"`
	AvailableSeats int `json:"available_seats" gorm:"not null;check:available_seats >= 0"`

	BasePrice         float64 `json:"base_price" gorm:"not null;check:base_price >= 0"`
	Currency          string  `json:"currency" gorm:"type:varchar(3);default:'INR'"`
	MaxTicketsPerUser int     `json:"max_tickets_per_user" gorm:"default:10"`

	IsPublished      bool        `json:"is_published" gorm:"default:false;index"`
	Status           EventStatus `json:"status" gorm:"type:varchar(20);default:'draft'"`
	FeaturedImageURL string      `json:"featured_image_url" gorm:"size:500"`

	OrganizerID uuid.UUID `json:"organizer_id" gorm:"type:uuid;not null;index"`
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

type EventResponse struct {
	ID                string      `json:"id"`
	Slug              string      `json:"slug"`
	Title             string      `json:"title"`
	ShortDescription  string      `json:"short_description"`
	Description       string      `json:"description"`
	VenueName         string      `json:"venue_name"`
	VenueAddress      string      `json:"venue_address"`
	Latitude          *float64    `json:"latitude,omitempty"`
	Longitude         *float64    `json:"longitude,omitempty"`
	StartDate         time.Time   `json:"start_date"`
	EndDate           time.Time   `json:"end_date"`
	TotalCapacity     int         `json:"total_capacity"`
	AvailableSeats    int         `json:"available_seats"`
	BasePrice         float64     `json:"base_price"`
	Currency          string      `json:"currency"`
	MaxTicketsPerUser int         `json:"max_tickets_per_user"`
	IsPublished       bool        `json:"is_published"`
	Status            EventStatus `json:"status"`
	FeaturedImageURL  string      `json:"featured_image_url"`
	CreatedAt         time.Time   `json:"created_at"`
	UpdatedAt         time.Time   `json:"updated_at"`
}

type CreateEventRequest struct {
	Title             string     `json:"title" binding:"required,min=3,max=255"`
	ShortDescription  string     `json:"short_description" binding:"max=500"`
	Description       string     `json:"description" binding:"max=5000"`
	VenueName         string     `json:"venue_name" binding:"required,min=2,max=255"`
	VenueAddress      string     `json:"venue_address" binding:"max=500"`
	Latitude          *float64   `json:"latitude" binding:"omitempty,latitude"`
	Longitude         *float64   `json:"longitude" binding:"omitempty,longitude"`
	StartDate         time.Time  `json:"start_date" binding:"required"`
	EndDate           time.Time  `json:"end_date" binding:"required"`
	BookingStartsAt   *time.Time `json:"booking_starts_at"`
	BookingEndsAt     *time.Time `json:"booking_ends_at"`
	TotalCapacity     int        `json:"total_capacity" binding:"required,min=1,max=100000"`
	BasePrice         float64    `json:"base_price" binding:"min=0"`
	Currency          string     `json:"currency" binding:"omitempty,currencycode"`
	MaxTicketsPerUser int        `json:"max_tickets_per_user" binding:"omitempty,min=1,max=100"`
	FeaturedImageURL  string     `json:"featured_image_url" binding:"omitempty,url"`
}

type UpdateEventRequest struct {
	Title             *string    `json:"title" binding:"omitempty,min=3,max=255"`
	ShortDescription  *string    `json:"short_description" binding:"omitempty,max=500"`
	Description       *string    `json:"description" binding:"omitempty,max=5000"`
	VenueName         *string    `json:"venue_name" binding:"omitempty,min=2,max=255"`
	VenueAddress      *string    `json:"venue_address" binding:"omitempty,max=500"`
	Latitude          *float64   `json:"latitude" binding:"omitempty,latitude"`
	Longitude         *float64   `json:"longitude" binding:"omitempty,longitude"`
	StartDate         *time.Time `json:"start_date"`
	EndDate           *time.Time `json:"end_date"`
	BookingStartsAt   *time.Time `json:"booking_starts_at"`
	BookingEndsAt     *time.Time `json:"booking_ends_at"`
	TotalCapacity     *int       `json:"total_capacity" binding:"omitempty,min=1,max=100000"`
	BasePrice         *float64   `json:"base_price" binding:"omitempty,min=0"`
	Currency          *string    `json:"currency" binding:"omitempty,currencycode"`
	MaxTicketsPerUser *int       `json:"max_tickets_per_user" binding:"omitempty,min=1,max=100"`
	FeaturedImageURL  *string    `json:"featured_image_url" binding:"omitempty,url"`
}

type EventListQuery struct {
	Page     int    `form:"page" binding:"omitempty,min=1"`
	Limit    int    `form:"limit" binding:"omitempty,min=1,max=100"`
	Search   string `form:"search"`
	Venue    string `form:"venue"`
	DateFrom string `form:"date_from"`
	DateTo   string `form:"date_to"`
	Status   string `form:"status" binding:"omitempty,oneof=draft published cancelled completed"`
}

type PaginatedEvents struct {
	Events     []EventResponse `json:"events"`
	TotalCount int64           `json:"total_count"`
	Page       int             `json:"page"`
	Limit      int             `json:"limit"`
	TotalPages int             `json:"total_pages"`
}

// IsGeotagged reports whether the event carries coordinates. Events without
// both latitude and longitude never appear in proximity results.
func (e *Event) IsGeotagged() bool {
	return e.Latitude != nil && e.Longitude != nil
}

// IsDiscoverable reports whether the event is externally visible.
func (e *Event) IsDiscoverable() bool {
	return e.IsPublished && e.Status == StatusPublished
}

// BookedCount is the number of seats currently held or sold.
func (e *Event) BookedCount() int {
	return e.TotalCapacity - e.AvailableSeats
}

// BookingWindowOpen reports whether bookings are accepted at the given time.
// An unset window opens immediately and closes at the event start.
func (e *Event) BookingWindowOpen(now time.Time) bool {
	if e.BookingStartsAt != nil && now.Before(*e.BookingStartsAt) {
		return false
	}
	closesAt := e.StartDate
	if e.BookingEndsAt != nil {
		closesAt = *e.BookingEndsAt
	}
	return now.Before(closesAt)
}

// CanBePublished validates that a draft has everything a published event
// needs. It returns the list of blocking reasons, empty when publishable.
func (e *Event) CanBePublished() []string {
	var reasons []string

	if e.IsPublished {
		reasons = append(reasons, "event is already published")
	}
	if e.Title == "" {
		reasons = append(reasons, "event title is required")
	}
	if e.VenueName == "" {
		reasons = append(reasons, "venue name is required")
	}
	if e.StartDate.IsZero() {
		reasons = append(reasons, "start date is required")
	}
	if e.EndDate.IsZero() {
		reasons = append(reasons, "end date is required")
	}
	if !e.StartDate.IsZero() && !e.EndDate.IsZero() && !e.StartDate.Before(e.EndDate) {
		reasons = append(reasons, "end date must be after start date")
	}
	if e.TotalCapacity <= 0 {
		reasons = append(reasons, "total capacity must be greater than 0")
	}

	return reasons
}

// Helper method to convert Event to EventResponse
func (e *Event) ToResponse() EventResponse {
	return EventResponse{
		ID:                e.ID.String(),
		Slug:              e.Slug,
		Title:             e.Title,
		ShortDescription:  e.ShortDescription,
		Description:       e.Description,
		VenueName:         e.VenueName,
		VenueAddress:      e.VenueAddress,
		Latitude:          e.Latitude,
		Longitude:         e.Longitude,
		StartDate:         e.StartDate,
		EndDate:           e.EndDate,
		TotalCapacity:     e.TotalCapacity,
		AvailableSeats:    e.AvailableSeats,
		BasePrice:         e.BasePrice,
		Currency:          e.Currency,
		MaxTicketsPerUser: e.MaxTicketsPerUser,
		IsPublished:       e.IsPublished,
		Status:            e.Status,
		FeaturedImageURL:  e.FeaturedImageURL,
		CreatedAt:         e.CreatedAt,
		UpdatedAt:         e.UpdatedAt,
	}
}

// TableName specifies the table name for GORM
func (Event) TableName() string {
	return "events"
}
