package events

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gatherly/pkg/logger"

	"github.com/google/uuid"
)

// Service interface defines the contract for event business logic
type Service interface {
	CreateEvent(ctx context.Context, organizerID uuid.UUID, req CreateEventRequest) (*EventResponse, error)
	GetEventByID(ctx context.Context, id uuid.UUID) (*EventResponse, error)
	GetEventBySlug(ctx context.Context, slug string) (*EventResponse, error)
	UpdateEvent(ctx context.Context, id, organizerID uuid.UUID, req UpdateEventRequest) (*EventResponse, error)
	DeleteEvent(ctx context.Context, id, organizerID uuid.UUID) error
	GetAllEvents(ctx context.Context, query EventListQuery) (*PaginatedEvents, error)
	GetUpcomingEvents(ctx context.Context, limit int) ([]EventResponse, error)

	PublishEvent(ctx context.Context, id, organizerID uuid.UUID) (*EventResponse, error)
	UnpublishEvent(ctx context.Context, id, organizerID uuid.UUID) (*EventResponse, error)
}

type service struct {
	repo   Repository
	logger *logger.Logger
}

// NewService creates a new event service instance
func NewService(repo Repository) Service {
	return &service{
		repo:   repo,
		logger: logger.GetDefault(),
	}
}

func (s *service) CreateEvent(ctx context.Context, organizerID uuid.UUID, req CreateEventRequest) (*EventResponse, error) {
	if !req.StartDate.Before(req.EndDate) {
		return nil, errors.New("end date must be after start date")
	}
	if (req.Latitude == nil) != (req.Longitude == nil) {
		return nil, errors.New("latitude and longitude must be provided together")
	}

	slug, err := s.uniqueSlug(ctx, req.Title)
	if err != nil {
		return nil, fmt.Errorf("failed to generate slug: %w", err)
	}

	currency := strings.ToUpper(req.Currency)
	if currency == "" {
		currency = "INR"
	}

	maxTickets := req.MaxTicketsPerUser
	if maxTickets <= 0 {
		maxTickets = 10
	}

	event := &Event{
		Slug:              slug,
		Title:             req.Title,
		ShortDescription:  req.ShortDescription,
		Description:       req.Description,
		VenueName:         req.VenueName,
		VenueAddress:      req.VenueAddress,
		Latitude:          req.Latitude,
		Longitude:         req.Longitude,
		StartDate:         req.StartDate,
		EndDate:           req.EndDate,
		BookingStartsAt:   req.BookingStartsAt,
		BookingEndsAt:     req.BookingEndsAt,
		TotalCapacity:     req.TotalCapacity,
		AvailableSeats:    req.TotalCapacity, // every seat starts available
		BasePrice:         req.BasePrice,
		Currency:          currency,
		MaxTicketsPerUser: maxTickets,
		IsPublished:       false,
		Status:            StatusDraft,
		FeaturedImageURL:  req.FeaturedImageURL,
		OrganizerID:       organizerID,
	}

	if err := s.repo.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	resp := event.ToResponse()
	return &resp, nil
}

func (s *service) GetEventByID(ctx context.Context, id uuid.UUID) (*EventResponse, error) {
	event, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := event.ToResponse()
	return &resp, nil
}

func (s *service) GetEventBySlug(ctx context.Context, slug string) (*EventResponse, error) {
	event, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	resp := event.ToResponse()
	return &resp, nil
}

func (s *service) UpdateEvent(ctx context.Context, id, organizerID uuid.UUID, req UpdateEventRequest) (*EventResponse, error) {
	event, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if event.OrganizerID != organizerID {
		return nil, errors.New("event does not belong to this organizer")
	}

	updates := map[string]interface{}{}

	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.ShortDescription != nil {
		updates["short_description"] = *req.ShortDescription
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.VenueName != nil {
		updates["venue_name"] = *req.VenueName
	}
	if req.VenueAddress != nil {
		updates["venue_address"] = *req.VenueAddress
	}
	if req.Latitude != nil {
		updates["latitude"] = *req.Latitude
	}
	if req.Longitude != nil {
		updates["longitude"] = *req.Longitude
	}
	if req.FeaturedImageURL != nil {
		updates["featured_image_url"] = *req.FeaturedImageURL
	}
	if req.BookingStartsAt != nil {
		updates["booking_starts_at"] = *req.BookingStartsAt
	}
	if req.BookingEndsAt != nil {
		updates["booking_ends_at"] = *req.BookingEndsAt
	}
	if req.BasePrice != nil {
		updates["base_price"] = *req.BasePrice
	}
	if req.Currency != nil {
		updates["currency"] = strings.ToUpper(*req.Currency)
	}
	if req.MaxTicketsPerUser != nil {
		updates["max_tickets_per_user"] = *req.MaxTicketsPerUser
	}

	// Date changes must keep start < end.
	startDate := event.StartDate
	endDate := event.EndDate
	if req.StartDate != nil {
		startDate = *req.StartDate
		updates["start_date"] = *req.StartDate
	}
	if req.EndDate != nil {
		endDate = *req.EndDate
		updates["end_date"] = *req.EndDate
	}
	if !startDate.Before(endDate) {
		return nil, errors.New("end date must be after start date")
	}

	// Capacity can never drop below the seats already held or sold. A raise
	// adds the new seats to the available pool.
	if req.TotalCapacity != nil {
		booked := event.BookedCount()
		if *req.TotalCapacity < booked {
			return nil, fmt.Errorf("total capacity cannot be lower than the %d seats already booked", booked)
		}
		updates["total_capacity"] = *req.TotalCapacity
		updates["available_seats"] = *req.TotalCapacity - booked
	}

	updated, err := s.repo.Update(ctx, id, updates)
	if err != nil {
		return nil, fmt.Errorf("failed to update event: %w", err)
	}

	resp := updated.ToResponse()
	return &resp, nil
}

func (s *service) DeleteEvent(ctx context.Context, id, organizerID uuid.UUID) error {
	event, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if event.OrganizerID != organizerID {
		return errors.New("event does not belong to this organizer")
	}
	if event.BookedCount() > 0 {
		return errors.New("event with bookings cannot be deleted")
	}

	return s.repo.Delete(ctx, id)
}

func (s *service) GetAllEvents(ctx context.Context, query EventListQuery) (*PaginatedEvents, error) {
	if query.Page <= 0 {
		query.Page = 1
	}
	if query.Limit <= 0 {
		query.Limit = 10
	}

	events, totalCount, err := s.repo.GetAll(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}

	responses := make([]EventResponse, 0, len(events))
	for i := range events {
		responses = append(responses, events[i].ToResponse())
	}

	totalPages := int((totalCount + int64(query.Limit) - 1) / int64(query.Limit))

	return &PaginatedEvents{
		Events:     responses,
		TotalCount: totalCount,
		Page:       query.Page,
		Limit:      query.Limit,
		TotalPages: totalPages,
	}, nil
}

func (s *service) GetUpcomingEvents(ctx context.Context, limit int) ([]EventResponse, error) {
	if limit <= 0 || limit > 100 {
		limit = 10
	}

	events, err := s.repo.GetUpcoming(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list upcoming events: %w", err)
	}

	responses := make([]EventResponse, 0, len(events))
	for i := range events {
		responses = append(responses, events[i].ToResponse())
	}
	return responses, nil
}

func (s *service) PublishEvent(ctx context.Context, id, organizerID uuid.UUID) (*EventResponse, error) {
	event, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if event.OrganizerID != organizerID {
		return nil, errors.New("event does not belong to this organizer")
	}

	if reasons := event.CanBePublished(); len(reasons) > 0 {
		return nil, fmt.Errorf("event cannot be published: %s", strings.Join(reasons, "; "))
	}

	updated, err := s.repo.Update(ctx, id, map[string]interface{}{
		"is_published": true,
		"status":       StatusPublished,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to publish event: %w", err)
	}

	s.logger.LogEventPublished(ctx, id.String(), organizerID.String())

	resp := updated.ToResponse()
	return &resp, nil
}

func (s *service) UnpublishEvent(ctx context.Context, id, organizerID uuid.UUID) (*EventResponse, error) {
	event, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if event.OrganizerID != organizerID {
		return nil, errors.New("event does not belong to this organizer")
	}
	if !event.IsPublished {
		return nil, errors.New("event is not published")
	}

	updated, err := s.repo.Update(ctx, id, map[string]interface{}{
		"is_published": false,
		"status":       StatusDraft,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to unpublish event: %w", err)
	}

	resp := updated.ToResponse()
	return &resp, nil
}

// uniqueSlug slugifies the title and appends a random suffix until the slug
// is free.
func (s *service) uniqueSlug(ctx context.Context, title string) (string, error) {
	base := GenerateSlug(title)
	if base == "" {
		base = "event"
	}

	slug := base
	for attempt := 0; attempt < 5; attempt++ {
		exists, err := s.repo.SlugExists(ctx, slug)
		if err != nil {
			return "", err
		}
		if !exists {
			return slug, nil
		}

		suffix, err := randomSlugSuffix(6)
		if err != nil {
			return "", err
		}
		slug = base + "-" + suffix
	}

	return "", errors.New("could not find a free slug")
}
