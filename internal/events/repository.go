package events

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrEventNotFound is returned when a requested event does not exist.
var ErrEventNotFound = errors.New("event not found")

// ErrEventNotBookable is returned when seats are requested for an event that
// is not published.
var ErrEventNotBookable = errors.New("event is not available for booking")

// ErrInsufficientSeats is returned when a conditional seat reservation is
// rejected because it would drive available_seats negative. A request that
// loses a race fails exactly like one that was stale to begin with.
var ErrInsufficientSeats = errors.New("insufficient seats available")

// ErrSeatReleaseOverflow is returned when releasing seats would push
// available_seats above total_capacity.
var ErrSeatReleaseOverflow = errors.New("seat release exceeds total capacity")

type Repository interface {
	Create(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, id uuid.UUID) (*Event, error)
	GetBySlug(ctx context.Context, slug string) (*Event, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) (*Event, error)
	Delete(ctx context.Context, id uuid.UUID) error
	GetAll(ctx context.Context, query EventListQuery) ([]Event, int64, error)
	GetUpcoming(ctx context.Context, limit int) ([]Event, error)

	// ListDiscoverable returns published events that have not yet ended,
	// ordered by start date. Used by proximity search.
	ListDiscoverable(ctx context.Context, now time.Time) ([]Event, error)

	// SlugExists reports whether a slug is already taken.
	SlugExists(ctx context.Context, slug string) (bool, error)

	// ReserveSeats atomically decrements available_seats. The check and the
	// decrement are a single conditional UPDATE so concurrent reservations
	// can never oversell the event.
	ReserveSeats(ctx context.Context, eventID uuid.UUID, quantity int) error

	// ReleaseSeats atomically returns seats, capped at total_capacity.
	ReleaseSeats(ctx context.Context, eventID uuid.UUID, quantity int) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, event *Event) error {
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Event, error) {
	var event Event
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&event).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	return &event, nil
}

func (r *repository) GetBySlug(ctx context.Context, slug string) (*Event, error) {
	var event Event
	err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&event).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	return &event, nil
}

func (r *repository) Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) (*Event, error) {
	var event Event

	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&event).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}

	if err := r.db.WithContext(ctx).Model(&event).Updates(updates).Error; err != nil {
		return nil, err
	}

	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&event).Error; err != nil {
		return nil, err
	}

	return &event, nil
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&Event{}).Error
}

func (r *repository) GetAll(ctx context.Context, query EventListQuery) ([]Event, int64, error) {
	var events []Event
	var totalCount int64

	db := r.db.WithContext(ctx).Model(&Event{})

	if query.Search != "" {
		searchTerm := "%" + strings.ToLower(query.Search) + "%"
		db = db.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ? OR LOWER(venue_name) LIKE ?",
			searchTerm, searchTerm, searchTerm)
	}

	if query.Venue != "" {
		db = db.Where("LOWER(venue_name) LIKE ?", "%"+strings.ToLower(query.Venue)+"%")
	}

	if query.Status != "" {
		db = db.Where("status = ?", query.Status)
	}

	if query.DateFrom != "" {
		if dateFrom, err := time.Parse("2006-01-02", query.DateFrom); err == nil {
			db = db.Where("start_date >= ?", dateFrom)
		}
	}

	if query.DateTo != "" {
		if dateTo, err := time.Parse("2006-01-02", query.DateTo); err == nil {
			// Add 24 hours to include the entire day
			dateTo = dateTo.Add(24 * time.Hour)
			db = db.Where("start_date < ?", dateTo)
		}
	}

	if err := db.Count(&totalCount).Error; err != nil {
		return nil, 0, err
	}

	if query.Page <= 0 {
		query.Page = 1
	}
	if query.Limit <= 0 {
		query.Limit = 10
	}
	offset := (query.Page - 1) * query.Limit

	err := db.Order("start_date ASC").
		Offset(offset).
		Limit(query.Limit).
		Find(&events).Error

	return events, totalCount, err
}

func (r *repository) GetUpcoming(ctx context.Context, limit int) ([]Event, error) {
	var events []Event
	err := r.db.WithContext(ctx).
		Where("is_published = ? AND status = ?", true, StatusPublished).
		Where("start_date > ?", time.Now()).
		Order("start_date ASC").
		Limit(limit).
		Find(&events).Error
	return events, err
}

func (r *repository) ListDiscoverable(ctx context.Context, now time.Time) ([]Event, error) {
	var events []Event
	err := r.db.WithContext(ctx).
		Where("is_published = ? AND status = ?", true, StatusPublished).
		Where("end_date >= ?", now).
		Order("start_date ASC").
		Find(&events).Error
	return events, err
}

func (r *repository) SlugExists(ctx context.Context, slug string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&Event{}).Where("slug = ?", slug).Count(&count).Error
	return count > 0, err
}

func (r *repository) ReserveSeats(ctx context.Context, eventID uuid.UUID, quantity int) error {
	if quantity <= 0 {
		return fmt.Errorf("invalid reservation quantity: %d", quantity)
	}

	res := r.db.WithContext(ctx).Model(&Event{}).
		Where("id = ? AND is_published = ? AND status = ? AND available_seats >= ?",
			eventID, true, StatusPublished, quantity).
		UpdateColumn("available_seats", gorm.Expr("available_seats - ?", quantity))
	if res.Error != nil {
		return fmt.Errorf("failed to reserve seats: %w", res.Error)
	}

	if res.RowsAffected == 0 {
		// The conditional update rejected; figure out which condition failed.
		event, err := r.GetByID(ctx, eventID)
		if err != nil {
			return err
		}
		if !event.IsDiscoverable() {
			return ErrEventNotBookable
		}
		return ErrInsufficientSeats
	}

	return nil
}

func (r *repository) ReleaseSeats(ctx context.Context, eventID uuid.UUID, quantity int) error {
	if quantity <= 0 {
		return fmt.Errorf("invalid release quantity: %d", quantity)
	}

	res := r.db.WithContext(ctx).Model(&Event{}).
		Where("id = ? AND available_seats + ? <= total_capacity", eventID, quantity).
		UpdateColumn("available_seats", gorm.Expr("available_seats + ?", quantity))
	if res.Error != nil {
		return fmt.Errorf("failed to release seats: %w", res.Error)
	}

	if res.RowsAffected == 0 {
		if _, err := r.GetByID(ctx, eventID); err != nil {
			return err
		}
		return ErrSeatReleaseOverflow
	}

	return nil
}
