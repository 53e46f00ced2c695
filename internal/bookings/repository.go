package bookings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository interface defines the contract for booking data access
type Repository interface {
	Create(ctx context.Context, booking *Booking) error
	GetByID(ctx context.Context, id uuid.UUID) (*Booking, error)
	GetByReference(ctx context.Context, reference string) (*Booking, error)
	GetByUserID(ctx context.Context, userID uuid.UUID, page, limit int) ([]Booking, int64, error)
	ReferenceExists(ctx context.Context, reference string) (bool, error)

	// TransitionStatus moves a booking from one status to another in a
	// single conditional update. It fails with ErrInvalidStateTransition
	// when the booking is no longer in the expected status.
	TransitionStatus(ctx context.Context, id uuid.UUID, from, to BookingStatus, extra map[string]interface{}) error

	// SumActiveQuantity totals the seats a user holds for an event across
	// pending and confirmed bookings.
	SumActiveQuantity(ctx context.Context, eventID, userID uuid.UUID) (int, error)

	// ListOverdue returns pending bookings whose hold deadline has passed.
	ListOverdue(ctx context.Context, now time.Time, limit int) ([]Booking, error)

	CreatePayment(ctx context.Context, payment *Payment) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository creates a new booking repository instance
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, booking *Booking) error {
	if err := r.db.WithContext(ctx).Create(booking).Error; err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}
	return nil
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Booking, error) {
	var booking Booking
	err := r.db.WithContext(ctx).Preload("Payments").Where("id = ?", id).First(&booking).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	return &booking, nil
}

func (r *repository) GetByReference(ctx context.Context, reference string) (*Booking, error) {
	var booking Booking
	err := r.db.WithContext(ctx).Preload("Payments").Where("booking_reference = ?", reference).First(&booking).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	return &booking, nil
}

func (r *repository) GetByUserID(ctx context.Context, userID uuid.UUID, page, limit int) ([]Booking, int64, error) {
	var bookings []Booking
	var totalCount int64

	query := r.db.WithContext(ctx).Model(&Booking{}).Where("user_id = ?", userID)

	if err := query.Count(&totalCount).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count bookings: %w", err)
	}

	offset := (page - 1) * limit
	err := query.Order("created_at DESC").Offset(offset).Limit(limit).Find(&bookings).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list bookings: %w", err)
	}

	return bookings, totalCount, nil
}

func (r *repository) ReferenceExists(ctx context.Context, reference string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&Booking{}).
		Where("booking_reference = ?", reference).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check booking reference: %w", err)
	}
	return count > 0, nil
}

func (r *repository) TransitionStatus(ctx context.Context, id uuid.UUID, from, to BookingStatus, extra map[string]interface{}) error {
	updates := map[string]interface{}{"status": to}
	for k, v := range extra {
		updates[k] = v
	}

	res := r.db.WithContext(ctx).Model(&Booking{}).
		Where("id = ? AND status = ?", id, from).
		Updates(updates)
	if res.Error != nil {
		return fmt.Errorf("failed to transition booking status: %w", res.Error)
	}

	// Zero rows means another writer moved the booking first.
	if res.RowsAffected == 0 {
		return ErrInvalidStateTransition
	}
	return nil
}

func (r *repository) SumActiveQuantity(ctx context.Context, eventID, userID uuid.UUID) (int, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&Booking{}).
		Where("event_id = ? AND user_id = ? AND status IN ?",
			eventID, userID, []BookingStatus{StatusPending, StatusConfirmed}).
		Select("COALESCE(SUM(quantity), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, fmt.Errorf("failed to sum user bookings: %w", err)
	}
	return int(total), nil
}

func (r *repository) ListOverdue(ctx context.Context, now time.Time, limit int) ([]Booking, error) {
	var bookings []Booking
	err := r.db.WithContext(ctx).
		Where("status = ? AND hold_expires_at < ?", StatusPending, now).
		Order("hold_expires_at ASC").
		Limit(limit).
		Find(&bookings).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list overdue bookings: %w", err)
	}
	return bookings, nil
}

func (r *repository) CreatePayment(ctx context.Context, payment *Payment) error {
	if err := r.db.WithContext(ctx).Create(payment).Error; err != nil {
		return fmt.Errorf("failed to create payment: %w", err)
	}
	return nil
}
