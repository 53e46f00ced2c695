package tickets

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	// ErrTicketNotFound is returned when no ticket matches the lookup.
	ErrTicketNotFound = errors.New("ticket not found")

	// ErrTicketNotActive is returned when a check-in targets a ticket that
	// is not active.
	ErrTicketNotActive = errors.New("ticket is not active")
)

// Repository interface defines the contract for ticket data access
type Repository interface {
	CreateBatch(ctx context.Context, tickets []Ticket) error
	GetByNumber(ctx context.Context, number string) (*Ticket, error)
	GetByBookingID(ctx context.Context, bookingID uuid.UUID) ([]Ticket, error)
	CountByBookingID(ctx context.Context, bookingID uuid.UUID) (int64, error)

	// MarkUsed flips an active ticket to used in one conditional update.
	MarkUsed(ctx context.Context, number string) (*Ticket, error)

	// CancelByBookingID cancels every active ticket on a booking.
	CancelByBookingID(ctx context.Context, bookingID uuid.UUID) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository creates a new ticket repository instance
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateBatch(ctx context.Context, tickets []Ticket) error {
	if len(tickets) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).Create(&tickets).Error; err != nil {
		return fmt.Errorf("failed to create tickets: %w", err)
	}
	return nil
}

func (r *repository) GetByNumber(ctx context.Context, number string) (*Ticket, error) {
	var ticket Ticket
	err := r.db.WithContext(ctx).Where("ticket_number = ?", number).First(&ticket).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTicketNotFound
		}
		return nil, fmt.Errorf("failed to get ticket: %w", err)
	}
	return &ticket, nil
}

func (r *repository) GetByBookingID(ctx context.Context, bookingID uuid.UUID) ([]Ticket, error) {
	var tickets []Ticket
	err := r.db.WithContext(ctx).
		Where("booking_id = ?", bookingID).
		Order("created_at ASC").
		Find(&tickets).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list tickets: %w", err)
	}
	return tickets, nil
}

func (r *repository) CountByBookingID(ctx context.Context, bookingID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&Ticket{}).
		Where("booking_id = ?", bookingID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count tickets: %w", err)
	}
	return count, nil
}

func (r *repository) MarkUsed(ctx context.Context, number string) (*Ticket, error) {
	res := r.db.WithContext(ctx).Model(&Ticket{}).
		Where("ticket_number = ? AND status = ?", number, StatusActive).
		Updates(map[string]interface{}{
			"status":        StatusUsed,
			"checked_in_at": gorm.Expr("NOW()"),
		})
	if res.Error != nil {
		return nil, fmt.Errorf("failed to check in ticket: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		// Distinguish an unknown ticket from one in the wrong state.
		if _, err := r.GetByNumber(ctx, number); err != nil {
			return nil, err
		}
		return nil, ErrTicketNotActive
	}

	return r.GetByNumber(ctx, number)
}

func (r *repository) CancelByBookingID(ctx context.Context, bookingID uuid.UUID) error {
	err := r.db.WithContext(ctx).Model(&Ticket{}).
		Where("booking_id = ? AND status = ?", bookingID, StatusActive).
		Update("status", StatusCancelled).Error
	if err != nil {
		return fmt.Errorf("failed to cancel tickets: %w", err)
	}
	return nil
}
