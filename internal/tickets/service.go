package tickets

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/google/uuid"

	"gatherly/pkg/logger"
)

// Service interface defines the contract for ticket business logic
type Service interface {
	// IssueForBooking creates one active ticket per seat on a confirmed
	// booking. Missing attendee names fall back to "Guest". Issuing twice
	// for the same booking is a no-op returning zero.
	IssueForBooking(ctx context.Context, bookingID, eventID uuid.UUID, reference string, names, emails []string, quantity int) ([]Ticket, error)

	GetTicketsByBooking(ctx context.Context, bookingID uuid.UUID) ([]TicketResponse, error)
	GetTicket(ctx context.Context, number string) (*TicketResponse, error)

	// CheckIn marks an active ticket as used at the gate.
	CheckIn(ctx context.Context, number string) (*TicketResponse, error)

	CancelForBooking(ctx context.Context, bookingID uuid.UUID) error
}

type service struct {
	repo   Repository
	logger *logger.Logger
}

// NewService creates a new ticket service instance
func NewService(repo Repository) Service {
	return &service{
		repo:   repo,
		logger: logger.GetDefault(),
	}
}

func (s *service) IssueForBooking(ctx context.Context, bookingID, eventID uuid.UUID, reference string, names, emails []string, quantity int) ([]Ticket, error) {
	existing, err := s.repo.CountByBookingID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if existing > 0 {
		// Tickets were already issued for this booking.
		return nil, nil
	}

	batch := make([]Ticket, 0, quantity)
	for i := 0; i < quantity; i++ {
		number, err := s.generateTicketNumber(reference, i+1)
		if err != nil {
			return nil, fmt.Errorf("failed to generate ticket number: %w", err)
		}

		name := "Guest"
		if i < len(names) && names[i] != "" {
			name = names[i]
		}
		email := ""
		if i < len(emails) {
			email = emails[i]
		}

		batch = append(batch, Ticket{
			TicketNumber:  number,
			BookingID:     bookingID,
			EventID:       eventID,
			AttendeeName:  name,
			AttendeeEmail: email,
			Status:        StatusActive,
		})
	}

	if err := s.repo.CreateBatch(ctx, batch); err != nil {
		return nil, err
	}
	return batch, nil
}

func (s *service) GetTicketsByBooking(ctx context.Context, bookingID uuid.UUID) ([]TicketResponse, error) {
	tickets, err := s.repo.GetByBookingID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	responses := make([]TicketResponse, 0, len(tickets))
	for i := range tickets {
		responses = append(responses, tickets[i].ToResponse())
	}
	return responses, nil
}

func (s *service) GetTicket(ctx context.Context, number string) (*TicketResponse, error) {
	ticket, err := s.repo.GetByNumber(ctx, number)
	if err != nil {
		return nil, err
	}

	resp := ticket.ToResponse()
	return &resp, nil
}

func (s *service) CheckIn(ctx context.Context, number string) (*TicketResponse, error) {
	ticket, err := s.repo.MarkUsed(ctx, number)
	if err != nil {
		return nil, err
	}

	resp := ticket.ToResponse()
	return &resp, nil
}

func (s *service) CancelForBooking(ctx context.Context, bookingID uuid.UUID) error {
	return s.repo.CancelByBookingID(ctx, bookingID)
}

// generateTicketNumber derives a ticket number from the booking reference,
// the seat index and a random tail.
func (s *service) generateTicketNumber(reference string, seat int) (string, error) {
	const digits = "0123456789"
	tail := make([]byte, 4)
	for i := range tail {
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(digits))))
		if err != nil {
			return "", err
		}
		tail[i] = digits[num.Int64()]
	}

	return fmt.Sprintf("TKT-%s-%02d%s", reference, seat, string(tail)), nil
}
