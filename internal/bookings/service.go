package bookings

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"

	"gatherly/internal/events"
	"gatherly/pkg/logger"
)

// EventStore is the slice of the events repository the booking manager
// needs: event lookup plus the atomic seat operations.
type EventStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*events.Event, error)
	ReserveSeats(ctx context.Context, eventID uuid.UUID, quantity int) error
	ReleaseSeats(ctx context.Context, eventID uuid.UUID, quantity int) error
}

// TicketIssuer issues tickets for a confirmed booking (to avoid circular dependency)
type TicketIssuer interface {
	IssueTickets(ctx context.Context, bookingID, eventID uuid.UUID, reference string, names, emails []string, quantity int) (int, error)
}

// NotificationPublisher publishes booking lifecycle notifications. Failures
// are logged, never propagated into the booking flow.
type NotificationPublisher interface {
	PublishBookingNotification(ctx context.Context, kind string, booking *Booking) error
}

// Config carries the booking policy knobs.
type Config struct {
	HoldWindow      time.Duration
	PlatformFeeRate float64
}

// Service interface defines the contract for booking business logic
type Service interface {
	CreateBooking(ctx context.Context, userID uuid.UUID, req CreateBookingRequest) (*BookingResponse, error)
	ConfirmBooking(ctx context.Context, userID uuid.UUID, reference string, req ConfirmBookingRequest) (*BookingConfirmationResponse, error)
	CancelBooking(ctx context.Context, userID uuid.UUID, reference string) (*BookingResponse, error)
	GetBooking(ctx context.Context, userID uuid.UUID, reference string) (*BookingResponse, error)
	GetUserBookings(ctx context.Context, userID uuid.UUID, page, limit int) (*PaginatedBookings, error)

	// ExpireOverdueBookings is run by the background sweep.
	ExpireOverdueBookings(ctx context.Context) (int, error)
}

// service implements the Service interface
type service struct {
	repo      Repository
	events    EventStore
	tickets   TicketIssuer
	publisher NotificationPublisher
	cfg       Config
	logger    *logger.Logger
	now       func() time.Time
}

// NewService creates a new booking service instance. The tickets and
// publisher dependencies may be nil; confirmation then skips those steps.
func NewService(repo Repository, eventStore EventStore, tickets TicketIssuer, publisher NotificationPublisher, cfg Config) Service {
	if cfg.HoldWindow <= 0 {
		cfg.HoldWindow = 15 * time.Minute
	}

	return &service{
		repo:      repo,
		events:    eventStore,
		tickets:   tickets,
		publisher: publisher,
		cfg:       cfg,
		logger:    logger.GetDefault(),
		now:       time.Now,
	}
}

// CreateBooking reserves seats and records a pending booking with a hold
// deadline.
func (s *service) CreateBooking(ctx context.Context, userID uuid.UUID, req CreateBookingRequest) (*BookingResponse, error) {
	eventID, err := uuid.Parse(req.EventID)
	if err != nil {
		return nil, fmt.Errorf("invalid event ID: %w", err)
	}

	if err := validateAttendees(req); err != nil {
		return nil, err
	}

	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if !event.IsDiscoverable() || !event.BookingWindowOpen(now) {
		return nil, ErrBookingWindowClosed
	}

	userExisting, err := s.repo.SumActiveQuantity(ctx, eventID, userID)
	if err != nil {
		return nil, err
	}

	if err := ValidateRequest(event.AvailableSeats, event.MaxTicketsPerUser, req.Quantity, userExisting); err != nil {
		return nil, err
	}

	// The advisory check above can go stale under concurrency. The
	// conditional decrement is the authoritative gate, and losing the race
	// surfaces the same capacity error.
	if err := s.events.ReserveSeats(ctx, eventID, req.Quantity); err != nil {
		switch {
		case errors.Is(err, events.ErrInsufficientSeats):
			return nil, ErrCapacityExceeded
		case errors.Is(err, events.ErrEventNotBookable):
			return nil, ErrBookingWindowClosed
		default:
			return nil, fmt.Errorf("failed to reserve seats: %w", err)
		}
	}

	price := ComputePrice(event.BasePrice, req.Quantity, s.cfg.PlatformFeeRate, event.Currency)

	reference, err := s.generateBookingReference(ctx)
	if err != nil {
		s.compensateReservation(ctx, eventID, req.Quantity)
		return nil, fmt.Errorf("failed to generate booking reference: %w", err)
	}

	booking := &Booking{
		BookingReference: reference,
		EventID:          eventID,
		UserID:           userID,
		Quantity:         req.Quantity,
		UnitPrice:        event.BasePrice,
		Fee:              price.Fee,
		TotalAmount:      price.Total,
		Currency:         event.Currency,
		Status:           StatusPending,
		AttendeeNames:    req.AttendeeNames,
		AttendeeEmails:   req.AttendeeEmails,
		AttendeePhones:   req.AttendeePhones,
		SpecialRequests:  req.SpecialRequests,
		PromoCode:        strings.ToUpper(req.PromoCode),
		HoldExpiresAt:    now.Add(s.cfg.HoldWindow),
	}

	if err := s.repo.Create(ctx, booking); err != nil {
		// The seats were already taken out of inventory; hand them back.
		s.compensateReservation(ctx, eventID, req.Quantity)
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}

	s.logger.LogBookingCreated(ctx, booking.BookingReference, eventID.String(), userID.String(), booking.Quantity)

	resp := booking.ToResponse()
	return &resp, nil
}

// ConfirmBooking moves a pending booking to confirmed, records a mock
// payment and issues one ticket per seat. Confirming an already confirmed
// booking is a no-op returning the existing state.
func (s *service) ConfirmBooking(ctx context.Context, userID uuid.UUID, reference string, req ConfirmBookingRequest) (*BookingConfirmationResponse, error) {
	booking, err := s.repo.GetByReference(ctx, reference)
	if err != nil {
		return nil, err
	}
	if booking.UserID != userID {
		return nil, ErrBookingNotOwned
	}

	// Idempotent: a repeated confirmation returns the recorded outcome.
	// Settlement runs again so a confirmation that failed partway through
	// payment or issuance is completed on retry instead of stranding a
	// confirmed booking without tickets.
	if booking.IsConfirmed() {
		return s.settleConfirmation(ctx, booking, req.PaymentMethod, false)
	}
	if !booking.Status.CanTransitionTo(StatusConfirmed) {
		return nil, ErrInvalidStateTransition
	}

	now := s.now()
	if booking.HoldExpired(now) {
		if err := s.expireBooking(ctx, booking); err != nil {
			return nil, err
		}
		return nil, ErrHoldExpired
	}

	if err := s.repo.TransitionStatus(ctx, booking.ID, StatusPending, StatusConfirmed, map[string]interface{}{
		"confirmed_at": now,
	}); err != nil {
		return nil, err
	}
	booking.Status = StatusConfirmed
	booking.ConfirmedAt = &now

	return s.settleConfirmation(ctx, booking, req.PaymentMethod, true)
}

// settleConfirmation records the payment and issues tickets for a confirmed
// booking. Both steps are keyed on the booking and skip work already done,
// so running it again after a partial failure fills in the missing pieces.
func (s *service) settleConfirmation(ctx context.Context, booking *Booking, paymentMethod string, freshlyConfirmed bool) (*BookingConfirmationResponse, error) {
	if len(booking.Payments) == 0 {
		now := s.now()
		payment := &Payment{
			BookingID:     booking.ID,
			Amount:        booking.TotalAmount,
			Currency:      booking.Currency,
			Status:        "COMPLETED",
			PaymentMethod: paymentMethod,
			TransactionID: s.generateTransactionID(),
			ProcessedAt:   &now,
		}
		if err := s.repo.CreatePayment(ctx, payment); err != nil {
			return nil, fmt.Errorf("failed to record payment: %w", err)
		}
		booking.Payments = append(booking.Payments, *payment)
	}

	issued := 0
	if s.tickets != nil {
		var err error
		issued, err = s.tickets.IssueTickets(ctx, booking.ID, booking.EventID, booking.BookingReference,
			booking.AttendeeNames, booking.AttendeeEmails, booking.Quantity)
		if err != nil {
			return nil, fmt.Errorf("failed to issue tickets: %w", err)
		}
	}

	// Notify once: on the confirming call, or on the retry that finally
	// issued the tickets.
	if freshlyConfirmed || issued > 0 {
		s.publish(ctx, "booking.confirmed", booking)
		s.logger.LogBookingConfirmed(ctx, booking.BookingReference, issued)
	}

	return s.confirmationResponse(booking, issued), nil
}

// CancelBooking cancels a pending booking and returns its seats to
// inventory. Confirmed bookings cannot be cancelled here; refunds are a
// separate flow.
func (s *service) CancelBooking(ctx context.Context, userID uuid.UUID, reference string) (*BookingResponse, error) {
	booking, err := s.repo.GetByReference(ctx, reference)
	if err != nil {
		return nil, err
	}
	if booking.UserID != userID {
		return nil, ErrBookingNotOwned
	}
	if !booking.Status.CanTransitionTo(StatusCancelled) {
		return nil, ErrInvalidStateTransition
	}

	now := s.now()
	if err := s.repo.TransitionStatus(ctx, booking.ID, StatusPending, StatusCancelled, map[string]interface{}{
		"cancelled_at": now,
	}); err != nil {
		return nil, err
	}
	booking.Status = StatusCancelled
	booking.CancelledAt = &now

	s.releaseSeats(ctx, booking)
	s.publish(ctx, "booking.cancelled", booking)
	s.logger.LogBookingReleased(ctx, booking.BookingReference, string(StatusCancelled), booking.Quantity)

	resp := booking.ToResponse()
	return &resp, nil
}

func (s *service) GetBooking(ctx context.Context, userID uuid.UUID, reference string) (*BookingResponse, error) {
	booking, err := s.repo.GetByReference(ctx, reference)
	if err != nil {
		return nil, err
	}
	if booking.UserID != userID {
		return nil, ErrBookingNotOwned
	}

	resp := booking.ToResponse()
	return &resp, nil
}

func (s *service) GetUserBookings(ctx context.Context, userID uuid.UUID, page, limit int) (*PaginatedBookings, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 || limit > 100 {
		limit = 10
	}

	bookings, totalCount, err := s.repo.GetByUserID(ctx, userID, page, limit)
	if err != nil {
		return nil, err
	}

	responses := make([]BookingResponse, 0, len(bookings))
	for i := range bookings {
		responses = append(responses, bookings[i].ToResponse())
	}

	return &PaginatedBookings{
		Bookings:   responses,
		TotalCount: totalCount,
		Page:       page,
		Limit:      limit,
	}, nil
}

// ExpireOverdueBookings expires pending bookings past their hold deadline
// and returns how many were expired.
func (s *service) ExpireOverdueBookings(ctx context.Context) (int, error) {
	overdue, err := s.repo.ListOverdue(ctx, s.now(), 100)
	if err != nil {
		return 0, err
	}

	expired := 0
	for i := range overdue {
		if err := s.expireBooking(ctx, &overdue[i]); err != nil {
			// Another writer may have confirmed or cancelled it first.
			if errors.Is(err, ErrInvalidStateTransition) {
				continue
			}
			return expired, err
		}
		expired++
	}

	return expired, nil
}

// expireBooking moves a pending booking to expired and restores its seats.
func (s *service) expireBooking(ctx context.Context, booking *Booking) error {
	if err := s.repo.TransitionStatus(ctx, booking.ID, StatusPending, StatusExpired, nil); err != nil {
		return err
	}
	booking.Status = StatusExpired

	s.releaseSeats(ctx, booking)
	s.publish(ctx, "booking.expired", booking)
	s.logger.LogBookingReleased(ctx, booking.BookingReference, string(StatusExpired), booking.Quantity)
	return nil
}

// releaseSeats hands a booking's seats back to event inventory. The booking
// is already in a terminal state, so a release failure is logged for
// operator follow-up rather than unwound.
func (s *service) releaseSeats(ctx context.Context, booking *Booking) {
	if err := s.events.ReleaseSeats(ctx, booking.EventID, booking.Quantity); err != nil {
		s.logger.ErrorWithContext(ctx, "failed to release seats", err, map[string]interface{}{
			"booking_reference": booking.BookingReference,
			"event_id":          booking.EventID.String(),
			"quantity":          booking.Quantity,
		})
	}
}

// compensateReservation is releaseSeats for a booking that never got
// persisted.
func (s *service) compensateReservation(ctx context.Context, eventID uuid.UUID, quantity int) {
	if err := s.events.ReleaseSeats(ctx, eventID, quantity); err != nil {
		s.logger.ErrorWithContext(ctx, "failed to compensate seat reservation", err, map[string]interface{}{
			"event_id": eventID.String(),
			"quantity": quantity,
		})
	}
}

func (s *service) publish(ctx context.Context, kind string, booking *Booking) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishBookingNotification(ctx, kind, booking); err != nil {
		s.logger.ErrorWithContext(ctx, "failed to publish booking notification", err, map[string]interface{}{
			"kind":              kind,
			"booking_reference": booking.BookingReference,
		})
	}
}

func (s *service) confirmationResponse(booking *Booking, issued int) *BookingConfirmationResponse {
	resp := &BookingConfirmationResponse{
		Booking:       booking.ToResponse(),
		TicketsIssued: issued,
	}
	if len(booking.Payments) > 0 {
		resp.Payment = booking.Payments[0].ToPaymentInfo()
	}
	return resp
}

// generateBookingReference generates a unique booking reference of the form
// EVT-YYYYMMDD-XXXXXX, retrying on the rare collision.
func (s *service) generateBookingReference(ctx context.Context) (string, error) {
	const letters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"

	for attempt := 0; attempt < 5; attempt++ {
		randomPart := make([]byte, 6)
		for i := range randomPart {
			num, err := rand.Int(rand.Reader, big.NewInt(int64(len(letters))))
			if err != nil {
				return "", err
			}
			randomPart[i] = letters[num.Int64()]
		}

		reference := fmt.Sprintf("EVT-%s-%s", s.now().Format("20060102"), string(randomPart))

		exists, err := s.repo.ReferenceExists(ctx, reference)
		if err != nil {
			return "", err
		}
		if !exists {
			return reference, nil
		}
	}

	return "", errors.New("could not generate a unique booking reference")
}

// generateTransactionID generates a mock transaction ID
func (s *service) generateTransactionID() string {
	timestamp := s.now().Unix()
	id := strings.ReplaceAll(uuid.New().String(), "-", "")[:8]
	return fmt.Sprintf("TXN_%d_%s", timestamp, strings.ToUpper(id))
}
