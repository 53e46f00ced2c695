package bookings

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gatherly/internal/events"
)

// fakeEventStore holds a single event in memory and applies the same
// conditional seat discipline as the real repository.
type fakeEventStore struct {
	mu    sync.Mutex
	event events.Event
}

func (f *fakeEventStore) GetByID(ctx context.Context, id uuid.UUID) (*events.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if id != f.event.ID {
		return nil, events.ErrEventNotFound
	}
	copied := f.event
	return &copied, nil
}

func (f *fakeEventStore) ReserveSeats(ctx context.Context, eventID uuid.UUID, quantity int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if eventID != f.event.ID {
		return events.ErrEventNotFound
	}
	if !f.event.IsPublished {
		return events.ErrEventNotBookable
	}
	if f.event.AvailableSeats < quantity {
		return events.ErrInsufficientSeats
	}
	f.event.AvailableSeats -= quantity
	return nil
}

func (f *fakeEventStore) ReleaseSeats(ctx context.Context, eventID uuid.UUID, quantity int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if eventID != f.event.ID {
		return events.ErrEventNotFound
	}
	if f.event.AvailableSeats+quantity > f.event.TotalCapacity {
		return events.ErrSeatReleaseOverflow
	}
	f.event.AvailableSeats += quantity
	return nil
}

func (f *fakeEventStore) availableSeats() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.event.AvailableSeats
}

// fakeBookingRepo is an in-memory Repository with the same conditional
// transition semantics as the SQL implementation. Setting failPayments
// makes the next N CreatePayment calls fail.
type fakeBookingRepo struct {
	mu           sync.Mutex
	bookings     map[uuid.UUID]*Booking
	payments     []Payment
	failPayments int
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{bookings: make(map[uuid.UUID]*Booking)}
}

func (f *fakeBookingRepo) Create(ctx context.Context, booking *Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if booking.ID == uuid.Nil {
		booking.ID = uuid.New()
	}
	booking.CreatedAt = time.Now()
	copied := *booking
	f.bookings[booking.ID] = &copied
	return nil
}

func (f *fakeBookingRepo) GetByID(ctx context.Context, id uuid.UUID) (*Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.bookings[id]
	if !ok {
		return nil, ErrBookingNotFound
	}
	copied := *b
	return &copied, nil
}

func (f *fakeBookingRepo) GetByReference(ctx context.Context, reference string) (*Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, b := range f.bookings {
		if b.BookingReference == reference {
			copied := *b
			for i := range f.payments {
				if f.payments[i].BookingID == b.ID {
					copied.Payments = append(copied.Payments, f.payments[i])
				}
			}
			return &copied, nil
		}
	}
	return nil, ErrBookingNotFound
}

func (f *fakeBookingRepo) GetByUserID(ctx context.Context, userID uuid.UUID, page, limit int) ([]Booking, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []Booking
	for _, b := range f.bookings {
		if b.UserID == userID {
			result = append(result, *b)
		}
	}
	return result, int64(len(result)), nil
}

func (f *fakeBookingRepo) ReferenceExists(ctx context.Context, reference string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, b := range f.bookings {
		if b.BookingReference == reference {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeBookingRepo) TransitionStatus(ctx context.Context, id uuid.UUID, from, to BookingStatus, extra map[string]interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.bookings[id]
	if !ok || b.Status != from {
		return ErrInvalidStateTransition
	}
	b.Status = to
	return nil
}

func (f *fakeBookingRepo) SumActiveQuantity(ctx context.Context, eventID, userID uuid.UUID) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	total := 0
	for _, b := range f.bookings {
		if b.EventID == eventID && b.UserID == userID &&
			(b.Status == StatusPending || b.Status == StatusConfirmed) {
			total += b.Quantity
		}
	}
	return total, nil
}

func (f *fakeBookingRepo) ListOverdue(ctx context.Context, now time.Time, limit int) ([]Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []Booking
	for _, b := range f.bookings {
		if b.Status == StatusPending && b.HoldExpiresAt.Before(now) {
			result = append(result, *b)
		}
		if len(result) >= limit {
			break
		}
	}
	return result, nil
}

func (f *fakeBookingRepo) CreatePayment(ctx context.Context, payment *Payment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failPayments > 0 {
		f.failPayments--
		return errors.New("payment store unavailable")
	}
	if payment.ID == uuid.Nil {
		payment.ID = uuid.New()
	}
	f.payments = append(f.payments, *payment)
	return nil
}

// fakeTicketIssuer mirrors the real issuer's idempotency: tickets are keyed
// on the booking, repeat calls issue nothing. Setting failures makes the
// next N calls fail.
type fakeTicketIssuer struct {
	mu        sync.Mutex
	issued    int
	calls     int
	failures  int
	byBooking map[uuid.UUID]int
}

func (f *fakeTicketIssuer) IssueTickets(ctx context.Context, bookingID, eventID uuid.UUID, reference string, names, emails []string, quantity int) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.failures > 0 {
		f.failures--
		return 0, errors.New("ticket store unavailable")
	}
	if f.byBooking == nil {
		f.byBooking = make(map[uuid.UUID]int)
	}
	if f.byBooking[bookingID] > 0 {
		return 0, nil
	}
	f.byBooking[bookingID] = quantity
	f.issued += quantity
	return quantity, nil
}

type fakePublisher struct {
	mu    sync.Mutex
	kinds []string
}

func (f *fakePublisher) PublishBookingNotification(ctx context.Context, kind string, booking *Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.kinds = append(f.kinds, kind)
	return nil
}

func (f *fakePublisher) published() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.kinds...)
}

func testEvent(capacity, maxPerUser int) events.Event {
	start := time.Now().Add(48 * time.Hour)
	return events.Event{
		ID:                uuid.New(),
		Slug:              "test-event",
		Title:             "Test Event",
		VenueName:         "Test Venue",
		StartDate:         start,
		EndDate:           start.Add(3 * time.Hour),
		TotalCapacity:     capacity,
		AvailableSeats:    capacity,
		BasePrice:         2500,
		Currency:          "INR",
		MaxTicketsPerUser: maxPerUser,
		IsPublished:       true,
		Status:            events.StatusPublished,
		OrganizerID:       uuid.New(),
	}
}

func newTestService(store *fakeEventStore, repo *fakeBookingRepo) (Service, *fakeTicketIssuer, *fakePublisher) {
	issuer := &fakeTicketIssuer{}
	publisher := &fakePublisher{}
	svc := NewService(repo, store, issuer, publisher, Config{
		HoldWindow:      15 * time.Minute,
		PlatformFeeRate: 0.03,
	})
	return svc, issuer, publisher
}

func TestCreateBookingSuccess(t *testing.T) {
	store := &fakeEventStore{event: testEvent(10, 0)}
	repo := newFakeBookingRepo()
	svc, _, _ := newTestService(store, repo)

	userID := uuid.New()
	resp, err := svc.CreateBooking(context.Background(), userID, CreateBookingRequest{
		EventID:       store.event.ID.String(),
		Quantity:      2,
		AttendeeNames: []string{"Priya Nair", "Arjun Rao"},
	})
	require.NoError(t, err)

	assert.Equal(t, StatusPending, resp.Status)
	assert.Regexp(t, `^EVT-\d{8}-[A-Z]{6}$`, resp.BookingReference)
	assert.Equal(t, 5000.0, resp.Subtotal)
	assert.Equal(t, 150.0, resp.Fee)
	assert.Equal(t, 5150.0, resp.TotalAmount)
	assert.Equal(t, "INR", resp.Currency)
	assert.True(t, resp.HoldExpiresAt.After(time.Now()))

	assert.Equal(t, 8, store.availableSeats())
}

func TestCreateBookingCapacityExceeded(t *testing.T) {
	store := &fakeEventStore{event: testEvent(10, 0)}
	repo := newFakeBookingRepo()
	svc, _, _ := newTestService(store, repo)

	_, err := svc.CreateBooking(context.Background(), uuid.New(), CreateBookingRequest{
		EventID:  store.event.ID.String(),
		Quantity: 7,
	})
	require.NoError(t, err)

	_, err = svc.CreateBooking(context.Background(), uuid.New(), CreateBookingRequest{
		EventID:  store.event.ID.String(),
		Quantity: 5,
	})
	assert.ErrorIs(t, err, ErrCapacityExceeded)
	assert.Equal(t, 3, store.availableSeats())
}

func TestCreateBookingPerUserLimit(t *testing.T) {
	store := &fakeEventStore{event: testEvent(100, 4)}
	repo := newFakeBookingRepo()
	svc, _, _ := newTestService(store, repo)

	userID := uuid.New()
	_, err := svc.CreateBooking(context.Background(), userID, CreateBookingRequest{
		EventID:  store.event.ID.String(),
		Quantity: 3,
	})
	require.NoError(t, err)

	// 3 held + 2 requested > 4 allowed
	_, err = svc.CreateBooking(context.Background(), userID, CreateBookingRequest{
		EventID:  store.event.ID.String(),
		Quantity: 2,
	})
	assert.ErrorIs(t, err, ErrPerUserLimitExceeded)

	// A different user is not affected
	_, err = svc.CreateBooking(context.Background(), uuid.New(), CreateBookingRequest{
		EventID:  store.event.ID.String(),
		Quantity: 2,
	})
	assert.NoError(t, err)
}

func TestCreateBookingWindowClosed(t *testing.T) {
	event := testEvent(10, 0)
	event.IsPublished = false
	event.Status = events.StatusDraft
	store := &fakeEventStore{event: event}
	svc, _, _ := newTestService(store, newFakeBookingRepo())

	_, err := svc.CreateBooking(context.Background(), uuid.New(), CreateBookingRequest{
		EventID:  event.ID.String(),
		Quantity: 1,
	})
	assert.ErrorIs(t, err, ErrBookingWindowClosed)
	assert.Equal(t, 10, store.availableSeats())
}

func TestCreateBookingAttendeeMismatch(t *testing.T) {
	store := &fakeEventStore{event: testEvent(10, 0)}
	svc, _, _ := newTestService(store, newFakeBookingRepo())

	// More names than seats
	_, err := svc.CreateBooking(context.Background(), uuid.New(), CreateBookingRequest{
		EventID:       store.event.ID.String(),
		Quantity:      1,
		AttendeeNames: []string{"A", "B"},
	})
	assert.ErrorIs(t, err, ErrAttendeeMismatch)

	// Partial email list is rejected, all or nothing
	_, err = svc.CreateBooking(context.Background(), uuid.New(), CreateBookingRequest{
		EventID:        store.event.ID.String(),
		Quantity:       3,
		AttendeeEmails: []string{"a@example.com"},
	})
	assert.ErrorIs(t, err, ErrAttendeeMismatch)
}

func TestCreateBookingConcurrentNeverOversells(t *testing.T) {
	store := &fakeEventStore{event: testEvent(10, 0)}
	repo := newFakeBookingRepo()
	svc, _, _ := newTestService(store, repo)

	const attempts = 25
	var wg sync.WaitGroup
	results := make(chan error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.CreateBooking(context.Background(), uuid.New(), CreateBookingRequest{
				EventID:  store.event.ID.String(),
				Quantity: 1,
			})
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	succeeded := 0
	for err := range results {
		if err == nil {
			succeeded++
		} else {
			require.ErrorIs(t, err, ErrCapacityExceeded)
		}
	}

	assert.Equal(t, 10, succeeded)
	assert.Equal(t, 0, store.availableSeats())
}

func TestConfirmBookingIssuesTickets(t *testing.T) {
	store := &fakeEventStore{event: testEvent(10, 0)}
	repo := newFakeBookingRepo()
	svc, issuer, publisher := newTestService(store, repo)

	userID := uuid.New()
	created, err := svc.CreateBooking(context.Background(), userID, CreateBookingRequest{
		EventID:       store.event.ID.String(),
		Quantity:      3,
		AttendeeNames: []string{"Asha"},
	})
	require.NoError(t, err)

	resp, err := svc.ConfirmBooking(context.Background(), userID, created.BookingReference, ConfirmBookingRequest{
		PaymentMethod: "upi",
	})
	require.NoError(t, err)

	assert.Equal(t, StatusConfirmed, resp.Booking.Status)
	assert.Equal(t, 3, resp.TicketsIssued)
	assert.Equal(t, "COMPLETED", resp.Payment.Status)
	assert.Equal(t, resp.Booking.TotalAmount, resp.Payment.Amount)
	assert.Contains(t, publisher.published(), "booking.confirmed")

	// Confirmed seats stay out of inventory
	assert.Equal(t, 7, store.availableSeats())
	assert.Equal(t, 1, issuer.calls)
}

func TestConfirmBookingIdempotent(t *testing.T) {
	store := &fakeEventStore{event: testEvent(10, 0)}
	repo := newFakeBookingRepo()
	svc, issuer, _ := newTestService(store, repo)

	userID := uuid.New()
	created, err := svc.CreateBooking(context.Background(), userID, CreateBookingRequest{
		EventID:  store.event.ID.String(),
		Quantity: 2,
	})
	require.NoError(t, err)

	first, err := svc.ConfirmBooking(context.Background(), userID, created.BookingReference, ConfirmBookingRequest{PaymentMethod: "card"})
	require.NoError(t, err)
	assert.Equal(t, 2, first.TicketsIssued)

	// The repeat re-runs settlement but the issuer has nothing left to do
	second, err := svc.ConfirmBooking(context.Background(), userID, created.BookingReference, ConfirmBookingRequest{PaymentMethod: "card"})
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, second.Booking.Status)
	assert.Equal(t, 0, second.TicketsIssued)
	assert.Equal(t, 2, issuer.issued)
}

func TestConfirmBookingRetriesTicketIssuance(t *testing.T) {
	store := &fakeEventStore{event: testEvent(10, 0)}
	repo := newFakeBookingRepo()
	svc, issuer, publisher := newTestService(store, repo)

	userID := uuid.New()
	created, err := svc.CreateBooking(context.Background(), userID, CreateBookingRequest{
		EventID:  store.event.ID.String(),
		Quantity: 3,
	})
	require.NoError(t, err)

	// The issuer fails once, after the booking was already confirmed
	issuer.failures = 1
	_, err = svc.ConfirmBooking(context.Background(), userID, created.BookingReference, ConfirmBookingRequest{PaymentMethod: "upi"})
	require.Error(t, err)
	assert.Equal(t, 0, issuer.issued)

	// The retry must not leave a confirmed booking without tickets
	resp, err := svc.ConfirmBooking(context.Background(), userID, created.BookingReference, ConfirmBookingRequest{PaymentMethod: "upi"})
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, resp.Booking.Status)
	assert.Equal(t, 3, resp.TicketsIssued)
	assert.Equal(t, 3, issuer.issued)
	assert.Equal(t, "COMPLETED", resp.Payment.Status)
	assert.Equal(t, []string{"booking.confirmed"}, publisher.published())
}

func TestConfirmBookingRetriesPaymentRecording(t *testing.T) {
	store := &fakeEventStore{event: testEvent(10, 0)}
	repo := newFakeBookingRepo()
	svc, issuer, _ := newTestService(store, repo)

	userID := uuid.New()
	created, err := svc.CreateBooking(context.Background(), userID, CreateBookingRequest{
		EventID:  store.event.ID.String(),
		Quantity: 2,
	})
	require.NoError(t, err)

	repo.failPayments = 1
	_, err = svc.ConfirmBooking(context.Background(), userID, created.BookingReference, ConfirmBookingRequest{PaymentMethod: "card"})
	require.Error(t, err)

	resp, err := svc.ConfirmBooking(context.Background(), userID, created.BookingReference, ConfirmBookingRequest{PaymentMethod: "card"})
	require.NoError(t, err)
	assert.Equal(t, 2, resp.TicketsIssued)
	assert.Equal(t, 2, issuer.issued)
	assert.Equal(t, "COMPLETED", resp.Payment.Status)
}

func TestConfirmBookingNotOwned(t *testing.T) {
	store := &fakeEventStore{event: testEvent(10, 0)}
	svc, _, _ := newTestService(store, newFakeBookingRepo())

	created, err := svc.CreateBooking(context.Background(), uuid.New(), CreateBookingRequest{
		EventID:  store.event.ID.String(),
		Quantity: 1,
	})
	require.NoError(t, err)

	_, err = svc.ConfirmBooking(context.Background(), uuid.New(), created.BookingReference, ConfirmBookingRequest{PaymentMethod: "card"})
	assert.ErrorIs(t, err, ErrBookingNotOwned)
}

func TestConfirmBookingHoldExpired(t *testing.T) {
	store := &fakeEventStore{event: testEvent(10, 0)}
	repo := newFakeBookingRepo()
	issuer := &fakeTicketIssuer{}
	publisher := &fakePublisher{}
	svc := NewService(repo, store, issuer, publisher, Config{
		HoldWindow:      15 * time.Minute,
		PlatformFeeRate: 0.03,
	})

	userID := uuid.New()
	created, err := svc.CreateBooking(context.Background(), userID, CreateBookingRequest{
		EventID:  store.event.ID.String(),
		Quantity: 4,
	})
	require.NoError(t, err)
	assert.Equal(t, 6, store.availableSeats())

	// Move the clock past the hold deadline
	svc.(*service).now = func() time.Time { return time.Now().Add(20 * time.Minute) }

	_, err = svc.ConfirmBooking(context.Background(), userID, created.BookingReference, ConfirmBookingRequest{PaymentMethod: "card"})
	assert.ErrorIs(t, err, ErrHoldExpired)

	// Seats went back and the booking is terminal
	assert.Equal(t, 10, store.availableSeats())
	assert.Contains(t, publisher.published(), "booking.expired")

	got, err := svc.(*service).repo.GetByReference(context.Background(), created.BookingReference)
	require.NoError(t, err)
	assert.Equal(t, StatusExpired, got.Status)
	assert.Equal(t, 0, issuer.calls)
}

func TestCancelBookingReturnsSeats(t *testing.T) {
	store := &fakeEventStore{event: testEvent(10, 0)}
	repo := newFakeBookingRepo()
	svc, _, publisher := newTestService(store, repo)

	userID := uuid.New()
	created, err := svc.CreateBooking(context.Background(), userID, CreateBookingRequest{
		EventID:  store.event.ID.String(),
		Quantity: 3,
	})
	require.NoError(t, err)
	assert.Equal(t, 7, store.availableSeats())

	resp, err := svc.CancelBooking(context.Background(), userID, created.BookingReference)
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, resp.Status)
	assert.Equal(t, 10, store.availableSeats())
	assert.Contains(t, publisher.published(), "booking.cancelled")

	// Cancelled seats can be rebooked
	_, err = svc.CreateBooking(context.Background(), uuid.New(), CreateBookingRequest{
		EventID:  store.event.ID.String(),
		Quantity: 10,
	})
	assert.NoError(t, err)
}

func TestCancelConfirmedBookingRejected(t *testing.T) {
	store := &fakeEventStore{event: testEvent(10, 0)}
	repo := newFakeBookingRepo()
	svc, _, _ := newTestService(store, repo)

	userID := uuid.New()
	created, err := svc.CreateBooking(context.Background(), userID, CreateBookingRequest{
		EventID:  store.event.ID.String(),
		Quantity: 2,
	})
	require.NoError(t, err)

	_, err = svc.ConfirmBooking(context.Background(), userID, created.BookingReference, ConfirmBookingRequest{PaymentMethod: "wallet"})
	require.NoError(t, err)

	_, err = svc.CancelBooking(context.Background(), userID, created.BookingReference)
	assert.ErrorIs(t, err, ErrInvalidStateTransition)
	assert.Equal(t, 8, store.availableSeats())
}

func TestExpireOverdueBookings(t *testing.T) {
	store := &fakeEventStore{event: testEvent(10, 0)}
	repo := newFakeBookingRepo()
	svc, _, publisher := newTestService(store, repo)

	for i := 0; i < 2; i++ {
		_, err := svc.CreateBooking(context.Background(), uuid.New(), CreateBookingRequest{
			EventID:  store.event.ID.String(),
			Quantity: 2,
		})
		require.NoError(t, err)
	}
	assert.Equal(t, 6, store.availableSeats())

	svc.(*service).now = func() time.Time { return time.Now().Add(time.Hour) }

	expired, err := svc.ExpireOverdueBookings(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, expired)
	assert.Equal(t, 10, store.availableSeats())
	assert.Equal(t, []string{"booking.expired", "booking.expired"}, publisher.published())

	// Nothing left to expire on the next sweep
	expired, err = svc.ExpireOverdueBookings(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, expired)
}

func TestGetUserBookingsPaginationDefaults(t *testing.T) {
	store := &fakeEventStore{event: testEvent(10, 0)}
	repo := newFakeBookingRepo()
	svc, _, _ := newTestService(store, repo)

	userID := uuid.New()
	_, err := svc.CreateBooking(context.Background(), userID, CreateBookingRequest{
		EventID:  store.event.ID.String(),
		Quantity: 1,
	})
	require.NoError(t, err)

	page, err := svc.GetUserBookings(context.Background(), userID, 0, -5)
	require.NoError(t, err)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 10, page.Limit)
	assert.Equal(t, int64(1), page.TotalCount)
}
