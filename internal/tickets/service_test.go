package tickets

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTicketRepo struct {
	mu      sync.Mutex
	tickets map[string]*Ticket
}

func newFakeTicketRepo() *fakeTicketRepo {
	return &fakeTicketRepo{tickets: make(map[string]*Ticket)}
}

func (f *fakeTicketRepo) CreateBatch(ctx context.Context, tickets []Ticket) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range tickets {
		t := tickets[i]
		if t.ID == uuid.Nil {
			t.ID = uuid.New()
		}
		t.CreatedAt = time.Now()
		f.tickets[t.TicketNumber] = &t
	}
	return nil
}

func (f *fakeTicketRepo) GetByNumber(ctx context.Context, number string) (*Ticket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.tickets[number]
	if !ok {
		return nil, ErrTicketNotFound
	}
	copied := *t
	return &copied, nil
}

func (f *fakeTicketRepo) GetByBookingID(ctx context.Context, bookingID uuid.UUID) ([]Ticket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []Ticket
	for _, t := range f.tickets {
		if t.BookingID == bookingID {
			result = append(result, *t)
		}
	}
	return result, nil
}

func (f *fakeTicketRepo) CountByBookingID(ctx context.Context, bookingID uuid.UUID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var count int64
	for _, t := range f.tickets {
		if t.BookingID == bookingID {
			count++
		}
	}
	return count, nil
}

func (f *fakeTicketRepo) MarkUsed(ctx context.Context, number string) (*Ticket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.tickets[number]
	if !ok {
		return nil, ErrTicketNotFound
	}
	if t.Status != StatusActive {
		return nil, ErrTicketNotActive
	}
	now := time.Now()
	t.Status = StatusUsed
	t.CheckedInAt = &now
	copied := *t
	return &copied, nil
}

func (f *fakeTicketRepo) CancelByBookingID(ctx context.Context, bookingID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.tickets {
		if t.BookingID == bookingID && t.Status == StatusActive {
			t.Status = StatusCancelled
		}
	}
	return nil
}

func TestIssueForBooking(t *testing.T) {
	repo := newFakeTicketRepo()
	svc := NewService(repo)

	bookingID := uuid.New()
	eventID := uuid.New()

	issued, err := svc.IssueForBooking(context.Background(), bookingID, eventID, "EVT-20260901-ABCDEF",
		[]string{"Asha Iyer"}, []string{"asha@example.com", "guest2@example.com", ""}, 3)
	require.NoError(t, err)
	require.Len(t, issued, 3)

	// First seat carries the supplied name, the rest fall back to Guest
	assert.Equal(t, "Asha Iyer", issued[0].AttendeeName)
	assert.Equal(t, "Guest", issued[1].AttendeeName)
	assert.Equal(t, "Guest", issued[2].AttendeeName)
	assert.Equal(t, "asha@example.com", issued[0].AttendeeEmail)

	for _, ticket := range issued {
		assert.Regexp(t, `^TKT-EVT-20260901-ABCDEF-\d{6}$`, ticket.TicketNumber)
		assert.Equal(t, StatusActive, ticket.Status)
		assert.Equal(t, bookingID, ticket.BookingID)
		assert.Equal(t, eventID, ticket.EventID)
	}
}

func TestIssueForBookingIdempotent(t *testing.T) {
	repo := newFakeTicketRepo()
	svc := NewService(repo)

	bookingID := uuid.New()
	first, err := svc.IssueForBooking(context.Background(), bookingID, uuid.New(), "EVT-20260901-AAAAAA", nil, nil, 2)
	require.NoError(t, err)
	assert.Len(t, first, 2)

	second, err := svc.IssueForBooking(context.Background(), bookingID, uuid.New(), "EVT-20260901-AAAAAA", nil, nil, 2)
	require.NoError(t, err)
	assert.Empty(t, second)

	count, err := repo.CountByBookingID(context.Background(), bookingID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestCheckIn(t *testing.T) {
	repo := newFakeTicketRepo()
	svc := NewService(repo)

	issued, err := svc.IssueForBooking(context.Background(), uuid.New(), uuid.New(), "EVT-20260901-BBBBBB", nil, nil, 1)
	require.NoError(t, err)
	number := issued[0].TicketNumber

	resp, err := svc.CheckIn(context.Background(), number)
	require.NoError(t, err)
	assert.Equal(t, StatusUsed, resp.Status)
	assert.NotNil(t, resp.CheckedInAt)

	// Second scan of the same ticket is rejected
	_, err = svc.CheckIn(context.Background(), number)
	assert.ErrorIs(t, err, ErrTicketNotActive)

	_, err = svc.CheckIn(context.Background(), "TKT-UNKNOWN-000000")
	assert.ErrorIs(t, err, ErrTicketNotFound)
}

func TestCancelForBooking(t *testing.T) {
	repo := newFakeTicketRepo()
	svc := NewService(repo)

	bookingID := uuid.New()
	issued, err := svc.IssueForBooking(context.Background(), bookingID, uuid.New(), "EVT-20260901-CCCCCC", nil, nil, 2)
	require.NoError(t, err)

	// A used ticket stays used, only active ones are cancelled
	_, err = svc.CheckIn(context.Background(), issued[0].TicketNumber)
	require.NoError(t, err)

	require.NoError(t, svc.CancelForBooking(context.Background(), bookingID))

	tickets, err := svc.GetTicketsByBooking(context.Background(), bookingID)
	require.NoError(t, err)
	statuses := map[TicketStatus]int{}
	for _, ticket := range tickets {
		statuses[ticket.Status]++
	}
	assert.Equal(t, 1, statuses[StatusUsed])
	assert.Equal(t, 1, statuses[StatusCancelled])
}
