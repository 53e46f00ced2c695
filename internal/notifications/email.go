package notifications

import (
	"context"
	"fmt"
	"log"
	"time"
)

// EmailSender delivers a booking notification by email.
type EmailSender interface {
	Send(ctx context.Context, notification *BookingNotification) error
}

// MockEmailSender logs the email instead of sending it. Real delivery sits
// behind the same interface.
type MockEmailSender struct {
	// SendDelay simulates provider latency in development.
	SendDelay time.Duration
}

// NewMockEmailSender creates a mock email sender
func NewMockEmailSender() *MockEmailSender {
	return &MockEmailSender{SendDelay: 50 * time.Millisecond}
}

func (m *MockEmailSender) Send(ctx context.Context, notification *BookingNotification) error {
	if m.SendDelay > 0 {
		select {
		case <-time.After(m.SendDelay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	recipient := notification.RecipientEmail
	if recipient == "" {
		recipient = fmt.Sprintf("user-%s@example.com", notification.UserID)
	}

	log.Printf("📧 [MOCK EMAIL] To: %s | Subject: %s | Booking: %s | Amount: %.2f %s",
		recipient, notification.Subject(), notification.BookingReference,
		notification.TotalAmount, notification.Currency)

	return nil
}
