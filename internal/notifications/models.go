package notifications

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type NotificationType string

const (
	NotificationTypeBookingConfirmed NotificationType = "BOOKING_CONFIRMED"
	NotificationTypeBookingCancelled NotificationType = "BOOKING_CANCELLED"
	NotificationTypeBookingExpired   NotificationType = "BOOKING_EXPIRED"
)

type NotificationStatus string

const (
	NotificationStatusPending NotificationStatus = "PENDING"
	NotificationStatusQueued  NotificationStatus = "QUEUED"
	NotificationStatusSent    NotificationStatus = "SENT"
	NotificationStatusFailed  NotificationStatus = "FAILED"
)

// BookingNotification is the message published for each booking lifecycle
// change.
type BookingNotification struct {
	ID               uuid.UUID        `json:"id"`
	Type             NotificationType `json:"type"`
	BookingID        uuid.UUID        `json:"booking_id"`
	BookingReference string           `json:"booking_reference"`
	EventID          uuid.UUID        `json:"event_id"`
	UserID           uuid.UUID        `json:"user_id"`
	Quantity         int              `json:"quantity"`
	TotalAmount      float64          `json:"total_amount"`
	Currency         string           `json:"currency"`

	RecipientEmail string `json:"recipient_email,omitempty"`
	RecipientName  string `json:"recipient_name,omitempty"`

	Status     NotificationStatus `json:"status"`
	RetryCount int                `json:"retry_count"`
	LastError  *string            `json:"last_error,omitempty"`
	CreatedAt  time.Time          `json:"created_at"`
	UpdatedAt  time.Time          `json:"updated_at"`
	SentAt     *time.Time         `json:"sent_at,omitempty"`
}

// NewBookingNotification builds a pending notification for a lifecycle
// change.
func NewBookingNotification(notType NotificationType, bookingID, eventID, userID uuid.UUID, reference string, quantity int, totalAmount float64, currency string) *BookingNotification {
	now := time.Now()
	return &BookingNotification{
		ID:               uuid.New(),
		Type:             notType,
		BookingID:        bookingID,
		BookingReference: reference,
		EventID:          eventID,
		UserID:           userID,
		Quantity:         quantity,
		TotalAmount:      totalAmount,
		Currency:         currency,
		Status:           NotificationStatusPending,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

func (n *BookingNotification) ToJSON() ([]byte, error) {
	return json.Marshal(n)
}

// PartitionKey routes every message for a booking to the same partition so
// its lifecycle is consumed in order.
func (n *BookingNotification) PartitionKey() string {
	return n.BookingReference
}

func (n *BookingNotification) MarkSent() {
	now := time.Now()
	n.Status = NotificationStatusSent
	n.SentAt = &now
	n.UpdatedAt = now
}

func (n *BookingNotification) MarkFailed(err error) {
	msg := err.Error()
	n.Status = NotificationStatusFailed
	n.LastError = &msg
	n.RetryCount++
	n.UpdatedAt = time.Now()
}

// Subject renders the email subject line for the notification type.
func (n *BookingNotification) Subject() string {
	switch n.Type {
	case NotificationTypeBookingConfirmed:
		return "✅ Booking " + n.BookingReference + " confirmed"
	case NotificationTypeBookingCancelled:
		return "❌ Booking " + n.BookingReference + " cancelled"
	case NotificationTypeBookingExpired:
		return "⏰ Booking " + n.BookingReference + " expired"
	default:
		return "📧 Update for booking " + n.BookingReference
	}
}
