package notifications

import (
	"context"
	"fmt"

	"gatherly/internal/bookings"
)

// BookingPublisher adapts the Kafka producer to the shape the booking
// manager expects.
type BookingPublisher struct {
	producer Producer
}

// NewBookingPublisher creates a booking notification publisher
func NewBookingPublisher(producer Producer) *BookingPublisher {
	return &BookingPublisher{producer: producer}
}

// PublishBookingNotification maps a booking lifecycle change onto a Kafka
// message.
func (p *BookingPublisher) PublishBookingNotification(ctx context.Context, kind string, booking *bookings.Booking) error {
	var notType NotificationType
	switch kind {
	case "booking.confirmed":
		notType = NotificationTypeBookingConfirmed
	case "booking.cancelled":
		notType = NotificationTypeBookingCancelled
	case "booking.expired":
		notType = NotificationTypeBookingExpired
	default:
		return fmt.Errorf("unknown booking notification kind: %s", kind)
	}

	notification := NewBookingNotification(notType,
		booking.ID, booking.EventID, booking.UserID,
		booking.BookingReference, booking.Quantity,
		booking.TotalAmount, booking.Currency)

	if len(booking.AttendeeEmails) > 0 {
		notification.RecipientEmail = booking.AttendeeEmails[0]
	}
	if len(booking.AttendeeNames) > 0 {
		notification.RecipientName = booking.AttendeeNames[0]
	}

	return p.producer.Publish(ctx, notification)
}
