package notifications

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBookingNotificationLifecycle(t *testing.T) {
	n := NewBookingNotification(NotificationTypeBookingConfirmed,
		uuid.New(), uuid.New(), uuid.New(), "EVT-20260901-ABCDEF", 2, 5150, "INR")

	assert.Equal(t, NotificationStatusPending, n.Status)
	assert.Equal(t, "EVT-20260901-ABCDEF", n.PartitionKey())

	n.MarkFailed(errors.New("broker unavailable"))
	assert.Equal(t, NotificationStatusFailed, n.Status)
	assert.Equal(t, 1, n.RetryCount)
	require.NotNil(t, n.LastError)
	assert.Equal(t, "broker unavailable", *n.LastError)

	n.MarkSent()
	assert.Equal(t, NotificationStatusSent, n.Status)
	assert.NotNil(t, n.SentAt)
}

func TestBookingNotificationRoundTrip(t *testing.T) {
	n := NewBookingNotification(NotificationTypeBookingCancelled,
		uuid.New(), uuid.New(), uuid.New(), "EVT-20260901-XYZABC", 1, 800, "INR")

	raw, err := n.ToJSON()
	require.NoError(t, err)

	var decoded BookingNotification
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, n.BookingReference, decoded.BookingReference)
	assert.Equal(t, n.Type, decoded.Type)
	assert.Equal(t, n.TotalAmount, decoded.TotalAmount)
}

func TestSubjectPerType(t *testing.T) {
	n := NewBookingNotification(NotificationTypeBookingExpired,
		uuid.New(), uuid.New(), uuid.New(), "EVT-20260901-QQQQQQ", 1, 100, "INR")
	assert.Contains(t, n.Subject(), "expired")

	n.Type = NotificationTypeBookingConfirmed
	assert.Contains(t, n.Subject(), "confirmed")
}
