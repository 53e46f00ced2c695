package bookings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateRequest(t *testing.T) {
	tests := []struct {
		name         string
		available    int
		maxPerUser   int
		requested    int
		userExisting int
		expected     error
	}{
		{"fits exactly", 5, 0, 5, 0, nil},
		{"fits with room", 10, 0, 3, 0, nil},
		{"zero quantity", 10, 0, 0, 0, ErrInvalidQuantity},
		{"negative quantity", 10, 0, -2, 0, ErrInvalidQuantity},
		{"over capacity", 4, 0, 5, 0, ErrCapacityExceeded},
		{"sold out", 0, 0, 1, 0, ErrCapacityExceeded},
		{"per user limit hit", 100, 4, 2, 3, ErrPerUserLimitExceeded},
		{"per user limit exact", 100, 4, 2, 2, nil},
		{"no per user limit", 100, 0, 50, 50, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRequest(tt.available, tt.maxPerUser, tt.requested, tt.userExisting)
			if tt.expected == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.expected)
			}
		})
	}
}

func TestValidateAttendees(t *testing.T) {
	t.Run("partial names allowed", func(t *testing.T) {
		err := validateAttendees(CreateBookingRequest{
			Quantity:      3,
			AttendeeNames: []string{"Asha"},
		})
		assert.NoError(t, err)
	})

	t.Run("too many names rejected", func(t *testing.T) {
		err := validateAttendees(CreateBookingRequest{
			Quantity:      1,
			AttendeeNames: []string{"Asha", "Rohan"},
		})
		assert.ErrorIs(t, err, ErrAttendeeMismatch)
	})

	t.Run("emails all or nothing", func(t *testing.T) {
		err := validateAttendees(CreateBookingRequest{
			Quantity:       2,
			AttendeeEmails: []string{"asha@example.com"},
		})
		assert.ErrorIs(t, err, ErrAttendeeMismatch)

		err = validateAttendees(CreateBookingRequest{
			Quantity:       2,
			AttendeeEmails: []string{"asha@example.com", "rohan@example.com"},
		})
		assert.NoError(t, err)
	})

	t.Run("phones all or nothing", func(t *testing.T) {
		err := validateAttendees(CreateBookingRequest{
			Quantity:       2,
			AttendeePhones: []string{"+919800000001"},
		})
		assert.ErrorIs(t, err, ErrAttendeeMismatch)
	})
}
