package bookings

import "errors"

var (
	// ErrBookingNotFound is returned when no booking matches the lookup.
	ErrBookingNotFound = errors.New("booking not found")

	// ErrCapacityExceeded is returned when a request asks for more seats
	// than the event has left. Losing a reservation race surfaces the same
	// error as a stale availability pre-check.
	ErrCapacityExceeded = errors.New("requested quantity exceeds available seats")

	// ErrPerUserLimitExceeded is returned when the request would push the
	// user past the event's per-user ticket limit.
	ErrPerUserLimitExceeded = errors.New("requested quantity exceeds per-user ticket limit")

	// ErrInvalidStateTransition is returned when an operation is not legal
	// for the booking's current status.
	ErrInvalidStateTransition = errors.New("invalid booking state transition")

	// ErrBookingNotOwned is returned when a booking belongs to another user.
	ErrBookingNotOwned = errors.New("booking does not belong to user")

	// ErrHoldExpired is returned when a pending booking is acted on after
	// its hold deadline passed.
	ErrHoldExpired = errors.New("booking hold has expired")

	// ErrBookingWindowClosed is returned when the event is not accepting
	// bookings at this time.
	ErrBookingWindowClosed = errors.New("event booking window is closed")

	// ErrInvalidQuantity is returned for non-positive quantities.
	ErrInvalidQuantity = errors.New("quantity must be at least 1")

	// ErrAttendeeMismatch is returned when supplied attendee details do not
	// line up with the requested quantity.
	ErrAttendeeMismatch = errors.New("attendee details must match quantity")
)
