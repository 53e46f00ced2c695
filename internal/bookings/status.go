package bookings

// BookingStatus tracks a booking through its lifecycle.
type BookingStatus string

const (
	StatusPending   BookingStatus = "PENDING"
	StatusConfirmed BookingStatus = "CONFIRMED"
	StatusCancelled BookingStatus = "CANCELLED"
	StatusRefunded  BookingStatus = "REFUNDED"
	StatusExpired   BookingStatus = "EXPIRED"
)

func (s BookingStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusRefunded, StatusExpired:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether the status allows no further transitions.
func (s BookingStatus) IsTerminal() bool {
	switch s {
	case StatusCancelled, StatusRefunded, StatusExpired:
		return true
	default:
		return false
	}
}

// CanTransitionTo enforces the booking state machine. A pending booking can
// be confirmed, cancelled or expired; a confirmed booking can only move to
// refunded.
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	switch s {
	case StatusPending:
		return next == StatusConfirmed || next == StatusCancelled || next == StatusExpired
	case StatusConfirmed:
		return next == StatusRefunded
	default:
		return false
	}
}

func (s BookingStatus) String() string {
	return string(s)
}
