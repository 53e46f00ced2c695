package bookings

// ValidateRequest checks a requested quantity against the event's remaining
// seats and its per-user limit. The capacity check here is advisory; the
// authoritative check is the conditional seat decrement, which reports a
// lost race as the same ErrCapacityExceeded.
func ValidateRequest(available, maxPerUser, requested, userExisting int) error {
	if requested < 1 {
		return ErrInvalidQuantity
	}
	if requested > available {
		return ErrCapacityExceeded
	}
	if maxPerUser > 0 && userExisting+requested > maxPerUser {
		return ErrPerUserLimitExceeded
	}
	return nil
}

// validateAttendees checks that attendee detail slices, when supplied, line
// up with the requested quantity. Names may be partially filled; missing
// names are backfilled with "Guest" at ticket issue time.
func validateAttendees(req CreateBookingRequest) error {
	if len(req.AttendeeNames) > req.Quantity {
		return ErrAttendeeMismatch
	}
	if len(req.AttendeeEmails) != 0 && len(req.AttendeeEmails) != req.Quantity {
		return ErrAttendeeMismatch
	}
	if len(req.AttendeePhones) != 0 && len(req.AttendeePhones) != req.Quantity {
		return ErrAttendeeMismatch
	}
	return nil
}
