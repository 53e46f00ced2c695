package events

// EventStatus is the publication lifecycle of an event
type EventStatus string

const (
	StatusDraft     EventStatus = "draft"
	StatusPublished EventStatus = "published"
	StatusCancelled EventStatus = "cancelled"
	StatusCompleted EventStatus = "completed"
)

// IsValid checks if the event status is valid
func (s EventStatus) IsValid() bool {
	switch s {
	case StatusDraft, StatusPublished, StatusCancelled, StatusCompleted:
		return true
	}
	return false
}

// String returns the string representation of EventStatus
func (s EventStatus) String() string {
	return string(s)
}
