package tickets

import (
	"time"

	"github.com/google/uuid"
)

// TicketStatus tracks a ticket from issue to the gate.
type TicketStatus string

const (
	StatusActive    TicketStatus = "ACTIVE"
	StatusUsed      TicketStatus = "USED"
	StatusCancelled TicketStatus = "CANCELLED"
	StatusRefunded  TicketStatus = "REFUNDED"
)

func (s TicketStatus) IsValid() bool {
	switch s {
	case StatusActive, StatusUsed, StatusCancelled, StatusRefunded:
		return true
	default:
		return false
	}
}

// Ticket is a single seat on a confirmed booking, one per attendee.
type Ticket struct {
	ID            uuid.UUID    `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	TicketNumber  string       `gorm:"uniqueIndex;not null;size:30" json:"ticket_number"`
	BookingID     uuid.UUID    `gorm:"type:uuid;index;not null" json:"booking_id"`
	EventID       uuid.UUID    `gorm:"type:uuid;index;not null" json:"event_id"`
	AttendeeName  string       `gorm:"not null;size:255" json:"attendee_name"`
	AttendeeEmail string       `gorm:"size:255" json:"attendee_email,omitempty"`
	Status        TicketStatus `gorm:"type:varchar(20);not null;default:'ACTIVE'" json:"status"`
	CheckedInAt   *time.Time   `json:"checked_in_at,omitempty"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
}

// TableName sets the table name for Ticket
func (Ticket) TableName() string {
	return "tickets"
}

func (t *Ticket) IsActive() bool {
	return t.Status == StatusActive
}

// TicketResponse represents a ticket in API responses
type TicketResponse struct {
	ID            string       `json:"id"`
	TicketNumber  string       `json:"ticket_number"`
	BookingID     string       `json:"booking_id"`
	EventID       string       `json:"event_id"`
	AttendeeName  string       `json:"attendee_name"`
	AttendeeEmail string       `json:"attendee_email,omitempty"`
	Status        TicketStatus `json:"status"`
	CheckedInAt   *time.Time   `json:"checked_in_at,omitempty"`
	CreatedAt     time.Time    `json:"created_at"`
}

func (t *Ticket) ToResponse() TicketResponse {
	return TicketResponse{
		ID:            t.ID.String(),
		TicketNumber:  t.TicketNumber,
		BookingID:     t.BookingID.String(),
		EventID:       t.EventID.String(),
		AttendeeName:  t.AttendeeName,
		AttendeeEmail: t.AttendeeEmail,
		Status:        t.Status,
		CheckedInAt:   t.CheckedInAt,
		CreatedAt:     t.CreatedAt,
	}
}
