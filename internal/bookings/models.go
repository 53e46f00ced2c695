package bookings

import (
	"time"

	"github.com/google/uuid"
)

// Booking defines the main booking structure
type Booking struct {
	ID               uuid.UUID     `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	BookingReference string        `gorm:"uniqueIndex;not null;size:20" json:"booking_reference"`
	EventID          uuid.UUID     `gorm:"type:uuid;index;not null" json:"event_id"`
	UserID           uuid.UUID     `gorm:"type:uuid;index;not null" json:"user_id"`
	Quantity         int           `gorm:"not null;check:quantity >= 1" json:"quantity"`

	// Price snapshot taken at creation time. Later changes to the event's
	// base price never touch an existing booking.
	UnitPrice   float64 `gorm:"not null" json:"unit_price"`
	Fee         float64 `gorm:"not null" json:"fee"`
	TotalAmount float64 `gorm:"not null" json:"total_amount"`
	Currency    string  `gorm:"type:varchar(3);default:'INR'" json:"currency"`

	Status BookingStatus `gorm:"type:varchar(20);not null;default:'PENDING';index" json:"status"`

	AttendeeNames  []string `gorm:"serializer:json" json:"attendee_names,omitempty"`
	AttendeeEmails []string `gorm:"serializer:json" json:"attendee_emails,omitempty"`
	AttendeePhones []string `gorm:"serializer:json" json:"attendee_phones,omitempty"`

	SpecialRequests string `gorm:"size:1000" json:"special_requests,omitempty"`
	PromoCode       string `gorm:"size:50" json:"promo_code,omitempty"`

	// HoldExpiresAt is the deadline for confirming a pending booking.
	HoldExpiresAt time.Time  `gorm:"not null;index" json:"hold_expires_at"`
	ConfirmedAt   *time.Time `json:"confirmed_at,omitempty"`
	CancelledAt   *time.Time `json:"cancelled_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Payments []Payment `json:"payments,omitempty" gorm:"foreignKey:BookingID;constraint:OnDelete:RESTRICT;"`
}

// Payment defines the structure for payment tracking
type Payment struct {
	ID            uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	BookingID     uuid.UUID  `gorm:"type:uuid;index;not null" json:"booking_id"`
	Amount        float64    `gorm:"not null" json:"amount"`
	Currency      string     `gorm:"type:varchar(3);default:'INR'" json:"currency"`
	Status        string     `gorm:"type:varchar(20);check:status IN ('PENDING', 'COMPLETED', 'FAILED', 'REFUNDED');default:'PENDING'" json:"status"`
	PaymentMethod string     `gorm:"type:varchar(50)" json:"payment_method"`
	TransactionID string     `gorm:"unique" json:"transaction_id"`
	ProcessedAt   *time.Time `json:"processed_at,omitempty"`
	FailureReason string     `json:"failure_reason,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// TableName sets the table name for Booking
func (Booking) TableName() string {
	return "bookings"
}

// TableName sets the table name for Payment
func (Payment) TableName() string {
	return "payments"
}

// Helper methods for booking management
func (b *Booking) IsPending() bool {
	return b.Status == StatusPending
}

func (b *Booking) IsConfirmed() bool {
	return b.Status == StatusConfirmed
}

// HoldExpired reports whether the pending hold deadline has passed.
func (b *Booking) HoldExpired(now time.Time) bool {
	return b.Status == StatusPending && now.After(b.HoldExpiresAt)
}

// AttendeeName returns the attendee name at position i, falling back to
// "Guest" when none was supplied.
func (b *Booking) AttendeeName(i int) string {
	if i < len(b.AttendeeNames) && b.AttendeeNames[i] != "" {
		return b.AttendeeNames[i]
	}
	return "Guest"
}

// AttendeeEmail returns the attendee email at position i, empty when none
// was supplied.
func (b *Booking) AttendeeEmail(i int) string {
	if i < len(b.AttendeeEmails) {
		return b.AttendeeEmails[i]
	}
	return ""
}

// Helper methods for payment management
func (p *Payment) IsCompleted() bool {
	return p.Status == "COMPLETED"
}

func (p *Payment) MarkCompleted() {
	now := time.Now()
	p.Status = "COMPLETED"
	p.ProcessedAt = &now
	p.UpdatedAt = now
}

// Convert Payment to PaymentInfo
func (p *Payment) ToPaymentInfo() PaymentInfo {
	return PaymentInfo{
		ID:            p.ID.String(),
		Amount:        p.Amount,
		Currency:      p.Currency,
		Status:        p.Status,
		PaymentMethod: p.PaymentMethod,
		TransactionID: p.TransactionID,
		ProcessedAt:   p.ProcessedAt,
	}
}

// CreateBookingRequest represents a seat reservation request
type CreateBookingRequest struct {
	EventID         string   `json:"event_id" binding:"required,uuid"`
	Quantity        int      `json:"quantity" binding:"required,min=1"`
	AttendeeNames   []string `json:"attendee_names" binding:"omitempty,dive,max=255"`
	AttendeeEmails  []string `json:"attendee_emails" binding:"omitempty,dive,email"`
	AttendeePhones  []string `json:"attendee_phones" binding:"omitempty,dive,max=20"`
	SpecialRequests string   `json:"special_requests" binding:"omitempty,max=1000"`
	PromoCode       string   `json:"promo_code" binding:"omitempty,max=50"`
}

// ConfirmBookingRequest represents booking confirmation request
type ConfirmBookingRequest struct {
	PaymentMethod string `json:"payment_method" binding:"required,oneof=card upi netbanking wallet"`
}

// BookingResponse represents a booking in API responses
type BookingResponse struct {
	ID               string        `json:"id"`
	BookingReference string        `json:"booking_reference"`
	EventID          string        `json:"event_id"`
	Quantity         int           `json:"quantity"`
	UnitPrice        float64       `json:"unit_price"`
	Subtotal         float64       `json:"subtotal"`
	Fee              float64       `json:"fee"`
	TotalAmount      float64       `json:"total_amount"`
	Currency         string        `json:"currency"`
	Status           BookingStatus `json:"status"`
	AttendeeNames    []string      `json:"attendee_names,omitempty"`
	SpecialRequests  string        `json:"special_requests,omitempty"`
	HoldExpiresAt    time.Time     `json:"hold_expires_at"`
	ConfirmedAt      *time.Time    `json:"confirmed_at,omitempty"`
	CreatedAt        time.Time     `json:"created_at"`
}

// BookingConfirmationResponse represents booking confirmation response
type BookingConfirmationResponse struct {
	Booking       BookingResponse `json:"booking"`
	TicketsIssued int             `json:"tickets_issued"`
	Payment       PaymentInfo     `json:"payment"`
}

// PaymentInfo represents payment information in responses
type PaymentInfo struct {
	ID            string     `json:"id"`
	Amount        float64    `json:"amount"`
	Currency      string     `json:"currency"`
	Status        string     `json:"status"`
	PaymentMethod string     `json:"payment_method"`
	TransactionID string     `json:"transaction_id"`
	ProcessedAt   *time.Time `json:"processed_at,omitempty"`
}

// PaginatedBookings wraps a page of a user's bookings
type PaginatedBookings struct {
	Bookings   []BookingResponse `json:"bookings"`
	TotalCount int64             `json:"total_count"`
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
}

// ToResponse converts a Booking to its API representation
func (b *Booking) ToResponse() BookingResponse {
	return BookingResponse{
		ID:               b.ID.String(),
		BookingReference: b.BookingReference,
		EventID:          b.EventID.String(),
		Quantity:         b.Quantity,
		UnitPrice:        b.UnitPrice,
		Subtotal:         b.TotalAmount - b.Fee,
		Fee:              b.Fee,
		TotalAmount:      b.TotalAmount,
		Currency:         b.Currency,
		Status:           b.Status,
		AttendeeNames:    b.AttendeeNames,
		SpecialRequests:  b.SpecialRequests,
		HoldExpiresAt:    b.HoldExpiresAt,
		ConfirmedAt:      b.ConfirmedAt,
		CreatedAt:        b.CreatedAt,
	}
}
