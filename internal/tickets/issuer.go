package tickets

import (
	"context"

	"github.com/google/uuid"
)

// Issuer adapts the ticket service to the shape the booking manager
// expects, keeping the package dependency one-way.
type Issuer struct {
	service Service
}

// NewIssuer creates a ticket issuer backed by the given service
func NewIssuer(service Service) *Issuer {
	return &Issuer{service: service}
}

// IssueTickets issues one ticket per seat and returns how many were
// created. A booking that already has tickets gets zero new ones.
func (i *Issuer) IssueTickets(ctx context.Context, bookingID, eventID uuid.UUID, reference string, names, emails []string, quantity int) (int, error) {
	issued, err := i.service.IssueForBooking(ctx, bookingID, eventID, reference, names, emails, quantity)
	if err != nil {
		return 0, err
	}
	return len(issued), nil
}
