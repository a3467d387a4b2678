// Package queue defines message payloads exchanged over the message broker.
package queue

import (
	"time"

	"github.com/iliyamo/ticket-booking/internal/model"
)

// Event types published after a successful registry mutation.
const (
	EventTicketPurchased    = "ticket.purchased"
	EventTicketRemoved      = "ticket.removed"
	EventTicketSeatModified = "ticket.seat_modified"
)

// TicketEvent is published whenever a ticket is bought, removed or moved.
// It carries enough of the ticket for downstream consumers to keep an
// audit trail without querying the service.
type TicketEvent struct {
	Type       string `json:"type"`
	Email      string `json:"email"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Seat       string `json:"seat"`
	Section    string `json:"section"`
	Price      string `json:"price"`
	OccurredAt string `json:"occurred_at"`
}

// NewTicketEvent captures t, seated in section, as an event of the given
// type stamped now.
func NewTicketEvent(eventType string, t model.Ticket, section string, now time.Time) TicketEvent {
	return TicketEvent{
		Type:       eventType,
		Email:      t.User.Email,
		FirstName:  t.User.FirstName,
		LastName:   t.User.LastName,
		Seat:       t.Seat,
		Section:    section,
		Price:      t.Price.StringFixed(2),
		OccurredAt: now.UTC().Format(time.RFC3339),
	}
}
