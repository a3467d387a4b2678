package model

import "github.com/shopspring/decimal"

// Every ticket is sold for the same route at the same price.
const (
	Origin      = "London"
	Destination = "France"
)

// TicketPrice is the fixed fare charged for any seat.
var TicketPrice = decimal.NewFromInt(20)

func init() {
	// prices are emitted as JSON numbers, not strings
	decimal.MarshalJSONWithoutQuotes = true
}

// Ticket represents a purchased seat on the London to France route.  The
// user is embedded by value so a ticket is self-contained when rendered.
//
// Fields:
//  From  – departure city, always Origin.
//  To    – arrival city, always Destination.
//  User  – passenger holding the ticket.
//  Price – fare paid.
//  Seat  – seat code: section letter followed by a 1-based number (e.g. A1).
type Ticket struct {
	From  string          `json:"from"`
	To    string          `json:"to"`
	User  User            `json:"user"`
	Price decimal.Decimal `json:"price"`
	Seat  string          `json:"seat"`
}

// NewTicket builds a ticket on the fixed route for the given user and seat.
func NewTicket(u User, seat string) Ticket {
	return Ticket{
		From:  Origin,
		To:    Destination,
		User:  u,
		Price: TicketPrice,
		Seat:  seat,
	}
}
