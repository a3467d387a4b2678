package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iliyamo/ticket-booking/internal/queue"
)

// MaxListLimit caps how many events Recent returns in one call.
const MaxListLimit = 500

const createEventsTable = `CREATE TABLE IF NOT EXISTS ticket_events (
	id          BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
	type        VARCHAR(64)    NOT NULL,
	email       VARCHAR(320)   NOT NULL,
	first_name  VARCHAR(255)   NOT NULL,
	last_name   VARCHAR(255)   NOT NULL,
	seat        VARCHAR(16)    NOT NULL,
	section     VARCHAR(8)     NOT NULL,
	price       DECIMAL(10,2)  NOT NULL,
	occurred_at DATETIME       NOT NULL,
	created_at  DATETIME       NOT NULL DEFAULT CURRENT_TIMESTAMP,
	KEY idx_ticket_events_email (email)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`

// StoredEvent is a ticket event as recorded in the ticket_events table.
type StoredEvent struct {
	ID uint64 `json:"id"`
	queue.TicketEvent
}

// EventRepo persists ticket events for auditing.
type EventRepo struct{ DB *sql.DB }

func NewEventRepo(db *sql.DB) *EventRepo { return &EventRepo{DB: db} }

// EnsureSchema creates the ticket_events table when it does not exist.
func (r *EventRepo) EnsureSchema(ctx context.Context) error {
	_, err := r.DB.ExecContext(ctx, createEventsTable)
	return err
}

// Insert records ev.  An unparsable timestamp is replaced by the current
// time rather than rejecting the event.
func (r *EventRepo) Insert(ctx context.Context, ev queue.TicketEvent) error {
	at, err := time.Parse(time.RFC3339, ev.OccurredAt)
	if err != nil {
		at = time.Now().UTC()
	}
	price, err := decimal.NewFromString(ev.Price)
	if err != nil {
		price = decimal.Zero
	}
	_, err = r.DB.ExecContext(ctx,
		"INSERT INTO ticket_events (type, email, first_name, last_name, seat, section, price, occurred_at) VALUES (?,?,?,?,?,?,?,?)",
		ev.Type, ev.Email, ev.FirstName, ev.LastName, ev.Seat, ev.Section, price.StringFixed(2), at)
	return err
}

// Recent returns up to limit events, newest first.
func (r *EventRepo) Recent(ctx context.Context, limit int) ([]StoredEvent, error) {
	if limit <= 0 || limit > MaxListLimit {
		return nil, ErrInvalidLimit
	}
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id, type, email, first_name, last_name, seat, section, price, occurred_at FROM ticket_events ORDER BY id DESC LIMIT ?",
		limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]StoredEvent, 0, limit)
	for rows.Next() {
		var (
			ev    StoredEvent
			price string
			at    time.Time
		)
		if err := rows.Scan(&ev.ID, &ev.Type, &ev.Email, &ev.FirstName, &ev.LastName,
			&ev.Seat, &ev.Section, &price, &at); err != nil {
			return nil, err
		}
		ev.Price = price
		ev.OccurredAt = at.UTC().Format(time.RFC3339)
		out = append(out, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
