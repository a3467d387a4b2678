package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/labstack/gommon/log"
	amqp "github.com/rabbitmq/amqp091-go"
)

// EventStore persists consumed events.  The MySQL event repository
// satisfies it; a nil store means events are only written to the log file.
type EventStore interface {
	Insert(ctx context.Context, ev TicketEvent) error
}

// Consumer reads ticket events from RabbitMQ and appends each one to
// <LogDir>/tickets.log, storing it in the EventStore when one is set.
type Consumer struct {
	URL    string
	Queue  string
	LogDir string
	Store  EventStore
	Log    *log.Logger

	mu sync.Mutex // serialises appends to the log file
}

// Run connects to the broker, declares the queue (durable) and consumes
// until ctx is cancelled.  Connection failures are retried with an
// exponential backoff capped at 30s; a message that cannot be handled is
// rejected without requeue so the loop keeps going.
func (c *Consumer) Run(ctx context.Context) error {
	backoff := time.Second
	for {
		conn, err := amqp.Dial(c.URL)
		if err != nil {
			c.Log.Warnf("ticket-consumer: failed to dial broker: %v; retrying in %s", err, backoff)
			if !sleep(ctx, backoff) {
				return ctx.Err()
			}
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		err = c.consumeLoop(ctx, conn)
		_ = conn.Close()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		c.Log.Warnf("ticket-consumer: consume loop ended: %v; reconnecting", err)
		if !sleep(ctx, 2*time.Second) {
			return ctx.Err()
		}
	}
}

func (c *Consumer) consumeLoop(ctx context.Context, conn *amqp.Connection) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		c.Log.Warnf("ticket-consumer: set QoS failed: %v", err)
	}
	if _, err := ch.QueueDeclare(c.Queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}
	msgs, err := ch.ConsumeWithContext(ctx, c.Queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	for d := range msgs {
		if err := c.handleMessage(ctx, d.Body); err != nil {
			c.Log.Errorf("ticket-consumer: handle message failed: %v", err)
			_ = d.Nack(false, false)
			continue
		}
		_ = d.Ack(false)
	}
	return errors.New("deliveries channel closed")
}

func (c *Consumer) handleMessage(ctx context.Context, body []byte) error {
	var ev TicketEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	if ev.Type == "" {
		return errors.New("event without type")
	}
	if err := c.appendLine(ev); err != nil {
		return err
	}
	if c.Store != nil {
		if err := c.Store.Insert(ctx, ev); err != nil {
			return fmt.Errorf("store event: %w", err)
		}
	}
	return nil
}

func (c *Consumer) appendLine(ev TicketEvent) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := os.MkdirAll(c.LogDir, 0o755); err != nil {
		return fmt.Errorf("mkdir logs: %w", err)
	}
	f, err := os.OpenFile(filepath.Join(c.LogDir, "tickets.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(FormatLine(ev)); err != nil {
		return fmt.Errorf("write log: %w", err)
	}
	return nil
}

// FormatLine renders ev as a single human-friendly log line.
func FormatLine(ev TicketEvent) string {
	return fmt.Sprintf("[%s] %s | email=%s | name=\"%s %s\" | seat=%s | section=%s | price=%s\n",
		ev.OccurredAt, ev.Type, ev.Email, ev.FirstName, ev.LastName, ev.Seat, ev.Section, ev.Price)
}

// sleep waits for d or until ctx is done; it reports whether d elapsed.
func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
