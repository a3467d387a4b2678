package service

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/iliyamo/ticket-booking/internal/config"
	"github.com/iliyamo/ticket-booking/internal/queue"
)

// AMQPPublisher publishes ticket events to RabbitMQ.  Every call dials the
// broker, declares the durable queue and publishes one persistent message.
// Dialing and the AMQP handshake are bounded by the configured timeout.
// Errors are logged and returned so callers can ignore them without
// interrupting the request.
type AMQPPublisher struct {
	url     string
	queue   string
	timeout time.Duration
	log     Logger
}

// defaultDialTimeout applies when the config leaves DialTimeout unset.
const defaultDialTimeout = 2 * time.Second

// NewAMQPPublisher builds a publisher for the queue named in cfg.
func NewAMQPPublisher(cfg config.EventsConfig, l Logger) *AMQPPublisher {
	if l == nil {
		l = nopLogger{}
	}
	timeout := cfg.DialTimeout
	if timeout <= 0 {
		timeout = defaultDialTimeout
	}
	return &AMQPPublisher{url: cfg.URL, queue: cfg.Queue, timeout: timeout, log: l}
}

// Publish sends ev to the configured queue.
func (p *AMQPPublisher) Publish(ctx context.Context, ev queue.TicketEvent) error {
	body, err := json.Marshal(ev)
	if err != nil {
		p.log.Errorf("rabbitmq: marshal event failed: %v", err)
		return err
	}

	conn, err := amqp.DialConfig(p.url, amqp.Config{
		Heartbeat: 10 * time.Second,
		Locale:    "en_US",
		Dial:      amqp.DefaultDial(p.timeout),
	})
	if err != nil {
		p.log.Errorf("rabbitmq: dial failed: %v", err)
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		p.log.Errorf("rabbitmq: channel open failed: %v", err)
		return err
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(
		p.queue, // name
		true,    // durable
		false,   // autoDelete
		false,   // exclusive
		false,   // noWait
		nil,     // args
	); err != nil {
		p.log.Errorf("rabbitmq: queue declare failed: %v", err)
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Type:         ev.Type,
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx,
		"",      // default exchange
		p.queue, // routing key = queue name
		false,   // mandatory
		false,   // immediate
		pub,
	); err != nil {
		p.log.Errorf("rabbitmq: publish failed: %v", err)
		return err
	}
	return nil
}

// NopPublisher drops every event.  It is used when events are disabled.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, queue.TicketEvent) error { return nil }
