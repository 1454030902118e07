package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/iliyamo/activity-marketplace/internal/model"
)

// defaultPublishTimeout caps one publish, dial and handshake included.  It
// stays well under the HTTP server's write timeout.
const defaultPublishTimeout = 2 * time.Second

// Publisher sends booking events to RabbitMQ.  Each publish opens its own
// connection; booking volume is low and this keeps the publisher free of
// reconnect state.
type Publisher struct {
	url     string
	timeout time.Duration
}

// NewPublisher returns a Publisher for the broker at url.
func NewPublisher(url string) *Publisher {
	return &Publisher{url: url, timeout: defaultPublishTimeout}
}

// NewBookingCreatedEvent builds the wire event for a stored booking.
func NewBookingCreatedEvent(b *model.Booking) BookingCreatedEvent {
	ev := BookingCreatedEvent{
		EventID:    uuid.NewString(),
		BookingID:  b.ID,
		UserID:     b.UserID,
		ActivityID: b.ActivityID,
		BookedAt:   b.BookedAt.UTC().Format(time.RFC3339Nano),
	}
	if b.Activity != nil {
		ev.ActivityTitle = b.Activity.Title
		ev.City = b.Activity.City
		ev.Price = b.Activity.Price.StringFixed(2)
	}
	return ev
}

// PublishBookingCreated publishes the booking to the booking.created queue
// as a persistent message.  It gives up when ctx ends or after the
// publisher's timeout, whichever comes first.  Errors are returned, not
// logged; the caller decides whether they matter.
func (p *Publisher) PublishBookingCreated(ctx context.Context, b *model.Booking) error {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	if err := ctx.Err(); err != nil {
		return err
	}

	dl, _ := ctx.Deadline()
	remaining := time.Until(dl)
	if remaining <= 0 {
		return context.DeadlineExceeded
	}
	conn, err := amqp.DialConfig(p.url, amqp.Config{
		Heartbeat: 10 * time.Second,
		Locale:    "en_US",
		Dial:      amqp.DefaultDial(remaining),
	})
	if err != nil {
		return fmt.Errorf("rabbitmq dial: %w", err)
	}
	defer func() { _ = conn.Close() }()
	// the dial deadline ends with the handshake; a broker that stalls later
	// is cut off when ctx expires
	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("rabbitmq channel: %w", err)
	}
	defer func() { _ = ch.Close() }()

	// durable so messages survive broker restarts
	if _, err := ch.QueueDeclare(
		BookingQueueName, // name
		true,             // durable
		false,            // autoDelete
		false,            // exclusive
		false,            // noWait
		nil,              // args
	); err != nil {
		return fmt.Errorf("rabbitmq queue declare: %w", err)
	}

	ev := NewBookingCreatedEvent(b)
	body, err := json.Marshal(ev)
	if err != nil {
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    ev.EventID,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx,
		"",               // default exchange
		BookingQueueName, // routing key = queue name
		false,            // mandatory
		false,            // immediate
		pub,
	); err != nil {
		return fmt.Errorf("rabbitmq publish: %w", err)
	}
	return nil
}
