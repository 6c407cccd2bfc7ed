package notification

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"renthaven/internal/domain"
)

var errMalformedEvent = errors.New("malformed event payload")

// Consumer turns booking and payment events into user notifications.
type Consumer struct {
	conn    *amqp.Connection
	ch      *amqp.Channel
	queue   string
	service *Service
	loggerf func(format string, args ...interface{})
}

func NewConsumer(url, exchange, queue string, service *Service, loggerf func(format string, args ...interface{})) (*Consumer, error) {
	if loggerf == nil {
		loggerf = func(string, ...interface{}) {}
	}

	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}
	q, err := ch.QueueDeclare(queue, true, false, false, false, nil)
	if err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declare queue: %w", err)
	}
	for _, rk := range []string{domain.EventBookingCreated, domain.EventPaymentConfirmed, domain.EventPaymentFailed} {
		if err := ch.QueueBind(q.Name, rk, exchange, false, nil); err != nil {
			_ = ch.Close()
			_ = conn.Close()
			return nil, fmt.Errorf("bind %s: %w", rk, err)
		}
	}

	return &Consumer{conn: conn, ch: ch, queue: q.Name, service: service, loggerf: loggerf}, nil
}

// Run consumes deliveries until the context is cancelled. Malformed
// messages are rejected without requeue so they cannot wedge the queue.
func (c *Consumer) Run(ctx context.Context) error {
	deliveries, err := c.ch.ConsumeWithContext(ctx, c.queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("consume: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-deliveries:
			if !ok {
				return nil
			}
			if err := c.handle(ctx, d); err != nil {
				if errors.Is(err, errMalformedEvent) {
					_ = d.Reject(false)
					continue
				}
				c.loggerf("level=error msg=event handling failed routing_key=%s err=%v", d.RoutingKey, err)
				_ = d.Nack(false, true)
				continue
			}
			_ = d.Ack(false)
		}
	}
}

func (c *Consumer) handle(ctx context.Context, d amqp.Delivery) error {
	var env domain.Envelope
	if err := json.Unmarshal(d.Body, &env); err != nil {
		c.loggerf("level=warn msg=dropping malformed event routing_key=%s err=%v", d.RoutingKey, err)
		return errMalformedEvent
	}

	switch env.Event {
	case domain.EventBookingCreated:
		c.service.NotifyBookingCreated(ctx, env.Data.TenantID, env.Data.BookingID, env.Data.Amount)
	case domain.EventPaymentConfirmed:
		c.service.NotifyPaymentConfirmed(ctx, env.Data.TenantID, env.Data.BookingID, env.Data.PaymentID)
	case domain.EventPaymentFailed:
		c.service.NotifyPaymentFailed(ctx, env.Data.TenantID, env.Data.BookingID, env.Data.PaymentID, env.Data.Reason)
	default:
		c.loggerf("level=warn msg=unknown event event=%s", env.Event)
	}
	return nil
}

func (c *Consumer) Close() error {
	if c.ch != nil {
		_ = c.ch.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}
