// Package service holds side effects that run after the storefront has
// finished talking to the inventory.
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/iliyamo/ticketfella/internal/queue"
)

// AMQPPublisher publishes order events to RabbitMQ.  It dials per publish;
// order volume is far below the point where a pooled channel matters.
type AMQPPublisher struct {
	url    string
	logger *slog.Logger
}

// NewAMQPPublisher returns a publisher for the broker at url.
func NewAMQPPublisher(url string, logger *slog.Logger) *AMQPPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &AMQPPublisher{url: url, logger: logger.With("component", "order-publisher")}
}

// PublishOrderPlaced sends ev to the order.placed queue as a persistent
// JSON message.
func (p *AMQPPublisher) PublishOrderPlaced(ctx context.Context, ev queue.OrderPlacedEvent) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	conn, err := amqp.Dial(p.url)
	if err != nil {
		return fmt.Errorf("dial broker: %w", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(queue.OrdersQueue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		MessageId:    fmt.Sprintf("order-%d", ev.OrderID),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", queue.OrdersQueue, false, false, pub); err != nil {
		return fmt.Errorf("publish: %w", err)
	}
	p.logger.Debug("order event published", "order_id", ev.OrderID)
	return nil
}
