// Package queue defines the order events exchanged over RabbitMQ and the
// consumer that records them.
package queue

import "time"

// OrdersQueue is the durable queue order events are routed to.
const OrdersQueue = "order.placed"

// OrderPlacedEvent is published after the inventory accepts an order.  It
// carries what downstream consumers need without calling the inventory.
type OrderPlacedEvent struct {
	OrderID       uint64    `json:"order_id"`
	UserID        uint64    `json:"user_id"`
	TicketID      uint64    `json:"ticket_id"`
	ShowID        uint64    `json:"show_id"`
	ShowName      string    `json:"show_name"`
	CustomerEmail string    `json:"customer_email"`
	TotalCents    int64     `json:"total_cents"`
	CustomPayment bool      `json:"custom_payment"`
	OrderedAt     time.Time `json:"ordered_at"`
}
