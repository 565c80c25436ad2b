package model

import "time"

// Order is the record created by a successful submission.  From the
// workflow's perspective it is immutable.
type Order struct {
	ID         uint64    `json:"id"`          // server-assigned order number
	UserID     uint64    `json:"user_id"`     // purchaser linkage
	TicketID   uint64    `json:"ticket_id"`   // purchased ticket, when reported
	OrderedAt  time.Time `json:"ordered_at"`  // server timestamp
	TotalCents Cents     `json:"total_cents"` // amount charged
}

// OrderRequest is the canonical order submission payload.  The card
// fields are nil unless UseCustomPayment is set.
type OrderRequest struct {
	UserID           uint64  `json:"userId"`
	TicketID         uint64  `json:"ticketId"`
	UseCustomPayment bool    `json:"useCustomPayment"`
	CardNumber       *string `json:"customCardNumber"`
	CardHolder       *string `json:"customCardHolder"`
	CardExpiry       *string `json:"customCardExpiry"`
}
