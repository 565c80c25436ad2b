package repository

import (
	"context"
	"database/sql"
	"time"
)

// OrderRecord is a row of the orders table.  Only the card holder and the
// last four digits of an override card are stored.
type OrderRecord struct {
	ID         uint64         // orders.id
	UserID     uint64         // orders.user_id
	TicketID   uint64         // orders.ticket_id
	TotalCents int64          // orders.total_cents
	CardHolder sql.NullString // orders.card_holder
	CardLast4  sql.NullString // orders.card_last4
	OrderDate  time.Time      // orders.order_date
}

// OrderRepo persists orders.
type OrderRepo struct {
	db *sql.DB
}

// NewOrderRepo constructs an OrderRepo given a DB handle.
func NewOrderRepo(db *sql.DB) *OrderRepo {
	return &OrderRepo{db: db}
}

// CreateTx inserts the order using the provided transaction and assigns
// the generated ID.  The caller must commit or roll back.
func (r *OrderRepo) CreateTx(ctx context.Context, tx *sql.Tx, o *OrderRecord) error {
	const q = `INSERT INTO orders (user_id, ticket_id, total_cents, card_holder, card_last4, order_date)
               VALUES (?, ?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, q, o.UserID, o.TicketID, o.TotalCents, o.CardHolder, o.CardLast4, o.OrderDate.UTC())
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	o.ID = uint64(id)
	return nil
}
