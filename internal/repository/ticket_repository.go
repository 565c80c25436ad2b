package repository // repository for ticket inventory

import (
	"context"      // context for managing deadlines
	"database/sql" // sql provides DB interfaces
	"errors"
)

// Ticket statuses stored in tickets.status.
const (
	TicketAvailable = "AVAILABLE"
	TicketSold      = "SOLD"
)

// Ticket represents one purchasable ticket instance of a show.
type Ticket struct {
	ID         uint64        // tickets.id
	ShowID     uint64        // tickets.show_id
	SeatNumber string        // tickets.seat_number
	PriceCents int64         // tickets.price_cents
	Status     string        // tickets.status
	OrderID    sql.NullInt64 // tickets.order_id, set once sold
}

// ErrTicketNotFound indicates that no ticket has the requested id.
var ErrTicketNotFound = errors.New("ticket not found")

// TicketRepo encapsulates database operations for tickets.
type TicketRepo struct {
	db *sql.DB
}

// NewTicketRepo constructs a TicketRepo given a DB handle.
func NewTicketRepo(db *sql.DB) *TicketRepo {
	return &TicketRepo{db: db}
}

// ListAvailableByShow returns the AVAILABLE tickets of a show ordered by
// id.  An empty slice means the show is sold out.
func (r *TicketRepo) ListAvailableByShow(ctx context.Context, showID uint64) ([]Ticket, error) {
	const q = `SELECT id, show_id, seat_number, price_cents, status, order_id
               FROM tickets
               WHERE show_id = ? AND status = 'AVAILABLE'
               ORDER BY id ASC`
	rows, err := r.db.QueryContext(ctx, q, showID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Ticket{}
	for rows.Next() {
		var t Ticket
		if err := rows.Scan(&t.ID, &t.ShowID, &t.SeatNumber, &t.PriceCents, &t.Status, &t.OrderID); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// GetForUpdateTx loads a ticket inside tx and locks its row until the
// transaction ends.  It returns ErrTicketNotFound when the id is unknown.
func (r *TicketRepo) GetForUpdateTx(ctx context.Context, tx *sql.Tx, id uint64) (*Ticket, error) {
	const q = `SELECT id, show_id, seat_number, price_cents, status, order_id
               FROM tickets WHERE id = ? FOR UPDATE`
	var t Ticket
	err := tx.QueryRowContext(ctx, q, id).Scan(&t.ID, &t.ShowID, &t.SeatNumber, &t.PriceCents, &t.Status, &t.OrderID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTicketNotFound
		}
		return nil, err
	}
	return &t, nil
}

// MarkSoldTx flips an AVAILABLE ticket to SOLD and links it to orderID.
// It returns ErrConflict when the ticket was no longer available.
func (r *TicketRepo) MarkSoldTx(ctx context.Context, tx *sql.Tx, ticketID, orderID uint64) error {
	const q = `UPDATE tickets SET status = 'SOLD', order_id = ? WHERE id = ? AND status = 'AVAILABLE'`
	res, err := tx.ExecContext(ctx, q, orderID, ticketID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrConflict
	}
	return nil
}
