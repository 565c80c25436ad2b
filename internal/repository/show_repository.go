// Package repository contains data access logic for the ticketing schema
// used by the SQL inventory backend.  The tables it reads and writes:
//
//	shows   (id, name, venue, venue_location, capacity, category,
//	         description, show_date, ticket_price_cents)
//	tickets (id, show_id, seat_number, price_cents, status, order_id)
//	orders  (id, user_id, ticket_id, total_cents, card_holder,
//	         card_last4, order_date)
//
// tickets.status is AVAILABLE or SOLD.  Times are stored in UTC.
package repository

import (
	"context"      // context for controlling query lifetime
	"database/sql" // sql provides DB abstraction
	"errors"       // errors for sentinel definitions
	"time"         // show dates
)

// Show mirrors a row of the shows table together with the number of
// tickets still AVAILABLE for it.
type Show struct {
	ID               uint64         // shows.id
	Name             string         // shows.name
	Venue            string         // shows.venue
	VenueLocation    sql.NullString // shows.venue_location (nullable)
	Capacity         int            // shows.capacity
	Category         string         // shows.category
	Description      sql.NullString // shows.description (nullable)
	ShowDate         time.Time      // shows.show_date
	TicketPriceCents int64          // shows.ticket_price_cents
	AvailableTickets int            // COUNT of AVAILABLE tickets
}

// ErrShowNotFound indicates that a show was not located in the DB.
var ErrShowNotFound = errors.New("show not found")

// showColumns selects a show and its live availability count.
const showColumns = `s.id, s.name, s.venue, s.venue_location, s.capacity, s.category, s.description,
       s.show_date, s.ticket_price_cents,
       (SELECT COUNT(*) FROM tickets t WHERE t.show_id = s.id AND t.status = 'AVAILABLE')`

// ShowRepo reads shows.
type ShowRepo struct {
	db *sql.DB
}

// NewShowRepo constructs a ShowRepo with the given DB handle.
func NewShowRepo(db *sql.DB) *ShowRepo {
	return &ShowRepo{db: db}
}

// DB exposes the underlying sql.DB so callers can begin transactions
// spanning multiple repositories.
func (r *ShowRepo) DB() *sql.DB {
	return r.db
}

// GetByID retrieves a show by its ID.  It returns ErrShowNotFound if
// there is no matching row.
func (r *ShowRepo) GetByID(ctx context.Context, id uint64) (*Show, error) {
	q := `SELECT ` + showColumns + ` FROM shows s WHERE s.id = ?`
	var s Show
	err := scanShow(r.db.QueryRowContext(ctx, q, id), &s)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrShowNotFound
		}
		return nil, err
	}
	return &s, nil
}

// ListUpcoming returns shows scheduled at or after now, soonest first.
// When there are none it returns an empty slice and nil error.
func (r *ShowRepo) ListUpcoming(ctx context.Context, now time.Time) ([]Show, error) {
	q := `SELECT ` + showColumns + ` FROM shows s WHERE s.show_date >= ? ORDER BY s.show_date ASC, s.id ASC`
	rows, err := r.db.QueryContext(ctx, q, now.UTC())
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	result := []Show{}
	for rows.Next() {
		var s Show
		if err := scanShow(rows, &s); err != nil {
			return nil, err
		}
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanShow(row rowScanner, s *Show) error {
	return row.Scan(
		&s.ID, &s.Name, &s.Venue, &s.VenueLocation, &s.Capacity, &s.Category, &s.Description,
		&s.ShowDate, &s.TicketPriceCents, &s.AvailableTickets,
	)
}
