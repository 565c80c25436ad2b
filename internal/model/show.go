package model

import "time"

// Show represents a scheduled event that tickets can be bought for.  It is
// an immutable snapshot taken when the detail or purchase screen loads; the
// AvailableTickets count is advisory and goes stale as soon as anyone else
// buys a ticket.
//
// Fields:
//  ID               – identifier assigned by the ticketing service.
//  Name             – display name of the event.
//  Venue            – venue name.
//  VenueLocation    – city or address of the venue.
//  Capacity         – total number of seats at the venue.
//  Category         – Concert, Sports, Theater, Comedy, Family, ...
//  Description      – free text shown on the detail screen.
//  StartsAt         – scheduled date and time of the event.
//  TicketPrice      – base price of one ticket.
//  AvailableTickets – tickets still purchasable at fetch time.
type Show struct {
	ID               uint64    `json:"id"`
	Name             string    `json:"name"`
	Venue            string    `json:"venue"`
	VenueLocation    string    `json:"venue_location,omitempty"`
	Capacity         int       `json:"capacity"`
	Category         string    `json:"category"`
	Description      string    `json:"description,omitempty"`
	StartsAt         time.Time `json:"starts_at"`
	TicketPrice      Cents     `json:"ticket_price_cents"`
	AvailableTickets int       `json:"available_tickets"`
}

// SoldOut reports whether the snapshot shows no remaining inventory.
func (s Show) SoldOut() bool {
	return s.AvailableTickets <= 0
}
