package model

// TicketOffer is one purchasable ticket instance for a show.  The set of
// offers returned for a show is the remaining inventory at fetch time.
// Selecting an offer does not reserve it; the order submission is the only
// authority on whether it is still available.
type TicketOffer struct {
	ID     uint64 `json:"id"`      // ticket identifier
	ShowID uint64 `json:"show_id"` // parent show
	Seat   string `json:"seat"`    // seat label, e.g. "A12"
	Price  Cents  `json:"price_cents"`
}
