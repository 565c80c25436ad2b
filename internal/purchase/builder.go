package purchase

import "github.com/iliyamo/ticketfella/internal/model"

// BuildOrderRequest maps a validated draft to the order submission payload.
// The purchaser comes from the authenticated identity, never from the form.
// When the override flag is off the card fields are nil so stale values
// typed before the toggle are never transmitted.  No validation happens
// here; callers run Validate first.
func BuildOrderRequest(f Form, p model.Purchaser) model.OrderRequest {
	ticketID, _ := f.TicketRef()
	req := model.OrderRequest{
		UserID:           p.UserID,
		TicketID:         ticketID,
		UseCustomPayment: f.UseCustomPayment,
	}
	if f.UseCustomPayment {
		number := StripSpaces(f.CardNumber)
		holder := f.CardHolder
		expiry := f.CardExpiry
		req.CardNumber = &number
		req.CardHolder = &holder
		req.CardExpiry = &expiry
	}
	return req
}
