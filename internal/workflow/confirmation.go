package workflow

import "time"

// ConfirmationView is the rendered confirmation screen.  When Found is
// false the screen shows the standing "no order" state and offers only a
// link back to the catalog.
type ConfirmationView struct {
	Screen        Screen    `json:"screen"`
	Found         bool      `json:"found"`
	Title         string    `json:"title"`
	Message       string    `json:"message"`
	OrderID       uint64    `json:"order_id,omitempty"`
	OrderedAt     time.Time `json:"ordered_at,omitempty"`
	Total         string    `json:"total,omitempty"`
	ShowName      string    `json:"show_name,omitempty"`
	CustomerName  string    `json:"customer_name,omitempty"`
	CustomerEmail string    `json:"customer_email,omitempty"`
	Links         []Link    `json:"links"`
}

// EnterConfirmation renders the confirmation screen from the payload
// behind token.  It never fails: a missing payload yields the "no order"
// view, and a payload is never shown twice.
func (h *Handoffs) EnterConfirmation(purchaserID uint64, token string) ConfirmationView {
	p, ok := h.Take(purchaserID, token)
	if !ok {
		return NoOrder()
	}
	return ConfirmationView{
		Screen:        ScreenConfirmation,
		Found:         true,
		Title:         "Order Confirmed!",
		Message:       "Thank you for your purchase, " + p.CustomerName + "!",
		OrderID:       p.Order.ID,
		OrderedAt:     p.Order.OrderedAt,
		Total:         p.Order.TotalCents.String(),
		ShowName:      p.ShowName,
		CustomerName:  p.CustomerName,
		CustomerEmail: p.CustomerEmail,
		Links:         []Link{BackToCatalog("Browse More Shows")},
	}
}

// NoOrder is the confirmation screen reached without completing a
// purchase.
func NoOrder() ConfirmationView {
	return ConfirmationView{
		Screen:  ScreenConfirmation,
		Title:   "No Order Found",
		Message: "It seems you arrived here without completing a purchase.",
		Links:   []Link{BackToCatalog("Browse Shows")},
	}
}
