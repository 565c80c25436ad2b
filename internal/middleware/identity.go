package middleware

// identity.go holds the context key under which JWTAuth stores the
// purchaser and the helpers that read it back.

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/ticketfella/internal/model"
)

const purchaserKey = "purchaser"

// PurchaserFrom returns the authenticated purchaser of the request.
func PurchaserFrom(c echo.Context) (model.Purchaser, bool) {
	p, ok := c.Get(purchaserKey).(model.Purchaser)
	return p, ok
}

// WithPurchaser stores p on the context the way JWTAuth does.
func WithPurchaser(c echo.Context, p model.Purchaser) {
	c.Set(purchaserKey, p)
}

// userID returns the purchaser id as a string, or "guest" for
// unauthenticated requests.
func userID(c echo.Context) string {
	if p, ok := PurchaserFrom(c); ok {
		return strconv.FormatUint(p.UserID, 10)
	}
	return "guest"
}
