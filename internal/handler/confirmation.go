package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/ticketfella/internal/middleware"
	"github.com/iliyamo/ticketfella/internal/workflow"
)

// ConfirmationHandler serves the confirmation screen.
type ConfirmationHandler struct {
	Handoffs *workflow.Handoffs
}

// Show handles GET /v1/confirmation?handoff=.  It always answers 200: a
// missing, foreign or already used token renders the "no order" view.
func (h *ConfirmationHandler) Show(c echo.Context) error {
	p, ok := middleware.PurchaserFrom(c)
	if !ok {
		return unauthorized(c)
	}
	return c.JSON(http.StatusOK, h.Handoffs.EnterConfirmation(p.UserID, c.QueryParam("handoff")))
}
