package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/ticketfella/internal/middleware"
	"github.com/iliyamo/ticketfella/internal/model"
	"github.com/iliyamo/ticketfella/internal/purchase"
	"github.com/iliyamo/ticketfella/internal/queue"
	"github.com/iliyamo/ticketfella/internal/workflow"
)

// OrderEvents publishes accepted orders to downstream consumers.
type OrderEvents interface {
	PublishOrderPlaced(ctx context.Context, ev queue.OrderPlacedEvent) error
}

// PurchaseHandler serves the purchase screen.  Each POST /v1/purchases
// opens a visit backed by its own purchase.Controller; the visit id in the
// path addresses it afterwards.
type PurchaseHandler struct {
	Inventory  purchase.Inventory
	Visits     *purchase.Visits
	Handoffs   *workflow.Handoffs
	ServiceFee model.Cents
	Events     OrderEvents // optional
	Logger     *slog.Logger
}

// PurchaseView is the purchase screen as rendered for one visit.
type PurchaseView struct {
	VisitID string          `json:"visit_id,omitempty"`
	Screen  workflow.Screen `json:"screen"`
	purchase.Snapshot
	Code    string          `json:"code,omitempty"`
	Title   string          `json:"title,omitempty"`
	Message string          `json:"message,omitempty"`
	Links   []workflow.Link `json:"links,omitempty"`
}

type openRequest struct {
	ShowID uint64 `json:"show_id"`
}

type editRequest struct {
	Field string     `json:"field"`
	Value fieldValue `json:"value"`
}

// fieldValue accepts strings, booleans and numbers so that clients can send
// the override flag and ticket id in their natural JSON types.
type fieldValue string

func (v *fieldValue) UnmarshalJSON(b []byte) error {
	var raw any
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	switch t := raw.(type) {
	case string:
		*v = fieldValue(t)
	case bool:
		*v = fieldValue(strconv.FormatBool(t))
	case float64:
		*v = fieldValue(strconv.FormatFloat(t, 'f', -1, 64))
	case nil:
		*v = ""
	default:
		return fmt.Errorf("unsupported field value %s", b)
	}
	return nil
}

// Open handles POST /v1/purchases.  It opens a visit for the show, loads
// the show and its offers and answers with the first snapshot.  Visits
// that cannot continue (unknown show, sold out, inventory down) are closed
// right away.
func (h *PurchaseHandler) Open(c echo.Context) error {
	p, ok := middleware.PurchaserFrom(c)
	if !ok {
		return unauthorized(c)
	}
	var req openRequest
	if err := c.Bind(&req); err != nil || req.ShowID == 0 {
		return writeError(c, http.StatusBadRequest, codeBadRequest, "show_id is required")
	}

	ctrl := purchase.NewController(h.Inventory, h.Handoffs, p, req.ShowID, purchase.Options{
		ServiceFee: h.ServiceFee,
		Logger:     h.logger(),
		OnPlaced:   h.announce(req.ShowID),
	})
	id := h.Visits.Open(ctrl)
	snap := ctrl.Load(c.Request().Context())

	switch snap.State {
	case purchase.StateReady:
		c.Response().Header().Set(echo.HeaderLocation, workflow.PurchasePath(id))
		return c.JSON(http.StatusCreated, h.view(id, snap))
	case purchase.StateNoInventory:
		h.Visits.Close(id, p)
		view := h.view("", snap)
		view.Title = "No Tickets Available"
		view.Message = "Sorry, all tickets for this show are currently sold out."
		return c.JSON(http.StatusOK, view)
	default:
		h.Visits.Close(id, p)
		if model.IsNotFound(snap.LoadErr) {
			return writeRedirect(c, http.StatusNotFound, codeNotFound, "Show not found")
		}
		return writeError(c, http.StatusBadGateway, codeUnavailable, "Failed to load purchase details. Please try again.")
	}
}

// Get handles GET /v1/purchases/:visit.
func (h *PurchaseHandler) Get(c echo.Context) error {
	id, ctrl, err := h.visit(c)
	if ctrl == nil {
		return err
	}
	return c.JSON(http.StatusOK, h.view(id, ctrl.Snapshot()))
}

// Edit handles PATCH /v1/purchases/:visit/form with {"field", "value"}.
func (h *PurchaseHandler) Edit(c echo.Context) error {
	id, ctrl, err := h.visit(c)
	if ctrl == nil {
		return err
	}
	var req editRequest
	if err := c.Bind(&req); err != nil {
		return writeError(c, http.StatusBadRequest, codeBadRequest, "invalid request body")
	}
	field, ok := purchase.ParseField(req.Field)
	if !ok {
		return writeError(c, http.StatusBadRequest, codeBadRequest, fmt.Sprintf("unknown field %q", req.Field))
	}

	snap, err := ctrl.Edit(field, string(req.Value))
	switch {
	case err == nil:
		return c.JSON(http.StatusOK, h.view(id, snap))
	case errors.Is(err, purchase.ErrFormLocked):
		return writeError(c, http.StatusConflict, codeInFlight, err.Error())
	case errors.Is(err, purchase.ErrNotReady):
		return writeError(c, http.StatusConflict, codeNotReady, err.Error())
	default:
		return writeError(c, http.StatusBadRequest, codeBadRequest, err.Error())
	}
}

// Submit handles POST /v1/purchases/:visit/submit.  A placed order answers
// 201 with the confirmation route in Location and in the "next" member.
func (h *PurchaseHandler) Submit(c echo.Context) error {
	id, ctrl, err := h.visit(c)
	if ctrl == nil {
		return err
	}
	// The order may already exist remotely once sent, so a client
	// disconnect must not cancel it.  Leave is the way to abandon.
	snap, err := ctrl.Submit(context.WithoutCancel(c.Request().Context()))

	status, code := http.StatusCreated, ""
	switch {
	case err == nil:
		p, _ := middleware.PurchaserFrom(c)
		h.Visits.Close(id, p)
		c.Response().Header().Set(echo.HeaderLocation, snap.Next)
	case errors.Is(err, purchase.ErrSubmitInFlight):
		return writeError(c, http.StatusConflict, codeInFlight, err.Error())
	case errors.Is(err, purchase.ErrNotReady):
		return writeError(c, http.StatusConflict, codeNotReady, err.Error())
	case errors.Is(err, purchase.ErrAbandoned):
		return writeError(c, http.StatusGone, codeAbandoned, err.Error())
	case errors.Is(err, purchase.ErrInvalidForm):
		status, code = http.StatusUnprocessableEntity, codeInvalidForm
	case model.IsConflict(err):
		status, code = http.StatusConflict, codeConflict
	case model.IsRejected(err):
		status, code = http.StatusUnprocessableEntity, codeRejected
	case model.IsNotFound(err):
		status, code = http.StatusNotFound, codeNotFound
	default:
		status, code = http.StatusBadGateway, codeUnavailable
	}
	view := h.view(id, snap)
	view.Code = code
	return c.JSON(status, view)
}

// Dismiss handles POST /v1/purchases/:visit/dismiss and clears the
// submission error banner.
func (h *PurchaseHandler) Dismiss(c echo.Context) error {
	id, ctrl, err := h.visit(c)
	if ctrl == nil {
		return err
	}
	return c.JSON(http.StatusOK, h.view(id, ctrl.DismissError()))
}

// Leave handles DELETE /v1/purchases/:visit.  Any response still in
// flight for the visit is discarded.
func (h *PurchaseHandler) Leave(c echo.Context) error {
	p, ok := middleware.PurchaserFrom(c)
	if !ok {
		return unauthorized(c)
	}
	if !h.Visits.Close(c.Param("visit"), p) {
		return writeRedirect(c, http.StatusNotFound, codeNotFound, "purchase not found")
	}
	return c.NoContent(http.StatusNoContent)
}

// visit resolves the visit of the path for the current purchaser.  When it
// returns a nil controller the response has already been written and err
// is what the handler must return.
func (h *PurchaseHandler) visit(c echo.Context) (string, *purchase.Controller, error) {
	p, ok := middleware.PurchaserFrom(c)
	if !ok {
		return "", nil, unauthorized(c)
	}
	id := c.Param("visit")
	ctrl, ok := h.Visits.Get(id, p)
	if !ok {
		return "", nil, writeRedirect(c, http.StatusNotFound, codeNotFound, "purchase not found")
	}
	return id, ctrl, nil
}

func (h *PurchaseHandler) view(id string, snap purchase.Snapshot) PurchaseView {
	v := PurchaseView{VisitID: id, Screen: workflow.ScreenPurchase, Snapshot: snap}
	back := workflow.Link{Screen: workflow.ScreenDetail, Label: "Back to Show", Href: workflow.DetailPath(snap.ShowID)}
	switch snap.State {
	case purchase.StateSucceeded:
		v.Links = []workflow.Link{{Screen: workflow.ScreenConfirmation, Label: "View Confirmation", Href: snap.Next}}
	case purchase.StateSubmitting:
	default:
		v.Links = []workflow.Link{back}
	}
	return v
}

// announce returns the hook that publishes an order.placed event for
// orders of showID.  Publishing never blocks or fails the purchase.
func (h *PurchaseHandler) announce(showID uint64) func(workflow.Payload, model.OrderRequest) {
	if h.Events == nil {
		return nil
	}
	return func(p workflow.Payload, req model.OrderRequest) {
		ev := queue.OrderPlacedEvent{
			OrderID:       p.Order.ID,
			UserID:        p.Order.UserID,
			TicketID:      p.Order.TicketID,
			ShowID:        showID,
			ShowName:      p.ShowName,
			CustomerEmail: p.CustomerEmail,
			TotalCents:    int64(p.Order.TotalCents),
			CustomPayment: req.UseCustomPayment,
			OrderedAt:     p.Order.OrderedAt,
		}
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := h.Events.PublishOrderPlaced(ctx, ev); err != nil {
				h.logger().Warn("order event not published", "order_id", ev.OrderID, "error", err)
			}
		}()
	}
}

func (h *PurchaseHandler) logger() *slog.Logger {
	if h.Logger == nil {
		return slog.Default()
	}
	return h.Logger
}
