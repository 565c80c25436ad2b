package purchase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/iliyamo/ticketfella/internal/model"
	"github.com/iliyamo/ticketfella/internal/workflow"
)

const genericSubmitError = "Failed to process purchase. Please try again."

var (
	// ErrSubmitInFlight is returned when a submit arrives while another
	// one is outstanding.  The second submit has no effect.
	ErrSubmitInFlight = errors.New("submission already in progress")
	// ErrFormLocked is returned for edits while a submission is in flight.
	ErrFormLocked = errors.New("form is locked while submitting")
	// ErrNotReady is returned for edits or submits outside the ready states.
	ErrNotReady = errors.New("purchase form is not available")
	// ErrInvalidForm is returned when validation blocks a submit.  The
	// field messages are on the snapshot.
	ErrInvalidForm = errors.New("purchase form has errors")
	// ErrAbandoned is returned when the visit was left before a response
	// came back.  The response has been discarded.
	ErrAbandoned = errors.New("purchase visit abandoned")
)

// Inventory is what the controller needs from the ticketing service.
type Inventory interface {
	FetchShow(ctx context.Context, showID uint64) (model.Show, error)
	FetchOffers(ctx context.Context, showID uint64) ([]model.TicketOffer, error)
	SubmitOrder(ctx context.Context, req model.OrderRequest) (model.Order, error)
}

// Handoff receives the one-shot confirmation payload and returns the
// route the client should follow next.
type Handoff interface {
	Complete(purchaserID uint64, p workflow.Payload) string
}

// Options tune a Controller.  The zero value is usable.
type Options struct {
	ServiceFee model.Cents
	Logger     *slog.Logger
	// OnPlaced runs after an order is accepted and the payload handed
	// off, outside the controller lock.
	OnPlaced func(p workflow.Payload, req model.OrderRequest)
}

// Summary is the order summary shown next to the form.
type Summary struct {
	TicketPrice model.Cents `json:"ticket_price_cents"`
	ServiceFee  model.Cents `json:"service_fee_cents"`
	Total       model.Cents `json:"total_cents"`
}

// Snapshot is a copy of the controller state suitable for rendering.
type Snapshot struct {
	State       State               `json:"state"`
	ShowID      uint64              `json:"show_id"`
	Show        *model.Show         `json:"show,omitempty"`
	Offers      []model.TicketOffer `json:"offers,omitempty"`
	Form        *Form               `json:"form,omitempty"`
	Errors      FieldErrors         `json:"errors,omitempty"`
	SubmitError string              `json:"submit_error,omitempty"`
	Summary     *Summary            `json:"summary,omitempty"`
	Next        string              `json:"next,omitempty"`
	LoadErr     error               `json:"-"`
}

// Controller owns the mutable state of one purchase screen visit and is
// safe for concurrent use.  At most one order submission is outstanding
// at any time.
type Controller struct {
	inv       Inventory
	handoff   Handoff
	purchaser model.Purchaser
	showID    uint64
	fee       model.Cents
	logger    *slog.Logger
	onPlaced  func(workflow.Payload, model.OrderRequest)

	visitCtx context.Context
	leave    context.CancelFunc

	mu        sync.Mutex
	state     State
	loading   bool
	left      bool
	show      *model.Show
	offers    []model.TicketOffer
	form      Form
	errs      FieldErrors
	submitErr string
	loadErr   error
	next      string
}

// NewController creates a visit in the loading state.  Call Load to fetch
// the show and its offers.
func NewController(inv Inventory, handoff Handoff, purchaser model.Purchaser, showID uint64, opts Options) *Controller {
	if inv == nil || handoff == nil {
		panic("nil dependency passed to NewController")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Controller{
		inv:       inv,
		handoff:   handoff,
		purchaser: purchaser,
		showID:    showID,
		fee:       opts.ServiceFee,
		onPlaced:  opts.OnPlaced,
		logger:    logger.With("show_id", showID, "user_id", purchaser.UserID),
		visitCtx:  ctx,
		leave:     cancel,
		state:     StateLoading,
		errs:      FieldErrors{},
	}
}

// Load fetches the show and its offers concurrently and waits for both.
// It only has an effect in the loading state; later calls return the
// current snapshot.
func (c *Controller) Load(ctx context.Context) Snapshot {
	c.mu.Lock()
	if c.state != StateLoading || c.loading || c.left {
		defer c.mu.Unlock()
		return c.snapshotLocked()
	}
	c.loading = true
	c.mu.Unlock()

	ctx, cancel := c.bind(ctx)
	defer cancel()

	var (
		show              model.Show
		offers            []model.TicketOffer
		showErr, offerErr error
		g                 errgroup.Group
	)
	g.Go(func() error {
		show, showErr = c.inv.FetchShow(ctx, c.showID)
		return showErr
	})
	g.Go(func() error {
		offers, offerErr = c.inv.FetchOffers(ctx, c.showID)
		return offerErr
	})
	_ = g.Wait()

	c.mu.Lock()
	defer c.mu.Unlock()
	c.loading = false
	if c.left {
		c.logger.Debug("discarding inventory for abandoned visit")
		return c.snapshotLocked()
	}
	switch {
	case showErr != nil:
		c.loadErr = showErr
		c.moveLocked(StateError)
	case offerErr != nil:
		c.loadErr = offerErr
		c.moveLocked(StateError)
	case len(offers) == 0:
		c.show = &show
		c.moveLocked(StateNoInventory)
	default:
		c.show = &show
		c.offers = offers
		c.form = Form{TicketID: strconv.FormatUint(offers[0].ID, 10)}
		c.moveLocked(StateReady)
	}
	if c.loadErr != nil {
		c.logger.Warn("purchase screen failed to load", "error", c.loadErr)
	}
	return c.snapshotLocked()
}

// Edit assigns one field and clears that field's error entry without
// re-running validation.
func (c *Controller) Edit(field Field, value string) (Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == StateSubmitting {
		return c.snapshotLocked(), ErrFormLocked
	}
	if !c.state.Editable() || c.left {
		return c.snapshotLocked(), ErrNotReady
	}
	if err := c.form.Set(field, value); err != nil {
		return c.snapshotLocked(), err
	}
	delete(c.errs, field)
	return c.snapshotLocked(), nil
}

// DismissError clears the inline submission error banner.
func (c *Controller) DismissError() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == StateReadyWithError {
		c.submitErr = ""
		c.moveLocked(StateReady)
	}
	return c.snapshotLocked()
}

// Submit validates the draft and, when it is clean, sends the order.  A
// submit while another is in flight returns ErrSubmitInFlight without
// contacting the ticketing service.  On success the confirmation payload
// is handed off and Snapshot.Next names the confirmation route.
func (c *Controller) Submit(ctx context.Context) (Snapshot, error) {
	c.mu.Lock()
	if c.state == StateSubmitting {
		defer c.mu.Unlock()
		return c.snapshotLocked(), ErrSubmitInFlight
	}
	if !c.state.Editable() || c.left {
		defer c.mu.Unlock()
		return c.snapshotLocked(), ErrNotReady
	}
	c.errs = Validate(c.form)
	if len(c.errs) > 0 {
		defer c.mu.Unlock()
		return c.snapshotLocked(), ErrInvalidForm
	}
	c.submitErr = ""
	c.moveLocked(StateSubmitting)
	req := BuildOrderRequest(c.form, c.purchaser)
	payload := workflow.Payload{
		CustomerName:  c.form.CustomerName,
		CustomerEmail: c.form.CustomerEmail,
	}
	if c.show != nil {
		payload.ShowName = c.show.Name
	}
	c.mu.Unlock()

	ctx, cancel := c.bind(ctx)
	defer cancel()
	order, err := c.inv.SubmitOrder(ctx, req)

	c.mu.Lock()
	if c.left {
		defer c.mu.Unlock()
		c.logger.Debug("discarding order response for abandoned visit", "error", err)
		return c.snapshotLocked(), ErrAbandoned
	}
	if err != nil {
		defer c.mu.Unlock()
		c.submitErr = model.UserMessage(err)
		if c.submitErr == "" {
			c.submitErr = genericSubmitError
		}
		c.moveLocked(StateReadyWithError)
		c.logger.Info("order submission failed", "ticket_id", req.TicketID, "error", err)
		return c.snapshotLocked(), err
	}

	payload.Order = order
	c.next = c.handoff.Complete(c.purchaser.UserID, payload)
	c.moveLocked(StateSucceeded)
	c.logger.Info("order placed", "order_id", order.ID, "ticket_id", req.TicketID)
	snap := c.snapshotLocked()
	c.mu.Unlock()

	if c.onPlaced != nil {
		c.onPlaced(payload, req)
	}
	return snap, nil
}

// Leave abandons the visit.  Outstanding fetches or submissions are
// cancelled and their responses are never applied.
func (c *Controller) Leave() {
	c.mu.Lock()
	c.left = true
	c.mu.Unlock()
	c.leave()
}

// Snapshot returns the current state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Purchaser returns the identity the visit was opened for.
func (c *Controller) Purchaser() model.Purchaser {
	return c.purchaser
}

// bind derives a context that ends with either the caller's context or
// the visit.
func (c *Controller) bind(ctx context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(c.visitCtx, cancel)
	return ctx, func() {
		stop()
		cancel()
	}
}

func (c *Controller) moveLocked(next State) {
	if !c.state.CanTransition(next) {
		panic(fmt.Sprintf("purchase: illegal transition %s -> %s", c.state, next))
	}
	c.state = next
}

func (c *Controller) snapshotLocked() Snapshot {
	s := Snapshot{
		State:       c.state,
		ShowID:      c.showID,
		SubmitError: c.submitErr,
		Next:        c.next,
		LoadErr:     c.loadErr,
	}
	if c.show != nil {
		show := *c.show
		s.Show = &show
	}
	if len(c.offers) > 0 {
		s.Offers = append([]model.TicketOffer(nil), c.offers...)
	}
	if c.state.Editable() || c.state == StateSubmitting || c.state == StateSucceeded {
		form := c.form
		s.Form = &form
		s.Errors = c.errs.Clone()
		s.Summary = c.summaryLocked()
	}
	return s
}

// summaryLocked prices the selected offer, falling back to the show's
// base price when the selection does not match an offer.
func (c *Controller) summaryLocked() *Summary {
	if c.show == nil {
		return nil
	}
	price := c.show.TicketPrice
	if id, ok := c.form.TicketRef(); ok {
		for _, o := range c.offers {
			if o.ID == id {
				price = o.Price
				break
			}
		}
	}
	return &Summary{TicketPrice: price, ServiceFee: c.fee, Total: price + c.fee}
}
