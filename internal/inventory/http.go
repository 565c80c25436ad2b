package inventory

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/iliyamo/ticketfella/internal/model"
)

// maxBodyBytes bounds how much of a response body is read.
const maxBodyBytes = 1 << 20

// HTTPGateway is a JSON client of the ticketing service API.  Successful
// responses carry {"data": ...}; failures carry {"error": "reason"}.
type HTTPGateway struct {
	baseURL string
	client  *http.Client
	logger  *slog.Logger
}

// NewHTTPGateway returns a gateway rooted at baseURL, e.g.
// "http://localhost:7205".  A nil client uses one with the given timeout.
func NewHTTPGateway(baseURL string, client *http.Client, timeout time.Duration) *HTTPGateway {
	if client == nil {
		client = &http.Client{Timeout: timeout}
	}
	return &HTTPGateway{baseURL: strings.TrimRight(baseURL, "/"), client: client, logger: slog.Default()}
}

// remoteTimeLayouts are tried in order.  The service may omit the zone
// offset, in which case the time is taken as UTC.
var remoteTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.9999999",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// remoteTime decodes the service's timestamps without ever failing the
// surrounding document.  A value that matches no layout leaves the zero
// time and keeps the raw text in bad.
type remoteTime struct {
	time.Time
	bad string
}

func (t *remoteTime) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		t.bad = string(b)
		return nil
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range remoteTimeLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed.UTC()
			return nil
		}
	}
	t.bad = s
	return nil
}

// timeOf returns the parsed value of t, logging a warning when it held
// text that matched no layout.
func (g *HTTPGateway) timeOf(op, field string, t remoteTime) time.Time {
	if t.bad != "" {
		g.logger.Warn("unparseable timestamp from ticketing service", "op", op, "field", field, "value", t.bad)
	}
	return t.Time
}

// remoteShow is the show representation used by the ticketing service.
type remoteShow struct {
	ShowID           uint64     `json:"ShowId"`
	ShowName         string     `json:"ShowName"`
	Venue            string     `json:"Venue"`
	VenueLocation    string     `json:"VenueLocation"`
	Capacity         int        `json:"Capacity"`
	Category         string     `json:"Category"`
	Description      string     `json:"Description"`
	ShowDate         remoteTime `json:"ShowDate"`
	TicketPrice      float64    `json:"TicketPrice"`
	AvailableTickets int        `json:"AvailableTickets"`
}

func (r remoteShow) toModel(startsAt time.Time) model.Show {
	return model.Show{
		ID:               r.ShowID,
		Name:             r.ShowName,
		Venue:            r.Venue,
		VenueLocation:    r.VenueLocation,
		Capacity:         r.Capacity,
		Category:         r.Category,
		Description:      r.Description,
		StartsAt:         startsAt,
		TicketPrice:      model.CentsFromFloat(r.TicketPrice),
		AvailableTickets: r.AvailableTickets,
	}
}

type remoteTicket struct {
	TicketID   uint64  `json:"TicketId"`
	ShowID     uint64  `json:"ShowId"`
	SeatNumber string  `json:"SeatNumber"`
	Price      float64 `json:"Price"`
}

type remoteOrder struct {
	OrderID     uint64     `json:"OrderId"`
	UserID      uint64     `json:"UserId"`
	TicketID    uint64     `json:"TicketId"`
	OrderDate   remoteTime `json:"OrderDate"`
	TotalAmount float64    `json:"TotalAmount"`
}

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error string          `json:"error"`
}

// call describes one request to the ticketing service.  resource and id
// say what a 404 refers to; required turns a missing data member into a
// not-found (for reads) or a network error (for writes).
type call struct {
	op       string
	method   string
	path     string
	body     any
	resource string
	id       uint64
	required bool
}

// ListUpcoming handles GET /api/shows/upcoming.
func (g *HTTPGateway) ListUpcoming(ctx context.Context) ([]model.Show, error) {
	var shows []remoteShow
	err := g.do(ctx, call{op: "list upcoming shows", method: http.MethodGet, path: "/api/shows/upcoming"}, &shows)
	if err != nil {
		return nil, err
	}
	out := make([]model.Show, 0, len(shows))
	for _, s := range shows {
		out = append(out, s.toModel(g.timeOf("list upcoming shows", "ShowDate", s.ShowDate)))
	}
	return out, nil
}

// FetchShow handles GET /api/shows/{id}.
func (g *HTTPGateway) FetchShow(ctx context.Context, showID uint64) (model.Show, error) {
	var s remoteShow
	err := g.do(ctx, call{
		op:       "fetch show",
		method:   http.MethodGet,
		path:     fmt.Sprintf("/api/shows/%d", showID),
		resource: "show",
		id:       showID,
		required: true,
	}, &s)
	if err != nil {
		return model.Show{}, err
	}
	return s.toModel(g.timeOf("fetch show", "ShowDate", s.ShowDate)), nil
}

// FetchOffers handles GET /api/shows/{id}/tickets.
func (g *HTTPGateway) FetchOffers(ctx context.Context, showID uint64) ([]model.TicketOffer, error) {
	var tickets []remoteTicket
	err := g.do(ctx, call{
		op:       "fetch tickets",
		method:   http.MethodGet,
		path:     fmt.Sprintf("/api/shows/%d/tickets", showID),
		resource: "show",
		id:       showID,
	}, &tickets)
	if err != nil {
		return nil, err
	}
	out := make([]model.TicketOffer, 0, len(tickets))
	for _, t := range tickets {
		out = append(out, model.TicketOffer{
			ID:     t.TicketID,
			ShowID: t.ShowID,
			Seat:   t.SeatNumber,
			Price:  model.CentsFromFloat(t.Price),
		})
	}
	return out, nil
}

// SubmitOrder handles POST /api/orders.
func (g *HTTPGateway) SubmitOrder(ctx context.Context, req model.OrderRequest) (model.Order, error) {
	var o remoteOrder
	err := g.do(ctx, call{
		op:       "submit order",
		method:   http.MethodPost,
		path:     "/api/orders",
		body:     req,
		resource: "ticket",
		id:       req.TicketID,
		required: true,
	}, &o)
	if err != nil {
		return model.Order{}, err
	}
	ticketID := o.TicketID
	if ticketID == 0 {
		ticketID = req.TicketID
	}
	userID := o.UserID
	if userID == 0 {
		userID = req.UserID
	}
	return model.Order{
		ID:         o.OrderID,
		UserID:     userID,
		TicketID:   ticketID,
		OrderedAt:  g.timeOf("submit order", "OrderDate", o.OrderDate),
		TotalCents: model.CentsFromFloat(o.TotalAmount),
	}, nil
}

// do performs one request and decodes the data envelope into out.
func (g *HTTPGateway) do(ctx context.Context, c call, out any) error {
	var reader io.Reader
	if c.body != nil {
		bs, err := json.Marshal(c.body)
		if err != nil {
			return fmt.Errorf("%s: encode request: %w", c.op, err)
		}
		reader = bytes.NewReader(bs)
	}
	req, err := http.NewRequestWithContext(ctx, c.method, g.baseURL+c.path, reader)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", c.op, err)
	}
	req.Header.Set("Accept", "application/json")
	if c.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return &model.NetworkError{Op: c.op, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return &model.NetworkError{Op: c.op, Err: err}
	}
	var env envelope
	decodeErr := json.Unmarshal(raw, &env)

	if resp.StatusCode >= 400 {
		// Plain-text bodies are only trusted as a reason on 4xx refusals;
		// gateways in front of the service answer 5xx with html.
		reason := strings.TrimSpace(env.Error)
		msg := reason
		if decodeErr != nil {
			msg = strings.TrimSpace(string(raw))
		}
		switch {
		case resp.StatusCode == http.StatusNotFound:
			return &model.NotFoundError{Resource: c.resource, ID: c.id, Msg: reason}
		case resp.StatusCode == http.StatusConflict:
			return &model.ConflictError{Msg: msg}
		case resp.StatusCode >= 500:
			return &model.NetworkError{Op: c.op, Msg: reason, Err: fmt.Errorf("status %d", resp.StatusCode)}
		default:
			return &model.RejectedError{Status: resp.StatusCode, Msg: msg}
		}
	}
	if decodeErr != nil {
		return &model.NetworkError{Op: c.op, Err: fmt.Errorf("decode response: %w", decodeErr)}
	}

	if len(env.Data) == 0 || string(env.Data) == "null" {
		if !c.required {
			return nil
		}
		if c.method == http.MethodGet {
			return &model.NotFoundError{Resource: c.resource, ID: c.id}
		}
		return &model.NetworkError{Op: c.op, Err: errors.New("response carried no data")}
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return &model.NetworkError{Op: c.op, Err: fmt.Errorf("decode data: %w", err)}
	}
	return nil
}
