package inventory

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/iliyamo/ticketfella/internal/model"
)

// stub answers every request with status and body and records the last
// request it saw.
type stub struct {
	status int
	body   string

	method string
	path   string
	sent   []byte
}

func (s *stub) server(t *testing.T) *HTTPGateway {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.method = r.Method
		s.path = r.URL.Path
		s.sent, _ = io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(s.status)
		_, _ = io.WriteString(w, s.body)
	}))
	t.Cleanup(srv.Close)
	return NewHTTPGateway(srv.URL+"/", nil, time.Second)
}

func TestFetchShow(t *testing.T) {
	s := &stub{status: http.StatusOK, body: `{"data":{"ShowId":3,"ShowName":"Hamlet","Venue":"Globe","Capacity":100,"Category":"Theater","ShowDate":"2025-06-01T19:30:00Z","TicketPrice":49.99,"AvailableTickets":2}}`}
	g := s.server(t)

	show, err := g.FetchShow(context.Background(), 3)
	if err != nil {
		t.Fatalf("FetchShow: %v", err)
	}
	if s.method != http.MethodGet || s.path != "/api/shows/3" {
		t.Errorf("request = %s %s", s.method, s.path)
	}
	if show.ID != 3 || show.Name != "Hamlet" || show.TicketPrice != 4999 || show.AvailableTickets != 2 {
		t.Errorf("show = %+v", show)
	}
	if !show.StartsAt.Equal(time.Date(2025, 6, 1, 19, 30, 0, 0, time.UTC)) {
		t.Errorf("starts at = %v", show.StartsAt)
	}
}

func TestStatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		check  func(error) bool
		msg    string
	}{
		{"not found", http.StatusNotFound, `{"error":"Show not found"}`, model.IsNotFound, "Show not found"},
		{"conflict", http.StatusConflict, `{"error":"Ticket is no longer available"}`, model.IsConflict, "Ticket is no longer available"},
		{"rejected", http.StatusBadRequest, `{"error":"Invalid card"}`, model.IsRejected, "Invalid card"},
		{"rejected plain text", http.StatusUnprocessableEntity, `bad input`, model.IsRejected, "bad input"},
		{"server error", http.StatusInternalServerError, `{"error":"boom"}`, model.IsNetwork, "boom"},
		{"bad gateway html", http.StatusBadGateway, `<html>`, model.IsNetwork, ""},
		{"undecodable ok", http.StatusOK, `not json`, model.IsNetwork, ""},
		{"null data on read", http.StatusOK, `{"data":null}`, model.IsNotFound, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := (&stub{status: tt.status, body: tt.body}).server(t)
			_, err := g.FetchShow(context.Background(), 3)
			if err == nil || !tt.check(err) {
				t.Fatalf("err = %v (%T)", err, err)
			}
			if tt.msg != "" && model.UserMessage(err) != tt.msg {
				t.Errorf("message = %q, want %q", model.UserMessage(err), tt.msg)
			}
		})
	}
}

func TestServerErrorWithoutReason(t *testing.T) {
	g := (&stub{status: http.StatusBadGateway, body: `<html>bad gateway</html>`}).server(t)
	_, err := g.FetchShow(context.Background(), 3)
	if !model.IsNetwork(err) {
		t.Fatalf("err = %v, want network error", err)
	}
	if msg := model.UserMessage(err); msg != "" {
		t.Errorf("message = %q, html must not be shown", msg)
	}
}

func TestSubmitOrderFailureReason(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		check  func(error) bool
		msg    string
	}{
		{"server error", http.StatusInternalServerError, `{"error":"Ticket is no longer available"}`, model.IsNetwork, "Ticket is no longer available"},
		{"unknown ticket", http.StatusNotFound, `{"error":"Ticket not found"}`, model.IsNotFound, "Ticket not found"},
		{"unknown ticket without reason", http.StatusNotFound, `{}`, model.IsNotFound, "ticket 11 not found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := (&stub{status: tt.status, body: tt.body}).server(t)
			_, err := g.SubmitOrder(context.Background(), model.OrderRequest{UserID: 1, TicketID: 11})
			if err == nil || !tt.check(err) {
				t.Fatalf("err = %v (%T)", err, err)
			}
			if got := model.UserMessage(err); got != tt.msg {
				t.Errorf("message = %q, want %q", got, tt.msg)
			}
		})
	}
}

func TestSubmitOrderTimestamps(t *testing.T) {
	tests := []struct {
		name string
		date string
		want time.Time
	}{
		{"rfc3339", `"2025-01-01T12:00:00Z"`, time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)},
		{"offset", `"2025-01-01T14:00:00+02:00"`, time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)},
		{"no zone with ticks", `"2025-01-01T12:00:00.1234567"`, time.Date(2025, 1, 1, 12, 0, 0, 123456700, time.UTC)},
		{"no zone", `"2025-01-01T12:00:00"`, time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)},
		{"garbage", `"yesterday"`, time.Time{}},
		{"number", `1735732800`, time.Time{}},
		{"null", `null`, time.Time{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := `{"data":{"OrderId":42,"OrderDate":` + tt.date + `,"TotalAmount":54.99}}`
			g := (&stub{status: http.StatusCreated, body: body}).server(t)
			order, err := g.SubmitOrder(context.Background(), model.OrderRequest{UserID: 1, TicketID: 11})
			if err != nil {
				t.Fatalf("accepted order failed: %v", err)
			}
			if order.ID != 42 {
				t.Errorf("order = %+v", order)
			}
			if !order.OrderedAt.Equal(tt.want) {
				t.Errorf("ordered at = %v, want %v", order.OrderedAt, tt.want)
			}
		})
	}
}

func TestFetchShowLocalDate(t *testing.T) {
	s := &stub{status: http.StatusOK, body: `{"data":{"ShowId":3,"ShowName":"Hamlet","ShowDate":"2025-06-01T19:30:00"}}`}
	show, err := s.server(t).FetchShow(context.Background(), 3)
	if err != nil {
		t.Fatalf("FetchShow: %v", err)
	}
	if !show.StartsAt.Equal(time.Date(2025, 6, 1, 19, 30, 0, 0, time.UTC)) {
		t.Errorf("starts at = %v", show.StartsAt)
	}
}

func TestTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewHTTPGateway(url, nil, time.Second).FetchOffers(context.Background(), 3)
	if !model.IsNetwork(err) {
		t.Fatalf("err = %v, want network error", err)
	}
}

func TestFetchOffers(t *testing.T) {
	tests := []struct {
		name string
		body string
		want int
	}{
		{"two", `{"data":[{"TicketId":11,"ShowId":3,"SeatNumber":"A1","Price":49.99},{"TicketId":12,"ShowId":3,"SeatNumber":"A2","Price":59.5}]}`, 2},
		{"empty", `{"data":[]}`, 0},
		{"null", `{"data":null}`, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := (&stub{status: http.StatusOK, body: tt.body}).server(t)
			offers, err := g.FetchOffers(context.Background(), 3)
			if err != nil {
				t.Fatalf("FetchOffers: %v", err)
			}
			if len(offers) != tt.want {
				t.Fatalf("got %d offers, want %d", len(offers), tt.want)
			}
			if tt.want == 2 && (offers[1].Price != 5950 || offers[1].Seat != "A2") {
				t.Errorf("offer = %+v", offers[1])
			}
		})
	}
}

func TestListUpcoming(t *testing.T) {
	s := &stub{status: http.StatusOK, body: `{"data":[{"ShowId":1,"ShowName":"A"},{"ShowId":2,"ShowName":"B"}]}`}
	shows, err := s.server(t).ListUpcoming(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if s.path != "/api/shows/upcoming" || len(shows) != 2 || shows[1].Name != "B" {
		t.Errorf("path = %s, shows = %+v", s.path, shows)
	}
}

func TestSubmitOrder(t *testing.T) {
	s := &stub{status: http.StatusCreated, body: `{"data":{"OrderId":42,"OrderDate":"2025-01-01T12:00:00Z","TotalAmount":54.99}}`}
	g := s.server(t)

	order, err := g.SubmitOrder(context.Background(), model.OrderRequest{UserID: 1, TicketID: 11})
	if err != nil {
		t.Fatalf("SubmitOrder: %v", err)
	}
	if s.method != http.MethodPost || s.path != "/api/orders" {
		t.Errorf("request = %s %s", s.method, s.path)
	}
	var sent map[string]any
	if err := json.Unmarshal(s.sent, &sent); err != nil {
		t.Fatal(err)
	}
	if sent["userId"] != float64(1) || sent["ticketId"] != float64(11) || sent["customCardNumber"] != nil {
		t.Errorf("sent = %v", sent)
	}
	if _, ok := sent["customCardNumber"]; !ok {
		t.Error("card number key should be present as null")
	}
	if order.ID != 42 || order.TotalCents != 5499 || order.TicketID != 11 || order.UserID != 1 {
		t.Errorf("order = %+v", order)
	}
}

func TestSubmitOrderWithoutData(t *testing.T) {
	g := (&stub{status: http.StatusOK, body: `{}`}).server(t)
	_, err := g.SubmitOrder(context.Background(), model.OrderRequest{UserID: 1, TicketID: 11})
	if !model.IsNetwork(err) {
		t.Fatalf("err = %v, want network error", err)
	}
}

func TestContextCancel(t *testing.T) {
	g := (&stub{status: http.StatusOK, body: `{"data":[]}`}).server(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := g.FetchOffers(ctx, 1); !model.IsNetwork(err) {
		t.Fatalf("err = %v, want network error", err)
	}
}
