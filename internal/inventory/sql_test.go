package inventory

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/iliyamo/ticketfella/internal/model"
)

var (
	lockTicket  = regexp.QuoteMeta("FROM tickets WHERE id = ? FOR UPDATE")
	insertOrder = "INSERT INTO orders"
	markSold    = regexp.QuoteMeta("UPDATE tickets SET status = 'SOLD'")
	ticketCols  = []string{"id", "show_id", "seat_number", "price_cents", "status", "order_id"}
)

func newSQLGateway(t *testing.T) (*SQLGateway, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	g := NewSQLGateway(db, 500)
	g.now = func() time.Time { return time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC) }
	return g, mock
}

func TestSQLSubmitOrder(t *testing.T) {
	g, mock := newSQLGateway(t)
	holder, number := "Ada", "1234567890123456"

	mock.ExpectBegin()
	mock.ExpectQuery(lockTicket).WithArgs(11).
		WillReturnRows(sqlmock.NewRows(ticketCols).AddRow(11, 3, "A1", 4999, "AVAILABLE", nil))
	mock.ExpectExec(insertOrder).
		WithArgs(1, 11, 5499, "Ada", "3456", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(42, 1))
	mock.ExpectExec(markSold).WithArgs(42, 11).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	order, err := g.SubmitOrder(context.Background(), model.OrderRequest{
		UserID: 1, TicketID: 11, UseCustomPayment: true, CardNumber: &number, CardHolder: &holder,
	})
	if err != nil {
		t.Fatalf("SubmitOrder: %v", err)
	}
	if order.ID != 42 || order.TotalCents != 5499 || order.TicketID != 11 {
		t.Errorf("order = %+v", order)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSQLSubmitOrderSold(t *testing.T) {
	g, mock := newSQLGateway(t)

	mock.ExpectBegin()
	mock.ExpectQuery(lockTicket).WithArgs(11).
		WillReturnRows(sqlmock.NewRows(ticketCols).AddRow(11, 3, "A1", 4999, "SOLD", 7))
	mock.ExpectRollback()

	_, err := g.SubmitOrder(context.Background(), model.OrderRequest{UserID: 1, TicketID: 11})
	if !model.IsConflict(err) {
		t.Fatalf("err = %v, want conflict", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSQLSubmitOrderLostRace(t *testing.T) {
	g, mock := newSQLGateway(t)

	mock.ExpectBegin()
	mock.ExpectQuery(lockTicket).WithArgs(11).
		WillReturnRows(sqlmock.NewRows(ticketCols).AddRow(11, 3, "A1", 4999, "AVAILABLE", nil))
	mock.ExpectExec(insertOrder).WillReturnResult(sqlmock.NewResult(43, 1))
	mock.ExpectExec(markSold).WithArgs(43, 11).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	_, err := g.SubmitOrder(context.Background(), model.OrderRequest{UserID: 1, TicketID: 11})
	if !model.IsConflict(err) {
		t.Fatalf("err = %v, want conflict", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSQLSubmitOrderUnknownTicket(t *testing.T) {
	g, mock := newSQLGateway(t)

	mock.ExpectBegin()
	mock.ExpectQuery(lockTicket).WithArgs(99).WillReturnRows(sqlmock.NewRows(ticketCols))
	mock.ExpectRollback()

	_, err := g.SubmitOrder(context.Background(), model.OrderRequest{UserID: 1, TicketID: 99})
	if !model.IsNotFound(err) {
		t.Fatalf("err = %v, want not found", err)
	}
}

func TestSQLFetchShow(t *testing.T) {
	g, mock := newSQLGateway(t)
	cols := []string{"id", "name", "venue", "venue_location", "capacity", "category", "description", "show_date", "ticket_price_cents", "available"}
	date := time.Date(2025, 6, 1, 19, 30, 0, 0, time.UTC)

	mock.ExpectQuery("FROM shows s WHERE s.id = ").WithArgs(3).
		WillReturnRows(sqlmock.NewRows(cols).AddRow(3, "Hamlet", "Globe", nil, 100, "Theater", "Tragedy", date, 4999, 2))
	mock.ExpectQuery("FROM shows s WHERE s.id = ").WithArgs(4).
		WillReturnRows(sqlmock.NewRows(cols))
	mock.ExpectQuery("FROM shows s WHERE s.id = ").WithArgs(5).
		WillReturnError(errors.New("connection reset"))

	show, err := g.FetchShow(context.Background(), 3)
	if err != nil {
		t.Fatal(err)
	}
	if show.Name != "Hamlet" || show.VenueLocation != "" || show.Description != "Tragedy" || show.AvailableTickets != 2 {
		t.Errorf("show = %+v", show)
	}
	if _, err := g.FetchShow(context.Background(), 4); !model.IsNotFound(err) {
		t.Errorf("missing show err = %v", err)
	}
	if _, err := g.FetchShow(context.Background(), 5); !model.IsNetwork(err) {
		t.Errorf("db failure err = %v", err)
	}
}

func TestSQLFetchOffers(t *testing.T) {
	g, mock := newSQLGateway(t)
	mock.ExpectQuery("FROM tickets").WithArgs(3).
		WillReturnRows(sqlmock.NewRows(ticketCols).
			AddRow(11, 3, "A1", 4999, "AVAILABLE", nil).
			AddRow(12, 3, "A2", 5999, "AVAILABLE", nil))

	offers, err := g.FetchOffers(context.Background(), 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(offers) != 2 || offers[0].ID != 11 || offers[1].Price != 5999 {
		t.Errorf("offers = %+v", offers)
	}
}
