package inventory

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/iliyamo/ticketfella/internal/model"
	"github.com/iliyamo/ticketfella/internal/repository"
)

// SQLGateway serves the gateway contract straight from the ticketing
// MySQL schema.  The order write is a single transaction that only sells
// a ticket which is still AVAILABLE.
type SQLGateway struct {
	shows      *repository.ShowRepo
	tickets    *repository.TicketRepo
	orders     *repository.OrderRepo
	serviceFee model.Cents
	now        func() time.Time
}

// NewSQLGateway builds a gateway on db.  serviceFee is added to the
// ticket price to form the order total.
func NewSQLGateway(db *sql.DB, serviceFee model.Cents) *SQLGateway {
	if db == nil {
		panic("nil db passed to NewSQLGateway")
	}
	return &SQLGateway{
		shows:      repository.NewShowRepo(db),
		tickets:    repository.NewTicketRepo(db),
		orders:     repository.NewOrderRepo(db),
		serviceFee: serviceFee,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

func (g *SQLGateway) ListUpcoming(ctx context.Context) ([]model.Show, error) {
	rows, err := g.shows.ListUpcoming(ctx, g.now())
	if err != nil {
		return nil, &model.NetworkError{Op: "list upcoming shows", Err: err}
	}
	out := make([]model.Show, 0, len(rows))
	for _, s := range rows {
		out = append(out, showFromRow(s))
	}
	return out, nil
}

func (g *SQLGateway) FetchShow(ctx context.Context, showID uint64) (model.Show, error) {
	s, err := g.shows.GetByID(ctx, showID)
	if err != nil {
		if errors.Is(err, repository.ErrShowNotFound) {
			return model.Show{}, &model.NotFoundError{Resource: "show", ID: showID, Err: err}
		}
		return model.Show{}, &model.NetworkError{Op: "fetch show", Err: err}
	}
	return showFromRow(*s), nil
}

func (g *SQLGateway) FetchOffers(ctx context.Context, showID uint64) ([]model.TicketOffer, error) {
	rows, err := g.tickets.ListAvailableByShow(ctx, showID)
	if err != nil {
		return nil, &model.NetworkError{Op: "fetch tickets", Err: err}
	}
	out := make([]model.TicketOffer, 0, len(rows))
	for _, t := range rows {
		out = append(out, model.TicketOffer{
			ID:     t.ID,
			ShowID: t.ShowID,
			Seat:   t.SeatNumber,
			Price:  model.Cents(t.PriceCents),
		})
	}
	return out, nil
}

func (g *SQLGateway) SubmitOrder(ctx context.Context, req model.OrderRequest) (model.Order, error) {
	tx, err := g.shows.DB().BeginTx(ctx, nil)
	if err != nil {
		return model.Order{}, &model.NetworkError{Op: "submit order", Err: fmt.Errorf("begin transaction: %w", err)}
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	ticket, err := g.tickets.GetForUpdateTx(ctx, tx, req.TicketID)
	if err != nil {
		if errors.Is(err, repository.ErrTicketNotFound) {
			return model.Order{}, &model.NotFoundError{Resource: "ticket", ID: req.TicketID, Err: err}
		}
		return model.Order{}, &model.NetworkError{Op: "submit order", Err: err}
	}
	if ticket.Status != repository.TicketAvailable {
		return model.Order{}, &model.ConflictError{Msg: "Ticket is no longer available"}
	}

	rec := &repository.OrderRecord{
		UserID:     req.UserID,
		TicketID:   ticket.ID,
		TotalCents: ticket.PriceCents + int64(g.serviceFee),
		OrderDate:  g.now(),
	}
	if req.UseCustomPayment {
		if req.CardHolder != nil {
			rec.CardHolder = sql.NullString{String: *req.CardHolder, Valid: true}
		}
		if req.CardNumber != nil && len(*req.CardNumber) >= 4 {
			n := *req.CardNumber
			rec.CardLast4 = sql.NullString{String: n[len(n)-4:], Valid: true}
		}
	}
	if err := g.orders.CreateTx(ctx, tx, rec); err != nil {
		return model.Order{}, &model.NetworkError{Op: "submit order", Err: fmt.Errorf("create order: %w", err)}
	}
	if err := g.tickets.MarkSoldTx(ctx, tx, ticket.ID, rec.ID); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return model.Order{}, &model.ConflictError{Msg: "Ticket is no longer available", Err: err}
		}
		return model.Order{}, &model.NetworkError{Op: "submit order", Err: fmt.Errorf("mark ticket sold: %w", err)}
	}
	if err := tx.Commit(); err != nil {
		return model.Order{}, &model.NetworkError{Op: "submit order", Err: fmt.Errorf("commit: %w", err)}
	}
	committed = true

	return model.Order{
		ID:         rec.ID,
		UserID:     rec.UserID,
		TicketID:   rec.TicketID,
		OrderedAt:  rec.OrderDate,
		TotalCents: model.Cents(rec.TotalCents),
	}, nil
}

func showFromRow(s repository.Show) model.Show {
	return model.Show{
		ID:               s.ID,
		Name:             s.Name,
		Venue:            s.Venue,
		VenueLocation:    s.VenueLocation.String,
		Capacity:         s.Capacity,
		Category:         s.Category,
		Description:      s.Description.String,
		StartsAt:         s.ShowDate.UTC(),
		TicketPrice:      model.Cents(s.TicketPriceCents),
		AvailableTickets: s.AvailableTickets,
	}
}
