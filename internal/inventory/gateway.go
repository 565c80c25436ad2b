// Package inventory talks to the ticketing service: it fetches shows and
// their purchasable tickets and submits orders.  Nothing is cached and
// nothing is retried; every failure is returned to the caller as one of
// the model error types.
package inventory

import (
	"context"

	"github.com/iliyamo/ticketfella/internal/model"
)

// Gateway is the contract both backends implement.
type Gateway interface {
	// ListUpcoming returns the catalog feed of scheduled shows.
	ListUpcoming(ctx context.Context) ([]model.Show, error)
	// FetchShow returns a show or *model.NotFoundError / *model.NetworkError.
	FetchShow(ctx context.Context, showID uint64) (model.Show, error)
	// FetchOffers returns the remaining tickets of a show in order.  An
	// empty slice means the show is sold out.
	FetchOffers(ctx context.Context, showID uint64) ([]model.TicketOffer, error)
	// SubmitOrder places an order.  A ticket sold since it was fetched
	// yields *model.ConflictError.
	SubmitOrder(ctx context.Context, req model.OrderRequest) (model.Order, error)
}

var (
	_ Gateway = (*HTTPGateway)(nil)
	_ Gateway = (*SQLGateway)(nil)
)
