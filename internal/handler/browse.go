package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/ticketfella/internal/model"
	"github.com/iliyamo/ticketfella/internal/workflow"
)

// Catalog is the read side of the inventory used by the browse screens.
type Catalog interface {
	ListUpcoming(ctx context.Context) ([]model.Show, error)
	FetchShow(ctx context.Context, showID uint64) (model.Show, error)
}

// BrowseHandler serves the catalog and detail screens.  Neither needs an
// authenticated purchaser.
type BrowseHandler struct {
	Inventory Catalog
	Logger    *slog.Logger
}

// CatalogView is the catalog screen.
type CatalogView struct {
	Screen  workflow.Screen `json:"screen"`
	Items   []model.Show    `json:"items"`
	Count   int             `json:"count"`
	Message string          `json:"message,omitempty"`
}

// DetailView is the show detail screen.
type DetailView struct {
	Screen  workflow.Screen `json:"screen"`
	Show    model.Show      `json:"show"`
	SoldOut bool            `json:"sold_out"`
	Message string          `json:"message,omitempty"`
	Links   []workflow.Link `json:"links"`
}

// ListCatalog handles GET /v1/catalog.
func (h *BrowseHandler) ListCatalog(c echo.Context) error {
	shows, err := h.Inventory.ListUpcoming(c.Request().Context())
	if err != nil {
		h.logger().Warn("catalog load failed", "error", err)
		return writeError(c, http.StatusBadGateway, codeUnavailable, "Failed to load shows. Please try again later.")
	}
	view := CatalogView{Screen: workflow.ScreenCatalog, Items: shows, Count: len(shows)}
	if len(shows) == 0 {
		view.Items = []model.Show{}
		view.Message = "No shows found"
	}
	return c.JSON(http.StatusOK, view)
}

// GetShow handles GET /v1/shows/:id.  An unknown show answers 404 with a
// redirect to the catalog.
func (h *BrowseHandler) GetShow(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return writeError(c, http.StatusBadRequest, codeBadRequest, "invalid show id")
	}
	show, err := h.Inventory.FetchShow(c.Request().Context(), id)
	if err != nil {
		if model.IsNotFound(err) {
			return writeRedirect(c, http.StatusNotFound, codeNotFound, "The show you're looking for doesn't exist or has been removed.")
		}
		h.logger().Warn("show load failed", "show_id", id, "error", err)
		return writeError(c, http.StatusBadGateway, codeUnavailable, "Failed to load show details")
	}

	view := DetailView{
		Screen:  workflow.ScreenDetail,
		Show:    show,
		SoldOut: show.SoldOut(),
		Links:   []workflow.Link{workflow.BackToCatalog("Back to Shows")},
	}
	if view.SoldOut {
		view.Message = "This show is currently sold out. Check back for cancellations."
	} else {
		view.Links = append(view.Links, workflow.Link{
			Screen: workflow.ScreenPurchase,
			Label:  "Buy Tickets Now",
			Href:   workflow.PurchasesPath,
		})
	}
	return c.JSON(http.StatusOK, view)
}

func (h *BrowseHandler) logger() *slog.Logger {
	if h.Logger == nil {
		return slog.Default()
	}
	return h.Logger
}
