package router // package router registers the storefront routes

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/ticketfella/internal/handler"
	"github.com/iliyamo/ticketfella/internal/middleware"
	"github.com/iliyamo/ticketfella/internal/workflow"
)

// CustomerRole is the role a token needs to buy tickets.
const CustomerRole = "CUSTOMER"

// Deps carries everything the routes need.  CatalogCache and SubmitLimit
// may be nil, in which case the routes run without them.
type Deps struct {
	Browse       *handler.BrowseHandler
	Purchase     *handler.PurchaseHandler
	Confirmation *handler.ConfirmationHandler
	JWTSecret    string
	CatalogCache echo.MiddlewareFunc
	SubmitLimit  echo.MiddlewareFunc
}

// RegisterRoutes registers the health check, the public browse screens
// and the purchaser-only purchase and confirmation screens.
func RegisterRoutes(e *echo.Echo, d Deps) {
	e.GET("/healthz", handler.Health)

	e.GET(workflow.CatalogPath, d.Browse.ListCatalog, optional(d.CatalogCache)...)
	e.GET("/v1/shows/:id", d.Browse.GetShow)

	// Purchase and confirmation need an authenticated customer; the
	// handoff token alone is not enough to read a confirmation.
	auth := e.Group("/v1", middleware.JWTAuth(d.JWTSecret), middleware.RequireRole(CustomerRole))
	auth.POST("/purchases", d.Purchase.Open)
	auth.GET("/purchases/:visit", d.Purchase.Get)
	auth.PATCH("/purchases/:visit/form", d.Purchase.Edit)
	auth.POST("/purchases/:visit/submit", d.Purchase.Submit, optional(d.SubmitLimit)...)
	auth.POST("/purchases/:visit/dismiss", d.Purchase.Dismiss)
	auth.DELETE("/purchases/:visit", d.Purchase.Leave)
	auth.GET("/confirmation", d.Confirmation.Show)
}

func optional(mw echo.MiddlewareFunc) []echo.MiddlewareFunc {
	if mw == nil {
		return nil
	}
	return []echo.MiddlewareFunc{mw}
}
