package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/ticketfella/internal/workflow"
)

// Error codes returned in the "code" member of error bodies.
const (
	codeBadRequest   = "bad_request"
	codeUnauthorized = "unauthorized"
	codeNotFound     = "not_found"
	codeUnavailable  = "inventory_unavailable"
	codeInvalidForm  = "invalid_form"
	codeInFlight     = "submit_in_flight"
	codeConflict     = "conflict"
	codeRejected     = "rejected"
	codeNotReady     = "not_ready"
	codeAbandoned    = "abandoned"
)

// errorBody is the JSON shape of every error response.  Redirect names the
// screen the client should fall back to, when there is one.
type errorBody struct {
	Error    string `json:"error"`
	Code     string `json:"code"`
	Redirect string `json:"redirect,omitempty"`
}

func writeError(c echo.Context, status int, code, msg string) error {
	return c.JSON(status, errorBody{Error: msg, Code: code})
}

// writeRedirect is writeError for dead ends that send the user back to
// the catalog.
func writeRedirect(c echo.Context, status int, code, msg string) error {
	return c.JSON(status, errorBody{Error: msg, Code: code, Redirect: workflow.CatalogPath})
}

// unauthorized answers requests that reached a purchaser route without an
// identity.  Those routes sit behind JWTAuth, so this only fires on a
// wiring mistake.
func unauthorized(c echo.Context) error {
	return writeError(c, http.StatusUnauthorized, codeUnauthorized, "authentication required")
}
