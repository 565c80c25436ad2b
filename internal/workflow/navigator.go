// Package workflow defines the four storefront screens, the legal moves
// between them and the one-shot payload carried from the purchase screen
// to the confirmation screen.
package workflow

import (
	"fmt"
	"net/url"
)

// Screen is one logical page of the purchase workflow.
type Screen string

const (
	ScreenCatalog      Screen = "catalog"
	ScreenDetail       Screen = "detail"
	ScreenPurchase     Screen = "purchase"
	ScreenConfirmation Screen = "confirmation"
)

// edges are the forward and back moves between screens.  Every screen may
// additionally return to the catalog.  Purchase -> Confirmation is only
// legal when it carries a payload.
var edges = map[Screen][]Screen{
	ScreenCatalog:  {ScreenDetail},
	ScreenDetail:   {ScreenCatalog, ScreenPurchase},
	ScreenPurchase: {ScreenDetail, ScreenConfirmation},
}

// CanNavigate reports whether moving from one screen to another is a
// legal edge of the workflow graph.
func CanNavigate(from, to Screen, withPayload bool) bool {
	if to == ScreenCatalog {
		return true
	}
	if to == ScreenConfirmation {
		return from == ScreenPurchase && withPayload
	}
	for _, s := range edges[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Route paths of the storefront API.
const (
	CatalogPath      = "/v1/catalog"
	ConfirmationPath = "/v1/confirmation"
	PurchasesPath    = "/v1/purchases"
)

// DetailPath returns the detail route of a show.
func DetailPath(showID uint64) string {
	return fmt.Sprintf("/v1/shows/%d", showID)
}

// PurchasePath returns the route of an open purchase visit.
func PurchasePath(visitID string) string {
	return PurchasesPath + "/" + url.PathEscape(visitID)
}

// ConfirmationURL returns the confirmation route carrying a handoff token.
func ConfirmationURL(token string) string {
	return ConfirmationPath + "?" + url.Values{"handoff": {token}}.Encode()
}

// Link is a single navigation affordance offered by a screen.
type Link struct {
	Screen Screen `json:"screen"`
	Label  string `json:"label"`
	Href   string `json:"href"`
}

// BackToCatalog is the affordance of every dead-end screen.
func BackToCatalog(label string) Link {
	return Link{Screen: ScreenCatalog, Label: label, Href: CatalogPath}
}
