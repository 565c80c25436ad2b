package workflow

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/ticketfella/internal/model"
)

// Payload is the one-shot bundle attached to the purchase to confirmation
// transition.  It is never persisted.
type Payload struct {
	Order         model.Order
	CustomerName  string
	CustomerEmail string
	ShowName      string
}

type handoff struct {
	owner   uint64
	payload Payload
	expires time.Time
}

// Handoffs holds payloads in process memory between the moment an order
// is placed and the moment the confirmation screen is entered.  Each
// payload can be taken exactly once.
type Handoffs struct {
	mu      sync.Mutex
	pending map[string]handoff
	ttl     time.Duration
	now     func() time.Time
}

// NewHandoffs returns an empty store.  Payloads not taken within ttl are
// discarded; ttl <= 0 means they wait until taken.
func NewHandoffs(ttl time.Duration) *Handoffs {
	return &Handoffs{
		pending: make(map[string]handoff),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Complete attaches p to a single transition for the purchaser and
// returns the confirmation route to follow.
func (h *Handoffs) Complete(purchaserID uint64, p Payload) string {
	token := uuid.New().String()
	h.mu.Lock()
	defer h.mu.Unlock()
	h.expireLocked()
	var expires time.Time
	if h.ttl > 0 {
		expires = h.now().Add(h.ttl)
	}
	h.pending[token] = handoff{owner: purchaserID, payload: p, expires: expires}
	return ConfirmationURL(token)
}

// Take removes and returns the payload behind token.  ok is false for
// empty, unknown, expired or already taken tokens, and for tokens that
// belong to another purchaser; a foreign token is left in place.
func (h *Handoffs) Take(purchaserID uint64, token string) (Payload, bool) {
	if token == "" {
		return Payload{}, false
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.expireLocked()
	ho, ok := h.pending[token]
	if !ok || ho.owner != purchaserID {
		return Payload{}, false
	}
	delete(h.pending, token)
	return ho.payload, true
}

// Pending returns the number of payloads not yet taken.
func (h *Handoffs) Pending() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.pending)
}

func (h *Handoffs) expireLocked() {
	if h.ttl <= 0 {
		return
	}
	now := h.now()
	for token, ho := range h.pending {
		if !ho.expires.After(now) {
			delete(h.pending, token)
		}
	}
}
