package purchase

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/ticketfella/internal/model"
)

type visit struct {
	ctrl   *Controller
	opened time.Time
}

// Visits tracks the open purchase screen of each purchaser.  Opening a new
// visit leaves the purchaser's previous one, so a response for a screen
// the purchaser navigated away from is never applied.
type Visits struct {
	mu      sync.Mutex
	byID    map[string]*visit
	byOwner map[uint64]string
	ttl     time.Duration
	now     func() time.Time
}

// NewVisits returns an empty registry.  Visits opened more than ttl ago
// are left and dropped the next time a visit is opened; ttl <= 0 keeps
// them until closed.
func NewVisits(ttl time.Duration) *Visits {
	return &Visits{
		byID:    make(map[string]*visit),
		byOwner: make(map[uint64]string),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Open registers ctrl for its purchaser and returns the visit id.
func (v *Visits) Open(ctrl *Controller) string {
	id := uuid.New().String()
	owner := ctrl.Purchaser().UserID

	v.mu.Lock()
	defer v.mu.Unlock()
	v.pruneLocked()
	if prev, ok := v.byOwner[owner]; ok {
		v.dropLocked(prev)
	}
	v.byID[id] = &visit{ctrl: ctrl, opened: v.now()}
	v.byOwner[owner] = id
	return id
}

// Get returns the visit when it exists and belongs to p.
func (v *Visits) Get(id string, p model.Purchaser) (*Controller, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	vis, ok := v.byID[id]
	if !ok || vis.ctrl.Purchaser().UserID != p.UserID {
		return nil, false
	}
	return vis.ctrl, true
}

// Close leaves and forgets the visit.  It reports whether the visit
// existed for p.
func (v *Visits) Close(id string, p model.Purchaser) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	vis, ok := v.byID[id]
	if !ok || vis.ctrl.Purchaser().UserID != p.UserID {
		return false
	}
	v.dropLocked(id)
	return true
}

// Len returns the number of open visits.
func (v *Visits) Len() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.byID)
}

func (v *Visits) dropLocked(id string) {
	vis, ok := v.byID[id]
	if !ok {
		return
	}
	vis.ctrl.Leave()
	delete(v.byID, id)
	owner := vis.ctrl.Purchaser().UserID
	if v.byOwner[owner] == id {
		delete(v.byOwner, owner)
	}
}

func (v *Visits) pruneLocked() {
	if v.ttl <= 0 {
		return
	}
	cutoff := v.now().Add(-v.ttl)
	for id, vis := range v.byID {
		if vis.opened.Before(cutoff) {
			v.dropLocked(id)
		}
	}
}
