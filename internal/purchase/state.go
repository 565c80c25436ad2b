package purchase

// State is the phase of one purchase screen visit.
type State string

const (
	StateLoading        State = "loading"
	StateReady          State = "ready"
	StateSubmitting     State = "submitting"
	StateSucceeded      State = "succeeded"
	StateReadyWithError State = "ready_with_error"
	StateNoInventory    State = "no_inventory"
	StateError          State = "error"
)

// transitions lists every legal move.  Field edits never change the state
// and are not listed.
var transitions = map[State][]State{
	StateLoading:        {StateReady, StateNoInventory, StateError},
	StateReady:          {StateSubmitting},
	StateReadyWithError: {StateSubmitting, StateReady},
	StateSubmitting:     {StateSucceeded, StateReadyWithError},
}

// CanTransition reports whether the machine may move from s to next.
func (s State) CanTransition(next State) bool {
	for _, to := range transitions[s] {
		if to == next {
			return true
		}
	}
	return false
}

// Terminal reports whether no further transition is possible.
func (s State) Terminal() bool {
	return len(transitions[s]) == 0
}

// Editable reports whether the form accepts input in this state.
func (s State) Editable() bool {
	return s == StateReady || s == StateReadyWithError
}

func (s State) String() string {
	return string(s)
}
