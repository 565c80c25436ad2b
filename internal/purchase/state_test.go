package purchase

import "testing"

func TestTransitions(t *testing.T) {
	allowed := [][2]State{
		{StateLoading, StateReady},
		{StateLoading, StateNoInventory},
		{StateLoading, StateError},
		{StateReady, StateSubmitting},
		{StateReadyWithError, StateSubmitting},
		{StateReadyWithError, StateReady},
		{StateSubmitting, StateSucceeded},
		{StateSubmitting, StateReadyWithError},
	}
	for _, tr := range allowed {
		if !tr[0].CanTransition(tr[1]) {
			t.Errorf("%s -> %s should be allowed", tr[0], tr[1])
		}
	}

	denied := [][2]State{
		{StateReady, StateSucceeded},
		{StateSucceeded, StateReady},
		{StateNoInventory, StateReady},
		{StateError, StateLoading},
		{StateSubmitting, StateSubmitting},
	}
	for _, tr := range denied {
		if tr[0].CanTransition(tr[1]) {
			t.Errorf("%s -> %s should be denied", tr[0], tr[1])
		}
	}

	for _, s := range []State{StateSucceeded, StateNoInventory, StateError} {
		if !s.Terminal() {
			t.Errorf("%s should be terminal", s)
		}
	}
}
