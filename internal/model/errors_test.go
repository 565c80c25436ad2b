package model

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorClassification(t *testing.T) {
	t.Parallel()

	wrapped := fmt.Errorf("submit: %w", &ConflictError{Msg: "seat taken"})
	if !IsConflict(wrapped) {
		t.Fatalf("expected wrapped conflict to be detected")
	}
	if IsNetwork(wrapped) || IsNotFound(wrapped) {
		t.Fatalf("conflict misclassified")
	}
	if got := UserMessage(wrapped); got != "seat taken" {
		t.Fatalf("UserMessage = %q", got)
	}

	netErr := &NetworkError{Op: "fetch show", Err: errors.New("connection refused")}
	if !IsNetwork(netErr) {
		t.Fatalf("expected network error")
	}
	if got := UserMessage(netErr); got != "" {
		t.Fatalf("network errors without a reason carry no user message, got %q", got)
	}
	if got := UserMessage(&NetworkError{Op: "submit order", Msg: "try later"}); got != "try later" {
		t.Fatalf("network reason = %q", got)
	}
	if got := UserMessage(&NotFoundError{Resource: "ticket", ID: 5, Msg: "Ticket not found"}); got != "Ticket not found" {
		t.Fatalf("not found reason = %q", got)
	}
	if got := UserMessage(&NotFoundError{Resource: "ticket", ID: 5}); got != "ticket 5 not found" {
		t.Fatalf("not found fallback = %q", got)
	}

	if got := (&NotFoundError{Resource: "show", ID: 7}).Error(); got != "show 7 not found" {
		t.Fatalf("NotFoundError = %q", got)
	}
	if got := UserMessage(&RejectedError{Status: 402, Msg: "payment declined"}); got != "payment declined" {
		t.Fatalf("rejected message = %q", got)
	}
}
