package model

import (
	"errors"
	"fmt"
)

// NotFoundError reports that a referenced show or ticket does not exist.
// It is terminal for the screen that hit it; the user is sent back to
// browsing.
type NotFoundError struct {
	Resource string
	ID       uint64
	Msg      string
	Err      error
}

func (e *NotFoundError) Error() string {
	if e.Resource == "" {
		return "not found"
	}
	if e.ID == 0 {
		return fmt.Sprintf("%s not found", e.Resource)
	}
	return fmt.Sprintf("%s %d not found", e.Resource, e.ID)
}

func (e *NotFoundError) Unwrap() error { return e.Err }

// NetworkError reports a transport or availability failure talking to the
// ticketing service.  The operation is abandoned; the user may retry.
//
// Msg is the reason the service gave, if any, e.g. the error member of a
// 5xx response body.
type NetworkError struct {
	Op  string
	Msg string
	Err error
}

func (e *NetworkError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: service unavailable", e.Op)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// ConflictError reports that a submission was rejected because inventory
// changed since it was fetched, typically because the selected ticket has
// been sold to someone else.
type ConflictError struct {
	Msg string
	Err error
}

func (e *ConflictError) Error() string {
	if e.Msg == "" {
		return "ticket is no longer available"
	}
	return e.Msg
}

func (e *ConflictError) Unwrap() error { return e.Err }

// RejectedError carries any other human-readable refusal from the ticketing
// service, e.g. a declined payment.
type RejectedError struct {
	Status int
	Msg    string
}

func (e *RejectedError) Error() string {
	if e.Msg == "" {
		return fmt.Sprintf("request rejected (status %d)", e.Status)
	}
	return e.Msg
}

func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

func IsNetwork(err error) bool {
	var target *NetworkError
	return errors.As(err, &target)
}

func IsConflict(err error) bool {
	var target *ConflictError
	return errors.As(err, &target)
}

func IsRejected(err error) bool {
	var target *RejectedError
	return errors.As(err, &target)
}

// UserMessage returns the reason a remote collaborator gave for err, or
// "" when the error carries no purchaser-facing message.
func UserMessage(err error) string {
	var conflict *ConflictError
	if errors.As(err, &conflict) {
		return conflict.Error()
	}
	var rejected *RejectedError
	if errors.As(err, &rejected) {
		return rejected.Msg
	}
	var notFound *NotFoundError
	if errors.As(err, &notFound) {
		if notFound.Msg != "" {
			return notFound.Msg
		}
		return notFound.Error()
	}
	var network *NetworkError
	if errors.As(err, &network) {
		return network.Msg
	}
	return ""
}
