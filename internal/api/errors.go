package api

import (
	"errors"
	"fmt"
)

// NetworkError wraps a transport failure: the request never produced a
// backend response. The UI shows a generic connectivity message and
// lets the user retry manually.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error on %s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// ServerError is a request that reached the backend and was rejected.
// Message carries the backend's human-readable text (the "message" or
// "detail" field) and is surfaced to the user verbatim when present.
type ServerError struct {
	Status  int
	Message string
}

func (e *ServerError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("server error (%d): %s", e.Status, e.Message)
	}
	return fmt.Sprintf("server error (%d)", e.Status)
}

// ConflictError is a referential-integrity rejection: the target is
// still referenced by other entities and cannot be deleted.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "conflict: entity is still in use"
}

// NotFoundError means the target entity vanished between list and act.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("entity %s not found", e.ID)
	}
	return "entity not found"
}

// UserMessage extracts the text to surface for err: the backend message
// verbatim when one exists, otherwise a generic failure line.
func UserMessage(err error) string {
	var srv *ServerError
	var conflict *ConflictError
	var notFound *NotFoundError
	var network *NetworkError

	switch {
	case errors.As(err, &conflict):
		return conflict.Error()
	case errors.As(err, &notFound):
		return notFound.Error()
	case errors.As(err, &srv) && srv.Message != "":
		return srv.Message
	case errors.As(err, &network):
		return "Connection failed. Check your network and try again."
	}
	return "The operation failed. Please try again."
}
