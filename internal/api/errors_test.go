package api

import (
	"errors"
	"fmt"
	"testing"
)

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			"conflict surfaces verbatim",
			&ConflictError{Message: "Category is in use: delete or reassign its contractors first"},
			"Category is in use: delete or reassign its contractors first",
		},
		{
			"not found names the entity",
			&NotFoundError{ID: "abc"},
			"entity abc not found",
		},
		{
			"server message surfaces verbatim",
			&ServerError{Status: 422, Message: "name must not be empty"},
			"name must not be empty",
		},
		{
			"server error without message falls back",
			&ServerError{Status: 500},
			"The operation failed. Please try again.",
		},
		{
			"network error is generic",
			&NetworkError{Op: "GET /api/events", Err: errors.New("connection refused")},
			"Connection failed. Check your network and try again.",
		},
		{
			"wrapped errors still match",
			fmt.Errorf("listing events: %w", &NetworkError{Op: "GET", Err: errors.New("timeout")}),
			"Connection failed. Check your network and try again.",
		},
		{
			"unknown error falls back",
			errors.New("whatever"),
			"The operation failed. Please try again.",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.err); got != tt.want {
				t.Fatalf("UserMessage() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNetworkErrorUnwrap(t *testing.T) {
	cause := errors.New("dial tcp: refused")
	err := &NetworkError{Op: "GET /api/tasks", Err: cause}
	if !errors.Is(err, cause) {
		t.Fatalf("NetworkError should unwrap to its cause")
	}
}
