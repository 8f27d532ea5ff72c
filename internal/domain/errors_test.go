package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestError_IsMatchesByKind(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		target error
		want   bool
	}{
		{"auth matches auth", NewAuthenticationError("bad creds"), ErrAuthentication, true},
		{"not found matches not found", NewNotFoundError("Issue not found"), ErrNotFound, true},
		{"api does not match not found", NewAPIError("boom", 500), ErrNotFound, false},
		{"config matches config", NewConfigurationError("missing %s", "base_url"), ErrConfiguration, true},
		{"wrapped api matches api", fmt.Errorf("search failed: %w", NewAPIError("boom", 500)), ErrAPI, true},
		{"plain error does not match", errors.New("x"), ErrAPI, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := errors.Is(tt.err, tt.target); got != tt.want {
				t.Errorf("errors.Is(%v, %v) = %v, want %v", tt.err, tt.target, got, tt.want)
			}
		})
	}
}

func TestNewAPIError_EmptyMessageUsesStatus(t *testing.T) {
	err := NewAPIError("", 502)
	if err.Message != "502" {
		t.Errorf("Message = %q, want %q", err.Message, "502")
	}
	if err.StatusCode != 502 {
		t.Errorf("StatusCode = %d, want 502", err.StatusCode)
	}
}

func TestError_ErrorString(t *testing.T) {
	cause := errors.New("dial tcp: refused")
	err := &Error{Kind: KindAPI, Message: "request failed", Err: cause}
	if got := err.Error(); got != "request failed: dial tcp: refused" {
		t.Errorf("Error() = %q", got)
	}
	if !errors.Is(err, cause) {
		t.Error("expected cause to be reachable through Unwrap")
	}

	bare := &Error{Kind: KindNotFound}
	if got := bare.Error(); got != "not found error" {
		t.Errorf("Error() = %q, want %q", got, "not found error")
	}
}

func TestUser_Equal(t *testing.T) {
	email := "a@example.com"
	a := User{AccountID: "abc", DisplayName: "Alice", Email: &email}
	b := User{AccountID: "abc", DisplayName: "Alice Renamed"}
	c := User{AccountID: "xyz", DisplayName: "Alice"}

	if !a.Equal(b) {
		t.Error("users with the same account ID should be equal")
	}
	if a.Equal(c) {
		t.Error("users with different account IDs should not be equal")
	}
}
