package switchbot

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for auth and discovery flows.
var (
	// ErrNotAuthenticated is returned when an authorized call is attempted
	// before a successful Authenticate.
	ErrNotAuthenticated = errors.New("session is not authenticated")

	// ErrDeviceNotFound is returned when no device in the listing matches
	// the target model substring.
	ErrDeviceNotFound = errors.New("no matching device found")
)

// TransportError wraps a network-level failure (connection refused, timeout).
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string { return fmt.Sprintf("transport: %v", e.Err) }
func (e *TransportError) Unwrap() error { return e.Err }

// StatusError is a non-2xx HTTP response from the vendor API.
type StatusError struct {
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("switchbot api error %d: %s", e.Status, strings.TrimSpace(e.Body))
}

// AuthError means the login was rejected or its response was malformed.
type AuthError struct {
	Reason string
	Err    error
}

func (e *AuthError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("auth failed: %s: %v", e.Reason, e.Err)
	}
	return "auth failed: " + e.Reason
}

func (e *AuthError) Unwrap() error { return e.Err }

// CommandError means the clean-command invoke failed (transport or non-2xx).
type CommandError struct {
	Err error
}

func (e *CommandError) Error() string { return fmt.Sprintf("clean command failed: %v", e.Err) }
func (e *CommandError) Unwrap() error { return e.Err }

// InvalidParameterError rejects an out-of-range or non-numeric clean parameter
// before any network call is made.
type InvalidParameterError struct {
	Name   string
	Value  any
	Reason string
}

func (e *InvalidParameterError) Error() string {
	return fmt.Sprintf("invalid parameter %s=%v: %s", e.Name, e.Value, e.Reason)
}
