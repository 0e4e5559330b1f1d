package odoo

import (
	"errors"
	"fmt"
)

// ConnectionError means the server could not be reached at the network level.
// It is the only error kind the gateway treats as transient.
type ConnectionError struct {
	URL string
	Err error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("odoo: cannot reach %s: %v", e.URL, e.Err)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// AuthError means the server rejected the credentials or denied access to the
// requested records. Never retried.
type AuthError struct {
	Database string
	Username string
	Err      error
}

func (e *AuthError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("odoo: authentication failed for %s@%s: %v", e.Username, e.Database, e.Err)
	}
	return fmt.Sprintf("odoo: authentication failed for %s@%s", e.Username, e.Database)
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// APIError means the server faulted on the request itself: unknown model,
// malformed domain, unsupported module. Never retried.
type APIError struct {
	Op  string
	Err error
}

func (e *APIError) Error() string {
	return fmt.Sprintf("odoo: %s failed: %v", e.Op, e.Err)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

func IsConnectionError(err error) bool {
	var ce *ConnectionError
	return errors.As(err, &ce)
}

func IsAuthError(err error) bool {
	var ae *AuthError
	return errors.As(err, &ae)
}

func IsAPIError(err error) bool {
	var ape *APIError
	return errors.As(err, &ape)
}
