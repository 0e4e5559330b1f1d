package llm

import (
	"errors"
	"fmt"
	"strings"
)

// APIError wraps a failure from the language model API. RateLimited marks
// quota and 429 rejections so callers can print a friendlier hint instead of
// a raw transport error.
type APIError struct {
	RateLimited bool
	Err         error
}

func (e *APIError) Error() string {
	if e.RateLimited {
		return fmt.Sprintf("llm: rate limited: %v", e.Err)
	}
	return fmt.Sprintf("llm: %v", e.Err)
}

func (e *APIError) Unwrap() error { return e.Err }

func wrapAPIError(err error) *APIError {
	msg := strings.ToLower(err.Error())
	limited := strings.Contains(msg, "429") ||
		strings.Contains(msg, "resource_exhausted") ||
		strings.Contains(msg, "resource exhausted") ||
		strings.Contains(msg, "rate limit") ||
		strings.Contains(msg, "quota")
	return &APIError{RateLimited: limited, Err: err}
}

// IsRateLimited reports whether err is a quota or rate limit rejection from
// the model API.
func IsRateLimited(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.RateLimited
}
