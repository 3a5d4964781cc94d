package rewriting

import "fmt"

// APICallError represents an error from the LLM API.
type APICallError struct {
	Message string
	Cause   error
}

func (e *APICallError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("API call failed: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("API call failed: %s", e.Message)
}

func (e *APICallError) Unwrap() error {
	return e.Cause
}

// RejectionError reports an LLM rewrite discarded because its output
// violated the response contract. Rejection is recoverable: the caller
// runs the deterministic fallback.
type RejectionError struct {
	Reason string
	Detail int
	Want   int
	Cause  error
}

func (e *RejectionError) Error() string {
	if e.Want != 0 {
		return fmt.Sprintf("rewrite rejected: %s (got %d, want %d)", e.Reason, e.Detail, e.Want)
	}
	if e.Cause != nil {
		return fmt.Sprintf("rewrite rejected: %s: %v", e.Reason, e.Cause)
	}
	return fmt.Sprintf("rewrite rejected: %s", e.Reason)
}

func (e *RejectionError) Unwrap() error {
	return e.Cause
}
