package types

import "fmt"

// OracleError reports a failed prioritization call. The caller is
// expected to leave task state untouched when it sees one; the error is
// surfaced once, never retried.
type OracleError struct {
	Provider string
	Message  string
	Err      error
}

func (e *OracleError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("prioritization oracle (%s): %s: %v", e.Provider, e.Message, e.Err)
	}
	return fmt.Sprintf("prioritization oracle (%s): %s", e.Provider, e.Message)
}

func (e *OracleError) Unwrap() error { return e.Err }

// NewOracleError wraps a provider failure with context.
func NewOracleError(provider, message string, err error) *OracleError {
	return &OracleError{Provider: provider, Message: message, Err: err}
}
