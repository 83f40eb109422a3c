package contracts

import (
	"errors"
	"fmt"
)

// ErrInsufficientHistory marks a computation that needs more bars than the
// series holds. Other indicators of the same request proceed unaffected.
var ErrInsufficientHistory = errors.New("insufficient history")

// DataUnavailableError wraps a data-source failure for a single symbol.
// Batch operations translate it into "exclude this symbol", never into a
// failure of the whole run.
type DataUnavailableError struct {
	Symbol string
	Err    error
}

func (e *DataUnavailableError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("data unavailable for %s", e.Symbol)
	}
	return fmt.Sprintf("data unavailable for %s: %v", e.Symbol, e.Err)
}

func (e *DataUnavailableError) Unwrap() error { return e.Err }

// IsDataUnavailable reports whether err is a per-symbol data failure.
func IsDataUnavailable(err error) bool {
	var du *DataUnavailableError
	return errors.As(err, &du)
}

// InvalidConditionError marks a malformed alert condition. It is raised at
// creation time so malformed conditions never reach evaluation.
type InvalidConditionError struct {
	Reason string
}

func (e *InvalidConditionError) Error() string {
	return "invalid alert condition: " + e.Reason
}

// IsInvalidCondition reports whether err is a condition validation failure.
func IsInvalidCondition(err error) bool {
	var ic *InvalidConditionError
	return errors.As(err, &ic)
}
