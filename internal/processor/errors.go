package processor

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorCode categorizes processor errors.
type ErrorCode string

const (
	// ErrCodeSchemaMismatch indicates the network pack differs from the
	// processor's declared schema.
	ErrCodeSchemaMismatch ErrorCode = "SCHEMA_MISMATCH"

	// ErrCodeNotBound indicates an operation that needs a bound network.
	ErrCodeNotBound ErrorCode = "NOT_BOUND"

	// ErrCodeStaleOrder indicates an order computed from a different
	// network state.
	ErrCodeStaleOrder ErrorCode = "STALE_ORDER"

	// ErrCodeSpikeRange indicates a normalized spike value outside [-1, 1].
	ErrCodeSpikeRange ErrorCode = "SPIKE_RANGE"

	// ErrCodeNegativeTime indicates a spike or run with negative time.
	ErrCodeNegativeTime ErrorCode = "NEGATIVE_TIME"

	// ErrCodeUnknownChannel indicates an input or output channel that does
	// not exist or is vacant.
	ErrCodeUnknownChannel ErrorCode = "UNKNOWN_CHANNEL"

	// ErrCodeUnknownNeuron indicates a node id that is not bound.
	ErrCodeUnknownNeuron ErrorCode = "UNKNOWN_NEURON"

	// ErrCodeUnknownProcessor indicates a name with no registered factory.
	ErrCodeUnknownProcessor ErrorCode = "UNKNOWN_PROCESSOR"

	// ErrCodeDuplicateProcessor indicates a name registered twice.
	ErrCodeDuplicateProcessor ErrorCode = "DUPLICATE_PROCESSOR"

	// ErrCodeBadParams indicates construction parameters that fail validation.
	ErrCodeBadParams ErrorCode = "BAD_PARAMS"
)

// Error is returned by processors and the registry.
type Error struct {
	Code    ErrorCode
	Message string

	// Details lists individual problems, e.g. each schema difference.
	Details []string
}

// Sentinel errors for errors.Is matching by code.
var (
	ErrSchemaMismatch     = &Error{Code: ErrCodeSchemaMismatch}
	ErrNotBound           = &Error{Code: ErrCodeNotBound}
	ErrStaleOrder         = &Error{Code: ErrCodeStaleOrder}
	ErrSpikeRange         = &Error{Code: ErrCodeSpikeRange}
	ErrNegativeTime       = &Error{Code: ErrCodeNegativeTime}
	ErrUnknownChannel     = &Error{Code: ErrCodeUnknownChannel}
	ErrUnknownNeuron      = &Error{Code: ErrCodeUnknownNeuron}
	ErrUnknownProcessor   = &Error{Code: ErrCodeUnknownProcessor}
	ErrDuplicateProcessor = &Error{Code: ErrCodeDuplicateProcessor}
	ErrBadParams          = &Error{Code: ErrCodeBadParams}
)

// Error implements the error interface.
func (e *Error) Error() string {
	if len(e.Details) > 0 {
		return fmt.Sprintf("%s: %s: %s", e.Code, e.Message, strings.Join(e.Details, "; "))
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Is reports whether target is an *Error with the same code.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// NewError builds an *Error with a formatted message.
func NewError(code ErrorCode, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// CodeOf returns the code of the first *Error in err's chain, or "".
func CodeOf(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}
