package driver

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes driver errors.
type ErrorCode string

const (
	// ErrCodeNotBound indicates an operation that needs a bound network.
	ErrCodeNotBound ErrorCode = "NOT_BOUND"

	// ErrCodeNotInput indicates a spike aimed at a node with no input channel.
	ErrCodeNotInput ErrorCode = "NOT_INPUT"

	// ErrCodeNotOutput indicates an output request for a node with no output channel.
	ErrCodeNotOutput ErrorCode = "NOT_OUTPUT"

	// ErrCodeBadRaster indicates a spike raster string with characters other than 0 and 1.
	ErrCodeBadRaster ErrorCode = "BAD_RASTER"

	// ErrCodeBindFailed indicates a network the processor refused.
	ErrCodeBindFailed ErrorCode = "BIND_FAILED"

	// ErrCodeReplay indicates a recorded session that cannot be re-executed.
	ErrCodeReplay ErrorCode = "REPLAY"
)

// Error represents a driver-level failure. Processor and network errors
// are wrapped so errors.Is still matches their sentinels.
type Error struct {
	Code    ErrorCode
	Message string
	Err     error
}

// Sentinel errors for errors.Is matching by code.
var (
	ErrNotBound   = &Error{Code: ErrCodeNotBound}
	ErrNotInput   = &Error{Code: ErrCodeNotInput}
	ErrNotOutput  = &Error{Code: ErrCodeNotOutput}
	ErrBadRaster  = &Error{Code: ErrCodeBadRaster}
	ErrBindFailed = &Error{Code: ErrCodeBindFailed}
	ErrReplay     = &Error{Code: ErrCodeReplay}
)

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the wrapped cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error with the same code.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

func newError(code ErrorCode, err error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Err: err}
}

func notBound(op string) *Error {
	return newError(ErrCodeNotBound, nil, "%s: no network bound", op)
}
