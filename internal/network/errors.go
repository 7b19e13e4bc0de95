package network

import (
	"errors"
	"fmt"

	"github.com/roach88/neurograph/internal/property"
)

// ErrorCode categorizes network errors.
type ErrorCode string

const (
	// ErrCodeDuplicateID indicates a node id already in use.
	ErrCodeDuplicateID ErrorCode = "DUPLICATE_ID"

	// ErrCodeUnknownNode indicates a node id that does not exist.
	ErrCodeUnknownNode ErrorCode = "UNKNOWN_NODE"

	// ErrCodeNodeIsIO indicates a refused removal of an input or output node.
	ErrCodeNodeIsIO ErrorCode = "NODE_IS_IO"

	// ErrCodeAlreadyIO indicates a node already attached to the requested channel list.
	ErrCodeAlreadyIO ErrorCode = "ALREADY_IO"

	// ErrCodeDuplicateEdge indicates an edge between the pair already exists.
	ErrCodeDuplicateEdge ErrorCode = "DUPLICATE_EDGE"

	// ErrCodeUnknownEdge indicates an edge that does not exist.
	ErrCodeUnknownEdge ErrorCode = "UNKNOWN_EDGE"

	// ErrCodeInvalidName indicates a display name that cannot be registered.
	ErrCodeInvalidName ErrorCode = "INVALID_NAME"

	// ErrCodeDuplicateName indicates a display name bound to a different node.
	ErrCodeDuplicateName ErrorCode = "DUPLICATE_NAME"

	// ErrCodeUnknownName indicates a lookup token that resolves to no node.
	ErrCodeUnknownName ErrorCode = "UNKNOWN_NAME"

	// ErrCodeUnknownKey indicates an associated data key that is not set.
	ErrCodeUnknownKey ErrorCode = "UNKNOWN_KEY"

	// ErrCodeMalformed indicates exchange data that cannot be imported.
	ErrCodeMalformed ErrorCode = "MALFORMED"
)

// Error is returned by network operations.
type Error struct {
	Code    ErrorCode
	Message string
}

// Sentinel errors for errors.Is matching by code.
var (
	ErrDuplicateID   = &Error{Code: ErrCodeDuplicateID}
	ErrUnknownNode   = &Error{Code: ErrCodeUnknownNode}
	ErrNodeIsIO      = &Error{Code: ErrCodeNodeIsIO}
	ErrAlreadyIO     = &Error{Code: ErrCodeAlreadyIO}
	ErrDuplicateEdge = &Error{Code: ErrCodeDuplicateEdge}
	ErrUnknownEdge   = &Error{Code: ErrCodeUnknownEdge}
	ErrInvalidName   = &Error{Code: ErrCodeInvalidName}
	ErrDuplicateName = &Error{Code: ErrCodeDuplicateName}
	ErrUnknownName   = &Error{Code: ErrCodeUnknownName}
	ErrUnknownKey    = &Error{Code: ErrCodeUnknownKey}
	ErrMalformed     = &Error{Code: ErrCodeMalformed}
)

// ErrUnknownProperty is returned when a property name is not in the pack.
var ErrUnknownProperty = property.ErrUnknownProperty

// Error implements the error interface.
func (e *Error) Error() string {
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

// CodeOf returns the code of the first *Error in err's chain, or "".
func CodeOf(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	if property.IsUnknownProperty(err) {
		return ErrorCode(property.ErrCodeUnknownProperty)
	}
	return ""
}

func newError(code ErrorCode, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

func unknownNode(id uint32) *Error {
	return newError(ErrCodeUnknownNode, "node %d does not exist", id)
}

func unknownEdge(from, to uint32) *Error {
	return newError(ErrCodeUnknownEdge, "edge %d -> %d does not exist", from, to)
}
