package property

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes property errors.
type ErrorCode string

const (
	// ErrCodeUnknownProperty indicates a name that is not in the pack.
	ErrCodeUnknownProperty ErrorCode = "UNKNOWN_PROPERTY"

	// ErrCodeDuplicateProperty indicates a name already defined in the category.
	ErrCodeDuplicateProperty ErrorCode = "DUPLICATE_PROPERTY"

	// ErrCodeInvalidProperty indicates a malformed definition (range, type, name).
	ErrCodeInvalidProperty ErrorCode = "INVALID_PROPERTY"
)

// Error is returned by pack operations.
type Error struct {
	Code     ErrorCode
	Category Category
	Name     string
	Message  string
}

// Sentinel errors for errors.Is matching by code.
var (
	ErrUnknownProperty   = &Error{Code: ErrCodeUnknownProperty}
	ErrDuplicateProperty = &Error{Code: ErrCodeDuplicateProperty}
	ErrInvalidProperty   = &Error{Code: ErrCodeInvalidProperty}
)

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("%s: %s property %q: %s", e.Code, e.Category, e.Name, e.Message)
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

// IsUnknownProperty returns true if err is an unknown-property error.
func IsUnknownProperty(err error) bool {
	return errors.Is(err, ErrUnknownProperty)
}

func unknownProperty(cat Category, name string) *Error {
	return &Error{
		Code:     ErrCodeUnknownProperty,
		Category: cat,
		Name:     name,
		Message:  "not defined in the property pack",
	}
}
