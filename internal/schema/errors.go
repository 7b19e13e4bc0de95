package schema

import (
	"fmt"

	cueerrors "cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
)

// Error is a schema violation with its source position, when CUE knows it.
// Problems holds every violation found; Message is the first.
type Error struct {
	Field    string
	Message  string
	Pos      token.Pos
	Problems []string
}

func (e *Error) Error() string {
	extra := ""
	if n := len(e.Problems); n > 1 {
		extra = fmt.Sprintf(" (and %d more)", n-1)
	}
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s%s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message, extra)
	}
	return fmt.Sprintf("%s: %s%s", e.Field, e.Message, extra)
}

// formatCUEError converts a CUE error into an *Error carrying the first
// positioned problem and the text of all of them.
func formatCUEError(field string, err error) error {
	if err == nil {
		return nil
	}

	// CUE errors may contain multiple errors
	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return &Error{Field: field, Message: err.Error(), Problems: []string{err.Error()}}
	}

	out := &Error{Field: field, Message: errs[0].Error()}
	for _, e := range errs {
		out.Problems = append(out.Problems, e.Error())
	}
	if positions := cueerrors.Positions(errs[0]); len(positions) > 0 {
		out.Pos = positions[0]
	}
	return out
}
