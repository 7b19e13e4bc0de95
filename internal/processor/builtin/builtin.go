// Package builtin assembles the registry of processors shipped with
// neurograph.
package builtin

import (
	"fmt"

	"github.com/roach88/neurograph/internal/processor"
	"github.com/roach88/neurograph/internal/processor/risp"
)

// Registry returns a registry holding every built-in processor.
func Registry() *processor.Registry {
	reg := processor.NewRegistry()
	for _, register := range []func(*processor.Registry) error{
		risp.Register,
	} {
		if err := register(reg); err != nil {
			// Built-in names are distinct constants.
			panic(fmt.Sprintf("builtin: %v", err))
		}
	}
	return reg
}
