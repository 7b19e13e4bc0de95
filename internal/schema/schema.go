package schema

import (
	_ "embed"
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cuejson "cuelang.org/go/encoding/json"
)

//go:embed schema.cue
var schemaSource string

// Definitions in the embedded schema.
const (
	DefNetwork      = "#Network"
	DefPropertyPack = "#PropertyPack"
)

// Source returns the embedded CUE schema text.
func Source() string {
	return schemaSource
}

// definition compiles the embedded schema in ctx and returns def.
// CUE values are tied to their context, so every check compiles afresh.
func definition(ctx *cue.Context, def string) (cue.Value, error) {
	v := ctx.CompileString(schemaSource, cue.Filename("schema.cue"))
	if err := v.Err(); err != nil {
		return cue.Value{}, fmt.Errorf("embedded schema: %w", err)
	}
	d := v.LookupPath(cue.ParsePath(def))
	if !d.Exists() {
		return cue.Value{}, fmt.Errorf("embedded schema: no definition %s", def)
	}
	return d, nil
}

// ValidateNetwork checks network JSON against #Network. filename labels
// error positions.
func ValidateNetwork(filename string, data []byte) error {
	return validateJSON(DefNetwork, filename, data)
}

// ValidatePack checks property pack JSON against #PropertyPack.
func ValidatePack(filename string, data []byte) error {
	return validateJSON(DefPropertyPack, filename, data)
}

func validateJSON(def, filename string, data []byte) error {
	expr, err := cuejson.Extract(filename, data)
	if err != nil {
		return formatCUEError("json", err)
	}
	ctx := cuecontext.New()
	schema, err := definition(ctx, def)
	if err != nil {
		return err
	}
	doc := ctx.BuildExpr(expr, cue.Filename(filename))
	if err := doc.Err(); err != nil {
		return formatCUEError("json", err)
	}
	return check(schema, doc, def)
}

// check unifies v with schema and requires a concrete, error-free result.
func check(schema, v cue.Value, field string) error {
	unified := schema.Unify(v)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return formatCUEError(field, err)
	}
	return nil
}
