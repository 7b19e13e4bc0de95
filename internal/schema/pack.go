package schema

import (
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/load"

	"github.com/roach88/neurograph/internal/ir"
	"github.com/roach88/neurograph/internal/property"
)

// PackField is the top-level field a CUE pack file defines.
const PackField = "pack"

// ParsePack compiles CUE source holding a "pack" field and returns the
// property pack it describes.
func ParsePack(filename string, src []byte) (*property.Pack, error) {
	ctx := cuecontext.New()
	v := ctx.CompileBytes(src, cue.Filename(filename))
	if err := v.Err(); err != nil {
		return nil, formatCUEError("cue", err)
	}
	return compilePack(ctx, v)
}

// LoadPack loads the CUE package in dir and returns the property pack
// under its "pack" field.
func LoadPack(dir string) (*property.Pack, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("load pack: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("load pack: not a directory: %s", dir)
	}

	instances := load.Instances([]string{"."}, &load.Config{Dir: dir})
	if len(instances) == 0 {
		return nil, fmt.Errorf("load pack: no CUE instances in %s", dir)
	}
	inst := instances[0]
	if inst.Err != nil {
		return nil, formatCUEError("load", inst.Err)
	}

	ctx := cuecontext.New()
	v := ctx.BuildInstance(inst)
	if err := v.Err(); err != nil {
		return nil, formatCUEError("build", err)
	}
	return compilePack(ctx, v)
}

func compilePack(ctx *cue.Context, root cue.Value) (*property.Pack, error) {
	v := root.LookupPath(cue.ParsePath(PackField))
	if !v.Exists() {
		return nil, &Error{Field: PackField, Message: "pack is required", Pos: root.Pos()}
	}
	schema, err := definition(ctx, DefPropertyPack)
	if err != nil {
		return nil, err
	}
	unified := schema.Unify(v)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return nil, formatCUEError(PackField, err)
	}

	var doc ir.PropertyPackDoc
	if err := unified.Decode(&doc); err != nil {
		return nil, formatCUEError(PackField, err)
	}
	pack, err := property.FromDoc(doc)
	if err != nil {
		return nil, fmt.Errorf("pack: %w", err)
	}
	return pack, nil
}
