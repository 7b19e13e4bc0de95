package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/roach88/neurograph/internal/ir"
	"github.com/roach88/neurograph/internal/property"
	"github.com/roach88/neurograph/internal/schema"
)

// loadPack reads a property pack from a JSON file, a CUE file, or a
// directory holding a CUE package.
func loadPack(path string) (*property.Pack, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return schema.LoadPack(path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if filepath.Ext(path) == ".cue" {
		return schema.ParsePack(path, data)
	}
	if err := schema.ValidatePack(path, data); err != nil {
		return nil, err
	}
	var doc ir.PropertyPackDoc
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode property pack: %w", err)
	}
	return property.FromDoc(doc)
}

// NewPackCommand creates the pack command.
func NewPackCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "pack <file.cue|file.json|dir>",
		Short: "Compile a property pack to JSON",
		Long: `Load a property pack written in CUE (a file, or a directory holding a
CUE package with a "pack" field) or JSON, check it, and print the JSON
form networks carry in their "properties" member.

Examples:
  neurograph pack ./packs/risp
  neurograph pack risp.cue > risp.json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := rootOpts.formatter(cmd)
			pack, err := loadPack(args[0])
			if err != nil {
				if os.IsNotExist(err) {
					return f.Fail(ExitCommandError, ErrCodeNotFound, fmt.Sprintf("pack not found: %s", args[0]), nil)
				}
				return f.Fail(ExitFailure, ErrCodeInvalid, fmt.Sprintf("invalid pack %s", args[0]), err.Error())
			}
			doc := pack.Doc()
			if f.JSON() {
				return f.Success(doc, nil)
			}
			enc := json.NewEncoder(f.Writer)
			enc.SetIndent("", "  ")
			return enc.Encode(doc)
		},
	}
}
