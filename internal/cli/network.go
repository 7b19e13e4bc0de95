package cli

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/neurograph/internal/graph"
	"github.com/roach88/neurograph/internal/network"
	"github.com/roach88/neurograph/internal/schema"
)

// loadNetwork reads a network file, checking it against the schema
// before the network model sees it.
func loadNetwork(path string) (*network.Network, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := schema.ValidateNetwork(path, data); err != nil {
		return nil, err
	}
	return network.Read(bytes.NewReader(data))
}

// failLoad maps a loadNetwork error to an exit error.
func failLoad(f *OutputFormatter, path string, err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return f.Fail(ExitCommandError, ErrCodeNotFound, fmt.Sprintf("network file not found: %s", path), nil)
	}
	return f.Fail(ExitFailure, ErrCodeInvalid, fmt.Sprintf("invalid network %s", path), err.Error())
}

// NetworkInfo summarizes a network.
type NetworkInfo struct {
	Nodes            int      `json:"nodes"`
	Edges            int      `json:"edges"`
	Inputs           int      `json:"inputs"`
	Outputs          int      `json:"outputs"`
	Hidden           int      `json:"hidden"`
	Cycles           []string `json:"cycles,omitempty"`
	Processor        string   `json:"processor,omitempty"`
	OrderFingerprint string   `json:"order_fingerprint"`
}

// NewInfoCommand creates the info command.
func NewInfoCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "info <network.json>",
		Short: "Summarize a network",
		Long: `Print node, edge, and channel counts, every cycle, the processor the
network names, and the fingerprint of its sorted node order.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInfo(rootOpts, args[0], cmd)
		},
	}
}

func runInfo(opts *RootOptions, path string, cmd *cobra.Command) error {
	f := opts.formatter(cmd)
	net, err := loadNetwork(path)
	if err != nil {
		return failLoad(f, path, err)
	}

	info := NetworkInfo{
		Nodes:            net.NumNodes(),
		Edges:            net.NumEdges(),
		Inputs:           net.NumInputs(),
		Outputs:          net.NumOutputs(),
		OrderFingerprint: graph.Sort(net).Fingerprint(),
	}
	for _, nd := range net.Nodes() {
		if nd.IsHidden() {
			info.Hidden++
		}
	}
	for _, c := range graph.Cycles(net) {
		info.Cycles = append(info.Cycles, c.Message)
	}
	if name, _, err := net.ProcessorSpec(); err == nil {
		info.Processor = name
	}

	return f.Success(info, func(w io.Writer) {
		fmt.Fprintf(w, "Nodes:     %d\n", info.Nodes)
		fmt.Fprintf(w, "Edges:     %d\n", info.Edges)
		fmt.Fprintf(w, "Inputs:    %d\n", info.Inputs)
		fmt.Fprintf(w, "Outputs:   %d\n", info.Outputs)
		fmt.Fprintf(w, "Hidden:    %d\n", info.Hidden)
		if info.Processor != "" {
			fmt.Fprintf(w, "Processor: %s\n", info.Processor)
		}
		fmt.Fprintf(w, "Order:     %s\n", info.OrderFingerprint)
		for _, c := range info.Cycles {
			fmt.Fprintf(w, "  %s\n", c)
		}
	})
}

// PruneOptions holds flags for the prune command.
type PruneOptions struct {
	*RootOptions
	Output string
}

// PruneResult is the JSON payload of the prune command.
type PruneResult struct {
	RemovedNodes []uint32 `json:"removed_nodes"`
	RemovedEdges int      `json:"removed_edges"`
	Output       string   `json:"output,omitempty"`
}

// NewPruneCommand creates the prune command.
func NewPruneCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &PruneOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "prune <network.json>",
		Short: "Remove nodes and edges off every input to output path",
		Long: `Prune a network and write the result.

Without --output the pruned network is written to stdout in text mode.

Examples:
  neurograph prune net.json -o pruned.json
  neurograph prune net.json --format json -o pruned.json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPrune(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "write the pruned network to this file")

	return cmd
}

func runPrune(opts *PruneOptions, path string, cmd *cobra.Command) error {
	f := opts.formatter(cmd)
	net, err := loadNetwork(path)
	if err != nil {
		return failLoad(f, path, err)
	}

	report := graph.Prune(net)
	f.VerboseLog("Pruned %d node(s) and %d edge(s) from %s", len(report.RemovedNodes), report.RemovedEdges, path)

	result := PruneResult{RemovedNodes: report.RemovedNodes, RemovedEdges: report.RemovedEdges, Output: opts.Output}
	if result.RemovedNodes == nil {
		result.RemovedNodes = []uint32{}
	}

	if opts.Output != "" {
		if err := writeNetwork(opts.Output, net); err != nil {
			return WrapExitError(ExitCommandError, "failed to write network", err)
		}
		return f.Success(result, func(w io.Writer) {
			fmt.Fprintf(w, "Removed %d node(s) and %d edge(s); wrote %s\n", len(result.RemovedNodes), result.RemovedEdges, opts.Output)
		})
	}
	if f.JSON() {
		return f.Success(struct {
			PruneResult
			Network any `json:"network"`
		}{result, net.ToDoc()}, nil)
	}
	return net.Write(f.Writer, true)
}

func writeNetwork(path string, net *network.Network) error {
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := net.Write(out, true); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// SortResult is the JSON payload of the sort command.
type SortResult struct {
	Order       []uint32 `json:"order"`
	Fingerprint string   `json:"fingerprint"`
}

// NewSortCommand creates the sort command.
func NewSortCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "sort <network.json>",
		Short: "Print the deterministic node order",
		Long: `Print the order processors load neurons in: every node after its
predecessors outside a cycle, ties broken by ascending id.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := rootOpts.formatter(cmd)
			net, err := loadNetwork(args[0])
			if err != nil {
				return failLoad(f, args[0], err)
			}
			order := graph.Sort(net)
			result := SortResult{Order: order.IDs(), Fingerprint: order.Fingerprint()}
			return f.Success(result, func(w io.Writer) {
				ids := make([]string, len(result.Order))
				for i, id := range result.Order {
					ids[i] = fmt.Sprint(id)
				}
				fmt.Fprintln(w, strings.Join(ids, " "))
			})
		},
	}
}

// ValidateOptions holds flags for the validate command.
type ValidateOptions struct {
	*RootOptions
	Pack bool
}

// FileValidation is the validation outcome of one file.
type FileValidation struct {
	File  string `json:"file"`
	Valid bool   `json:"valid"`
	Error string `json:"error,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ValidateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "validate <file>...",
		Short: "Check network or property pack files",
		Long: `Check each file against the embedded schema and, for networks, import
it into the network model, which catches problems the schema cannot see
(dangling edges, duplicate ids, value counts that disagree with the pack).

Exit codes:
  0 - All files are valid
  1 - One or more files are invalid
  2 - Command error (file not found)`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(opts, args, cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Pack, "pack", false, "files are property packs, not networks")

	return cmd
}

func runValidate(opts *ValidateOptions, files []string, cmd *cobra.Command) error {
	f := opts.formatter(cmd)

	results := make([]FileValidation, 0, len(files))
	invalid := 0
	for _, path := range files {
		var err error
		if opts.Pack {
			_, err = loadPack(path)
		} else {
			_, err = loadNetwork(path)
		}
		if errors.Is(err, fs.ErrNotExist) {
			return f.Fail(ExitCommandError, ErrCodeNotFound, fmt.Sprintf("file not found: %s", path), nil)
		}
		r := FileValidation{File: path, Valid: err == nil}
		if err != nil {
			r.Error = err.Error()
			invalid++
		}
		f.VerboseLog("Validated %s: %v", path, r.Valid)
		results = append(results, r)
	}

	if invalid > 0 {
		if !f.JSON() {
			printValidations(f.Writer, results)
		}
		return f.Fail(ExitFailure, ErrCodeInvalid, fmt.Sprintf("%d of %d file(s) invalid", invalid, len(files)), results)
	}
	return f.Success(results, func(w io.Writer) {
		printValidations(w, results)
	})
}

func printValidations(w io.Writer, results []FileValidation) {
	for _, r := range results {
		if r.Valid {
			fmt.Fprintf(w, "✓ %s\n", r.File)
			continue
		}
		fmt.Fprintf(w, "✗ %s\n  %s\n", r.File, r.Error)
	}
}
