package shell

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/roach88/neurograph/internal/driver"
	"github.com/roach88/neurograph/internal/logging"
	"github.com/roach88/neurograph/internal/processor"
)

// Command is one shell command.
type Command struct {
	// Names lists the command token first and its aliases after, upper case.
	Names []string

	// Args describes the arguments for help and usage lines.
	Args string

	Help string

	Run func(ctx context.Context, args []string) error
}

type group struct {
	title    string
	commands []*Command
}

// Shell reads command lines and dispatches them to registered commands.
//
// Not safe for concurrent use.
type Shell struct {
	in     *bufio.Reader
	out    io.Writer
	prompt string
	intro  string
	logger *slog.Logger
	groups []group
	index  map[string]*Command
}

// RecorderFactory starts a session log for a newly made processor.
type RecorderFactory func(ctx context.Context, proc processor.Processor) (driver.Recorder, error)

// Option configures a tool.
type Option func(*options)

type options struct {
	prompt     string
	logger     *slog.Logger
	seed       *uint64
	registry   *processor.Registry
	registerer *prometheus.Registry
	recorders  RecorderFactory
}

// WithPrompt prints prompt before reading each line.
func WithPrompt(prompt string) Option {
	return func(o *options) { o.prompt = prompt }
}

// WithLogger sets the logger for diagnostics. Defaults to discarding.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithSeed seeds the network tool's random source. Without it the seed is
// taken from the clock.
func WithSeed(seed uint64) Option {
	return func(o *options) { o.seed = &seed }
}

// WithRegistry sets the processors the processor tool can make.
func WithRegistry(reg *processor.Registry) Option {
	return func(o *options) { o.registry = reg }
}

// WithMetricsRegistry registers the driver metrics with reg, which the
// METRICS command reports from.
func WithMetricsRegistry(reg *prometheus.Registry) Option {
	return func(o *options) { o.registerer = reg }
}

// WithRecorderFactory records every processor session the tool drives.
func WithRecorderFactory(f RecorderFactory) Option {
	return func(o *options) { o.recorders = f }
}

func resolve(opts []Option) options {
	o := options{logger: logging.Discard()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func newShell(in io.Reader, out io.Writer, intro string, o options) *Shell {
	return &Shell{
		in:     bufio.NewReader(in),
		out:    out,
		prompt: o.prompt,
		intro:  intro,
		logger: o.logger,
		index:  make(map[string]*Command),
	}
}

// add registers commands under a help heading.
func (s *Shell) add(title string, cmds ...Command) {
	g := group{title: title}
	for i := range cmds {
		c := &cmds[i]
		for _, name := range c.Names {
			if _, dup := s.index[name]; dup {
				panic(fmt.Sprintf("shell: command %s registered twice", name))
			}
			s.index[name] = c
		}
		g.commands = append(g.commands, c)
	}
	s.groups = append(s.groups, g)
}

// Run reads and executes lines until end of input, Q, or ctx is done.
func (s *Shell) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if s.prompt != "" {
			fmt.Fprint(s.out, s.prompt)
		}
		line, err := s.readLine()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		if quit := s.Exec(ctx, line); quit {
			return nil
		}
	}
}

// Exec executes one command line and reports whether it asked to quit.
func (s *Shell) Exec(ctx context.Context, line string) bool {
	args := strings.Fields(line)
	if len(args) == 0 || strings.HasPrefix(args[0], "#") {
		return false
	}
	name := strings.ToUpper(args[0])
	switch name {
	case "Q":
		return true
	case "?":
		s.PrintHelp()
		return false
	}

	cmd, ok := s.index[name]
	if !ok {
		fmt.Fprintf(s.out, "unknown command %s, type ? for the command list\n", args[0])
		return false
	}
	if err := cmd.Run(ctx, args[1:]); err != nil {
		var u *usageError
		if errors.As(err, &u) {
			if u.msg != "" {
				fmt.Fprintln(s.out, u.msg)
			}
			fmt.Fprintf(s.out, "usage: %s\n", strings.TrimSpace(cmd.Names[0]+" "+cmd.Args))
		} else {
			fmt.Fprintln(s.out, err)
		}
		s.logger.Debug("command failed", "command", name, "error", err)
	}
	return false
}

// PrintHelp writes the command list.
func (s *Shell) PrintHelp() {
	fmt.Fprintln(s.out, s.intro)
	fmt.Fprintln(s.out, "Commands are case-insensitive. For commands that take JSON, name a file on the")
	fmt.Fprintln(s.out, "same line or enter the JSON starting on the next line.")
	for _, g := range s.groups {
		fmt.Fprintf(s.out, "\n%s\n", g.title)
		for _, c := range g.commands {
			head := strings.TrimSpace(strings.Join(c.Names, "/") + " " + c.Args)
			fmt.Fprintf(s.out, "%-36s - %s\n", head, c.Help)
		}
	}
	fmt.Fprintf(s.out, "\n%-36s - %s\n", "?", "Print commands.")
	fmt.Fprintf(s.out, "%-36s - %s\n", "Q", "Quit.")
}

func (s *Shell) readLine() (string, error) {
	line, err := s.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// readJSON reads a JSON value from the file named by args[0], or from the
// following input lines when args is empty.
func (s *Shell) readJSON(args []string) (json.RawMessage, error) {
	if len(args) > 0 {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return nil, err
		}
		if !json.Valid(data) {
			return nil, fmt.Errorf("%s: bad json", args[0])
		}
		return data, nil
	}

	var buf bytes.Buffer
	for {
		line, err := s.readLine()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil, errors.New("bad json: input ended before a complete value")
			}
			return nil, err
		}
		buf.WriteString(line)
		buf.WriteByte('\n')
		if len(bytes.TrimSpace(buf.Bytes())) > 0 && json.Valid(buf.Bytes()) {
			return bytes.TrimSpace(buf.Bytes()), nil
		}
	}
}

// writeJSON prints v as indented JSON, to a file when path is set.
func (s *Shell) writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	if path == "" {
		_, err = s.out.Write(data)
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func (s *Shell) printf(format string, args ...any) {
	fmt.Fprintf(s.out, format, args...)
}

type usageError struct {
	msg string
}

func (e *usageError) Error() string {
	if e.msg == "" {
		return "usage error"
	}
	return e.msg
}

// usage reports a malformed command line; the shell prints the command's
// usage after msg.
func usage(format string, args ...any) error {
	return &usageError{msg: fmt.Sprintf(format, args...)}
}

var errUsage = &usageError{}

func parseID(tok string) (uint32, error) {
	v, err := strconv.ParseUint(tok, 10, 32)
	if err != nil {
		return 0, usage("%s is not a valid node id", tok)
	}
	return uint32(v), nil
}

func parseFloat(tok string) (float64, error) {
	v, err := strconv.ParseFloat(tok, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, usage("%s is not a valid number", tok)
	}
	return v, nil
}

// parseFlag reads a T or F argument.
func parseFlag(tok string) (bool, bool) {
	switch strings.ToUpper(tok) {
	case "T":
		return true, true
	case "F":
		return false, true
	}
	return false, false
}

func formatTime(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}
