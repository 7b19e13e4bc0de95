package shell

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestShell(input string) (*Shell, *bytes.Buffer) {
	var out bytes.Buffer
	s := newShell(strings.NewReader(input), &out, "test shell", resolve(nil))
	return s, &out
}

func TestExec_UnknownAndComments(t *testing.T) {
	s, out := newTestShell("")
	ctx := context.Background()

	assert.False(t, s.Exec(ctx, ""))
	assert.False(t, s.Exec(ctx, "# a comment"))
	assert.Empty(t, out.String())

	assert.False(t, s.Exec(ctx, "nope 1 2"))
	assert.Equal(t, "unknown command nope, type ? for the command list\n", out.String())

	assert.True(t, s.Exec(ctx, "q"))
}

func TestExec_CaseInsensitive(t *testing.T) {
	s, out := newTestShell("")
	var got []string
	s.add("Group", Command{Names: []string{"ECHO"}, Run: func(_ context.Context, args []string) error {
		got = args
		return nil
	}})

	s.Exec(context.Background(), "echo a B")
	assert.Equal(t, []string{"a", "B"}, got)
	assert.Empty(t, out.String())
}

func TestExec_UsageErrors(t *testing.T) {
	s, out := newTestShell("")
	s.add("Group",
		Command{Names: []string{"BARE"}, Args: "x y", Run: func(context.Context, []string) error { return errUsage }},
		Command{Names: []string{"MSG"}, Args: "n", Run: func(context.Context, []string) error { return usage("n must be positive") }},
	)

	s.Exec(context.Background(), "BARE")
	s.Exec(context.Background(), "MSG")
	assert.Equal(t, "usage: BARE x y\nn must be positive\nusage: MSG n\n", out.String())
}

func TestPrintHelp(t *testing.T) {
	s, out := newTestShell("")
	s.add("Things", Command{Names: []string{"DO", "D"}, Args: "what", Help: "Do a thing.", Run: func(context.Context, []string) error { return nil }})

	s.Exec(context.Background(), "?")
	help := out.String()
	assert.True(t, strings.HasPrefix(help, "test shell\n"))
	assert.Contains(t, help, "\nThings\n")
	assert.Contains(t, help, "DO/D what")
	assert.Contains(t, help, "- Do a thing.")
	assert.Contains(t, help, "- Quit.")
}

func TestAdd_DuplicatePanics(t *testing.T) {
	s, _ := newTestShell("")
	noop := func(context.Context, []string) error { return nil }
	s.add("A", Command{Names: []string{"X"}, Run: noop})
	assert.Panics(t, func() { s.add("B", Command{Names: []string{"X"}, Run: noop}) })
}

func TestRun_StopsAtQuitAndEOF(t *testing.T) {
	s, _ := newTestShell("ECHO 1\nQ\nECHO 2\n")
	calls := 0
	s.add("Group", Command{Names: []string{"ECHO"}, Run: func(context.Context, []string) error {
		calls++
		return nil
	}})
	require.NoError(t, s.Run(context.Background()))
	assert.Equal(t, 1, calls)

	s, _ = newTestShell("ECHO 1\nECHO 2")
	calls = 0
	s.add("Group", Command{Names: []string{"ECHO"}, Run: func(context.Context, []string) error {
		calls++
		return nil
	}})
	require.NoError(t, s.Run(context.Background()))
	assert.Equal(t, 2, calls)
}

func TestRun_Cancelled(t *testing.T) {
	s, _ := newTestShell("ECHO\n")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, s.Run(ctx), context.Canceled)
}

func TestRun_Prompt(t *testing.T) {
	var out bytes.Buffer
	s := newShell(strings.NewReader("\n"), &out, "", resolve([]Option{WithPrompt("> ")}))
	require.NoError(t, s.Run(context.Background()))
	assert.Equal(t, "> > ", out.String())
}

func TestReadJSON_MultiLine(t *testing.T) {
	s, _ := newTestShell("{\n  \"a\": [1,\n 2]\n}\nREST\n")
	data, err := s.readJSON(nil)
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":[1,2]}`, string(data))

	line, err := s.readLine()
	require.NoError(t, err)
	assert.Equal(t, "REST", line)
}

func TestReadJSON_Errors(t *testing.T) {
	s, _ := newTestShell("{\"a\": \n")
	_, err := s.readJSON(nil)
	assert.ErrorContains(t, err, "input ended")

	_, err = s.readJSON([]string{"testdata/does-not-exist.json"})
	assert.Error(t, err)
}

func TestParseHelpers(t *testing.T) {
	id, err := parseID("42")
	require.NoError(t, err)
	assert.Equal(t, uint32(42), id)
	_, err = parseID("-1")
	assert.Error(t, err)

	v, err := parseFloat("1.5")
	require.NoError(t, err)
	assert.Equal(t, 1.5, v)
	for _, bad := range []string{"NaN", "Inf", "x"} {
		_, err := parseFloat(bad)
		assert.Error(t, err, bad)
	}

	on, ok := parseFlag("t")
	assert.True(t, on)
	assert.True(t, ok)
	_, ok = parseFlag("yes")
	assert.False(t, ok)

	assert.Equal(t, "-1.0", formatTime(-1))
	assert.Equal(t, "2.0", formatTime(2))
}
