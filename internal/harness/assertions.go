package harness

import (
	"fmt"
	"slices"
	"strings"
)

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string       // Assertion type for categorization
	Expected string       // Human-readable expected outcome
	Actual   string       // Human-readable actual outcome
	Trace    []TraceEvent // Full trace for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if len(e.Trace) > 0 {
		fmt.Fprintf(&buf, "\nFull trace:\n")
		for _, event := range e.Trace {
			fmt.Fprintf(&buf, "  [%d] %s %v\n", event.Seq, event.Op, event.Args)
		}
	}
	return buf.String()
}

// EvaluateAssertions checks every assertion against the result and
// returns one message per failure.
func EvaluateAssertions(result *Result, assertions []Assertion) []string {
	var failures []string
	for i, a := range assertions {
		if err := evaluate(result, a); err != nil {
			failures = append(failures, fmt.Sprintf("assertions[%d]: %v", i, err))
		}
	}
	return failures
}

func evaluate(result *Result, a Assertion) error {
	switch a.Type {
	case AssertFires:
		return assertNeuron(result, a, func(i int) (string, string, bool) {
			got := result.Final.Vectors[i]
			return fmt.Sprint(a.Times), fmt.Sprint(got), slices.Equal(got, a.Times)
		})
	case AssertCount:
		return assertNeuron(result, a, func(i int) (string, string, bool) {
			got := result.Final.Counts[i]
			return fmt.Sprint(*a.Count), fmt.Sprint(got), got == *a.Count
		})
	case AssertLastFire:
		return assertNeuron(result, a, func(i int) (string, string, bool) {
			got := result.Final.LastFires[i]
			return fmt.Sprint(*a.Value), fmt.Sprint(got), got == *a.Value
		})
	case AssertCharge:
		return assertNeuron(result, a, func(i int) (string, string, bool) {
			got := result.Final.Charges[i]
			return fmt.Sprint(*a.Value), fmt.Sprint(got), got == *a.Value
		})
	case AssertOutputCount:
		return assertOutputCount(result, a)
	case AssertTime:
		if result.Final == nil {
			return noFinal(a)
		}
		if result.Final.Time != *a.Value {
			return &AssertionError{
				Type:     a.Type,
				Expected: fmt.Sprintf("time %v", *a.Value),
				Actual:   fmt.Sprintf("time %v", result.Final.Time),
			}
		}
		return nil
	case AssertTraceCount:
		return assertTraceCount(result.Trace, a)
	case AssertTraceOrder:
		return assertTraceOrder(result.Trace, a)
	case AssertDeterministic:
		if !result.Deterministic {
			return &AssertionError{
				Type:     a.Type,
				Expected: "replay reproduces every snapshot",
				Actual:   "replay diverged",
				Trace:    result.Trace,
			}
		}
		return nil
	default:
		return fmt.Errorf("unknown assertion type: %s", a.Type)
	}
}

// assertNeuron locates node a.Node in the final snapshot and applies check
// to its index.
func assertNeuron(result *Result, a Assertion, check func(i int) (want, got string, ok bool)) error {
	if result.Final == nil {
		return noFinal(a)
	}
	i, ok := result.Final.Index(*a.Node)
	if !ok {
		return &AssertionError{
			Type:     a.Type,
			Expected: fmt.Sprintf("node %d in the bound network", *a.Node),
			Actual:   "node not bound",
		}
	}
	want, got, ok := check(i)
	if !ok {
		return &AssertionError{
			Type:     a.Type,
			Expected: fmt.Sprintf("node %d: %s", *a.Node, want),
			Actual:   fmt.Sprintf("node %d: %s", *a.Node, got),
		}
	}
	return nil
}

func assertOutputCount(result *Result, a Assertion) error {
	for _, o := range result.Outputs {
		if o.NodeID != *a.Node {
			continue
		}
		if o.Count != *a.Count {
			return &AssertionError{
				Type:     a.Type,
				Expected: fmt.Sprintf("output node %d fired %d times", *a.Node, *a.Count),
				Actual:   fmt.Sprintf("fired %d times", o.Count),
			}
		}
		return nil
	}
	return &AssertionError{
		Type:     a.Type,
		Expected: fmt.Sprintf("node %d on an output channel", *a.Node),
		Actual:   "no such output",
	}
}

// assertTraceCount checks the exact number of recorded operations of kind a.Op.
func assertTraceCount(trace []TraceEvent, a Assertion) error {
	count := 0
	for _, event := range trace {
		if event.Op == a.Op {
			count++
		}
	}
	if count != *a.Count {
		return &AssertionError{
			Type:     a.Type,
			Expected: fmt.Sprintf("%d %s operations", *a.Count, a.Op),
			Actual:   fmt.Sprintf("%d %s operations", count, a.Op),
			Trace:    trace,
		}
	}
	return nil
}

// assertTraceOrder checks that a.Ops appear in the trace in order.
// Intervening operations are allowed.
func assertTraceOrder(trace []TraceEvent, a Assertion) error {
	next := 0
	for _, event := range trace {
		if next < len(a.Ops) && event.Op == a.Ops[next] {
			next++
		}
	}
	if next < len(a.Ops) {
		return &AssertionError{
			Type:     a.Type,
			Expected: fmt.Sprintf("operations in order %v", a.Ops),
			Actual:   fmt.Sprintf("%q not found after %v", a.Ops[next], a.Ops[:next]),
			Trace:    trace,
		}
	}
	return nil
}

func noFinal(a Assertion) error {
	return &AssertionError{
		Type:     a.Type,
		Expected: "a bound network after the flow",
		Actual:   "network unbound",
	}
}
