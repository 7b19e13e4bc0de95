package network

import (
	"errors"
	"fmt"
)

// Failure records one target that a batch operation could not apply.
type Failure struct {
	Target string
	Err    error
}

// BatchReport summarizes a batch operation.
type BatchReport struct {
	Applied  int
	Failures []Failure
}

// Err joins every failure, or returns nil when all targets applied.
func (r BatchReport) Err() error {
	if len(r.Failures) == 0 {
		return nil
	}
	errs := make([]error, len(r.Failures))
	for i, f := range r.Failures {
		errs[i] = fmt.Errorf("%s: %w", f.Target, f.Err)
	}
	return errors.Join(errs...)
}

// Apply runs op on every target in order. A failing target is recorded
// and the remaining targets are still processed; since every network
// operation is atomic, a failure leaves the network as it was before that
// target.
func Apply[T any](targets []T, label func(T) string, op func(T) error) BatchReport {
	var report BatchReport
	for _, t := range targets {
		if err := op(t); err != nil {
			report.Failures = append(report.Failures, Failure{Target: label(t), Err: err})
			continue
		}
		report.Applied++
	}
	return report
}

// NodeLabel formats a node id target.
func NodeLabel(id uint32) string {
	return fmt.Sprintf("node %d", id)
}

// EdgeLabel formats an edge target.
func EdgeLabel(k EdgeKey) string {
	return fmt.Sprintf("edge %d -> %d", k.From, k.To)
}
