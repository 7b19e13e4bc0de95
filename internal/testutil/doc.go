// Package testutil provides deterministic fixtures shared by tests of the
// driver and CLI packages: a call-counting fake processor and small
// network builders.
package testutil
