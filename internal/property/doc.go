// Package property implements property packs: the named, ranged numeric
// schema that governs node, edge, and network values.
//
// A property's index within its category is assigned when it is added and
// never changes for the pack's lifetime. Value vectors store values by
// index only; names are resolved through the pack.
//
// Range metadata is advisory. Nothing in this package clamps values; the
// range is consulted only when drawing random values.
package property
