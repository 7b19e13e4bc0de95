// Package ir provides the exchange representation shared by every neurograph package.
//
// This package contains the JSON document shapes for networks and property
// packs, the Spike stimulus type, canonical JSON serialization, and the
// domain-separated fingerprints built on top of it. All other internal
// packages import ir; ir imports nothing internal. This keeps the exchange
// shape the foundational layer with no circular dependencies.
//
// Key design constraints:
//   - All JSON tags use snake_case
//   - Optional members are pointers or omitempty so absent and zero stay distinct
//   - Fingerprints are computed over canonical JSON only, never over json.Marshal output
//   - Logical sequence numbers only, never wall-clock timestamps
package ir
