// Package store provides SQLite-backed durable storage for recorded
// simulation sessions.
//
// A session is an append-only log of the driver operations that changed
// simulation state (bind, spike, run, tracking toggles, clear_activity),
// plus telemetry snapshots taken along the way. Replaying the log
// against a fresh processor must reproduce every snapshot hash.
//
// # Critical Patterns
//
// Logical time
//   - All ordering uses seq INTEGER (logical clock), NEVER timestamps
//   - Replay order is independent of wall time
//
// Deterministic query results
//   - Queries order by seq ASC, with id COLLATE BINARY as the tie-break
//
// Idempotent writes
//   - UNIQUE(session_id, seq) on events; duplicate appends are ignored
//
// Canonical payloads
//   - Event and snapshot payloads are stored as RFC 8785 canonical JSON
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
