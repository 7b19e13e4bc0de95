package store

import (
	"context"
	"fmt"

	"github.com/roach88/neurograph/internal/ir"
)

// CreateSession inserts a session record.
// Uses ON CONFLICT(id) DO NOTHING for idempotency - duplicate IDs are silently ignored.
func (s *Store) CreateSession(ctx context.Context, sess ir.Session) error {
	params, err := canonicalText(sess.Params)
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO sessions (id, processor, params, seq)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`, sess.ID, sess.Processor, params, sess.Seq)
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}

// AppendEvent inserts an event into its session's log.
// Uses ON CONFLICT(session_id, seq) DO NOTHING - re-appending the same
// seq is a no-op, so a replay that re-records is harmless.
//
// Note: The session referenced by SessionID must exist (foreign key constraint).
func (s *Store) AppendEvent(ctx context.Context, ev ir.Event) error {
	payload, err := canonicalText(ev.Payload)
	if err != nil {
		return fmt.Errorf("append event: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO events (session_id, seq, kind, payload)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(session_id, seq) DO NOTHING
	`, ev.SessionID, ev.Seq, string(ev.Kind), payload)
	if err != nil {
		return fmt.Errorf("append event: %w", err)
	}
	return nil
}

// WriteSnapshot records a telemetry snapshot.
// Uses ON CONFLICT DO NOTHING for idempotency.
func (s *Store) WriteSnapshot(ctx context.Context, snap ir.Snapshot) error {
	payload, err := canonicalText(snap.Payload)
	if err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO snapshots (session_id, seq, hash, payload)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(session_id, seq) DO NOTHING
	`, snap.SessionID, snap.Seq, snap.Hash, payload)
	if err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return nil
}

// DeleteSession removes a session and, by cascade, its events and snapshots.
func (s *Store) DeleteSession(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete session: rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("delete session %q: %w", id, ErrSessionNotFound)
	}
	return nil
}
