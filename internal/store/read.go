package store

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/roach88/neurograph/internal/ir"
)

// ErrSessionNotFound is returned when a session id has no record.
var ErrSessionNotFound = errors.New("session not found")

// ReadSession returns the session record for id.
func (s *Store) ReadSession(ctx context.Context, id string) (ir.Session, error) {
	var (
		sess   ir.Session
		params string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, processor, params, seq FROM sessions WHERE id = ?
	`, id).Scan(&sess.ID, &sess.Processor, &params, &sess.Seq)
	if errors.Is(err, sql.ErrNoRows) {
		return ir.Session{}, fmt.Errorf("read session %q: %w", id, ErrSessionNotFound)
	}
	if err != nil {
		return ir.Session{}, fmt.Errorf("read session: %w", err)
	}
	sess.Params = json.RawMessage(params)
	return sess, nil
}

// ListSessions returns every session ordered by seq ASC, id ASC COLLATE BINARY.
//
// Returns an empty slice (not nil) if no sessions exist.
func (s *Store) ListSessions(ctx context.Context) ([]ir.Session, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, processor, params, seq FROM sessions
		ORDER BY seq ASC, id COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	sessions := []ir.Session{}
	for rows.Next() {
		var (
			sess   ir.Session
			params string
		)
		if err := rows.Scan(&sess.ID, &sess.Processor, &params, &sess.Seq); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		sess.Params = json.RawMessage(params)
		sessions = append(sessions, sess)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}
	return sessions, nil
}

// ReadEvents returns a session's events in seq order.
//
// Returns an empty slice (not nil) if the session has no events.
func (s *Store) ReadEvents(ctx context.Context, sessionID string) ([]ir.Event, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT session_id, seq, kind, payload FROM events
		WHERE session_id = ?
		ORDER BY seq ASC, id ASC
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	events := []ir.Event{}
	for rows.Next() {
		var (
			ev      ir.Event
			kind    string
			payload string
		)
		if err := rows.Scan(&ev.SessionID, &ev.Seq, &kind, &payload); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		ev.Kind = ir.EventKind(kind)
		ev.Payload = json.RawMessage(payload)
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}
	return events, nil
}

// ReadSnapshots returns a session's snapshots in seq order.
func (s *Store) ReadSnapshots(ctx context.Context, sessionID string) ([]ir.Snapshot, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT session_id, seq, hash, payload FROM snapshots
		WHERE session_id = ?
		ORDER BY seq ASC
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("query snapshots: %w", err)
	}
	defer rows.Close()

	snaps := []ir.Snapshot{}
	for rows.Next() {
		var (
			snap    ir.Snapshot
			payload string
		)
		if err := rows.Scan(&snap.SessionID, &snap.Seq, &snap.Hash, &payload); err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		snap.Payload = json.RawMessage(payload)
		snaps = append(snaps, snap)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate snapshots: %w", err)
	}
	return snaps, nil
}

// LastSeq returns the highest seq recorded for a session across events
// and snapshots, or the session's own seq when nothing was recorded.
// A resumed recorder continues from here.
func (s *Store) LastSeq(ctx context.Context, sessionID string) (int64, error) {
	sess, err := s.ReadSession(ctx, sessionID)
	if err != nil {
		return 0, err
	}
	var last sql.NullInt64
	err = s.db.QueryRowContext(ctx, `
		SELECT MAX(seq) FROM (
			SELECT seq FROM events WHERE session_id = ?
			UNION ALL
			SELECT seq FROM snapshots WHERE session_id = ?
		)
	`, sessionID, sessionID).Scan(&last)
	if err != nil {
		return 0, fmt.Errorf("last seq: %w", err)
	}
	if !last.Valid {
		return sess.Seq, nil
	}
	return max(last.Int64, sess.Seq), nil
}

func decodeStrict(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
