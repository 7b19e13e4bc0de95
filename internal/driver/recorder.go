package driver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/roach88/neurograph/internal/ir"
	"github.com/roach88/neurograph/internal/store"
)

// Recorder receives the operations a driver performs.
type Recorder interface {
	// Record appends one state-changing operation.
	Record(ctx context.Context, kind ir.EventKind, payload any) error

	// Snapshot stores a telemetry snapshot.
	Snapshot(ctx context.Context, snap *Snapshot) error
}

// StoreRecorder appends a session log to a Store.
type StoreRecorder struct {
	store   *store.Store
	clock   *Clock
	session ir.Session
}

// NewStoreRecorder creates a session for a processor and returns a
// recorder appending to it.
func NewStoreRecorder(ctx context.Context, st *store.Store, gen SessionIDGenerator, processorName string, params json.RawMessage) (*StoreRecorder, error) {
	clock := NewClock(0)
	sess := ir.Session{
		ID:        gen.Generate(),
		Processor: processorName,
		Params:    params,
		Seq:       clock.Next(),
	}
	if err := st.CreateSession(ctx, sess); err != nil {
		return nil, fmt.Errorf("new recorder: %w", err)
	}
	return &StoreRecorder{store: st, clock: clock, session: sess}, nil
}

// ResumeStoreRecorder continues an existing session after its last seq.
func ResumeStoreRecorder(ctx context.Context, st *store.Store, sessionID string) (*StoreRecorder, error) {
	sess, err := st.ReadSession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("resume recorder: %w", err)
	}
	last, err := st.LastSeq(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("resume recorder: %w", err)
	}
	return &StoreRecorder{store: st, clock: NewClock(last), session: sess}, nil
}

// Session returns the session being recorded.
func (r *StoreRecorder) Session() ir.Session {
	return r.session
}

// Record implements Recorder.
func (r *StoreRecorder) Record(ctx context.Context, kind ir.EventKind, payload any) error {
	raw, err := store.MarshalPayload(payload)
	if err != nil {
		return fmt.Errorf("record %s: %w", kind, err)
	}
	return r.store.AppendEvent(ctx, ir.Event{
		SessionID: r.session.ID,
		Seq:       r.clock.Next(),
		Kind:      kind,
		Payload:   raw,
	})
}

// Snapshot implements Recorder.
func (r *StoreRecorder) Snapshot(ctx context.Context, snap *Snapshot) error {
	raw, err := store.MarshalPayload(snap)
	if err != nil {
		return fmt.Errorf("record snapshot: %w", err)
	}
	return r.store.WriteSnapshot(ctx, ir.Snapshot{
		SessionID: r.session.ID,
		Seq:       r.clock.Next(),
		Hash:      snap.Hash,
		Payload:   raw,
	})
}

// MemoryRecorder keeps the session log in memory. Replay accepts its
// Events and Snapshots directly.
type MemoryRecorder struct {
	clock     *Clock
	Events    []ir.Event
	Snapshots []ir.Snapshot
}

// NewMemoryRecorder creates an empty in-memory recorder.
func NewMemoryRecorder() *MemoryRecorder {
	return &MemoryRecorder{clock: NewClock(0)}
}

// Record implements Recorder.
func (r *MemoryRecorder) Record(_ context.Context, kind ir.EventKind, payload any) error {
	raw, err := store.MarshalPayload(payload)
	if err != nil {
		return fmt.Errorf("record %s: %w", kind, err)
	}
	r.Events = append(r.Events, ir.Event{Seq: r.clock.Next(), Kind: kind, Payload: raw})
	return nil
}

// Snapshot implements Recorder.
func (r *MemoryRecorder) Snapshot(_ context.Context, snap *Snapshot) error {
	raw, err := store.MarshalPayload(snap)
	if err != nil {
		return fmt.Errorf("record snapshot: %w", err)
	}
	r.Snapshots = append(r.Snapshots, ir.Snapshot{Seq: r.clock.Next(), Hash: snap.Hash, Payload: raw})
	return nil
}
