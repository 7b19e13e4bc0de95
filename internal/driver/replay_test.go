package driver

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/neurograph/internal/ir"
	"github.com/roach88/neurograph/internal/processor"
	"github.com/roach88/neurograph/internal/processor/risp"
	"github.com/roach88/neurograph/internal/store"
)

func rispRegistry(t *testing.T) *processor.Registry {
	t.Helper()
	reg := processor.NewRegistry()
	require.NoError(t, risp.Register(reg))
	return reg
}

// drive runs a representative session: bind, tracking, spikes, plain and
// tracked runs, a snapshot between runs, and a cleared activity.
func drive(t *testing.T, d *Driver) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, d.Bind(ctx, rispChain(t, d.Processor())))
	require.NoError(t, d.TrackNeuron(ctx, 1, true))
	require.NoError(t, d.TrackOutput(ctx, 2, true))
	require.NoError(t, d.ApplySpikeRaster(ctx, 0, "1001"))
	require.NoError(t, d.Run(ctx, 3))
	_, err := d.Snapshot(ctx)
	require.NoError(t, err)
	_, err = d.RunAndTrack(ctx, 4)
	require.NoError(t, err)
	_, err = d.Snapshot(ctx)
	require.NoError(t, err)
	require.NoError(t, d.ClearActivity(ctx))
	require.NoError(t, d.ApplySpike(ctx, 0, 1, 0.5, true))
	require.NoError(t, d.Run(ctx, 2))
}

func TestReplay_MemoryRecorderIsDeterministic(t *testing.T) {
	ctx := context.Background()
	rec := NewMemoryRecorder()
	proc := newRisp(t)
	d := New(proc, WithRecorder(rec))
	drive(t, d)

	live, err := d.Snapshot(ctx)
	require.NoError(t, err)
	require.Len(t, rec.Snapshots, 3)

	sess := ir.Session{ID: "mem", Processor: risp.Name, Params: proc.Params()}
	res, err := Replay(ctx, rispRegistry(t), sess, rec.Events, rec.Snapshots)
	require.NoError(t, err)
	assert.True(t, res.Deterministic(), "mismatches: %v", res.Mismatches)
	assert.Equal(t, len(rec.Events), res.Events)
	assert.Equal(t, 3, res.Snapshots)
	require.NotNil(t, res.Final)
	assert.Equal(t, live.Hash, res.Final.Hash)
}

func TestReplay_EventOrderFollowsSeq(t *testing.T) {
	ctx := context.Background()
	rec := NewMemoryRecorder()
	proc := newRisp(t)
	drive(t, New(proc, WithRecorder(rec)))

	shuffled := make([]ir.Event, len(rec.Events))
	for i, ev := range rec.Events {
		shuffled[len(shuffled)-1-i] = ev
	}
	sess := ir.Session{ID: "mem", Processor: risp.Name, Params: proc.Params()}
	res, err := Replay(ctx, rispRegistry(t), sess, shuffled, rec.Snapshots)
	require.NoError(t, err)
	assert.True(t, res.Deterministic())
}

func TestReplay_DetectsTamperedSnapshot(t *testing.T) {
	ctx := context.Background()
	rec := NewMemoryRecorder()
	proc := newRisp(t)
	drive(t, New(proc, WithRecorder(rec)))

	rec.Snapshots[1].Hash = "0000"
	sess := ir.Session{ID: "mem", Processor: risp.Name, Params: proc.Params()}
	res, err := Replay(ctx, rispRegistry(t), sess, rec.Events, rec.Snapshots)
	require.NoError(t, err)
	assert.False(t, res.Deterministic())
	require.Len(t, res.Mismatches, 1)
	assert.Equal(t, rec.Snapshots[1].Seq, res.Mismatches[0].Seq)
	assert.Equal(t, "0000", res.Mismatches[0].Want)
}

func TestReplay_UnknownProcessor(t *testing.T) {
	sess := ir.Session{ID: "x", Processor: "nope"}
	_, err := Replay(context.Background(), rispRegistry(t), sess, nil, nil)
	assert.ErrorIs(t, err, ErrReplay)
	assert.ErrorIs(t, err, processor.ErrUnknownProcessor)
}

func TestReplay_UnknownEventKind(t *testing.T) {
	sess := ir.Session{ID: "x", Processor: risp.Name}
	events := []ir.Event{{Seq: 1, Kind: "teleport", Payload: json.RawMessage(`{}`)}}
	_, err := Replay(context.Background(), rispRegistry(t), sess, events, nil)
	assert.ErrorIs(t, err, ErrReplay)
}

func TestReplaySession_Store(t *testing.T) {
	ctx := context.Background()
	st, err := store.Open(filepath.Join(t.TempDir(), "sessions.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	proc := newRisp(t)
	rec, err := NewStoreRecorder(ctx, st, NewFixedGenerator("session-1"), proc.Name(), proc.Params())
	require.NoError(t, err)
	assert.Equal(t, "session-1", rec.Session().ID)

	d := New(proc, WithRecorder(rec))
	drive(t, d)
	live, err := d.Snapshot(ctx)
	require.NoError(t, err)

	res, err := ReplaySession(ctx, st, rispRegistry(t), "session-1")
	require.NoError(t, err)
	assert.True(t, res.Deterministic(), "mismatches: %v", res.Mismatches)
	assert.Equal(t, 3, res.Snapshots)
	assert.Equal(t, live.Hash, res.Final.Hash)

	// A resumed recorder continues after the last stored seq.
	last, err := st.LastSeq(ctx, "session-1")
	require.NoError(t, err)
	resumed, err := ResumeStoreRecorder(ctx, st, "session-1")
	require.NoError(t, err)
	d2 := New(proc, WithRecorder(resumed))
	require.NoError(t, d2.Bind(ctx, rispChain(t, proc)))
	events, err := st.ReadEvents(ctx, "session-1")
	require.NoError(t, err)
	assert.Equal(t, last+1, events[len(events)-1].Seq)
	assert.Equal(t, ir.EventBind, events[len(events)-1].Kind)

	_, err = ReplaySession(ctx, st, rispRegistry(t), "missing")
	assert.ErrorIs(t, err, store.ErrSessionNotFound)
}
