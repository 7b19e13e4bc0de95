package driver

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"github.com/roach88/neurograph/internal/ir"
	"github.com/roach88/neurograph/internal/network"
	"github.com/roach88/neurograph/internal/processor"
	"github.com/roach88/neurograph/internal/store"
)

// Mismatch is a recorded snapshot that replay did not reproduce.
type Mismatch struct {
	Seq  int64  `json:"seq"`
	Want string `json:"want"`
	Got  string `json:"got"`
}

// ReplayResult summarizes a replay.
type ReplayResult struct {
	SessionID  string     `json:"session_id"`
	Events     int        `json:"events"`
	Snapshots  int        `json:"snapshots"`
	Mismatches []Mismatch `json:"mismatches,omitempty"`
	Final      *Snapshot  `json:"final,omitempty"`
}

// Deterministic reports whether every recorded snapshot was reproduced.
func (r *ReplayResult) Deterministic() bool {
	return len(r.Mismatches) == 0
}

// Replay re-executes a recorded session against a fresh processor built
// from reg. Events and snapshots are interleaved by seq; at each recorded
// snapshot the replaying driver takes its own and compares hashes.
//
// Replay is the same code path as live driving: each event calls the
// Driver method that recorded it. opts must not include a recorder for
// the same session.
func Replay(ctx context.Context, reg *processor.Registry, sess ir.Session, events []ir.Event, snaps []ir.Snapshot, opts ...Option) (*ReplayResult, error) {
	proc, err := reg.Make(sess.Processor, sess.Params)
	if err != nil {
		return nil, newError(ErrCodeReplay, err, "session %s", sess.ID)
	}
	d := New(proc, opts...)

	res := &ReplayResult{SessionID: sess.ID, Events: len(events), Snapshots: len(snaps)}

	events = slices.Clone(events)
	slices.SortStableFunc(events, func(a, b ir.Event) int { return cmp.Compare(a.Seq, b.Seq) })
	snaps = slices.Clone(snaps)
	slices.SortStableFunc(snaps, func(a, b ir.Snapshot) int { return cmp.Compare(a.Seq, b.Seq) })

	next := 0
	checkUpTo := func(seq int64) error {
		for ; next < len(snaps) && snaps[next].Seq < seq; next++ {
			got, err := d.Snapshot(ctx)
			if err != nil {
				return newError(ErrCodeReplay, err, "snapshot at seq %d", snaps[next].Seq)
			}
			if got.Hash != snaps[next].Hash {
				res.Mismatches = append(res.Mismatches, Mismatch{Seq: snaps[next].Seq, Want: snaps[next].Hash, Got: got.Hash})
			}
		}
		return nil
	}

	for _, ev := range events {
		if err := checkUpTo(ev.Seq); err != nil {
			return res, err
		}
		if err := d.apply(ctx, ev); err != nil {
			return res, newError(ErrCodeReplay, err, "event %d (%s)", ev.Seq, ev.Kind)
		}
	}
	if len(snaps) > 0 {
		if err := checkUpTo(snaps[len(snaps)-1].Seq + 1); err != nil {
			return res, err
		}
	}

	if d.Bound() {
		final, err := d.Snapshot(ctx)
		if err != nil {
			return res, newError(ErrCodeReplay, err, "final snapshot")
		}
		res.Final = final
	}
	return res, nil
}

// ReplaySession loads a session from st and replays it.
func ReplaySession(ctx context.Context, st *store.Store, reg *processor.Registry, sessionID string, opts ...Option) (*ReplayResult, error) {
	sess, err := st.ReadSession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("replay: %w", err)
	}
	events, err := st.ReadEvents(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("replay: %w", err)
	}
	snaps, err := st.ReadSnapshots(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("replay: %w", err)
	}
	return Replay(ctx, reg, sess, events, snaps, opts...)
}

// apply re-executes one recorded event.
func (d *Driver) apply(ctx context.Context, ev ir.Event) error {
	switch ev.Kind {
	case ir.EventBind:
		var p ir.BindPayload
		if err := store.UnmarshalPayload(ev.Payload, &p); err != nil {
			return err
		}
		net, err := network.FromDoc(p.Network)
		if err != nil {
			return err
		}
		return d.Bind(ctx, net)

	case ir.EventUnbind:
		return d.Unbind(ctx)

	case ir.EventSpike:
		var p ir.SpikePayload
		if err := store.UnmarshalPayload(ev.Payload, &p); err != nil {
			return err
		}
		return d.ApplySpike(ctx, uint32(p.Spike.ID), p.Spike.Time, p.Spike.Value, p.Normalized)

	case ir.EventRun:
		var p ir.RunPayload
		if err := store.UnmarshalPayload(ev.Payload, &p); err != nil {
			return err
		}
		if p.Tracked {
			_, err := d.RunAndTrack(ctx, p.Duration)
			return err
		}
		return d.Run(ctx, p.Duration)

	case ir.EventClearActivity:
		return d.ClearActivity(ctx)

	case ir.EventTrackNeuron, ir.EventTrackOutput:
		var p ir.TrackPayload
		if err := store.UnmarshalPayload(ev.Payload, &p); err != nil {
			return err
		}
		if ev.Kind == ir.EventTrackNeuron {
			return d.TrackNeuron(ctx, uint32(p.ID), p.On)
		}
		return d.TrackOutput(ctx, uint32(p.ID), p.On)

	default:
		return newError(ErrCodeReplay, nil, "unknown event kind %q", ev.Kind)
	}
}
