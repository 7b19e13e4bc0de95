package store

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/neurograph/internal/ir"
)

func TestCreateSession_RoundTrip(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	createTestSession(t, s, "s-1")

	got, err := s.ReadSession(ctx, "s-1")
	require.NoError(t, err)
	assert.Equal(t, "risp", got.Processor)
	assert.Equal(t, int64(1), got.Seq)
	assert.JSONEq(t, `{"min_weight":-1,"max_weight":1}`, string(got.Params))
}

func TestCreateSession_Idempotent(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	createTestSession(t, s, "s-1")

	err := s.CreateSession(ctx, ir.Session{ID: "s-1", Processor: "other", Seq: 9})
	require.NoError(t, err)

	got, err := s.ReadSession(ctx, "s-1")
	require.NoError(t, err)
	assert.Equal(t, "risp", got.Processor, "first write wins")
}

func TestReadSession_NotFound(t *testing.T) {
	s := createTestStore(t)
	_, err := s.ReadSession(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestListSessions_Ordered(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	empty, err := s.ListSessions(ctx)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	for _, sess := range []ir.Session{
		{ID: "b", Processor: "risp", Seq: 2},
		{ID: "a", Processor: "risp", Seq: 2},
		{ID: "z", Processor: "risp", Seq: 1},
	} {
		require.NoError(t, s.CreateSession(ctx, sess))
	}

	list, err := s.ListSessions(ctx)
	require.NoError(t, err)
	ids := make([]string, len(list))
	for i, sess := range list {
		ids[i] = sess.ID
	}
	assert.Equal(t, []string{"z", "a", "b"}, ids)
}

func TestAppendEvent_OrderAndCanonicalPayload(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	createTestSession(t, s, "s-1")

	require.NoError(t, s.AppendEvent(ctx, ir.Event{
		SessionID: "s-1", Seq: 3, Kind: ir.EventRun,
		Payload: json.RawMessage(`{ "duration" : 10 }`),
	}))
	require.NoError(t, s.AppendEvent(ctx, ir.Event{
		SessionID: "s-1", Seq: 2, Kind: ir.EventSpike,
		Payload: json.RawMessage(`{"spike":{"value":1,"id":0,"time":0},"normalized":true}`),
	}))
	require.NoError(t, s.AppendEvent(ctx, ir.Event{
		SessionID: "s-1", Seq: 4, Kind: ir.EventClearActivity,
	}))

	events, err := s.ReadEvents(ctx, "s-1")
	require.NoError(t, err)
	require.Len(t, events, 3)

	assert.Equal(t, ir.EventSpike, events[0].Kind)
	assert.Equal(t, `{"normalized":true,"spike":{"id":0,"time":0,"value":1}}`, string(events[0].Payload))
	assert.Equal(t, `{"duration":10}`, string(events[1].Payload))
	assert.Equal(t, `{}`, string(events[2].Payload))
}

func TestAppendEvent_DuplicateSeqIgnored(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	createTestSession(t, s, "s-1")

	ev := ir.Event{SessionID: "s-1", Seq: 2, Kind: ir.EventRun, Payload: json.RawMessage(`{"duration":1}`)}
	require.NoError(t, s.AppendEvent(ctx, ev))
	ev.Payload = json.RawMessage(`{"duration":99}`)
	require.NoError(t, s.AppendEvent(ctx, ev))

	events, err := s.ReadEvents(ctx, "s-1")
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, `{"duration":1}`, string(events[0].Payload))
}

func TestAppendEvent_UnknownSession(t *testing.T) {
	s := createTestStore(t)
	err := s.AppendEvent(context.Background(), ir.Event{SessionID: "nope", Seq: 1, Kind: ir.EventRun})
	assert.Error(t, err, "foreign key must reject events without a session")
}

func TestAppendEvent_InvalidPayload(t *testing.T) {
	s := createTestStore(t)
	createTestSession(t, s, "s-1")
	err := s.AppendEvent(context.Background(), ir.Event{
		SessionID: "s-1", Seq: 2, Kind: ir.EventRun, Payload: json.RawMessage(`{broken`),
	})
	assert.Error(t, err)
}

func TestSnapshots(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	createTestSession(t, s, "s-1")

	require.NoError(t, s.WriteSnapshot(ctx, ir.Snapshot{SessionID: "s-1", Seq: 5, Hash: "h5", Payload: json.RawMessage(`{"time":5}`)}))
	require.NoError(t, s.WriteSnapshot(ctx, ir.Snapshot{SessionID: "s-1", Seq: 3, Hash: "h3", Payload: json.RawMessage(`{"time":3}`)}))

	snaps, err := s.ReadSnapshots(ctx, "s-1")
	require.NoError(t, err)
	require.Len(t, snaps, 2)
	assert.Equal(t, "h3", snaps[0].Hash)
	assert.Equal(t, "h5", snaps[1].Hash)
}

func TestLastSeq(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	createTestSession(t, s, "s-1")

	last, err := s.LastSeq(ctx, "s-1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), last)

	require.NoError(t, s.AppendEvent(ctx, ir.Event{SessionID: "s-1", Seq: 4, Kind: ir.EventRun}))
	require.NoError(t, s.WriteSnapshot(ctx, ir.Snapshot{SessionID: "s-1", Seq: 7, Hash: "h"}))

	last, err = s.LastSeq(ctx, "s-1")
	require.NoError(t, err)
	assert.Equal(t, int64(7), last)

	_, err = s.LastSeq(ctx, "missing")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestDeleteSession_Cascades(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	createTestSession(t, s, "s-1")
	require.NoError(t, s.AppendEvent(ctx, ir.Event{SessionID: "s-1", Seq: 2, Kind: ir.EventRun}))

	require.NoError(t, s.DeleteSession(ctx, "s-1"))

	events, err := s.ReadEvents(ctx, "s-1")
	require.NoError(t, err)
	assert.Empty(t, events)

	assert.ErrorIs(t, s.DeleteSession(ctx, "s-1"), ErrSessionNotFound)
}

func TestPayloadHelpers(t *testing.T) {
	raw, err := MarshalPayload(ir.RunPayload{Duration: 2.5})
	require.NoError(t, err)
	assert.Equal(t, `{"duration":2.5}`, string(raw))

	var run ir.RunPayload
	require.NoError(t, UnmarshalPayload(raw, &run))
	assert.Equal(t, 2.5, run.Duration)

	assert.Error(t, UnmarshalPayload(json.RawMessage(`{"duration":1,"extra":true}`), &run))
}
