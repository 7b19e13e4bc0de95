package store

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/roach88/neurograph/internal/ir"
)

// createTestStore creates a new file-backed store in a temp dir.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestSession inserts a session with minimal required fields.
func createTestSession(t *testing.T, s *Store, id string) ir.Session {
	t.Helper()
	sess := ir.Session{
		ID:        id,
		Processor: "risp",
		Params:    json.RawMessage(`{"max_weight":1,"min_weight":-1}`),
		Seq:       1,
	}
	if err := s.CreateSession(context.Background(), sess); err != nil {
		t.Fatalf("CreateSession() failed: %v", err)
	}
	return sess
}
