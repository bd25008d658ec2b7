package correlate

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kestrel-legal/matterlog/backend/pkg/evidence"
	"github.com/kestrel-legal/matterlog/backend/pkg/store/memory"
)

func seedThread(t *testing.T, s *memory.Store) {
	t.Helper()
	base := mustTime(t, "2024-03-10T12:00:00Z")
	replyAt := base.Add(2 * time.Hour)

	records := []evidence.Record{
		{
			ID: "e1", Type: evidence.TypeEmail, Timestamp: base,
			Email: &evidence.EmailFields{Subject: "Settlement", MessageID: "<m1>"},
		},
		{
			ID: "e2", Type: evidence.TypeEmail, Timestamp: &replyAt,
			Email: &evidence.EmailFields{Subject: "Re: Settlement", MessageID: "<m2>", InReplyTo: "<m1>"},
		},
	}
	if _, err := s.InsertEvidence(context.Background(), records); err != nil {
		t.Fatalf("seed: %v", err)
	}
}

func TestEngineRunPersistsEdges(t *testing.T) {
	s := memory.New()
	seedThread(t, s)

	inserted, err := NewEngine(s, Config{}).Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	// One reply edge plus one subject edge (same normalized subject, two
	// hours apart).
	if inserted != 2 {
		t.Fatalf("expected 2 edges, got %d", inserted)
	}

	edges, err := s.QueryRelationships(context.Background())
	if err != nil {
		t.Fatalf("query relationships: %v", err)
	}
	if len(edges) != 2 {
		t.Fatalf("expected 2 stored edges, got %d", len(edges))
	}
	if edges[0].Type != evidence.RelReplyTo || edges[0].Confidence != 1.0 {
		t.Fatalf("unexpected first edge: %+v", edges[0])
	}
	if edges[1].Type != evidence.RelSubject {
		t.Fatalf("unexpected second edge: %+v", edges[1])
	}
}

func TestEngineRepeatedRunsAccumulate(t *testing.T) {
	s := memory.New()
	seedThread(t, s)
	engine := NewEngine(s, Config{})

	first, err := engine.Run(context.Background())
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	second, err := engine.Run(context.Background())
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if second != first {
		t.Fatalf("expected identical pass output, got %d then %d", first, second)
	}

	total, err := s.CountRelationships(context.Background())
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if total != int64(first+second) {
		t.Fatalf("expected %d accumulated edges, got %d", first+second, total)
	}
}

func TestEngineDedupeBeforeInsert(t *testing.T) {
	s := memory.New()
	seedThread(t, s)
	engine := NewEngine(s, Config{DedupeBeforeInsert: true})

	first, err := engine.Run(context.Background())
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	if first != 2 {
		t.Fatalf("expected 2 edges on first run, got %d", first)
	}

	second, err := engine.Run(context.Background())
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if second != 0 {
		t.Fatalf("expected 0 new edges with dedupe on, got %d", second)
	}

	total, err := s.CountRelationships(context.Background())
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if total != 2 {
		t.Fatalf("expected 2 total edges, got %d", total)
	}
}

// failingStore fails AppendRelationship for one relationship type so the
// pass has to skip past it.
type failingStore struct {
	*memory.Store
	failType evidence.RelationshipType
}

func (f *failingStore) AppendRelationship(ctx context.Context, id1, id2 string, relType evidence.RelationshipType, confidence float64) (string, error) {
	if relType == f.failType {
		return "", errors.New("insert refused")
	}
	return f.Store.AppendRelationship(ctx, id1, id2, relType, confidence)
}

func TestEngineSkipsFailedInserts(t *testing.T) {
	s := memory.New()
	seedThread(t, s)
	engine := NewEngine(&failingStore{Store: s, failType: evidence.RelReplyTo}, Config{})

	inserted, err := engine.Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if inserted != 1 {
		t.Fatalf("expected 1 edge after skipping the failed insert, got %d", inserted)
	}

	edges, err := s.QueryRelationships(context.Background())
	if err != nil {
		t.Fatalf("query relationships: %v", err)
	}
	if len(edges) != 1 || edges[0].Type != evidence.RelSubject {
		t.Fatalf("expected only the subject edge, got %+v", edges)
	}
}

func TestEngineEmptyStore(t *testing.T) {
	inserted, err := NewEngine(memory.New(), Config{}).Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if inserted != 0 {
		t.Fatalf("expected 0 edges, got %d", inserted)
	}
}
