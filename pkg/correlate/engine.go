package correlate

import (
	"context"

	"github.com/kestrel-legal/matterlog/backend/pkg/evidence"
	"github.com/kestrel-legal/matterlog/backend/pkg/logger"
)

// DefaultThreshold is the minimum confidence an edge candidate needs before
// it is persisted, unless overridden by Config.
const DefaultThreshold = 0.7

// Config tunes a correlation pass.
type Config struct {
	// Threshold is the minimum confidence for persisting an edge. Zero
	// means DefaultThreshold.
	Threshold float64

	// DedupeBeforeInsert skips candidates whose endpoint pair and type
	// already exist in the store (or earlier in the same pass). Off by
	// default: passes are additive and repeated runs accumulate edges.
	DedupeBeforeInsert bool
}

func (c Config) threshold() float64 {
	if c.Threshold <= 0 {
		return DefaultThreshold
	}
	return c.Threshold
}

// Candidate is an edge proposed by a linker, not yet persisted.
type Candidate struct {
	ID1        string
	ID2        string
	Type       evidence.RelationshipType
	Confidence float64
}

func (c Candidate) pairKey() string {
	return evidence.Edge{EvidenceID1: c.ID1, EvidenceID2: c.ID2, Type: c.Type}.PairKey()
}

// Linker proposes edges from a read-only evidence snapshot. Implementations
// are pure: same snapshot in, same candidates out, no store access.
type Linker interface {
	Name() string
	Link(records []evidence.Record) []Candidate
}

// Store is the slice of persistence the engine needs.
type Store interface {
	QueryEvidence(ctx context.Context, filter evidence.Filter) ([]evidence.Record, error)
	AppendRelationship(ctx context.Context, id1, id2 string, relType evidence.RelationshipType, confidence float64) (string, error)
	QueryRelationships(ctx context.Context) ([]evidence.Edge, error)
}

// Engine runs the correlation heuristics over a snapshot of the evidence
// store and persists the resulting edges. One Run is a single synchronous
// pass; callers control cadence and must not run two passes concurrently
// over the same mutating store.
type Engine struct {
	store   Store
	cfg     Config
	linkers []Linker
}

// NewEngine builds an engine with the standard linkers in their fixed
// order: reply chains, references, conversations, subjects, chat
// sequences, call follow-ups.
func NewEngine(store Store, cfg Config) *Engine {
	threshold := cfg.threshold()
	return &Engine{
		store: store,
		cfg:   cfg,
		linkers: []Linker{
			&ReplyToLinker{},
			&ReferenceLinker{},
			&ConversationLinker{},
			&SubjectLinker{Threshold: threshold},
			&ChatSequenceLinker{},
			&CallFollowedByLinker{Threshold: threshold},
		},
	}
}

// Run loads one snapshot, collects candidates from every linker, and
// persists them in order. A failed insert is logged and skipped; the pass
// never aborts on a single edge. It returns the number of edges persisted.
func (e *Engine) Run(ctx context.Context) (int, error) {
	snapshot, err := e.store.QueryEvidence(ctx, evidence.Filter{})
	if err != nil {
		return 0, err
	}

	candidates := make([]Candidate, 0)
	for _, linker := range e.linkers {
		found := linker.Link(snapshot)
		logger.Debug("[Correlate][Run] Linker finished", "linker", linker.Name(), "candidates", len(found))
		candidates = append(candidates, found...)
	}

	var seen map[string]struct{}
	if e.cfg.DedupeBeforeInsert {
		existing, err := e.store.QueryRelationships(ctx)
		if err != nil {
			return 0, err
		}
		seen = make(map[string]struct{}, len(existing))
		for _, edge := range existing {
			seen[edge.PairKey()] = struct{}{}
		}
	}

	inserted := 0
	for _, c := range candidates {
		if seen != nil {
			key := c.pairKey()
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
		}

		if _, err := e.store.AppendRelationship(ctx, c.ID1, c.ID2, c.Type, c.Confidence); err != nil {
			logger.Warn("[Correlate][Run] Skipping edge", "type", c.Type, "id1", c.ID1, "id2", c.ID2, "error", err)
			continue
		}
		inserted++
	}

	logger.Info("[Correlate][Run] Pass complete", "evidence", len(snapshot), "candidates", len(candidates), "inserted", inserted)
	return inserted, nil
}
