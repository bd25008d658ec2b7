package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/kestrel-legal/matterlog/backend/pkg/evidence"
	"github.com/kestrel-legal/matterlog/backend/pkg/store"
)

// Store is an in-memory EvidenceStorage. It backs tests and embedded use;
// all methods are safe for concurrent callers.
type Store struct {
	mu       sync.RWMutex
	records  map[string]evidence.Record
	edges    []evidence.Edge
	projects []evidence.Project
	links    map[string][]string // project id -> evidence ids
	uploads  []evidence.Upload
	backups  []backup
}

type backup struct {
	id          string
	name        string
	description string
	createdAt   time.Time
}

func New() *Store {
	return &Store{
		records: make(map[string]evidence.Record),
		links:   make(map[string][]string),
	}
}

var _ store.EvidenceStorage = (*Store)(nil)

func (s *Store) InsertEvidence(ctx context.Context, records []evidence.Record) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for _, r := range records {
		if r.ID == "" {
			id, err := gonanoid.New()
			if err != nil {
				continue
			}
			r.ID = id
		}
		if r.CreatedAt.IsZero() {
			r.CreatedAt = time.Now().UTC()
		}
		s.records[r.ID] = r.Clone()
		count++
	}
	return count, nil
}

func (s *Store) QueryEvidence(ctx context.Context, filter evidence.Filter) ([]evidence.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]evidence.Record, 0, len(s.records))
	for _, r := range s.records {
		if filter.Matches(r) {
			out = append(out, r.Clone())
		}
	}
	sortByTimestamp(out)
	return out, nil
}

// sortByTimestamp orders records ascending; records without a timestamp
// sort first. Ties break on id so results are deterministic.
func sortByTimestamp(records []evidence.Record) {
	sort.SliceStable(records, func(i, j int) bool {
		ti, tj := records[i].Timestamp, records[j].Timestamp
		switch {
		case ti == nil && tj == nil:
			return records[i].ID < records[j].ID
		case ti == nil:
			return true
		case tj == nil:
			return false
		case ti.Equal(*tj):
			return records[i].ID < records[j].ID
		default:
			return ti.Before(*tj)
		}
	})
}

func (s *Store) GetEvidenceByID(ctx context.Context, id string) (*evidence.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.records[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	clone := r.Clone()
	return &clone, nil
}

func (s *Store) UpdateEvidenceContact(ctx context.Context, id, name, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.records[id]
	if !ok {
		return store.ErrNotFound
	}
	r.Contact = name
	r.ContactEmail = email
	s.records[id] = r
	return nil
}

func (s *Store) AppendRelationship(ctx context.Context, id1, id2 string, relType evidence.RelationshipType, confidence float64) (string, error) {
	id, err := gonanoid.New()
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[id1]; !ok {
		return "", store.ErrNotFound
	}
	if _, ok := s.records[id2]; !ok {
		return "", store.ErrNotFound
	}

	s.edges = append(s.edges, evidence.Edge{
		ID:          id,
		EvidenceID1: id1,
		EvidenceID2: id2,
		Type:        relType,
		Confidence:  confidence,
		CreatedAt:   time.Now().UTC(),
	})
	return id, nil
}

func (s *Store) QueryRelationships(ctx context.Context) ([]evidence.Edge, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]evidence.Edge, len(s.edges))
	copy(out, s.edges)
	return out, nil
}

func (s *Store) CountRelationships(ctx context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.edges)), nil
}

func (s *Store) GetRelatedEvidence(ctx context.Context, id string) ([]evidence.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]struct{})
	out := make([]evidence.Record, 0)
	for _, e := range s.edges {
		var other string
		switch id {
		case e.EvidenceID1:
			other = e.EvidenceID2
		case e.EvidenceID2:
			other = e.EvidenceID1
		default:
			continue
		}
		if _, ok := seen[other]; ok {
			continue
		}
		seen[other] = struct{}{}
		if r, ok := s.records[other]; ok {
			out = append(out, r.Clone())
		}
	}
	sortByTimestamp(out)
	return out, nil
}

func (s *Store) CountEvidence(ctx context.Context, t evidence.Type) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if t == "" {
		return int64(len(s.records)), nil
	}
	var n int64
	for _, r := range s.records {
		if r.Type == t {
			n++
		}
	}
	return n, nil
}

func (s *Store) CreateProject(ctx context.Context, p evidence.Project) (string, error) {
	if p.ID == "" {
		id, err := gonanoid.New()
		if err != nil {
			return "", err
		}
		p.ID = id
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.projects = append(s.projects, p)
	return p.ID, nil
}

func (s *Store) ListProjects(ctx context.Context) ([]evidence.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]evidence.Project, len(s.projects))
	copy(out, s.projects)
	sort.SliceStable(out, func(i, j int) bool {
		si, sj := out[i].Start, out[j].Start
		switch {
		case si == nil && sj == nil:
			return out[i].ID < out[j].ID
		case si == nil:
			return true
		case sj == nil:
			return false
		default:
			return si.Before(*sj)
		}
	})
	return out, nil
}

func (s *Store) LinkEvidenceToProject(ctx context.Context, evidenceID, projectID string) (string, error) {
	id, err := gonanoid.New()
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[evidenceID]; !ok {
		return "", store.ErrNotFound
	}
	s.links[projectID] = append(s.links[projectID], evidenceID)
	return id, nil
}

func (s *Store) GetEvidenceForProject(ctx context.Context, projectID string) ([]evidence.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]evidence.Record, 0)
	for _, id := range s.links[projectID] {
		if r, ok := s.records[id]; ok {
			out = append(out, r.Clone())
		}
	}
	sortByTimestamp(out)
	return out, nil
}

func (s *Store) RegisterUpload(ctx context.Context, u evidence.Upload) (string, error) {
	if u.ID == "" {
		id, err := gonanoid.New()
		if err != nil {
			return "", err
		}
		u.ID = id
	}
	if u.UploadedAt.IsZero() {
		u.UploadedAt = time.Now().UTC()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.uploads = append(s.uploads, u)
	return u.ID, nil
}

func (s *Store) ListUploads(ctx context.Context, includeArchived bool) ([]evidence.Upload, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]evidence.Upload, 0, len(s.uploads))
	for _, u := range s.uploads {
		if !includeArchived && u.Archived {
			continue
		}
		out = append(out, u)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].UploadedAt.After(out[j].UploadedAt)
	})
	return out, nil
}

func (s *Store) ClearCase(ctx context.Context, backupName, description string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.New().String()
	s.backups = append(s.backups, backup{
		id:          id,
		name:        backupName,
		description: description,
		createdAt:   time.Now().UTC(),
	})

	s.records = make(map[string]evidence.Record)
	s.edges = nil
	s.projects = nil
	s.links = make(map[string][]string)
	for i := range s.uploads {
		s.uploads[i].Archived = true
	}
	return id, nil
}
