package store

import (
	"context"
	"errors"

	"github.com/kestrel-legal/matterlog/backend/pkg/evidence"
)

// ErrNotFound is returned when a lookup by id matches no record.
var ErrNotFound = errors.New("store: not found")

// EvidenceStorage is the persistence surface consumed by the correlation
// engine, the docket linker, the project clusterer, and the HTTP layer.
//
// Query results are read-only snapshots: implementations return copies, and
// mutating a returned value never changes stored state. AppendRelationship
// must be safe for concurrent use; each insert is independent and
// order-insensitive. Evidence is append/update only; nothing deletes
// records except ClearCase.
type EvidenceStorage interface {
	// InsertEvidence stores a batch of normalized records, replacing any
	// existing record with the same id. It returns the number stored;
	// per-record failures are skipped, not fatal.
	InsertEvidence(ctx context.Context, records []evidence.Record) (int, error)

	// QueryEvidence returns all records passing the filter in ascending
	// timestamp order. Records without a timestamp sort first.
	QueryEvidence(ctx context.Context, filter evidence.Filter) ([]evidence.Record, error)

	// GetEvidenceByID returns a single record or ErrNotFound.
	GetEvidenceByID(ctx context.Context, id string) (*evidence.Record, error)

	// UpdateEvidenceContact applies contact enrichment to one record.
	UpdateEvidenceContact(ctx context.Context, id, name, email string) error

	// AppendRelationship inserts one edge and returns its id. Duplicate
	// pairs are permitted; the store never deduplicates.
	AppendRelationship(ctx context.Context, id1, id2 string, relType evidence.RelationshipType, confidence float64) (string, error)

	// QueryRelationships returns every stored edge.
	QueryRelationships(ctx context.Context) ([]evidence.Edge, error)

	// CountRelationships returns the number of stored edges.
	CountRelationships(ctx context.Context) (int64, error)

	// GetRelatedEvidence returns the records connected to id through any
	// edge, resolving either endpoint.
	GetRelatedEvidence(ctx context.Context, id string) ([]evidence.Record, error)

	// CountEvidence returns the number of records of the given type, or of
	// all types when t is empty.
	CountEvidence(ctx context.Context, t evidence.Type) (int64, error)

	// CreateProject persists an accepted project and returns its id.
	CreateProject(ctx context.Context, p evidence.Project) (string, error)

	// ListProjects returns all projects in ascending start order.
	ListProjects(ctx context.Context) ([]evidence.Project, error)

	// LinkEvidenceToProject attaches a record to a project.
	LinkEvidenceToProject(ctx context.Context, evidenceID, projectID string) (string, error)

	// GetEvidenceForProject returns a project's records in ascending
	// timestamp order.
	GetEvidenceForProject(ctx context.Context, projectID string) ([]evidence.Record, error)

	// RegisterUpload records a raw source file hand-off.
	RegisterUpload(ctx context.Context, u evidence.Upload) (string, error)

	// ListUploads returns registered uploads, newest first.
	ListUploads(ctx context.Context, includeArchived bool) ([]evidence.Upload, error)

	// ClearCase saves a named backup marker, deletes all evidence, edges,
	// projects and links, archives uploads, and returns the backup id.
	ClearCase(ctx context.Context, backupName, description string) (string, error)
}
