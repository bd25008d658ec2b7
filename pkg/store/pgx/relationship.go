package pgx

import (
	"context"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/kestrel-legal/matterlog/backend/pkg/evidence"
)

func (s *EvidenceDBStorage) AppendRelationship(ctx context.Context, id1, id2 string, relType evidence.RelationshipType, confidence float64) (string, error) {
	id, err := gonanoid.New()
	if err != nil {
		return "", err
	}

	_, err = s.conn.Exec(ctx, `
		INSERT INTO evidence_relationships (id, evidence_id_1, evidence_id_2, relationship_type, confidence)
		VALUES ($1, $2, $3, $4, $5)`,
		id, id1, id2, string(relType), confidence,
	)
	if err != nil {
		return "", err
	}
	return id, nil
}

func (s *EvidenceDBStorage) QueryRelationships(ctx context.Context) ([]evidence.Edge, error) {
	rows, err := s.conn.Query(ctx, `
		SELECT id, evidence_id_1, evidence_id_2, relationship_type, confidence, created_at
		FROM evidence_relationships
		ORDER BY created_at ASC, id ASC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]evidence.Edge, 0)
	for rows.Next() {
		var (
			e       evidence.Edge
			relType string
			created time.Time
		)
		if err := rows.Scan(&e.ID, &e.EvidenceID1, &e.EvidenceID2, &relType, &e.Confidence, &created); err != nil {
			return nil, err
		}
		e.Type = evidence.RelationshipType(relType)
		e.CreatedAt = created
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *EvidenceDBStorage) CountRelationships(ctx context.Context) (int64, error) {
	var n int64
	err := s.conn.QueryRow(ctx, `SELECT COUNT(*) FROM evidence_relationships`).Scan(&n)
	return n, err
}

func (s *EvidenceDBStorage) GetRelatedEvidence(ctx context.Context, id string) ([]evidence.Record, error) {
	// Resolve both edge directions and collapse duplicate neighbors.
	rows, err := s.conn.Query(ctx, `
		SELECT DISTINCT ON (e.id) `+evidenceColumns+`
		FROM evidence e
		JOIN evidence_relationships r
			ON (r.evidence_id_1 = $1 AND r.evidence_id_2 = e.id)
			OR (r.evidence_id_2 = $1 AND r.evidence_id_1 = e.id)
		ORDER BY e.id`,
		id,
	)
	if err != nil {
		return nil, err
	}
	records, err := collectRecords(rows)
	if err != nil {
		return nil, err
	}
	sortRecordsByTimestamp(records)
	return records, nil
}
