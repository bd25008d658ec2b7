package pgx

import (
	"context"
	"sort"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/kestrel-legal/matterlog/backend/pkg/evidence"
	"github.com/kestrel-legal/matterlog/backend/pkg/store"
)

func (s *EvidenceDBStorage) CreateProject(ctx context.Context, p evidence.Project) (string, error) {
	if p.ID == "" {
		id, err := gonanoid.New()
		if err != nil {
			return "", err
		}
		p.ID = id
	}

	_, err := s.conn.Exec(ctx, `
		INSERT INTO projects (id, name, description, start_date, end_date)
		VALUES ($1, $2, $3, $4, $5)`,
		p.ID, p.Name, p.Description, p.Start, p.End,
	)
	if err != nil {
		return "", err
	}
	return p.ID, nil
}

func (s *EvidenceDBStorage) ListProjects(ctx context.Context) ([]evidence.Project, error) {
	rows, err := s.conn.Query(ctx, `
		SELECT id, name, description, start_date, end_date, created_at
		FROM projects
		ORDER BY start_date ASC NULLS FIRST, id ASC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]evidence.Project, 0)
	for rows.Next() {
		var (
			p       evidence.Project
			created time.Time
		)
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Start, &p.End, &created); err != nil {
			return nil, err
		}
		p.CreatedAt = created
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *EvidenceDBStorage) LinkEvidenceToProject(ctx context.Context, evidenceID, projectID string) (string, error) {
	id, err := gonanoid.New()
	if err != nil {
		return "", err
	}

	var exists bool
	err = s.conn.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM evidence WHERE id = $1)`, evidenceID).Scan(&exists)
	if err != nil {
		return "", err
	}
	if !exists {
		return "", store.ErrNotFound
	}

	_, err = s.conn.Exec(ctx, `
		INSERT INTO evidence_project_links (id, evidence_id, project_id)
		VALUES ($1, $2, $3)`,
		id, evidenceID, projectID,
	)
	if err != nil {
		return "", err
	}
	return id, nil
}

func (s *EvidenceDBStorage) GetEvidenceForProject(ctx context.Context, projectID string) ([]evidence.Record, error) {
	rows, err := s.conn.Query(ctx, `
		SELECT `+evidenceColumns+`
		FROM evidence e
		JOIN evidence_project_links l ON l.evidence_id = e.id
		WHERE l.project_id = $1
		ORDER BY e.occurred_at ASC NULLS FIRST, e.id ASC`,
		projectID,
	)
	if err != nil {
		return nil, err
	}
	return collectRecords(rows)
}

func sortRecordsByTimestamp(records []evidence.Record) {
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
