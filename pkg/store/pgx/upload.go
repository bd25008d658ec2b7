package pgx

import (
	"context"
	"time"

	"github.com/google/uuid"
	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/kestrel-legal/matterlog/backend/pkg/evidence"
	"github.com/kestrel-legal/matterlog/backend/pkg/logger"
)

func (s *EvidenceDBStorage) RegisterUpload(ctx context.Context, u evidence.Upload) (string, error) {
	if u.ID == "" {
		id, err := gonanoid.New()
		if err != nil {
			return "", err
		}
		u.ID = id
	}

	_, err := s.conn.Exec(ctx, `
		INSERT INTO uploads (id, file_name, file_type, file_key, record_count, archived)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		u.ID, u.FileName, u.FileType, u.FileKey, u.RecordCount, u.Archived,
	)
	if err != nil {
		return "", err
	}
	return u.ID, nil
}

func (s *EvidenceDBStorage) ListUploads(ctx context.Context, includeArchived bool) ([]evidence.Upload, error) {
	query := `
		SELECT id, file_name, file_type, file_key, record_count, archived, uploaded_at
		FROM uploads`
	if !includeArchived {
		query += ` WHERE archived = FALSE`
	}
	query += ` ORDER BY uploaded_at DESC, id ASC`

	rows, err := s.conn.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]evidence.Upload, 0)
	for rows.Next() {
		var (
			u        evidence.Upload
			uploaded time.Time
		)
		if err := rows.Scan(&u.ID, &u.FileName, &u.FileType, &u.FileKey, &u.RecordCount, &u.Archived, &uploaded); err != nil {
			return nil, err
		}
		u.UploadedAt = uploaded
		out = append(out, u)
	}
	return out, rows.Err()
}

// ClearCase wipes the case inside a single transaction so a failed clear
// leaves the evidence intact. Uploads are archived rather than deleted; the
// raw files stay available for re-ingestion.
func (s *EvidenceDBStorage) ClearCase(ctx context.Context, backupName, description string) (string, error) {
	backupID := uuid.New().String()

	tx, err := s.conn.Begin(ctx)
	if err != nil {
		return "", err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO project_backups (id, name, description)
		VALUES ($1, $2, $3)`,
		backupID, backupName, description,
	)
	if err != nil {
		return "", err
	}

	for _, stmt := range []string{
		`DELETE FROM evidence_project_links`,
		`DELETE FROM evidence_relationships`,
		`DELETE FROM projects`,
		`DELETE FROM evidence`,
		`UPDATE uploads SET archived = TRUE`,
	} {
		if _, err := tx.Exec(ctx, stmt); err != nil {
			return "", err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return "", err
	}

	logger.Info("[Store][ClearCase] Case cleared", "backup_id", backupID, "name", backupName)
	return backupID, nil
}
