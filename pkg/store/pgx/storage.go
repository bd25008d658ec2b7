package pgx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	pgxv5 "github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/kestrel-legal/matterlog/backend/pkg/evidence"
	"github.com/kestrel-legal/matterlog/backend/pkg/logger"
	"github.com/kestrel-legal/matterlog/backend/pkg/store"
)

type pgxIConn interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, optionsAndArgs ...any) (pgxv5.Rows, error)
	QueryRow(ctx context.Context, sql string, optionsAndArgs ...any) pgxv5.Row
	Begin(ctx context.Context) (pgxv5.Tx, error)
}

// EvidenceDBStorage implements store.EvidenceStorage on PostgreSQL. The
// typed payload of each record is kept as jsonb alongside the columns the
// queries filter and sort on.
type EvidenceDBStorage struct {
	conn pgxIConn
}

var _ store.EvidenceStorage = (*EvidenceDBStorage)(nil)

// NewEvidenceDBStorageWithConnection creates an EvidenceDBStorage using an
// existing database connection or pool.
func NewEvidenceDBStorageWithConnection(conn pgxIConn) *EvidenceDBStorage {
	return &EvidenceDBStorage{conn: conn}
}

func (s *EvidenceDBStorage) InsertEvidence(ctx context.Context, records []evidence.Record) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}

	tx, err := s.conn.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)

	count := 0
	for _, r := range records {
		if r.ID == "" {
			id, err := gonanoid.New()
			if err != nil {
				return count, err
			}
			r.ID = id
		}

		data, err := json.Marshal(r)
		if err != nil {
			logger.Warn("[Store][InsertEvidence] Skipping unmarshalable record", "id", r.ID, "error", err)
			continue
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO evidence (id, evidence_type, occurred_at, contact, contact_email, data)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (id) DO UPDATE SET
				evidence_type = EXCLUDED.evidence_type,
				occurred_at = EXCLUDED.occurred_at,
				contact = EXCLUDED.contact,
				contact_email = EXCLUDED.contact_email,
				data = EXCLUDED.data`,
			r.ID, string(r.Type), r.Timestamp, r.Contact, r.ContactEmail, data,
		)
		if err != nil {
			logger.Warn("[Store][InsertEvidence] Skipping record", "id", r.ID, "error", err)
			continue
		}
		count++
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return count, nil
}

const evidenceColumns = `id, evidence_type, occurred_at, contact, contact_email, data, created_at`

func scanRecord(row pgxv5.Row) (evidence.Record, error) {
	var (
		r         evidence.Record
		id        string
		evType    string
		ts        *time.Time
		contact   string
		email     string
		data      []byte
		createdAt time.Time
	)
	if err := row.Scan(&id, &evType, &ts, &contact, &email, &data, &createdAt); err != nil {
		return evidence.Record{}, err
	}
	if err := json.Unmarshal(data, &r); err != nil {
		return evidence.Record{}, fmt.Errorf("decode evidence %s: %w", id, err)
	}
	// Columns are authoritative: contact enrichment updates them without
	// rewriting the jsonb payload.
	r.ID = id
	r.Type = evidence.Type(evType)
	r.Timestamp = ts
	r.Contact = contact
	r.ContactEmail = email
	r.CreatedAt = createdAt
	return r, nil
}

func collectRecords(rows pgxv5.Rows) ([]evidence.Record, error) {
	defer rows.Close()

	out := make([]evidence.Record, 0)
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *EvidenceDBStorage) QueryEvidence(ctx context.Context, filter evidence.Filter) ([]evidence.Record, error) {
	// NULLS FIRST keeps undated records at the front of every timeline.
	query := `SELECT ` + evidenceColumns + ` FROM evidence WHERE 1=1`
	args := make([]any, 0, 3)

	if filter.Type != "" {
		args = append(args, string(filter.Type))
		query += fmt.Sprintf(" AND evidence_type = $%d", len(args))
	}
	if filter.Start != nil {
		args = append(args, *filter.Start)
		query += fmt.Sprintf(" AND occurred_at >= $%d", len(args))
	}
	if filter.End != nil {
		args = append(args, *filter.End)
		query += fmt.Sprintf(" AND occurred_at <= $%d", len(args))
	}
	query += " ORDER BY occurred_at ASC NULLS FIRST, id ASC"

	rows, err := s.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return collectRecords(rows)
}

func (s *EvidenceDBStorage) GetEvidenceByID(ctx context.Context, id string) (*evidence.Record, error) {
	row := s.conn.QueryRow(ctx, `SELECT `+evidenceColumns+` FROM evidence WHERE id = $1`, id)
	r, err := scanRecord(row)
	if errors.Is(err, pgxv5.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (s *EvidenceDBStorage) UpdateEvidenceContact(ctx context.Context, id, name, email string) error {
	tag, err := s.conn.Exec(ctx,
		`UPDATE evidence SET contact = $2, contact_email = $3 WHERE id = $1`,
		id, name, email,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *EvidenceDBStorage) CountEvidence(ctx context.Context, t evidence.Type) (int64, error) {
	var n int64
	var err error
	if t == "" {
		err = s.conn.QueryRow(ctx, `SELECT COUNT(*) FROM evidence`).Scan(&n)
	} else {
		err = s.conn.QueryRow(ctx, `SELECT COUNT(*) FROM evidence WHERE evidence_type = $1`, string(t)).Scan(&n)
	}
	return n, err
}
