package draft

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore persists drafts in two tables. The snapshot body is stored
// as jsonb so schema evolution happens in Go, not in migrations.
type PostgresStore struct {
	pool       *pgxpool.Pool
	historyCap int
}

const createTablesSQL = `
CREATE TABLE IF NOT EXISTS protocol_drafts (
	session_id     TEXT PRIMARY KEY,
	schema_version INT NOT NULL,
	body           JSONB NOT NULL,
	saved_at       TIMESTAMPTZ NOT NULL
);
CREATE TABLE IF NOT EXISTS protocol_exports (
	id            BIGSERIAL PRIMARY KEY,
	session_id    TEXT NOT NULL,
	document_type TEXT NOT NULL,
	file_name     TEXT NOT NULL,
	exported_at   TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_protocol_exports_session
	ON protocol_exports (session_id, id);
`

// NewPostgresStore ensures the tables exist and returns a store bound to
// the pool. A historyCap of zero falls back to the default cap.
func NewPostgresStore(ctx context.Context, pool *pgxpool.Pool, historyCap int) (*PostgresStore, error) {
	if historyCap <= 0 {
		historyCap = DefaultExportHistoryCap
	}
	if _, err := pool.Exec(ctx, createTablesSQL); err != nil {
		return nil, fmt.Errorf("draft: create tables: %w", err)
	}
	return &PostgresStore{pool: pool, historyCap: historyCap}, nil
}

func (s *PostgresStore) PutDraft(ctx context.Context, snap Snapshot) error {
	body, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("draft: marshal snapshot: %w", err)
	}
	_, err = s.pool.Exec(ctx, `
		INSERT INTO protocol_drafts (session_id, schema_version, body, saved_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (session_id) DO UPDATE
			SET schema_version = EXCLUDED.schema_version,
			    body = EXCLUDED.body,
			    saved_at = EXCLUDED.saved_at`,
		snap.SessionID, snap.SchemaVersion, body, snap.SavedAt)
	if err != nil {
		return fmt.Errorf("draft: put draft: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetDraft(ctx context.Context, sessionID string) (*Snapshot, error) {
	var (
		version int
		body    []byte
	)
	err := s.pool.QueryRow(ctx,
		`SELECT schema_version, body FROM protocol_drafts WHERE session_id = $1`,
		sessionID).Scan(&version, &body)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("draft: get draft: %w", err)
	}
	if version > SchemaVersion {
		return nil, fmt.Errorf("draft: snapshot schema %d is newer than supported %d", version, SchemaVersion)
	}

	var snap Snapshot
	if err := json.Unmarshal(body, &snap); err != nil {
		return nil, fmt.Errorf("draft: unmarshal snapshot: %w", err)
	}
	return &snap, nil
}

func (s *PostgresStore) DeleteDraft(ctx context.Context, sessionID string) error {
	if _, err := s.pool.Exec(ctx,
		`DELETE FROM protocol_drafts WHERE session_id = $1`, sessionID); err != nil {
		return fmt.Errorf("draft: delete draft: %w", err)
	}
	return nil
}

func (s *PostgresStore) AppendExport(ctx context.Context, rec ExportRecord) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO protocol_exports (session_id, document_type, file_name, exported_at)
		VALUES ($1, $2, $3, $4)`,
		rec.SessionID, rec.DocumentType, rec.FileName, rec.ExportedAt)
	if err != nil {
		return fmt.Errorf("draft: append export: %w", err)
	}

	// Evict everything beyond the newest historyCap records.
	_, err = s.pool.Exec(ctx, `
		DELETE FROM protocol_exports
		WHERE session_id = $1 AND id NOT IN (
			SELECT id FROM protocol_exports
			WHERE session_id = $1
			ORDER BY id DESC
			LIMIT $2
		)`, rec.SessionID, s.historyCap)
	if err != nil {
		return fmt.Errorf("draft: trim export history: %w", err)
	}
	return nil
}

func (s *PostgresStore) Exports(ctx context.Context, sessionID string) ([]ExportRecord, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT session_id, document_type, file_name, exported_at
		FROM protocol_exports
		WHERE session_id = $1
		ORDER BY id`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("draft: list exports: %w", err)
	}
	defer rows.Close()

	var out []ExportRecord
	for rows.Next() {
		var rec ExportRecord
		if err := rows.Scan(&rec.SessionID, &rec.DocumentType, &rec.FileName, &rec.ExportedAt); err != nil {
			return nil, fmt.Errorf("draft: scan export: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("draft: list exports: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) Close() {
	s.pool.Close()
}
