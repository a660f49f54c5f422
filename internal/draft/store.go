// Package draft persists in-progress protocol sessions so a browser reload
// or server restart does not lose work. Snapshots are whole-record writes
// keyed by session ID, not incremental diffs.
package draft

import (
	"context"
	"time"

	"github.com/SBreitkreuz/pruefdoc/internal/protocol"
)

// SchemaVersion is written into every snapshot. Stores refuse snapshots
// from a newer schema on restore instead of guessing.
const SchemaVersion = 1

// DefaultExportHistoryCap bounds the export history per session. When the
// cap is exceeded the oldest records are evicted.
const DefaultExportHistoryCap = 10

// Snapshot is one persisted state of a session.
type Snapshot struct {
	SchemaVersion int                      `json:"schemaVersion"`
	SessionID     string                   `json:"sessionId"`
	Metadata      protocol.Metadata        `json:"metadata"`
	Positions     []protocol.PositionEntry `json:"positions"`
	Results       protocol.Results         `json:"results"`
	Step          string                   `json:"step"`
	SavedAt       time.Time                `json:"savedAt"`
}

// ExportRecord is one completed export of a session.
type ExportRecord struct {
	SessionID    string    `json:"sessionId"`
	DocumentType string    `json:"documentType"`
	FileName     string    `json:"fileName"`
	ExportedAt   time.Time `json:"exportedAt"`
}

// Store is the persistence contract. GetDraft returns (nil, nil) when no
// draft exists for the session.
type Store interface {
	PutDraft(ctx context.Context, snap Snapshot) error
	GetDraft(ctx context.Context, sessionID string) (*Snapshot, error)
	DeleteDraft(ctx context.Context, sessionID string) error
	AppendExport(ctx context.Context, rec ExportRecord) error
	Exports(ctx context.Context, sessionID string) ([]ExportRecord, error)
	Close()
}
