package draft

import (
	"context"
	"sync"
)

// MemoryStore keeps drafts in process memory. It backs tests and serves as
// the degraded mode when no database is configured or the database is
// unreachable. Drafts held here do not survive a restart.
type MemoryStore struct {
	mu         sync.RWMutex
	drafts     map[string]Snapshot
	exports    map[string][]ExportRecord
	historyCap int
}

// NewMemoryStore creates an empty in-memory store. A historyCap of zero
// falls back to the default cap.
func NewMemoryStore(historyCap int) *MemoryStore {
	if historyCap <= 0 {
		historyCap = DefaultExportHistoryCap
	}
	return &MemoryStore{
		drafts:     make(map[string]Snapshot),
		exports:    make(map[string][]ExportRecord),
		historyCap: historyCap,
	}
}

func (s *MemoryStore) PutDraft(_ context.Context, snap Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drafts[snap.SessionID] = snap
	return nil
}

func (s *MemoryStore) GetDraft(_ context.Context, sessionID string) (*Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap, ok := s.drafts[sessionID]
	if !ok {
		return nil, nil
	}
	return &snap, nil
}

func (s *MemoryStore) DeleteDraft(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.drafts, sessionID)
	return nil
}

func (s *MemoryStore) AppendExport(_ context.Context, rec ExportRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := append(s.exports[rec.SessionID], rec)
	if len(list) > s.historyCap {
		list = list[len(list)-s.historyCap:]
	}
	s.exports[rec.SessionID] = list
	return nil
}

func (s *MemoryStore) Exports(_ context.Context, sessionID string) ([]ExportRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	list := s.exports[sessionID]
	out := make([]ExportRecord, len(list))
	copy(out, list)
	return out, nil
}

func (s *MemoryStore) Close() {}
