package workflow

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/SBreitkreuz/pruefdoc/internal/draft"
)

// Manager owns the live sessions and their persistence. One manager serves
// the whole process.
type Manager struct {
	store     draft.Store
	persister *Persister

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewManager creates a manager backed by the given draft store.
func NewManager(store draft.Store, debounce time.Duration) *Manager {
	m := &Manager{
		store:    store,
		sessions: make(map[string]*Session),
	}
	m.persister = NewPersister(store, debounce)
	return m
}

// Create starts a new session. If the store holds a draft under the new
// session ID (never for random IDs, but possible for caller-chosen ones)
// it is ignored; use Resume to load a draft.
func (m *Manager) Create() *Session {
	sess := NewSession(uuid.NewString())
	sess.Subscribe(m.persister.ObserverFor(sess))

	m.mu.Lock()
	m.sessions[sess.ID] = sess
	m.mu.Unlock()

	slog.Info("session created", "session", sess.ID)
	return sess
}

// Get returns a live session by ID.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	sess, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("session not found: %s", id)
	}
	return sess, nil
}

// Resume loads a persisted draft into a live session. If the session is
// already live it is returned as-is; a persisted draft never overwrites
// live state. Returns an error when neither exists.
func (m *Manager) Resume(ctx context.Context, id string) (*Session, error) {
	m.mu.RLock()
	sess, ok := m.sessions[id]
	m.mu.RUnlock()
	if ok {
		return sess, nil
	}

	snap, err := m.store.GetDraft(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("resume: %w", err)
	}
	if snap == nil {
		return nil, fmt.Errorf("session not found: %s", id)
	}

	sess = NewSession(id)
	sess.Restore(*snap)
	sess.Subscribe(m.persister.ObserverFor(sess))

	m.mu.Lock()
	m.sessions[id] = sess
	m.mu.Unlock()

	slog.Info("session resumed from draft", "session", id, "savedAt", snap.SavedAt)
	return sess, nil
}

// Delete discards a live session and its persisted draft.
func (m *Manager) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()

	m.persister.Cancel(id)
	if err := m.store.DeleteDraft(ctx, id); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	slog.Info("session deleted", "session", id)
	return nil
}

// ForcePersist writes a session's draft immediately, bypassing the
// debounce window.
func (m *Manager) ForcePersist(ctx context.Context, id string) error {
	sess, err := m.Get(id)
	if err != nil {
		return err
	}
	m.persister.Flush(ctx, sess)
	return nil
}

// RecordExport appends an export to the session's history.
func (m *Manager) RecordExport(ctx context.Context, rec draft.ExportRecord) error {
	return m.store.AppendExport(ctx, rec)
}

// Exports returns the export history of a session.
func (m *Manager) Exports(ctx context.Context, id string) ([]draft.ExportRecord, error) {
	return m.store.Exports(ctx, id)
}

// Shutdown flushes every dirty session synchronously. Called during
// graceful shutdown so no debounced write is lost.
func (m *Manager) Shutdown(ctx context.Context) {
	m.mu.RLock()
	sessions := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		sessions = append(sessions, s)
	}
	m.mu.RUnlock()

	for _, s := range sessions {
		m.persister.Flush(ctx, s)
	}
	m.persister.Stop()
}
