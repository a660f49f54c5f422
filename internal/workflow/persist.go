package workflow

// persist.go provides debounced draft persistence. Every mutation schedules
// a write; rapid edits collapse into one write after the debounce window.
// Persistence failures are logged and never fail the mutation that
// triggered them, because the live session still holds the data.

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/SBreitkreuz/pruefdoc/internal/draft"
	"github.com/SBreitkreuz/pruefdoc/internal/validate"
)

// DefaultPersistDebounce is the write delay applied after a mutation.
const DefaultPersistDebounce = 2 * time.Second

// persistTimeout bounds a single store write.
const persistTimeout = 10 * time.Second

// Persister writes session snapshots to the draft store, coalescing bursts
// of mutations into single writes.
type Persister struct {
	store    draft.Store
	debounce time.Duration

	mu     sync.Mutex
	timers map[string]*time.Timer
	closed bool
}

// NewPersister creates a persister. A debounce of zero falls back to the
// default window.
func NewPersister(store draft.Store, debounce time.Duration) *Persister {
	if debounce <= 0 {
		debounce = DefaultPersistDebounce
	}
	return &Persister{
		store:    store,
		debounce: debounce,
		timers:   make(map[string]*time.Timer),
	}
}

// Schedule arms the debounce timer for a session. An already armed timer
// is reset, so only the last mutation in a burst triggers a write.
func (p *Persister) Schedule(sess *Session) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}

	if t, ok := p.timers[sess.ID]; ok {
		t.Reset(p.debounce)
		return
	}
	p.timers[sess.ID] = time.AfterFunc(p.debounce, func() {
		p.mu.Lock()
		delete(p.timers, sess.ID)
		p.mu.Unlock()

		ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
		defer cancel()
		p.write(ctx, sess)
	})
}

// Flush persists a session immediately, cancelling any pending timer.
func (p *Persister) Flush(ctx context.Context, sess *Session) {
	p.Cancel(sess.ID)
	p.write(ctx, sess)
}

// Cancel drops the pending timer for a session, if any.
func (p *Persister) Cancel(sessionID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if t, ok := p.timers[sessionID]; ok {
		t.Stop()
		delete(p.timers, sessionID)
	}
}

// Stop cancels all pending timers. No writes run after Stop returns.
func (p *Persister) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	for id, t := range p.timers {
		t.Stop()
		delete(p.timers, id)
	}
}

func (p *Persister) write(ctx context.Context, sess *Session) {
	snap := sess.Snapshot()
	start := time.Now()
	if err := p.store.PutDraft(ctx, snap); err != nil {
		slog.Error("draft persist failed", "session", sess.ID, "error", err)
		return
	}
	sess.MarkClean()
	slog.Debug("draft persisted",
		"session", sess.ID,
		"positions", len(snap.Positions),
		"duration_ms", time.Since(start).Milliseconds(),
	)
}

// ObserverFor adapts the persister into a session observer: every change
// schedules a debounced write.
func (p *Persister) ObserverFor(sess *Session) Observer {
	return &persistObserver{p: p, sess: sess}
}

type persistObserver struct {
	p    *Persister
	sess *Session
}

func (o *persistObserver) FieldChanged(string, string)           { o.p.Schedule(o.sess) }
func (o *persistObserver) StepChanged(string, validate.Step)     { o.p.Schedule(o.sess) }
func (o *persistObserver) PositionsChanged(string)               { o.p.Schedule(o.sess) }
