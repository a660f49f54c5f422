package workflow

import (
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/SBreitkreuz/pruefdoc/internal/draft"
	"github.com/SBreitkreuz/pruefdoc/internal/protocol"
	"github.com/SBreitkreuz/pruefdoc/internal/validate"
	"github.com/SBreitkreuz/pruefdoc/internal/workbook"
)

// Observer receives change notifications from a session. Callbacks run
// with the session lock held, so observers must not call back into the
// session.
type Observer interface {
	FieldChanged(sessionID, fieldPath string)
	StepChanged(sessionID string, step validate.Step)
	PositionsChanged(sessionID string)
}

// Session is the working state of one protocol. All exported methods are
// safe for concurrent use.
type Session struct {
	ID        string
	CreatedAt time.Time

	mu        sync.Mutex
	record    Record
	observers []Observer
}

// NewSession creates a session at the first step with an empty record.
func NewSession(id string) *Session {
	return &Session{
		ID:        id,
		CreatedAt: time.Now(),
		record:    Record{Step: validate.StepMetadata},
	}
}

// Subscribe registers an observer for change notifications.
func (s *Session) Subscribe(obs Observer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, obs)
}

// Record returns a copy of the current record.
func (s *Session) Record() Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.copyRecordLocked()
}

func (s *Session) copyRecordLocked() Record {
	rec := s.record
	rec.Positions = append([]protocol.PositionEntry(nil), s.record.Positions...)
	rec.Issues = append([]validate.Issue(nil), s.record.Issues...)
	return rec
}

// ImportWorkbook extracts metadata and positions from an uploaded source
// workbook and replaces the record's data. An import restarts the session
// at the first step. Extraction anomalies land in the issue list, not in
// the returned error.
func (s *Session) ImportWorkbook(r io.Reader, mapping protocol.MetadataMapping, scan protocol.PositionScan) error {
	wb, err := workbook.OpenReader(r)
	if err != nil {
		return fmt.Errorf("import: %w", err)
	}
	defer wb.Close()

	meta, err := protocol.ExtractMetadata(wb, mapping, time.Now())
	if err != nil {
		return fmt.Errorf("import: %w", err)
	}
	entries, err := protocol.ExtractPositions(wb, scan)
	if err != nil {
		return fmt.Errorf("import: %w", err)
	}
	for i := range entries {
		entries[i].ID = uuid.NewString()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.record = Record{
		Metadata:  meta.Metadata,
		Positions: entries,
		Step:      validate.StepMetadata,
		Dirty:     true,
	}
	s.revalidateLocked()

	slog.Info("workbook imported",
		"session", s.ID,
		"positions", len(entries),
		"missingRequired", meta.MissingRequired,
	)

	s.notifyPositionsLocked()
	s.notifyStepLocked()
	return nil
}

// SetField writes a single field by path and revalidates the affected
// step. Paths are "metadata.<field>", "results.<field>", or
// "positions.<id>.<field>". An unknown path is rejected with an error and
// leaves the record untouched.
func (s *Session) SetField(path, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.applyFieldLocked(path, value); err != nil {
		slog.Warn("field mutation rejected", "session", s.ID, "path", path, "err", err)
		return err
	}

	s.record.Dirty = true
	s.revalidateLocked()
	s.notifyFieldLocked(path)
	return nil
}

func (s *Session) applyFieldLocked(path, value string) error {
	parts := strings.Split(path, ".")

	switch {
	case len(parts) == 2 && parts[0] == "metadata":
		if !validate.KnownField("metadata." + parts[1]) {
			return fmt.Errorf("unknown field %q", path)
		}
		setMetadata(&s.record.Metadata, parts[1], value)
		return nil

	case len(parts) == 2 && parts[0] == "results":
		if !validate.KnownField("results." + parts[1]) {
			return fmt.Errorf("unknown field %q", path)
		}
		setResults(&s.record.Results, parts[1], value)
		return nil

	case len(parts) == 3 && parts[0] == "positions":
		id, field := parts[1], parts[2]
		if !validate.KnownField("position." + field) {
			return fmt.Errorf("unknown field %q", path)
		}
		for i := range s.record.Positions {
			if s.record.Positions[i].ID == id {
				return setPosition(&s.record.Positions[i], field, value)
			}
		}
		return fmt.Errorf("position %q not found", id)
	}

	return fmt.Errorf("unknown field %q", path)
}

func setMetadata(m *protocol.Metadata, field, value string) {
	switch field {
	case "protocolNumber":
		m.ProtocolNumber = value
	case "orderNumber":
		m.OrderNumber = value
	case "plant":
		m.Plant = value
	case "location":
		m.Location = value
	case "company":
		m.Company = value
	case "client":
		m.Client = value
	case "date":
		m.Date = value
	}
}

func setResults(r *protocol.Results, field, value string) {
	switch field {
	case "device":
		r.Device = value
	case "deviceSerial":
		r.DeviceSerial = value
	case "outcome":
		r.Outcome = value
	case "remarks":
		r.Remarks = value
	}
}

func setPosition(e *protocol.PositionEntry, field, value string) error {
	switch field {
	case "posCode":
		e.PosCode = value
		e.Leaf = protocol.IsLeafCode(value)
	case "quantity":
		qty, ok := protocol.CoerceQuantity(value)
		if !ok {
			return fmt.Errorf("invalid number %q", value)
		}
		e.Quantity = qty
		e.Valid = true
	case "circuit":
		e.Circuit = value
	case "cableType":
		e.CableType = value
	case "risoOhne":
		return setRiso(&e.RisoOhne, value)
	case "risoMit":
		return setRiso(&e.RisoMit, value)
	}
	return nil
}

func setRiso(target **float64, value string) error {
	value = strings.TrimSpace(value)
	if value == "" {
		*target = nil
		return nil
	}
	f, err := strconv.ParseFloat(strings.ReplaceAll(value, ",", "."), 64)
	if err != nil {
		return fmt.Errorf("invalid number %q", value)
	}
	*target = &f
	return nil
}

// AddPosition appends an empty entry and returns its ID.
func (s *Session) AddPosition() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.NewString()
	s.record.Positions = append(s.record.Positions, protocol.PositionEntry{ID: id})
	s.record.Dirty = true
	s.revalidateLocked()
	s.notifyPositionsLocked()
	return id
}

// RemovePosition deletes the entry with the given ID.
func (s *Session) RemovePosition(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.record.Positions {
		if s.record.Positions[i].ID == id {
			s.record.Positions = append(s.record.Positions[:i], s.record.Positions[i+1:]...)
			s.record.Dirty = true
			s.revalidateLocked()
			s.notifyPositionsLocked()
			return nil
		}
	}
	return fmt.Errorf("position %q not found", id)
}

// Advance moves to the next step. The move is gated: any error-severity
// issue in the current step blocks it. Warnings never block.
func (s *Session) Advance() (validate.Step, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	issues := validate.ForStep(s.record.Step, s.record.Metadata, s.record.Positions, s.record.Results)
	s.record.Issues = issues
	if validate.HasErrors(issues) {
		return s.record.Step, fmt.Errorf("step %s has validation errors", s.record.Step)
	}

	next, ok := nextStep(s.record.Step)
	if !ok {
		return s.record.Step, fmt.Errorf("already at last step")
	}

	s.record.Step = next
	s.record.Dirty = true
	s.revalidateLocked()
	s.notifyStepLocked()
	return next, nil
}

// Retreat moves to the previous step. Going back is never gated so the
// user can always revisit earlier data.
func (s *Session) Retreat() (validate.Step, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, ok := prevStep(s.record.Step)
	if !ok {
		return s.record.Step, fmt.Errorf("already at first step")
	}

	s.record.Step = prev
	s.record.Dirty = true
	s.revalidateLocked()
	s.notifyStepLocked()
	return prev, nil
}

// Aggregates returns the aggregated positions of the current record.
func (s *Session) Aggregates() []protocol.AggregatedPosition {
	s.mu.Lock()
	defer s.mu.Unlock()
	return protocol.Aggregate(s.record.Positions)
}

// MarkClean clears the dirty flag after a successful persist.
func (s *Session) MarkClean() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record.Dirty = false
}

// Snapshot converts the current record into a persistable snapshot.
func (s *Session) Snapshot() draft.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := s.copyRecordLocked()
	return draft.Snapshot{
		SchemaVersion: draft.SchemaVersion,
		SessionID:     s.ID,
		Metadata:      rec.Metadata,
		Positions:     rec.Positions,
		Results:       rec.Results,
		Step:          string(rec.Step),
		SavedAt:       time.Now(),
	}
}

// Restore replaces the record with a persisted snapshot. The snapshot is
// revalidated on load, so a draft saved under older rules shows current
// issues immediately. An unknown step falls back to the first step.
func (s *Session) Restore(snap draft.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	step := validate.Step(snap.Step)
	if stepIndex(step) < 0 {
		step = validate.StepMetadata
	}

	s.record = Record{
		Metadata:  snap.Metadata,
		Positions: append([]protocol.PositionEntry(nil), snap.Positions...),
		Results:   snap.Results,
		Step:      step,
	}
	s.revalidateLocked()
	s.notifyPositionsLocked()
	s.notifyStepLocked()
}

// revalidateLocked recomputes the issue list for the current step.
func (s *Session) revalidateLocked() {
	s.record.Issues = validate.ForStep(s.record.Step, s.record.Metadata, s.record.Positions, s.record.Results)
}

func (s *Session) notifyFieldLocked(path string) {
	for _, obs := range s.observers {
		obs.FieldChanged(s.ID, path)
	}
}

func (s *Session) notifyStepLocked() {
	for _, obs := range s.observers {
		obs.StepChanged(s.ID, s.record.Step)
	}
}

func (s *Session) notifyPositionsLocked() {
	for _, obs := range s.observers {
		obs.PositionsChanged(s.ID)
	}
}
