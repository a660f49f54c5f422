package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/SBreitkreuz/pruefdoc/internal/device"
	"github.com/SBreitkreuz/pruefdoc/internal/draft"
	"github.com/SBreitkreuz/pruefdoc/internal/export"
	"github.com/SBreitkreuz/pruefdoc/internal/logging"
	"github.com/SBreitkreuz/pruefdoc/internal/protocol"
	"github.com/SBreitkreuz/pruefdoc/internal/workflow"
)

// sessionResponse is the JSON shape of a session returned to clients.
type sessionResponse struct {
	SessionID string          `json:"sessionId"`
	Record    workflow.Record `json:"record"`
}

// handleCreateSession starts a new empty session.
func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	sess := s.manager.Create()
	writeJSON(w, http.StatusCreated, sessionResponse{
		SessionID: sess.ID,
		Record:    sess.Record(),
	})
}

// handleGetSession returns the current record. A session that is not live
// but has a persisted draft is resumed transparently.
func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")
	sess, err := s.manager.Resume(r.Context(), id)
	if err != nil {
		s.respondError(w, r, err, http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse{SessionID: sess.ID, Record: sess.Record()})
}

// handleDeleteSession discards a session and its persisted draft.
func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")
	if err := s.manager.Delete(r.Context(), id); err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleImport reads an uploaded workbook into the session. The upload is
// a multipart form with the workbook under "file".
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Upload.MaxFileSize)
	if err := r.ParseMultipartForm(s.cfg.Upload.MaxFileSize); err != nil {
		s.respondError(w, r, fmt.Errorf("parse upload: %w", err), http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		s.respondError(w, r, fmt.Errorf("no file provided: %w", err), http.StatusBadRequest)
		return
	}
	defer file.Close()

	if !strings.HasSuffix(strings.ToLower(header.Filename), ".xlsx") {
		s.respondError(w, r, fmt.Errorf("not a zip archive: %s", header.Filename), http.StatusBadRequest)
		return
	}

	logger := logging.WithFields(r.Context(), "session", sess.ID, "file", header.Filename)
	if err := sess.ImportWorkbook(file, protocol.DefaultProtocolMapping(), protocol.DefaultPositionScan()); err != nil {
		s.respondError(w, r, err, http.StatusUnprocessableEntity)
		return
	}
	logger.Info("workbook accepted", "positions", len(sess.Record().Positions))

	writeJSON(w, http.StatusOK, sessionResponse{SessionID: sess.ID, Record: sess.Record()})
}

// fieldRequest is the body of a field mutation.
type fieldRequest struct {
	Path  string `json:"path"`
	Value string `json:"value"`
}

// handleSetField writes one field by path.
func (s *Server) handleSetField(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}

	var req fieldRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, r, fmt.Errorf("decode body: %w", err), http.StatusBadRequest)
		return
	}

	if err := sess.SetField(req.Path, req.Value); err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusOK, sessionResponse{SessionID: sess.ID, Record: sess.Record()})
}

// handleAddPosition appends an empty position entry.
func (s *Server) handleAddPosition(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}

	id := sess.AddPosition()
	writeJSON(w, http.StatusCreated, map[string]any{
		"positionId": id,
		"record":     sess.Record(),
	})
}

// handleRemovePosition deletes a position entry.
func (s *Server) handleRemovePosition(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}

	if err := sess.RemovePosition(chi.URLParam(r, "positionID")); err != nil {
		s.respondError(w, r, err, http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse{SessionID: sess.ID, Record: sess.Record()})
}

// handleAdvance moves the session to the next step. A step with blocking
// issues returns 409 together with the current record so the client can
// show the issues.
func (s *Server) handleAdvance(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}

	if _, err := sess.Advance(); err != nil {
		s.respondError(w, r, err, http.StatusConflict)
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse{SessionID: sess.ID, Record: sess.Record()})
}

// handleRetreat moves the session to the previous step.
func (s *Server) handleRetreat(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}

	if _, err := sess.Retreat(); err != nil {
		s.respondError(w, r, err, http.StatusConflict)
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse{SessionID: sess.ID, Record: sess.Record()})
}

// handleAggregates returns the aggregated positions of the session.
func (s *Server) handleAggregates(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"sessionId":  sess.ID,
		"aggregates": sess.Aggregates(),
	})
}

// handleExport produces the filled document and streams it to the client.
// The document type comes from the "type" query parameter and defaults to
// the billing document.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}

	docType := r.URL.Query().Get("type")
	if docType == "" {
		docType = export.DocBilling
	}

	rec := sess.Record()
	data, name, err := s.exporter.Export(docType, rec.Metadata, rec.Positions, rec.Results)
	if err != nil {
		var verr *export.ErrValidation
		if errors.As(err, &verr) {
			writeJSON(w, http.StatusConflict, map[string]any{
				"error":  "export refused",
				"issues": verr.Issues,
			})
			return
		}
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}

	if err := s.manager.RecordExport(r.Context(), draft.ExportRecord{
		SessionID:    sess.ID,
		DocumentType: docType,
		FileName:     name,
		ExportedAt:   time.Now(),
	}); err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.Write(data)
}

// handleExportHistory returns the export history of the session.
func (s *Server) handleExportHistory(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")
	records, err := s.manager.Exports(r.Context(), id)
	if err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"sessionId": id,
		"exports":   records,
	})
}

// handleSave forces an immediate draft write, bypassing the debounce.
func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")
	if err := s.manager.ForcePersist(r.Context(), id); err != nil {
		s.respondError(w, r, err, http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "saved"})
}

// handleListDevices returns the measuring device catalog.
func (s *Server) handleListDevices(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"devices": s.devices.List()})
}

// handleAddDevice registers a new measuring device.
func (s *Server) handleAddDevice(w http.ResponseWriter, r *http.Request) {
	var d device.Device
	if err := json.NewDecoder(r.Body).Decode(&d); err != nil {
		s.respondError(w, r, fmt.Errorf("decode body: %w", err), http.StatusBadRequest)
		return
	}
	if err := s.devices.Add(d); err != nil {
		s.respondError(w, r, err, http.StatusConflict)
		return
	}
	writeJSON(w, http.StatusCreated, d)
}

// session resolves the session from the URL, resuming from a draft when
// needed, and writes the error response itself on failure.
func (s *Server) session(w http.ResponseWriter, r *http.Request) (*workflow.Session, bool) {
	id := chi.URLParam(r, "sessionID")
	sess, err := s.manager.Resume(r.Context(), id)
	if err != nil {
		s.respondError(w, r, err, http.StatusNotFound)
		return nil, false
	}
	return sess, true
}
