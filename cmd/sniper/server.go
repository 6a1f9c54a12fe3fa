package main

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"solana-keyword-sniper/internal/domain"
	"solana-keyword-sniper/internal/keywords"
	"solana-keyword-sniper/internal/observability"
	"solana-keyword-sniper/internal/storage"
)

// Server exposes the operational HTTP surface: health, status, metrics and
// the tenant keyword/binding API consumed by the chat frontend.
type Server struct {
	keywords *keywords.Service
	bindings storage.BindingStore
	logger   *log.Logger
	started  time.Time
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	mux.Handle("/metrics", observability.Handler())
	mux.HandleFunc("/status", s.handleStatus)

	mux.HandleFunc("/api/keywords", s.handleKeywords)
	mux.HandleFunc("/api/keywords/clear", s.handleClear)
	mux.HandleFunc("/api/keywords/undo", s.handleUndo)
	mux.HandleFunc("/api/bindings", s.handleBindings)

	return mux
}

// StatusResponse is the /status payload.
type StatusResponse struct {
	Status  string    `json:"status"`
	Uptime  string    `json:"uptime"`
	Started time.Time `json:"started"`
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, StatusResponse{
		Status:  "running",
		Uptime:  time.Since(s.started).String(),
		Started: s.started,
	})
}

type keywordRequest struct {
	TenantID     string `json:"tenant_id"`
	OwnerID      string `json:"owner_id"`
	Text         string `json:"text"`
	Confirmation string `json:"confirmation"`
}

// handleKeywords serves GET (list), POST (add) and DELETE (remove).
func (s *Server) handleKeywords(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		tenantID := r.URL.Query().Get("tenant_id")
		if tenantID == "" {
			writeError(w, http.StatusBadRequest, "tenant_id is required")
			return
		}
		kws, err := s.keywords.List(r.Context(), tenantID)
		if err != nil {
			s.logger.Printf("list keywords: %v", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, kws)

	case http.MethodPost:
		req, ok := decodeKeywordRequest(w, r)
		if !ok {
			return
		}
		kw, err := s.keywords.Add(r.Context(), req.TenantID, req.OwnerID, req.Text)
		if err != nil {
			s.writeKeywordError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, kw)

	case http.MethodDelete:
		req, ok := decodeKeywordRequest(w, r)
		if !ok {
			return
		}
		kw, err := s.keywords.Remove(r.Context(), req.TenantID, req.OwnerID, req.Text)
		if err != nil {
			s.writeKeywordError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, kw)

	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	req, ok := decodeKeywordRequest(w, r)
	if !ok {
		return
	}
	deleted, err := s.keywords.Clear(r.Context(), req.TenantID, req.OwnerID, req.Confirmation)
	if err != nil {
		s.writeKeywordError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, deleted)
}

func (s *Server) handleUndo(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	req, ok := decodeKeywordRequest(w, r)
	if !ok {
		return
	}
	rec, err := s.keywords.Undo(r.Context(), req.TenantID, req.OwnerID)
	if err != nil {
		s.writeKeywordError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

type bindingRequest struct {
	TenantID     string `json:"tenant_id"`
	Endpoint     string `json:"endpoint"`
	ConfiguredBy string `json:"configured_by"`
}

// handleBindings serves PUT (configure endpoint) and DELETE (unbind).
func (s *Server) handleBindings(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPut:
		var req bindingRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.TenantID == "" || req.Endpoint == "" || req.ConfiguredBy == "" {
			writeError(w, http.StatusBadRequest, "tenant_id, endpoint and configured_by are required")
			return
		}
		binding := &domain.ChannelBinding{
			TenantID:     req.TenantID,
			Endpoint:     req.Endpoint,
			ConfiguredBy: req.ConfiguredBy,
			UpdatedAt:    time.Now().UnixMilli(),
		}
		if err := s.bindings.Put(r.Context(), binding); err != nil {
			s.logger.Printf("put binding: %v", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, binding)

	case http.MethodDelete:
		var req bindingRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if err := s.bindings.Delete(r.Context(), req.TenantID); err != nil {
			s.logger.Printf("delete binding: %v", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// writeKeywordError maps the keyword service's typed errors to HTTP codes.
func (s *Server) writeKeywordError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, keywords.ErrDuplicateKeyword):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, keywords.ErrKeywordNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, keywords.ErrEmptyKeyword),
		errors.Is(err, keywords.ErrConfirmationMismatch):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, keywords.ErrNothingToUndo):
		writeError(w, http.StatusConflict, err.Error())
	default:
		s.logger.Printf("keyword operation: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func decodeKeywordRequest(w http.ResponseWriter, r *http.Request) (keywordRequest, bool) {
	var req keywordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return req, false
	}
	if req.TenantID == "" {
		writeError(w, http.StatusBadRequest, "tenant_id is required")
		return req, false
	}
	return req, true
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
