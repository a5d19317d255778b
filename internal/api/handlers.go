// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/medivision/medscan/pkg/types"
)

func newScanRecord(info types.MedicationInfo, rawText string) *types.ScanRecord {
	return &types.ScanRecord{Medication: info, RawText: rawText}
}

// HealthHandler reports service liveness.
func (s *Server) HealthHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status": "ok"}`))
}

// InterpretRequest is the POST /api/interpret payload.
type InterpretRequest struct {
	Text string `json:"text"`

	// Save stores the result in the scan history when true.
	Save bool `json:"save,omitempty"`
}

// InterpretHandler runs the interpretation pipeline over label text.
func (s *Server) InterpretHandler(w http.ResponseWriter, r *http.Request) {
	var req InterpretRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		http.Error(w, "missing text", http.StatusBadRequest)
		return
	}

	info := s.interpreter.Interpret(r.Context(), req.Text)

	if req.Save {
		if s.store == nil {
			http.Error(w, "history store not configured", http.StatusServiceUnavailable)
			return
		}
		rec := newScanRecord(info, req.Text)
		if err := s.store.Save(r.Context(), rec); err != nil {
			fmt.Fprintf(s.logw, "warning: saving scan: %v\n", err)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(info)
}

// HistoryHandler lists or searches past scans. Query parameters:
// q (FTS search string, optional) and limit.
func (s *Server) HistoryHandler(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		http.Error(w, "history store not configured", http.StatusServiceUnavailable)
		return
	}

	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}
		limit = n
	}

	var (
		records any
		err     error
	)
	if q := r.URL.Query().Get("q"); q != "" {
		records, err = s.store.Search(r.Context(), q, limit)
	} else {
		records, err = s.store.List(r.Context(), limit)
	}
	if err != nil {
		http.Error(w, "history query failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(records)
}
