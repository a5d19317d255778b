// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package api exposes the interpretation pipeline over HTTP.
package api

import (
	"context"
	"io"

	"github.com/gorilla/mux"

	"github.com/medivision/medscan/internal/interpret"
	"github.com/medivision/medscan/pkg/types"
)

// HistoryStore is the subset of the history store used by the service.
type HistoryStore interface {
	Save(ctx context.Context, rec *types.ScanRecord) error
	List(ctx context.Context, limit int) ([]types.ScanRecord, error)
	Search(ctx context.Context, query string, limit int) ([]types.ScanRecord, error)
}

// Server handles API requests. A nil store disables the history
// endpoints with 503 rather than failing at startup.
type Server struct {
	interpreter *interpret.Interpreter
	store       HistoryStore
	logw        io.Writer
}

// NewServer builds a Server. logw receives request warnings; nil
// discards them.
func NewServer(interpreter *interpret.Interpreter, store HistoryStore, logw io.Writer) *Server {
	if logw == nil {
		logw = io.Discard
	}
	return &Server{interpreter: interpreter, store: store, logw: logw}
}

// NewRouter wires the API routes.
func (s *Server) NewRouter() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/api/health", s.HealthHandler).Methods("GET")
	r.HandleFunc("/api/interpret", s.InterpretHandler).Methods("POST")
	r.HandleFunc("/api/history", s.HistoryHandler).Methods("GET")
	return r
}
