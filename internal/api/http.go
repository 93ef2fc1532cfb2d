package api

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/heysubinoy/jsonkv/pkg/kv"
)

// Server wraps a kv.Store and exposes HTTP endpoints for KV
// operations. The Store can be any backend implementing kv.Store.
type Server struct {
	Store kv.Store
}

// NewServer creates a new HTTP server with the given store.
func NewServer(store kv.Store) *Server {
	return &Server{
		Store: store,
	}
}

// RegisterRoutes registers all HTTP handlers on the given router.
func (s *Server) RegisterRoutes(r chi.Router) {
	r.Route("/kv", func(r chi.Router) {
		r.Post("/", s.handleCreate)
		r.Get("/{key}", s.handleGet)
		r.Put("/{key}", s.handleReplace)
		r.Delete("/{key}", s.handleDelete)
	})
	r.Get("/healthz", s.handleHealth)
}

// createResponse echoes a successful POST /kv body back to the client.
type createResponse struct {
	Key   string          `json:"key"`
	Value json.RawMessage `json:"value"`
}

// statusResponse is the body returned by successful PUT and DELETE.
type statusResponse struct {
	Status string `json:"status"`
}

// errorResponse is the body carried by every non-200 response.
type errorResponse struct {
	Error string `json:"error"`
}

// handleCreate handles POST /kv requests.
// Expects: {"key": <string>, "value": <any JSON>}
func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read body")
		return
	}

	key, value, rerr := decodeCreate(body)
	if rerr != nil {
		writeError(w, http.StatusBadRequest, rerr.Error())
		return
	}

	if err := s.Store.Create(key, value); err != nil {
		s.writeStoreError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, createResponse{Key: key, Value: value})
}

// handleGet handles GET /kv/{key} requests. The response body is the
// stored value itself, not a {key, value} envelope.
func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")

	value, err := s.Store.Get(key)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(value)
}

// handleReplace handles PUT /kv/{key} requests.
// Expects: {"value": <any JSON>}
func (s *Server) handleReplace(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")

	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read body")
		return
	}

	value, rerr := decodeReplace(body)
	if rerr != nil {
		writeError(w, http.StatusBadRequest, rerr.Error())
		return
	}

	if err := s.Store.Replace(key, value); err != nil {
		s.writeStoreError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, statusResponse{Status: "ok"})
}

// handleDelete handles DELETE /kv/{key} requests.
func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")

	if err := s.Store.Delete(key); err != nil {
		s.writeStoreError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, statusResponse{Status: "ok"})
}

// handleHealth handles GET /healthz requests.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, statusResponse{Status: "ok"})
}

// writeStoreError maps store errors to response statuses. Anything
// outside the kv error taxonomy is a backend failure and must never
// surface as 200.
func (s *Server) writeStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, kv.ErrNotFound):
		writeError(w, http.StatusNotFound, "key not found")
	case errors.Is(err, kv.ErrKeyExists):
		writeError(w, http.StatusConflict, "key already exists")
	default:
		log.Printf("store error: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
