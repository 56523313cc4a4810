// Package api exposes the edge catalog and discovery pipeline over HTTP.
package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/edgecatalog/edged/internal/aggregate"
	"github.com/edgecatalog/edged/internal/catalog"
	"github.com/edgecatalog/edged/internal/log"
	"github.com/edgecatalog/edged/internal/lookup"
	"github.com/edgecatalog/edged/internal/worker"
)

// Handler handles HTTP requests.
type Handler struct {
	store         catalog.Store
	aggregator    *aggregate.Aggregator
	runner        *worker.Runner
	defaultRegion string
}

// NewHandler creates a new API handler.
func NewHandler(store catalog.Store, aggregator *aggregate.Aggregator, runner *worker.Runner, defaultRegion string) *Handler {
	return &Handler{
		store:         store,
		aggregator:    aggregator,
		runner:        runner,
		defaultRegion: defaultRegion,
	}
}

// RegisterRoutes registers all API routes.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	// Live aggregation
	mux.HandleFunc("GET /api/report", h.getReport)

	// Discovery runs
	mux.HandleFunc("POST /api/discovery/run", h.runDiscovery)

	// Catalog reads
	mux.HandleFunc("GET /api/edges", h.listEdges)
	mux.HandleFunc("GET /api/edges/{id}", h.getEdge)
	mux.HandleFunc("GET /api/edges/{id}/parent", h.getEdgeParent)

	// Batch parent-zone lookup
	mux.HandleFunc("POST /api/parent-zones", h.lookupParentZones)
}

// getReport handles GET /api/report?region=
func (h *Handler) getReport(w http.ResponseWriter, r *http.Request) {
	region := r.URL.Query().Get("region")
	if region == "" {
		region = h.defaultRegion
	}

	report, errs := h.aggregator.Report(r.Context(), region)
	if len(errs) > 0 {
		h.writeJSON(w, http.StatusBadGateway, map[string]any{
			"success": false,
			"errors":  aggregate.ErrorStrings(errs),
		})
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]any{"answer": report})
}

// runDiscovery handles POST /api/discovery/run
func (h *Handler) runDiscovery(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Region string `json:"region"`
	}
	// An empty body means the default region
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Region == "" {
		req.Region = h.defaultRegion
	}

	run := h.runner.Run(r.Context(), req.Region)
	h.writeJSON(w, http.StatusOK, run)
}

// listEdges handles GET /api/edges
func (h *Handler) listEdges(w http.ResponseWriter, r *http.Request) {
	records, err := catalog.ScanAll(h.store)
	if err != nil {
		h.internalError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]any{
		"total_items": len(records),
		"items":       records,
	})
}

// getEdge handles GET /api/edges/{id}
func (h *Handler) getEdge(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		h.writeError(w, http.StatusBadRequest, "edge ID required")
		return
	}

	records, err := h.store.Query(id)
	if err != nil {
		h.internalError(w, err)
		return
	}
	if len(records) == 0 {
		h.writeError(w, http.StatusNotFound, "edge not found")
		return
	}

	h.writeJSON(w, http.StatusOK, records[0])
}

// getEdgeParent handles GET /api/edges/{id}/parent
func (h *Handler) getEdgeParent(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		h.writeError(w, http.StatusBadRequest, "edge ID required")
		return
	}

	results, err := lookup.ParentZones(h.store, []string{id})
	if err != nil {
		h.internalError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, results[id])
}

// lookupParentZones handles POST /api/parent-zones
func (h *Handler) lookupParentZones(w http.ResponseWriter, r *http.Request) {
	var req struct {
		IDs []string `json:"ids"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.IDs) == 0 {
		h.writeError(w, http.StatusBadRequest, "ids is required")
		return
	}

	results, err := lookup.ParentZones(h.store, req.IDs)
	if err != nil {
		h.internalError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, results)
}

// writeJSON writes a JSON response.
func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError writes an error response.
func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// internalError logs the error and writes a generic 500 response.
func (h *Handler) internalError(w http.ResponseWriter, err error) {
	log.Error("Internal server error", "error", err)
	h.writeError(w, http.StatusInternalServerError, "Internal Server Error")
}
