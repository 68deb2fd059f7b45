package httpapi

import (
	"encoding/json"
	"net/http"
)

type cypherRequest struct {
	Query      string         `json:"query"`
	Parameters map[string]any `json:"parameters"`
}

// handleCypherExecute runs a read-only Cypher query and returns the raw
// serialized records.
func (h *Handler) handleCypherExecute(w http.ResponseWriter, r *http.Request) {
	var req cypherRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusBadRequest, "Malformed request body")
		return
	}

	result, err := h.graph.ExecuteCypher(r.Context(), req.Query, req.Parameters)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handleCypherSchema reports labels, relationship types and property keys.
func (h *Handler) handleCypherSchema(w http.ResponseWriter, r *http.Request) {
	schema, err := h.graph.Schema(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, schema)
}

// handleCypherStats reports node and relationship counts.
func (h *Handler) handleCypherStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.graph.Stats(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
