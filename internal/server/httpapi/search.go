package httpapi

import (
	"net/http"
	"strconv"

	"github.com/netinvest/server/internal/server/graph"
	"github.com/netinvest/server/internal/server/models"
)

// parseSearchQuery reads the shared search parameters. nodeID stays nil
// when the parameter is absent so the name branch can take over.
func (h *Handler) parseSearchQuery(r *http.Request) (graph.SearchQuery, bool) {
	q := graph.SearchQuery{
		Name:   r.URL.Query().Get("name"),
		Limit:  h.cfg.DefaultLimit,
		Offset: 0,
	}

	if raw := r.URL.Query().Get("node_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return q, false
		}
		q.NodeID = &id
	}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			return q, false
		}
		q.Limit = limit
	}
	if raw := r.URL.Query().Get("offset"); raw != "" {
		offset, err := strconv.Atoi(raw)
		if err != nil || offset < 0 {
			return q, false
		}
		q.Offset = offset
	}

	return q, true
}

// handleSearch finds nodes across all labels by node_id or name.
func (h *Handler) handleSearch(w http.ResponseWriter, r *http.Request) {
	q, ok := h.parseSearchQuery(r)
	if !ok {
		writeDetail(w, http.StatusBadRequest, "Invalid query parameters")
		return
	}
	if q.NodeID == nil && q.Name == "" {
		writeDetail(w, http.StatusBadRequest, "At least one search parameter (node_id or name) is required")
		return
	}

	result, err := h.graph.Search(r.Context(), q)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handleSearchByLabel is handleSearch narrowed to one schema label.
func (h *Handler) handleSearchByLabel(w http.ResponseWriter, r *http.Request) {
	label := r.PathValue("label")
	if !models.ValidNodeLabel(label) {
		writeDetail(w, http.StatusBadRequest, "Unknown node label")
		return
	}

	q, ok := h.parseSearchQuery(r)
	if !ok {
		writeDetail(w, http.StatusBadRequest, "Invalid query parameters")
		return
	}
	if q.NodeID == nil && q.Name == "" {
		writeDetail(w, http.StatusBadRequest, "At least one search parameter (node_id or name) is required")
		return
	}
	q.Label = label

	result, err := h.graph.Search(r.Context(), q)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
