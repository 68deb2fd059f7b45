package httpapi

import (
	"net/http"
	"strconv"

	"github.com/netinvest/server/internal/server/models"
)

// handleNeighbors returns the 1-hop subgraph around a node.
func (h *Handler) handleNeighbors(w http.ResponseWriter, r *http.Request) {
	nodeID, err := strconv.ParseInt(r.PathValue("node_id"), 10, 64)
	if err != nil {
		writeDetail(w, http.StatusBadRequest, "node_id must be an integer")
		return
	}

	label := r.URL.Query().Get("label")
	if label != "" && !models.ValidNodeLabel(label) {
		writeDetail(w, http.StatusBadRequest, "Unknown node label")
		return
	}

	limit := h.cfg.DefaultLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 1 {
			writeDetail(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
	}

	subgraph, err := h.graph.Neighbors(r.Context(), nodeID, label, limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, subgraph)
}

// handleShortestPath finds a shortest path between two nodes.
func (h *Handler) handleShortestPath(w http.ResponseWriter, r *http.Request) {
	startID, err := strconv.ParseInt(r.URL.Query().Get("start_node_id"), 10, 64)
	if err != nil {
		writeDetail(w, http.StatusBadRequest, "start_node_id is required and must be an integer")
		return
	}
	endID, err := strconv.ParseInt(r.URL.Query().Get("end_node_id"), 10, 64)
	if err != nil {
		writeDetail(w, http.StatusBadRequest, "end_node_id is required and must be an integer")
		return
	}

	maxHops := 5
	if raw := r.URL.Query().Get("max_hops"); raw != "" {
		maxHops, err = strconv.Atoi(raw)
		if err != nil || maxHops < 1 || maxHops > 10 {
			writeDetail(w, http.StatusBadRequest, "max_hops must be between 1 and 10")
			return
		}
	}

	subgraph, err := h.graph.ShortestPath(r.Context(), startID, endID, maxHops)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, subgraph)
}

// handleRelationshipTypes lists the edge types of the schema.
func (h *Handler) handleRelationshipTypes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"relationship_types": h.graph.RelationshipTypes(),
	})
}
