package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/netinvest/server/internal/server/models"
)

type flagListResponse struct {
	Flags []models.FlagGroup `json:"flags"`
	Total int                `json:"total"`
}

type flagDeleteResponse struct {
	Message      string `json:"message"`
	DeletedCount int64  `json:"deleted_count"`
}

// handleFlagsBySubject returns the flags touching a subject node, grouped
// by flag id.
func (h *Handler) handleFlagsBySubject(w http.ResponseWriter, r *http.Request) {
	subjectID := r.PathValue("subject_id")

	groups, err := h.flags.GetBySubject(r.Context(), subjectID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, flagListResponse{Flags: groups, Total: len(groups)})
}

// handleFlagCreate stores one flag across several subject nodes.
func (h *Handler) handleFlagCreate(w http.ResponseWriter, r *http.Request) {
	var group models.FlagGroup
	if err := json.NewDecoder(r.Body).Decode(&group); err != nil {
		writeDetail(w, http.StatusBadRequest, "Malformed request body")
		return
	}
	if group.FlagID == "" || len(group.SubjectIDs) == 0 {
		writeDetail(w, http.StatusBadRequest, "flag_id and subject_ids are required")
		return
	}

	created, err := h.flags.Create(r.Context(), group)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// handleFlagDelete removes every row sharing the flag id.
func (h *Handler) handleFlagDelete(w http.ResponseWriter, r *http.Request) {
	flagID := r.PathValue("flag_id")

	count, err := h.flags.DeleteByFlagID(r.Context(), flagID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, flagDeleteResponse{
		Message:      fmt.Sprintf("Deleted %d flag record(s) with flag_id '%s'", count, flagID),
		DeletedCount: count,
	})
}
