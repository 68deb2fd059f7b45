// Package httpapi exposes the investigation backend over HTTP JSON:
// session endpoints, graph queries, risk flags, and the health surface.
package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/netinvest/server/internal/common"
	"github.com/netinvest/server/internal/server/graph"
)

type errorResponse struct {
	Detail string `json:"detail"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, errorResponse{Detail: detail})
}

// writeError maps service errors onto HTTP statuses. 401 responses carry a
// WWW-Authenticate challenge so clients know to re-authenticate.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, common.ErrAuthFailed):
		w.Header().Set("WWW-Authenticate", "Bearer")
		writeDetail(w, http.StatusUnauthorized, "Incorrect username or password")
	case errors.Is(err, common.ErrInvalidOrExpiredToken):
		w.Header().Set("WWW-Authenticate", "Bearer")
		writeDetail(w, http.StatusUnauthorized, "Invalid or expired refresh token")
	case errors.Is(err, common.ErrUnauthenticated):
		w.Header().Set("WWW-Authenticate", "Bearer")
		writeDetail(w, http.StatusUnauthorized, "Could not validate credentials")
	case errors.Is(err, common.ErrAccountInactive):
		writeDetail(w, http.StatusForbidden, "User account is inactive")
	case errors.Is(err, common.ErrForbidden):
		writeDetail(w, http.StatusForbidden, "Not enough permissions")
	case errors.Is(err, common.ErrorNotFound):
		writeDetail(w, http.StatusNotFound, "Not found")
	case errors.Is(err, common.ErrorAlreadyExists):
		writeDetail(w, http.StatusConflict, "Already exists")
	case errors.Is(err, graph.ErrEmptyQuery):
		writeDetail(w, http.StatusBadRequest, "Query cannot be empty")
	case errors.Is(err, graph.ErrWriteQuery):
		writeDetail(w, http.StatusForbidden, "Query contains forbidden operation. Only read operations are allowed.")
	case errors.Is(err, graph.ErrInvalidLabel):
		writeDetail(w, http.StatusBadRequest, "Unknown node label")
	default:
		writeDetail(w, http.StatusInternalServerError, "Internal server error")
	}
}
