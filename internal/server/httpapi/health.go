package httpapi

import (
	"context"
	"net/http"
	"time"
)

const connectivityTimeout = 2 * time.Second

type healthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Version  string `json:"version"`
}

// handleHealth reports overall service health including graph connectivity.
// A reachable graph means "healthy"; otherwise the service is "degraded"
// but still serving.
func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), connectivityTimeout)
	defer cancel()

	database := "connected"
	status := "healthy"
	if err := h.connectivity.VerifyConnectivity(ctx); err != nil {
		database = "disconnected"
		status = "degraded"
	}

	writeJSON(w, http.StatusOK, healthResponse{
		Status:   status,
		Database: database,
		Version:  apiVersion,
	})
}

// handleReady implements the readiness probe.
func (h *Handler) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), connectivityTimeout)
	defer cancel()

	if err := h.connectivity.VerifyConnectivity(ctx); err != nil {
		writeJSON(w, http.StatusOK, map[string]string{
			"status": "not ready",
			"reason": "database disconnected",
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// handleLive implements the liveness probe.
func (h *Handler) handleLive(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "alive"})
}

// handleRoot describes the API.
func (h *Handler) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"name":    apiName,
		"version": apiVersion,
	})
}
