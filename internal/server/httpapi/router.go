package httpapi

import (
	"context"
	"net/http"

	"github.com/netinvest/server/internal/logging"
	"github.com/netinvest/server/internal/server/config"
	"github.com/netinvest/server/internal/server/graph"
	"github.com/netinvest/server/internal/server/services"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	apiName    = "netinvest-server"
	apiVersion = "1.0.0"
)

// ConnectivityChecker reports whether the graph database is reachable.
// Satisfied by graph.Neo4jRunner.
type ConnectivityChecker interface {
	VerifyConnectivity(ctx context.Context) error
}

// Handler wires HTTP endpoints to the services behind them.
type Handler struct {
	log          logging.Logger
	cfg          *config.Config
	sessions     *services.SessionService
	identity     *services.IdentityService
	flags        *services.FlagService
	graph        *graph.Service
	connectivity ConnectivityChecker
}

// NewHandler constructs the HTTP handler set.
func NewHandler(
	log logging.Logger,
	cfg *config.Config,
	sessions *services.SessionService,
	identity *services.IdentityService,
	flags *services.FlagService,
	graphService *graph.Service,
	connectivity ConnectivityChecker,
) *Handler {
	return &Handler{
		log:          log.With("module", "httpapi"),
		cfg:          cfg,
		sessions:     sessions,
		identity:     identity,
		flags:        flags,
		graph:        graphService,
		connectivity: connectivity,
	}
}

// Routes builds the full route table wrapped in CORS and access logging.
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/v1/auth/login", measure("/api/v1/auth/login", h.handleLogin))
	mux.HandleFunc("POST /api/v1/auth/refresh", measure("/api/v1/auth/refresh", h.handleRefresh))
	mux.HandleFunc("POST /api/v1/auth/logout", measure("/api/v1/auth/logout", h.handleLogout))
	mux.HandleFunc("POST /api/v1/auth/logout-all", measure("/api/v1/auth/logout-all", h.requireActiveUser(h.handleLogoutAll)))
	mux.HandleFunc("GET /api/v1/auth/me", measure("/api/v1/auth/me", h.requireActiveUser(h.handleMe)))

	mux.HandleFunc("GET /api/v1/search", measure("/api/v1/search", h.requireActiveUser(h.handleSearch)))
	mux.HandleFunc("GET /api/v1/search/{label}", measure("/api/v1/search/{label}", h.requireActiveUser(h.handleSearchByLabel)))

	mux.HandleFunc("GET /api/v1/network/neighbors/{node_id}", measure("/api/v1/network/neighbors/{node_id}", h.requireActiveUser(h.handleNeighbors)))
	mux.HandleFunc("GET /api/v1/network/shortest-path", measure("/api/v1/network/shortest-path", h.requireActiveUser(h.handleShortestPath)))
	mux.HandleFunc("GET /api/v1/network/relationship-types", measure("/api/v1/network/relationship-types", h.requireActiveUser(h.handleRelationshipTypes)))

	mux.HandleFunc("POST /api/v1/cypher/execute", measure("/api/v1/cypher/execute", h.requireActiveUser(h.handleCypherExecute)))
	mux.HandleFunc("GET /api/v1/cypher/schema", measure("/api/v1/cypher/schema", h.requireActiveUser(h.handleCypherSchema)))
	mux.HandleFunc("GET /api/v1/cypher/stats", measure("/api/v1/cypher/stats", h.requireActiveUser(h.handleCypherStats)))

	mux.HandleFunc("GET /api/v1/flag/{subject_id}", measure("/api/v1/flag/{subject_id}", h.requireActiveUser(h.handleFlagsBySubject)))
	mux.HandleFunc("POST /api/v1/flag", measure("/api/v1/flag", h.requireActiveUser(h.handleFlagCreate)))
	mux.HandleFunc("DELETE /api/v1/flag/{flag_id}", measure("/api/v1/flag/{flag_id}", h.requireActiveUser(h.handleFlagDelete)))

	mux.HandleFunc("GET /health", h.handleHealth)
	mux.HandleFunc("GET /ready", h.handleReady)
	mux.HandleFunc("GET /live", h.handleLive)
	mux.HandleFunc("GET /{$}", h.handleRoot)
	mux.Handle("GET /metrics", promhttp.Handler())

	return cors(h.cfg.CORSAllowedOrigins, accessLog(h.log, mux))
}
