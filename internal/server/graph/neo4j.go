// Package graph is the Neo4j collaborator: node search, neighborhood
// traversal, shortest paths, and a guarded Cypher passthrough over the
// investigation graph.
package graph

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/netinvest/server/internal/server/config"
)

// QueryRunner executes a single read query and returns the collected
// records together with the result column keys. Implemented by
// Neo4jRunner in production and by fakes in tests.
type QueryRunner interface {
	Run(ctx context.Context, query string, params map[string]any) ([]*neo4j.Record, []string, error)
}

// Neo4jRunner runs queries over a driver-managed session pool. One short
// read session per query keeps the runner safe for concurrent use.
type Neo4jRunner struct {
	driver neo4j.DriverWithContext
}

// NewNeo4jRunner opens a driver for the configured endpoint. The caller
// owns the returned runner and must Close it on shutdown.
func NewNeo4jRunner(cfg *config.Config) (*Neo4jRunner, error) {
	driver, err := neo4j.NewDriverWithContext(cfg.Neo4jURI, neo4j.BasicAuth(cfg.Neo4jUsername, cfg.Neo4jPassword, ""))
	if err != nil {
		return nil, fmt.Errorf("error creating neo4j driver: %w", err)
	}
	return &Neo4jRunner{driver: driver}, nil
}

// VerifyConnectivity checks that the graph database is reachable.
func (r *Neo4jRunner) VerifyConnectivity(ctx context.Context) error {
	return r.driver.VerifyConnectivity(ctx)
}

// Run executes the query in a fresh read session and collects all records.
func (r *Neo4jRunner) Run(ctx context.Context, query string, params map[string]any) ([]*neo4j.Record, []string, error) {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer func() { _ = session.Close(ctx) }()

	result, err := session.Run(ctx, query, params)
	if err != nil {
		return nil, nil, fmt.Errorf("error running query: %w", err)
	}
	keys, err := result.Keys()
	if err != nil {
		return nil, nil, fmt.Errorf("error reading result keys: %w", err)
	}
	records, err := result.Collect(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("error collecting records: %w", err)
	}
	return records, keys, nil
}

// Close releases the driver and its connection pool.
func (r *Neo4jRunner) Close(ctx context.Context) error {
	return r.driver.Close(ctx)
}
