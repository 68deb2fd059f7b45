package graph

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j/dbtype"
	"github.com/netinvest/server/internal/common"
	"github.com/netinvest/server/internal/server/config"
	"github.com/netinvest/server/internal/server/models"
)

var (
	// ErrEmptyQuery is returned for a blank Cypher passthrough request.
	ErrEmptyQuery = errors.New("query cannot be empty")
	// ErrWriteQuery is returned when the passthrough guard rejects a
	// query containing write or DDL operations.
	ErrWriteQuery = errors.New("only read operations are allowed")
	// ErrInvalidLabel is returned for a label outside the known schema.
	ErrInvalidLabel = errors.New("unknown node label")
)

// SearchQuery describes a node search. At least one of NodeID and Name
// must be set; Label narrows the search to one schema label.
type SearchQuery struct {
	NodeID *int64
	Name   string
	Label  string
	Limit  int
	Offset int
}

// SearchResult is the search response payload.
type SearchResult struct {
	Nodes []models.GraphNode `json:"nodes"`
	Total int                `json:"total"`
}

// CypherResult carries raw passthrough query results.
type CypherResult struct {
	Results []map[string]any `json:"results"`
	Count   int              `json:"count"`
	Keys    []string         `json:"keys"`
}

// SchemaInfo describes the graph schema.
type SchemaInfo struct {
	NodeLabels        []string `json:"node_labels"`
	RelationshipTypes []string `json:"relationship_types"`
	PropertyKeys      []string `json:"property_keys"`
}

// Stats holds entity counts for the whole graph.
type Stats struct {
	NodeCount         int64 `json:"node_count"`
	RelationshipCount int64 `json:"relationship_count"`
}

// RelationshipType is one entry of the static schema listing.
type RelationshipType struct {
	Value       string `json:"value"`
	Description string `json:"description"`
}

// Service answers graph queries through a QueryRunner.
type Service struct {
	runner       QueryRunner
	defaultLimit int
	maxLimit     int
}

// NewService constructs a graph Service with the configured result caps.
func NewService(runner QueryRunner, cfg *config.Config) *Service {
	return &Service{
		runner:       runner,
		defaultLimit: cfg.DefaultLimit,
		maxLimit:     cfg.MaxLimit,
	}
}

func (s *Service) clampLimit(limit int) int {
	if limit <= 0 {
		return s.defaultLimit
	}
	if limit > s.maxLimit {
		return s.maxLimit
	}
	return limit
}

// Search finds nodes by exact node_id or case-insensitive partial name,
// optionally within a single label. node_id wins when both are given.
func (s *Service) Search(ctx context.Context, q SearchQuery) (*SearchResult, error) {
	if q.NodeID == nil && q.Name == "" {
		return nil, errors.New("at least one search parameter (node_id or name) is required")
	}

	// labels are interpolated, so reject anything outside the schema
	match := "MATCH (n)"
	if q.Label != "" {
		if !models.ValidNodeLabel(q.Label) {
			return nil, ErrInvalidLabel
		}
		match = fmt.Sprintf("MATCH (n:`%s`)", q.Label)
	}

	var query string
	params := map[string]any{
		"limit":  s.clampLimit(q.Limit),
		"offset": max(q.Offset, 0),
	}
	if q.NodeID != nil {
		query = match + " WHERE n.node_id = $node_id RETURN n SKIP $offset LIMIT $limit"
		params["node_id"] = *q.NodeID
	} else {
		query = match + " WHERE n.name IS NOT NULL AND toLower(n.name) CONTAINS toLower($name) RETURN n SKIP $offset LIMIT $limit"
		params["name"] = q.Name
	}

	records, _, err := s.runner.Run(ctx, query, params)
	if err != nil {
		return nil, fmt.Errorf("error searching nodes: %w", err)
	}

	nodes := []models.GraphNode{}
	for _, record := range records {
		raw, ok := record.Get("n")
		if !ok {
			continue
		}
		node, ok := raw.(dbtype.Node)
		if !ok {
			continue
		}
		nodes = append(nodes, nodeToGraphNode(node))
	}

	return &SearchResult{Nodes: nodes, Total: len(nodes)}, nil
}

// Neighbors returns the 1-hop subgraph around the node with the given
// node_id, optionally keeping only neighbors carrying the label. Returns
// common.ErrorNotFound when the start node does not exist, or when a label
// filter matches nothing. A connected-to-nothing start node comes back
// alone with no links.
func (s *Service) Neighbors(ctx context.Context, nodeID int64, label string, limit int) (*models.Subgraph, error) {
	query := "MATCH (start {node_id: $node_id})-[r]-(neighbor) RETURN start, r, neighbor LIMIT $limit"
	if label != "" {
		if !models.ValidNodeLabel(label) {
			return nil, ErrInvalidLabel
		}
		query = fmt.Sprintf("MATCH (start {node_id: $node_id})-[r]-(neighbor:`%s`) RETURN start, r, neighbor LIMIT $limit", label)
	}

	records, _, err := s.runner.Run(ctx, query, map[string]any{
		"node_id": nodeID,
		"limit":   s.clampLimit(limit),
	})
	if err != nil {
		return nil, fmt.Errorf("error searching neighbors: %w", err)
	}

	collector := newSubgraphCollector()
	for _, record := range records {
		if raw, ok := record.Get("start"); ok {
			if node, ok := raw.(dbtype.Node); ok {
				collector.addNode(node)
			}
		}
		if raw, ok := record.Get("neighbor"); ok {
			if node, ok := raw.(dbtype.Node); ok {
				collector.addNode(node)
			}
		}
		if raw, ok := record.Get("r"); ok {
			if rel, ok := raw.(dbtype.Relationship); ok {
				collector.addRelationship(rel)
			}
		}
	}
	if len(collector.nodes) > 0 {
		return collector.subgraph(), nil
	}

	// empty result: distinguish a missing start node from one with no
	// (matching) neighbors
	checkRecords, _, err := s.runner.Run(ctx, "MATCH (n {node_id: $node_id}) RETURN n LIMIT 1", map[string]any{"node_id": nodeID})
	if err != nil {
		return nil, fmt.Errorf("error checking node: %w", err)
	}
	if len(checkRecords) == 0 {
		return nil, common.ErrorNotFound
	}
	if label != "" {
		return nil, common.ErrorNotFound
	}

	raw, ok := checkRecords[0].Get("n")
	if !ok {
		return nil, common.ErrorNotFound
	}
	node, ok := raw.(dbtype.Node)
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &models.Subgraph{Nodes: []models.GraphNode{nodeToGraphNode(node)}, Links: []models.GraphLink{}}, nil
}

// ShortestPath finds one shortest path between two nodes within maxHops
// hops. Returns common.ErrorNotFound when no path exists.
func (s *Service) ShortestPath(ctx context.Context, startNodeID, endNodeID int64, maxHops int) (*models.Subgraph, error) {
	if maxHops < 1 || maxHops > 10 {
		return nil, errors.New("max_hops must be between 1 and 10")
	}

	// the variable-length bound cannot be parameterized in Cypher
	query := fmt.Sprintf(
		"MATCH path = shortestPath((start {node_id: $start_node_id})-[*1..%d]-(end {node_id: $end_node_id})) RETURN path",
		maxHops,
	)

	records, _, err := s.runner.Run(ctx, query, map[string]any{
		"start_node_id": startNodeID,
		"end_node_id":   endNodeID,
	})
	if err != nil {
		return nil, fmt.Errorf("error searching path: %w", err)
	}

	collector := newSubgraphCollector()
	for _, record := range records {
		raw, ok := record.Get("path")
		if !ok {
			continue
		}
		path, ok := raw.(dbtype.Path)
		if !ok {
			continue
		}
		for _, node := range path.Nodes {
			collector.addNode(node)
		}
		for _, rel := range path.Relationships {
			collector.addRelationship(rel)
		}
	}
	if len(collector.nodes) == 0 {
		return nil, common.ErrorNotFound
	}
	return collector.subgraph(), nil
}

// ExecuteCypher runs an arbitrary read-only query and returns serialized
// raw records. Blank queries yield ErrEmptyQuery; queries containing write
// or DDL operations yield ErrWriteQuery.
func (s *Service) ExecuteCypher(ctx context.Context, query string, params map[string]any) (*CypherResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}
	if err := validateReadOnly(query); err != nil {
		return nil, err
	}
	if params == nil {
		params = map[string]any{}
	}

	records, keys, err := s.runner.Run(ctx, query, params)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}

	results := make([]map[string]any, 0, len(records))
	for _, record := range records {
		results = append(results, serializeRecord(record))
	}
	if keys == nil {
		keys = []string{}
	}

	return &CypherResult{Results: results, Count: len(results), Keys: keys}, nil
}

// Schema lists node labels, relationship types, and property keys.
func (s *Service) Schema(ctx context.Context) (*SchemaInfo, error) {
	labels, err := s.listStrings(ctx, "CALL db.labels()", "label")
	if err != nil {
		return nil, err
	}
	relTypes, err := s.listStrings(ctx, "CALL db.relationshipTypes()", "relationshipType")
	if err != nil {
		return nil, err
	}
	propKeys, err := s.listStrings(ctx, "CALL db.propertyKeys()", "propertyKey")
	if err != nil {
		return nil, err
	}
	return &SchemaInfo{NodeLabels: labels, RelationshipTypes: relTypes, PropertyKeys: propKeys}, nil
}

// Stats counts nodes and relationships.
func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	query := "MATCH (n) WITH count(n) AS nodeCount MATCH ()-[r]->() RETURN nodeCount, count(r) AS relationshipCount"

	records, _, err := s.runner.Run(ctx, query, map[string]any{})
	if err != nil {
		return nil, fmt.Errorf("error reading stats: %w", err)
	}
	if len(records) == 0 {
		return &Stats{}, nil
	}

	stats := &Stats{}
	if raw, ok := records[0].Get("nodeCount"); ok {
		if n, ok := raw.(int64); ok {
			stats.NodeCount = n
		}
	}
	if raw, ok := records[0].Get("relationshipCount"); ok {
		if n, ok := raw.(int64); ok {
			stats.RelationshipCount = n
		}
	}
	return stats, nil
}

// RelationshipTypes is the static schema listing of known edge types.
func (s *Service) RelationshipTypes() []RelationshipType {
	return []RelationshipType{
		{Value: "役員", Description: "Officer relationship"},
		{Value: "仲介", Description: "Intermediary relationship"},
		{Value: "所在地", Description: "Location relationship"},
		{Value: "登録住所", Description: "Registered address relationship"},
		{Value: "同名人物", Description: "Same name person"},
		{Value: "同一人物?", Description: "Possibly same person"},
	}
}

func (s *Service) listStrings(ctx context.Context, query, key string) ([]string, error) {
	records, _, err := s.runner.Run(ctx, query, map[string]any{})
	if err != nil {
		return nil, fmt.Errorf("error reading schema: %w", err)
	}
	out := []string{}
	for _, record := range records {
		if raw, ok := record.Get(key); ok {
			if value, ok := raw.(string); ok {
				out = append(out, value)
			}
		}
	}
	return out, nil
}

var forbiddenKeywords = []string{
	"DELETE", "DETACH DELETE", "DROP",
	"CREATE INDEX", "DROP INDEX",
	"CREATE CONSTRAINT", "DROP CONSTRAINT",
}

var readStarters = []string{"MATCH", "OPTIONAL MATCH", "WITH", "UNWIND", "CALL", "RETURN"}

// validateReadOnly rejects queries carrying write or DDL keywords. A
// keyword appearing inside a string literal of a read query is tolerated
// unless it also stands alone as a token.
func validateReadOnly(query string) error {
	upper := strings.ToUpper(query)

	startsWithRead := false
	for _, starter := range readStarters {
		if strings.HasPrefix(upper, starter) {
			startsWithRead = true
			break
		}
	}

	tokens := make(map[string]struct{})
	for _, field := range strings.Fields(upper) {
		tokens[field] = struct{}{}
	}

	for _, keyword := range forbiddenKeywords {
		if !strings.Contains(upper, keyword) {
			continue
		}
		if !startsWithRead {
			return ErrWriteQuery
		}
		if _, ok := tokens[keyword]; ok {
			return ErrWriteQuery
		}
	}
	return nil
}
