package graph

import (
	"context"
	"errors"
	"testing"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j/dbtype"
	"github.com/netinvest/server/internal/common"
	"github.com/netinvest/server/internal/server/config"
	"github.com/netinvest/server/internal/server/models"
)

// fakeRunner replays canned responses keyed by call order and records the
// queries it saw.
type fakeRunner struct {
	responses []fakeResponse
	queries   []string
	params    []map[string]any
}

type fakeResponse struct {
	records []*neo4j.Record
	keys    []string
	err     error
}

func (f *fakeRunner) Run(ctx context.Context, query string, params map[string]any) ([]*neo4j.Record, []string, error) {
	f.queries = append(f.queries, query)
	f.params = append(f.params, params)
	if len(f.responses) == 0 {
		return nil, nil, nil
	}
	resp := f.responses[0]
	f.responses = f.responses[1:]
	return resp.records, resp.keys, resp.err
}

func newTestService(runner QueryRunner) *Service {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	return NewService(runner, cfg)
}

func record(keys []string, values ...any) *neo4j.Record {
	return &neo4j.Record{Keys: keys, Values: values}
}

func testNode(elementID string, nodeID int64, label, name string) dbtype.Node {
	return dbtype.Node{
		ElementId: elementID,
		Labels:    []string{label},
		Props:     map[string]any{"node_id": nodeID, "name": name},
	}
}

func testRel(elementID, start, end, relType string) dbtype.Relationship {
	return dbtype.Relationship{
		ElementId:      elementID,
		StartElementId: start,
		EndElementId:   end,
		Type:           relType,
		Props:          map[string]any{},
	}
}

// --- Search ---

func TestSearch_ByName(t *testing.T) {
	runner := &fakeRunner{responses: []fakeResponse{{
		records: []*neo4j.Record{
			record([]string{"n"}, testNode("4:abc:1", 10, models.LabelOfficer, "Alice Corp")),
			record([]string{"n"}, testNode("4:abc:2", 11, models.LabelEntity, "Alice Holdings")),
		},
	}}}
	s := newTestService(runner)

	result, err := s.Search(context.Background(), SearchQuery{Name: "alice"})
	if err != nil {
		t.Fatalf("Search error: %v", err)
	}
	if result.Total != 2 || len(result.Nodes) != 2 {
		t.Fatalf("total = %d, nodes = %d, want 2", result.Total, len(result.Nodes))
	}

	got := result.Nodes[0]
	if got.ID != "4:abc:1" || got.NodeID != 10 || got.Label != models.LabelOfficer {
		t.Errorf("unexpected node: %+v", got)
	}
	if _, ok := got.Properties["node_id"]; ok {
		t.Errorf("node_id left inside properties: %v", got.Properties)
	}
	if got.Properties["name"] != "Alice Corp" {
		t.Errorf("name property lost: %v", got.Properties)
	}
}

func TestSearch_ByNodeIDWithinLabel(t *testing.T) {
	runner := &fakeRunner{responses: []fakeResponse{{
		records: []*neo4j.Record{record([]string{"n"}, testNode("4:abc:1", 10, models.LabelEntity, "X"))},
	}}}
	s := newTestService(runner)

	id := int64(10)
	result, err := s.Search(context.Background(), SearchQuery{NodeID: &id, Label: models.LabelEntity})
	if err != nil {
		t.Fatalf("Search error: %v", err)
	}
	if result.Total != 1 {
		t.Fatalf("total = %d, want 1", result.Total)
	}
	if q := runner.queries[0]; q != "MATCH (n:`entity`) WHERE n.node_id = $node_id RETURN n SKIP $offset LIMIT $limit" {
		t.Errorf("unexpected query: %q", q)
	}
	if runner.params[0]["node_id"] != id {
		t.Errorf("node_id param = %v", runner.params[0]["node_id"])
	}
}

func TestSearch_NoCriteria(t *testing.T) {
	s := newTestService(&fakeRunner{})
	if _, err := s.Search(context.Background(), SearchQuery{}); err == nil {
		t.Fatalf("expected error for empty criteria")
	}
}

func TestSearch_InvalidLabel(t *testing.T) {
	s := newTestService(&fakeRunner{})
	if _, err := s.Search(context.Background(), SearchQuery{Name: "x", Label: "person) DETACH DELETE (n"}); !errors.Is(err, ErrInvalidLabel) {
		t.Fatalf("err = %v, want ErrInvalidLabel", err)
	}
}

func TestSearch_LimitClamped(t *testing.T) {
	runner := &fakeRunner{}
	s := newTestService(runner)

	if _, err := s.Search(context.Background(), SearchQuery{Name: "x", Limit: 99999}); err != nil {
		t.Fatalf("Search error: %v", err)
	}
	if runner.params[0]["limit"] != 1000 {
		t.Errorf("limit = %v, want clamp to 1000", runner.params[0]["limit"])
	}
}

// --- Neighbors ---

func TestNeighbors_Subgraph(t *testing.T) {
	start := testNode("e:1", 1, models.LabelOfficer, "A")
	n1 := testNode("e:2", 2, models.LabelEntity, "B")
	n2 := testNode("e:3", 3, models.LabelEntity, "C")
	runner := &fakeRunner{responses: []fakeResponse{{
		records: []*neo4j.Record{
			record([]string{"start", "r", "neighbor"}, start, testRel("r:1", "e:1", "e:2", "役員"), n1),
			record([]string{"start", "r", "neighbor"}, start, testRel("r:2", "e:1", "e:3", "役員"), n2),
		},
	}}}
	s := newTestService(runner)

	sub, err := s.Neighbors(context.Background(), 1, "", 100)
	if err != nil {
		t.Fatalf("Neighbors error: %v", err)
	}
	// the start node appears once despite showing up in every record
	if len(sub.Nodes) != 3 {
		t.Fatalf("nodes = %d, want 3", len(sub.Nodes))
	}
	if len(sub.Links) != 2 {
		t.Fatalf("links = %d, want 2", len(sub.Links))
	}
	if sub.Links[0].Source != "e:1" || sub.Links[0].Target != "e:2" || sub.Links[0].Type != "役員" {
		t.Errorf("unexpected link: %+v", sub.Links[0])
	}
}

func TestNeighbors_StartNodeMissing(t *testing.T) {
	runner := &fakeRunner{responses: []fakeResponse{
		{records: nil}, // neighbor query
		{records: nil}, // existence check
	}}
	s := newTestService(runner)

	_, err := s.Neighbors(context.Background(), 42, "", 0)
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("err = %v, want ErrorNotFound", err)
	}
	if len(runner.queries) != 2 {
		t.Fatalf("queries = %d, want neighbor query plus existence check", len(runner.queries))
	}
}

func TestNeighbors_LoneNode(t *testing.T) {
	lone := testNode("e:9", 9, models.LabelAddress, "Nowhere 1")
	runner := &fakeRunner{responses: []fakeResponse{
		{records: nil},
		{records: []*neo4j.Record{record([]string{"n"}, lone)}},
	}}
	s := newTestService(runner)

	sub, err := s.Neighbors(context.Background(), 9, "", 0)
	if err != nil {
		t.Fatalf("Neighbors error: %v", err)
	}
	if len(sub.Nodes) != 1 || len(sub.Links) != 0 {
		t.Fatalf("nodes = %d links = %d, want lone node with no links", len(sub.Nodes), len(sub.Links))
	}
}

func TestNeighbors_LabelFilterMatchesNothing(t *testing.T) {
	exists := testNode("e:9", 9, models.LabelOfficer, "A")
	runner := &fakeRunner{responses: []fakeResponse{
		{records: nil},
		{records: []*neo4j.Record{record([]string{"n"}, exists)}},
	}}
	s := newTestService(runner)

	_, err := s.Neighbors(context.Background(), 9, models.LabelAddress, 0)
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("err = %v, want ErrorNotFound", err)
	}
}

// --- ShortestPath ---

func TestShortestPath_Found(t *testing.T) {
	a := testNode("e:1", 1, models.LabelOfficer, "A")
	b := testNode("e:2", 2, models.LabelIntermediary, "B")
	c := testNode("e:3", 3, models.LabelEntity, "C")
	path := dbtype.Path{
		Nodes: []dbtype.Node{a, b, c},
		Relationships: []dbtype.Relationship{
			testRel("r:1", "e:1", "e:2", "仲介"),
			testRel("r:2", "e:2", "e:3", "仲介"),
		},
	}
	runner := &fakeRunner{responses: []fakeResponse{{
		records: []*neo4j.Record{record([]string{"path"}, path)},
	}}}
	s := newTestService(runner)

	sub, err := s.ShortestPath(context.Background(), 1, 3, 5)
	if err != nil {
		t.Fatalf("ShortestPath error: %v", err)
	}
	if len(sub.Nodes) != 3 || len(sub.Links) != 2 {
		t.Fatalf("nodes = %d links = %d", len(sub.Nodes), len(sub.Links))
	}
	if q := runner.queries[0]; q != "MATCH path = shortestPath((start {node_id: $start_node_id})-[*1..5]-(end {node_id: $end_node_id})) RETURN path" {
		t.Errorf("unexpected query: %q", q)
	}
}

func TestShortestPath_NoPath(t *testing.T) {
	s := newTestService(&fakeRunner{responses: []fakeResponse{{records: nil}}})

	_, err := s.ShortestPath(context.Background(), 1, 2, 5)
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("err = %v, want ErrorNotFound", err)
	}
}

func TestShortestPath_HopsOutOfRange(t *testing.T) {
	s := newTestService(&fakeRunner{})
	for _, hops := range []int{0, 11, -3} {
		if _, err := s.ShortestPath(context.Background(), 1, 2, hops); err == nil {
			t.Errorf("max_hops = %d accepted", hops)
		}
	}
}

// --- ExecuteCypher ---

func TestExecuteCypher_SerializesEntities(t *testing.T) {
	node := testNode("e:1", 1, models.LabelOfficer, "A")
	runner := &fakeRunner{responses: []fakeResponse{{
		records: []*neo4j.Record{record([]string{"n", "cnt"}, node, int64(7))},
		keys:    []string{"n", "cnt"},
	}}}
	s := newTestService(runner)

	result, err := s.ExecuteCypher(context.Background(), "MATCH (n) RETURN n, count(*) AS cnt", nil)
	if err != nil {
		t.Fatalf("ExecuteCypher error: %v", err)
	}
	if result.Count != 1 || len(result.Keys) != 2 {
		t.Fatalf("count = %d keys = %v", result.Count, result.Keys)
	}

	serialized, ok := result.Results[0]["n"].(map[string]any)
	if !ok {
		t.Fatalf("node not serialized: %#v", result.Results[0]["n"])
	}
	if serialized["_type"] != "node" || serialized["element_id"] != "e:1" {
		t.Errorf("unexpected serialized node: %v", serialized)
	}
	if result.Results[0]["cnt"] != int64(7) {
		t.Errorf("primitive value mangled: %v", result.Results[0]["cnt"])
	}
}

func TestExecuteCypher_EmptyQuery(t *testing.T) {
	s := newTestService(&fakeRunner{})
	if _, err := s.ExecuteCypher(context.Background(), "   ", nil); !errors.Is(err, ErrEmptyQuery) {
		t.Fatalf("err = %v, want ErrEmptyQuery", err)
	}
}

func TestExecuteCypher_ReadOnlyGuard(t *testing.T) {
	s := newTestService(&fakeRunner{})

	rejected := []string{
		"MATCH (n) DETACH DELETE n",
		"MATCH (n) DELETE n",
		"DROP INDEX node_id_index",
		"CREATE CONSTRAINT unique_id FOR (n:entity) REQUIRE n.node_id IS UNIQUE",
		"MERGE (n:entity {node_id: 1}) DELETE n",
	}
	for _, q := range rejected {
		if _, err := s.ExecuteCypher(context.Background(), q, nil); !errors.Is(err, ErrWriteQuery) {
			t.Errorf("query %q: err = %v, want ErrWriteQuery", q, err)
		}
	}

	// DELETE inside a string literal of a read query passes the guard
	allowed := "MATCH (n) WHERE n.name CONTAINS 'DELETED_ACCOUNT' RETURN n"
	if _, err := s.ExecuteCypher(context.Background(), allowed, nil); err != nil {
		t.Errorf("query %q rejected: %v", allowed, err)
	}
}

// --- Schema / Stats ---

func TestSchema(t *testing.T) {
	runner := &fakeRunner{responses: []fakeResponse{
		{records: []*neo4j.Record{
			record([]string{"label"}, "officer"),
			record([]string{"label"}, "entity"),
		}},
		{records: []*neo4j.Record{record([]string{"relationshipType"}, "役員")}},
		{records: []*neo4j.Record{record([]string{"propertyKey"}, "name")}},
	}}
	s := newTestService(runner)

	schema, err := s.Schema(context.Background())
	if err != nil {
		t.Fatalf("Schema error: %v", err)
	}
	if len(schema.NodeLabels) != 2 || schema.NodeLabels[0] != "officer" {
		t.Errorf("labels = %v", schema.NodeLabels)
	}
	if len(schema.RelationshipTypes) != 1 || len(schema.PropertyKeys) != 1 {
		t.Errorf("schema = %+v", schema)
	}
}

func TestStats(t *testing.T) {
	runner := &fakeRunner{responses: []fakeResponse{{
		records: []*neo4j.Record{record([]string{"nodeCount", "relationshipCount"}, int64(100), int64(250))},
	}}}
	s := newTestService(runner)

	stats, err := s.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats error: %v", err)
	}
	if stats.NodeCount != 100 || stats.RelationshipCount != 250 {
		t.Fatalf("stats = %+v", stats)
	}
}

func TestStats_EmptyDatabase(t *testing.T) {
	s := newTestService(&fakeRunner{responses: []fakeResponse{{records: nil}}})

	stats, err := s.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats error: %v", err)
	}
	if stats.NodeCount != 0 || stats.RelationshipCount != 0 {
		t.Fatalf("stats = %+v", stats)
	}
}

func TestRunnerError_Wrapped(t *testing.T) {
	s := newTestService(&fakeRunner{responses: []fakeResponse{{err: errors.New("connection refused")}}})

	if _, err := s.Search(context.Background(), SearchQuery{Name: "x"}); err == nil {
		t.Fatalf("expected error")
	}
}
