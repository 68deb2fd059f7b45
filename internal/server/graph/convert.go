package graph

import (
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j/dbtype"
	"github.com/netinvest/server/internal/server/models"
)

// nodeToGraphNode converts a database node into the API node shape. The
// node_id property is lifted out of the property bag into its own field.
func nodeToGraphNode(node dbtype.Node) models.GraphNode {
	props := make(map[string]any, len(node.Props))
	for k, v := range node.Props {
		props[k] = v
	}

	var nodeID int64
	if raw, ok := props["node_id"]; ok {
		if id, ok := raw.(int64); ok {
			nodeID = id
		}
		delete(props, "node_id")
	}

	label := "Unknown"
	if len(node.Labels) > 0 {
		label = node.Labels[0]
	}

	return models.GraphNode{
		ID:         node.ElementId,
		NodeID:     nodeID,
		Label:      label,
		Properties: props,
	}
}

func relationshipToGraphLink(rel dbtype.Relationship) models.GraphLink {
	props := make(map[string]any, len(rel.Props))
	for k, v := range rel.Props {
		props[k] = v
	}
	return models.GraphLink{
		ID:         rel.ElementId,
		Source:     rel.StartElementId,
		Target:     rel.EndElementId,
		Type:       rel.Type,
		Properties: props,
	}
}

// subgraphCollector deduplicates nodes and links by element id while
// preserving first-seen order.
type subgraphCollector struct {
	nodes     []models.GraphNode
	links     []models.GraphLink
	seenNodes map[string]struct{}
	seenLinks map[string]struct{}
}

func newSubgraphCollector() *subgraphCollector {
	return &subgraphCollector{
		nodes:     []models.GraphNode{},
		links:     []models.GraphLink{},
		seenNodes: make(map[string]struct{}),
		seenLinks: make(map[string]struct{}),
	}
}

func (c *subgraphCollector) addNode(node dbtype.Node) {
	if _, ok := c.seenNodes[node.ElementId]; ok {
		return
	}
	c.seenNodes[node.ElementId] = struct{}{}
	c.nodes = append(c.nodes, nodeToGraphNode(node))
}

func (c *subgraphCollector) addRelationship(rel dbtype.Relationship) {
	if _, ok := c.seenLinks[rel.ElementId]; ok {
		return
	}
	c.seenLinks[rel.ElementId] = struct{}{}
	c.links = append(c.links, relationshipToGraphLink(rel))
}

func (c *subgraphCollector) subgraph() *models.Subgraph {
	return &models.Subgraph{Nodes: c.nodes, Links: c.links}
}

// serializeValue maps graph entities inside raw Cypher results onto tagged
// JSON-friendly objects; containers recurse, primitives pass through.
func serializeValue(value any) any {
	switch v := value.(type) {
	case dbtype.Node:
		return map[string]any{
			"_type":      "node",
			"element_id": v.ElementId,
			"labels":     v.Labels,
			"properties": v.Props,
		}
	case dbtype.Relationship:
		return map[string]any{
			"_type":                 "relationship",
			"element_id":            v.ElementId,
			"type":                  v.Type,
			"start_node_element_id": v.StartElementId,
			"end_node_element_id":   v.EndElementId,
			"properties":            v.Props,
		}
	case dbtype.Path:
		nodes := make([]any, 0, len(v.Nodes))
		for _, n := range v.Nodes {
			nodes = append(nodes, serializeValue(n))
		}
		rels := make([]any, 0, len(v.Relationships))
		for _, r := range v.Relationships {
			rels = append(rels, serializeValue(r))
		}
		return map[string]any{
			"_type":         "path",
			"nodes":         nodes,
			"relationships": rels,
		}
	case []any:
		out := make([]any, 0, len(v))
		for _, item := range v {
			out = append(out, serializeValue(item))
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, item := range v {
			out[k] = serializeValue(item)
		}
		return out
	default:
		return value
	}
}

func serializeRecord(record *neo4j.Record) map[string]any {
	out := make(map[string]any, len(record.Keys))
	for i, key := range record.Keys {
		out[key] = serializeValue(record.Values[i])
	}
	return out
}
