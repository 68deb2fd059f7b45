package models

// Node labels present in the investigation graph schema.
const (
	LabelOfficer      = "officer"
	LabelEntity       = "entity"
	LabelIntermediary = "intermediary"
	LabelAddress      = "address"
)

// ValidNodeLabel reports whether label is one of the known graph labels.
// Labels are interpolated into Cypher, so unknown values must be rejected
// before query construction.
func ValidNodeLabel(label string) bool {
	switch label {
	case LabelOfficer, LabelEntity, LabelIntermediary, LabelAddress:
		return true
	}
	return false
}

// GraphNode is the node shape returned to API clients.
type GraphNode struct {
	ID         string         `json:"id"`
	NodeID     int64          `json:"node_id"`
	Label      string         `json:"label"`
	Properties map[string]any `json:"properties"`
}

// GraphLink is the edge shape returned to API clients.
type GraphLink struct {
	ID         string         `json:"id"`
	Source     string         `json:"source"`
	Target     string         `json:"target"`
	Type       string         `json:"type"`
	Properties map[string]any `json:"properties"`
}

// Subgraph bundles the unique nodes and links of a traversal result.
type Subgraph struct {
	Nodes []GraphNode `json:"nodes"`
	Links []GraphLink `json:"links"`
}
