package graph

import (
	"errors"
	"fmt"
	"maps"

	"github.com/matzehuels/sankey/pkg/dag"
)

// =============================================================================
// Constants - Single Source of Truth
// =============================================================================

// Visualization types.
const (
	VizTypeSankey   = "sankey"
	VizTypeNodelink = "nodelink"
)

// Visual styles for rendering.
const (
	StyleSimple   = "simple"
	StyleGradient = "gradient"
)

var (
	// ErrEmptyNodeID is returned by ToDAG for a node without an id.
	ErrEmptyNodeID = errors.New("node id is empty")

	// ErrDuplicateNode is returned by ToDAG when two nodes share an id.
	ErrDuplicateNode = errors.New("duplicate node id")
)

// =============================================================================
// Graph - Flow Graph Serialization
// =============================================================================

// Graph is the canonical serialization format for flow graphs.
// Used for input files, API requests, storage, and caching.
type Graph struct {
	Nodes []Node `json:"nodes" bson:"nodes"`
	Edges []Edge `json:"edges" bson:"edges"`
}

// Node is a serialized flow node.
type Node struct {
	ID    string         `json:"id" bson:"id"`
	Label string         `json:"label,omitempty" bson:"label,omitempty"` // Display label (defaults to ID)
	Value *float64       `json:"value,omitempty" bson:"value,omitempty"` // Fixed flow, overrides accumulated flow
	Color string         `json:"color,omitempty" bson:"color,omitempty"`
	Meta  map[string]any `json:"meta,omitempty" bson:"meta,omitempty"`
}

// DisplayLabel returns the label if set, otherwise the ID.
func (n *Node) DisplayLabel() string {
	if n.Label != "" {
		return n.Label
	}
	return n.ID
}

// Edge is a weighted flow between two nodes, referenced by id.
type Edge struct {
	From  string  `json:"from" bson:"from"`
	To    string  `json:"to" bson:"to"`
	Value float64 `json:"value" bson:"value"`
	Label string  `json:"label,omitempty" bson:"label,omitempty"`
	Color string  `json:"color,omitempty" bson:"color,omitempty"`
}

// =============================================================================
// DAG Payloads
// =============================================================================

// NodeData is the payload carried by nodes of a converted graph.
type NodeData struct {
	ID   string
	Meta map[string]any
}

func (d NodeData) String() string { return d.ID }

// EdgeData is the payload carried by edges of a converted graph. Index is
// the edge's position in the source Graph.Edges.
type EdgeData struct {
	Index int
}

// DAG is the in-memory flow graph built from a serialized Graph.
type DAG = dag.Graph[NodeData, EdgeData]

// DAGNode is a node of a DAG.
type DAGNode = dag.Node[NodeData]

// Diagnostics collects recoverable problems found while converting a Graph.
type Diagnostics struct {
	// UnresolvedEdges counts edges skipped because an endpoint id names no
	// node.
	UnresolvedEdges int
	// Skipped lists the skipped edges in input order.
	Skipped []Edge
}

// =============================================================================
// DAG ↔ Graph Conversion
// =============================================================================

// ToDAG builds a flow graph from its serialized form. Nodes get handles in
// input order. Edges whose endpoints do not resolve are skipped and reported
// in the returned Diagnostics; every other problem (empty or duplicate ids,
// negative values) is an error.
func ToDAG(gj Graph) (*DAG, Diagnostics, error) {
	var diag Diagnostics
	d := dag.New[NodeData, EdgeData]()
	index := make(map[string]dag.NodeID, len(gj.Nodes))

	for _, nj := range gj.Nodes {
		if nj.ID == "" {
			return nil, diag, ErrEmptyNodeID
		}
		if _, dup := index[nj.ID]; dup {
			return nil, diag, fmt.Errorf("%w: %s", ErrDuplicateNode, nj.ID)
		}
		id, err := d.AddNode(NodeData{ID: nj.ID, Meta: maps.Clone(nj.Meta)}, dag.NodeAttrs{
			Value: nj.Value,
			Label: nj.Label,
			Color: nj.Color,
		})
		if err != nil {
			return nil, diag, fmt.Errorf("add node %s: %w", nj.ID, err)
		}
		index[nj.ID] = id
	}

	for i, ej := range gj.Edges {
		from, okFrom := index[ej.From]
		to, okTo := index[ej.To]
		if !okFrom || !okTo {
			diag.UnresolvedEdges++
			diag.Skipped = append(diag.Skipped, ej)
			continue
		}
		if _, err := d.AddEdge(from, to, ej.Value, EdgeData{Index: i}, dag.EdgeAttrs{
			Label: ej.Label,
			Color: ej.Color,
		}); err != nil {
			return nil, diag, fmt.Errorf("add edge %s→%s: %w", ej.From, ej.To, err)
		}
	}

	return d, diag, nil
}

// FromDAG converts a flow graph back to its serialization format, in handle
// order.
func FromDAG(d *DAG) Graph {
	out := Graph{
		Nodes: make([]Node, 0, d.NodeCount()),
		Edges: make([]Edge, 0, d.EdgeCount()),
	}
	for _, n := range d.Nodes() {
		var value *float64
		if n.Value != nil {
			v := *n.Value
			value = &v
		}
		out.Nodes = append(out.Nodes, Node{
			ID:    n.Data.ID,
			Label: n.Label,
			Value: value,
			Color: n.Color,
			Meta:  maps.Clone(n.Data.Meta),
		})
	}
	for _, e := range d.Edges() {
		from, _ := d.Node(e.From)
		to, _ := d.Node(e.To)
		out.Edges = append(out.Edges, Edge{
			From:  from.Data.ID,
			To:    to.Data.ID,
			Value: e.Value,
			Label: e.Label,
			Color: e.Color,
		})
	}
	return out
}

// Key returns a function mapping node handles of d to their serialized ids.
func Key(d *DAG) func(dag.NodeID) string {
	return func(id dag.NodeID) string {
		if n, ok := d.Node(id); ok {
			return n.Data.ID
		}
		return ""
	}
}
