package dag

import (
	"errors"
	"fmt"
	"math"
	"slices"
)

var (
	// ErrUnknownSourceNode is returned by [Graph.AddEdge] when the source
	// handle does not resolve to a node of the graph.
	ErrUnknownSourceNode = errors.New("unknown source node")

	// ErrUnknownTargetNode is returned by [Graph.AddEdge] when the target
	// handle does not resolve to a node of the graph.
	ErrUnknownTargetNode = errors.New("unknown target node")

	// ErrNegativeValue is returned when a node or edge value is negative or
	// not a finite number. Flows are magnitudes and must be >= 0.
	ErrNegativeValue = errors.New("value must be a finite non-negative number")

	// ErrGraphNotAcyclic is the sentinel wrapped by layer assignment when a
	// cycle prevents topological processing.
	ErrGraphNotAcyclic = errors.New("graph is not acyclic")

	// ErrLayersAssigned is returned by [Graph.SetLayers] when layers were
	// already assigned. A node's layer is set exactly once per run.
	ErrLayersAssigned = errors.New("layers already assigned")

	// ErrLayersNotAssigned is returned by operations that need a layer
	// partition before one exists.
	ErrLayersNotAssigned = errors.New("layers not assigned")

	// ErrNotPermutation is returned by [Graph.SetOrder] when the proposed
	// order is not a permutation of the layer's members.
	ErrNotPermutation = errors.New("order is not a permutation of the layer")

	// ErrOrderFrozen is returned by [Graph.SetOrder] after [Graph.Freeze].
	// Coordinates depend on the order, so it cannot change once they exist.
	ErrOrderFrozen = errors.New("layer order is frozen")
)

// NodeID is a stable handle to a node. It indexes the graph's node arena and
// stays valid for the lifetime of the graph.
type NodeID int

// EdgeID is a stable handle to an edge in the graph's edge arena.
type EdgeID int

// NoLayer marks a node whose layer has not been assigned yet.
const NoLayer = -1

// Rect is an axis-aligned rectangle in surface coordinates. Y grows downward.
type Rect struct {
	X, Y, W, H float64
}

// Node is an arena-resident vertex. Layer assignment, ordering and layout
// write their results directly into the record.
type Node[N fmt.Stringer] struct {
	ID    NodeID
	Data  N
	Value *float64 // fixed flow; nil means derive from edges
	Label string   // overrides Data.String() when set
	Color string

	CurrentInput  float64
	CurrentOutput float64

	Layer    int
	Position int
	Geometry Rect

	// Ribbon cursors: y of the next outgoing/incoming band to attach.
	NextOut float64
	NextIn  float64
}

// HasValue reports whether the node carries a fixed value.
func (n *Node[N]) HasValue() bool { return n.Value != nil }

// Flow is the node's effective size: the fixed value if present, otherwise
// the larger of its input and output accumulators.
func (n *Node[N]) Flow() float64 {
	if n.Value != nil {
		return *n.Value
	}
	return math.Max(n.CurrentInput, n.CurrentOutput)
}

// RequiredInput is the fixed value if present, otherwise the input
// accumulated so far.
func (n *Node[N]) RequiredInput() float64 {
	if n.Value != nil {
		return *n.Value
	}
	return n.CurrentInput
}

// RequiredOutput is the fixed value if present, otherwise the output
// accumulated so far.
func (n *Node[N]) RequiredOutput() float64 {
	if n.Value != nil {
		return *n.Value
	}
	return n.CurrentOutput
}

// RemainingInput returns RequiredInput minus CurrentInput.
func (n *Node[N]) RemainingInput() float64 { return n.RequiredInput() - n.CurrentInput }

// RemainingOutput returns RequiredOutput minus CurrentOutput.
func (n *Node[N]) RemainingOutput() float64 { return n.RequiredOutput() - n.CurrentOutput }

// Name returns the display label: Label when set, otherwise Data.String().
func (n *Node[N]) Name() string {
	if n.Label != "" {
		return n.Label
	}
	return n.Data.String()
}

// Edge is a directed, weighted connection between two nodes.
type Edge[E any] struct {
	ID    EdgeID
	From  NodeID
	To    NodeID
	Value float64
	Label string
	Color string
	Data  E
}

// NodeAttrs holds the optional attributes of a node.
type NodeAttrs struct {
	Value *float64
	Label string
	Color string
}

// EdgeAttrs holds the optional attributes of an edge.
type EdgeAttrs struct {
	Label string
	Color string
}

// Graph is an arena-backed directed graph whose nodes carry a payload of type
// N and whose edges carry a payload of type E. Nodes and edges are addressed
// by integer handles; nothing is ever removed, so handles never dangle.
//
// The zero value is ready to use. A Graph is not safe for concurrent
// mutation; read-only access from multiple goroutines is fine.
type Graph[N fmt.Stringer, E any] struct {
	nodes  []Node[N]
	edges  []Edge[E]
	out    [][]EdgeID
	in     [][]EdgeID
	layers [][]NodeID
	frozen bool
}

// New returns an empty graph.
func New[N fmt.Stringer, E any]() *Graph[N, E] {
	return &Graph[N, E]{}
}

// AddNode appends a node and returns its handle. It fails with
// ErrNegativeValue when attrs.Value is negative or not finite.
func (g *Graph[N, E]) AddNode(data N, attrs NodeAttrs) (NodeID, error) {
	if attrs.Value != nil && !validValue(*attrs.Value) {
		return 0, fmt.Errorf("node %s: %w", data, ErrNegativeValue)
	}
	id := NodeID(len(g.nodes))
	var value *float64
	if attrs.Value != nil {
		v := *attrs.Value
		value = &v
	}
	g.nodes = append(g.nodes, Node[N]{
		ID:       id,
		Data:     data,
		Value:    value,
		Label:    attrs.Label,
		Color:    attrs.Color,
		Layer:    NoLayer,
		Position: -1,
	})
	g.out = append(g.out, nil)
	g.in = append(g.in, nil)
	return id, nil
}

// AddEdge registers a directed edge from → to with the given value. The
// value is accumulated into the source's output and the target's input.
//
// Multiple edges between the same pair of nodes are allowed.
func (g *Graph[N, E]) AddEdge(from, to NodeID, value float64, data E, attrs EdgeAttrs) (EdgeID, error) {
	if !g.valid(from) {
		return 0, fmt.Errorf("%w: %d", ErrUnknownSourceNode, from)
	}
	if !g.valid(to) {
		return 0, fmt.Errorf("%w: %d", ErrUnknownTargetNode, to)
	}
	if !validValue(value) {
		return 0, fmt.Errorf("edge %d->%d: %w", from, to, ErrNegativeValue)
	}
	out, in := g.nodes[from].CurrentOutput+value, g.nodes[to].CurrentInput+value
	if math.IsInf(out, 0) || math.IsInf(in, 0) {
		return 0, fmt.Errorf("edge %d->%d: accumulated flow overflows: %w", from, to, ErrNegativeValue)
	}
	id := EdgeID(len(g.edges))
	g.edges = append(g.edges, Edge[E]{
		ID:    id,
		From:  from,
		To:    to,
		Value: value,
		Label: attrs.Label,
		Color: attrs.Color,
		Data:  data,
	})
	g.out[from] = append(g.out[from], id)
	g.in[to] = append(g.in[to], id)
	g.nodes[from].CurrentOutput = out
	g.nodes[to].CurrentInput = in
	return id, nil
}

// Node returns the record for id. The pointer stays valid until the next
// AddNode call.
func (g *Graph[N, E]) Node(id NodeID) (*Node[N], bool) {
	if !g.valid(id) {
		return nil, false
	}
	return &g.nodes[id], true
}

// Edge returns the record for id.
func (g *Graph[N, E]) Edge(id EdgeID) (*Edge[E], bool) {
	if id < 0 || int(id) >= len(g.edges) {
		return nil, false
	}
	return &g.edges[id], true
}

// NodeCount returns the number of nodes.
func (g *Graph[N, E]) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of edges.
func (g *Graph[N, E]) EdgeCount() int { return len(g.edges) }

// Nodes returns pointers to every node record in handle order.
func (g *Graph[N, E]) Nodes() []*Node[N] {
	out := make([]*Node[N], len(g.nodes))
	for i := range g.nodes {
		out[i] = &g.nodes[i]
	}
	return out
}

// Edges returns pointers to every edge record in handle order.
func (g *Graph[N, E]) Edges() []*Edge[E] {
	out := make([]*Edge[E], len(g.edges))
	for i := range g.edges {
		out[i] = &g.edges[i]
	}
	return out
}

// Outgoing returns the edges leaving id in insertion order.
func (g *Graph[N, E]) Outgoing(id NodeID) []EdgeID {
	if !g.valid(id) {
		return nil
	}
	return g.out[id]
}

// Incoming returns the edges entering id in insertion order.
func (g *Graph[N, E]) Incoming(id NodeID) []EdgeID {
	if !g.valid(id) {
		return nil
	}
	return g.in[id]
}

// Successors returns the targets of id's outgoing edges, one per edge.
func (g *Graph[N, E]) Successors(id NodeID) []NodeID {
	ids := make([]NodeID, 0, len(g.Outgoing(id)))
	for _, e := range g.Outgoing(id) {
		ids = append(ids, g.edges[e].To)
	}
	return ids
}

// Predecessors returns the sources of id's incoming edges, one per edge.
func (g *Graph[N, E]) Predecessors(id NodeID) []NodeID {
	ids := make([]NodeID, 0, len(g.Incoming(id)))
	for _, e := range g.Incoming(id) {
		ids = append(ids, g.edges[e].From)
	}
	return ids
}

// Sources returns the nodes without incoming edges in handle order.
func (g *Graph[N, E]) Sources() []NodeID {
	var ids []NodeID
	for i := range g.nodes {
		if len(g.in[i]) == 0 {
			ids = append(ids, NodeID(i))
		}
	}
	return ids
}

// EdgeEnds returns the endpoints of e.
func (g *Graph[N, E]) EdgeEnds(e EdgeID) (from, to NodeID) {
	edge := g.edges[e]
	return edge.From, edge.To
}

// EdgeValue returns the weight of e.
func (g *Graph[N, E]) EdgeValue(e EdgeID) float64 { return g.edges[e].Value }

// NodeFlow returns the effective flow of id.
func (g *Graph[N, E]) NodeFlow(id NodeID) float64 { return g.nodes[id].Flow() }

// NodeLayer returns the layer of id, or NoLayer.
func (g *Graph[N, E]) NodeLayer(id NodeID) int { return g.nodes[id].Layer }

// NodePosition returns the index of id within its layer, or -1.
func (g *Graph[N, E]) NodePosition(id NodeID) int { return g.nodes[id].Position }

// NodeName returns the display label of id.
func (g *Graph[N, E]) NodeName(id NodeID) string { return g.nodes[id].Name() }

// SetLayers writes the layer of every node, indexed by NodeID, and builds
// the layer partition. Within a layer, nodes start out in handle order.
//
// It fails with ErrLayersAssigned on a second call and rejects a slice
// whose length differs from the node count or that contains a negative
// layer.
func (g *Graph[N, E]) SetLayers(layers []int) error {
	if g.layers != nil {
		return ErrLayersAssigned
	}
	if len(layers) != len(g.nodes) {
		return fmt.Errorf("set layers: got %d entries for %d nodes", len(layers), len(g.nodes))
	}
	count := 0
	for i, l := range layers {
		if l < 0 {
			return fmt.Errorf("set layers: node %d has negative layer %d", i, l)
		}
		count = max(count, l+1)
	}
	parts := make([][]NodeID, count)
	for i, l := range layers {
		g.nodes[i].Layer = l
		g.nodes[i].Position = len(parts[l])
		parts[l] = append(parts[l], NodeID(i))
	}
	for i := range parts {
		if parts[i] == nil {
			parts[i] = []NodeID{}
		}
	}
	g.layers = parts
	return nil
}

// Layered reports whether SetLayers has run.
func (g *Graph[N, E]) Layered() bool { return g.layers != nil }

// LayerCount returns the number of layers, 0 before layering.
func (g *Graph[N, E]) LayerCount() int { return len(g.layers) }

// Layer returns a copy of layer i in its current order.
func (g *Graph[N, E]) Layer(i int) []NodeID {
	if i < 0 || i >= len(g.layers) {
		return nil
	}
	return slices.Clone(g.layers[i])
}

// Layers returns a copy of every layer in its current order.
func (g *Graph[N, E]) Layers() [][]NodeID {
	out := make([][]NodeID, len(g.layers))
	for i, l := range g.layers {
		out[i] = slices.Clone(l)
	}
	return out
}

// SetOrder replaces the order of layer i. The new order must contain every
// member of the layer exactly once.
func (g *Graph[N, E]) SetOrder(i int, order []NodeID) error {
	if g.frozen {
		return ErrOrderFrozen
	}
	if g.layers == nil {
		return ErrLayersNotAssigned
	}
	if i < 0 || i >= len(g.layers) {
		return fmt.Errorf("set order: layer %d out of range [0,%d)", i, len(g.layers))
	}
	if !isPermutation(g.layers[i], order) {
		return fmt.Errorf("layer %d: %w", i, ErrNotPermutation)
	}
	g.layers[i] = slices.Clone(order)
	for pos, id := range order {
		g.nodes[id].Position = pos
	}
	return nil
}

// Freeze forbids further reordering. Layout calls it before computing
// coordinates.
func (g *Graph[N, E]) Freeze() { g.frozen = true }

// Frozen reports whether Freeze has been called.
func (g *Graph[N, E]) Frozen() bool { return g.frozen }

func (g *Graph[N, E]) valid(id NodeID) bool {
	return id >= 0 && int(id) < len(g.nodes)
}

func validValue(v float64) bool {
	return v >= 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}

func isPermutation(members, order []NodeID) bool {
	if len(members) != len(order) {
		return false
	}
	seen := make(map[NodeID]int, len(members))
	for _, id := range members {
		seen[id]++
	}
	for _, id := range order {
		if seen[id] == 0 {
			return false
		}
		seen[id]--
	}
	return true
}
