package dag_test

import (
	"fmt"

	"github.com/matzehuels/sankey/pkg/dag"
)

type stage string

func (s stage) String() string { return string(s) }

func ExampleGraph_basic() {
	// Build a small flow: intake splits into two outcomes
	g := dag.New[stage, struct{}]()
	intake, _ := g.AddNode("intake", dag.NodeAttrs{})
	ok, _ := g.AddNode("ok", dag.NodeAttrs{})
	fail, _ := g.AddNode("fail", dag.NodeAttrs{})
	_, _ = g.AddEdge(intake, ok, 3, struct{}{}, dag.EdgeAttrs{})
	_, _ = g.AddEdge(intake, fail, 1, struct{}{}, dag.EdgeAttrs{})

	fmt.Println("Nodes:", g.NodeCount())
	fmt.Println("Edges:", g.EdgeCount())
	fmt.Println("Sources:", g.Sources())
	// Output:
	// Nodes: 3
	// Edges: 2
	// Sources: [0]
}

func ExampleNode_Flow() {
	// Flow is derived from edges unless a fixed value is set
	g := dag.New[stage, struct{}]()
	a, _ := g.AddNode("a", dag.NodeAttrs{})
	b, _ := g.AddNode("b", dag.NodeAttrs{})
	fixed := 10.0
	c, _ := g.AddNode("c", dag.NodeAttrs{Value: &fixed})
	_, _ = g.AddEdge(a, b, 2, struct{}{}, dag.EdgeAttrs{})
	_, _ = g.AddEdge(a, c, 5, struct{}{}, dag.EdgeAttrs{})

	na, _ := g.Node(a)
	nb, _ := g.Node(b)
	nc, _ := g.Node(c)
	fmt.Println("a:", na.Flow())
	fmt.Println("b:", nb.Flow())
	fmt.Println("c:", nc.Flow(), "remaining input:", nc.RemainingInput())
	// Output:
	// a: 7
	// b: 2
	// c: 10 remaining input: 5
}

func ExampleCountLayerCrossings() {
	// Count edge crossings between two layers with a Fenwick tree
	g := dag.New[stage, struct{}]()
	a, _ := g.AddNode("a", dag.NodeAttrs{})
	b, _ := g.AddNode("b", dag.NodeAttrs{})
	x, _ := g.AddNode("x", dag.NodeAttrs{})
	y, _ := g.AddNode("y", dag.NodeAttrs{})
	_, _ = g.AddEdge(a, y, 1, struct{}{}, dag.EdgeAttrs{})
	_, _ = g.AddEdge(b, x, 1, struct{}{}, dag.EdgeAttrs{})

	lower := []dag.NodeID{x, y}
	fmt.Println("Crossings:", dag.CountLayerCrossings(g, []dag.NodeID{a, b}, lower))
	fmt.Println("After reorder:", dag.CountLayerCrossings(g, []dag.NodeID{b, a}, lower))
	// Output:
	// Crossings: 1
	// After reorder: 0
}
