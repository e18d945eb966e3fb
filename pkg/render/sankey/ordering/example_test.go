package ordering_test

import (
	"context"
	"fmt"

	"github.com/matzehuels/sankey/pkg/dag"
	"github.com/matzehuels/sankey/pkg/dag/transform"
	"github.com/matzehuels/sankey/pkg/render/sankey/ordering"
)

type step string

func (s step) String() string { return string(s) }

func ExampleBarycenter() {
	// 0 fans out to 1, 2, 3; 2 continues to 4
	g := dag.New[step, struct{}]()
	for _, s := range []step{"0", "1", "2", "3", "4"} {
		_, _ = g.AddNode(s, dag.NodeAttrs{})
	}
	for _, e := range [][2]dag.NodeID{{0, 1}, {0, 2}, {0, 3}, {2, 4}} {
		_, _ = g.AddEdge(e[0], e[1], 1, struct{}{}, dag.EdgeAttrs{})
	}
	_ = transform.AssignLayers(g)

	// Every node in layer 1 has the same barycenter, so the stable sort keeps
	// insertion order.
	orders, _ := ordering.Barycenter{}.OrderLayers(context.Background(), g)
	fmt.Println(orders)
	// Output:
	// [[0] [1 2 3] [4]]
}

func ExampleBarycenter_crossingMinimization() {
	// a→y and b→x cross when x sits above y
	g := dag.New[step, struct{}]()
	a, _ := g.AddNode("a", dag.NodeAttrs{})
	b, _ := g.AddNode("b", dag.NodeAttrs{})
	x, _ := g.AddNode("x", dag.NodeAttrs{})
	y, _ := g.AddNode("y", dag.NodeAttrs{})
	_, _ = g.AddEdge(a, y, 1, struct{}{}, dag.EdgeAttrs{})
	_, _ = g.AddEdge(b, x, 1, struct{}{}, dag.EdgeAttrs{})
	_ = transform.AssignLayers(g)

	fmt.Println("Initial crossings:", dag.CountCrossings(g, g.Layers()))

	orders, _ := ordering.Barycenter{}.OrderLayers(context.Background(), g)
	_ = ordering.Apply(g, orders)
	fmt.Println("After ordering:", dag.CountCrossings(g, g.Layers()))
	// Output:
	// Initial crossings: 1
	// After ordering: 0
}

func ExampleExact() {
	// b→f jumps over layer 1. Barycenter sees a tie between f and e in
	// layer 2 and keeps f on top, which makes the long ribbon cross both
	// ribbons leaving c.
	g := dag.New[step, struct{}]()
	a, _ := g.AddNode("a", dag.NodeAttrs{})
	b, _ := g.AddNode("b", dag.NodeAttrs{})
	c, _ := g.AddNode("c", dag.NodeAttrs{})
	f, _ := g.AddNode("f", dag.NodeAttrs{})
	e, _ := g.AddNode("e", dag.NodeAttrs{})
	_, _ = g.AddEdge(a, c, 3, struct{}{}, dag.EdgeAttrs{})
	_, _ = g.AddEdge(b, f, 1, struct{}{}, dag.EdgeAttrs{})
	_, _ = g.AddEdge(c, e, 1, struct{}{}, dag.EdgeAttrs{})
	_, _ = g.AddEdge(c, f, 1, struct{}{}, dag.EdgeAttrs{})
	_ = transform.AssignLayers(g)

	orderer := ordering.Exact{
		Report: func(r ordering.LayerReport) {
			fmt.Printf("layer %d: %d candidates, cost %d -> %d\n", r.Layer, r.Candidates, r.HeuristicCost, r.Cost)
		},
	}
	orders, _ := orderer.OrderLayers(context.Background(), g)
	fmt.Println(orders)
	// Output:
	// layer 1: 0 candidates, cost 0 -> 0
	// layer 2: 2 candidates, cost 2 -> 1
	// [[0 1] [2] [4 3]]
}
