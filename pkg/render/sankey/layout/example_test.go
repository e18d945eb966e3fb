package layout_test

import (
	"fmt"

	"github.com/matzehuels/sankey/pkg/dag"
	"github.com/matzehuels/sankey/pkg/dag/transform"
	"github.com/matzehuels/sankey/pkg/render/sankey/layout"
)

type stage string

func (s stage) String() string { return string(s) }

func ExampleBuild() {
	g := dag.New[stage, struct{}]()
	a, _ := g.AddNode("A", dag.NodeAttrs{})
	b, _ := g.AddNode("B", dag.NodeAttrs{})
	c, _ := g.AddNode("C", dag.NodeAttrs{})
	_, _ = g.AddEdge(a, b, 3, struct{}{}, dag.EdgeAttrs{})
	_, _ = g.AddEdge(a, c, 1, struct{}{}, dag.EdgeAttrs{})
	_ = transform.AssignLayers(g)

	l, err := layout.Build(g, layout.Config{Width: 100, Height: 100, Border: 10, NodeSeparation: 4})
	if err != nil {
		fmt.Println("Error:", err)
		return
	}

	fmt.Println("scale:", l.Scale)
	for _, n := range l.Nodes {
		fmt.Printf("%s x=%.0f y=%.0f..%.0f\n", n.Label, n.Block.Left, n.Block.Top, n.Block.Bottom)
	}
	for _, r := range l.Ribbons {
		fmt.Printf("%s->%s thickness %.0f\n", l.Nodes[r.From].Label, l.Nodes[r.To].Label, r.Thickness)
	}
	// Output:
	// scale: 19
	// A x=10 y=12..88
	// B x=89 y=10..67
	// C x=89 y=71..90
	// A->B thickness 57
	// A->C thickness 19
}

func ExampleRibbonPath() {
	fmt.Println(layout.RibbonPath(layout.Point{X: 10, Y: 0}, layout.Point{X: 30, Y: 20}, 4))
	// Output:
	// M10.00,0.00 C20.00,0.00 20.00,20.00 30.00,20.00 L30.00,24.00 C20.00,24.00 20.00,4.00 10.00,4.00 Z
}
