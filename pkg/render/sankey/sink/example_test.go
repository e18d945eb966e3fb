package sink_test

import (
	"fmt"
	"strings"

	"github.com/matzehuels/sankey/pkg/dag/transform"
	"github.com/matzehuels/sankey/pkg/graph"
	"github.com/matzehuels/sankey/pkg/render/sankey/layout"
	"github.com/matzehuels/sankey/pkg/render/sankey/sink"
	"github.com/matzehuels/sankey/pkg/render/sankey/styles"
)

func ExampleRenderSVG() {
	g, _, _ := graph.ToDAG(graph.Graph{
		Nodes: []graph.Node{{ID: "income"}, {ID: "rent"}, {ID: "savings"}},
		Edges: []graph.Edge{
			{From: "income", To: "rent", Value: 1200},
			{From: "income", To: "savings", Value: 400},
		},
	})
	_ = transform.AssignLayers(g)
	l, _ := layout.Build(g, layout.Config{Width: 400, Height: 300})

	svg := string(sink.RenderSVG(l,
		sink.WithKey(graph.Key(g)),
		sink.WithStyle(styles.Gradient{}),
	))

	fmt.Println("SVG starts with:", svg[:4])
	fmt.Println("Ribbons:", strings.Count(svg, `class="ribbon"`))
	fmt.Println("Nodes:", strings.Count(svg, `class="node"`))
	// Output:
	// SVG starts with: <svg
	// Ribbons: 2
	// Nodes: 3
}
