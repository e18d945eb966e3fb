package nodelink_test

import (
	"fmt"
	"strings"

	"github.com/matzehuels/sankey/pkg/dag/transform"
	"github.com/matzehuels/sankey/pkg/graph"
	"github.com/matzehuels/sankey/pkg/render/nodelink"
)

func ExampleToDOT() {
	d, _, _ := graph.ToDAG(graph.Graph{
		Nodes: []graph.Node{{ID: "source"}, {ID: "sink"}},
		Edges: []graph.Edge{{From: "source", To: "sink", Value: 3}},
	})
	_ = transform.AssignLayers(d)

	dot := nodelink.ToDOT(d, nodelink.Options{})
	for _, line := range strings.Split(dot, "\n") {
		if strings.Contains(line, "->") || strings.Contains(line, "rank=same") {
			fmt.Println(strings.TrimSpace(line))
		}
	}
	// Output:
	// { rank=same; "source"; }
	// { rank=same; "sink"; }
	// "source" -> "sink" [penwidth=12.00];
}
