package nodelink

import (
	"fmt"

	"github.com/matzehuels/sankey/pkg/graph"
)

// Export creates a serializable nodelink layout from a DOT string.
//
// Nodelink layouts don't compute positions internally; Graphviz does that
// during rendering. Export packages the DOT string and the graph's layers
// into the unified serialization format.
func Export(dot string, g *graph.DAG, width, height float64, style string) graph.Layout {
	result := graph.Layout{
		VizType: graph.VizTypeNodelink,
		DOT:     dot,
		Width:   width,
		Height:  height,
		Engine:  "dot",
		Style:   style,
	}

	if g != nil && g.Layered() {
		key := graph.Key(g)
		for _, layer := range g.Layers() {
			ids := make([]string, len(layer))
			for i, id := range layer {
				ids[i] = key(id)
			}
			result.Layers = append(result.Layers, ids)
		}
	}

	return result
}

// Parse extracts the DOT string from a serialized nodelink layout.
//
// Returns an error if the layout is not a nodelink type or is missing the DOT string.
func Parse(layout graph.Layout) (string, error) {
	if layout.VizType != "" && layout.VizType != graph.VizTypeNodelink {
		return "", fmt.Errorf("invalid viz_type for nodelink layout: %q", layout.VizType)
	}
	if layout.DOT == "" {
		return "", fmt.Errorf("nodelink layout must contain DOT string")
	}
	return layout.DOT, nil
}
