package sink

import (
	"github.com/matzehuels/sankey/pkg/dag"
	"github.com/matzehuels/sankey/pkg/graph"
	"github.com/matzehuels/sankey/pkg/render/sankey/layout"
)

// JSONOption configures JSON rendering via [RenderJSON].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	key   func(dag.NodeID) string
	style string
}

// WithJSONKey sets the function naming nodes in the output. Without it
// nodes are named by handle.
func WithJSONKey(key func(dag.NodeID) string) JSONOption {
	return func(r *jsonRenderer) { r.key = key }
}

// WithJSONStyle records the style name in the output so the layout can be
// re-rendered the same way.
func WithJSONStyle(s string) JSONOption { return func(r *jsonRenderer) { r.style = s } }

// RenderJSON exports the layout as a pretty-printed [graph.Layout]
// document, which can be read back with [graph.UnmarshalLayout] and
// [layout.Parse].
func RenderJSON(l layout.Layout, opts ...JSONOption) ([]byte, error) {
	r := jsonRenderer{key: handleKey}
	for _, opt := range opts {
		opt(&r)
	}
	return graph.MarshalLayout(l.Export(r.key, r.style))
}
