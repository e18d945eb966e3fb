package layout

import (
	"fmt"

	"github.com/matzehuels/sankey/pkg/dag"
	"github.com/matzehuels/sankey/pkg/graph"
)

// Export converts the layout to its serialization format. key maps node
// handles to the ids used in the serialized graph.
func (l Layout) Export(key func(dag.NodeID) string, style string) graph.Layout {
	out := graph.Layout{
		VizType:        graph.VizTypeSankey,
		Width:          l.Config.Width,
		Height:         l.Config.Height,
		Style:          style,
		Scale:          l.Scale,
		LayerWidth:     l.LayerWidth,
		NodeWidth:      l.Config.NodeWidth,
		NodeSeparation: l.Config.NodeSeparation,
		Border:         l.Config.Border,
		FontFamily:     l.Config.FontFamily,
		FontSize:       l.Config.FontSize,
		FontColor:      l.Config.FontColor,
		Layers:         make([][]string, len(l.Layers)),
		Blocks:         make([]graph.Block, 0, len(l.Nodes)),
		Ribbons:        make([]graph.Ribbon, 0, len(l.Ribbons)),
	}

	for i, layer := range l.Layers {
		out.Layers[i] = make([]string, len(layer))
		for j, id := range layer {
			out.Layers[i][j] = key(id)
		}
	}

	for _, n := range l.Nodes {
		out.Blocks = append(out.Blocks, graph.Block{
			ID:        key(n.ID),
			Label:     n.Label,
			ValueText: n.ValueText,
			Color:     n.Color,
			Layer:     n.Layer,
			Position:  n.Position,
			Flow:      n.Flow,
			X:         n.Block.Left,
			Y:         n.Block.Top,
			Width:     n.Block.Width(),
			Height:    n.Block.Height(),
		})
	}

	for _, r := range l.Ribbons {
		out.Ribbons = append(out.Ribbons, graph.Ribbon{
			Edge:      int(r.Edge),
			From:      key(r.From),
			To:        key(r.To),
			Value:     r.Value,
			Thickness: r.Thickness,
			Label:     r.Label,
			Color:     r.Color,
			SourceX:   r.Source.X,
			SourceY:   r.Source.Y,
			TargetX:   r.Target.X,
			TargetY:   r.Target.Y,
			Path:      r.Path,
		})
	}

	return out
}

// Parse converts a serialized sankey layout back to its internal form.
// Node handles are reassigned in block order.
func Parse(gl graph.Layout) (Layout, error) {
	if !gl.IsSankey() {
		return Layout{}, fmt.Errorf("parse layout: viz type %q is not %q", gl.VizType, graph.VizTypeSankey)
	}

	cfg := Config{
		Width:          gl.Width,
		Height:         gl.Height,
		NodeSeparation: gl.NodeSeparation,
		NodeWidth:      gl.NodeWidth,
		Border:         gl.Border,
		FontFamily:     gl.FontFamily,
		FontSize:       gl.FontSize,
		FontColor:      gl.FontColor,
	}.Resolved()

	l := Layout{
		Config:     cfg,
		Scale:      gl.Scale,
		LayerWidth: gl.LayerWidth,
		Nodes:      make([]Node, len(gl.Blocks)),
		Ribbons:    make([]Ribbon, len(gl.Ribbons)),
		Layers:     make([][]dag.NodeID, len(gl.Layers)),
	}

	index := make(map[string]dag.NodeID, len(gl.Blocks))
	for i, b := range gl.Blocks {
		if _, dup := index[b.ID]; dup {
			return Layout{}, fmt.Errorf("parse layout: duplicate block %q", b.ID)
		}
		id := dag.NodeID(i)
		index[b.ID] = id
		l.Nodes[i] = Node{
			ID:        id,
			Label:     b.Label,
			ValueText: b.ValueText,
			Color:     b.Color,
			Layer:     b.Layer,
			Position:  b.Position,
			Flow:      b.Flow,
			Block:     Block{NodeID: id, Left: b.X, Right: b.X + b.Width, Top: b.Y, Bottom: b.Y + b.Height},
		}
	}

	lookup := func(key string) (dag.NodeID, error) {
		id, ok := index[key]
		if !ok {
			return 0, fmt.Errorf("parse layout: unknown block %q", key)
		}
		return id, nil
	}

	for i, layer := range gl.Layers {
		l.Layers[i] = make([]dag.NodeID, len(layer))
		for j, key := range layer {
			id, err := lookup(key)
			if err != nil {
				return Layout{}, err
			}
			l.Layers[i][j] = id
		}
	}

	for i, r := range gl.Ribbons {
		from, err := lookup(r.From)
		if err != nil {
			return Layout{}, err
		}
		to, err := lookup(r.To)
		if err != nil {
			return Layout{}, err
		}
		l.Ribbons[i] = Ribbon{
			Edge:      dag.EdgeID(r.Edge),
			From:      from,
			To:        to,
			Value:     r.Value,
			Thickness: r.Thickness,
			Label:     r.Label,
			Color:     r.Color,
			Source:    Point{X: r.SourceX, Y: r.SourceY},
			Target:    Point{X: r.TargetX, Y: r.TargetY},
			Path:      r.Path,
		}
	}

	return l, nil
}
