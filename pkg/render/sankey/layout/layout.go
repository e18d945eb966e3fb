package layout

import (
	"cmp"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/matzehuels/sankey/pkg/dag"
)

// Point is a position on the drawing surface.
type Point struct {
	X, Y float64
}

// Node is a laid-out node.
type Node struct {
	ID        dag.NodeID
	Label     string
	ValueText string
	Color     string
	Layer     int
	Position  int
	Flow      float64
	Block     Block
}

// Ribbon is a laid-out edge. Source and Target are the top corners of the
// band on the source's right side and the target's left side.
type Ribbon struct {
	Edge      dag.EdgeID
	From, To  dag.NodeID
	Value     float64
	Thickness float64
	Label     string
	Color     string
	Source    Point
	Target    Point
	Path      string
}

// Center returns the midpoint of the band, used to anchor its label.
func (r Ribbon) Center() Point {
	return Point{
		X: (r.Source.X + r.Target.X) / 2,
		Y: (r.Source.Y+r.Target.Y)/2 + r.Thickness/2,
	}
}

// Layout is the geometry of a flow diagram, ready for an emitter.
type Layout struct {
	Config     Config // resolved
	Scale      float64
	LayerWidth float64
	Layers     [][]dag.NodeID
	Nodes      []Node   // indexed by NodeID
	Ribbons    []Ribbon // paint order: largest value first
}

// Node returns the laid-out node for id.
func (l Layout) Node(id dag.NodeID) (Node, bool) {
	if id < 0 || int(id) >= len(l.Nodes) {
		return Node{}, false
	}
	return l.Nodes[id], true
}

// Build computes node rectangles and ribbon paths for a layered, ordered
// graph. On success it freezes the graph's layer order and writes each
// node's geometry and ribbon cursors back into the graph; on failure the
// graph is left untouched.
//
// The algorithm:
//
//  1. layer_width = (W - 2*border - L*node_width) / (L - 1); x starts at
//     border and advances by node_width + layer_width per layer
//  2. scale = min over layers with positive total flow of
//     (H - 2*border - sep*(count-1)) / total; unit scale if no layer has flow
//  3. each layer's stack (heights plus separations) is centered vertically;
//     a node is flow*scale tall
//  4. every node gets an outgoing and an incoming cursor at its top
//  5. each edge is value*scale thick and attaches at the source's outgoing
//     cursor and the target's incoming cursor, both advanced after use;
//     bands on a node follow the order of the opposite end (layer, then
//     position) so ribbons fan out without crossing at the node
//  6. ribbons are returned largest value first, ties by edge handle
//
// Fewer than two layers, a negative layer width, no vertical room for a
// layer with flow, or any non-finite result yields a *GeometryError and no
// partial layout.
func Build[N fmt.Stringer, E any](g *dag.Graph[N, E], cfg Config) (Layout, error) {
	if !g.Layered() {
		return Layout{}, fmt.Errorf("layout: %w", dag.ErrLayersNotAssigned)
	}
	cfg = cfg.Resolved()
	if err := cfg.validate(); err != nil {
		return Layout{}, err
	}

	layers := g.Layers()
	count := len(layers)
	if count < 2 {
		return Layout{}, geometryErrorf("need at least two layers, got %d", count)
	}
	layerWidth := (cfg.Width - 2*cfg.Border - float64(count)*cfg.NodeWidth) / float64(count-1)
	if layerWidth < 0 {
		return Layout{}, geometryErrorf("surface width %v leaves negative layer width %v", cfg.Width, layerWidth)
	}

	scale, err := globalScale(g, layers, cfg)
	if err != nil {
		return Layout{}, err
	}

	out := Layout{
		Config:     cfg,
		Scale:      scale,
		LayerWidth: layerWidth,
		Layers:     layers,
		Nodes:      make([]Node, g.NodeCount()),
	}

	rects := make([]dag.Rect, g.NodeCount())
	x := cfg.Border
	for li, layer := range layers {
		stack := 0.0
		for _, id := range layer {
			stack += g.NodeFlow(id) * scale
		}
		stack += cfg.NodeSeparation * float64(max(len(layer)-1, 0))

		y := (cfg.Height - stack) / 2
		for pos, id := range layer {
			n, _ := g.Node(id)
			h := n.Flow() * scale
			rects[id] = dag.Rect{X: x, Y: y, W: cfg.NodeWidth, H: h}
			out.Nodes[id] = Node{
				ID:        id,
				Label:     n.Name(),
				ValueText: cfg.NumberFormat(n.Flow()),
				Color:     n.Color,
				Layer:     li,
				Position:  pos,
				Flow:      n.Flow(),
				Block:     Block{NodeID: id, Left: x, Right: x + cfg.NodeWidth, Top: y, Bottom: y + h},
			}
			y += h + cfg.NodeSeparation
		}
		x += cfg.NodeWidth + layerWidth
	}

	var cur cursors
	out.Ribbons, cur = ribbons(g, layers, out.Nodes, scale)

	if err := out.checkFinite(); err != nil {
		return Layout{}, err
	}

	g.Freeze()
	for _, n := range g.Nodes() {
		n.Geometry = rects[n.ID]
		n.NextOut, n.NextIn = cur.out[n.ID], cur.in[n.ID]
	}
	return out, nil
}

// cursors holds the final outgoing and incoming ribbon cursor of each node.
type cursors struct {
	out, in []float64
}

func globalScale[N fmt.Stringer, E any](g *dag.Graph[N, E], layers [][]dag.NodeID, cfg Config) (float64, error) {
	scale := math.Inf(1)
	for i, layer := range layers {
		total := 0.0
		for _, id := range layer {
			total += g.NodeFlow(id)
		}
		if total <= 0 {
			continue
		}
		required := cfg.Height - 2*cfg.Border - cfg.NodeSeparation*float64(len(layer)-1)
		if required <= 0 {
			return 0, geometryErrorf("layer %d has no vertical room (%v) for %d nodes", i, required, len(layer))
		}
		scale = math.Min(scale, required/total)
	}
	if math.IsInf(scale, 1) {
		return 1, nil
	}
	return scale, nil
}

func ribbons[N fmt.Stringer, E any](g *dag.Graph[N, E], layers [][]dag.NodeID, nodes []Node, scale float64) ([]Ribbon, cursors) {
	pos := dag.Positions(g.NodeCount(), layers)
	src := make(map[dag.EdgeID]Point, g.EdgeCount())
	dst := make(map[dag.EdgeID]Point, g.EdgeCount())
	cur := cursors{out: make([]float64, len(nodes)), in: make([]float64, len(nodes))}

	for _, layer := range layers {
		for _, id := range layer {
			b := nodes[id].Block
			cur.out[id], cur.in[id] = b.Top, b.Top
			for _, e := range dag.OutBands(g, id, pos) {
				src[e] = Point{X: b.Right, Y: cur.out[id]}
				cur.out[id] += g.EdgeValue(e) * scale
			}
			for _, e := range dag.InBands(g, id, pos) {
				dst[e] = Point{X: b.Left, Y: cur.in[id]}
				cur.in[id] += g.EdgeValue(e) * scale
			}
		}
	}

	out := make([]Ribbon, 0, g.EdgeCount())
	for _, e := range g.Edges() {
		t := e.Value * scale
		s, d := src[e.ID], dst[e.ID]
		out = append(out, Ribbon{
			Edge:      e.ID,
			From:      e.From,
			To:        e.To,
			Value:     e.Value,
			Thickness: t,
			Label:     e.Label,
			Color:     e.Color,
			Source:    s,
			Target:    d,
			Path:      RibbonPath(s, d, t),
		})
	}
	slices.SortStableFunc(out, func(a, b Ribbon) int {
		if c := cmp.Compare(b.Value, a.Value); c != 0 {
			return c
		}
		return cmp.Compare(a.Edge, b.Edge)
	})
	return out, cur
}

// RibbonPath returns the closed SVG path of a band of thickness t running
// from the top corner s to the top corner d. Both long sides are cubic
// curves with horizontal tangents at the ends and control points at the
// horizontal midpoint.
func RibbonPath(s, d Point, t float64) string {
	mx := (s.X + d.X) / 2
	var b strings.Builder
	b.WriteString("M" + pt(s.X, s.Y))
	b.WriteString(" C" + pt(mx, s.Y) + " " + pt(mx, d.Y) + " " + pt(d.X, d.Y))
	b.WriteString(" L" + pt(d.X, d.Y+t))
	b.WriteString(" C" + pt(mx, d.Y+t) + " " + pt(mx, s.Y+t) + " " + pt(s.X, s.Y+t))
	b.WriteString(" Z")
	return b.String()
}

func pt(x, y float64) string {
	return strconv.FormatFloat(x, 'f', 2, 64) + "," + strconv.FormatFloat(y, 'f', 2, 64)
}

func (l Layout) checkFinite() error {
	bad := func(vs ...float64) bool {
		for _, v := range vs {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return true
			}
		}
		return false
	}
	if bad(l.Scale, l.LayerWidth) {
		return geometryErrorf("non-finite scale %v or layer width %v", l.Scale, l.LayerWidth)
	}
	for _, n := range l.Nodes {
		b := n.Block
		if bad(b.Left, b.Right, b.Top, b.Bottom) {
			return geometryErrorf("node %q has non-finite geometry", n.Label)
		}
	}
	for _, r := range l.Ribbons {
		if bad(r.Source.X, r.Source.Y, r.Target.X, r.Target.Y, r.Thickness) {
			return geometryErrorf("edge %d has non-finite geometry", r.Edge)
		}
	}
	return nil
}
