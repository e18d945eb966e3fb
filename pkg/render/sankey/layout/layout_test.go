package layout

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/matzehuels/sankey/pkg/dag"
	"github.com/matzehuels/sankey/pkg/dag/transform"
)

type label string

func (l label) String() string { return string(l) }

type edgeSpec struct {
	from, to int
	value    float64
}

func graphOf(t *testing.T, names []string, edges []edgeSpec) *dag.Graph[label, struct{}] {
	t.Helper()
	g := dag.New[label, struct{}]()
	for _, n := range names {
		if _, err := g.AddNode(label(n), dag.NodeAttrs{}); err != nil {
			t.Fatal(err)
		}
	}
	for _, e := range edges {
		if _, err := g.AddEdge(dag.NodeID(e.from), dag.NodeID(e.to), e.value, struct{}{}, dag.EdgeAttrs{}); err != nil {
			t.Fatal(err)
		}
	}
	if err := transform.AssignLayers(g); err != nil {
		t.Fatal(err)
	}
	return g
}

const tolerance = 1e-9

func TestBuild_ThreeToOne(t *testing.T) {
	g := graphOf(t, []string{"A", "B", "C"}, []edgeSpec{{0, 1, 3}, {0, 2, 1}})

	l, err := Build(g, Config{Width: 100, Height: 100})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	b, c := l.Nodes[1].Block, l.Nodes[2].Block
	if ratio := b.Height() / c.Height(); math.Abs(ratio-3) > tolerance {
		t.Errorf("height ratio B:C = %v, want 3", ratio)
	}
	if b.Overlaps(c) {
		t.Errorf("B %+v and C %+v overlap", b, c)
	}

	// border 10, separation 100/30: layer 1 governs the scale
	wantScale := (100 - 20 - 100.0/30) / 4
	if math.Abs(l.Scale-wantScale) > tolerance {
		t.Errorf("Scale = %v, want %v", l.Scale, wantScale)
	}

	// node width 1, two layers: layer width = 100 - 20 - 2
	if l.LayerWidth != 78 {
		t.Errorf("LayerWidth = %v, want 78", l.LayerWidth)
	}
	if a := l.Nodes[0].Block; a.Left != 10 || b.Left != 89 {
		t.Errorf("x positions = %v, %v; want 10, 89", a.Left, b.Left)
	}
}

func TestBuild_Centering(t *testing.T) {
	g := graphOf(t, []string{"A", "B", "C"}, []edgeSpec{{0, 1, 3}, {0, 2, 1}})
	l, err := Build(g, Config{Width: 100, Height: 100})
	if err != nil {
		t.Fatal(err)
	}
	for li, layer := range l.Layers {
		first := l.Nodes[layer[0]].Block
		last := l.Nodes[layer[len(layer)-1]].Block
		above, below := first.Top, 100-last.Bottom
		if math.Abs(above-below) > tolerance {
			t.Errorf("layer %d not centered: %v above, %v below", li, above, below)
		}
	}
}

func TestBuild_RibbonsStack(t *testing.T) {
	g := graphOf(t, []string{"A", "B", "C"}, []edgeSpec{{0, 1, 3}, {0, 2, 1}})
	l, err := Build(g, Config{Width: 100, Height: 100})
	if err != nil {
		t.Fatal(err)
	}

	a := l.Nodes[0].Block
	byEdge := map[dag.EdgeID]Ribbon{}
	for _, r := range l.Ribbons {
		byEdge[r.Edge] = r
	}
	ab, ac := byEdge[0], byEdge[1]

	if ab.Source.Y != a.Top {
		t.Errorf("A->B source y = %v, want node top %v", ab.Source.Y, a.Top)
	}
	if math.Abs(ac.Source.Y-(a.Top+ab.Thickness)) > tolerance {
		t.Errorf("A->C source y = %v, want %v", ac.Source.Y, a.Top+ab.Thickness)
	}
	if ab.Source.X != a.Right || ab.Target.X != l.Nodes[1].Block.Left {
		t.Errorf("A->B anchors x = %v -> %v", ab.Source.X, ab.Target.X)
	}
	if ab.Target.Y != l.Nodes[1].Block.Top {
		t.Errorf("A->B target y = %v, want %v", ab.Target.Y, l.Nodes[1].Block.Top)
	}

	n, _ := g.Node(0)
	if math.Abs(n.NextOut-a.Bottom) > tolerance {
		t.Errorf("A outgoing cursor = %v, want bottom %v", n.NextOut, a.Bottom)
	}
}

func TestBuild_PaintOrder(t *testing.T) {
	g := graphOf(t, []string{"A", "B", "C", "D"}, []edgeSpec{{0, 1, 1}, {0, 2, 5}, {0, 3, 1}})
	l, err := Build(g, Config{Width: 200, Height: 200})
	if err != nil {
		t.Fatal(err)
	}
	want := []dag.EdgeID{1, 0, 2}
	for i, r := range l.Ribbons {
		if r.Edge != want[i] {
			t.Errorf("paint order[%d] = edge %d, want %d", i, r.Edge, want[i])
		}
	}
}

func TestBuild_Errors(t *testing.T) {
	tests := []struct {
		name  string
		names []string
		edges []edgeSpec
		cfg   Config
	}{
		{"SingleLayer", []string{"A", "B"}, nil, Config{Width: 100, Height: 100}},
		{"NoNodes", nil, nil, Config{Width: 100, Height: 100}},
		{"NegativeLayerWidth", []string{"A", "B"}, []edgeSpec{{0, 1, 1}}, Config{Width: 100, Height: 100, NodeWidth: 60}},
		{"NoVerticalRoom", []string{"A", "B", "C"}, []edgeSpec{{0, 1, 1}, {0, 2, 1}}, Config{Width: 100, Height: 100, NodeSeparation: 90}},
		{"ZeroSurface", []string{"A", "B"}, []edgeSpec{{0, 1, 1}}, Config{Width: 0, Height: 100}},
		{"NaNSurface", []string{"A", "B"}, []edgeSpec{{0, 1, 1}}, Config{Width: 100, Height: math.NaN()}},
		{"NegativeBorder", []string{"A", "B"}, []edgeSpec{{0, 1, 1}}, Config{Width: 100, Height: 100, Border: -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := graphOf(t, tt.names, tt.edges)
			_, err := Build(g, tt.cfg)
			if !errors.Is(err, ErrDegenerateGeometry) {
				t.Fatalf("Build() error = %v, want ErrDegenerateGeometry", err)
			}
			var ge *GeometryError
			if !errors.As(err, &ge) || ge.Reason == "" {
				t.Errorf("error %v is not a *GeometryError with a reason", err)
			}
		})
	}
}

func TestBuild_NonFiniteLeavesGraphUntouched(t *testing.T) {
	g := graphOf(t, []string{"A", "B", "C"}, []edgeSpec{{0, 2, 1}, {1, 2, 1}})
	c, _ := g.Node(2)
	c.CurrentInput = math.Inf(1)

	_, err := Build(g, Config{Width: 100, Height: 100})
	if !errors.Is(err, ErrDegenerateGeometry) {
		t.Fatalf("Build() error = %v, want ErrDegenerateGeometry", err)
	}
	if g.Frozen() {
		t.Error("graph frozen after failed Build")
	}
	for _, n := range g.Nodes() {
		if n.Geometry != (dag.Rect{}) || n.NextOut != 0 || n.NextIn != 0 {
			t.Errorf("node %s written after failed Build: %+v out=%v in=%v", n.Data, n.Geometry, n.NextOut, n.NextIn)
		}
	}
	if err := g.SetOrder(0, []dag.NodeID{1, 0}); err != nil {
		t.Errorf("SetOrder() after failed Build = %v", err)
	}
}

func TestBuild_NotLayered(t *testing.T) {
	g := dag.New[label, struct{}]()
	_, _ = g.AddNode("A", dag.NodeAttrs{})
	if _, err := Build(g, Config{Width: 10, Height: 10}); !errors.Is(err, dag.ErrLayersNotAssigned) {
		t.Errorf("Build() error = %v, want ErrLayersNotAssigned", err)
	}
}

func TestBuild_ZeroFlow(t *testing.T) {
	// Zero-valued edges leave every layer without flow: unit scale and
	// zero-height rectangles, all finite.
	g := graphOf(t, []string{"A", "B", "C"}, []edgeSpec{{0, 1, 0}, {1, 2, 0}})
	l, err := Build(g, Config{Width: 300, Height: 100})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if l.Scale != 1 {
		t.Errorf("Scale = %v, want 1", l.Scale)
	}
	for _, n := range l.Nodes {
		if n.Block.Height() != 0 {
			t.Errorf("node %s height = %v, want 0", n.Label, n.Block.Height())
		}
	}
}

func TestBuild_ZeroFlowLayerAmongOthers(t *testing.T) {
	// C is isolated on layer 0 next to A; layer 2 (D) carries no flow.
	g := graphOf(t, []string{"A", "B", "C", "D"}, []edgeSpec{{0, 1, 2}, {1, 3, 0}})
	l, err := Build(g, Config{Width: 300, Height: 100})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if l.Nodes[3].Block.Height() != 0 || l.Nodes[2].Block.Height() != 0 {
		t.Error("zero-flow nodes should be zero-height")
	}
	if l.Nodes[1].Block.Height() <= 0 {
		t.Error("B should have positive height")
	}
}

func TestBuild_FreezesOrder(t *testing.T) {
	g := graphOf(t, []string{"A", "B", "C"}, []edgeSpec{{0, 1, 1}, {0, 2, 1}})
	if _, err := Build(g, Config{Width: 100, Height: 100}); err != nil {
		t.Fatal(err)
	}
	if err := g.SetOrder(1, []dag.NodeID{2, 1}); !errors.Is(err, dag.ErrOrderFrozen) {
		t.Errorf("SetOrder() after Build = %v, want ErrOrderFrozen", err)
	}
}

func TestBuild_FixedValueAndLabels(t *testing.T) {
	g := dag.New[label, struct{}]()
	v := 10.0
	a, _ := g.AddNode("A", dag.NodeAttrs{Value: &v, Color: "#f00"})
	b, _ := g.AddNode("B", dag.NodeAttrs{Label: "Bee"})
	_, _ = g.AddEdge(a, b, 2.5, struct{}{}, dag.EdgeAttrs{Label: "ab"})
	_ = transform.AssignLayers(g)

	l, err := Build(g, Config{Width: 100, Height: 100, NumberFormat: func(f float64) string { return "n=" + FormatNumber(f) }})
	if err != nil {
		t.Fatal(err)
	}
	if l.Nodes[a].Flow != 10 || l.Nodes[a].ValueText != "n=10" || l.Nodes[a].Color != "#f00" {
		t.Errorf("node A = %+v", l.Nodes[a])
	}
	if l.Nodes[b].Label != "Bee" || l.Nodes[b].ValueText != "n=2.5" {
		t.Errorf("node B = %+v", l.Nodes[b])
	}
	if l.Ribbons[0].Label != "ab" {
		t.Errorf("ribbon label = %q", l.Ribbons[0].Label)
	}
}

func TestRibbonPath(t *testing.T) {
	got := RibbonPath(Point{0, 10}, Point{100, 40}, 5)
	want := "M0.00,10.00 C50.00,10.00 50.00,40.00 100.00,40.00 L100.00,45.00 C50.00,45.00 50.00,15.00 0.00,15.00 Z"
	if got != want {
		t.Errorf("RibbonPath() =\n  %s\nwant\n  %s", got, want)
	}
	if !strings.HasSuffix(got, "Z") {
		t.Error("path is not closed")
	}
}

func TestResolved(t *testing.T) {
	c := Config{Width: 300, Height: 150}.Resolved()
	if c.NodeSeparation != 5 || c.NodeWidth != 3 || c.Border != 15 || c.FontSize != 3 {
		t.Errorf("Resolved() = %+v", c)
	}
	if c.FontFamily != DefaultFontFamily || c.FontColor != DefaultFontColor || c.NumberFormat == nil {
		t.Errorf("Resolved() style = %q %q", c.FontFamily, c.FontColor)
	}

	kept := Config{Width: 300, Height: 150, Border: 1, FontFamily: "serif"}.Resolved()
	if kept.Border != 1 || kept.FontFamily != "serif" {
		t.Errorf("Resolved() overwrote explicit values: %+v", kept)
	}
}

func TestFormatNumber(t *testing.T) {
	for in, want := range map[float64]string{3: "3", 2.5: "2.5", 0.125: "0.125", 1e6: "1000000"} {
		if got := FormatNumber(in); got != want {
			t.Errorf("FormatNumber(%v) = %q, want %q", in, got, want)
		}
	}
}
