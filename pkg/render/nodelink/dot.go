package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/sankey/pkg/graph"
	"github.com/matzehuels/sankey/pkg/render"
)

const (
	minPenWidth = 1.0
	maxPenWidth = 12.0
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed includes layer, position, flow and metadata in node labels.
	// When false, only the display name and flow are shown.
	Detailed bool
}

// ToDOT converts a flow graph to Graphviz DOT format. The graph is drawn
// left to right; once layers are assigned every layer becomes a rank, so
// the diagram mirrors the flow layout's columns. Edge pen width grows with
// edge value.
func ToDOT(g *graph.DAG, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=1.0;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	for _, n := range g.Nodes() {
		attrs := []string{fmt.Sprintf("label=%q", fmtLabel(g, n, opts.Detailed))}
		if n.Color != "" {
			attrs = append(attrs, fmt.Sprintf("fillcolor=%q", n.Color))
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", n.Data.ID, strings.Join(attrs, ", "))
	}

	if g.Layered() {
		buf.WriteString("\n")
		for _, layer := range g.Layers() {
			ids := make([]string, len(layer))
			for i, id := range layer {
				n, _ := g.Node(id)
				ids[i] = strconv.Quote(n.Data.ID)
			}
			fmt.Fprintf(&buf, "  { rank=same; %s; }\n", strings.Join(ids, "; "))
		}
	}

	buf.WriteString("\n")
	peak := 0.0
	for _, e := range g.Edges() {
		peak = max(peak, e.Value)
	}
	for _, e := range g.Edges() {
		from, _ := g.Node(e.From)
		to, _ := g.Node(e.To)
		attrs := []string{fmt.Sprintf("penwidth=%.2f", penWidth(e.Value, peak))}
		if e.Label != "" {
			attrs = append(attrs, fmt.Sprintf("label=%q", e.Label))
		}
		if e.Color != "" {
			attrs = append(attrs, fmt.Sprintf("color=%q", e.Color))
		}
		fmt.Fprintf(&buf, "  %q -> %q [%s];\n", from.Data.ID, to.Data.ID, strings.Join(attrs, ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func penWidth(v, peak float64) float64 {
	if peak <= 0 {
		return minPenWidth
	}
	return minPenWidth + (maxPenWidth-minPenWidth)*v/peak
}

func fmtLabel(g *graph.DAG, n *graph.DAGNode, detailed bool) string {
	label := n.Name() + "\n" + strconv.FormatFloat(n.Flow(), 'f', -1, 64)
	if !detailed {
		return label
	}

	var parts []string
	if g.Layered() {
		parts = append(parts, fmt.Sprintf("layer: %d", n.Layer), fmt.Sprintf("position: %d", n.Position))
	}
	parts = append(parts,
		fmt.Sprintf("in: %s", strconv.FormatFloat(n.CurrentInput, 'f', -1, 64)),
		fmt.Sprintf("out: %s", strconv.FormatFloat(n.CurrentOutput, 'f', -1, 64)),
	)
	for _, k := range slices.Sorted(maps.Keys(n.Data.Meta)) {
		parts = append(parts, fmt.Sprintf("%s: %v", k, n.Data.Meta[k]))
	}
	return label + "\n" + strings.Join(parts, "\n")
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
// Returns the SVG bytes ready for display or further conversion with [render.ToPDF] or [render.ToPNG].
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}

// RenderPDF renders a DOT graph as PDF via SVG conversion.
func RenderPDF(ctx context.Context, dot string) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(ctx, svg)
}

// RenderPNG renders a DOT graph as PNG via SVG conversion.
// A scale of 2.0 produces a 2x resolution image suitable for high-DPI displays.
func RenderPNG(ctx context.Context, dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(ctx, svg, scale)
}
