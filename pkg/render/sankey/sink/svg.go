package sink

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/matzehuels/sankey/pkg/dag"
	"github.com/matzehuels/sankey/pkg/render/sankey/layout"
	"github.com/matzehuels/sankey/pkg/render/sankey/styles"
)

const ribbonInteractionCSS = `
    .ribbon { transition: fill-opacity 0.2s ease; }
    .ribbon.highlight { fill-opacity: 0.8; }
    .ribbon.dim { fill-opacity: 0.15; }
    .node { cursor: pointer; }`

const ribbonInteractionJS = `
    function highlight(id) {
      document.querySelectorAll('.ribbon').forEach(r => {
        const hit = r.dataset.from === id || r.dataset.to === id;
        r.classList.toggle('highlight', hit);
        r.classList.toggle('dim', !hit);
      });
    }
    function clearHighlight() {
      document.querySelectorAll('.ribbon').forEach(r => r.classList.remove('highlight', 'dim'));
    }
    document.querySelectorAll('.node').forEach(el => {
      el.addEventListener('mouseenter', () => highlight(el.id.replace('node-', '')));
      el.addEventListener('mouseleave', clearHighlight);
    });`

type SVGOption func(*svgRenderer)

type svgRenderer struct {
	style       styles.Style
	key         func(dag.NodeID) string
	hideValues  bool
	interactive bool
}

// WithStyle sets the visual style. The default is [styles.Simple].
func WithStyle(s styles.Style) SVGOption { return func(r *svgRenderer) { r.style = s } }

// WithKey sets the function naming nodes in element ids and ribbon data
// attributes. The default names nodes by handle ("n0", "n1", ...).
func WithKey(key func(dag.NodeID) string) SVGOption { return func(r *svgRenderer) { r.key = key } }

// WithoutValues omits the value line under node labels.
func WithoutValues() SVGOption { return func(r *svgRenderer) { r.hideValues = true } }

// WithInteraction adds hover highlighting of a node's ribbons.
func WithInteraction() SVGOption { return func(r *svgRenderer) { r.interactive = true } }

// RenderSVG draws the layout as a standalone SVG document: ribbons first, in
// the layout's paint order, then node rectangles, then labels at node and
// ribbon centers.
func RenderSVG(l layout.Layout, opts ...SVGOption) []byte {
	r := newSVGRenderer(opts...)
	cfg := l.Config

	nodes := buildNodes(l, r.key)
	ribbons := buildRibbons(l, nodes, r.key)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		cfg.Width, cfg.Height, cfg.Width, cfg.Height)

	r.style.RenderDefs(&buf, ribbons)

	buf.WriteString(`  <g class="ribbons">` + "\n")
	for _, rb := range ribbons {
		r.style.RenderRibbon(&buf, rb)
	}
	buf.WriteString("  </g>\n")

	buf.WriteString(`  <g class="nodes">` + "\n")
	for _, layer := range l.Layers {
		for _, id := range layer {
			r.style.RenderNode(&buf, nodes[id])
		}
	}
	buf.WriteString("  </g>\n")

	buf.WriteString(`  <g class="labels">` + "\n")
	for _, layer := range l.Layers {
		for _, id := range layer {
			n := l.Nodes[id]
			t := styles.Text{
				Text:       n.Label,
				X:          n.Block.CenterX(),
				Y:          n.Block.CenterY(),
				FontFamily: cfg.FontFamily,
				FontSize:   cfg.FontSize,
				Color:      cfg.FontColor,
				Class:      "node-label",
			}
			if !r.hideValues {
				t.Sub = n.ValueText
			}
			r.style.RenderText(&buf, t)
		}
	}
	for _, rb := range l.Ribbons {
		if rb.Label == "" {
			continue
		}
		c := rb.Center()
		r.style.RenderText(&buf, styles.Text{
			Text:       rb.Label,
			X:          c.X,
			Y:          c.Y,
			FontFamily: cfg.FontFamily,
			FontSize:   cfg.FontSize,
			Color:      cfg.FontColor,
			Class:      "ribbon-label",
		})
	}
	buf.WriteString("  </g>\n")

	if r.interactive {
		renderInteraction(&buf)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func newSVGRenderer(opts ...SVGOption) svgRenderer {
	r := svgRenderer{style: styles.Simple{}, key: handleKey}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

func handleKey(id dag.NodeID) string { return "n" + strconv.Itoa(int(id)) }

func renderInteraction(buf *bytes.Buffer) {
	fmt.Fprintf(buf, "  <style>%s\n  </style>\n", ribbonInteractionCSS)
	fmt.Fprintf(buf, "  <script type=\"text/javascript\"><![CDATA[%s\n  ]]></script>\n", ribbonInteractionJS)
}

func buildNodes(l layout.Layout, key func(dag.NodeID) string) []styles.Node {
	nodes := make([]styles.Node, len(l.Nodes))
	for i, n := range l.Nodes {
		nodes[i] = styles.Node{
			ID:    key(n.ID),
			Index: int(n.ID),
			Label: n.Label,
			X:     n.Block.Left,
			Y:     n.Block.Top,
			W:     n.Block.Width(),
			H:     n.Block.Height(),
			Color: n.Color,
		}
	}
	return nodes
}

func buildRibbons(l layout.Layout, nodes []styles.Node, key func(dag.NodeID) string) []styles.Ribbon {
	ribbons := make([]styles.Ribbon, 0, len(l.Ribbons))
	for _, r := range l.Ribbons {
		ribbons = append(ribbons, styles.Ribbon{
			ID:        "ribbon-" + strconv.Itoa(int(r.Edge)),
			From:      key(r.From),
			To:        key(r.To),
			Path:      r.Path,
			Color:     r.Color,
			FromColor: styles.NodeColor(nodes[r.From]),
			ToColor:   styles.NodeColor(nodes[r.To]),
			X1:        r.Source.X,
			X2:        r.Target.X,
			Value:     r.Value,
			Thickness: r.Thickness,
		})
	}
	return ribbons
}
