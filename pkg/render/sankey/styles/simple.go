package styles

import (
	"bytes"
	"fmt"
)

// RibbonOpacity is the fill opacity of ribbons in the built-in styles.
const RibbonOpacity = 0.5

// Simple draws flat ribbons in their own color, or the source node's color
// when none is set.
type Simple struct{}

func (Simple) Name() string { return "simple" }

func (Simple) RenderDefs(*bytes.Buffer, []Ribbon) {}

func (Simple) RenderRibbon(buf *bytes.Buffer, r Ribbon) {
	fill := r.Color
	if fill == "" {
		fill = r.FromColor
	}
	writeRibbon(buf, r, EscapeXML(fill))
}

func (Simple) RenderNode(buf *bytes.Buffer, n Node) { writeNode(buf, n) }

func (Simple) RenderText(buf *bytes.Buffer, t Text) { WriteText(buf, t) }

// Gradient fades each ribbon from its source color to its target color.
// Ribbons with an explicit color stay flat.
type Gradient struct{}

func (Gradient) Name() string { return "gradient" }

func (Gradient) RenderDefs(buf *bytes.Buffer, ribbons []Ribbon) {
	buf.WriteString("  <defs>\n")
	for _, r := range ribbons {
		if r.Color != "" {
			continue
		}
		fmt.Fprintf(buf, `    <linearGradient id="%s" gradientUnits="userSpaceOnUse" x1="%.2f" y1="0" x2="%.2f" y2="0">`+"\n",
			gradientID(r), r.X1, r.X2)
		fmt.Fprintf(buf, `      <stop offset="0%%" stop-color="%s"/>`+"\n", EscapeXML(r.FromColor))
		fmt.Fprintf(buf, `      <stop offset="100%%" stop-color="%s"/>`+"\n", EscapeXML(r.ToColor))
		buf.WriteString("    </linearGradient>\n")
	}
	buf.WriteString("  </defs>\n")
}

func (Gradient) RenderRibbon(buf *bytes.Buffer, r Ribbon) {
	if r.Color != "" {
		writeRibbon(buf, r, EscapeXML(r.Color))
		return
	}
	writeRibbon(buf, r, fmt.Sprintf("url(#%s)", gradientID(r)))
}

func (Gradient) RenderNode(buf *bytes.Buffer, n Node) { writeNode(buf, n) }

func (Gradient) RenderText(buf *bytes.Buffer, t Text) { WriteText(buf, t) }

// ByName returns the built-in style with the given name.
func ByName(name string) (Style, bool) {
	switch name {
	case Simple{}.Name():
		return Simple{}, true
	case Gradient{}.Name():
		return Gradient{}, true
	}
	return nil, false
}

func gradientID(r Ribbon) string { return "grad-" + r.ID }

func writeRibbon(buf *bytes.Buffer, r Ribbon, fill string) {
	fmt.Fprintf(buf, `  <path id="%s" class="ribbon" d="%s" fill="%s" fill-opacity="%.2f" data-from="%s" data-to="%s"><title>%s → %s: %s</title></path>`+"\n",
		EscapeXML(r.ID), r.Path, fill, RibbonOpacity,
		EscapeXML(r.From), EscapeXML(r.To),
		EscapeXML(r.From), EscapeXML(r.To), formatValue(r.Value))
}

func writeNode(buf *bytes.Buffer, n Node) {
	fmt.Fprintf(buf, `  <rect id="node-%s" class="node" x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="%s"><title>%s</title></rect>`+"\n",
		EscapeXML(n.ID), n.X, n.Y, n.W, n.H, EscapeXML(NodeColor(n)), EscapeXML(n.Label))
}

func formatValue(v float64) string {
	return fmt.Sprintf("%g", v)
}
