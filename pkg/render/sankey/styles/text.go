package styles

import (
	"bytes"
	"encoding/xml"
	"fmt"
)

// Palette is the fill cycle for nodes without an explicit color.
var Palette = []string{
	"#4e79a7", "#f28e2b", "#e15759", "#76b7b2", "#59a14f",
	"#edc948", "#b07aa1", "#ff9da7", "#9c755f", "#bab0ac",
}

// NodeColor returns the explicit color of n or its palette color.
func NodeColor(n Node) string {
	if n.Color != "" {
		return n.Color
	}
	return Palette[n.Index%len(Palette)]
}

func EscapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}

// WriteText renders t as an SVG text element. Sub is placed on a second
// line one font size below.
func WriteText(buf *bytes.Buffer, t Text) {
	anchor := t.Anchor
	if anchor == "" {
		anchor = "middle"
	}
	class := ""
	if t.Class != "" {
		class = fmt.Sprintf(` class="%s"`, t.Class)
	}
	fmt.Fprintf(buf, `  <text%s x="%.2f" y="%.2f" text-anchor="%s" dominant-baseline="middle" font-family="%s" font-size="%.2f" fill="%s">%s`,
		class, t.X, t.Y, anchor, EscapeXML(t.FontFamily), t.FontSize, EscapeXML(t.Color), EscapeXML(t.Text))
	if t.Sub != "" {
		fmt.Fprintf(buf, `<tspan x="%.2f" dy="%.2f">%s</tspan>`, t.X, t.FontSize, EscapeXML(t.Sub))
	}
	buf.WriteString("</text>\n")
}
