package styles

import (
	"bytes"
	"strings"
	"testing"
)

func TestSimpleRenderDefs(t *testing.T) {
	var buf bytes.Buffer
	Simple{}.RenderDefs(&buf, []Ribbon{{ID: "r0"}})
	if buf.Len() != 0 {
		t.Errorf("RenderDefs() wrote %d bytes, want 0", buf.Len())
	}
}

func TestRenderRibbon(t *testing.T) {
	tests := []struct {
		name     string
		style    Style
		ribbon   Ribbon
		contains []string
	}{
		{
			name:   "simple uses source color",
			style:  Simple{},
			ribbon: Ribbon{ID: "ribbon-0", From: "a", To: "b", Path: "M0,0 Z", FromColor: "#111", ToColor: "#222", Value: 3},
			contains: []string{
				`<path id="ribbon-0"`,
				`class="ribbon"`,
				`d="M0,0 Z"`,
				`fill="#111"`,
				`fill-opacity="0.50"`,
				`<title>a → b: 3</title>`,
			},
		},
		{
			name:     "simple explicit color",
			style:    Simple{},
			ribbon:   Ribbon{ID: "ribbon-1", Color: "red", FromColor: "#111"},
			contains: []string{`fill="red"`},
		},
		{
			name:     "gradient references defs",
			style:    Gradient{},
			ribbon:   Ribbon{ID: "ribbon-2", FromColor: "#111", ToColor: "#222"},
			contains: []string{`fill="url(#grad-ribbon-2)"`},
		},
		{
			name:     "gradient explicit color stays flat",
			style:    Gradient{},
			ribbon:   Ribbon{ID: "ribbon-3", Color: "blue"},
			contains: []string{`fill="blue"`},
		},
		{
			name:     "escapes ids",
			style:    Simple{},
			ribbon:   Ribbon{ID: "r", From: "a<b", To: "c&d"},
			contains: []string{`data-from="a&lt;b"`, `data-to="c&amp;d"`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.style.RenderRibbon(&buf, tt.ribbon)
			out := buf.String()
			for _, want := range tt.contains {
				if !strings.Contains(out, want) {
					t.Errorf("RenderRibbon() missing %q in:\n%s", want, out)
				}
			}
		})
	}
}

func TestGradientRenderDefs(t *testing.T) {
	var buf bytes.Buffer
	Gradient{}.RenderDefs(&buf, []Ribbon{
		{ID: "ribbon-0", FromColor: "#111", ToColor: "#222", X1: 10, X2: 90},
		{ID: "ribbon-1", Color: "red"},
	})
	out := buf.String()
	for _, want := range []string{
		`<linearGradient id="grad-ribbon-0" gradientUnits="userSpaceOnUse" x1="10.00" y1="0" x2="90.00" y2="0">`,
		`<stop offset="0%" stop-color="#111"/>`,
		`<stop offset="100%" stop-color="#222"/>`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("RenderDefs() missing %q in:\n%s", want, out)
		}
	}
	if strings.Contains(out, "grad-ribbon-1") {
		t.Error("explicitly colored ribbon should not get a gradient")
	}
}

func TestRenderNode(t *testing.T) {
	var buf bytes.Buffer
	Simple{}.RenderNode(&buf, Node{ID: "a", Index: 1, Label: "A", X: 10, Y: 20, W: 5, H: 50})
	out := buf.String()
	for _, want := range []string{
		`<rect id="node-a"`,
		`x="10.00"`,
		`y="20.00"`,
		`width="5.00"`,
		`height="50.00"`,
		`fill="` + Palette[1] + `"`,
		`<title>A</title>`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("RenderNode() missing %q in:\n%s", want, out)
		}
	}
}

func TestNodeColor(t *testing.T) {
	if got := NodeColor(Node{Color: "teal", Index: 3}); got != "teal" {
		t.Errorf("NodeColor() = %q, want teal", got)
	}
	if got := NodeColor(Node{Index: len(Palette) + 2}); got != Palette[2] {
		t.Errorf("NodeColor() = %q, want palette wrap %q", got, Palette[2])
	}
}

func TestWriteText(t *testing.T) {
	var buf bytes.Buffer
	WriteText(&buf, Text{Text: "A & B", Sub: "42", X: 5, Y: 6, FontFamily: "serif", FontSize: 10, Color: "black"})
	out := buf.String()
	for _, want := range []string{
		`x="5.00" y="6.00"`,
		`text-anchor="middle"`,
		`font-size="10.00"`,
		`A &amp; B`,
		`<tspan x="5.00" dy="10.00">42</tspan>`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("WriteText() missing %q in:\n%s", want, out)
		}
	}
}

func TestByName(t *testing.T) {
	for _, name := range []string{"simple", "gradient"} {
		s, ok := ByName(name)
		if !ok || s.Name() != name {
			t.Errorf("ByName(%q) = %v, %v", name, s, ok)
		}
	}
	if _, ok := ByName("handdrawn"); ok {
		t.Error("ByName(handdrawn) should fail")
	}
}
