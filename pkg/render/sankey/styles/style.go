package styles

import "bytes"

// Style defines the visual appearance of a flow diagram.
// Implementations control how ribbons, nodes, and labels are drawn.
type Style interface {
	// Name is the identifier used on the command line and in layouts.
	Name() string
	// RenderDefs writes SVG <defs> content (gradients, filters).
	RenderDefs(buf *bytes.Buffer, ribbons []Ribbon)
	// RenderRibbon writes the SVG for a single flow band.
	RenderRibbon(buf *bytes.Buffer, r Ribbon)
	// RenderNode writes the SVG for a node rectangle.
	RenderNode(buf *bytes.Buffer, n Node)
	// RenderText writes the SVG for a label.
	RenderText(buf *bytes.Buffer, t Text)
}

// Node contains all data needed to render a node rectangle.
type Node struct {
	ID         string  // Node identifier
	Index      int     // Handle, used to pick a palette color
	Label      string  // Display text
	X, Y, W, H float64 // Position and dimensions
	Color      string  // Explicit fill, empty for palette
}

// Ribbon contains all data needed to render a flow band.
type Ribbon struct {
	ID        string  // Unique element id
	From, To  string  // Connected node ids
	Path      string  // Closed SVG path
	Color     string  // Explicit fill, empty for derived
	FromColor string  // Resolved source node fill
	ToColor   string  // Resolved target node fill
	X1, X2    float64 // Horizontal extent, for gradients
	Value     float64
	Thickness float64
}

// Text is a positioned label.
type Text struct {
	Text       string
	Sub        string // Optional second line
	X, Y       float64
	Anchor     string // "start", "middle" or "end"
	FontFamily string
	FontSize   float64
	Color      string
	Class      string
}
