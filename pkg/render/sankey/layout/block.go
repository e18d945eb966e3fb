package layout

import "github.com/matzehuels/sankey/pkg/dag"

// Block is the rectangle drawn for one node. Coordinates are in surface
// units with y growing downward, so Top <= Bottom.
type Block struct {
	NodeID      dag.NodeID
	Left, Right float64
	Top, Bottom float64
}

// Width returns the horizontal span of the block.
func (b Block) Width() float64 { return b.Right - b.Left }

// Height returns the vertical span of the block.
func (b Block) Height() float64 { return b.Bottom - b.Top }

// CenterX returns the horizontal center point of the block.
func (b Block) CenterX() float64 { return (b.Left + b.Right) / 2 }

// CenterY returns the vertical center point of the block.
func (b Block) CenterY() float64 { return (b.Top + b.Bottom) / 2 }

// Overlaps reports whether the vertical ranges of b and o share more than
// a boundary.
func (b Block) Overlaps(o Block) bool {
	return b.Top < o.Bottom && o.Top < b.Bottom
}
