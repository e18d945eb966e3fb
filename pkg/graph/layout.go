package graph

import (
	"encoding/json"
	"fmt"
	"os"
)

// =============================================================================
// Layout - Unified Visualization Format
// =============================================================================

// Layout is the unified serialization format for all visualizations.
//
// This is a discriminated union type - check VizType to determine which
// fields are populated:
//
//	Sankey ("sankey"):
//	  - Blocks: node rectangles with label text
//	  - Ribbons: flow bands in paint order, with their SVG paths
//	  - Scale, LayerWidth and the font fields: render options
//
//	Nodelink ("nodelink"):
//	  - DOT: Graphviz DOT string for rendering
//	  - Engine: Graphviz layout engine (e.g., "dot")
//
// Shared fields (both types):
//   - Width, Height: frame dimensions
//   - Style: visual style ("simple", "gradient")
//   - Layers: node ids per layer, in final order
//
// For sankey layouts there is also an internal representation
// (pkg/render/sankey/layout.Layout) used by the emitters. Use
// Export()/Parse() to convert between them.
type Layout struct {
	// Discriminator
	VizType string `json:"viz_type" bson:"viz_type"`

	// Common dimensions and style
	Width  float64 `json:"width" bson:"width"`
	Height float64 `json:"height" bson:"height"`
	Style  string  `json:"style,omitempty" bson:"style,omitempty"`

	// Graph structure (shared)
	Layers [][]string `json:"layers,omitempty" bson:"layers,omitempty"`

	// Sankey-specific
	Blocks         []Block  `json:"blocks,omitempty" bson:"blocks,omitempty"`
	Ribbons        []Ribbon `json:"ribbons,omitempty" bson:"ribbons,omitempty"`
	Scale          float64  `json:"scale,omitempty" bson:"scale,omitempty"`
	LayerWidth     float64  `json:"layer_width,omitempty" bson:"layer_width,omitempty"`
	NodeWidth      float64  `json:"node_width,omitempty" bson:"node_width,omitempty"`
	NodeSeparation float64  `json:"node_separation,omitempty" bson:"node_separation,omitempty"`
	Border         float64  `json:"border,omitempty" bson:"border,omitempty"`
	FontFamily     string   `json:"font_family,omitempty" bson:"font_family,omitempty"`
	FontSize       float64  `json:"font_size,omitempty" bson:"font_size,omitempty"`
	FontColor      string   `json:"font_color,omitempty" bson:"font_color,omitempty"`

	// Nodelink-specific
	DOT    string `json:"dot,omitempty" bson:"dot,omitempty"`
	Engine string `json:"engine,omitempty" bson:"engine,omitempty"`
}

// IsSankey returns true if this is a sankey layout.
func (l *Layout) IsSankey() bool { return l.VizType == VizTypeSankey }

// IsNodelink returns true if this is a nodelink layout.
func (l *Layout) IsNodelink() bool { return l.VizType == VizTypeNodelink }

// =============================================================================
// Block, Ribbon - Sankey Visualization Elements
// =============================================================================

// Block is a positioned node rectangle.
type Block struct {
	ID        string  `json:"id" bson:"id"`
	Label     string  `json:"label" bson:"label"`
	ValueText string  `json:"value_text,omitempty" bson:"value_text,omitempty"`
	Color     string  `json:"color,omitempty" bson:"color,omitempty"`
	Layer     int     `json:"layer" bson:"layer"`
	Position  int     `json:"position" bson:"position"`
	Flow      float64 `json:"flow" bson:"flow"`
	X         float64 `json:"x" bson:"x"`
	Y         float64 `json:"y" bson:"y"`
	Width     float64 `json:"width" bson:"width"`
	Height    float64 `json:"height" bson:"height"`
}

// Ribbon is a positioned flow band. SourceX/SourceY and TargetX/TargetY are
// the top corners of the band at each end.
type Ribbon struct {
	Edge      int     `json:"edge" bson:"edge"`
	From      string  `json:"from" bson:"from"`
	To        string  `json:"to" bson:"to"`
	Value     float64 `json:"value" bson:"value"`
	Thickness float64 `json:"thickness" bson:"thickness"`
	Label     string  `json:"label,omitempty" bson:"label,omitempty"`
	Color     string  `json:"color,omitempty" bson:"color,omitempty"`
	SourceX   float64 `json:"source_x" bson:"source_x"`
	SourceY   float64 `json:"source_y" bson:"source_y"`
	TargetX   float64 `json:"target_x" bson:"target_x"`
	TargetY   float64 `json:"target_y" bson:"target_y"`
	Path      string  `json:"path" bson:"path"`
}

// =============================================================================
// Layout Serialization API
// =============================================================================

// MarshalLayout serializes a Layout to pretty-printed JSON bytes.
func MarshalLayout(l Layout) ([]byte, error) {
	return json.MarshalIndent(l, "", "  ")
}

// UnmarshalLayout deserializes JSON bytes into a Layout.
// Validates that required fields are present for the viz type.
func UnmarshalLayout(data []byte) (Layout, error) {
	var l Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return Layout{}, fmt.Errorf("unmarshal layout: %w", err)
	}
	if l.VizType == "" {
		l.VizType = VizTypeSankey
	}
	if err := l.Validate(); err != nil {
		return Layout{}, err
	}
	return l, nil
}

// Validate checks that the fields required by the viz type are present.
func (l *Layout) Validate() error {
	switch l.VizType {
	case VizTypeSankey:
		if len(l.Blocks) == 0 {
			return fmt.Errorf("sankey layout must contain blocks")
		}
	case VizTypeNodelink:
		if l.DOT == "" {
			return fmt.Errorf("nodelink layout must contain DOT string")
		}
	default:
		return fmt.Errorf("unknown viz_type %q", l.VizType)
	}
	return nil
}

// WriteLayoutFile writes a Layout to a JSON file.
func WriteLayoutFile(l Layout, path string) error {
	data, err := MarshalLayout(l)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadLayoutFile reads a Layout from a JSON file.
func ReadLayoutFile(path string) (Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Layout{}, fmt.Errorf("read %s: %w", path, err)
	}
	return UnmarshalLayout(data)
}
