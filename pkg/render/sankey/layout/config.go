package layout

import (
	"math"
	"strconv"
)

// Defaults for the style options that are not derived from the surface.
const (
	DefaultFontFamily = "sans-serif"
	DefaultFontColor  = "black"
)

// Config describes the drawing surface and the style knobs of a layout.
// Width and Height are required; every other zero field is replaced by a
// default derived from the surface:
//
//	NodeSeparation  Height/30
//	NodeWidth       Width/100
//	Border          Height/10
//	FontSize        Height/50
type Config struct {
	Width  float64 `json:"width" yaml:"width" toml:"width"`
	Height float64 `json:"height" yaml:"height" toml:"height"`

	NodeSeparation float64 `json:"node_separation,omitempty" yaml:"node_separation" toml:"node_separation"`
	NodeWidth      float64 `json:"node_width,omitempty" yaml:"node_width" toml:"node_width"`
	Border         float64 `json:"border,omitempty" yaml:"border" toml:"border"`
	FontFamily     string  `json:"font_family,omitempty" yaml:"font_family" toml:"font_family"`
	FontSize       float64 `json:"font_size,omitempty" yaml:"font_size" toml:"font_size"`
	FontColor      string  `json:"font_color,omitempty" yaml:"font_color" toml:"font_color"`

	// NumberFormat renders flow values as label text. Nil means
	// [FormatNumber].
	NumberFormat func(float64) string `json:"-" yaml:"-" toml:"-"`
}

// Resolved returns a copy of c with every unset option filled in.
func (c Config) Resolved() Config {
	if c.NodeSeparation == 0 {
		c.NodeSeparation = c.Height / 30
	}
	if c.NodeWidth == 0 {
		c.NodeWidth = c.Width / 100
	}
	if c.Border == 0 {
		c.Border = c.Height / 10
	}
	if c.FontSize == 0 {
		c.FontSize = c.Height / 50
	}
	if c.FontFamily == "" {
		c.FontFamily = DefaultFontFamily
	}
	if c.FontColor == "" {
		c.FontColor = DefaultFontColor
	}
	if c.NumberFormat == nil {
		c.NumberFormat = FormatNumber
	}
	return c
}

func (c Config) validate() error {
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"width", c.Width},
		{"height", c.Height},
	} {
		if !(f.v > 0) || math.IsInf(f.v, 0) {
			return geometryErrorf("surface %s must be positive, got %v", f.name, f.v)
		}
	}
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"node separation", c.NodeSeparation},
		{"node width", c.NodeWidth},
		{"border", c.Border},
		{"font size", c.FontSize},
	} {
		if f.v < 0 || math.IsNaN(f.v) || math.IsInf(f.v, 0) {
			return geometryErrorf("%s must be a finite non-negative number, got %v", f.name, f.v)
		}
	}
	return nil
}

// FormatNumber prints v as a plain decimal with no trailing zeros.
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
