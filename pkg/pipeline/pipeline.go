// Package pipeline provides the load → layout → render pipeline shared by
// the CLI and the HTTP server.
//
// Centralizing the stages here keeps defaults, validation, error codes and
// caching identical across entry points.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Load: read a flow graph, a dose CSV or an alternate-format graph
//  2. Layout: assign layers, order them and compute the geometry
//  3. Render: emit SVG, PNG, PDF or JSON from the layout
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, g, pipeline.Options{
//	    Ordering: "median",
//	    Formats:  []string{"svg", "json"},
//	})
//	svg := result.Artifacts["svg"]
//
// Run individual stages:
//
//	l, err := runner.Layout(ctx, g, opts)
//	artifacts, err := runner.Render(ctx, l, opts)
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/sankey/pkg/cache"
	"github.com/matzehuels/sankey/pkg/errors"
	"github.com/matzehuels/sankey/pkg/graph"
	"github.com/matzehuels/sankey/pkg/render/sankey/crossing"
	"github.com/matzehuels/sankey/pkg/render/sankey/layout"
	"github.com/matzehuels/sankey/pkg/render/sankey/ordering"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultWidth is the default surface width in pixels.
	DefaultWidth = 800.0

	// DefaultHeight is the default surface height in pixels.
	DefaultHeight = 600.0

	// DefaultOrdering is the default layer ordering strategy.
	DefaultOrdering = ordering.StrategyBarycenter

	// DefaultVizType is the default visualization type.
	DefaultVizType = graph.VizTypeSankey

	// DefaultStyle is the default visual style.
	DefaultStyle = graph.StyleSimple

	// DefaultPNGScale is the resolution multiplier for PNG output.
	DefaultPNGScale = 2.0
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatJSON = "json"
)

// Formats lists the supported output formats.
var Formats = []string{FormatSVG, FormatPNG, FormatPDF, FormatJSON}

// Styles lists the supported visual styles.
var Styles = []string{graph.StyleSimple, graph.StyleGradient}

// VizTypes lists the supported visualization types.
var VizTypes = []string{graph.VizTypeSankey, graph.VizTypeNodelink}

// ContentTypes maps output formats to MIME types.
var ContentTypes = map[string]string{
	FormatSVG:  "image/svg+xml",
	FormatPNG:  "image/png",
	FormatPDF:  "application/pdf",
	FormatJSON: "application/json",
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Layout options
	VizType        string  `json:"viz_type,omitempty"`
	Width          float64 `json:"width,omitempty"`
	Height         float64 `json:"height,omitempty"`
	Ordering       string  `json:"ordering,omitempty"`
	ExactDepth     int     `json:"exact_depth,omitempty"` // largest layer the exact ordering enumerates
	Objective      string  `json:"objective,omitempty"`   // "count" or "signed"
	NodeWidth      float64 `json:"node_width,omitempty"`
	NodeSeparation float64 `json:"node_separation,omitempty"`
	Border         float64 `json:"border,omitempty"`
	FontFamily     string  `json:"font_family,omitempty"`
	FontSize       float64 `json:"font_size,omitempty"`
	FontColor      string  `json:"font_color,omitempty"`

	// Render options
	Formats     []string `json:"formats,omitempty"`
	Style       string   `json:"style,omitempty"`
	HideValues  bool     `json:"hide_values,omitempty"`
	Interactive bool     `json:"interactive,omitempty"`
	Detailed    bool     `json:"detailed,omitempty"` // nodelink: layer and flow details in labels

	// Refresh skips cache reads; results are still written.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger  *log.Logger      `json:"-"`
	Orderer ordering.Orderer `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// GraphHash is the content hash of the input graph.
	GraphHash string

	// Layout is the serialized layout.
	Layout graph.Layout

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Diagnostics lists input edges skipped during conversion. Only set
	// when the layout was computed rather than read from cache.
	Diagnostics graph.Diagnostics

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount  int
	EdgeCount  int
	Layers     int
	Crossings  int
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LayoutHit bool
	RenderHit bool // whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	return errors.ValidateChoice(errors.ErrCodeInvalidFormat, "format", format, Formats...)
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateStyle checks that a style is valid.
func ValidateStyle(style string) error {
	return errors.ValidateChoice(errors.ErrCodeInvalidStyle, "style", style, Styles...)
}

// ValidateVizType checks that a visualization type is valid.
func ValidateVizType(vizType string) error {
	return errors.ValidateChoice(errors.ErrCodeInvalidVizType, "viz_type", vizType, VizTypes...)
}

// ValidateOrdering checks that an ordering strategy is valid.
func ValidateOrdering(name string) error {
	return errors.ValidateChoice(errors.ErrCodeInvalidOrdering, "ordering", name, ordering.Strategies...)
}

// =============================================================================
// Options Methods
// =============================================================================

// SetLayoutDefaults sets default values for layout computation.
func (o *Options) SetLayoutDefaults() {
	if o.VizType == "" {
		o.VizType = DefaultVizType
	}
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if o.Ordering == "" {
		o.Ordering = DefaultOrdering
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForLayout validates and sets defaults for layout computation.
func (o *Options) ValidateForLayout() error {
	o.SetLayoutDefaults()
	if err := ValidateVizType(o.VizType); err != nil {
		return err
	}
	if err := ValidateOrdering(o.Ordering); err != nil {
		return err
	}
	if _, err := crossing.ParseObjective(o.Objective); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidOrdering, err, "invalid objective")
	}
	if o.ExactDepth < 0 {
		return errors.New(errors.ErrCodeInvalidOrdering, "exact_depth must not be negative")
	}
	return errors.ValidateDimensions(o.Width, o.Height)
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Style == "" {
		o.Style = DefaultStyle
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	return ValidateStyle(o.Style)
}

// Validate validates and sets defaults for the full pipeline.
func (o *Options) Validate() error {
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	return o.ValidateForRender()
}

// IsNodelink returns true if this is a nodelink visualization.
func (o *Options) IsNodelink() bool {
	return o.VizType == graph.VizTypeNodelink
}

// LayoutConfig returns the layout configuration for these options.
func (o *Options) LayoutConfig() layout.Config {
	return layout.Config{
		Width:          o.Width,
		Height:         o.Height,
		NodeWidth:      o.NodeWidth,
		NodeSeparation: o.NodeSeparation,
		Border:         o.Border,
		FontFamily:     o.FontFamily,
		FontSize:       o.FontSize,
		FontColor:      o.FontColor,
	}
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		VizType:        o.VizType,
		Width:          o.Width,
		Height:         o.Height,
		Ordering:       o.Ordering + "/" + o.Objective,
		ExactDepth:     o.ExactDepth,
		NodeWidth:      o.NodeWidth,
		NodeSeparation: o.NodeSeparation,
		Border:         o.Border,
		FontFamily:     o.FontFamily,
		FontSize:       o.FontSize,
		FontColor:      o.FontColor,
		Style:          o.Style,
		Detailed:       o.Detailed,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format:      format,
		Style:       o.Style,
		HideValues:  o.HideValues,
		Interactive: o.Interactive,
	}
}
