package pipeline

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/matzehuels/sankey/pkg/dag"
	"github.com/matzehuels/sankey/pkg/errors"
	"github.com/matzehuels/sankey/pkg/graph"
	"github.com/matzehuels/sankey/pkg/observability"
	"github.com/matzehuels/sankey/pkg/render"
	"github.com/matzehuels/sankey/pkg/render/nodelink"
	"github.com/matzehuels/sankey/pkg/render/sankey/layout"
	"github.com/matzehuels/sankey/pkg/render/sankey/sink"
	"github.com/matzehuels/sankey/pkg/render/sankey/styles"
)

// RenderFromLayout generates output artifacts in the requested formats
// from a serialized layout. The layout's VizType selects the renderer.
func RenderFromLayout(ctx context.Context, gl graph.Layout, opts Options) (artifacts map[string][]byte, err error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}

	start := time.Now()
	observability.Pipeline().OnRenderStart(ctx, opts.Formats)
	defer func() {
		observability.Pipeline().OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	}()

	switch gl.VizType {
	case graph.VizTypeNodelink:
		return renderNodelink(ctx, gl, opts)
	case graph.VizTypeSankey:
		return renderSankey(ctx, gl, opts)
	default:
		return nil, errors.New(errors.ErrCodeInvalidVizType, "layout has unknown viz_type %q", gl.VizType)
	}
}

func renderSankey(ctx context.Context, gl graph.Layout, opts Options) (map[string][]byte, error) {
	l, err := layout.Parse(gl)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid layout")
	}
	style, ok := styles.ByName(opts.Style)
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidStyle, "unknown style %q", opts.Style)
	}
	key := blockKey(gl)

	svgOpts := []sink.SVGOption{sink.WithStyle(style), sink.WithKey(key)}
	if opts.HideValues {
		svgOpts = append(svgOpts, sink.WithoutValues())
	}
	if opts.Interactive {
		svgOpts = append(svgOpts, sink.WithInteraction())
	}

	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		var data []byte
		var err error
		switch format {
		case FormatSVG:
			data = sink.RenderSVG(l, svgOpts...)
		case FormatPNG:
			data, err = sink.RenderPNG(ctx, l, sink.WithPNGSVGOptions(svgOpts...), sink.WithScale(DefaultPNGScale))
		case FormatPDF:
			data, err = sink.RenderPDF(ctx, l, sink.WithPDFSVGOptions(svgOpts...))
		case FormatJSON:
			data, err = sink.RenderJSON(l, sink.WithJSONKey(key), sink.WithJSONStyle(opts.Style))
		default:
			return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported format %q", format)
		}
		if err != nil {
			return nil, wrapRenderError(format, err)
		}
		artifacts[format] = data
	}
	opts.Logger.Debug("rendered sankey", "formats", opts.Formats, "ribbons", len(l.Ribbons))
	return artifacts, nil
}

func renderNodelink(ctx context.Context, gl graph.Layout, opts Options) (map[string][]byte, error) {
	dot, err := nodelink.Parse(gl)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid layout")
	}

	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		var data []byte
		var err error
		switch format {
		case FormatSVG:
			data, err = nodelink.RenderSVG(ctx, dot)
		case FormatPNG:
			data, err = nodelink.RenderPNG(ctx, dot, DefaultPNGScale)
		case FormatPDF:
			data, err = nodelink.RenderPDF(ctx, dot)
		case FormatJSON:
			gl.Style = opts.Style
			data, err = graph.MarshalLayout(gl)
		default:
			return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported format %q", format)
		}
		if err != nil {
			return nil, wrapRenderError(format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

// blockKey names parsed node handles by their block ids; [layout.Parse]
// assigns handles in block order.
func blockKey(gl graph.Layout) func(dag.NodeID) string {
	return func(id dag.NodeID) string {
		if int(id) < 0 || int(id) >= len(gl.Blocks) {
			return ""
		}
		return gl.Blocks[id].ID
	}
}

func wrapRenderError(format string, err error) error {
	if stderrors.Is(err, render.ErrConverterMissing) {
		return errors.Wrap(errors.ErrCodeUnsupported, err, "render %s", format)
	}
	return errors.Wrap(errors.ErrCodeInternal, err, "render %s", format)
}
