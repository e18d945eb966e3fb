// Package render provides visualization rendering for flow graphs.
//
// # Overview
//
// This package contains the rendering pipeline that turns a laid-out flow
// graph into visual output. It provides:
//
//   - Generic format conversion (SVG to PDF/PNG)
//   - Flow diagrams (in the sankey subpackages)
//   - Node-link diagrams of the layered graph (in [nodelink])
//
// # Format Conversion
//
// The [ToPDF] and [ToPNG] functions convert any SVG to other formats using
// the external rsvg-convert tool (from librsvg):
//
//	svg := sink.RenderSVG(layout, opts...)
//	pdf, err := render.ToPDF(ctx, svg)
//	png, err := render.ToPNG(ctx, svg, 2.0)  // 2x scale
//
// # Flow Diagrams
//
// Key sankey subpackages:
//   - [sankey/crossing]: segment intersection and crossing scores
//   - [sankey/ordering]: layer ordering (barycenter, median, exact)
//   - [sankey/layout]: node rectangles and ribbon paths
//   - [sankey/styles]: visual styles (simple, gradient)
//   - [sankey/sink]: output formats (SVG, JSON, PNG, PDF)
//
// # Node-Link Diagrams
//
// The [nodelink] subpackage renders the layered graph as a Graphviz
// diagram, one rank per layer, which is useful to inspect layering and
// ordering decisions.
//
//	dot := nodelink.ToDOT(g, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// [sankey/crossing]: github.com/matzehuels/sankey/pkg/render/sankey/crossing
// [sankey/ordering]: github.com/matzehuels/sankey/pkg/render/sankey/ordering
// [sankey/layout]: github.com/matzehuels/sankey/pkg/render/sankey/layout
// [sankey/styles]: github.com/matzehuels/sankey/pkg/render/sankey/styles
// [sankey/sink]: github.com/matzehuels/sankey/pkg/render/sankey/sink
// [nodelink]: github.com/matzehuels/sankey/pkg/render/nodelink
package render
