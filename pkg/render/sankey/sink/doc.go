// Package sink provides output format renderers for flow diagrams.
//
// # Overview
//
// A "sink" transforms a computed [layout.Layout] into a final output format:
//
//   - SVG: standalone vector document, optionally interactive
//   - JSON: the serialized [graph.Layout], for caching and re-rendering
//   - PDF: print-ready output (requires rsvg-convert)
//   - PNG: raster image output (requires rsvg-convert)
//
// # SVG Output
//
// [RenderSVG] draws ribbons in the layout's paint order, node rectangles
// on top of them, and labels last:
//
//	svg := sink.RenderSVG(l,
//	    sink.WithStyle(styles.Gradient{}),
//	    sink.WithKey(graph.Key(g)),
//	    sink.WithInteraction(),
//	)
//
// Node labels sit at the node's center with the formatted flow value on a
// second line; ribbon labels sit at the ribbon's center.
//
// # PDF and PNG Output
//
// [RenderPDF] and [RenderPNG] render SVG first, then convert it via
// [render.ToPDF] and [render.ToPNG]. These require librsvg:
//   - macOS: brew install librsvg
//   - Linux: apt install librsvg2-bin
//
// [layout.Layout]: github.com/matzehuels/sankey/pkg/render/sankey/layout.Layout
// [graph.Layout]: github.com/matzehuels/sankey/pkg/graph.Layout
// [render.ToPDF]: github.com/matzehuels/sankey/pkg/render.ToPDF
// [render.ToPNG]: github.com/matzehuels/sankey/pkg/render.ToPNG
package sink
