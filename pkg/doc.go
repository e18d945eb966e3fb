// Package pkg provides the core libraries for sankey flow diagrams.
//
// # Overview
//
// Sankey turns a weighted directed acyclic graph into a layered flow
// diagram: nodes become bars whose height follows the flow through them and
// edges become ribbons whose thickness follows the edge value. The pkg
// directory is organized into these areas:
//
//  1. [ingest] - Dose-record CSV and alternate graph formats to flow graphs
//  2. [dag] - Graph structure, layering and crossing counts
//  3. [render] - Ordering, geometry and output (sankey and nodelink)
//  4. [pipeline] - Orchestration (load → layout → render) with caching
//  5. [graph] - Serialization types for graphs and layouts
//
// # Architecture
//
// The typical data flow:
//
//	CSV records / graph JSON
//	         ↓
//	    [ingest] package (transitions between dose groups)
//	         ↓
//	    [dag] package (layers, crossings)
//	         ↓
//	    [render/sankey] packages (ordering, layout, sink)
//	         ↓
//	    SVG/PDF/PNG/JSON output
//
// # Quick Start
//
//	g, _, err := pipeline.LoadFile("doses.csv", pipeline.InputAuto, ingest.Options{})
//	if err != nil {
//	    return err
//	}
//	runner := pipeline.NewRunner(cache.NewNullCache(), nil, nil)
//	defer runner.Close()
//
//	result, err := runner.Execute(ctx, g, pipeline.Options{
//	    Ordering: "exact",
//	    Formats:  []string{"svg"},
//	})
//	if err != nil {
//	    return err
//	}
//	os.WriteFile("doses.svg", result.Artifacts["svg"], 0o644)
//
// # Main Packages
//
// [dag] - Directed acyclic graph with integer node ids, layer assignment in
// [dag/transform] and bounded permutation enumeration in [dag/perm].
//
// [render/sankey] - The flow diagram proper:
//
//   - [render/sankey/ordering]: Layer ordering (barycenter, median, exact)
//   - [render/sankey/crossing]: Ribbon slot placement and geometric crossings
//   - [render/sankey/layout]: Bar and ribbon geometry
//   - [render/sankey/sink]: Output formats (SVG, PDF, PNG, JSON)
//   - [render/sankey/styles]: Visual styles
//
// [render/nodelink] - Plain directed graph diagrams using Graphviz.
//
// [render] - Format conversion (SVG to PDF/PNG).
//
// ## Infrastructure
//
// [pipeline] - The load, layout and render stages shared by the CLI and
// the HTTP server.
//
// [cache] - Layout and artifact cache with null, memory, file and Redis
// backends.
//
// [storage] - Stored diagrams in memory or MongoDB.
//
// [config] - TOML and YAML settings files.
//
// [observability] - Hooks for pipeline, cache and HTTP events.
//
// [errors] - Coded errors shared by the CLI and the API.
package pkg
