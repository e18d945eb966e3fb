// Package graph provides serialization types for flow graphs and layouts.
//
// This package defines the wire format for graph data, used for input files,
// API requests and responses, storage, and caching.
//
// # Architecture
//
// The package sits at the serialization boundary between internal
// representations and external formats:
//
//   - [Graph], [Layout]: Serialization types (this package)
//   - pkg/dag.Graph: Internal arena graph, see the [DAG] alias
//   - pkg/render/sankey/layout.Layout: Internal layout (rectangles, ribbons)
//
// Use [ToDAG]/[FromDAG] and the layout package's Export/Parse to convert
// between them.
//
// # Constants
//
// This package is the single source of truth for visualization constants:
//
//	graph.VizTypeSankey     // "sankey"
//	graph.VizTypeNodelink   // "nodelink"
//	graph.StyleSimple       // "simple"
//	graph.StyleGradient     // "gradient"
//
// # Graph Serialization
//
// Graphs use a node-link JSON format with weighted edges:
//
//	{
//	  "nodes": [{"id": "a"}, {"id": "b", "label": "B", "color": "#4e79a7"}],
//	  "edges": [{"from": "a", "to": "b", "value": 3}]
//	}
//
// A node's optional "value" fixes its flow; otherwise flow is the larger of
// the summed incoming and outgoing edge values.
//
// Edges that reference unknown node ids are skipped by [ToDAG] and counted
// in [Diagnostics]; they never abort a conversion.
//
// # Concurrency
//
// All functions are safe for concurrent reads but not concurrent writes.
package graph
