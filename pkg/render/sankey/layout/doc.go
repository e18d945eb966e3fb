// Package layout computes the geometry of a flow diagram.
//
// [Build] takes a layered graph whose layer order is final and places every
// node as a rectangle and every edge as a ribbon:
//
//   - layers are spread evenly across the surface width
//   - one global scale maps flow to height, chosen so the tallest layer
//     (flow plus separations) fits between the borders
//   - each layer's stack is centered vertically
//   - ribbons attach to stacked bands on their end nodes, ordered by the
//     opposite end so they leave a node without crossing each other
//
// Ribbons are returned in paint order, largest value first, so thin
// ribbons stay visible on top of thick ones.
//
// The [Layout] value is self-contained and can be exported to the
// serialization format in pkg/graph with [Layout.Export] and read back
// with [Parse].
package layout
