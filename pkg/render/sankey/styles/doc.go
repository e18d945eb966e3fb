// Package styles provides visual styles for flow diagrams.
//
// A [Style] turns positioned nodes, ribbons, and labels into SVG fragments.
// Two styles are built in:
//
//   - [Simple]: flat ribbons colored like their source node
//   - [Gradient]: ribbons fading from source color to target color
//
// Nodes without an explicit color take one from [Palette], indexed by
// node handle, so colors are stable across renders of the same graph.
package styles
