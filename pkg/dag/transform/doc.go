// Package transform assigns layers to a flow graph.
//
// # Layer Assignment
//
// [AssignLayers] computes each node's layer as the length of the longest
// path reaching it from a node without incoming edges. Every edge therefore
// points to a strictly higher layer, but edges are not required to span
// exactly one layer: long edges are kept as they are and later drawn as long
// ribbons.
//
// # Cycles
//
// Acyclicity is a precondition. When it does not hold, [AssignLayers]
// returns a [*CycleError] that wraps [dag.ErrGraphNotAcyclic], names a node
// lying on the cycle, and spells out the cycle. Nothing is written to the
// graph in that case. [FindCycle] runs the same check without layering.
package transform
