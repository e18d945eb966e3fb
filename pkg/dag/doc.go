// Package dag provides the arena graph that the flow-diagram layout engine
// operates on.
//
// # Overview
//
// A [Graph] stores nodes and edges in growable slices and hands out integer
// handles ([NodeID], [EdgeID]) instead of pointers. Every stage of a layout
// run writes its results straight into the node records: layer assignment
// sets [Node.Layer], ordering sets [Node.Position], and the coordinate pass
// fills [Node.Geometry] and the ribbon cursors.
//
// Node and edge payloads are type parameters. The only requirement on a node
// payload is that it can describe itself as text ([fmt.Stringer]); it is
// used as the node's label unless an explicit label is supplied.
//
// # Basic Usage
//
//	g := dag.New[myNode, struct{}]()
//	a, _ := g.AddNode(myNode{"A"}, dag.NodeAttrs{})
//	b, _ := g.AddNode(myNode{"B"}, dag.NodeAttrs{})
//	g.AddEdge(a, b, 3, struct{}{}, dag.EdgeAttrs{})
//
// # Flow
//
// Registering an edge adds its value to the source's CurrentOutput and the
// target's CurrentInput. A node's flow is its fixed value when set,
// otherwise the larger of the two accumulators. Accumulators only grow.
//
// # Layers and Order
//
// [Graph.SetLayers] writes the partition once. [Graph.SetOrder] may then
// permute a layer any number of times until [Graph.Freeze] is called, after
// which the order is fixed for the rest of the run.
//
// # Views
//
// Algorithms that do not touch payloads take a [View], the non-generic
// read-only face of a graph. [CountLayerCrossings] counts combinatorial
// crossings between adjacent layers with a Fenwick tree. [OutBands] and
// [InBands] give the order in which ribbons stack on a node.
//
// # Concurrency
//
// A Graph is not safe for concurrent mutation. Concurrent reads through a
// View are safe.
package dag
