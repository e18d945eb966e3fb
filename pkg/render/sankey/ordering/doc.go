// Package ordering decides the top-to-bottom sequence of nodes within each
// layer of a flow diagram so that ribbons cross as little as possible.
//
// # Heuristics
//
// [Barycenter] and [Median] make one forward sweep over the layers. For a
// node in layer i, they collect the positions (in the already finalized
// order of layer i-1) of the sources of its incoming edges, and reduce them
// to a score:
//
//   - [Barycenter]: the arithmetic mean
//   - [Median]: the statistical median (mean of the two central values for
//     an even count)
//
// Nodes without neighbours in layer i-1 score 0. Layers are sorted
// ascending with a stable sort, so ties keep their insertion order and the
// result is deterministic. Layer 0 keeps the order it was given.
//
// Scores of large layers are computed concurrently with an errgroup; the
// scores land in an index-addressed slice, so concurrency does not affect
// the result.
//
// # Exact Refinement
//
// [Exact] orders each layer with a heuristic against the final order of
// the previous layer and, when the layer is small enough to enumerate,
// tries every permutation of it. Each
// candidate is turned into provisional segment geometry and scored with the
// crossing evaluator; the cheapest candidate wins. The layer size bound is
// enforced by Exact itself: layers above [HardLayerLimit] always keep the
// heuristic order.
//
// # Usage
//
//	o, err := ordering.New("median")
//	orders, err := o.OrderLayers(ctx, g)
//	err = ordering.Apply(g, orders)
package ordering
