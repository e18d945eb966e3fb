package ordering

import (
	"cmp"
	"context"
	"fmt"
	"runtime"
	"slices"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/sankey/pkg/dag"
)

// Orderer decides the vertical sequence of nodes within each layer.
// Implementations return one ordering per layer; each ordering is a
// permutation of that layer's members. Layer 0 is returned as given.
type Orderer interface {
	OrderLayers(ctx context.Context, g dag.View) ([][]dag.NodeID, error)
}

// Strategy names accepted by [New].
const (
	StrategyBarycenter = "barycenter"
	StrategyMedian     = "median"
	StrategyExact      = "exact"
)

// Strategies lists the recognized strategy names.
var Strategies = []string{StrategyBarycenter, StrategyMedian, StrategyExact}

// DefaultParallelThreshold is the layer size from which node scores are
// computed concurrently.
const DefaultParallelThreshold = 512

// New returns the orderer registered under name with default settings.
func New(name string) (Orderer, error) {
	switch name {
	case "", StrategyBarycenter:
		return Barycenter{}, nil
	case StrategyMedian:
		return Median{}, nil
	case StrategyExact:
		return Exact{}, nil
	default:
		return nil, fmt.Errorf("unknown ordering %q (valid: %v)", name, Strategies)
	}
}

// Apply writes orders back into g.
func Apply(g interface {
	SetOrder(layer int, order []dag.NodeID) error
}, orders [][]dag.NodeID) error {
	for i, order := range orders {
		if err := g.SetOrder(i, order); err != nil {
			return err
		}
	}
	return nil
}

// Barycenter orders each layer by the mean position of a node's incoming
// neighbours in the previous layer.
type Barycenter struct {
	// ParallelThreshold overrides DefaultParallelThreshold; a negative value
	// disables concurrent scoring.
	ParallelThreshold int
}

// OrderLayers implements Orderer.
func (b Barycenter) OrderLayers(ctx context.Context, g dag.View) ([][]dag.NodeID, error) {
	return sweep(ctx, g, mean, b.ParallelThreshold)
}

// Median orders each layer by the median position of a node's incoming
// neighbours in the previous layer.
type Median struct {
	ParallelThreshold int
}

// OrderLayers implements Orderer.
func (m Median) OrderLayers(ctx context.Context, g dag.View) ([][]dag.NodeID, error) {
	return sweep(ctx, g, median, m.ParallelThreshold)
}

// LayerOrderer places a single layer against the finalized order of the
// layer before it. pos holds the position of every node already placed.
type LayerOrderer interface {
	OrderLayer(ctx context.Context, g dag.View, layer int, nodes []dag.NodeID, pos []int) ([]dag.NodeID, error)
}

// OrderLayer implements LayerOrderer.
func (b Barycenter) OrderLayer(ctx context.Context, g dag.View, layer int, nodes []dag.NodeID, pos []int) ([]dag.NodeID, error) {
	return orderLayer(ctx, g, layer, nodes, pos, mean, threshold(b.ParallelThreshold))
}

// OrderLayer implements LayerOrderer.
func (m Median) OrderLayer(ctx context.Context, g dag.View, layer int, nodes []dag.NodeID, pos []int) ([]dag.NodeID, error) {
	return orderLayer(ctx, g, layer, nodes, pos, median, threshold(m.ParallelThreshold))
}

func threshold(t int) int {
	if t == 0 {
		return DefaultParallelThreshold
	}
	return t
}

// sweep makes a single left-to-right pass. Layer i is sorted against the
// finalized order of layer i-1 and never revisited.
func sweep(ctx context.Context, g dag.View, agg func([]float64) float64, parallel int) ([][]dag.NodeID, error) {
	parallel = threshold(parallel)

	orders := make([][]dag.NodeID, g.LayerCount())
	pos := make([]int, g.NodeCount())
	if len(orders) > 0 {
		orders[0] = g.Layer(0)
		place(pos, orders[0])
	}
	for i := 1; i < len(orders); i++ {
		sorted, err := orderLayer(ctx, g, i, g.Layer(i), pos, agg, parallel)
		if err != nil {
			return nil, err
		}
		orders[i] = sorted
		place(pos, sorted)
	}
	return orders, nil
}

// orderLayer sorts nodes by the aggregated positions of their neighbours in
// layer i-1. Nodes without such neighbours score 0; ties keep their current
// order.
func orderLayer(ctx context.Context, g dag.View, i int, nodes []dag.NodeID, pos []int, agg func([]float64) float64, parallel int) ([]dag.NodeID, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	scores := make([]float64, len(nodes))
	score := func(j int) {
		scores[j] = agg(neighbourPositions(g, nodes[j], i-1, pos))
	}

	if parallel > 0 && len(nodes) >= parallel {
		eg, egCtx := errgroup.WithContext(ctx)
		eg.SetLimit(runtime.GOMAXPROCS(0))
		for j := range nodes {
			eg.Go(func() error {
				if err := egCtx.Err(); err != nil {
					return err
				}
				score(j)
				return nil
			})
		}
		if err := eg.Wait(); err != nil {
			return nil, err
		}
	} else {
		for j := range nodes {
			score(j)
		}
	}

	idx := make([]int, len(nodes))
	for j := range idx {
		idx[j] = j
	}
	slices.SortStableFunc(idx, func(a, b int) int { return cmp.Compare(scores[a], scores[b]) })
	sorted := make([]dag.NodeID, len(nodes))
	for p, j := range idx {
		sorted[p] = nodes[j]
	}
	return sorted, nil
}

// place records the position of every node of order.
func place(pos []int, order []dag.NodeID) {
	for p, id := range order {
		pos[id] = p
	}
}

// neighbourPositions collects, once per incoming edge, the position of the
// edge's source when that source lies in layer prev.
func neighbourPositions(g dag.View, id dag.NodeID, prev int, pos []int) []float64 {
	var out []float64
	for _, e := range g.Incoming(id) {
		from, _ := g.EdgeEnds(e)
		if g.NodeLayer(from) == prev {
			out = append(out, float64(pos[from]))
		}
	}
	return out
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

func median(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	s := slices.Clone(xs)
	slices.Sort(s)
	mid := len(s) / 2
	if len(s)%2 == 1 {
		return s[mid]
	}
	return (s[mid-1] + s[mid]) / 2
}
