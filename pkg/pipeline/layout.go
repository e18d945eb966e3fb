package pipeline

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/matzehuels/sankey/pkg/dag"
	"github.com/matzehuels/sankey/pkg/dag/transform"
	"github.com/matzehuels/sankey/pkg/errors"
	"github.com/matzehuels/sankey/pkg/graph"
	"github.com/matzehuels/sankey/pkg/observability"
	"github.com/matzehuels/sankey/pkg/render/nodelink"
	"github.com/matzehuels/sankey/pkg/render/sankey/crossing"
	"github.com/matzehuels/sankey/pkg/render/sankey/layout"
	"github.com/matzehuels/sankey/pkg/render/sankey/ordering"
)

// maxScoredEdges bounds the pairwise geometric crossing check run after
// ordering. Larger graphs report the combinatorial count only.
const maxScoredEdges = 2000

// LayoutReport summarizes a layout computation.
type LayoutReport struct {
	Diagnostics graph.Diagnostics
	Layers      int

	// Crossings is the geometric crossing count of the final order, summed
	// over the incoming edges of each layer, or the adjacent-layer count when
	// the graph has more than maxScoredEdges edges.
	Crossings int
	// Unresolved counts edge pairs the geometric check could not decide.
	Unresolved int
	// Exact holds one entry per layer when the exact ordering ran.
	Exact []ordering.LayerReport
}

// GenerateLayout runs layer assignment, ordering and geometry on g and
// returns the serialized layout. Options are validated first.
func GenerateLayout(ctx context.Context, g graph.Graph, opts Options) (gl graph.Layout, rep LayoutReport, err error) {
	if err := opts.ValidateForLayout(); err != nil {
		return graph.Layout{}, rep, err
	}
	logger := opts.Logger

	start := time.Now()
	observability.Pipeline().OnLayoutStart(ctx, opts.VizType, len(g.Nodes))
	defer func() {
		observability.Pipeline().OnLayoutComplete(ctx, opts.VizType, time.Since(start), err)
	}()

	d, diag, err := graph.ToDAG(g)
	if err != nil {
		return graph.Layout{}, rep, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid graph")
	}
	rep.Diagnostics = diag
	for _, e := range diag.Skipped {
		logger.Warn("skipping edge with unknown endpoint", "from", e.From, "to", e.To)
	}

	if err := transform.AssignLayers(d); err != nil {
		if stderrors.Is(err, dag.ErrGraphNotAcyclic) {
			return graph.Layout{}, rep, errors.Wrap(errors.ErrCodeGraphNotAcyclic, err, "cannot layer graph")
		}
		return graph.Layout{}, rep, errors.Wrap(errors.ErrCodeInternal, err, "assign layers")
	}
	rep.Layers = d.LayerCount()
	logger.Debug("assigned layers", "layers", rep.Layers, "nodes", d.NodeCount())

	orderer, err := buildOrderer(opts, &rep)
	if err != nil {
		return graph.Layout{}, rep, err
	}
	orders, err := orderer.OrderLayers(ctx, d)
	if err != nil {
		if ctx.Err() != nil {
			return graph.Layout{}, rep, err
		}
		return graph.Layout{}, rep, errors.Wrap(errors.ErrCodeInternal, err, "order layers")
	}
	if err := ordering.Apply(d, orders); err != nil {
		return graph.Layout{}, rep, errors.Wrap(errors.ErrCodeInternal, err, "apply ordering")
	}

	rep.Crossings, rep.Unresolved = countCrossings(d, orders, opts.Objective)
	observability.Pipeline().OnOrdering(ctx, opts.Ordering, rep.Crossings, rep.Unresolved)
	logger.Debug("ordered layers", "method", opts.Ordering, "crossings", rep.Crossings, "unresolved", rep.Unresolved)

	if opts.IsNodelink() {
		dot := nodelink.ToDOT(d, nodelink.Options{Detailed: opts.Detailed})
		return nodelink.Export(dot, d, opts.Width, opts.Height, opts.Style), rep, nil
	}

	l, err := layout.Build(d, opts.LayoutConfig())
	if err != nil {
		if stderrors.Is(err, layout.ErrDegenerateGeometry) {
			return graph.Layout{}, rep, errors.Wrap(errors.ErrCodeDegenerateGeometry, err, "cannot lay out graph")
		}
		return graph.Layout{}, rep, errors.Wrap(errors.ErrCodeInternal, err, "build layout")
	}
	return l.Export(graph.Key(d), opts.Style), rep, nil
}

// buildOrderer resolves the configured strategy. An Orderer set on opts
// takes precedence over the name.
func buildOrderer(opts Options, rep *LayoutReport) (ordering.Orderer, error) {
	if opts.Orderer != nil {
		return opts.Orderer, nil
	}
	if opts.Ordering != ordering.StrategyExact {
		o, err := ordering.New(opts.Ordering)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidOrdering, err, "invalid ordering")
		}
		return o, nil
	}

	obj, err := crossing.ParseObjective(opts.Objective)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidOrdering, err, "invalid objective")
	}
	logger := opts.Logger
	return ordering.Exact{
		MaxLayerSize: opts.ExactDepth,
		Objective:    obj,
		Report: func(lr ordering.LayerReport) {
			rep.Exact = append(rep.Exact, lr)
			if !lr.Exhaustive {
				logger.Debug("layer too large for exact ordering", "layer", lr.Layer, "size", lr.Size)
				return
			}
			if lr.Candidates > 0 {
				logger.Debug("exact ordering", "layer", lr.Layer, "candidates", lr.Candidates,
					"heuristic", lr.HeuristicCost, "cost", lr.Cost)
			}
		},
	}, nil
}

// countCrossings scores each layer's incoming edges against each other, the
// same edge sets the exact ordering compares.
func countCrossings(d *graph.DAG, orders [][]dag.NodeID, objective string) (crossings, unresolved int) {
	if d.EdgeCount() > maxScoredEdges {
		return dag.CountCrossings(d, orders), 0
	}
	obj, err := crossing.ParseObjective(objective)
	if err != nil {
		obj = crossing.ObjectiveCount
	}
	all := make([]dag.EdgeID, d.EdgeCount())
	for i := range all {
		all[i] = dag.EdgeID(i)
	}
	slots := crossing.BuildSlots(d, orders, all)

	for i := 1; i < len(orders); i++ {
		var edges []dag.EdgeID
		for _, id := range orders[i] {
			edges = append(edges, d.Incoming(id)...)
		}
		res := crossing.Score(edges, slots, obj)
		crossings += res.Crossings
		unresolved += len(res.Unresolved)
	}
	return crossings, unresolved
}
