package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/sankey/pkg/config"
	"github.com/matzehuels/sankey/pkg/graph"
	"github.com/matzehuels/sankey/pkg/pipeline"
)

// layoutCommand creates the layout command for computing flow layouts.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output string
		in     inputFlags
		cf     cacheFlags
		opts   pipeline.Options
	)

	cmd := &cobra.Command{
		Use:   "layout [file]",
		Short: "Compute the layered layout of a flow graph",
		Long: `Compute the layered layout of a flow graph.

The input is flow graph JSON, a dose CSV or alternate-format JSON. Nodes are
assigned to layers by longest path from the sources, each layer is ordered
to reduce ribbon crossings (barycenter, median or exact search) and the bars
and ribbons are positioned on the drawing surface.

The output is a layout.json file (the same document as 'render -f json')
that 'render' and 'inspect' accept in place of a graph.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			cfg.Apply(&opts)
			return c.runLayout(cmd.Context(), args[0], output, in, cf, opts, cfg)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.layout.json)")
	cmd.Flags().StringVar(&opts.Style, "style", "", "visual style recorded in the layout: simple (default), gradient")
	in.register(cmd)
	cf.register(cmd)
	addLayoutFlags(cmd, &opts)
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "recompute even when cached")

	return cmd
}

// runLayout loads the input, computes the layout, and writes it.
func (c *CLI) runLayout(ctx context.Context, input, output string, in inputFlags, cf cacheFlags, opts pipeline.Options, cfg *config.Config) error {
	g, rep, err := c.loadInput(input, in, cfg)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, cf.apply(cfg.Cache), nil)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Logger = loggerFromContext(ctx)
	prog := newProgress(opts.Logger)
	spinner := newSpinnerWithContext(ctx, "Computing layout...")
	spinner.Start()

	l, lrep, cacheHit, err := runner.LayoutWithCacheInfo(ctx, g, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return err
	}
	spinner.Stop()
	if spinner.Cancelled() {
		return ctx.Err()
	}
	prog.done("Layout complete", "layers", len(l.Layers), "cached", cacheHit)

	if output == "" {
		output = trimBase(input) + ".layout.json"
	}
	if err := graph.WriteLayoutFile(l, output); err != nil {
		return fmt.Errorf("write output %s: %w", output, err)
	}

	printSuccess("Layout complete")
	printFile(output)
	printStats(len(g.Nodes), len(g.Edges), len(l.Layers), crossingsOrUnknown(lrep, cacheHit), cacheHit)
	printLoadReport(rep)
	printLayoutReport(lrep)
	printNewline()
	printNextStep("Render", appName+" render "+output)
	return nil
}

// crossingsOrUnknown returns -1 for cached layouts, whose report does not
// carry a crossing count.
func crossingsOrUnknown(rep pipeline.LayoutReport, cached bool) int {
	if cached {
		return -1
	}
	return rep.Crossings
}
