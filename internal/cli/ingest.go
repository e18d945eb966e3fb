package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/sankey/pkg/config"
	"github.com/matzehuels/sankey/pkg/graph"
	"github.com/matzehuels/sankey/pkg/ingest"
	"github.com/matzehuels/sankey/pkg/pipeline"
)

// inputFlags select how an input file becomes a flow graph.
type inputFlags struct {
	kind         string
	unit         bool
	keepIsolated bool
}

func (f *inputFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.kind, "input", "", "input kind: graph, csv, alt (default: detect)")
	cmd.Flags().BoolVar(&f.unit, "unit", false, "keep one unit edge per transition instead of aggregating (csv, alt)")
	cmd.Flags().BoolVar(&f.keepIsolated, "keep-isolated", false, "keep dose/grade nodes without transitions (csv, alt)")
}

// loadInput reads path as a flow graph, converting dose CSVs and the
// alternate format on the way, and prints what the conversion skipped.
func (c *CLI) loadInput(path string, in inputFlags, cfg *config.Config) (graph.Graph, pipeline.LoadReport, error) {
	opts := ingest.Options{Unit: in.unit, KeepIsolated: in.keepIsolated}
	cfg.ApplyIngest(&opts)

	g, rep, err := pipeline.LoadFile(path, in.kind, opts)
	if err != nil {
		return graph.Graph{}, rep, err
	}
	c.Logger.Debug("Loaded input", "path", path, "kind", rep.Kind, "nodes", len(g.Nodes), "edges", len(g.Edges))
	for _, w := range rep.Warnings {
		c.Logger.Debug("Skipped input", "err", w)
	}
	return g, rep, nil
}

// ingestCommand converts dose CSVs and alternate-format JSON into flow
// graph JSON.
func (c *CLI) ingestCommand() *cobra.Command {
	var (
		output string
		in     inputFlags
	)

	cmd := &cobra.Command{
		Use:   "ingest [file]",
		Short: "Convert dose records or alternate-format JSON to a flow graph",
		Long: `Convert input data to flow graph JSON.

A dose CSV (columns NSID, AEDOSE, DV and optionally DATE, TIME) becomes one
node per (dose, grade) pair and one edge per pair of consecutive doses of a
subject, aggregated per node pair unless --unit is given. Alternate-format
JSON (nodes with a datum, edges with source and target) is converted the
same way. Flow graph JSON passes through unchanged.

The output (default: <input>.graph.json) feeds 'layout' and 'render'.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			return c.runIngest(args[0], output, in, cfg)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.graph.json)")
	in.register(cmd)

	return cmd
}

func (c *CLI) runIngest(input, output string, in inputFlags, cfg *config.Config) error {
	prog := newProgress(c.Logger)

	g, rep, err := c.loadInput(input, in, cfg)
	if err != nil {
		return err
	}

	if output == "" {
		output = trimBase(input) + ".graph.json"
	}
	if err := graph.WriteGraphFile(g, output); err != nil {
		return fmt.Errorf("write output %s: %w", output, err)
	}
	prog.done("Ingest complete", "kind", rep.Kind)

	printSuccess("Flow graph written")
	printFile(output)
	printStats(len(g.Nodes), len(g.Edges), 0, -1, false)
	printLoadReport(rep)
	printNewline()
	printNextStep("Layout", appName+" layout "+output)
	return nil
}
