package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/matzehuels/sankey/pkg/config"
	"github.com/matzehuels/sankey/pkg/errors"
	"github.com/matzehuels/sankey/pkg/graph"
	"github.com/matzehuels/sankey/pkg/pipeline"
	"github.com/matzehuels/sankey/pkg/render/sankey/layout"
)

// inspectCommand browses the layers of a layout.
func (c *CLI) inspectCommand() *cobra.Command {
	var (
		noTUI bool
		in    inputFlags
		cf    cacheFlags
		opts  pipeline.Options
	)

	cmd := &cobra.Command{
		Use:   "inspect [file]",
		Short: "Browse the layers of a layout",
		Long: `Browse the layers of a layout in the terminal.

The input is a layout.json or anything 'layout' accepts. Each layer is shown
as a table of its bars in final order with their flow, the flow entering
and leaving them and their vertical extent. Without a terminal, or with
--no-tui, every layer is printed once instead.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			cfg.Apply(&opts)

			l, err := c.inspectLayout(cmd.Context(), args[0], in, cf, opts, cfg)
			if err != nil {
				return err
			}
			if noTUI || !isatty.IsTerminal(os.Stdout.Fd()) {
				printLayers(cmd.OutOrStdout(), l)
				return nil
			}
			_, err = tea.NewProgram(NewLayerBrowserModel(l), tea.WithContext(cmd.Context())).Run()
			return err
		},
	}

	cmd.Flags().BoolVar(&noTUI, "no-tui", false, "print all layers instead of browsing")
	in.register(cmd)
	cf.register(cmd)
	addLayoutFlags(cmd, &opts)

	return cmd
}

// inspectLayout reads a layout file or computes the layout of a graph
// input.
func (c *CLI) inspectLayout(ctx context.Context, input string, in inputFlags, cf cacheFlags, opts pipeline.Options, cfg *config.Config) (graph.Layout, error) {
	data, err := os.ReadFile(input)
	if err != nil {
		if os.IsNotExist(err) {
			return graph.Layout{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "input %s not found", input)
		}
		return graph.Layout{}, fmt.Errorf("read %s: %w", input, err)
	}
	if in.kind == "" && isLayout(data) {
		l, err := graph.UnmarshalLayout(data)
		if err != nil {
			return graph.Layout{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "read layout %s", input)
		}
		return l, nil
	}

	g, _, err := c.loadInput(input, in, cfg)
	if err != nil {
		return graph.Layout{}, err
	}
	runner, err := c.newRunner(ctx, cf.apply(cfg.Cache), nil)
	if err != nil {
		return graph.Layout{}, fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Logger = loggerFromContext(ctx)
	l, rep, _, err := runner.LayoutWithCacheInfo(ctx, g, opts)
	if err != nil {
		return graph.Layout{}, err
	}
	printLayoutReport(rep)
	return l, nil
}

// printLayers writes every layer's table, for pipes and --no-tui.
func printLayers(w io.Writer, l graph.Layout) {
	rows := layerRows(l)
	fmt.Fprintln(w, StyleTitle.Render(fmt.Sprintf("%s layout", l.VizType))+
		listDimStyle.Render(fmt.Sprintf("  %s · %s · %.0f×%.0f",
			plural(len(rows), "layer"), plural(len(l.Ribbons), "ribbon"), l.Width, l.Height)))
	for i, layer := range rows {
		total := 0.0
		for _, r := range layer {
			total += r.Block.Flow
		}
		fmt.Fprintln(w)
		fmt.Fprintln(w, StyleNumber.Render(fmt.Sprintf("Layer %d", i))+
			listDimStyle.Render(fmt.Sprintf("  %s · flow %s", plural(len(layer), "node"), layout.FormatNumber(total))))
		if len(layer) > 0 {
			fmt.Fprintln(w, layerTable(layer, -1, 0, len(layer)))
		}
	}
}
