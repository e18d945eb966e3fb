package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/sankey/pkg/config"
	"github.com/matzehuels/sankey/pkg/errors"
	"github.com/matzehuels/sankey/pkg/graph"
	"github.com/matzehuels/sankey/pkg/pipeline"
)

// renderCommand creates the render command for generating diagrams.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		output  string
		formats string
		in      inputFlags
		cf      cacheFlags
		opts    pipeline.Options
	)

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Render a flow graph or layout to SVG, PNG, PDF or JSON",
		Long: `Render a flow diagram.

The input is a layout.json written by 'layout', or anything 'layout'
accepts, in which case the layout is computed first. Several formats may be
requested at once; each is written next to the input (or next to --output)
with its own extension.

PNG and PDF output require rsvg-convert (librsvg) on the PATH.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Formats = parseFormats(formats)
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			cfg.Apply(&opts)
			if len(opts.Formats) == 0 {
				opts.Formats = []string{pipeline.FormatSVG}
			}
			if err := pipeline.ValidateFormats(opts.Formats); err != nil {
				return err
			}
			if opts.Style != "" {
				if err := pipeline.ValidateStyle(opts.Style); err != nil {
					return err
				}
			}
			return c.runRender(cmd.Context(), args[0], output, in, cf, opts, cfg)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	in.register(cmd)
	cf.register(cmd)
	addLayoutFlags(cmd, &opts)
	addRenderFlags(cmd, &opts, &formats)

	return cmd
}

// runRender renders a layout file directly, or runs the whole pipeline for
// graph inputs, and writes one file per format.
func (c *CLI) runRender(ctx context.Context, input, output string, in inputFlags, cf cacheFlags, opts pipeline.Options, cfg *config.Config) error {
	data, err := os.ReadFile(input)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.Wrap(errors.ErrCodeFileNotFound, err, "input %s not found", input)
		}
		return fmt.Errorf("read %s: %w", input, err)
	}

	runner, err := c.newRunner(ctx, cf.apply(cfg.Cache), nil)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Logger = loggerFromContext(ctx)
	prog := newProgress(opts.Logger)

	var (
		artifacts map[string][]byte
		stats     func()
	)
	if in.kind == "" && isLayout(data) {
		l, err := graph.UnmarshalLayout(data)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "read layout %s", input)
		}
		if opts.Style == "" {
			opts.Style = l.Style
		}
		spinner := newSpinnerWithContext(ctx, "Rendering layout...")
		spinner.Start()
		var hit bool
		artifacts, hit, err = runner.RenderWithCacheInfo(ctx, l, opts)
		if err != nil {
			spinner.StopWithError("Render failed")
			return err
		}
		spinner.Stop()
		stats = func() { printStats(len(l.Blocks), len(l.Ribbons), len(l.Layers), -1, hit) }
	} else {
		g, rep, err := c.loadInput(input, in, cfg)
		if err != nil {
			return err
		}
		spinner := newSpinnerWithContext(ctx, "Computing layout and rendering...")
		spinner.Start()
		result, err := runner.Execute(ctx, g, opts)
		if err != nil {
			spinner.StopWithError("Render failed")
			return err
		}
		spinner.Stop()
		artifacts = result.Artifacts
		stats = func() {
			crossings := result.Stats.Crossings
			if result.CacheInfo.LayoutHit {
				crossings = -1
			}
			printStats(result.Stats.NodeCount, result.Stats.EdgeCount, result.Stats.Layers, crossings,
				result.CacheInfo.LayoutHit && result.CacheInfo.RenderHit)
			printLoadReport(rep)
			if n := result.Diagnostics.UnresolvedEdges; n > 0 {
				printWarning("Skipped %s with unknown endpoints", plural(n, "edge"))
			}
		}
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	prog.done("Render complete", "formats", opts.Formats)

	paths, err := writeArtifacts(artifacts, opts.Formats, input, output)
	if err != nil {
		return err
	}

	printSuccess("Render complete")
	for _, p := range paths {
		printFile(p)
	}
	stats()
	return nil
}

// isLayout reports whether data is a serialized layout rather than a graph.
func isLayout(data []byte) bool {
	var probe struct {
		VizType string `json:"viz_type"`
	}
	if json.Unmarshal(bytes.TrimSpace(data), &probe) != nil {
		return false
	}
	return probe.VizType != ""
}

// writeArtifacts writes every requested format and returns the paths in
// format order.
func writeArtifacts(artifacts map[string][]byte, formats []string, input, output string) ([]string, error) {
	var paths []string
	for _, format := range formats {
		data, ok := artifacts[format]
		if !ok {
			continue
		}
		path := outputPath(format, len(formats), input, output)
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return paths, fmt.Errorf("create %s: %w", dir, err)
			}
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return paths, fmt.Errorf("write output %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// outputPath names the file for one format. A single format goes to
// output verbatim when given; otherwise output (or the input) is a base
// path that gets the format's extension. JSON output is a layout document
// and is named like the output of 'layout'.
func outputPath(format string, count int, input, output string) string {
	if output != "" && count == 1 {
		return output
	}
	if format == pipeline.FormatJSON {
		return basePath(output, input) + ".layout.json"
	}
	return basePath(output, input) + "." + format
}

// basePath derives the base output path. Without an output it is the
// input's stem; a known format extension on output is stripped.
func basePath(output, input string) string {
	if output == "" {
		return trimBase(input)
	}
	ext := strings.TrimPrefix(filepath.Ext(output), ".")
	if slices.Contains(pipeline.Formats, ext) {
		return strings.TrimSuffix(output, "."+ext)
	}
	return output
}
