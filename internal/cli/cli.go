// Package cli implements the sankey command-line interface.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/sankey/pkg/buildinfo"
	"github.com/matzehuels/sankey/pkg/cache"
	"github.com/matzehuels/sankey/pkg/config"
	"github.com/matzehuels/sankey/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "sankey"

	// redisPrefix namespaces every key the CLI writes to Redis.
	redisPrefix = appName + ":"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Sankey lays out flow graphs as layered flow diagrams",
		Long: `Sankey computes layered layouts for weighted directed acyclic graphs and
renders them as flow diagrams: nodes become bars sized by their flow and
edges become ribbons whose thickness follows the edge value.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "settings file (.toml, .yaml or .yml)")

	root.AddCommand(c.ingestCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig reads the --config file. Without one it returns an empty
// configuration so callers can apply it unconditionally.
func (c *CLI) loadConfig() (*config.Config, error) {
	if c.configPath == "" {
		return &config.Config{}, nil
	}
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return nil, err
	}
	c.Logger.Debug("Loaded settings", "path", c.configPath)
	return cfg, nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// cacheFlags are the cache switches shared by commands that run the pipeline.
type cacheFlags struct {
	noCache   bool
	redisAddr string
}

func (f *cacheFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable caching")
	cmd.Flags().StringVar(&f.redisAddr, "redis-addr", "", "cache in Redis at host:port instead of the cache directory")
}

// apply overlays the flags onto the file settings.
func (f cacheFlags) apply(cc config.Cache) config.Cache {
	if f.noCache {
		cc.Disabled = true
	}
	if f.redisAddr != "" {
		cc.RedisAddr = f.redisAddr
	}
	return cc
}

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, cc config.Cache, keyer cache.Keyer) (*pipeline.Runner, error) {
	backend, err := c.newCache(ctx, cc)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(backend, keyer, c.Logger), nil
}

// newCache picks the backend: disabled, Redis, or a directory (the XDG
// cache directory unless one is configured).
func (c *CLI) newCache(ctx context.Context, cc config.Cache) (cache.Cache, error) {
	switch {
	case cc.Disabled:
		return cache.NewNullCache(), nil
	case cc.RedisAddr != "":
		prefix := cc.Prefix
		if prefix == "" {
			prefix = redisPrefix
		}
		c.Logger.Debug("Using Redis cache", "addr", cc.RedisAddr, "db", cc.RedisDB)
		return cache.NewRedisCache(ctx, cache.RedisOptions{
			Addr:     cc.RedisAddr,
			Password: cc.RedisPassword,
			DB:       cc.RedisDB,
			Prefix:   prefix,
		})
	}

	dir := cc.Dir
	if dir == "" {
		var err error
		if dir, err = cacheDir(); err != nil {
			c.Logger.Warn("No cache directory, caching disabled", "err", err)
			return cache.NewNullCache(), nil
		}
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/sankey/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// trimBase strips the extension and a ".graph" or ".layout" infix, so that
// every command derives sibling file names from the same stem.
func trimBase(path string) string {
	base := strings.TrimSuffix(path, filepath.Ext(path))
	for _, infix := range []string{".graph", ".layout"} {
		base = strings.TrimSuffix(base, infix)
	}
	return base
}

// =============================================================================
// Options Helpers
// =============================================================================

// addLayoutFlags registers the layout options. Flags default to zero so
// that settings from --config fill what the user left unset; the pipeline
// supplies the final defaults.
func addLayoutFlags(cmd *cobra.Command, opts *pipeline.Options) {
	f := cmd.Flags()
	f.StringVarP(&opts.VizType, "type", "t", "", "visualization type: sankey (default), nodelink")
	f.Float64Var(&opts.Width, "width", 0, "surface width (default 800)")
	f.Float64Var(&opts.Height, "height", 0, "surface height (default 600)")
	f.StringVar(&opts.Ordering, "ordering", "", "layer ordering: barycenter (default), median, exact")
	f.IntVar(&opts.ExactDepth, "exact-depth", 0, "largest layer the exact ordering enumerates (default 8)")
	f.StringVar(&opts.Objective, "objective", "", "crossing objective for exact ordering: count (default), signed")
	f.Float64Var(&opts.NodeWidth, "node-width", 0, "bar width (default width/100)")
	f.Float64Var(&opts.NodeSeparation, "node-separation", 0, "vertical gap between bars (default height/30)")
	f.Float64Var(&opts.Border, "border", 0, "margin around the diagram (default height/10)")
	f.StringVar(&opts.FontFamily, "font-family", "", "label font family")
	f.Float64Var(&opts.FontSize, "font-size", 0, "label font size (default height/50)")
	f.StringVar(&opts.FontColor, "font-color", "", "label color")
	f.BoolVar(&opts.Detailed, "detailed", false, "show layer and flow details in nodelink labels")
}

// addRenderFlags registers the render options. The comma separated format
// list lands in formats and is split by parseFormats.
func addRenderFlags(cmd *cobra.Command, opts *pipeline.Options, formats *string) {
	f := cmd.Flags()
	f.StringVarP(formats, "format", "f", "", "output format(s): svg (default), json, pdf, png (comma-separated)")
	f.StringVar(&opts.Style, "style", "", "visual style: simple (default), gradient")
	f.BoolVar(&opts.HideValues, "hide-values", false, "omit flow values from labels")
	f.BoolVar(&opts.Interactive, "interactive", false, "highlight connected ribbons on hover")
	f.BoolVar(&opts.Refresh, "refresh", false, "recompute even when cached")
}

// parseFormats parses a comma-separated format string into a slice. An
// empty string yields nil so settings files can supply the formats.
func parseFormats(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}
