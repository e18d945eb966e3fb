package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/sankey/internal/server"
	"github.com/matzehuels/sankey/pkg/cache"
	"github.com/matzehuels/sankey/pkg/config"
	"github.com/matzehuels/sankey/pkg/observability"
	"github.com/matzehuels/sankey/pkg/pipeline"
	"github.com/matzehuels/sankey/pkg/storage"
)

// apiKeyPrefix scopes the server's cache entries so a Redis instance can
// be shared with CLI users.
const apiKeyPrefix = "api:"

type serveFlags struct {
	addr      string
	mongoURI  string
	mongoDB   string
	maxBody   int64
	timeout   time.Duration
	cache     cacheFlags
	logEvents bool
}

// serveCommand runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var f serveFlags

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the layout and render pipeline over HTTP",
		Long: `Serve the pipeline over HTTP.

Graphs POSTed to /api/v1/render come back as SVG, PNG, PDF or layout JSON;
/api/v1/diagrams stores rendered diagrams in MongoDB (--mongo-uri) or, without
one, in memory. Layouts and artifacts are cached in Redis (--redis-addr) or
in the cache directory.

Layout and render defaults come from --config; query parameters override
them per request.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			return c.runServe(cmd.Context(), f, cfg)
		},
	}

	cmd.Flags().StringVar(&f.addr, "addr", "", "listen address (default :8080)")
	cmd.Flags().StringVar(&f.mongoURI, "mongo-uri", "", "MongoDB connection string for stored diagrams")
	cmd.Flags().StringVar(&f.mongoDB, "mongo-db", "", "MongoDB database (default sankey)")
	cmd.Flags().Int64Var(&f.maxBody, "max-body", 0, "largest accepted request body in bytes (default 10MiB)")
	cmd.Flags().DurationVar(&f.timeout, "request-timeout", 0, "per-request timeout (default 60s)")
	cmd.Flags().BoolVar(&f.logEvents, "log-events", false, "log pipeline, cache and request events")
	f.cache.register(cmd)

	return cmd
}

// overlay applies flags onto the file settings; flags win.
func (f serveFlags) overlay(s config.Server) config.Server {
	if f.addr != "" {
		s.Addr = f.addr
	}
	if f.mongoURI != "" {
		s.MongoURI = f.mongoURI
	}
	if f.mongoDB != "" {
		s.MongoDatabase = f.mongoDB
	}
	if f.maxBody != 0 {
		s.MaxBodyBytes = f.maxBody
	}
	if f.timeout != 0 {
		s.RequestTimeout = f.timeout
	}
	return s
}

func (c *CLI) runServe(ctx context.Context, f serveFlags, cfg *config.Config) error {
	sc := f.overlay(cfg.Server)

	runner, err := c.newRunner(ctx, f.cache.apply(cfg.Cache), cache.NewScopedKeyer(nil, apiKeyPrefix))
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer func() {
		if err := runner.Close(); err != nil {
			c.Logger.Warn("Shutdown", "err", err)
		}
	}()

	store, err := c.openStore(ctx, sc)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(context.Background()); err != nil {
			c.Logger.Warn("Close store", "err", err)
		}
	}()

	if f.logEvents {
		hooks := observability.NewLogHooks(c.Logger.WithPrefix("events"))
		observability.SetPipelineHooks(hooks)
		observability.SetCacheHooks(hooks)
		observability.SetHTTPHooks(hooks)
		defer observability.Reset()
	}

	var defaults pipeline.Options
	cfg.Apply(&defaults)

	srv := server.New(runner, store, c.Logger, server.Config{
		Addr:            sc.Addr,
		MaxBodyBytes:    sc.MaxBodyBytes,
		RequestTimeout:  sc.RequestTimeout,
		ShutdownTimeout: sc.ShutdownTimeout,
		Defaults:        defaults,
	})

	addr := sc.Addr
	if addr == "" {
		addr = server.DefaultAddr
	}
	printSuccess("Listening on %s", addr)
	printDetail("POST /api/v1/render · /api/v1/diagrams · GET /healthz")

	if err := srv.ListenAndServe(ctx); err != nil {
		return err
	}
	printInfo("Server stopped")
	return nil
}

// openStore connects to MongoDB when configured, otherwise keeps diagrams
// in memory for the lifetime of the process.
func (c *CLI) openStore(ctx context.Context, sc config.Server) (storage.Store, error) {
	if sc.MongoURI == "" {
		c.Logger.Info("Storing diagrams in memory")
		return storage.NewMemoryStore(), nil
	}
	store, err := storage.NewMongoStore(ctx, storage.MongoOptions{
		URI:      sc.MongoURI,
		Database: sc.MongoDatabase,
	})
	if err != nil {
		return nil, fmt.Errorf("open diagram store: %w", err)
	}
	c.Logger.Info("Storing diagrams in MongoDB", "database", sc.MongoDatabase)
	return store, nil
}
