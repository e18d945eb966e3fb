// Package config loads sankey settings from a TOML or YAML file.
//
// The format is chosen by extension: ".toml" is decoded with
// [github.com/BurntSushi/toml], ".yaml" and ".yml" with [gopkg.in/yaml.v3].
// Both formats share the same keys:
//
//	[layout]
//	width = 1200
//	height = 800
//	ordering = "exact"
//	exact_depth = 7
//
//	[render]
//	formats = ["svg", "png"]
//	style = "gradient"
//
//	[cache]
//	redis_addr = "localhost:6379"
//
//	[server]
//	addr = ":8080"
//	mongo_uri = "mongodb://localhost:27017"
//
// A loaded [Config] is applied to pipeline options with [Config.Apply];
// only options still at their zero value are filled, so command-line flags
// take precedence over the file.
package config

import (
	"bytes"
	stderrors "errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/sankey/pkg/errors"
	"github.com/matzehuels/sankey/pkg/ingest"
	"github.com/matzehuels/sankey/pkg/pipeline"
	"github.com/matzehuels/sankey/pkg/render/sankey/layout"
)

// Config is the root of a settings file.
type Config struct {
	Layout Layout `toml:"layout" yaml:"layout"`
	Render Render `toml:"render" yaml:"render"`
	Ingest Ingest `toml:"ingest" yaml:"ingest"`
	Cache  Cache  `toml:"cache" yaml:"cache"`
	Server Server `toml:"server" yaml:"server"`
}

// Layout holds the layout options. The geometry keys are those of
// [layout.Config].
type Layout struct {
	layout.Config `yaml:",inline"`

	VizType    string `toml:"viz_type" yaml:"viz_type"`
	Ordering   string `toml:"ordering" yaml:"ordering"`
	ExactDepth int    `toml:"exact_depth" yaml:"exact_depth"`
	Objective  string `toml:"objective" yaml:"objective"`
}

// Render holds the output options.
type Render struct {
	Formats     []string `toml:"formats" yaml:"formats"`
	Style       string   `toml:"style" yaml:"style"`
	HideValues  bool     `toml:"hide_values" yaml:"hide_values"`
	Interactive bool     `toml:"interactive" yaml:"interactive"`
	Detailed    bool     `toml:"detailed" yaml:"detailed"`
}

// Ingest holds the dose CSV conversion options.
type Ingest struct {
	Unit         bool `toml:"unit" yaml:"unit"`
	KeepIsolated bool `toml:"keep_isolated" yaml:"keep_isolated"`
}

// Cache selects and configures the cache backend. RedisAddr takes
// precedence over Dir.
type Cache struct {
	Disabled      bool   `toml:"disabled" yaml:"disabled"`
	Dir           string `toml:"dir" yaml:"dir"`
	RedisAddr     string `toml:"redis_addr" yaml:"redis_addr"`
	RedisPassword string `toml:"redis_password" yaml:"redis_password"`
	RedisDB       int    `toml:"redis_db" yaml:"redis_db"`
	Prefix        string `toml:"prefix" yaml:"prefix"`
}

// Server configures `sankey serve`.
type Server struct {
	Addr            string        `toml:"addr" yaml:"addr"`
	MongoURI        string        `toml:"mongo_uri" yaml:"mongo_uri"`
	MongoDatabase   string        `toml:"mongo_database" yaml:"mongo_database"`
	MaxBodyBytes    int64         `toml:"max_body_bytes" yaml:"max_body_bytes"`
	RequestTimeout  time.Duration `toml:"request_timeout" yaml:"request_timeout"`
	ShutdownTimeout time.Duration `toml:"shutdown_timeout" yaml:"shutdown_timeout"`
}

// Load reads the file at path, choosing the decoder by extension.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "config file %s not found", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config %s", path)
	}
	return Parse(filepath.Ext(path), data)
}

// Parse decodes data in the format named by ext (".toml", ".yaml" or
// ".yml"). Unknown keys are rejected so typos do not pass silently.
func Parse(ext string, data []byte) (*Config, error) {
	var cfg Config
	switch strings.ToLower(ext) {
	case ".toml":
		md, err := toml.NewDecoder(bytes.NewReader(data)).Decode(&cfg)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode toml")
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown config key %q", undecoded[0].String())
		}
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil && !stderrors.Is(err, io.EOF) {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode yaml")
		}
	default:
		return nil, errors.New(errors.ErrCodeInvalidConfig, "unsupported config format %q (use .toml, .yaml or .yml)", ext)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the choices a file can get wrong before any work starts.
func (c *Config) Validate() error {
	l := c.Layout
	if l.VizType != "" {
		if err := pipeline.ValidateVizType(l.VizType); err != nil {
			return err
		}
	}
	if l.Ordering != "" {
		if err := pipeline.ValidateOrdering(l.Ordering); err != nil {
			return err
		}
	}
	if err := pipeline.ValidateFormats(c.Render.Formats); err != nil {
		return err
	}
	if c.Render.Style != "" {
		if err := pipeline.ValidateStyle(c.Render.Style); err != nil {
			return err
		}
	}
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"width", l.Width},
		{"height", l.Height},
		{"node_width", l.NodeWidth},
		{"node_separation", l.NodeSeparation},
		{"border", l.Border},
		{"font_size", l.FontSize},
	} {
		if f.v < 0 {
			return errors.New(errors.ErrCodeInvalidConfig, "layout.%s must not be negative", f.name)
		}
	}
	if l.ExactDepth < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "layout.exact_depth must not be negative")
	}
	return nil
}

// Apply fills every zero-valued option in opts from the file. Boolean
// switches are only ever turned on.
func (c *Config) Apply(opts *pipeline.Options) {
	l := c.Layout
	setString(&opts.VizType, l.VizType)
	setString(&opts.Ordering, l.Ordering)
	setString(&opts.Objective, l.Objective)
	setString(&opts.FontFamily, l.FontFamily)
	setString(&opts.FontColor, l.FontColor)
	setFloat(&opts.Width, l.Width)
	setFloat(&opts.Height, l.Height)
	setFloat(&opts.NodeWidth, l.NodeWidth)
	setFloat(&opts.NodeSeparation, l.NodeSeparation)
	setFloat(&opts.Border, l.Border)
	setFloat(&opts.FontSize, l.FontSize)
	if opts.ExactDepth == 0 {
		opts.ExactDepth = l.ExactDepth
	}

	r := c.Render
	if len(opts.Formats) == 0 {
		opts.Formats = append([]string(nil), r.Formats...)
	}
	setString(&opts.Style, r.Style)
	opts.HideValues = opts.HideValues || r.HideValues
	opts.Interactive = opts.Interactive || r.Interactive
	opts.Detailed = opts.Detailed || r.Detailed
}

// ApplyIngest fills ingestion options the same way as [Config.Apply].
func (c *Config) ApplyIngest(opts *ingest.Options) {
	opts.Unit = opts.Unit || c.Ingest.Unit
	opts.KeepIsolated = opts.KeepIsolated || c.Ingest.KeepIsolated
}

func setString(dst *string, v string) {
	if *dst == "" {
		*dst = v
	}
}

func setFloat(dst *float64, v float64) {
	if *dst == 0 {
		*dst = v
	}
}
