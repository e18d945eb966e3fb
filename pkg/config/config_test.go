package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/matzehuels/sankey/pkg/errors"
	"github.com/matzehuels/sankey/pkg/ingest"
	"github.com/matzehuels/sankey/pkg/pipeline"
)

const tomlConfig = `
[layout]
width = 1200
height = 800
ordering = "exact"
exact_depth = 7
node_width = 15
font_family = "Inter"

[render]
formats = ["svg", "json"]
style = "gradient"
hide_values = true

[ingest]
unit = true

[cache]
redis_addr = "localhost:6379"
prefix = "test:"

[server]
addr = ":9090"
mongo_uri = "mongodb://localhost:27017"
request_timeout = "30s"
`

const yamlConfig = `
layout:
  width: 1200
  height: 800
  ordering: exact
  exact_depth: 7
  node_width: 15
  font_family: Inter
render:
  formats: [svg, json]
  style: gradient
  hide_values: true
ingest:
  unit: true
cache:
  redis_addr: localhost:6379
  prefix: "test:"
server:
  addr: ":9090"
  mongo_uri: mongodb://localhost:27017
  request_timeout: 30s
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_Formats(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"toml", "sankey.toml", tomlConfig},
		{"yaml", "sankey.yaml", yamlConfig},
		{"yml", "sankey.YML", yamlConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(writeFile(t, tt.file, tt.content))
			if err != nil {
				t.Fatalf("Load() error: %v", err)
			}
			if cfg.Layout.Width != 1200 || cfg.Layout.Height != 800 || cfg.Layout.NodeWidth != 15 {
				t.Errorf("layout geometry = %+v", cfg.Layout.Config)
			}
			if cfg.Layout.Ordering != "exact" || cfg.Layout.ExactDepth != 7 || cfg.Layout.FontFamily != "Inter" {
				t.Errorf("layout = %+v", cfg.Layout)
			}
			if len(cfg.Render.Formats) != 2 || cfg.Render.Style != "gradient" || !cfg.Render.HideValues {
				t.Errorf("render = %+v", cfg.Render)
			}
			if !cfg.Ingest.Unit {
				t.Error("ingest.unit not read")
			}
			if cfg.Cache.RedisAddr != "localhost:6379" || cfg.Cache.Prefix != "test:" {
				t.Errorf("cache = %+v", cfg.Cache)
			}
			if cfg.Server.Addr != ":9090" || cfg.Server.RequestTimeout != 30*time.Second {
				t.Errorf("server = %+v", cfg.Server)
			}
		})
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		ext  string
		data string
	}{
		{"unknown extension", ".ini", "width=1"},
		{"bad toml", ".toml", "[layout\nwidth = 1"},
		{"bad yaml", ".yaml", "layout: [unclosed"},
		{"unknown toml key", ".toml", "[layout]\nwidht = 1"},
		{"unknown yaml key", ".yaml", "layout:\n  widht: 1"},
		{"bad ordering", ".toml", "[layout]\nordering = \"optimal\""},
		{"bad style", ".yaml", "render:\n  style: handdrawn"},
		{"bad format", ".yaml", "render:\n  formats: [gif]"},
		{"negative width", ".toml", "[layout]\nwidth = -1"},
		{"negative depth", ".toml", "[layout]\nexact_depth = -1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse(tt.ext, []byte(tt.data)); err == nil {
				t.Error("Parse() should fail")
			}
		})
	}
}

func TestParse_Empty(t *testing.T) {
	for _, ext := range []string{".toml", ".yaml"} {
		cfg, err := Parse(ext, nil)
		if err != nil {
			t.Fatalf("Parse(%s, empty) error: %v", ext, err)
		}
		if cfg.Layout.Width != 0 {
			t.Errorf("empty %s config width = %v", ext, cfg.Layout.Width)
		}
	}
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("Load() = %v, want FILE_NOT_FOUND", err)
	}
}

func TestApply_FlagsWin(t *testing.T) {
	cfg, err := Parse(".toml", []byte(tomlConfig))
	if err != nil {
		t.Fatal(err)
	}

	opts := pipeline.Options{Width: 640, Formats: []string{"pdf"}}
	cfg.Apply(&opts)

	if opts.Width != 640 {
		t.Errorf("Width = %v, flag value should win", opts.Width)
	}
	if opts.Height != 800 {
		t.Errorf("Height = %v, want 800 from file", opts.Height)
	}
	if len(opts.Formats) != 1 || opts.Formats[0] != "pdf" {
		t.Errorf("Formats = %v, flag value should win", opts.Formats)
	}
	if opts.Ordering != "exact" || opts.ExactDepth != 7 || opts.Style != "gradient" {
		t.Errorf("opts = %+v", opts)
	}
	if !opts.HideValues {
		t.Error("HideValues should be enabled by the file")
	}
	if err := opts.Validate(); err != nil {
		t.Errorf("applied options invalid: %v", err)
	}

	var in ingest.Options
	cfg.ApplyIngest(&in)
	if !in.Unit || in.KeepIsolated {
		t.Errorf("ingest options = %+v", in)
	}
}
