package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/sankey/pkg/buildinfo"
	"github.com/matzehuels/sankey/pkg/errors"
	"github.com/matzehuels/sankey/pkg/graph"
)

const doseCSV = `NSID,AEDOSE,DV,DATE,TIME
1,1,0,2021-01-01,08:00
1,2,1,2021-01-08,
1,3,1,2021-01-15,09:30
2,2,2,2021-01-08,10:00
2,1,0,2021-01-01,10:00
3,1,0,2021-01-01,11:00
3,3,2,2021-01-15,11:00
`

// execute runs the root command with args and returns what the command
// wrote through cobra's output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("XDG_CACHE_HOME", filepath.Join(t.TempDir(), "cache"))

	var out bytes.Buffer
	root := New(io.Discard, LogInfo).RootCommand()
	root.SetArgs(args)
	root.SetOut(&out)
	root.SetErr(io.Discard)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRootCommand(t *testing.T) {
	root := New(io.Discard, LogInfo).RootCommand()
	if root.Version != buildinfo.Version {
		t.Errorf("Version = %q, want %q", root.Version, buildinfo.Version)
	}
	for _, name := range []string{"ingest", "layout", "render", "inspect", "serve", "cache", "completion"} {
		if cmd, _, err := root.Find([]string{name}); err != nil || cmd.Name() != name {
			t.Errorf("subcommand %q not registered", name)
		}
	}
	if root.PersistentFlags().Lookup("config") == nil {
		t.Error("missing persistent --config flag")
	}
}

func TestIngestLayoutRender(t *testing.T) {
	dir := t.TempDir()
	csv := writeFile(t, dir, "doses.csv", doseCSV)

	if _, err := execute(t, "ingest", csv); err != nil {
		t.Fatalf("ingest: %v", err)
	}
	graphPath := filepath.Join(dir, "doses.graph.json")
	g, err := graph.ReadGraphFile(graphPath)
	if err != nil {
		t.Fatalf("read graph: %v", err)
	}
	if len(g.Nodes) != 4 || len(g.Edges) != 3 {
		t.Fatalf("graph = %d nodes, %d edges, want 4 and 3", len(g.Nodes), len(g.Edges))
	}

	if _, err := execute(t, "layout", graphPath, "--no-cache", "--ordering", "median"); err != nil {
		t.Fatalf("layout: %v", err)
	}
	layoutPath := filepath.Join(dir, "doses.layout.json")
	l, err := graph.ReadLayoutFile(layoutPath)
	if err != nil {
		t.Fatalf("read layout: %v", err)
	}
	if len(l.Layers) != 3 || len(l.Blocks) != 4 || len(l.Ribbons) != 3 {
		t.Errorf("layout = %d layers, %d blocks, %d ribbons", len(l.Layers), len(l.Blocks), len(l.Ribbons))
	}

	if _, err := execute(t, "render", layoutPath, "--no-cache"); err != nil {
		t.Fatalf("render: %v", err)
	}
	svg, err := os.ReadFile(filepath.Join(dir, "doses.svg"))
	if err != nil {
		t.Fatalf("read svg: %v", err)
	}
	if !bytes.Contains(svg, []byte("<svg")) || !bytes.Contains(svg, []byte("D3 G1")) {
		t.Error("rendered SVG missing root element or node label")
	}
}

func TestRender_CSVToJSON(t *testing.T) {
	dir := t.TempDir()
	csv := writeFile(t, dir, "doses.csv", doseCSV)
	out := filepath.Join(dir, "out", "diagram.json")

	if _, err := execute(t, "render", csv, "-f", "json", "-o", out, "--no-cache", "--width", "400"); err != nil {
		t.Fatalf("render: %v", err)
	}
	l, err := graph.ReadLayoutFile(out)
	if err != nil {
		t.Fatalf("read layout: %v", err)
	}
	if !l.IsSankey() || l.Width != 400 {
		t.Errorf("layout viz_type=%q width=%v", l.VizType, l.Width)
	}
}

func TestConfigFile(t *testing.T) {
	dir := t.TempDir()
	csv := writeFile(t, dir, "doses.csv", doseCSV)
	cfg := writeFile(t, dir, "sankey.toml", `
[layout]
width = 320
height = 240
ordering = "exact"

[render]
formats = ["json"]

[cache]
disabled = true
`)

	if _, err := execute(t, "--config", cfg, "render", csv, "--height", "300"); err != nil {
		t.Fatalf("render: %v", err)
	}
	l, err := graph.ReadLayoutFile(filepath.Join(dir, "doses.layout.json"))
	if err != nil {
		t.Fatalf("read layout: %v", err)
	}
	if l.Width != 320 || l.Height != 300 {
		t.Errorf("surface = %vx%v, want 320x300 (flag wins over file)", l.Width, l.Height)
	}
}

func TestCommandErrors(t *testing.T) {
	dir := t.TempDir()
	cyclic := writeFile(t, dir, "cycle.json", `{
  "nodes": [{"id": "a"}, {"id": "b"}],
  "edges": [{"from": "a", "to": "b", "value": 1}, {"from": "b", "to": "a", "value": 1}]
}`)
	badCfg := writeFile(t, dir, "bad.ini", "width=1")

	tests := []struct {
		name string
		args []string
		code errors.Code
	}{
		{"missing input", []string{"layout", filepath.Join(dir, "nope.json"), "--no-cache"}, errors.ErrCodeFileNotFound},
		{"cycle", []string{"layout", cyclic, "--no-cache"}, errors.ErrCodeGraphNotAcyclic},
		{"bad format", []string{"render", cyclic, "-f", "gif", "--no-cache"}, errors.ErrCodeInvalidFormat},
		{"bad ordering", []string{"render", cyclic, "--ordering", "random", "--no-cache"}, errors.ErrCodeInvalidOrdering},
		{"bad config", []string{"--config", badCfg, "layout", cyclic}, errors.ErrCodeInvalidConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			if err == nil {
				t.Fatal("expected error")
			}
			if got := errors.GetCode(err); got != tt.code {
				t.Errorf("code = %q, want %q (err: %v)", got, tt.code, err)
			}
		})
	}
}

func TestInspect_NoTUI(t *testing.T) {
	dir := t.TempDir()
	csv := writeFile(t, dir, "doses.csv", doseCSV)

	out, err := execute(t, "inspect", csv, "--no-tui", "--no-cache")
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}
	for _, want := range []string{"Layer 0", "Layer 2", "D1-G0", "D3-G1"} {
		if !strings.Contains(out, want) {
			t.Errorf("inspect output missing %q:\n%s", want, out)
		}
	}
}

func TestCacheCommands(t *testing.T) {
	dir := t.TempDir()
	csv := writeFile(t, dir, "doses.csv", doseCSV)
	cacheDir := filepath.Join(dir, "cache")
	cfg := writeFile(t, dir, "sankey.yaml", "cache:\n  dir: "+cacheDir+"\n")

	out, err := execute(t, "--config", cfg, "cache", "path")
	if err != nil || strings.TrimSpace(out) != cacheDir {
		t.Fatalf("cache path = %q, %v", out, err)
	}

	if _, err := execute(t, "--config", cfg, "render", csv); err != nil {
		t.Fatalf("render: %v", err)
	}
	entries, err := os.ReadDir(cacheDir)
	if err != nil || len(entries) == 0 {
		t.Fatalf("cache dir not populated: %v", err)
	}

	if _, err := execute(t, "--config", cfg, "cache", "clear"); err != nil {
		t.Fatalf("cache clear: %v", err)
	}
	entries, _ = os.ReadDir(cacheDir)
	if len(entries) != 0 {
		t.Errorf("cache dir has %d entries after clear", len(entries))
	}
}

func TestCompletion(t *testing.T) {
	out, err := execute(t, "completion", "bash")
	if err != nil {
		t.Fatalf("completion: %v", err)
	}
	if !strings.Contains(out, "sankey") {
		t.Error("bash completion does not mention the command")
	}
	if _, err := execute(t, "completion", "tcsh"); err == nil {
		t.Error("unknown shell should fail")
	}
}
