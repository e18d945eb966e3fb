package cli

import (
	"os"
	"path/filepath"
	"slices"
	"testing"
)

func TestParseFormats(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty leaves defaults to settings", "", nil},
		{"single format", "svg", []string{"svg"}},
		{"multiple formats", "svg,pdf,png", []string{"svg", "pdf", "png"}},
		{"spaces and blanks", " svg, ,json ", []string{"svg", "json"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parseFormats(tt.input); !slices.Equal(got, tt.want) {
				t.Errorf("parseFormats(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestOutputPath(t *testing.T) {
	tests := []struct {
		name   string
		format string
		count  int
		input  string
		output string
		want   string
	}{
		{"derived from input", "svg", 1, "flows.graph.json", "", "flows.svg"},
		{"explicit single output", "png", 1, "flows.json", "diagram.out", "diagram.out"},
		{"base path for several", "pdf", 2, "flows.json", "out/diagram.svg", "out/diagram.pdf"},
		{"json is a layout", "json", 2, "flows.json", "", "flows.layout.json"},
		{"json from layout input", "json", 2, "flows.layout.json", "", "flows.layout.json"},
		{"unknown extension kept", "svg", 2, "x.csv", "report.v2", "report.v2.svg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := outputPath(tt.format, tt.count, tt.input, tt.output); got != tt.want {
				t.Errorf("outputPath(%q, %d, %q, %q) = %q, want %q",
					tt.format, tt.count, tt.input, tt.output, got, tt.want)
			}
		})
	}
}

func TestIsLayout(t *testing.T) {
	tests := []struct {
		data string
		want bool
	}{
		{`{"viz_type":"sankey","width":800}`, true},
		{`{"viz_type":"nodelink","dot":"digraph G {}"}`, true},
		{`{"nodes":[{"id":"a"}],"edges":[]}`, false},
		{"NSID,AEDOSE,DV\n1,1,0\n", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := isLayout([]byte(tt.data)); got != tt.want {
			t.Errorf("isLayout(%q) = %v, want %v", tt.data, got, tt.want)
		}
	}
}

func TestWriteArtifacts(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "flows.graph.json")
	artifacts := map[string][]byte{
		"svg":  []byte("<svg/>"),
		"json": []byte("{}"),
	}

	paths, err := writeArtifacts(artifacts, []string{"svg", "png", "json"}, input, "")
	if err != nil {
		t.Fatalf("writeArtifacts() error: %v", err)
	}
	want := []string{filepath.Join(dir, "flows.svg"), filepath.Join(dir, "flows.layout.json")}
	if !slices.Equal(paths, want) {
		t.Fatalf("paths = %v, want %v", paths, want)
	}
	got, err := os.ReadFile(want[0])
	if err != nil || string(got) != "<svg/>" {
		t.Errorf("svg file = %q, %v", got, err)
	}
}
