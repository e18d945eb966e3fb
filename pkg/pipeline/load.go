package pipeline

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/multierr"

	"github.com/matzehuels/sankey/pkg/errors"
	"github.com/matzehuels/sankey/pkg/graph"
	"github.com/matzehuels/sankey/pkg/ingest"
)

// Input kinds accepted by [Load].
const (
	InputAuto  = ""
	InputGraph = "graph" // flow graph JSON: nodes + edges with from/to/value
	InputCSV   = "csv"   // dose CSV with NSID, AEDOSE and DV columns
	InputAlt   = "alt"   // alternate JSON: edges with source/target and datum
)

// InputKinds lists the explicit input kinds.
var InputKinds = []string{InputGraph, InputCSV, InputAlt}

// LoadReport describes how an input became a flow graph.
type LoadReport struct {
	Kind string

	// Ingest is set for CSV and alternate inputs.
	Ingest *ingest.Report

	// Warnings lists recoverable problems such as skipped rows.
	Warnings []error
}

// DetectInput guesses the input kind from the file name and content.
// A ".csv" extension always means CSV; JSON content whose edges use
// "source"/"target" or whose nodes carry a "datum" is the alternate format.
func DetectInput(name string, data []byte) string {
	if strings.EqualFold(filepath.Ext(name), ".csv") {
		return InputCSV
	}
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || (trimmed[0] != '{' && trimmed[0] != '[') {
		return InputCSV
	}

	var probe struct {
		Nodes []map[string]json.RawMessage `json:"nodes"`
		Edges []map[string]json.RawMessage `json:"edges"`
	}
	if json.Unmarshal(trimmed, &probe) != nil {
		return InputGraph
	}
	for _, e := range probe.Edges {
		if _, ok := e["source"]; ok {
			return InputAlt
		}
		if _, ok := e["from"]; ok {
			return InputGraph
		}
	}
	for _, n := range probe.Nodes {
		if _, ok := n["datum"]; ok {
			return InputAlt
		}
	}
	return InputGraph
}

// Load converts raw input into a flow graph. kind may be [InputAuto], in
// which case name and content decide (see [DetectInput]).
//
// Bad CSV rows and records with out-of-range values are skipped and listed
// in the report's warnings; only an unreadable input is an error.
func Load(name string, data []byte, kind string, opts ingest.Options) (graph.Graph, LoadReport, error) {
	if kind == InputAuto {
		kind = DetectInput(name, data)
	}
	if err := errors.ValidateChoice(errors.ErrCodeInvalidFormat, "input kind", kind, InputKinds...); err != nil {
		return graph.Graph{}, LoadReport{}, err
	}
	rep := LoadReport{Kind: kind}

	switch kind {
	case InputCSV:
		records, err := ingest.ReadRecords(bytes.NewReader(data))
		if records == nil && err != nil {
			return graph.Graph{}, rep, errors.Wrap(errors.ErrCodeInvalidInput, err, "read %s", displayName(name))
		}
		rep.Warnings = append(rep.Warnings, multierr.Errors(err)...)

		g, ir, err := ingest.FromRecords(records, opts)
		rep.Ingest = &ir
		rep.Warnings = append(rep.Warnings, multierr.Errors(err)...)
		return g, rep, nil

	case InputAlt:
		ag, err := ingest.ReadAltGraph(bytes.NewReader(data))
		if err != nil {
			return graph.Graph{}, rep, errors.Wrap(errors.ErrCodeInvalidInput, err, "read %s", displayName(name))
		}
		g, ir := ag.ToGraph(opts)
		rep.Ingest = &ir
		return g, rep, nil

	default:
		g, err := graph.UnmarshalGraph(data)
		if err != nil {
			return graph.Graph{}, rep, errors.Wrap(errors.ErrCodeInvalidInput, err, "read %s", displayName(name))
		}
		return g, rep, nil
	}
}

// LoadFile reads path and passes its content to [Load].
func LoadFile(path, kind string, opts ingest.Options) (graph.Graph, LoadReport, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return graph.Graph{}, LoadReport{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "input %s not found", path)
		}
		return graph.Graph{}, LoadReport{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "read %s", path)
	}
	return Load(path, data, kind, opts)
}

func displayName(name string) string {
	if name == "" {
		return "input"
	}
	return name
}
