package ingest

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/sankey/pkg/graph"
)

// AltGraph is the alternate JSON graph format: nodes carry a (grade, dose)
// datum and edges a weight and subject id.
//
//	{
//	  "nodes": [{"id": "n1", "datum": {"grade": "G0", "dose": "D1"}}],
//	  "edges": [{"id": "e1", "source": "n1", "target": "n2",
//	             "datum": {"weight": 1, "subject_id": 7}}]
//	}
type AltGraph struct {
	Nodes []AltNode `json:"nodes"`
	Edges []AltEdge `json:"edges"`
}

type AltNode struct {
	ID    string `json:"id"`
	Datum Event  `json:"datum"`
}

type AltEdge struct {
	ID     string    `json:"id"`
	Source string    `json:"source"`
	Target string    `json:"target"`
	Datum  EdgeDatum `json:"datum"`
}

type EdgeDatum struct {
	Weight    int64 `json:"weight"`
	SubjectID int64 `json:"subject_id"`
}

// ReadAltGraph decodes an alternate-format graph from r.
func ReadAltGraph(r io.Reader) (AltGraph, error) {
	var ag AltGraph
	if err := json.NewDecoder(r).Decode(&ag); err != nil {
		return AltGraph{}, fmt.Errorf("decode: %w", err)
	}
	return ag, nil
}

// ReadAltGraphFile reads an alternate-format graph from path.
func ReadAltGraphFile(path string) (AltGraph, error) {
	f, err := os.Open(path)
	if err != nil {
		return AltGraph{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	ag, err := ReadAltGraph(f)
	if err != nil {
		return AltGraph{}, fmt.Errorf("%s: %w", path, err)
	}
	return ag, nil
}

// Transitions resolves each edge's endpoints to their events. Edges naming
// an unknown node are skipped and counted as dangling. An edge with weight
// w > 1 stands for w transitions; zero or negative weights count once.
func (ag AltGraph) Transitions() ([]Transition, Report) {
	var rep Report
	events := make(map[string]Event, len(ag.Nodes))
	for _, n := range ag.Nodes {
		events[n.ID] = n.Datum
	}

	var ts []Transition
	subjects := make(map[int64]bool)
	for _, e := range ag.Edges {
		from, okFrom := events[e.Source]
		to, okTo := events[e.Target]
		if !okFrom || !okTo {
			rep.Dangling++
			continue
		}
		subjects[e.Datum.SubjectID] = true
		for range max(e.Datum.Weight, 1) {
			ts = append(ts, Transition{Subject: int(e.Datum.SubjectID), From: from, To: to})
		}
	}
	rep.Subjects = len(subjects)
	rep.Transitions = len(ts)
	return ts, rep
}

// ToGraph converts the alternate format to a flow graph. See [BuildGraph].
func (ag AltGraph) ToGraph(opts Options) (graph.Graph, Report) {
	ts, rep := ag.Transitions()
	g, built := BuildGraph(ts, opts)
	rep.Pruned = built.Pruned
	return g, rep
}
