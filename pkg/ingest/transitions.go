package ingest

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"

	"go.uber.org/multierr"

	"github.com/matzehuels/sankey/pkg/graph"
)

// Options controls how transitions become edges.
type Options struct {
	// Unit keeps one edge of value 1 per transition, labelled with the
	// subject id, instead of one aggregated edge per node pair.
	Unit bool
	// KeepIsolated keeps (dose, grade) nodes that no transition touches.
	KeepIsolated bool
}

// Transition is a subject moving from one dose event to the next.
type Transition struct {
	Subject int
	From    Event
	To      Event
}

// Report summarizes what an ingestion kept and skipped.
type Report struct {
	Records        int // records read
	Invalid        int // records with an out-of-range dose or grade
	Subjects       int // distinct subjects among valid records
	Transitions    int // consecutive-dose pairs turned into flow
	NonConsecutive int // adjacent records whose doses are not n, n+1
	Dangling       int // alternate-format edges naming an unknown node
	Pruned         int // isolated nodes removed
}

// Transitions groups records by subject, sorts each subject's records by
// dose number and pairs consecutive doses. Pairs whose doses differ by
// anything but one are skipped and counted. Records with an out-of-range
// dose or grade are skipped; their errors are combined in the returned
// error while the transitions built from the rest are still returned.
func Transitions(records []Record) ([]Transition, Report, error) {
	rep := Report{Records: len(records)}

	bySubject := make(map[int][]Event)
	var subjects []int
	var errs error

	for _, r := range records {
		ev, err := r.Event()
		if err != nil {
			rep.Invalid++
			errs = multierr.Append(errs, fmt.Errorf("subject %d dose %d: %w", r.SubjectID, r.DoseNumber, err))
			continue
		}
		if _, seen := bySubject[r.SubjectID]; !seen {
			subjects = append(subjects, r.SubjectID)
		}
		bySubject[r.SubjectID] = append(bySubject[r.SubjectID], ev)
	}
	rep.Subjects = len(subjects)
	slices.Sort(subjects)

	var out []Transition
	for _, s := range subjects {
		evs := bySubject[s]
		slices.SortStableFunc(evs, func(a, b Event) int {
			return cmp.Compare(a.Dose, b.Dose)
		})
		for i := 1; i < len(evs); i++ {
			from, to := evs[i-1], evs[i]
			if to.Dose != from.Dose+1 {
				rep.NonConsecutive++
				continue
			}
			out = append(out, Transition{Subject: s, From: from, To: to})
		}
	}
	rep.Transitions = len(out)
	return out, rep, errs
}

// BuildGraph turns transitions into a flow graph. Every (dose, grade) pair
// is a node; nodes no transition touches are pruned unless
// opts.KeepIsolated is set. Nodes and aggregated edges are emitted in
// dose-then-grade order, so equal inputs yield identical graphs.
func BuildGraph(ts []Transition, opts Options) (graph.Graph, Report) {
	var rep Report
	touched := make(map[Event]bool)
	for _, t := range ts {
		touched[t.From] = true
		touched[t.To] = true
	}

	g := graph.Graph{Nodes: []graph.Node{}, Edges: []graph.Edge{}}
	for _, d := range Doses {
		for _, gr := range Grades {
			ev := Event{Dose: d, Grade: gr}
			if !touched[ev] && !opts.KeepIsolated {
				rep.Pruned++
				continue
			}
			g.Nodes = append(g.Nodes, eventNode(ev))
		}
	}

	if opts.Unit {
		for _, t := range ts {
			g.Edges = append(g.Edges, graph.Edge{
				From:  t.From.ID(),
				To:    t.To.ID(),
				Value: 1,
				Label: strconv.Itoa(t.Subject),
			})
		}
	} else {
		g.Edges = aggregate(ts)
	}
	rep.Transitions = len(ts)
	return g, rep
}

// FromRecords is Transitions followed by BuildGraph.
func FromRecords(records []Record, opts Options) (graph.Graph, Report, error) {
	ts, rep, err := Transitions(records)
	g, built := BuildGraph(ts, opts)
	rep.Pruned = built.Pruned
	return g, rep, err
}

type pair struct{ from, to Event }

func aggregate(ts []Transition) []graph.Edge {
	counts := make(map[pair]float64)
	for _, t := range ts {
		counts[pair{t.From, t.To}]++
	}
	keys := make([]pair, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, func(a, b pair) int {
		if a.from != b.from {
			return compareEvents(a.from, b.from)
		}
		return compareEvents(a.to, b.to)
	})

	edges := make([]graph.Edge, 0, len(keys))
	for _, k := range keys {
		edges = append(edges, graph.Edge{From: k.from.ID(), To: k.to.ID(), Value: counts[k]})
	}
	return edges
}

func compareEvents(a, b Event) int {
	switch {
	case a.Less(b):
		return -1
	case b.Less(a):
		return 1
	}
	return 0
}

func eventNode(ev Event) graph.Node {
	return graph.Node{
		ID:    ev.ID(),
		Label: ev.Dose.String() + " " + ev.Grade.String(),
		Color: gradeColors[ev.Grade],
		Meta: map[string]any{
			"dose":  ev.Dose.String(),
			"grade": ev.Grade.String(),
		},
	}
}
