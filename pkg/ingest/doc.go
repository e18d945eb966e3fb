// Package ingest turns clinical dose records into flow graphs.
//
// Two inputs are supported. [ReadRecords] parses the adverse-event dose
// CSV export (columns NSID, AEDOSE, DV, DATE and an optional TIME), and
// [ReadAltGraph] reads a JSON graph whose nodes carry a (grade, dose)
// datum. Both reduce to [Transition] values: a subject moving from its
// grade after dose n to its grade after dose n+1.
//
// [BuildGraph] aggregates transitions into a [graph.Graph] with one node
// per (dose, grade) pair and one edge per node pair, weighted by the
// number of subjects that made the move. The result feeds straight into
// the layout pipeline:
//
//	records, err := ingest.ReadRecordsFile("aedose.csv")
//	g, report, err := ingest.FromRecords(records, ingest.Options{})
//
// Bad rows never abort an ingestion. They are skipped, and their errors
// are combined with go.uber.org/multierr so callers can list every
// problem at once.
package ingest
