package ingest_test

import (
	"fmt"
	"strings"

	"github.com/matzehuels/sankey/pkg/ingest"
)

func ExampleFromRecords() {
	csv := `NSID,AEDOSE,DV,DATE
1,1,0,2021-01-01
1,2,1,2021-01-08
2,1,0,2021-01-01
2,2,1,2021-01-08
3,1,1,2021-01-01
3,2,0,2021-01-08
`
	records, _ := ingest.ReadRecords(strings.NewReader(csv))
	g, report, _ := ingest.FromRecords(records, ingest.Options{})

	for _, e := range g.Edges {
		fmt.Printf("%s -> %s: %g\n", e.From, e.To, e.Value)
	}
	fmt.Println("subjects:", report.Subjects, "pruned:", report.Pruned)
	// Output:
	// D1-G0 -> D2-G1: 2
	// D1-G1 -> D2-G0: 1
	// subjects: 3 pruned: 8
}
