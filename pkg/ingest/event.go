package ingest

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrOutOfRange is returned when an integer or name does not map to a
// [Dose] or [Grade].
var ErrOutOfRange = errors.New("value out of range")

// ConversionError reports a value that could not be converted to an enum.
type ConversionError struct {
	Kind  string // "dose" or "grade"
	Value string
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("%s %q could not be converted", e.Kind, e.Value)
}

func (e *ConversionError) Unwrap() error { return ErrOutOfRange }

// Dose is the ordinal of an administered dose, D1 through D4.
type Dose int

const (
	D1 Dose = iota + 1
	D2
	D3
	D4
)

// Doses lists every dose in administration order.
var Doses = []Dose{D1, D2, D3, D4}

// DoseFromInt converts a dose number (1-4) to a Dose.
func DoseFromInt(v int) (Dose, error) {
	if v < int(D1) || v > int(D4) {
		return 0, &ConversionError{Kind: "dose", Value: fmt.Sprint(v)}
	}
	return Dose(v), nil
}

func (d Dose) String() string { return fmt.Sprintf("D%d", int(d)) }

// Valid reports whether d is one of the defined doses.
func (d Dose) Valid() bool { return d >= D1 && d <= D4 }

func (d Dose) MarshalText() ([]byte, error) {
	if !d.Valid() {
		return nil, &ConversionError{Kind: "dose", Value: fmt.Sprint(int(d))}
	}
	return []byte(d.String()), nil
}

func (d *Dose) UnmarshalText(b []byte) error {
	v, err := parseOrdinal("dose", "D", string(b))
	if err != nil {
		return err
	}
	dose, err := DoseFromInt(v)
	if err != nil {
		return err
	}
	*d = dose
	return nil
}

// Grade is a cytokine release syndrome grade, G0 through G2.
type Grade int

const (
	G0 Grade = iota
	G1
	G2
)

// Grades lists every grade from mildest to most severe.
var Grades = []Grade{G0, G1, G2}

// GradeFromInt converts a grade number (0-2) to a Grade.
func GradeFromInt(v int) (Grade, error) {
	if v < int(G0) || v > int(G2) {
		return 0, &ConversionError{Kind: "grade", Value: fmt.Sprint(v)}
	}
	return Grade(v), nil
}

func (g Grade) String() string { return fmt.Sprintf("G%d", int(g)) }

// Valid reports whether g is one of the defined grades.
func (g Grade) Valid() bool { return g >= G0 && g <= G2 }

func (g Grade) MarshalText() ([]byte, error) {
	if !g.Valid() {
		return nil, &ConversionError{Kind: "grade", Value: fmt.Sprint(int(g))}
	}
	return []byte(g.String()), nil
}

func (g *Grade) UnmarshalText(b []byte) error {
	v, err := parseOrdinal("grade", "G", string(b))
	if err != nil {
		return err
	}
	grade, err := GradeFromInt(v)
	if err != nil {
		return err
	}
	*g = grade
	return nil
}

// parseOrdinal accepts "D3" style names as well as bare numbers.
func parseOrdinal(kind, prefix, s string) (int, error) {
	s = strings.TrimSpace(s)
	num := strings.TrimPrefix(strings.ToUpper(s), prefix)
	v, err := strconv.Atoi(num)
	if err != nil {
		return 0, &ConversionError{Kind: kind, Value: s}
	}
	return v, nil
}

// Event is the state of a subject at one dose: a flow node.
type Event struct {
	Dose  Dose  `json:"dose"`
	Grade Grade `json:"grade"`
}

// ID returns the node id used for e in generated graphs, e.g. "D2-G1".
func (e Event) ID() string { return e.Dose.String() + "-" + e.Grade.String() }

func (e Event) String() string { return fmt.Sprintf("(%s, %s)", e.Grade, e.Dose) }

// Less orders events by dose, then grade.
func (e Event) Less(o Event) bool {
	if e.Dose != o.Dose {
		return e.Dose < o.Dose
	}
	return e.Grade < o.Grade
}

var gradeColors = map[Grade]string{
	G0: "#59a14f",
	G1: "#f28e2b",
	G2: "#e15759",
}
