package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"go.uber.org/multierr"
)

// Column names of the adverse-event dose export.
const (
	ColSubject = "NSID"
	ColDose    = "AEDOSE"
	ColGrade   = "DV"
	ColDate    = "DATE"
	ColTime    = "TIME"
)

// ErrMissingColumn is returned when a required column is absent from the
// header row.
var ErrMissingColumn = errors.New("missing column")

// Record is one row of the dose export: the CRS grade a subject showed
// after a given dose.
type Record struct {
	SubjectID  int
	DoseNumber int
	Grade      int
	Date       string
	Time       string // empty when the TIME cell is absent or blank
}

// Event converts the record's dose and grade numbers to their enums.
func (r Record) Event() (Event, error) {
	d, err := DoseFromInt(r.DoseNumber)
	if err != nil {
		return Event{}, err
	}
	g, err := GradeFromInt(r.Grade)
	if err != nil {
		return Event{}, err
	}
	return Event{Dose: d, Grade: g}, nil
}

// RowError locates a failure within the CSV input. Line is 1-based and
// counts the header.
type RowError struct {
	Line int
	Err  error
}

func (e *RowError) Error() string { return fmt.Sprintf("line %d: %v", e.Line, e.Err) }

func (e *RowError) Unwrap() error { return e.Err }

// ReadRecords parses a dose CSV. The first row is a header; columns are
// matched by name, case-insensitively, in any order. TIME is optional.
//
// Rows that fail to parse are skipped. Their errors are combined with
// [multierr] so callers get every valid record together with a single
// error listing all bad rows (see [multierr.Errors]). A malformed header
// fails the whole read and returns no records.
func ReadRecords(r io.Reader) ([]Record, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("read header: %w", io.ErrUnexpectedEOF)
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	cols, err := columnIndex(header)
	if err != nil {
		return nil, err
	}

	var (
		records []Record
		errs    error
	)
	for line := 2; ; line++ {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) && errors.Is(perr.Err, csv.ErrFieldCount) {
				errs = multierr.Append(errs, &RowError{Line: line, Err: err})
				continue
			}
			return records, multierr.Append(errs, fmt.Errorf("read csv: %w", err))
		}
		rec, err := cols.record(row)
		if err != nil {
			errs = multierr.Append(errs, &RowError{Line: line, Err: err})
			continue
		}
		records = append(records, rec)
	}
	return records, errs
}

// ReadRecordsFile reads a dose CSV from path. See [ReadRecords].
func ReadRecordsFile(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadRecords(f)
}

type columns struct {
	subject, dose, grade, date, time int
}

func columnIndex(header []string) (columns, error) {
	c := columns{-1, -1, -1, -1, -1}
	for i, h := range header {
		switch strings.ToUpper(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))) {
		case ColSubject:
			c.subject = i
		case ColDose:
			c.dose = i
		case ColGrade:
			c.grade = i
		case ColDate:
			c.date = i
		case ColTime:
			c.time = i
		}
	}

	required := []struct {
		name string
		idx  int
	}{{ColSubject, c.subject}, {ColDose, c.dose}, {ColGrade, c.grade}, {ColDate, c.date}}

	var errs error
	for _, col := range required {
		if col.idx < 0 {
			errs = multierr.Append(errs, fmt.Errorf("%w: %s", ErrMissingColumn, col.name))
		}
	}
	return c, errs
}

func (c columns) record(row []string) (Record, error) {
	var rec Record
	var err error
	if rec.SubjectID, err = intCell(row, c.subject, ColSubject); err != nil {
		return rec, err
	}
	if rec.DoseNumber, err = intCell(row, c.dose, ColDose); err != nil {
		return rec, err
	}
	if rec.Grade, err = intCell(row, c.grade, ColGrade); err != nil {
		return rec, err
	}
	rec.Date = strings.TrimSpace(row[c.date])
	if c.time >= 0 {
		rec.Time = strings.TrimSpace(row[c.time])
	}
	return rec, nil
}

func intCell(row []string, idx int, name string) (int, error) {
	s := strings.TrimSpace(row[idx])
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid integer %q", name, s)
	}
	return v, nil
}
