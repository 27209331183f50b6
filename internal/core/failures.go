package core

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// ReportHeader is the first line of every failure report.
var ReportHeader = []string{"rowNumber", "businessKey", "reason"}

// FailureRecord is one rejected row. Row 1 is the header row, so the first
// data row is row 2.
type FailureRecord struct {
	RowNumber int    `json:"rowNumber"`
	Key       string `json:"businessKey"`
	Reason    string `json:"reason"`
}

// FailureSink collects the rejected rows of one entity during an import.
type FailureSink struct {
	entity  string
	records []FailureRecord
}

// NewFailureSink creates an empty sink for entity.
func NewFailureSink(entity string) *FailureSink {
	return &FailureSink{entity: entity}
}

// Add records a rejected row.
func (s *FailureSink) Add(rowNumber int, key, reason string) {
	s.records = append(s.records, FailureRecord{RowNumber: rowNumber, Key: key, Reason: reason})
}

// AddFileError records a file-level failure as a single row 1 record.
func (s *FailureSink) AddFileError(err error) {
	s.Add(1, KeyFileError, err.Error())
}

// Entity returns the entity the sink collects for.
func (s *FailureSink) Entity() string { return s.entity }

// Len returns the number of records.
func (s *FailureSink) Len() int { return len(s.records) }

// Records returns the collected records in insertion order.
func (s *FailureSink) Records() []FailureRecord { return s.records }

// ReportFileName returns the report name for entity, e.g. "families_failures.csv".
func ReportFileName(entity string) string {
	return entity + "_failures.csv"
}

// ReportWriter persists failure sinks as semicolon-delimited files in Dir.
// Report names are fixed per entity, so each import overwrites the previous
// report of the same entity.
type ReportWriter struct {
	Dir string
}

// Write flushes sink to disk and returns the report's base name. An empty
// sink writes nothing and returns "".
func (w ReportWriter) Write(sink *FailureSink) (string, error) {
	if sink.Len() == 0 {
		return "", nil
	}

	if err := os.MkdirAll(w.Dir, 0o755); err != nil {
		return "", fmt.Errorf("create report dir: %w", err)
	}

	name := ReportFileName(sink.Entity())
	path := filepath.Join(w.Dir, name)

	// Readers only ever see a complete report: write aside, then rename.
	tmp, err := os.CreateTemp(w.Dir, name+".*.tmp")
	if err != nil {
		return "", fmt.Errorf("create report: %w", err)
	}
	defer os.Remove(tmp.Name())

	cw := csv.NewWriter(tmp)
	cw.Comma = Delimiter
	if err := cw.Write(ReportHeader); err != nil {
		tmp.Close()
		return "", fmt.Errorf("write report header: %w", err)
	}
	for _, rec := range sink.Records() {
		if err := cw.Write([]string{strconv.Itoa(rec.RowNumber), rec.Key, rec.Reason}); err != nil {
			tmp.Close()
			return "", fmt.Errorf("write report row %d: %w", rec.RowNumber, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		tmp.Close()
		return "", fmt.Errorf("flush report: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("close report: %w", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", fmt.Errorf("publish report: %w", err)
	}
	return name, nil
}

// Path returns the location of a report name inside Dir.
func (w ReportWriter) Path(name string) string {
	return filepath.Join(w.Dir, filepath.Base(name))
}
