package core

// csv.go reads semicolon-delimited import files into header-keyed rows.
//
// Every file passes through a decoding chain before it reaches encoding/csv:
//
//   - unicode.BOMOverride strips a UTF-8 BOM and transcodes UTF-16 files that
//     start with a BOM (both common in spreadsheet exports)
//   - runes.ReplaceIllFormed swaps invalid UTF-8 sequences for U+FFFD so a
//     single bad byte never fails the whole file
//
// Headers and values are trimmed of surrounding whitespace.

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
)

// Delimiter separates fields in import files.
const Delimiter = ';'

// Row maps a trimmed header name to its trimmed cell value.
// A header with no cell in the row maps to "".
type Row map[string]string

// Get returns the cell for header, or "" if the row has none.
func (r Row) Get(header string) string {
	return r[header]
}

// Table is a fully read import file.
type Table struct {
	Headers []string
	Rows    []Row
}

// ParseError reports a file that could not be opened or decoded.
type ParseError struct {
	File string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("File '%s' could not be read: %v", e.File, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ReadCSVFile opens path and reads it with ReadCSV. The file is always closed
// before returning.
func ReadCSVFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &ParseError{File: filepath.Base(path), Err: err}
	}
	defer f.Close()

	table, err := ReadCSV(f)
	if err != nil {
		var pe *ParseError
		if errors.As(err, &pe) {
			pe.File = filepath.Base(path)
		}
		return nil, err
	}
	return table, nil
}

// ReadCSV decodes r into a Table. An empty stream yields a Table with no
// headers and no rows; callers detect that case through header validation.
func ReadCSV(r io.Reader) (*Table, error) {
	decoded := transform.NewReader(r, transform.Chain(
		unicode.BOMOverride(transform.Nop),
		runes.ReplaceIllFormed(),
	))

	cr := csv.NewReader(decoded)
	cr.Comma = Delimiter
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	table := &Table{}

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return table, nil
	}
	if err != nil {
		return nil, &ParseError{Err: err}
	}

	table.Headers = make([]string, len(header))
	for i, h := range header {
		table.Headers[i] = strings.TrimSpace(h)
	}

	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &ParseError{Err: err}
		}
		table.Rows = append(table.Rows, makeRow(table.Headers, record))
	}

	return table, nil
}

// makeRow keys record by headers. Cells beyond the header count are dropped.
func makeRow(headers, record []string) Row {
	row := make(Row, len(headers))
	for i, h := range headers {
		if i >= len(record) {
			break
		}
		if _, seen := row[h]; seen {
			// first column wins for duplicate header names
			continue
		}
		row[h] = strings.TrimSpace(record[i])
	}
	return row
}
