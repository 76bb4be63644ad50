// Package table defines the decoded-table abstraction the analysis stages
// consume: an ordered list of labeled columns with string cells, plus the
// coercion helpers (numeric, date) every gate relies on. The pipeline never
// touches file bytes; ingest produces one of these.
package table

import (
	"strconv"
	"strings"
	"time"
)

// Column is a single labeled column with its cell values in row order.
// Empty strings are missing values.
type Column struct {
	Label string
	Cells []string
}

// Table is an ordered collection of columns of equal length.
type Table struct {
	Columns []Column
}

// DocumentKind distinguishes tabular containers from text-only ones.
type DocumentKind string

const (
	KindTabular DocumentKind = "tabular"
	KindText    DocumentKind = "text"
)

// Document is the output of the decode boundary: either a table or a
// lower-cased text blob, never both.
type Document struct {
	Kind     DocumentKind
	FileType string // "excel", "csv", "pdf", "text"
	Table    *Table
	Text     string
}

// New builds a table from labels and row-major records. Short rows are
// padded with empty cells.
func New(labels []string, rows [][]string) *Table {
	t := &Table{Columns: make([]Column, len(labels))}
	for i, label := range labels {
		t.Columns[i] = Column{Label: label, Cells: make([]string, len(rows))}
	}
	for ri, row := range rows {
		for ci := range labels {
			if ci < len(row) {
				t.Columns[ci].Cells[ri] = strings.TrimSpace(row[ci])
			}
		}
	}
	return t
}

// NumRows returns the number of data rows.
func (t *Table) NumRows() int {
	if t == nil || len(t.Columns) == 0 {
		return 0
	}
	return len(t.Columns[0].Cells)
}

// Labels returns the column labels in order.
func (t *Table) Labels() []string {
	labels := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		labels[i] = c.Label
	}
	return labels
}

// Column returns the column with the given label, or nil.
func (t *Table) Column(label string) *Column {
	for i := range t.Columns {
		if t.Columns[i].Label == label {
			return &t.Columns[i]
		}
	}
	return nil
}

// NonEmpty counts cells that carry a value.
func (c *Column) NonEmpty() int {
	n := 0
	for _, cell := range c.Cells {
		if cell != "" {
			n++
		}
	}
	return n
}

// Numbers returns the cells that parse as numbers, dropping the rest.
func (c *Column) Numbers() []float64 {
	var out []float64
	for _, cell := range c.Cells {
		if v, ok := ParseNumber(cell); ok {
			out = append(out, v)
		}
	}
	return out
}

// Dates returns the cells that parse as calendar dates, dropping the rest.
func (c *Column) Dates() []time.Time {
	var out []time.Time
	for _, cell := range c.Cells {
		if d, ok := ParseDate(cell); ok {
			out = append(out, d)
		}
	}
	return out
}

// IsNumeric reports whether every non-empty cell parses as a number and at
// least one such cell exists.
func (c *Column) IsNumeric() bool {
	seen := false
	for _, cell := range c.Cells {
		if cell == "" {
			continue
		}
		if _, ok := ParseNumber(cell); !ok {
			return false
		}
		seen = true
	}
	return seen
}

// ParseNumber coerces a cell into a float. Thousands separators are
// tolerated; anything else non-numeric fails the parse.
func ParseNumber(cell string) (float64, bool) {
	s := strings.TrimSpace(cell)
	if s == "" {
		return 0, false
	}
	if strings.Contains(s, ",") && !strings.Contains(s, " ") {
		s = strings.ReplaceAll(s, ",", "")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"1/2/2006",
	"02-01-2006",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"Jan 2, 2006",
	"2 Jan 2006",
	"January 2, 2006",
	"20060102",
}

// ParseDate coerces a cell into a calendar date, trying a fixed set of
// common spreadsheet layouts.
func ParseDate(cell string) (time.Time, bool) {
	s := strings.TrimSpace(cell)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if d, err := time.Parse(layout, s); err == nil {
			return d, true
		}
	}
	return time.Time{}, false
}
