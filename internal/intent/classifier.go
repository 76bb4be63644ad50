// Package intent implements the first validation gate: deciding whether an
// uploaded document is inventory-shaped at all, from column-name and
// sampled-cell evidence alone.
package intent

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/stockiq/backend-go/internal/patterns"
	"github.com/stockiq/backend-go/internal/table"
)

type Status string

const (
	StatusValid   Status = "valid"
	StatusInvalid Status = "invalid"
)

// Confidence is the acceptance tier assigned to valid files.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// Result is the structured verdict of the gate.
type Result struct {
	Status      Status     `json:"status"`
	FileType    string     `json:"file_type,omitempty"`
	Confidence  Confidence `json:"confidence,omitempty"`
	Explanation string     `json:"explanation,omitempty"`
	Reason      string     `json:"reason,omitempty"`
}

// sampleCellsPerColumn bounds how many cell values per column feed the
// signal search.
const sampleCellsPerColumn = 5

var numericToken = regexp.MustCompile(`\b\d+(?:\.\d+)?\b`)

// Classify runs the first validation gate over a decoded document.
func Classify(reg *patterns.Registry, doc *table.Document) Result {
	searchText := buildSearchText(doc)

	// Disqualifying vocabulary has absolute priority over any acceptance
	// signal.
	if reg.MatchesRejection(searchText) {
		return Result{
			Status: StatusInvalid,
			Reason: "This document does not appear to be related to inventory or sales data.",
		}
	}

	signals := detectSignals(reg, searchText)
	signalCount := 0
	for _, present := range signals {
		if present {
			signalCount++
		}
	}
	productAndQuantity := signals[patterns.SignalProduct] && signals[patterns.SignalQuantity]

	if signalCount < 2 && !productAndQuantity {
		return Result{Status: StatusInvalid, Reason: rejectionReason(signals, true)}
	}

	hasNumeric, numericCols := verifyNumericData(reg, doc)
	if !hasNumeric {
		return Result{Status: StatusInvalid, Reason: rejectionReason(signals, false)}
	}

	return Result{
		Status:      StatusValid,
		FileType:    doc.FileType,
		Confidence:  confidence(signalCount, hasNumeric, numericCols),
		Explanation: explanation(signals),
	}
}

// buildSearchText joins lower-cased column labels with a bounded sample of
// cell values; text documents are searched as-is.
func buildSearchText(doc *table.Document) string {
	if doc.Kind == table.KindText {
		return doc.Text
	}

	var parts []string
	for _, col := range doc.Table.Columns {
		parts = append(parts, strings.ToLower(col.Label))
	}
	for _, col := range doc.Table.Columns {
		sampled := 0
		for _, cell := range col.Cells {
			if cell == "" {
				continue
			}
			parts = append(parts, strings.ToLower(cell))
			sampled++
			if sampled == sampleCellsPerColumn {
				break
			}
		}
	}
	return strings.Join(parts, " ")
}

func detectSignals(reg *patterns.Registry, searchText string) map[patterns.SignalGroup]bool {
	detected := make(map[patterns.SignalGroup]bool, len(patterns.SignalGroups))
	for _, group := range patterns.SignalGroups {
		detected[group] = reg.MatchesSignal(group, searchText)
	}
	return detected
}

// verifyNumericData confirms genuinely numeric evidence: a quantity-labeled
// column with parseable values, or failing that any column where over 30%
// of rows parse as numbers. Text documents need at least three numeric
// tokens.
func verifyNumericData(reg *patterns.Registry, doc *table.Document) (bool, int) {
	if doc.Kind == table.KindText {
		if len(numericToken.FindAllString(doc.Text, -1)) >= 3 {
			return true, 0
		}
		return false, 0
	}

	tbl := doc.Table
	numericCols := 0
	for _, col := range tbl.Columns {
		if !reg.MatchesQuantityLabel(strings.ToLower(col.Label)) {
			continue
		}
		if len(col.Numbers()) > 0 {
			numericCols++
		}
	}
	if numericCols > 0 {
		return true, numericCols
	}

	rows := tbl.NumRows()
	for _, col := range tbl.Columns {
		if float64(len(col.Numbers())) > float64(rows)*0.3 {
			numericCols++
		}
	}
	return numericCols > 0, numericCols
}

func confidence(signalCount int, hasNumeric bool, numericCols int) Confidence {
	switch {
	case signalCount == 3 && hasNumeric && numericCols >= 1:
		return ConfidenceHigh
	case signalCount >= 2 && hasNumeric:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}

var groupNames = map[patterns.SignalGroup]string{
	patterns.SignalQuantity: "quantity/stock information",
	patterns.SignalTime:     "time/date references",
	patterns.SignalProduct:  "product identifiers",
}

func explanation(signals map[patterns.SignalGroup]bool) string {
	var names []string
	for _, group := range patterns.SignalGroups {
		if signals[group] {
			names = append(names, groupNames[group])
		}
	}

	switch len(names) {
	case 3:
		return fmt.Sprintf("File contains %s, %s, and %s suitable for inventory analysis.", names[0], names[1], names[2])
	case 2:
		return fmt.Sprintf("File contains %s and %s suitable for inventory analysis.", names[0], names[1])
	default:
		return "File appears to contain inventory or sales related data."
	}
}

func rejectionReason(signals map[patterns.SignalGroup]bool, hasNumeric bool) string {
	if !hasNumeric {
		return "No numeric quantity or sales data found. Please upload a file containing inventory or sales figures."
	}

	missingQuantity := !signals[patterns.SignalQuantity]
	missingTime := !signals[patterns.SignalTime]
	missingProduct := !signals[patterns.SignalProduct]

	switch {
	case missingQuantity && missingTime:
		return "This document does not appear to be related to inventory or sales data. No quantity or time information found."
	case missingQuantity:
		return "This file does not contain quantity or sales information. Please upload an inventory or sales file."
	case missingTime:
		return "No date or time reference found to analyze inventory trends."
	case missingProduct:
		return "No product identifiers found. Please ensure the file contains product or item information."
	}
	return "This document does not appear to be related to inventory or sales data."
}
