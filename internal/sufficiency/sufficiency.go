// Package sufficiency implements the second validation gate: an accepted
// table must carry enough of the right kind of data before structure
// inference is attempted. Five checks run in fixed order and short-circuit
// on the first failure, each with a reason naming the missing element.
package sufficiency

import (
	"strings"
	"time"

	"github.com/stockiq/backend-go/internal/patterns"
	"github.com/stockiq/backend-go/internal/table"
)

type Status string

const (
	StatusSufficient   Status = "sufficient"
	StatusInsufficient Status = "insufficient"
)

// Result is the structured verdict of the gate.
type Result struct {
	Status      Status `json:"status"`
	Explanation string `json:"explanation,omitempty"`
	Reason      string `json:"reason,omitempty"`
}

func insufficient(reason string) Result {
	return Result{Status: StatusInsufficient, Reason: reason}
}

// Check runs all sufficiency checks over the table.
func Check(reg *patterns.Registry, tbl *table.Table) Result {
	if tbl == nil || len(tbl.Columns) == 0 {
		return insufficient("The file contains no data to analyze.")
	}

	if ok, reason := checkDataVolume(tbl); !ok {
		return insufficient(reason)
	}
	if ok, reason := checkProductIdentifiers(reg, tbl); !ok {
		return insufficient(reason)
	}
	ok, reason, quantityCols := checkQuantityMeaning(reg, tbl)
	if !ok {
		return insufficient(reason)
	}
	if ok, reason := checkTimeContext(reg, tbl); !ok {
		return insufficient(reason)
	}
	if ok, reason := checkLogicalConsistency(reg, tbl, quantityCols); !ok {
		return insufficient(reason)
	}

	return Result{
		Status:      StatusSufficient,
		Explanation: "Data contains product identifiers, quantity information, and time context suitable for inventory analysis.",
	}
}

func checkDataVolume(tbl *table.Table) (bool, string) {
	switch tbl.NumRows() {
	case 0:
		return false, "The file contains no data rows."
	case 1:
		return false, "The file contains only a single record. Multiple records are needed for meaningful analysis."
	}
	return true, ""
}

func checkProductIdentifiers(reg *patterns.Registry, tbl *table.Table) (bool, string) {
	found := false
	for i := range tbl.Columns {
		col := &tbl.Columns[i]
		if !reg.MatchesProductLabel(strings.ToLower(col.Label)) {
			continue
		}
		found = true
		if col.NonEmpty() > 0 {
			return true, ""
		}
	}
	if found {
		return false, "Product identifier column exists but contains no usable values."
	}
	return false, "No product identifier column found. The file must contain a way to distinguish products (e.g., product ID, SKU, item name)."
}

// checkQuantityMeaning requires at least one quantity column with non-null,
// non-all-zero numeric values. When no quantity-labeled column qualifies,
// any non-price column with over 30% numeric cells is accepted as a
// fallback. The fallback can latch onto an unrelated numeric column, such
// as a percentage field; callers get no signal about which column won.
func checkQuantityMeaning(reg *patterns.Registry, tbl *table.Table) (bool, string, []*table.Column) {
	var (
		quantityLabeled []*table.Column
		priceLabeled    = map[string]bool{}
		usable          []*table.Column
	)

	for i := range tbl.Columns {
		col := &tbl.Columns[i]
		label := strings.ToLower(col.Label)
		if reg.MatchesQuantityLabel(label) {
			quantityLabeled = append(quantityLabeled, col)
		}
		if reg.MatchesPriceLabel(label) {
			priceLabeled[col.Label] = true
		}
	}

	for _, col := range quantityLabeled {
		values := col.Numbers()
		if len(values) == 0 {
			continue
		}
		if allZero(values) {
			continue
		}
		usable = append(usable, col)
	}
	if len(usable) > 0 {
		return true, "", usable
	}

	if len(quantityLabeled) > 0 {
		return false, "Quantity columns exist but contain no meaningful numeric data. All values are either missing or zero.", nil
	}

	rows := tbl.NumRows()
	for i := range tbl.Columns {
		col := &tbl.Columns[i]
		if priceLabeled[col.Label] {
			continue
		}
		values := col.Numbers()
		if float64(len(values)) > float64(rows)*0.3 && !allZero(values) {
			usable = append(usable, col)
		}
	}
	if len(usable) > 0 {
		return true, "", usable
	}

	if len(priceLabeled) > 0 {
		return false, "This file contains price or revenue data but no inventory quantity information.", nil
	}
	return false, "No quantity or inventory count information found. Please upload a file with stock levels or units sold.", nil
}

// checkTimeContext needs one time column with at least two distinct parsed
// values. Numeric periods count directly; anything else is parsed as a
// calendar date.
func checkTimeContext(reg *patterns.Registry, tbl *table.Table) (bool, string) {
	found := false
	for i := range tbl.Columns {
		col := &tbl.Columns[i]
		if !reg.MatchesTimeLabel(strings.ToLower(col.Label)) {
			continue
		}
		found = true
		if distinctTimePoints(col) >= 2 {
			return true, ""
		}
	}
	if found {
		return false, "Time column exists but contains only a single date or period. At least two distinct time points are needed for trend analysis."
	}
	return false, "No date or time information found. The file must contain time-based data to analyze trends."
}

func distinctTimePoints(col *table.Column) int {
	if col.IsNumeric() {
		distinct := map[float64]struct{}{}
		for _, v := range col.Numbers() {
			distinct[v] = struct{}{}
		}
		return len(distinct)
	}
	distinct := map[time.Time]struct{}{}
	for _, d := range col.Dates() {
		distinct[d] = struct{}{}
	}
	return len(distinct)
}

func checkLogicalConsistency(reg *patterns.Registry, tbl *table.Table, quantityCols []*table.Column) (bool, string) {
	rows := tbl.NumRows()
	for _, col := range quantityCols {
		negative := 0
		for _, v := range col.Numbers() {
			if v < 0 {
				negative++
			}
		}
		if float64(negative) > float64(rows)*0.5 {
			return false, "Quantity data contains too many negative values, which may indicate incorrect data formatting."
		}
	}

	for i := range tbl.Columns {
		col := &tbl.Columns[i]
		if !reg.MatchesTimeLabel(strings.ToLower(col.Label)) {
			continue
		}
		for _, d := range col.Dates() {
			if d.Year() < 1900 || d.Year() > 2100 {
				return false, "Date values appear to be outside a reasonable range (1900-2100)."
			}
		}
	}
	return true, ""
}

func allZero(values []float64) bool {
	for _, v := range values {
		if v != 0 {
			return false
		}
	}
	return true
}
