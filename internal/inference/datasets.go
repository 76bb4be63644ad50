package inference

import (
	"errors"
	"math"
	"time"

	"github.com/stockiq/backend-go/internal/analysis"
	"github.com/stockiq/backend-go/internal/patterns"
	"github.com/stockiq/backend-go/internal/table"
)

// Per-field defaults used when a source column is unmappable. These are
// business-meaningful fallbacks, not placeholders.
const (
	defaultCurrentStock = 100
	defaultDaysToExpiry = 30
)

var errNoQuantitySource = errors.New("Unable to prepare sales data for analysis. Required columns may be missing.")

// BuildDatasets materializes the canonical sales and product tables from
// the source table and role mapping, and synthesizes supplier terms when
// the caller provides none.
func BuildDatasets(tbl *table.Table, mapping RoleMapping, suppliers []analysis.SupplierTerms) (*analysis.Datasets, error) {
	sales, err := buildSales(tbl, mapping)
	if err != nil {
		return nil, err
	}
	products := buildProducts(tbl, mapping)

	if len(suppliers) == 0 {
		ids := make([]string, len(products))
		for i, p := range products {
			ids[i] = p.ProductID
		}
		suppliers = analysis.DefaultSuppliers(ids)
	}

	return &analysis.Datasets{
		Sales:     sales,
		Products:  products,
		Suppliers: suppliers,
	}, nil
}

// buildSales keeps only rows where product id, date, and quantity all
// coerce successfully; failing rows are dropped, never defaulted.
func buildSales(tbl *table.Table, mapping RoleMapping) ([]analysis.SalesRecord, error) {
	productCol := tbl.Column(mapping[patterns.RoleProductID])
	dateCol := tbl.Column(mapping[patterns.RoleDate])
	qtyCol := quantityColumn(tbl, mapping)
	if productCol == nil || dateCol == nil || qtyCol == nil {
		return nil, errNoQuantitySource
	}

	var sales []analysis.SalesRecord
	for row := 0; row < tbl.NumRows(); row++ {
		pid := productCol.Cells[row]
		if pid == "" {
			continue
		}
		date, ok := table.ParseDate(dateCol.Cells[row])
		if !ok {
			continue
		}
		qty, ok := table.ParseNumber(qtyCol.Cells[row])
		if !ok {
			continue
		}
		sales = append(sales, analysis.SalesRecord{
			ProductID:    pid,
			Date:         date,
			QuantitySold: int(math.Round(qty)),
		})
	}
	return sales, nil
}

// quantityColumn resolves the sales quantity source in preference order:
// quantity_sold, quantity, current_stock.
func quantityColumn(tbl *table.Table, mapping RoleMapping) *table.Column {
	for _, role := range []patterns.Role{patterns.RoleQuantitySold, patterns.RoleQuantity, patterns.RoleCurrentStock} {
		if label, ok := mapping[role]; ok {
			if col := tbl.Column(label); col != nil {
				return col
			}
		}
	}
	return nil
}

// buildProducts groups rows by product id in first-appearance order. When
// several rows share an id, current stock takes the last parseable value
// and days-to-expiry the first; unmappable fields get their defaults.
func buildProducts(tbl *table.Table, mapping RoleMapping) []analysis.ProductRecord {
	productCol := tbl.Column(mapping[patterns.RoleProductID])
	if productCol == nil {
		return nil
	}

	var stockCol *table.Column
	for _, role := range []patterns.Role{patterns.RoleCurrentStock, patterns.RoleQuantity} {
		if label, ok := mapping[role]; ok {
			if stockCol = tbl.Column(label); stockCol != nil {
				break
			}
		}
	}
	var expiryCol *table.Column
	if label, ok := mapping[patterns.RoleExpiry]; ok {
		expiryCol = tbl.Column(label)
	}

	var (
		order []string
		rows  = map[string][]int{}
	)
	for row := 0; row < tbl.NumRows(); row++ {
		pid := productCol.Cells[row]
		if pid == "" {
			continue
		}
		if _, seen := rows[pid]; !seen {
			order = append(order, pid)
		}
		rows[pid] = append(rows[pid], row)
	}

	products := make([]analysis.ProductRecord, 0, len(order))
	for _, pid := range order {
		products = append(products, analysis.ProductRecord{
			ProductID:    pid,
			CurrentStock: lastNumber(stockCol, rows[pid], defaultCurrentStock),
			DaysToExpiry: firstNumber(expiryCol, rows[pid], defaultDaysToExpiry),
		})
	}
	return products
}

func lastNumber(col *table.Column, rows []int, fallback int) int {
	if col == nil {
		return fallback
	}
	for i := len(rows) - 1; i >= 0; i-- {
		if v, ok := table.ParseNumber(col.Cells[rows[i]]); ok {
			return int(v)
		}
	}
	return fallback
}

func firstNumber(col *table.Column, rows []int, fallback int) int {
	if col == nil {
		return fallback
	}
	for _, row := range rows {
		if v, ok := table.ParseNumber(col.Cells[row]); ok {
			return int(v)
		}
	}
	return fallback
}

// CheckReadiness is the narrower, second sufficiency gate specific to what
// the decision engine needs from the canonical datasets.
func CheckReadiness(ds *analysis.Datasets) error {
	if len(ds.Sales) < 2 {
		return errors.New("Insufficient sales data to generate meaningful analytics. At least 2 records are required.")
	}
	distinct := map[time.Time]struct{}{}
	for _, rec := range ds.Sales {
		distinct[rec.Date] = struct{}{}
	}
	if len(distinct) < 2 {
		return errors.New("Sales data must span at least 2 different dates for trend analysis.")
	}
	if len(ds.Products) == 0 {
		return errors.New("No products identified in the data.")
	}
	return nil
}
