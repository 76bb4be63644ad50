// Package staging writes the canonical per-run datasets to a scratch
// directory as CSVs, mirroring what the pipeline holds in memory. The area
// is released unconditionally after the run unless the caller asked to
// keep the artifacts for inspection.
package staging

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"

	"github.com/rs/zerolog/log"

	"github.com/stockiq/backend-go/internal/analysis"
)

// Area is one run's scratch directory.
type Area struct {
	dir  string
	keep bool
}

// NewArea creates a fresh scratch directory under root (os.TempDir when
// root is empty).
func NewArea(root string, keep bool) (*Area, error) {
	if root != "" {
		if err := os.MkdirAll(root, 0755); err != nil {
			return nil, err
		}
	}
	dir, err := os.MkdirTemp(root, "stockiq-run-")
	if err != nil {
		return nil, err
	}
	return &Area{dir: dir, keep: keep}, nil
}

// Dir returns the scratch directory path.
func (a *Area) Dir() string { return a.dir }

// Close releases the scratch area. Safe to call from a defer regardless of
// how the run ended.
func (a *Area) Close() {
	if a.keep {
		log.Info().Str("dir", a.dir).Msg("staging: keeping run artifacts")
		return
	}
	if err := os.RemoveAll(a.dir); err != nil {
		log.Warn().Err(err).Str("dir", a.dir).Msg("staging: cleanup failed")
	}
}

// Stage dumps the three canonical datasets as CSVs into the area.
func (a *Area) Stage(ds *analysis.Datasets) error {
	salesRows := make([][]string, 0, len(ds.Sales)+1)
	salesRows = append(salesRows, []string{"product_id", "date", "quantity_sold"})
	for _, rec := range ds.Sales {
		salesRows = append(salesRows, []string{
			rec.ProductID,
			rec.Date.Format("2006-01-02"),
			strconv.Itoa(rec.QuantitySold),
		})
	}
	if err := a.writeCSV("sales.csv", salesRows); err != nil {
		return err
	}

	productRows := make([][]string, 0, len(ds.Products)+1)
	productRows = append(productRows, []string{"product_id", "current_stock", "days_to_expiry"})
	for _, rec := range ds.Products {
		productRows = append(productRows, []string{
			rec.ProductID,
			strconv.Itoa(rec.CurrentStock),
			strconv.Itoa(rec.DaysToExpiry),
		})
	}
	if err := a.writeCSV("products.csv", productRows); err != nil {
		return err
	}

	supplierRows := make([][]string, 0, len(ds.Suppliers)+1)
	supplierRows = append(supplierRows, []string{"supplier_id", "supplier_name", "product_id", "lead_time_days", "min_order_qty"})
	for _, rec := range ds.Suppliers {
		supplierRows = append(supplierRows, []string{
			rec.SupplierID,
			rec.SupplierName,
			rec.ProductID,
			strconv.Itoa(rec.LeadTimeDays),
			strconv.Itoa(rec.MinOrderQty),
		})
	}
	return a.writeCSV("suppliers.csv", supplierRows)
}

func (a *Area) writeCSV(name string, rows [][]string) error {
	f, err := os.Create(filepath.Join(a.dir, name))
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}
