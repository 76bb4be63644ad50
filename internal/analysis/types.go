// Package analysis is the per-product decision engine: demand forecasting,
// expiry/stockout risk assessment, supplier terms, and the ordered rule set
// that turns them into a single action recommendation.
package analysis

import (
	"sort"
	"time"
)

// SalesRecord is one canonical sales event.
type SalesRecord struct {
	ProductID    string    `json:"product_id"`
	Date         time.Time `json:"date"`
	QuantitySold int       `json:"quantity_sold"`
}

// ProductRecord is the canonical per-product snapshot.
type ProductRecord struct {
	ProductID    string `json:"product_id"`
	CurrentStock int    `json:"current_stock"`
	DaysToExpiry int    `json:"days_to_expiry"`
}

// SupplierTerms carries the ordering constraints for one product.
type SupplierTerms struct {
	SupplierID   string `json:"supplier_id"`
	SupplierName string `json:"supplier_name"`
	ProductID    string `json:"product_id"`
	LeadTimeDays int    `json:"lead_time_days"`
	MinOrderQty  int    `json:"min_order_qty"`
}

// Datasets bundles the three canonical tables one pipeline run produces.
// Read-only during the per-product loop.
type Datasets struct {
	Sales     []SalesRecord
	Products  []ProductRecord
	Suppliers []SupplierTerms
}

// SalesFor returns the product's sales history in chronological order.
func (d *Datasets) SalesFor(productID string) []SalesRecord {
	var out []SalesRecord
	for _, rec := range d.Sales {
		if rec.ProductID == productID {
			out = append(out, rec)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

// ProductFor looks up the snapshot record for a product.
func (d *Datasets) ProductFor(productID string) (ProductRecord, bool) {
	for _, rec := range d.Products {
		if rec.ProductID == productID {
			return rec, true
		}
	}
	return ProductRecord{}, false
}

// ProductIDs returns the distinct product identifiers in snapshot order.
func (d *Datasets) ProductIDs() []string {
	ids := make([]string, len(d.Products))
	for i, rec := range d.Products {
		ids[i] = rec.ProductID
	}
	return ids
}
