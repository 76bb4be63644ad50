package analysis

import "fmt"

// Fallback supplier terms used whenever no supplier row matches a product.
const (
	DefaultLeadTimeDays = 3
	DefaultMinOrderQty  = 20
)

// SupplierFor returns the supplier terms for a product, falling back to the
// standard defaults for unmatched products.
func SupplierFor(suppliers []SupplierTerms, productID string) SupplierTerms {
	for _, s := range suppliers {
		if s.ProductID == productID {
			return s
		}
	}
	return defaultSupplier(productID)
}

// DefaultSuppliers synthesizes a supplier table with fixed default terms
// for every product, used when the upload carries no supplier source.
func DefaultSuppliers(productIDs []string) []SupplierTerms {
	out := make([]SupplierTerms, 0, len(productIDs))
	for _, pid := range productIDs {
		out = append(out, defaultSupplier(pid))
	}
	return out
}

func defaultSupplier(productID string) SupplierTerms {
	return SupplierTerms{
		SupplierID:   fmt.Sprintf("SUP-%s", productID),
		SupplierName: fmt.Sprintf("Supplier for %s", productID),
		ProductID:    productID,
		LeadTimeDays: DefaultLeadTimeDays,
		MinOrderQty:  DefaultMinOrderQty,
	}
}
