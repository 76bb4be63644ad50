// Package inference maps an accepted table's arbitrary column names onto
// canonical semantic roles, materializes the canonical datasets, and fans
// out to the per-product decision engine.
package inference

import (
	"errors"

	"github.com/stockiq/backend-go/internal/patterns"
	"github.com/stockiq/backend-go/internal/table"
)

// RoleMapping binds semantic roles to original column labels for one
// table. Built fresh per request, discarded afterwards.
type RoleMapping map[patterns.Role]string

// Role-validation failures, each naming the missing role.
var (
	ErrNoProductColumn = errors.New("Unable to identify a product identifier column. Please ensure your file has a column for product IDs, SKUs, or item codes.")
	ErrNoQuantityColumn = errors.New("Unable to identify a quantity column. Please ensure your file has a column for units, stock levels, or quantities sold.")
	ErrNoDateColumn = errors.New("Unable to identify a date column. Please ensure your file has a column for dates or time periods.")
)

// InferRoles walks the registry's fixed priority order and binds each role
// to the first unused matching column. A column consumed by one role is
// never reused; when quantity_sold stays unbound but quantity is bound, the
// same column serves both. Pure function of (columns, registry).
func InferRoles(reg *patterns.Registry, tbl *table.Table) RoleMapping {
	mapping := make(RoleMapping)
	used := make(map[string]bool)

	for _, role := range reg.RolePriority() {
		for _, label := range tbl.Labels() {
			if used[label] {
				continue
			}
			if !reg.MatchesRole(role, label) {
				continue
			}
			if role == patterns.RoleQuantity {
				if _, bound := mapping[patterns.RoleQuantitySold]; bound {
					continue
				}
			}
			mapping[role] = label
			used[label] = true
			break
		}
	}

	if _, bound := mapping[patterns.RoleQuantitySold]; !bound {
		if col, ok := mapping[patterns.RoleQuantity]; ok {
			mapping[patterns.RoleQuantitySold] = col
		}
	}

	return mapping
}

// ValidateRequiredRoles confirms the minimum role set: a product
// identifier, some quantity signal, and a date.
func ValidateRequiredRoles(mapping RoleMapping) error {
	if _, ok := mapping[patterns.RoleProductID]; !ok {
		return ErrNoProductColumn
	}

	_, hasQuantity := mapping[patterns.RoleQuantity]
	_, hasQuantitySold := mapping[patterns.RoleQuantitySold]
	_, hasStock := mapping[patterns.RoleCurrentStock]
	if !hasQuantity && !hasQuantitySold && !hasStock {
		return ErrNoQuantityColumn
	}

	if _, ok := mapping[patterns.RoleDate]; !ok {
		return ErrNoDateColumn
	}
	return nil
}

// DataType labels what kind of file the bound roles describe: pure sales
// history, an inventory snapshot, or both combined.
func (m RoleMapping) DataType() string {
	_, hasSales := m[patterns.RoleQuantitySold]
	_, hasQuantity := m[patterns.RoleQuantity]
	_, hasStock := m[patterns.RoleCurrentStock]
	_, hasDate := m[patterns.RoleDate]
	stockish := hasQuantity || hasStock

	switch {
	case hasSales && hasDate:
		return "sales"
	case stockish && !hasDate:
		return "inventory"
	case stockish && hasDate:
		return "combined"
	case hasSales:
		return "sales"
	default:
		return "unknown"
	}
}

// IdentifiedFields summarizes the bound roles for the upload report.
func (m RoleMapping) IdentifiedFields() []string {
	var fields []string
	if _, ok := m[patterns.RoleProductID]; ok {
		fields = append(fields, "Product identifiers")
	} else if _, ok := m[patterns.RoleProductName]; ok {
		fields = append(fields, "Product identifiers")
	}
	if _, ok := m[patterns.RoleQuantity]; ok {
		fields = append(fields, "Stock levels")
	} else if _, ok := m[patterns.RoleCurrentStock]; ok {
		fields = append(fields, "Stock levels")
	}
	if _, ok := m[patterns.RoleQuantitySold]; ok {
		fields = append(fields, "Sales data")
	}
	if _, ok := m[patterns.RoleDate]; ok {
		fields = append(fields, "Date/time information")
	}
	if _, ok := m[patterns.RoleExpiry]; ok {
		fields = append(fields, "Expiry dates")
	}
	if _, ok := m[patterns.RoleProductName]; ok {
		fields = append(fields, "Product names")
	}
	if _, ok := m[patterns.RolePrice]; ok {
		fields = append(fields, "Pricing")
	}
	return fields
}
