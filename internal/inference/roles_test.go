package inference

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockiq/backend-go/internal/patterns"
	"github.com/stockiq/backend-go/internal/table"
)

func TestInferRolesStandardSalesFile(t *testing.T) {
	tbl := table.New(
		[]string{"Product ID", "Date", "Units Sold", "Stock", "Price"},
		[][]string{{"P1", "2024-01-01", "10", "50", "9.99"}},
	)

	mapping := InferRoles(patterns.Default(), tbl)

	assert.Equal(t, "Product ID", mapping[patterns.RoleProductID])
	assert.Equal(t, "Date", mapping[patterns.RoleDate])
	assert.Equal(t, "Units Sold", mapping[patterns.RoleQuantitySold])
	assert.Equal(t, "Stock", mapping[patterns.RoleCurrentStock])
	assert.Equal(t, "Price", mapping[patterns.RolePrice])
	// quantity stays unbound once quantity_sold has a column of its own.
	_, bound := mapping[patterns.RoleQuantity]
	assert.False(t, bound)
}

func TestInferRolesQuantityAliasing(t *testing.T) {
	tbl := table.New(
		[]string{"SKU", "Date", "Quantity"},
		[][]string{{"P1", "2024-01-01", "10"}},
	)

	mapping := InferRoles(patterns.Default(), tbl)

	assert.Equal(t, "SKU", mapping[patterns.RoleProductID])
	assert.Equal(t, "Quantity", mapping[patterns.RoleQuantity])
	// Without a dedicated sold column the generic quantity column serves
	// both roles.
	assert.Equal(t, "Quantity", mapping[patterns.RoleQuantitySold])
}

func TestInferRolesColumnConsumedOnce(t *testing.T) {
	// One column matching several roles binds only to the highest-priority
	// one.
	tbl := table.New(
		[]string{"product", "sale_date", "qty"},
		[][]string{{"P1", "2024-01-01", "10"}},
	)

	mapping := InferRoles(patterns.Default(), tbl)

	assert.Equal(t, "product", mapping[patterns.RoleProductID])
	_, bound := mapping[patterns.RoleProductName]
	assert.False(t, bound, "product column must not be reused for product_name")
}

func TestInferRolesDeterministic(t *testing.T) {
	tbl := table.New(
		[]string{"item_id", "order_date", "units_sold", "on_hand", "expiry_date"},
		[][]string{{"P1", "2024-01-01", "10", "50", "30"}},
	)

	first := InferRoles(patterns.Default(), tbl)
	second := InferRoles(patterns.Default(), tbl)
	assert.Equal(t, first, second)
}

func TestValidateRequiredRoles(t *testing.T) {
	tests := []struct {
		name    string
		mapping RoleMapping
		wantErr error
	}{
		{
			name: "complete",
			mapping: RoleMapping{
				patterns.RoleProductID: "id",
				patterns.RoleQuantity:  "qty",
				patterns.RoleDate:      "date",
			},
			wantErr: nil,
		},
		{
			name: "stock counts as quantity signal",
			mapping: RoleMapping{
				patterns.RoleProductID:    "id",
				patterns.RoleCurrentStock: "stock",
				patterns.RoleDate:         "date",
			},
			wantErr: nil,
		},
		{
			name: "missing product",
			mapping: RoleMapping{
				patterns.RoleQuantity: "qty",
				patterns.RoleDate:     "date",
			},
			wantErr: ErrNoProductColumn,
		},
		{
			name: "missing quantity",
			mapping: RoleMapping{
				patterns.RoleProductID: "id",
				patterns.RoleDate:      "date",
			},
			wantErr: ErrNoQuantityColumn,
		},
		{
			name: "missing date",
			mapping: RoleMapping{
				patterns.RoleProductID: "id",
				patterns.RoleQuantity:  "qty",
			},
			wantErr: ErrNoDateColumn,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRequiredRoles(tt.mapping)
			if tt.wantErr == nil {
				require.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestRoleValidationMessages(t *testing.T) {
	assert.Equal(t,
		"Unable to identify a product identifier column. Please ensure your file has a column for product IDs, SKUs, or item codes.",
		ErrNoProductColumn.Error())
	assert.Equal(t,
		"Unable to identify a quantity column. Please ensure your file has a column for units, stock levels, or quantities sold.",
		ErrNoQuantityColumn.Error())
	assert.Equal(t,
		"Unable to identify a date column. Please ensure your file has a column for dates or time periods.",
		ErrNoDateColumn.Error())
}

func TestDataType(t *testing.T) {
	tests := []struct {
		name    string
		mapping RoleMapping
		want    string
	}{
		{
			name: "sales history",
			mapping: RoleMapping{
				patterns.RoleQuantitySold: "sold",
				patterns.RoleDate:         "date",
			},
			want: "sales",
		},
		{
			name: "inventory snapshot",
			mapping: RoleMapping{
				patterns.RoleCurrentStock: "stock",
			},
			want: "inventory",
		},
		{
			name: "combined",
			mapping: RoleMapping{
				patterns.RoleCurrentStock: "stock",
				patterns.RoleDate:         "date",
			},
			want: "combined",
		},
		{
			name:    "unknown",
			mapping: RoleMapping{patterns.RoleProductID: "id"},
			want:    "unknown",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.mapping.DataType())
		})
	}
}

func TestIdentifiedFields(t *testing.T) {
	mapping := RoleMapping{
		patterns.RoleProductID:    "id",
		patterns.RoleQuantitySold: "sold",
		patterns.RoleDate:         "date",
		patterns.RoleExpiry:       "expiry",
	}

	assert.Equal(t,
		[]string{"Product identifiers", "Sales data", "Date/time information", "Expiry dates"},
		mapping.IdentifiedFields())
}
