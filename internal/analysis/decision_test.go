package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func stockout(v float64) *float64 { return &v }

func defaultTerms() SupplierTerms {
	return SupplierTerms{
		SupplierID:   "SUP-P1",
		ProductID:    "P1",
		LeadTimeDays: DefaultLeadTimeDays,
		MinOrderQty:  DefaultMinOrderQty,
	}
}

func TestDecideDiscountOnExpiryRisk(t *testing.T) {
	forecast := Forecast{TotalDemand: 70}
	risk := RiskAssessment{
		Level:          RiskHigh,
		DaysToExpiry:   10,
		DaysToStockout: stockout(50),
		CurrentStock:   100,
		ExcessUnits:    40,
	}

	d := Decide(forecast, risk, defaultTerms())

	assert.Equal(t, ActionDiscount, d.Action)
	assert.Equal(t, 40, d.Quantity)
	assert.Equal(t, "Expiry in 10 days. Stock exceeds demand. Discount to reduce waste.", d.Explanation)
}

func TestDecideDiscountBeatsReorder(t *testing.T) {
	// Imminent stockout would normally trigger a reorder; high expiry risk
	// with excess stock wins.
	forecast := Forecast{TotalDemand: 70}
	risk := RiskAssessment{
		Level:          RiskHigh,
		DaysToExpiry:   3,
		DaysToStockout: stockout(2),
		CurrentStock:   100,
		ExcessUnits:    40,
	}

	d := Decide(forecast, risk, defaultTerms())
	assert.Equal(t, ActionDiscount, d.Action)
}

func TestDecideReorderOnImminentStockout(t *testing.T) {
	forecast := Forecast{TotalDemand: 70}
	risk := RiskAssessment{
		Level:          RiskLow,
		DaysToExpiry:   30,
		DaysToStockout: stockout(0.5),
		CurrentStock:   5,
	}

	d := Decide(forecast, risk, defaultTerms())

	assert.Equal(t, ActionReorder, d.Action)
	// round(70 * 1.2) - 5 = 79.
	assert.Equal(t, 79, d.Quantity)
	assert.Equal(t,
		"Stock depletes in 1 days. Supplier delivers in 3 days. Order now to avoid lost sales.",
		d.Explanation)
}

func TestDecideReorderOnLowStock(t *testing.T) {
	// Stockout is comfortably away but stock covers under 80% of forecast
	// demand.
	forecast := Forecast{TotalDemand: 70}
	risk := RiskAssessment{
		Level:          RiskLow,
		DaysToExpiry:   30,
		DaysToStockout: stockout(10),
		CurrentStock:   50,
	}

	d := Decide(forecast, risk, defaultTerms())

	assert.Equal(t, ActionReorder, d.Action)
	// round(70 * 1.2) - 50 = 34.
	assert.Equal(t, 34, d.Quantity)
	assert.Equal(t, "Stock running low. Demand is steady. Reorder 34 units to maintain availability.", d.Explanation)
}

func TestDecideWait(t *testing.T) {
	forecast := Forecast{TotalDemand: 70}
	risk := RiskAssessment{
		Level:          RiskLow,
		DaysToExpiry:   30,
		DaysToStockout: stockout(20),
		CurrentStock:   100,
	}

	d := Decide(forecast, risk, defaultTerms())

	assert.Equal(t, ActionWait, d.Action)
	assert.Equal(t, 0, d.Quantity)
	assert.Equal(t, "Stock levels healthy. No action needed. Next review in 3 days.", d.Explanation)
}

func TestReorderQuantity(t *testing.T) {
	tests := []struct {
		name     string
		demand   int
		stock    int
		minOrder int
		want     int
	}{
		{"above minimum", 70, 5, 20, 79},
		{"below minimum rounds up", 10, 5, 20, 20},
		{"stock already covers target", 10, 50, 20, 0},
		{"exact coverage", 10, 12, 20, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, reorderQuantity(tt.demand, tt.stock, tt.minOrder))
		})
	}
}

func TestSupplierFor(t *testing.T) {
	known := SupplierTerms{SupplierID: "SUP-9", ProductID: "P1", LeadTimeDays: 7, MinOrderQty: 100}

	got := SupplierFor([]SupplierTerms{known}, "P1")
	assert.Equal(t, known, got)

	fallback := SupplierFor([]SupplierTerms{known}, "P2")
	assert.Equal(t, "SUP-P2", fallback.SupplierID)
	assert.Equal(t, "Supplier for P2", fallback.SupplierName)
	assert.Equal(t, DefaultLeadTimeDays, fallback.LeadTimeDays)
	assert.Equal(t, DefaultMinOrderQty, fallback.MinOrderQty)
}

func TestRunFullChain(t *testing.T) {
	ds := riskDataset(5, 30, 10, 10)
	ds.Suppliers = DefaultSuppliers([]string{"P1"})

	result, err := Run(ds, "P1", 7)
	assert.NoError(t, err)

	assert.Equal(t, "P1", result.ProductID)
	assert.Equal(t, 70, result.Forecast.TotalDemand)
	assert.Equal(t, RiskLow, result.ExpiryRisk)
	assert.Equal(t, ActionReorder, result.Decision)
	assert.Equal(t, 79, result.Quantity)
	assert.Equal(t, 5, result.RiskDetails.CurrentStock)
}

func TestRunUnknownProduct(t *testing.T) {
	ds := riskDataset(5, 30, 10, 10)
	_, err := Run(ds, "P9", 7)
	assert.Error(t, err)
}
