package analysis

import (
	"fmt"
	"math"
)

// RiskLevel grades the chance of stock expiring unsold.
type RiskLevel string

const (
	RiskLow    RiskLevel = "LOW"
	RiskMedium RiskLevel = "MEDIUM"
	RiskHigh   RiskLevel = "HIGH"
)

// mediumRiskBufferDays is the minimum buffer between stockout and expiry
// below which the risk is graded MEDIUM.
const mediumRiskBufferDays = 2

// RiskAssessment is the expiry/stockout picture for one product.
// DaysToStockout is nil when sales velocity is zero and stock never
// depletes on its own.
type RiskAssessment struct {
	Level          RiskLevel `json:"risk_level"`
	DaysToExpiry   int       `json:"days_to_expiry"`
	DaysToStockout *float64  `json:"days_to_stockout"`
	CurrentStock   int       `json:"current_stock"`
	DailyVelocity  float64   `json:"daily_velocity"`
	ExcessUnits    int       `json:"excess_units"`
}

// AssessExpiryRisk computes the risk picture for a product. A product
// missing from the snapshot table is a lookup failure; the per-product
// wrapper upstream turns it into a skip.
func AssessExpiryRisk(ds *Datasets, productID string) (RiskAssessment, error) {
	product, ok := ds.ProductFor(productID)
	if !ok {
		return RiskAssessment{}, fmt.Errorf("product %s not found", productID)
	}

	velocity := averageQuantity(ds.SalesFor(productID))

	var stockout *float64
	if velocity > 0 {
		v := roundTo(float64(product.CurrentStock)/velocity, 1)
		stockout = &v
	}

	level := riskLevel(product.DaysToExpiry, stockout)
	excess := excessUnits(product, velocity, stockout)

	return RiskAssessment{
		Level:          level,
		DaysToExpiry:   product.DaysToExpiry,
		DaysToStockout: stockout,
		CurrentStock:   product.CurrentStock,
		DailyVelocity:  roundTo(velocity, 1),
		ExcessUnits:    excess,
	}, nil
}

func riskLevel(daysToExpiry int, stockout *float64) RiskLevel {
	if stockout == nil {
		// No sales at all; the goods simply age.
		return RiskHigh
	}
	buffer := float64(daysToExpiry) - *stockout
	switch {
	case buffer < 0:
		return RiskHigh
	case buffer < mediumRiskBufferDays:
		return RiskMedium
	default:
		return RiskLow
	}
}

// excessUnits is the stock beyond what velocity can plausibly sell before
// expiry, counted only when stockout would occur after expiry.
func excessUnits(product ProductRecord, velocity float64, stockout *float64) int {
	if stockout != nil && *stockout <= float64(product.DaysToExpiry) {
		return 0
	}
	sellable := int(math.Round(velocity * float64(product.DaysToExpiry)))
	excess := product.CurrentStock - sellable
	if excess < 0 {
		return 0
	}
	return excess
}
