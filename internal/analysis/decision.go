package analysis

import (
	"fmt"
	"math"
)

// Action is the recommended inventory move for one product.
type Action string

const (
	ActionReorder  Action = "REORDER"
	ActionDiscount Action = "DISCOUNT"
	ActionWait     Action = "WAIT"
)

// safetyBuffer pads the reorder target above forecast demand.
const safetyBuffer = 1.2

// Decision is the outcome of the rule evaluator.
type Decision struct {
	Action      Action `json:"decision"`
	Quantity    int    `json:"quantity"`
	Explanation string `json:"explanation"`
}

// Decide applies the ordered business rules; the first matching rule wins.
//
//  1. HIGH expiry risk with excess stock -> DISCOUNT the excess.
//  2. Stockout at or before lead time + 2 days -> REORDER.
//  3. Stock under 80% of forecast demand -> REORDER.
//  4. Otherwise -> WAIT.
func Decide(forecast Forecast, risk RiskAssessment, supplier SupplierTerms) Decision {
	if risk.Level == RiskHigh && risk.ExcessUnits > 0 {
		return Decision{
			Action:      ActionDiscount,
			Quantity:    risk.ExcessUnits,
			Explanation: fmt.Sprintf("Expiry in %d days. Stock exceeds demand. Discount to reduce waste.", risk.DaysToExpiry),
		}
	}

	if risk.DaysToStockout != nil && *risk.DaysToStockout <= float64(supplier.LeadTimeDays)+2 {
		qty := reorderQuantity(forecast.TotalDemand, risk.CurrentStock, supplier.MinOrderQty)
		return Decision{
			Action:      ActionReorder,
			Quantity:    qty,
			Explanation: reorderExplanation(risk.DaysToStockout, supplier.LeadTimeDays, qty),
		}
	}

	if float64(risk.CurrentStock) < float64(forecast.TotalDemand)*0.8 {
		qty := reorderQuantity(forecast.TotalDemand, risk.CurrentStock, supplier.MinOrderQty)
		return Decision{
			Action:      ActionReorder,
			Quantity:    qty,
			Explanation: reorderExplanation(risk.DaysToStockout, supplier.LeadTimeDays, qty),
		}
	}

	return Decision{
		Action:      ActionWait,
		Quantity:    0,
		Explanation: "Stock levels healthy. No action needed. Next review in 3 days.",
	}
}

// reorderQuantity covers forecast demand plus the safety buffer, respects
// the supplier's minimum order, and orders nothing when stock already
// suffices.
func reorderQuantity(totalDemand, currentStock, minOrder int) int {
	target := int(math.Round(float64(totalDemand) * safetyBuffer))
	needed := target - currentStock
	if needed <= 0 {
		return 0
	}
	if needed < minOrder {
		return minOrder
	}
	return needed
}

func reorderExplanation(daysToStockout *float64, leadTime, quantity int) string {
	if daysToStockout != nil && *daysToStockout < float64(leadTime)+1 {
		return fmt.Sprintf("Stock depletes in %d days. Supplier delivers in %d days. Order now to avoid lost sales.",
			int(math.Round(*daysToStockout)), leadTime)
	}
	return fmt.Sprintf("Stock running low. Demand is steady. Reorder %d units to maintain availability.", quantity)
}
