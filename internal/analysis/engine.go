package analysis

// ForecastSummary is the forecast slice of a Result as exposed to callers.
type ForecastSummary struct {
	Days           []string `json:"days"`
	PredictedUnits []int    `json:"predicted_units"`
	TotalDemand    int      `json:"total_demand"`
	Confidence     float64  `json:"confidence"`
}

// RiskDetails carries the concrete figures behind the risk grade.
type RiskDetails struct {
	DaysToExpiry   int      `json:"days_to_expiry"`
	DaysToStockout *float64 `json:"days_to_stockout"`
	CurrentStock   int      `json:"current_stock"`
	DailyVelocity  float64  `json:"daily_velocity"`
}

// Result is the full decision output for one product. Ephemeral: computed
// per request, never persisted.
type Result struct {
	ProductID   string          `json:"product_id"`
	Forecast    ForecastSummary `json:"forecast"`
	ExpiryRisk  RiskLevel       `json:"expiry_risk"`
	RiskDetails RiskDetails     `json:"risk_details"`
	Decision    Action          `json:"decision"`
	Quantity    int             `json:"quantity"`
	Explanation string          `json:"explanation"`
}

// Run executes the full decision chain for a single product: forecast,
// risk, supplier terms, then the rule evaluator. The only error case is a
// product missing from the snapshot table.
func Run(ds *Datasets, productID string, forecastDays int) (Result, error) {
	forecast := ForecastDemand(ds, productID, forecastDays)

	risk, err := AssessExpiryRisk(ds, productID)
	if err != nil {
		return Result{}, err
	}

	supplier := SupplierFor(ds.Suppliers, productID)
	decision := Decide(forecast, risk, supplier)

	return Result{
		ProductID: productID,
		Forecast: ForecastSummary{
			Days:           forecast.Days,
			PredictedUnits: forecast.DailyForecast,
			TotalDemand:    forecast.TotalDemand,
			Confidence:     forecast.Confidence,
		},
		ExpiryRisk: risk.Level,
		RiskDetails: RiskDetails{
			DaysToExpiry:   risk.DaysToExpiry,
			DaysToStockout: risk.DaysToStockout,
			CurrentStock:   risk.CurrentStock,
			DailyVelocity:  risk.DailyVelocity,
		},
		Decision:    decision.Action,
		Quantity:    decision.Quantity,
		Explanation: decision.Explanation,
	}, nil
}
