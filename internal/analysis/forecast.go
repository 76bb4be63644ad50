package analysis

import (
	"fmt"
	"math"
)

// DefaultForecastDays is the standard forecast horizon.
const DefaultForecastDays = 7

// Forecast is the demand projection for one product.
type Forecast struct {
	Days          []string  `json:"days"`
	DailyForecast []int     `json:"daily_forecast"`
	TotalDemand   int       `json:"total_demand"`
	AverageDaily  float64   `json:"average_daily"`
	TrendPct      float64   `json:"trend"`
	Confidence    float64   `json:"confidence"`
}

// ForecastDemand projects demand over the next horizon days using the
// product's sales history: a rolling average with a linearly ramping trend
// factor.
func ForecastDemand(ds *Datasets, productID string, horizon int) Forecast {
	if horizon <= 0 {
		horizon = DefaultForecastDays
	}
	history := ds.SalesFor(productID)

	dailyAvg := averageQuantity(history)
	trend := trendOf(history)
	conf := confidenceOf(history, dailyAvg)

	days := make([]string, 0, horizon)
	daily := make([]int, 0, horizon)
	total := 0
	for day := 1; day <= horizon; day++ {
		factor := 1 + trend*float64(day)/float64(horizon)
		predicted := int(math.Round(dailyAvg * factor))
		if predicted < 0 {
			predicted = 0
		}
		days = append(days, fmt.Sprintf("Day %d", day))
		daily = append(daily, predicted)
		total += predicted
	}

	return Forecast{
		Days:          days,
		DailyForecast: daily,
		TotalDemand:   total,
		AverageDaily:  roundTo(dailyAvg, 1),
		TrendPct:      roundTo(trend*100, 1),
		Confidence:    conf,
	}
}

func averageQuantity(history []SalesRecord) float64 {
	if len(history) == 0 {
		return 0
	}
	sum := 0.0
	for _, rec := range history {
		sum += float64(rec.QuantitySold)
	}
	return sum / float64(len(history))
}

// trendOf is the relative change between the first and second half of the
// chronologically sorted history. Too little data, or a zero first-half
// mean, yields no trend.
func trendOf(history []SalesRecord) float64 {
	if len(history) < 4 {
		return 0
	}
	mid := len(history) / 2
	firstAvg := averageQuantity(history[:mid])
	secondAvg := averageQuantity(history[mid:])
	if firstAvg == 0 {
		return 0
	}
	return (secondAvg - firstAvg) / firstAvg
}

// confidenceOf maps the coefficient of variation onto [0.3, 1.0]: perfectly
// consistent history gives 1.0, and anything under three records or a zero
// mean falls back to the 0.3 floor.
func confidenceOf(history []SalesRecord, mean float64) float64 {
	if len(history) < 3 || mean == 0 {
		return 0.3
	}
	variance := 0.0
	for _, rec := range history {
		d := float64(rec.QuantitySold) - mean
		variance += d * d
	}
	std := math.Sqrt(variance / float64(len(history)-1))
	cv := std / mean
	conf := 1.0 - cv*0.5
	if conf < 0.3 {
		conf = 0.3
	}
	if conf > 1.0 {
		conf = 1.0
	}
	return roundTo(conf, 2)
}

func roundTo(v float64, decimals int) float64 {
	factor := math.Pow(10, float64(decimals))
	return math.Round(v*factor) / factor
}
