package calculator

import (
	"errors"
	"math"

	"WalletScore/internal/model"
)

// ErrInsufficientPrices is returned when a series has fewer than two usable prices.
var ErrInsufficientPrices = errors.New("not enough valid prices for volatility")

// highVolatilityPct marks a token as highly volatile.
const highVolatilityPct = 50

// neutralVolatilityRisk is used when holdings exist but none has a volatility figure.
const neutralVolatilityRisk = 50

// DailyReturns computes simple returns between consecutive samples,
// skipping any pair where either price is zero or missing.
func DailyReturns(prices []float64) []float64 {
	var returns []float64
	for i := 1; i < len(prices); i++ {
		prev, cur := prices[i-1], prices[i]
		if prev <= 0 || cur <= 0 {
			continue
		}
		returns = append(returns, (cur-prev)/prev)
	}
	return returns
}

// Volatility returns the population standard deviation of daily returns as a percentage.
func Volatility(prices []float64) (float64, error) {
	valid := 0
	for _, p := range prices {
		if p > 0 {
			valid++
		}
	}
	if valid < 2 {
		return 0, ErrInsufficientPrices
	}
	returns := DailyReturns(prices)
	if len(returns) == 0 {
		return 0, ErrInsufficientPrices
	}
	return PopulationStdDev(returns) * 100, nil
}

// VolatilityFromPoints is Volatility over a fetched price series.
func VolatilityFromPoints(points []model.PricePoint) (float64, error) {
	return Volatility(extractValues(points))
}

// Mean returns the arithmetic mean, 0 for an empty slice.
func Mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// PopulationStdDev divides by N, not N-1.
func PopulationStdDev(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	m := Mean(xs)
	var sq float64
	for _, x := range xs {
		d := x - m
		sq += d * d
	}
	return math.Sqrt(sq / float64(len(xs)))
}

// PortfolioVolatilityRisk blends average volatility with the value share held
// in highly volatile tokens into a 0-100 score.
func PortfolioVolatilityRisk(holdings []model.TokenHolding) model.VolatilityRisk {
	if len(holdings) == 0 {
		return model.VolatilityRisk{}
	}

	var vols []float64
	var totalValue, highVolValue float64
	for _, h := range holdings {
		totalValue += h.ValueUSD
		if h.Volatility30d == nil {
			continue
		}
		vols = append(vols, *h.Volatility30d)
		if *h.Volatility30d > highVolatilityPct {
			highVolValue += h.ValueUSD
		}
	}
	if len(vols) == 0 {
		return model.VolatilityRisk{RiskScore: neutralVolatilityRisk}
	}

	avg := Mean(vols)
	var exposure float64
	if totalValue > 0 {
		exposure = highVolValue / totalValue
	}
	return model.VolatilityRisk{
		AvgVolatility:   avg,
		HighVolExposure: exposure,
		RiskScore:       math.Min(avg+exposure*50, 100),
	}
}

func extractValues(points []model.PricePoint) []float64 {
	values := make([]float64, len(points))
	for i, p := range points {
		values[i] = p.Value
	}
	return values
}
