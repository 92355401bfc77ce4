package calculator

import (
	"sort"

	"WalletScore/internal/model"
)

// Concentration computes Herfindahl and top-N value shares of a portfolio.
func Concentration(holdings []model.TokenHolding) model.Concentration {
	c := model.Concentration{NumTokens: len(holdings)}
	if len(holdings) == 0 {
		return c
	}

	values := make([]float64, 0, len(holdings))
	for _, h := range holdings {
		c.TotalValueUSD += h.ValueUSD
		values = append(values, h.ValueUSD)
	}
	if c.TotalValueUSD <= 0 {
		return c
	}

	sort.Sort(sort.Reverse(sort.Float64Slice(values)))
	shares := make([]float64, len(values))
	for i, v := range values {
		shares[i] = v / c.TotalValueUSD
		if v > 0 {
			c.HerfindahlIndex += shares[i] * shares[i]
		}
	}

	c.Top1 = shares[0]
	c.Top3 = c.Top1
	if len(shares) >= 3 {
		c.Top3 = sum(shares[:3])
	}
	c.Top5 = c.Top3
	if len(shares) >= 5 {
		c.Top5 = sum(shares[:5])
	}
	c.DiversificationScore = (1 - c.HerfindahlIndex) * 100
	return c
}

func sum(xs []float64) float64 {
	var s float64
	for _, x := range xs {
		s += x
	}
	return s
}
