package assessment

import (
	"sort"
	"strings"

	"WalletScore/internal/model"
)

const (
	assumedDebtPerLoanUSD = 1000.0
	monthlyBurnUSD        = 500.0
	stablecoinShock       = 0.02
)

// Price shocks in percent, shared by the NAV and revenue stress tests.
var shockLevels = []int{30, 50, 70}

// Symbols counted as liquid besides stablecoins.
var majorAssets = map[string]bool{
	"WETH": true,
	"WBTC": true,
	"USDC": true,
	"USDT": true,
	"DAI":  true,
}

// Liquidity health labels.
const (
	HealthExcellent = "excellent"
	HealthGood      = "good"
	HealthModerate  = "moderate"
	HealthPoor      = "poor"
)

// Resilience labels.
const (
	ResilienceHigh     = "high"
	ResilienceModerate = "moderate"
	ResilienceLow      = "low"
)

// TreasuryNAV values holdings plus native ETH at ethPrice.
func TreasuryNAV(p *model.WalletProfile, ethPrice float64) model.TreasuryNAV {
	nav := model.TreasuryNAV{
		ETHPriceUSD: ethPrice,
		ETHValueUSD: p.ETHBalance * ethPrice,
		ByCategory:  map[string]float64{},
	}
	for _, h := range p.Holdings {
		cat := string(h.Category)
		if cat == "" {
			cat = string(model.CategoryUnknown)
		}
		nav.ByCategory[cat] += h.ValueUSD
		nav.TokenValueUSD += h.ValueUSD
	}
	nav.TotalNAV = nav.TokenValueUSD + nav.ETHValueUSD

	cats := make([]string, 0, len(nav.ByCategory))
	for c := range nav.ByCategory {
		cats = append(cats, c)
	}
	sort.Strings(cats)
	for _, c := range cats {
		if nav.LargestCategory == "" || nav.ByCategory[c] > nav.ByCategory[nav.LargestCategory] {
			nav.LargestCategory = c
		}
	}
	return nav
}

// EstimateLeverage approximates debt from the number of unrepaid loans.
func EstimateLeverage(outstanding int, totalNAV float64) model.Leverage {
	debt := float64(outstanding) * assumedDebtPerLoanUSD
	return model.Leverage{
		OutstandingLoans: outstanding,
		EstimatedDebtUSD: debt,
		LeverageRatio:    debt / max(totalNAV, 1),
	}
}

// LiquidityBuffer measures stablecoins plus major assets against token value.
func LiquidityBuffer(p *model.WalletProfile) model.LiquidityBuffer {
	var liquid, total float64
	for _, h := range p.Holdings {
		total += h.ValueUSD
		switch {
		case h.Category == model.CategoryStablecoin:
			liquid += h.ValueUSD
		case majorAssets[strings.ToUpper(h.Symbol)]:
			liquid += h.ValueUSD
		}
	}

	lb := model.LiquidityBuffer{
		LiquidAssetsUSD: liquid,
		TotalAssetsUSD:  total,
		LiquidityRatio:  liquid / max(total, 1),
		RunwayMonths:    liquid / monthlyBurnUSD,
	}
	switch {
	case lb.LiquidityRatio > 0.5:
		lb.Health = HealthExcellent
	case lb.LiquidityRatio > 0.3:
		lb.Health = HealthGood
	case lb.LiquidityRatio > 0.15:
		lb.Health = HealthModerate
	default:
		lb.Health = HealthPoor
	}
	return lb
}

// StressTest shocks every non-stablecoin asset, ETH included, by each level.
// Stablecoins only lose two percent.
func StressTest(p *model.WalletProfile, nav model.TreasuryNAV) model.StressTest {
	var stable float64
	for _, h := range p.Holdings {
		if h.Category == model.CategoryStablecoin {
			stable += h.ValueUSD
		}
	}
	volatile := nav.TotalNAV - stable

	st := model.StressTest{CurrentNAV: nav.TotalNAV, Resilience: ResilienceLow}
	var halfShock float64
	for _, pct := range shockLevels {
		shock := float64(pct) / 100
		shocked := stable*(1-stablecoinShock) + volatile*(1-shock)
		st.Scenarios = append(st.Scenarios, model.StressScenario{
			ShockPct:      pct,
			ShockedNAV:    shocked,
			NAVChange:     shocked - nav.TotalNAV,
			RetainedRatio: shocked / max(nav.TotalNAV, 1),
		})
		if pct == 50 {
			halfShock = shocked
		}
	}

	switch {
	case halfShock > nav.TotalNAV*0.4:
		st.Resilience = ResilienceHigh
	case halfShock > nav.TotalNAV*0.3:
		st.Resilience = ResilienceModerate
	}
	return st
}
