package assessment

import (
	"math"

	"WalletScore/internal/model"
)

const (
	revenuePerTxUSD   = 10.0
	annualInterest    = 0.05
	insolvencyReserve = 0.3
	survivalMonths    = 12.0
)

// DSCR health labels.
const (
	CoverageExcellent = "excellent"
	CoverageGood      = "good"
	CoverageAdequate  = "adequate"
	CoveragePoor      = "poor"
)

// DebtServiceCoverage compares a tx-frequency revenue proxy to interest on
// the estimated outstanding debt.
func DebtServiceCoverage(activity model.TransferAnalysis, outstanding int) model.DebtServiceCoverage {
	months := max(float64(activity.AgeDays)/30, 1)
	revenue := float64(activity.TxCount) / months * revenuePerTxUSD
	debt := float64(outstanding) * assumedDebtPerLoanUSD
	interest := debt * annualInterest / 12

	d := model.DebtServiceCoverage{
		MonthlyRevenueUSD:  revenue,
		OutstandingDebtUSD: debt,
		MonthlyInterestUSD: interest,
		DSCR:               revenue / max(interest, 1),
	}
	switch {
	case d.DSCR > 2.5:
		d.Health = CoverageExcellent
	case d.DSCR > 1.5:
		d.Health = CoverageGood
	case d.DSCR > 1.0:
		d.Health = CoverageAdequate
	default:
		d.Health = CoveragePoor
	}
	return d
}

// RevenueStress shocks revenue and looks for the smallest shock, in 10%
// steps, at which interest is no longer covered. A scenario with negative
// cash flow still survives while the liquid reserve outlasts a year.
func RevenueStress(d model.DebtServiceCoverage, nav float64) model.RevenueStress {
	rs := model.RevenueStress{BreakpointPct: 90}

	for _, pct := range shockLevels {
		shocked := d.MonthlyRevenueUSD * (1 - float64(pct)/100)
		net := shocked - d.MonthlyInterestUSD
		sc := model.RevenueScenario{
			ShockPct:       pct,
			ShockedRevenue: shocked,
			NetCashFlow:    net,
			CanSurvive:     net >= 0,
		}
		if net < 0 {
			m := nav * insolvencyReserve / math.Abs(net)
			sc.MonthsToInsolvency = &m
			sc.CanSurvive = m > survivalMonths
		}
		rs.Scenarios = append(rs.Scenarios, sc)
	}

	for pct := 10; pct <= 90; pct += 10 {
		if d.MonthlyRevenueUSD*(1-float64(pct)/100) < d.MonthlyInterestUSD {
			rs.BreakpointPct = pct
			rs.BreakpointFound = true
			break
		}
	}

	switch {
	case !rs.BreakpointFound || rs.BreakpointPct > 60:
		rs.Resilience = ResilienceHigh
	case rs.BreakpointPct > 40:
		rs.Resilience = ResilienceModerate
	default:
		rs.Resilience = ResilienceLow
	}
	return rs
}
