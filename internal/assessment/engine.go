// Package assessment derives repayment behaviour, balance-sheet and
// cash-flow signals from a wallet profile. Every function is pure.
package assessment

import (
	"WalletScore/internal/config"
	"WalletScore/internal/model"
)

// Assessor runs the full credit assessment.
type Assessor struct {
	oracle config.PriceOracle
	policy string
}

// New creates an Assessor. An empty policy means config.MatchExclusive.
func New(oracle config.PriceOracle, policy string) *Assessor {
	if policy == "" {
		policy = config.MatchExclusive
	}
	return &Assessor{oracle: oracle, policy: policy}
}

// Assess builds the credit assessment for p. It never fails: missing data
// produces zeroed signals.
func (a *Assessor) Assess(p *model.WalletProfile) *model.CreditAssessment {
	timelines := Timelines(p.Lending, a.policy)

	perf := model.PerformanceSignals{
		Timelines:           timelines,
		Punctuality:         MeasurePunctuality(timelines),
		Frequency:           BorrowingFrequency(p.Lending, p.Activity.AgeDays),
		Emergency:           EmergencyRepayments(p.Lending),
		ProtocolPerformance: ProtocolPerformance(p.Lending),
	}

	nav := TreasuryNAV(p, a.oracle.ETHUSD())
	bs := model.BalanceSheetSignals{
		NAV:       nav,
		Leverage:  EstimateLeverage(timelines.OutstandingCount, nav.TotalNAV),
		Liquidity: LiquidityBuffer(p),
		Stress:    StressTest(p, nav),
	}

	dscr := DebtServiceCoverage(p.Activity, timelines.OutstandingCount)

	return &model.CreditAssessment{
		Wallet:       p.Address,
		Performance:  perf,
		BalanceSheet: bs,
		Proceeds:     model.ProceedsSignals{Looping: CapitalLooping(p.Lending)},
		CashFlow: model.CashFlowSignals{
			DSCR:          dscr,
			RevenueStress: RevenueStress(dscr, nav.TotalNAV),
		},
	}
}
