package scoring

import (
	"fmt"
	"math"

	"WalletScore/internal/assessment"
	"WalletScore/internal/model"
)

const (
	assessmentBase = 300
	maxHighlights  = 3
)

// Comprehensive computes the 300-850 score attached to a credit assessment.
// Concentration comes from the profile; everything else from a.
func Comprehensive(p *model.WalletProfile, a *model.CreditAssessment) *model.ComprehensiveScore {
	perf := a.Performance
	bs := a.BalanceSheet
	loop := a.Proceeds.Looping
	cf := a.CashFlow

	c := model.ComprehensiveComponents{
		Payment:   paymentComponent(perf),
		Leverage:  leverageComponent(bs),
		Proceeds:  proceedsComponent(loop),
		CashFlow:  cashFlowComponent(cf),
		Penalties: assessmentPenalties(p, perf, loop),
	}

	raw := assessmentBase + c.Payment + c.Leverage + c.Proceeds + c.CashFlow - c.Penalties
	score := int(math.Max(assessmentBase, math.Min(raw, MaxScore)))
	g := mapGrade(score, AssessmentGrades, DefaultAssessmentGrade)

	return &model.ComprehensiveScore{
		Score:        score,
		Grade:        g.Grade,
		RiskLevel:    g.Label,
		Components:   c,
		KeyStrengths: strengths(perf, bs, loop, cf),
		KeyRisks:     risks(perf, bs, loop, cf),
	}
}

func paymentComponent(perf model.PerformanceSignals) float64 {
	pts := perf.Punctuality.PunctualityScore
	if ts := perf.Timelines; ts.TotalBorrowings > 0 {
		pts += float64(ts.RepaidCount) / float64(ts.TotalBorrowings) * 50
	}
	if pp := perf.ProtocolPerformance; len(pp.Protocols) > 0 {
		pts += pp.AverageRepaymentRate * 42.5
	}
	return math.Min(pts, 192.5)
}

func leverageComponent(bs model.BalanceSheetSignals) float64 {
	var pts float64
	switch r := bs.Liquidity.LiquidityRatio; {
	case r > 0.5:
		pts = 40
	case r > 0.3:
		pts = 30
	case r > 0.15:
		pts = 20
	default:
		pts = 10
	}
	switch bs.Stress.Resilience {
	case assessment.ResilienceHigh:
		pts += 37.5
	case assessment.ResilienceModerate:
		pts += 20
	default:
		pts += 5
	}
	return math.Min(pts, 137.5)
}

func proceedsComponent(loop model.CapitalLooping) float64 {
	var pts float64
	switch r := loop.LoopRatio; {
	case r == 0:
		pts = 60
	case r < 0.3:
		pts = 45
	case r < 0.6:
		pts = 25
	default:
		pts = 5
	}
	return math.Min(pts+50, 110)
}

func cashFlowComponent(cf model.CashFlowSignals) float64 {
	var pts float64
	switch d := cf.DSCR.DSCR; {
	case d > 2.5:
		pts = 70
	case d > 1.5:
		pts = 55
	case d > 1:
		pts = 35
	case d > 0.5:
		pts = 15
	default:
		pts = 5
	}
	switch cf.RevenueStress.Resilience {
	case assessment.ResilienceHigh:
		pts += 40
	case assessment.ResilienceModerate:
		pts += 25
	default:
		pts += 10
	}
	return math.Min(pts, 110)
}

func assessmentPenalties(p *model.WalletProfile, perf model.PerformanceSignals, loop model.CapitalLooping) float64 {
	var pts float64
	pts += math.Min(float64(perf.Emergency.Count)*10, 40)
	pts += math.Min(float64(perf.Timelines.OutstandingCount)*15, 50)
	if loop.LoopRatio > 0.5 {
		pts += 30
	}
	if p.Concentration.HerfindahlIndex > 0.8 {
		pts += 25
	}
	return pts
}

func strengths(perf model.PerformanceSignals, bs model.BalanceSheetSignals, loop model.CapitalLooping, cf model.CashFlowSignals) []string {
	out := []string{}
	if perf.Punctuality.PunctualityScore > 80 {
		out = append(out, "Strong payment history")
	}
	if h := bs.Liquidity.Health; h == assessment.HealthExcellent || h == assessment.HealthGood {
		out = append(out, "Strong liquidity reserves")
	}
	if cf.DSCR.DSCR > 1.5 {
		out = append(out, "Healthy debt service coverage")
	}
	if loop.LoopRatio < 0.3 {
		out = append(out, "Responsible capital usage")
	}
	return out[:min(len(out), maxHighlights)]
}

func risks(perf model.PerformanceSignals, bs model.BalanceSheetSignals, loop model.CapitalLooping, cf model.CashFlowSignals) []string {
	out := []string{}
	if n := perf.Timelines.OutstandingCount; n > 0 {
		out = append(out, fmt.Sprintf("%d outstanding loans", n))
	}
	if bs.Liquidity.Health == assessment.HealthPoor {
		out = append(out, "Limited liquidity buffer")
	}
	if perf.Emergency.HasEmergency {
		out = append(out, "History of emergency repayments")
	}
	if loop.LoopRatio > 0.5 {
		out = append(out, "Excessive capital recycling")
	}
	if cf.DSCR.DSCR < 1 {
		out = append(out, "Insufficient debt service coverage")
	}
	return out[:min(len(out), maxHighlights)]
}
