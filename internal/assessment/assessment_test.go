package assessment

import (
	"testing"
	"time"

	"WalletScore/internal/config"
	"WalletScore/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const pool = "0x87870bca3f3fd6335c3f4ce8392d69350b4fa4e2"

var t0 = time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)

func day(n int) time.Time { return t0.Add(time.Duration(n) * 24 * time.Hour) }

func ev(t model.EventType, hash string, at time.Time) model.ProtocolEvent {
	return model.ProtocolEvent{ContractAddress: pool, EventType: t, TxHash: hash, Timestamp: at}
}

func analysis(events ...model.ProtocolEvent) model.ProtocolAnalysis {
	stats := &model.ProtocolStats{Address: pool, ProtocolName: "Aave V3 Pool", Events: events}
	for _, e := range events {
		switch e.EventType {
		case model.EventBorrow:
			stats.BorrowCount++
		case model.EventRepay:
			stats.RepayCount++
		case model.EventLiquidate:
			stats.LiquidateCount++
		case model.EventSupply:
			stats.SupplyCount++
		}
	}
	return model.ProtocolAnalysis{
		Protocols: map[string]*model.ProtocolStats{pool: stats},
		Summary:   model.LendingSummary{TotalBorrows: stats.BorrowCount, TotalRepays: stats.RepayCount},
	}
}

func TestTimelinesRepaidEarly(t *testing.T) {
	a := analysis(ev(model.EventBorrow, "0xb", t0), ev(model.EventRepay, "0xr", day(5)))
	ts := Timelines(a, config.MatchExclusive)

	require.Len(t, ts.Timelines, 1)
	tl := ts.Timelines[0]
	assert.Equal(t, model.StatusRepaid, tl.Status)
	require.NotNil(t, tl.DaysToRepay)
	assert.Equal(t, 5, *tl.DaysToRepay)
	assert.Equal(t, "0xr", tl.RepayTx)
	assert.Equal(t, 1, ts.RepaidCount)
	assert.Equal(t, 5.0, ts.AverageRepaymentDays)

	p := MeasurePunctuality(ts)
	assert.Equal(t, 1, p.EarlyCount)
	assert.Equal(t, 0, p.OnTimeCount)
	assert.Equal(t, 100.0, p.PunctualityScore)
}

func TestTimelinesMatchPolicy(t *testing.T) {
	a := analysis(
		ev(model.EventBorrow, "0xb1", t0),
		ev(model.EventBorrow, "0xb2", day(1)),
		ev(model.EventRepay, "0xr1", day(10)),
	)

	excl := Timelines(a, config.MatchExclusive)
	assert.Equal(t, 1, excl.RepaidCount)
	assert.Equal(t, 1, excl.OutstandingCount)
	assert.Equal(t, model.StatusOutstanding, excl.Timelines[1].Status)

	reuse := Timelines(a, config.MatchFirstLater)
	assert.Equal(t, 2, reuse.RepaidCount)
	assert.Equal(t, 0, reuse.OutstandingCount)
	assert.Equal(t, 9, *reuse.FastestRepaymentDays)
	assert.Equal(t, 10, *reuse.SlowestRepaymentDays)
}

func TestTimelinesPicksEarliestLaterRepay(t *testing.T) {
	a := analysis(
		ev(model.EventRepay, "0xearly", t0.Add(-time.Hour)),
		ev(model.EventRepay, "0xlate", day(40)),
		ev(model.EventBorrow, "0xb", t0),
		ev(model.EventRepay, "0xmid", day(20)),
	)
	ts := Timelines(a, config.MatchExclusive)
	require.Len(t, ts.Timelines, 1)
	assert.Equal(t, "0xmid", ts.Timelines[0].RepayTx)
	assert.Equal(t, 20, *ts.Timelines[0].DaysToRepay)
}

func TestPunctualityBands(t *testing.T) {
	d := func(n int) *int { return &n }
	ts := model.TimelineSummary{Timelines: []model.RepaymentTimeline{
		{Status: model.StatusRepaid, DaysToRepay: d(6)},
		{Status: model.StatusRepaid, DaysToRepay: d(7)},
		{Status: model.StatusRepaid, DaysToRepay: d(90)},
		{Status: model.StatusRepaid, DaysToRepay: d(91)},
		{Status: model.StatusOutstanding},
	}}
	p := MeasurePunctuality(ts)
	assert.Equal(t, 1, p.EarlyCount)
	assert.Equal(t, 2, p.OnTimeCount)
	assert.Equal(t, 1, p.LateCount)
	assert.Equal(t, 1, p.OutstandingCount)
	assert.InDelta(t, 75.0, p.PunctualityScore, 1e-9)
	assert.InDelta(t, 0.5, p.OnTimeRate, 1e-9)
}

func TestPunctualityEmpty(t *testing.T) {
	p := MeasurePunctuality(model.TimelineSummary{})
	assert.Zero(t, p.PunctualityScore)
	assert.Zero(t, p.EarlyRate)
}

func TestBorrowingFrequency(t *testing.T) {
	t.Run("none", func(t *testing.T) {
		f := BorrowingFrequency(model.ProtocolAnalysis{}, 400)
		assert.Equal(t, TrendNone, f.Trend)
		assert.Zero(t, f.BorrowsPerMonth)
	})

	t.Run("single month", func(t *testing.T) {
		f := BorrowingFrequency(analysis(ev(model.EventBorrow, "0x1", t0)), 10)
		assert.Equal(t, TrendInsufficient, f.Trend)
		assert.Equal(t, 1.0, f.BorrowsPerMonth)
		assert.Equal(t, "2024-01", f.MostActiveMonth)
	})

	t.Run("increasing", func(t *testing.T) {
		a := analysis(
			ev(model.EventBorrow, "0x1", t0),
			ev(model.EventBorrow, "0x2", day(40)),
			ev(model.EventBorrow, "0x3", day(41)),
			ev(model.EventBorrow, "0x4", day(42)),
		)
		f := BorrowingFrequency(a, 120)
		assert.Equal(t, TrendIncreasing, f.Trend)
		assert.Equal(t, "2024-02", f.MostActiveMonth)
		assert.InDelta(t, 1.0, f.BorrowsPerMonth, 1e-9)
	})

	t.Run("stable", func(t *testing.T) {
		a := analysis(ev(model.EventBorrow, "0x1", t0), ev(model.EventBorrow, "0x2", day(40)))
		f := BorrowingFrequency(a, 60)
		assert.Equal(t, TrendStable, f.Trend)
		assert.Equal(t, "2024-01", f.MostActiveMonth)
	})
}

func TestEmergencyRepayments(t *testing.T) {
	a := analysis(
		ev(model.EventBorrow, "0xb", t0),
		ev(model.EventRepay, "0xfast", t0.Add(6*time.Hour)),
		ev(model.EventRepay, "0xedge", t0.Add(24*time.Hour)),
		ev(model.EventRepay, "0xslow", t0.Add(25*time.Hour)),
		ev(model.EventRepay, "0xsame", t0),
	)
	e := EmergencyRepayments(a)
	assert.Equal(t, 2, e.Count)
	assert.True(t, e.HasEmergency)
	assert.Equal(t, 100.0, e.CrisisResponseScore)
	assert.Equal(t, 6.0, e.Events[0].HoursToRepay)

	none := EmergencyRepayments(model.ProtocolAnalysis{})
	assert.False(t, none.HasEmergency)
	assert.Equal(t, 50.0, none.CrisisResponseScore)
	assert.NotNil(t, none.Events)
}

func TestProtocolPerformance(t *testing.T) {
	a := analysis(
		ev(model.EventBorrow, "0x1", t0),
		ev(model.EventBorrow, "0x2", day(1)),
		ev(model.EventRepay, "0x3", day(2)),
	)
	other := "0xc3d688b66703497daa19211eedff47f25384cdc3"
	a.Protocols[other] = &model.ProtocolStats{
		Address: other, ProtocolName: "Compound V3 USDC", BorrowCount: 1, RepayCount: 1,
	}
	a.Protocols["0x0000000000000000000000000000000000000001"] = &model.ProtocolStats{SupplyCount: 3}

	s := ProtocolPerformance(a)
	require.Len(t, s.Protocols, 2)
	assert.Equal(t, "Compound V3 USDC", s.BestProtocol)
	assert.Equal(t, "Aave V3 Pool", s.WorstProtocol)
	assert.InDelta(t, 0.75, s.AverageRepaymentRate, 1e-9)

	grades := map[string]string{}
	for _, p := range s.Protocols {
		grades[p.ProtocolName] = p.Grade
	}
	assert.Equal(t, "C", grades["Aave V3 Pool"])
	assert.Equal(t, "A", grades["Compound V3 USDC"])
}

func TestPerformanceGrade(t *testing.T) {
	assert.Equal(t, "A", performanceGrade(1.0, 0))
	assert.Equal(t, "B", performanceGrade(1.0, 1))
	assert.Equal(t, "B", performanceGrade(0.8, 0))
	assert.Equal(t, "C", performanceGrade(0.5, 0))
	assert.Equal(t, "D", performanceGrade(0.49, 0))
}

func TestCapitalLooping(t *testing.T) {
	t.Run("borrow then supply", func(t *testing.T) {
		l := CapitalLooping(analysis(ev(model.EventBorrow, "0xb", t0), ev(model.EventSupply, "0xs", day(1))))
		require.Len(t, l.Instances, 1)
		assert.Equal(t, model.PatternBorrowThenSupply, l.Instances[0].Pattern)
		assert.Equal(t, 1.0, l.LoopRatio)
		assert.True(t, l.HasLoopingBehavior)
		assert.Equal(t, 1, l.CompoundCount)
		assert.Equal(t, StrategyRecursive, l.LeverageStrategy)
	})

	t.Run("non adjacent", func(t *testing.T) {
		l := CapitalLooping(analysis(
			ev(model.EventSupply, "0xs", t0),
			ev(model.EventWithdraw, "0xw", day(1)),
			ev(model.EventBorrow, "0xb", day(2)),
		))
		assert.Zero(t, l.LoopingCount)
		assert.False(t, l.HasLoopingBehavior)
		assert.Equal(t, StrategyNone, l.LeverageStrategy)
	})
}

func stableHolding(v float64) model.TokenHolding {
	return model.TokenHolding{Symbol: "USDC", Category: model.CategoryStablecoin, ValueUSD: v}
}

func TestBalanceSheet(t *testing.T) {
	p := &model.WalletProfile{
		ETHBalance: 1,
		Holdings: []model.TokenHolding{
			stableHolding(1000),
			{Symbol: "UNI", Category: model.CategoryGovernance, ValueUSD: 3000},
			{Symbol: "X", ValueUSD: 10},
		},
	}
	nav := TreasuryNAV(p, 2000)
	assert.Equal(t, 6010.0, nav.TotalNAV)
	assert.Equal(t, 2000.0, nav.ETHValueUSD)
	assert.Equal(t, 10.0, nav.ByCategory["unknown"])
	assert.Equal(t, "governance", nav.LargestCategory)

	lb := LiquidityBuffer(p)
	assert.Equal(t, 1000.0, lb.LiquidAssetsUSD)
	assert.InDelta(t, 1000.0/4010, lb.LiquidityRatio, 1e-9)
	assert.Equal(t, 2.0, lb.RunwayMonths)
	assert.Equal(t, HealthModerate, lb.Health)

	st := StressTest(p, nav)
	require.Len(t, st.Scenarios, 3)
	assert.InDelta(t, 980+5010*0.5, st.Scenarios[1].ShockedNAV, 1e-9)
	assert.Equal(t, ResilienceHigh, st.Resilience)

	lev := EstimateLeverage(2, nav.TotalNAV)
	assert.Equal(t, 2000.0, lev.EstimatedDebtUSD)
	assert.InDelta(t, 2000.0/6010, lev.LeverageRatio, 1e-9)
}

func TestStressResilience(t *testing.T) {
	p := &model.WalletProfile{Holdings: []model.TokenHolding{{Symbol: "PEPE", ValueUSD: 100}}}
	st := StressTest(p, TreasuryNAV(p, 2800))
	assert.Equal(t, 50.0, st.Scenarios[1].ShockedNAV)
	assert.InDelta(t, 0.3, st.Scenarios[2].RetainedRatio, 1e-9)
	assert.Equal(t, ResilienceHigh, st.Resilience)

	empty := &model.WalletProfile{}
	assert.Equal(t, ResilienceLow, StressTest(empty, TreasuryNAV(empty, 2800)).Resilience)
}

func TestEmptyProfileNeverDividesByZero(t *testing.T) {
	a := New(config.StaticPrice(2800), "").Assess(&model.WalletProfile{})
	assert.Zero(t, a.BalanceSheet.NAV.TotalNAV)
	assert.Equal(t, HealthPoor, a.BalanceSheet.Liquidity.Health)
	assert.Zero(t, a.BalanceSheet.Leverage.LeverageRatio)
	assert.Equal(t, ResilienceLow, a.BalanceSheet.Stress.Resilience)
	assert.Zero(t, a.CashFlow.DSCR.DSCR)
	assert.Equal(t, CoveragePoor, a.CashFlow.DSCR.Health)
	assert.Zero(t, a.Proceeds.Looping.LoopRatio)
	assert.Empty(t, a.Performance.Timelines.Timelines)
}

func TestDebtServiceCoverage(t *testing.T) {
	d := DebtServiceCoverage(model.TransferAnalysis{AgeDays: 300, TxCount: 60}, 2)
	assert.InDelta(t, 60.0, d.MonthlyRevenueUSD, 1e-9)
	assert.Equal(t, 2000.0, d.OutstandingDebtUSD)
	assert.InDelta(t, 2000*0.05/12, d.MonthlyInterestUSD, 1e-9)
	assert.InDelta(t, 60/(2000*0.05/12), d.DSCR, 1e-9)
	assert.Equal(t, CoverageExcellent, d.Health)

	rs := RevenueStress(d, 1000)
	assert.True(t, rs.BreakpointFound)
	assert.Equal(t, 90, rs.BreakpointPct)
	assert.Equal(t, ResilienceHigh, rs.Resilience)
	for _, sc := range rs.Scenarios {
		assert.True(t, sc.CanSurvive)
		assert.Nil(t, sc.MonthsToInsolvency)
	}
}

func TestRevenueStressBreakpoint(t *testing.T) {
	d := model.DebtServiceCoverage{MonthlyRevenueUSD: 100, MonthlyInterestUSD: 65}
	rs := RevenueStress(d, 1000)
	require.True(t, rs.BreakpointFound)
	assert.Equal(t, 40, rs.BreakpointPct)
	assert.Equal(t, ResilienceLow, rs.Resilience)

	last := rs.Scenarios[2]
	assert.False(t, last.CanSurvive)
	require.NotNil(t, last.MonthsToInsolvency)
	assert.InDelta(t, 300.0/35, *last.MonthsToInsolvency, 1e-9)
}

func TestRevenueStressSurvival(t *testing.T) {
	tests := []struct {
		name     string
		revenue  float64
		interest float64
		nav      float64
		survive  []bool
		months   []float64
	}{
		// 30%: net -1, reserve 30000 lasts 30000 months.
		{"deep reserve outlasts deficit", 10, 8, 100000, []bool{true, true, true}, []float64{30000, 100000.0 * 0.3 / 3, 30000.0 / 5}},
		// 30%: net -20 over a 300 reserve is 15 months, 50%: -40 is 7.5.
		{"thin reserve", 100, 90, 1000, []bool{true, false, false}, []float64{15, 7.5, 300.0 / 60}},
		{"no reserve", 10, 8, 0, []bool{false, false, false}, []float64{0, 0, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := model.DebtServiceCoverage{MonthlyRevenueUSD: tt.revenue, MonthlyInterestUSD: tt.interest}
			rs := RevenueStress(d, tt.nav)
			require.Len(t, rs.Scenarios, 3)
			for i, sc := range rs.Scenarios {
				assert.Equal(t, tt.survive[i], sc.CanSurvive, "shock %d%%", sc.ShockPct)
				require.NotNil(t, sc.MonthsToInsolvency)
				assert.InDelta(t, tt.months[i], *sc.MonthsToInsolvency, 1e-9)
			}
		})
	}
}

func TestRevenueStressZeroCashFlowSurvives(t *testing.T) {
	rs := RevenueStress(model.DebtServiceCoverage{}, 0)
	for _, sc := range rs.Scenarios {
		assert.Zero(t, sc.NetCashFlow)
		assert.True(t, sc.CanSurvive)
		assert.Nil(t, sc.MonthsToInsolvency)
	}
}
