package model

import "time"

// RepaymentStatus of a borrow.
type RepaymentStatus string

const (
	StatusRepaid      RepaymentStatus = "repaid"
	StatusOutstanding RepaymentStatus = "outstanding"
)

// RepaymentTimeline follows one borrow to its matched repay, if any.
type RepaymentTimeline struct {
	Protocol     string          `json:"protocol"`
	ProtocolName string          `json:"protocol_name"`
	BorrowTx     string          `json:"borrow_tx"`
	BorrowTime   time.Time       `json:"borrow_time"`
	RepayTx      string          `json:"repay_tx,omitempty"`
	RepayTime    *time.Time      `json:"repay_time,omitempty"`
	DaysToRepay  *int            `json:"days_to_repay,omitempty"`
	Status       RepaymentStatus `json:"status"`
}

// TimelineSummary aggregates all repayment timelines.
type TimelineSummary struct {
	Timelines            []RepaymentTimeline `json:"timelines"`
	TotalBorrowings      int                 `json:"total_borrowings"`
	RepaidCount          int                 `json:"repaid_count"`
	OutstandingCount     int                 `json:"outstanding_count"`
	AverageRepaymentDays float64             `json:"average_repayment_days"`
	FastestRepaymentDays *int                `json:"fastest_repayment_days,omitempty"`
	SlowestRepaymentDays *int                `json:"slowest_repayment_days,omitempty"`
}

// Punctuality buckets repaid loans by speed.
type Punctuality struct {
	EarlyCount       int     `json:"early_count"`
	OnTimeCount      int     `json:"on_time_count"`
	LateCount        int     `json:"late_count"`
	OutstandingCount int     `json:"outstanding_count"`
	EarlyRate        float64 `json:"early_rate"`
	OnTimeRate       float64 `json:"on_time_rate"`
	LateRate         float64 `json:"late_rate"`
	PunctualityScore float64 `json:"punctuality_score"`
}

// BorrowingFrequency describes borrow cadence over calendar months.
type BorrowingFrequency struct {
	TotalBorrows    int            `json:"total_borrows"`
	BorrowsPerMonth float64        `json:"borrows_per_month"`
	MonthlyBorrows  map[string]int `json:"monthly_borrows"`
	Trend           string         `json:"trend"`
	MostActiveMonth string         `json:"most_active_month,omitempty"`
}

// EmergencyRepayment is a repay landing within 24 hours of a borrow.
type EmergencyRepayment struct {
	Protocol     string  `json:"protocol"`
	BorrowTx     string  `json:"borrow_tx"`
	RepayTx      string  `json:"repay_tx"`
	HoursToRepay float64 `json:"hours_to_repay"`
}

// EmergencyRepayments summarises fast repayments.
type EmergencyRepayments struct {
	Count               int                  `json:"count"`
	Events              []EmergencyRepayment `json:"events"`
	HasEmergency        bool                 `json:"has_emergency_repayments"`
	CrisisResponseScore float64              `json:"crisis_response_score"`
}

// ProtocolPerformance is the repayment record at one protocol.
type ProtocolPerformance struct {
	Protocol      string  `json:"protocol"`
	ProtocolName  string  `json:"protocol_name"`
	Borrows       int     `json:"borrows"`
	Repays        int     `json:"repays"`
	Liquidations  int     `json:"liquidations"`
	RepaymentRate float64 `json:"repayment_rate"`
	Grade         string  `json:"grade"`
}

// ProtocolPerformanceSummary ranks protocols by repayment rate.
type ProtocolPerformanceSummary struct {
	Protocols            []ProtocolPerformance `json:"protocols"`
	BestProtocol         string                `json:"best_protocol,omitempty"`
	WorstProtocol        string                `json:"worst_protocol,omitempty"`
	AverageRepaymentRate float64               `json:"average_repayment_rate"`
}

// Loop patterns.
const (
	PatternSupplyThenBorrow = "supply_then_borrow"
	PatternBorrowThenSupply = "borrow_then_supply"
)

// LoopInstance is one adjacent supply/borrow pair.
type LoopInstance struct {
	Protocol  string    `json:"protocol"`
	Pattern   string    `json:"pattern"`
	FirstTx   string    `json:"first_tx"`
	SecondTx  string    `json:"second_tx"`
	Timestamp time.Time `json:"timestamp"`
}

// CapitalLooping summarises leverage loops.
type CapitalLooping struct {
	Instances          []LoopInstance `json:"instances"`
	LoopingCount       int            `json:"looping_count"`
	RecursiveCount     int            `json:"recursive_count"`
	CompoundCount      int            `json:"compound_count"`
	LoopRatio          float64        `json:"loop_ratio"`
	HasLoopingBehavior bool           `json:"has_looping_behavior"`
	LeverageStrategy   string         `json:"leverage_strategy"`
}

// PerformanceSignals groups repayment behaviour.
type PerformanceSignals struct {
	Timelines           TimelineSummary            `json:"repayment_timelines"`
	Punctuality         Punctuality                `json:"punctuality"`
	Frequency           BorrowingFrequency         `json:"borrowing_frequency"`
	Emergency           EmergencyRepayments        `json:"emergency_repayments"`
	ProtocolPerformance ProtocolPerformanceSummary `json:"protocol_performance"`
}

// TreasuryNAV values the wallet in USD.
type TreasuryNAV struct {
	TotalNAV        float64            `json:"total_nav"`
	TokenValueUSD   float64            `json:"token_value_usd"`
	ETHValueUSD     float64            `json:"eth_value_usd"`
	ETHPriceUSD     float64            `json:"eth_price_usd"`
	ByCategory      map[string]float64 `json:"by_category"`
	LargestCategory string             `json:"largest_category,omitempty"`
}

// Leverage estimates debt against assets.
type Leverage struct {
	OutstandingLoans int     `json:"outstanding_loans"`
	EstimatedDebtUSD float64 `json:"estimated_debt_usd"`
	LeverageRatio    float64 `json:"leverage_ratio"`
}

// LiquidityBuffer measures quickly spendable assets.
type LiquidityBuffer struct {
	LiquidAssetsUSD float64 `json:"liquid_assets_usd"`
	TotalAssetsUSD  float64 `json:"total_assets_usd"`
	LiquidityRatio  float64 `json:"liquidity_ratio"`
	RunwayMonths    float64 `json:"runway_months"`
	Health          string  `json:"health"`
}

// StressScenario is the NAV after one price shock.
type StressScenario struct {
	ShockPct      int     `json:"shock_pct"`
	ShockedNAV    float64 `json:"shocked_nav"`
	NAVChange     float64 `json:"nav_change"`
	RetainedRatio float64 `json:"retained_ratio"`
}

// StressTest runs the fixed price shocks.
type StressTest struct {
	CurrentNAV float64          `json:"current_nav"`
	Scenarios  []StressScenario `json:"scenarios"`
	Resilience string           `json:"stress_resilience"`
}

// BalanceSheetSignals groups asset-side metrics.
type BalanceSheetSignals struct {
	NAV       TreasuryNAV     `json:"treasury_nav"`
	Leverage  Leverage        `json:"leverage"`
	Liquidity LiquidityBuffer `json:"liquidity_buffer"`
	Stress    StressTest      `json:"stress_test"`
}

// ProceedsSignals describes how borrowed funds were used.
type ProceedsSignals struct {
	Looping CapitalLooping `json:"capital_looping"`
}

// DebtServiceCoverage compares proxy revenue to proxy interest.
type DebtServiceCoverage struct {
	MonthlyRevenueUSD  float64 `json:"monthly_revenue_usd"`
	OutstandingDebtUSD float64 `json:"outstanding_debt_usd"`
	MonthlyInterestUSD float64 `json:"monthly_interest_usd"`
	DSCR               float64 `json:"dscr"`
	Health             string  `json:"health"`
}

// RevenueScenario is one revenue shock.
type RevenueScenario struct {
	ShockPct           int      `json:"shock_pct"`
	ShockedRevenue     float64  `json:"shocked_revenue"`
	NetCashFlow        float64  `json:"net_cash_flow"`
	MonthsToInsolvency *float64 `json:"months_to_insolvency,omitempty"`
	CanSurvive         bool     `json:"can_survive"`
}

// RevenueStress finds the shock at which interest exceeds revenue.
type RevenueStress struct {
	Scenarios       []RevenueScenario `json:"scenarios"`
	BreakpointPct   int               `json:"breakpoint_pct"`
	BreakpointFound bool              `json:"breakpoint_found"`
	Resilience      string            `json:"resilience"`
}

// CashFlowSignals groups debt-service metrics.
type CashFlowSignals struct {
	DSCR          DebtServiceCoverage `json:"debt_service_coverage"`
	RevenueStress RevenueStress       `json:"revenue_stress"`
}

// CreditAssessment is the assessment engine output.
type CreditAssessment struct {
	Wallet       string              `json:"wallet"`
	Performance  PerformanceSignals  `json:"performance"`
	BalanceSheet BalanceSheetSignals `json:"balance_sheet"`
	Proceeds     ProceedsSignals     `json:"proceeds"`
	CashFlow     CashFlowSignals     `json:"cash_flow"`
	Score        *ComprehensiveScore `json:"credit_score,omitempty"`
}
