package lending

import (
	"testing"
	"time"

	"WalletScore/internal/config"
	"WalletScore/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	aaveV3   = "0x87870bca3f3fd6335c3f4ce8392d69350b4fa4e2"
	unknownC = "0x00000000000000000000000000000000000000c0"
)

var t0 = time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

func TestClassifyEvent(t *testing.T) {
	cases := []struct {
		sig  string
		want model.EventType
	}{
		{"borrow(address,uint256,uint256,uint16,address)", model.EventBorrow},
		{"flashLoan(address,address[],uint256[])", model.EventBorrow},
		{"repay(address,uint256,uint256,address)", model.EventRepay},
		{"repayBorrow(uint256)", model.EventRepay},
		{"repayWithATokens(address,uint256,uint256)", model.EventRepay},
		{"liquidationCall(address,address,address,uint256,bool)", model.EventLiquidate},
		{"liquidateBorrow(address,uint256,address)", model.EventLiquidate},
		{"supply(address,uint256,address,uint16)", model.EventSupply},
		{"deposit(uint256)", model.EventSupply},
		{"mint(uint256)", model.EventSupply},
		{"withdraw(address,uint256,address)", model.EventWithdraw},
		{"redeemUnderlying(uint256)", model.EventWithdraw},
		{"transfer(address,uint256)", model.EventOther},
		{"approve(address,uint256)", model.EventOther},
		{"swapExactTokensForTokens(uint256)", model.EventOther},
		{"", model.EventOther},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ClassifyEvent(tc.sig), tc.sig)
	}
}

func TestSignature(t *testing.T) {
	assert.Equal(t, "borrow", Signature("borrow(address,uint256)"))
	assert.Equal(t, "execute", Signature(" execute "))
}

func tx(hash, to, fn string, at time.Time) model.Transaction {
	return model.Transaction{Hash: hash, To: to, FunctionName: fn, Timestamp: at}
}

func TestAnalyze(t *testing.T) {
	a := NewAnalyzer(config.DefaultRegistry())
	txs := []model.Transaction{
		tx("0x1", "0x87870BCA3F3FD6335C3F4CE8392D69350B4FA4E2", "supply(address,uint256,address,uint16)", t0),
		tx("0x2", aaveV3, "borrow(address,uint256,uint256,uint16,address)", t0.Add(time.Hour)),
		tx("0x3", aaveV3, "repay(address,uint256,uint256,address)", t0.AddDate(0, 0, 5)),
		tx("0x4", unknownC, "transfer(address,uint256)", t0.AddDate(0, 0, 6)),
		{Hash: "0x5", To: aaveV3, FunctionName: "borrow()", IsError: true},
		{Hash: "0x6", To: "", FunctionName: "constructor"},
	}

	got := a.Analyze(txs)
	require.Len(t, got.Protocols, 2)

	aave := got.Protocols[aaveV3]
	require.NotNil(t, aave)
	assert.Equal(t, "Aave V3 Pool", aave.ProtocolName)
	assert.Equal(t, 1, aave.SupplyCount)
	assert.Equal(t, 1, aave.BorrowCount)
	assert.Equal(t, 1, aave.RepayCount)
	assert.Equal(t, 3, aave.TotalInteractions)
	require.Len(t, aave.Events, 3)
	assert.Equal(t, model.EventSupply, aave.Events[0].EventType)
	assert.Equal(t, t0, *aave.FirstInteraction)
	assert.Equal(t, t0.AddDate(0, 0, 5), *aave.LastInteraction)

	other := got.Protocols[unknownC]
	assert.Equal(t, config.UnknownProtocol, other.ProtocolName)
	assert.Equal(t, 1, other.OtherCount)
	assert.Equal(t, 1, other.TotalInteractions)

	s := got.Summary
	assert.Equal(t, 2, s.TotalProtocols)
	assert.Equal(t, 1, s.TotalBorrows)
	assert.Equal(t, 1, s.TotalRepays)
	assert.Equal(t, 1, s.TotalOther)
	assert.True(t, s.HasLendingHistory)
	assert.Equal(t, 1.0, s.RepaymentRatio)

	assert.Equal(t, RiskLow, got.Risk.LiquidationRisk)
	assert.Equal(t, DebtActive, got.Risk.DebtManagement)
	assert.Equal(t, DebtActive, got.Risk.BorrowingActivity)
	assert.Equal(t, []string{unknownC, aaveV3}, got.Addresses())
}

func TestAnalyze_Empty(t *testing.T) {
	got := NewAnalyzer(config.DefaultRegistry()).Analyze(nil)
	assert.Empty(t, got.Protocols)
	assert.Equal(t, RiskUnknown, got.Risk.LiquidationRisk)
	assert.Equal(t, DebtInactive, got.Risk.DebtManagement)
	assert.Equal(t, ActivityNone, got.Risk.BorrowingActivity)
	assert.Zero(t, got.Summary.RepaymentRatio)
}

func TestAnalyze_LiquidationRisk(t *testing.T) {
	got := NewAnalyzer(config.DefaultRegistry()).Analyze([]model.Transaction{
		tx("0x1", aaveV3, "borrow()", t0),
		tx("0x2", aaveV3, "borrow()", t0),
		tx("0x3", aaveV3, "borrow()", t0),
		tx("0x4", aaveV3, "repay()", t0),
		tx("0x5", aaveV3, "liquidationCall()", t0),
	})
	assert.Equal(t, RiskHigh, got.Risk.LiquidationRisk)
	assert.Equal(t, 0.33, got.Risk.RepaymentRatio)
	assert.InDelta(t, 1.0/3.0, got.Summary.RepaymentRatio, 1e-12)
}

func TestCreditworthiness(t *testing.T) {
	cases := []struct {
		name         string
		borrows      int
		repays       int
		liquidations int
		wantScore    float64
		wantTier     string
	}{
		{"no borrowing", 0, 0, 0, 50, TierPoor},
		{"fully repaid", 4, 4, 0, 100, TierExcellent},
		{"over repaid", 2, 3, 0, 100, TierExcellent},
		{"ninety percent", 10, 9, 0, 95, TierExcellent},
		{"three quarters", 4, 3, 0, 75, TierGood},
		{"half", 2, 1, 0, 55, TierPoor},
		{"none repaid", 3, 0, 0, 30, TierVeryPoor},
		{"repaid but liquidated", 2, 2, 1, 80, TierGood},
		{"floor at zero", 3, 0, 3, 0, TierVeryPoor},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			sum := model.LendingSummary{
				TotalBorrows:      tc.borrows,
				TotalRepays:       tc.repays,
				TotalLiquidations: tc.liquidations,
				HasLiquidations:   tc.liquidations > 0,
			}
			if tc.borrows > 0 {
				sum.RepaymentRatio = float64(tc.repays) / float64(tc.borrows)
			}
			c := Creditworthiness(model.ProtocolAnalysis{Summary: sum})
			assert.Equal(t, tc.wantScore, c.CreditScore)
			assert.Equal(t, tc.wantTier, c.Creditworthiness)
			assert.Equal(t, tc.liquidations > 0, c.HasDefaultHistory)
			assert.Equal(t, tc.borrows > 0, c.HasBorrowing)
		})
	}
}
