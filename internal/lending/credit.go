package lending

import (
	"math"

	"WalletScore/internal/model"
)

// Creditworthiness tiers.
const (
	TierExcellent = "EXCELLENT"
	TierGood      = "GOOD"
	TierFair      = "FAIR"
	TierPoor      = "POOR"
	TierVeryPoor  = "VERY POOR"
)

// neutralCreditScore is used when there is no borrowing to judge.
const neutralCreditScore = 50

// liquidationDeduction is subtracted per liquidation.
const liquidationDeduction = 20

var repaymentLadder = []struct {
	MinRatio float64
	Score    float64
}{
	{1.0, 100},
	{0.9, 95},
	{0.8, 85},
	{0.7, 75},
	{0.6, 65},
	{0.5, 55},
	{0.4, 45},
}

var creditTiers = []struct {
	MinScore float64
	Tier     string
}{
	{90, TierExcellent},
	{75, TierGood},
	{60, TierFair},
	{40, TierPoor},
}

// Creditworthiness derives the 0-100 lending credit score.
func Creditworthiness(a model.ProtocolAnalysis) model.LendingCredit {
	s := a.Summary
	c := model.LendingCredit{
		CreditScore:       neutralCreditScore,
		RepaymentRatio:    s.RepaymentRatio,
		TotalBorrows:      s.TotalBorrows,
		TotalRepays:       s.TotalRepays,
		Liquidations:      s.TotalLiquidations,
		HasLendingHistory: s.HasLendingHistory,
		HasDefaultHistory: s.TotalLiquidations > 0,
		HasBorrowing:      s.TotalBorrows > 0,
	}

	if s.TotalBorrows > 0 {
		c.CreditScore = 30
		for _, step := range repaymentLadder {
			if s.RepaymentRatio >= step.MinRatio {
				c.CreditScore = step.Score
				break
			}
		}
	}
	c.CreditScore -= float64(s.TotalLiquidations * liquidationDeduction)
	c.CreditScore = math.Max(0, math.Min(100, c.CreditScore))

	c.Creditworthiness = TierVeryPoor
	for _, t := range creditTiers {
		if c.CreditScore >= t.MinScore {
			c.Creditworthiness = t.Tier
			break
		}
	}
	return c
}
