// Package scoring reduces a wallet profile and its credit assessment to a
// score and grade. Scoring is a pure function of its inputs.
package scoring

import (
	"math"

	"WalletScore/internal/config"
	"WalletScore/internal/model"
)

const (
	MinScore = 0
	MaxScore = 850
)

// Engine computes the canonical 0-850 score.
type Engine struct {
	oracle config.PriceOracle
}

// New creates an Engine valuing ETH with oracle.
func New(oracle config.PriceOracle) *Engine {
	return &Engine{oracle: oracle}
}

// Score computes the canonical score. a may be nil when no assessment ran.
func (e *Engine) Score(p *model.WalletProfile, a *model.CreditAssessment) *model.ScoreResult {
	in := newInputs(p, a, e.oracle.ETHUSD())

	payment := scorePaymentHistory(in)
	amounts := scoreAmounts(in)
	history := scoreLengthOfHistory(in)
	newCredit := scoreNewCredit(in)
	mix := scoreCreditMix(in)
	reputation := scoreReputation(in)
	penalty := riskPenalty(in)

	breakdown := model.ScoreBreakdown{
		PaymentHistory:  round2(payment.Points),
		AmountsOwed:     round2(amounts.Points),
		LengthOfHistory: round2(history.Points),
		NewCredit:       round2(newCredit.Points),
		CreditMix:       round2(mix.Points),
		ReputationBonus: round2(reputation.Points),
		RiskPenalty:     -round2(penalty.Points),
	}

	raw := payment.Points + amounts.Points + history.Points + newCredit.Points + mix.Points +
		reputation.Points - penalty.Points
	score := int(math.Max(MinScore, math.Min(raw, MaxScore)))
	g := mapGrade(score, Grades, DefaultGrade)

	res := &model.ScoreResult{
		Score:     score,
		Grade:     g.Grade,
		Rating:    g.Label,
		Breakdown: breakdown,
		Factors:   []model.FactorScore{payment, amounts, history, newCredit, mix, reputation, penalty},
		RiskFlags: riskFlags(in),
		Details:   details(in),
		PortfolioAnalysis: model.PortfolioAnalysis{
			Concentration:   p.Concentration,
			Volatility:      p.VolatilityRisk,
			StablecoinRatio: round2(in.stableRatio),
			LiquidityScore:  round2(in.liquidity),
		},
	}

	lc := p.LendingCredit
	res.CreditHistory = model.CreditHistory{
		HasLendingHistory: lc.HasLendingHistory,
		CreditScore:       lc.CreditScore,
		Creditworthiness:  lc.Creditworthiness,
		TotalBorrows:      lc.TotalBorrows,
		TotalRepays:       lc.TotalRepays,
		Liquidations:      lc.Liquidations,
		RepaymentRatio:    round2(lc.RepaymentRatio),
		PunctualityScore:  round2(in.punctuality),
	}
	return res
}

func details(in *inputs) model.ScoreDetails {
	p := in.p
	return model.ScoreDetails{
		TotalAssetsUSD:     round2(in.totalAssets),
		ETHBalance:         p.ETHBalance,
		TokenValueUSD:      round2(in.tokenValue),
		NFTValueETH:        p.NFTValue.TotalFloorETH,
		StablecoinValueUSD: round2(p.Stablecoins.TotalUSD),
		WalletAgeDays:      p.Activity.AgeDays,
		TxCount:            p.Activity.TxCount,
		ActiveMonths:       p.Activity.ActiveMonths,
		AvgTxPerMonth:      round2(p.Activity.AvgTxPerMonth),
		DeFiProtocols:      p.DeFi.TotalProtocols,
		StakingEvents:      p.DeFi.StakingEvents,
		MixerInteraction:   p.Mixer.HasMixerInteraction,
		VerifiedNFTs:       p.NFTQuality.VerifiedCount,
		BlueChipNFTs:       p.NFTValue.BlueChipCount,
		POAPCount:          len(p.NFTs.POAPs),
		HasENS:             len(p.NFTs.ENS) > 0,
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
