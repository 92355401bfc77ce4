package scoring

import (
	"fmt"
	"math"

	"WalletScore/internal/lending"
	"WalletScore/internal/model"
)

// Component caps.
const (
	capPayment    = 298
	capAmounts    = 255
	capHistory    = 128
	capNewCredit  = 85
	capMix        = 85
	capReputation = 200
)

// inputs are the values shared by several factors, derived once per score.
type inputs struct {
	p            *model.WalletProfile
	ethPrice     float64
	tokenValue   float64
	totalAssets  float64
	punctuality  float64
	repaidLoans  int
	liquidity    float64
	stableRatio  float64
	spamRatio    float64
	liquidations int
}

func newInputs(p *model.WalletProfile, a *model.CreditAssessment, ethPrice float64) *inputs {
	in := &inputs{p: p, ethPrice: ethPrice, tokenValue: p.TokenValueUSD()}
	in.totalAssets = in.tokenValue + p.NFTValue.TotalFloorETH*ethPrice + p.ETHBalance*ethPrice
	if a != nil {
		in.punctuality = a.Performance.Punctuality.PunctualityScore
		in.repaidLoans = a.Performance.Timelines.RepaidCount
	}
	in.stableRatio, in.liquidity = liquidityScore(p.Stablecoins.TotalUSD, in.totalAssets)
	in.spamRatio = float64(len(p.NFTs.Spam)) / float64(max(p.NFTs.Total, 1))
	in.liquidations = p.Lending.Summary.TotalLiquidations
	return in
}

// liquidityScore rewards a stablecoin share between 20% and 50% of assets.
func liquidityScore(stableUSD, total float64) (ratio, score float64) {
	if total == 0 {
		return 0, 0
	}
	ratio = stableUSD / total
	switch {
	case ratio >= 0.2 && ratio <= 0.5:
		score = 100
	case ratio > 0.5:
		score = math.Max(100-(ratio-0.5)*100, 50)
	default:
		score = ratio * 500
	}
	return ratio, math.Min(score, 100)
}

// scorePaymentHistory rewards lending record, protocol usage and steady activity.
func scorePaymentHistory(in *inputs) model.FactorScore {
	p := in.p
	var pts float64

	lc := p.LendingCredit
	if lc.HasBorrowing {
		pts += lc.CreditScore / 100 * 150
		switch lc.Creditworthiness {
		case lending.TierExcellent:
			pts += 30
		case lending.TierGood:
			pts += 20
		}
		if lc.HasDefaultHistory {
			pts -= 50
		}
		if in.repaidLoans > 0 {
			pts += in.punctuality * 0.2
		}
	} else {
		pts += 50
	}

	if p.DeFi.Aave {
		pts += 20
	}
	if p.DeFi.Compound {
		pts += 15
	}
	if p.DeFi.Ethena {
		pts += 15
	}
	if p.DeFi.Morpho {
		pts += 10
	}
	if p.DeFi.TotalProtocols >= 3 {
		pts += 20
	}

	switch months := p.Activity.ActiveMonths; {
	case months > 12:
		pts += 30
	case months > 6:
		pts += 15
	}

	switch rate := p.Activity.AvgTxPerMonth; {
	case rate > 5:
		pts += 20
	case rate > 2:
		pts += 10
	}

	if p.Activity.DormantPeriods == 0 {
		pts += 15
	}

	return model.FactorScore{
		Name:       "payment_history",
		Points:     math.Min(pts, capPayment),
		Cap:        capPayment,
		Commentary: fmt.Sprintf("%d protocols, %d active months", p.DeFi.TotalProtocols, p.Activity.ActiveMonths),
	}
}

// scoreAmounts rewards stablecoin liquidity, asset size and ETH balance.
func scoreAmounts(in *inputs) model.FactorScore {
	pts := in.liquidity + math.Min(in.totalAssets*0.01, 100)

	switch eth := in.p.ETHBalance; {
	case eth > 10:
		pts += 55
	case eth > 1:
		pts += 35
	case eth > 0.1:
		pts += 15
	}

	return model.FactorScore{
		Name:       "amounts_owed",
		Points:     math.Min(pts, capAmounts),
		Cap:        capAmounts,
		Commentary: fmt.Sprintf("$%.0f assets, %.0f%% stablecoins", in.totalAssets, in.stableRatio*100),
	}
}

func scoreLengthOfHistory(in *inputs) model.FactorScore {
	act := in.p.Activity
	years := float64(act.AgeDays) / 365
	pts := math.Min(years*30, 80) + math.Min(float64(act.TxCount)*0.5, 48)
	return model.FactorScore{
		Name:       "length_of_history",
		Points:     math.Min(pts, capHistory),
		Cap:        capHistory,
		Commentary: fmt.Sprintf("%d days, %d transfers", act.AgeDays, act.TxCount),
	}
}

func scoreNewCredit(in *inputs) model.FactorScore {
	var pts float64
	if n := in.p.DeFi.TotalProtocols; n > 0 {
		pts += math.Min(float64(n)*20, 60)
	}
	// Not overextended.
	if in.p.Activity.TxCount < 1000 {
		pts += 25
	}
	return model.FactorScore{Name: "new_credit", Points: math.Min(pts, capNewCredit), Cap: capNewCredit}
}

func scoreCreditMix(in *inputs) model.FactorScore {
	pts := in.p.Concentration.DiversificationScore*0.4 + math.Min(float64(in.p.DeFi.TotalProtocols)*10, 45)
	return model.FactorScore{
		Name:       "credit_mix",
		Points:     math.Min(pts, capMix),
		Cap:        capMix,
		Commentary: fmt.Sprintf("diversification %.0f", in.p.Concentration.DiversificationScore),
	}
}

// scoreReputation is the bonus for POAPs, ENS, verified and blue-chip NFTs,
// staking and clean borrowing.
func scoreReputation(in *inputs) model.FactorScore {
	p := in.p
	pts := math.Min(float64(len(p.NFTs.POAPs))*3, 40)
	if len(p.NFTs.ENS) > 0 {
		pts += 25
	}
	pts += math.Min(float64(p.NFTQuality.VerifiedCount)*5, 60)
	pts += math.Min(float64(p.NFTValue.BlueChipCount)*15, 50)
	if p.DeFi.StakingEvents > 0 {
		pts += math.Min(float64(p.DeFi.StakingEvents)*5, 30)
	}
	if p.LendingCredit.HasBorrowing && !p.LendingCredit.HasDefaultHistory {
		pts += 40
	}
	return model.FactorScore{Name: "reputation_bonus", Points: math.Min(pts, capReputation), Cap: capReputation}
}

// riskPenalty returns the total penalty as a positive number.
func riskPenalty(in *inputs) model.FactorScore {
	p := in.p
	var pts float64

	if p.Mixer.HasMixerInteraction {
		pts += 200
	}

	switch top := p.Concentration.Top1; {
	case top > 0.8:
		pts += 100
	case top > 0.5:
		pts += 50
	}

	switch vol := p.VolatilityRisk.RiskScore; {
	case vol > 70:
		pts += 80
	case vol > 50:
		pts += 40
	}

	switch {
	case in.spamRatio > 0.5:
		pts += 80
	case in.spamRatio > 0.2:
		pts += 40
	}

	if p.Activity.ETHIn > 0 {
		switch imbalance := p.Activity.ETHOut / p.Activity.ETHIn; {
		case imbalance > 10:
			pts += 150
		case imbalance > 5:
			pts += 70
		}
	}

	if p.NFTQuality.VerificationRate < 0.3 && len(p.NFTs.Legit) > 5 {
		pts += 30
	}

	if in.liquidations > 0 {
		pts += math.Min(float64(in.liquidations)*30, 100)
	}

	return model.FactorScore{Name: "risk_penalty", Points: pts}
}

func riskFlags(in *inputs) model.RiskFlags {
	p := in.p
	return model.RiskFlags{
		MixerTransactions:  p.Mixer.HasMixerInteraction,
		HighSpamRatio:      in.spamRatio > 0.2,
		DrainerPattern:     p.Activity.ETHOut/math.Max(p.Activity.ETHIn, 0.001) > 5,
		LowNFTVerification: p.NFTQuality.VerificationRate < 0.3,
		HighConcentration:  p.Concentration.Top1 > 0.5,
		HighVolatility:     p.VolatilityRisk.RiskScore > 50,
		DormantPeriods:     p.Activity.DormantPeriods > 2,
		HasLiquidations:    in.liquidations > 0,
		PoorRepayment:      p.LendingCredit.HasBorrowing && p.LendingCredit.RepaymentRatio < 0.5,
	}
}
