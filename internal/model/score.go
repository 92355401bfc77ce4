package model

// FactorScore is one scoring component: points earned against the component cap.
type FactorScore struct {
	Name       string  `json:"name"`
	Points     float64 `json:"points"`
	Cap        float64 `json:"cap"`
	Commentary string  `json:"commentary"`
}

// ScoreBreakdown lists the components that sum to the unclamped score.
// RiskPenalty is stored as a negative number.
type ScoreBreakdown struct {
	PaymentHistory  float64 `json:"payment_history"`
	AmountsOwed     float64 `json:"amounts_owed"`
	LengthOfHistory float64 `json:"length_of_history"`
	NewCredit       float64 `json:"new_credit"`
	CreditMix       float64 `json:"credit_mix"`
	ReputationBonus float64 `json:"reputation_bonus"`
	RiskPenalty     float64 `json:"risk_penalty"`
}

// Sum returns the unclamped score.
func (b ScoreBreakdown) Sum() float64 {
	return b.PaymentHistory + b.AmountsOwed + b.LengthOfHistory + b.NewCredit +
		b.CreditMix + b.ReputationBonus + b.RiskPenalty
}

// RiskFlags are the named risk booleans.
type RiskFlags struct {
	MixerTransactions  bool `json:"mixer_transactions"`
	HighSpamRatio      bool `json:"high_spam_ratio"`
	DrainerPattern     bool `json:"drainer_pattern"`
	LowNFTVerification bool `json:"low_nft_verification"`
	HighConcentration  bool `json:"high_concentration"`
	HighVolatility     bool `json:"high_volatility"`
	DormantPeriods     bool `json:"dormant_periods"`
	HasLiquidations    bool `json:"has_liquidations"`
	PoorRepayment      bool `json:"poor_repayment"`
}

// Any reports whether at least one flag is raised.
func (f RiskFlags) Any() bool {
	return f.MixerTransactions || f.HighSpamRatio || f.DrainerPattern || f.LowNFTVerification ||
		f.HighConcentration || f.HighVolatility || f.DormantPeriods || f.HasLiquidations || f.PoorRepayment
}

// ScoreDetails echoes the numbers the score was computed from.
type ScoreDetails struct {
	TotalAssetsUSD     float64 `json:"total_assets_usd"`
	ETHBalance         float64 `json:"eth_balance"`
	TokenValueUSD      float64 `json:"token_value_usd"`
	NFTValueETH        float64 `json:"nft_value_eth"`
	StablecoinValueUSD float64 `json:"stablecoin_value_usd"`
	WalletAgeDays      int     `json:"wallet_age_days"`
	TxCount            int     `json:"tx_count"`
	ActiveMonths       int     `json:"active_months"`
	AvgTxPerMonth      float64 `json:"avg_tx_per_month"`
	DeFiProtocols      int     `json:"defi_protocols"`
	StakingEvents      int     `json:"staking_events"`
	MixerInteraction   bool    `json:"mixer_interaction"`
	VerifiedNFTs       int     `json:"verified_nfts"`
	BlueChipNFTs       int     `json:"blue_chip_nfts"`
	POAPCount          int     `json:"poap_count"`
	HasENS             bool    `json:"has_ens"`
}

// CreditHistory echoes the lending record.
type CreditHistory struct {
	HasLendingHistory bool    `json:"has_lending_history"`
	CreditScore       float64 `json:"credit_score"`
	Creditworthiness  string  `json:"creditworthiness"`
	TotalBorrows      int     `json:"total_borrows"`
	TotalRepays       int     `json:"total_repays"`
	Liquidations      int     `json:"liquidations"`
	RepaymentRatio    float64 `json:"repayment_ratio"`
	PunctualityScore  float64 `json:"punctuality_score"`
}

// PortfolioAnalysis echoes the portfolio statistics.
type PortfolioAnalysis struct {
	Concentration   Concentration  `json:"concentration"`
	Volatility      VolatilityRisk `json:"volatility"`
	StablecoinRatio float64        `json:"stablecoin_ratio"`
	LiquidityScore  float64        `json:"liquidity_score"`
}

// ScoreResult is the canonical 0-850 score.
type ScoreResult struct {
	Score             int               `json:"score"`
	Grade             string            `json:"grade"`
	Rating            string            `json:"rating"`
	Breakdown         ScoreBreakdown    `json:"breakdown"`
	Factors           []FactorScore     `json:"factors"`
	RiskFlags         RiskFlags         `json:"risk_flags"`
	Details           ScoreDetails      `json:"details"`
	CreditHistory     CreditHistory     `json:"credit_history"`
	PortfolioAnalysis PortfolioAnalysis `json:"portfolio_analysis"`
}

// ComprehensiveComponents are the 300-base score parts.
type ComprehensiveComponents struct {
	Payment   float64 `json:"payment"`
	Leverage  float64 `json:"leverage"`
	Proceeds  float64 `json:"proceeds"`
	CashFlow  float64 `json:"cash_flow"`
	Penalties float64 `json:"penalties"`
}

// ComprehensiveScore is the 300-850 assessment score.
type ComprehensiveScore struct {
	Score        int                     `json:"score"`
	Grade        string                  `json:"grade"`
	RiskLevel    string                  `json:"risk_level"`
	Components   ComprehensiveComponents `json:"components"`
	KeyStrengths []string                `json:"key_strengths"`
	KeyRisks     []string                `json:"key_risks"`
}
