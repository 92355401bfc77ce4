package model

import "time"

// WalletProfile is everything known about a wallet, built once per request.
// The scoring engine reads nothing else.
type WalletProfile struct {
	Address    string  `json:"address"`
	ETHBalance float64 `json:"eth_balance"`

	Holdings       []TokenHolding     `json:"holdings"`
	Concentration  Concentration      `json:"concentration"`
	VolatilityRisk VolatilityRisk     `json:"volatility_risk"`
	Stablecoins    StablecoinHoldings `json:"stablecoins"`

	NFTs       NFTPortfolio `json:"nfts"`
	NFTQuality NFTQuality   `json:"nft_quality"`
	NFTValue   NFTValue     `json:"nft_value"`

	Transfers Transfers        `json:"-"`
	Activity  TransferAnalysis `json:"activity"`
	Metadata  WalletMetadata   `json:"metadata"`

	DeFi  DeFiInteractions `json:"defi"`
	Mixer MixerReport      `json:"mixer"`

	Transactions  []Transaction    `json:"-"`
	Lending       ProtocolAnalysis `json:"lending"`
	LendingCredit LendingCredit    `json:"lending_credit"`

	BuiltAt time.Time `json:"built_at"`
}

// TokenValueUSD sums the USD value of all holdings.
func (p *WalletProfile) TokenValueUSD() float64 {
	var total float64
	for _, h := range p.Holdings {
		total += h.ValueUSD
	}
	return total
}

// Report is what one scoring request returns.
type Report struct {
	Wallet      string            `json:"wallet"`
	RequestID   string            `json:"request_id"`
	GeneratedAt time.Time         `json:"generated_at"`
	Profile     *WalletProfile    `json:"profile"`
	Assessment  *CreditAssessment `json:"assessment"`
	Score       *ScoreResult      `json:"score"`
}
