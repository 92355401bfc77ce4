package model

import (
	"math/big"
	"time"
)

// TokenCategory classifies a token by symbol.
type TokenCategory string

const (
	CategoryStablecoin    TokenCategory = "stablecoin"
	CategoryGovernance    TokenCategory = "governance"
	CategoryLiquidStaking TokenCategory = "liquid_staking"
	CategoryWrapped       TokenCategory = "wrapped"
	CategoryUnknown       TokenCategory = "unknown"
)

// RawBalance is an ERC-20 balance in base units, parsed at the fetch boundary.
type RawBalance struct {
	ContractAddress string
	Balance         *big.Int
}

// TokenMetadata is what the metadata source knows about a contract.
// Decimals is nil when the source omitted it or returned a non-integer.
type TokenMetadata struct {
	Decimals *int
	Symbol   string
	Name     string
	Logo     string
}

// PricePoint is one daily price sample. Value is 0 when the sample is missing.
type PricePoint struct {
	Time  time.Time
	Value float64
}

// TokenHolding is an enriched token balance.
type TokenHolding struct {
	ContractAddress string        `json:"contract_address"`
	RawBalance      *big.Int      `json:"raw_balance"`
	Decimals        int           `json:"decimals"`
	Symbol          string        `json:"symbol"`
	Name            string        `json:"name"`
	Logo            string        `json:"logo,omitempty"`
	Category        TokenCategory `json:"category"`
	BalanceHuman    float64       `json:"balance_human"`
	PriceUSD        float64       `json:"current_price_usd"`
	ValueUSD        float64       `json:"value_usd"`
	Volatility30d   *float64      `json:"volatility_30d"`
}

// Concentration describes how concentrated the token portfolio is.
type Concentration struct {
	HerfindahlIndex      float64 `json:"herfindahl_index"`
	Top1                 float64 `json:"top_1_concentration"`
	Top3                 float64 `json:"top_3_concentration"`
	Top5                 float64 `json:"top_5_concentration"`
	DiversificationScore float64 `json:"diversification_score"`
	NumTokens            int     `json:"num_tokens"`
	TotalValueUSD        float64 `json:"total_value_usd"`
}

// VolatilityRisk aggregates per-token volatility into one 0-100 risk score.
type VolatilityRisk struct {
	AvgVolatility   float64 `json:"avg_volatility"`
	HighVolExposure float64 `json:"high_vol_exposure"`
	RiskScore       float64 `json:"risk_score"`
}

// StablecoinHoldings is the USD value held in stablecoins.
type StablecoinHoldings struct {
	TotalUSD float64 `json:"total_usd"`
	Count    int     `json:"count"`
}
