// Package enricher turns raw ERC-20 balances into valued, categorised holdings.
package enricher

import (
	"context"
	"log"
	"math/big"
	"strings"

	"WalletScore/internal/calculator"
	"WalletScore/internal/model"

	"github.com/shopspring/decimal"
)

// DefaultDecimals is assumed when metadata is missing or unusable.
const DefaultDecimals = 18

// DefaultHistoryDays is the volatility window.
const DefaultHistoryDays = 30

// MetadataSource resolves token metadata.
type MetadataSource interface {
	TokenMetadata(ctx context.Context, contract string) (*model.TokenMetadata, error)
}

// PriceSource is the primary price-by-address provider. A zero price means unknown.
type PriceSource interface {
	PriceByAddress(ctx context.Context, contract string) (float64, error)
}

// BatchPriceSource is the fallback price-by-contract provider.
type BatchPriceSource interface {
	PricesByContract(ctx context.Context, contracts []string) (map[string]float64, error)
}

// HistorySource returns daily prices for the volatility window.
type HistorySource interface {
	HistoricalPrices(ctx context.Context, contract string, days int) ([]model.PricePoint, error)
}

// Enricher attaches metadata, price, value, category and volatility to balances.
// Any source may be nil.
type Enricher struct {
	Metadata    MetadataSource
	Prices      PriceSource
	Fallback    BatchPriceSource
	History     HistorySource
	HistoryDays int
}

// Enrich converts raw balances into holdings. Zero balances are dropped.
// Source failures degrade to safe defaults; Enrich itself never fails.
func (e *Enricher) Enrich(ctx context.Context, raw []model.RawBalance) []model.TokenHolding {
	holdings := make([]model.TokenHolding, 0, len(raw))
	priced := make([]bool, 0, len(raw))
	var missing []string

	for _, rb := range raw {
		if rb.Balance == nil || rb.Balance.Sign() <= 0 {
			continue
		}
		h, ok := e.describe(ctx, rb)
		if ok {
			h.PriceUSD = e.primaryPrice(ctx, h.ContractAddress)
			if h.PriceUSD <= 0 {
				missing = append(missing, h.ContractAddress)
			}
		}
		holdings = append(holdings, h)
		priced = append(priced, ok)
	}

	if len(missing) > 0 {
		fallback := e.fallbackPrices(ctx, missing)
		for i := range holdings {
			if priced[i] && holdings[i].PriceUSD <= 0 {
				holdings[i].PriceUSD = fallback[strings.ToLower(holdings[i].ContractAddress)]
			}
		}
	}

	for i := range holdings {
		h := &holdings[i]
		h.ValueUSD = h.BalanceHuman * h.PriceUSD
		if priced[i] {
			h.Volatility30d = e.volatility(ctx, h.ContractAddress)
		}
	}
	return holdings
}

// describe builds the holding from metadata. ok is false when metadata was unavailable.
func (e *Enricher) describe(ctx context.Context, rb model.RawBalance) (model.TokenHolding, bool) {
	h := model.TokenHolding{
		ContractAddress: rb.ContractAddress,
		RawBalance:      new(big.Int).Set(rb.Balance),
		Decimals:        DefaultDecimals,
		Symbol:          "UNKNOWN",
		Name:            "Unknown Token",
		Category:        model.CategoryUnknown,
	}

	var meta *model.TokenMetadata
	var err error
	if e.Metadata != nil {
		meta, err = e.Metadata.TokenMetadata(ctx, rb.ContractAddress)
	}
	if err != nil || meta == nil {
		if err != nil {
			log.Printf("[WARN] token metadata for %s failed: %v, using defaults", rb.ContractAddress, err)
		}
		h.BalanceHuman = HumanBalance(rb.Balance, DefaultDecimals)
		return h, false
	}

	if meta.Decimals != nil && *meta.Decimals >= 0 {
		h.Decimals = *meta.Decimals
	}
	if meta.Symbol != "" {
		h.Symbol = meta.Symbol
	}
	if meta.Name != "" {
		h.Name = meta.Name
	}
	h.Logo = meta.Logo
	h.Category = Categorize(h.Symbol)
	h.BalanceHuman = HumanBalance(rb.Balance, h.Decimals)
	return h, true
}

func (e *Enricher) primaryPrice(ctx context.Context, contract string) float64 {
	if e.Prices == nil {
		return 0
	}
	price, err := e.Prices.PriceByAddress(ctx, contract)
	if err != nil {
		log.Printf("[WARN] price for %s failed: %v, trying fallback", contract, err)
		return 0
	}
	return price
}

func (e *Enricher) fallbackPrices(ctx context.Context, contracts []string) map[string]float64 {
	out := make(map[string]float64)
	if e.Fallback == nil {
		return out
	}
	prices, err := e.Fallback.PricesByContract(ctx, contracts)
	if err != nil {
		log.Printf("[WARN] fallback prices for %d tokens failed: %v, using 0", len(contracts), err)
		return out
	}
	for addr, p := range prices {
		out[strings.ToLower(addr)] = p
	}
	return out
}

func (e *Enricher) volatility(ctx context.Context, contract string) *float64 {
	if e.History == nil {
		return nil
	}
	days := e.HistoryDays
	if days <= 0 {
		days = DefaultHistoryDays
	}
	points, err := e.History.HistoricalPrices(ctx, contract, days)
	if err != nil {
		log.Printf("[WARN] price history for %s failed: %v, volatility unknown", contract, err)
		return nil
	}
	v, err := calculator.VolatilityFromPoints(points)
	if err != nil {
		return nil
	}
	return &v
}

// HumanBalance scales a base-unit balance by 10^decimals.
func HumanBalance(raw *big.Int, decimals int) float64 {
	if raw == nil {
		return 0
	}
	return decimal.NewFromBigInt(raw, -int32(decimals)).InexactFloat64()
}
