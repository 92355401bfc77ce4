// Package collector fetches raw wallet data from upstream APIs and builds
// the normalised wallet profile the scorer consumes.
package collector

import (
	"context"
	"log"
	"strings"
	"time"

	"WalletScore/internal/activity"
	"WalletScore/internal/calculator"
	"WalletScore/internal/classifier"
	"WalletScore/internal/config"
	"WalletScore/internal/defi"
	"WalletScore/internal/enricher"
	"WalletScore/internal/lending"
	"WalletScore/internal/model"
	"WalletScore/internal/observability"

	"golang.org/x/sync/errgroup"
)

// RawData is everything fetched for one wallet, holdings already enriched.
type RawData struct {
	ETHBalance   float64
	Holdings     []model.TokenHolding
	NFTs         []model.NFT
	Transfers    model.Transfers
	Transactions []model.Transaction
}

// Collector orchestrates fetching and profile construction.
type Collector struct {
	Chain    ChainFetcher
	Txs      TransactionFetcher
	Enricher *enricher.Enricher
	Registry *config.Registry
	Metrics  *observability.Metrics
	Now      func() time.Time
}

// NewCollector creates a Collector. txs and enr may be nil.
func NewCollector(chain ChainFetcher, txs TransactionFetcher, enr *enricher.Enricher, reg *config.Registry) *Collector {
	return &Collector{Chain: chain, Txs: txs, Enricher: enr, Registry: reg, Now: time.Now}
}

// Collect fetches all wallet data concurrently and builds the profile.
// A failed fetch is logged and replaced by its empty default; only
// cancellation of ctx makes Collect fail.
func (c *Collector) Collect(ctx context.Context, wallet string) (*model.WalletProfile, error) {
	wallet = strings.ToLower(wallet)
	var (
		raw      RawData
		balances []model.RawBalance
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		v, err := c.Chain.FetchETHBalance(gctx, wallet)
		raw.ETHBalance = orDefault(c, "eth_balance", v, err)
		return nil
	})
	g.Go(func() error {
		v, err := c.Chain.FetchTokenBalances(gctx, wallet)
		balances = orDefault(c, "token_balances", v, err)
		return nil
	})
	g.Go(func() error {
		v, err := c.Chain.FetchNFTs(gctx, wallet)
		raw.NFTs = orDefault(c, "nfts", v, err)
		return nil
	})
	g.Go(func() error {
		v, err := c.Chain.FetchTransfers(gctx, wallet)
		raw.Transfers = orDefault(c, "transfers", v, err)
		return nil
	})
	if c.Txs != nil {
		g.Go(func() error {
			v, err := c.Txs.FetchTransactions(gctx, wallet)
			raw.Transactions = orDefault(c, "transactions", v, err)
			return nil
		})
	}
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if c.Enricher != nil {
		raw.Holdings = c.Enricher.Enrich(ctx, balances)
	} else {
		raw.Holdings = (&enricher.Enricher{}).Enrich(ctx, balances)
	}

	return BuildProfile(wallet, raw, c.Registry, c.now()), nil
}

// orDefault returns v, or the zero value of T when err is set.
func orDefault[T any](c *Collector, field string, v T, err error) T {
	if err == nil {
		return v
	}
	log.Printf("[WARN] fetch %s failed: %v, using default", field, err)
	c.Metrics.RecordFetchDefault(field)
	var zero T
	return zero
}

func (c *Collector) now() time.Time {
	if c.Now == nil {
		return time.Now().UTC()
	}
	return c.Now().UTC()
}

// BuildProfile derives every analytic from raw data. It is pure and never fails.
func BuildProfile(wallet string, raw RawData, reg *config.Registry, now time.Time) *model.WalletProfile {
	cls := classifier.New(reg)
	det := defi.New(reg)
	act := &activity.Analyzer{Now: func() time.Time { return now }}

	nfts := cls.Classify(raw.NFTs)
	protocols := lending.NewAnalyzer(reg).Analyze(raw.Transactions)

	holdings := raw.Holdings
	if holdings == nil {
		holdings = []model.TokenHolding{}
	}

	return &model.WalletProfile{
		Address:        strings.ToLower(wallet),
		ETHBalance:     raw.ETHBalance,
		Holdings:       holdings,
		Concentration:  calculator.Concentration(holdings),
		VolatilityRisk: calculator.PortfolioVolatilityRisk(holdings),
		Stablecoins:    det.Stablecoins(holdings),
		NFTs:           nfts,
		NFTQuality:     classifier.Quality(nfts.Legit),
		NFTValue:       classifier.Value(nfts.Legit, reg),
		Transfers:      raw.Transfers,
		Activity:       act.Analyze(raw.Transfers),
		Metadata:       activity.Metadata(wallet, raw.Transfers),
		DeFi:           det.Interactions(raw.Transfers),
		Mixer:          det.Mixers(raw.Transfers),
		Transactions:   raw.Transactions,
		Lending:        protocols,
		LendingCredit:  lending.Creditworthiness(protocols),
		BuiltAt:        now,
	}
}
