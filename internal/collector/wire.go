package collector

import (
	"time"

	"WalletScore/internal/config"
	"WalletScore/internal/enricher"
	"WalletScore/internal/observability"
)

// NewFromConfig builds the collector for cfg.DataSource. Etherscan is only
// wired when it has an API key; without it lending history is empty.
func NewFromConfig(cfg *config.Config, m *observability.Metrics) *Collector {
	if cfg.DataSource == config.SourceMock {
		return newDemoCollector(&cfg.Registry, m)
	}

	httpOpts := func(source string) HTTPOptions {
		return HTTPOptions{
			Source:     source,
			ProxyURL:   cfg.Proxy,
			Timeout:    time.Duration(cfg.HTTP.TimeoutSeconds) * time.Second,
			RPS:        cfg.HTTP.RateLimitRPS,
			Burst:      cfg.HTTP.Burst,
			MaxRetries: cfg.HTTP.MaxRetries,
			Metrics:    m,
		}
	}

	alchemy := NewAlchemyFetcher(NewHTTPClient(httpOpts("alchemy")), cfg.Alchemy.APIKey, cfg.Alchemy.Network, cfg.Alchemy.BaseURL)
	coingecko := NewCoinGeckoFetcher(NewHTTPClient(httpOpts("coingecko")), cfg.CoinGecko.BaseURL, cfg.CoinGecko.APIKey)

	var txs TransactionFetcher
	if cfg.Etherscan.APIKey != "" {
		txs = NewEtherscanFetcher(NewHTTPClient(httpOpts("etherscan")), cfg.Etherscan.BaseURL, cfg.Etherscan.APIKey, cfg.Etherscan.ChainID)
	}

	enr := &enricher.Enricher{
		Metadata:    alchemy,
		Prices:      alchemy,
		Fallback:    coingecko,
		History:     alchemy,
		HistoryDays: enricher.DefaultHistoryDays,
	}
	c := NewCollector(alchemy, txs, enr, &cfg.Registry)
	c.Metrics = m
	return c
}

func newDemoCollector(reg *config.Registry, m *observability.Metrics) *Collector {
	now := time.Now()
	clock := func() time.Time { return now }
	prices := NewDemoFetcher("", now)
	enr := &enricher.Enricher{
		Metadata:    prices,
		Prices:      prices,
		Fallback:    prices,
		History:     prices,
		HistoryDays: enricher.DefaultHistoryDays,
	}
	src := &DemoSource{Now: clock}
	c := NewCollector(src, src, enr, reg)
	c.Metrics = m
	c.Now = clock
	return c
}
