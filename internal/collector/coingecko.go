package collector

import (
	"context"
	"net/url"
	"strings"
)

// CoinGeckoFetcher is the fallback batch price source.
type CoinGeckoFetcher struct {
	http    *HTTPClient
	baseURL string
	apiKey  string
}

// NewCoinGeckoFetcher creates a fetcher. apiKey may be empty.
func NewCoinGeckoFetcher(client *HTTPClient, baseURL, apiKey string) *CoinGeckoFetcher {
	return &CoinGeckoFetcher{http: client, baseURL: strings.TrimRight(baseURL, "/"), apiKey: apiKey}
}

// PricesByContract returns USD prices keyed by lowercase contract address.
// Contracts CoinGecko does not know are absent from the result.
func (f *CoinGeckoFetcher) PricesByContract(ctx context.Context, contracts []string) (map[string]float64, error) {
	prices := map[string]float64{}
	if len(contracts) == 0 {
		return prices, nil
	}

	q := url.Values{}
	q.Set("contract_addresses", strings.Join(contracts, ","))
	q.Set("vs_currencies", "usd")
	if f.apiKey != "" {
		q.Set("x_cg_demo_api_key", f.apiKey)
	}

	var res map[string]struct {
		USD flexFloat `json:"usd"`
	}
	if err := f.http.GetJSON(ctx, f.baseURL+"/simple/token_price/ethereum", q, &res); err != nil {
		return nil, err
	}
	for addr, p := range res {
		if p.USD > 0 {
			prices[strings.ToLower(addr)] = float64(p.USD)
		}
	}
	return prices, nil
}
