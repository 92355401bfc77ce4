package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/url"
	"strings"
	"time"

	"WalletScore/internal/model"
)

const (
	transferPageSize = "0x3e8"
	nftPageSize      = "100"
)

var transferCategories = []string{"external", "erc20", "erc721", "erc1155"}

// AlchemyFetcher implements ChainFetcher and the enricher sources using the
// Alchemy JSON-RPC, NFT and Prices APIs.
type AlchemyFetcher struct {
	http      *HTTPClient
	network   string
	rpcURL    string
	nftURL    string
	pricesURL string
	now       func() time.Time
}

// NewAlchemyFetcher creates a fetcher. An empty baseURL targets the hosted
// endpoints for network.
func NewAlchemyFetcher(client *HTTPClient, apiKey, network, baseURL string) *AlchemyFetcher {
	f := &AlchemyFetcher{http: client, network: network, now: time.Now}
	if baseURL == "" {
		f.rpcURL = fmt.Sprintf("https://%s.g.alchemy.com/v2/%s", network, apiKey)
		f.nftURL = fmt.Sprintf("https://%s.g.alchemy.com/nft/v3/%s", network, apiKey)
		f.pricesURL = fmt.Sprintf("https://api.g.alchemy.com/prices/v1/%s", apiKey)
		return f
	}
	baseURL = strings.TrimRight(baseURL, "/")
	f.rpcURL = baseURL + "/v2/" + apiKey
	f.nftURL = baseURL + "/nft/v3/" + apiKey
	f.pricesURL = baseURL + "/prices/v1/" + apiKey
	return f
}

func (f *AlchemyFetcher) Name() string { return "alchemy" }

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      int    `json:"id"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
}

type rpcResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (f *AlchemyFetcher) call(ctx context.Context, method string, out any, params ...any) error {
	var resp rpcResponse
	req := rpcRequest{JSONRPC: "2.0", ID: 1, Method: method, Params: params}
	if err := f.http.PostJSON(ctx, f.rpcURL, req, &resp); err != nil {
		return err
	}
	if resp.Error != nil {
		return fmt.Errorf("alchemy %s: rpc error %d: %s", method, resp.Error.Code, resp.Error.Message)
	}
	if err := json.Unmarshal(resp.Result, out); err != nil {
		return fmt.Errorf("alchemy %s decode: %w", method, err)
	}
	return nil
}

// FetchETHBalance returns the native balance in ETH.
func (f *AlchemyFetcher) FetchETHBalance(ctx context.Context, wallet string) (float64, error) {
	var hex string
	if err := f.call(ctx, "eth_getBalance", &hex, wallet, "latest"); err != nil {
		return 0, err
	}
	wei, err := parseHexBig(hex)
	if err != nil {
		return 0, fmt.Errorf("alchemy eth_getBalance: %w", err)
	}
	return weiToETH(wei), nil
}

// FetchTokenBalances returns non-zero ERC-20 balances. Malformed entries are skipped.
func (f *AlchemyFetcher) FetchTokenBalances(ctx context.Context, wallet string) ([]model.RawBalance, error) {
	var res struct {
		TokenBalances []struct {
			ContractAddress string `json:"contractAddress"`
			TokenBalance    string `json:"tokenBalance"`
		} `json:"tokenBalances"`
	}
	if err := f.call(ctx, "alchemy_getTokenBalances", &res, wallet, "erc20"); err != nil {
		return nil, err
	}

	out := make([]model.RawBalance, 0, len(res.TokenBalances))
	for _, tb := range res.TokenBalances {
		bal, err := parseHexBig(tb.TokenBalance)
		if err != nil {
			log.Printf("[WARN] alchemy: skipping balance for %s: %v", tb.ContractAddress, err)
			continue
		}
		if bal.Sign() <= 0 {
			continue
		}
		out = append(out, model.RawBalance{ContractAddress: strings.ToLower(tb.ContractAddress), Balance: bal})
	}
	return out, nil
}

// TokenMetadata resolves decimals, symbol, name and logo for a contract.
func (f *AlchemyFetcher) TokenMetadata(ctx context.Context, contract string) (*model.TokenMetadata, error) {
	var res struct {
		Decimals flexInt `json:"decimals"`
		Symbol   string  `json:"symbol"`
		Name     string  `json:"name"`
		Logo     string  `json:"logo"`
	}
	if err := f.call(ctx, "alchemy_getTokenMetadata", &res, contract); err != nil {
		return nil, err
	}
	md := &model.TokenMetadata{Symbol: res.Symbol, Name: res.Name, Logo: res.Logo}
	if res.Decimals.Set {
		d := res.Decimals.Value
		md.Decimals = &d
	}
	return md, nil
}

type assetTransfer struct {
	Hash     string    `json:"hash"`
	From     string    `json:"from"`
	To       string    `json:"to"`
	Asset    string    `json:"asset"`
	Value    flexFloat `json:"value"`
	Category string    `json:"category"`
	Metadata struct {
		BlockTimestamp string `json:"blockTimestamp"`
	} `json:"metadata"`
}

// FetchTransfers pages through alchemy_getAssetTransfers in both directions.
func (f *AlchemyFetcher) FetchTransfers(ctx context.Context, wallet string) (model.Transfers, error) {
	in, err := f.transfers(ctx, "toAddress", wallet)
	if err != nil {
		return model.Transfers{}, fmt.Errorf("incoming transfers: %w", err)
	}
	out, err := f.transfers(ctx, "fromAddress", wallet)
	if err != nil {
		return model.Transfers{}, fmt.Errorf("outgoing transfers: %w", err)
	}
	return model.Transfers{Incoming: in, Outgoing: out}, nil
}

func (f *AlchemyFetcher) transfers(ctx context.Context, key, wallet string) ([]model.Transfer, error) {
	params := map[string]any{
		"fromBlock":        "0x0",
		"toBlock":          "latest",
		"excludeZeroValue": true,
		"maxCount":         transferPageSize,
		"category":         transferCategories,
		"withMetadata":     true,
		key:                wallet,
	}

	var all []model.Transfer
	seen := make(map[string]bool)
	for {
		var res struct {
			Transfers []assetTransfer `json:"transfers"`
			PageKey   string          `json:"pageKey"`
		}
		if err := f.call(ctx, "alchemy_getAssetTransfers", &res, params); err != nil {
			return nil, err
		}
		for _, t := range res.Transfers {
			all = append(all, toTransfer(t))
		}
		if res.PageKey == "" {
			return all, nil
		}
		if seen[res.PageKey] {
			return nil, fmt.Errorf("alchemy: transfers pageKey %q repeated", res.PageKey)
		}
		seen[res.PageKey] = true
		params["pageKey"] = res.PageKey
	}
}

func toTransfer(t assetTransfer) model.Transfer {
	tr := model.Transfer{
		Hash:     t.Hash,
		From:     strings.ToLower(t.From),
		To:       strings.ToLower(t.To),
		Asset:    t.Asset,
		Value:    float64(t.Value),
		Category: t.Category,
	}
	if ts := t.Metadata.BlockTimestamp; ts != "" {
		if parsed, err := time.Parse(time.RFC3339, ts); err == nil {
			tr.BlockTimestamp = parsed.UTC()
		} else {
			log.Printf("[WARN] alchemy: unparseable timestamp %q on %s", ts, t.Hash)
		}
	}
	return tr
}

type ownedNFT struct {
	Contract struct {
		Address         string `json:"address"`
		Name            string `json:"name"`
		IsSpam          bool   `json:"isSpam"`
		OpenSeaMetadata struct {
			FloorPrice            flexFloat `json:"floorPrice"`
			CollectionName        string    `json:"collectionName"`
			SafelistRequestStatus string    `json:"safelistRequestStatus"`
		} `json:"openSeaMetadata"`
	} `json:"contract"`
	TokenID  string `json:"tokenId"`
	Name     string `json:"name"`
	TokenURI string `json:"tokenUri"`
	IsSpam   bool   `json:"isSpam"`
	Image    struct {
		CachedURL    string `json:"cachedUrl"`
		ThumbnailURL string `json:"thumbnailUrl"`
		OriginalURL  string `json:"originalUrl"`
	} `json:"image"`
	Raw struct {
		Metadata struct {
			Image string   `json:"image"`
			Tags  []string `json:"tags"`
		} `json:"metadata"`
	} `json:"raw"`
}

// FetchNFTs pages through getNFTsForOwner.
func (f *AlchemyFetcher) FetchNFTs(ctx context.Context, wallet string) ([]model.NFT, error) {
	q := url.Values{}
	q.Set("owner", wallet)
	q.Set("withMetadata", "true")
	q.Set("pageSize", nftPageSize)

	var all []model.NFT
	seen := make(map[string]bool)
	for {
		var res struct {
			OwnedNFTs []ownedNFT `json:"ownedNfts"`
			PageKey   string     `json:"pageKey"`
		}
		if err := f.http.GetJSON(ctx, f.nftURL+"/getNFTsForOwner", q, &res); err != nil {
			return nil, err
		}
		for _, n := range res.OwnedNFTs {
			all = append(all, toNFT(n))
		}
		if res.PageKey == "" {
			return all, nil
		}
		if seen[res.PageKey] {
			return nil, fmt.Errorf("alchemy: nft pageKey %q repeated", res.PageKey)
		}
		seen[res.PageKey] = true
		q.Set("pageKey", res.PageKey)
	}
}

func toNFT(n ownedNFT) model.NFT {
	image := n.Image.CachedURL
	if image == "" {
		image = n.Image.OriginalURL
	}
	status := n.Contract.OpenSeaMetadata.SafelistRequestStatus
	return model.NFT{
		ContractAddress: strings.ToLower(n.Contract.Address),
		TokenID:         n.TokenID,
		Name:            n.Name,
		CollectionName:  n.Contract.OpenSeaMetadata.CollectionName,
		TokenURI:        n.TokenURI,
		ImageURL:        image,
		ThumbnailURL:    n.Image.ThumbnailURL,
		MetadataImage:   n.Raw.Metadata.Image,
		Tags:            n.Raw.Metadata.Tags,
		IsSpam:          n.IsSpam || n.Contract.IsSpam,
		SafelistStatus:  status,
		FloorPriceETH:   float64(n.Contract.OpenSeaMetadata.FloorPrice),
	}
}

type tokenPrice struct {
	Currency string    `json:"currency"`
	Value    flexFloat `json:"value"`
}

// PriceByAddress returns the USD price of contract, or 0 when unknown.
func (f *AlchemyFetcher) PriceByAddress(ctx context.Context, contract string) (float64, error) {
	payload := map[string]any{
		"addresses": []map[string]string{{"network": f.network, "address": contract}},
	}
	var res struct {
		Data []struct {
			Address string       `json:"address"`
			Prices  []tokenPrice `json:"prices"`
			Error   any          `json:"error"`
		} `json:"data"`
	}
	if err := f.http.PostJSON(ctx, f.pricesURL+"/tokens/by-address", payload, &res); err != nil {
		return 0, err
	}
	for _, d := range res.Data {
		for _, p := range d.Prices {
			if strings.EqualFold(p.Currency, "usd") {
				return float64(p.Value), nil
			}
		}
	}
	return 0, nil
}

// HistoricalPrices returns daily USD prices for the last days.
func (f *AlchemyFetcher) HistoricalPrices(ctx context.Context, contract string, days int) ([]model.PricePoint, error) {
	end := f.now().UTC()
	payload := map[string]any{
		"network":   f.network,
		"address":   contract,
		"startTime": end.AddDate(0, 0, -days).Format(time.RFC3339),
		"endTime":   end.Format(time.RFC3339),
		"interval":  "1d",
	}
	var res struct {
		Data []struct {
			Value     flexFloat `json:"value"`
			Timestamp string    `json:"timestamp"`
		} `json:"data"`
	}
	if err := f.http.PostJSON(ctx, f.pricesURL+"/tokens/historical", payload, &res); err != nil {
		return nil, err
	}

	points := make([]model.PricePoint, 0, len(res.Data))
	for _, d := range res.Data {
		ts, err := time.Parse(time.RFC3339, d.Timestamp)
		if err != nil {
			continue
		}
		points = append(points, model.PricePoint{Time: ts, Value: float64(d.Value)})
	}
	return points, nil
}
