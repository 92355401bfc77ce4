package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/url"
	"strconv"
	"strings"
	"time"

	"WalletScore/internal/model"
)

// etherscanPageSize is the page offset; paging stops on a short page.
const etherscanPageSize = 1000

// EtherscanFetcher implements TransactionFetcher with the Etherscan v2 API.
type EtherscanFetcher struct {
	http     *HTTPClient
	baseURL  string
	apiKey   string
	chainID  int
	pageSize int
}

// NewEtherscanFetcher creates a fetcher for chainID.
func NewEtherscanFetcher(client *HTTPClient, baseURL, apiKey string, chainID int) *EtherscanFetcher {
	return &EtherscanFetcher{
		http:     client,
		baseURL:  baseURL,
		apiKey:   apiKey,
		chainID:  chainID,
		pageSize: etherscanPageSize,
	}
}

type etherscanTx struct {
	Hash         string `json:"hash"`
	From         string `json:"from"`
	To           string `json:"to"`
	FunctionName string `json:"functionName"`
	TimeStamp    string `json:"timeStamp"`
	IsError      string `json:"isError"`
}

// FetchTransactions pages through account/txlist in ascending order.
func (f *EtherscanFetcher) FetchTransactions(ctx context.Context, wallet string) ([]model.Transaction, error) {
	var all []model.Transaction
	for page := 1; ; page++ {
		q := url.Values{}
		q.Set("chainid", strconv.Itoa(f.chainID))
		q.Set("module", "account")
		q.Set("action", "txlist")
		q.Set("address", wallet)
		q.Set("startblock", "0")
		q.Set("endblock", "latest")
		q.Set("page", strconv.Itoa(page))
		q.Set("offset", strconv.Itoa(f.pageSize))
		q.Set("sort", "asc")
		q.Set("apikey", f.apiKey)

		var res struct {
			Status  string          `json:"status"`
			Message string          `json:"message"`
			Result  json.RawMessage `json:"result"`
		}
		if err := f.http.GetJSON(ctx, f.baseURL, q, &res); err != nil {
			return nil, err
		}

		var txs []etherscanTx
		if res.Status != "1" {
			// "No transactions found" carries status 0 with an empty result.
			if json.Unmarshal(res.Result, &txs) == nil && len(txs) == 0 &&
				strings.Contains(strings.ToLower(res.Message), "no transactions") {
				return all, nil
			}
			var detail string
			_ = json.Unmarshal(res.Result, &detail)
			return nil, fmt.Errorf("etherscan: %s %s", res.Message, detail)
		}
		if err := json.Unmarshal(res.Result, &txs); err != nil {
			return nil, fmt.Errorf("etherscan decode: %w", err)
		}

		for _, tx := range txs {
			all = append(all, toTransaction(tx))
		}
		if len(txs) < f.pageSize {
			return all, nil
		}
	}
}

func toTransaction(tx etherscanTx) model.Transaction {
	t := model.Transaction{
		Hash:         tx.Hash,
		From:         strings.ToLower(tx.From),
		To:           strings.ToLower(tx.To),
		FunctionName: tx.FunctionName,
		IsError:      tx.IsError == "1",
	}
	if sec, err := strconv.ParseInt(tx.TimeStamp, 10, 64); err == nil {
		t.Timestamp = time.Unix(sec, 0).UTC()
	} else {
		log.Printf("[WARN] etherscan: unparseable timestamp %q on %s", tx.TimeStamp, tx.Hash)
	}
	return t
}
