package collector

import (
	"context"

	"WalletScore/internal/model"
)

// ChainFetcher reads wallet state from an indexed chain API.
type ChainFetcher interface {
	Name() string
	FetchETHBalance(ctx context.Context, wallet string) (float64, error)
	FetchTokenBalances(ctx context.Context, wallet string) ([]model.RawBalance, error)
	FetchNFTs(ctx context.Context, wallet string) ([]model.NFT, error)
	FetchTransfers(ctx context.Context, wallet string) (model.Transfers, error)
}

// TransactionFetcher reads normal transactions with decoded function names.
type TransactionFetcher interface {
	FetchTransactions(ctx context.Context, wallet string) ([]model.Transaction, error)
}
