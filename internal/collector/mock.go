package collector

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"time"

	"WalletScore/internal/model"
)

// MockFetcher serves fixed in-memory data for development and testing.
// It implements ChainFetcher, TransactionFetcher and every enricher source.
// Fail maps a method name (e.g. "FetchNFTs") to the error it should return.
type MockFetcher struct {
	ETHBalance   float64
	Balances     []model.RawBalance
	NFTs         []model.NFT
	Transfers    model.Transfers
	Transactions []model.Transaction
	Metadata     map[string]model.TokenMetadata
	Prices       map[string]float64
	History      map[string][]model.PricePoint
	Fail         map[string]error
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) fail(method string) error {
	return m.Fail[method]
}

func (m *MockFetcher) FetchETHBalance(_ context.Context, _ string) (float64, error) {
	if err := m.fail("FetchETHBalance"); err != nil {
		return 0, err
	}
	return m.ETHBalance, nil
}

func (m *MockFetcher) FetchTokenBalances(_ context.Context, _ string) ([]model.RawBalance, error) {
	if err := m.fail("FetchTokenBalances"); err != nil {
		return nil, err
	}
	return m.Balances, nil
}

func (m *MockFetcher) FetchNFTs(_ context.Context, _ string) ([]model.NFT, error) {
	if err := m.fail("FetchNFTs"); err != nil {
		return nil, err
	}
	return m.NFTs, nil
}

func (m *MockFetcher) FetchTransfers(_ context.Context, _ string) (model.Transfers, error) {
	if err := m.fail("FetchTransfers"); err != nil {
		return model.Transfers{}, err
	}
	return m.Transfers, nil
}

func (m *MockFetcher) FetchTransactions(_ context.Context, _ string) ([]model.Transaction, error) {
	if err := m.fail("FetchTransactions"); err != nil {
		return nil, err
	}
	return m.Transactions, nil
}

func (m *MockFetcher) TokenMetadata(_ context.Context, contract string) (*model.TokenMetadata, error) {
	if err := m.fail("TokenMetadata"); err != nil {
		return nil, err
	}
	md, ok := m.Metadata[strings.ToLower(contract)]
	if !ok {
		return nil, nil
	}
	return &md, nil
}

func (m *MockFetcher) PriceByAddress(_ context.Context, contract string) (float64, error) {
	if err := m.fail("PriceByAddress"); err != nil {
		return 0, err
	}
	return m.Prices[strings.ToLower(contract)], nil
}

func (m *MockFetcher) PricesByContract(_ context.Context, contracts []string) (map[string]float64, error) {
	if err := m.fail("PricesByContract"); err != nil {
		return nil, err
	}
	out := map[string]float64{}
	for _, c := range contracts {
		if p := m.Prices[strings.ToLower(c)]; p > 0 {
			out[strings.ToLower(c)] = p
		}
	}
	return out, nil
}

func (m *MockFetcher) HistoricalPrices(_ context.Context, contract string, _ int) ([]model.PricePoint, error) {
	if err := m.fail("HistoricalPrices"); err != nil {
		return nil, err
	}
	return m.History[strings.ToLower(contract)], nil
}

// Demo contract addresses.
const (
	demoUSDC     = "0xa0b86991c6218b36c1d19d4a2e9eb0ce3606eb48"
	demoUNI      = "0x1f9840a85d5af5bf1d1762f925bdaddc4201f984"
	demoAavePool = "0x87870bca3f3fd6335c3f4ce8392d69350b4fa4e2"
	demoUniRoute = "0xe592427a0aece92de3edee1f18e0157c05861564"
	demoPeer     = "0x000000000000000000000000000000000000beef"
)

// NewDemoFetcher returns a MockFetcher describing a modest, active DeFi
// wallet whose history ends at now. The same now always yields the same data.
func NewDemoFetcher(wallet string, now time.Time) *MockFetcher {
	wallet = strings.ToLower(wallet)
	day := func(n int) time.Time { return now.AddDate(0, 0, -n).UTC() }
	units := func(n int64, decimals int) *big.Int {
		return new(big.Int).Mul(big.NewInt(n), new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil))
	}
	six, eighteen := 6, 18

	m := &MockFetcher{
		ETHBalance: 2.5,
		Balances: []model.RawBalance{
			{ContractAddress: demoUSDC, Balance: units(3000, 6)},
			{ContractAddress: demoUNI, Balance: units(400, 18)},
		},
		Metadata: map[string]model.TokenMetadata{
			demoUSDC: {Decimals: &six, Symbol: "USDC", Name: "USD Coin"},
			demoUNI:  {Decimals: &eighteen, Symbol: "UNI", Name: "Uniswap"},
		},
		Prices: map[string]float64{demoUSDC: 1.0, demoUNI: 7.5},
		History: map[string][]model.PricePoint{
			demoUNI: {
				{Time: day(3), Value: 7.1},
				{Time: day(2), Value: 7.6},
				{Time: day(1), Value: 7.3},
				{Time: day(0), Value: 7.5},
			},
		},
		NFTs: []model.NFT{
			{ContractAddress: "0x22c1f6050e56d2876009903609a2cc3fef83b415", TokenID: "1", Name: "ETHGlobal POAP"},
			{ContractAddress: "0xd4416b13d2b3a9abae7acd5d6c2bbdbe25686401", TokenID: "2", Name: "demo.eth"},
			{ContractAddress: "0x000000000000000000000000000000000000c0de", TokenID: "3", Name: "Art", SafelistStatus: "verified", FloorPriceETH: 0.2},
		},
	}

	for i := 0; i < 12; i++ {
		at := day(30*i + 5)
		m.Transfers.Incoming = append(m.Transfers.Incoming, model.Transfer{
			Hash: demoHash(100 + i), From: demoPeer, To: wallet, Asset: "ETH", Value: 0.5, Category: "external", BlockTimestamp: at,
		})
		m.Transfers.Outgoing = append(m.Transfers.Outgoing, model.Transfer{
			Hash: demoHash(200 + i), From: wallet, To: demoUniRoute, Asset: "ETH", Value: 0.2, Category: "external", BlockTimestamp: at.Add(time.Hour),
		})
	}
	m.Transfers.Outgoing = append(m.Transfers.Outgoing, model.Transfer{
		Hash: demoHash(300), From: wallet, To: demoAavePool, Asset: "USDC", Value: 1000, Category: "erc20", BlockTimestamp: day(200),
	})

	m.Transactions = []model.Transaction{
		{Hash: demoHash(401), From: wallet, To: demoAavePool, FunctionName: "supply(address,uint256,address,uint16)", Timestamp: day(200)},
		{Hash: demoHash(402), From: wallet, To: demoAavePool, FunctionName: "borrow(address,uint256,uint256,uint16,address)", Timestamp: day(180)},
		{Hash: demoHash(403), From: wallet, To: demoAavePool, FunctionName: "repay(address,uint256,uint256,address)", Timestamp: day(150)},
		{Hash: demoHash(404), From: wallet, To: demoAavePool, FunctionName: "withdraw(address,uint256,address)", Timestamp: day(140)},
	}
	return m
}

func demoHash(n int) string {
	return fmt.Sprintf("0x%064x", n)
}

// DemoSource serves NewDemoFetcher data for whichever wallet is asked,
// anchored at Now. It backs data_source: mock.
type DemoSource struct {
	Now func() time.Time
}

func (d *DemoSource) Name() string { return "demo" }

func (d *DemoSource) fetcher(wallet string) *MockFetcher {
	return NewDemoFetcher(wallet, d.Now())
}

func (d *DemoSource) FetchETHBalance(ctx context.Context, wallet string) (float64, error) {
	return d.fetcher(wallet).FetchETHBalance(ctx, wallet)
}

func (d *DemoSource) FetchTokenBalances(ctx context.Context, wallet string) ([]model.RawBalance, error) {
	return d.fetcher(wallet).FetchTokenBalances(ctx, wallet)
}

func (d *DemoSource) FetchNFTs(ctx context.Context, wallet string) ([]model.NFT, error) {
	return d.fetcher(wallet).FetchNFTs(ctx, wallet)
}

func (d *DemoSource) FetchTransfers(ctx context.Context, wallet string) (model.Transfers, error) {
	return d.fetcher(wallet).FetchTransfers(ctx, wallet)
}

func (d *DemoSource) FetchTransactions(ctx context.Context, wallet string) ([]model.Transaction, error) {
	return d.fetcher(wallet).FetchTransactions(ctx, wallet)
}
