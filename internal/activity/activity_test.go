package activity

import (
	"testing"
	"time"

	"WalletScore/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const wallet = "0x1111111111111111111111111111111111111111"

var t0 = time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)

func fixedAnalyzer(now time.Time) *Analyzer {
	return &Analyzer{Now: func() time.Time { return now }}
}

func TestAnalyze_Empty(t *testing.T) {
	got := fixedAnalyzer(t0).Analyze(model.Transfers{})
	assert.Equal(t, model.TransferAnalysis{}, got)
	assert.Equal(t, 0, got.AgeDays)
	assert.Equal(t, 0, got.TxCount)
	assert.Equal(t, 0.0, got.ETHIn)
	assert.Equal(t, 0.0, got.ETHOut)
	assert.Equal(t, 0, got.ActiveMonths)
	assert.Equal(t, 0.0, got.AvgTxPerMonth)
}

func TestAnalyze_ETHFlow(t *testing.T) {
	transfers := model.Transfers{
		Incoming: []model.Transfer{{From: "0xa", To: wallet, Asset: "ETH", Value: 1.0, BlockTimestamp: t0}},
		Outgoing: []model.Transfer{{From: wallet, To: "0xb", Asset: "ETH", Value: 6.0, BlockTimestamp: t0.Add(24 * time.Hour)}},
	}
	got := fixedAnalyzer(t0.AddDate(0, 0, 10)).Analyze(transfers)

	assert.Equal(t, 1.0, got.ETHIn)
	assert.Equal(t, 6.0, got.ETHOut)
	assert.Equal(t, 2, got.TxCount)
	assert.Equal(t, 10, got.AgeDays)
	assert.Equal(t, 1, got.ActiveMonths)
	assert.Equal(t, 2.0, got.AvgTxPerMonth, "young wallets divide by at least one month")
	require.NotNil(t, got.LatestActivity)
	assert.Equal(t, t0.Add(24*time.Hour), *got.LatestActivity)
}

func TestAnalyze_OnlyExactETHAsset(t *testing.T) {
	transfers := model.Transfers{
		Incoming: []model.Transfer{
			{Asset: "WETH", Value: 5, BlockTimestamp: t0},
			{Asset: "eth", Value: 5, BlockTimestamp: t0},
			{Asset: "ETH", Value: 0.5, BlockTimestamp: t0},
		},
	}
	got := fixedAnalyzer(t0).Analyze(transfers)
	assert.Equal(t, 0.5, got.ETHIn)
}

func TestAnalyze_DormancyAndMonths(t *testing.T) {
	stamps := []time.Time{
		t0,
		t0.AddDate(0, 0, 30),
		t0.AddDate(0, 0, 200), // gap 170d
		t0.AddDate(0, 0, 250),
		t0.AddDate(0, 0, 400), // gap 150d
	}
	var in []model.Transfer
	for _, ts := range stamps {
		in = append(in, model.Transfer{Asset: "USDC", BlockTimestamp: ts})
	}
	now := t0.AddDate(0, 0, 600)
	got := fixedAnalyzer(now).Analyze(model.Transfers{Incoming: in})

	assert.Equal(t, 600, got.AgeDays)
	assert.Equal(t, 2, got.DormantPeriods)
	assert.Equal(t, 5, got.ActiveMonths)
	assert.InDelta(t, 5.0/20.0, got.AvgTxPerMonth, 1e-12)
}

func TestAnalyze_NoTimestamps(t *testing.T) {
	got := fixedAnalyzer(t0).Analyze(model.Transfers{
		Incoming: []model.Transfer{{Asset: "ETH", Value: 3}},
	})
	assert.Equal(t, model.TransferAnalysis{TxCount: 1}, got)
}

func TestMetadata(t *testing.T) {
	transfers := model.Transfers{
		Incoming: []model.Transfer{
			{From: "0xAAA", To: wallet, BlockTimestamp: t0},
			{From: "0xaaa", To: "0x1111111111111111111111111111111111111111", BlockTimestamp: t0.Add(time.Hour)},
		},
		Outgoing: []model.Transfer{
			{From: wallet, To: "0xbbb"},
			{From: wallet, To: wallet},
		},
	}
	md := Metadata(wallet, transfers)
	assert.Equal(t, 2, md.UniqueCounterparties)
	assert.Equal(t, 2, md.IncomingCount)
	assert.Equal(t, 2, md.OutgoingCount)
	require.NotNil(t, md.FirstActivity)
	assert.Equal(t, t0, *md.FirstActivity)
	assert.Equal(t, t0.Add(time.Hour), *md.LastActivity)
}
