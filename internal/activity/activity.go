// Package activity derives wallet age, cadence and flow balance from transfers.
package activity

import (
	"sort"
	"strings"
	"time"

	"WalletScore/internal/model"
)

// dormantGap is the silence after which a gap counts as a dormant period.
const dormantGap = 90 * 24 * time.Hour

// Analyzer computes transfer analytics relative to Now.
type Analyzer struct {
	Now func() time.Time
}

// NewAnalyzer returns an Analyzer using the wall clock.
func NewAnalyzer() *Analyzer {
	return &Analyzer{Now: time.Now}
}

// Analyze summarises transfers. Transfers without a timestamp still count
// toward tx_count but are excluded from every time-based figure.
func (a *Analyzer) Analyze(transfers model.Transfers) model.TransferAnalysis {
	res := model.TransferAnalysis{TxCount: transfers.Count()}
	if res.TxCount == 0 {
		return res
	}

	for _, t := range transfers.Incoming {
		if t.Asset == "ETH" {
			res.ETHIn += t.Value
		}
	}
	for _, t := range transfers.Outgoing {
		if t.Asset == "ETH" {
			res.ETHOut += t.Value
		}
	}

	stamps := timestamps(transfers.All())
	if len(stamps) == 0 {
		return model.TransferAnalysis{TxCount: res.TxCount}
	}

	now := a.now()
	res.AgeDays = wholeDays(now.Sub(stamps[0]))

	months := make(map[string]struct{})
	for _, ts := range stamps {
		months[ts.UTC().Format("2006-01")] = struct{}{}
	}
	res.ActiveMonths = len(months)

	for i := 1; i < len(stamps); i++ {
		if stamps[i].Sub(stamps[i-1]) > dormantGap {
			res.DormantPeriods++
		}
	}

	res.AvgTxPerMonth = float64(res.TxCount) / max(float64(res.AgeDays)/30, 1)
	latest := stamps[len(stamps)-1]
	res.LatestActivity = &latest
	return res
}

// Metadata counts counterparties and direction totals. The wallet itself
// is never a counterparty.
func Metadata(wallet string, transfers model.Transfers) model.WalletMetadata {
	md := model.WalletMetadata{
		IncomingCount: len(transfers.Incoming),
		OutgoingCount: len(transfers.Outgoing),
	}
	self := strings.ToLower(wallet)
	seen := make(map[string]struct{})
	for _, t := range transfers.All() {
		for _, addr := range []string{t.From, t.To} {
			addr = strings.ToLower(addr)
			if addr == "" || addr == self {
				continue
			}
			seen[addr] = struct{}{}
		}
	}
	md.UniqueCounterparties = len(seen)

	if stamps := timestamps(transfers.All()); len(stamps) > 0 {
		first, last := stamps[0], stamps[len(stamps)-1]
		md.FirstActivity = &first
		md.LastActivity = &last
	}
	return md
}

func (a *Analyzer) now() time.Time {
	if a.Now == nil {
		return time.Now().UTC()
	}
	return a.Now().UTC()
}

// timestamps returns the known timestamps in ascending order.
func timestamps(transfers []model.Transfer) []time.Time {
	var out []time.Time
	for _, t := range transfers {
		if t.HasTimestamp() {
			out = append(out, t.BlockTimestamp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}

func wholeDays(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int(d / (24 * time.Hour))
}
