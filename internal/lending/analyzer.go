// Package lending classifies protocol calls and aggregates lending behaviour per contract.
package lending

import (
	"math"
	"strings"

	"WalletScore/internal/config"
	"WalletScore/internal/model"
)

// Labels used in RiskIndicators.
const (
	RiskHigh     = "HIGH"
	RiskLow      = "LOW"
	RiskUnknown  = "UNKNOWN"
	DebtActive   = "ACTIVE"
	DebtInactive = "INACTIVE"
	ActivityNone = "NONE"
)

// Analyzer groups transactions by contract and classifies each call.
type Analyzer struct {
	Registry *config.Registry
}

// NewAnalyzer creates an Analyzer.
func NewAnalyzer(reg *config.Registry) *Analyzer {
	return &Analyzer{Registry: reg}
}

// Analyze builds per-protocol stats. Failed transactions and contract
// creations are ignored.
func (a *Analyzer) Analyze(txs []model.Transaction) model.ProtocolAnalysis {
	res := model.ProtocolAnalysis{Protocols: map[string]*model.ProtocolStats{}}

	for _, tx := range txs {
		if tx.IsError || tx.To == "" {
			continue
		}
		addr := strings.ToLower(tx.To)
		stats, ok := res.Protocols[addr]
		if !ok {
			stats = &model.ProtocolStats{
				Address:      addr,
				ProtocolName: a.Registry.ProtocolName(addr),
				Events:       []model.ProtocolEvent{},
			}
			res.Protocols[addr] = stats
		}

		ev := model.ProtocolEvent{
			ContractAddress: addr,
			EventType:       ClassifyEvent(tx.FunctionName),
			Signature:       Signature(tx.FunctionName),
			Timestamp:       tx.Timestamp,
			TxHash:          tx.Hash,
		}
		stats.Events = append(stats.Events, ev)
		stats.TotalInteractions++
		countEvent(stats, ev.EventType)

		if !tx.Timestamp.IsZero() {
			ts := tx.Timestamp
			if stats.FirstInteraction == nil || ts.Before(*stats.FirstInteraction) {
				stats.FirstInteraction = &ts
			}
			if stats.LastInteraction == nil || ts.After(*stats.LastInteraction) {
				stats.LastInteraction = &ts
			}
		}
	}

	res.Summary = summarize(res.Protocols)
	res.Risk = riskIndicators(res.Summary, len(txs) == 0)
	return res
}

func countEvent(s *model.ProtocolStats, t model.EventType) {
	switch t {
	case model.EventBorrow:
		s.BorrowCount++
	case model.EventRepay:
		s.RepayCount++
	case model.EventLiquidate:
		s.LiquidateCount++
	case model.EventSupply:
		s.SupplyCount++
	case model.EventWithdraw:
		s.WithdrawCount++
	default:
		s.OtherCount++
	}
}

func summarize(protocols map[string]*model.ProtocolStats) model.LendingSummary {
	sum := model.LendingSummary{TotalProtocols: len(protocols)}
	for _, p := range protocols {
		sum.TotalBorrows += p.BorrowCount
		sum.TotalRepays += p.RepayCount
		sum.TotalLiquidations += p.LiquidateCount
		sum.TotalSupplies += p.SupplyCount
		sum.TotalWithdrawals += p.WithdrawCount
		sum.TotalOther += p.OtherCount
	}
	sum.HasLendingHistory = sum.TotalBorrows > 0 || sum.TotalRepays > 0
	sum.HasLiquidations = sum.TotalLiquidations > 0
	if sum.TotalBorrows > 0 {
		sum.RepaymentRatio = float64(sum.TotalRepays) / float64(sum.TotalBorrows)
	}
	return sum
}

func riskIndicators(sum model.LendingSummary, empty bool) model.RiskIndicators {
	if empty {
		return model.RiskIndicators{
			LiquidationRisk:   RiskUnknown,
			DebtManagement:    DebtInactive,
			BorrowingActivity: ActivityNone,
		}
	}
	ri := model.RiskIndicators{
		LiquidationRisk:   RiskLow,
		DebtManagement:    DebtInactive,
		BorrowingActivity: DebtInactive,
		RepaymentRatio:    math.Round(sum.RepaymentRatio*100) / 100,
	}
	if sum.HasLiquidations {
		ri.LiquidationRisk = RiskHigh
	}
	if sum.HasLendingHistory {
		ri.DebtManagement = DebtActive
	}
	if sum.TotalBorrows > 0 {
		ri.BorrowingActivity = DebtActive
	}
	return ri
}
