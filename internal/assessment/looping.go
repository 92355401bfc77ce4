package assessment

import "WalletScore/internal/model"

// Leverage strategies.
const (
	StrategyRecursive = "recursive"
	StrategyNone      = "none"
)

// CapitalLooping scans each protocol's events in input order and records
// every adjacent supply/borrow pair.
func CapitalLooping(a model.ProtocolAnalysis) model.CapitalLooping {
	res := model.CapitalLooping{Instances: []model.LoopInstance{}, LeverageStrategy: StrategyNone}

	for _, addr := range a.Addresses() {
		evs := a.Protocols[addr].Events
		for i := 1; i < len(evs); i++ {
			prev, cur := evs[i-1], evs[i]
			var pattern string
			switch {
			case prev.EventType == model.EventSupply && cur.EventType == model.EventBorrow:
				pattern = model.PatternSupplyThenBorrow
				res.RecursiveCount++
			case prev.EventType == model.EventBorrow && cur.EventType == model.EventSupply:
				pattern = model.PatternBorrowThenSupply
				res.CompoundCount++
			default:
				continue
			}
			res.Instances = append(res.Instances, model.LoopInstance{
				Protocol:  addr,
				Pattern:   pattern,
				FirstTx:   prev.TxHash,
				SecondTx:  cur.TxHash,
				Timestamp: cur.Timestamp,
			})
		}
	}

	res.LoopingCount = len(res.Instances)
	res.LoopRatio = float64(res.LoopingCount) / float64(max(a.Summary.TotalBorrows, 1))
	res.HasLoopingBehavior = res.LoopRatio > 0
	if res.LoopRatio > 0.5 {
		res.LeverageStrategy = StrategyRecursive
	}
	return res
}
