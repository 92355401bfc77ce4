package assessment

import (
	"sort"
	"time"

	"WalletScore/internal/config"
	"WalletScore/internal/model"
)

// Punctuality bands in days.
const (
	earlyDays  = 7
	onTimeDays = 90
)

// emergencyWindow is the longest borrow-to-repay gap still treated as an emergency.
const emergencyWindow = 24 * time.Hour

// Borrowing trends.
const (
	TrendIncreasing   = "increasing"
	TrendDecreasing   = "decreasing"
	TrendStable       = "stable"
	TrendInsufficient = "insufficient_data"
	TrendNone         = "none"
)

func eventsOf(stats *model.ProtocolStats, t model.EventType) []model.ProtocolEvent {
	var out []model.ProtocolEvent
	for _, ev := range stats.Events {
		if ev.EventType == t && !ev.Timestamp.IsZero() {
			out = append(out, ev)
		}
	}
	return out
}

// Timelines matches each borrow to a later repay at the same protocol.
// With config.MatchExclusive a repay settles at most one borrow; with
// config.MatchFirstLater the earliest later repay is reused freely.
func Timelines(a model.ProtocolAnalysis, policy string) model.TimelineSummary {
	sum := model.TimelineSummary{Timelines: []model.RepaymentTimeline{}}

	for _, addr := range a.Addresses() {
		stats := a.Protocols[addr]
		borrows := eventsOf(stats, model.EventBorrow)
		repays := eventsOf(stats, model.EventRepay)
		used := make([]bool, len(repays))

		for _, b := range borrows {
			tl := model.RepaymentTimeline{
				Protocol:     addr,
				ProtocolName: stats.ProtocolName,
				BorrowTx:     b.TxHash,
				BorrowTime:   b.Timestamp,
				Status:       model.StatusOutstanding,
			}

			match := -1
			for j, r := range repays {
				if policy != config.MatchFirstLater && used[j] {
					continue
				}
				if !r.Timestamp.After(b.Timestamp) {
					continue
				}
				if match < 0 || r.Timestamp.Before(repays[match].Timestamp) {
					match = j
				}
			}
			if match >= 0 {
				used[match] = true
				r := repays[match]
				days := int(r.Timestamp.Sub(b.Timestamp) / (24 * time.Hour))
				tl.RepayTx = r.TxHash
				tl.RepayTime = &r.Timestamp
				tl.DaysToRepay = &days
				tl.Status = model.StatusRepaid
			}
			sum.Timelines = append(sum.Timelines, tl)
		}
	}

	var totalDays int
	for _, tl := range sum.Timelines {
		if tl.Status != model.StatusRepaid {
			sum.OutstandingCount++
			continue
		}
		sum.RepaidCount++
		d := *tl.DaysToRepay
		totalDays += d
		if sum.FastestRepaymentDays == nil || d < *sum.FastestRepaymentDays {
			sum.FastestRepaymentDays = &d
		}
		if sum.SlowestRepaymentDays == nil || d > *sum.SlowestRepaymentDays {
			sum.SlowestRepaymentDays = &d
		}
	}
	sum.TotalBorrowings = len(sum.Timelines)
	if sum.RepaidCount > 0 {
		sum.AverageRepaymentDays = float64(totalDays) / float64(sum.RepaidCount)
	}
	return sum
}

// MeasurePunctuality buckets repaid timelines into early, on-time and late.
func MeasurePunctuality(ts model.TimelineSummary) model.Punctuality {
	var p model.Punctuality
	for _, tl := range ts.Timelines {
		if tl.Status != model.StatusRepaid {
			p.OutstandingCount++
			continue
		}
		switch d := *tl.DaysToRepay; {
		case d < earlyDays:
			p.EarlyCount++
		case d <= onTimeDays:
			p.OnTimeCount++
		default:
			p.LateCount++
		}
	}

	repaid := p.EarlyCount + p.OnTimeCount + p.LateCount
	denom := float64(max(repaid, 1))
	p.EarlyRate = float64(p.EarlyCount) / denom
	p.OnTimeRate = float64(p.OnTimeCount) / denom
	p.LateRate = float64(p.LateCount) / denom
	if repaid > 0 {
		p.PunctualityScore = float64(p.EarlyCount*100+p.OnTimeCount*80+p.LateCount*40) / float64(repaid)
	}
	return p
}

// BorrowingFrequency buckets borrows by calendar month and reads the trend
// from the first half of active months against the second.
func BorrowingFrequency(a model.ProtocolAnalysis, walletAgeDays int) model.BorrowingFrequency {
	f := model.BorrowingFrequency{MonthlyBorrows: map[string]int{}, Trend: TrendNone}

	for _, addr := range a.Addresses() {
		for _, ev := range a.Protocols[addr].Events {
			if ev.EventType != model.EventBorrow {
				continue
			}
			f.TotalBorrows++
			if !ev.Timestamp.IsZero() {
				f.MonthlyBorrows[ev.Timestamp.UTC().Format("2006-01")]++
			}
		}
	}
	if f.TotalBorrows == 0 {
		return f
	}
	f.BorrowsPerMonth = float64(f.TotalBorrows) / max(float64(walletAgeDays)/30, 1)

	months := make([]string, 0, len(f.MonthlyBorrows))
	for m := range f.MonthlyBorrows {
		months = append(months, m)
	}
	sort.Strings(months)
	for _, m := range months {
		if f.MostActiveMonth == "" || f.MonthlyBorrows[m] > f.MonthlyBorrows[f.MostActiveMonth] {
			f.MostActiveMonth = m
		}
	}

	if len(months) < 2 {
		f.Trend = TrendInsufficient
		return f
	}
	mid := len(months) / 2
	first := meanCount(f.MonthlyBorrows, months[:mid])
	second := meanCount(f.MonthlyBorrows, months[mid:])
	switch {
	case second > first*1.2:
		f.Trend = TrendIncreasing
	case second < first*0.8:
		f.Trend = TrendDecreasing
	default:
		f.Trend = TrendStable
	}
	return f
}

func meanCount(counts map[string]int, keys []string) float64 {
	var total int
	for _, k := range keys {
		total += counts[k]
	}
	return float64(total) / float64(len(keys))
}

// EmergencyRepayments finds every borrow/repay pair at the same protocol
// where the repay lands within 24 hours after the borrow.
func EmergencyRepayments(a model.ProtocolAnalysis) model.EmergencyRepayments {
	res := model.EmergencyRepayments{Events: []model.EmergencyRepayment{}}
	for _, addr := range a.Addresses() {
		stats := a.Protocols[addr]
		repays := eventsOf(stats, model.EventRepay)
		for _, b := range eventsOf(stats, model.EventBorrow) {
			for _, r := range repays {
				gap := r.Timestamp.Sub(b.Timestamp)
				if gap <= 0 || gap > emergencyWindow {
					continue
				}
				res.Events = append(res.Events, model.EmergencyRepayment{
					Protocol:     stats.ProtocolName,
					BorrowTx:     b.TxHash,
					RepayTx:      r.TxHash,
					HoursToRepay: gap.Hours(),
				})
			}
		}
	}
	res.Count = len(res.Events)
	res.HasEmergency = res.Count > 0
	res.CrisisResponseScore = 50
	if res.HasEmergency {
		res.CrisisResponseScore = 100
	}
	return res
}

// ProtocolPerformance grades the repayment record at each lending protocol.
func ProtocolPerformance(a model.ProtocolAnalysis) model.ProtocolPerformanceSummary {
	sum := model.ProtocolPerformanceSummary{Protocols: []model.ProtocolPerformance{}}
	var best, worst *model.ProtocolPerformance
	var rateTotal float64

	for _, addr := range a.Addresses() {
		s := a.Protocols[addr]
		if s.BorrowCount == 0 && s.RepayCount == 0 {
			continue
		}
		rate := float64(s.RepayCount) / float64(max(s.BorrowCount, 1))
		sum.Protocols = append(sum.Protocols, model.ProtocolPerformance{
			Protocol:      addr,
			ProtocolName:  s.ProtocolName,
			Borrows:       s.BorrowCount,
			Repays:        s.RepayCount,
			Liquidations:  s.LiquidateCount,
			RepaymentRate: rate,
			Grade:         performanceGrade(rate, s.LiquidateCount),
		})
		rateTotal += rate
	}

	for i := range sum.Protocols {
		p := &sum.Protocols[i]
		if best == nil || p.RepaymentRate > best.RepaymentRate {
			best = p
		}
		if worst == nil || p.RepaymentRate < worst.RepaymentRate {
			worst = p
		}
	}
	if best != nil {
		sum.BestProtocol = best.ProtocolName
		sum.WorstProtocol = worst.ProtocolName
		sum.AverageRepaymentRate = rateTotal / float64(len(sum.Protocols))
	}
	return sum
}

func performanceGrade(rate float64, liquidations int) string {
	switch {
	case rate >= 1.0 && liquidations == 0:
		return "A"
	case rate >= 0.8:
		return "B"
	case rate >= 0.5:
		return "C"
	default:
		return "D"
	}
}
