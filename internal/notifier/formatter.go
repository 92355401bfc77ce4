package notifier

import (
	"fmt"
	"html"
	"strings"

	"WalletScore/internal/model"
	"WalletScore/internal/watchlist"
)

// FormatScoreReport formats a scoring report into a Telegram message.
func FormatScoreReport(r *model.Report) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("🧾 <b>Wallet credit report</b> | %s\n", r.GeneratedAt.Format("2006-01-02 15:04")))
	b.WriteString(fmt.Sprintf("<code>%s</code>\n\n", r.Wallet))

	if s := r.Score; s != nil {
		b.WriteString(fmt.Sprintf("Score: <b>%d</b> (%s, %s)\n\n", s.Score, s.Grade, s.Rating))

		b.WriteString("📈 <b>Breakdown:</b>\n")
		bd := s.Breakdown
		b.WriteString(fmt.Sprintf("  Payment history: %.1f\n", bd.PaymentHistory))
		b.WriteString(fmt.Sprintf("  Amounts owed: %.1f\n", bd.AmountsOwed))
		b.WriteString(fmt.Sprintf("  Length of history: %.1f\n", bd.LengthOfHistory))
		b.WriteString(fmt.Sprintf("  New credit: %.1f\n", bd.NewCredit))
		b.WriteString(fmt.Sprintf("  Credit mix: %.1f\n", bd.CreditMix))
		b.WriteString(fmt.Sprintf("  Reputation: %.1f\n", bd.ReputationBonus))
		b.WriteString(fmt.Sprintf("  Risk penalty: %.1f\n", bd.RiskPenalty))
		b.WriteString(fmt.Sprintf("  Total: %.1f\n\n", bd.Sum()))

		d := s.Details
		b.WriteString(fmt.Sprintf("💰 Assets: $%.0f | ETH %.4f\n", d.TotalAssetsUSD, d.ETHBalance))
		b.WriteString(fmt.Sprintf("⏳ Age: %d days | %d txs | %d protocols\n", d.WalletAgeDays, d.TxCount, d.DeFiProtocols))

		if s.RiskFlags.Any() {
			b.WriteString(fmt.Sprintf("\n⚠️ <b>Risk flags:</b> %s\n", strings.Join(raisedFlags(s.RiskFlags), ", ")))
		} else {
			b.WriteString("\n✅ No risk flags\n")
		}
	}

	if a := r.Assessment; a != nil && a.Score != nil {
		b.WriteString(fmt.Sprintf("\n🏦 <b>Assessment:</b> %d (%s, %s risk)\n", a.Score.Score, a.Score.Grade, a.Score.RiskLevel))
		for _, st := range a.Score.KeyStrengths {
			b.WriteString(fmt.Sprintf("  ✅ %s\n", html.EscapeString(st)))
		}
		for _, rk := range a.Score.KeyRisks {
			b.WriteString(fmt.Sprintf("  ❗ %s\n", html.EscapeString(rk)))
		}
	}

	return b.String()
}

// FormatAlert formats a watchlist alert.
func FormatAlert(a watchlist.Alert) string {
	switch a.Kind {
	case watchlist.AlertMixer:
		return fmt.Sprintf("🚨 <b>Mixer interaction detected</b>\n<code>%s</code>\nScore: %d (%s)", a.Wallet, a.Score, a.NewGrade)
	case watchlist.AlertGradeChange:
		arrow := "📉"
		if a.Score > a.PrevScore {
			arrow = "📈"
		}
		return fmt.Sprintf("%s <b>Grade change</b>\n<code>%s</code>\n%s → %s (%d → %d)", arrow, a.Wallet, a.OldGrade, a.NewGrade, a.PrevScore, a.Score)
	default:
		return fmt.Sprintf("ℹ️ %s: %s", a.Kind, a.Wallet)
	}
}

// FormatWatchlist formats the watched wallets and their last results.
func FormatWatchlist(entries []model.WatchEntry) string {
	if len(entries) == 0 {
		return "📭 Watchlist is empty. Add one with /watch &lt;address&gt;"
	}
	var b strings.Builder
	b.WriteString(fmt.Sprintf("👀 <b>Watchlist</b> (%d)\n\n", len(entries)))
	for _, e := range entries {
		if e.LastGrade == "" {
			b.WriteString(fmt.Sprintf("<code>%s</code>: not scored yet\n", e.Address))
			continue
		}
		b.WriteString(fmt.Sprintf("<code>%s</code>: %d (%s) %s\n", e.Address, e.LastScore, e.LastGrade, e.LastCheckedAt.Format("01-02 15:04")))
	}
	return b.String()
}

// HelpText lists the supported chat commands.
func HelpText() string {
	return "Available commands:\n" +
		"• /score &lt;address&gt;\n" +
		"• /watch &lt;address&gt;\n" +
		"• /unwatch &lt;address&gt;\n" +
		"• /watchlist"
}

func raisedFlags(f model.RiskFlags) []string {
	var out []string
	add := func(on bool, name string) {
		if on {
			out = append(out, name)
		}
	}
	add(f.MixerTransactions, "mixer")
	add(f.HighSpamRatio, "spam")
	add(f.DrainerPattern, "drainer")
	add(f.LowNFTVerification, "unverified NFTs")
	add(f.HighConcentration, "concentration")
	add(f.HighVolatility, "volatility")
	add(f.DormantPeriods, "dormancy")
	add(f.HasLiquidations, "liquidations")
	add(f.PoorRepayment, "poor repayment")
	return out
}
