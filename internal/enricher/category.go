package enricher

import (
	"strings"

	"WalletScore/internal/model"
)

var (
	stablecoinSymbols    = set("USDC", "USDT", "DAI", "USDE", "DEUSD", "EUSDE", "FRAX", "LUSD")
	governanceSymbols    = set("ENA", "SENA", "UNI", "AAVE", "COMP", "MKR", "CRV", "BAL")
	liquidStakingSymbols = set("STETH", "RETH", "CBETH", "STDEUSD", "WSTETH")
)

// Categorize assigns a category from the token symbol; first matching rule wins.
func Categorize(symbol string) model.TokenCategory {
	s := strings.ToUpper(strings.TrimSpace(symbol))
	switch {
	case s == "":
		return model.CategoryUnknown
	case stablecoinSymbols[s] || strings.Contains(s, "USD"):
		return model.CategoryStablecoin
	case governanceSymbols[s]:
		return model.CategoryGovernance
	case liquidStakingSymbols[s] || strings.HasPrefix(s, "ST"):
		return model.CategoryLiquidStaking
	case strings.HasPrefix(s, "W"):
		return model.CategoryWrapped
	default:
		return model.CategoryUnknown
	}
}

func set(items ...string) map[string]bool {
	m := make(map[string]bool, len(items))
	for _, it := range items {
		m[it] = true
	}
	return m
}
