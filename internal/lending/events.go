package lending

import (
	"strings"

	"WalletScore/internal/model"
)

// keywordRule maps a signature substring to an event type.
type keywordRule struct {
	keyword string
	event   model.EventType
}

// Rules are checked in order and the first substring hit wins. Liquidation
// and repay keywords come before borrow because their signatures often
// contain "borrow" (liquidateBorrow, repayBorrow).
var keywordRules = []keywordRule{
	{"liquidationcall", model.EventLiquidate},
	{"liquidateborrow", model.EventLiquidate},
	{"liquidat", model.EventLiquidate},
	{"repayborrow", model.EventRepay},
	{"repaywithatokens", model.EventRepay},
	{"repaywithpermit", model.EventRepay},
	{"repay", model.EventRepay},
	{"flashloan", model.EventBorrow},
	{"flashborrow", model.EventBorrow},
	{"borrow", model.EventBorrow},
	{"supply", model.EventSupply},
	{"deposit", model.EventSupply},
	{"mint", model.EventSupply},
	{"withdraw", model.EventWithdraw},
	{"redeem", model.EventWithdraw},
	{"transfer", model.EventOther},
	{"approval", model.EventOther},
	{"approve", model.EventOther},
}

// Signature strips the argument list from a decoded function name.
func Signature(functionName string) string {
	name := strings.TrimSpace(functionName)
	if i := strings.Index(name, "("); i >= 0 {
		name = name[:i]
	}
	return name
}

// ClassifyEvent maps a function or event signature to its lending meaning.
func ClassifyEvent(signature string) model.EventType {
	s := strings.ToLower(Signature(signature))
	if s == "" {
		return model.EventOther
	}
	for _, r := range keywordRules {
		if strings.Contains(s, r.keyword) {
			return r.event
		}
	}
	return model.EventOther
}
