package model

import (
	"sort"
	"time"
)

// Transaction is a normal transaction with its decoded function name.
type Transaction struct {
	Hash         string    `json:"hash"`
	From         string    `json:"from"`
	To           string    `json:"to"`
	FunctionName string    `json:"function_name"`
	Timestamp    time.Time `json:"timestamp"`
	IsError      bool      `json:"is_error"`
}

// EventType is the lending meaning of a protocol call.
type EventType string

const (
	EventBorrow    EventType = "borrow"
	EventRepay     EventType = "repay"
	EventLiquidate EventType = "liquidate"
	EventSupply    EventType = "supply"
	EventWithdraw  EventType = "withdraw"
	EventOther     EventType = "other"
)

// ProtocolEvent is one classified interaction with a protocol contract.
type ProtocolEvent struct {
	ContractAddress string    `json:"contract_address"`
	EventType       EventType `json:"event_type"`
	Signature       string    `json:"signature"`
	Timestamp       time.Time `json:"timestamp"`
	TxHash          string    `json:"tx_hash"`
}

// ProtocolStats aggregates events for a single contract. Events keep input order.
type ProtocolStats struct {
	Address           string          `json:"address"`
	ProtocolName      string          `json:"protocol_name"`
	BorrowCount       int             `json:"borrow_count"`
	RepayCount        int             `json:"repay_count"`
	LiquidateCount    int             `json:"liquidate_count"`
	SupplyCount       int             `json:"supply_count"`
	WithdrawCount     int             `json:"withdraw_count"`
	OtherCount        int             `json:"other_count"`
	TotalInteractions int             `json:"total_interactions"`
	FirstInteraction  *time.Time      `json:"first_interaction,omitempty"`
	LastInteraction   *time.Time      `json:"last_interaction,omitempty"`
	Events            []ProtocolEvent `json:"events"`
}

// LendingSummary totals events across all protocols.
type LendingSummary struct {
	TotalProtocols    int     `json:"total_protocols_interacted"`
	TotalBorrows      int     `json:"total_borrows"`
	TotalRepays       int     `json:"total_repays"`
	TotalLiquidations int     `json:"total_liquidations"`
	TotalSupplies     int     `json:"total_supplies"`
	TotalWithdrawals  int     `json:"total_withdrawals"`
	TotalOther        int     `json:"total_other"`
	HasLendingHistory bool    `json:"has_lending_history"`
	HasLiquidations   bool    `json:"has_liquidations"`
	RepaymentRatio    float64 `json:"repayment_ratio"`
}

// RiskIndicators are the coarse lending labels.
type RiskIndicators struct {
	LiquidationRisk   string  `json:"liquidation_risk"`
	DebtManagement    string  `json:"debt_management"`
	BorrowingActivity string  `json:"borrowing_activity"`
	RepaymentRatio    float64 `json:"repayment_ratio"`
}

// ProtocolAnalysis is the lending analyzer output keyed by lowercase contract address.
type ProtocolAnalysis struct {
	Protocols map[string]*ProtocolStats `json:"protocols"`
	Summary   LendingSummary            `json:"summary"`
	Risk      RiskIndicators            `json:"risk_indicators"`
}

// Addresses returns protocol addresses in sorted order so downstream passes are deterministic.
func (a ProtocolAnalysis) Addresses() []string {
	addrs := make([]string, 0, len(a.Protocols))
	for addr := range a.Protocols {
		addrs = append(addrs, addr)
	}
	sort.Strings(addrs)
	return addrs
}

// LendingCredit is the 0-100 lending creditworthiness estimate.
type LendingCredit struct {
	CreditScore       float64 `json:"credit_score"`
	Creditworthiness  string  `json:"creditworthiness"`
	RepaymentRatio    float64 `json:"repayment_ratio"`
	TotalBorrows      int     `json:"total_borrows"`
	TotalRepays       int     `json:"total_repays"`
	Liquidations      int     `json:"liquidations"`
	HasLendingHistory bool    `json:"has_lending_history"`
	HasDefaultHistory bool    `json:"has_default_history"`
	HasBorrowing      bool    `json:"has_borrowing_activity"`
}
