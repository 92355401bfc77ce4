package model

import "time"

// Direction is relative to the queried wallet.
type Direction string

const (
	DirectionIncoming Direction = "incoming"
	DirectionOutgoing Direction = "outgoing"
)

// Transfer is one asset movement touching the wallet.
type Transfer struct {
	Hash           string    `json:"hash"`
	From           string    `json:"from"`
	To             string    `json:"to"`
	Asset          string    `json:"asset"`
	Value          float64   `json:"value"`
	Category       string    `json:"category"`
	BlockTimestamp time.Time `json:"block_timestamp"`
}

// HasTimestamp reports whether the block timestamp was parsed at the fetch boundary.
func (t Transfer) HasTimestamp() bool {
	return !t.BlockTimestamp.IsZero()
}

// Transfers groups transfers by direction.
type Transfers struct {
	Incoming []Transfer `json:"incoming"`
	Outgoing []Transfer `json:"outgoing"`
}

// All returns incoming followed by outgoing transfers.
func (t Transfers) All() []Transfer {
	all := make([]Transfer, 0, len(t.Incoming)+len(t.Outgoing))
	all = append(all, t.Incoming...)
	return append(all, t.Outgoing...)
}

// Count returns the total number of transfers.
func (t Transfers) Count() int {
	return len(t.Incoming) + len(t.Outgoing)
}

// TransferAnalysis is the activity summary derived from transfers.
type TransferAnalysis struct {
	AgeDays        int        `json:"age_days"`
	TxCount        int        `json:"tx_count"`
	ETHIn          float64    `json:"eth_in"`
	ETHOut         float64    `json:"eth_out"`
	ActiveMonths   int        `json:"active_months"`
	AvgTxPerMonth  float64    `json:"avg_tx_per_month"`
	DormantPeriods int        `json:"dormant_periods"`
	LatestActivity *time.Time `json:"latest_activity,omitempty"`
}

// WalletMetadata summarises counterparties and direction counts.
type WalletMetadata struct {
	UniqueCounterparties int        `json:"unique_counterparties"`
	IncomingCount        int        `json:"incoming_count"`
	OutgoingCount        int        `json:"outgoing_count"`
	FirstActivity        *time.Time `json:"first_activity,omitempty"`
	LastActivity         *time.Time `json:"last_activity,omitempty"`
}
