package model

import "time"

// ProtocolInteraction is one transfer that touched a known protocol address.
type ProtocolInteraction struct {
	Protocol  string    `json:"protocol"`
	Bucket    string    `json:"category"`
	Address   string    `json:"address"`
	Hash      string    `json:"hash"`
	Timestamp time.Time `json:"timestamp"`
	Direction Direction `json:"direction"`
}

// DeFiInteractions flags protocol usage by canonical bucket.
type DeFiInteractions struct {
	Aave           bool                  `json:"aave"`
	Compound       bool                  `json:"compound"`
	Uniswap        bool                  `json:"uniswap"`
	Curve          bool                  `json:"curve"`
	Ethena         bool                  `json:"ethena"`
	Morpho         bool                  `json:"morpho"`
	TotalProtocols int                   `json:"total_protocols"`
	StakingEvents  int                   `json:"staking_events"`
	Interactions   []ProtocolInteraction `json:"protocol_details"`
}

// MixerReport aggregates transfers to or from mixer contracts.
type MixerReport struct {
	HasMixerInteraction bool           `json:"has_mixer_interaction"`
	TotalInteractions   int            `json:"total_interactions"`
	IncomingCount       int            `json:"incoming_count"`
	OutgoingCount       int            `json:"outgoing_count"`
	PerMixer            map[string]int `json:"per_mixer"`
	Counterparties      []string       `json:"counterparties"`
	TxHashes            []string       `json:"tx_hashes"`
	FirstInteraction    *time.Time     `json:"first_interaction,omitempty"`
	LastInteraction     *time.Time     `json:"last_interaction,omitempty"`
}
