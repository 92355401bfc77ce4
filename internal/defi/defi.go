// Package defi detects protocol, mixer and stablecoin signals in a wallet.
package defi

import (
	"sort"
	"strings"

	"WalletScore/internal/config"
	"WalletScore/internal/model"

	"github.com/shopspring/decimal"
)

// stablecoinDecimals is assumed for registry stablecoins lacking metadata.
const stablecoinDecimals = 6

// Detector matches transfers and holdings against the registry.
type Detector struct {
	Registry *config.Registry
}

// New creates a Detector.
func New(reg *config.Registry) *Detector {
	return &Detector{Registry: reg}
}

type directed struct {
	model.Transfer
	dir model.Direction
}

func flatten(t model.Transfers) []directed {
	out := make([]directed, 0, t.Count())
	for _, tr := range t.Incoming {
		out = append(out, directed{tr, model.DirectionIncoming})
	}
	for _, tr := range t.Outgoing {
		out = append(out, directed{tr, model.DirectionOutgoing})
	}
	return out
}

// Interactions flags every known protocol the wallet touched.
func (d *Detector) Interactions(transfers model.Transfers) model.DeFiInteractions {
	res := model.DeFiInteractions{Interactions: []model.ProtocolInteraction{}}
	buckets := make(map[string]struct{})

	for _, t := range flatten(transfers) {
		p, addr, ok := d.matchProtocol(t.Transfer)
		if !ok {
			continue
		}
		buckets[p.Bucket] = struct{}{}
		switch p.Bucket {
		case config.BucketAave:
			res.Aave = true
		case config.BucketCompound:
			res.Compound = true
		case config.BucketUniswap:
			res.Uniswap = true
		case config.BucketCurve:
			res.Curve = true
		case config.BucketEthena:
			res.Ethena = true
		case config.BucketMorpho:
			res.Morpho = true
		}
		if p.Staking {
			res.StakingEvents++
		}
		res.Interactions = append(res.Interactions, model.ProtocolInteraction{
			Protocol:  p.Name,
			Bucket:    p.Bucket,
			Address:   addr,
			Hash:      t.Hash,
			Timestamp: t.BlockTimestamp,
			Direction: t.dir,
		})
	}
	res.TotalProtocols = len(buckets)
	return res
}

func (d *Detector) matchProtocol(t model.Transfer) (config.Protocol, string, bool) {
	if p, ok := d.Registry.Protocol(t.To); ok {
		return p, strings.ToLower(t.To), true
	}
	if p, ok := d.Registry.Protocol(t.From); ok {
		return p, strings.ToLower(t.From), true
	}
	return config.Protocol{}, "", false
}

// Mixers aggregates transfers to or from mixer contracts.
func (d *Detector) Mixers(transfers model.Transfers) model.MixerReport {
	res := model.MixerReport{
		PerMixer:       map[string]int{},
		Counterparties: []string{},
		TxHashes:       []string{},
	}
	counterparties := make(map[string]struct{})
	hashes := make(map[string]struct{})

	for _, t := range flatten(transfers) {
		var mixer, counterparty string
		switch {
		case d.Registry.IsMixer(t.To):
			mixer, counterparty = t.To, t.From
			res.OutgoingCount++
		case d.Registry.IsMixer(t.From):
			mixer, counterparty = t.From, t.To
			res.IncomingCount++
		default:
			continue
		}

		res.TotalInteractions++
		res.PerMixer[strings.ToLower(mixer)]++
		if counterparty != "" {
			counterparties[strings.ToLower(counterparty)] = struct{}{}
		}
		if t.Hash != "" {
			hashes[t.Hash] = struct{}{}
		}
		if t.HasTimestamp() {
			ts := t.BlockTimestamp
			if res.FirstInteraction == nil || ts.Before(*res.FirstInteraction) {
				res.FirstInteraction = &ts
			}
			if res.LastInteraction == nil || ts.After(*res.LastInteraction) {
				res.LastInteraction = &ts
			}
		}
	}

	res.HasMixerInteraction = res.TotalInteractions > 0
	res.Counterparties = sortedKeys(counterparties)
	res.TxHashes = sortedKeys(hashes)
	return res
}

// Stablecoins sums stablecoin value. Holdings without an enriched category
// fall back to the registry address list with a 6-decimal assumption.
func (d *Detector) Stablecoins(holdings []model.TokenHolding) model.StablecoinHoldings {
	var res model.StablecoinHoldings
	for _, h := range holdings {
		switch {
		case h.Category == model.CategoryStablecoin:
			res.TotalUSD += h.ValueUSD
			res.Count++
		case h.Category == "" && d.Registry.IsStablecoin(h.ContractAddress) && h.RawBalance != nil:
			res.TotalUSD += decimal.NewFromBigInt(h.RawBalance, -stablecoinDecimals).InexactFloat64()
			res.Count++
		}
	}
	return res
}

func sortedKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
