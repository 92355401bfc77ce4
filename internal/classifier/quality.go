package classifier

import (
	"WalletScore/internal/config"
	"WalletScore/internal/model"
)

// Safelist statuses reported by the NFT source.
const (
	SafelistVerified     = "verified"
	SafelistNotRequested = "not_requested"
)

// minBlueChipFloorETH is the floor assumed for blue-chip collections whose
// reported floor is missing or lower.
const minBlueChipFloorETH = 0.5

// Quality counts legit NFTs by safelist status.
func Quality(legit []model.NFT) model.NFTQuality {
	var q model.NFTQuality
	for _, nft := range legit {
		switch nft.Classification.SafelistStatus {
		case SafelistVerified:
			q.VerifiedCount++
		case SafelistNotRequested:
			q.NotRequestedCount++
		default:
			q.OtherCount++
		}
	}
	q.VerificationRate = float64(q.VerifiedCount) / float64(max(len(legit), 1))
	return q
}

// Value sums floor prices of legit NFTs in ETH.
func Value(legit []model.NFT, reg *config.Registry) model.NFTValue {
	var v model.NFTValue
	for _, nft := range legit {
		floor := nft.FloorPriceETH
		if reg.IsBlueChip(nft.ContractAddress) {
			v.BlueChipCount++
			floor = max(floor, minBlueChipFloorETH)
		}
		v.TotalFloorETH += floor
	}
	return v
}
