// Package classifier labels NFTs and derives quality and value signals from them.
package classifier

import (
	"strings"

	"WalletScore/internal/config"
	"WalletScore/internal/model"
)

// DefaultSafelistStatus is used when the source reports no safelist status.
const DefaultSafelistStatus = "unknown"

// Classifier sorts NFTs into POAP, ENS, spam and legit buckets.
type Classifier struct {
	Registry *config.Registry
}

// New creates a Classifier backed by the given registry.
func New(reg *config.Registry) *Classifier {
	return &Classifier{Registry: reg}
}

// IsPOAP reports whether the NFT is a proof-of-attendance token.
func (c *Classifier) IsPOAP(nft model.NFT) bool {
	if c.Registry.IsPOAPContract(nft.ContractAddress) {
		return true
	}
	if strings.Contains(strings.ToLower(nft.TokenURI), "poap.tech") {
		return true
	}
	for _, tag := range nft.Tags {
		if strings.Contains(strings.ToLower(tag), "poap") {
			return true
		}
	}
	return false
}

// IsENS reports whether the NFT is an ENS name.
func (c *Classifier) IsENS(nft model.NFT) bool {
	if c.Registry.IsENSContract(nft.ContractAddress) {
		return true
	}
	return strings.HasSuffix(strings.ToLower(strings.TrimSpace(nft.Name)), ".eth")
}

// SafelistStatus passes through the source status, defaulting to "unknown".
func SafelistStatus(nft model.NFT) string {
	if nft.SafelistStatus == "" {
		return DefaultSafelistStatus
	}
	return nft.SafelistStatus
}

// Classify returns a new portfolio; the input slice is not modified.
// Spam NFTs go to their own bucket and never reach Legit.
func (c *Classifier) Classify(nfts []model.NFT) model.NFTPortfolio {
	p := model.NFTPortfolio{
		POAPs: []model.NFT{},
		ENS:   []model.NFT{},
		Legit: []model.NFT{},
		Spam:  []model.NFT{},
		Total: len(nfts),
	}
	for _, nft := range nfts {
		nft = stripInlineData(nft)
		nft.Classification = model.NFTClassification{
			IsPOAP:         c.IsPOAP(nft),
			IsENS:          c.IsENS(nft),
			IsSpam:         nft.IsSpam,
			SafelistStatus: SafelistStatus(nft),
		}

		switch {
		case nft.Classification.IsSpam:
			p.Spam = append(p.Spam, nft)
			continue
		case nft.Classification.IsPOAP:
			p.POAPs = append(p.POAPs, nft)
		case nft.Classification.IsENS:
			p.ENS = append(p.ENS, nft)
		}
		p.Legit = append(p.Legit, nft)
	}
	return p
}

// stripInlineData drops data: URIs so base64 blobs never travel downstream.
func stripInlineData(nft model.NFT) model.NFT {
	nft.TokenURI = dropDataURI(nft.TokenURI)
	nft.ImageURL = dropDataURI(nft.ImageURL)
	nft.ThumbnailURL = dropDataURI(nft.ThumbnailURL)
	nft.MetadataImage = dropDataURI(nft.MetadataImage)
	if len(nft.Tags) > 0 {
		nft.Tags = append([]string(nil), nft.Tags...)
	}
	return nft
}

func dropDataURI(s string) string {
	if strings.HasPrefix(strings.ToLower(strings.TrimSpace(s)), "data:") {
		return ""
	}
	return s
}
