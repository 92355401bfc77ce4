package classifier

import (
	"testing"

	"WalletScore/internal/config"
	"WalletScore/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const bayc = "0xbc4ca0eda7647a8ab7c2061c2e118a18a936f13d"

func TestClassify_Buckets(t *testing.T) {
	reg := config.DefaultRegistry()
	c := New(reg)

	nfts := []model.NFT{
		{ContractAddress: reg.POAPContract, TokenID: "1"},
		{ContractAddress: "0x01", TokenID: "2", TokenURI: "https://api.poap.tech/metadata/1"},
		{ContractAddress: "0x02", TokenID: "3", Tags: []string{"POAP Event"}},
		{ContractAddress: reg.ENSNameWrapper, TokenID: "4"},
		{ContractAddress: "0x03", TokenID: "5", Name: "vitalik.ETH"},
		{ContractAddress: bayc, TokenID: "6", SafelistStatus: "verified"},
		{ContractAddress: "0x04", TokenID: "7", IsSpam: true, Name: "claim.eth"},
	}

	p := c.Classify(nfts)

	assert.Equal(t, 7, p.Total)
	assert.Len(t, p.POAPs, 3)
	assert.Len(t, p.ENS, 2)
	assert.Len(t, p.Spam, 1)
	assert.Len(t, p.Legit, 6, "POAP and ENS count as legit, spam does not")
	for _, nft := range p.Legit {
		assert.False(t, nft.Classification.IsSpam)
	}
	assert.Equal(t, "verified", p.Legit[5].Classification.SafelistStatus)
	assert.Equal(t, DefaultSafelistStatus, p.Legit[0].Classification.SafelistStatus)
}

func TestClassify_StripsInlineData(t *testing.T) {
	c := New(config.DefaultRegistry())
	in := []model.NFT{{
		ContractAddress: "0x05",
		TokenURI:        "data:application/json;base64,eyJ9",
		ImageURL:        "data:image/svg+xml;base64,PHN2Zz4=",
		ThumbnailURL:    "https://cdn.example/thumb.png",
	}}

	p := c.Classify(in)
	require.Len(t, p.Legit, 1)
	got := p.Legit[0]

	assert.Empty(t, got.TokenURI)
	assert.Empty(t, got.ImageURL)
	assert.Equal(t, "https://cdn.example/thumb.png", got.ThumbnailURL)
	assert.NotEmpty(t, in[0].TokenURI, "input must not be modified")
}

func TestClassify_Empty(t *testing.T) {
	p := New(config.DefaultRegistry()).Classify(nil)
	assert.Equal(t, 0, p.Total)
	assert.NotNil(t, p.Legit)
	assert.Empty(t, p.Legit)
}

func TestQualityAndValue(t *testing.T) {
	reg := config.DefaultRegistry()
	legit := []model.NFT{
		{ContractAddress: bayc, FloorPriceETH: 0.1, Classification: model.NFTClassification{SafelistStatus: SafelistVerified}},
		{ContractAddress: "0x01", FloorPriceETH: 0.25, Classification: model.NFTClassification{SafelistStatus: SafelistNotRequested}},
		{ContractAddress: "0x02", Classification: model.NFTClassification{SafelistStatus: DefaultSafelistStatus}},
		{ContractAddress: "0x03", FloorPriceETH: 1, Classification: model.NFTClassification{SafelistStatus: SafelistVerified}},
	}

	q := Quality(legit)
	assert.Equal(t, 2, q.VerifiedCount)
	assert.Equal(t, 1, q.NotRequestedCount)
	assert.Equal(t, 1, q.OtherCount)
	assert.InDelta(t, 0.5, q.VerificationRate, 1e-9)

	v := Value(legit, reg)
	assert.Equal(t, 1, v.BlueChipCount)
	assert.InDelta(t, 0.5+0.25+0+1, v.TotalFloorETH, 1e-9)
}

func TestQuality_NoLegit(t *testing.T) {
	q := Quality(nil)
	assert.Zero(t, q.VerificationRate)
}
