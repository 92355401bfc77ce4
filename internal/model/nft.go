package model

// NFTClassification is attached to each NFT by the classifier.
type NFTClassification struct {
	IsPOAP         bool   `json:"is_poap"`
	IsENS          bool   `json:"is_ens"`
	IsSpam         bool   `json:"is_spam"`
	SafelistStatus string `json:"safelist_status"`
}

// NFT is one owned token. Image and URI fields are empty when absent or stripped.
type NFT struct {
	ContractAddress string            `json:"contract_address"`
	TokenID         string            `json:"token_id"`
	Name            string            `json:"name"`
	CollectionName  string            `json:"collection_name,omitempty"`
	TokenURI        string            `json:"token_uri,omitempty"`
	ImageURL        string            `json:"image_url,omitempty"`
	ThumbnailURL    string            `json:"thumbnail_url,omitempty"`
	MetadataImage   string            `json:"metadata_image,omitempty"`
	Tags            []string          `json:"tags,omitempty"`
	IsSpam          bool              `json:"-"`
	SafelistStatus  string            `json:"-"`
	FloorPriceETH   float64           `json:"floor_price_eth"`
	Classification  NFTClassification `json:"classification"`
}

// NFTPortfolio is the classifier output. POAP and ENS NFTs also appear in Legit.
type NFTPortfolio struct {
	POAPs []NFT `json:"poaps"`
	ENS   []NFT `json:"ens_domains"`
	Legit []NFT `json:"legit_nfts"`
	Spam  []NFT `json:"spam_nfts"`
	Total int   `json:"total"`
}

// NFTQuality counts legit NFTs by safelist status.
type NFTQuality struct {
	VerifiedCount     int     `json:"verified_count"`
	NotRequestedCount int     `json:"not_requested_count"`
	OtherCount        int     `json:"other_count"`
	VerificationRate  float64 `json:"verification_rate"`
}

// NFTValue is the floor-price valuation of legit NFTs.
type NFTValue struct {
	TotalFloorETH float64 `json:"total_floor_eth"`
	BlueChipCount int     `json:"blue_chip_count"`
}
