package config

import "strings"

// Protocol buckets used for DeFi flags.
const (
	BucketAave     = "aave"
	BucketCompound = "compound"
	BucketUniswap  = "uniswap"
	BucketCurve    = "curve"
	BucketEthena   = "ethena"
	BucketMorpho   = "morpho"
)

// UnknownProtocol is the name reported for contracts missing from the registry.
const UnknownProtocol = "Unknown Protocol"

// Protocol is a known DeFi contract.
type Protocol struct {
	Name    string `yaml:"name"`
	Address string `yaml:"address"`
	Bucket  string `yaml:"bucket"`
	Staking bool   `yaml:"staking"`
}

// Registry holds the static address lists the analyzers depend on.
// It is read-only after Load; all lookups are case-insensitive.
type Registry struct {
	POAPContract   string            `yaml:"poap_contract"`
	ENSNameWrapper string            `yaml:"ens_name_wrapper"`
	Protocols      []Protocol        `yaml:"protocols"`
	Mixers         []string          `yaml:"mixers"`
	Stablecoins    map[string]string `yaml:"stablecoins"`
	BlueChipNFTs   map[string]string `yaml:"blue_chip_nfts"`
}

// DefaultRegistry returns the Ethereum mainnet registry.
func DefaultRegistry() *Registry {
	r := &Registry{}
	r.fillDefaults()
	return r
}

func (r *Registry) fillDefaults() {
	if r.POAPContract == "" {
		r.POAPContract = "0x22C1f6050E56d2876009903609a2cC3fEf83B415"
	}
	if r.ENSNameWrapper == "" {
		r.ENSNameWrapper = "0xD4416b13d2b3a9aBae7AcD5D6C2BbDBE25686401"
	}
	if len(r.Protocols) == 0 {
		r.Protocols = []Protocol{
			{Name: "Aave V3 Pool", Address: "0x87870bca3f3fd6335c3f4ce8392d69350b4fa4e2", Bucket: BucketAave},
			{Name: "Aave V2 Lending Pool", Address: "0x7d2768de32b0b80b7a3454c06bdac94a69ddc7a9", Bucket: BucketAave},
			{Name: "Compound V3 USDC", Address: "0xc3d688b66703497daa19211eedff47f25384cdc3", Bucket: BucketCompound},
			{Name: "Compound V2 Comptroller", Address: "0x3d9819210a31b4961b30ef54be2aed79b9c9cd3b", Bucket: BucketCompound},
			{Name: "Uniswap V3 Router", Address: "0xe592427a0aece92de3edee1f18e0157c05861564", Bucket: BucketUniswap},
			{Name: "Uniswap V2 Router", Address: "0x7a250d5630b4cf539739df2c5dacb4c659f2488d", Bucket: BucketUniswap},
			{Name: "Curve Router", Address: "0x99a58482bd75cbab83b27ec03ca68ff489b5788f", Bucket: BucketCurve},
			{Name: "Ethena USDe", Address: "0x4c9edd5852cd905f086c759e8383e09bff1e68b3", Bucket: BucketEthena},
			{Name: "Ethena sUSDe", Address: "0x9d39a5de30e57443bff2a8307a4256c8797a3497", Bucket: BucketEthena, Staking: true},
			{Name: "Ethena sENA", Address: "0x8be3460a480c80728a8c4d7a5d5303c85ba7b3b9", Bucket: BucketEthena, Staking: true},
			{Name: "Morpho Blue", Address: "0xbbbbbbbbbb9cc5e90e3b3af64bdaf62c37eeffcb", Bucket: BucketMorpho},
		}
	}
	if len(r.Mixers) == 0 {
		r.Mixers = []string{
			"0x8589427373d6d84e98730d7795d8f6f8731fda16",
			"0x722122df12d4e14e13ac3b6895a86e84145b6967",
			"0xdd4c48c0b24039969fc16d1cdf626eab821d3384",
			"0x07687e702b410fa43f4cb4af7fa097918ffd2730",
			"0x12d66f87a04a9e220743712ce6d9bb1b5616b8fc",
			"0x47ce0c6ed5b0ce3d3a51fdb1c52dc66a7c3c2936",
			"0x910cbd523d972eb0a6f4cae4618ad62622b39dbf",
		}
	}
	if len(r.Stablecoins) == 0 {
		r.Stablecoins = map[string]string{
			"usdc": "0xa0b86991c6218b36c1d19d4a2e9eb0ce3606eb48",
			"usdt": "0xdac17f958d2ee523a2206206994597c13d831ec7",
			"dai":  "0x6b175474e89094c44da98b954eedeac495271d0f",
		}
	}
	if len(r.BlueChipNFTs) == 0 {
		r.BlueChipNFTs = map[string]string{
			"bayc":   "0xbc4ca0eda7647a8ab7c2061c2e118a18a936f13d",
			"punks":  "0xb47e3cd837ddf8e4c57f05d70ab865de6e193bbb",
			"azuki":  "0xed5af388653567af2f388e6224dc7c4b3241c544",
			"mayc":   "0x60e4d786628fea6478f785a6d7e704777c86a7c6",
			"clonex": "0x49cf6f5d44e70224e2e23fdcdd2c053f30ada28b",
		}
	}
}

// IsPOAPContract reports whether addr is the POAP contract.
func (r *Registry) IsPOAPContract(addr string) bool {
	return addr != "" && strings.EqualFold(addr, r.POAPContract)
}

// IsENSContract reports whether addr is the ENS NameWrapper.
func (r *Registry) IsENSContract(addr string) bool {
	return addr != "" && strings.EqualFold(addr, r.ENSNameWrapper)
}

// Protocol looks up a DeFi protocol by contract address.
func (r *Registry) Protocol(addr string) (Protocol, bool) {
	if addr == "" {
		return Protocol{}, false
	}
	for _, p := range r.Protocols {
		if strings.EqualFold(p.Address, addr) {
			return p, true
		}
	}
	return Protocol{}, false
}

// ProtocolName resolves an address to a display name.
func (r *Registry) ProtocolName(addr string) string {
	if p, ok := r.Protocol(addr); ok {
		return p.Name
	}
	return UnknownProtocol
}

// IsMixer reports whether addr is a known mixer contract.
func (r *Registry) IsMixer(addr string) bool {
	return containsFold(r.Mixers, addr)
}

// IsStablecoin reports whether addr is a known stablecoin contract.
func (r *Registry) IsStablecoin(addr string) bool {
	return containsFold(values(r.Stablecoins), addr)
}

// IsBlueChip reports whether addr is a blue-chip NFT collection.
func (r *Registry) IsBlueChip(addr string) bool {
	return containsFold(values(r.BlueChipNFTs), addr)
}

func containsFold(list []string, addr string) bool {
	if addr == "" {
		return false
	}
	for _, v := range list {
		if strings.EqualFold(v, addr) {
			return true
		}
	}
	return false
}

func values(m map[string]string) []string {
	out := make([]string, 0, len(m))
	for _, v := range m {
		out = append(out, v)
	}
	return out
}
