package config

// PriceOracle supplies the ETH/USD price used for valuation.
type PriceOracle interface {
	ETHUSD() float64
}

// StaticPrice is a fixed ETH/USD price.
type StaticPrice float64

// ETHUSD returns the fixed price.
func (p StaticPrice) ETHUSD() float64 { return float64(p) }

// Oracle returns the configured static price oracle.
func (c *Config) Oracle() PriceOracle {
	return StaticPrice(c.Scoring.ETHPriceUSD)
}
