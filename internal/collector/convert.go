package collector

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

const weiDecimals = 18

// parseHexBig parses a 0x-prefixed hex quantity.
func parseHexBig(s string) (*big.Int, error) {
	s = strings.TrimPrefix(strings.TrimPrefix(strings.TrimSpace(s), "0x"), "0X")
	if s == "" {
		return new(big.Int), nil
	}
	n, ok := new(big.Int).SetString(s, 16)
	if !ok {
		return nil, fmt.Errorf("invalid hex quantity %q", s)
	}
	return n, nil
}

// weiToETH converts a wei amount to ETH.
func weiToETH(wei *big.Int) float64 {
	return decimal.NewFromBigInt(wei, -weiDecimals).InexactFloat64()
}

// flexFloat accepts a JSON number, a numeric string or null.
type flexFloat float64

func (f *flexFloat) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("not a number: %s", b)
	}
	*f = flexFloat(v)
	return nil
}

// flexInt accepts a JSON integer or numeric string. Null and anything that is
// not a whole integer ("18.0", 18.5, "abc") leave Set false without failing the
// enclosing decode.
type flexInt struct {
	Value int
	Set   bool
}

func (f *flexInt) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if v, err := strconv.Atoi(s); err == nil {
		f.Value, f.Set = v, true
	}
	return nil
}
