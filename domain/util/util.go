package util

import (
	"fmt"
	"math/big"

	"github.com/dustin/go-humanize"
)

var wad = new(big.Float).SetInt(new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil))

// CoinString renders an 1e18-scaled token amount for logs and the status
// command output.
func CoinString(amount *big.Int, symbol string) string {
	if amount == nil {
		return fmt.Sprintf("0 %v", symbol)
	}
	value, _ := new(big.Float).Quo(new(big.Float).SetInt(amount), wad).Float64()
	return fmt.Sprintf("%v %v", humanize.Commaf(value), symbol)
}

// PercentString renders a basis-point percent value.
func PercentString(bps uint64) string {
	return fmt.Sprintf("%v%%", humanize.Commaf(float64(bps)/100))
}
