package model

import (
	"math/big"
	"strconv"
)

// FormatMoney renders v with two decimals, rounding half away from zero on
// the shortest decimal form of v (4.725 renders as "4.73").
func FormatMoney(v float64) string {
	r, ok := new(big.Rat).SetString(strconv.FormatFloat(v, 'f', -1, 64))
	if !ok {
		return strconv.FormatFloat(v, 'f', 2, 64)
	}
	return r.FloatString(2)
}
