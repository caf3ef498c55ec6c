package utils

import "math"

// RoundCurrency rounds a currency amount to two decimal places, half away
// from zero. All revenue figures returned by the API go through this so
// every endpoint reports amounts under the same rounding rule.
func RoundCurrency(amount float64) float64 {
	return math.Round(amount*100) / 100
}
