package utils

import "math" // Rounding

// RoundPrice normalizes a price to two decimal places (cents)
func RoundPrice(price float64) float64 {
	return math.Round(price*100) / 100 // Round to 2 decimal places
}
