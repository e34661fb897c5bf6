package money

import "github.com/shopspring/decimal"

// Notional returns price * volume.
func Notional(price float64, volume int64) decimal.Decimal {
	return decimal.NewFromFloat(price).Mul(decimal.NewFromInt(volume))
}

// Charge returns price * volume * rate, computed in decimal and converted
// back to float64 at the end so that e.g. 1000 * 10 * 0.0005 is exactly 5.
func Charge(price float64, volume int64, rate float64) float64 {
	return Notional(price, volume).Mul(decimal.NewFromFloat(rate)).InexactFloat64()
}
