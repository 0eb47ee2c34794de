package entities

import (
	"github.com/shopspring/decimal"
)

// Amounts are int64 minor units (cents). Rates such as discounts and commissions
// are decimals; every product of an amount and a rate is rounded half away from
// zero to a whole minor unit before it touches a balance.

// ApplyRate returns amount*rate rounded to minor units.
func ApplyRate(amount int64, rate decimal.Decimal) int64 {
	return decimal.NewFromInt(amount).Mul(rate).Round(0).IntPart()
}

// FormatMinor renders minor units as a plain decimal string, e.g. 2550 -> "25.50".
func FormatMinor(amount int64) string {
	return decimal.New(amount, -2).StringFixed(2)
}

// FormatPercentage renders a rate as a whole percentage, e.g. 0.15 -> "15%".
func FormatPercentage(rate decimal.Decimal) string {
	return rate.Mul(decimal.NewFromInt(100)).Round(0).String() + "%"
}
