// Package valueobject holds small immutable values shared by the bounded contexts.
package valueobject

import (
	"github.com/shopspring/decimal"
)

// Currency is the ISO 4217 code every amount in the system is expressed in.
const Currency = "TND"

// Scale is the number of decimal places of the dinar (millimes).
const Scale int32 = 3

// PaymentTolerance absorbs rounding noise when comparing a payment to a balance.
var PaymentTolerance = decimal.New(1, -Scale)

var hundred = decimal.NewFromInt(100)

// Round rounds an amount half-up to millimes.
func Round(amount decimal.Decimal) decimal.Decimal {
	return amount.Round(Scale)
}

// WithTax returns ht × (1 + rate/100) rounded to millimes.
func WithTax(ht, ratePercent decimal.Decimal) decimal.Decimal {
	return Round(ht.Mul(decimal.NewFromInt(1).Add(ratePercent.Div(hundred))))
}

// Max returns the larger of a and b.
func Max(a, b decimal.Decimal) decimal.Decimal {
	if a.GreaterThan(b) {
		return a
	}
	return b
}

// ExceedsBy reports whether amount is greater than limit + PaymentTolerance.
func ExceedsBy(amount, limit decimal.Decimal) bool {
	return amount.GreaterThan(limit.Add(PaymentTolerance))
}

// Sum adds every amount returned by fn over items.
func Sum[T any](items []T, fn func(T) decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(fn(item))
	}
	return total
}
