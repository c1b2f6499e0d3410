// Package money implements fixed-point currency arithmetic.
//
// Amounts travel through the system as decimal.Decimal values, but every
// computation that has to conserve money (splitting an expense, accumulating
// balances, matching debtors with creditors) runs on Cents, an integer count
// of minor currency units. Conversion back to decimal only happens at output
// boundaries, so a sum of Cents that is zero stays exactly zero.
package money

import (
	"github.com/shopspring/decimal"
)

// Cents is an amount expressed in minor currency units (1/100 of a unit).
type Cents int64

// Tolerance is the settlement epsilon: balances within one cent of zero are
// treated as settled.
const Tolerance Cents = 1

var hundred = decimal.NewFromInt(100)

// Hundred returns 100 as a decimal, handy for percentage math.
func Hundred() decimal.Decimal { return hundred }

// MaxAmount is the largest magnitude a single amount may have: ten trillion
// units. Sums of many such amounts still fit in Cents.
var MaxAmount = decimal.New(1, 13)

// InRange reports whether d can be converted to Cents without overflow.
// Amounts from outside must be checked before FromDecimal.
func InRange(d decimal.Decimal) bool {
	return d.Abs().LessThanOrEqual(MaxAmount)
}

// FromDecimal converts d to cents, rounding half away from zero.
// d must be InRange; larger values wrap.
func FromDecimal(d decimal.Decimal) Cents {
	return Cents(d.Mul(hundred).Round(0).IntPart())
}

// FromFloat converts a float amount (as received from clients) to cents.
func FromFloat(f float64) Cents {
	return FromDecimal(decimal.NewFromFloat(f))
}

// Decimal returns c as a decimal with two fractional digits.
func (c Cents) Decimal() decimal.Decimal {
	return decimal.New(int64(c), -2)
}

// Float64 returns c as a float rounded to two decimals.
func (c Cents) Float64() float64 {
	return c.Decimal().InexactFloat64()
}

// Abs returns the absolute value of c.
func (c Cents) Abs() Cents {
	if c < 0 {
		return -c
	}
	return c
}

// String formats c with exactly two fractional digits ("12.30").
func (c Cents) String() string {
	return c.Decimal().StringFixed(2)
}

// Round2 rounds d to two decimals: round(x*100)/100.
func Round2(d decimal.Decimal) decimal.Decimal {
	return FromDecimal(d).Decimal()
}

// Sum adds up amounts.
func Sum(amounts ...Cents) Cents {
	var total Cents
	for _, a := range amounts {
		total += a
	}
	return total
}

// SplitEvenly divides total into n parts whose sum is exactly total.
// Parts differ by at most one cent; the first total mod n parts carry the
// extra cent. It returns nil when n <= 0.
func SplitEvenly(total Cents, n int) []Cents {
	if n <= 0 {
		return nil
	}
	base := total / Cents(n)
	rem := total % Cents(n)

	parts := make([]Cents, n)
	for i := range parts {
		parts[i] = base
		switch {
		case rem > 0 && Cents(i) < rem:
			parts[i]++
		case rem < 0 && Cents(i) < -rem:
			parts[i]--
		}
	}
	return parts
}
