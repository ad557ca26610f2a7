// Package money represents monetary amounts as integer minor units
// (millimes, 1/1000 TND). Arithmetic on amounts never goes through
// floating point; conversions to and from decimal strings happen only
// at the API boundary.
package money

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// Scale is the number of decimal places of the currency minor unit.
// TND carries three (millimes).
const Scale = 3

var minorFactor = decimal.New(1, Scale) // 10^Scale

// Amount is a monetary amount in minor units.
type Amount int64

// FromDecimal converts a decimal value in major units to an Amount,
// rounding half away from zero to the minor unit.
func FromDecimal(d decimal.Decimal) Amount {
	return Amount(d.Mul(minorFactor).Round(0).IntPart())
}

// Parse converts a decimal string such as "50.000" to an Amount.
func Parse(s string) (Amount, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return FromDecimal(d), nil
}

// Decimal returns the amount in major units.
func (a Amount) Decimal() decimal.Decimal {
	return decimal.New(int64(a), -Scale)
}

// String renders the amount with the full minor-unit scale, e.g. "161.500".
func (a Amount) String() string {
	return a.Decimal().StringFixed(Scale)
}

// MulInt multiplies the amount by an integer factor.
func (a Amount) MulInt(n int64) Amount {
	return Amount(int64(a) * n)
}

// ApplyPercent returns p percent of the amount, rounded half away from
// zero to the minor unit. All derived charges must use this single
// rounding rule so that component sums stay consistent.
func (a Amount) ApplyPercent(p decimal.Decimal) Amount {
	return FromDecimal(a.Decimal().Mul(p).Div(decimal.NewFromInt(100)))
}

// MarshalJSON renders the amount as a decimal string.
func (a Amount) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

// UnmarshalJSON accepts either a decimal string or a bare number.
func (a *Amount) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		var f json.Number
		if err := json.Unmarshal(data, &f); err != nil {
			return fmt.Errorf("invalid amount %s", data)
		}
		s = f.String()
	}
	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
