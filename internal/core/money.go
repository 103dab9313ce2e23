// Package core holds the domain types and the pure pieces of the finance
// tracker: validation, money handling and the analytics aggregation.
package core

import (
	"strconv"

	"github.com/shopspring/decimal"
)

var centsScale = decimal.NewFromInt(100)

// ParseAmountToCents converts a user-supplied decimal string to cents.
//
// It accepts both dot (12.34) and comma (12,34) separators and rounds
// half-up past the second decimal place. Negative values are rejected:
// the sign of a transaction is carried by its type, never by the stored
// amount. Zero is rejected too since a zero posting is meaningless.
func ParseAmountToCents(s string) (int64, error) {
	d, err := decimal.NewFromString(normalizeDecimal(s))
	if err != nil {
		return 0, ErrInvalidAmount
	}
	if d.Sign() <= 0 {
		return 0, ErrInvalidAmount
	}
	return d.Mul(centsScale).Round(0).IntPart(), nil
}

// ParseSignedCents is ParseAmountToCents without the positivity rule,
// used for account opening balances which may legitimately be negative
// (credit accounts) or zero.
func ParseSignedCents(s string) (int64, error) {
	d, err := decimal.NewFromString(normalizeDecimal(s))
	if err != nil {
		return 0, ErrInvalidAmount
	}
	return d.Mul(centsScale).Round(0).IntPart(), nil
}

func normalizeDecimal(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch c {
		case ',':
			out = append(out, '.')
		case ' ', '\t':
			// ignore
		default:
			out = append(out, c)
		}
	}
	return string(out)
}

// Decimal returns the amount as a decimal value for display or JSON output.
func (m Money) Decimal() decimal.Decimal {
	return decimal.New(m.Cents, -2)
}

// String formats the amount as a plain decimal string, e.g. "12.34".
func (m Money) String() string {
	return m.Decimal().StringFixed(2)
}

// MarshalJSON renders money as a JSON number with two decimal places.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.Decimal().StringFixed(2)), nil
}

// UnmarshalJSON accepts either a JSON number or a quoted decimal string.
func (m *Money) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		unq, err := strconv.Unquote(s)
		if err != nil {
			return ErrInvalidAmount
		}
		s = unq
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return ErrInvalidAmount
	}
	m.Cents = d.Mul(centsScale).Round(0).IntPart()
	return nil
}
