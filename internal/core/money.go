// Package core provides the domain types for financial aggregation:
// transaction records, day-precision dates, calendar periods and fixed-point
// money amounts.
package core

import (
	"encoding/json"
	"strconv"
	"strings"
	"unicode"
)

// Money is a fixed-point amount in cents. All arithmetic happens on cents to
// avoid floating-point drift; conversion to a decimal value is for display
// and JSON only.
type Money struct {
	Cents int64
}

// ParseAmountToCents converts a decimal string to cents with half-up rounding
// on the third decimal place. Both dot (12.34) and comma (12,34) separators
// are accepted, as is a leading minus sign: callers decide what to do with
// negative amounts.
//
// Examples:
//
//	ParseAmountToCents("12.34")  -> 1234, nil
//	ParseAmountToCents("12,34")  -> 1234, nil
//	ParseAmountToCents("12.345") -> 1235, nil (half rounds up)
//	ParseAmountToCents("12.344") -> 1234, nil (rounds down)
func ParseAmountToCents(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	// Normalize decimal comma to dot
	s = strings.ReplaceAll(s, ",", ".")
	neg := false
	switch {
	case strings.HasPrefix(s, "-"):
		neg = true
		s = s[1:]
	case strings.HasPrefix(s, "+"):
		s = s[1:]
	}
	// Split into integer and fractional part
	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return 0, ErrInvalidAmount
	}
	intPart := parts[0]
	fracPart := ""
	if len(parts) == 2 {
		fracPart = parts[1]
	}
	if intPart == "" {
		intPart = "0"
	}
	if intPart == "0" && fracPart == "" && len(parts) == 2 {
		return 0, ErrInvalidAmount
	}
	for _, r := range intPart {
		if !unicode.IsDigit(r) {
			return 0, ErrInvalidAmount
		}
	}
	for _, r := range fracPart {
		if !unicode.IsDigit(r) {
			return 0, ErrInvalidAmount
		}
	}
	iv, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	// Prevent overflow when multiplying by 100
	const maxSafeInt64 = (1<<63 - 1) / 100
	if iv > maxSafeInt64 {
		return 0, ErrInvalidAmount
	}
	// Take first two fractional digits; then half-up rounding on third
	var fracCents int64
	if len(fracPart) > 0 {
		d1 := int64(fracPart[0] - '0')
		fracCents = d1 * 10
		if len(fracPart) > 1 {
			d2 := int64(fracPart[1] - '0')
			fracCents += d2
			if len(fracPart) > 2 && fracPart[2] >= '5' {
				fracCents++
			}
		}
	}
	cents := iv*100 + fracCents
	if neg {
		cents = -cents
	}
	return cents, nil
}

// Amount returns the decimal value as a float64 for display and ratio
// arithmetic. Use cents for exact sums.
func (m Money) Amount() float64 {
	return float64(m.Cents) / 100.0
}

// Add returns the sum of two amounts.
func (m Money) Add(other Money) Money {
	return Money{Cents: m.Cents + other.Cents}
}

// Sub returns the difference of two amounts.
func (m Money) Sub(other Money) Money {
	return Money{Cents: m.Cents - other.Cents}
}

// IsZero reports whether the amount is exactly zero.
func (m Money) IsZero() bool {
	return m.Cents == 0
}

// MarshalJSON encodes the amount as a plain decimal number.
func (m Money) MarshalJSON() ([]byte, error) {
	whole := m.Cents / 100
	frac := m.Cents % 100
	if frac == 0 {
		return []byte(strconv.FormatInt(whole, 10)), nil
	}
	if frac < 0 {
		frac = -frac
	}
	sign := ""
	if m.Cents < 0 && whole == 0 {
		sign = "-"
	}
	return []byte(sign + strconv.FormatInt(whole, 10) + "." + twoDigits(frac)), nil
}

// UnmarshalJSON accepts either a JSON number or a decimal string, including
// comma decimal separators. Absent fields stay zero via the zero value.
func (m *Money) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" || s == `""` {
		m.Cents = 0
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		var quoted string
		if err := json.Unmarshal(data, &quoted); err != nil {
			return ErrInvalidAmount
		}
		s = quoted
	}
	cents, err := ParseAmountToCents(s)
	if err != nil {
		return err
	}
	m.Cents = cents
	return nil
}

func (m Money) String() string {
	b, _ := m.MarshalJSON()
	return string(b)
}

func twoDigits(n int64) string {
	if n < 10 {
		return "0" + strconv.FormatInt(n, 10)
	}
	return strconv.FormatInt(n, 10)
}
