package money

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
)

var (
	ErrNegativeAmount   = errors.New("amount cannot be negative")
	ErrInvalidCurrency  = errors.New("currency must be a 3-letter ISO code")
	ErrCurrencyMismatch = errors.New("currency mismatch")
	ErrOverflow         = errors.New("amount overflow")
	ErrInvalidDecimal   = errors.New("amount must be a decimal with at most two fraction digits")
)

var (
	currencyRegex = regexp.MustCompile(`^[A-Z]{3}$`)
	decimalRegex  = regexp.MustCompile(`^(\d{1,15})(?:\.(\d{1,2}))?$`)
)

// Money is an amount in minor units (cents) of a single currency.
type Money struct {
	cents    int64
	currency string
}

func New(cents int64, currency string) (Money, error) {
	if cents < 0 {
		return Money{}, ErrNegativeAmount
	}
	if !currencyRegex.MatchString(currency) {
		return Money{}, ErrInvalidCurrency
	}
	return Money{cents: cents, currency: currency}, nil
}

func (m Money) Cents() int64     { return m.cents }
func (m Money) Currency() string { return m.currency }
func (m Money) IsZero() bool     { return m.cents == 0 }

func (m Money) Equal(other Money) bool {
	return m.cents == other.cents && m.currency == other.currency
}

// Times multiplies by a non-negative factor and reports overflow.
func (m Money) Times(n int64) (Money, error) {
	if n < 0 {
		return Money{}, ErrNegativeAmount
	}
	if n != 0 && m.cents > math.MaxInt64/n {
		return Money{}, ErrOverflow
	}
	return Money{cents: m.cents * n, currency: m.currency}, nil
}

func (m Money) Sub(other Money) (Money, error) {
	if m.currency != other.currency {
		return Money{}, ErrCurrencyMismatch
	}
	if other.cents > m.cents {
		return Money{}, ErrNegativeAmount
	}
	return Money{cents: m.cents - other.cents, currency: m.currency}, nil
}

// Percent returns pct percent of m rounded half up to the nearest minor unit.
func (m Money) Percent(pct int64) Money {
	return Money{cents: (m.cents*pct + 50) / 100, currency: m.currency}
}

// Decimal renders the amount with two fraction digits, e.g. "200.00".
func (m Money) Decimal() string {
	return fmt.Sprintf("%d.%02d", m.cents/100, m.cents%100)
}

func (m Money) String() string {
	return m.Decimal() + " " + m.currency
}

// ParseDecimal reads an amount in major units such as "200" or "199.5".
func ParseDecimal(s, currency string) (Money, error) {
	m := decimalRegex.FindStringSubmatch(s)
	if m == nil {
		return Money{}, ErrInvalidDecimal
	}
	whole, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return Money{}, ErrInvalidDecimal
	}
	frac := int64(0)
	if m[2] != "" {
		digits := m[2]
		if len(digits) == 1 {
			digits += "0"
		}
		frac, err = strconv.ParseInt(digits, 10, 64)
		if err != nil {
			return Money{}, ErrInvalidDecimal
		}
	}
	return New(whole*100+frac, currency)
}
