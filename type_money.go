package qef

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// moneyPlaces is the fixed-point precision for monetary amounts in the
// reporting currency.
const moneyPlaces = 2

// ReportingCurrency is the single currency all amounts entering the ledger
// are expressed in. Conversion from other currencies happens upstream.
const ReportingCurrency = "USD"

// Money represents a monetary value in the reporting currency.
type Money struct {
	value decimal.Decimal // as major unit value
	cur   string
}

// M creates a Money from any numeric type or a decimal.Decimal.
func M[T float32 | float64 | int | int32 | int64 | uint | uint32 | uint64 | decimal.Decimal](value T, currency string) Money {
	return Money{value: newDecimal(value), cur: currency}
}

// USD creates a Money in the reporting currency.
func USD[T float32 | float64 | int | int32 | int64 | uint | uint32 | uint64 | decimal.Decimal](value T) Money {
	return M(value, ReportingCurrency)
}

// currency returns the money's currency
func (m Money) currency() money.Currency {
	// to get a never nil currency I need to call the Money constructor
	return *money.New(0, m.cur).Currency()
}

// String returns the string representation of the money value.
func (m Money) String() string {
	cur := m.currency()
	dec := m.value.Shift(int32(cur.Fraction))
	return cur.Formatter().Format(dec.IntPart())
}

// Currency returns the money's currency code.
func (m Money) Currency() string {
	if m.cur == "" {
		return ReportingCurrency
	}
	return m.cur
}

// Round quantizes the amount to the money precision (2 places, half-up).
func (m Money) Round() Money { return Money{value: m.value.Round(moneyPlaces), cur: m.cur} }

func (m Money) Equal(n Money) bool              { return m.value.Equal(n.value) && m.cur == n.cur }
func (m Money) IsZero() bool                    { return m.value.IsZero() }
func (m Money) IsPositive() bool                { return m.value.IsPositive() }
func (m Money) IsNegative() bool                { return m.value.IsNegative() }
func (m Money) LessThan(amount Money) bool      { return m.value.LessThan(amount.value) }
func (m Money) LessThanOrEqual(n Money) bool    { return m.value.LessThanOrEqual(n.value) }
func (m Money) GreaterThan(n Money) bool        { return m.value.GreaterThan(n.value) }
func (m Money) GreaterThanOrEqual(n Money) bool { return m.value.GreaterThanOrEqual(n.value) }
func (m Money) Neg() Money                      { return Money{value: m.value.Neg(), cur: m.cur} }
func (m Money) Mul(n Quantity) Money            { return Money{value: m.value.Mul(n.value), cur: m.cur} }
func (m Money) Div(n Quantity) Money            { return Money{value: m.value.Div(n.value), cur: m.cur} }

// binary operators.
func (m Money) Add(n Money) Money { return Money{value: m.value.Add(n.value), cur: cur(m, n)} }
func (m Money) Sub(n Money) Money { return Money{value: m.value.Sub(n.value), cur: cur(m, n)} }

// makes the "" currency totally weak.
func cur(A, B Money) string {
	if A.cur == "" {
		return B.cur
	}
	if B.cur == "" {
		return A.cur
	}
	if A.cur != B.cur {
		panic("currency mismatch" + A.cur + "!=" + B.cur)
	}
	return A.cur
}

// SignedString returns the string representation of the money value with a sign.
// 0 is represented as a "-"
func (m Money) SignedString() string {
	if m.value.IsZero() {
		return "-"
	}
	if m.value.IsPositive() {
		return "+" + m.String()
	}
	return m.String()
}

// MarshalJSON marshals the amount as a bare number rounded to the money
// precision. The currency is implicit: everything in a ledger file is in the
// reporting currency.
func (m Money) MarshalJSON() ([]byte, error) {
	return m.value.Round(moneyPlaces).MarshalJSON()
}

// UnmarshalJSON implements the json.Unmarshaler interface for Money.
func (m *Money) UnmarshalJSON(b []byte) error {
	if err := m.value.UnmarshalJSON(b); err != nil {
		return err
	}
	m.cur = ReportingCurrency
	return nil
}
