package tracker

import (
	"encoding/json"
	"fmt"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Money represents a monetary value in a given currency.
//
// The zero value has no currency: it is "weak" and takes the currency of the
// other operand in Add and Sub.
type Money struct {
	value decimal.Decimal // major unit value
	cur   string
}

// M creates a Money from any numeric value and an ISO 4217 currency code.
func M[T float32 | float64 | int | int32 | int64 | uint | uint32 | uint64 | decimal.Decimal](value T, currency string) Money {
	return Money{value: newDecimal(value), cur: currency}
}

// ValidCurrency reports whether code is a currency known to the formatter.
func ValidCurrency(code string) bool {
	return code != "" && money.GetCurrency(code) != nil
}

// String returns the string representation of the money value, using the
// currency's own symbol and fraction when it is known.
func (m Money) String() string {
	cur := money.GetCurrency(m.cur)
	if cur == nil {
		if m.cur == "" {
			return m.value.StringFixed(2)
		}
		return m.value.StringFixed(2) + " " + m.cur
	}
	dec := m.value.Shift(int32(cur.Fraction)).Round(0)
	return cur.Formatter().Format(dec.IntPart())
}

// SignedString returns the string representation of the money value with a sign.
// 0 is represented as "-".
func (m Money) SignedString() string {
	if m.value.IsZero() {
		return "-"
	}
	if m.value.IsPositive() {
		return "+" + m.String()
	}
	return m.String()
}

func (m Money) Currency() string                { return m.cur }
func (m Money) Amount() decimal.Decimal         { return m.value }
func (m Money) Equal(n Money) bool              { return m.value.Equal(n.value) && m.cur == n.cur }
func (m Money) IsZero() bool                    { return m.value.IsZero() }
func (m Money) IsPositive() bool                { return m.value.IsPositive() }
func (m Money) IsNegative() bool                { return m.value.IsNegative() }
func (m Money) LessThan(n Money) bool           { return m.value.LessThan(n.value) }
func (m Money) GreaterThan(n Money) bool        { return m.value.GreaterThan(n.value) }
func (m Money) GreaterThanOrEqual(n Money) bool { return m.value.GreaterThanOrEqual(n.value) }
func (m Money) Neg() Money                      { return Money{value: m.value.Neg(), cur: m.cur} }
func (m Money) Mul(q Quantity) Money            { return Money{value: m.value.Mul(q.value), cur: m.cur} }

// Div divides the amount by q. Dividing by a zero quantity returns zero.
func (m Money) Div(q Quantity) Money {
	if q.IsZero() {
		return Money{cur: m.cur}
	}
	return Money{value: m.value.Div(q.value), cur: m.cur}
}

// Ratio returns m/n as a plain decimal, or zero when n is zero.
func (m Money) Ratio(n Money) decimal.Decimal {
	if n.value.IsZero() {
		return decimal.Zero
	}
	return m.value.Div(n.value)
}

func (m Money) Add(n Money) Money { return Money{value: m.value.Add(n.value), cur: cur(m, n)} }
func (m Money) Sub(n Money) Money { return Money{value: m.value.Sub(n.value), cur: cur(m, n)} }

// makes the "" currency totally weak.
func cur(a, b Money) string {
	if a.cur == "" {
		return b.cur
	}
	if b.cur == "" {
		return a.cur
	}
	if a.cur != b.cur {
		panic(fmt.Sprintf("currency mismatch %s != %s", a.cur, b.cur))
	}
	return a.cur
}

// Round returns the money rounded to the currency's minor unit.
func (m Money) Round() Money {
	fraction := 2
	if c := money.GetCurrency(m.cur); c != nil {
		fraction = c.Fraction
	}
	return Money{value: m.value.Round(int32(fraction)), cur: m.cur}
}

func (m Money) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("amount", m.value)
	w.Optional("currency", m.cur)
	return w.MarshalJSON()
}

func (m *Money) UnmarshalJSON(data []byte) error {
	var a amountCmd
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*m = a.Money()
	return nil
}
