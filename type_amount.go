package sped

import (
	"fmt"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Amount represents a monetary value in Brazilian reais.
type Amount struct {
	value decimal.Decimal
}

// BRL creates an amount from a float constant. Mostly useful in tests and
// summaries; parsing paths go through ParseAmount to stay exact.
func BRL[T float32 | float64 | int | int64](v T) Amount {
	return Amount{value: decimal.NewFromFloat(float64(v))}
}

// ParseAmount parses a ledger numeric token. The decimal separator is a comma
// and an optional dot is the thousands separator, e.g. "1.500,50".
func ParseAmount(tok string) (Amount, error) {
	tok = strings.TrimSpace(tok)
	if tok == "" {
		return Amount{}, fmt.Errorf("empty amount")
	}
	normalized := strings.ReplaceAll(tok, ".", "")
	normalized = strings.ReplaceAll(normalized, ",", ".")
	d, err := decimal.NewFromString(normalized)
	if err != nil {
		return Amount{}, fmt.Errorf("invalid amount %q: %w", tok, err)
	}
	return Amount{value: d}, nil
}

func (a Amount) Add(b Amount) Amount { return Amount{value: a.value.Add(b.value)} }
func (a Amount) Sub(b Amount) Amount { return Amount{value: a.value.Sub(b.value)} }
func (a Amount) IsZero() bool        { return a.value.IsZero() }
func (a Amount) IsPositive() bool    { return a.value.IsPositive() }
func (a Amount) Equal(b Amount) bool { return a.value.Equal(b.value) }

// Float64 returns the amount as a float. Summaries persist the exact decimal;
// this is for display math only.
func (a Amount) Float64() float64 { return a.value.InexactFloat64() }

// String renders the amount as Brazilian currency, e.g. "R$1.500,50".
func (a Amount) String() string {
	cur := money.New(0, money.BRL).Currency()
	return cur.Formatter().Format(a.value.Shift(int32(cur.Fraction)).IntPart())
}

// MarshalJSON writes the amount as a plain JSON number rounded to cents,
// the shape the persistence collaborator stores.
func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.value.Round(2).String()), nil
}

// UnmarshalJSON reads an amount back from a plain JSON number.
func (a *Amount) UnmarshalJSON(b []byte) error {
	d, err := decimal.NewFromString(string(b))
	if err != nil {
		return fmt.Errorf("invalid amount %s: %w", b, err)
	}
	a.value = d
	return nil
}
