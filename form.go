package tracker

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrInvalidNumber is returned when quantity or price is not a strictly positive number.
var ErrInvalidNumber = errors.New("quantity and price must be positive numbers")

// Form holds the raw user inputs of the add position form.
type Form struct {
	Symbol   string
	Quantity string
	Price    string
}

// Complete reports whether all three fields are filled.
func (f *Form) Complete() bool {
	return strings.TrimSpace(f.Symbol) != "" &&
		strings.TrimSpace(f.Quantity) != "" &&
		strings.TrimSpace(f.Price) != ""
}

// Clear empties all the fields.
func (f *Form) Clear() { *f = Form{} }

// Parse returns the position described by the form, priced in currency.
func (f *Form) Parse(currency string) (Position, error) {
	qty, err := parsePositive(f.Quantity)
	if err != nil {
		return Position{}, err
	}
	price, err := parsePositive(f.Price)
	if err != nil {
		return Position{}, err
	}
	return NewPosition(f.Symbol, Q(qty), M(price, currency)), nil
}

func parsePositive(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, errors.Join(ErrInvalidNumber, err)
	}
	if !d.IsPositive() {
		return decimal.Zero, ErrInvalidNumber
	}
	return d, nil
}

// normalizeSymbol returns the canonical form of a ticker symbol.
func normalizeSymbol(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
