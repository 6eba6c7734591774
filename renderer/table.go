package renderer

import (
	"github.com/etnz/tracker"
)

const (
	// EmptyMessage is displayed instead of the table when there is no position.
	EmptyMessage = "No stocks added yet"
	// NotAvailable is displayed for values that need a quote when there is none.
	NotAvailable = "N/A"
)

// Headers of the positions table, in column order.
var Headers = []string{"Symbol", "Quantity", "Purchase Price", "Current Price", "Profit/Loss"}

// Sign classifies a profit/loss for colour coding.
type Sign int

const (
	None     Sign = iota // no current price
	Positive             // gain or flat
	Negative             // loss
)

// Row is the display form of one position.
type Row struct {
	Symbol        string
	Quantity      string
	PurchasePrice string
	CurrentPrice  string
	ProfitLoss    string
	Sign          Sign
}

// Cells returns the row values in Headers order.
func (r Row) Cells() []string {
	return []string{r.Symbol, r.Quantity, r.PurchasePrice, r.CurrentPrice, r.ProfitLoss}
}

// Table is the display form of a list of positions.
type Table struct {
	Rows []Row
}

// Empty reports whether there is no row to display.
func (t Table) Empty() bool { return len(t.Rows) == 0 }

// NewTable formats positions, keeping their order.
func NewTable(positions []tracker.Position) Table {
	t := Table{Rows: make([]Row, 0, len(positions))}
	for _, p := range positions {
		current := NotAvailable
		if p.CurrentPrice != nil {
			current = p.CurrentPrice.String()
		}
		pl, sign := ProfitLoss(p)
		t.Rows = append(t.Rows, Row{
			Symbol:        p.Symbol,
			Quantity:      p.Quantity.String(),
			PurchasePrice: p.PurchasePrice.String(),
			CurrentPrice:  current,
			ProfitLoss:    pl,
			Sign:          sign,
		})
	}
	return t
}

// ProfitLoss formats the profit/loss of p as its absolute value followed by an
// up or down arrow, e.g. "$500.00 ↑".
func ProfitLoss(p tracker.Position) (string, Sign) {
	pl, ok := p.ProfitLoss()
	if !ok {
		return NotAvailable, None
	}
	if pl.IsNegative() {
		return pl.Abs().String() + " ↓", Negative
	}
	return pl.String() + " ↑", Positive
}

// Status returns the line displayed under the form: progress while loading,
// the last error otherwise.
func Status(loading bool, err string) string {
	if loading {
		return "Adding..."
	}
	return err
}
