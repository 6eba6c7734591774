package tracker

// Position is one tracked stock holding.
//
// Positions are values: a refresh produces updated copies and never mutates
// the ones previously returned by the Tracker.
type Position struct {
	Symbol        string
	Quantity      Quantity
	PurchasePrice Money
	CurrentPrice  *Money // nil until a quote is known
}

// NewPosition returns a position on symbol bought at price, without a current price.
func NewPosition(symbol string, quantity Quantity, price Money) Position {
	return Position{
		Symbol:        normalizeSymbol(symbol),
		Quantity:      quantity,
		PurchasePrice: price,
	}
}

// WithPrice returns a copy of p quoted at price. A nil price clears the current price.
func (p Position) WithPrice(price *Money) Position {
	if price != nil {
		cp := *price
		price = &cp
	}
	p.CurrentPrice = price
	return p
}

// ProfitLoss returns (current price - purchase price) * quantity.
// It reports false when the position has no current price, or one in
// another currency than the purchase price.
func (p Position) ProfitLoss() (Money, bool) {
	if p.CurrentPrice == nil || !sameCurrency(*p.CurrentPrice, p.PurchasePrice) {
		return Money{}, false
	}
	return p.CurrentPrice.Sub(p.PurchasePrice).Mul(p.Quantity), true
}

// MarshalJSON persists the user entered fields only, the current price is live data.
func (p Position) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("symbol", p.Symbol)
	w.Append("quantity", p.Quantity)
	w.Append("purchasePrice", p.PurchasePrice)
	return w.MarshalJSON()
}
