package tracker

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

var (
	// ErrNotFound is returned by a Quoter when the provider has no price for a symbol.
	ErrNotFound = errors.New("quote not found")
	// ErrSuperseded is returned by Refresh when a newer refresh, or a change
	// of the list, happened while it was in flight. Its result is discarded.
	ErrSuperseded = errors.New("refresh superseded")
)

// Quoter returns the current price of a symbol.
type Quoter interface {
	Quote(ctx context.Context, symbol string) (decimal.Decimal, error)
}

// QuoterFunc adapts a function to the Quoter interface.
type QuoterFunc func(ctx context.Context, symbol string) (decimal.Decimal, error)

func (f QuoterFunc) Quote(ctx context.Context, symbol string) (decimal.Decimal, error) {
	return f(ctx, symbol)
}
