package tracker

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeQuoter serves fixed prices and counts calls per symbol.
type fakeQuoter struct {
	mu     sync.Mutex
	prices map[string]string
	errs   map[string]error
	calls  map[string]int
}

func newFakeQuoter(prices map[string]string) *fakeQuoter {
	return &fakeQuoter{prices: prices, errs: map[string]error{}, calls: map[string]int{}}
}

func (f *fakeQuoter) Quote(_ context.Context, symbol string) (decimal.Decimal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[symbol]++
	if err := f.errs[symbol]; err != nil {
		return decimal.Zero, err
	}
	p, ok := f.prices[symbol]
	if !ok {
		return decimal.Zero, ErrNotFound
	}
	return decimal.RequireFromString(p), nil
}

func (f *fakeQuoter) count(symbol string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[symbol]
}

func TestTracker_Add(t *testing.T) {
	q := newFakeQuoter(map[string]string{"AAPL": "150"})
	tr := New(q)

	form := &Form{Symbol: "aapl", Quantity: "10", Price: "100"}
	added, err := tr.Add(context.Background(), form)
	require.NoError(t, err)
	assert.True(t, added)

	positions := tr.Positions()
	require.Len(t, positions, 1)
	p := positions[0]
	assert.Equal(t, "AAPL", p.Symbol)
	assert.Equal(t, "10", p.Quantity.String())
	assert.Equal(t, "$100.00", p.PurchasePrice.String())
	require.NotNil(t, p.CurrentPrice)
	assert.Equal(t, "$150.00", p.CurrentPrice.String())
	pl, ok := p.ProfitLoss()
	require.True(t, ok)
	assert.True(t, pl.Equal(M(500, "USD")), "profit/loss = %v", pl)

	assert.Equal(t, Form{}, *form, "form must be cleared")
	assert.Empty(t, tr.Err())
	assert.False(t, tr.Loading())
	// one lookup, then one refresh of the single position.
	assert.Equal(t, 2, q.count("AAPL"))
}

func TestTracker_Add_incomplete(t *testing.T) {
	tests := []struct {
		name string
		form Form
	}{
		{"no symbol", Form{Quantity: "1", Price: "1"}},
		{"no quantity", Form{Symbol: "AAPL", Price: "1"}},
		{"no price", Form{Symbol: "AAPL", Quantity: "1"}},
		{"blank symbol", Form{Symbol: "  ", Quantity: "1", Price: "1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := newFakeQuoter(map[string]string{"AAPL": "150"})
			tr := New(q)
			form := tt.form
			added, err := tr.Add(context.Background(), &form)
			assert.NoError(t, err)
			assert.False(t, added)
			assert.Zero(t, tr.Len())
			assert.Zero(t, q.count("AAPL"))
			assert.Equal(t, tt.form, form, "form must be left untouched")
		})
	}
}

func TestTracker_Add_invalidSymbol(t *testing.T) {
	q := newFakeQuoter(map[string]string{"AAPL": "150"})
	tr := New(q)
	tr.Load([]Position{NewPosition("AAPL", Q(1), M(100, "USD"))})

	form := &Form{Symbol: "XZZZ", Quantity: "5", Price: "20"}
	added, err := tr.Add(context.Background(), form)
	assert.False(t, added)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, "Invalid stock symbol. Please enter a valid symbol.", tr.Err())
	assert.Equal(t, Form{Symbol: "XZZZ", Quantity: "5", Price: "20"}, *form)
	assert.Equal(t, 1, tr.Len())
	assert.Zero(t, q.count("AAPL"), "a failed add must not refresh")
	assert.False(t, tr.Loading())
}

func TestTracker_Add_transportErrorIsInvalidSymbol(t *testing.T) {
	q := newFakeQuoter(nil)
	q.errs["AAPL"] = errors.New("connection refused")
	tr := New(q)

	added, err := tr.Add(context.Background(), &Form{Symbol: "AAPL", Quantity: "1", Price: "1"})
	assert.False(t, added)
	assert.Error(t, err)
	assert.Equal(t, MsgInvalidSymbol, tr.Err())
	assert.Zero(t, tr.Len())
}

func TestTracker_Add_invalidNumber(t *testing.T) {
	tests := []Form{
		{Symbol: "AAPL", Quantity: "ten", Price: "100"},
		{Symbol: "AAPL", Quantity: "10", Price: "-1"},
		{Symbol: "AAPL", Quantity: "0", Price: "100"},
	}
	for _, form := range tests {
		q := newFakeQuoter(map[string]string{"AAPL": "150"})
		tr := New(q)
		added, err := tr.Add(context.Background(), &form)
		assert.False(t, added)
		assert.ErrorIs(t, err, ErrInvalidNumber, "form %+v", form)
		assert.Equal(t, MsgInvalidNumber, tr.Err())
		assert.Zero(t, q.count("AAPL"), "no lookup for an invalid form")
	}
}

func TestTracker_Add_clearsPreviousError(t *testing.T) {
	q := newFakeQuoter(map[string]string{"AAPL": "150"})
	tr := New(q)
	_, _ = tr.Add(context.Background(), &Form{Symbol: "XZZZ", Quantity: "1", Price: "1"})
	require.Equal(t, MsgInvalidSymbol, tr.Err())

	added, err := tr.Add(context.Background(), &Form{Symbol: "AAPL", Quantity: "1", Price: "1"})
	require.NoError(t, err)
	assert.True(t, added)
	assert.Empty(t, tr.Err())
}

func TestTracker_Add_refreshesEveryPosition(t *testing.T) {
	q := newFakeQuoter(map[string]string{"AAPL": "150", "MSFT": "300", "NVDA": "90"})
	tr := New(q)
	tr.Load([]Position{
		NewPosition("AAPL", Q(10), M(100, "USD")),
		NewPosition("MSFT", Q(2), M(350, "USD")),
	})

	added, err := tr.Add(context.Background(), &Form{Symbol: "NVDA", Quantity: "3", Price: "100"})
	require.NoError(t, err)
	require.True(t, added)

	assert.Equal(t, 1, q.count("AAPL"))
	assert.Equal(t, 1, q.count("MSFT"))
	assert.Equal(t, 2, q.count("NVDA")) // lookup + refresh

	positions := tr.Positions()
	require.Len(t, positions, 3)
	want := []struct {
		symbol, qty, purchase, current, pl string
	}{
		{"AAPL", "10", "$100.00", "$150.00", "$500.00"},
		{"MSFT", "2", "$350.00", "$300.00", "-$100.00"},
		{"NVDA", "3", "$100.00", "$90.00", "-$30.00"},
	}
	for i, w := range want {
		p := positions[i]
		assert.Equal(t, w.symbol, p.Symbol)
		assert.Equal(t, w.qty, p.Quantity.String())
		assert.Equal(t, w.purchase, p.PurchasePrice.String())
		require.NotNil(t, p.CurrentPrice, w.symbol)
		assert.Equal(t, w.current, p.CurrentPrice.String())
		pl, ok := p.ProfitLoss()
		require.True(t, ok)
		assert.Equal(t, w.pl, pl.String())
	}
}

func TestTracker_Refresh_empty(t *testing.T) {
	q := newFakeQuoter(nil)
	tr := New(q)
	assert.NoError(t, tr.Refresh(context.Background()))
	assert.Empty(t, q.calls)
}

func TestTracker_Refresh_notFoundClearsPrice(t *testing.T) {
	q := newFakeQuoter(map[string]string{"AAPL": "150"})
	tr := New(q)
	price := M(120, "USD")
	tr.Load([]Position{
		NewPosition("AAPL", Q(1), M(100, "USD")),
		NewPosition("GONE", Q(1), M(100, "USD")).WithPrice(&price),
	})

	require.NoError(t, tr.Refresh(context.Background()))
	positions := tr.Positions()
	require.NotNil(t, positions[0].CurrentPrice)
	assert.Nil(t, positions[1].CurrentPrice)
	_, ok := positions[1].ProfitLoss()
	assert.False(t, ok)
	assert.Empty(t, tr.Err())
}

func TestTracker_Refresh_failureIsAllOrNothing(t *testing.T) {
	q := newFakeQuoter(map[string]string{"AAPL": "150", "MSFT": "300"})
	q.errs["MSFT"] = errors.New("503 Service Unavailable")
	tr := New(q)
	before := []Position{
		NewPosition("AAPL", Q(1), M(100, "USD")),
		NewPosition("MSFT", Q(1), M(100, "USD")),
	}
	tr.Load(before)

	err := tr.Refresh(context.Background())
	assert.Error(t, err)
	assert.Equal(t, "Failed to update stock prices.", tr.Err())
	assert.Equal(t, before, tr.Positions())
	assert.False(t, tr.Loading())
}

func TestTracker_Refresh_superseded(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	var mu sync.Mutex
	calls := 0
	q := QuoterFunc(func(ctx context.Context, symbol string) (decimal.Decimal, error) {
		mu.Lock()
		calls++
		first := calls == 1
		mu.Unlock()
		if first {
			close(started)
			<-release
			return decimal.NewFromInt(100), nil
		}
		return decimal.NewFromInt(200), nil
	})
	tr := New(q)
	tr.Load([]Position{NewPosition("AAPL", Q(1), M(50, "USD"))})

	stale := make(chan error, 1)
	go func() { stale <- tr.Refresh(context.Background()) }()
	<-started
	assert.True(t, tr.Loading())

	require.NoError(t, tr.Refresh(context.Background()))
	close(release)
	assert.ErrorIs(t, <-stale, ErrSuperseded)

	positions := tr.Positions()
	require.NotNil(t, positions[0].CurrentPrice)
	assert.Equal(t, "$200.00", positions[0].CurrentPrice.String(), "the stale refresh must not overwrite the fresh one")
	assert.False(t, tr.Loading())
}

func TestTracker_WithTimeout(t *testing.T) {
	q := QuoterFunc(func(ctx context.Context, symbol string) (decimal.Decimal, error) {
		<-ctx.Done()
		return decimal.Zero, ctx.Err()
	})
	tr := New(q, WithTimeout(10*time.Millisecond))

	added, err := tr.Add(context.Background(), &Form{Symbol: "AAPL", Quantity: "1", Price: "1"})
	assert.False(t, added)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, MsgInvalidSymbol, tr.Err())
	assert.False(t, tr.Loading())
}

func TestTracker_WithConcurrency(t *testing.T) {
	var mu sync.Mutex
	inflight, peak := 0, 0
	q := QuoterFunc(func(ctx context.Context, symbol string) (decimal.Decimal, error) {
		mu.Lock()
		inflight++
		peak = max(peak, inflight)
		mu.Unlock()
		time.Sleep(5 * time.Millisecond)
		mu.Lock()
		inflight--
		mu.Unlock()
		return decimal.NewFromInt(1), nil
	})
	tr := New(q, WithConcurrency(2))
	var positions []Position
	for _, s := range []string{"A", "B", "C", "D", "E", "F"} {
		positions = append(positions, NewPosition(s, Q(1), M(1, "USD")))
	}
	tr.Load(positions)

	require.NoError(t, tr.Refresh(context.Background()))
	assert.LessOrEqual(t, peak, 2)
}

func TestTracker_WithCurrency(t *testing.T) {
	q := newFakeQuoter(map[string]string{"SAP": "200"})
	tr := New(q, WithCurrency("EUR"))
	_, err := tr.Add(context.Background(), &Form{Symbol: "SAP", Quantity: "1", Price: "150"})
	require.NoError(t, err)
	p := tr.Positions()[0]
	assert.Equal(t, "EUR", p.PurchasePrice.Currency())
	assert.Equal(t, "EUR", p.CurrentPrice.Currency())
}

func TestTracker_Add_duplicateSymbol(t *testing.T) {
	q := newFakeQuoter(map[string]string{"AAPL": "150"})
	tr := New(q)
	ctx := context.Background()

	_, err := tr.Add(ctx, &Form{Symbol: "AAPL", Quantity: "10", Price: "100"})
	require.NoError(t, err)
	added, err := tr.Add(ctx, &Form{Symbol: "aapl", Quantity: "5", Price: "200"})
	require.NoError(t, err)
	require.True(t, added)
	// first add: lookup + refresh of one, second add: lookup + refresh of two.
	assert.Equal(t, 5, q.count("AAPL"))

	require.NoError(t, tr.Refresh(ctx))
	assert.Equal(t, 7, q.count("AAPL"), "one quote per position")

	positions := tr.Positions()
	require.Equal(t, 2, tr.Len())
	want := []struct{ qty, purchase, pl string }{
		{"10", "$100.00", "$500.00"},
		{"5", "$200.00", "-$250.00"},
	}
	for i, w := range want {
		p := positions[i]
		assert.Equal(t, "AAPL", p.Symbol)
		assert.Equal(t, w.qty, p.Quantity.String())
		assert.Equal(t, w.purchase, p.PurchasePrice.String())
		pl, ok := p.ProfitLoss()
		require.True(t, ok)
		assert.Equal(t, w.pl, pl.String())
	}
}

func TestTracker_Refresh_quotesInPurchaseCurrency(t *testing.T) {
	positions, err := DecodePositions(strings.NewReader(
		`{"symbol":"AAPL","quantity":10,"purchasePrice":{"currency":"USD","amount":100}}` + "\n"))
	require.NoError(t, err)

	tr := New(newFakeQuoter(map[string]string{"AAPL": "150", "SAP": "200"}), WithCurrency("EUR"))
	tr.Load(positions)
	require.NoError(t, tr.Refresh(context.Background()))

	p := tr.Positions()[0]
	require.NotNil(t, p.CurrentPrice)
	assert.Equal(t, "USD", p.CurrentPrice.Currency())
	pl, ok := p.ProfitLoss()
	require.True(t, ok)
	assert.Equal(t, "$500.00", pl.String())

	// new positions still use the configured currency.
	_, err = tr.Add(context.Background(), &Form{Symbol: "SAP", Quantity: "1", Price: "150"})
	require.NoError(t, err)
	sap := tr.Positions()[1]
	assert.Equal(t, "EUR", sap.PurchasePrice.Currency())
	assert.Equal(t, "EUR", sap.CurrentPrice.Currency())
	assert.Equal(t, "USD", tr.Positions()[0].CurrentPrice.Currency())
}
