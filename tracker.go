package tracker

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// Messages displayed to the user. They are the only error surface of the Tracker,
// the underlying errors are returned to the caller.
const (
	MsgInvalidSymbol = "Invalid stock symbol. Please enter a valid symbol."
	MsgInvalidNumber = "Quantity and price must be positive numbers."
	MsgUpdateFailed  = "Failed to update stock prices."
)

// DefaultConcurrency is the default number of quotes requested in parallel by a refresh.
const DefaultConcurrency = 4

// Tracker holds an ordered list of positions and keeps their current price up to date.
//
// It is safe for concurrent use.
type Tracker struct {
	quoter      Quoter
	currency    string
	concurrency int
	timeout     time.Duration
	log         zerolog.Logger

	mu         sync.Mutex
	positions  []Position
	loading    int    // number of operations in flight
	err        string // last user facing error
	generation uint64 // bumped by every change of positions and every refresh
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithCurrency sets the currency of newly added positions. Defaults to USD.
// Existing positions are always quoted in their purchase currency.
func WithCurrency(currency string) Option {
	return func(t *Tracker) { t.currency = currency }
}

// WithConcurrency bounds the number of quotes requested in parallel.
// n <= 0 removes the bound.
func WithConcurrency(n int) Option {
	return func(t *Tracker) { t.concurrency = n }
}

// WithTimeout bounds each quote request. Zero means no timeout.
func WithTimeout(d time.Duration) Option {
	return func(t *Tracker) { t.timeout = d }
}

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) Option {
	return func(t *Tracker) { t.log = l }
}

// New returns an empty Tracker quoting prices with q.
func New(q Quoter, opts ...Option) *Tracker {
	t := &Tracker{
		quoter:      q,
		currency:    DefaultCurrency,
		concurrency: DefaultConcurrency,
		log:         log.Logger,
	}
	for _, opt := range opts {
		opt(t)
	}
	t.log = t.log.With().Str("component", "tracker").Logger()
	return t
}

// Load replaces the positions, typically with the ones decoded from disk.
// Current prices are not fetched, call Refresh for that.
func (t *Tracker) Load(positions []Position) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.positions = slices.Clone(positions)
	t.generation++
}

// Positions returns a copy of the positions in insertion order.
func (t *Tracker) Positions() []Position {
	t.mu.Lock()
	defer t.mu.Unlock()
	return slices.Clone(t.positions)
}

// Len returns the number of positions.
func (t *Tracker) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.positions)
}

// Loading reports whether an add or a refresh is in flight.
func (t *Tracker) Loading() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.loading > 0
}

// Err returns the message of the last failure, or "".
func (t *Tracker) Err() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.err
}

func (t *Tracker) begin() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.loading++
}

func (t *Tracker) end() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.loading--
}

func (t *Tracker) setErr(msg string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.err = msg
}

// quote returns the current price of symbol in currency.
func (t *Tracker) quote(ctx context.Context, symbol, currency string) (Money, error) {
	if t.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.timeout)
		defer cancel()
	}
	price, err := t.quoter.Quote(ctx, symbol)
	if err != nil {
		return Money{}, err
	}
	return M(price, currency), nil
}

// quoteCurrency returns the currency p is quoted in: the one it was bought in.
func (t *Tracker) quoteCurrency(p Position) string {
	if cur := p.PurchasePrice.Currency(); cur != "" {
		return cur
	}
	return t.currency
}

// Add runs the add flow for the form f.
//
// An incomplete form is a no-op. Otherwise the symbol is looked up, and on
// success the new position is appended, the form is cleared and all positions
// are refreshed. On failure the form is left untouched and Err reports why.
// Add reports whether a position was appended.
func (t *Tracker) Add(ctx context.Context, f *Form) (bool, error) {
	if !f.Complete() {
		return false, nil
	}
	t.begin()
	t.setErr("")

	p, err := f.Parse(t.currency)
	if err != nil {
		t.setErr(MsgInvalidNumber)
		t.end()
		return false, err
	}

	price, err := t.quote(ctx, p.Symbol, t.quoteCurrency(p))
	if err != nil {
		t.log.Warn().Err(err).Str("symbol", p.Symbol).Msg("symbol lookup failed")
		t.setErr(MsgInvalidSymbol)
		t.end()
		return false, fmt.Errorf("cannot add %s: %w", p.Symbol, err)
	}
	p = p.WithPrice(&price)

	t.mu.Lock()
	t.positions = append(t.positions, p)
	t.generation++
	t.mu.Unlock()
	f.Clear()
	t.end()
	t.log.Info().Str("symbol", p.Symbol).Stringer("price", price).Msg("position added")

	// The list grew, every position gets a fresh quote.
	if err := t.Refresh(ctx); err != nil && !errors.Is(err, ErrSuperseded) {
		return true, err
	}
	return true, nil
}

// Refresh fetches a quote for every position and replaces the whole list
// with the updated copies, preserving order.
//
// A symbol without a quote loses its current price. Any other failure leaves
// the list unchanged and sets Err. If the list changed, or another refresh
// started, while the quotes were in flight, the result is dropped and
// ErrSuperseded is returned.
func (t *Tracker) Refresh(ctx context.Context) error {
	t.mu.Lock()
	if len(t.positions) == 0 {
		t.mu.Unlock()
		return nil
	}
	t.generation++
	gen := t.generation
	snapshot := slices.Clone(t.positions)
	t.loading++
	t.mu.Unlock()
	defer t.end()

	updated := make([]Position, len(snapshot))
	g, gctx := errgroup.WithContext(ctx)
	if t.concurrency > 0 {
		g.SetLimit(t.concurrency)
	}
	for i, p := range snapshot {
		g.Go(func() error {
			price, err := t.quote(gctx, p.Symbol, t.quoteCurrency(p))
			switch {
			case errors.Is(err, ErrNotFound):
				updated[i] = p.WithPrice(nil)
			case err != nil:
				return fmt.Errorf("cannot quote %s: %w", p.Symbol, err)
			default:
				updated[i] = p.WithPrice(&price)
			}
			return nil
		})
	}
	err := g.Wait()

	t.mu.Lock()
	defer t.mu.Unlock()
	if gen != t.generation {
		t.log.Debug().Uint64("generation", gen).Msg("stale refresh dropped")
		return ErrSuperseded
	}
	if err != nil {
		t.log.Error().Err(err).Msg("refresh failed")
		t.err = MsgUpdateFailed
		return err
	}
	t.positions = updated
	t.log.Debug().Int("positions", len(updated)).Msg("positions refreshed")
	return nil
}
