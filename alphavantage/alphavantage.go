// Package alphavantage implements a tracker.Quoter backed by the Alpha Vantage
// GLOBAL_QUOTE endpoint.
package alphavantage

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/PaesslerAG/jsonpath"
	"github.com/etnz/tracker"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// DefaultBaseURL is the Alpha Vantage query endpoint.
const DefaultBaseURL = "https://www.alphavantage.co/query"

// pricePath locates the price in a GLOBAL_QUOTE response:
//
//	{
//	    "Global Quote": {
//	        "01. symbol": "IBM",
//	        "05. price": "227.4800",
//	        ...
//	    }
//	}
const pricePath = `$["Global Quote"]["05. price"]`

// Client queries Alpha Vantage for quotes.
type Client struct {
	apiKey  string
	baseURL string
	client  *http.Client
	log     zerolog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the endpoint, mostly for tests.
func WithBaseURL(addr string) Option {
	return func(c *Client) { c.baseURL = addr }
}

// WithHTTPClient sets the http.Client used for requests.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) { c.client = client }
}

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) { c.log = l }
}

// New returns a Client authenticated with apiKey.
func New(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:  apiKey,
		baseURL: DefaultBaseURL,
		log:     log.Logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.log = c.log.With().Str("client", "alphavantage").Logger()
	if c.client == nil {
		c.client = &http.Client{Transport: &loggingTransport{base: http.DefaultTransport, log: c.log}}
	}
	return c
}

// quoteURL returns the GLOBAL_QUOTE address for symbol.
func (c *Client) quoteURL(symbol string) string {
	q := url.Values{}
	q.Set("function", "GLOBAL_QUOTE")
	q.Set("symbol", symbol)
	q.Set("apikey", c.apiKey)
	return c.baseURL + "?" + q.Encode()
}

// Quote returns the latest price of symbol.
//
// A response without a price, including the throttling notes Alpha Vantage
// sends instead of data, is reported as tracker.ErrNotFound.
func (c *Client) Quote(ctx context.Context, symbol string) (decimal.Decimal, error) {
	var jobj any
	if err := jwget(ctx, c.client, c.quoteURL(symbol), &jobj); err != nil {
		return decimal.Zero, fmt.Errorf("error retrieving %q: %w", symbol, err)
	}

	jval, err := jsonpath.Get(pricePath, jobj)
	if err != nil {
		if note := notice(jobj); note != "" {
			c.log.Warn().Str("symbol", symbol).Str("notice", note).Msg("no quote in response")
		}
		return decimal.Zero, fmt.Errorf("%w: %s", tracker.ErrNotFound, symbol)
	}
	sval, ok := jval.(string)
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: %s: price is not a string: %v", tracker.ErrNotFound, symbol, jval)
	}
	price, err := decimal.NewFromString(strings.TrimSpace(sval))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %s: invalid price %q", tracker.ErrNotFound, symbol, sval)
	}
	return price, nil
}

// notice returns the informative message Alpha Vantage puts in place of data
// (rate limit, invalid key, unknown function), if any.
func notice(jobj any) string {
	m, ok := jobj.(map[string]any)
	if !ok {
		return ""
	}
	for _, key := range []string{"Note", "Information", "Error Message"} {
		if s, ok := m[key].(string); ok {
			return s
		}
	}
	return ""
}
