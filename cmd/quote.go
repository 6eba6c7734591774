package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/etnz/tracker"
	"github.com/etnz/tracker/alphavantage"
	"github.com/google/subcommands"
	"github.com/shopspring/decimal"
)

type quoteCmd struct{}

func (*quoteCmd) Name() string     { return "quote" }
func (*quoteCmd) Synopsis() string { return "print the live price of symbols" }
func (*quoteCmd) Usage() string {
	return `trk quote <symbol...>

  Prints the latest price of each symbol, as returned by Alpha Vantage.
`
}
func (c *quoteCmd) SetFlags(f *flag.FlagSet) {}

func (c *quoteCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "Error: at least one symbol is required.")
		return subcommands.ExitUsageError
	}
	key := APIKey()
	if key == "" {
		fmt.Fprintf(os.Stderr, "Error: Alpha Vantage API key is not set. Use -apikey flag or %s environment variable\n", EnvAPIKey)
		return subcommands.ExitFailure
	}
	client := alphavantage.New(key)

	status := subcommands.ExitSuccess
	for _, symbol := range f.Args() {
		symbol = strings.ToUpper(symbol)
		price, err := quote(ctx, client, symbol)
		switch {
		case errors.Is(err, tracker.ErrNotFound):
			fmt.Printf("%s\t%s\n", symbol, "N/A")
			status = subcommands.ExitFailure
		case err != nil:
			fmt.Fprintf(os.Stderr, "Error quoting %s: %v\n", symbol, err)
			status = subcommands.ExitFailure
		default:
			fmt.Printf("%s\t%s\n", symbol, tracker.M(price, *currency))
		}
	}
	return status
}

// quote returns the price of symbol, bounded by the global timeout.
func quote(ctx context.Context, q tracker.Quoter, symbol string) (decimal.Decimal, error) {
	if *timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, *timeout)
		defer cancel()
	}
	return q.Quote(ctx, symbol)
}
