package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"slices"

	"github.com/etnz/tracker"
	"github.com/etnz/tracker/renderer"
	"github.com/google/subcommands"
	"github.com/rs/zerolog/log"
)

type addCmd struct {
	form   tracker.Form
	format string
}

func (*addCmd) Name() string     { return "add" }
func (*addCmd) Synopsis() string { return "add a position after checking its symbol" }
func (*addCmd) Usage() string {
	return `trk add -s <symbol> -q <quantity> -p <price> [-format term|markdown|raw]

  Looks up the symbol, and if it has a quote appends the position to the
  positions file, then displays all positions with fresh prices.
`
}

func (c *addCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.form.Symbol, "s", "", "Stock symbol (required)")
	f.StringVar(&c.form.Quantity, "q", "", "Number of shares (required)")
	f.StringVar(&c.form.Price, "p", "", "Purchase price per share (required)")
	f.StringVar(&c.format, "format", FormatTerm, "Output format: term, markdown or raw")
}

func (c *addCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if !c.form.Complete() {
		fmt.Fprintln(os.Stderr, "Error: -s, -q and -p flags are required.")
		return subcommands.ExitUsageError
	}
	if !slices.Contains(formats, c.format) {
		fmt.Fprintf(os.Stderr, "Error: unknown format %q\n", c.format)
		return subcommands.ExitUsageError
	}

	tr, err := NewTracker()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	positions, err := DecodePositions()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading positions: %v\n", err)
		return subcommands.ExitFailure
	}
	tr.Load(positions)

	added, err := tr.Add(ctx, &c.form)
	if !added {
		log.Debug().Err(err).Msg("add failed")
		fmt.Fprintln(os.Stderr, "Error:", tr.Err())
		return subcommands.ExitFailure
	}
	all := tr.Positions()
	if err := EncodePosition(all[len(all)-1]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	out, rerr := render(c.format, renderer.NewTable(all))
	if rerr != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", rerr)
		return subcommands.ExitFailure
	}
	fmt.Print(out)
	if err != nil {
		// the position is stored, only the refresh of the others failed.
		fmt.Fprintln(os.Stderr, "Warning:", tr.Err())
	}
	return subcommands.ExitSuccess
}
