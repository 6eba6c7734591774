package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"slices"

	"github.com/etnz/tracker/renderer"
	"github.com/google/subcommands"
)

type showCmd struct {
	format string
}

func (*showCmd) Name() string     { return "show" }
func (*showCmd) Synopsis() string { return "display positions with their profit/loss" }
func (*showCmd) Usage() string {
	return `trk show [-format term|markdown|raw]

  Fetches a quote for every stored position and displays the positions table.
`
}

func (c *showCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.format, "format", FormatTerm, "Output format: term, markdown or raw")
}

func (c *showCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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

	status := subcommands.ExitSuccess
	if err := tr.Refresh(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", tr.Err())
		status = subcommands.ExitFailure
	}

	out, err := render(c.format, renderer.NewTable(tr.Positions()))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Print(out)
	return status
}
