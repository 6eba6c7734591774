package cmd

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/etnz/tracker"
	"github.com/etnz/tracker/renderer"
	"github.com/google/subcommands"
	"github.com/rs/zerolog/log"
)

type sessionCmd struct {
	format string
	load   bool
}

func (*sessionCmd) Name() string     { return "session" }
func (*sessionCmd) Synopsis() string { return "track positions interactively, in memory" }
func (*sessionCmd) Usage() string {
	return `trk session [-load] [-format term|markdown|raw]

  Starts an interactive session reading commands from the standard input.
  Positions live in memory only, use -load to start from the positions file.

` + sessionHelp
}

const sessionHelp = `Commands:
  add <symbol> <quantity> <price>   look up symbol and add the position
  refresh                           fetch fresh quotes for every position
  list                              display the positions
  help                              display this help
  quit                              end the session
`

func (c *sessionCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.format, "format", FormatTerm, "Output format: term, markdown or raw")
	f.BoolVar(&c.load, "load", false, "start with the positions of the positions file")
}

func (c *sessionCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	tr, err := NewTracker()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	if c.load {
		positions, err := DecodePositions()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading positions: %v\n", err)
			return subcommands.ExitFailure
		}
		tr.Load(positions)
	}
	if err := runSession(ctx, tr, os.Stdin, os.Stdout, c.format); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// runSession reads commands from in until "quit" or EOF, writing results to out.
func runSession(ctx context.Context, tr *tracker.Tracker, in io.Reader, out io.Writer, format string) error {
	if _, err := render(format, renderer.Table{}); err != nil {
		return err
	}
	fmt.Fprint(out, sessionHelp)

	scanner := bufio.NewScanner(in)
	for fmt.Fprint(out, "> "); scanner.Scan(); fmt.Fprint(out, "> ") {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		var err error
		switch strings.ToLower(fields[0]) {
		case "add":
			form := newForm(fields[1:])
			var added bool
			added, err = tr.Add(ctx, &form)
			if !added && err == nil {
				fmt.Fprintln(out, "usage: add <symbol> <quantity> <price>")
				continue
			}
			log.Debug().Err(err).Bool("added", added).Msg("add")
			err = display(out, tr, format)
		case "refresh":
			if rerr := tr.Refresh(ctx); rerr != nil && !errors.Is(rerr, tracker.ErrSuperseded) {
				log.Debug().Err(rerr).Msg("refresh")
			}
			err = display(out, tr, format)
		case "list":
			err = display(out, tr, format)
		case "help":
			fmt.Fprint(out, sessionHelp)
		case "quit", "exit":
			return nil
		default:
			fmt.Fprintf(out, "unknown command %q, type help\n", fields[0])
		}
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
	}
	return scanner.Err()
}

// newForm fills a form with positional arguments: symbol, quantity, price.
func newForm(args []string) tracker.Form {
	var form tracker.Form
	fields := []*string{&form.Symbol, &form.Quantity, &form.Price}
	for i, arg := range args {
		if i == len(fields) {
			break
		}
		*fields[i] = arg
	}
	return form
}
