package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"slices"
	"time"

	"github.com/etnz/tracker"
	"github.com/google/subcommands"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type watchCmd struct {
	every  time.Duration
	format string
}

func (*watchCmd) Name() string     { return "watch" }
func (*watchCmd) Synopsis() string { return "periodically refresh and display positions" }
func (*watchCmd) Usage() string {
	return `trk watch [-every <duration>] [-format term|markdown|raw]

  Displays the positions table, then refreshes quotes and displays it again
  every <duration> until interrupted.

  Mind the provider quota: each cycle issues one request per position.
`
}

func (c *watchCmd) SetFlags(f *flag.FlagSet) {
	f.DurationVar(&c.every, "every", time.Minute, "Refresh period, at least 1s")
	f.StringVar(&c.format, "format", FormatTerm, "Output format: term, markdown or raw")
}

func (c *watchCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.every < time.Second {
		fmt.Fprintln(os.Stderr, "Error: -every must be at least 1s.")
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

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	cycle := func() {
		if err := refreshCycle(ctx, tr, c.format, os.Stdout); err != nil {
			log.Error().Err(err).Msg("refresh cycle")
		}
	}
	cycle()

	l := cronLogger{log.With().Str("component", "watch").Logger()}
	sched := cron.New(cron.WithLogger(l), cron.WithChain(cron.SkipIfStillRunning(l)))
	if _, err := sched.AddFunc("@every "+c.every.String(), cycle); err != nil {
		fmt.Fprintf(os.Stderr, "Error scheduling refresh: %v\n", err)
		return subcommands.ExitFailure
	}
	sched.Start()
	<-ctx.Done()
	<-sched.Stop().Done()
	return subcommands.ExitSuccess
}

// refreshCycle refreshes all positions and displays them under a timestamp.
func refreshCycle(ctx context.Context, tr *tracker.Tracker, format string, w io.Writer) error {
	err := tr.Refresh(ctx)
	if errors.Is(err, tracker.ErrSuperseded) || ctx.Err() != nil {
		return nil
	}
	fmt.Fprintf(w, "\n%s\n", time.Now().Format(time.DateTime))
	return display(w, tr, format)
}

// cronLogger adapts zerolog to cron.Logger.
type cronLogger struct {
	log zerolog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debug().Fields(keysAndValues).Msg(msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Error().Err(err).Fields(keysAndValues).Msg(msg)
}
