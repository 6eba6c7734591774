// Package cmd implements the trk command-line application.
package cmd

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/etnz/tracker"
	"github.com/etnz/tracker/alphavantage"
	"github.com/google/subcommands"
	"github.com/rs/zerolog/log"
)

// Commands lists the trk subcommands.
var Commands = []subcommands.Command{
	&quoteCmd{},
	&addCmd{},
	&showCmd{},
	&watchCmd{},
	&sessionCmd{},
}

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&quoteCmd{}, "quotes")
	c.Register(&addCmd{}, "positions")
	c.Register(&showCmd{}, "positions")
	c.Register(&watchCmd{}, "positions")
	c.Register(&sessionCmd{}, "positions")
}

// IsCommand reports whether name is a built-in subcommand.
func IsCommand(name string) bool {
	for _, c := range Commands {
		if c.Name() == name {
			return true
		}
	}
	switch name {
	case "help", "flags", "commands":
		return true
	}
	return false
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var positionsFile = flag.String("positions-file", "positions.jsonl", "Path to the positions file (JSONL format)")
var currency = flag.String("currency", tracker.DefaultCurrency, "Currency of the quotes and purchase prices")
var timeout = flag.Duration("timeout", 10*time.Second, "Timeout of each quote request, 0 for none")
var concurrency = flag.Int("concurrency", tracker.DefaultConcurrency, "Maximum number of quote requests in parallel")

// Verbose enables debug logs.
var Verbose = flag.Bool("v", false, "verbose, log every request")

// NewTracker returns an empty tracker quoting prices from Alpha Vantage.
func NewTracker() (*tracker.Tracker, error) {
	key := APIKey()
	if key == "" {
		return nil, fmt.Errorf("the Alpha Vantage API key is not set, use -apikey flag or %s environment variable", EnvAPIKey)
	}
	client := alphavantage.New(key)
	return tracker.New(client,
		tracker.WithCurrency(*currency),
		tracker.WithTimeout(*timeout),
		tracker.WithConcurrency(*concurrency),
	), nil
}

// DecodePositions decodes positions from the app positions file.
// A missing file is an empty list.
func DecodePositions() ([]tracker.Position, error) {
	f, err := os.Open(*positionsFile)
	if errors.Is(err, fs.ErrNotExist) {
		log.Debug().Str("file", *positionsFile).Msg("positions file does not exist, starting empty")
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return tracker.DecodePositions(f)
}

// EncodePosition appends a single position into the app positions file.
func EncodePosition(p tracker.Position) error {
	filename := *positionsFile
	// Open the file in append mode, creating it if it doesn't exist.
	f, err := os.OpenFile(filename, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("cannot open positions file %q: %w", filename, err)
	}
	defer f.Close()

	if err := tracker.EncodePosition(f, p); err != nil {
		return fmt.Errorf("cannot write to positions file %q: %w", filename, err)
	}
	return nil
}
