package cmd

import (
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

// Completion returns the shell completion tree of the trk command.
func Completion() *complete.Command {
	format := map[string]complete.Predictor{"format": predict.Set(formats)}
	return &complete.Command{
		Flags: map[string]complete.Predictor{
			"positions-file": predict.Files("*.jsonl"),
			"apikey":         predict.Nothing,
			"currency":       predict.Set{"USD", "EUR", "GBP", "CHF", "JPY"},
			"timeout":        predict.Set{"5s", "10s", "30s"},
			"concurrency":    predict.Nothing,
			"v":              predict.Nothing,
		},
		Sub: map[string]*complete.Command{
			"quote": {Args: predict.Something},
			"add": {Flags: map[string]complete.Predictor{
				"s":      predict.Something,
				"q":      predict.Something,
				"p":      predict.Something,
				"format": predict.Set(formats),
			}},
			"show": {Flags: format},
			"watch": {Flags: map[string]complete.Predictor{
				"every":  predict.Set{"30s", "1m", "5m", "15m"},
				"format": predict.Set(formats),
			}},
			"session": {Flags: map[string]complete.Predictor{
				"load":   predict.Nothing,
				"format": predict.Set(formats),
			}},
		},
	}
}
