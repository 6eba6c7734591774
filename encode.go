package tracker

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// positionCmd is the persisted form of a Position, one per line.
type positionCmd struct {
	Symbol        string   `json:"symbol"`
	Quantity      Quantity `json:"quantity"`
	PurchasePrice Money    `json:"purchasePrice"`
}

// EncodePosition appends a single position as a JSON line to w.
func EncodePosition(w io.Writer, p Position) error {
	b, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("cannot encode position %s: %w", p.Symbol, err)
	}
	b = append(b, '\n')
	_, err = w.Write(b)
	return err
}

// EncodePositions writes all positions, in order, as JSON lines.
func EncodePositions(w io.Writer, positions []Position) error {
	for _, p := range positions {
		if err := EncodePosition(w, p); err != nil {
			return err
		}
	}
	return nil
}

// DecodePositions decodes a stream of JSONL positions in file order.
func DecodePositions(r io.Reader) ([]Position, error) {
	var positions []Position
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		lineBytes := scanner.Bytes()
		if len(lineBytes) == 0 {
			continue // Skip empty lines
		}

		var cmd positionCmd
		if err := json.Unmarshal(lineBytes, &cmd); err != nil {
			return nil, fmt.Errorf("line %d: invalid position %q: %w", line, string(lineBytes), err)
		}
		p := NewPosition(cmd.Symbol, cmd.Quantity, cmd.PurchasePrice)
		if p.Symbol == "" {
			return nil, fmt.Errorf("line %d: missing symbol", line)
		}
		if !p.Quantity.IsPositive() || !p.PurchasePrice.IsPositive() {
			return nil, fmt.Errorf("line %d: %s: %w", line, p.Symbol, ErrInvalidNumber)
		}
		positions = append(positions, p)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading positions: %w", err)
	}
	return positions, nil
}
