package papertrade

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

// This file persists a strategy book as human-readable, git-friendly JSONL
// streams: one line per ledger entry, one line per position. The encode side
// goes through jsonObjectWriter so that field order is stable and diffs stay
// small.

// EncodeEntry marshals a single ledger entry and writes it to the writer
// followed by a newline, in JSONL format.
func EncodeEntry(w io.Writer, e Entry) error {
	var jw jsonObjectWriter
	jw.Append("id", e.ID)
	jw.Append("at", e.At)
	jw.Append("action", e.Action)
	jw.Optional("symbol", e.Symbol)
	if !e.Quantity.IsZero() {
		jw.Append("quantity", e.Quantity)
	}
	if !e.Price.IsZero() {
		jw.Append("price", e.Price)
	}
	if !e.Fee.IsZero() {
		jw.Append("fee", e.Fee)
	}
	jw.Append("cash_impact", e.CashImpact)
	jw.Append("balance", e.Balance)

	data, err := jw.MarshalJSON()
	if err != nil {
		return fmt.Errorf("failed to marshal ledger entry %s: %w", e.ID, err)
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write ledger entry: %w", err)
	}
	return nil
}

// EncodeLedger persists every entry of a ledger to an io.Writer in JSONL
// format, oldest first.
func EncodeLedger(w io.Writer, l *Ledger) error {
	for _, e := range l.entries {
		if err := EncodeEntry(w, e); err != nil {
			return err
		}
	}
	return nil
}

// DecodeLedger reads a JSONL entry stream and rebuilds a ledger opened with
// the given allocation. The replay audit runs as part of the rebuild, so a
// tampered or truncated stream is rejected.
func DecodeLedger(r io.Reader, opening Money) (*Ledger, error) {
	var entries []Entry
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue // Skip empty lines
		}
		var e Entry
		if err := json.Unmarshal(line, &e); err != nil {
			return nil, fmt.Errorf("format error in ledger line %q: %w", string(line), err)
		}
		if _, err := ParseAction(string(e.Action)); err != nil {
			return nil, fmt.Errorf("format error in ledger entry %s: %w", e.ID, err)
		}
		entries = append(entries, e)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading ledger: %w", err)
	}

	l := NewLedger(opening)
	if err := l.restore(entries); err != nil {
		return nil, fmt.Errorf("ledger audit failed: %w", err)
	}
	return l, nil
}

// EncodePositions persists positions to an io.Writer in JSONL format.
func EncodePositions(w io.Writer, positions []*Position) error {
	for _, p := range positions {
		data, err := json.Marshal(p)
		if err != nil {
			return fmt.Errorf("failed to marshal position %s: %w", p.Instrument.Symbol, err)
		}
		if _, err := w.Write(append(data, '\n')); err != nil {
			return fmt.Errorf("failed to write position: %w", err)
		}
	}
	return nil
}

// DecodePositions reads a JSONL position stream.
func DecodePositions(r io.Reader) ([]*Position, error) {
	var positions []*Position
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var p Position
		if err := json.Unmarshal(line, &p); err != nil {
			return nil, fmt.Errorf("format error in position line %q: %w", string(line), err)
		}
		if err := p.Instrument.Validate(); err != nil {
			return nil, fmt.Errorf("invalid position in stream: %w", err)
		}
		positions = append(positions, &p)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading positions: %w", err)
	}
	return positions, nil
}
