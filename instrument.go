package papertrade

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
)

// OptionKind tags what a position actually is, so that Greeks computation is
// a total function over every instrument and never a runtime probe.
type OptionKind int

const (
	// KindEquity marks a plain equity (or future) holding with no optionality.
	KindEquity OptionKind = iota
	// KindCall marks a European call option.
	KindCall
	// KindPut marks a European put option.
	KindPut
)

// String returns the NSE instrument-type code for the kind.
func (k OptionKind) String() string {
	switch k {
	case KindCall:
		return "CE"
	case KindPut:
		return "PE"
	default:
		return "EQ"
	}
}

// ParseOptionKind parses an NSE instrument-type code.
func ParseOptionKind(s string) (OptionKind, error) {
	switch s {
	case "CE":
		return KindCall, nil
	case "PE":
		return KindPut, nil
	case "EQ", "FUT", "":
		return KindEquity, nil
	default:
		return KindEquity, fmt.Errorf("unknown option kind %q", s)
	}
}

func (k OptionKind) MarshalJSON() ([]byte, error) { return json.Marshal(k.String()) }

func (k *OptionKind) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	v, err := ParseOptionKind(s)
	if err != nil {
		return err
	}
	*k = v
	return nil
}

// tradingsymbolRE matches NFO monthly option symbols like "NIFTY26MAR24600CE":
// underlying, 2-digit year, 3-letter month, strike, kind.
var tradingsymbolRE = regexp.MustCompile(`^([A-Z]+)(\d{2})([A-Z]{3})(\d+)(CE|PE)$`)

// Instrument is the immutable identity of a tradable contract. Once a
// Position is created its instrument never changes.
type Instrument struct {
	Symbol        string     `json:"symbol"`                  // display symbol
	Tradingsymbol string     `json:"tradingsymbol,omitempty"` // quote key, broker format; defaults to Symbol
	Underlying    string     `json:"underlying,omitempty"`    // spot symbol for options, e.g. "NIFTY"
	Strike        Money      `json:"strike,omitzero"`
	Kind          OptionKind `json:"kind"`
	Expiry        Date       `json:"expiry,omitzero"` // zero value means perpetual
}

// Equity returns the identity of a plain equity holding. Equities are
// perpetual and have no strike.
func Equity(symbol, tradingsymbol string) Instrument {
	return Instrument{Symbol: symbol, Tradingsymbol: tradingsymbol, Kind: KindEquity}
}

// Option returns the identity of an option contract. The underlying and the
// strike are parsed out of the tradingsymbol when it follows the NFO monthly
// convention, so callers only spell them out for unconventional symbols.
func Option(symbol string, strike Money, kind OptionKind, expiry Date) Instrument {
	ins := Instrument{Symbol: symbol, Strike: strike, Kind: kind, Expiry: expiry}
	if m := tradingsymbolRE.FindStringSubmatch(symbol); m != nil {
		ins.Underlying = m[1]
	}
	return ins
}

// Key returns the symbol positions are quoted under in a MarketSnapshot.
func (i Instrument) Key() string {
	if i.Tradingsymbol != "" {
		return i.Tradingsymbol
	}
	return i.Symbol
}

// IsOption reports whether the instrument carries optionality.
func (i Instrument) IsOption() bool { return i.Kind != KindEquity }

// Perpetual reports whether the instrument never expires.
func (i Instrument) Perpetual() bool { return i.Expiry.IsZero() }

// TimeToExpiry returns the remaining life of the contract in years on the
// given date, using the ACT/365 convention. Perpetual instruments report 0.
func (i Instrument) TimeToExpiry(on Date) float64 {
	if i.Perpetual() {
		return 0
	}
	return float64(on.DaysUntil(i.Expiry)) / 365
}

// Validate checks the identity for internal consistency.
func (i Instrument) Validate() error {
	if i.Symbol == "" {
		return fmt.Errorf("instrument symbol is missing")
	}
	if i.IsOption() {
		if !i.Strike.IsPositive() {
			return fmt.Errorf("option %s: strike must be > 0, got %s", i.Symbol, i.Strike)
		}
		if i.Perpetual() {
			return fmt.Errorf("option %s: expiry is missing", i.Symbol)
		}
	}
	if i.Strike.IsNegative() {
		return fmt.Errorf("instrument %s: strike must be >= 0, got %s", i.Symbol, i.Strike)
	}
	return nil
}

// ParseTradingsymbol decodes an NFO monthly option symbol into its
// underlying, strike and kind. ok is false for symbols that do not follow
// the convention (equities, weeklies, futures).
func ParseTradingsymbol(sym string) (underlying string, strike float64, kind OptionKind, ok bool) {
	m := tradingsymbolRE.FindStringSubmatch(sym)
	if m == nil {
		return "", 0, KindEquity, false
	}
	strike, err := strconv.ParseFloat(m[4], 64)
	if err != nil {
		return "", 0, KindEquity, false
	}
	kind, _ = ParseOptionKind(m[5])
	return m[1], strike, kind, true
}
