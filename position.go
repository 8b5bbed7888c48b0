package papertrade

import (
	"fmt"
	"log"
)

// PositionStatus is the lifecycle state of a position.
type PositionStatus string

const (
	StatusOpen   PositionStatus = "OPEN"
	StatusClosed PositionStatus = "CLOSED"
)

// Position is one holding of a strategy: an instrument, a signed quantity
// (negative for short) and the prices that bound its life.
//
// A position is mutated only through Revalue and Close; everything else
// reads. The owning strategy is the single writer.
type Position struct {
	Instrument Instrument `json:"instrument"`
	Quantity   Quantity   `json:"quantity"` // signed, negative for short
	EntryPrice Money      `json:"entry_price"`
	EntryDate  Date       `json:"entry_date"`

	CurrentPrice Money          `json:"current_price"`
	Status       PositionStatus `json:"status"`
	ExitPrice    Money          `json:"exit_price,omitzero"`
	ExitDate     Date           `json:"exit_date,omitzero"`

	// Stale is set when the latest snapshot had no quote for the
	// instrument and CurrentPrice is a carry-over. Reporting only.
	Stale bool `json:"stale,omitempty"`

	// unit holds the per-unit Greeks from the latest revaluation.
	unit Greeks
}

// NewPosition opens a position at the given entry terms. Quantity is signed:
// a negative quantity opens a short.
func NewPosition(ins Instrument, qty Quantity, entry Money, on Date) (*Position, error) {
	if err := ins.Validate(); err != nil {
		return nil, err
	}
	if qty.IsZero() {
		return nil, fmt.Errorf("%w: zero quantity for %s", ErrInvalidInput, ins.Symbol)
	}
	if !entry.IsPositive() {
		return nil, fmt.Errorf("%w: entry price %s for %s", ErrInvalidInput, entry, ins.Symbol)
	}
	return &Position{
		Instrument:   ins,
		Quantity:     qty,
		EntryPrice:   entry,
		EntryDate:    on,
		CurrentPrice: entry,
		Status:       StatusOpen,
	}, nil
}

// IsOpen reports whether the position is still open.
func (p *Position) IsOpen() bool { return p.Status == StatusOpen }

// IsShort reports whether the position is a short.
func (p *Position) IsShort() bool { return p.Quantity.IsNegative() }

// Revalue refreshes the position from a market snapshot.
//
// A missing quote is not an error: the previous price is kept and the
// position is flagged stale. Bad pricing inputs on one option degrade the
// same way, the previous Greeks are kept and the event is logged; one broken
// quote must never abort a portfolio-wide revaluation. Closed positions are
// untouched.
func (p *Position) Revalue(snap *MarketSnapshot) {
	if !p.IsOpen() {
		return
	}
	q, ok := snap.Quote(p.Instrument.Key())
	if !ok {
		p.Stale = true
		return
	}
	p.CurrentPrice = q.LastPrice
	p.Stale = false

	if !p.Instrument.IsOption() {
		return
	}
	v, err := PriceAndGreeks(p.Instrument.Kind, PricingInput{
		Spot:         q.UnderlyingSpot.AsFloat(),
		Strike:       p.Instrument.Strike.AsFloat(),
		TimeToExpiry: p.Instrument.TimeToExpiry(snap.On()),
		Volatility:   q.Volatility,
		RiskFreeRate: DefaultRiskFreeRate,
	})
	if err != nil {
		p.Stale = true
		log.Printf("degraded: keeping previous greeks for %s: %v", p.Instrument.Symbol, err)
		return
	}
	p.unit = v.Greeks
}

// Greeks returns the per-unit sensitivities from the latest revaluation.
// Zero for equities and for positions never revalued against an option quote.
func (p *Position) Greeks() Greeks { return p.unit }

// Exposure returns the position-level Greeks, unit Greeks scaled by the
// signed quantity. Closed positions carry no exposure.
func (p *Position) Exposure() Greeks {
	if !p.IsOpen() {
		return Greeks{}
	}
	return p.unit.Scale(p.Quantity.AsFloat())
}

// PnL returns the unrealized profit for an open position, or the frozen
// realized profit once closed. The signed quantity makes the same formula
// hold for shorts.
func (p *Position) PnL() Money {
	last := p.CurrentPrice
	if !p.IsOpen() {
		last = p.ExitPrice
	}
	return last.Sub(p.EntryPrice).Mul(p.Quantity)
}

// MarketValue returns the absolute current value of the position.
func (p *Position) MarketValue() Money {
	return p.CurrentPrice.Mul(p.Quantity.Abs())
}

// CostBasis returns |quantity| * entry price, the position's contribution to
// invested capital while open.
func (p *Position) CostBasis() Money {
	return p.EntryPrice.Mul(p.Quantity.Abs())
}

// Close transitions the position to CLOSED and freezes its exit terms.
// Closing twice returns ErrInvalidState; the first close wins.
func (p *Position) Close(exit Money, on Date) error {
	if !p.IsOpen() {
		return fmt.Errorf("%w: %s already closed on %s", ErrInvalidState, p.Instrument.Symbol, p.ExitDate)
	}
	p.Status = StatusClosed
	p.ExitPrice = exit
	p.ExitDate = on
	p.CurrentPrice = exit
	p.Stale = false
	p.unit = Greeks{}
	return nil
}

func (p *Position) String() string {
	return fmt.Sprintf("%s %s @ %s (%s)", p.Quantity.SignedString(), p.Instrument.Symbol, p.EntryPrice, p.Status)
}
