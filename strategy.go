package papertrade

import (
	"fmt"
	"time"
)

// ProposedTrade is a strategy's intention, not an execution. Rebalance
// returns these for the caller to review; nothing changes until each one is
// explicitly passed to ApplyTrade. The split keeps every rebalance auditable.
type ProposedTrade struct {
	Action         Action     `json:"action"` // OPEN_LONG, OPEN_SHORT or CLOSE
	Instrument     Instrument `json:"instrument"`
	Quantity       Quantity   `json:"quantity"` // absolute lot count
	SuggestedPrice Money      `json:"suggested_price"`
	Reason         string     `json:"reason,omitempty"`
}

func (t ProposedTrade) String() string {
	return fmt.Sprintf("%s %s x%s @ %s (%s)", t.Action, t.Instrument.Symbol, t.Quantity, t.SuggestedPrice, t.Reason)
}

// Strategy is the capability a trading variant must provide on top of its
// book. ShouldRebalance is a pure predicate; Rebalance only proposes.
type Strategy interface {
	// Name identifies the strategy within an accountant. Unique.
	Name() string

	// Book returns the strategy's positions and cash ledger.
	Book() *Book

	// Seeds returns the opening trades for a one-time initialization
	// under the given market conditions.
	Seeds(c Conditions) []ProposedTrade

	// ShouldRebalance reports whether current conditions have drifted
	// past the strategy's thresholds. No side effects.
	ShouldRebalance(c Conditions) bool

	// Rebalance proposes the trades that would bring the book back in
	// line. It never mutates positions itself.
	Rebalance(c Conditions) []ProposedTrade
}

// StrategyMetrics is a read-only digest of one strategy's book.
type StrategyMetrics struct {
	Name          string `json:"name"`
	Cash          Money  `json:"cash"`
	Invested      Money  `json:"invested"` // sum of |quantity| * entry price over open positions
	UnrealizedPnL Money  `json:"unrealized_pnl"`
	RealizedPnL   Money  `json:"realized_pnl"`
	Greeks        Greeks `json:"greeks"`
	OpenCount     int    `json:"open_count"`
	StaleCount    int    `json:"stale_count"`
}

// Value is cash plus invested capital plus unrealized profit, the strategy's
// contribution to portfolio value.
func (m StrategyMetrics) Value() Money {
	return m.Cash.Add(m.Invested).Add(m.UnrealizedPnL)
}

// Book holds the state every strategy variant shares: a named cash sleeve
// with its ledger, and the positions bought out of it.
//
// A book is single-writer: entries must be strictly ordered for each balance
// to follow from the previous one, so at most one ApplyTrade or Revalue may
// be in flight per book. The accountant's synchronous fold respects this;
// hosts that want parallelism must give each book its own execution context.
type Book struct {
	name        string
	ledger      *Ledger
	positions   []*Position
	feePerLot   Money // simulated brokerage per lot
	initialized bool
}

// NewBook opens an empty book with the given cash allocation and a simulated
// brokerage charged per lot traded.
func NewBook(name string, allocation, feePerLot Money) *Book {
	return &Book{name: name, ledger: NewLedger(allocation), feePerLot: feePerLot}
}

// fee returns the brokerage for an order of the given absolute size.
func (b *Book) fee(qty Quantity) Money { return b.feePerLot.Mul(qty.Abs()) }

// Name returns the book's name.
func (b *Book) Name() string { return b.name }

// Cash returns the current cash balance, straight from the ledger.
func (b *Book) Cash() Money { return b.ledger.Balance() }

// Allocation returns the cash the book was opened with.
func (b *Book) Allocation() Money { return b.ledger.Opening() }

// Ledger exposes the book's ledger for reporting and persistence.
func (b *Book) Ledger() *Ledger { return b.ledger }

// Initialized reports whether the one-time seeding has happened.
func (b *Book) Initialized() bool { return b.initialized }

// Positions returns a copy of all positions, open and closed, oldest first.
func (b *Book) Positions() []*Position {
	out := make([]*Position, len(b.positions))
	copy(out, b.positions)
	return out
}

// OpenPositions returns the positions still open.
func (b *Book) OpenPositions() []*Position {
	var out []*Position
	for _, p := range b.positions {
		if p.IsOpen() {
			out = append(out, p)
		}
	}
	return out
}

// openPosition returns the open position for a symbol, if any.
func (b *Book) openPosition(symbol string) *Position {
	for _, p := range b.positions {
		if p.IsOpen() && p.Instrument.Symbol == symbol {
			return p
		}
	}
	return nil
}

// InitializePositions performs the one-time transition from an empty book to
// a seeded one. A second call returns ErrAlreadyInitialized; a book never
// goes back to empty.
//
// Seeding is exempt from the funds check: the allocation is sized to the
// structure's net debit before fees, so brokerage may take cash marginally
// negative at open. Post-seed trades go through ApplyTrade and are strict.
func (b *Book) InitializePositions(at time.Time, seeds []ProposedTrade) error {
	if b.initialized {
		return fmt.Errorf("%w: %s", ErrAlreadyInitialized, b.name)
	}
	for _, tr := range seeds {
		if _, err := b.apply(at, tr, false); err != nil {
			return fmt.Errorf("seeding %s: %w", b.name, err)
		}
	}
	b.initialized = true
	return nil
}

// ApplyTrade executes one proposed trade: it opens or closes a position and
// records exactly one ledger entry.
//
// An opening long that would drive the cash balance negative is rejected
// with ErrInsufficientFunds before anything is recorded.
func (b *Book) ApplyTrade(at time.Time, tr ProposedTrade) (*Position, error) {
	return b.apply(at, tr, true)
}

func (b *Book) apply(at time.Time, tr ProposedTrade, checkFunds bool) (*Position, error) {
	switch tr.Action {
	case ActionOpenLong, ActionOpenShort:
		return b.open(at, tr, checkFunds)
	case ActionClose:
		return b.close(at, tr)
	default:
		return nil, fmt.Errorf("%w: trade action %q", ErrInvalidInput, tr.Action)
	}
}

func (b *Book) open(at time.Time, tr ProposedTrade, checkFunds bool) (*Position, error) {
	qty := tr.Quantity.Abs()
	fee := b.fee(qty)
	if tr.Action == ActionOpenLong {
		cost := tr.SuggestedPrice.Mul(qty).Add(fee)
		if checkFunds && cost.GreaterThan(b.Cash()) {
			return nil, fmt.Errorf("%w: %s needs %s to buy %s x%s, has %s",
				ErrInsufficientFunds, b.name, cost, tr.Instrument.Symbol, qty, b.Cash())
		}
	} else {
		qty = qty.Neg()
	}
	pos, err := NewPosition(tr.Instrument, qty, tr.SuggestedPrice, NewDate(at.Date()))
	if err != nil {
		return nil, err
	}
	if _, err := b.ledger.Record(at, tr.Action, tr.Instrument.Symbol, tr.Quantity, tr.SuggestedPrice, fee); err != nil {
		return nil, err
	}
	b.positions = append(b.positions, pos)
	return pos, nil
}

func (b *Book) close(at time.Time, tr ProposedTrade) (*Position, error) {
	pos := b.openPosition(tr.Instrument.Symbol)
	if pos == nil {
		return nil, fmt.Errorf("%w: no open position %s in %s", ErrInvalidState, tr.Instrument.Symbol, b.name)
	}
	// The signed quantity tells the ledger whether this is a sell-to-close
	// or a buy-to-cover.
	if _, err := b.ledger.Record(at, ActionClose, pos.Instrument.Symbol, pos.Quantity, tr.SuggestedPrice, b.fee(pos.Quantity)); err != nil {
		return nil, err
	}
	if err := pos.Close(tr.SuggestedPrice, NewDate(at.Date())); err != nil {
		return nil, err
	}
	return pos, nil
}

// Roll closes the open position for a symbol and reopens the same exposure
// on a new contract, typically the next monthly expiry. It records exactly
// two ledger entries, the close then the open. The reopen cost is checked
// against the cash the close will leave before anything is recorded, so a
// roll either books both legs or books nothing.
func (b *Book) Roll(at time.Time, symbol string, closePrice Money, to Instrument, openPrice Money) (*Position, error) {
	pos := b.openPosition(symbol)
	if pos == nil {
		return nil, fmt.Errorf("%w: no open position %s in %s to roll", ErrInvalidState, symbol, b.name)
	}
	action := ActionOpenLong
	if pos.IsShort() {
		action = ActionOpenShort
	}
	qty := pos.Quantity.Abs()
	if action == ActionOpenLong {
		afterClose := b.Cash().Add(closePrice.Mul(qty)).Sub(b.fee(qty))
		cost := openPrice.Mul(qty).Add(b.fee(qty))
		if cost.GreaterThan(afterClose) {
			return nil, fmt.Errorf("%w: %s needs %s to roll into %s, has %s after the close",
				ErrInsufficientFunds, b.name, cost, to.Symbol, afterClose)
		}
	}
	if _, err := b.close(at, ProposedTrade{
		Action:         ActionClose,
		Instrument:     pos.Instrument,
		Quantity:       qty,
		SuggestedPrice: closePrice,
		Reason:         fmt.Sprintf("roll to %s", to.Symbol),
	}); err != nil {
		return nil, err
	}
	return b.open(at, ProposedTrade{
		Action:         action,
		Instrument:     to,
		Quantity:       qty,
		SuggestedPrice: openPrice,
		Reason:         fmt.Sprintf("rolled from %s", symbol),
	}, true)
}

// Revalue refreshes every open position from the snapshot. Pure fold, no
// I/O, degraded quotes are handled position by position.
func (b *Book) Revalue(snap *MarketSnapshot) {
	for _, p := range b.positions {
		p.Revalue(snap)
	}
}

// Metrics digests the book into its reporting aggregate.
func (b *Book) Metrics() StrategyMetrics {
	m := StrategyMetrics{
		Name:          b.name,
		Cash:          b.Cash(),
		Invested:      Rupees(0),
		UnrealizedPnL: Rupees(0),
		RealizedPnL:   Rupees(0),
	}
	for _, p := range b.positions {
		if p.IsOpen() {
			m.Invested = m.Invested.Add(p.CostBasis())
			m.UnrealizedPnL = m.UnrealizedPnL.Add(p.PnL())
			m.Greeks = m.Greeks.Add(p.Exposure())
			m.OpenCount++
			if p.Stale {
				m.StaleCount++
			}
		} else {
			m.RealizedPnL = m.RealizedPnL.Add(p.PnL())
		}
	}
	return m
}

// restorePositions rebuilds the book's positions from persisted state. The
// seeding flag inferred here is a fallback; the loader overrides it from the
// book metadata when one exists.
func (b *Book) restorePositions(positions []*Position) {
	b.positions = positions
	b.initialized = len(positions) > 0
}
