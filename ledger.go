package papertrade

import (
	"fmt"
	"time"
)

// Action is the kind of cash movement a ledger entry records.
type Action string

const (
	ActionOpenLong  Action = "OPEN_LONG"
	ActionOpenShort Action = "OPEN_SHORT"
	ActionClose     Action = "CLOSE"
	ActionFee       Action = "FEE"
)

// ParseAction parses a ledger action code.
func ParseAction(s string) (Action, error) {
	switch a := Action(s); a {
	case ActionOpenLong, ActionOpenShort, ActionClose, ActionFee:
		return a, nil
	}
	return "", fmt.Errorf("unknown ledger action %q", s)
}

// Entry is one immutable row of a strategy's cash ledger.
//
// Quantity is always the absolute contract count; the direction lives in the
// Action (and, for closes, in the sign passed to Record). Balance is the
// running cash after this entry, so every entry carries its own proof:
// Balance = previous Balance + CashImpact.
type Entry struct {
	ID         string    `json:"id"` // "VT0001", per-ledger sequence
	At         time.Time `json:"at"`
	Action     Action    `json:"action"`
	Symbol     string    `json:"symbol,omitempty"`
	Quantity   Quantity  `json:"quantity,omitzero"`
	Price      Money     `json:"price,omitzero"`
	Fee        Money     `json:"fee,omitzero"`
	CashImpact Money     `json:"cash_impact"`
	Balance    Money     `json:"balance"`
}

// Ledger is the append-only record of a strategy's cash movements and the
// sole authority on its running balance. Nothing else may mutate cash.
type Ledger struct {
	opening Money
	balance Money
	entries []Entry
	seq     int
}

// NewLedger returns a ledger opened with the given cash allocation.
func NewLedger(opening Money) *Ledger {
	return &Ledger{opening: opening, balance: opening}
}

// Record appends a cash movement and returns the new entry.
//
// quantity is signed for ActionClose: positive closes a long (sell-to-close,
// cash in), negative closes a short (buy-to-cover, cash out). For the two
// open actions only its magnitude matters, and for ActionFee it is ignored.
func (l *Ledger) Record(at time.Time, action Action, symbol string, quantity Quantity, price, fee Money) (Entry, error) {
	if fee.IsNegative() {
		return Entry{}, fmt.Errorf("%w: negative fee %s", ErrInvalidInput, fee)
	}
	if action != ActionFee {
		if quantity.IsZero() {
			return Entry{}, fmt.Errorf("%w: zero quantity for %s %s", ErrInvalidInput, action, symbol)
		}
		// A close may book at zero: a long option expiring worthless still
		// has to leave the book, with the fee as its only cash impact.
		if price.IsNegative() || (action != ActionClose && !price.IsPositive()) {
			return Entry{}, fmt.Errorf("%w: price %s for %s %s", ErrInvalidInput, price, action, symbol)
		}
	}

	gross := price.Mul(quantity.Abs())
	var impact Money
	switch action {
	case ActionOpenLong:
		impact = gross.Add(fee).Neg()
	case ActionOpenShort:
		impact = gross.Sub(fee)
	case ActionClose:
		if quantity.IsNegative() {
			// Buy-to-cover: mirrors the short opening credit.
			impact = gross.Add(fee).Neg()
		} else {
			// Sell-to-close: mirrors the long opening debit.
			impact = gross.Sub(fee)
		}
	case ActionFee:
		impact = fee.Neg()
	default:
		return Entry{}, fmt.Errorf("%w: unknown action %q", ErrInvalidInput, action)
	}

	l.seq++
	l.balance = l.balance.Add(impact)
	e := Entry{
		ID:         fmt.Sprintf("VT%04d", l.seq),
		At:         at,
		Action:     action,
		Symbol:     symbol,
		Quantity:   quantity.Abs(),
		Price:      price,
		Fee:        fee,
		CashImpact: impact,
		Balance:    l.balance,
	}
	l.entries = append(l.entries, e)
	return e, nil
}

// Opening returns the cash the ledger was opened with.
func (l *Ledger) Opening() Money { return l.opening }

// Balance returns the current cash balance.
func (l *Ledger) Balance() Money { return l.balance }

// Len returns the number of entries.
func (l *Ledger) Len() int { return len(l.entries) }

// Entries returns a copy of the entries, oldest first.
func (l *Ledger) Entries() []Entry {
	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Replay audits the ledger: it refolds every cash impact from the opening
// balance and fails if any entry's recorded balance, or the final balance,
// disagrees with the recomputation.
func (l *Ledger) Replay() error {
	running := l.opening
	for _, e := range l.entries {
		running = running.Add(e.CashImpact)
		if !running.Equal(e.Balance) {
			return fmt.Errorf("ledger entry %s: recorded balance %s, replay gives %s", e.ID, e.Balance, running)
		}
	}
	if !running.Equal(l.balance) {
		return fmt.Errorf("ledger balance %s, replay gives %s", l.balance, running)
	}
	return nil
}

// restore rebuilds ledger state from persisted entries. Used by the loader;
// the entries are trusted to be a previously recorded, ordered sequence.
func (l *Ledger) restore(entries []Entry) error {
	l.entries = entries
	l.seq = len(entries)
	if len(entries) > 0 {
		l.balance = entries[len(entries)-1].Balance
	} else {
		l.balance = l.opening
	}
	return l.Replay()
}
