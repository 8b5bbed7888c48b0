package papertrade

import (
	"errors"
	"testing"
)

func calendarSeeds() []ProposedTrade {
	far := Option("NIFTY26APR24600CE", Rupees(24600), KindCall, MustParse("2026-04-30"))
	near := Option("NIFTY26MAR24600CE", Rupees(24600), KindCall, MustParse("2026-03-26"))
	return []ProposedTrade{
		{Action: ActionOpenLong, Instrument: far, Quantity: Q(25), SuggestedPrice: Rupees(1100), Reason: "long far-month call"},
		{Action: ActionOpenShort, Instrument: near, Quantity: Q(25), SuggestedPrice: Rupees(350), Reason: "short near-month call"},
	}
}

// TestBookCalendarSpread checks the cash and invested arithmetic of a
// calendar spread against hand-computed values, with a ₹20/lot brokerage.
func TestBookCalendarSpread(t *testing.T) {
	b := NewBook("vol-arb", Rupees(38550), Rupees(20))
	if err := b.InitializePositions(tradeTime, calendarSeeds()); err != nil {
		t.Fatalf("InitializePositions() error = %v", err)
	}

	// Cash delta: -(25*1100) + (25*350) - 2*25*20 of fees.
	wantCash := Rupees(38550 - 25*1100 + 25*350 - 1000)
	if !b.Cash().Equal(wantCash) {
		t.Errorf("cash = %s, want %s", b.Cash(), wantCash)
	}

	m := b.Metrics()
	// Invested is the sum of absolute notionals: 25*1100 + 25*350.
	if got := m.Invested.Decimal().Sub(Rupees(36250).Decimal()).Abs(); !got.LessThanOrEqual(newDecimal(0.01)) {
		t.Errorf("invested = %s, want 36250 within 0.01", m.Invested)
	}
	if m.OpenCount != 2 {
		t.Errorf("open count = %d, want 2", m.OpenCount)
	}
	if err := b.Ledger().Replay(); err != nil {
		t.Errorf("Replay() error = %v", err)
	}
}

func TestBookInitializeTwice(t *testing.T) {
	b := NewBook("vol-arb", Rupees(38550), Rupees(20))
	if err := b.InitializePositions(tradeTime, calendarSeeds()); err != nil {
		t.Fatal(err)
	}
	err := b.InitializePositions(tradeTime, calendarSeeds())
	if !errors.Is(err, ErrAlreadyInitialized) {
		t.Errorf("second InitializePositions() error = %v, want ErrAlreadyInitialized", err)
	}
	if got := len(b.Positions()); got != 2 {
		t.Errorf("positions = %d after rejected seeding, want 2", got)
	}
}

func TestBookInsufficientFunds(t *testing.T) {
	b := NewBook("small", Rupees(1000), Rupees(20))
	_, err := b.ApplyTrade(tradeTime, ProposedTrade{
		Action:         ActionOpenLong,
		Instrument:     Equity("RELIANCE", ""),
		Quantity:       Q(100),
		SuggestedPrice: Rupees(2500),
	})
	if !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("ApplyTrade() error = %v, want ErrInsufficientFunds", err)
	}
	if b.Ledger().Len() != 0 {
		t.Error("rejected trade still reached the ledger")
	}
	if len(b.Positions()) != 0 {
		t.Error("rejected trade still created a position")
	}

	// A short is a credit: it must pass even with little cash.
	ins := Option("NIFTY26MAR25200CE", Rupees(25200), KindCall, MustParse("2026-03-26"))
	if _, err := b.ApplyTrade(tradeTime, ProposedTrade{
		Action: ActionOpenShort, Instrument: ins, Quantity: Q(50), SuggestedPrice: Rupees(120),
	}); err != nil {
		t.Errorf("opening short error = %v", err)
	}
}

func TestBookCloseTrade(t *testing.T) {
	b := NewBook("demo", Rupees(500000), Rupees(20))
	ins := Equity("INFY", "")
	if _, err := b.ApplyTrade(tradeTime, ProposedTrade{
		Action: ActionOpenLong, Instrument: ins, Quantity: Q(200), SuggestedPrice: Rupees(1500),
	}); err != nil {
		t.Fatal(err)
	}

	pos, err := b.ApplyTrade(tradeTime, ProposedTrade{
		Action: ActionClose, Instrument: ins, SuggestedPrice: Rupees(1550),
	})
	if err != nil {
		t.Fatalf("close error = %v", err)
	}
	if pos.IsOpen() {
		t.Error("position still open after a close trade")
	}
	if !pos.PnL().Equal(Rupees(10000)) { // (1550-1500)*200
		t.Errorf("realized PnL = %s, want 10000", pos.PnL())
	}
	// Opening debit -(300000 + 4000 fee), closing credit +(310000 - 4000 fee).
	if want := Rupees(500000 - 304000 + 306000); !b.Cash().Equal(want) {
		t.Errorf("cash = %s, want %s", b.Cash(), want)
	}

	// Closing a symbol with no open position is a state error.
	if _, err := b.ApplyTrade(tradeTime, ProposedTrade{
		Action: ActionClose, Instrument: ins, SuggestedPrice: Rupees(1550),
	}); !errors.Is(err, ErrInvalidState) {
		t.Errorf("second close error = %v, want ErrInvalidState", err)
	}
}

func TestBookRoll(t *testing.T) {
	b := NewBook("vol-arb", Rupees(100000), Rupees(20))
	near := Option("NIFTY26MAR24600CE", Rupees(24600), KindCall, MustParse("2026-03-26"))
	next := Option("NIFTY26APR24600CE", Rupees(24600), KindCall, MustParse("2026-04-30"))
	if _, err := b.ApplyTrade(tradeTime, ProposedTrade{
		Action: ActionOpenShort, Instrument: near, Quantity: Q(25), SuggestedPrice: Rupees(350),
	}); err != nil {
		t.Fatal(err)
	}

	pos, err := b.Roll(tradeTime, near.Symbol, Rupees(40), next, Rupees(310))
	if err != nil {
		t.Fatalf("Roll() error = %v", err)
	}
	if pos.Instrument.Symbol != next.Symbol || !pos.IsShort() {
		t.Errorf("rolled into %s short=%v, want %s short", pos.Instrument.Symbol, pos.IsShort(), next.Symbol)
	}
	if !pos.Quantity.Equal(Q(-25)) {
		t.Errorf("rolled quantity = %s, want -25", pos.Quantity)
	}
	// Exactly two ledger entries beyond the opening short.
	if got := b.Ledger().Len(); got != 3 {
		t.Errorf("ledger entries = %d, want 3", got)
	}
	entries := b.Ledger().Entries()
	if entries[1].Action != ActionClose || entries[2].Action != ActionOpenShort {
		t.Errorf("roll actions = %s, %s, want CLOSE, OPEN_SHORT", entries[1].Action, entries[2].Action)
	}
	// Short credit +(8750-500), cover -(1000+500), reopen +(7750-500).
	wantCash := Rupees(100000 + 8250 - 1500 + 7250)
	if !b.Cash().Equal(wantCash) {
		t.Errorf("cash = %s, want %s", b.Cash(), wantCash)
	}
	if err := b.Ledger().Replay(); err != nil {
		t.Errorf("Replay() error = %v", err)
	}
}

// TestBookCloseWorthlessExpiry books the routine end of a long option that
// expires out of the money: closed at zero, the fee is the only cash impact
// and the position leaves invested capital.
func TestBookCloseWorthlessExpiry(t *testing.T) {
	b := NewBook("vol-arb", Rupees(100000), Rupees(20))
	ins := Option("NIFTY26MAR26000CE", Rupees(26000), KindCall, MustParse("2026-03-26"))
	if _, err := b.ApplyTrade(tradeTime, ProposedTrade{
		Action: ActionOpenLong, Instrument: ins, Quantity: Q(10), SuggestedPrice: Rupees(150),
	}); err != nil {
		t.Fatal(err)
	}

	pos, err := b.ApplyTrade(tradeTime, ProposedTrade{
		Action: ActionClose, Instrument: ins, SuggestedPrice: Rupees(0), Reason: "expired worthless",
	})
	if err != nil {
		t.Fatalf("close at zero error = %v", err)
	}
	if pos.IsOpen() {
		t.Error("worthless position still open")
	}
	if !pos.PnL().Equal(Rupees(-1500)) { // (0-150)*10
		t.Errorf("realized PnL = %s, want -1500", pos.PnL())
	}
	// Open debit -(1500+200), close impact just the -200 fee.
	if want := Rupees(100000 - 1700 - 200); !b.Cash().Equal(want) {
		t.Errorf("cash = %s, want %s", b.Cash(), want)
	}

	m := b.Metrics()
	if !m.Invested.IsZero() || m.OpenCount != 0 {
		t.Errorf("invested = %s open = %d after the close, want zero", m.Invested, m.OpenCount)
	}
	if err := b.Ledger().Replay(); err != nil {
		t.Errorf("Replay() error = %v", err)
	}
}

// TestBookRollInsufficientFunds checks that a roll whose reopen leg cannot be
// funded books nothing at all.
func TestBookRollInsufficientFunds(t *testing.T) {
	b := NewBook("tight", Rupees(30000), Rupees(20))
	near := Option("NIFTY26MAR24600CE", Rupees(24600), KindCall, MustParse("2026-03-26"))
	next := Option("NIFTY26APR24600CE", Rupees(24600), KindCall, MustParse("2026-04-30"))
	if _, err := b.ApplyTrade(tradeTime, ProposedTrade{
		Action: ActionOpenLong, Instrument: near, Quantity: Q(25), SuggestedPrice: Rupees(1100),
	}); err != nil {
		t.Fatal(err)
	}
	cash := b.Cash()

	// Closing at 40 leaves nowhere near 25*1200 for the reopen.
	_, err := b.Roll(tradeTime, near.Symbol, Rupees(40), next, Rupees(1200))
	if !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("Roll() error = %v, want ErrInsufficientFunds", err)
	}
	if got := b.Ledger().Len(); got != 1 {
		t.Errorf("ledger entries = %d after rejected roll, want 1", got)
	}
	pos := b.openPosition(near.Symbol)
	if pos == nil {
		t.Fatal("original position is gone after a rejected roll")
	}
	if !b.Cash().Equal(cash) {
		t.Errorf("cash = %s after rejected roll, want %s untouched", b.Cash(), cash)
	}
}

func TestBookMetricsAfterRevalue(t *testing.T) {
	b := NewBook("momentum", Rupees(500000), Rupees(20))
	if _, err := b.ApplyTrade(tradeTime, ProposedTrade{
		Action: ActionOpenLong, Instrument: Equity("RELIANCE", ""), Quantity: Q(100), SuggestedPrice: Rupees(2500),
	}); err != nil {
		t.Fatal(err)
	}
	b.Revalue(snapshotAt("2026-02-25", map[string]Quote{
		"RELIANCE": {LastPrice: Rupees(2550)},
	}))

	m := b.Metrics()
	if !m.UnrealizedPnL.Equal(Rupees(5000)) {
		t.Errorf("unrealized PnL = %s, want 5000", m.UnrealizedPnL)
	}
	if !m.Invested.Equal(Rupees(250000)) {
		t.Errorf("invested = %s, want 250000", m.Invested)
	}
	// Value = cash + invested + unrealized.
	want := m.Cash.Add(Rupees(250000)).Add(Rupees(5000))
	if !m.Value().Equal(want) {
		t.Errorf("Value() = %s, want %s", m.Value(), want)
	}
	if m.StaleCount != 0 {
		t.Errorf("stale count = %d, want 0", m.StaleCount)
	}
}
