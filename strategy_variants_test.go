package papertrade

import (
	"strings"
	"testing"
)

func TestVolatilityArbitrageSeeds(t *testing.T) {
	s := NewVolatilityArbitrage(Rupees(38550), Rupees(20))
	if err := s.Book().InitializePositions(tradeTime, s.Seeds(Conditions{})); err != nil {
		t.Fatalf("InitializePositions() error = %v", err)
	}

	m := s.Book().Metrics()
	if m.OpenCount != 6 {
		t.Fatalf("open count = %d, want the 6 legs", m.OpenCount)
	}
	// Net debit before fees is exactly the allocation, so cash after
	// seeding is minus the total brokerage: 120 lots * 20.
	if !s.Book().Cash().Equal(Rupees(-2400)) {
		t.Errorf("cash = %s, want -2400", s.Book().Cash())
	}
	// Invested: 27500+24500+8750+8000+1500+1800.
	if !m.Invested.Equal(Rupees(72050)) {
		t.Errorf("invested = %s, want 72050", m.Invested)
	}
	if err := s.Book().Ledger().Replay(); err != nil {
		t.Errorf("Replay() error = %v", err)
	}

	shorts := 0
	for _, p := range s.Book().OpenPositions() {
		if p.IsShort() {
			shorts++
		}
	}
	if shorts != 2 {
		t.Errorf("short legs = %d, want the front-month straddle's 2", shorts)
	}
}

func TestVolatilityArbitrageShouldRebalance(t *testing.T) {
	s := NewVolatilityArbitrage(Rupees(38550), Rupees(20))
	tests := []struct {
		name string
		c    Conditions
		want bool
	}{
		{"calm", Conditions{VIX: 12.5, SpotChangePct: 1}, false},
		{"vix at band edge", Conditions{VIX: 15.0, SpotChangePct: 0}, false},
		{"vix over band", Conditions{VIX: 15.5, SpotChangePct: 0}, true},
		{"vix collapse", Conditions{VIX: 8.0, SpotChangePct: 0}, true},
		{"spot rally", Conditions{VIX: 12.0, SpotChangePct: 6}, true},
		{"spot selloff", Conditions{VIX: 12.0, SpotChangePct: -6}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := s.ShouldRebalance(tc.c); got != tc.want {
				t.Errorf("ShouldRebalance(%+v) = %v, want %v", tc.c, got, tc.want)
			}
		})
	}
}

func TestVolatilityArbitrageRebalance(t *testing.T) {
	s := NewVolatilityArbitrage(Rupees(38550), Rupees(20))

	if got := s.Rebalance(Conditions{VIX: 14}); len(got) != 0 {
		t.Errorf("Rebalance() on a mild drift proposed %d trades, want 0", len(got))
	}

	got := s.Rebalance(Conditions{VIX: 18})
	if len(got) != 1 {
		t.Fatalf("Rebalance() on a spike proposed %d trades, want 1", len(got))
	}
	tr := got[0]
	if tr.Action != ActionOpenLong || tr.Instrument.Kind != KindPut {
		t.Errorf("proposal = %s %s, want a long put", tr.Action, tr.Instrument.Symbol)
	}
	if !strings.Contains(tr.Reason, "vix spike") {
		t.Errorf("reason = %q, want a vix spike explanation", tr.Reason)
	}
	// At-market intent: the caller prices it before applying.
	if !tr.SuggestedPrice.IsZero() {
		t.Errorf("suggested price = %s, want unset", tr.SuggestedPrice)
	}
	// Proposing never mutates the book.
	if len(s.Book().Positions()) != 0 {
		t.Error("Rebalance() mutated the book")
	}
}

func TestEquityMomentum(t *testing.T) {
	s := NewEquityMomentum(Rupees(500000), Rupees(20))
	if err := s.Book().InitializePositions(tradeTime, s.Seeds(Conditions{})); err != nil {
		t.Fatal(err)
	}
	if got := s.Book().Metrics().Invested; !got.Equal(Rupees(440000)) {
		t.Errorf("invested = %s, want 440000", got)
	}

	if s.ShouldRebalance(Conditions{Momentum: 0.01}) {
		t.Error("ShouldRebalance() = true below the 2% threshold")
	}
	c := Conditions{
		Momentum:  0.03,
		ChangePct: map[string]float64{"RELIANCE-EQ": 2.8, "TCS-EQ": 0.4},
	}
	if !s.ShouldRebalance(c) {
		t.Fatal("ShouldRebalance() = false above the threshold")
	}
	got := s.Rebalance(c)
	if len(got) != 1 {
		t.Fatalf("Rebalance() proposed %d trades, want 1", len(got))
	}
	if got[0].Instrument.Symbol != "RELIANCE" {
		t.Errorf("top-up target = %s, want the strongest name RELIANCE", got[0].Instrument.Symbol)
	}
	if got[0].Action != ActionOpenLong || !got[0].Quantity.Equal(Q(25)) {
		t.Errorf("proposal = %s x%s, want OPEN_LONG x25", got[0].Action, got[0].Quantity)
	}
}

func TestSimpleDemo(t *testing.T) {
	s := NewSimpleDemo(Rupees(500000), Rupees(20))
	if err := s.Book().InitializePositions(tradeTime, s.Seeds(Conditions{})); err != nil {
		t.Fatal(err)
	}

	if s.ShouldRebalance(Conditions{Volatility: 0.2}) {
		t.Error("ShouldRebalance() = true below the volatility ceiling")
	}
	got := s.Rebalance(Conditions{Volatility: 0.35})
	if len(got) != 1 {
		t.Fatalf("Rebalance() proposed %d trades, want 1", len(got))
	}
	// INFY is the larger position: 200*1500 > 100*1800.
	if got[0].Action != ActionClose || got[0].Instrument.Symbol != "INFY" {
		t.Errorf("proposal = %s %s, want CLOSE INFY", got[0].Action, got[0].Instrument.Symbol)
	}

	// The proposal round-trips through ApplyTrade once priced.
	tr := got[0]
	tr.SuggestedPrice = Rupees(1480)
	pos, err := s.Book().ApplyTrade(tradeTime, tr)
	if err != nil {
		t.Fatalf("ApplyTrade() error = %v", err)
	}
	if pos.IsOpen() {
		t.Error("position still open after applying the close proposal")
	}
	if !pos.PnL().Equal(Rupees(-4000)) { // (1480-1500)*200
		t.Errorf("realized PnL = %s, want -4000", pos.PnL())
	}
}
