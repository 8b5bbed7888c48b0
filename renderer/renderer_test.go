package renderer

import (
	"strings"
	"testing"
	"time"

	pt "github.com/amey1907/papertrade"
)

func demoReport(t *testing.T) *pt.DailyReport {
	t.Helper()
	at := time.Date(2026, 2, 25, 15, 30, 0, 0, time.UTC)

	a := pt.NewAccountant(pt.DefaultConfig())
	s := pt.NewVolatilityArbitrage(pt.Rupees(38550), pt.Rupees(20))
	if err := a.Register(s); err != nil {
		t.Fatal(err)
	}
	if err := s.Book().InitializePositions(at, s.Seeds(pt.Conditions{})); err != nil {
		t.Fatal(err)
	}

	snap := pt.NewMarketSnapshot(at)
	snap.SetQuote("NIFTY26MAR24600CE", pt.Quote{LastPrice: pt.Rupees(1150), UnderlyingSpot: pt.Rupees(24700), Volatility: 0.12})
	a.Revalue(snap)

	r, err := pt.BuildDailyReport(a, nil, pt.Conditions{At: at, Spot: pt.Rupees(24700), VIX: 12.5})
	if err != nil {
		t.Fatal(err)
	}
	return r
}

func TestDailyMarkdown(t *testing.T) {
	got := DailyMarkdown(demoReport(t))

	for _, want := range []string{
		"# Daily Report 2026-02-25",
		"Portfolio Value",
		"India VIX",
		"Volatility Arbitrage",
		"Recent Moves",
		"NIFTY26MAR24600CE",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("daily markdown missing %q:\n%s", want, got)
		}
	}
	// Five legs never got a quote: the staleness note must show.
	if !strings.Contains(got, "carried-over quote") {
		t.Errorf("daily markdown missing the staleness note:\n%s", got)
	}
}

func TestPositionsMarkdown(t *testing.T) {
	got := PositionsMarkdown(demoReport(t))
	for _, want := range []string{"# Positions", "NIFTY26MAR24600PE", "| Symbol |"} {
		if !strings.Contains(got, want) {
			t.Errorf("positions markdown missing %q", want)
		}
	}
	// The unquoted legs are flagged.
	if !strings.Contains(got, "*") {
		t.Error("positions markdown does not flag stale prices")
	}
}

func TestLedgerMarkdown(t *testing.T) {
	l := pt.NewLedger(pt.Rupees(1000))
	l.Record(time.Now(), pt.ActionFee, "", pt.Q(0), pt.Rupees(0), pt.Rupees(10))
	out := LedgerMarkdown("test", l)
	for _, want := range []string{"# Ledger: test", "VT0001", "FEE"} {
		if !strings.Contains(out, want) {
			t.Errorf("ledger markdown missing %q:\n%s", want, out)
		}
	}
}

func TestTradeList(t *testing.T) {
	if got := TradeList(nil); !strings.Contains(got, "Nothing to do") {
		t.Errorf("empty trade list = %q", got)
	}
	got := TradeList([]pt.ProposedTrade{{
		Action:     pt.ActionOpenLong,
		Instrument: pt.Equity("INFY", ""),
		Quantity:   pt.Q(10),
		Reason:     "test",
	}})
	if !strings.Contains(got, "OPEN_LONG INFY x10 at market (test)") {
		t.Errorf("trade list = %q", got)
	}
}
