package chart

import (
	"bytes"
	"strings"
	"testing"
	"time"

	pt "github.com/amey1907/papertrade"
)

func TestWritePortfolio(t *testing.T) {
	a := pt.NewAccountant(pt.DefaultConfig())
	demo := pt.NewSimpleDemo(pt.Rupees(100000), pt.Rupees(20))
	if err := a.Register(demo); err != nil {
		t.Fatal(err)
	}
	at := time.Date(2026, 2, 24, 10, 0, 0, 0, time.UTC)
	if _, err := demo.Book().ApplyTrade(at, pt.ProposedTrade{
		Action: pt.ActionOpenLong, Instrument: pt.Equity("INFY", "INFY-EQ"), Quantity: pt.Q(50), SuggestedPrice: pt.Rupees(1500),
	}); err != nil {
		t.Fatal(err)
	}

	var history []*pt.PortfolioSnapshot
	for i, price := range []int{1510, 1525, 1490} {
		snap := pt.NewMarketSnapshot(at.Add(time.Duration(i) * 24 * time.Hour))
		snap.SetQuote("INFY-EQ", pt.Quote{LastPrice: pt.Rupees(price)})
		history = append(history, a.Revalue(snap))
	}

	var buf bytes.Buffer
	if err := WritePortfolio(&buf, history); err != nil {
		t.Fatalf("WritePortfolio() error = %v", err)
	}
	html := buf.String()
	for _, want := range []string{"Portfolio Value", "Initial Capital", "Unrealized", "echarts"} {
		if !strings.Contains(html, want) {
			t.Errorf("chart HTML missing %q", want)
		}
	}
}

func TestWritePortfolioEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := WritePortfolio(&buf, nil); err == nil {
		t.Error("WritePortfolio() with no history did not fail")
	}
}
