package cmd

import (
	"log"
	"time"

	"github.com/amey1907/papertrade"
	"github.com/amey1907/papertrade/kite"
)

// openInstruments collects every instrument held open across all books, the
// set a market snapshot must quote.
func openInstruments(a *papertrade.Accountant) []papertrade.Instrument {
	var out []papertrade.Instrument
	seen := make(map[string]bool)
	for _, s := range a.Strategies() {
		for _, p := range s.Book().OpenPositions() {
			if key := p.Instrument.Key(); !seen[key] {
				seen[key] = true
				out = append(out, p.Instrument)
			}
		}
	}
	return out
}

// fetchMarket builds the valuation snapshot and conditions from the Kite
// API. Without credentials it degrades to an empty snapshot: positions keep
// their last known price and are reported stale.
func fetchMarket(at time.Time, instruments []papertrade.Instrument) (*papertrade.MarketSnapshot, papertrade.Conditions) {
	c := kite.New()
	if c.APIKey == "" {
		log.Println("no kite credentials, valuing off last known prices")
		return papertrade.NewMarketSnapshot(at), papertrade.Conditions{At: at}
	}
	if !papertrade.MarketOpen(at) {
		log.Println("market is closed, quotes are the last traded prices")
	}

	snap, err := c.Snapshot(at, instruments)
	if err != nil {
		log.Printf("degraded: could not fetch quotes: %v", err)
		return papertrade.NewMarketSnapshot(at), papertrade.Conditions{At: at}
	}
	cond, err := c.Conditions(at, instruments)
	if err != nil {
		log.Printf("degraded: could not fetch conditions: %v", err)
		cond = papertrade.Conditions{At: at}
	}
	return snap, cond
}
