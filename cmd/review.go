package cmd

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/amey1907/papertrade"
	"github.com/amey1907/papertrade/renderer"
	"github.com/google/subcommands"
)

// reviewCmd runs the daily loop: revalue every book, let each strategy
// propose trades, optionally apply them, and persist the result.
type reviewCmd struct {
	apply bool
	seed  bool
}

func (*reviewCmd) Name() string     { return "review" }
func (*reviewCmd) Synopsis() string { return "revalue the books and review strategy proposals" }
func (*reviewCmd) Usage() string {
	return `pts review [-seed] [-apply]

  Fetches a market snapshot, revalues every strategy book and prints the
  trades each strategy proposes. Nothing is applied unless -apply is given;
  -seed performs the one-time opening trades for uninitialized books.
`
}

func (c *reviewCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.seed, "seed", false, "Initialize uninitialized books with their opening trades")
	f.BoolVar(&c.apply, "apply", false, "Apply the proposed trades at market price")
}

func (c *reviewCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := loadAccountant()
	if err != nil {
		return fail(err)
	}

	now := time.Now()
	snap, cond := fetchMarket(now, openInstruments(a))

	if c.seed {
		for _, s := range a.Strategies() {
			if s.Book().Initialized() {
				continue
			}
			if err := s.Book().InitializePositions(now, s.Seeds(cond)); err != nil {
				return fail(fmt.Errorf("could not seed %q: %w", s.Name(), err))
			}
			fmt.Printf("Seeded %q with %d opening trades.\n", s.Name(), len(s.Seeds(cond)))
		}
		// A seeding introduces instruments the first snapshot did not quote.
		snap, cond = fetchMarket(now, openInstruments(a))
	}

	latest := a.Revalue(snap)

	for _, s := range a.Strategies() {
		if !s.Book().Initialized() {
			fmt.Printf("%q is not initialized; run review -seed first.\n", s.Name())
			continue
		}
		sc := conditionsFor(s, cond)
		if !s.ShouldRebalance(sc) {
			continue
		}
		trades := s.Rebalance(sc)
		fmt.Printf("\n%s proposes:\n", s.Name())
		printMarkdown(renderer.TradeList(trades))

		if !c.apply {
			continue
		}
		for _, tr := range trades {
			if tr.SuggestedPrice.IsZero() {
				// At-market proposal: price it from the snapshot.
				q, ok := snap.Quote(tr.Instrument.Key())
				if !ok {
					fmt.Printf("skipping %s: no market quote to price it\n", tr.Instrument.Symbol)
					continue
				}
				tr.SuggestedPrice = q.LastPrice
			}
			if _, err := s.Book().ApplyTrade(now, tr); err != nil {
				fmt.Printf("rejected %s: %v\n", tr.Instrument.Symbol, err)
				continue
			}
			fmt.Printf("applied %s %s x%s @ %s\n", tr.Action, tr.Instrument.Symbol, tr.Quantity, tr.SuggestedPrice)
		}
		// Applied trades change the book, refresh the aggregate.
		latest = a.Revalue(snap)
	}

	if err := saveBooks(a); err != nil {
		return fail(err)
	}
	if err := papertrade.AppendHistory(PortfolioPath(), latest); err != nil {
		return fail(err)
	}

	fmt.Printf("\nPortfolio value %s (P&L %s) across %d strategies.\n",
		latest.Value(), latest.PnL().SignedString(), len(latest.Strategies))
	return subcommands.ExitSuccess
}

// conditionsFor specializes shared market conditions to one strategy:
// the spot move is measured from the strategy's own entry level.
func conditionsFor(s papertrade.Strategy, c papertrade.Conditions) papertrade.Conditions {
	if v, ok := s.(*papertrade.VolatilityArbitrage); ok && !v.NiftyEntry.IsZero() && !c.Spot.IsZero() {
		entry := v.NiftyEntry.AsFloat()
		c.SpotChangePct = (c.Spot.AsFloat() - entry) / entry * 100
	}
	return c
}
