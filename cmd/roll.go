package cmd

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/amey1907/papertrade"
	"github.com/amey1907/papertrade/kite"
	"github.com/google/subcommands"
)

// rollCmd closes an expiring option leg and reopens the same exposure on
// the next listed expiry.
type rollCmd struct {
	strategy   string
	symbol     string
	closePrice float64
	openPrice  float64
}

func (*rollCmd) Name() string     { return "roll" }
func (*rollCmd) Synopsis() string { return "roll an option position to the next expiry" }
func (*rollCmd) Usage() string {
	return `pts roll -s <strategy> -symbol <tradingsymbol> [-close-price <rupees> -open-price <rupees>]

  Closes the named option position and reopens the same side, strike and
  size on the next listed expiry. Prices come from the market; pass both
  -close-price and -open-price to roll offline.
`
}

func (c *rollCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.strategy, "s", "", "Strategy whose book holds the position")
	f.StringVar(&c.symbol, "symbol", "", "Tradingsymbol of the position to roll")
	f.Float64Var(&c.closePrice, "close-price", 0, "Price to close the expiring leg at")
	f.Float64Var(&c.openPrice, "open-price", 0, "Price to open the new leg at")
}

func (c *rollCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := loadAccountant()
	if err != nil {
		return fail(err)
	}
	s, ok := a.Strategy(c.strategy)
	if !ok {
		return fail(fmt.Errorf("unknown strategy %q", c.strategy))
	}
	var pos *papertrade.Position
	for _, p := range s.Book().OpenPositions() {
		if p.Instrument.Symbol == c.symbol || p.Instrument.Key() == c.symbol {
			pos = p
			break
		}
	}
	if pos == nil {
		return fail(fmt.Errorf("no open position %q in %q", c.symbol, c.strategy))
	}
	if !pos.Instrument.IsOption() {
		return fail(fmt.Errorf("%q is not an option position", c.symbol))
	}

	client := kite.New()
	universe, err := client.Instruments()
	if err != nil {
		return fail(fmt.Errorf("could not fetch the option universe: %w", err))
	}
	expiry, ok := kite.NextMonthlyExpiry(universe, pos.Instrument.Underlying, pos.Instrument.Expiry)
	if !ok {
		return fail(fmt.Errorf("no listed expiry after %s for %s", pos.Instrument.Expiry, pos.Instrument.Underlying))
	}
	to, ok := kite.FindOption(universe, pos.Instrument.Underlying, pos.Instrument.Strike, pos.Instrument.Kind, expiry)
	if !ok {
		return fail(fmt.Errorf("no %s %s %s contract listed for %s",
			pos.Instrument.Underlying, pos.Instrument.Strike, pos.Instrument.Kind, expiry))
	}

	closePrice, openPrice := papertrade.Rupees(c.closePrice), papertrade.Rupees(c.openPrice)
	if closePrice.IsZero() || openPrice.IsZero() {
		snap, err := client.Snapshot(time.Now(), []papertrade.Instrument{pos.Instrument, to})
		if err != nil {
			return fail(err)
		}
		qc, ok1 := snap.Quote(pos.Instrument.Key())
		qo, ok2 := snap.Quote(to.Key())
		if !ok1 || !ok2 {
			return fail(fmt.Errorf("missing quotes to price the roll; pass -close-price and -open-price"))
		}
		closePrice, openPrice = qc.LastPrice, qo.LastPrice
	}

	rolled, err := s.Book().Roll(time.Now(), pos.Instrument.Symbol, closePrice, to, openPrice)
	if err != nil {
		return fail(err)
	}
	if err := papertrade.SaveBook(PortfolioPath(), s.Book()); err != nil {
		return fail(err)
	}
	fmt.Printf("Rolled %s into %s x%s, cash %s.\n",
		c.symbol, rolled.Instrument.Symbol, rolled.Quantity.SignedString(), s.Book().Cash())
	return subcommands.ExitSuccess
}
