package cmd

import (
	"context"
	"flag"
	"fmt"
	"strings"
	"time"

	"github.com/amey1907/papertrade"
	"github.com/google/subcommands"
)

// tradeCmd applies one manual trade to a strategy book.
type tradeCmd struct {
	strategy string
	action   string
	symbol   string
	qty      float64
	price    float64
	expiry   string
	reason   string
}

func (*tradeCmd) Name() string     { return "trade" }
func (*tradeCmd) Synopsis() string { return "apply a manual trade to a strategy book" }
func (*tradeCmd) Usage() string {
	return `pts trade -s <strategy> -action <OPEN_LONG|OPEN_SHORT|CLOSE> -symbol <tradingsymbol> -qty <lots> -price <rupees> [-expiry <date>]

  Applies one trade through the strategy's ledger. Opening an option
  position needs -expiry unless the tradingsymbol follows the NFO monthly
  convention with a recognizable expiry. CLOSE matches an open position by
  symbol.

Usage Examples:
# Close 25 lots of the short front-month call.
$ pts trade -s "Volatility Arbitrage" -action CLOSE -symbol NIFTY25SEP24600CE -qty 25 -price 410
`
}

func (c *tradeCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.strategy, "s", "", "Strategy whose book takes the trade")
	f.StringVar(&c.action, "action", "", "OPEN_LONG, OPEN_SHORT or CLOSE")
	f.StringVar(&c.symbol, "symbol", "", "Tradingsymbol of the instrument")
	f.Float64Var(&c.qty, "qty", 0, "Absolute lot count")
	f.Float64Var(&c.price, "price", 0, "Execution price in rupees")
	f.StringVar(&c.expiry, "expiry", "", "Option expiry (YYYY-MM-DD), for opening option positions")
	f.StringVar(&c.reason, "reason", "manual trade", "Free-form reason recorded with the trade")
}

func (c *tradeCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := loadAccountant()
	if err != nil {
		return fail(err)
	}
	s, ok := a.Strategy(c.strategy)
	if !ok {
		return fail(fmt.Errorf("unknown strategy %q", c.strategy))
	}
	action, err := papertrade.ParseAction(c.action)
	if err != nil {
		return fail(err)
	}
	ins, err := c.instrument(s)
	if err != nil {
		return fail(err)
	}

	tr := papertrade.ProposedTrade{
		Action:         action,
		Instrument:     ins,
		Quantity:       papertrade.Q(c.qty),
		SuggestedPrice: papertrade.Rupees(c.price),
		Reason:         c.reason,
	}
	pos, err := s.Book().ApplyTrade(time.Now(), tr)
	if err != nil {
		return fail(err)
	}
	if err := papertrade.SaveBook(PortfolioPath(), s.Book()); err != nil {
		return fail(err)
	}
	entries := s.Book().Ledger().Entries()
	last := entries[len(entries)-1]
	fmt.Printf("%s: %s %s, cash %s, balance %s\n",
		last.ID, last.Action, pos.Instrument.Symbol, last.CashImpact.SignedString(), last.Balance)
	return subcommands.ExitSuccess
}

// instrument resolves the -symbol flag into an instrument identity.
func (c *tradeCmd) instrument(s papertrade.Strategy) (papertrade.Instrument, error) {
	// Closing: the identity is whatever is held open under that symbol.
	if strings.EqualFold(c.action, string(papertrade.ActionClose)) {
		for _, p := range s.Book().OpenPositions() {
			if p.Instrument.Symbol == c.symbol || p.Instrument.Key() == c.symbol {
				return p.Instrument, nil
			}
		}
		return papertrade.Instrument{}, fmt.Errorf("no open position %q in %q", c.symbol, s.Name())
	}

	underlying, strike, kind, isOption := papertrade.ParseTradingsymbol(c.symbol)
	if !isOption {
		return papertrade.Equity(strings.TrimSuffix(c.symbol, "-EQ"), c.symbol), nil
	}
	if c.expiry == "" {
		return papertrade.Instrument{}, fmt.Errorf("option %q needs -expiry", c.symbol)
	}
	expiry, err := papertrade.ParseDate(c.expiry)
	if err != nil {
		return papertrade.Instrument{}, err
	}
	ins := papertrade.Option(c.symbol, papertrade.Rupees(strike), kind, expiry)
	ins.Underlying = underlying
	return ins, nil
}
