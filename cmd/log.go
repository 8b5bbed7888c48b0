package cmd

import (
	"context"
	"flag"

	"github.com/amey1907/papertrade/renderer"
	"github.com/google/subcommands"
)

// logCmd displays the cash ledgers, the audit trail of every simulated
// trade.
type logCmd struct {
	strategy string
}

func (*logCmd) Name() string     { return "log" }
func (*logCmd) Synopsis() string { return "display the cash ledger of each strategy book" }
func (*logCmd) Usage() string {
	return `pts log [-s <strategy>]

  Displays every cash movement: action, quantity, price, fee, cash impact
  and running balance. By default all strategies; -s restricts to one.
`
}

func (c *logCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.strategy, "s", "", "Strategy to display. All by default.")
}

func (c *logCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := loadAccountant()
	if err != nil {
		return fail(err)
	}
	for _, s := range a.Strategies() {
		if c.strategy != "" && s.Name() != c.strategy {
			continue
		}
		printMarkdown(renderer.LedgerMarkdown(s.Name(), s.Book().Ledger()))
	}
	return subcommands.ExitSuccess
}
