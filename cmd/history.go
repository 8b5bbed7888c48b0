package cmd

import (
	"context"
	"flag"

	"github.com/amey1907/papertrade"
	"github.com/amey1907/papertrade/renderer"
	"github.com/google/subcommands"
)

type historyCmd struct{}

func (*historyCmd) Name() string     { return "history" }
func (*historyCmd) Synopsis() string { return "display the portfolio value over time" }
func (*historyCmd) Usage() string {
	return `pts history

  Displays every persisted revaluation: value, unrealized and realized P&L.
`
}

func (c *historyCmd) SetFlags(f *flag.FlagSet) {}

func (c *historyCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	history, err := papertrade.LoadHistory(PortfolioPath())
	if err != nil {
		return fail(err)
	}
	printMarkdown(renderer.HistoryMarkdown(history))
	return subcommands.ExitSuccess
}
