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

// reportCmd renders the daily portfolio report.
type reportCmd struct {
	watch int
}

func (*reportCmd) Name() string     { return "report" }
func (*reportCmd) Synopsis() string { return "display the daily portfolio report" }
func (*reportCmd) Usage() string {
	return `pts report [-w n]

  Revalues the books against the market and displays the daily report:
  portfolio summary, market conditions, per-strategy metrics and positions.
`
}

func (c *reportCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.watch, "w", 0, "run every n seconds")
}

func (c *reportCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	for {
		r, err := c.buildReport()
		if err != nil {
			return fail(err)
		}
		if c.watch > 0 {
			fmt.Println("\033[2J")
		}
		printMarkdown(renderer.DailyMarkdown(r))

		if c.watch > 0 {
			time.Sleep(time.Duration(c.watch) * time.Second)
		} else {
			break
		}
	}
	return subcommands.ExitSuccess
}

func (c *reportCmd) buildReport() (*papertrade.DailyReport, error) {
	a, err := loadAccountant()
	if err != nil {
		return nil, err
	}
	previous := previousSnapshot()

	now := time.Now()
	snap, cond := fetchMarket(now, openInstruments(a))
	a.Revalue(snap)

	return papertrade.BuildDailyReport(a, previous, cond)
}

// buildReportOffline revalues off last known prices only, for the commands
// that must not touch the network.
func buildReportOffline() (*papertrade.DailyReport, error) {
	a, err := loadAccountant()
	if err != nil {
		return nil, err
	}
	a.Revalue(papertrade.NewMarketSnapshot(time.Now()))
	return papertrade.BuildDailyReport(a, previousSnapshot(), papertrade.Conditions{})
}
