package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/amey1907/papertrade"
	"github.com/amey1907/papertrade/chart"
	"github.com/google/subcommands"
)

type chartCmd struct {
	output string
}

func (*chartCmd) Name() string     { return "chart" }
func (*chartCmd) Synopsis() string { return "render the portfolio history as an HTML chart" }
func (*chartCmd) Usage() string {
	return `pts chart [-o <file>]

  Renders the equity curve and the P&L split from the persisted history
  into a self-contained HTML page.
`
}

func (c *chartCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.output, "o", "portfolio.html", "Output HTML file")
}

func (c *chartCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	history, err := papertrade.LoadHistory(PortfolioPath())
	if err != nil {
		return fail(err)
	}
	out, err := os.Create(c.output)
	if err != nil {
		return fail(err)
	}
	defer out.Close()
	if err := chart.WritePortfolio(out, history); err != nil {
		return fail(err)
	}
	fmt.Printf("Wrote %s (%d revaluations).\n", c.output, len(history))
	return subcommands.ExitSuccess
}
