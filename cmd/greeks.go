package cmd

import (
	"context"
	"flag"

	"github.com/amey1907/papertrade/renderer"
	"github.com/google/subcommands"
)

type greeksCmd struct{}

func (*greeksCmd) Name() string     { return "greeks" }
func (*greeksCmd) Synopsis() string { return "display portfolio and per-strategy risk exposure" }
func (*greeksCmd) Usage() string {
	return `pts greeks

  Revalues the option books against the market and displays the aggregate
  delta, gamma, theta and vega per strategy and for the whole portfolio.
`
}

func (c *greeksCmd) SetFlags(f *flag.FlagSet) {}

func (c *greeksCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	r, err := (&reportCmd{}).buildReport()
	if err != nil {
		return fail(err)
	}
	printMarkdown(renderer.GreeksMarkdown(r))
	return subcommands.ExitSuccess
}
