package cmd

import (
	"context"
	"flag"

	"github.com/amey1907/papertrade/renderer"
	"github.com/google/subcommands"
)

type positionsCmd struct{}

func (*positionsCmd) Name() string     { return "positions" }
func (*positionsCmd) Synopsis() string { return "list every book's positions, open and closed" }
func (*positionsCmd) Usage() string {
	return `pts positions

  Lists each strategy's positions off last known prices; no network access.
`
}

func (c *positionsCmd) SetFlags(f *flag.FlagSet) {}

func (c *positionsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	r, err := buildReportOffline()
	if err != nil {
		return fail(err)
	}
	printMarkdown(renderer.PositionsMarkdown(r))
	return subcommands.ExitSuccess
}
