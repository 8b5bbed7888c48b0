package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/amey1907/papertrade"
	"github.com/google/subcommands"
)

type initCmd struct {
	capital float64
	ceiling float64
	fee     float64
	rate    float64
}

func (*initCmd) Name() string     { return "init" }
func (*initCmd) Synopsis() string { return "create a new paper-trading portfolio folder" }
func (*initCmd) Usage() string {
	return `pts init [-capital <rupees>] [-risk-ceiling <fraction>] [-fee <rupees>]

  Creates config.json and the books folder in the portfolio path. Refuses to
  overwrite an existing portfolio.
`
}

func (c *initCmd) SetFlags(f *flag.FlagSet) {
	def := papertrade.DefaultConfig()
	f.Float64Var(&c.capital, "capital", def.TotalCapital.AsFloat(), "Virtual capital in rupees")
	f.Float64Var(&c.ceiling, "risk-ceiling", def.RiskCeiling, "Maximum fraction of capital per strategy")
	f.Float64Var(&c.fee, "fee", def.FeePerLot.AsFloat(), "Simulated brokerage per lot in rupees")
	f.Float64Var(&c.rate, "rate", def.RiskFreeRate, "Annualized risk-free rate for option pricing")
}

func (c *initCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg := papertrade.Config{
		TotalCapital: papertrade.Rupees(c.capital),
		RiskCeiling:  c.ceiling,
		FeePerLot:    papertrade.Rupees(c.fee),
		RiskFreeRate: c.rate,
	}
	if err := papertrade.InitStore(PortfolioPath(), cfg); err != nil {
		return fail(err)
	}
	fmt.Printf("Initialized portfolio in %s with %s capital.\n", PortfolioPath(), cfg.TotalCapital)
	return subcommands.ExitSuccess
}
