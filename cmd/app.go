// Package cmd implements the CLI application to manage a paper-trading
// portfolio.
package cmd

import (
	"flag"
	"fmt"
	"os"

	"github.com/amey1907/papertrade"
	"github.com/charmbracelet/glamour"
	"github.com/google/subcommands"
)

// Commands lists every subcommand. A main package registers them all and
// executes the user-selected one.
var Commands = []subcommands.Command{
	&initCmd{},
	&reviewCmd{},
	&reportCmd{},
	&positionsCmd{},
	&greeksCmd{},
	&logCmd{},
	&historyCmd{},
	&tradeCmd{},
	&rollCmd{},
	&chartCmd{},
	&topicCmd{},
	&assistCmd{},
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var portfolioPath = flag.String("portfolio-path", ".", "Path to the portfolio folder")

// Standing allocations per strategy, in rupees out of the total capital.
var allocations = map[string]float64{
	"Volatility Arbitrage": 38550,
	"Equity Momentum":      100000,
	"Simple Demo":          100000,
}

// PortfolioPath returns the portfolio folder every command works in.
func PortfolioPath() string { return *portfolioPath }

// loadConfig reads the portfolio configuration from the app portfolio folder.
func loadConfig() (papertrade.Config, error) {
	return papertrade.LoadConfig(PortfolioPath())
}

// newStrategies builds the strategy set with their standing allocations.
func newStrategies(cfg papertrade.Config) []papertrade.Strategy {
	fee := cfg.FeePerLot
	return []papertrade.Strategy{
		papertrade.NewVolatilityArbitrage(papertrade.Rupees(allocations["Volatility Arbitrage"]), fee),
		papertrade.NewEquityMomentum(papertrade.Rupees(allocations["Equity Momentum"]), fee),
		papertrade.NewSimpleDemo(papertrade.Rupees(allocations["Simple Demo"]), fee),
	}
}

// loadAccountant restores the whole portfolio: config, strategies and their
// saved books.
func loadAccountant() (*papertrade.Accountant, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	a := papertrade.NewAccountant(cfg)
	for _, s := range newStrategies(cfg) {
		if err := a.Register(s); err != nil {
			return nil, fmt.Errorf("could not register %q: %w", s.Name(), err)
		}
		if err := papertrade.LoadStrategyBook(PortfolioPath(), s); err != nil {
			return nil, err
		}
	}
	return a, nil
}

// saveBooks persists every strategy's book back to the portfolio folder.
func saveBooks(a *papertrade.Accountant) error {
	for _, s := range a.Strategies() {
		if err := papertrade.SaveBook(PortfolioPath(), s.Book()); err != nil {
			return err
		}
	}
	return nil
}

// previousSnapshot returns the last persisted snapshot, nil when the history
// is empty.
func previousSnapshot() *papertrade.PortfolioSnapshot {
	history, err := papertrade.LoadHistory(PortfolioPath())
	if err != nil || len(history) == 0 {
		return nil
	}
	return history[len(history)-1]
}

// printMarkdown renders markdown for the terminal; on any rendering trouble
// the raw markdown is still readable, so print that.
func printMarkdown(md string) {
	out, err := glamour.Render(md, "auto")
	if err != nil {
		fmt.Print(md)
		return
	}
	fmt.Print(out)
}

// fail prints the error and returns the failure status.
func fail(err error) subcommands.ExitStatus {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	return subcommands.ExitFailure
}
