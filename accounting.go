package papertrade

import (
	"fmt"
)

// Config carries the portfolio-wide knobs. There are no module-level
// defaults in the engine: one accountant instance per run owns one config.
type Config struct {
	// TotalCapital is the virtual capital of the whole portfolio.
	TotalCapital Money `json:"total_capital"`

	// RiskCeiling is the maximum fraction of total capital a single
	// strategy may be allocated, e.g. 0.20 for 20%.
	RiskCeiling float64 `json:"risk_ceiling"`

	// FeePerLot is the simulated brokerage per lot traded.
	FeePerLot Money `json:"fee_per_lot"`

	// RiskFreeRate is the annualized rate fed into option pricing.
	RiskFreeRate float64 `json:"risk_free_rate"`
}

// DefaultConfig matches the desk's standing setup: ₹5,00,000 virtual
// capital, 20% per-strategy ceiling, ₹20/lot brokerage.
func DefaultConfig() Config {
	return Config{
		TotalCapital: Rupees(500000),
		RiskCeiling:  0.20,
		FeePerLot:    Rupees(20),
		RiskFreeRate: DefaultRiskFreeRate,
	}
}

// Accountant keeps the books for a set of registered strategies and folds
// them into portfolio snapshots.
//
// Registration is add-only; strategies are never removed. Revalue is a pure
// synchronous fold over the registered books given one market snapshot; no
// I/O happens inside it.
type Accountant struct {
	cfg        Config
	strategies []Strategy
	names      map[string]struct{}
	last       *PortfolioSnapshot
}

// NewAccountant returns an accountant with no strategies registered.
func NewAccountant(cfg Config) *Accountant {
	return &Accountant{cfg: cfg, names: make(map[string]struct{})}
}

// Config returns the accountant's configuration.
func (a *Accountant) Config() Config { return a.cfg }

// Strategies returns the registered strategies in registration order.
func (a *Accountant) Strategies() []Strategy {
	out := make([]Strategy, len(a.strategies))
	copy(out, a.strategies)
	return out
}

// Strategy returns a registered strategy by name.
func (a *Accountant) Strategy(name string) (Strategy, bool) {
	for _, s := range a.strategies {
		if s.Name() == name {
			return s, true
		}
	}
	return nil, false
}

// Register adds a strategy to the portfolio. A duplicate name is rejected
// with ErrDuplicateStrategy and the first registration stays intact. An
// allocation above the per-strategy risk ceiling is rejected outright, never
// silently clamped.
func (a *Accountant) Register(s Strategy) error {
	if _, dup := a.names[s.Name()]; dup {
		return fmt.Errorf("%w: %q", ErrDuplicateStrategy, s.Name())
	}
	ceiling := M(a.cfg.TotalCapital.Decimal().Mul(newDecimal(a.cfg.RiskCeiling)), a.cfg.TotalCapital.Currency())
	if alloc := s.Book().Allocation(); alloc.GreaterThan(ceiling) {
		return fmt.Errorf("%w: allocation %s for %q exceeds the %.0f%% ceiling %s",
			ErrInvalidInput, alloc, s.Name(), a.cfg.RiskCeiling*100, ceiling)
	}
	a.strategies = append(a.strategies, s)
	a.names[s.Name()] = struct{}{}
	return nil
}

// unallocated is the capital not handed to any strategy.
func (a *Accountant) unallocated() Money {
	out := a.cfg.TotalCapital
	for _, s := range a.strategies {
		out = out.Sub(s.Book().Allocation())
	}
	return out
}

// Revalue refreshes every strategy's positions from the snapshot and
// returns a fresh immutable portfolio aggregate. It is also retained as the
// latest snapshot for the derived accessors.
func (a *Accountant) Revalue(snap *MarketSnapshot) *PortfolioSnapshot {
	metrics := make([]StrategyMetrics, 0, len(a.strategies))
	for _, s := range a.strategies {
		s.Book().Revalue(snap)
		metrics = append(metrics, s.Book().Metrics())
	}
	a.last = newPortfolioSnapshot(snap.At(), a.cfg.TotalCapital, a.unallocated(), metrics)
	return a.last
}

// Latest returns the snapshot from the most recent revaluation, or
// ErrNotYetValued if Revalue has never run.
func (a *Accountant) Latest() (*PortfolioSnapshot, error) {
	if a.last == nil {
		return nil, ErrNotYetValued
	}
	return a.last, nil
}

// TotalValue returns the portfolio value from the latest revaluation.
func (a *Accountant) TotalValue() (Money, error) {
	s, err := a.Latest()
	if err != nil {
		return Money{}, err
	}
	return s.Value(), nil
}

// TotalPnL returns the total profit from the latest revaluation.
func (a *Accountant) TotalPnL() (Money, error) {
	s, err := a.Latest()
	if err != nil {
		return Money{}, err
	}
	return s.PnL(), nil
}

// PortfolioGreeks returns the aggregate Greeks from the latest revaluation.
func (a *Accountant) PortfolioGreeks() (Greeks, error) {
	s, err := a.Latest()
	if err != nil {
		return Greeks{}, err
	}
	return s.Greeks, nil
}
