package papertrade

import (
	"time"
)

// PortfolioSnapshot is the point-in-time aggregate of every registered
// strategy, produced fresh by each Accountant.Revalue and never mutated
// afterwards. Callers may hold on to one safely across later revaluations.
type PortfolioSnapshot struct {
	At           time.Time `json:"at"`
	TotalCapital Money     `json:"total_capital"`

	// Unallocated is the capital not handed to any strategy sleeve.
	Unallocated Money `json:"unallocated"`

	// Sums over all strategies.
	Cash          Money  `json:"cash"`
	Invested      Money  `json:"invested"`
	UnrealizedPnL Money  `json:"unrealized_pnl"`
	RealizedPnL   Money  `json:"realized_pnl"`
	Greeks        Greeks `json:"greeks"`

	// Strategies is the per-strategy breakdown, in registration order.
	Strategies []StrategyMetrics `json:"strategies"`
}

// newPortfolioSnapshot folds per-strategy metrics into the aggregate.
func newPortfolioSnapshot(at time.Time, capital, unallocated Money, metrics []StrategyMetrics) *PortfolioSnapshot {
	s := &PortfolioSnapshot{
		At:            at,
		TotalCapital:  capital,
		Unallocated:   unallocated,
		Cash:          Rupees(0),
		Invested:      Rupees(0),
		UnrealizedPnL: Rupees(0),
		RealizedPnL:   Rupees(0),
		Strategies:    metrics,
	}
	for _, m := range metrics {
		s.Cash = s.Cash.Add(m.Cash)
		s.Invested = s.Invested.Add(m.Invested)
		s.UnrealizedPnL = s.UnrealizedPnL.Add(m.UnrealizedPnL)
		s.RealizedPnL = s.RealizedPnL.Add(m.RealizedPnL)
		s.Greeks = s.Greeks.Add(m.Greeks)
	}
	return s
}

// Value is the total portfolio value: unallocated capital plus every
// sleeve's cash, invested capital and unrealized profit.
func (s *PortfolioSnapshot) Value() Money {
	return s.Unallocated.Add(s.Cash).Add(s.Invested).Add(s.UnrealizedPnL)
}

// PnL is the total profit against opening, realized and unrealized.
func (s *PortfolioSnapshot) PnL() Money {
	return s.UnrealizedPnL.Add(s.RealizedPnL)
}

// ReturnPct is the portfolio return over total capital, in percent.
func (s *PortfolioSnapshot) ReturnPct() float64 {
	if s.TotalCapital.IsZero() {
		return 0
	}
	return s.PnL().AsFloat() / s.TotalCapital.AsFloat() * 100
}

// Strategy returns the breakdown for a named strategy, if present.
func (s *PortfolioSnapshot) Strategy(name string) (StrategyMetrics, bool) {
	for _, m := range s.Strategies {
		if m.Name == name {
			return m, true
		}
	}
	return StrategyMetrics{}, false
}
