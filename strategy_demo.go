package papertrade

import "fmt"

// SimpleDemo is a long-only two-stock book kept deliberately small; it is
// the variant to copy when writing a new strategy. It de-risks by closing
// its largest position when realized volatility runs hot.
type SimpleDemo struct {
	book *Book

	// VolCeiling is the realized volatility (fraction) above which the
	// book sheds risk.
	VolCeiling float64

	// TargetReturn is reported in metrics only, the demo never trades on
	// it.
	TargetReturn float64
}

// NewSimpleDemo returns the strategy with its book opened on the given
// allocation.
func NewSimpleDemo(allocation, feePerLot Money) *SimpleDemo {
	return &SimpleDemo{
		book:         NewBook("Simple Demo", allocation, feePerLot),
		VolCeiling:   0.3,
		TargetReturn: 0.15,
	}
}

func (s *SimpleDemo) Name() string { return s.book.Name() }
func (s *SimpleDemo) Book() *Book  { return s.book }

// Seeds returns the starting longs.
func (s *SimpleDemo) Seeds(Conditions) []ProposedTrade {
	return []ProposedTrade{
		{
			Action:         ActionOpenLong,
			Instrument:     Equity("INFY", "INFY-EQ"),
			Quantity:       Q(200),
			SuggestedPrice: Rupees(1500),
			Reason:         "initial long",
		},
		{
			Action:         ActionOpenLong,
			Instrument:     Equity("HDFC", "HDFC-EQ"),
			Quantity:       Q(100),
			SuggestedPrice: Rupees(1800),
			Reason:         "initial long",
		},
	}
}

// ShouldRebalance triggers when realized volatility exceeds the ceiling.
func (s *SimpleDemo) ShouldRebalance(c Conditions) bool {
	return c.Volatility > s.VolCeiling
}

// Rebalance proposes closing the largest open position, at market.
func (s *SimpleDemo) Rebalance(c Conditions) []ProposedTrade {
	if c.Volatility <= s.VolCeiling {
		return nil
	}
	var largest *Position
	for _, p := range s.book.OpenPositions() {
		if largest == nil || p.CostBasis().GreaterThan(largest.CostBasis()) {
			largest = p
		}
	}
	if largest == nil {
		return nil
	}
	return []ProposedTrade{{
		Action:     ActionClose,
		Instrument: largest.Instrument,
		Quantity:   largest.Quantity.Abs(),
		Reason:     fmt.Sprintf("volatility %.0f%% above ceiling: reduce risk", c.Volatility*100),
	}}
}

var _ Strategy = (*SimpleDemo)(nil)
