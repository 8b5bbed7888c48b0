package papertrade

import "fmt"

// EquityMomentum holds a small basket of large-cap longs and adds to it when
// cross-sectional momentum is positive.
type EquityMomentum struct {
	book *Book

	// Threshold is the momentum score above which the book adds, as a
	// fraction.
	Threshold float64

	// TopUp is the lot count added on a momentum signal.
	TopUp Quantity
}

// NewEquityMomentum returns the strategy with its book opened on the given
// allocation.
func NewEquityMomentum(allocation, feePerLot Money) *EquityMomentum {
	return &EquityMomentum{
		book:      NewBook("Equity Momentum", allocation, feePerLot),
		Threshold: 0.02,
		TopUp:     Q(25),
	}
}

func (s *EquityMomentum) Name() string { return s.book.Name() }
func (s *EquityMomentum) Book() *Book  { return s.book }

// Seeds returns the starting basket.
func (s *EquityMomentum) Seeds(Conditions) []ProposedTrade {
	return []ProposedTrade{
		{
			Action:         ActionOpenLong,
			Instrument:     Equity("RELIANCE", "RELIANCE-EQ"),
			Quantity:       Q(100),
			SuggestedPrice: Rupees(2500),
			Reason:         "initial basket",
		},
		{
			Action:         ActionOpenLong,
			Instrument:     Equity("TCS", "TCS-EQ"),
			Quantity:       Q(50),
			SuggestedPrice: Rupees(3800),
			Reason:         "initial basket",
		},
	}
}

// ShouldRebalance triggers when the momentum score clears the threshold.
func (s *EquityMomentum) ShouldRebalance(c Conditions) bool {
	return c.Momentum > s.Threshold
}

// Rebalance proposes topping up the strongest name in the basket, at market.
func (s *EquityMomentum) Rebalance(c Conditions) []ProposedTrade {
	if c.Momentum <= s.Threshold {
		return nil
	}
	best := ""
	bestChange := 0.0
	for _, p := range s.book.OpenPositions() {
		change := c.ChangePct[p.Instrument.Key()]
		if best == "" || change > bestChange {
			best, bestChange = p.Instrument.Symbol, change
		}
	}
	if best == "" {
		return nil
	}
	pos := s.book.openPosition(best)
	return []ProposedTrade{{
		Action:     ActionOpenLong,
		Instrument: pos.Instrument,
		Quantity:   s.TopUp,
		Reason:     fmt.Sprintf("momentum %.1f%%: add to %s", c.Momentum*100, best),
	}}
}

var _ Strategy = (*EquityMomentum)(nil)
