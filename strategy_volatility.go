package papertrade

import "fmt"

// VolatilityArbitrage trades the spread between front-month and back-month
// implied volatility on NIFTY: long the back-month straddle, short the
// front-month straddle, with far out-of-the-money wings as tail protection.
//
// The book is direction-neutral at entry; it makes money when the vol term
// structure normalizes and loses when the front month stays bid. Rebalancing
// triggers on a volatility regime change or a large spot move away from the
// entry level.
type VolatilityArbitrage struct {
	book *Book

	// Entry reference levels, fixed when the strategy is created.
	NiftyEntry Money
	VIXEntry   float64

	// Rebalance thresholds.
	VIXBand      float64 // absolute VIX deviation from entry
	SpotMovePct  float64 // absolute spot move in percent
	VIXSpikeOver float64 // deviation above entry that triggers extra wings
}

// NewVolatilityArbitrage returns the strategy with its book opened on the
// given allocation.
func NewVolatilityArbitrage(allocation, feePerLot Money) *VolatilityArbitrage {
	return &VolatilityArbitrage{
		book:         NewBook("Volatility Arbitrage", allocation, feePerLot),
		NiftyEntry:   Rupees(24631),
		VIXEntry:     12.0,
		VIXBand:      3,
		SpotMovePct:  5,
		VIXSpikeOver: 5,
	}
}

func (s *VolatilityArbitrage) Name() string { return s.book.Name() }
func (s *VolatilityArbitrage) Book() *Book  { return s.book }

// Seeds returns the six legs of the calendar structure: long back-month
// straddle, short front-month straddle, protective wings.
func (s *VolatilityArbitrage) Seeds(Conditions) []ProposedTrade {
	atm := Rupees(24600)
	backExpiry := MustParse("2026-03-26")
	frontExpiry := MustParse("2025-09-26")
	return []ProposedTrade{
		{
			Action:         ActionOpenLong,
			Instrument:     Option("NIFTY26MAR24600CE", atm, KindCall, backExpiry),
			Quantity:       Q(25),
			SuggestedPrice: Rupees(1100),
			Reason:         "long back-month straddle",
		},
		{
			Action:         ActionOpenLong,
			Instrument:     Option("NIFTY26MAR24600PE", atm, KindPut, backExpiry),
			Quantity:       Q(25),
			SuggestedPrice: Rupees(980),
			Reason:         "long back-month straddle",
		},
		{
			Action:         ActionOpenShort,
			Instrument:     Option("NIFTY25SEP24600CE", atm, KindCall, frontExpiry),
			Quantity:       Q(25),
			SuggestedPrice: Rupees(350),
			Reason:         "short front-month straddle",
		},
		{
			Action:         ActionOpenShort,
			Instrument:     Option("NIFTY25SEP24600PE", atm, KindPut, frontExpiry),
			Quantity:       Q(25),
			SuggestedPrice: Rupees(320),
			Reason:         "short front-month straddle",
		},
		{
			Action:         ActionOpenLong,
			Instrument:     Option("NIFTY26MAR26000CE", Rupees(26000), KindCall, backExpiry),
			Quantity:       Q(10),
			SuggestedPrice: Rupees(150),
			Reason:         "protective call wing",
		},
		{
			Action:         ActionOpenLong,
			Instrument:     Option("NIFTY26MAR23000PE", Rupees(23000), KindPut, backExpiry),
			Quantity:       Q(10),
			SuggestedPrice: Rupees(180),
			Reason:         "protective put wing",
		},
	}
}

// ShouldRebalance triggers when VIX drifts more than the band from its entry
// level, or spot moves more than the threshold away from the entry level.
func (s *VolatilityArbitrage) ShouldRebalance(c Conditions) bool {
	vixDrift := c.VIX - s.VIXEntry
	if vixDrift < 0 {
		vixDrift = -vixDrift
	}
	move := c.SpotChangePct
	if move < 0 {
		move = -move
	}
	return vixDrift > s.VIXBand || move > s.SpotMovePct
}

// Rebalance proposes extra tail protection on a VIX spike. Proposals carry
// no suggested price: they are at-market intentions for the caller to price
// and apply.
func (s *VolatilityArbitrage) Rebalance(c Conditions) []ProposedTrade {
	var trades []ProposedTrade
	if c.VIX > s.VIXEntry+s.VIXSpikeOver {
		trades = append(trades, ProposedTrade{
			Action:     ActionOpenLong,
			Instrument: Option("NIFTY26MAR23000PE", Rupees(23000), KindPut, MustParse("2026-03-26")),
			Quantity:   Q(10),
			Reason:     fmt.Sprintf("vix spike to %.1f: add tail protection", c.VIX),
		})
	}
	return trades
}

var _ Strategy = (*VolatilityArbitrage)(nil)
