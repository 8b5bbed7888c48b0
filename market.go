package papertrade

import (
	"time"
)

// Quote is what the market knows about one instrument at a point in time.
//
// UnderlyingSpot and Volatility are only meaningful for option quotes; the
// adapter that builds the snapshot fills them from the underlying index quote.
// Volatility is a fraction (0.12 for a VIX of 12), scaled once at the adapter
// boundary.
type Quote struct {
	LastPrice      Money   `json:"last_price"`
	UnderlyingSpot Money   `json:"underlying_spot,omitzero"`
	Volatility     float64 `json:"volatility,omitempty"`
}

// MarketSnapshot is the market's state at one valuation instant: a quote per
// instrument key and a single timestamp shared by every valuation derived
// from it.
//
// A snapshot is write-once: the adapter builds it, everything downstream only
// reads. A missing quote is not an error, positions keep their last price and
// are flagged stale.
type MarketSnapshot struct {
	at     time.Time
	quotes map[string]Quote
}

// NewMarketSnapshot returns an empty snapshot stamped at the given instant.
func NewMarketSnapshot(at time.Time) *MarketSnapshot {
	return &MarketSnapshot{at: at, quotes: make(map[string]Quote)}
}

// At returns the valuation timestamp.
func (s *MarketSnapshot) At() time.Time { return s.at }

// On returns the valuation date, the basis for time-to-expiry.
func (s *MarketSnapshot) On() Date { return NewDate(s.at.Date()) }

// SetQuote records the quote for an instrument key, replacing any previous
// one.
func (s *MarketSnapshot) SetQuote(key string, q Quote) { s.quotes[key] = q }

// Quote returns the quote for an instrument key, and whether one exists.
func (s *MarketSnapshot) Quote(key string) (Quote, bool) {
	q, ok := s.quotes[key]
	return q, ok
}

// Len returns the number of quoted instruments.
func (s *MarketSnapshot) Len() int { return len(s.quotes) }

// Conditions is the strategy-facing digest of a snapshot: the handful of
// numbers rebalancing predicates actually look at.
type Conditions struct {
	At   time.Time
	Spot Money   // underlying index level, e.g. NIFTY
	VIX  float64 // volatility index in points, not a fraction

	// SpotChangePct is the underlying's move in percent since a strategy's
	// reference level, e.g. +2.5 for a 2.5% rally.
	SpotChangePct float64

	// Momentum is a cross-sectional momentum score as a fraction, 0.02
	// for 2%.
	Momentum float64

	// Volatility is realized market volatility as a fraction.
	Volatility float64

	// ChangePct is the per-symbol day change in percent.
	ChangePct map[string]float64
}

// NSE trading session, exchange local time.
const (
	marketOpenHour   = 9
	marketOpenMin    = 15
	marketCloseHour  = 15
	marketCloseMin   = 30
)

// MarketOpen reports whether the NSE cash session is open at t. Weekends are
// closed; exchange holidays are not modelled.
func MarketOpen(t time.Time) bool {
	switch t.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	}
	hm := t.Hour()*60 + t.Minute()
	return hm >= marketOpenHour*60+marketOpenMin && hm <= marketCloseHour*60+marketCloseMin
}
