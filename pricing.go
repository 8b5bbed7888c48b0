package papertrade

import (
	"fmt"
	"math"
)

// DefaultRiskFreeRate is the annualized risk-free rate used when a caller
// does not provide one, roughly the Indian 10-year government bond yield.
const DefaultRiskFreeRate = 0.065

// PricingInput carries the numeric inputs of the Black-Scholes model.
//
// Volatility is a fraction (0.12 for 12%), never raw index points: scaling a
// volatility index down to a fraction is the market-data adapter's job, and
// doing it twice or not at all is the classic way to get Greeks that are off
// by two orders of magnitude.
type PricingInput struct {
	Spot         float64 // price of the underlying
	Strike       float64 // exercise price
	TimeToExpiry float64 // in years, (expiry - valuation date).days / 365
	Volatility   float64 // implied volatility as a fraction
	RiskFreeRate float64 // annualized, as a fraction
}

// Valuation is the closed-form model output for one unit of an option.
type Valuation struct {
	Price float64
	Greeks
}

// PriceAndGreeks computes the Black-Scholes value and Greeks of a European
// option.
//
// An expired contract (TimeToExpiry <= 0) is not an error: it returns the
// intrinsic value and all-zero Greeks, independent of the volatility input.
// Non-positive spot or strike, or non-positive volatility on a live
// contract, return an error wrapping ErrInvalidInput.
//
// KindEquity is priced at spot with zero Greeks so that callers can treat
// pricing as a total function over every instrument kind.
func PriceAndGreeks(kind OptionKind, in PricingInput) (Valuation, error) {
	if kind == KindEquity {
		return Valuation{Price: in.Spot}, nil
	}
	if in.Spot <= 0 {
		return Valuation{}, fmt.Errorf("%w: spot %v must be > 0", ErrInvalidInput, in.Spot)
	}
	if in.Strike <= 0 {
		return Valuation{}, fmt.Errorf("%w: strike %v must be > 0", ErrInvalidInput, in.Strike)
	}
	if in.TimeToExpiry <= 0 {
		// Expired: no time value, no risk.
		return Valuation{Price: intrinsic(kind, in.Spot, in.Strike)}, nil
	}
	if in.Volatility <= 0 {
		return Valuation{}, fmt.Errorf("%w: volatility %v must be > 0", ErrInvalidInput, in.Volatility)
	}

	sqrtT := math.Sqrt(in.TimeToExpiry)
	d1 := (math.Log(in.Spot/in.Strike) + (in.RiskFreeRate+0.5*in.Volatility*in.Volatility)*in.TimeToExpiry) /
		(in.Volatility * sqrtT)
	d2 := d1 - in.Volatility*sqrtT
	discount := math.Exp(-in.RiskFreeRate * in.TimeToExpiry)

	var price, delta, theta float64
	switch kind {
	case KindCall:
		price = in.Spot*normCDF(d1) - in.Strike*discount*normCDF(d2)
		delta = normCDF(d1)
		theta = -in.Spot*normPDF(d1)*in.Volatility/(2*sqrtT) -
			in.RiskFreeRate*in.Strike*discount*normCDF(d2)
	case KindPut:
		price = in.Strike*discount*normCDF(-d2) - in.Spot*normCDF(-d1)
		delta = normCDF(d1) - 1
		theta = -in.Spot*normPDF(d1)*in.Volatility/(2*sqrtT) +
			in.RiskFreeRate*in.Strike*discount*normCDF(-d2)
	default:
		return Valuation{}, fmt.Errorf("%w: unknown option kind %v", ErrInvalidInput, kind)
	}

	return Valuation{
		Price: price,
		Greeks: Greeks{
			Delta: delta,
			Gamma: normPDF(d1) / (in.Spot * in.Volatility * sqrtT),
			Theta: theta / 365, // per calendar day of decay
			Vega:  in.Spot * normPDF(d1) * sqrtT / 100, // per vol point
		},
	}, nil
}

// intrinsic is the exercise value of an expired option.
func intrinsic(kind OptionKind, spot, strike float64) float64 {
	switch kind {
	case KindCall:
		return math.Max(spot-strike, 0)
	case KindPut:
		return math.Max(strike-spot, 0)
	default:
		return 0
	}
}

// normCDF is the standard normal cumulative distribution function. The
// erf-based form stays numerically stable far into the tails, which matters
// for deep in- or out-of-the-money strikes.
func normCDF(x float64) float64 {
	return 0.5 * (1 + math.Erf(x/math.Sqrt2))
}

// normPDF is the standard normal probability density function.
func normPDF(x float64) float64 {
	return math.Exp(-x*x/2) / math.Sqrt(2*math.Pi)
}
