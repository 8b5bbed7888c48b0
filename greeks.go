package papertrade

import "fmt"

// Greeks holds the option risk sensitivities of a single unit, or, after
// scaling by quantity, of a whole position or book.
//
// Conventions follow the market ones: theta is rupees of decay per calendar
// day (negative for long option value), vega is rupees per one-point change
// in implied volatility.
type Greeks struct {
	Delta float64 `json:"delta"`
	Gamma float64 `json:"gamma"`
	Theta float64 `json:"theta"`
	Vega  float64 `json:"vega"`
}

// Add returns the member-wise sum of g and h.
func (g Greeks) Add(h Greeks) Greeks {
	return Greeks{
		Delta: g.Delta + h.Delta,
		Gamma: g.Gamma + h.Gamma,
		Theta: g.Theta + h.Theta,
		Vega:  g.Vega + h.Vega,
	}
}

// Scale multiplies every sensitivity by k, typically a signed quantity.
func (g Greeks) Scale(k float64) Greeks {
	return Greeks{
		Delta: g.Delta * k,
		Gamma: g.Gamma * k,
		Theta: g.Theta * k,
		Vega:  g.Vega * k,
	}
}

// IsZero reports whether every sensitivity is exactly zero.
func (g Greeks) IsZero() bool {
	return g.Delta == 0 && g.Gamma == 0 && g.Theta == 0 && g.Vega == 0
}

func (g Greeks) String() string {
	return fmt.Sprintf("Δ%+.3f Γ%+.5f Θ%+.1f ν%+.1f", g.Delta, g.Gamma, g.Theta, g.Vega)
}
