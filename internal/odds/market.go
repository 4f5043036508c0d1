package odds

import (
	"fmt"
	"math"
)

// OddsValue is a price stored as a decimal multiplier: total return per unit
// staked, stake included. Valid values are strictly greater than 1.
type OddsValue float64

// NewOddsValue validates a decimal price.
func NewOddsValue(d float64) (OddsValue, error) {
	if !validDecimal(d) {
		return 0, fmt.Errorf("%w: decimal %v must be greater than 1.0", ErrInvalidOdds, d)
	}
	return OddsValue(d), nil
}

// OddsValueFromQuote validates and canonicalizes a quote in any format.
func OddsValueFromQuote(q Quote) (OddsValue, error) {
	d, err := ToDecimal(q)
	if err != nil {
		return 0, err
	}
	return OddsValue(d), nil
}

func (v OddsValue) Decimal() float64 { return float64(v) }

// Valid reports whether v describes a bet that can return a profit.
func (v OddsValue) Valid() bool { return validDecimal(float64(v)) }

// American returns the American equivalent; only meaningful for valid values.
func (v OddsValue) American() float64 { return DecimalToAmerican(float64(v)) }

// ImpliedProbability returns 1/decimal.
func (v OddsValue) ImpliedProbability() float64 { return ImpliedProbability(float64(v)) }

// Quote renders v in the given format.
func (v OddsValue) Quote(format Format) (Quote, error) { return FromDecimal(float64(v), format) }

// Outcome is one mutually exclusive result of an event as priced by one source.
type Outcome struct {
	Label  string    `json:"label"`
	Source string    `json:"source,omitempty"`
	Odds   OddsValue `json:"odds"`
}

// OddsSet is an ordered collection of mutually exclusive outcomes for one market.
// The same label may appear more than once only when the prices come from different
// sources (cross-book arbitrage).
type OddsSet []Outcome

// Validate enforces the structural rules of a market.
func (s OddsSet) Validate() error {
	if len(s) < 2 {
		return fmt.Errorf("%w: need at least 2 outcomes, got %d", ErrInvalidMarket, len(s))
	}

	seen := make(map[[2]string]bool, len(s))
	for i, o := range s {
		if o.Label == "" {
			return fmt.Errorf("%w: outcome %d has no label", ErrInvalidMarket, i)
		}
		if !o.Odds.Valid() {
			return fmt.Errorf("%w: outcome %q has decimal %v", ErrInvalidOdds, o.Label, float64(o.Odds))
		}
		key := [2]string{o.Label, o.Source}
		if seen[key] {
			return fmt.Errorf("%w: duplicate outcome %q from source %q", ErrInvalidMarket, o.Label, o.Source)
		}
		seen[key] = true
	}
	return nil
}

// Labels returns the distinct labels in first-seen order.
func (s OddsSet) Labels() []string {
	seen := make(map[string]bool, len(s))
	var labels []string
	for _, o := range s {
		if !seen[o.Label] {
			seen[o.Label] = true
			labels = append(labels, o.Label)
		}
	}
	return labels
}

// HasRepeatedLabels reports whether any label is quoted by more than one source.
func (s OddsSet) HasRepeatedLabels() bool {
	return len(s.Labels()) != len(s)
}

// Overround is the sum of raw implied probabilities across the set.
func (s OddsSet) Overround() float64 {
	total := 0.0
	for _, o := range s {
		total += o.Odds.ImpliedProbability()
	}
	return total
}

// ProbabilityDistribution maps outcome label to probability.
type ProbabilityDistribution map[string]float64

// Sum totals the distribution. Raw implied distributions sum to the overround,
// fair ones to 1.
func (p ProbabilityDistribution) Sum() float64 {
	total := 0.0
	for _, v := range p {
		total += v
	}
	return total
}

// Valid reports whether every probability lies in [0,1].
func (p ProbabilityDistribution) Valid() bool {
	for _, v := range p {
		if v < 0 || v > 1 || math.IsNaN(v) {
			return false
		}
	}
	return true
}

// Implied returns the raw implied distribution of a set with distinct labels.
func Implied(s OddsSet) (ProbabilityDistribution, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	if s.HasRepeatedLabels() {
		return nil, fmt.Errorf("%w: labels repeat across sources, reduce with BestPrices first", ErrInvalidMarket)
	}
	dist := make(ProbabilityDistribution, len(s))
	for _, o := range s {
		dist[o.Label] = o.Odds.ImpliedProbability()
	}
	return dist, nil
}
