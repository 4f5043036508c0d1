package odds

import (
	"fmt"
	"sort"
)

// BestPrices reduces a cross-book set to one outcome per label, keeping the
// highest decimal price. Ties keep the first source seen; the payout math is
// identical either way. Labels keep their first-seen order.
func BestPrices(s OddsSet) OddsSet {
	best := make(map[string]int, len(s))
	var out OddsSet
	for _, o := range s {
		i, ok := best[o.Label]
		if !ok {
			best[o.Label] = len(out)
			out = append(out, o)
			continue
		}
		if o.Odds > out[i].Odds {
			out[i] = o
		}
	}
	return out
}

// weightedDist holds one book's fair distribution with its consensus weight
type weightedDist struct {
	dist   ProbabilityDistribution
	weight float64
}

// Consensus blends the fair distributions of several books quoting the same
// market into one distribution. Each set is devigged multiplicatively and the
// results are averaged with the given weights (nil weights means equal weight).
func Consensus(sets []OddsSet, weights []float64) (ProbabilityDistribution, error) {
	if len(sets) == 0 {
		return nil, fmt.Errorf("%w: no markets to blend", ErrInvalidMarket)
	}
	if weights != nil && len(weights) != len(sets) {
		return nil, fmt.Errorf("%w: %d weights for %d markets", ErrInvalidMarket, len(weights), len(sets))
	}

	labels := sortedLabels(sets[0])
	var books []weightedDist
	for i, s := range sets {
		fair, _, err := Devig(s)
		if err != nil {
			return nil, fmt.Errorf("market %d: %w", i, err)
		}
		if !sameLabels(labels, sortedLabels(s)) {
			return nil, fmt.Errorf("%w: market %d quotes different outcomes", ErrInvalidMarket, i)
		}

		w := 1.0
		if weights != nil {
			w = weights[i]
		}
		if w < 0 {
			return nil, fmt.Errorf("%w: negative weight %v for market %d", ErrInvalidMarket, w, i)
		}
		books = append(books, weightedDist{dist: fair, weight: w})
	}

	// Calculate weighted averages across all books
	wSum := 0.0
	for _, b := range books {
		wSum += b.weight
	}
	if wSum <= 0 {
		return nil, fmt.Errorf("%w: weights sum to %v", ErrDegenerateMarket, wSum)
	}

	out := make(ProbabilityDistribution, len(labels))
	for _, label := range labels {
		sum := 0.0
		for _, b := range books {
			sum += b.dist[label] * b.weight
		}
		out[label] = sum / wSum
	}
	return out, nil
}

func sortedLabels(s OddsSet) []string {
	labels := s.Labels()
	sort.Strings(labels)
	return labels
}

func sameLabels(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
