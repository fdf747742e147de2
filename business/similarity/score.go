package similarity

import (
	"math"

	"flagCompare/domain"
)

// Similarity scores two flags against the registry. The result is
// non-negative and not bounded by 1.
func (r *Registry) Similarity(a, b domain.Flag) float64 {
	var sum float64
	var matchedA, matchedB int

	for _, f := range r.features {
		// zero weight must not move the tallies either
		if f.Weight == 0 {
			continue
		}
		va, okA := a.Value(f.Key)
		vb, okB := b.Value(f.Key)
		if !okA || !okB {
			continue
		}

		switch f.Kind {
		case domain.FeatureDiscrete:
			if discreteKey(va) == discreteKey(vb) {
				sum += f.Weight
			}

		case domain.FeatureBoolean:
			x, y := toNumber(va), toNumber(vb)
			if x > 0 && y > 0 {
				sum += f.Weight * (x * y)
			}
			matchedA, matchedB = tally(x, y, matchedA, matchedB)

		case domain.FeatureNumeric:
			x, y := toNumber(va), toNumber(vb)
			if x > 0 && y > 0 {
				// x*y/max² reduced to min/max so large or tiny magnitudes stay finite
				sum += f.Weight * math.Min(x, y) / math.Max(x, y)
			}
			matchedA, matchedB = tally(x, y, matchedA, matchedB)
		}
	}

	// no comparable boolean/numeric evidence on one side
	if matchedA == 0 || matchedB == 0 {
		return 0
	}
	return sum / math.Sqrt(float64(matchedA)*float64(matchedB))
}

func tally(x, y float64, a, b int) (int, int) {
	if x > 0 {
		a++
	}
	if y > 0 {
		b++
	}
	return a, b
}
