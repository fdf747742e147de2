package similarity

import (
	"fmt"
	"math"

	"flagCompare/domain"
)

// Registry is the immutable feature weight table of one dataset version.
type Registry struct {
	features []domain.FeatureWeight
	byKey    map[string]int
}

func NewRegistry(features []domain.FeatureWeight) (*Registry, error) {
	r := &Registry{
		features: make([]domain.FeatureWeight, 0, len(features)),
		byKey:    make(map[string]int, len(features)),
	}

	for _, f := range features {
		if f.Key == "" {
			return nil, fmt.Errorf("%w: empty feature key", ErrInvalidFeature)
		}
		if _, dup := r.byKey[f.Key]; dup {
			return nil, fmt.Errorf("%w: %s", domain.ErrDuplicateFeature, f.Key)
		}
		if f.Weight < 0 || math.IsNaN(f.Weight) || math.IsInf(f.Weight, 0) {
			return nil, fmt.Errorf("%w: %s=%v", domain.ErrInvalidWeight, f.Key, f.Weight)
		}
		kind, err := domain.ParseFeatureKind(string(f.Kind))
		if err != nil {
			return nil, fmt.Errorf("feature %s: %w", f.Key, err)
		}
		f.Kind = kind

		r.byKey[f.Key] = len(r.features)
		r.features = append(r.features, f)
	}

	return r, nil
}

// Lookup returns the weight and kind of key; unregistered keys are ignored by
// the scorer.
func (r *Registry) Lookup(key string) (domain.FeatureWeight, bool) {
	i, ok := r.byKey[key]
	if !ok {
		return domain.FeatureWeight{}, false
	}
	return r.features[i], true
}

// Features returns the registered features in load order.
func (r *Registry) Features() []domain.FeatureWeight {
	out := make([]domain.FeatureWeight, len(r.features))
	copy(out, r.features)
	return out
}

func (r *Registry) Len() int {
	return len(r.features)
}
