package similarity

import (
	"fmt"
	"sort"
	"strings"

	"flagCompare/domain"
)

// Profile returns the similarity profile of name.
func (s *SimilarityService) Profile(name string) (*domain.SimilarityProfile, error) {
	snap, err := s.active()
	if err != nil {
		return nil, err
	}
	return snap.profile(name)
}

func (snap *snapshot) profile(name string) (*domain.SimilarityProfile, error) {
	p, ok := snap.matrix.Profiles[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrFlagNotFound, name)
	}
	return p, nil
}

// HasFlag reports whether name is in the active matrix.
func (s *SimilarityService) HasFlag(name string) bool {
	_, err := s.Profile(name)
	return err == nil
}

// TopSimilar returns the n flags most similar to name, excluding name itself,
// by normalized similarity. Ties keep dataset order. n <= 0 uses the
// configured default.
func (s *SimilarityService) TopSimilar(name string, n int) ([]domain.SimilarFlag, error) {
	snap, err := s.active()
	if err != nil {
		return nil, err
	}
	p, err := snap.profile(name)
	if err != nil {
		return nil, err
	}

	if n <= 0 {
		n = s.cfg.TopN
	}
	if n > s.cfg.MaxTopN {
		n = s.cfg.MaxTopN
	}

	res := make([]domain.SimilarFlag, 0, len(snap.matrix.Order))
	for _, other := range snap.matrix.Order {
		if other == name {
			continue
		}
		ref := ""
		if op, ok := snap.matrix.Profiles[other]; ok {
			ref = op.AssetReference
		}
		res = append(res, domain.SimilarFlag{Name: other, Similarity: p.Similarities[other], AssetReference: ref})
	}

	sort.SliceStable(res, func(i, j int) bool {
		return res[i].Similarity > res[j].Similarity
	})

	if len(res) > n {
		res = res[:n]
	}
	return res, nil
}

// Search returns the first flag, in dataset order, whose name contains term.
// An empty term matches the first flag.
func (s *SimilarityService) Search(term string) (domain.Flag, error) {
	snap, err := s.active()
	if err != nil {
		return domain.Flag{}, err
	}
	return snap.search(term)
}

// SearchProfile is Search followed by Profile against the same matrix.
func (s *SimilarityService) SearchProfile(term string) (*domain.SimilarityProfile, error) {
	snap, err := s.active()
	if err != nil {
		return nil, err
	}
	f, err := snap.search(term)
	if err != nil {
		return nil, err
	}
	return snap.profile(f.Name)
}

func (snap *snapshot) search(term string) (domain.Flag, error) {
	for _, f := range snap.flags {
		if strings.Contains(f.Name, term) {
			return f, nil
		}
	}
	return domain.Flag{}, fmt.Errorf("%w: %s", domain.ErrFlagNotFound, term)
}

// DetailValues lists every flag whose value for field is truthy.
func (s *SimilarityService) DetailValues(field string) ([]domain.DetailValue, error) {
	snap, err := s.active()
	if err != nil {
		return nil, err
	}

	res := []domain.DetailValue{}
	for _, f := range snap.flags {
		v, ok := f.Value(field)
		if !ok || !truthy(v) {
			continue
		}
		res = append(res, domain.DetailValue{Name: f.Name, Value: v})
	}
	return res, nil
}

// Attributes returns the attributes of name sorted by key.
func (s *SimilarityService) Attributes(name string) ([]domain.FlagAttribute, error) {
	snap, err := s.active()
	if err != nil {
		return nil, err
	}

	i, ok := snap.index[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrFlagNotFound, name)
	}

	f := snap.flags[i]
	keys := make([]string, 0, len(f.Attributes))
	for k := range f.Attributes {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	res := make([]domain.FlagAttribute, 0, len(keys))
	for _, k := range keys {
		res = append(res, domain.FlagAttribute{Key: k, Value: f.Attributes[k]})
	}
	return res, nil
}

// Names returns flag names in dataset order.
func (s *SimilarityService) Names() ([]string, error) {
	snap, err := s.active()
	if err != nil {
		return nil, err
	}

	out := make([]string, len(snap.matrix.Order))
	copy(out, snap.matrix.Order)
	return out, nil
}

// Unresolved returns the names whose asset resolution fell back to the placeholder.
func (s *SimilarityService) Unresolved() ([]string, error) {
	snap, err := s.active()
	if err != nil {
		return nil, err
	}

	out := make([]string, len(snap.unresolved))
	copy(out, snap.unresolved)
	return out, nil
}

func (s *SimilarityService) Version() string {
	snap := s.current.Load()
	if snap == nil {
		return ""
	}
	return snap.version
}

// Matrix returns the active matrix. Callers must not modify it.
func (s *SimilarityService) Matrix() (*domain.SimilarityMatrix, error) {
	snap, err := s.active()
	if err != nil {
		return nil, err
	}
	return snap.matrix, nil
}
