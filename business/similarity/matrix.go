package similarity

import (
	"context"
	"fmt"
	"time"

	"flagCompare/domain"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"
)

// AssetResolver annotates profiles with their gallery key.
type AssetResolver interface {
	Resolve(name string) (string, bool)
}

// BuildMatrix scores every pair of flags and normalizes each row by its own
// maximum. Rows are built concurrently on at most workers goroutines; each
// row only writes its own slot.
func BuildMatrix(
	ctx context.Context,
	flags []domain.Flag,
	reg *Registry,
	resolver AssetResolver,
	workers int,
) (*domain.SimilarityMatrix, error) {
	if reg == nil {
		return nil, fmt.Errorf("build matrix: nil registry")
	}
	if err := checkUniqueNames(flags); err != nil {
		return nil, err
	}
	if workers <= 0 {
		workers = 1
	}

	rows := make([]*domain.SimilarityProfile, len(flags))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i := range flags {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			rows[i] = buildRow(flags, i, reg, resolver)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("build matrix: %w", err)
	}

	m := &domain.SimilarityMatrix{
		BuiltAt:  time.Now(),
		Order:    make([]string, len(flags)),
		Profiles: make(map[string]*domain.SimilarityProfile, len(flags)),
	}
	for i, f := range flags {
		m.Order[i] = f.Name
		m.Profiles[f.Name] = rows[i]
	}

	return m, nil
}

func buildRow(flags []domain.Flag, i int, reg *Registry, resolver AssetResolver) *domain.SimilarityProfile {
	a := flags[i]
	raw := make([]float64, len(flags))
	for j, b := range flags {
		raw[j] = reg.Similarity(a, b)
	}

	// self is always a candidate so the row is never empty
	maxSimilarity := floats.Max(raw)

	p := &domain.SimilarityProfile{
		Name:            a.Name,
		Similarities:    make(map[string]float64, len(flags)),
		RawSimilarities: make(map[string]float64, len(flags)),
	}
	for j, b := range flags {
		p.RawSimilarities[b.Name] = raw[j]
		if maxSimilarity > 0 {
			p.Similarities[b.Name] = raw[j] / maxSimilarity
		} else {
			p.Similarities[b.Name] = 0
		}
	}

	if resolver != nil {
		p.AssetReference, p.AssetResolved = resolver.Resolve(a.Name)
	}

	return p
}

func checkUniqueNames(flags []domain.Flag) error {
	seen := make(map[string]struct{}, len(flags))
	for _, f := range flags {
		if _, dup := seen[f.Name]; dup {
			return fmt.Errorf("%w: %s", domain.ErrDuplicateFlag, f.Name)
		}
		seen[f.Name] = struct{}{}
	}
	return nil
}
