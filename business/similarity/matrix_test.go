//go:build !integration

package similarity

import (
	"context"
	"testing"

	"flagCompare/business/gallery"
	"flagCompare/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRegistry(t *testing.T) *Registry {
	return mustRegistry(t,
		domain.FeatureWeight{Key: "continent", Weight: 0.7, Kind: domain.FeatureDiscrete},
		domain.FeatureWeight{Key: "red", Weight: 1.3, Kind: domain.FeatureBoolean},
		domain.FeatureWeight{Key: "stars", Weight: 0.9, Kind: domain.FeatureNumeric},
		domain.FeatureWeight{Key: "colors", Weight: 2.1, Kind: domain.FeatureNumeric},
	)
}

func TestBuildMatrix_Properties(t *testing.T) {
	flags := sampleFlags()
	reg := sampleRegistry(t)

	m, err := BuildMatrix(context.Background(), flags, reg, nil, 3)
	require.NoError(t, err)
	require.Len(t, m.Profiles, len(flags))

	for i, a := range flags {
		assert.Equal(t, a.Name, m.Order[i])
		p := m.Profiles[a.Name]
		require.NotNil(t, p)
		require.Len(t, p.Similarities, len(flags))

		assert.GreaterOrEqual(t, p.RawSimilarities[a.Name], 0.0)
		assert.LessOrEqual(t, p.Similarities[a.Name], 1.0)

		for _, b := range flags {
			sim := p.Similarities[b.Name]
			assert.GreaterOrEqual(t, sim, 0.0)
			assert.LessOrEqual(t, sim, 1.0)
			assert.Equal(t, p.RawSimilarities[b.Name], m.Profiles[b.Name].RawSimilarities[a.Name])
		}
	}
}

func TestBuildMatrix_RowMaxNormalization(t *testing.T) {
	reg := continentGDP(t)
	flags := []domain.Flag{
		flag("X", map[string]any{"continent": "Asia", "gdp": 10}),
		flag("Y", map[string]any{"continent": "Asia", "gdp": 5}),
	}

	m, err := BuildMatrix(context.Background(), flags, reg, nil, 1)
	require.NoError(t, err)

	x := m.Profiles["X"]
	// raw: X/X = 2, X/Y = 1.5
	assert.True(t, almostEqual(x.RawSimilarities["X"], 2))
	assert.True(t, almostEqual(x.RawSimilarities["Y"], 1.5))
	assert.True(t, almostEqual(x.Similarities["X"], 1))
	assert.True(t, almostEqual(x.Similarities["Y"], 0.75))

	y := m.Profiles["Y"]
	assert.True(t, almostEqual(y.Similarities["X"], 0.75))
}

func TestBuildMatrix_RowWiseIsNotSymmetric(t *testing.T) {
	reg := mustRegistry(t, domain.FeatureWeight{Key: "stripes", Weight: 1, Kind: domain.FeatureBoolean})
	flags := []domain.Flag{
		flag("A", map[string]any{"stripes": 1}),
		flag("B", map[string]any{"stripes": 3}),
	}

	m, err := BuildMatrix(context.Background(), flags, reg, nil, 2)
	require.NoError(t, err)

	// A row max is A/B = 3, B row max is B/B = 9
	assert.True(t, almostEqual(m.Profiles["A"].Similarities["B"], 1))
	assert.True(t, almostEqual(m.Profiles["B"].Similarities["A"], 3.0/9.0))
}

func TestBuildMatrix_DegenerateRowIsZero(t *testing.T) {
	reg := continentGDP(t)
	flags := []domain.Flag{
		flag("X", map[string]any{"continent": "Asia", "gdp": 10}),
		flag("Atlantis", map[string]any{"continent": "Ocean"}),
	}

	m, err := BuildMatrix(context.Background(), flags, reg, nil, 2)
	require.NoError(t, err)

	row := m.Profiles["Atlantis"]
	for name, v := range row.Similarities {
		assert.Equal(t, 0.0, v, name)
	}
	assert.Equal(t, 0.0, m.Profiles["X"].Similarities["Atlantis"])
}

func TestBuildMatrix_AssetReferences(t *testing.T) {
	reg := continentGDP(t)
	resolver := gallery.NewResolver(map[string]string{"Cape Verde": "cv.svg"}, "none.svg")
	flags := []domain.Flag{
		flag("Cabo Verde", map[string]any{"gdp": 1}),
		flag("Atlantis", map[string]any{"gdp": 1}),
	}

	m, err := BuildMatrix(context.Background(), flags, reg, resolver, 2)
	require.NoError(t, err)

	assert.Equal(t, "cv.svg", m.Profiles["Cabo Verde"].AssetReference)
	assert.True(t, m.Profiles["Cabo Verde"].AssetResolved)
	assert.Equal(t, "none.svg", m.Profiles["Atlantis"].AssetReference)
	assert.False(t, m.Profiles["Atlantis"].AssetResolved)
}

func TestBuildMatrix_DuplicateName(t *testing.T) {
	reg := continentGDP(t)
	flags := []domain.Flag{flag("X", nil), flag("X", nil)}

	_, err := BuildMatrix(context.Background(), flags, reg, nil, 1)
	assert.ErrorIs(t, err, domain.ErrDuplicateFlag)
}

func TestBuildMatrix_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := BuildMatrix(ctx, sampleFlags(), sampleRegistry(t), nil, 2)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBuildMatrix_Empty(t *testing.T) {
	m, err := BuildMatrix(context.Background(), nil, continentGDP(t), nil, 0)
	require.NoError(t, err)
	assert.Empty(t, m.Profiles)
	assert.Empty(t, m.Order)
}

func TestBuildMatrix_WorkerCountDoesNotChangeResult(t *testing.T) {
	reg := sampleRegistry(t)
	one, err := BuildMatrix(context.Background(), sampleFlags(), reg, nil, 1)
	require.NoError(t, err)
	many, err := BuildMatrix(context.Background(), sampleFlags(), reg, nil, 8)
	require.NoError(t, err)

	for name, p := range one.Profiles {
		assert.Equal(t, p.Similarities, many.Profiles[name].Similarities)
		assert.Equal(t, p.RawSimilarities, many.Profiles[name].RawSimilarities)
	}
}

func TestBuildMatrix_ExtremeMagnitudesNormalize(t *testing.T) {
	r := mustRegistry(t, domain.FeatureWeight{Key: "pop", Weight: 1, Kind: domain.FeatureNumeric})
	flags := []domain.Flag{
		flag("A", map[string]any{"pop": 1e200}),
		flag("B", map[string]any{"pop": 1e200}),
	}

	m, err := BuildMatrix(context.Background(), flags, r, nil, 1)
	require.NoError(t, err)
	assert.True(t, almostEqual(1, m.Profiles["A"].Similarities["B"]))
	assert.True(t, almostEqual(1, m.Profiles["A"].RawSimilarities["B"]))
}
