//go:build !integration

package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"flagCompare/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const featuresYAML = `features:
  - key: continent
    weight: 1
    kind: discrete
  - key: gdp
    weight: 0.5
    kind: numeric
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	return p
}

func TestLoadDataset_JSON(t *testing.T) {
	dir := t.TempDir()
	repo := NewDatasetRepository(Config{
		FlagsPath:    writeFile(t, dir, "flags.json", `[{"name":"X","continent":"Asia","gdp":10},{"name":"Y","red":true}]`),
		FeaturesPath: writeFile(t, dir, "features.yaml", featuresYAML),
		GalleryPath:  writeFile(t, dir, "gallery.json", `{"Cape Verde":"cv.svg"}`),
	})

	ds, err := repo.LoadDataset(context.Background())
	require.NoError(t, err)

	require.Len(t, ds.Flags, 2)
	assert.Equal(t, "X", ds.Flags[0].Name)
	assert.Equal(t, "Asia", ds.Flags[0].Attributes["continent"])
	assert.Equal(t, 10.0, ds.Flags[0].Attributes["gdp"])
	_, hasName := ds.Flags[0].Attributes["name"]
	assert.False(t, hasName)
	assert.Equal(t, true, ds.Flags[1].Attributes["red"])

	require.Len(t, ds.Features, 2)
	assert.Equal(t, domain.FeatureWeight{Key: "gdp", Position: 1, Weight: 0.5, Kind: domain.FeatureNumeric}, ds.Features[1])
	assert.Equal(t, map[string]string{"Cape Verde": "cv.svg"}, ds.Gallery)
}

func TestLoadDataset_CSV(t *testing.T) {
	dir := t.TempDir()
	repo := NewDatasetRepository(Config{
		FlagsPath:    writeFile(t, dir, "flags.csv", "name,continent,gdp\nX,Asia,10\nAtlantis,Ocean,\n"),
		FeaturesPath: writeFile(t, dir, "features.yaml", featuresYAML),
	})

	ds, err := repo.LoadDataset(context.Background())
	require.NoError(t, err)

	require.Len(t, ds.Flags, 2)
	assert.Equal(t, "10", ds.Flags[0].Attributes["gdp"])
	_, hasGDP := ds.Flags[1].Attributes["gdp"]
	assert.False(t, hasGDP)
	assert.Empty(t, ds.Gallery)
}

func TestLoadDataset_Errors(t *testing.T) {
	dir := t.TempDir()
	features := writeFile(t, dir, "features.yaml", featuresYAML)

	tests := []struct {
		name string
		cfg  Config
	}{
		{"missing flags file", Config{FlagsPath: filepath.Join(dir, "nope.json"), FeaturesPath: features}},
		{"json without name", Config{FlagsPath: writeFile(t, dir, "a.json", `[{"gdp":1}]`), FeaturesPath: features}},
		{"csv without name column", Config{FlagsPath: writeFile(t, dir, "b.csv", "country,gdp\nX,1\n"), FeaturesPath: features}},
		{"bad yaml", Config{FlagsPath: writeFile(t, dir, "c.json", `[]`), FeaturesPath: writeFile(t, dir, "bad.yaml", "features: [")}},
		{"bad gallery", Config{FlagsPath: writeFile(t, dir, "d.json", `[]`), FeaturesPath: features, GalleryPath: writeFile(t, dir, "g.json", `[1]`)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewDatasetRepository(tt.cfg).LoadDataset(context.Background())
			assert.Error(t, err)
		})
	}
}
