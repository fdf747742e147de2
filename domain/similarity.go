package domain

import "time"

type SimilarityProfile struct {
	Name            string             `json:"name"`
	Similarities    map[string]float64 `json:"similarities"`
	RawSimilarities map[string]float64 `json:"raw_similarities"`
	AssetReference  string             `json:"asset_reference"`
	AssetResolved   bool               `json:"asset_resolved"`
}

// SimilarityMatrix holds one profile per flag. Order keeps the dataset order
// of the names.
type SimilarityMatrix struct {
	Version  string                        `json:"version"`
	BuiltAt  time.Time                     `json:"built_at"`
	Order    []string                      `json:"order"`
	Profiles map[string]*SimilarityProfile `json:"profiles"`
}

type SimilarFlag struct {
	Name           string  `json:"name"`
	Similarity     float64 `json:"similarity"`
	AssetReference string  `json:"asset_reference"`
}

type RebuildStats struct {
	Version    string        `json:"version"`
	Rebuilt    bool          `json:"rebuilt"`
	FromCache  bool          `json:"from_cache"`
	Flags      int           `json:"flags"`
	Features   int           `json:"features"`
	Unresolved int           `json:"unresolved"`
	Duration   time.Duration `json:"duration_ns"`
}
