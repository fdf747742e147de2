package similarity

import (
	"encoding/json"
	"fmt"
	"hash/fnv"

	"flagCompare/domain"
)

// DatasetVersion fingerprints a dataset. Map keys are encoded in sorted order
// so equal datasets always hash equal.
func DatasetVersion(ds domain.Dataset) (string, error) {
	return MatrixVersion(ds, "")
}

// MatrixVersion fingerprints everything a built matrix depends on: the
// dataset and the placeholder asset key written into unresolved profiles.
func MatrixVersion(ds domain.Dataset, defaultAssetKey string) (string, error) {
	b, err := json.Marshal(ds)
	if err != nil {
		return "", fmt.Errorf("encode dataset: %w", err)
	}

	h := fnv.New64a()
	_, _ = h.Write(b)
	if defaultAssetKey != "" {
		_, _ = h.Write([]byte{0})
		_, _ = h.Write([]byte(defaultAssetKey))
	}
	return fmt.Sprintf("%016x", h.Sum64()), nil
}
