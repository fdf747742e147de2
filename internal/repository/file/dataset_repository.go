package file

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"flagCompare/business/similarity"
	"flagCompare/domain"

	"gopkg.in/yaml.v3"
	"gorm.io/datatypes"
)

type Config struct {
	FlagsPath    string
	FeaturesPath string
	GalleryPath  string
}

type DatasetRepository struct {
	cfg Config
}

var _ similarity.DatasetRepository = (*DatasetRepository)(nil)

func NewDatasetRepository(cfg Config) *DatasetRepository {
	return &DatasetRepository{cfg: cfg}
}

type featuresFile struct {
	Features []domain.FeatureWeight `yaml:"features"`
}

func (r *DatasetRepository) LoadDataset(ctx context.Context) (domain.Dataset, error) {
	if err := ctx.Err(); err != nil {
		return domain.Dataset{}, fmt.Errorf("context error: %w", err)
	}

	flags, err := r.loadFlags()
	if err != nil {
		return domain.Dataset{}, err
	}

	features, err := r.loadFeatures()
	if err != nil {
		return domain.Dataset{}, err
	}

	gallery, err := r.loadGallery()
	if err != nil {
		return domain.Dataset{}, err
	}

	return domain.Dataset{
		Flags:    flags,
		Features: features,
		Gallery:  gallery,
	}, nil
}

func (r *DatasetRepository) loadFlags() ([]domain.Flag, error) {
	f, err := os.Open(r.cfg.FlagsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open flags file: %w", err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(r.cfg.FlagsPath)) {
	case ".csv":
		return readFlagsCSV(f)
	default:
		return readFlagsJSON(f)
	}
}

// readFlagsJSON reads an array of flat objects keyed by "name".
func readFlagsJSON(rd io.Reader) ([]domain.Flag, error) {
	var records []map[string]any
	if err := json.NewDecoder(rd).Decode(&records); err != nil {
		return nil, fmt.Errorf("failed to decode flags: %w", err)
	}

	flags := make([]domain.Flag, 0, len(records))
	for i, rec := range records {
		name, _ := rec["name"].(string)
		if name == "" {
			return nil, fmt.Errorf("flag record %d: missing name", i)
		}
		delete(rec, "name")
		flags = append(flags, domain.Flag{
			Name:       name,
			Position:   i,
			Attributes: datatypes.JSONMap(rec),
		})
	}
	return flags, nil
}

// readFlagsCSV reads a header row with a name column. Empty cells are left
// out so they stay unknown.
func readFlagsCSV(rd io.Reader) ([]domain.Flag, error) {
	cr := csv.NewReader(rd)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read flags header: %w", err)
	}

	nameCol := -1
	for i, h := range header {
		header[i] = strings.TrimSpace(h)
		if header[i] == "name" {
			nameCol = i
		}
	}
	if nameCol < 0 {
		return nil, errors.New("flags csv: missing name column")
	}

	var flags []domain.Flag
	for row := 1; ; row++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read flags row %d: %w", row, err)
		}

		name := strings.TrimSpace(rec[nameCol])
		if name == "" {
			return nil, fmt.Errorf("flags row %d: missing name", row)
		}

		attrs := datatypes.JSONMap{}
		for i, v := range rec {
			if i == nameCol || v == "" {
				continue
			}
			attrs[header[i]] = v
		}
		flags = append(flags, domain.Flag{Name: name, Position: row - 1, Attributes: attrs})
	}
	return flags, nil
}

func (r *DatasetRepository) loadFeatures() ([]domain.FeatureWeight, error) {
	b, err := os.ReadFile(r.cfg.FeaturesPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read features file: %w", err)
	}

	var ff featuresFile
	if err := yaml.Unmarshal(b, &ff); err != nil {
		return nil, fmt.Errorf("failed to decode features: %w", err)
	}
	for i := range ff.Features {
		ff.Features[i].Position = i
	}
	return ff.Features, nil
}

func (r *DatasetRepository) loadGallery() (map[string]string, error) {
	if r.cfg.GalleryPath == "" {
		return map[string]string{}, nil
	}

	b, err := os.ReadFile(r.cfg.GalleryPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read gallery file: %w", err)
	}

	gallery := map[string]string{}
	if err := json.Unmarshal(b, &gallery); err != nil {
		return nil, fmt.Errorf("failed to decode gallery: %w", err)
	}
	return gallery, nil
}
