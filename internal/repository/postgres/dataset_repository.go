package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"flagCompare/business/similarity"
	"flagCompare/domain"

	"gorm.io/gorm"
)

// DatasetRepository reads the three dataset tables in one snapshot
// transaction so a concurrent edit cannot produce a mixed dataset.
type DatasetRepository struct {
	DB *gorm.DB
}

var _ similarity.DatasetRepository = (*DatasetRepository)(nil)

func NewDatasetRepository(db *gorm.DB) *DatasetRepository {
	return &DatasetRepository{DB: db}
}

func (r *DatasetRepository) LoadDataset(ctx context.Context) (domain.Dataset, error) {
	var ds domain.Dataset

	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		flags, err := NewFlagRepository(tx).FindAll(ctx)
		if err != nil {
			return err
		}
		features, err := NewFeatureWeightRepository(tx).FindAll(ctx)
		if err != nil {
			return err
		}
		gallery, err := NewGalleryRepository(tx).FindIndex(ctx)
		if err != nil {
			return err
		}

		ds = domain.Dataset{Flags: flags, Features: features, Gallery: gallery}
		return nil
	}, &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true})

	return ds, err
}

// SaveDataset upserts every row of ds, keeping dataset order in position.
// Rows missing from ds are left in place.
func (r *DatasetRepository) SaveDataset(ctx context.Context, ds domain.Dataset) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		flags := NewFlagRepository(tx)
		for i := range ds.Flags {
			f := ds.Flags[i]
			f.Position = i
			if f.Attributes == nil {
				f.Attributes = map[string]any{}
			}
			if err := flags.Upsert(ctx, &f); err != nil {
				return err
			}
		}

		features := NewFeatureWeightRepository(tx)
		for i := range ds.Features {
			fw := ds.Features[i]
			fw.Position = i
			if err := features.Upsert(ctx, &fw); err != nil {
				return fmt.Errorf("failed to upsert feature %s: %w", fw.Key, err)
			}
		}

		gallery := NewGalleryRepository(tx)
		for name, key := range ds.Gallery {
			if err := gallery.Upsert(ctx, &domain.GalleryEntry{Name: name, AssetKey: key}); err != nil {
				return err
			}
		}
		return nil
	})
}

// AutoMigrate creates the dataset tables.
func (r *DatasetRepository) AutoMigrate() error {
	return r.DB.AutoMigrate(&domain.Flag{}, &domain.FeatureWeight{}, &domain.GalleryEntry{})
}
