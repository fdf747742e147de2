package postgres

import (
	"context"
	"fmt"

	"flagCompare/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type GalleryRepository struct {
	DB *gorm.DB
}

func NewGalleryRepository(db *gorm.DB) *GalleryRepository {
	return &GalleryRepository{DB: db}
}

// FindIndex returns the gallery as canonical name -> asset key.
func (r *GalleryRepository) FindIndex(ctx context.Context) (map[string]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var entries []domain.GalleryEntry
	if err := r.DB.WithContext(ctx).Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("failed to find gallery entries: %w", err)
	}

	index := make(map[string]string, len(entries))
	for _, e := range entries {
		index[e.Name] = e.AssetKey
	}
	return index, nil
}

func (r *GalleryRepository) Upsert(ctx context.Context, entry *domain.GalleryEntry) error {
	err := r.DB.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoUpdates: clause.AssignmentColumns([]string{"asset_key"}),
		}).
		Create(entry).Error
	if err != nil {
		return fmt.Errorf("failed to upsert gallery entry: %w", err)
	}

	return nil
}
