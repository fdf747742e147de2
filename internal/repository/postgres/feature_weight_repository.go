package postgres

import (
	"context"
	"fmt"

	"flagCompare/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type FeatureWeightRepository struct {
	DB *gorm.DB
}

func NewFeatureWeightRepository(db *gorm.DB) *FeatureWeightRepository {
	return &FeatureWeightRepository{DB: db}
}

func (r *FeatureWeightRepository) FindAll(ctx context.Context) ([]domain.FeatureWeight, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var features []domain.FeatureWeight
	err := r.DB.WithContext(ctx).Order("position ASC, feature_key ASC").Find(&features).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find feature weights: %w", err)
	}

	return features, nil
}

func (r *FeatureWeightRepository) Upsert(ctx context.Context, fw *domain.FeatureWeight) error {
	return r.DB.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "feature_key"}},
			DoUpdates: clause.AssignmentColumns([]string{"position", "weight", "kind"}),
		}).
		Create(fw).Error
}
