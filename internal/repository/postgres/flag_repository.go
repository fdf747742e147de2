package postgres

import (
	"context"
	"fmt"

	"flagCompare/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type FlagRepository struct {
	DB *gorm.DB
}

func NewFlagRepository(db *gorm.DB) *FlagRepository {
	return &FlagRepository{
		DB: db,
	}
}

func (r *FlagRepository) FindAll(ctx context.Context) ([]domain.Flag, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var flags []domain.Flag
	err := r.DB.WithContext(ctx).Order("position ASC, name ASC").Find(&flags).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find flags: %w", err)
	}

	return flags, nil
}

func (r *FlagRepository) Upsert(ctx context.Context, flag *domain.Flag) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	err := r.DB.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoUpdates: clause.AssignmentColumns([]string{"position", "attributes"}),
		}).
		Create(flag).Error
	if err != nil {
		return fmt.Errorf("failed to upsert flag: %w", err)
	}

	return nil
}
