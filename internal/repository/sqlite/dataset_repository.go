package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"flagCompare/business/similarity"
	"flagCompare/domain"

	"gorm.io/datatypes"
)

const schema = `
CREATE TABLE IF NOT EXISTS flags (
	name       TEXT PRIMARY KEY,
	position   INTEGER NOT NULL DEFAULT 0,
	attributes TEXT NOT NULL DEFAULT '{}'
);
CREATE TABLE IF NOT EXISTS feature_weights (
	feature_key TEXT PRIMARY KEY,
	position INTEGER NOT NULL DEFAULT 0,
	weight   REAL NOT NULL,
	kind     TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS gallery (
	name      TEXT PRIMARY KEY,
	asset_key TEXT NOT NULL
);
`

type DatasetRepository struct {
	DB *sql.DB
}

var _ similarity.DatasetRepository = (*DatasetRepository)(nil)

func NewDatasetRepository(db *sql.DB) *DatasetRepository {
	return &DatasetRepository{DB: db}
}

// Migrate creates the dataset tables if they do not exist.
func (r *DatasetRepository) Migrate(ctx context.Context) error {
	if _, err := r.DB.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to migrate sqlite schema: %w", err)
	}
	return nil
}

func (r *DatasetRepository) LoadDataset(ctx context.Context) (domain.Dataset, error) {
	if err := ctx.Err(); err != nil {
		return domain.Dataset{}, fmt.Errorf("context error: %w", err)
	}

	flags, err := r.findFlags(ctx)
	if err != nil {
		return domain.Dataset{}, err
	}
	features, err := r.findFeatures(ctx)
	if err != nil {
		return domain.Dataset{}, err
	}
	gallery, err := r.findGallery(ctx)
	if err != nil {
		return domain.Dataset{}, err
	}

	return domain.Dataset{Flags: flags, Features: features, Gallery: gallery}, nil
}

func (r *DatasetRepository) findFlags(ctx context.Context) ([]domain.Flag, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT name, position, attributes FROM flags ORDER BY position, name`)
	if err != nil {
		return nil, fmt.Errorf("failed to query flags: %w", err)
	}
	defer rows.Close()

	var flags []domain.Flag
	for rows.Next() {
		var f domain.Flag
		var raw string
		if err := rows.Scan(&f.Name, &f.Position, &raw); err != nil {
			return nil, fmt.Errorf("failed to scan flag: %w", err)
		}
		attrs := datatypes.JSONMap{}
		if err := json.Unmarshal([]byte(raw), &attrs); err != nil {
			return nil, fmt.Errorf("flag %s: invalid attributes: %w", f.Name, err)
		}
		f.Attributes = attrs
		flags = append(flags, f)
	}
	return flags, rows.Err()
}

func (r *DatasetRepository) findFeatures(ctx context.Context) ([]domain.FeatureWeight, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT feature_key, position, weight, kind FROM feature_weights ORDER BY position, feature_key`)
	if err != nil {
		return nil, fmt.Errorf("failed to query feature weights: %w", err)
	}
	defer rows.Close()

	var features []domain.FeatureWeight
	for rows.Next() {
		var fw domain.FeatureWeight
		var kind string
		if err := rows.Scan(&fw.Key, &fw.Position, &fw.Weight, &kind); err != nil {
			return nil, fmt.Errorf("failed to scan feature weight: %w", err)
		}
		fw.Kind = domain.FeatureKind(kind)
		features = append(features, fw)
	}
	return features, rows.Err()
}

func (r *DatasetRepository) findGallery(ctx context.Context) (map[string]string, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT name, asset_key FROM gallery`)
	if err != nil {
		return nil, fmt.Errorf("failed to query gallery: %w", err)
	}
	defer rows.Close()

	gallery := map[string]string{}
	for rows.Next() {
		var name, key string
		if err := rows.Scan(&name, &key); err != nil {
			return nil, fmt.Errorf("failed to scan gallery entry: %w", err)
		}
		gallery[name] = key
	}
	return gallery, rows.Err()
}

// SaveDataset replaces the stored dataset in one transaction.
func (r *DatasetRepository) SaveDataset(ctx context.Context, ds domain.Dataset) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, table := range []string{"flags", "feature_weights", "gallery"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	for i, f := range ds.Flags {
		attrs := f.Attributes
		if attrs == nil {
			attrs = datatypes.JSONMap{}
		}
		raw, err := json.Marshal(attrs)
		if err != nil {
			return fmt.Errorf("flag %s: %w", f.Name, err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO flags (name, position, attributes) VALUES (?, ?, ?)`,
			f.Name, i, string(raw)); err != nil {
			return fmt.Errorf("failed to insert flag %s: %w", f.Name, err)
		}
	}

	for i, fw := range ds.Features {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO feature_weights (feature_key, position, weight, kind) VALUES (?, ?, ?, ?)`,
			fw.Key, i, fw.Weight, string(fw.Kind)); err != nil {
			return fmt.Errorf("failed to insert feature %s: %w", fw.Key, err)
		}
	}

	for name, key := range ds.Gallery {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO gallery (name, asset_key) VALUES (?, ?)`, name, key); err != nil {
			return fmt.Errorf("failed to insert gallery entry %s: %w", name, err)
		}
	}

	return tx.Commit()
}
