package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"flagCompare/business/similarity"
	"flagCompare/domain"

	"github.com/redis/go-redis/v9"
)

const matrixKeyPrefix = "similarity:matrix:"

// MatrixCache keeps built similarity matrices keyed by dataset version.
type MatrixCache struct {
	client *redis.Client
	ttl    time.Duration
}

var _ similarity.MatrixCache = (*MatrixCache)(nil)

func NewMatrixCache(client *redis.Client, ttl time.Duration) *MatrixCache {
	return &MatrixCache{
		client: client,
		ttl:    ttl,
	}
}

func matrixKey(version string) string {
	return matrixKeyPrefix + version
}

func (c *MatrixCache) GetMatrix(ctx context.Context, version string) (*domain.SimilarityMatrix, bool, error) {
	val, err := c.client.Get(ctx, matrixKey(version)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to get matrix from Redis: %w", err)
	}

	m, err := decodeMatrix(val)
	if err != nil {
		return nil, false, err
	}
	if m.Version != version {
		return nil, false, nil
	}

	return m, true, nil
}

func (c *MatrixCache) SaveMatrix(ctx context.Context, m *domain.SimilarityMatrix) error {
	if m == nil || m.Version == "" {
		return errors.New("matrix without version")
	}

	b, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to marshal matrix: %w", err)
	}

	if err := c.client.Set(ctx, matrixKey(m.Version), b, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store matrix in Redis: %w", err)
	}

	return nil
}

func decodeMatrix(b []byte) (*domain.SimilarityMatrix, error) {
	var m domain.SimilarityMatrix
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("failed to unmarshal matrix: %w", err)
	}
	if m.Profiles == nil {
		return nil, errors.New("cached matrix has no profiles")
	}
	return &m, nil
}
