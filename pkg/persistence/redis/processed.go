// Package redis implements the processed-flag store on Redis, giving
// multi-node deployments per-transcript serialization through SETNX locks.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/voxflow/voxflow/pkg/persistence"
)

const (
	processedKeyPrefix = "voxflow:processed:"
	lockKeyPrefix      = "voxflow:processing:"
)

// ProcessedStore implements persistence.ProcessedStore on a Redis client.
type ProcessedStore struct {
	client *redis.Client
}

func NewProcessedStore(client *redis.Client) *ProcessedStore {
	return &ProcessedStore{client: client}
}

// NewProcessedStoreFromURL parses a redis:// URL and pings the server.
func NewProcessedStoreFromURL(ctx context.Context, url string) (*ProcessedStore, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}

	client := redis.NewClient(opts)

	err = client.Ping(ctx).Err()
	if err != nil {
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return &ProcessedStore{client: client}, nil
}

// AcquireProcessing takes the per-transcript lock with SETNX. The TTL keeps
// a crashed holder from blocking the transcript forever.
func (s *ProcessedStore) AcquireProcessing(ctx context.Context, transcriptID string, ttl time.Duration) (bool, error) {
	acquired, err := s.client.SetNX(ctx, lockKeyPrefix+transcriptID, "1", ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to acquire processing lock for %s: %w", transcriptID, err)
	}

	return acquired, nil
}

func (s *ProcessedStore) ReleaseProcessing(ctx context.Context, transcriptID string) error {
	err := s.client.Del(ctx, lockKeyPrefix+transcriptID).Err()
	if err != nil {
		return fmt.Errorf("failed to release processing lock for %s: %w", transcriptID, err)
	}

	return nil
}

func (s *ProcessedStore) IsProcessed(ctx context.Context, transcriptID string) (bool, error) {
	err := s.client.Get(ctx, processedKeyPrefix+transcriptID).Err()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}

	if err != nil {
		return false, fmt.Errorf("failed to read processed flag for %s: %w", transcriptID, err)
	}

	return true, nil
}

func (s *ProcessedStore) MarkProcessed(ctx context.Context, transcriptID string) error {
	err := s.client.Set(ctx, processedKeyPrefix+transcriptID, "1", 0).Err()
	if err != nil {
		return fmt.Errorf("failed to mark %s processed: %w", transcriptID, err)
	}

	return nil
}

func (s *ProcessedStore) ClearProcessed(ctx context.Context, transcriptID string) error {
	err := s.client.Del(ctx, processedKeyPrefix+transcriptID).Err()
	if err != nil {
		return fmt.Errorf("failed to clear processed flag for %s: %w", transcriptID, err)
	}

	return nil
}

// Close releases the underlying client.
func (s *ProcessedStore) Close() error {
	return s.client.Close()
}

var _ persistence.ProcessedStore = (*ProcessedStore)(nil)
