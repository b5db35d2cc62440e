package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// ProgressStorage keeps the progress keys as plain Redis strings, so
// "sd_xp" is GET sd_xp.
type ProgressStorage struct {
	client *redis.Client
}

func NewProgressStorage(client *redis.Client) *ProgressStorage {
	return &ProgressStorage{client: client}
}

func (s *ProgressStorage) Load(ctx context.Context, keys []string) (map[string]string, error) {
	if len(keys) == 0 {
		return map[string]string{}, nil
	}
	vals, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("mget progress: %w", err)
	}
	out := make(map[string]string, len(keys))
	for i, v := range vals {
		if str, ok := v.(string); ok {
			out[keys[i]] = str
		}
	}
	return out, nil
}

// Save applies every write and delete in one MULTI/EXEC.
func (s *ProgressStorage) Save(ctx context.Context, values map[string]string, absent []string) error {
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for k, v := range values {
			pipe.Set(ctx, k, v, 0)
		}
		if len(absent) > 0 {
			pipe.Del(ctx, absent...)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("save progress: %w", err)
	}
	return nil
}
