package cache

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

type Config struct {
	Enabled  bool
	Addr     string
	Password string
}

// ValkeyClient caches ranked room type id lists.
type ValkeyClient struct {
	client *redis.Client
	ttl    time.Duration
}

func NewValkeyClient(cfg Config, ttl time.Duration) (*ValkeyClient, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           0,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
		DialTimeout:  5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("failed to connect to Valkey: %w", err)
	}

	return &ValkeyClient{client: rdb, ttl: ttl}, nil
}

// RecommendationKey builds rec:{corpus}:{kind}:{key}. corpus is the index
// content digest, so replicas holding the same corpus share entries and a
// changed corpus never reads stale rankings. Free-text keys are normalised
// and hashed so arbitrary queries stay short and safe.
func RecommendationKey(corpus, kind, key string) string {
	sum := sha1.Sum([]byte(strings.ToLower(strings.TrimSpace(key))))
	return fmt.Sprintf("rec:%s:%s:%s", corpus, kind, hex.EncodeToString(sum[:]))
}

// GetIDs returns the cached ids; ok is false on a miss.
func (v *ValkeyClient) GetIDs(ctx context.Context, key string) ([]int64, bool, error) {
	raw, err := v.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("cache lookup error: %w", err)
	}

	var ids []int64
	if err := json.Unmarshal(raw, &ids); err != nil {
		return nil, false, fmt.Errorf("invalid cached ids for %s: %w", key, err)
	}
	return ids, true, nil
}

func (v *ValkeyClient) SetIDs(ctx context.Context, key string, ids []int64) error {
	if ids == nil {
		ids = []int64{}
	}
	raw, err := json.Marshal(ids)
	if err != nil {
		return err
	}
	if err := v.client.Set(ctx, key, raw, v.ttl).Err(); err != nil {
		return fmt.Errorf("cache store error: %w", err)
	}
	return nil
}

func (v *ValkeyClient) Ping(ctx context.Context) error {
	return v.client.Ping(ctx).Err()
}

func (v *ValkeyClient) Close() error {
	return v.client.Close()
}
