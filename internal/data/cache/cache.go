package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/songzhibin97/memescan/internal/market"
)

const defaultTTL = 30 * time.Second

// PairCache 短期缓存交易对查询结果，避免按需重扫时重复打上游接口
type PairCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewPairCache(addr, password string, db int, ttl time.Duration) *PairCache {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &PairCache{
		client: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
			DB:       db,
		}),
		ttl: ttl,
	}
}

// GetPairs returns cached pairs for a token address. The second return is
// false on a cache miss.
func (c *PairCache) GetPairs(ctx context.Context, address string) ([]market.Pair, bool, error) {
	raw, err := c.client.Get(ctx, pairKey(address)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read pair cache: %w", err)
	}

	var pairs []market.Pair
	if err := json.Unmarshal(raw, &pairs); err != nil {
		return nil, false, fmt.Errorf("failed to decode cached pairs: %w", err)
	}

	return pairs, true, nil
}

// SetPairs stores pairs for a token address with the configured TTL.
func (c *PairCache) SetPairs(ctx context.Context, address string, pairs []market.Pair) error {
	raw, err := json.Marshal(pairs)
	if err != nil {
		return fmt.Errorf("failed to encode pairs: %w", err)
	}

	if err := c.client.Set(ctx, pairKey(address), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write pair cache: %w", err)
	}

	return nil
}

func (c *PairCache) Close() error {
	return c.client.Close()
}

func pairKey(address string) string {
	return "memescan:pairs:" + address
}
