package market

import "context"

// PairCache 交易对查询的短期缓存
type PairCache interface {
	GetPairs(ctx context.Context, address string) ([]Pair, bool, error)
	SetPairs(ctx context.Context, address string, pairs []Pair) error
}

// CachedSource wraps a PairSource with a cache on per-token lookups.
// Discovery sweeps are not cached; they must see fresh data every cycle.
type CachedSource struct {
	source PairSource
	cache  PairCache
}

func NewCachedSource(source PairSource, cache PairCache) *CachedSource {
	return &CachedSource{source: source, cache: cache}
}

// ListCandidatePairs implements PairSource interface
func (c *CachedSource) ListCandidatePairs(ctx context.Context, chain string) ([]Pair, error) {
	return c.source.ListCandidatePairs(ctx, chain)
}

// GetPairsForToken implements PairSource interface
func (c *CachedSource) GetPairsForToken(ctx context.Context, address string) ([]Pair, error) {
	if pairs, ok, err := c.cache.GetPairs(ctx, address); err == nil && ok {
		return pairs, nil
	}

	pairs, err := c.source.GetPairsForToken(ctx, address)
	if err != nil {
		return nil, err
	}

	// 缓存失败不影响主流程
	_ = c.cache.SetPairs(ctx, address, pairs)

	return pairs, nil
}
