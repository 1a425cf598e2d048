package market

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	pairs     map[string][]Pair
	tokenHits int
	listHits  int
}

func (f *fakeSource) ListCandidatePairs(ctx context.Context, chain string) ([]Pair, error) {
	f.listHits++
	return nil, nil
}

func (f *fakeSource) GetPairsForToken(ctx context.Context, address string) ([]Pair, error) {
	f.tokenHits++
	return f.pairs[address], nil
}

type fakeCache struct {
	entries map[string][]Pair
}

func (f *fakeCache) GetPairs(ctx context.Context, address string) ([]Pair, bool, error) {
	pairs, ok := f.entries[address]
	return pairs, ok, nil
}

func (f *fakeCache) SetPairs(ctx context.Context, address string, pairs []Pair) error {
	f.entries[address] = pairs
	return nil
}

func TestCachedSource_GetPairsForToken(t *testing.T) {
	source := &fakeSource{pairs: map[string][]Pair{
		"TOKEN1": {{ChainID: "solana", PairAddress: "PAIR1"}},
	}}
	cached := NewCachedSource(source, &fakeCache{entries: make(map[string][]Pair)})
	ctx := context.Background()

	first, err := cached.GetPairsForToken(ctx, "TOKEN1")
	require.NoError(t, err)
	require.Len(t, first, 1)
	assert.Equal(t, 1, source.tokenHits)

	// 第二次命中缓存，不再打上游
	second, err := cached.GetPairsForToken(ctx, "TOKEN1")
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, source.tokenHits)
}

func TestCachedSource_DiscoveryNotCached(t *testing.T) {
	source := &fakeSource{}
	cached := NewCachedSource(source, &fakeCache{entries: make(map[string][]Pair)})
	ctx := context.Background()

	_, err := cached.ListCandidatePairs(ctx, "solana")
	require.NoError(t, err)
	_, err = cached.ListCandidatePairs(ctx, "solana")
	require.NoError(t, err)

	// 发现扫描每轮都要新数据
	assert.Equal(t, 2, source.listHits)
}
