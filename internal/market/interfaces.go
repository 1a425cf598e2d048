package market

import "context"

// PairSource 负责从外部聚合器获取交易对数据
type PairSource interface {
	// ListCandidatePairs returns the best pair for each currently
	// promoted/trending token on the given chain, sorted by 24h volume.
	ListCandidatePairs(ctx context.Context, chain string) ([]Pair, error)

	// GetPairsForToken returns all known pairs for a token address.
	GetPairsForToken(ctx context.Context, address string) ([]Pair, error)
}
