package dexscreener

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"

	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"

	"github.com/songzhibin97/memescan/internal/market"
	"github.com/songzhibin97/memescan/internal/utils/request"
)

const (
	defaultBaseURL = "https://api.dexscreener.com"

	// 每轮发现最多展开的 profile 数量
	maxProfilesPerSweep = 30

	// 候选交易对的最低流动性，低于此值直接丢弃
	minCandidateLiquidity = 1000
)

// Client implements the market.PairSource interface against DexScreener.
type Client struct {
	baseURL    string
	httpClient *resty.Client
	limiter    *rate.Limiter // 对上游的自我限速
}

// NewClient creates a DexScreener client. rps limits outbound profile
// expansion calls; DexScreener bans aggressive callers.
func NewClient(rps float64) *Client {
	if rps <= 0 {
		rps = 5
	}
	return &Client{
		baseURL:    defaultBaseURL,
		httpClient: request.Request,
		limiter:    rate.NewLimiter(rate.Limit(rps), 1),
	}
}

// LatestTokenProfiles returns the most recently listed token profiles.
func (c *Client) LatestTokenProfiles(ctx context.Context) ([]market.TokenProfile, error) {
	return c.fetchProfiles(ctx, "/token-profiles/latest/v1")
}

// LatestBoostedTokens returns tokens with recently purchased boosts.
func (c *Client) LatestBoostedTokens(ctx context.Context) ([]market.TokenProfile, error) {
	return c.fetchProfiles(ctx, "/token-boosts/latest/v1")
}

// TopBoostedTokens returns tokens with the most active boosts.
func (c *Client) TopBoostedTokens(ctx context.Context) ([]market.TokenProfile, error) {
	return c.fetchProfiles(ctx, "/token-boosts/top/v1")
}

// GetPairsForToken implements market.PairSource.
func (c *Client) GetPairsForToken(ctx context.Context, address string) ([]market.Pair, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/latest/dex/tokens/%s", c.baseURL, address)
	resp, err := c.httpClient.R().SetContext(ctx).Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode())
	}

	var result struct {
		Pairs []market.Pair `json:"pairs"`
	}
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return result.Pairs, nil
}

// GetPair returns a single pair by chain and pair address.
func (c *Client) GetPair(ctx context.Context, chain, pairAddress string) (*market.Pair, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/latest/dex/pairs/%s/%s", c.baseURL, chain, pairAddress)
	resp, err := c.httpClient.R().SetContext(ctx).Get(url)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode())
	}

	var result struct {
		Pair *market.Pair `json:"pair"`
	}
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if result.Pair == nil {
		return nil, fmt.Errorf("pair not found: %s/%s", chain, pairAddress)
	}

	return result.Pair, nil
}

// SearchPairs searches pairs by free-text query.
func (c *Client) SearchPairs(ctx context.Context, query string) ([]market.Pair, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetQueryParam("q", query).
		Get(c.baseURL + "/latest/dex/search")
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode())
	}

	var result struct {
		Pairs []market.Pair `json:"pairs"`
	}
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return result.Pairs, nil
}

// ListCandidatePairs implements market.PairSource. It merges the three
// discovery feeds, deduplicates by token address, keeps the given chain,
// expands each profile into its most liquid pair and returns candidates
// sorted by 24h volume descending.
func (c *Client) ListCandidatePairs(ctx context.Context, chain string) ([]market.Pair, error) {
	latest, err := c.LatestTokenProfiles(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch latest profiles: %w", err)
	}
	boosted, err := c.LatestBoostedTokens(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch boosted tokens: %w", err)
	}
	topBoosted, err := c.TopBoostedTokens(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch top boosted tokens: %w", err)
	}

	seen := make(map[string]struct{})
	var profiles []market.TokenProfile
	for _, p := range append(append(latest, boosted...), topBoosted...) {
		if p.ChainID != chain || p.TokenAddress == "" {
			continue
		}
		if _, ok := seen[p.TokenAddress]; ok {
			continue
		}
		seen[p.TokenAddress] = struct{}{}
		profiles = append(profiles, p)
	}
	if len(profiles) > maxProfilesPerSweep {
		profiles = profiles[:maxProfilesPerSweep]
	}

	var candidates []market.Pair
	for _, profile := range profiles {
		pairs, err := c.GetPairsForToken(ctx, profile.TokenAddress)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			continue // 单个 profile 失败不影响整轮发现
		}

		best := mostLiquid(pairs)
		if best == nil || best.LiquidityUSD() < minCandidateLiquidity {
			continue
		}
		candidates = append(candidates, *best)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Volume.H24 > candidates[j].Volume.H24
	})

	return candidates, nil
}

func (c *Client) fetchProfiles(ctx context.Context, path string) ([]market.TokenProfile, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	resp, err := c.httpClient.R().SetContext(ctx).Get(c.baseURL + path)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode())
	}

	var profiles []market.TokenProfile
	if err := json.Unmarshal(resp.Body(), &profiles); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return profiles, nil
}

func mostLiquid(pairs []market.Pair) *market.Pair {
	var best *market.Pair
	for i := range pairs {
		if best == nil || pairs[i].LiquidityUSD() > best.LiquidityUSD() {
			best = &pairs[i]
		}
	}
	return best
}
