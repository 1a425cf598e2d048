package market

import (
	"errors"
	"time"

	"github.com/songzhibin97/memescan/internal/models"
)

// ErrInvalidPair 交易对缺少必需字段，调用方应跳过该记录
var ErrInvalidPair = errors.New("pair record missing base token address")

// BuildSnapshot normalizes a raw pair record into the fixed snapshot the
// scorer consumes, plus the token identity fields for persistence.
// Missing numeric fields become 0; a missing creation timestamp yields an
// age of 0 hours, which downstream treats as a brand new token.
func BuildSnapshot(pair *Pair, now time.Time) (models.MarketSnapshot, models.TokenIdentity, error) {
	if pair.BaseToken.Address == "" {
		return models.MarketSnapshot{}, models.TokenIdentity{}, ErrInvalidPair
	}

	snapshot := models.MarketSnapshot{
		LiquidityUSD:   pair.LiquidityUSD(),
		Volume24h:      pair.Volume.H24,
		Buys24h:        pair.Txns.H24.Buys,
		Sells24h:       pair.Txns.H24.Sells,
		PriceChange1h:  pair.PriceChange.H1,
		PriceChange24h: pair.PriceChange.H24,
		HasSocialLinks: pair.HasSocials(),
		HasWebsite:     pair.HasWebsite(),
	}

	if pair.PairCreatedAt > 0 {
		snapshot.PairCreatedAt = time.UnixMilli(pair.PairCreatedAt).UTC()
		snapshot.AgeHours = now.Sub(snapshot.PairCreatedAt).Hours()
		if snapshot.AgeHours < 0 {
			snapshot.AgeHours = 0
		}
	}

	marketCap := pair.MarketCap
	if marketCap == 0 {
		marketCap = pair.FDV
	}

	identity := models.TokenIdentity{
		Address:     pair.BaseToken.Address,
		Symbol:      pair.BaseToken.Symbol,
		Name:        pair.BaseToken.Name,
		Chain:       pair.ChainID,
		DexID:       pair.DexID,
		PairAddress: pair.PairAddress,
		PriceUSD:    pair.PriceUSD,
		PriceNative: pair.PriceNative,
		MarketCap:   marketCap,
	}
	identity.Twitter = socialLink(pair, "twitter")
	identity.Telegram = socialLink(pair, "telegram")
	if pair.Info != nil && len(pair.Info.Websites) > 0 {
		identity.Website = pair.Info.Websites[0].URL
	}

	return snapshot, identity, nil
}

// BestPair picks the pair to evaluate: the first one on the requested chain,
// or the first pair overall when the chain has none.
func BestPair(pairs []Pair, chain string) *Pair {
	if len(pairs) == 0 {
		return nil
	}
	for i := range pairs {
		if pairs[i].ChainID == chain {
			return &pairs[i]
		}
	}
	return &pairs[0]
}

func socialLink(pair *Pair, platform string) string {
	if pair.Info == nil {
		return ""
	}
	for _, s := range pair.Info.Socials {
		if s.Platform != platform {
			continue
		}
		if s.Handle != "" {
			return s.Handle
		}
		return s.URL
	}
	return ""
}
