package market

// Pair is a single trading pair record as reported by the DEX aggregator.
// 字段缺失时解码为零值，由快照构建负责兜底
type Pair struct {
	ChainID       string      `json:"chainId"`
	DexID         string      `json:"dexId"`
	URL           string      `json:"url"`
	PairAddress   string      `json:"pairAddress"`
	BaseToken     Token       `json:"baseToken"`
	QuoteToken    Token       `json:"quoteToken"`
	PriceNative   string      `json:"priceNative"`
	PriceUSD      string      `json:"priceUsd"`
	Txns          PairTxns    `json:"txns"`
	Volume        PairWindow  `json:"volume"`
	PriceChange   PairWindow  `json:"priceChange"`
	Liquidity     *Liquidity  `json:"liquidity"` // 可能为 null
	FDV           float64     `json:"fdv"`
	MarketCap     float64     `json:"marketCap"`
	PairCreatedAt int64       `json:"pairCreatedAt"` // epoch 毫秒
	Info          *PairInfo   `json:"info"`
	Boosts        *PairBoosts `json:"boosts"`
}

// Token represents one side of a trading pair.
type Token struct {
	Address string `json:"address"`
	Name    string `json:"name"`
	Symbol  string `json:"symbol"`
}

// Liquidity holds the pooled value of a pair.
type Liquidity struct {
	USD   float64 `json:"usd"`
	Base  float64 `json:"base"`
	Quote float64 `json:"quote"`
}

// PairTxns holds transaction counts per time window.
type PairTxns struct {
	M5  TxnCount `json:"m5"`
	H1  TxnCount `json:"h1"`
	H6  TxnCount `json:"h6"`
	H24 TxnCount `json:"h24"`
}

// TxnCount holds buy and sell counts for one window.
type TxnCount struct {
	Buys  int `json:"buys"`
	Sells int `json:"sells"`
}

// PairWindow holds a float metric per time window (volume, price change).
type PairWindow struct {
	M5  float64 `json:"m5"`
	H1  float64 `json:"h1"`
	H6  float64 `json:"h6"`
	H24 float64 `json:"h24"`
}

// PairInfo carries optional social metadata.
type PairInfo struct {
	ImageURL string    `json:"imageUrl"`
	Websites []Website `json:"websites"`
	Socials  []Social  `json:"socials"`
}

type Website struct {
	URL string `json:"url"`
}

type Social struct {
	Platform string `json:"platform"`
	Handle   string `json:"handle"`
	URL      string `json:"url"`
}

// PairBoosts carries paid promotion info from the aggregator.
type PairBoosts struct {
	Active int `json:"active"`
}

// TokenProfile is a discovery feed entry (latest/boosted token lists).
type TokenProfile struct {
	URL          string `json:"url"`
	ChainID      string `json:"chainId"`
	TokenAddress string `json:"tokenAddress"`
	Icon         string `json:"icon"`
	Description  string `json:"description"`
}

// LiquidityUSD returns the pooled USD value, 0 when liquidity is absent.
func (p *Pair) LiquidityUSD() float64 {
	if p.Liquidity == nil {
		return 0
	}
	return p.Liquidity.USD
}

// HasSocials reports whether the pair carries at least one social link.
func (p *Pair) HasSocials() bool {
	return p.Info != nil && len(p.Info.Socials) > 0
}

// HasWebsite reports whether the pair carries at least one website link.
func (p *Pair) HasWebsite() bool {
	return p.Info != nil && len(p.Info.Websites) > 0
}
