package models

import "time"

// TokenIdentity 代币身份信息，从交易对记录中提取
type TokenIdentity struct {
	Address     string  `json:"address"`
	Symbol      string  `json:"symbol"`
	Name        string  `json:"name"`
	Chain       string  `json:"chain"` // solana, ethereum, bsc, base
	DexID       string  `json:"dex_id"`
	PairAddress string  `json:"pair_address"`
	PriceUSD    string  `json:"price_usd"`
	PriceNative string  `json:"price_native"`
	MarketCap   float64 `json:"market_cap"`
	Twitter     string  `json:"twitter,omitempty"`
	Telegram    string  `json:"telegram,omitempty"`
	Website     string  `json:"website,omitempty"`
}

// MarketSnapshot 单次评估用的市场快照，不单独持久化
type MarketSnapshot struct {
	LiquidityUSD   float64   `json:"liquidity_usd"`
	Volume24h      float64   `json:"volume_24h"`
	Buys24h        int       `json:"buys_24h"`
	Sells24h       int       `json:"sells_24h"`
	PriceChange1h  float64   `json:"price_change_1h"`
	PriceChange24h float64   `json:"price_change_24h"`
	PairCreatedAt  time.Time `json:"pair_created_at"`
	AgeHours       float64   `json:"age_hours"` // 在采集时刻计算，保证评估可重放
	HasSocialLinks bool      `json:"has_social_links"`
	HasWebsite     bool      `json:"has_website"`
}

// ScannedToken 已扫描代币，按地址唯一，每次重扫原地更新
type ScannedToken struct {
	Address        string    `json:"address"`
	Symbol         string    `json:"symbol"`
	Name           string    `json:"name"`
	Chain          string    `json:"chain"`
	DexID          string    `json:"dex_id"`
	PairAddress    string    `json:"pair_address"`
	PriceUSD       string    `json:"price_usd"`
	PriceNative    string    `json:"price_native"`
	LiquidityUSD   float64   `json:"liquidity_usd"`
	MarketCap      float64   `json:"market_cap"`
	Volume24h      float64   `json:"volume_24h"`
	PriceChange1h  float64   `json:"price_change_1h"`
	PriceChange24h float64   `json:"price_change_24h"`
	Buys24h        int       `json:"buys_24h"`
	Sells24h       int       `json:"sells_24h"`
	Twitter        string    `json:"twitter,omitempty"`
	Telegram       string    `json:"telegram,omitempty"`
	Website        string    `json:"website,omitempty"`
	PairCreatedAt  time.Time `json:"pair_created_at"`
	SafetyScore    int       `json:"safety_score"`
	IsHoneypot     bool      `json:"is_honeypot"`
	RiskLevel      string    `json:"risk_level"`
	AISignal       string    `json:"ai_signal"`
	AIAnalysis     string    `json:"ai_analysis"`
	LastScannedAt  time.Time `json:"last_scanned_at"`
	CreatedAt      time.Time `json:"created_at"`
}

// TokenSignal 交易信号记录，只追加不修改
type TokenSignal struct {
	ID           string    `json:"id"`
	TokenAddress string    `json:"token_address"`
	SignalType   string    `json:"signal_type"` // strong_buy 或 buy
	Confidence   int       `json:"confidence"`
	EntryPrice   string    `json:"entry_price"`
	TargetPrice  string    `json:"target_price,omitempty"`
	StopLoss     string    `json:"stop_loss,omitempty"`
	Reasoning    string    `json:"reasoning"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
}
