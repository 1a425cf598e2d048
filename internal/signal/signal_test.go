package signal

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/songzhibin97/memescan/internal/models"
	"github.com/songzhibin97/memescan/internal/safety"
)

func TestDecide_HoneypotAlwaysAvoid(t *testing.T) {
	// 其他指标再好，蜜罐一律回避
	report := safety.Report{
		Score:      95,
		RiskLevel:  safety.RiskLow,
		IsHoneypot: true,
		Risks:      []string{"No sell transactions - Possible honeypot"},
	}
	snapshot := models.MarketSnapshot{
		LiquidityUSD:  500000,
		Volume24h:     300000,
		Buys24h:       400,
		PriceChange1h: 20,
	}

	decision := Decide(report, snapshot)

	assert.Equal(t, Avoid, decision.Type)
	assert.Equal(t, 90, decision.Confidence)
	assert.False(t, decision.IsSafeInvestment)
	assert.Contains(t, decision.Reasoning, "honeypot")
}

func TestDecide_BranchOrdering(t *testing.T) {
	// 同时满足 strong_buy 和 buy 条件时，先匹配者胜出
	report := safety.Report{
		Score:     70,
		RiskLevel: safety.RiskLow,
		Positives: []string{"Strong liquidity (>$100K)", "Has social media presence"},
	}
	snapshot := models.MarketSnapshot{
		LiquidityUSD:  150000,
		Volume24h:     80000,
		Buys24h:       300,
		Sells24h:      100,
		PriceChange1h: 15,
		AgeHours:      2, // 同时命中新币 buy 分支
	}

	decision := Decide(report, snapshot)

	assert.Equal(t, StrongBuy, decision.Type)
	assert.Equal(t, 80, decision.Confidence) // min(95, 70+10)
	assert.True(t, decision.IsSafeInvestment)
	// 推理串必须携带实际数值
	assert.Contains(t, decision.Reasoning, "$150K liquidity")
	assert.Contains(t, decision.Reasoning, "$80K volume")
	assert.Contains(t, decision.Reasoning, "3.0x buy ratio")
	assert.Contains(t, decision.Reasoning, "70/100")
}

func TestDecide(t *testing.T) {
	tests := []struct {
		name       string
		report     safety.Report
		snapshot   models.MarketSnapshot
		wantType   Type
		wantConf   int
		wantSafe   bool
		wantReason string
	}{
		{
			name:       "critical risk avoid",
			report:     safety.Report{Score: 10, RiskLevel: safety.RiskCritical, Risks: []string{"Very low liquidity (<$1K) - High rug risk", "Almost no trading volume", "No social links or website"}},
			snapshot:   models.MarketSnapshot{},
			wantType:   Avoid,
			wantConf:   90,
			wantReason: "Critical risk level. Very low liquidity (<$1K) - High rug risk. Almost no trading volume",
		},
		{
			name:       "high risk avoid",
			report:     safety.Report{Score: 35, RiskLevel: safety.RiskHigh, Risks: []string{"Low liquidity (<$10K) - Moderate rug risk"}},
			snapshot:   models.MarketSnapshot{},
			wantType:   Avoid,
			wantConf:   75,
			wantReason: "High risk. Low liquidity (<$10K) - Moderate rug risk",
		},
		{
			name:   "new token safe entry",
			report: safety.Report{Score: 65, RiskLevel: safety.RiskMedium},
			snapshot: models.MarketSnapshot{
				LiquidityUSD:  25000,
				Volume24h:     15000,
				Buys24h:       30,
				Sells24h:      10,
				PriceChange1h: 5,
				AgeHours:      3,
			},
			wantType:   Buy,
			wantConf:   65, // min(85, 65)
			wantSafe:   true,
			wantReason: "SAFE ENTRY: New token with strong metrics. Liquidity: $25,000, Volume: $15,000, Buy/Sell ratio: 3.0x",
		},
		{
			name:   "momentum with socials",
			report: safety.Report{Score: 60, RiskLevel: safety.RiskMedium, Positives: []string{"Has social media presence"}},
			snapshot: models.MarketSnapshot{
				LiquidityUSD:  25000,
				Volume24h:     5000,
				Buys24h:       30,
				Sells24h:      10,
				PriceChange1h: 15,
				AgeHours:      10,
			},
			wantType:   Buy,
			wantConf:   60, // min(75, 60)
			wantSafe:   true,
			wantReason: "GOOD OPPORTUNITY: Positive momentum +15.0% in 1h. Verified socials. Has social media presence",
		},
		{
			name:   "momentum without socials",
			report: safety.Report{Score: 57, RiskLevel: safety.RiskMedium, Positives: []string{"Good liquidity (>$50K)"}},
			snapshot: models.MarketSnapshot{
				LiquidityUSD:  25000,
				Volume24h:     5000,
				Buys24h:       30,
				Sells24h:      10,
				PriceChange1h: 15,
				AgeHours:      10,
			},
			wantType:   Buy,
			wantConf:   57,    // min(70, 57)
			wantSafe:   false, // 57 < 65
			wantReason: "Positive momentum detected. +15.0% in 1h. Good liquidity (>$50K)",
		},
		{
			name:   "bearish sell",
			report: safety.Report{Score: 55, RiskLevel: safety.RiskMedium},
			snapshot: models.MarketSnapshot{
				LiquidityUSD:  15000,
				Buys24h:       10,
				Sells24h:      30,
				PriceChange1h: -25,
				AgeHours:      10,
			},
			wantType:   Sell,
			wantConf:   65,
			wantReason: "Bearish signals. Price down -25.0% in 1h. Heavy sell pressure.",
		},
		{
			name:   "sell on heavy sells without price drop",
			report: safety.Report{Score: 55, RiskLevel: safety.RiskMedium},
			snapshot: models.MarketSnapshot{
				LiquidityUSD: 15000,
				Buys24h:      10,
				Sells24h:     30,
				AgeHours:     10,
			},
			wantType:   Sell,
			wantConf:   65,
			wantReason: "Bearish signals. Heavy sell pressure.",
		},
		{
			name:   "neutral hold safe",
			report: safety.Report{Score: 72, RiskLevel: safety.RiskLow},
			snapshot: models.MarketSnapshot{
				LiquidityUSD: 15000,
				Volume24h:    5000,
				Buys24h:      50,
				Sells24h:     50,
				AgeHours:     48,
			},
			wantType:   Hold,
			wantConf:   50,
			wantSafe:   true, // score >= 70
			wantReason: "Neutral market conditions. Monitor for better entry/exit opportunities.",
		},
		{
			name:   "neutral hold unsafe",
			report: safety.Report{Score: 55, RiskLevel: safety.RiskMedium},
			snapshot: models.MarketSnapshot{
				LiquidityUSD: 15000,
				Volume24h:    5000,
				Buys24h:      50,
				Sells24h:     50,
				AgeHours:     48,
			},
			wantType:   Hold,
			wantConf:   50,
			wantSafe:   false,
			wantReason: "Neutral market conditions. Monitor for better entry/exit opportunities.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decision := Decide(tt.report, tt.snapshot)

			assert.Equal(t, tt.wantType, decision.Type)
			assert.Equal(t, tt.wantConf, decision.Confidence)
			assert.Equal(t, tt.wantSafe, decision.IsSafeInvestment)
			assert.Equal(t, tt.wantReason, decision.Reasoning)
		})
	}
}

func TestTradingSignal_Actionable(t *testing.T) {
	assert.True(t, TradingSignal{Type: Buy, Confidence: 60}.Actionable(60))
	assert.True(t, TradingSignal{Type: StrongBuy, Confidence: 90}.Actionable(60))
	assert.False(t, TradingSignal{Type: Buy, Confidence: 59}.Actionable(60))
	assert.False(t, TradingSignal{Type: Hold, Confidence: 90}.Actionable(60))
	assert.False(t, TradingSignal{Type: Avoid, Confidence: 90}.Actionable(60))
}

func TestFormatUSD(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{25000, "25,000"},
		{1234567, "1,234,567"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, formatUSD(tt.in))
	}
}
