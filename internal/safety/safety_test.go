package safety

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/songzhibin97/memescan/internal/models"
)

func TestEvaluate_Scenarios(t *testing.T) {
	tests := []struct {
		name         string
		snapshot     models.MarketSnapshot
		wantScore    int
		wantLevel    RiskLevel
		wantHoneypot bool
	}{
		{
			// 健康代币：强流动性 + 社交 → 低风险
			name: "strong fundamentals",
			snapshot: models.MarketSnapshot{
				LiquidityUSD:   150000,
				Volume24h:      80000,
				Buys24h:        300,
				Sells24h:       100,
				PriceChange1h:  15,
				AgeHours:       2,
				HasSocialLinks: true,
			},
			wantScore:    70, // 50 +15 强流动性 +5 社交
			wantLevel:    RiskLow,
			wantHoneypot: false,
		},
		{
			// 蜜罐：只买不卖，叠加低流动性罚分后触底
			name: "honeypot with low liquidity",
			snapshot: models.MarketSnapshot{
				LiquidityUSD: 500,
				Buys24h:      20,
				Sells24h:     0,
			},
			wantScore:    0, // 50 -25 -30 -15 -10 截断到 0
			wantLevel:    RiskCritical,
			wantHoneypot: true,
		},
		{
			// 全零快照：多条罚分规则独立叠加
			name: "empty market",
			snapshot: models.MarketSnapshot{
				AgeHours: 0.5,
			},
			wantScore:    0, // 50 -25 -10 -15 -10 = -10，截断到 0
			wantLevel:    RiskCritical,
			wantHoneypot: false,
		},
		{
			// 所有加分规则同时命中，上限截断到 100
			name: "everything positive clamps to 100",
			snapshot: models.MarketSnapshot{
				LiquidityUSD:   200000,
				Volume24h:      200000,
				Buys24h:        900,
				Sells24h:       100,
				PriceChange24h: 200,
				AgeHours:       200,
				HasSocialLinks: true,
				HasWebsite:     true,
			},
			wantScore:    100, // 50 +15 +10 +5 +5 +10 +5 +5 = 105
			wantLevel:    RiskLow,
			wantHoneypot: false,
		},
		{
			name: "heavy selling pressure",
			snapshot: models.MarketSnapshot{
				LiquidityUSD:   30000,
				Volume24h:      5000,
				Buys24h:        10,
				Sells24h:       90,
				PriceChange24h: -60,
				AgeHours:       48,
				HasWebsite:     true,
			},
			wantScore:    35, // 50 -10 卖压 -10 跌幅 +5 官网
			wantLevel:    RiskHigh,
			wantHoneypot: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report := Evaluate(tt.snapshot)

			assert.Equal(t, tt.wantScore, report.Score)
			assert.Equal(t, tt.wantLevel, report.RiskLevel)
			assert.Equal(t, tt.wantHoneypot, report.IsHoneypot)
			assert.GreaterOrEqual(t, report.Score, 0)
			assert.LessOrEqual(t, report.Score, 100)
		})
	}
}

func TestEvaluate_Deterministic(t *testing.T) {
	snapshot := models.MarketSnapshot{
		LiquidityUSD:   42000,
		Volume24h:      9000,
		Buys24h:        120,
		Sells24h:       80,
		PriceChange1h:  3,
		PriceChange24h: 40,
		AgeHours:       30,
		HasSocialLinks: true,
	}

	first := Evaluate(snapshot)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Evaluate(snapshot))
	}
}

func TestEvaluate_HoneypotIndependentOfScore(t *testing.T) {
	// 即使其他指标全部优秀，无卖单依然判定蜜罐
	report := Evaluate(models.MarketSnapshot{
		LiquidityUSD:   500000,
		Volume24h:      300000,
		Buys24h:        400,
		Sells24h:       0,
		AgeHours:       300,
		HasSocialLinks: true,
		HasWebsite:     true,
	})

	assert.True(t, report.IsHoneypot)
	assert.Contains(t, report.Risks, "No sell transactions - Possible honeypot")
}

func TestEvaluate_SharedSocialBonus(t *testing.T) {
	base := models.MarketSnapshot{
		LiquidityUSD: 30000,
		Volume24h:    5000,
		Buys24h:      100,
		Sells24h:     100,
		AgeHours:     48,
	}

	onlySocials := base
	onlySocials.HasSocialLinks = true

	both := base
	both.HasSocialLinks = true
	both.HasWebsite = true

	// 社交与官网共用一个 +5，同时存在也只加一次
	assert.Equal(t, Evaluate(onlySocials).Score, Evaluate(both).Score)
	assert.Len(t, Evaluate(both).Positives, 2)
}

func TestEvaluate_AgeRulesAreInformational(t *testing.T) {
	base := models.MarketSnapshot{
		LiquidityUSD: 30000,
		Volume24h:    5000,
		Buys24h:      100,
		Sells24h:     100,
		HasWebsite:   true,
	}

	brandNew := base
	brandNew.AgeHours = 0.2
	veryNew := base
	veryNew.AgeHours = 5

	newReport := Evaluate(brandNew)
	assert.Contains(t, newReport.Risks, "Brand new token (<1 hour)")
	assert.Equal(t, newReport.Score, Evaluate(veryNew).Score)
}

func TestEvaluate_UncheckedFactorsAlwaysReported(t *testing.T) {
	report := Evaluate(models.MarketSnapshot{})

	require.Len(t, report.UncheckedFactors, 3)
	assert.Contains(t, report.UncheckedFactors[0], "Liquidity lock")
}

func TestLevelForScore(t *testing.T) {
	tests := []struct {
		score int
		want  RiskLevel
	}{
		{100, RiskLow},
		{70, RiskLow},
		{69, RiskMedium},
		{50, RiskMedium},
		{49, RiskHigh},
		{30, RiskHigh},
		{29, RiskCritical},
		{0, RiskCritical},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, levelForScore(tt.score), "score %d", tt.score)
	}
}
