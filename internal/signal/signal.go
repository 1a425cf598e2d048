package signal

import (
	"fmt"
	"strings"

	"github.com/songzhibin97/memescan/internal/models"
	"github.com/songzhibin97/memescan/internal/safety"
)

// Type 交易信号类别
type Type string

const (
	StrongBuy Type = "strong_buy"
	Buy       Type = "buy"
	Hold      Type = "hold"
	Sell      Type = "sell"
	Avoid     Type = "avoid"
)

// TradingSignal 离散交易建议
type TradingSignal struct {
	Type             Type   `json:"signal_type"`
	Confidence       int    `json:"confidence"` // 0-100
	Reasoning        string `json:"reasoning"`
	IsSafeInvestment bool   `json:"is_safe_investment"`
}

// Decide derives a trading signal from a safety report and the snapshot it
// was computed from. Deterministic ordered decision list: the first matching
// branch wins, so a snapshot qualifying for both strong_buy and buy resolves
// to strong_buy. Reasoning embeds the actual numbers so the call is auditable.
func Decide(report safety.Report, snapshot models.MarketSnapshot) TradingSignal {
	buys, sells := snapshot.Buys24h, snapshot.Sells24h
	liquidity := snapshot.LiquidityUSD
	volume := snapshot.Volume24h
	change1h := snapshot.PriceChange1h
	change24h := snapshot.PriceChange24h

	if report.RiskLevel == safety.RiskCritical || report.IsHoneypot {
		return TradingSignal{
			Type:       Avoid,
			Confidence: 90,
			Reasoning:  "Critical risk level. " + strings.Join(topN(report.Risks, 2), ". "),
		}
	}

	if report.RiskLevel == safety.RiskHigh {
		return TradingSignal{
			Type:       Avoid,
			Confidence: 75,
			Reasoning:  "High risk. " + strings.Join(topN(report.Risks, 2), ". "),
		}
	}

	isNewToken := snapshot.AgeHours < 6
	hasStrongLiquidity := liquidity > 50000
	hasGoodLiquidity := liquidity > 20000
	hasStrongVolume := volume > 50000
	hasGoodVolume := volume > 10000
	hasBuyPressure := float64(buys) > float64(sells)*1.5
	hasStrongBuyPressure := buys > sells*2
	isRising := change1h > 10 || change24h > 50
	hasSocials := hasSocialPositive(report)

	if report.Score >= 70 && hasStrongLiquidity && hasStrongVolume &&
		hasStrongBuyPressure && !report.IsHoneypot && change1h > 0 && change1h < 200 {
		return TradingSignal{
			Type:       StrongBuy,
			Confidence: minInt(95, report.Score+10),
			Reasoning: fmt.Sprintf(
				"TOP PICK! Strong fundamentals: $%.0fK liquidity, $%.0fK volume, %.1fx buy ratio. Safety: %d/100",
				liquidity/1000, volume/1000, buyRatio(buys, sells), report.Score),
			IsSafeInvestment: true,
		}
	}

	if isNewToken && hasGoodLiquidity && hasGoodVolume && hasBuyPressure && report.Score >= 65 {
		return TradingSignal{
			Type:       Buy,
			Confidence: minInt(85, report.Score),
			Reasoning: fmt.Sprintf(
				"SAFE ENTRY: New token with strong metrics. Liquidity: $%s, Volume: $%s, Buy/Sell ratio: %.1fx",
				formatUSD(liquidity), formatUSD(volume), buyRatio(buys, sells)),
			IsSafeInvestment: true,
		}
	}

	if hasGoodLiquidity && isRising && hasBuyPressure && report.Score >= 60 && hasSocials {
		return TradingSignal{
			Type:       Buy,
			Confidence: minInt(75, report.Score),
			Reasoning: fmt.Sprintf(
				"GOOD OPPORTUNITY: Positive momentum +%.1f%% in 1h. Verified socials. %s",
				change1h, strings.Join(topN(report.Positives, 1), ". ")),
			IsSafeInvestment: true,
		}
	}

	if hasGoodLiquidity && isRising && hasBuyPressure && report.Score >= 55 {
		reasoning := "Positive momentum detected. "
		if change1h > 10 {
			reasoning += fmt.Sprintf("+%.1f%% in 1h. ", change1h)
		}
		reasoning += strings.Join(topN(report.Positives, 2), ". ")
		return TradingSignal{
			Type:             Buy,
			Confidence:       minInt(70, report.Score),
			Reasoning:        reasoning,
			IsSafeInvestment: report.Score >= 65,
		}
	}

	if change1h < -20 || sells > buys*2 {
		reasoning := "Bearish signals. "
		if change1h < -20 {
			reasoning += fmt.Sprintf("Price down %.1f%% in 1h. ", change1h)
		}
		reasoning += "Heavy sell pressure."
		return TradingSignal{
			Type:       Sell,
			Confidence: 65,
			Reasoning:  reasoning,
		}
	}

	return TradingSignal{
		Type:             Hold,
		Confidence:       50,
		Reasoning:        "Neutral market conditions. Monitor for better entry/exit opportunities.",
		IsSafeInvestment: report.Score >= 70,
	}
}

// Actionable reports whether the signal is worth persisting as a record.
func (s TradingSignal) Actionable(minConfidence int) bool {
	return (s.Type == Buy || s.Type == StrongBuy) && s.Confidence >= minConfidence
}

func hasSocialPositive(report safety.Report) bool {
	for _, p := range report.Positives {
		if strings.Contains(p, "social") || strings.Contains(p, "website") {
			return true
		}
	}
	return false
}

func buyRatio(buys, sells int) float64 {
	if sells < 1 {
		sells = 1
	}
	return float64(buys) / float64(sells)
}

func topN(items []string, n int) []string {
	if len(items) > n {
		return items[:n]
	}
	return items
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// formatUSD renders a dollar amount with thousands separators, e.g. 25000 -> "25,000".
func formatUSD(v float64) string {
	s := fmt.Sprintf("%.0f", v)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	for i := len(s) - 3; i > 0; i -= 3 {
		s = s[:i] + "," + s[i:]
	}
	if neg {
		s = "-" + s
	}
	return s
}
