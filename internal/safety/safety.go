package safety

import (
	"github.com/songzhibin97/memescan/internal/models"
)

// RiskLevel 按分数划分的风险档位
type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskMedium   RiskLevel = "medium"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
)

// Report 安全评估结果
type Report struct {
	Score            int       `json:"score"` // 0-100
	RiskLevel        RiskLevel `json:"risk_level"`
	IsHoneypot       bool      `json:"is_honeypot"`
	Risks            []string  `json:"risks"`
	Positives        []string  `json:"positives"`
	UncheckedFactors []string  `json:"unchecked_factors"`
}

const baseScore = 50

// uncheckedFactors are always reported: this engine has no on-chain access,
// so these must never be read as verified-safe.
var uncheckedFactors = []string{
	"Liquidity lock status (requires on-chain analysis)",
	"Mint authority status (requires on-chain analysis)",
	"Top holder concentration (requires holder snapshot)",
}

// Evaluate scores a market snapshot. Deterministic, no I/O: the score starts
// at 50 and a fixed ordered rule set adds and subtracts from it before
// clamping to [0,100]. Rules are independent; several can fire at once, e.g.
// the no-sells honeypot penalty and the low-liquidity penalty stack.
func Evaluate(snapshot models.MarketSnapshot) Report {
	var risks, positives []string
	score := baseScore

	liquidity := snapshot.LiquidityUSD
	switch {
	case liquidity < 1000:
		risks = append(risks, "Very low liquidity (<$1K) - High rug risk")
		score -= 25
	case liquidity < 10000:
		risks = append(risks, "Low liquidity (<$10K) - Moderate rug risk")
		score -= 15
	case liquidity > 100000:
		positives = append(positives, "Strong liquidity (>$100K)")
		score += 15
	case liquidity > 50000:
		positives = append(positives, "Good liquidity (>$50K)")
		score += 10
	}

	buys, sells := snapshot.Buys24h, snapshot.Sells24h
	totalTxns := buys + sells
	if totalTxns < 10 {
		risks = append(risks, "Very few transactions - Possible dead token")
		score -= 10
	} else if totalTxns > 500 {
		positives = append(positives, "High trading activity (>500 txns/24h)")
		score += 10
	}

	isHoneypot := sells == 0 && buys > 10
	if isHoneypot {
		risks = append(risks, "No sell transactions - Possible honeypot")
		score -= 30
	} else if buys > 0 && sells > 0 {
		buyRatio := float64(buys) / float64(buys+sells)
		if buyRatio > 0.8 {
			positives = append(positives, "Strong buying pressure")
			score += 5
		} else if buyRatio < 0.2 {
			risks = append(risks, "Heavy selling pressure")
			score -= 10
		}
	}

	change24h := snapshot.PriceChange24h
	switch {
	case change24h < -80:
		risks = append(risks, "Massive price drop (>80%) - Possible dump")
		score -= 20
	case change24h < -50:
		risks = append(risks, "Large price drop (>50%)")
		score -= 10
	case change24h > 500:
		risks = append(risks, "Extreme price increase (>500%) - High volatility")
		score -= 5
	case change24h > 100:
		positives = append(positives, "Strong price momentum (+100%)")
		score += 5
	}

	volume := snapshot.Volume24h
	if volume < 100 {
		risks = append(risks, "Almost no trading volume")
		score -= 15
	} else if volume > 100000 {
		positives = append(positives, "High trading volume (>$100K)")
		score += 10
	}

	if !snapshot.HasSocialLinks && !snapshot.HasWebsite {
		risks = append(risks, "No social links or website")
		score -= 10
	} else {
		// 社交与官网共用一个 +5，只加一次
		if snapshot.HasSocialLinks {
			positives = append(positives, "Has social media presence")
		}
		if snapshot.HasWebsite {
			positives = append(positives, "Has official website")
		}
		score += 5
	}

	// 年龄提示不改变分数，只有超过一周才加分
	switch {
	case snapshot.AgeHours < 1:
		risks = append(risks, "Brand new token (<1 hour)")
	case snapshot.AgeHours < 24:
		risks = append(risks, "Very new token (<24 hours)")
	case snapshot.AgeHours > 168:
		positives = append(positives, "Token has history (>1 week)")
		score += 5
	}

	if score < 0 {
		score = 0
	} else if score > 100 {
		score = 100
	}

	return Report{
		Score:            score,
		RiskLevel:        levelForScore(score),
		IsHoneypot:       isHoneypot,
		Risks:            risks,
		Positives:        positives,
		UncheckedFactors: uncheckedFactors,
	}
}

func levelForScore(score int) RiskLevel {
	switch {
	case score >= 70:
		return RiskLow
	case score >= 50:
		return RiskMedium
	case score >= 30:
		return RiskHigh
	default:
		return RiskCritical
	}
}
