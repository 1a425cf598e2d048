package ai

import (
	"fmt"

	"github.com/songzhibin97/memescan/internal/safety"
	"github.com/songzhibin97/memescan/internal/signal"
)

// Fallback builds a deterministic summary purely from the safety report.
// It is the unconditional degradation path when a Summarizer fails: the
// numeric score never depends on an external service being up.
func Fallback(tc TokenContext) *Summary {
	sig := signal.Hold
	if tc.Safety.RiskLevel == safety.RiskCritical || tc.Safety.RiskLevel == safety.RiskHigh {
		sig = signal.Avoid
	}

	reasoning := "Based on safety analysis. "
	if len(tc.Safety.Risks) > 0 {
		reasoning += tc.Safety.Risks[0]
	} else {
		reasoning += "Monitor for changes."
	}

	return &Summary{
		Summary: fmt.Sprintf("%s token on %s. Safety score: %d/100.",
			tc.Identity.Symbol, tc.Identity.Chain, tc.Safety.Score),
		Signal:     sig,
		Confidence: tc.Safety.Score,
		Reasoning:  reasoning,
		Risks:      firstN(tc.Safety.Risks, 2),
		Catalysts:  firstN(tc.Safety.Positives, 2),
	}
}

func firstN(items []string, n int) []string {
	if len(items) > n {
		return items[:n]
	}
	return items
}
