package ai

import (
	"context"

	"github.com/songzhibin97/memescan/internal/models"
	"github.com/songzhibin97/memescan/internal/safety"
	"github.com/songzhibin97/memescan/internal/signal"
)

// Summarizer produces an enriched textual analysis of a scored token.
// Implementations may call external services; callers must treat failures
// as recoverable and fall back to Fallback.
type Summarizer interface {
	// Summarize analyzes the token context and returns a trading summary
	Summarize(ctx context.Context, tc TokenContext) (*Summary, error)
}

// TokenContext 深度分析输入：身份 + 快照 + 安全评估
type TokenContext struct {
	Identity models.TokenIdentity  `json:"identity"`
	Snapshot models.MarketSnapshot `json:"snapshot"`
	Safety   safety.Report         `json:"safety"`
}

// Summary 深度分析结果
type Summary struct {
	Summary     string      `json:"summary"`
	Signal      signal.Type `json:"signal"`
	Confidence  int         `json:"confidence"`
	EntryPrice  string      `json:"entry_price,omitempty"`
	TargetPrice string      `json:"target_price,omitempty"`
	StopLoss    string      `json:"stop_loss,omitempty"`
	Reasoning   string      `json:"reasoning"`
	Risks       []string    `json:"risks"`
	Catalysts   []string    `json:"catalysts"`
}
