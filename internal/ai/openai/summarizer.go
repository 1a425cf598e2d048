package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/songzhibin97/memescan/internal/ai"
	"github.com/songzhibin97/memescan/internal/signal"
)

const defaultModel = "gpt-4o-mini"

// OpenAISummarizer implements the ai.Summarizer interface using an
// OpenAI-compatible chat completion endpoint.
type OpenAISummarizer struct {
	client *openai.Client
	model  string
}

// NewOpenAISummarizer creates a new summarizer. baseURL may point at any
// OpenAI-compatible service (DeepSeek, proxy gateways); empty means the
// official API.
func NewOpenAISummarizer(apiKey, baseURL, model string) *OpenAISummarizer {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	if model == "" {
		model = defaultModel
	}
	return &OpenAISummarizer{
		client: openai.NewClientWithConfig(config),
		model:  model,
	}
}

// Summarize implements the ai.Summarizer interface.
func (s *OpenAISummarizer) Summarize(ctx context.Context, tc ai.TokenContext) (*ai.Summary, error) {
	tokenData, err := json.MarshalIndent(struct {
		Name           string   `json:"name"`
		Symbol         string   `json:"symbol"`
		Chain          string   `json:"chain"`
		PriceUSD       string   `json:"priceUsd"`
		Liquidity      float64  `json:"liquidity"`
		Volume24h      float64  `json:"volume24h"`
		MarketCap      float64  `json:"marketCap"`
		PriceChange1h  float64  `json:"priceChange1h"`
		PriceChange24h float64  `json:"priceChange24h"`
		Buys24h        int      `json:"buys24h"`
		Sells24h       int      `json:"sells24h"`
		AgeHours       int      `json:"ageHours"`
		SafetyScore    int      `json:"safetyScore"`
		RiskLevel      string   `json:"riskLevel"`
		IsHoneypot     bool     `json:"isHoneypot"`
		Risks          []string `json:"risks"`
		Positives      []string `json:"positives"`
		HasSocials     bool     `json:"hasSocials"`
		HasWebsite     bool     `json:"hasWebsite"`
	}{
		Name:           tc.Identity.Name,
		Symbol:         tc.Identity.Symbol,
		Chain:          tc.Identity.Chain,
		PriceUSD:       tc.Identity.PriceUSD,
		Liquidity:      tc.Snapshot.LiquidityUSD,
		Volume24h:      tc.Snapshot.Volume24h,
		MarketCap:      tc.Identity.MarketCap,
		PriceChange1h:  tc.Snapshot.PriceChange1h,
		PriceChange24h: tc.Snapshot.PriceChange24h,
		Buys24h:        tc.Snapshot.Buys24h,
		Sells24h:       tc.Snapshot.Sells24h,
		AgeHours:       int(tc.Snapshot.AgeHours),
		SafetyScore:    tc.Safety.Score,
		RiskLevel:      string(tc.Safety.RiskLevel),
		IsHoneypot:     tc.Safety.IsHoneypot,
		Risks:          tc.Safety.Risks,
		Positives:      tc.Safety.Positives,
		HasSocials:     tc.Snapshot.HasSocialLinks,
		HasWebsite:     tc.Snapshot.HasWebsite,
	}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal token context: %w", err)
	}

	prompt := fmt.Sprintf(`You are an expert crypto token analyst. Analyze this token and provide trading recommendations.

TOKEN DATA:
%s

Based on this data, provide:
1. A brief 1-2 sentence summary
2. A trading signal: strong_buy, buy, hold, sell, or avoid
3. Confidence level (0-100)
4. Entry price recommendation (or "wait" if not good time)
5. Target price (realistic short-term target based on momentum)
6. Stop loss level
7. Key reasoning (2-3 sentences)
8. Top 2 risks
9. Top 2 potential catalysts/positives

Respond ONLY with valid JSON in this exact format:
{
  "summary": "string",
  "signal": "strong_buy|buy|hold|sell|avoid",
  "confidence": number,
  "entry_price": "string or null",
  "target_price": "string or null",
  "stop_loss": "string or null",
  "reasoning": "string",
  "risks": ["string", "string"],
  "catalysts": ["string", "string"]
}`, tokenData)

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You are a crypto trading analyst. Always respond with valid JSON only, no markdown.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		MaxTokens:   500,
		Temperature: 0.3,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no response from api")
	}

	summary, err := parseSummary(resp.Choices[0].Message.Content)
	if err != nil {
		return nil, err
	}
	return summary, nil
}

// parseSummary extracts the JSON object from the model output; models still
// wrap answers in prose or code fences occasionally.
func parseSummary(content string) (*ai.Summary, error) {
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start < 0 || end < start {
		return nil, fmt.Errorf("no JSON found in response")
	}

	var summary ai.Summary
	if err := json.Unmarshal([]byte(content[start:end+1]), &summary); err != nil {
		return nil, fmt.Errorf("failed to parse analysis results: %w", err)
	}

	switch summary.Signal {
	case signal.StrongBuy, signal.Buy, signal.Hold, signal.Sell, signal.Avoid:
	default:
		return nil, fmt.Errorf("unknown signal in response: %q", summary.Signal)
	}

	if summary.Confidence < 0 {
		summary.Confidence = 0
	} else if summary.Confidence > 100 {
		summary.Confidence = 100
	}

	return &summary, nil
}
