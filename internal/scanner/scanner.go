package scanner

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/songzhibin97/memescan/internal/ai"
	"github.com/songzhibin97/memescan/internal/data"
	"github.com/songzhibin97/memescan/internal/market"
	"github.com/songzhibin97/memescan/internal/models"
	"github.com/songzhibin97/memescan/internal/safety"
	"github.com/songzhibin97/memescan/internal/signal"
)

type Logger interface {
	Error(msg string, fields ...interface{})
	Info(msg string, fields ...interface{})
}

// Options 扫描编排参数
type Options struct {
	Chain               string        // 默认 solana
	TopN                int           // 每轮扫描的候选数量，默认 20
	ScanDelay           time.Duration // 单个代币之间的出站间隔，默认 200ms
	MinSignalConfidence int           // 信号落库的最低置信度，默认 60
}

// Scanner owns the write path into persistent storage: it fetches pair data,
// runs the safety scorer and signal calculator, upserts tokens keyed by
// address and appends actionable signal records. It also drives the repeating
// background discovery loop.
type Scanner struct {
	source        market.PairSource
	store         data.TokenStore
	summarizer    ai.Summarizer // 可为 nil，降级为确定性摘要
	logger        Logger
	chain         string
	topN          int
	minConfidence int
	limiter       *rate.Limiter

	mu            sync.Mutex
	running       bool
	stop          chan struct{}
	cycleInFlight bool
}

func New(source market.PairSource, store data.TokenStore, summarizer ai.Summarizer, logger Logger, opts Options) *Scanner {
	if opts.Chain == "" {
		opts.Chain = "solana"
	}
	if opts.TopN <= 0 {
		opts.TopN = 20
	}
	if opts.ScanDelay <= 0 {
		opts.ScanDelay = 200 * time.Millisecond
	}
	if opts.MinSignalConfidence <= 0 {
		opts.MinSignalConfidence = 60
	}

	return &Scanner{
		source:        source,
		store:         store,
		summarizer:    summarizer,
		logger:        logger,
		chain:         opts.Chain,
		topN:          opts.TopN,
		minConfidence: opts.MinSignalConfidence,
		limiter:       rate.NewLimiter(rate.Every(opts.ScanDelay), 1),
	}
}

// ScanResult 单次扫描的输出
type ScanResult struct {
	Token  *models.ScannedToken `json:"token"`
	IsNew  bool                 `json:"is_new"`
	Signal *models.TokenSignal  `json:"signal,omitempty"`
}

// DeepResult 深度分析的输出
type DeepResult struct {
	Token    *models.ScannedToken `json:"token"`
	Analysis *ai.Summary          `json:"analysis"`
}

// ScanOne fetches pair data for one token, scores it and persists the
// result. Returns data.ErrTokenNotFound when the aggregator knows no pairs
// for the address. Re-scanning with identical upstream data reproduces the
// same score; only last_scanned_at moves.
func (s *Scanner) ScanOne(ctx context.Context, address, chain string) (*ScanResult, error) {
	pairs, err := s.source.GetPairsForToken(ctx, address)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch pairs for %s: %w", address, err)
	}
	if len(pairs) == 0 {
		return nil, data.ErrTokenNotFound
	}

	pair := market.BestPair(pairs, chain)
	snapshot, identity, err := market.BuildSnapshot(pair, time.Now())
	if err != nil {
		return nil, err
	}

	report := safety.Evaluate(snapshot)
	decision := signal.Decide(report, snapshot)

	token := buildToken(identity, snapshot, report, string(decision.Type), decision.Reasoning)
	stored, isNew, err := s.store.UpsertToken(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("failed to persist token %s: %w", address, err)
	}

	result := &ScanResult{Token: stored, IsNew: isNew}

	if decision.Actionable(s.minConfidence) {
		sig, err := s.store.InsertSignal(ctx, &models.TokenSignal{
			TokenAddress: identity.Address,
			SignalType:   string(decision.Type),
			Confidence:   decision.Confidence,
			EntryPrice:   identity.PriceUSD,
			Reasoning:    decision.Reasoning,
			IsActive:     true,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to persist signal for %s: %w", address, err)
		}
		result.Signal = sig
	}

	return result, nil
}

// ScanHot discovers trending tokens on the chain, ranks them by 24h volume
// and scans the top N sequentially. A single token's failure is logged and
// skipped; it never aborts the batch.
func (s *Scanner) ScanHot(ctx context.Context, chain string) ([]ScanResult, error) {
	s.logger.Info("discovering hot tokens", "chain", chain)

	candidates, err := s.source.ListCandidatePairs(ctx, chain)
	if err != nil {
		return nil, fmt.Errorf("failed to discover candidates: %w", err)
	}
	s.logger.Info("found hot tokens", "chain", chain, "count", len(candidates))

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Volume.H24 > candidates[j].Volume.H24
	})
	if len(candidates) > s.topN {
		candidates = candidates[:s.topN]
	}

	var results []ScanResult
	for i := range candidates {
		// 对上游限速，避免被封
		if err := s.limiter.Wait(ctx); err != nil {
			return results, err
		}

		address := candidates[i].BaseToken.Address
		result, err := s.ScanOne(ctx, address, chain)
		if err != nil {
			s.logger.Error("token scan failed", "address", address, "err", err)
			continue
		}

		results = append(results, *result)
		if result.IsNew {
			s.logger.Info("new token scored", "symbol", result.Token.Symbol, "score", result.Token.SafetyScore)
		}
	}

	return results, nil
}

// DeepAnalyze re-fetches a single token, re-runs the scorer and asks the
// Summarizer for an enriched analysis. Any summarizer failure degrades to
// the deterministic fallback; enrichment is never a reason for the scan to
// fail.
func (s *Scanner) DeepAnalyze(ctx context.Context, address string) (*DeepResult, error) {
	pairs, err := s.source.GetPairsForToken(ctx, address)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch pairs for %s: %w", address, err)
	}
	if len(pairs) == 0 {
		return nil, data.ErrTokenNotFound
	}

	snapshot, identity, err := market.BuildSnapshot(&pairs[0], time.Now())
	if err != nil {
		return nil, err
	}

	report := safety.Evaluate(snapshot)
	tc := ai.TokenContext{Identity: identity, Snapshot: snapshot, Safety: report}

	var summary *ai.Summary
	if s.summarizer != nil {
		summary, err = s.summarizer.Summarize(ctx, tc)
		if err != nil {
			s.logger.Error("ai analysis failed, using fallback", "address", address, "err", err)
			summary = nil
		}
	}
	if summary == nil {
		summary = ai.Fallback(tc)
	}

	token := buildToken(identity, snapshot, report, string(summary.Signal), summary.Summary+" "+summary.Reasoning)
	stored, _, err := s.store.UpsertToken(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("failed to persist token %s: %w", address, err)
	}

	if summary.Signal == signal.StrongBuy || summary.Signal == signal.Buy {
		entry := summary.EntryPrice
		if entry == "" {
			entry = identity.PriceUSD
		}
		if _, err := s.store.InsertSignal(ctx, &models.TokenSignal{
			TokenAddress: identity.Address,
			SignalType:   string(summary.Signal),
			Confidence:   summary.Confidence,
			EntryPrice:   entry,
			TargetPrice:  summary.TargetPrice,
			StopLoss:     summary.StopLoss,
			Reasoning:    summary.Reasoning,
			IsActive:     true,
		}); err != nil {
			return nil, fmt.Errorf("failed to persist signal for %s: %w", address, err)
		}
	}

	return &DeepResult{Token: stored, Analysis: summary}, nil
}

// Start launches the background discovery loop. Starting an already running
// scanner is a no-op. The first sweep runs immediately, then every interval.
func (s *Scanner) Start(interval time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		s.logger.Info("scanner already running")
		return
	}
	s.running = true
	s.stop = make(chan struct{})

	s.logger.Info("starting background scanner", "interval", interval.String())
	go s.loop(interval, s.stop)
}

// Stop prevents future cycles from starting. In-flight scans are not
// cancelled. The scanner can be started again afterwards.
func (s *Scanner) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}
	close(s.stop)
	s.running = false
	s.logger.Info("scanner stopped")
}

// Running reports whether the background loop is active.
func (s *Scanner) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

func (s *Scanner) loop(interval time.Duration, stop chan struct{}) {
	ctx := context.Background()
	s.runCycle(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			s.runCycle(ctx)
		}
	}
}

// runCycle starts one discovery sweep unless the previous one is still in
// flight; an overlapping tick is skipped, not queued.
func (s *Scanner) runCycle(ctx context.Context) {
	if !s.beginCycle() {
		s.logger.Info("scan cycle still in flight, skipping tick")
		return
	}

	go func() {
		defer s.endCycle()
		if _, err := s.ScanHot(ctx, s.chain); err != nil {
			s.logger.Error("background scan error", "err", err)
		}
	}()
}

func (s *Scanner) beginCycle() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cycleInFlight {
		return false
	}
	s.cycleInFlight = true
	return true
}

func (s *Scanner) endCycle() {
	s.mu.Lock()
	s.cycleInFlight = false
	s.mu.Unlock()
}

func buildToken(identity models.TokenIdentity, snapshot models.MarketSnapshot, report safety.Report, aiSignal, aiAnalysis string) *models.ScannedToken {
	return &models.ScannedToken{
		Address:        identity.Address,
		Symbol:         identity.Symbol,
		Name:           identity.Name,
		Chain:          identity.Chain,
		DexID:          identity.DexID,
		PairAddress:    identity.PairAddress,
		PriceUSD:       identity.PriceUSD,
		PriceNative:    identity.PriceNative,
		LiquidityUSD:   snapshot.LiquidityUSD,
		MarketCap:      identity.MarketCap,
		Volume24h:      snapshot.Volume24h,
		PriceChange1h:  snapshot.PriceChange1h,
		PriceChange24h: snapshot.PriceChange24h,
		Buys24h:        snapshot.Buys24h,
		Sells24h:       snapshot.Sells24h,
		Twitter:        identity.Twitter,
		Telegram:       identity.Telegram,
		Website:        identity.Website,
		PairCreatedAt:  snapshot.PairCreatedAt,
		SafetyScore:    report.Score,
		IsHoneypot:     report.IsHoneypot,
		RiskLevel:      string(report.RiskLevel),
		AISignal:       aiSignal,
		AIAnalysis:     aiAnalysis,
		LastScannedAt:  time.Now(),
	}
}
