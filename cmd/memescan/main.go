package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/songzhibin97/memescan/internal/ai"
	aiopenai "github.com/songzhibin97/memescan/internal/ai/openai"
	"github.com/songzhibin97/memescan/internal/api"
	"github.com/songzhibin97/memescan/internal/configs"
	"github.com/songzhibin97/memescan/internal/data/cache"
	"github.com/songzhibin97/memescan/internal/data/storage"
	"github.com/songzhibin97/memescan/internal/market"
	"github.com/songzhibin97/memescan/internal/market/dexscreener"
	"github.com/songzhibin97/memescan/internal/scanner"
)

var (
	flagconf string

	log = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		AddSource:   true,
		Level:       slog.LevelDebug,
		ReplaceAttr: nil,
	}))
)

func init() {
	flag.StringVar(&flagconf, "conf", "configs/config.json", "config path, eg: -conf config.json")
}

func main() {
	flag.Parse()

	// .env 仅用于本地开发的密钥注入
	_ = godotenv.Load()

	// 加载配置
	config := &configs.Config{}
	configFile, err := os.ReadFile(flagconf)
	if err != nil {
		log.Error("Error reading config file", "err", err)
		return
	}
	if err := json.Unmarshal(configFile, config); err != nil {
		log.Error("Error parsing config file", "err", err)
		return
	}

	log.Debug("Loaded config", "config", config)

	connStr := config.Database.ConnStr
	if connStr == "" {
		connStr = os.Getenv("DATABASE_URL")
	}

	apiKey := config.AIConfig.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}
	baseURL := config.AIConfig.BaseURL
	if baseURL == "" {
		baseURL = os.Getenv("OPENAI_BASE_URL")
	}

	// 初始化各个组件
	var source market.PairSource = dexscreener.NewClient(5)

	if config.Redis.Addr != "" {
		pairTTL, err := time.ParseDuration(config.Redis.PairTTL)
		if err != nil {
			pairTTL = 30 * time.Second
		}
		pairCache := cache.NewPairCache(config.Redis.Addr, config.Redis.Password, config.Redis.DB, pairTTL)
		source = market.NewCachedSource(source, pairCache)
		log.Debug("init pair cache", "addr", config.Redis.Addr, "ttl", pairTTL.String())
	}

	log.Debug("init pair source")

	storager, err := storage.NewPostgresStorage(connStr)
	if err != nil {
		log.Error("Error creating storage", "err", err)
		return
	}

	log.Debug("init storager")

	var summarizer ai.Summarizer
	if apiKey != "" {
		summarizer = aiopenai.NewOpenAISummarizer(apiKey, baseURL, config.AIConfig.ModelType)
		log.Debug("init summarizer", "model", config.AIConfig.ModelType)
	} else {
		log.Warn("no AI api key configured, deep analysis uses deterministic fallback only")
	}

	scanDelay, err := time.ParseDuration(config.ScanDelay)
	if err != nil {
		scanDelay = 200 * time.Millisecond
	}

	sc := scanner.New(source, storager, summarizer, log, scanner.Options{
		Chain:               config.Chain,
		TopN:                config.TopN,
		ScanDelay:           scanDelay,
		MinSignalConfidence: config.SignalConfig.MinConfidence,
	})

	log.Debug("init scanner")

	scanInterval, err := time.ParseDuration(config.ScanInterval)
	if err != nil {
		scanInterval = time.Minute
	}
	sc.Start(scanInterval)

	addr := config.Server.Addr
	if addr == "" {
		addr = ":8080"
	}

	server := api.NewServer(sc, storager, log, scanInterval)
	httpServer := &http.Server{
		Addr:    addr,
		Handler: server.Handler(),
	}

	go func() {
		log.Info("http server listening", "addr", addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server error", "err", err)
		}
	}()

	// 等待退出信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	sc.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		log.Error("http shutdown error", "err", err)
	}
}
