package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/songzhibin97/memescan/internal/data"
	"github.com/songzhibin97/memescan/internal/market"
	"github.com/songzhibin97/memescan/internal/models"
	"github.com/songzhibin97/memescan/internal/scanner"
	"github.com/songzhibin97/memescan/internal/signal"
)

type Logger interface {
	Error(msg string, fields ...interface{})
	Info(msg string, fields ...interface{})
}

// Server 对外暴露扫描与查询接口的薄 HTTP 层
type Server struct {
	scanner      *scanner.Scanner
	store        data.TokenStore
	logger       Logger
	scanInterval time.Duration
	router       *mux.Router
}

func NewServer(sc *scanner.Scanner, store data.TokenStore, logger Logger, scanInterval time.Duration) *Server {
	s := &Server{
		scanner:      sc,
		store:        store,
		logger:       logger,
		scanInterval: scanInterval,
		router:       mux.NewRouter(),
	}
	s.routes()
	return s
}

func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() {
	api := s.router.PathPrefix("/api").Subrouter()

	api.HandleFunc("/tokens/top", s.handleTopTokens).Methods(http.MethodGet)
	api.HandleFunc("/tokens/new", s.handleNewTokens).Methods(http.MethodGet)
	api.HandleFunc("/tokens/{address}", s.handleGetToken).Methods(http.MethodGet)
	api.HandleFunc("/signals", s.handleSignals).Methods(http.MethodGet)

	api.HandleFunc("/scan/{address}", s.handleScan).Methods(http.MethodPost)
	api.HandleFunc("/analyze/{address}", s.handleDeepAnalyze).Methods(http.MethodPost)

	api.HandleFunc("/scanner/start", s.handleStart).Methods(http.MethodPost)
	api.HandleFunc("/scanner/stop", s.handleStop).Methods(http.MethodPost)
	api.HandleFunc("/scanner/status", s.handleStatus).Methods(http.MethodGet)
}

type tokenView struct {
	models.ScannedToken
	Insight string `json:"insight"`
}

func (s *Server) handleTopTokens(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 20)

	tokens, err := s.store.TopTokens(r.Context(), limit)
	if err != nil {
		s.internalError(w, "failed to load top tokens", err)
		return
	}

	writeJSON(w, http.StatusOK, tokenViews(tokens))
}

func (s *Server) handleNewTokens(w http.ResponseWriter, r *http.Request) {
	hours := queryInt(r, "hours", 24)
	limit := queryInt(r, "limit", 50)

	tokens, err := s.store.NewTokens(r.Context(), time.Duration(hours)*time.Hour, limit)
	if err != nil {
		s.internalError(w, "failed to load new tokens", err)
		return
	}

	writeJSON(w, http.StatusOK, tokenViews(tokens))
}

func (s *Server) handleGetToken(w http.ResponseWriter, r *http.Request) {
	address := mux.Vars(r)["address"]

	token, err := s.store.GetToken(r.Context(), address)
	if errors.Is(err, data.ErrTokenNotFound) {
		writeError(w, http.StatusNotFound, "token not found")
		return
	}
	if err != nil {
		s.internalError(w, "failed to load token", err)
		return
	}

	writeJSON(w, http.StatusOK, token)
}

func (s *Server) handleSignals(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 10)

	signals, err := s.store.ActiveSignals(r.Context(), limit)
	if err != nil {
		s.internalError(w, "failed to load signals", err)
		return
	}

	writeJSON(w, http.StatusOK, signals)
}

func (s *Server) handleScan(w http.ResponseWriter, r *http.Request) {
	address := mux.Vars(r)["address"]
	chain := r.URL.Query().Get("chain")
	if chain == "" {
		chain = "solana"
	}

	result, err := s.scanner.ScanOne(r.Context(), address, chain)
	switch {
	case errors.Is(err, data.ErrTokenNotFound):
		writeError(w, http.StatusNotFound, "token not found")
	case errors.Is(err, market.ErrInvalidPair):
		writeError(w, http.StatusBadRequest, "pair data invalid for this token")
	case err != nil:
		s.internalError(w, "scan failed", err)
	default:
		writeJSON(w, http.StatusOK, result)
	}
}

func (s *Server) handleDeepAnalyze(w http.ResponseWriter, r *http.Request) {
	address := mux.Vars(r)["address"]

	result, err := s.scanner.DeepAnalyze(r.Context(), address)
	switch {
	case errors.Is(err, data.ErrTokenNotFound):
		writeError(w, http.StatusNotFound, "token not found")
	case errors.Is(err, market.ErrInvalidPair):
		writeError(w, http.StatusBadRequest, "pair data invalid for this token")
	case err != nil:
		s.internalError(w, "deep analysis failed", err)
	default:
		writeJSON(w, http.StatusOK, result)
	}
}

func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	interval := s.scanInterval
	if v := r.URL.Query().Get("interval"); v != "" {
		parsed, err := time.ParseDuration(v)
		if err != nil || parsed <= 0 {
			writeError(w, http.StatusBadRequest, "invalid interval")
			return
		}
		interval = parsed
	}

	s.scanner.Start(interval)
	writeJSON(w, http.StatusOK, map[string]interface{}{"running": true})
}

func (s *Server) handleStop(w http.ResponseWriter, r *http.Request) {
	s.scanner.Stop()
	writeJSON(w, http.StatusOK, map[string]interface{}{"running": false})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{"running": s.scanner.Running()})
}

func (s *Server) internalError(w http.ResponseWriter, msg string, err error) {
	s.logger.Error(msg, "err", err)
	writeError(w, http.StatusInternalServerError, msg)
}

func tokenViews(tokens []models.ScannedToken) []tokenView {
	views := make([]tokenView, 0, len(tokens))
	for _, t := range tokens {
		views = append(views, tokenView{
			ScannedToken: t,
			Insight:      signal.QuickInsight(identityOf(t), snapshotOf(t)),
		})
	}
	return views
}

func identityOf(t models.ScannedToken) models.TokenIdentity {
	return models.TokenIdentity{
		Address: t.Address,
		Symbol:  t.Symbol,
		Name:    t.Name,
		Chain:   t.Chain,
	}
}

// snapshotOf rebuilds a snapshot view from the persisted token row for
// display purposes only; it is never re-scored.
func snapshotOf(t models.ScannedToken) models.MarketSnapshot {
	snapshot := models.MarketSnapshot{
		LiquidityUSD:   t.LiquidityUSD,
		Volume24h:      t.Volume24h,
		Buys24h:        t.Buys24h,
		Sells24h:       t.Sells24h,
		PriceChange1h:  t.PriceChange1h,
		PriceChange24h: t.PriceChange24h,
		PairCreatedAt:  t.PairCreatedAt,
	}
	if !t.PairCreatedAt.IsZero() {
		snapshot.AgeHours = time.Since(t.PairCreatedAt).Hours()
	}
	return snapshot
}

func queryInt(r *http.Request, key string, def int) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return def
	}
	return n
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
