package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/songzhibin97/memescan/internal/data"
	"github.com/songzhibin97/memescan/internal/models"

	_ "github.com/lib/pq"
)

type PostgresStorage struct {
	db *sql.DB
}

func NewPostgresStorage(connStr string) (*PostgresStorage, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := &PostgresStorage{db: db}

	if err := s.initTables(); err != nil {
		return nil, fmt.Errorf("failed to initialize tables: %w", err)
	}

	return s, nil
}

const tokenColumns = `
    address, symbol, name, chain, dex_id, pair_address,
    price_usd, price_native, liquidity_usd, market_cap, volume_24h,
    price_change_1h, price_change_24h, buys_24h, sells_24h,
    twitter, telegram, website, pair_created_at,
    safety_score, is_honeypot, risk_level, ai_signal, ai_analysis,
    last_scanned_at, created_at`

// UpsertToken implements TokenStore interface
func (s *PostgresStorage) UpsertToken(ctx context.Context, token *models.ScannedToken) (*models.ScannedToken, bool, error) {
	query := `
        INSERT INTO scanned_tokens (
            address, symbol, name, chain, dex_id, pair_address,
            price_usd, price_native, liquidity_usd, market_cap, volume_24h,
            price_change_1h, price_change_24h, buys_24h, sells_24h,
            twitter, telegram, website, pair_created_at,
            safety_score, is_honeypot, risk_level, ai_signal, ai_analysis,
            last_scanned_at, created_at
        ) VALUES (
            $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13,
            $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $25
        )
        ON CONFLICT (address) DO UPDATE SET
            symbol = EXCLUDED.symbol,
            name = EXCLUDED.name,
            chain = EXCLUDED.chain,
            dex_id = EXCLUDED.dex_id,
            pair_address = EXCLUDED.pair_address,
            price_usd = EXCLUDED.price_usd,
            price_native = EXCLUDED.price_native,
            liquidity_usd = EXCLUDED.liquidity_usd,
            market_cap = EXCLUDED.market_cap,
            volume_24h = EXCLUDED.volume_24h,
            price_change_1h = EXCLUDED.price_change_1h,
            price_change_24h = EXCLUDED.price_change_24h,
            buys_24h = EXCLUDED.buys_24h,
            sells_24h = EXCLUDED.sells_24h,
            twitter = EXCLUDED.twitter,
            telegram = EXCLUDED.telegram,
            website = EXCLUDED.website,
            pair_created_at = EXCLUDED.pair_created_at,
            safety_score = EXCLUDED.safety_score,
            is_honeypot = EXCLUDED.is_honeypot,
            risk_level = EXCLUDED.risk_level,
            ai_signal = EXCLUDED.ai_signal,
            ai_analysis = EXCLUDED.ai_analysis,
            last_scanned_at = EXCLUDED.last_scanned_at
        RETURNING created_at, (xmax = 0) AS inserted
    `

	now := time.Now()
	if token.LastScannedAt.IsZero() {
		token.LastScannedAt = now
	}

	var inserted bool
	// xmax = 0 区分插入和更新
	err := s.db.QueryRowContext(ctx, query,
		token.Address,
		token.Symbol,
		token.Name,
		token.Chain,
		token.DexID,
		token.PairAddress,
		token.PriceUSD,
		token.PriceNative,
		token.LiquidityUSD,
		token.MarketCap,
		token.Volume24h,
		token.PriceChange1h,
		token.PriceChange24h,
		token.Buys24h,
		token.Sells24h,
		token.Twitter,
		token.Telegram,
		token.Website,
		nullTime(token.PairCreatedAt),
		token.SafetyScore,
		token.IsHoneypot,
		token.RiskLevel,
		token.AISignal,
		token.AIAnalysis,
		token.LastScannedAt,
	).Scan(&token.CreatedAt, &inserted)

	if err != nil {
		return nil, false, fmt.Errorf("failed to upsert token: %w", err)
	}

	return token, inserted, nil
}

// InsertSignal implements TokenStore interface
func (s *PostgresStorage) InsertSignal(ctx context.Context, sig *models.TokenSignal) (*models.TokenSignal, error) {
	if sig.ID == "" {
		sig.ID = uuid.NewString()
	}
	if sig.CreatedAt.IsZero() {
		sig.CreatedAt = time.Now()
	}

	query := `
        INSERT INTO token_signals (
            id, token_address, signal_type, confidence, entry_price,
            target_price, stop_loss, reasoning, is_active, created_at
        ) VALUES (
            $1, $2, $3, $4, $5, $6, $7, $8, $9, $10
        )
    `

	_, err := s.db.ExecContext(ctx, query,
		sig.ID,
		sig.TokenAddress,
		sig.SignalType,
		sig.Confidence,
		sig.EntryPrice,
		sig.TargetPrice,
		sig.StopLoss,
		sig.Reasoning,
		sig.IsActive,
		sig.CreatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("failed to insert signal: %w", err)
	}

	return sig, nil
}

// GetToken implements TokenStore interface
func (s *PostgresStorage) GetToken(ctx context.Context, address string) (*models.ScannedToken, error) {
	query := `SELECT ` + tokenColumns + ` FROM scanned_tokens WHERE address = $1`

	token, err := scanToken(s.db.QueryRowContext(ctx, query, address))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, data.ErrTokenNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get token: %w", err)
	}

	return token, nil
}

// TopTokens implements TokenStore interface
func (s *PostgresStorage) TopTokens(ctx context.Context, limit int) ([]models.ScannedToken, error) {
	query := `SELECT ` + tokenColumns + `
        FROM scanned_tokens
        ORDER BY safety_score DESC
        LIMIT $1`

	return s.queryTokens(ctx, query, limit)
}

// NewTokens implements TokenStore interface
func (s *PostgresStorage) NewTokens(ctx context.Context, maxAge time.Duration, limit int) ([]models.ScannedToken, error) {
	query := `SELECT ` + tokenColumns + `
        FROM scanned_tokens
        WHERE pair_created_at >= $1
        ORDER BY created_at DESC
        LIMIT $2`

	return s.queryTokens(ctx, query, time.Now().Add(-maxAge), limit)
}

// ActiveSignals implements TokenStore interface
func (s *PostgresStorage) ActiveSignals(ctx context.Context, limit int) ([]models.TokenSignal, error) {
	query := `
        SELECT id, token_address, signal_type, confidence, entry_price,
               target_price, stop_loss, reasoning, is_active, created_at
        FROM token_signals
        WHERE is_active = TRUE
        ORDER BY created_at DESC
        LIMIT $1
    `

	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query signals: %w", err)
	}
	defer rows.Close()

	var result []models.TokenSignal
	for rows.Next() {
		var sig models.TokenSignal
		err := rows.Scan(
			&sig.ID,
			&sig.TokenAddress,
			&sig.SignalType,
			&sig.Confidence,
			&sig.EntryPrice,
			&sig.TargetPrice,
			&sig.StopLoss,
			&sig.Reasoning,
			&sig.IsActive,
			&sig.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan signal: %w", err)
		}
		result = append(result, sig)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating signal rows: %w", err)
	}

	return result, nil
}

func (s *PostgresStorage) queryTokens(ctx context.Context, query string, args ...interface{}) ([]models.ScannedToken, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query tokens: %w", err)
	}
	defer rows.Close()

	var result []models.ScannedToken
	for rows.Next() {
		token, err := scanToken(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan token: %w", err)
		}
		result = append(result, *token)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating token rows: %w", err)
	}

	return result, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanToken(row rowScanner) (*models.ScannedToken, error) {
	var token models.ScannedToken
	var pairCreatedAt sql.NullTime

	err := row.Scan(
		&token.Address,
		&token.Symbol,
		&token.Name,
		&token.Chain,
		&token.DexID,
		&token.PairAddress,
		&token.PriceUSD,
		&token.PriceNative,
		&token.LiquidityUSD,
		&token.MarketCap,
		&token.Volume24h,
		&token.PriceChange1h,
		&token.PriceChange24h,
		&token.Buys24h,
		&token.Sells24h,
		&token.Twitter,
		&token.Telegram,
		&token.Website,
		&pairCreatedAt,
		&token.SafetyScore,
		&token.IsHoneypot,
		&token.RiskLevel,
		&token.AISignal,
		&token.AIAnalysis,
		&token.LastScannedAt,
		&token.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if pairCreatedAt.Valid {
		token.PairCreatedAt = pairCreatedAt.Time
	}

	return &token, nil
}

func nullTime(t time.Time) sql.NullTime {
	if t.IsZero() {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t, Valid: true}
}

func (s *PostgresStorage) initTables() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS scanned_tokens (
			address VARCHAR(100) PRIMARY KEY,
			symbol VARCHAR(50),
			name VARCHAR(200),
			chain VARCHAR(50),
			dex_id VARCHAR(50),
			pair_address VARCHAR(100),
			price_usd VARCHAR(50),
			price_native VARCHAR(50),
			liquidity_usd NUMERIC(24, 2),
			market_cap NUMERIC(24, 2),
			volume_24h NUMERIC(24, 2),
			price_change_1h NUMERIC(12, 4),
			price_change_24h NUMERIC(12, 4),
			buys_24h INT,
			sells_24h INT,
			twitter VARCHAR(200),
			telegram VARCHAR(200),
			website VARCHAR(500),
			pair_created_at TIMESTAMP,
			safety_score INT,
			is_honeypot BOOLEAN DEFAULT FALSE,
			risk_level VARCHAR(20),
			ai_signal VARCHAR(20),
			ai_analysis TEXT,
			last_scanned_at TIMESTAMP DEFAULT NOW(),
			created_at TIMESTAMP DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS token_signals (
			id UUID PRIMARY KEY,
			token_address VARCHAR(100) NOT NULL,
			signal_type VARCHAR(20) NOT NULL,
			confidence INT NOT NULL,
			entry_price VARCHAR(50),
			target_price VARCHAR(50),
			stop_loss VARCHAR(50),
			reasoning TEXT,
			is_active BOOLEAN DEFAULT TRUE,
			created_at TIMESTAMP DEFAULT NOW()
		)`,

		`CREATE INDEX IF NOT EXISTS idx_token_signals_address
			ON token_signals (token_address, created_at DESC)`,
	}

	for _, query := range queries {
		if _, err := s.db.Exec(query); err != nil {
			return fmt.Errorf("failed to execute query: %w", err)
		}
	}
	return nil
}
