package data

import (
	"context"
	"errors"
	"time"

	"github.com/songzhibin97/memescan/internal/models"
)

// ErrTokenNotFound 按地址查询不到代币
var ErrTokenNotFound = errors.New("token not found")

// TokenStore 处理扫描结果的持久化
type TokenStore interface {
	// UpsertToken writes the latest scan of a token, keyed by its unique
	// address. Returns the stored row and whether it was newly created.
	UpsertToken(ctx context.Context, token *models.ScannedToken) (*models.ScannedToken, bool, error)

	// InsertSignal appends an immutable signal record
	InsertSignal(ctx context.Context, sig *models.TokenSignal) (*models.TokenSignal, error)

	// GetToken retrieves a token by address, ErrTokenNotFound when absent
	GetToken(ctx context.Context, address string) (*models.ScannedToken, error)

	// TopTokens returns tokens ordered by safety score descending
	TopTokens(ctx context.Context, limit int) ([]models.ScannedToken, error)

	// NewTokens returns tokens whose pair was created within maxAge
	NewTokens(ctx context.Context, maxAge time.Duration, limit int) ([]models.ScannedToken, error)

	// ActiveSignals returns the latest still-active signal records
	ActiveSignals(ctx context.Context, limit int) ([]models.TokenSignal, error)
}
