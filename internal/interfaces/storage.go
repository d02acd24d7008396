// Package interfaces defines the contracts between storage, services, and
// clients. Implementations live in internal/storage, internal/services, and
// internal/clients.
package interfaces

import (
	"context"
	"time"

	"github.com/bobmcallan/folio/internal/models"
)

// StorageManager provides access to all remote document stores.
type StorageManager interface {
	InternalStore() InternalStore
	PortfolioStore() PortfolioStore
	WatchlistStore() WatchlistStore
	TransactionStore() TransactionStore
	Close() error
}

// InternalStore manages user accounts and per-user preference KV.
type InternalStore interface {
	GetUser(ctx context.Context, userID string) (*models.InternalUser, error)
	GetUserByEmail(ctx context.Context, email string) (*models.InternalUser, error)
	SaveUser(ctx context.Context, user *models.InternalUser) error
	DeleteUser(ctx context.Context, userID string) error
	ListUsers(ctx context.Context) ([]string, error)

	GetUserKV(ctx context.Context, userID, key string) (*models.UserKeyValue, error)
	SetUserKV(ctx context.Context, userID, key, value string) error
	DeleteUserKV(ctx context.Context, userID, key string) error
	ListUserKV(ctx context.Context, userID string) ([]*models.UserKeyValue, error)

	Close() error
}

// PortfolioStore persists one portfolio document per user.
type PortfolioStore interface {
	Get(ctx context.Context, userID string) (*models.PortfolioDocument, error)
	Save(ctx context.Context, doc *models.PortfolioDocument) error
	Delete(ctx context.Context, userID string) error
}

// WatchlistStore persists one watchlist document per user.
type WatchlistStore interface {
	Get(ctx context.Context, userID string) (*models.WatchlistDocument, error)
	Save(ctx context.Context, doc *models.WatchlistDocument) error
}

// TransactionStore appends and queries the portfolio audit trail.
type TransactionStore interface {
	Append(ctx context.Context, tx *models.Transaction) error
	ListByUser(ctx context.Context, userID string, limit int) ([]*models.Transaction, error)
}

// CacheStore is a local TTL cache for API responses. Entries never expire on
// their own; callers supply the freshness window per read.
type CacheStore interface {
	GetFresh(ctx context.Context, key string, maxAge time.Duration) ([]byte, bool)
	Put(ctx context.Context, key string, data []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}
