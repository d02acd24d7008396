// Package surrealdb implements the remote document stores on SurrealDB.
package surrealdb

import (
	"context"
	"fmt"

	"github.com/bobmcallan/folio/internal/common"
	"github.com/bobmcallan/folio/internal/interfaces"
	"github.com/surrealdb/surrealdb.go"
)

// Manager implements interfaces.StorageManager using SurrealDB.
type Manager struct {
	db     *surrealdb.DB
	logger *common.Logger

	internalStore    *InternalStore
	portfolioStore   *PortfolioStore
	watchlistStore   *WatchlistStore
	transactionStore *TransactionStore
}

// NewManager creates a new StorageManager connected to SurrealDB.
func NewManager(logger *common.Logger, config *common.Config) (*Manager, error) {
	ctx := context.Background()

	db, err := surrealdb.New(config.Storage.Address)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to SurrealDB: %w", err)
	}

	if _, err := db.SignIn(ctx, map[string]interface{}{
		"user": config.Storage.Username,
		"pass": config.Storage.Password,
	}); err != nil {
		return nil, fmt.Errorf("failed to sign in to SurrealDB: %w", err)
	}

	if err := db.Use(ctx, config.Storage.Namespace, config.Storage.Database); err != nil {
		return nil, fmt.Errorf("failed to select namespace/database: %w", err)
	}

	m, err := newManagerWithDB(db, logger)
	if err != nil {
		return nil, err
	}

	logger.Info().
		Str("address", config.Storage.Address).
		Str("namespace", config.Storage.Namespace).
		Str("database", config.Storage.Database).
		Msg("SurrealDB storage manager initialized")

	return m, nil
}

// newManagerWithDB wires the stores onto an existing connection. Used by
// NewManager and by tests that provision their own database.
func newManagerWithDB(db *surrealdb.DB, logger *common.Logger) (*Manager, error) {
	ctx := context.Background()

	// Define tables to ensure they exist (SurrealDB v3 errors on querying non-existent tables)
	tables := []string{"user", "user_kv", "portfolio", "watchlist", "transaction"}
	for _, table := range tables {
		sql := fmt.Sprintf("DEFINE TABLE IF NOT EXISTS %s SCHEMALESS", table)
		if _, err := surrealdb.Query[any](ctx, db, sql, nil); err != nil {
			return nil, fmt.Errorf("failed to define table %s: %w", table, err)
		}
	}

	m := &Manager{
		db:     db,
		logger: logger,
	}

	m.internalStore = NewInternalStore(db, logger)
	m.portfolioStore = NewPortfolioStore(db, logger)
	m.watchlistStore = NewWatchlistStore(db, logger)
	m.transactionStore = NewTransactionStore(db, logger)

	return m, nil
}

func (m *Manager) InternalStore() interfaces.InternalStore {
	return m.internalStore
}

func (m *Manager) PortfolioStore() interfaces.PortfolioStore {
	return m.portfolioStore
}

func (m *Manager) WatchlistStore() interfaces.WatchlistStore {
	return m.watchlistStore
}

func (m *Manager) TransactionStore() interfaces.TransactionStore {
	return m.transactionStore
}

func (m *Manager) Close() error {
	m.db.Close(context.Background())
	return nil
}

// Compile-time check
var _ interfaces.StorageManager = (*Manager)(nil)
