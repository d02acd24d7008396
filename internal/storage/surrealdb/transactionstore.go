package surrealdb

import (
	"context"
	"fmt"

	"github.com/bobmcallan/folio/internal/common"
	"github.com/bobmcallan/folio/internal/models"
	"github.com/surrealdb/surrealdb.go"
)

// TransactionStore appends and queries the portfolio audit trail in the
// transaction table. Records are append-only.
type TransactionStore struct {
	db     *surrealdb.DB
	logger *common.Logger
}

func NewTransactionStore(db *surrealdb.DB, logger *common.Logger) *TransactionStore {
	return &TransactionStore{
		db:     db,
		logger: logger,
	}
}

func (s *TransactionStore) Append(ctx context.Context, tx *models.Transaction) error {
	sql := "UPSERT type::record('transaction', $id) CONTENT $tx"
	vars := map[string]any{"id": tx.ID, "tx": tx}

	var lastErr error
	for attempt := 1; attempt <= 3; attempt++ {
		_, err := surrealdb.Query[[]models.Transaction](ctx, s.db, sql, vars)
		if err == nil {
			return nil
		}
		lastErr = err
	}
	return fmt.Errorf("failed to append transaction after retries: %w", lastErr)
}

func (s *TransactionStore) ListByUser(ctx context.Context, userID string, limit int) ([]*models.Transaction, error) {
	sql := "SELECT * FROM transaction WHERE user_id = $user_id ORDER BY timestamp DESC"
	if limit > 0 {
		sql += fmt.Sprintf(" LIMIT %d", limit)
	}
	vars := map[string]any{"user_id": userID}

	results, err := surrealdb.Query[[]models.Transaction](ctx, s.db, sql, vars)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}

	if results != nil && len(*results) > 0 {
		var mapped []*models.Transaction
		for i := range (*results)[0].Result {
			mapped = append(mapped, &(*results)[0].Result[i])
		}
		return mapped, nil
	}
	return nil, nil
}
