package surrealdb

import (
	"context"
	"fmt"

	"github.com/bobmcallan/folio/internal/common"
	"github.com/bobmcallan/folio/internal/models"
	"github.com/surrealdb/surrealdb.go"
	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"
)

// WatchlistStore persists one watchlist document per user in the watchlist
// table, record id = user id.
type WatchlistStore struct {
	db     *surrealdb.DB
	logger *common.Logger
}

func NewWatchlistStore(db *surrealdb.DB, logger *common.Logger) *WatchlistStore {
	return &WatchlistStore{
		db:     db,
		logger: logger,
	}
}

func (s *WatchlistStore) Get(ctx context.Context, userID string) (*models.WatchlistDocument, error) {
	doc, err := surrealdb.Select[models.WatchlistDocument](ctx, s.db, surrealmodels.NewRecordID("watchlist", userID))
	if err != nil {
		return nil, fmt.Errorf("failed to select watchlist: %w", err)
	}
	if doc == nil || doc.UserID == "" {
		return nil, fmt.Errorf("watchlist for %s: %w", userID, common.ErrNotFound)
	}
	return doc, nil
}

func (s *WatchlistStore) Save(ctx context.Context, doc *models.WatchlistDocument) error {
	sql := "UPSERT type::record('watchlist', $id) CONTENT $doc"
	vars := map[string]any{"id": doc.UserID, "doc": doc}

	var lastErr error
	for attempt := 1; attempt <= 3; attempt++ {
		_, err := surrealdb.Query[[]models.WatchlistDocument](ctx, s.db, sql, vars)
		if err == nil {
			return nil
		}
		lastErr = err
	}
	return fmt.Errorf("failed to save watchlist after retries: %w", lastErr)
}
