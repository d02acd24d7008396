package surrealdb

import (
	"context"
	"fmt"

	"github.com/bobmcallan/folio/internal/common"
	"github.com/bobmcallan/folio/internal/models"
	"github.com/surrealdb/surrealdb.go"
	surrealmodels "github.com/surrealdb/surrealdb.go/pkg/models"
)

// PortfolioStore persists one portfolio document per user in the portfolio
// table, record id = user id.
type PortfolioStore struct {
	db     *surrealdb.DB
	logger *common.Logger
}

func NewPortfolioStore(db *surrealdb.DB, logger *common.Logger) *PortfolioStore {
	return &PortfolioStore{
		db:     db,
		logger: logger,
	}
}

func (s *PortfolioStore) Get(ctx context.Context, userID string) (*models.PortfolioDocument, error) {
	doc, err := surrealdb.Select[models.PortfolioDocument](ctx, s.db, surrealmodels.NewRecordID("portfolio", userID))
	if err != nil {
		return nil, fmt.Errorf("failed to select portfolio: %w", err)
	}
	if doc == nil || doc.UserID == "" {
		return nil, fmt.Errorf("portfolio for %s: %w", userID, common.ErrNotFound)
	}
	return doc, nil
}

func (s *PortfolioStore) Save(ctx context.Context, doc *models.PortfolioDocument) error {
	sql := "UPSERT type::record('portfolio', $id) CONTENT $doc"
	vars := map[string]any{"id": doc.UserID, "doc": doc}

	var lastErr error
	for attempt := 1; attempt <= 3; attempt++ {
		_, err := surrealdb.Query[[]models.PortfolioDocument](ctx, s.db, sql, vars)
		if err == nil {
			return nil
		}
		lastErr = err
	}
	return fmt.Errorf("failed to save portfolio after retries: %w", lastErr)
}

func (s *PortfolioStore) Delete(ctx context.Context, userID string) error {
	_, err := surrealdb.Delete[models.PortfolioDocument](ctx, s.db, surrealmodels.NewRecordID("portfolio", userID))
	if err != nil {
		return fmt.Errorf("failed to delete portfolio: %w", err)
	}
	return nil
}
