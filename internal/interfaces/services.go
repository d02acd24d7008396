package interfaces

import (
	"context"

	"github.com/bobmcallan/folio/internal/models"
)

// PortfolioService is the portfolio state manager. All mutating operations
// commit in memory first and persist best-effort afterwards.
type PortfolioService interface {
	Load(ctx context.Context, userID string) ([]models.Asset, error)
	Deposit(ctx context.Context, userID string, amount float64) ([]models.Asset, error)
	Withdraw(ctx context.Context, userID string, amount float64) ([]models.Asset, error)
	Buy(ctx context.Context, userID, symbol, name string, quantity, price float64) ([]models.Asset, error)
	Sell(ctx context.Context, userID, assetID string, quantity float64) ([]models.Asset, error)
	AddAsset(ctx context.Context, userID string, asset models.Asset) ([]models.Asset, error)
	UpdateAsset(ctx context.Context, userID string, asset models.Asset) ([]models.Asset, error)
	RemoveAsset(ctx context.Context, userID, assetID string) ([]models.Asset, error)
	TotalBalance(ctx context.Context, userID string) (float64, error)
	Transactions(ctx context.Context, userID string, limit int) ([]*models.Transaction, error)
	CreateStarter(ctx context.Context, userID string) error
}

// MarketService maintains the tracked-ticker quote board.
type MarketService interface {
	Stocks(ctx context.Context, userID string) ([]models.TrackedStock, error)
	Refresh(ctx context.Context, userID string) ([]models.TrackedStock, error)
	ToggleWatchlist(ctx context.Context, userID, stockID string) ([]models.TrackedStock, error)
	Quote(ctx context.Context, symbol string) (*models.Quote, error)
	Search(ctx context.Context, query string) ([]models.SymbolMatch, error)
	DailySeries(ctx context.Context, symbol string) (*models.TimeSeries, error)
	IntradaySeries(ctx context.Context, symbol string) (*models.TimeSeries, error)
}

// NewsService fetches finance news with a static fallback.
type NewsService interface {
	Fetch(ctx context.Context, tickers, topics []string, limit int) ([]models.NewsArticle, error)
}
