package interfaces

import (
	"context"

	"github.com/bobmcallan/folio/internal/models"
)

// MarketDataClient is the Alpha Vantage adapter contract.
type MarketDataClient interface {
	GetQuote(ctx context.Context, symbol string) (*models.Quote, error)
	GetDailySeries(ctx context.Context, symbol string) (*models.TimeSeries, error)
	GetIntradaySeries(ctx context.Context, symbol, interval string) (*models.TimeSeries, error)
	SearchSymbols(ctx context.Context, query string) ([]models.SymbolMatch, error)
	GetNews(ctx context.Context, tickers, topics []string, limit int) ([]models.NewsArticle, error)
}
