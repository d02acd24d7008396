// Package app wires configuration, storage, clients, and services into a
// single application container shared by the server and CLI entrypoint.
package app

import (
	"fmt"

	"github.com/bobmcallan/folio/internal/clients/alphavantage"
	"github.com/bobmcallan/folio/internal/common"
	"github.com/bobmcallan/folio/internal/interfaces"
	"github.com/bobmcallan/folio/internal/services/market"
	"github.com/bobmcallan/folio/internal/services/news"
	"github.com/bobmcallan/folio/internal/services/portfolio"
	badgerstore "github.com/bobmcallan/folio/internal/storage/badger"
	"github.com/bobmcallan/folio/internal/storage/surrealdb"
)

// App holds all application components.
type App struct {
	Config *common.Config
	Logger *common.Logger

	Storage    interfaces.StorageManager
	Cache      interfaces.CacheStore
	MarketData interfaces.MarketDataClient

	Portfolio interfaces.PortfolioService
	Market    interfaces.MarketService
	News      interfaces.NewsService
}

// NewApp builds the application from config: remote document storage, local
// cache, the market data client, and the three services on top.
func NewApp(config *common.Config, logger *common.Logger) (*App, error) {
	storage, err := surrealdb.NewManager(logger, config)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	cache, err := badgerstore.NewCacheStore(logger, config.Cache.Path)
	if err != nil {
		storage.Close()
		return nil, fmt.Errorf("failed to initialize cache: %w", err)
	}

	avCfg := config.Clients.AlphaVantage
	clientOpts := []alphavantage.ClientOption{
		alphavantage.WithLogger(logger),
	}
	if avCfg.BaseURL != "" {
		clientOpts = append(clientOpts, alphavantage.WithBaseURL(avCfg.BaseURL))
	}
	if avCfg.RateLimit > 0 {
		clientOpts = append(clientOpts, alphavantage.WithRateLimit(avCfg.RateLimit))
	}
	if timeout := avCfg.GetTimeout(); timeout > 0 {
		clientOpts = append(clientOpts, alphavantage.WithTimeout(timeout))
	}
	marketData := alphavantage.NewClient(avCfg.APIKey, clientOpts...)

	a := &App{
		Config:     config,
		Logger:     logger,
		Storage:    storage,
		Cache:      cache,
		MarketData: marketData,
	}

	a.Portfolio = portfolio.NewService(storage.PortfolioStore(), storage.TransactionStore(), logger)
	a.Market = market.NewService(marketData, cache, storage.WatchlistStore(), logger,
		config.Market.GetQuoteTTL(), config.Market.GetSearchTTL())
	a.News = news.NewService(marketData, cache, logger, config.Market.GetNewsTTL())

	logger.Info().
		Str("storage", config.Storage.Address).
		Str("cache", config.Cache.Path).
		Msg("Application initialized")

	return a, nil
}

// Close releases storage and cache resources.
func (a *App) Close() error {
	var firstErr error
	if a.Cache != nil {
		if err := a.Cache.Close(); err != nil {
			firstErr = err
		}
	}
	if a.Storage != nil {
		if err := a.Storage.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
