// Package market maintains the tracked-ticker quote board. Live quotes come
// from Alpha Vantage through a freshness-checked local cache; anything the
// API cannot serve is synthesized so the board never shows a hole.
package market

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/bobmcallan/folio/internal/common"
	"github.com/bobmcallan/folio/internal/interfaces"
	"github.com/bobmcallan/folio/internal/models"
)

// DefaultIntradayInterval is the bar width used for intraday series requests.
const DefaultIntradayInterval = "5min"

// Service implements interfaces.MarketService.
type Service struct {
	client     interfaces.MarketDataClient
	cache      interfaces.CacheStore
	watchlists interfaces.WatchlistStore
	logger     *common.Logger

	quoteTTL  time.Duration
	searchTTL time.Duration

	mu          sync.Mutex
	board       []models.TrackedStock
	lastUpdated time.Time
}

// NewService creates a market service seeded with the default ticker board.
func NewService(client interfaces.MarketDataClient, cache interfaces.CacheStore, watchlists interfaces.WatchlistStore, logger *common.Logger, quoteTTL, searchTTL time.Duration) *Service {
	board := make([]models.TrackedStock, len(seedStocks))
	for i, s := range seedStocks {
		board[i] = models.TrackedStock{
			ID:          s.id,
			Symbol:      s.symbol,
			Name:        s.name,
			Price:       "0.00",
			Change:      "0.00%",
			Trending:    true,
			InWatchlist: s.watchlist,
		}
	}
	return &Service{
		client:     client,
		cache:      cache,
		watchlists: watchlists,
		logger:     logger,
		quoteTTL:   quoteTTL,
		searchTTL:  searchTTL,
		board:      board,
	}
}

// Stocks returns the board with the user's watchlist flags applied,
// refreshing quotes first if the board has never been populated.
func (s *Service) Stocks(ctx context.Context, userID string) ([]models.TrackedStock, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.lastUpdated.IsZero() {
		s.refreshLocked(ctx)
	}
	return s.overlayWatchlistLocked(ctx, userID), nil
}

// Refresh re-quotes every tracked ticker and returns the updated board.
// Individual quote failures never fail the refresh; they synthesize.
func (s *Service) Refresh(ctx context.Context, userID string) ([]models.TrackedStock, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.refreshLocked(ctx)
	return s.overlayWatchlistLocked(ctx, userID), nil
}

func (s *Service) refreshLocked(ctx context.Context) {
	for i := range s.board {
		quote := s.resolveQuote(ctx, s.board[i].Symbol)
		s.board[i].Price = quote.Price
		s.board[i].Change = quote.Change
		s.board[i].Trending = quote.Trending
	}
	s.lastUpdated = time.Now()
	s.logger.Debug().Int("tickers", len(s.board)).Msg("Market board refreshed")
}

// resolveQuote walks the cache, the live API, then synthesis. A live quote
// with an empty or zero price counts as invalid and synthesizes too.
func (s *Service) resolveQuote(ctx context.Context, symbol string) *models.Quote {
	key := "quote:" + symbol
	if data, ok := s.cache.GetFresh(ctx, key, s.quoteTTL); ok {
		var quote models.Quote
		if err := json.Unmarshal(data, &quote); err == nil && validQuote(&quote) {
			return &quote
		}
	}

	quote, err := s.client.GetQuote(ctx, symbol)
	if err != nil || !validQuote(quote) {
		if err != nil {
			s.logger.Debug().Err(err).Str("symbol", symbol).Msg("Live quote unavailable, synthesizing")
		}
		quote = synthesizeQuote(symbol, time.Now())
	}

	// Synthesized quotes are cached under the same key as live ones.
	s.cachePut(ctx, key, quote)
	return quote
}

func (s *Service) cachePut(ctx context.Context, key string, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := s.cache.Put(ctx, key, data); err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("Cache write failed")
	}
}

func validQuote(q *models.Quote) bool {
	return q != nil && q.Price != "" && q.Price != "0.00"
}

// Quote returns a single quote outside the board, same resolution chain.
func (s *Service) Quote(ctx context.Context, symbol string) (*models.Quote, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return nil, fmt.Errorf("empty symbol: %w", common.ErrNotFound)
	}
	return s.resolveQuote(ctx, symbol), nil
}

// ToggleWatchlist flips a board entry's watchlist flag for the user and
// writes the resulting symbol set through to the watchlist document.
func (s *Service) ToggleWatchlist(ctx context.Context, userID, stockID string) ([]models.TrackedStock, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var symbol string
	for _, stock := range s.board {
		if stock.ID == stockID {
			symbol = stock.Symbol
			break
		}
	}
	if symbol == "" {
		return nil, fmt.Errorf("tracked stock %s: %w", stockID, common.ErrNotFound)
	}

	symbols := s.watchlistSymbolsLocked(ctx, userID)
	if _, ok := symbols[symbol]; ok {
		delete(symbols, symbol)
	} else {
		symbols[symbol] = struct{}{}
	}

	doc := &models.WatchlistDocument{
		UserID:    userID,
		Symbols:   make([]string, 0, len(symbols)),
		UpdatedAt: time.Now().UTC(),
	}
	for _, stock := range s.board {
		if _, ok := symbols[stock.Symbol]; ok {
			doc.Symbols = append(doc.Symbols, stock.Symbol)
		}
	}
	if err := s.watchlists.Save(ctx, doc); err != nil {
		return nil, fmt.Errorf("failed to save watchlist for %s: %w", userID, err)
	}

	return applyWatchlist(s.board, symbols), nil
}

// watchlistSymbolsLocked loads the user's watchlist set, falling back to the
// seed defaults when no document exists yet.
func (s *Service) watchlistSymbolsLocked(ctx context.Context, userID string) map[string]struct{} {
	symbols := make(map[string]struct{})
	doc, err := s.watchlists.Get(ctx, userID)
	if err != nil {
		if !errors.Is(err, common.ErrNotFound) {
			s.logger.Warn().Err(err).Str("user_id", userID).Msg("Watchlist load failed, using defaults")
		}
		for _, seed := range seedStocks {
			if seed.watchlist {
				symbols[seed.symbol] = struct{}{}
			}
		}
		return symbols
	}
	for _, sym := range doc.Symbols {
		symbols[sym] = struct{}{}
	}
	return symbols
}

func (s *Service) overlayWatchlistLocked(ctx context.Context, userID string) []models.TrackedStock {
	return applyWatchlist(s.board, s.watchlistSymbolsLocked(ctx, userID))
}

func applyWatchlist(board []models.TrackedStock, symbols map[string]struct{}) []models.TrackedStock {
	out := make([]models.TrackedStock, len(board))
	copy(out, board)
	for i := range out {
		_, out[i].InWatchlist = symbols[out[i].Symbol]
	}
	return out
}

// Search looks up symbols, caching results for the search TTL and falling
// back to the seed board on API failure.
func (s *Service) Search(ctx context.Context, query string) ([]models.SymbolMatch, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}

	key := "search:" + strings.ToUpper(query)
	if data, ok := s.cache.GetFresh(ctx, key, s.searchTTL); ok {
		var matches []models.SymbolMatch
		if err := json.Unmarshal(data, &matches); err == nil {
			return matches, nil
		}
	}

	matches, err := s.client.SearchSymbols(ctx, query)
	if err != nil {
		s.logger.Debug().Err(err).Str("query", query).Msg("Symbol search unavailable, using seed board")
		return fallbackSearch(query), nil
	}

	s.cachePut(ctx, key, matches)
	return matches, nil
}

// DailySeries returns daily bars for a symbol, synthesized on API failure.
func (s *Service) DailySeries(ctx context.Context, symbol string) (*models.TimeSeries, error) {
	return s.series(ctx, symbol, "")
}

// IntradaySeries returns intraday bars at the default interval.
func (s *Service) IntradaySeries(ctx context.Context, symbol string) (*models.TimeSeries, error) {
	return s.series(ctx, symbol, DefaultIntradayInterval)
}

func (s *Service) series(ctx context.Context, symbol, interval string) (*models.TimeSeries, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return nil, fmt.Errorf("empty symbol: %w", common.ErrNotFound)
	}

	kind := "daily"
	if interval != "" {
		kind = "intraday"
	}
	key := fmt.Sprintf("series:%s:%s", kind, symbol)

	if data, ok := s.cache.GetFresh(ctx, key, s.quoteTTL); ok {
		var series models.TimeSeries
		if err := json.Unmarshal(data, &series); err == nil && len(series.Bars) > 0 {
			return &series, nil
		}
	}

	var series *models.TimeSeries
	var err error
	if interval == "" {
		series, err = s.client.GetDailySeries(ctx, symbol)
	} else {
		series, err = s.client.GetIntradaySeries(ctx, symbol, interval)
	}
	if err != nil || series == nil || len(series.Bars) == 0 {
		if err != nil {
			s.logger.Debug().Err(err).Str("symbol", symbol).Str("kind", kind).Msg("Series unavailable, synthesizing")
		}
		series = synthesizeSeries(symbol, interval, 100, time.Now())
	}

	s.cachePut(ctx, key, series)
	return series, nil
}

// Ensure Service implements MarketService
var _ interfaces.MarketService = (*Service)(nil)
