// Package news serves finance news from Alpha Vantage with a static
// fallback feed, so clients always get articles.
package news

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"time"

	"github.com/bobmcallan/folio/internal/common"
	"github.com/bobmcallan/folio/internal/interfaces"
	"github.com/bobmcallan/folio/internal/models"
)

// defaultTopics is the topic filter applied when the caller supplies none.
var defaultTopics = []string{"financial_markets", "economy_fiscal", "economy_monetary", "finance"}

// Service implements interfaces.NewsService.
type Service struct {
	client interfaces.MarketDataClient
	cache  interfaces.CacheStore
	logger *common.Logger
	ttl    time.Duration
}

// NewService creates a news service.
func NewService(client interfaces.MarketDataClient, cache interfaces.CacheStore, logger *common.Logger, ttl time.Duration) *Service {
	return &Service{
		client: client,
		cache:  cache,
		logger: logger,
		ttl:    ttl,
	}
}

// Fetch returns news articles for the given tickers and topics, newest
// first. Failures and empty feeds fall back to the static article list.
func (s *Service) Fetch(ctx context.Context, tickers, topics []string, limit int) ([]models.NewsArticle, error) {
	if len(topics) == 0 && len(tickers) == 0 {
		topics = defaultTopics
	}
	if limit <= 0 {
		limit = 50
	}

	key := cacheKey(tickers, topics)
	if data, ok := s.cache.GetFresh(ctx, key, s.ttl); ok {
		var articles []models.NewsArticle
		if err := json.Unmarshal(data, &articles); err == nil && len(articles) > 0 {
			return clip(articles, limit), nil
		}
	}

	articles, err := s.client.GetNews(ctx, tickers, topics, limit)
	if err != nil || len(articles) == 0 {
		if err != nil {
			s.logger.Debug().Err(err).Msg("News feed unavailable, serving fallback articles")
		}
		return clip(sorted(fallbackArticles), limit), nil
	}

	articles = sorted(articles)
	if data, err := json.Marshal(articles); err == nil {
		if err := s.cache.Put(ctx, key, data); err != nil {
			s.logger.Warn().Err(err).Msg("News cache write failed")
		}
	}

	return clip(articles, limit), nil
}

func cacheKey(tickers, topics []string) string {
	return "news:" + strings.Join(tickers, ",") + ":" + strings.Join(topics, ",")
}

// sorted orders articles newest first by published time string. Both the
// Alpha Vantage compact stamp and RFC 3339 sort correctly lexically.
func sorted(articles []models.NewsArticle) []models.NewsArticle {
	out := make([]models.NewsArticle, len(articles))
	copy(out, articles)
	sort.SliceStable(out, func(i, j int) bool {
		return normalizeStamp(out[i].TimePublished) > normalizeStamp(out[j].TimePublished)
	})
	return out
}

func normalizeStamp(stamp string) string {
	return strings.NewReplacer("-", "", ":", "", "Z", "").Replace(stamp)
}

func clip(articles []models.NewsArticle, limit int) []models.NewsArticle {
	if limit > 0 && len(articles) > limit {
		return articles[:limit]
	}
	return articles
}

// Ensure Service implements NewsService
var _ interfaces.NewsService = (*Service)(nil)
