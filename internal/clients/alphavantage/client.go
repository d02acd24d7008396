// Package alphavantage provides a client for the Alpha Vantage API
package alphavantage

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/bobmcallan/folio/internal/common"
	"github.com/bobmcallan/folio/internal/interfaces"
	"github.com/bobmcallan/folio/internal/models"
)

const (
	DefaultBaseURL   = "https://www.alphavantage.co/query"
	DefaultTimeout   = 30 * time.Second
	DefaultRateLimit = 5 // requests per second
)

// Client implements the MarketDataClient interface against Alpha Vantage.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *common.Logger
	limiter    *rate.Limiter
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithBaseURL sets the base URL
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithLogger sets the logger
func WithLogger(logger *common.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithRateLimit sets the rate limit
func WithRateLimit(requestsPerSecond int) ClientOption {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
	}
}

// WithTimeout sets the HTTP timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// NewClient creates a new Alpha Vantage client
func NewClient(apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		limiter: rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
		logger:  common.NewSilentLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// APIError represents an API error
type APIError struct {
	StatusCode int
	Message    string
	Function   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("Alpha Vantage API error: %s (status: %d, function: %s)", e.Message, e.StatusCode, e.Function)
}

// ErrRateLimited is returned when Alpha Vantage answers 200 with a throttle
// note instead of data. Callers treat it as a signal to synthesize.
type ErrRateLimited struct {
	Note string
}

func (e *ErrRateLimited) Error() string {
	return fmt.Sprintf("Alpha Vantage rate limited: %s", e.Note)
}

// get performs a rate-limited GET request for the given API function
func (c *Client) get(ctx context.Context, function string, params url.Values, result interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	if params == nil {
		params = url.Values{}
	}
	params.Set("function", function)
	params.Set("apikey", c.apiKey)

	reqURL := fmt.Sprintf("%s?%s", c.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	c.logger.Debug().Str("function", function).Msg("Alpha Vantage API request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    string(body),
			Function:   function,
		}
	}

	// Alpha Vantage reports throttling and bad requests inside a 200 body
	var envelope apiEnvelope
	if err := json.Unmarshal(body, &envelope); err == nil {
		if envelope.Note != "" {
			return &ErrRateLimited{Note: envelope.Note}
		}
		if envelope.Information != "" {
			return &ErrRateLimited{Note: envelope.Information}
		}
		if envelope.ErrorMessage != "" {
			return &APIError{
				StatusCode: resp.StatusCode,
				Message:    envelope.ErrorMessage,
				Function:   function,
			}
		}
	}

	if err := json.Unmarshal(body, result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

// GetQuote retrieves the latest quote for a symbol via GLOBAL_QUOTE.
func (c *Client) GetQuote(ctx context.Context, symbol string) (*models.Quote, error) {
	params := url.Values{}
	params.Set("symbol", symbol)

	var resp globalQuoteResponse
	if err := c.get(ctx, "GLOBAL_QUOTE", params, &resp); err != nil {
		return nil, err
	}

	q := resp.GlobalQuote
	if q.Symbol == "" {
		return nil, fmt.Errorf("no quote data for symbol %s", symbol)
	}

	change := strings.TrimSpace(q.ChangePercent)
	changeValue, _ := strconv.ParseFloat(strings.TrimSuffix(change, "%"), 64)
	if changeValue >= 0 && !strings.HasPrefix(change, "+") {
		change = "+" + change
	}

	return &models.Quote{
		Symbol:   q.Symbol,
		Price:    fmt.Sprintf("%.2f", float64(q.Price)),
		Change:   change,
		Trending: changeValue >= 0,
	}, nil
}

// GetDailySeries retrieves daily OHLCV bars via TIME_SERIES_DAILY.
func (c *Client) GetDailySeries(ctx context.Context, symbol string) (*models.TimeSeries, error) {
	params := url.Values{}
	params.Set("symbol", symbol)
	params.Set("outputsize", "compact")

	var resp dailySeriesResponse
	if err := c.get(ctx, "TIME_SERIES_DAILY", params, &resp); err != nil {
		return nil, err
	}

	bars, err := barsFromSeries(resp.TimeSeries, "2006-01-02")
	if err != nil {
		return nil, err
	}

	return &models.TimeSeries{
		Symbol: symbol,
		Bars:   bars,
	}, nil
}

// GetIntradaySeries retrieves intraday OHLCV bars via TIME_SERIES_INTRADAY.
// interval is an Alpha Vantage interval string such as "5min".
func (c *Client) GetIntradaySeries(ctx context.Context, symbol, interval string) (*models.TimeSeries, error) {
	params := url.Values{}
	params.Set("symbol", symbol)
	params.Set("interval", interval)
	params.Set("outputsize", "compact")

	var raw map[string]json.RawMessage
	if err := c.get(ctx, "TIME_SERIES_INTRADAY", params, &raw); err != nil {
		return nil, err
	}

	// The series key embeds the interval, e.g. "Time Series (5min)"
	var series map[string]seriesBarResponse
	for key, msg := range raw {
		if strings.HasPrefix(key, "Time Series") {
			if err := json.Unmarshal(msg, &series); err != nil {
				return nil, fmt.Errorf("failed to decode series: %w", err)
			}
			break
		}
	}

	bars, err := barsFromSeries(series, "2006-01-02 15:04:05")
	if err != nil {
		return nil, err
	}

	return &models.TimeSeries{
		Symbol:   symbol,
		Interval: interval,
		Bars:     bars,
	}, nil
}

// SearchSymbols looks up symbols matching a query via SYMBOL_SEARCH.
func (c *Client) SearchSymbols(ctx context.Context, query string) ([]models.SymbolMatch, error) {
	params := url.Values{}
	params.Set("keywords", query)

	var resp symbolSearchResponse
	if err := c.get(ctx, "SYMBOL_SEARCH", params, &resp); err != nil {
		return nil, err
	}

	matches := make([]models.SymbolMatch, len(resp.BestMatches))
	for i, m := range resp.BestMatches {
		matches[i] = models.SymbolMatch{
			Symbol:   m.Symbol,
			Name:     m.Name,
			Type:     m.Type,
			Region:   m.Region,
			Currency: m.Currency,
		}
	}

	return matches, nil
}

// GetNews retrieves market news via NEWS_SENTIMENT.
func (c *Client) GetNews(ctx context.Context, tickers, topics []string, limit int) ([]models.NewsArticle, error) {
	params := url.Values{}
	if len(tickers) > 0 {
		params.Set("tickers", strings.Join(tickers, ","))
	}
	if len(topics) > 0 {
		params.Set("topics", strings.Join(topics, ","))
	}
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}

	var resp newsResponse
	if err := c.get(ctx, "NEWS_SENTIMENT", params, &resp); err != nil {
		return nil, err
	}

	articles := make([]models.NewsArticle, 0, len(resp.Feed))
	for i, item := range resp.Feed {
		articleTopics := make([]string, 0, len(item.Topics))
		for _, t := range item.Topics {
			articleTopics = append(articleTopics, t.Topic)
		}
		articleTickers := make([]string, 0, len(item.TickerSentiment))
		for _, ts := range item.TickerSentiment {
			articleTickers = append(articleTickers, ts.Ticker)
		}

		articles = append(articles, models.NewsArticle{
			ID:            fmt.Sprintf("av-%d", i+1),
			Title:         item.Title,
			URL:           item.URL,
			TimePublished: item.TimePublished,
			Summary:       item.Summary,
			Source:        item.Source,
			ImageURL:      item.BannerImage,
			Topics:        articleTopics,
			Sentiment:     item.OverallSentimentLabel,
			Tickers:       articleTickers,
		})
	}

	return articles, nil
}

// barsFromSeries converts a keyed series map into bars sorted newest first.
func barsFromSeries(series map[string]seriesBarResponse, layout string) ([]models.SeriesBar, error) {
	bars := make([]models.SeriesBar, 0, len(series))
	for stamp, bar := range series {
		ts, err := time.Parse(layout, stamp)
		if err != nil {
			continue
		}
		bars = append(bars, models.SeriesBar{
			Time:   ts,
			Open:   float64(bar.Open),
			High:   float64(bar.High),
			Low:    float64(bar.Low),
			Close:  float64(bar.Close),
			Volume: int64(bar.Volume),
		})
	}

	// Map iteration order is random; sort descending by time
	sort.Slice(bars, func(i, j int) bool {
		return bars[i].Time.After(bars[j].Time)
	})

	return bars, nil
}

// Ensure Client implements MarketDataClient
var _ interfaces.MarketDataClient = (*Client)(nil)
