package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/folio/internal/app"
	"github.com/bobmcallan/folio/internal/common"
	"github.com/bobmcallan/folio/internal/interfaces"
	"github.com/bobmcallan/folio/internal/models"
	"github.com/bobmcallan/folio/internal/services/market"
	"github.com/bobmcallan/folio/internal/services/news"
	"github.com/bobmcallan/folio/internal/services/portfolio"
)

// memStorage is an in-memory StorageManager for handler tests.
type memStorage struct {
	users *memInternalStore
	docs  *memPortfolioStore
	lists *memWatchlistStore
	txs   *memTransactionStore
}

func newMemStorage() *memStorage {
	return &memStorage{
		users: &memInternalStore{users: map[string]*models.InternalUser{}, kv: map[string]string{}},
		docs:  &memPortfolioStore{docs: map[string]*models.PortfolioDocument{}},
		lists: &memWatchlistStore{docs: map[string]*models.WatchlistDocument{}},
		txs:   &memTransactionStore{},
	}
}

func (m *memStorage) InternalStore() interfaces.InternalStore       { return m.users }
func (m *memStorage) PortfolioStore() interfaces.PortfolioStore     { return m.docs }
func (m *memStorage) WatchlistStore() interfaces.WatchlistStore     { return m.lists }
func (m *memStorage) TransactionStore() interfaces.TransactionStore { return m.txs }
func (m *memStorage) Close() error                                  { return nil }

type memInternalStore struct {
	mu    sync.Mutex
	users map[string]*models.InternalUser
	kv    map[string]string
}

func (s *memInternalStore) GetUser(_ context.Context, userID string) (*models.InternalUser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userID]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", userID, common.ErrNotFound)
	}
	cp := *u
	return &cp, nil
}

func (s *memInternalStore) GetUserByEmail(_ context.Context, email string) (*models.InternalUser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("email %s: %w", email, common.ErrNotFound)
}

func (s *memInternalStore) SaveUser(_ context.Context, user *models.InternalUser) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *user
	s.users[user.UserID] = &cp
	return nil
}

func (s *memInternalStore) DeleteUser(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.users, userID)
	return nil
}

func (s *memInternalStore) ListUsers(_ context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var ids []string
	for id := range s.users {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func (s *memInternalStore) GetUserKV(_ context.Context, userID, key string) (*models.UserKeyValue, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.kv[userID+"_"+key]
	if !ok {
		return nil, fmt.Errorf("kv %s/%s: %w", userID, key, common.ErrNotFound)
	}
	return &models.UserKeyValue{UserID: userID, Key: key, Value: v}, nil
}

func (s *memInternalStore) SetUserKV(_ context.Context, userID, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.kv[userID+"_"+key] = value
	return nil
}

func (s *memInternalStore) DeleteUserKV(_ context.Context, userID, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.kv, userID+"_"+key)
	return nil
}

func (s *memInternalStore) ListUserKV(_ context.Context, userID string) ([]*models.UserKeyValue, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.UserKeyValue
	prefix := userID + "_"
	for k, v := range s.kv {
		if len(k) > len(prefix) && k[:len(prefix)] == prefix {
			out = append(out, &models.UserKeyValue{UserID: userID, Key: k[len(prefix):], Value: v})
		}
	}
	return out, nil
}

func (s *memInternalStore) Close() error { return nil }

type memPortfolioStore struct {
	mu   sync.Mutex
	docs map[string]*models.PortfolioDocument
}

func (s *memPortfolioStore) Get(_ context.Context, userID string) (*models.PortfolioDocument, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.docs[userID]
	if !ok {
		return nil, fmt.Errorf("portfolio %s: %w", userID, common.ErrNotFound)
	}
	cp := *doc
	return &cp, nil
}

func (s *memPortfolioStore) Save(_ context.Context, doc *models.PortfolioDocument) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *doc
	s.docs[doc.UserID] = &cp
	return nil
}

func (s *memPortfolioStore) Delete(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.docs, userID)
	return nil
}

type memWatchlistStore struct {
	mu   sync.Mutex
	docs map[string]*models.WatchlistDocument
}

func (s *memWatchlistStore) Get(_ context.Context, userID string) (*models.WatchlistDocument, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.docs[userID]
	if !ok {
		return nil, fmt.Errorf("watchlist %s: %w", userID, common.ErrNotFound)
	}
	return doc, nil
}

func (s *memWatchlistStore) Save(_ context.Context, doc *models.WatchlistDocument) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[doc.UserID] = doc
	return nil
}

type memTransactionStore struct {
	mu      sync.Mutex
	entries []*models.Transaction
}

func (s *memTransactionStore) Append(_ context.Context, tx *models.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *tx
	s.entries = append(s.entries, &cp)
	return nil
}

func (s *memTransactionStore) ListByUser(_ context.Context, userID string, limit int) ([]*models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.Transaction
	for _, tx := range s.entries {
		if tx.UserID == userID {
			out = append(out, tx)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// memCache is an in-memory CacheStore.
type memCache struct {
	mu      sync.Mutex
	entries map[string][]byte
}

func (c *memCache) GetFresh(_ context.Context, key string, _ time.Duration) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	data, ok := c.entries[key]
	return data, ok
}

func (c *memCache) Put(_ context.Context, key string, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = data
	return nil
}

func (c *memCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
	return nil
}

func (c *memCache) Close() error { return nil }

// stubMarketClient answers every request with fixed data.
type stubMarketClient struct{}

func (stubMarketClient) GetQuote(_ context.Context, symbol string) (*models.Quote, error) {
	return &models.Quote{Symbol: symbol, Price: "100.00", Change: "+1.00%", Trending: true}, nil
}

func (stubMarketClient) GetDailySeries(_ context.Context, symbol string) (*models.TimeSeries, error) {
	return &models.TimeSeries{Symbol: symbol, Bars: []models.SeriesBar{{Close: 100}}}, nil
}

func (stubMarketClient) GetIntradaySeries(_ context.Context, symbol, interval string) (*models.TimeSeries, error) {
	return &models.TimeSeries{Symbol: symbol, Interval: interval, Bars: []models.SeriesBar{{Close: 100}}}, nil
}

func (stubMarketClient) SearchSymbols(_ context.Context, query string) ([]models.SymbolMatch, error) {
	return []models.SymbolMatch{{Symbol: "AAPL", Name: "Apple Inc"}}, nil
}

func (stubMarketClient) GetNews(_ context.Context, tickers, topics []string, limit int) ([]models.NewsArticle, error) {
	return nil, errors.New("unavailable")
}

// newTestServer wires a full server on in-memory storage and stub clients.
func newTestServer(t *testing.T) (*Server, *memStorage) {
	t.Helper()

	config := common.NewDefaultConfig()
	config.Auth.JWTSecret = "test-secret"
	logger := common.NewSilentLogger()
	storage := newMemStorage()
	cache := &memCache{entries: map[string][]byte{}}
	client := stubMarketClient{}

	a := &app.App{
		Config:     config,
		Logger:     logger,
		Storage:    storage,
		Cache:      cache,
		MarketData: client,
		Portfolio:  portfolio.NewService(storage.docs, storage.txs, logger),
		Market:     market.NewService(client, cache, storage.lists, logger, 5*time.Minute, 24*time.Hour),
		News:       news.NewService(client, cache, logger, 15*time.Minute),
	}

	return NewServer(a), storage
}

// doRequest performs a JSON request against the server handler.
func doRequest(t *testing.T, s *Server, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

// registerUser registers a test user and returns its token and user id.
func registerUser(t *testing.T, s *Server, email string) (token, userID string) {
	t.Helper()

	rec := doRequest(t, s, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email":    email,
		"password": "secret123",
		"name":     "Test User",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp struct {
		Token string `json:"token"`
		User  struct {
			UserID string `json:"user_id"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.Token, resp.User.UserID
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v))
}
