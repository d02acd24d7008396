// Package badger provides the BadgerHold-backed local cache for API responses.
package badger

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/bobmcallan/folio/internal/common"
	"github.com/bobmcallan/folio/internal/interfaces"
	"github.com/timshannon/badgerhold/v4"
)

// CacheEntry is a cached API response stored in BadgerDB. Entries carry their
// write time; freshness is judged per read against a caller-supplied max age.
type CacheEntry struct {
	Key       string `badgerhold:"key"`
	Data      []byte
	Timestamp time.Time
}

// CacheStore implements interfaces.CacheStore on BadgerHold.
type CacheStore struct {
	db     *badgerhold.Store
	logger *common.Logger
	now    func() time.Time // injectable clock for testing
}

// NewCacheStore opens a BadgerHold database at the given directory path.
func NewCacheStore(logger *common.Logger, path string) (*CacheStore, error) {
	if err := os.MkdirAll(path, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory %s: %w", path, err)
	}

	options := badgerhold.DefaultOptions
	options.Dir = path
	options.ValueDir = path
	options.Logger = nil // Disable default badger logger

	db, err := badgerhold.Open(options)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}

	logger.Debug().Str("path", path).Msg("Cache store opened")

	return &CacheStore{
		db:     db,
		logger: logger,
		now:    time.Now,
	}, nil
}

// GetFresh returns the cached data for key when it is younger than maxAge.
// A missing or stale entry returns (nil, false).
func (s *CacheStore) GetFresh(_ context.Context, key string, maxAge time.Duration) ([]byte, bool) {
	var entry CacheEntry
	err := s.db.Get(key, &entry)
	if err != nil {
		if err != badgerhold.ErrNotFound {
			s.logger.Warn().Err(err).Str("key", key).Msg("Cache read failed")
		}
		return nil, false
	}
	if s.now().Sub(entry.Timestamp) >= maxAge {
		return nil, false
	}
	return entry.Data, true
}

// Put writes data under key with the current timestamp.
func (s *CacheStore) Put(_ context.Context, key string, data []byte) error {
	entry := CacheEntry{Key: key, Data: data, Timestamp: s.now()}
	if err := s.db.Upsert(key, &entry); err != nil {
		return fmt.Errorf("failed to cache key '%s': %w", key, err)
	}
	return nil
}

// Delete removes the entry for key. Missing keys are not an error.
func (s *CacheStore) Delete(_ context.Context, key string) error {
	err := s.db.Delete(key, CacheEntry{})
	if err != nil && err != badgerhold.ErrNotFound {
		return fmt.Errorf("failed to delete key '%s': %w", key, err)
	}
	return nil
}

// Close closes the underlying database.
func (s *CacheStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Ensure CacheStore implements CacheStore
var _ interfaces.CacheStore = (*CacheStore)(nil)
