package models

import "time"

// Quote is a display-ready price quote. Price is a 2-decimal string and
// Change is a signed percent string, e.g. "+0.89%".
type Quote struct {
	Symbol   string `json:"symbol"`
	Price    string `json:"price"`
	Change   string `json:"change"`
	Trending bool   `json:"trending"`
}

// TrackedStock is an entry on the market watch board.
type TrackedStock struct {
	ID          string `json:"id"`
	Symbol      string `json:"symbol"`
	Name        string `json:"name"`
	Price       string `json:"price"`
	Change      string `json:"change"`
	Trending    bool   `json:"trending"`
	InWatchlist bool   `json:"in_watchlist"`
}

// WatchlistDocument is the persisted watchlist shape in the watchlist table,
// keyed by user id.
type WatchlistDocument struct {
	UserID    string    `json:"user_id"`
	Symbols   []string  `json:"symbols"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SymbolMatch is a symbol search result.
type SymbolMatch struct {
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Type     string `json:"type"`
	Region   string `json:"region"`
	Currency string `json:"currency"`
}

// SeriesBar is a single OHLCV bar from a daily or intraday time series.
type SeriesBar struct {
	Time   time.Time `json:"time"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume int64     `json:"volume"`
}

// TimeSeries is an ordered series of bars for a symbol, newest first.
type TimeSeries struct {
	Symbol   string      `json:"symbol"`
	Interval string      `json:"interval,omitempty"`
	Bars     []SeriesBar `json:"bars"`
}
