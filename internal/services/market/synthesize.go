package market

import (
	"fmt"
	"hash/fnv"
	"math/rand"
	"strings"
	"time"

	"github.com/bobmcallan/folio/internal/models"
)

// quoteBucket is how long a synthesized quote stays stable. The PRNG is
// seeded from symbol + time bucket so repeated calls within a bucket agree.
const quoteBucket = 5 * time.Minute

// seedStock is a tracked ticker with its synthesis parameters.
type seedStock struct {
	id        string
	symbol    string
	name      string
	basePrice float64
	changeMin float64
	changeMax float64
	watchlist bool
}

// seedStocks is the default market watch board.
var seedStocks = []seedStock{
	{"1", "AAPL", "Apple Inc.", 175.34, -2, 2, true},
	{"2", "TSLA", "Tesla Inc.", 214.65, -4, 4, true},
	{"3", "MSFT", "Microsoft Corp.", 328.79, -1.5, 1.5, true},
	{"4", "AMZN", "Amazon.com Inc.", 139.52, -2.5, 2.5, true},
	{"5", "GOOGL", "Alphabet Inc.", 147.68, -1.5, 1.5, true},
	{"6", "META", "Meta Platforms Inc.", 473.32, -2, 2, false},
	{"7", "NFLX", "Netflix Inc.", 628.82, -3, 3, false},
	{"8", "AMD", "Advanced Micro Devices", 158.76, -3.5, 3.5, false},
	{"9", "NVDA", "NVIDIA Corp.", 902.50, -3, 4, false},
	{"10", "INTC", "Intel Corp.", 32.95, -2.5, 2.5, false},
}

func findSeed(symbol string) (seedStock, bool) {
	for _, s := range seedStocks {
		if s.symbol == symbol {
			return s, true
		}
	}
	return seedStock{}, false
}

// synthesisParams returns the base price and change range for a symbol,
// falling back to generic values for unknown tickers.
func synthesisParams(symbol string) (base, changeMin, changeMax float64) {
	if s, ok := findSeed(symbol); ok {
		return s.basePrice, s.changeMin, s.changeMax
	}
	return 100.00, -2, 2
}

// seededRand builds a PRNG keyed by symbol and time bucket.
func seededRand(symbol string, now time.Time) *rand.Rand {
	h := fnv.New64a()
	h.Write([]byte(symbol))
	seed := int64(h.Sum64()) + now.Unix()/int64(quoteBucket.Seconds())
	return rand.New(rand.NewSource(seed))
}

// synthesizeQuote produces a plausible quote for a symbol when live data is
// unavailable. Output shape matches a live quote exactly.
func synthesizeQuote(symbol string, now time.Time) *models.Quote {
	base, changeMin, changeMax := synthesisParams(symbol)
	rng := seededRand(symbol, now)

	changePercent := changeMin + rng.Float64()*(changeMax-changeMin)
	price := base * (1 + (rng.Float64()*0.02 - 0.01)) // ±1% jitter

	sign := "+"
	if changePercent < 0 {
		sign = ""
	}

	return &models.Quote{
		Symbol:   symbol,
		Price:    fmt.Sprintf("%.2f", price),
		Change:   fmt.Sprintf("%s%.2f%%", sign, changePercent),
		Trending: changePercent >= 0,
	}
}

// synthesizeSeries produces a plausible OHLCV series, newest first. Daily
// bars step back one day per bar; intraday bars step back five minutes.
func synthesizeSeries(symbol, interval string, points int, now time.Time) *models.TimeSeries {
	base, _, _ := synthesisParams(symbol)
	rng := seededRand(symbol+interval, now)

	step := 24 * time.Hour
	if interval != "" {
		step = 5 * time.Minute
	}

	bars := make([]models.SeriesBar, points)
	price := base
	for i := 0; i < points; i++ {
		open := price * (1 + (rng.Float64()*0.01 - 0.005))
		high := open * (1 + rng.Float64()*0.02)
		low := open * (1 - rng.Float64()*0.02)
		closePrice := low + rng.Float64()*(high-low)

		bars[i] = models.SeriesBar{
			Time:   now.Add(-time.Duration(i) * step),
			Open:   models.Round2(open),
			High:   models.Round2(high),
			Low:    models.Round2(low),
			Close:  models.Round2(closePrice),
			Volume: int64(rng.Intn(1000000)) + 500000,
		}
		price = closePrice
	}

	return &models.TimeSeries{
		Symbol:   symbol,
		Interval: interval,
		Bars:     bars,
	}
}

// fallbackSearch matches the seed board against a query when the search API
// is unavailable.
func fallbackSearch(query string) []models.SymbolMatch {
	var matches []models.SymbolMatch
	for _, s := range seedStocks {
		if containsFold(s.symbol, query) || containsFold(s.name, query) {
			matches = append(matches, models.SymbolMatch{
				Symbol:   s.symbol,
				Name:     s.name,
				Type:     "Equity",
				Region:   "United States",
				Currency: "USD",
			})
		}
	}
	return matches
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToUpper(s), strings.ToUpper(substr))
}
