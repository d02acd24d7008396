package models

import (
	"math"
	"time"
)

// CashSymbol is the reserved symbol of the cash pseudo-asset. The in-memory
// portfolio carries cash as an asset with quantity 1 and value equal to the
// balance; the persisted document stores cash as a scalar instead.
const CashSymbol = "CASH"

// Asset is a position held in a portfolio.
type Asset struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Symbol   string  `json:"symbol"`
	Quantity float64 `json:"quantity"`
	Value    float64 `json:"value"`
}

// IsCash reports whether the asset is the cash pseudo-asset.
func (a *Asset) IsCash() bool {
	return a.Symbol == CashSymbol
}

// PortfolioDocument is the persisted portfolio shape in the portfolio table,
// keyed by user id. Assets excludes the cash pseudo-asset. Cash is a pointer
// so an explicit zero balance stays distinguishable from an absent field.
type PortfolioDocument struct {
	UserID      string    `json:"user_id"`
	Assets      []Asset   `json:"assets"`
	Cash        *float64  `json:"cash,omitempty"`
	TotalValue  float64   `json:"total_value"`
	LastUpdated time.Time `json:"last_updated"`
}

// SetCash stores v as the document's scalar cash balance.
func (d *PortfolioDocument) SetCash(v float64) {
	d.Cash = &v
}

// CashValue returns the scalar cash balance and whether the field was set.
func (d *PortfolioDocument) CashValue() (float64, bool) {
	if d.Cash == nil {
		return 0, false
	}
	return *d.Cash, true
}

// Transaction types recorded in the audit trail.
const (
	TransactionBuy      = "buy"
	TransactionSell     = "sell"
	TransactionDeposit  = "deposit"
	TransactionWithdraw = "withdraw"
)

// Transaction is an append-only audit record of a portfolio mutation.
// Balance is the cash balance after the operation.
type Transaction struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Type      string    `json:"type"`
	Symbol    string    `json:"symbol,omitempty"`
	Quantity  float64   `json:"quantity,omitempty"`
	Price     float64   `json:"price,omitempty"`
	Amount    float64   `json:"amount"`
	Balance   float64   `json:"balance"`
	Timestamp time.Time `json:"timestamp"`
}

// Round2 rounds a monetary value to 2 decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// IsValidAmount reports whether v is a positive, finite cash amount.
func IsValidAmount(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}
