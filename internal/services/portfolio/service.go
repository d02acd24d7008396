// Package portfolio manages each user's simulated holdings. All mutations
// commit against an in-memory snapshot first; the remote document write and
// the transaction audit entry follow best-effort.
package portfolio

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/bobmcallan/folio/internal/common"
	"github.com/bobmcallan/folio/internal/interfaces"
	"github.com/bobmcallan/folio/internal/models"
)

// StartingCash is the balance seeded into a brand-new portfolio.
const StartingCash = 10000.00

// Service implements interfaces.PortfolioService.
type Service struct {
	portfolios   interfaces.PortfolioStore
	transactions interfaces.TransactionStore
	logger       *common.Logger

	mu    sync.Mutex
	state map[string][]models.Asset // per-user snapshot, CASH pseudo-asset included
}

// NewService creates a new portfolio service.
func NewService(portfolios interfaces.PortfolioStore, transactions interfaces.TransactionStore, logger *common.Logger) *Service {
	return &Service{
		portfolios:   portfolios,
		transactions: transactions,
		logger:       logger,
		state:        make(map[string][]models.Asset),
	}
}

// Load returns the user's assets with the CASH pseudo-asset merged in,
// creating a starter portfolio when none exists yet.
func (s *Service) Load(ctx context.Context, userID string) ([]models.Asset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	assets, err := s.loadLocked(ctx, userID)
	if err != nil {
		return nil, err
	}
	return copyAssets(assets), nil
}

// snapshotLocked returns the in-memory snapshot, fetching it on first access.
// Mutations work from this so committed state survives failed persists.
func (s *Service) snapshotLocked(ctx context.Context, userID string) ([]models.Asset, error) {
	if st, ok := s.state[userID]; ok {
		return st, nil
	}
	return s.loadLocked(ctx, userID)
}

// loadLocked fetches the user's portfolio document and reconciles the cash
// balance. Caller must hold s.mu. The returned slice is the live snapshot.
func (s *Service) loadLocked(ctx context.Context, userID string) ([]models.Asset, error) {
	doc, err := s.portfolios.Get(ctx, userID)
	if err != nil {
		if !errors.Is(err, common.ErrNotFound) {
			return nil, fmt.Errorf("failed to load portfolio for %s: %w", userID, err)
		}
		if err := s.createStarterLocked(ctx, userID); err != nil {
			return nil, err
		}
		return s.state[userID], nil
	}

	assets := make([]models.Asset, 0, len(doc.Assets)+1)
	var cashAsset *models.Asset
	for _, a := range doc.Assets {
		if a.IsCash() {
			c := a
			cashAsset = &c
			continue
		}
		assets = append(assets, a)
	}

	// Cash resolution order: explicit CASH asset in the document, then the
	// scalar cash field when present (an explicit zero counts), then whatever
	// this instance held in memory.
	cash := models.Asset{
		ID:       uuid.NewString(),
		Name:     "Cash",
		Symbol:   models.CashSymbol,
		Quantity: 1,
	}
	docCash, hasDocCash := doc.CashValue()
	switch {
	case cashAsset != nil:
		cash = *cashAsset
		cash.Quantity = 1
	case hasDocCash:
		cash.Value = docCash
	default:
		if prev, ok := findCash(s.state[userID]); ok {
			cash.Value = prev.Value
		}
	}
	assets = append(assets, cash)

	s.state[userID] = assets
	return assets, nil
}

// Deposit adds funds to the CASH balance.
func (s *Service) Deposit(ctx context.Context, userID string, amount float64) ([]models.Asset, error) {
	if !models.IsValidAmount(amount) {
		return nil, fmt.Errorf("deposit of %v: %w", amount, common.ErrInvalidAmount)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	assets, err := s.snapshotLocked(ctx, userID)
	if err != nil {
		return nil, err
	}

	cash := ensureCash(&assets)
	cash.Value = models.Round2(cash.Value + amount)
	s.state[userID] = assets

	s.persistLocked(ctx, userID, assets)
	s.appendTransactionLocked(ctx, &models.Transaction{
		UserID:  userID,
		Type:    models.TransactionDeposit,
		Amount:  amount,
		Balance: cash.Value,
	})

	return copyAssets(assets), nil
}

// Withdraw removes funds from the CASH balance.
func (s *Service) Withdraw(ctx context.Context, userID string, amount float64) ([]models.Asset, error) {
	if !models.IsValidAmount(amount) {
		return nil, fmt.Errorf("withdrawal of %v: %w", amount, common.ErrInvalidAmount)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	assets, err := s.snapshotLocked(ctx, userID)
	if err != nil {
		return nil, err
	}

	cash, ok := findCash(assets)
	if !ok || amount > cash.Value {
		return nil, fmt.Errorf("withdrawal of %.2f exceeds balance: %w", amount, common.ErrInsufficientFunds)
	}

	cash.Value = models.Round2(cash.Value - amount)
	s.state[userID] = assets

	s.persistLocked(ctx, userID, assets)
	s.appendTransactionLocked(ctx, &models.Transaction{
		UserID:  userID,
		Type:    models.TransactionWithdraw,
		Amount:  amount,
		Balance: cash.Value,
	})

	return copyAssets(assets), nil
}

// Buy purchases quantity shares of symbol at pricePerShare, funded from CASH.
// A purchase of a symbol already held accumulates onto the existing asset.
func (s *Service) Buy(ctx context.Context, userID, symbol, name string, quantity, price float64) ([]models.Asset, error) {
	if !models.IsValidAmount(quantity) || !models.IsValidAmount(price) {
		return nil, fmt.Errorf("buy of %v @ %v: %w", quantity, price, common.ErrInvalidQuantity)
	}

	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" || symbol == models.CashSymbol {
		return nil, fmt.Errorf("invalid symbol %q: %w", symbol, common.ErrInvalidQuantity)
	}
	if name == "" {
		name = symbol
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	assets, err := s.snapshotLocked(ctx, userID)
	if err != nil {
		return nil, err
	}

	cost := models.Round2(quantity * price)
	cash, ok := findCash(assets)
	if !ok || cost > cash.Value {
		return nil, fmt.Errorf("purchase of %.2f exceeds balance: %w", cost, common.ErrInsufficientFunds)
	}
	cash.Value = models.Round2(cash.Value - cost)

	if held := findSymbol(assets, symbol); held != nil {
		held.Quantity += quantity
		held.Value = models.Round2(held.Value + cost)
	} else {
		assets = append(assets, models.Asset{
			ID:       uuid.NewString(),
			Name:     name,
			Symbol:   symbol,
			Quantity: quantity,
			Value:    cost,
		})
	}
	s.state[userID] = assets

	s.persistLocked(ctx, userID, assets)
	s.appendTransactionLocked(ctx, &models.Transaction{
		UserID:   userID,
		Type:     models.TransactionBuy,
		Symbol:   symbol,
		Quantity: quantity,
		Price:    price,
		Amount:   cost,
		Balance:  cash.Value,
	})

	return copyAssets(assets), nil
}

// Sell disposes of quantity shares of the asset identified by assetID.
// Proceeds are derived from the asset's recorded value, not a market price:
// a full sale returns the whole value, a partial sale a proportional share.
func (s *Service) Sell(ctx context.Context, userID, assetID string, quantity float64) ([]models.Asset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	assets, err := s.snapshotLocked(ctx, userID)
	if err != nil {
		return nil, err
	}

	idx := findIndex(assets, assetID)
	if idx < 0 || assets[idx].IsCash() {
		return nil, fmt.Errorf("asset %s: %w", assetID, common.ErrNotFound)
	}
	held := assets[idx]
	if !models.IsValidAmount(quantity) || quantity > held.Quantity {
		return nil, fmt.Errorf("sale of %v from %v held: %w", quantity, held.Quantity, common.ErrInvalidQuantity)
	}

	var proceeds float64
	if quantity >= held.Quantity {
		proceeds = held.Value
		assets = append(assets[:idx], assets[idx+1:]...)
	} else {
		proceeds = models.Round2(held.Value * quantity / held.Quantity)
		assets[idx].Quantity -= quantity
		assets[idx].Value = models.Round2(held.Value - proceeds)
	}

	cash := ensureCash(&assets)
	cash.Value = models.Round2(cash.Value + proceeds)
	s.state[userID] = assets

	s.persistLocked(ctx, userID, assets)
	s.appendTransactionLocked(ctx, &models.Transaction{
		UserID:   userID,
		Type:     models.TransactionSell,
		Symbol:   held.Symbol,
		Quantity: quantity,
		Price:    models.Round2(proceeds / quantity),
		Amount:   proceeds,
		Balance:  cash.Value,
	})

	return copyAssets(assets), nil
}

// AddAsset appends an asset directly, assigning an id when absent.
func (s *Service) AddAsset(ctx context.Context, userID string, asset models.Asset) ([]models.Asset, error) {
	if asset.Symbol == "" || asset.IsCash() {
		return nil, fmt.Errorf("invalid asset symbol %q: %w", asset.Symbol, common.ErrInvalidQuantity)
	}
	if asset.ID == "" {
		asset.ID = uuid.NewString()
	}
	asset.Symbol = strings.ToUpper(asset.Symbol)

	s.mu.Lock()
	defer s.mu.Unlock()

	assets, err := s.snapshotLocked(ctx, userID)
	if err != nil {
		return nil, err
	}

	assets = append(assets, asset)
	s.state[userID] = assets
	s.persistLocked(ctx, userID, assets)

	return copyAssets(assets), nil
}

// UpdateAsset replaces the stored asset with the same id.
func (s *Service) UpdateAsset(ctx context.Context, userID string, asset models.Asset) ([]models.Asset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	assets, err := s.snapshotLocked(ctx, userID)
	if err != nil {
		return nil, err
	}

	idx := findIndex(assets, asset.ID)
	if idx < 0 {
		return nil, fmt.Errorf("asset %s: %w", asset.ID, common.ErrNotFound)
	}
	if assets[idx].IsCash() {
		return nil, fmt.Errorf("cash asset cannot be updated directly: %w", common.ErrInvalidQuantity)
	}

	assets[idx] = asset
	s.state[userID] = assets
	s.persistLocked(ctx, userID, assets)

	return copyAssets(assets), nil
}

// RemoveAsset deletes an asset without crediting CASH.
func (s *Service) RemoveAsset(ctx context.Context, userID, assetID string) ([]models.Asset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	assets, err := s.snapshotLocked(ctx, userID)
	if err != nil {
		return nil, err
	}

	idx := findIndex(assets, assetID)
	if idx < 0 || assets[idx].IsCash() {
		return nil, fmt.Errorf("asset %s: %w", assetID, common.ErrNotFound)
	}

	assets = append(assets[:idx], assets[idx+1:]...)
	s.state[userID] = assets
	s.persistLocked(ctx, userID, assets)

	return copyAssets(assets), nil
}

// TotalBalance returns the sum of all asset values including cash.
func (s *Service) TotalBalance(ctx context.Context, userID string) (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	assets, err := s.snapshotLocked(ctx, userID)
	if err != nil {
		return 0, err
	}

	var total float64
	for _, a := range assets {
		total += a.Value
	}
	return models.Round2(total), nil
}

// Transactions returns the user's audit trail, newest first.
func (s *Service) Transactions(ctx context.Context, userID string, limit int) ([]*models.Transaction, error) {
	return s.transactions.ListByUser(ctx, userID, limit)
}

// CreateStarter seeds a fresh portfolio with the starting cash balance. Used
// on registration and when a load finds no document.
func (s *Service) CreateStarter(ctx context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.createStarterLocked(ctx, userID)
}

func (s *Service) createStarterLocked(ctx context.Context, userID string) error {
	assets := []models.Asset{{
		ID:       uuid.NewString(),
		Name:     "Cash",
		Symbol:   models.CashSymbol,
		Quantity: 1,
		Value:    StartingCash,
	}}
	s.state[userID] = assets

	doc := buildDocument(userID, assets)
	if err := s.portfolios.Save(ctx, doc); err != nil {
		return fmt.Errorf("failed to create starter portfolio for %s: %w", userID, err)
	}

	s.logger.Info().Str("user_id", userID).Float64("cash", StartingCash).Msg("Starter portfolio created")
	return nil
}

// persistLocked writes the portfolio snapshot. Failures are logged and
// swallowed; the in-memory state is already committed.
func (s *Service) persistLocked(ctx context.Context, userID string, assets []models.Asset) {
	doc := buildDocument(userID, assets)
	if err := s.portfolios.Save(ctx, doc); err != nil {
		s.logger.Warn().Err(err).Str("user_id", userID).Msg("Portfolio persistence failed, in-memory state retained")
	}
}

// appendTransactionLocked records an audit entry best-effort.
func (s *Service) appendTransactionLocked(ctx context.Context, tx *models.Transaction) {
	tx.ID = uuid.NewString()
	tx.Timestamp = time.Now().UTC()
	if err := s.transactions.Append(ctx, tx); err != nil {
		s.logger.Warn().Err(err).Str("user_id", tx.UserID).Str("type", tx.Type).Msg("Transaction audit write failed")
	}
}

// buildDocument splits the snapshot into the persisted shape: non-CASH assets
// plus a scalar cash balance and the portfolio total.
func buildDocument(userID string, assets []models.Asset) *models.PortfolioDocument {
	doc := &models.PortfolioDocument{
		UserID:      userID,
		Assets:      make([]models.Asset, 0, len(assets)),
		LastUpdated: time.Now().UTC(),
	}
	var total float64
	for _, a := range assets {
		total += a.Value
		if a.IsCash() {
			doc.SetCash(a.Value)
			continue
		}
		doc.Assets = append(doc.Assets, a)
	}
	doc.TotalValue = models.Round2(total)
	return doc
}

func findCash(assets []models.Asset) (*models.Asset, bool) {
	for i := range assets {
		if assets[i].IsCash() {
			return &assets[i], true
		}
	}
	return nil, false
}

// ensureCash returns the CASH asset, creating it when missing.
func ensureCash(assets *[]models.Asset) *models.Asset {
	if cash, ok := findCash(*assets); ok {
		return cash
	}
	*assets = append(*assets, models.Asset{
		ID:       uuid.NewString(),
		Name:     "Cash",
		Symbol:   models.CashSymbol,
		Quantity: 1,
	})
	return &(*assets)[len(*assets)-1]
}

func findSymbol(assets []models.Asset, symbol string) *models.Asset {
	for i := range assets {
		if !assets[i].IsCash() && assets[i].Symbol == symbol {
			return &assets[i]
		}
	}
	return nil
}

func findIndex(assets []models.Asset, assetID string) int {
	for i := range assets {
		if assets[i].ID == assetID {
			return i
		}
	}
	return -1
}

func copyAssets(assets []models.Asset) []models.Asset {
	out := make([]models.Asset, len(assets))
	copy(out, assets)
	return out
}

// Ensure Service implements PortfolioService
var _ interfaces.PortfolioService = (*Service)(nil)
