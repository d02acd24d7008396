package portfolio

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/folio/internal/common"
	"github.com/bobmcallan/folio/internal/models"
)

// memPortfolioStore is an in-memory PortfolioStore.
type memPortfolioStore struct {
	docs    map[string]*models.PortfolioDocument
	saveErr error
}

func newMemPortfolioStore() *memPortfolioStore {
	return &memPortfolioStore{docs: make(map[string]*models.PortfolioDocument)}
}

func (s *memPortfolioStore) Get(_ context.Context, userID string) (*models.PortfolioDocument, error) {
	doc, ok := s.docs[userID]
	if !ok {
		return nil, fmt.Errorf("portfolio %s: %w", userID, common.ErrNotFound)
	}
	cp := *doc
	return &cp, nil
}

func (s *memPortfolioStore) Save(_ context.Context, doc *models.PortfolioDocument) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	cp := *doc
	s.docs[doc.UserID] = &cp
	return nil
}

func (s *memPortfolioStore) Delete(_ context.Context, userID string) error {
	delete(s.docs, userID)
	return nil
}

// memTransactionStore is an in-memory TransactionStore.
type memTransactionStore struct {
	entries []*models.Transaction
}

func (s *memTransactionStore) Append(_ context.Context, tx *models.Transaction) error {
	cp := *tx
	s.entries = append(s.entries, &cp)
	return nil
}

func (s *memTransactionStore) ListByUser(_ context.Context, userID string, limit int) ([]*models.Transaction, error) {
	var out []*models.Transaction
	for _, tx := range s.entries {
		if tx.UserID == userID {
			out = append(out, tx)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func newTestService(t *testing.T) (*Service, *memPortfolioStore, *memTransactionStore) {
	t.Helper()
	docs := newMemPortfolioStore()
	txs := &memTransactionStore{}
	return NewService(docs, txs, common.NewSilentLogger()), docs, txs
}

func seedCash(t *testing.T, docs *memPortfolioStore, userID string, cash float64) {
	t.Helper()
	doc := &models.PortfolioDocument{UserID: userID}
	doc.SetCash(cash)
	require.NoError(t, docs.Save(context.Background(), doc))
}

func docCash(t *testing.T, doc *models.PortfolioDocument) float64 {
	t.Helper()
	cash, ok := doc.CashValue()
	require.True(t, ok, "document has no cash field")
	return cash
}

func cashBalance(t *testing.T, assets []models.Asset) float64 {
	t.Helper()
	for _, a := range assets {
		if a.IsCash() {
			return a.Value
		}
	}
	t.Fatal("no cash asset in portfolio")
	return 0
}

func findBySymbol(assets []models.Asset, symbol string) *models.Asset {
	for i := range assets {
		if assets[i].Symbol == symbol {
			return &assets[i]
		}
	}
	return nil
}

func TestLoad_CreatesStarterPortfolio(t *testing.T) {
	svc, docs, _ := newTestService(t)

	assets, err := svc.Load(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, assets, 1)
	assert.Equal(t, models.CashSymbol, assets[0].Symbol)
	assert.Equal(t, StartingCash, assets[0].Value)

	// Starter document is persisted
	doc, err := docs.Get(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, StartingCash, docCash(t, doc))
}

func TestLoad_CashFromScalarField(t *testing.T) {
	svc, docs, _ := newTestService(t)
	seedCash(t, docs, "u1", 432.10)

	assets, err := svc.Load(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, 432.10, cashBalance(t, assets))
}

func TestLoad_CashAssetWinsOverScalar(t *testing.T) {
	svc, docs, _ := newTestService(t)
	doc := &models.PortfolioDocument{
		UserID: "u1",
		Assets: []models.Asset{
			{ID: "c1", Name: "Cash", Symbol: models.CashSymbol, Quantity: 1, Value: 777},
		},
	}
	doc.SetCash(100)
	require.NoError(t, docs.Save(context.Background(), doc))

	assets, err := svc.Load(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, 777.0, cashBalance(t, assets))
}

func TestLoad_ExplicitZeroCashWinsOverMemory(t *testing.T) {
	svc, docs, _ := newTestService(t)
	ctx := context.Background()

	doc := &models.PortfolioDocument{
		UserID: "u1",
		Assets: []models.Asset{
			{ID: "a1", Name: "Apple", Symbol: "AAPL", Quantity: 1, Value: 150},
		},
	}
	doc.SetCash(0)
	require.NoError(t, docs.Save(ctx, doc))

	// Build up in-memory cash while the remote document stays at zero
	docs.saveErr = errors.New("connection reset")
	assets, err := svc.Deposit(ctx, "u1", 500)
	require.NoError(t, err)
	assert.Equal(t, 500.0, cashBalance(t, assets))

	// The document's explicit zero balance is authoritative on reload
	assets, err = svc.Load(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 0.0, cashBalance(t, assets))
}

func TestLoad_AbsentCashFallsBackToMemory(t *testing.T) {
	svc, docs, _ := newTestService(t)
	ctx := context.Background()

	require.NoError(t, docs.Save(ctx, &models.PortfolioDocument{
		UserID: "u1",
		Assets: []models.Asset{
			{ID: "a1", Name: "Apple", Symbol: "AAPL", Quantity: 1, Value: 150},
		},
	}))

	docs.saveErr = errors.New("connection reset")
	_, err := svc.Deposit(ctx, "u1", 500)
	require.NoError(t, err)

	// With no cash field on the document, the in-memory balance survives
	assets, err := svc.Load(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 500.0, cashBalance(t, assets))
}

func TestDeposit(t *testing.T) {
	svc, _, txs := newTestService(t)
	ctx := context.Background()

	assets, err := svc.Deposit(ctx, "u1", 250.50)
	require.NoError(t, err)
	assert.Equal(t, StartingCash+250.50, cashBalance(t, assets))

	require.Len(t, txs.entries, 1)
	assert.Equal(t, models.TransactionDeposit, txs.entries[0].Type)
	assert.Equal(t, 250.50, txs.entries[0].Amount)
	assert.Equal(t, StartingCash+250.50, txs.entries[0].Balance)
}

func TestDeposit_InvalidAmounts(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	for _, amount := range []float64{0, -5, math.NaN(), math.Inf(1)} {
		_, err := svc.Deposit(ctx, "u1", amount)
		assert.True(t, errors.Is(err, common.ErrInvalidAmount), "amount %v", amount)
	}
}

func TestWithdraw(t *testing.T) {
	svc, docs, txs := newTestService(t)
	seedCash(t, docs, "u1", 500)
	ctx := context.Background()

	assets, err := svc.Withdraw(ctx, "u1", 120.25)
	require.NoError(t, err)
	assert.Equal(t, 379.75, cashBalance(t, assets))

	require.Len(t, txs.entries, 1)
	assert.Equal(t, models.TransactionWithdraw, txs.entries[0].Type)
}

func TestWithdraw_BeyondBalanceLeavesStateUnchanged(t *testing.T) {
	svc, docs, txs := newTestService(t)
	seedCash(t, docs, "u1", 100)
	ctx := context.Background()

	_, err := svc.Withdraw(ctx, "u1", 100.01)
	assert.True(t, errors.Is(err, common.ErrInsufficientFunds))

	assets, err := svc.Load(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 100.0, cashBalance(t, assets))
	assert.Empty(t, txs.entries)
}

func TestWithdraw_InvalidAmount(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Withdraw(context.Background(), "u1", -1)
	assert.True(t, errors.Is(err, common.ErrInvalidAmount))
}

func TestBuyThenSell_Scenario(t *testing.T) {
	svc, docs, _ := newTestService(t)
	seedCash(t, docs, "u1", 1000)
	ctx := context.Background()

	// Buy 5 AAPL @ 150: cost 750, cash 250
	assets, err := svc.Buy(ctx, "u1", "AAPL", "Apple Inc", 5, 150)
	require.NoError(t, err)
	assert.Equal(t, 250.0, cashBalance(t, assets))
	aapl := findBySymbol(assets, "AAPL")
	require.NotNil(t, aapl)
	assert.Equal(t, 5.0, aapl.Quantity)
	assert.Equal(t, 750.0, aapl.Value)

	// Sell 2 of 5: proceeds 300, cash 550, asset 3 shares worth 450
	assets, err = svc.Sell(ctx, "u1", aapl.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, 550.0, cashBalance(t, assets))
	aapl = findBySymbol(assets, "AAPL")
	require.NotNil(t, aapl)
	assert.Equal(t, 3.0, aapl.Quantity)
	assert.Equal(t, 450.0, aapl.Value)
}

func TestBuy_AccumulatesOntoExistingHolding(t *testing.T) {
	svc, docs, _ := newTestService(t)
	seedCash(t, docs, "u1", 2000)
	ctx := context.Background()

	assets, err := svc.Buy(ctx, "u1", "NVDA", "NVIDIA", 1, 900)
	require.NoError(t, err)
	first := findBySymbol(assets, "NVDA")
	require.NotNil(t, first)

	assets, err = svc.Buy(ctx, "u1", "nvda", "", 1, 950)
	require.NoError(t, err)
	nvda := findBySymbol(assets, "NVDA")
	require.NotNil(t, nvda)
	assert.Equal(t, first.ID, nvda.ID)
	assert.Equal(t, 2.0, nvda.Quantity)
	assert.Equal(t, 1850.0, nvda.Value)
	assert.Equal(t, 150.0, cashBalance(t, assets))
}

func TestBuy_InsufficientFunds(t *testing.T) {
	svc, docs, _ := newTestService(t)
	seedCash(t, docs, "u1", 100)
	ctx := context.Background()

	_, err := svc.Buy(ctx, "u1", "AAPL", "Apple", 1, 100.01)
	assert.True(t, errors.Is(err, common.ErrInsufficientFunds))

	assets, err := svc.Load(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 100.0, cashBalance(t, assets))
	assert.Nil(t, findBySymbol(assets, "AAPL"))
}

func TestBuy_InvalidInputs(t *testing.T) {
	svc, docs, _ := newTestService(t)
	seedCash(t, docs, "u1", 1000)
	ctx := context.Background()

	_, err := svc.Buy(ctx, "u1", "AAPL", "Apple", 0, 150)
	assert.True(t, errors.Is(err, common.ErrInvalidQuantity))

	_, err = svc.Buy(ctx, "u1", "AAPL", "Apple", 1, -1)
	assert.True(t, errors.Is(err, common.ErrInvalidQuantity))

	_, err = svc.Buy(ctx, "u1", "CASH", "Cash", 1, 1)
	assert.True(t, errors.Is(err, common.ErrInvalidQuantity))
}

func TestSell_FullSaleRemovesAssetAndRoundTrips(t *testing.T) {
	svc, docs, _ := newTestService(t)
	seedCash(t, docs, "u1", 1000)
	ctx := context.Background()

	assets, err := svc.Buy(ctx, "u1", "TSLA", "Tesla", 3, 214.65)
	require.NoError(t, err)
	tsla := findBySymbol(assets, "TSLA")
	require.NotNil(t, tsla)

	assets, err = svc.Sell(ctx, "u1", tsla.ID, 3)
	require.NoError(t, err)
	assert.Nil(t, findBySymbol(assets, "TSLA"))
	// Full round trip restores the original balance within a cent
	assert.InDelta(t, 1000.0, cashBalance(t, assets), 0.01)
}

func TestSell_Invalid(t *testing.T) {
	svc, docs, _ := newTestService(t)
	seedCash(t, docs, "u1", 1000)
	ctx := context.Background()

	assets, err := svc.Buy(ctx, "u1", "AMD", "AMD", 2, 100)
	require.NoError(t, err)
	amd := findBySymbol(assets, "AMD")

	_, err = svc.Sell(ctx, "u1", "no-such-asset", 1)
	assert.True(t, errors.Is(err, common.ErrNotFound))

	_, err = svc.Sell(ctx, "u1", amd.ID, 3)
	assert.True(t, errors.Is(err, common.ErrInvalidQuantity))

	_, err = svc.Sell(ctx, "u1", amd.ID, 0)
	assert.True(t, errors.Is(err, common.ErrInvalidQuantity))
}

func TestSell_CashAssetIsNotSellable(t *testing.T) {
	svc, docs, _ := newTestService(t)
	require.NoError(t, docs.Save(context.Background(), &models.PortfolioDocument{
		UserID: "u1",
		Assets: []models.Asset{
			{ID: "c1", Name: "Cash", Symbol: models.CashSymbol, Quantity: 1, Value: 500},
		},
	}))

	_, err := svc.Sell(context.Background(), "u1", "c1", 1)
	assert.True(t, errors.Is(err, common.ErrNotFound))
}

func TestPersistenceFailureDoesNotFailMutation(t *testing.T) {
	svc, docs, _ := newTestService(t)
	seedCash(t, docs, "u1", 1000)
	ctx := context.Background()

	// Prime the in-memory snapshot, then break the store
	_, err := svc.Load(ctx, "u1")
	require.NoError(t, err)
	docs.saveErr = errors.New("connection reset")

	assets, err := svc.Deposit(ctx, "u1", 50)
	require.NoError(t, err)
	assert.Equal(t, 1050.0, cashBalance(t, assets))

	// The committed state survives and the document still holds the old value
	doc, err := docs.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 1000.0, docCash(t, doc))

	// The next mutation continues from the committed 1050 and persists it
	docs.saveErr = nil
	assets, err = svc.Deposit(ctx, "u1", 25)
	require.NoError(t, err)
	assert.Equal(t, 1075.0, cashBalance(t, assets))

	doc, err = docs.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 1075.0, docCash(t, doc))
}

func TestAddUpdateRemoveAsset(t *testing.T) {
	svc, docs, _ := newTestService(t)
	seedCash(t, docs, "u1", 100)
	ctx := context.Background()

	assets, err := svc.AddAsset(ctx, "u1", models.Asset{Name: "Microsoft", Symbol: "msft", Quantity: 2, Value: 650})
	require.NoError(t, err)
	msft := findBySymbol(assets, "MSFT")
	require.NotNil(t, msft)
	require.NotEmpty(t, msft.ID)

	updated := *msft
	updated.Quantity = 4
	updated.Value = 1300
	assets, err = svc.UpdateAsset(ctx, "u1", updated)
	require.NoError(t, err)
	assert.Equal(t, 4.0, findBySymbol(assets, "MSFT").Quantity)

	assets, err = svc.RemoveAsset(ctx, "u1", msft.ID)
	require.NoError(t, err)
	assert.Nil(t, findBySymbol(assets, "MSFT"))
	// Removal does not credit cash
	assert.Equal(t, 100.0, cashBalance(t, assets))

	_, err = svc.RemoveAsset(ctx, "u1", "missing")
	assert.True(t, errors.Is(err, common.ErrNotFound))
}

func TestTotalBalance(t *testing.T) {
	svc, docs, _ := newTestService(t)
	seedCash(t, docs, "u1", 1000)
	ctx := context.Background()

	_, err := svc.Buy(ctx, "u1", "AAPL", "Apple", 2, 175.34)
	require.NoError(t, err)

	total, err := svc.TotalBalance(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 1000.0, total)
}

func TestTransactionsNewestFirst(t *testing.T) {
	svc, docs, _ := newTestService(t)
	seedCash(t, docs, "u1", 1000)
	ctx := context.Background()

	_, err := svc.Deposit(ctx, "u1", 10)
	require.NoError(t, err)
	_, err = svc.Withdraw(ctx, "u1", 5)
	require.NoError(t, err)

	txs, err := svc.Transactions(ctx, "u1", 0)
	require.NoError(t, err)
	require.Len(t, txs, 2)
}
