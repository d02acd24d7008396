package server

import (
	"context"
	"net/http"
	"strconv"

	"github.com/bobmcallan/folio/internal/models"
)

// portfolioResponse is the standard shape for portfolio reads and mutations.
func (s *Server) portfolioResponse(w http.ResponseWriter, statusCode int, assets []models.Asset) {
	var total float64
	for _, a := range assets {
		total += a.Value
	}
	WriteJSON(w, statusCode, map[string]interface{}{
		"assets":        assets,
		"total_balance": models.Round2(total),
	})
}

// handlePortfolioGet handles GET /api/portfolio.
func (s *Server) handlePortfolioGet(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	assets, err := s.app.Portfolio.Load(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	s.portfolioResponse(w, http.StatusOK, assets)
}

// handlePortfolioDeposit handles POST /api/portfolio/deposit.
func (s *Server) handlePortfolioDeposit(w http.ResponseWriter, r *http.Request) {
	s.handleCashMovement(w, r, s.app.Portfolio.Deposit)
}

// handlePortfolioWithdraw handles POST /api/portfolio/withdraw.
func (s *Server) handlePortfolioWithdraw(w http.ResponseWriter, r *http.Request) {
	s.handleCashMovement(w, r, s.app.Portfolio.Withdraw)
}

// handleCashMovement decodes an {amount} body and applies a deposit or
// withdrawal operation.
func (s *Server) handleCashMovement(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, userID string, amount float64) ([]models.Asset, error)) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req struct {
		Amount float64 `json:"amount"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}

	assets, err := op(r.Context(), userID, req.Amount)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	s.portfolioResponse(w, http.StatusOK, assets)
}

// handlePortfolioBuy handles POST /api/portfolio/buy.
func (s *Server) handlePortfolioBuy(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req struct {
		Symbol   string  `json:"symbol"`
		Name     string  `json:"name"`
		Quantity float64 `json:"quantity"`
		Price    float64 `json:"price"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}

	assets, err := s.app.Portfolio.Buy(r.Context(), userID, req.Symbol, req.Name, req.Quantity, req.Price)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	s.portfolioResponse(w, http.StatusOK, assets)
}

// handlePortfolioSell handles POST /api/portfolio/sell.
func (s *Server) handlePortfolioSell(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req struct {
		AssetID  string  `json:"asset_id"`
		Quantity float64 `json:"quantity"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}

	assets, err := s.app.Portfolio.Sell(r.Context(), userID, req.AssetID, req.Quantity)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	s.portfolioResponse(w, http.StatusOK, assets)
}

// handlePortfolioTransactions handles GET /api/portfolio/transactions.
func (s *Server) handlePortfolioTransactions(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			WriteError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}

	txs, err := s.app.Portfolio.Transactions(r.Context(), userID, limit)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if txs == nil {
		txs = []*models.Transaction{}
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"transactions": txs,
	})
}
