package server

import (
	"net/http"
	"strings"
)

// registerRoutes wires all REST API routes onto the mux.
func (s *Server) registerRoutes(mux *http.ServeMux) {
	// Service
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/version", s.handleVersion)
	mux.HandleFunc("/api/config", s.handleConfig)

	// Auth
	mux.HandleFunc("/api/auth/register", s.handleAuthRegister)
	mux.HandleFunc("/api/auth/login", s.handleAuthLogin)
	mux.HandleFunc("/api/auth/logout", s.handleAuthLogout)
	mux.HandleFunc("/api/auth/validate", s.handleAuthValidate)

	// User profile
	mux.HandleFunc("/api/users/me", s.handleUserMe)

	// Portfolio
	mux.HandleFunc("/api/portfolio", s.handlePortfolioGet)
	mux.HandleFunc("/api/portfolio/deposit", s.handlePortfolioDeposit)
	mux.HandleFunc("/api/portfolio/withdraw", s.handlePortfolioWithdraw)
	mux.HandleFunc("/api/portfolio/buy", s.handlePortfolioBuy)
	mux.HandleFunc("/api/portfolio/sell", s.handlePortfolioSell)
	mux.HandleFunc("/api/portfolio/transactions", s.handlePortfolioTransactions)

	// Market watch
	mux.HandleFunc("/api/market/stocks", s.routeMarketStocks)
	mux.HandleFunc("/api/market/stocks/", s.routeMarketStocks)
	mux.HandleFunc("/api/market/quote/", s.handleMarketQuote)
	mux.HandleFunc("/api/market/search", s.handleMarketSearch)
	mux.HandleFunc("/api/market/daily/", s.handleMarketDaily)
	mux.HandleFunc("/api/market/intraday/", s.handleMarketIntraday)

	// News
	mux.HandleFunc("/api/news", s.handleNews)

	// Catch-all for unknown API routes
	mux.HandleFunc("/api/", func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/api/") {
			WriteError(w, http.StatusNotFound, "unknown route")
			return
		}
		http.NotFound(w, r)
	})
}
