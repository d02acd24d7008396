package server

import (
	"context"
	"net/http"
	"strings"

	"github.com/bobmcallan/folio/internal/models"
)

// handleMarketStocks handles GET /api/market/stocks plus the nested refresh
// and watchlist routes dispatched by routeMarketStocks.
func (s *Server) handleMarketStocks(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	stocks, err := s.app.Market.Stocks(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{"stocks": stocks})
}

// handleMarketRefresh handles POST /api/market/stocks/refresh.
func (s *Server) handleMarketRefresh(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	stocks, err := s.app.Market.Refresh(r.Context(), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{"stocks": stocks})
}

// handleMarketWatchlistToggle handles POST /api/market/stocks/{id}/watchlist.
func (s *Server) handleMarketWatchlistToggle(w http.ResponseWriter, r *http.Request, stockID string) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	stocks, err := s.app.Market.ToggleWatchlist(r.Context(), userID, stockID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{"stocks": stocks})
}

// routeMarketStocks dispatches /api/market/stocks and its sub-routes.
func (s *Server) routeMarketStocks(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimSuffix(r.URL.Path, "/")

	switch {
	case path == "/api/market/stocks":
		s.handleMarketStocks(w, r)
	case path == "/api/market/stocks/refresh":
		s.handleMarketRefresh(w, r)
	case strings.HasSuffix(path, "/watchlist"):
		stockID := PathParam(r, "/api/market/stocks/", "/watchlist")
		if stockID == "" {
			WriteError(w, http.StatusNotFound, "unknown route")
			return
		}
		s.handleMarketWatchlistToggle(w, r, stockID)
	default:
		WriteError(w, http.StatusNotFound, "unknown route")
	}
}

// handleMarketQuote handles GET /api/market/quote/{symbol}.
func (s *Server) handleMarketQuote(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	if _, ok := requireUser(w, r); !ok {
		return
	}

	symbol := PathParam(r, "/api/market/quote/", "")
	quote, err := s.app.Market.Quote(r.Context(), symbol)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, quote)
}

// handleMarketSearch handles GET /api/market/search?q=.
func (s *Server) handleMarketSearch(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	if _, ok := requireUser(w, r); !ok {
		return
	}

	query := r.URL.Query().Get("q")
	if query == "" {
		WriteError(w, http.StatusBadRequest, "query parameter 'q' is required")
		return
	}

	matches, err := s.app.Market.Search(r.Context(), query)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if matches == nil {
		matches = []models.SymbolMatch{}
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{"matches": matches})
}

// handleMarketDaily handles GET /api/market/daily/{symbol}.
func (s *Server) handleMarketDaily(w http.ResponseWriter, r *http.Request) {
	s.handleMarketSeries(w, r, "/api/market/daily/", s.app.Market.DailySeries)
}

// handleMarketIntraday handles GET /api/market/intraday/{symbol}.
func (s *Server) handleMarketIntraday(w http.ResponseWriter, r *http.Request) {
	s.handleMarketSeries(w, r, "/api/market/intraday/", s.app.Market.IntradaySeries)
}

func (s *Server) handleMarketSeries(w http.ResponseWriter, r *http.Request, prefix string, op func(ctx context.Context, symbol string) (*models.TimeSeries, error)) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	if _, ok := requireUser(w, r); !ok {
		return
	}

	symbol := PathParam(r, prefix, "")
	series, err := op(r.Context(), symbol)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, series)
}
