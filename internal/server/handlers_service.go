package server

import (
	"net/http"
	"time"

	"github.com/bobmcallan/folio/internal/common"
)

// handleHealth handles GET /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "ok",
		"time":    time.Now().UTC().Format(time.RFC3339),
		"version": common.GetVersion(),
	})
}

// handleVersion handles GET /api/version.
func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{
		"version": common.GetVersion(),
		"build":   common.GetBuild(),
		"commit":  common.GetGitCommit(),
	})
}

// handleConfig handles GET /api/config. Secrets never leave the server.
func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	cfg := s.app.Config
	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"environment": cfg.Environment,
		"market": map[string]string{
			"refresh_interval": cfg.Market.RefreshInterval,
			"quote_ttl":        cfg.Market.QuoteTTL,
			"news_ttl":         cfg.Market.NewsTTL,
			"search_ttl":       cfg.Market.SearchTTL,
		},
		"alphavantage_configured": cfg.Clients.AlphaVantage.APIKey != "",
	})
}
