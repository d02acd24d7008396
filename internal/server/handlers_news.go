package server

import (
	"net/http"
	"strconv"
	"strings"
)

// handleNews handles GET /api/news?tickers=&topics=&limit=.
func (s *Server) handleNews(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	if _, ok := requireUser(w, r); !ok {
		return
	}

	q := r.URL.Query()
	tickers := splitParam(q.Get("tickers"))
	for i := range tickers {
		tickers[i] = strings.ToUpper(tickers[i])
	}
	topics := splitParam(q.Get("topics"))

	limit := 0
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			WriteError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}

	articles, err := s.app.News.Fetch(r.Context(), tickers, topics, limit)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]interface{}{"articles": articles})
}

func splitParam(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
