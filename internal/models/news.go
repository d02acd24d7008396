package models

// NewsArticle is a finance news item served to clients.
type NewsArticle struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	URL           string   `json:"url"`
	TimePublished string   `json:"time_published"`
	Summary       string   `json:"summary"`
	Source        string   `json:"source"`
	ImageURL      string   `json:"image_url,omitempty"`
	Topics        []string `json:"topics,omitempty"`
	Sentiment     string   `json:"sentiment,omitempty"`
	Tickers       []string `json:"tickers,omitempty"`
}
