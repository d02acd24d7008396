package alphavantage

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// flexFloat64 handles JSON values that may be either a number or a string.
type flexFloat64 float64

func (f *flexFloat64) UnmarshalJSON(data []byte) error {
	var num float64
	if err := json.Unmarshal(data, &num); err == nil {
		*f = flexFloat64(num)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if s == "" || s == "N/A" || s == "-" {
			*f = 0
			return nil
		}
		num, err := strconv.ParseFloat(s, 64)
		if err != nil {
			*f = 0
			return nil
		}
		*f = flexFloat64(num)
		return nil
	}
	return fmt.Errorf("cannot unmarshal %s into float64", string(data))
}

// apiEnvelope captures the out-of-band fields Alpha Vantage returns in a 200
// body when a request is throttled or malformed.
type apiEnvelope struct {
	Note         string `json:"Note"`
	Information  string `json:"Information"`
	ErrorMessage string `json:"Error Message"`
}

type globalQuoteResponse struct {
	GlobalQuote struct {
		Symbol        string      `json:"01. symbol"`
		Open          flexFloat64 `json:"02. open"`
		High          flexFloat64 `json:"03. high"`
		Low           flexFloat64 `json:"04. low"`
		Price         flexFloat64 `json:"05. price"`
		Volume        flexFloat64 `json:"06. volume"`
		LatestDay     string      `json:"07. latest trading day"`
		PreviousClose flexFloat64 `json:"08. previous close"`
		Change        flexFloat64 `json:"09. change"`
		ChangePercent string      `json:"10. change percent"`
	} `json:"Global Quote"`
}

type seriesBarResponse struct {
	Open   flexFloat64 `json:"1. open"`
	High   flexFloat64 `json:"2. high"`
	Low    flexFloat64 `json:"3. low"`
	Close  flexFloat64 `json:"4. close"`
	Volume flexFloat64 `json:"5. volume"`
}

type dailySeriesResponse struct {
	TimeSeries map[string]seriesBarResponse `json:"Time Series (Daily)"`
}

type symbolSearchResponse struct {
	BestMatches []struct {
		Symbol   string `json:"1. symbol"`
		Name     string `json:"2. name"`
		Type     string `json:"3. type"`
		Region   string `json:"4. region"`
		Currency string `json:"8. currency"`
	} `json:"bestMatches"`
}

type newsResponse struct {
	Items string `json:"items"`
	Feed  []struct {
		Title                 string `json:"title"`
		URL                   string `json:"url"`
		TimePublished         string `json:"time_published"`
		Summary               string `json:"summary"`
		BannerImage           string `json:"banner_image"`
		Source                string `json:"source"`
		OverallSentimentLabel string `json:"overall_sentiment_label"`
		Topics                []struct {
			Topic string `json:"topic"`
		} `json:"topics"`
		TickerSentiment []struct {
			Ticker string `json:"ticker"`
		} `json:"ticker_sentiment"`
	} `json:"feed"`
}
