// Package providers contains clients for the external market-data and news
// APIs. Providers report upstream failures as errors; the orchestrator is
// responsible for degrading them to absent/empty results.
package providers

import "context"

// PriceSnapshot is a point-in-time price reading for one coin. It lives for
// a single request and is never persisted.
type PriceSnapshot struct {
	Price     float64 `json:"price"`
	MarketCap float64 `json:"market_cap"`
	Rank      int     `json:"rank"`
	Provider  string  `json:"-"`
}

type NewsItem struct {
	Title  string `json:"title"`
	URL    string `json:"url"`
	Source string `json:"source"`
}

// PriceProvider looks up market data for a resolved token. A nil snapshot
// with a nil error means the provider had no data for the token.
type PriceProvider interface {
	Name() string
	FetchSnapshot(ctx context.Context, token string) (*PriceSnapshot, error)
}

type NewsProvider interface {
	FetchNews(ctx context.Context, token string) ([]NewsItem, error)
}
