package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const coinMarketCapDefaultBaseURL = "https://pro-api.coinmarketcap.com"

// CoinMarketCapProvider is the fallback market-data source, queried by
// upper-cased symbol. Without an API key the provider is unavailable.
type CoinMarketCapProvider struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

type coinMarketCapResponse struct {
	Data map[string]coinMarketCapCoin `json:"data"`
}

type coinMarketCapCoin struct {
	CMCRank *int `json:"cmc_rank"`
	Quote   struct {
		USD struct {
			Price     *float64 `json:"price"`
			MarketCap *float64 `json:"market_cap"`
		} `json:"USD"`
	} `json:"quote"`
}

func NewCoinMarketCapProvider(baseURL, apiKey string) *CoinMarketCapProvider {
	resolvedBaseURL := strings.TrimRight(baseURL, "/")
	if resolvedBaseURL == "" {
		resolvedBaseURL = coinMarketCapDefaultBaseURL
	}

	return &CoinMarketCapProvider{
		baseURL: resolvedBaseURL,
		apiKey:  apiKey,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (p *CoinMarketCapProvider) Name() string { return "coinmarketcap" }

// Available reports whether a credential is configured. Callers decide the
// fallback here once; FetchSnapshot does not re-check the key.
func (p *CoinMarketCapProvider) Available() bool {
	return strings.TrimSpace(p.apiKey) != ""
}

func (p *CoinMarketCapProvider) FetchSnapshot(ctx context.Context, token string) (*PriceSnapshot, error) {
	if strings.TrimSpace(token) == "" {
		return nil, nil
	}
	symbol := strings.ToUpper(token)

	endpoint, err := url.Parse(p.baseURL + "/v1/cryptocurrency/quotes/latest")
	if err != nil {
		return nil, err
	}

	query := endpoint.Query()
	query.Set("symbol", symbol)
	endpoint.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-CMC_PRO_API_KEY", p.apiKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return nil, fmt.Errorf("coinmarketcap error: status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var payload coinMarketCapResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, err
	}

	coin, ok := payload.Data[symbol]
	if !ok || coin.Quote.USD.Price == nil {
		return nil, nil
	}

	snapshot := &PriceSnapshot{
		Price:    *coin.Quote.USD.Price,
		Provider: p.Name(),
	}
	if coin.Quote.USD.MarketCap != nil {
		snapshot.MarketCap = *coin.Quote.USD.MarketCap
	}
	if coin.CMCRank != nil {
		snapshot.Rank = *coin.CMCRank
	}

	return snapshot, nil
}
