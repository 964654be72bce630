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

// CoinGeckoProvider is the primary market-data source. It queries the
// /coins/markets endpoint by coin id.
type CoinGeckoProvider struct {
	baseURL string
	client  *http.Client
}

type coinGeckoMarketRow struct {
	CurrentPrice  *float64 `json:"current_price"`
	MarketCap     *float64 `json:"market_cap"`
	MarketCapRank *int     `json:"market_cap_rank"`
}

func NewCoinGeckoProvider(baseURL string) *CoinGeckoProvider {
	return &CoinGeckoProvider{
		baseURL: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (p *CoinGeckoProvider) Name() string { return "coingecko" }

func (p *CoinGeckoProvider) FetchSnapshot(ctx context.Context, token string) (*PriceSnapshot, error) {
	if strings.TrimSpace(token) == "" {
		return nil, nil
	}

	endpoint, err := url.Parse(p.baseURL + "/coins/markets")
	if err != nil {
		return nil, err
	}

	query := endpoint.Query()
	query.Set("vs_currency", "usd")
	query.Set("ids", token)
	endpoint.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return nil, fmt.Errorf("coingecko error: status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var rows []coinGeckoMarketRow
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 || rows[0].CurrentPrice == nil {
		return nil, nil
	}

	row := rows[0]
	snapshot := &PriceSnapshot{
		Price:    *row.CurrentPrice,
		Provider: p.Name(),
	}
	if row.MarketCap != nil {
		snapshot.MarketCap = *row.MarketCap
	}
	if row.MarketCapRank != nil {
		snapshot.Rank = *row.MarketCapRank
	}

	return snapshot, nil
}
