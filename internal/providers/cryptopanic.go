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

const (
	cryptoPanicDefaultBaseURL = "https://cryptopanic.com/api/v1"
	maxNewsItems              = 3
)

// CryptoPanicProvider fetches recent news posts for a coin symbol.
type CryptoPanicProvider struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

type cryptoPanicResponse struct {
	Results []cryptoPanicPost `json:"results"`
}

type cryptoPanicPost struct {
	Title  string `json:"title"`
	URL    string `json:"url"`
	Source struct {
		Title string `json:"title"`
	} `json:"source"`
}

func NewCryptoPanicProvider(baseURL, apiKey string) *CryptoPanicProvider {
	resolvedBaseURL := strings.TrimRight(baseURL, "/")
	if resolvedBaseURL == "" {
		resolvedBaseURL = cryptoPanicDefaultBaseURL
	}

	return &CryptoPanicProvider{
		baseURL: resolvedBaseURL,
		apiKey:  apiKey,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// FetchNews returns up to three news items in upstream order.
func (p *CryptoPanicProvider) FetchNews(ctx context.Context, token string) ([]NewsItem, error) {
	if strings.TrimSpace(token) == "" {
		return nil, nil
	}

	endpoint, err := url.Parse(p.baseURL + "/posts/")
	if err != nil {
		return nil, err
	}

	query := endpoint.Query()
	query.Set("auth_token", p.apiKey)
	query.Set("currencies", strings.ToUpper(token))
	query.Set("kind", "news")
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
		return nil, fmt.Errorf("cryptopanic error: status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var payload cryptoPanicResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, err
	}

	items := make([]NewsItem, 0, maxNewsItems)
	for _, post := range payload.Results {
		if len(items) == maxNewsItems {
			break
		}
		item := NewsItem{
			Title:  post.Title,
			URL:    post.URL,
			Source: post.Source.Title,
		}
		if item.Title == "" {
			item.Title = "No title"
		}
		if item.URL == "" {
			item.URL = "#"
		}
		if item.Source == "" {
			item.Source = "Unknown"
		}
		items = append(items, item)
	}

	return items, nil
}
